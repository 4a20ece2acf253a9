package oracle

import (
	"testing"

	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/testkit"
	"github.com/zoobzio/xmlsql/internal/types"
	"github.com/zoobzio/xmlsql/internal/xmlfn"
)

func TestNew(t *testing.T) {
	r := New()
	if r.Name() != "oracle" {
		t.Errorf("Name() = %q, want oracle", r.Name())
	}
	if r.Dialect().MaxVarcharLength() != render.DefaultMaxVarcharLength {
		t.Errorf("MaxVarcharLength() = %d", r.Dialect().MaxVarcharLength())
	}
	if len(r.Registry().Names()) != 9 {
		t.Errorf("Names() = %v", r.Registry().Names())
	}
}

func TestXmlTable_Render(t *testing.T) {
	r := New()
	desc := testkit.Find(t, r.Registry(), "xmltable")
	got := testkit.RenderCall(t, r.Dialect(), desc, xmlfn.Call{}, testkit.Str("/a/b"), &types.ColumnReference{Column: `"doc"`}, testkit.Columns(testkit.Value("x", types.Integer)))
	expected := `xmltable('/a/b' passing xmlparse(document "doc") columns x number(10,0) path 'x')`
	if got != expected {
		t.Errorf("SQL = %q, want %q", got, expected)
	}
}

func TestXmlTable_ColumnSubstitution(t *testing.T) {
	tests := []struct {
		name     string
		opts     []render.Option
		target   types.JdbcMapping
		expected string
	}{
		{"clob", nil, types.Text, "varchar2(4000)"},
		{"clob custom length", []render.Option{render.WithMaxVarcharLength(32767)}, types.Text, "varchar2(32767)"},
		{"encoded boolean", nil, types.Boolean, "varchar2(5)"},
		{"yes no boolean", nil, types.YNBoolean, "char"},
		{"string", nil, types.String, "varchar2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.opts...)
			desc := testkit.Find(t, r.Registry(), "xmltable")
			got := testkit.RenderCall(t, r.Dialect(), desc, xmlfn.Call{}, testkit.Str("/a"), testkit.Col("t0", "doc", &types.XML), testkit.Columns(testkit.Value("c", tt.target)))
			expected := "xmltable('/a' passing t0.doc columns c " + tt.expected + " path 'c')"
			if got != expected {
				t.Errorf("SQL = %q, want %q", got, expected)
			}
		})
	}
}

func TestResolver_BooleanDecode(t *testing.T) {
	r := New()
	cols := testkit.Columns(
		testkit.Value("flag", types.Boolean),
		testkit.Value("yn", types.YNBoolean),
		&types.QueryColumn{Name: "frag"},
		&types.OrdinalityColumn{Name: "pos"},
	)
	mappings := testkit.Resolve(t, r.Dialect(), r.Registry(), testkit.Str("/r"), testkit.Col("t0", "doc", &types.XML), cols)
	testkit.ExpectShapes(t, cols, mappings)

	if mappings[0].ReadExpression != "decode({@}.flag,'true',1,'false',0)" {
		t.Errorf("flag read expression = %q", mappings[0].ReadExpression)
	}
	if mappings[0].ColumnType != "varchar2(5)" {
		t.Errorf("flag column type = %q", mappings[0].ColumnType)
	}
	testkit.DecodeRoundTrip(t, r.Dialect(), mappings[0])

	if mappings[1].ReadExpression != "" {
		t.Errorf("yn read expression = %q, want none", mappings[1].ReadExpression)
	}
	if mappings[3].ColumnType != "number(19,0)" {
		t.Errorf("pos column type = %q", mappings[3].ColumnType)
	}
}

func TestScalars(t *testing.T) {
	r := New()
	tests := []struct {
		function string
		args     []types.Expression
		expected string
	}{
		{"xmlquery", []types.Expression{testkit.Str("/a"), testkit.Col("t0", "doc", &types.XML)}, "xmlquery('/a' passing t0.doc returning content)"},
		{"xmlquery", []types.Expression{testkit.Str("/a"), testkit.Col("t0", "txt", &types.String)}, "xmlquery('/a' passing xmlparse(document t0.txt) returning content)"},
		{"xmlexists", []types.Expression{testkit.Str("/a"), testkit.Col("t0", "doc", &types.XML)}, "xmlexists('/a' passing t0.doc)"},
		{"xmlpi", []types.Expression{&types.XmlElementName{Name: "app"}}, `xmlpi(name "app")`},
	}
	for _, tt := range tests {
		t.Run(tt.function, func(t *testing.T) {
			got := testkit.RenderCall(t, r.Dialect(), testkit.Find(t, r.Registry(), tt.function), xmlfn.Call{}, tt.args...)
			if got != tt.expected {
				t.Errorf("SQL = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestXmlAgg_WithinGroup(t *testing.T) {
	r := New()
	call := xmlfn.Call{
		Filter:      &types.ComparisonPredicate{Left: testkit.Col("t0", "kind", nil), Operator: types.EQ, Right: testkit.Str("a")},
		WithinGroup: []types.SortSpecification{{Expression: testkit.Col("t0", "id", nil), Order: types.DESC}},
	}
	got := testkit.RenderCall(t, r.Dialect(), testkit.Find(t, r.Registry(), "xmlagg"), call, testkit.Col("t0", "x", &types.XML))
	expected := "xmlagg(case when t0.kind='a' then t0.x else null end order by t0.id desc)"
	if got != expected {
		t.Errorf("SQL = %q, want %q", got, expected)
	}
}
