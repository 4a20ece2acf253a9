package sybase

import (
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/zoobzio/xmlsql/internal/query"
	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/testkit"
	"github.com/zoobzio/xmlsql/internal/types"
	"github.com/zoobzio/xmlsql/internal/xmlfn"
)

func TestNew(t *testing.T) {
	r := New()
	names := r.Registry().Names()
	want := []string{"xmlexists", "xmlquery", "xmltable"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestXmlTable_Render(t *testing.T) {
	r := New()
	desc := testkit.Find(t, r.Registry(), "xmltable")
	got := testkit.RenderCall(t, r.Dialect(), desc, xmlfn.Call{}, testkit.Str("/a/b"), &types.ColumnReference{Column: `"doc"`}, testkit.Columns(testkit.Value("x", types.Integer)))
	expected := `xmltable('/a/b' passing "doc" columns x int path 'x')`
	if got != expected {
		t.Errorf("SQL = %q, want %q", got, expected)
	}
}

func TestXmlTable_QueryColumnBecomesOrdinality(t *testing.T) {
	r := New()
	desc := testkit.Find(t, r.Registry(), "xmltable")
	cols := testkit.Columns(testkit.Value("id", types.Integer), &types.QueryColumn{Name: "frag", Path: "item"})
	got := testkit.RenderCall(t, r.Dialect(), desc, xmlfn.Call{}, testkit.Str("/a"), testkit.Col("t0", "doc", &types.Text), cols)
	expected := "xmltable('/a' passing t0.doc columns id int path 'id',frag bigint for ordinality)"
	if got != expected {
		t.Errorf("SQL = %q, want %q", got, expected)
	}
}

func TestResolver_QueryColumnReadExpression(t *testing.T) {
	r := New()
	cols := testkit.Columns(
		testkit.Value("id", types.Integer),
		&types.QueryColumn{Name: "frag", Path: "item"},
		&types.OrdinalityColumn{Name: "pos"},
	)
	mappings := testkit.Resolve(t, r.Dialect(), r.Registry(), testkit.Str("/a"), testkit.Col("t0", "doc", &types.Text), cols)
	testkit.ExpectShapes(t, cols, mappings)

	expected := "xmlextract('/a['+cast({@}.frag as varchar(10))+']/item',t0.doc)"
	if mappings[1].ReadExpression != expected {
		t.Errorf("ReadExpression = %q, want %q", mappings[1].ReadExpression, expected)
	}
	if mappings[1].ColumnType != "bigint" {
		t.Errorf("ColumnType = %q, want bigint", mappings[1].ColumnType)
	}

	ref := &types.ColumnReference{Qualifier: "x1_0", Column: "frag", ReadExpression: mappings[1].ReadExpression}
	tr := render.NewTranslator(r.Dialect())
	if err := tr.Render(ref, types.RenderNormal); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if tr.SQL() != "xmlextract('/a['+cast(x1_0.frag as varchar(10))+']/item',t0.doc)" {
		t.Errorf("SQL = %q", tr.SQL())
	}
}

func TestResolver_LiteralDocument(t *testing.T) {
	r := New()
	cols := testkit.Columns(&types.QueryColumn{Name: "frag"})
	mappings := testkit.Resolve(t, r.Dialect(), r.Registry(), &types.Parameter{Name: "p", Value: "/r", Bound: true}, testkit.Str("<r/>"), cols)
	expected := "xmlextract('/r['+cast({@}.frag as varchar(10))+']/frag','<r/>')"
	if mappings[0].ReadExpression != expected {
		t.Errorf("ReadExpression = %q, want %q", mappings[0].ReadExpression, expected)
	}
}

func TestResolver_RejectsDynamicArguments(t *testing.T) {
	r := New()
	desc := testkit.Find(t, r.Registry(), "xmltable").(xmlfn.SetReturning)
	tests := []struct {
		name string
		args []types.Expression
	}{
		{"parameter xpath", []types.Expression{&types.Parameter{Name: "p"}, testkit.Col("t0", "doc", nil), testkit.Columns(&types.QueryColumn{Name: "q"})}},
		{"computed document", []types.Expression{
			testkit.Str("/a"),
			&types.Concatenation{Parts: []types.Expression{testkit.Str("<r>"), testkit.Col("t0", "doc", nil), testkit.Str("</r>")}},
			testkit.Columns(&types.QueryColumn{Name: "q"}),
		}},
		{"default", []types.Expression{testkit.Str("/a"), testkit.Col("t0", "doc", nil), testkit.Columns(&types.QueryColumn{Name: "q", Default: testkit.Str("<q/>")})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := query.New(r.Dialect(), nil, zaptest.NewLogger(t))
			_, err := desc.ResolveFunctionReturnType(ctx, tt.args, xmlfn.Call{})
			var qcErr render.QueryConstructionError
			if !errors.As(err, &qcErr) {
				t.Fatalf("expected QueryConstructionError, got %v", err)
			}
		})
	}
}

func TestScalars(t *testing.T) {
	r := New()
	doc := testkit.Col("t0", "doc", &types.Text)
	got := testkit.RenderCall(t, r.Dialect(), testkit.Find(t, r.Registry(), "xmlquery"), xmlfn.Call{}, testkit.Str("/a"), doc)
	if got != "xmlextract('/a',t0.doc)" {
		t.Errorf("xmlquery SQL = %q", got)
	}
	got = testkit.RenderCall(t, r.Dialect(), testkit.Find(t, r.Registry(), "xmlexists"), xmlfn.Call{}, testkit.Str("/a"), doc)
	if got != "xmltest('/a' passing t0.doc)" {
		t.Errorf("xmlexists SQL = %q", got)
	}
}
