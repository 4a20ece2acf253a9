package h2

import (
	"testing"

	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/testkit"
	"github.com/zoobzio/xmlsql/internal/types"
	"github.com/zoobzio/xmlsql/internal/xmlfn"
)

func TestNew(t *testing.T) {
	r := New()
	if _, ok := r.Registry().Find("xmltable"); ok {
		t.Error("H2 should not register xmltable")
	}
	if len(r.Registry().Names()) != 6 {
		t.Errorf("Names() = %v", r.Registry().Names())
	}
}

func TestScalars(t *testing.T) {
	r := New()
	title := testkit.Col("t0", "title", &types.String)
	id := testkit.Col("t0", "id", &types.Integer)
	tests := []struct {
		name     string
		function string
		args     []types.Expression
		expected string
	}{
		{
			"xmlelement", "xmlelement",
			[]types.Expression{
				&types.XmlElementName{Name: "book"},
				&types.XmlAttributes{Names: []string{"id", "lang"}, Values: []types.Expression{id, testkit.Str("en")}},
				title,
				testkit.Str("!"),
			},
			"xmlnode('book',xmlattr('id',t0.id)||xmlattr('lang','en'),t0.title||'!',false)",
		},
		{"xmlelement empty", "xmlelement", []types.Expression{&types.XmlElementName{Name: "e"}}, "xmlnode('e',null,null,false)"},
		{
			"xmlforest", "xmlforest",
			[]types.Expression{title, &types.NamedExpression{Name: "n", Expression: id}},
			"xmlnode('title',null,t0.title,false)||xmlnode('n',null,t0.id,false)",
		},
		{"xmlconcat", "xmlconcat", []types.Expression{title, testkit.Str("<x/>")}, "t0.title||'<x/>'"},
		{"xmlpi bare", "xmlpi", []types.Expression{&types.XmlElementName{Name: "php"}}, "'<?php?>'"},
		{"xmlpi content", "xmlpi", []types.Expression{&types.XmlElementName{Name: "php"}, title}, "'<?php '||t0.title||'?>'"},
		{"xmlcomment", "xmlcomment", []types.Expression{title}, "'<!--'||t0.title||'-->'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := testkit.RenderCall(t, r.Dialect(), testkit.Find(t, r.Registry(), tt.function), xmlfn.Call{}, tt.args...)
			if got != tt.expected {
				t.Errorf("SQL = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestXmlAgg(t *testing.T) {
	arg := testkit.Col("t0", "frag", &types.String)
	call := xmlfn.Call{
		Filter:      &types.NullnessPredicate{Expression: arg, Negated: true},
		WithinGroup: []types.SortSpecification{{Expression: testkit.Col("t0", "id", nil), Order: types.DESC}},
	}

	r := New()
	got := testkit.RenderCall(t, r.Dialect(), testkit.Find(t, r.Registry(), "xmlagg"), call, arg)
	expected := "listagg(t0.frag,'') within group (order by t0.id desc) filter (where t0.frag is not null)"
	if got != expected {
		t.Errorf("SQL = %q, want %q", got, expected)
	}

	r = New(render.WithFilterClause(false))
	got = testkit.RenderCall(t, r.Dialect(), testkit.Find(t, r.Registry(), "xmlagg"), call, arg)
	expected = "listagg(case when t0.frag is not null then t0.frag else null end,'') within group (order by t0.id desc)"
	if got != expected {
		t.Errorf("SQL = %q, want %q", got, expected)
	}
}

func TestXmlElement_RejectsReservedName(t *testing.T) {
	r := New()
	err := testkit.RenderError(t, r.Dialect(), testkit.Find(t, r.Registry(), "xmlelement"), xmlfn.Call{}, &types.XmlElementName{Name: "xmlData"})
	if err == nil {
		t.Fatal("expected an error for a reserved element name")
	}
}
