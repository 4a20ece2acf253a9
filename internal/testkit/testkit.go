// Package testkit holds helpers shared by the dialect test suites.
package testkit

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/zoobzio/xmlsql/internal/query"
	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/types"
	"github.com/zoobzio/xmlsql/internal/xmlfn"
)

// Col builds a typed column reference.
func Col(qualifier, column string, m *types.JdbcMapping) *types.ColumnReference {
	return &types.ColumnReference{Qualifier: qualifier, Column: column, Mapping: m}
}

// Str builds a string literal.
func Str(s string) *types.Literal {
	return &types.Literal{Value: s, Mapping: &types.String}
}

// Columns builds a columns clause.
func Columns(defs ...types.ColumnDefinition) *types.XmlTableColumns {
	return &types.XmlTableColumns{Definitions: defs}
}

// Value builds a VALUE column of the given mapping.
func Value(name string, m types.JdbcMapping) *types.ValueColumn {
	return &types.ValueColumn{Name: name, Target: types.CastTarget{Mapping: m}}
}

// Find returns a registered descriptor or fails the test.
func Find(t *testing.T, r *xmlfn.Registry, name string) xmlfn.Descriptor {
	t.Helper()
	desc, ok := r.Find(name)
	if !ok {
		t.Fatalf("%s: function %s not registered", r.Dialect(), name)
	}
	return desc
}

// RenderCall generates a call against a fresh compilation and renders the
// function node on its own.
func RenderCall(t *testing.T, d *render.Dialect, desc xmlfn.Descriptor, call xmlfn.Call, args ...types.Expression) string {
	t.Helper()
	ctx := query.New(d, nil, zaptest.NewLogger(t))
	fn, err := desc.Generate(ctx, args, call)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := ctx.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	tr := render.NewTranslator(d)
	if err := tr.Render(fn, types.RenderNormal); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if depth := tr.ClauseStack().Depth(); depth != 0 {
		t.Errorf("clause stack depth = %d after render, want 0", depth)
	}
	return tr.SQL()
}

// RenderError generates and renders a call, returning the first error.
func RenderError(t *testing.T, d *render.Dialect, desc xmlfn.Descriptor, call xmlfn.Call, args ...types.Expression) error {
	t.Helper()
	ctx := query.New(d, nil, zaptest.NewLogger(t))
	fn, err := desc.Generate(ctx, args, call)
	if err != nil {
		return err
	}
	if _, err := ctx.Finalize(); err != nil {
		return err
	}
	return render.NewTranslator(d).Render(fn, types.RenderNormal)
}

// Resolve computes the selectable mappings of an xmltable call.
func Resolve(t *testing.T, d *render.Dialect, r *xmlfn.Registry, args ...types.Expression) []types.SelectableMapping {
	t.Helper()
	desc, ok := Find(t, r, "xmltable").(xmlfn.SetReturning)
	if !ok {
		t.Fatalf("%s: xmltable is not set-returning", r.Dialect())
	}
	mappings, err := desc.ResolveFunctionReturnType(query.New(d, nil, zaptest.NewLogger(t)), args, xmlfn.Call{})
	if err != nil {
		t.Fatalf("ResolveFunctionReturnType() error = %v", err)
	}
	return mappings
}

// ExpectShapes asserts the mappings follow the definitions one to one.
func ExpectShapes(t *testing.T, cols *types.XmlTableColumns, mappings []types.SelectableMapping) {
	t.Helper()
	if len(mappings) != len(cols.Definitions) {
		t.Fatalf("got %d mappings for %d columns", len(mappings), len(cols.Definitions))
	}
	for i, def := range cols.Definitions {
		if mappings[i].Name != def.ColumnName() {
			t.Errorf("mappings[%d].Name = %q, want %q", i, mappings[i].Name, def.ColumnName())
		}
		switch def.Shape() {
		case types.ShapeQuery:
			if !mappings[i].Mapping.IsXML() {
				t.Errorf("mappings[%d] is not XML typed", i)
			}
		case types.ShapeOrdinality:
			if mappings[i].Mapping.SQLType != types.SQLBigInt {
				t.Errorf("mappings[%d] is not a long", i)
			}
		}
	}
}

// DecodeRoundTrip checks that a boolean decode read expression maps 'true'
// and 'false' to the dialect literals of m and that those literals decode
// back to the original boolean.
func DecodeRoundTrip(t *testing.T, d types.Dialect, m types.SelectableMapping) {
	t.Helper()
	for _, b := range []bool{true, false} {
		raw := m.Mapping.ToRelational(b)
		lit, err := d.FormatLiteral(raw, &m.Mapping)
		if err != nil {
			t.Fatalf("FormatLiteral(%v) error = %v", raw, err)
		}
		text := "'false',"
		if b {
			text = "'true',"
		}
		if !strings.Contains(m.ReadExpression, text+lit) {
			t.Errorf("read expression %q does not map %s to %s", m.ReadExpression, text, lit)
		}
		back, ok := m.Mapping.FromRelational(raw)
		if !ok || back != b {
			t.Errorf("%s: %v decoded to %v", m.Mapping.Name, raw, back)
		}
	}
}
