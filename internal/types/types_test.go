package types

import (
	"testing"
)

// =============================================================================
// Mapping Tests
// =============================================================================

func TestJdbcMapping_IsBoolean(t *testing.T) {
	tests := []struct {
		mapping JdbcMapping
		want    bool
	}{
		{Boolean, true},
		{TFBoolean, true},
		{YNBoolean, true},
		{IntegerBoolean, true},
		{Integer, false},
		{String, false},
		{XML, false},
	}
	for _, tt := range tests {
		if got := tt.mapping.IsBoolean(); got != tt.want {
			t.Errorf("%s.IsBoolean() = %v, want %v", tt.mapping.Name, got, tt.want)
		}
	}
}

func TestJdbcMapping_IsXML(t *testing.T) {
	if !XML.IsXML() {
		t.Error("XML.IsXML() = false, want true")
	}
	if !XMLString.IsXML() {
		t.Error("XMLString.IsXML() = false, want true")
	}
	if String.IsXML() {
		t.Error("String.IsXML() = true, want false")
	}
}

func TestJdbcMapping_IsNumeric(t *testing.T) {
	for _, m := range []JdbcMapping{Short, Integer, Long, Double, Decimal} {
		if !m.IsNumeric() {
			t.Errorf("%s.IsNumeric() = false, want true", m.Name)
		}
	}
	for _, m := range []JdbcMapping{String, Text, Boolean, IntegerBoolean, XML, {}} {
		if m.IsNumeric() {
			t.Errorf("%s.IsNumeric() = true, want false", m.Name)
		}
	}
}

func TestJdbcMapping_RelationalRoundTrip(t *testing.T) {
	for _, m := range []JdbcMapping{Boolean, TFBoolean, YNBoolean, IntegerBoolean} {
		for _, b := range []bool{true, false} {
			got, ok := m.FromRelational(m.ToRelational(b))
			if !ok {
				t.Fatalf("%s: FromRelational(%v) not recognised", m.Name, m.ToRelational(b))
			}
			if got != b {
				t.Errorf("%s: round trip of %v = %v", m.Name, b, got)
			}
		}
	}
}

func TestJdbcMapping_ToRelational(t *testing.T) {
	if got := TFBoolean.ToRelational(true); got != "T" {
		t.Errorf("TFBoolean.ToRelational(true) = %v, want T", got)
	}
	if got := YNBoolean.ToRelational(false); got != "N" {
		t.Errorf("YNBoolean.ToRelational(false) = %v, want N", got)
	}
	if got := IntegerBoolean.ToRelational(true); got != 1 {
		t.Errorf("IntegerBoolean.ToRelational(true) = %v, want 1", got)
	}
	if got := Boolean.ToRelational(false); got != false {
		t.Errorf("Boolean.ToRelational(false) = %v, want false", got)
	}
}

// =============================================================================
// Column Definition Tests
// =============================================================================

func TestColumnDefinition_PathDefaultsToName(t *testing.T) {
	v := &ValueColumn{Name: "x"}
	if got := v.XPath(); got != "x" {
		t.Errorf("ValueColumn.XPath() = %q, want %q", got, "x")
	}
	q := &QueryColumn{Name: "frag", Path: "a/b"}
	if got := q.XPath(); got != "a/b" {
		t.Errorf("QueryColumn.XPath() = %q, want %q", got, "a/b")
	}
}

func TestColumnDefinition_Shapes(t *testing.T) {
	defs := []ColumnDefinition{
		&ValueColumn{Name: "a"},
		&QueryColumn{Name: "b"},
		&OrdinalityColumn{Name: "c"},
	}
	want := []ColumnShape{ShapeValue, ShapeQuery, ShapeOrdinality}
	for i, d := range defs {
		if d.Shape() != want[i] {
			t.Errorf("defs[%d].Shape() = %s, want %s", i, d.Shape(), want[i])
		}
	}
}

func TestTupleType_Find(t *testing.T) {
	tt := TupleType{Mappings: []SelectableMapping{{Name: "a"}, {Name: "b"}}}
	if _, ok := tt.Find("b"); !ok {
		t.Error("Find(b) not found")
	}
	if _, ok := tt.Find("z"); ok {
		t.Error("Find(z) found")
	}
	names := tt.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names() = %v", names)
	}
}

// =============================================================================
// Tree Walk Tests
// =============================================================================

func TestCollectQualifiers(t *testing.T) {
	expr := &FunctionExpression{
		Name: "xmlelement",
		Arguments: []Expression{
			&XmlElementName{Name: "e"},
			&ColumnReference{Qualifier: "t0", Column: "a"},
			&ColumnReference{Qualifier: "t1", Column: "b"},
			&ColumnReference{Qualifier: "t0", Column: "c"},
		},
	}
	got := CollectQualifiers(expr)
	if len(got) != 2 || got[0] != "t0" || got[1] != "t1" {
		t.Errorf("CollectQualifiers() = %v, want [t0 t1]", got)
	}
}

func TestContainsFunction(t *testing.T) {
	inner := &FunctionExpression{Name: "xmlforest"}
	outer := &FunctionExpression{Name: "xmlconcat", Arguments: []Expression{inner}}
	if !ContainsFunction(outer, "xmlelement", "xmlforest") {
		t.Error("ContainsFunction() = false, want true")
	}
	if ContainsFunction(outer, "xmlpi") {
		t.Error("ContainsFunction(xmlpi) = true, want false")
	}
}

// =============================================================================
// Query Model Tests
// =============================================================================

func TestQuerySpec_FindJoin(t *testing.T) {
	fn := &TableGroup{Alias: "x1_0", Function: &FunctionExpression{Name: "xmltable"}}
	root := &TableGroup{Alias: "t0", Table: "docs"}
	root.AddJoin(&TableGroupJoin{Type: JoinCross, Group: fn})
	q := &QuerySpec{From: []*TableGroup{root}}

	if q.FindTableGroup("x1_0") != fn {
		t.Error("FindTableGroup(x1_0) did not return the function group")
	}
	owner, join := q.FindJoin("x1_0")
	if owner != root || join == nil {
		t.Fatal("FindJoin(x1_0) did not return the owning join")
	}

	join.ApplyPredicate(&ComparisonPredicate{Left: &Literal{Value: 1}, Operator: EQ, Right: &Literal{Value: 1}})
	if join.Type != JoinInner {
		t.Errorf("join.Type = %v, want JoinInner", join.Type)
	}
}

func TestClauseStack(t *testing.T) {
	var s ClauseStack
	if s.Current() != ClauseNone {
		t.Errorf("Current() = %v, want ClauseNone", s.Current())
	}
	s.Push(ClauseSelect)
	s.Push(ClauseWhere)
	if s.Current() != ClauseWhere {
		t.Errorf("Current() = %v, want ClauseWhere", s.Current())
	}
	s.Pop()
	if s.Current() != ClauseSelect {
		t.Errorf("Current() = %v, want ClauseSelect", s.Current())
	}
	s.Pop()
	s.Pop()
	if s.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", s.Depth())
	}
}

func TestConjunction(t *testing.T) {
	if Conjunction(nil, nil) != nil {
		t.Error("Conjunction(nil, nil) != nil")
	}
	p := &NullnessPredicate{Expression: &Literal{Value: 1}}
	if Conjunction(nil, p) != p {
		t.Error("Conjunction(nil, p) != p")
	}
	j, ok := Conjunction(p, p).(*Junction)
	if !ok || len(j.Predicates) != 2 {
		t.Errorf("Conjunction(p, p) = %#v", j)
	}
}
