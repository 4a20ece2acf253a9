package xmlsql

import (
	"time"

	"github.com/zoobzio/xmlsql/internal/types"
)

// Lit creates a literal, typing it from its Go value.
func Lit(value any) *Literal {
	return &types.Literal{Value: value, Mapping: mappingOf(value)}
}

// Str creates a string literal.
func Str(s string) *Literal {
	return &types.Literal{Value: s, Mapping: &types.String}
}

// Param creates an unbound parameter. Its type is inferred from the
// argument position it is passed to.
func Param(name string) *Parameter {
	return &types.Parameter{Name: name}
}

// TypedParam creates an unbound parameter of the given mapping.
func TypedParam(name string, m JdbcMapping) *Parameter {
	return &types.Parameter{Name: name, Mapping: &m}
}

// Bind creates a parameter whose value is known at compile time. Dialects
// that cannot take a placeholder in some position render the value inline.
func Bind(name string, value any) *Parameter {
	return &types.Parameter{Name: name, Value: value, Bound: true, Mapping: mappingOf(value)}
}

func mappingOf(value any) *JdbcMapping {
	var m types.JdbcMapping
	switch value.(type) {
	case string:
		m = types.String
	case bool:
		m = types.Boolean
	case int, int32:
		m = types.Integer
	case int64:
		m = types.Long
	case float64:
		m = types.Double
	case time.Time:
		m = types.Timestamp
	default:
		return nil
	}
	return &m
}

// Name creates the element name argument of xmlelement and xmlpi.
func Name(n string) *XmlElementName {
	return &types.XmlElementName{Name: n}
}

// Attr creates an xmlattributes argument holding one attribute. Further
// attributes are appended with Add.
func Attr(name string, value Expression) *XmlAttributes {
	attrs := &types.XmlAttributes{}
	attrs.Add(name, value)
	return attrs
}

// As names an xmlforest item.
func As(e Expression, name string) *NamedExpression {
	return &types.NamedExpression{Name: name, Expression: e}
}

// Concat joins string parts with the dialect's concatenation operator.
func Concat(parts ...Expression) Expression {
	return &types.Concatenation{Parts: parts}
}

// Fn creates a plain function call rendered as name(args...).
func Fn(name string, m *JdbcMapping, args ...Expression) *FunctionExpression {
	return &types.FunctionExpression{Name: name, Arguments: args, ReturnType: m}
}

// =============================================================================
// xmltable columns
// =============================================================================

// Columns creates the columns argument of xmltable.
func Columns(defs ...ColumnDefinition) *XmlTableColumns {
	return &types.XmlTableColumns{Definitions: defs}
}

// Value creates a value column read from the element of the same name.
func Value(name string, m JdbcMapping) *ValueColumn {
	return &types.ValueColumn{Name: name, Target: types.CastTarget{Mapping: m}}
}

// ValueAt creates a value column read through path, sized by length.
// A zero length leaves the size to the dialect.
func ValueAt(name string, m JdbcMapping, length int, path string) *ValueColumn {
	return &types.ValueColumn{Name: name, Target: types.CastTarget{Mapping: m, Length: length}, Path: path}
}

// Fragment creates a query column returning the XML at path.
func Fragment(name, path string) *QueryColumn {
	return &types.QueryColumn{Name: name, Path: path}
}

// Ordinality creates a 1-based row number column.
func Ordinality(name string) *OrdinalityColumn {
	return &types.OrdinalityColumn{Name: name}
}

// =============================================================================
// Predicates
// =============================================================================

// C creates a comparison predicate.
func C(left Expression, op types.Operator, right Expression) Predicate {
	return &types.ComparisonPredicate{Left: left, Operator: op, Right: right}
}

// IsNull tests e for null.
func IsNull(e Expression) Predicate {
	return &types.NullnessPredicate{Expression: e}
}

// NotNull tests e for not null.
func NotNull(e Expression) Predicate {
	return &types.NullnessPredicate{Expression: e, Negated: true}
}

// Holds uses a boolean valued call, such as xmlexists, as a predicate.
func Holds(e Expression) Predicate {
	return &types.BooleanPredicate{Expression: e}
}

// And combines predicates with AND.
func And(predicates ...Predicate) Predicate {
	return &types.Junction{Logic: types.AND, Predicates: predicates}
}

// Or combines predicates with OR.
func Or(predicates ...Predicate) Predicate {
	return &types.Junction{Logic: types.OR, Predicates: predicates}
}

// =============================================================================
// Sorting
// =============================================================================

// Asc sorts e ascending.
func Asc(e Expression) SortSpecification {
	return types.SortSpecification{Expression: e, Order: types.ASC}
}

// Desc sorts e descending.
func Desc(e Expression) SortSpecification {
	return types.SortSpecification{Expression: e, Order: types.DESC}
}

// =============================================================================
// CASE
// =============================================================================

// CaseBuilder provides a fluent API for searched CASE expressions.
type CaseBuilder struct {
	expr *types.CaseSearched
}

// Case starts a searched CASE expression.
func Case() *CaseBuilder {
	return &CaseBuilder{expr: &types.CaseSearched{}}
}

// When adds a WHEN...THEN branch. The first typed result types the case.
func (cb *CaseBuilder) When(p Predicate, result Expression) *CaseBuilder {
	cb.expr.Whens = append(cb.expr.Whens, types.When{Predicate: p, Result: result})
	if cb.expr.Mapping == nil && result != nil {
		cb.expr.Mapping = result.Type()
	}
	return cb
}

// Else sets the ELSE result.
func (cb *CaseBuilder) Else(result Expression) *CaseBuilder {
	cb.expr.Otherwise = result
	return cb
}

// Build returns the expression.
func (cb *CaseBuilder) Build() Expression {
	return cb.expr
}
