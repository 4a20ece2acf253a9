package types

import (
	"fmt"
	"strings"
)

// Expression is any node that renders to a SQL value.
type Expression interface {
	// Type returns the static type of the expression, or nil when unknown.
	Type() *JdbcMapping
}

// Predicate is a boolean-valued expression.
type Predicate interface {
	Expression
	IsPredicate()
}

// Literal is a compile-time constant.
type Literal struct {
	Value   any
	Mapping *JdbcMapping
}

func (l *Literal) Type() *JdbcMapping { return l.Mapping }

func (l *Literal) String() string { return fmt.Sprintf("literal(%v)", l.Value) }

// FunctionExpression is a function call bound to a dialect renderer.
type FunctionExpression struct {
	Name        string
	Arguments   []Expression
	Renderer    FunctionRenderer
	ReturnType  *JdbcMapping
	Filter      Predicate
	WithinGroup []SortSpecification
}

func (f *FunctionExpression) Type() *JdbcMapping { return f.ReturnType }

func (f *FunctionExpression) String() string { return f.Name + "(...)" }

// When is one branch of a searched case.
type When struct {
	Predicate Predicate
	Result    Expression
}

// CaseSearched is a "case when ... then ... end" expression.
type CaseSearched struct {
	Whens     []When
	Otherwise Expression
	Mapping   *JdbcMapping
}

func (c *CaseSearched) Type() *JdbcMapping { return c.Mapping }

// Concatenation joins string-valued parts with the dialect's concat operator.
type Concatenation struct {
	Parts []Expression
}

func (c *Concatenation) Type() *JdbcMapping { return &String }

// XmlElementName is the "name" argument of xmlelement.
type XmlElementName struct {
	Name string
}

func (*XmlElementName) Type() *JdbcMapping { return nil }

func (n *XmlElementName) String() string { return "name " + n.Name }

// XmlAttributes is the ordered "xmlattributes(...)" argument of xmlelement.
type XmlAttributes struct {
	Names  []string
	Values []Expression
}

func (*XmlAttributes) Type() *JdbcMapping { return nil }

// Add appends an attribute, keeping insertion order.
func (a *XmlAttributes) Add(name string, value Expression) {
	a.Names = append(a.Names, name)
	a.Values = append(a.Values, value)
}

// NamedExpression is an expression with an explicit element name, as used
// by xmlforest.
type NamedExpression struct {
	Name       string
	Expression Expression
}

func (n *NamedExpression) Type() *JdbcMapping { return n.Expression.Type() }

// Describe renders a short human readable form of an expression for errors.
func Describe(e Expression) string {
	if e == nil {
		return "<nil>"
	}
	if s, ok := e.(fmt.Stringer); ok {
		return s.String()
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", e), "*types.")
}
