package xmlfn

import (
	"fmt"

	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/types"
)

// IsXmlType reports whether an expression is statically typed as XML.
// Every renderer that decides whether to inject a parse or cast uses it.
func IsXmlType(e types.Expression) bool {
	if e == nil {
		return false
	}
	t := e.Type()
	return t != nil && t.IsXML()
}

// XmlTableArguments is the positional bundle of an xmltable call:
// xpath, document, columns.
type XmlTableArguments struct {
	XPath     types.Expression
	Document  types.Expression
	IsXmlType bool
	Columns   *types.XmlTableColumns
}

// ExtractXmlTableArguments builds the bundle. isXml decides the IsXmlType flag.
func ExtractXmlTableArguments(args []types.Expression, isXml func(types.Expression) bool) XmlTableArguments {
	var a XmlTableArguments
	if len(args) > 0 {
		a.XPath = args[0]
	}
	if len(args) > 1 {
		a.Document = args[1]
		a.IsXmlType = isXml(args[1])
	}
	if len(args) > 2 {
		a.Columns, _ = args[2].(*types.XmlTableColumns)
	}
	if a.Columns == nil {
		a.Columns = &types.XmlTableColumns{}
	}
	return a
}

// XmlElementArguments is the positional bundle of an xmlelement call:
// name, optional attributes, content.
type XmlElementArguments struct {
	Name       string
	Attributes *types.XmlAttributes
	Content    []types.Expression
}

// ExtractXmlElementArguments builds the bundle.
func ExtractXmlElementArguments(args []types.Expression) XmlElementArguments {
	var a XmlElementArguments
	if len(args) == 0 {
		return a
	}
	if n, ok := args[0].(*types.XmlElementName); ok {
		a.Name = n.Name
	}
	rest := args[1:]
	if len(rest) > 0 {
		if attrs, ok := rest[0].(*types.XmlAttributes); ok {
			a.Attributes = attrs
			rest = rest[1:]
		}
	}
	a.Content = rest
	return a
}

// ForestItem is one element of an xmlforest call.
type ForestItem struct {
	Name       string
	Expression types.Expression
}

// ExtractForestItems names each xmlforest argument. Column references
// without an explicit name use the column name.
func ExtractForestItems(args []types.Expression) []ForestItem {
	items := make([]ForestItem, 0, len(args))
	for _, arg := range args {
		switch n := arg.(type) {
		case *types.NamedExpression:
			items = append(items, ForestItem{Name: n.Name, Expression: n.Expression})
		case *types.ColumnReference:
			items = append(items, ForestItem{Name: n.Column, Expression: n})
		}
	}
	return items
}

// StaticValue returns the compile-time value of a literal or a bound
// parameter. Walkers expose the same rule through LiteralValue; this form
// serves code that runs before rendering.
func StaticValue(e types.Expression) (any, bool) {
	switch n := e.(type) {
	case *types.Literal:
		return n.Value, true
	case *types.Parameter:
		if n.Bound {
			return n.Value, true
		}
	}
	return nil, false
}

// StaticXPath extracts a string XPath through the walker's literal rules.
func StaticXPath(w types.Walker, function string, e types.Expression) (string, error) {
	v, err := w.LiteralValue(e)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", render.LiteralExtractionError{
			Expression: types.Describe(e),
			Reason:     fmt.Sprintf("%s xpath must be a string, got %T", function, v),
		}
	}
	return s, nil
}
