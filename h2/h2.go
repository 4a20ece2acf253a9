// Package h2 provides the H2 dialect renderer for xmlsql.
//
// H2 has no xml type. Its XML functions build strings: xmlnode creates an
// element, xmlattr an attribute, and documents are concatenated with ||.
package h2

import (
	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/types"
	"github.com/zoobzio/xmlsql/internal/xmlfn"
)

// Name identifies the dialect.
const Name = "h2"

var config = render.DialectConfig{
	Name: Name,
	Capabilities: render.Capabilities{
		FilterClause:       true,
		ParametersInSelect: true,
	},
	TypeNames: map[types.SQLType]string{
		types.SQLBoolean:   "boolean",
		types.SQLTinyInt:   "tinyint",
		types.SQLSmallInt:  "smallint",
		types.SQLInteger:   "integer",
		types.SQLBigInt:    "bigint",
		types.SQLNumeric:   "numeric($p,$s)",
		types.SQLDouble:    "double precision",
		types.SQLChar:      "char($l)",
		types.SQLVarchar:   "varchar($l)",
		types.SQLNVarchar:  "varchar($l)",
		types.SQLClob:      "clob",
		types.SQLNClob:     "clob",
		types.SQLDate:      "date",
		types.SQLTimestamp: "timestamp($p)",
		types.SQLXML:       "varchar",
	},
	TrueLiteral:      "true",
	FalseLiteral:     "false",
	TimestampPattern: "timestamp '%s'",
	DatePattern:      "date '%s'",
	MaxVarcharLength: 1000000000,
}

// Renderer implements the H2 dialect.
type Renderer struct {
	dialect  *render.Dialect
	registry *xmlfn.Registry
}

// New creates a new H2 renderer.
func New(opts ...render.Option) *Renderer {
	d := render.NewDialect(config, opts...)
	return &Renderer{
		dialect: d,
		registry: xmlfn.NewRegistry(Name,
			xmlfn.NewXmlElement(xmlElement{}),
			xmlfn.NewXmlForest(xmlForest{}),
			xmlfn.NewXmlConcat(xmlConcat{}),
			xmlfn.NewXmlPi(xmlPi{}),
			xmlfn.NewXmlComment(xmlComment{}),
			xmlfn.NewXmlAgg(xmlAgg{}),
		),
	}
}

// Name returns the dialect name.
func (r *Renderer) Name() string { return Name }

// Dialect returns the dialect configuration.
func (r *Renderer) Dialect() *render.Dialect { return r.dialect }

// Registry returns the XML functions H2 supports.
func (r *Renderer) Registry() *xmlfn.Registry { return r.registry }

// Render converts a query to H2 SQL.
func (r *Renderer) Render(q *types.QuerySpec) (*types.QueryResult, error) {
	return render.NewTranslator(r.dialect).RenderQuery(q)
}

// Capabilities returns the SQL features supported by H2.
func (r *Renderer) Capabilities() render.Capabilities {
	return r.dialect.Capabilities()
}

// renderJoined renders each expression separated by ||, or null when empty.
func renderJoined(w types.Walker, exprs []types.Expression) error {
	if len(exprs) == 0 {
		w.AppendSQL("null")
		return nil
	}
	for i, e := range exprs {
		if i > 0 {
			w.AppendSQL("||")
		}
		if err := w.Render(e, types.RenderNormal); err != nil {
			return err
		}
	}
	return nil
}

// renderNode writes xmlnode('name',<attributes>,<content>,false).
func renderNode(w types.Walker, name string, attrs *types.XmlAttributes, content []types.Expression) error {
	w.AppendSQL("xmlnode(")
	w.AppendSingleQuoteEscapedString(name)
	w.AppendSQL(",")
	if attrs == nil || len(attrs.Names) == 0 {
		w.AppendSQL("null")
	} else {
		for i, attr := range attrs.Names {
			if i > 0 {
				w.AppendSQL("||")
			}
			w.AppendSQL("xmlattr(")
			w.AppendSingleQuoteEscapedString(attr)
			w.AppendSQL(",")
			if err := w.Render(attrs.Values[i], types.RenderNormal); err != nil {
				return err
			}
			w.AppendSQL(")")
		}
	}
	w.AppendSQL(",")
	if err := renderJoined(w, content); err != nil {
		return err
	}
	w.AppendSQL(",false)")
	return nil
}

type xmlElement struct{}

func (xmlElement) Render(w types.Walker, fn *types.FunctionExpression) error {
	args := xmlfn.ExtractXmlElementArguments(fn.Arguments)
	return renderNode(w, args.Name, args.Attributes, args.Content)
}

// xmlForest concatenates one xmlnode per item.
type xmlForest struct{}

func (xmlForest) Render(w types.Walker, fn *types.FunctionExpression) error {
	for i, item := range xmlfn.ExtractForestItems(fn.Arguments) {
		if i > 0 {
			w.AppendSQL("||")
		}
		if err := renderNode(w, item.Name, nil, []types.Expression{item.Expression}); err != nil {
			return err
		}
	}
	return nil
}

type xmlConcat struct{}

func (xmlConcat) Render(w types.Walker, fn *types.FunctionExpression) error {
	return renderJoined(w, fn.Arguments)
}

type xmlPi struct{}

func (xmlPi) Render(w types.Walker, fn *types.FunctionExpression) error {
	target := xmlfn.PiTarget(fn)
	if len(fn.Arguments) < 2 {
		w.AppendSingleQuoteEscapedString("<?" + target + "?>")
		return nil
	}
	w.AppendSingleQuoteEscapedString("<?" + target + " ")
	w.AppendSQL("||")
	if err := w.Render(fn.Arguments[1], types.RenderNormal); err != nil {
		return err
	}
	w.AppendSQL("||'?>'")
	return nil
}

type xmlComment struct{}

func (xmlComment) Render(w types.Walker, fn *types.FunctionExpression) error {
	w.AppendSQL("'<!--'||")
	if err := w.Render(fn.Arguments[0], types.RenderNormal); err != nil {
		return err
	}
	w.AppendSQL("||'-->'")
	return nil
}

// xmlAgg concatenates the strings with listagg.
type xmlAgg struct{}

func (xmlAgg) Render(w types.Walker, fn *types.FunctionExpression) error {
	emulate := !w.Dialect().SupportsFilterClause()
	w.AppendSQL("listagg(")
	if err := xmlfn.RenderFilteredArgument(w, fn.Arguments[0], fn.Filter, emulate); err != nil {
		return err
	}
	w.AppendSQL(",'')")
	if err := xmlfn.RenderOrderBy(w, " within group (order by ", fn.WithinGroup); err != nil {
		return err
	}
	if len(fn.WithinGroup) > 0 {
		w.AppendSQL(")")
	}
	if !emulate {
		return xmlfn.RenderFilterClause(w, fn.Filter)
	}
	return nil
}
