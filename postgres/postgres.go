// Package postgres provides the PostgreSQL dialect renderer for xmlsql.
package postgres

import (
	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/types"
	"github.com/zoobzio/xmlsql/internal/xmlfn"
)

// Name identifies the dialect.
const Name = "postgresql"

var config = render.DialectConfig{
	Name: Name,
	Capabilities: render.Capabilities{
		FilterClause:       true,
		ParametersInSelect: true,
	},
	TypeNames: map[types.SQLType]string{
		types.SQLBoolean:   "boolean",
		types.SQLTinyInt:   "smallint",
		types.SQLSmallInt:  "smallint",
		types.SQLInteger:   "integer",
		types.SQLBigInt:    "bigint",
		types.SQLNumeric:   "numeric($p,$s)",
		types.SQLDouble:    "float(53)",
		types.SQLChar:      "char($l)",
		types.SQLVarchar:   "varchar($l)",
		types.SQLNVarchar:  "varchar($l)",
		types.SQLClob:      "text",
		types.SQLNClob:     "text",
		types.SQLDate:      "date",
		types.SQLTimestamp: "timestamp($p)",
		types.SQLXML:       "xml",
	},
	TrueLiteral:      "true",
	FalseLiteral:     "false",
	TimestampPattern: "timestamp '%s'",
	DatePattern:      "date '%s'",
	MaxVarcharLength: 10485760,
}

// Renderer implements the PostgreSQL dialect.
type Renderer struct {
	dialect  *render.Dialect
	registry *xmlfn.Registry
}

// New creates a new PostgreSQL renderer.
func New(opts ...render.Option) *Renderer {
	d := render.NewDialect(config, opts...)
	return &Renderer{
		dialect: d,
		registry: xmlfn.NewRegistry(Name,
			xmlfn.NewXmlTable(newXmlTable(), xmlfn.NewStandardResolver()),
			xmlfn.NewXmlElement(xmlfn.StandardXmlElement{}),
			xmlfn.NewXmlForest(xmlfn.StandardXmlForest{}),
			xmlfn.NewXmlConcat(xmlfn.StandardXmlConcat{}),
			xmlfn.NewXmlPi(xmlfn.StandardXmlPi{}),
			xmlfn.NewXmlComment(xmlfn.StandardXmlComment{}),
			xmlfn.NewXmlQuery(xmlQuery{}),
			xmlfn.NewXmlExists(xmlfn.StandardXmlExists{}),
			xmlfn.NewXmlAgg(xmlfn.StandardXmlAgg{}),
		),
	}
}

// Name returns the dialect name.
func (r *Renderer) Name() string { return Name }

// Dialect returns the dialect configuration.
func (r *Renderer) Dialect() *render.Dialect { return r.dialect }

// Registry returns the XML functions PostgreSQL supports.
func (r *Renderer) Registry() *xmlfn.Registry { return r.registry }

// Render converts a query to PostgreSQL SQL.
func (r *Renderer) Render(q *types.QuerySpec) (*types.QueryResult, error) {
	return render.NewTranslator(r.dialect).RenderQuery(q)
}

// Capabilities returns the SQL features supported by PostgreSQL.
func (r *Renderer) Capabilities() render.Capabilities {
	return r.dialect.Capabilities()
}

// xmlTable parses non-XML defaults of QUERY columns, which PostgreSQL
// would otherwise reject as a type mismatch.
type xmlTable struct {
	*xmlfn.StandardXmlTable
}

func newXmlTable() *xmlTable {
	t := &xmlTable{StandardXmlTable: xmlfn.NewStandardXmlTable()}
	t.Bind(t)
	return t
}

func (t *xmlTable) RenderQueryColumn(w types.Walker, def *types.QueryColumn) error {
	w.AppendSQL(def.Name, " ", t.DetermineColumnType(types.CastTarget{Mapping: types.XML}, w), " path ")
	w.AppendSingleQuoteEscapedString(def.XPath())
	if def.Default == nil {
		return nil
	}
	w.AppendSQL(" default ")
	return xmlfn.RenderWrapped(w, def.Default, !t.IsXmlType(def.Default), "xmlparse(content ", ")")
}

// xmlQuery emulates xmlquery with xpath(), which returns an xml array:
//
//	(select xmlagg(v) from unnest(xpath(q,doc)) x(v))
type xmlQuery struct{}

func (xmlQuery) Render(w types.Walker, fn *types.FunctionExpression) error {
	w.AppendSQL("(select xmlagg(v) from unnest(xpath(")
	if err := w.Render(fn.Arguments[0], types.RenderNormal); err != nil {
		return err
	}
	w.AppendSQL(",")
	if err := xmlfn.RenderDocument(w, fn.Arguments[1], "xmlparse(document ", ")"); err != nil {
		return err
	}
	w.AppendSQL(")) x(v))")
	return nil
}
