// Package db2 provides the DB2 dialect renderer for xmlsql.
package db2

import (
	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/types"
	"github.com/zoobzio/xmlsql/internal/xmlfn"
)

// Name identifies the dialect.
const Name = "db2"

// booleanColumnType is the xmltable column type used for boolean targets.
// DB2 reads 'true' and 'false' as text and decodes them afterwards.
const booleanColumnType = "varchar(5)"

var config = render.DialectConfig{
	Name: Name,
	TypeNames: map[types.SQLType]string{
		types.SQLBoolean:   "boolean",
		types.SQLTinyInt:   "smallint",
		types.SQLSmallInt:  "smallint",
		types.SQLInteger:   "integer",
		types.SQLBigInt:    "bigint",
		types.SQLNumeric:   "decimal($p,$s)",
		types.SQLDouble:    "double",
		types.SQLChar:      "char($l)",
		types.SQLVarchar:   "varchar($l)",
		types.SQLNVarchar:  "nvarchar($l)",
		types.SQLClob:      "clob",
		types.SQLNClob:     "dbclob",
		types.SQLDate:      "date",
		types.SQLTimestamp: "timestamp($p)",
		types.SQLXML:       "xml",
	},
	TrueLiteral:      "true",
	FalseLiteral:     "false",
	TimestampPattern: "timestamp '%s'",
	DatePattern:      "date '%s'",
}

// Renderer implements the DB2 dialect.
type Renderer struct {
	dialect  *render.Dialect
	registry *xmlfn.Registry
}

// New creates a new DB2 renderer.
func New(opts ...render.Option) *Renderer {
	d := render.NewDialect(config, opts...)
	return &Renderer{
		dialect: d,
		registry: xmlfn.NewRegistry(Name,
			xmlfn.NewXmlTable(newXmlTable(), newResolver()),
			xmlfn.NewXmlElement(xmlfn.StandardXmlElement{}),
			xmlfn.NewXmlForest(xmlfn.StandardXmlForest{}),
			xmlfn.NewXmlConcat(xmlfn.StandardXmlConcat{}),
			xmlfn.NewXmlPi(xmlfn.StandardXmlPi{}),
			xmlfn.NewXmlComment(xmlfn.StandardXmlComment{}),
			xmlfn.NewXmlQuery(xmlQuery{}),
			xmlfn.NewXmlExists(xmlExists{}),
			xmlfn.NewXmlAgg(xmlfn.StandardXmlAgg{}),
		),
	}
}

// Name returns the dialect name.
func (r *Renderer) Name() string { return Name }

// Dialect returns the dialect configuration.
func (r *Renderer) Dialect() *render.Dialect { return r.dialect }

// Registry returns the XML functions DB2 supports.
func (r *Renderer) Registry() *xmlfn.Registry { return r.registry }

// Render converts a query to DB2 SQL.
func (r *Renderer) Render(q *types.QuerySpec) (*types.QueryResult, error) {
	return render.NewTranslator(r.dialect).RenderQuery(q)
}

// Capabilities returns the SQL features supported by DB2.
func (r *Renderer) Capabilities() render.Capabilities {
	return r.dialect.Capabilities()
}

// =============================================================================
// xmltable
// =============================================================================

// xmlTable binds the document to the variable $d, so the XPath must be a
// literal that can be prefixed with it.
type xmlTable struct {
	*xmlfn.StandardXmlTable
}

func newXmlTable() *xmlTable {
	t := &xmlTable{StandardXmlTable: xmlfn.NewStandardXmlTable()}
	t.Bind(t)
	return t
}

func (t *xmlTable) RenderXmlTable(w types.Walker, args xmlfn.XmlTableArguments) error {
	xpath, err := xmlfn.StaticXPath(w, "xmltable", args.XPath)
	if err != nil {
		return err
	}
	w.AppendSQL("xmltable(")
	w.AppendSingleQuoteEscapedString("$d" + xpath)
	w.AppendSQL(" passing ")
	if err := xmlfn.RenderWrapped(w, args.Document, !args.IsXmlType, "xmlparse(document ", ")"); err != nil {
		return err
	}
	w.AppendSQL(` as "d"`)
	if err := t.RenderColumns(w, args.Columns); err != nil {
		return err
	}
	w.AppendSQL(")")
	return nil
}

func (t *xmlTable) DetermineColumnType(target types.CastTarget, w types.Walker) string {
	if target.Mapping.IsBoolean() {
		return booleanColumnType
	}
	return t.StandardXmlTable.DetermineColumnType(target, w)
}

// resolver decodes boolean columns from their text form.
type resolver struct {
	*xmlfn.StandardResolver
}

func newResolver() *resolver {
	r := &resolver{StandardResolver: xmlfn.NewStandardResolver()}
	r.Bind(r)
	return r
}

func (r *resolver) AddSelectableMapping(rc *xmlfn.ResolveContext, name string, target types.CastTarget) error {
	if !target.Mapping.IsBoolean() {
		return r.StandardResolver.AddSelectableMapping(rc, name, target)
	}
	m, err := xmlfn.BooleanDecodeMapping(rc.Dialect, name, target.Mapping, booleanColumnType)
	if err != nil {
		return err
	}
	rc.Add(m)
	return nil
}

// =============================================================================
// Scalars
// =============================================================================

// renderPassing writes "'$d<query>' passing <doc> as "d"".
func renderPassing(w types.Walker, function string, fn *types.FunctionExpression) error {
	q, err := xmlfn.StaticXPath(w, function, fn.Arguments[0])
	if err != nil {
		return err
	}
	w.AppendSingleQuoteEscapedString("$d" + q)
	w.AppendSQL(" passing ")
	if err := xmlfn.RenderDocument(w, fn.Arguments[1], "xmlparse(document ", ")"); err != nil {
		return err
	}
	w.AppendSQL(` as "d"`)
	return nil
}

type xmlQuery struct{}

func (xmlQuery) Render(w types.Walker, fn *types.FunctionExpression) error {
	w.AppendSQL("xmlquery(")
	if err := renderPassing(w, "xmlquery", fn); err != nil {
		return err
	}
	w.AppendSQL(")")
	return nil
}

type xmlExists struct{}

func (xmlExists) Render(w types.Walker, fn *types.FunctionExpression) error {
	w.AppendSQL("xmlexists(")
	if err := renderPassing(w, "xmlexists", fn); err != nil {
		return err
	}
	w.AppendSQL(")")
	return nil
}
