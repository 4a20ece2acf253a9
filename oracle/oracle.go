// Package oracle provides the Oracle dialect renderer for xmlsql.
package oracle

import (
	"strconv"
	"strings"

	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/types"
	"github.com/zoobzio/xmlsql/internal/xmlfn"
)

// Name identifies the dialect.
const Name = "oracle"

const (
	// encodedBooleanType is how Oracle stores booleans.
	encodedBooleanType = "number(1,0)"
	booleanColumnType  = "varchar2(5)"
)

var config = render.DialectConfig{
	Name: Name,
	TypeNames: map[types.SQLType]string{
		types.SQLBoolean:   encodedBooleanType,
		types.SQLTinyInt:   "number(3,0)",
		types.SQLSmallInt:  "number(5,0)",
		types.SQLInteger:   "number(10,0)",
		types.SQLBigInt:    "number(19,0)",
		types.SQLNumeric:   "number($p,$s)",
		types.SQLDouble:    "binary_double",
		types.SQLChar:      "char($l char)",
		types.SQLVarchar:   "varchar2($l char)",
		types.SQLNVarchar:  "nvarchar2($l)",
		types.SQLClob:      "clob",
		types.SQLNClob:     "nclob",
		types.SQLDate:      "date",
		types.SQLTimestamp: "timestamp($p)",
		types.SQLXML:       "xmltype",
	},
	TrueLiteral:      "1",
	FalseLiteral:     "0",
	TimestampPattern: "timestamp '%s'",
	DatePattern:      "date '%s'",
}

// Renderer implements the Oracle dialect.
type Renderer struct {
	dialect  *render.Dialect
	registry *xmlfn.Registry
}

// New creates a new Oracle renderer.
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
			xmlfn.NewXmlExists(xmlfn.StandardXmlExists{}),
			xmlfn.NewXmlAgg(xmlfn.StandardXmlAgg{}),
		),
	}
}

// Name returns the dialect name.
func (r *Renderer) Name() string { return Name }

// Dialect returns the dialect configuration.
func (r *Renderer) Dialect() *render.Dialect { return r.dialect }

// Registry returns the XML functions Oracle supports.
func (r *Renderer) Registry() *xmlfn.Registry { return r.registry }

// Render converts a query to Oracle SQL.
func (r *Renderer) Render(q *types.QuerySpec) (*types.QueryResult, error) {
	return render.NewTranslator(r.dialect).RenderQuery(q)
}

// Capabilities returns the SQL features supported by Oracle.
func (r *Renderer) Capabilities() render.Capabilities {
	return r.dialect.Capabilities()
}

// isEncodedBoolean reports whether a target is a boolean stored as number(1,0).
func isEncodedBoolean(d types.Dialect, target types.CastTarget) bool {
	return target.Mapping.IsBoolean() && d.ColumnType(target) == encodedBooleanType
}

// xmlTable substitutes column types Oracle's xmltable rejects.
type xmlTable struct {
	*xmlfn.StandardXmlTable
}

func newXmlTable() *xmlTable {
	t := &xmlTable{StandardXmlTable: xmlfn.NewStandardXmlTable()}
	t.Bind(t)
	return t
}

func (t *xmlTable) DetermineColumnType(target types.CastTarget, w types.Walker) string {
	d := w.Dialect()
	if isEncodedBoolean(d, target) {
		return booleanColumnType
	}
	name := t.StandardXmlTable.DetermineColumnType(target, w)
	if strings.HasPrefix(name, "clob") {
		return "varchar2(" + strconv.Itoa(d.MaxVarcharLength()) + ")"
	}
	return name
}

// resolver decodes number(1,0) booleans from their text form.
type resolver struct {
	*xmlfn.StandardResolver
}

func newResolver() *resolver {
	r := &resolver{StandardResolver: xmlfn.NewStandardResolver()}
	r.Bind(r)
	return r
}

func (r *resolver) AddSelectableMapping(rc *xmlfn.ResolveContext, name string, target types.CastTarget) error {
	if !isEncodedBoolean(rc.Dialect, target) {
		return r.StandardResolver.AddSelectableMapping(rc, name, target)
	}
	m, err := xmlfn.BooleanDecodeMapping(rc.Dialect, name, target.Mapping, booleanColumnType)
	if err != nil {
		return err
	}
	rc.Add(m)
	return nil
}

// xmlQuery renders xmlquery(q passing doc returning content).
type xmlQuery struct{}

func (xmlQuery) Render(w types.Walker, fn *types.FunctionExpression) error {
	w.AppendSQL("xmlquery(")
	if err := w.Render(fn.Arguments[0], types.RenderNormal); err != nil {
		return err
	}
	w.AppendSQL(" passing ")
	if err := xmlfn.RenderDocument(w, fn.Arguments[1], "xmlparse(document ", ")"); err != nil {
		return err
	}
	w.AppendSQL(" returning content)")
	return nil
}
