// Package sybase provides the Sybase ASE dialect renderer for xmlsql.
package sybase

import (
	"strings"

	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/types"
	"github.com/zoobzio/xmlsql/internal/xmlfn"
)

// Name identifies the dialect.
const Name = "sybase"

var config = render.DialectConfig{
	Name: Name,
	Capabilities: render.Capabilities{
		ConcatOperator: "+",
	},
	TypeNames: map[types.SQLType]string{
		types.SQLBoolean:   "bit",
		types.SQLTinyInt:   "tinyint",
		types.SQLSmallInt:  "smallint",
		types.SQLInteger:   "int",
		types.SQLBigInt:    "bigint",
		types.SQLNumeric:   "numeric($p,$s)",
		types.SQLDouble:    "double precision",
		types.SQLChar:      "char($l)",
		types.SQLVarchar:   "varchar($l)",
		types.SQLNVarchar:  "nvarchar($l)",
		types.SQLClob:      "text",
		types.SQLNClob:     "unitext",
		types.SQLDate:      "date",
		types.SQLTimestamp: "datetime",
		types.SQLXML:       "text",
	},
	TrueLiteral:      "1",
	FalseLiteral:     "0",
	TimestampPattern: "convert(datetime,'%s')",
	DatePattern:      "convert(date,'%s')",
	MaxVarcharLength: 16384,
}

// Renderer implements the Sybase ASE dialect.
type Renderer struct {
	dialect  *render.Dialect
	registry *xmlfn.Registry
}

// New creates a new Sybase ASE renderer.
func New(opts ...render.Option) *Renderer {
	d := render.NewDialect(config, opts...)
	return &Renderer{
		dialect: d,
		registry: xmlfn.NewRegistry(Name,
			xmlfn.NewXmlTable(newXmlTable(), newResolver()),
			xmlfn.NewXmlQuery(xmlExtract{}),
			xmlfn.NewXmlExists(xmlTest{}),
		),
	}
}

// Name returns the dialect name.
func (r *Renderer) Name() string { return Name }

// Dialect returns the dialect configuration.
func (r *Renderer) Dialect() *render.Dialect { return r.dialect }

// Registry returns the XML functions Sybase ASE supports.
func (r *Renderer) Registry() *xmlfn.Registry { return r.registry }

// Render converts a query to Sybase ASE SQL.
func (r *Renderer) Render(q *types.QuerySpec) (*types.QueryResult, error) {
	return render.NewTranslator(r.dialect).RenderQuery(q)
}

// Capabilities returns the SQL features supported by Sybase ASE.
func (r *Renderer) Capabilities() render.Capabilities {
	return r.dialect.Capabilities()
}

// =============================================================================
// xmltable
// =============================================================================

// xmlTable renders ASE's xmltable. ASE cannot return a node set from a
// column, so QUERY columns become ordinality columns and the resolver reads
// the fragment with xmlextract keyed by that ordinal.
type xmlTable struct {
	*xmlfn.StandardXmlTable
}

func newXmlTable() *xmlTable {
	t := &xmlTable{StandardXmlTable: xmlfn.NewStandardXmlTable()}
	t.Bind(t)
	return t
}

func (t *xmlTable) RenderXmlTable(w types.Walker, args xmlfn.XmlTableArguments) error {
	w.AppendSQL("xmltable(")
	if err := w.Render(args.XPath, types.RenderInlineParameters); err != nil {
		return err
	}
	w.AppendSQL(" passing ")
	if err := w.Render(args.Document, types.RenderNormal); err != nil {
		return err
	}
	if err := t.RenderColumns(w, args.Columns); err != nil {
		return err
	}
	w.AppendSQL(")")
	return nil
}

func (t *xmlTable) RenderQueryColumn(w types.Walker, def *types.QueryColumn) error {
	w.AppendSQL(def.Name, " bigint for ordinality")
	return nil
}

// IsXmlType is always true: ASE stores XML as text and parses implicitly.
func (t *xmlTable) IsXmlType(types.Expression) bool {
	return true
}

// resolver reads QUERY columns through xmlextract.
type resolver struct {
	*xmlfn.StandardResolver
}

func newResolver() *resolver {
	r := &resolver{StandardResolver: xmlfn.NewStandardResolver()}
	r.Bind(r)
	return r
}

// AddQueryColumn maps a QUERY column to
//
//	xmlextract('<xpath>['+cast({@}.<name> as varchar(10))+']/<path>',<doc>)
//
// which requires the XPath and document to be known at compile time.
func (r *resolver) AddQueryColumn(rc *xmlfn.ResolveContext, def *types.QueryColumn) error {
	if def.Default != nil {
		return render.NewQueryConstructionError(Name, "xmltable", "query column %s cannot have a default", def.Name)
	}
	value, ok := xmlfn.StaticValue(rc.Arguments.XPath)
	xpath, isString := value.(string)
	if !ok || !isString {
		return render.NewQueryConstructionError(Name, "xmltable", "query column %s needs a literal xpath, got %s", def.Name, types.Describe(rc.Arguments.XPath))
	}
	doc, err := staticDocument(rc.Dialect, rc.Arguments.Document)
	if err != nil {
		return err
	}
	prefix, err := rc.Dialect.FormatLiteral(xpath+"[", &types.String)
	if err != nil {
		return err
	}
	suffix, err := rc.Dialect.FormatLiteral("]/"+strings.TrimPrefix(def.XPath(), "/"), &types.String)
	if err != nil {
		return err
	}

	var read strings.Builder
	read.WriteString("xmlextract(")
	read.WriteString(prefix)
	read.WriteString("+cast(")
	read.WriteString(types.TemplatePlaceholder)
	read.WriteString(".")
	read.WriteString(def.Name)
	read.WriteString(" as varchar(10))+")
	read.WriteString(suffix)
	read.WriteString(",")
	read.WriteString(doc)
	read.WriteString(")")

	rc.Add(types.SelectableMapping{
		Name:           def.Name,
		ReadExpression: read.String(),
		ColumnType:     render.StripUnresolved(rc.Dialect.ColumnType(types.CastTarget{Mapping: types.Long})),
		Mapping:        types.XMLString,
	})
	return nil
}

// staticDocument renders a literal or plain column document as SQL text.
func staticDocument(d types.Dialect, doc types.Expression) (string, error) {
	if ref, ok := doc.(*types.ColumnReference); ok && ref.ReadExpression == "" {
		return ref.String(), nil
	}
	if value, ok := xmlfn.StaticValue(doc); ok {
		return d.FormatLiteral(value, doc.Type())
	}
	return "", render.NewQueryConstructionError(Name, "xmltable", "query columns need a literal or column document, got %s", types.Describe(doc))
}

// =============================================================================
// Scalars
// =============================================================================

// xmlExtract renders xmlquery as xmlextract(q,doc).
type xmlExtract struct{}

func (xmlExtract) Render(w types.Walker, fn *types.FunctionExpression) error {
	w.AppendSQL("xmlextract(")
	if err := w.Render(fn.Arguments[0], types.RenderNormal); err != nil {
		return err
	}
	w.AppendSQL(",")
	if err := w.Render(fn.Arguments[1], types.RenderNormal); err != nil {
		return err
	}
	w.AppendSQL(")")
	return nil
}

// xmlTest renders xmlexists as xmltest(q passing doc).
type xmlTest struct{}

func (xmlTest) Render(w types.Walker, fn *types.FunctionExpression) error {
	w.AppendSQL("xmltest(")
	if err := w.Render(fn.Arguments[0], types.RenderNormal); err != nil {
		return err
	}
	w.AppendSQL(" passing ")
	if err := w.Render(fn.Arguments[1], types.RenderNormal); err != nil {
		return err
	}
	w.AppendSQL(")")
	return nil
}
