// Package mssql provides the SQL Server dialect renderer for xmlsql.
//
// SQL Server has no xmltable and no SQL/XML publishing functions. xmltable
// becomes a derived table over the nodes() method joined with cross apply,
// and the publishing functions are built from for xml path subqueries.
package mssql

import (
	"strings"

	"go.uber.org/zap"

	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/types"
	"github.com/zoobzio/xmlsql/internal/xmlfn"
)

// Name identifies the dialect.
const Name = "sqlserver"

const (
	// documentAlias and nodeAlias name the derived tables of an xmltable
	// rewrite. Both expose a single xml column d.
	documentAlias = "t0_"
	nodeAlias     = "t1_"

	unicodeText = "nvarchar(max)"
)

var config = render.DialectConfig{
	Name: Name,
	Capabilities: render.Capabilities{
		LateralApply:   true,
		ConcatOperator: "+",
	},
	TypeNames: map[types.SQLType]string{
		types.SQLBoolean:   "bit",
		types.SQLTinyInt:   "tinyint",
		types.SQLSmallInt:  "smallint",
		types.SQLInteger:   "int",
		types.SQLBigInt:    "bigint",
		types.SQLNumeric:   "numeric($p,$s)",
		types.SQLDouble:    "float",
		types.SQLChar:      "char($l)",
		types.SQLVarchar:   "varchar($l)",
		types.SQLNVarchar:  "nvarchar($l)",
		types.SQLClob:      "varchar(max)",
		types.SQLNClob:     unicodeText,
		types.SQLDate:      "date",
		types.SQLTimestamp: "datetime2($p)",
		types.SQLXML:       "xml",
	},
	TrueLiteral:      "1",
	FalseLiteral:     "0",
	TimestampPattern: "cast('%s' as datetime2)",
	DatePattern:      "cast('%s' as date)",
	MaxVarcharLength: 8000,
}

// Renderer implements the SQL Server dialect.
type Renderer struct {
	dialect  *render.Dialect
	registry *xmlfn.Registry
}

// New creates a new SQL Server renderer.
func New(opts ...render.Option) *Renderer {
	d := render.NewDialect(config, opts...)
	return &Renderer{
		dialect: d,
		registry: xmlfn.NewRegistry(Name,
			xmlfn.NewXmlTable(newXmlTable(), xmlfn.NewStandardResolver()),
			xmlfn.NewXmlElement(xmlElement{}),
			xmlfn.NewXmlForest(xmlForest{}),
			xmlfn.NewXmlConcat(xmlConcat{}),
			xmlfn.NewXmlPi(xmlPi{}),
			xmlfn.NewXmlComment(xmlComment{}),
			xmlfn.NewXmlQuery(xmlMethod{method: "query"}),
			xmlfn.NewXmlExists(xmlMethod{method: "exist", suffix: "=1"}),
			xmlfn.NewXmlAgg(xmlAgg{}),
		),
	}
}

// Name returns the dialect name.
func (r *Renderer) Name() string { return Name }

// Dialect returns the dialect configuration.
func (r *Renderer) Dialect() *render.Dialect { return r.dialect }

// Registry returns the XML functions SQL Server supports.
func (r *Renderer) Registry() *xmlfn.Registry { return r.registry }

// Render converts a query to SQL Server SQL.
func (r *Renderer) Render(q *types.QuerySpec) (*types.QueryResult, error) {
	return render.NewTranslator(r.dialect).RenderQuery(q)
}

// Capabilities returns the SQL features supported by SQL Server.
func (r *Renderer) Capabilities() render.Capabilities {
	return r.dialect.Capabilities()
}

// =============================================================================
// xmltable
// =============================================================================

// xmlTable renders
//
//	(select <cols> from (select <doc>) t0_(d) cross apply t0_.d.nodes(<xpath>) t1_(d))
//
// with VALUE and QUERY columns read through value() and query() on the node.
type xmlTable struct {
	*xmlfn.StandardXmlTable
}

func newXmlTable() *xmlTable {
	t := &xmlTable{StandardXmlTable: xmlfn.NewStandardXmlTable()}
	t.Bind(t)
	return t
}

func (t *xmlTable) RenderXmlTable(w types.Walker, args xmlfn.XmlTableArguments) error {
	w.AppendSQL("(select")
	if err := t.RenderColumns(w, args.Columns); err != nil {
		return err
	}
	w.AppendSQL(" from (select ")
	if err := xmlfn.RenderWrapped(w, args.Document, !args.IsXmlType, "cast(", " as xml)"); err != nil {
		return err
	}
	w.AppendSQL(") ", documentAlias, "(d) cross apply ", documentAlias, ".d.nodes(")
	// nodes() only accepts a string literal.
	if err := w.Render(args.XPath, types.RenderInlineParameters); err != nil {
		return err
	}
	w.AppendSQL(") ", nodeAlias, "(d))")
	return nil
}

func (t *xmlTable) RenderColumns(w types.Walker, columns *types.XmlTableColumns) error {
	return xmlfn.RenderColumnList(w, t, columns, " ", ",")
}

func (t *xmlTable) RenderValueColumn(w types.Walker, def *types.ValueColumn) error {
	return renderNodeRead(w, def.Name, def.Default, func() {
		w.AppendSQL(nodeAlias, ".d.value(")
		w.AppendSingleQuoteEscapedString("(" + def.XPath() + ")[1]")
		w.AppendSQL(",")
		w.AppendSingleQuoteEscapedString(t.DetermineColumnType(def.Target, w))
		w.AppendSQL(")")
	})
}

func (t *xmlTable) RenderQueryColumn(w types.Walker, def *types.QueryColumn) error {
	return renderNodeRead(w, def.Name, def.Default, func() {
		w.AppendSQL(nodeAlias, ".d.query(")
		w.AppendSingleQuoteEscapedString(def.XPath())
		w.AppendSQL(")")
	})
}

func (t *xmlTable) RenderOrdinalityColumn(w types.Walker, def *types.OrdinalityColumn) error {
	w.AppendSQL("row_number() over (order by (select 1)) ", def.Name)
	return nil
}

// DetermineColumnType widens string types without a length to max, since
// value() would otherwise read a single character.
func (t *xmlTable) DetermineColumnType(target types.CastTarget, w types.Walker) string {
	name := t.StandardXmlTable.DetermineColumnType(target, w)
	switch name {
	case "varchar", "nvarchar", "char", "nchar":
		return name + "(max)"
	}
	return name
}

// renderNodeRead writes "[coalesce(]<read>[,<default>)] <name>".
func renderNodeRead(w types.Walker, name string, def types.Expression, read func()) error {
	if def != nil {
		w.AppendSQL("coalesce(")
	}
	read()
	if def != nil {
		w.AppendSQL(",")
		if err := w.Render(def, types.RenderNormal); err != nil {
			return err
		}
		w.AppendSQL(")")
	}
	w.AppendSQL(" ", name)
	return nil
}

// =============================================================================
// Publishing functions
// =============================================================================

// xmlElement renders (select <attr> [@a],<content> for xml path('e'),type).
type xmlElement struct{}

func (xmlElement) Render(w types.Walker, fn *types.FunctionExpression) error {
	args := xmlfn.ExtractXmlElementArguments(fn.Arguments)
	w.AppendSQL("(select ")
	n := 0
	if args.Attributes != nil {
		for i, name := range args.Attributes.Names {
			if n > 0 {
				w.AppendSQL(",")
			}
			n++
			if err := w.Render(args.Attributes.Values[i], types.RenderNormal); err != nil {
				return err
			}
			w.AppendSQL(" ", bracket("@"+name))
		}
	}
	for _, c := range args.Content {
		if n > 0 {
			w.AppendSQL(",")
		}
		n++
		if err := w.Render(c, types.RenderNormal); err != nil {
			return err
		}
	}
	if n == 0 {
		w.AppendSQL("''")
	}
	w.AppendSQL(" for xml path(")
	w.AppendSingleQuoteEscapedString(args.Name)
	w.AppendSQL("),type)")
	return nil
}

// xmlForest renders (select e [n],... for xml path(''),type).
type xmlForest struct{}

func (xmlForest) Render(w types.Walker, fn *types.FunctionExpression) error {
	w.AppendSQL("(select ")
	for i, item := range xmlfn.ExtractForestItems(fn.Arguments) {
		if i > 0 {
			w.AppendSQL(",")
		}
		if err := w.Render(item.Expression, types.RenderNormal); err != nil {
			return err
		}
		w.AppendSQL(" ", bracket(item.Name))
	}
	w.AppendSQL(" for xml path(''),type)")
	return nil
}

// xmlConcat concatenates the text forms and casts the result back to xml.
// concat() skips nulls the way xmlconcat does.
type xmlConcat struct{}

func (xmlConcat) Render(w types.Walker, fn *types.FunctionExpression) error {
	w.AppendSQL("cast(concat(")
	for i, arg := range fn.Arguments {
		if i > 0 {
			w.AppendSQL(",")
		}
		if err := renderAsText(w, arg); err != nil {
			return err
		}
	}
	w.AppendSQL(") as xml)")
	return nil
}

// xmlPi renders cast('<?t?>' as xml) or cast('<?t '+c+'?>' as xml).
type xmlPi struct{}

func (xmlPi) Render(w types.Walker, fn *types.FunctionExpression) error {
	target := xmlfn.PiTarget(fn)
	w.AppendSQL("cast(")
	if len(fn.Arguments) < 2 {
		w.AppendSingleQuoteEscapedString("<?" + target + "?>")
	} else {
		w.AppendSingleQuoteEscapedString("<?" + target + " ")
		w.AppendSQL("+")
		if err := w.Render(fn.Arguments[1], types.RenderNormal); err != nil {
			return err
		}
		w.AppendSQL("+'?>'")
	}
	w.AppendSQL(" as xml)")
	return nil
}

// xmlComment renders cast('<!--'+e+'-->' as xml).
type xmlComment struct{}

func (xmlComment) Render(w types.Walker, fn *types.FunctionExpression) error {
	w.AppendSQL("cast('<!--'+")
	if err := w.Render(fn.Arguments[0], types.RenderNormal); err != nil {
		return err
	}
	w.AppendSQL("+'-->' as xml)")
	return nil
}

// xmlMethod renders <doc>.<method>(<query>)<suffix>, casting the document
// to xml when it is not already typed as such.
type xmlMethod struct {
	method string
	suffix string
}

func (m xmlMethod) Render(w types.Walker, fn *types.FunctionExpression) error {
	if err := xmlfn.RenderDocument(w, fn.Arguments[1], "cast(", " as xml)"); err != nil {
		return err
	}
	w.AppendSQL(".", m.method, "(")
	// xml methods only accept a string literal.
	if err := w.Render(fn.Arguments[0], types.RenderInlineParameters); err != nil {
		return err
	}
	w.AppendSQL(")", m.suffix)
	return nil
}

func renderAsText(w types.Walker, e types.Expression) error {
	w.AppendSQL("cast(")
	if err := w.Render(e, types.RenderNormal); err != nil {
		return err
	}
	w.AppendSQL(" as ", unicodeText, ")")
	return nil
}

// =============================================================================
// xmlagg
// =============================================================================

// xmlAgg aggregates the text forms with string_agg and casts back to xml.
// Arguments built from xmlelement or xmlforest are correlated subqueries,
// which SQL Server refuses to aggregate; those are moved into a cross apply
// derived table and the aggregate reads its column instead. string_agg takes
// no FILTER clause, so the filter is always folded into the argument.
type xmlAgg struct{}

func (xmlAgg) Render(w types.Walker, fn *types.FunctionExpression) error {
	w.AppendSQL("cast(string_agg(cast(")
	if err := xmlfn.RenderFilteredArgument(w, fn.Arguments[0], fn.Filter, true); err != nil {
		return err
	}
	w.AppendSQL(" as ", unicodeText, "),'')")
	if err := xmlfn.RenderOrderBy(w, " within group (order by ", fn.WithinGroup); err != nil {
		return err
	}
	if len(fn.WithinGroup) > 0 {
		w.AppendSQL(")")
	}
	w.AppendSQL(" as xml)")
	return nil
}

func (xmlAgg) Rewrite(ctx types.CompilationContext, fn *types.FunctionExpression, _ xmlfn.Call) error {
	arg := fn.Arguments[0]
	if !types.ContainsFunction(arg, "xmlelement", "xmlforest") {
		return nil
	}
	qualifiers := types.CollectQualifiers(arg)
	if len(qualifiers) != 1 || ctx.FindTableGroup(qualifiers[0]) == nil {
		return nil
	}
	qualifier := qualifiers[0]
	alias := ctx.GenerateAlias("xa")
	fn.Arguments[0] = &types.ColumnReference{Qualifier: alias, Column: "v", Mapping: &types.XML}

	xmlfn.Logger(ctx).Debug("moving xmlagg argument into cross apply",
		zap.String("qualifier", qualifier),
		zap.String("alias", alias))

	ctx.RegisterQueryTransformer(func(q *types.QuerySpec) (*types.QuerySpec, error) {
		group := q.FindTableGroup(qualifier)
		if group == nil {
			return nil, render.NewQueryConstructionError(Name, "xmlagg", "table group %s is no longer part of the query", qualifier)
		}
		group.AddJoin(&types.TableGroupJoin{
			Type: types.JoinCross,
			Group: &types.TableGroup{
				Alias:    alias,
				Subquery: &types.QuerySpec{Select: []types.SelectItem{{Expression: arg, Alias: "v"}}},
			},
		})
		return q, nil
	})
	return nil
}

// bracket quotes an identifier for SQL Server.
func bracket(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}
