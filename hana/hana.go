// Package hana provides the SAP HANA dialect renderer for xmlsql.
package hana

import (
	"strings"

	"go.uber.org/zap"

	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/types"
	"github.com/zoobzio/xmlsql/internal/xmlfn"
)

// Name identifies the dialect.
const Name = "hana"

const (
	// envelopeRoot wraps every CTE document so identifier attributes can
	// travel with it.
	envelopeRoot = "root"
	// documentColumn is the CTE column holding the wrapped document.
	documentColumn = "d"
	// lobColumnType replaces lob types, which xmltable columns cannot use.
	lobColumnType = "nvarchar(5000)"
)

var config = render.DialectConfig{
	Name: Name,
	TypeNames: map[types.SQLType]string{
		types.SQLBoolean:   "boolean",
		types.SQLTinyInt:   "tinyint",
		types.SQLSmallInt:  "smallint",
		types.SQLInteger:   "integer",
		types.SQLBigInt:    "bigint",
		types.SQLNumeric:   "decimal($p,$s)",
		types.SQLDouble:    "double",
		types.SQLChar:      "nchar($l)",
		types.SQLVarchar:   "nvarchar($l)",
		types.SQLNVarchar:  "nvarchar($l)",
		types.SQLClob:      "nclob",
		types.SQLNClob:     "nclob",
		types.SQLDate:      "date",
		types.SQLTimestamp: "timestamp",
		types.SQLXML:       "nclob",
	},
	TrueLiteral:      "true",
	FalseLiteral:     "false",
	TimestampPattern: "timestamp '%s'",
	DatePattern:      "date '%s'",
	MaxVarcharLength: 5000,
}

// Renderer implements the HANA dialect. HANA only offers xmltable among the
// SQL/XML functions.
type Renderer struct {
	dialect  *render.Dialect
	registry *xmlfn.Registry
}

// New creates a new HANA renderer.
func New(opts ...render.Option) *Renderer {
	d := render.NewDialect(config, opts...)
	return &Renderer{
		dialect:  d,
		registry: xmlfn.NewRegistry(Name, xmlfn.NewXmlTable(newXmlTable(), xmlfn.NewStandardResolver())),
	}
}

// Name returns the dialect name.
func (r *Renderer) Name() string { return Name }

// Dialect returns the dialect configuration.
func (r *Renderer) Dialect() *render.Dialect { return r.dialect }

// Registry returns the XML functions HANA supports.
func (r *Renderer) Registry() *xmlfn.Registry { return r.registry }

// Render converts a query to HANA SQL.
func (r *Renderer) Render(q *types.QuerySpec) (*types.QueryResult, error) {
	return render.NewTranslator(r.dialect).RenderQuery(q)
}

// Capabilities returns the SQL features supported by HANA.
func (r *Renderer) Capabilities() render.Capabilities {
	return r.dialect.Capabilities()
}

// =============================================================================
// xmltable
// =============================================================================

// xmlTable renders HANA's xmltable. HANA accepts only a literal or a plain
// table column as the document and cannot join xmltable laterally, so a
// document computed from the outer row is moved into a correlated CTE by
// Rewrite.
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
	mode := types.RenderNormal
	if _, ok := xmlfn.StaticValue(args.Document); ok {
		mode = types.RenderInlineParameters
	}
	if err := w.Render(args.Document, mode); err != nil {
		return err
	}
	if err := t.RenderColumns(w, args.Columns); err != nil {
		return err
	}
	w.AppendSQL(")")
	return nil
}

func (t *xmlTable) DetermineColumnType(target types.CastTarget, w types.Walker) string {
	name := t.StandardXmlTable.DetermineColumnType(target, w)
	if name == "nclob" || name == "clob" {
		return lobColumnType
	}
	return name
}

// IsXmlType is always true: HANA has no xml type to parse into.
func (t *xmlTable) IsXmlType(types.Expression) bool {
	return true
}

// Rewrite moves a row-dependent document into a CTE keyed by the source
// row's identifier:
//
//	with <alias>_(d) as (
//	  select '<root id="'||t0.id||'">'||<doc>||'</root>' from <table> t0 where <doc> is not null)
//
// The call then reads the CTE, the XPath is rebased under /root and the
// identifiers come back as extra columns the join is correlated on.
func (t *xmlTable) Rewrite(ctx types.CompilationContext, fn *types.FunctionExpression, call xmlfn.Call) error {
	args := xmlfn.ExtractXmlTableArguments(fn.Arguments, t.IsXmlType)
	if _, ok := xmlfn.StaticValue(args.Document); ok {
		return nil
	}
	xpath, ok := xmlfn.StaticValue(args.XPath)
	path, isString := xpath.(string)
	if !ok || !isString {
		return render.NewQueryConstructionError(Name, "xmltable", "xpath %s must be a string literal", types.Describe(args.XPath))
	}

	qualifiers := types.CollectQualifiers(args.Document)
	if len(qualifiers) != 1 {
		return render.NewQueryConstructionError(Name, "xmltable", "document %s must reference exactly one table, found %d", types.Describe(args.Document), len(qualifiers))
	}
	qualifier := qualifiers[0]
	source := ctx.FindTableGroup(qualifier)
	if source == nil {
		return render.NewQueryConstructionError(Name, "xmltable", "table %s referenced by document %s is not part of the query", qualifier, types.Describe(args.Document))
	}
	if source.ModelPart == nil || len(source.ModelPart.IdentifierColumns()) == 0 {
		return render.NewQueryConstructionError(Name, "xmltable", "table %s has no identifier columns to correlate on", qualifier)
	}
	ids := source.ModelPart.IdentifierColumns()

	alias := call.Alias
	if alias == "" {
		alias = ctx.GenerateAlias("xt")
	}
	cte := alias + "_"

	columns := &types.XmlTableColumns{Definitions: append([]types.ColumnDefinition(nil), args.Columns.Definitions...)}
	for _, id := range ids {
		columns.Definitions = append(columns.Definitions, &types.ValueColumn{
			Name:   idColumn(id.Name),
			Target: types.CastTarget{Mapping: id.Mapping},
			Path:   "/" + envelopeRoot + "/@" + id.Name,
		})
	}
	fn.Arguments = []types.Expression{
		&types.Literal{Value: "/" + envelopeRoot + path, Mapping: &types.String},
		&types.ColumnReference{Qualifier: cte, Column: documentColumn, Mapping: &types.XML},
		columns,
	}
	fn.Renderer = cteTable{table: t, cte: cte, alias: alias}

	xmlfn.Logger(ctx).Debug("correlating xmltable through cte",
		zap.String("cte", cte),
		zap.String("source", qualifier),
		zap.Int("identifiers", len(ids)))

	document := args.Document
	ctx.RegisterQueryTransformer(func(q *types.QuerySpec) (*types.QuerySpec, error) {
		group := q.FindTableGroup(qualifier)
		if group == nil {
			return nil, render.NewQueryConstructionError(Name, "xmltable", "table %s is no longer part of the query", qualifier)
		}
		_, join := q.FindJoin(alias)
		if join == nil {
			return nil, render.NewQueryConstructionError(Name, "xmltable", "xmltable %s must be joined to %s", alias, qualifier)
		}
		q.AddCTE(&types.CteStatement{
			Name:    cte,
			Columns: []string{documentColumn},
			Query: &types.QuerySpec{
				Select: []types.SelectItem{{Expression: envelope(qualifier, ids, document)}},
				From:   []*types.TableGroup{{Alias: qualifier, Table: group.ModelPart.TableName()}},
				Where:  &types.NullnessPredicate{Expression: document, Negated: true},
			},
		})
		for _, id := range ids {
			join.ApplyPredicate(&types.ComparisonPredicate{
				Left:     &types.ColumnReference{Qualifier: qualifier, Column: id.Name},
				Operator: types.EQ,
				Right:    &types.ColumnReference{Qualifier: alias, Column: idColumn(id.Name)},
			})
		}
		return q, nil
	})
	return nil
}

// envelope builds '<root a="'||q.a||'" b="'||q.b||'">'||<doc>||'</root>'.
// Non-numeric identifier values are escaped for attribute text.
func envelope(qualifier string, ids []types.IdentifierColumn, document types.Expression) *types.Concatenation {
	var parts []types.Expression
	open := "<" + envelopeRoot
	for _, id := range ids {
		var value types.Expression = &types.ColumnReference{Qualifier: qualifier, Column: id.Name}
		if !id.Mapping.IsNumeric() {
			value = escapeAttribute(value)
		}
		parts = append(parts,
			&types.Literal{Value: open + " " + id.Name + `="`},
			value,
		)
		open = `"`
	}
	parts = append(parts,
		&types.Literal{Value: open + ">"},
		document,
		&types.Literal{Value: "</" + envelopeRoot + ">"},
	)
	return &types.Concatenation{Parts: parts}
}

// attributeEscapes are applied in order; & goes first.
var attributeEscapes = [][2]string{
	{"&", "&amp;"},
	{"<", "&lt;"},
	{`"`, "&quot;"},
}

// escapeAttribute wraps e in replace calls for each attribute escape.
func escapeAttribute(e types.Expression) types.Expression {
	for _, esc := range attributeEscapes {
		e = &types.FunctionExpression{
			Name:       "replace",
			Arguments:  []types.Expression{e, &types.Literal{Value: esc[0]}, &types.Literal{Value: esc[1]}},
			ReturnType: &types.String,
		}
	}
	return e
}

func idColumn(name string) string {
	return strings.ToLower(name) + "_"
}

// cteTable renders a rewritten call as a derived table over the CTE:
//
//	(select <alias>_t.* from <cte>,xmltable(...) <alias>_t)
type cteTable struct {
	table *xmlTable
	cte   string
	alias string
}

func (c cteTable) Render(w types.Walker, fn *types.FunctionExpression) error {
	inner := c.alias + "_t"
	w.AppendSQL("(select ", inner, ".* from ", c.cte, ",")
	if err := c.table.RenderXmlTable(w, xmlfn.ExtractXmlTableArguments(fn.Arguments, c.table.IsXmlType)); err != nil {
		return err
	}
	w.AppendSQL(" ", inner, ")")
	return nil
}
