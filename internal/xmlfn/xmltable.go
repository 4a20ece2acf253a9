package xmlfn

import (
	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/types"
)

// XmlTableRenderer is the set of hooks a dialect may override to render
// xmltable. Implementations embed StandardXmlTable and override only what
// differs.
type XmlTableRenderer interface {
	RenderXmlTable(w types.Walker, args XmlTableArguments) error
	RenderColumns(w types.Walker, columns *types.XmlTableColumns) error
	RenderValueColumn(w types.Walker, def *types.ValueColumn) error
	RenderQueryColumn(w types.Walker, def *types.QueryColumn) error
	RenderOrdinalityColumn(w types.Walker, def *types.OrdinalityColumn) error
	DetermineColumnType(target types.CastTarget, w types.Walker) string
	IsXmlType(document types.Expression) bool
}

// StandardXmlTable renders the SQL standard form
//
//	xmltable(<xpath> passing [xmlparse(document ]<doc>[)] columns <col>,...)
//
// Hooks dispatch through the bound outer renderer so embedding types can
// override any of them.
type StandardXmlTable struct {
	self XmlTableRenderer
}

// NewStandardXmlTable creates the standard renderer.
func NewStandardXmlTable() *StandardXmlTable {
	s := &StandardXmlTable{}
	s.self = s
	return s
}

// Bind routes hook calls to outer.
func (s *StandardXmlTable) Bind(outer XmlTableRenderer) {
	s.self = outer
}

func (s *StandardXmlTable) outer() XmlTableRenderer {
	if s.self == nil {
		return s
	}
	return s.self
}

func (s *StandardXmlTable) RenderXmlTable(w types.Walker, args XmlTableArguments) error {
	w.AppendSQL("xmltable(")
	if err := w.Render(args.XPath, types.RenderNormal); err != nil {
		return err
	}
	w.AppendSQL(" passing ")
	if err := RenderWrapped(w, args.Document, !args.IsXmlType, "xmlparse(document ", ")"); err != nil {
		return err
	}
	if err := s.outer().RenderColumns(w, args.Columns); err != nil {
		return err
	}
	w.AppendSQL(")")
	return nil
}

func (s *StandardXmlTable) RenderColumns(w types.Walker, columns *types.XmlTableColumns) error {
	w.AppendSQL(" columns")
	return RenderColumnList(w, s.outer(), columns, " ", ",")
}

// RenderColumnList renders each definition through r, writing first before
// the first column and separator between the rest.
func RenderColumnList(w types.Walker, r XmlTableRenderer, columns *types.XmlTableColumns, first, separator string) error {
	sep := first
	for _, def := range columns.Definitions {
		w.AppendSQL(sep)
		sep = separator
		var err error
		switch d := def.(type) {
		case *types.ValueColumn:
			err = r.RenderValueColumn(w, d)
		case *types.QueryColumn:
			err = r.RenderQueryColumn(w, d)
		case *types.OrdinalityColumn:
			err = r.RenderOrdinalityColumn(w, d)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *StandardXmlTable) RenderValueColumn(w types.Walker, def *types.ValueColumn) error {
	w.AppendSQL(def.Name, " ", s.outer().DetermineColumnType(def.Target, w), " path ")
	w.AppendSingleQuoteEscapedString(def.XPath())
	return renderDefault(w, def.Default)
}

func (s *StandardXmlTable) RenderQueryColumn(w types.Walker, def *types.QueryColumn) error {
	w.AppendSQL(def.Name, " ", s.outer().DetermineColumnType(types.CastTarget{Mapping: types.XML}, w), " path ")
	w.AppendSingleQuoteEscapedString(def.XPath())
	return renderDefault(w, def.Default)
}

func (s *StandardXmlTable) RenderOrdinalityColumn(w types.Walker, def *types.OrdinalityColumn) error {
	w.AppendSQL(def.Name, " for ordinality")
	return nil
}

// DetermineColumnType resolves the DDL type of a cast target, dropping an
// argument list that still holds unresolved template variables.
func (s *StandardXmlTable) DetermineColumnType(target types.CastTarget, w types.Walker) string {
	return render.StripUnresolved(w.Dialect().ColumnType(target))
}

func (s *StandardXmlTable) IsXmlType(document types.Expression) bool {
	return IsXmlType(document)
}

func renderDefault(w types.Walker, def types.Expression) error {
	if def == nil {
		return nil
	}
	w.AppendSQL(" default ")
	return w.Render(def, types.RenderNormal)
}

// xmlTableAdapter turns an XmlTableRenderer into a function renderer.
type xmlTableAdapter struct {
	r XmlTableRenderer
}

func (a xmlTableAdapter) Render(w types.Walker, fn *types.FunctionExpression) error {
	return a.r.RenderXmlTable(w, ExtractXmlTableArguments(fn.Arguments, a.r.IsXmlType))
}

func (a xmlTableAdapter) Rewrite(ctx types.CompilationContext, fn *types.FunctionExpression, call Call) error {
	if rw, ok := a.r.(Rewriter); ok {
		return rw.Rewrite(ctx, fn, call)
	}
	return nil
}

// XmlTableFunction is the xmltable descriptor.
type XmlTableFunction struct {
	*Function
	renderer XmlTableRenderer
	resolver MappingResolver
}

// NewXmlTable binds a dialect's renderer and type resolver into a descriptor.
func NewXmlTable(renderer XmlTableRenderer, resolver MappingResolver) *XmlTableFunction {
	return &XmlTableFunction{
		Function: NewFunction("xmltable", KindSetReturning, xmlTableAdapter{r: renderer},
			WithValidator(ArgumentsValidator{Min: 3, Max: 3, Classes: []TypeClass{ClassString, ClassXML, ClassColumns}}),
			WithArgumentTypes(PositionalTypes(types.String, types.XML)),
		),
		renderer: renderer,
		resolver: resolver,
	}
}

// TableRenderer returns the dialect hooks.
func (f *XmlTableFunction) TableRenderer() XmlTableRenderer { return f.renderer }

// ResolveFunctionReturnType returns one selectable mapping per column
// definition, in definition order. The ordinality flag of the call does
// not add a column; ordinality is declared as a column definition.
func (f *XmlTableFunction) ResolveFunctionReturnType(ctx types.CompilationContext, args []types.Expression, _ Call) ([]types.SelectableMapping, error) {
	if err := f.Validate(args); err != nil {
		return nil, err
	}
	rc := &ResolveContext{
		Arguments: ExtractXmlTableArguments(args, f.renderer.IsXmlType),
		Dialect:   ctx.Dialect(),
	}
	for _, def := range rc.Arguments.Columns.Definitions {
		var err error
		switch d := def.(type) {
		case *types.ValueColumn:
			err = f.resolver.AddValueColumn(rc, d)
		case *types.QueryColumn:
			err = f.resolver.AddQueryColumn(rc, d)
		case *types.OrdinalityColumn:
			err = f.resolver.AddOrdinalityColumn(rc, d)
		}
		if err != nil {
			return nil, err
		}
	}
	return rc.Mappings, nil
}

// ResolveTupleType wraps resolved mappings into the row type.
func ResolveTupleType(mappings []types.SelectableMapping) types.TupleType {
	return types.TupleType{Mappings: mappings}
}
