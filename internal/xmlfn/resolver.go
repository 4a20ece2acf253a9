package xmlfn

import (
	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/types"
)

// ResolveContext accumulates selectable mappings for one xmltable call.
type ResolveContext struct {
	Arguments XmlTableArguments
	Dialect   types.Dialect
	Mappings  []types.SelectableMapping
}

// Add appends a mapping.
func (rc *ResolveContext) Add(m types.SelectableMapping) {
	rc.Mappings = append(rc.Mappings, m)
}

// MappingResolver computes the selectable mapping of each column shape.
type MappingResolver interface {
	AddValueColumn(rc *ResolveContext, def *types.ValueColumn) error
	AddQueryColumn(rc *ResolveContext, def *types.QueryColumn) error
	AddOrdinalityColumn(rc *ResolveContext, def *types.OrdinalityColumn) error
	AddSelectableMapping(rc *ResolveContext, name string, target types.CastTarget) error
}

// StandardResolver maps VALUE columns to their type, QUERY columns to an
// XML string and ORDINALITY columns to a long.
type StandardResolver struct {
	self MappingResolver
}

// NewStandardResolver creates the standard resolver.
func NewStandardResolver() *StandardResolver {
	r := &StandardResolver{}
	r.self = r
	return r
}

// Bind routes hook calls to outer.
func (r *StandardResolver) Bind(outer MappingResolver) {
	r.self = outer
}

func (r *StandardResolver) outer() MappingResolver {
	if r.self == nil {
		return r
	}
	return r.self
}

func (r *StandardResolver) AddValueColumn(rc *ResolveContext, def *types.ValueColumn) error {
	return r.outer().AddSelectableMapping(rc, def.Name, def.Target)
}

func (r *StandardResolver) AddQueryColumn(rc *ResolveContext, def *types.QueryColumn) error {
	return r.outer().AddSelectableMapping(rc, def.Name, types.CastTarget{Mapping: types.XMLString})
}

func (r *StandardResolver) AddOrdinalityColumn(rc *ResolveContext, def *types.OrdinalityColumn) error {
	return r.outer().AddSelectableMapping(rc, def.Name, types.CastTarget{Mapping: types.Long})
}

func (r *StandardResolver) AddSelectableMapping(rc *ResolveContext, name string, target types.CastTarget) error {
	rc.Add(types.SelectableMapping{
		Name:       name,
		ColumnType: render.StripUnresolved(rc.Dialect.ColumnType(target)),
		Mapping:    target.Mapping,
	})
	return nil
}

// BooleanDecodeMapping builds a mapping whose read expression turns the
// strings 'true' and 'false' back into the dialect's literals for m.
// It fails when the dialect cannot format either literal.
func BooleanDecodeMapping(d types.Dialect, name string, m types.JdbcMapping, columnType string) (types.SelectableMapping, error) {
	trueLiteral, err := d.FormatLiteral(m.ToRelational(true), &m)
	if err != nil {
		return types.SelectableMapping{}, err
	}
	falseLiteral, err := d.FormatLiteral(m.ToRelational(false), &m)
	if err != nil {
		return types.SelectableMapping{}, err
	}
	return types.SelectableMapping{
		Name:           name,
		ReadExpression: "decode(" + types.TemplatePlaceholder + "." + name + ",'true'," + trueLiteral + ",'false'," + falseLiteral + ")",
		ColumnType:     columnType,
		Mapping:        m,
	}, nil
}
