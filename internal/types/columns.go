package types

// ColumnShape tags the variant of a column definition.
type ColumnShape int

const (
	ShapeValue ColumnShape = iota
	ShapeQuery
	ShapeOrdinality
)

func (s ColumnShape) String() string {
	switch s {
	case ShapeValue:
		return "VALUE"
	case ShapeQuery:
		return "QUERY"
	case ShapeOrdinality:
		return "ORDINALITY"
	}
	return "UNKNOWN"
}

// ColumnDefinition describes one output column of xmltable.
type ColumnDefinition interface {
	ColumnName() string
	Shape() ColumnShape
}

// ValueColumn extracts a scalar value through a path.
type ValueColumn struct {
	Name    string
	Target  CastTarget
	Path    string
	Default Expression
}

// QueryColumn extracts an XML fragment through a path.
type QueryColumn struct {
	Name    string
	Path    string
	Default Expression
}

// OrdinalityColumn is a 1-based row counter.
type OrdinalityColumn struct {
	Name string
}

func (c *ValueColumn) ColumnName() string      { return c.Name }
func (c *QueryColumn) ColumnName() string      { return c.Name }
func (c *OrdinalityColumn) ColumnName() string { return c.Name }

func (*ValueColumn) Shape() ColumnShape      { return ShapeValue }
func (*QueryColumn) Shape() ColumnShape      { return ShapeQuery }
func (*OrdinalityColumn) Shape() ColumnShape { return ShapeOrdinality }

// XPath returns the path, which defaults to the column name.
func (c *ValueColumn) XPath() string {
	if c.Path == "" {
		return c.Name
	}
	return c.Path
}

// XPath returns the path, which defaults to the column name.
func (c *QueryColumn) XPath() string {
	if c.Path == "" {
		return c.Name
	}
	return c.Path
}

// XmlTableColumns is the trailing "columns" argument of xmltable.
type XmlTableColumns struct {
	Definitions []ColumnDefinition
}

func (*XmlTableColumns) Type() *JdbcMapping { return nil }

// SelectableMapping is one resolved output column of a table-valued function.
type SelectableMapping struct {
	Name           string
	ReadExpression string
	ColumnType     string
	Mapping        JdbcMapping
}

// TupleType is the row type of a table-valued function.
type TupleType struct {
	Mappings []SelectableMapping
}

// Find returns the mapping with the given name.
func (t TupleType) Find(name string) (SelectableMapping, bool) {
	for _, m := range t.Mappings {
		if m.Name == name {
			return m, true
		}
	}
	return SelectableMapping{}, false
}

// Names returns the column names in order.
func (t TupleType) Names() []string {
	names := make([]string, len(t.Mappings))
	for i, m := range t.Mappings {
		names[i] = m.Name
	}
	return names
}
