package types

// IdentifierColumn is a column that identifies a row of a model part.
type IdentifierColumn struct {
	Name    string
	Mapping JdbcMapping
}

// ModelPart is the mapped domain shape behind a table group.
type ModelPart interface {
	// TableName is the physical table backing the part.
	TableName() string
	// IdentifierColumns are the columns that identify one row.
	IdentifierColumns() []IdentifierColumn
}

// EntityPart is an entity identified by its primary key.
type EntityPart struct {
	Table      string
	Identifier []IdentifierColumn
}

// CollectionPart is a collection table identified by owner key plus index.
type CollectionPart struct {
	Table string
	Key   []IdentifierColumn
	Index []IdentifierColumn
}

// EmbeddablePart is an embeddable whose own columns identify it.
type EmbeddablePart struct {
	Table   string
	Columns []IdentifierColumn
}

func (e *EntityPart) TableName() string     { return e.Table }
func (c *CollectionPart) TableName() string { return c.Table }
func (e *EmbeddablePart) TableName() string { return e.Table }

func (e *EntityPart) IdentifierColumns() []IdentifierColumn { return e.Identifier }

func (c *CollectionPart) IdentifierColumns() []IdentifierColumn {
	cols := make([]IdentifierColumn, 0, len(c.Key)+len(c.Index))
	cols = append(cols, c.Key...)
	return append(cols, c.Index...)
}

func (e *EmbeddablePart) IdentifierColumns() []IdentifierColumn { return e.Columns }
