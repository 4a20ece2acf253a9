package xmlsql

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zoobzio/dbml"

	"github.com/zoobzio/xmlsql/internal/types"
)

// DefaultIdentifier is the identifier column assumed for a table that has
// one and was given no explicit identifier.
const DefaultIdentifier = "id"

// Model is the table metadata queries are built against, indexed from a
// DBML project.
type Model struct {
	project *dbml.Project
	tables  map[string]*modelTable
}

type modelTable struct {
	name       string
	columns    map[string]types.JdbcMapping
	identifier []string
}

// ModelOption configures a Model.
type ModelOption func(*Model) error

// WithIdentifier declares the identifier columns of a table. Tables without
// one use DefaultIdentifier when they have such a column.
func WithIdentifier(table string, columns ...string) ModelOption {
	return func(m *Model) error {
		t, ok := m.tables[table]
		if !ok {
			return fmt.Errorf("table '%s' not found in schema", table)
		}
		if len(columns) == 0 {
			return fmt.Errorf("table '%s': identifier needs at least one column", table)
		}
		for _, c := range columns {
			if _, ok := t.columns[c]; !ok {
				return fmt.Errorf("field '%s' not found in table '%s'", c, table)
			}
		}
		t.identifier = columns
		return nil
	}
}

// NewModel indexes the tables and columns of a DBML project.
func NewModel(project *dbml.Project, opts ...ModelOption) (*Model, error) {
	if project == nil {
		return nil, fmt.Errorf("project cannot be nil")
	}

	m := &Model{
		project: project,
		tables:  make(map[string]*modelTable),
	}
	for _, table := range project.Tables {
		t := &modelTable{name: table.Name, columns: make(map[string]types.JdbcMapping)}
		for _, col := range table.Columns {
			t.columns[col.Name] = MappingForType(col.Type)
		}
		if _, ok := t.columns[DefaultIdentifier]; ok {
			t.identifier = []string{DefaultIdentifier}
		}
		m.tables[table.Name] = t
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Project returns the underlying DBML project.
func (m *Model) Project() *dbml.Project { return m.project }

// Tables returns the table names, sorted.
func (m *Model) Tables() []string {
	names := make([]string, 0, len(m.tables))
	for name := range m.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasTable reports whether the table exists.
func (m *Model) HasTable(table string) bool {
	_, ok := m.tables[table]
	return ok
}

// Mapping returns the mapping of a column.
func (m *Model) Mapping(table, column string) (JdbcMapping, bool) {
	t, ok := m.tables[table]
	if !ok {
		return JdbcMapping{}, false
	}
	mapping, ok := t.columns[column]
	return mapping, ok
}

// Entity returns the entity part of a table, identified by its identifier
// columns.
func (m *Model) Entity(table string) (*EntityPart, error) {
	t, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("table '%s' not found in schema", table)
	}
	ids := make([]types.IdentifierColumn, len(t.identifier))
	for i, c := range t.identifier {
		ids[i] = types.IdentifierColumn{Name: c, Mapping: t.columns[c]}
	}
	return &types.EntityPart{Table: t.name, Identifier: ids}, nil
}

// MappingForType maps a DBML column type to a mapping. Unknown types map
// to String.
func MappingForType(sqlType string) JdbcMapping {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	switch t {
	case "bool", "boolean", "bit":
		return types.Boolean
	case "smallint", "int2", "tinyint":
		return types.Short
	case "int", "integer", "int4", "serial":
		return types.Integer
	case "bigint", "int8", "bigserial":
		return types.Long
	case "float", "real", "double", "double precision", "float8":
		return types.Double
	case "numeric", "decimal", "number":
		return types.Decimal
	case "text", "clob", "nclob", "ntext":
		return types.Text
	case "date":
		return types.Date
	case "xml", "xmltype":
		return types.XML
	}
	if strings.HasPrefix(t, "timestamp") || t == "datetime" || t == "datetime2" {
		return types.Timestamp
	}
	return types.String
}
