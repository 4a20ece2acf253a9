package xmlsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/dbml"
)

func TestNewModel(t *testing.T) {
	m := testModel(t)
	assert.Equal(t, []string{"books", "docs", "editions"}, m.Tables())
	assert.True(t, m.HasTable("docs"))
	assert.False(t, m.HasTable("users"))
	assert.NotNil(t, m.Project())

	got, ok := m.Mapping("docs", "xdoc")
	require.True(t, ok)
	assert.Equal(t, XML, got)

	_, ok = m.Mapping("docs", "missing")
	assert.False(t, ok)
	_, ok = m.Mapping("missing", "id")
	assert.False(t, ok)
}

func TestNewModel_Nil(t *testing.T) {
	_, err := NewModel(nil)
	assert.Error(t, err)
}

func TestModel_Entity(t *testing.T) {
	m := testModel(t)

	part, err := m.Entity("books")
	require.NoError(t, err)
	assert.Equal(t, "books", part.TableName())
	require.Len(t, part.IdentifierColumns(), 1)
	assert.Equal(t, IdentifierColumn{Name: "id", Mapping: Long}, part.IdentifierColumns()[0])

	part, err = m.Entity("editions")
	require.NoError(t, err)
	assert.Empty(t, part.IdentifierColumns())

	_, err = m.Entity("users")
	assert.Error(t, err)
}

func TestWithIdentifier(t *testing.T) {
	m := testModel(t, WithIdentifier("editions", "book_id", "seq"))
	part, err := m.Entity("editions")
	require.NoError(t, err)
	require.Len(t, part.IdentifierColumns(), 2)
	assert.Equal(t, "seq", part.IdentifierColumns()[1].Name)
	assert.Equal(t, Integer, part.IdentifierColumns()[1].Mapping)

	project := dbml.NewProject("test")
	table := dbml.NewTable("t")
	table.AddColumn(dbml.NewColumn("a", "int"))
	project.AddTable(table)

	_, err = NewModel(project, WithIdentifier("missing", "a"))
	assert.Error(t, err)
	_, err = NewModel(project, WithIdentifier("t", "b"))
	assert.Error(t, err)
	_, err = NewModel(project, WithIdentifier("t"))
	assert.Error(t, err)
}

func TestMappingForType(t *testing.T) {
	tests := map[string]JdbcMapping{
		"boolean":       Boolean,
		"INT":           Integer,
		"bigint":        Long,
		"smallint":      Short,
		"numeric(10,2)": Decimal,
		"double":        Double,
		"varchar(200)":  String,
		"char(1)":       String,
		"text":          Text,
		"date":          Date,
		"timestamp(6)":  Timestamp,
		"timestamptz":   Timestamp,
		"xml":           XML,
		"jsonb":         String,
	}
	for in, want := range tests {
		assert.Equal(t, want, MappingForType(in), in)
	}
}
