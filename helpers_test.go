package xmlsql

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zoobzio/dbml"
	"go.uber.org/zap/zaptest"
)

// testModel holds a documents table with an XML column and a books table
// whose document is stored as text.
func testModel(t *testing.T, opts ...ModelOption) *Model {
	t.Helper()

	project := dbml.NewProject("test")

	docs := dbml.NewTable("docs")
	docs.AddColumn(dbml.NewColumn("id", "int"))
	docs.AddColumn(dbml.NewColumn("doc", "text"))
	docs.AddColumn(dbml.NewColumn("xdoc", "xml"))
	project.AddTable(docs)

	books := dbml.NewTable("books")
	books.AddColumn(dbml.NewColumn("id", "bigint"))
	books.AddColumn(dbml.NewColumn("title", "varchar(200)"))
	books.AddColumn(dbml.NewColumn("published", "boolean"))
	project.AddTable(books)

	editions := dbml.NewTable("editions")
	editions.AddColumn(dbml.NewColumn("book_id", "bigint"))
	editions.AddColumn(dbml.NewColumn("seq", "int"))
	editions.AddColumn(dbml.NewColumn("notes", "text"))
	project.AddTable(editions)

	m, err := NewModel(project, opts...)
	require.NoError(t, err)
	return m
}

func testEngine(t *testing.T, dialect string, opts ...Option) *Engine {
	t.Helper()
	all := append([]Option{WithLogger(zaptest.NewLogger(t)), WithModel(testModel(t))}, opts...)
	e, err := ForDialect(dialect, all...)
	require.NoError(t, err)
	return e
}
