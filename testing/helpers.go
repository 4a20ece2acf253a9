// Package testing provides test utilities for xmlsql.
package testing

import (
	"strings"
	"testing"

	"github.com/zoobzio/dbml"
	"go.uber.org/zap/zaptest"

	"github.com/zoobzio/xmlsql"
)

// TestModel creates the model shared by the xmlsql test suites:
//
//	docs(id int, doc text, xdoc xml)
//	books(id bigint, title varchar(200), published boolean, catalog xml)
//	editions(book_id bigint, seq int, notes text)
//
// editions has no identifier column of its own.
func TestModel(t testing.TB) *xmlsql.Model {
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
	books.AddColumn(dbml.NewColumn("catalog", "xml"))
	project.AddTable(books)

	editions := dbml.NewTable("editions")
	editions.AddColumn(dbml.NewColumn("book_id", "bigint"))
	editions.AddColumn(dbml.NewColumn("seq", "int"))
	editions.AddColumn(dbml.NewColumn("notes", "text"))
	project.AddTable(editions)

	model, err := xmlsql.NewModel(project)
	if err != nil {
		t.Fatalf("Failed to create test model: %v", err)
	}
	return model
}

// TestEngine creates an engine for a dialect over TestModel, logging to t.
func TestEngine(t testing.TB, dialect string, opts ...xmlsql.Option) *xmlsql.Engine {
	t.Helper()
	all := append([]xmlsql.Option{
		xmlsql.WithLogger(zaptest.NewLogger(t)),
		xmlsql.WithModel(TestModel(t)),
	}, opts...)
	engine, err := xmlsql.ForDialect(dialect, all...)
	if err != nil {
		t.Fatalf("Failed to create %s engine: %v", dialect, err)
	}
	return engine
}

// AssertRenders renders q and compares its SQL.
func AssertRenders(t testing.TB, q *xmlsql.Query, expected string) *xmlsql.QueryResult {
	t.Helper()
	result, err := q.Render()
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	AssertSQL(t, expected, result.SQL)
	return result
}

// AssertSQL compares expected and actual SQL, reporting detailed differences.
func AssertSQL(t testing.TB, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("SQL mismatch:\nExpected: %s\nActual:   %s\nFirst difference at byte %d", expected, actual, firstDifference(expected, actual))
	}
}

func firstDifference(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// AssertParams checks that the required params match expected values, in
// any order.
func AssertParams(t testing.TB, expected, actual []string) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Errorf("Param count mismatch: expected %d, got %d\nExpected: %v\nActual: %v",
			len(expected), len(actual), expected, actual)
		return
	}

	expectedMap := make(map[string]bool)
	for _, p := range expected {
		expectedMap[p] = true
	}

	for _, p := range actual {
		if !expectedMap[p] {
			t.Errorf("Unexpected param: %s\nExpected: %v\nActual: %v", p, expected, actual)
		}
	}
}

// AssertContainsParam checks that a specific param is in the list.
func AssertContainsParam(t testing.TB, params []string, param string) {
	t.Helper()
	for _, p := range params {
		if p == param {
			return
		}
	}
	t.Errorf("Expected param %q not found in %v", param, params)
}

// AssertErrorContains checks that error message contains substring.
func AssertErrorContains(t testing.TB, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error containing %q but got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("Expected error containing %q, got: %v", substr, err)
	}
}

// AssertErrorKind checks err against one of the xmlsql Is* predicates.
func AssertErrorKind(t testing.TB, err error, is func(error) bool, kind string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected %s but got nil", kind)
	}
	if !is(err) {
		t.Errorf("Expected %s, got %T: %v", kind, err, err)
	}
}
