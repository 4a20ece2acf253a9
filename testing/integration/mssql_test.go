package integration

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/mssql"

	"github.com/zoobzio/xmlsql"
)

// MSSQLContainer wraps a testcontainers SQL Server instance.
type MSSQLContainer struct {
	container *mssql.MSSQLServerContainer
	db        *sql.DB
	connStr   string
}

// Exec executes a SQL statement.
func (mc *MSSQLContainer) Exec(ctx context.Context, t *testing.T, sql string, args ...any) {
	t.Helper()
	_, err := mc.db.ExecContext(ctx, sql, args...)
	if err != nil {
		t.Fatalf("Failed to execute SQL: %v\nSQL: %s", err, sql)
	}
}

// Query executes a query and returns rows.
func (mc *MSSQLContainer) Query(ctx context.Context, t *testing.T, sql string, args ...any) *sql.Rows {
	t.Helper()
	rows, err := mc.db.QueryContext(ctx, sql, args...)
	if err != nil {
		t.Fatalf("Failed to execute query: %v\nSQL: %s", err, sql)
	}
	return rows
}

// QueryString runs a rendered query expected to return one text value.
func (mc *MSSQLContainer) QueryString(ctx context.Context, t *testing.T, result *xmlsql.QueryResult, params map[string]any) string {
	t.Helper()
	query, args := convertMSSQLParams(result, params)
	var s string
	if err := mc.db.QueryRowContext(ctx, query, args...).Scan(&s); err != nil {
		t.Fatalf("Failed to scan: %v\nSQL: %s", err, query)
	}
	return s
}

// setupMSSQLSchema creates and seeds the test tables.
func setupMSSQLSchema(ctx context.Context, t *testing.T, mc *MSSQLContainer) {
	t.Helper()

	mc.Exec(ctx, t, `
		IF OBJECT_ID('dbo.docs', 'U') IS NOT NULL DROP TABLE docs;
		IF OBJECT_ID('dbo.books', 'U') IS NOT NULL DROP TABLE books;
	`)
	mc.Exec(ctx, t, `
		CREATE TABLE docs (
			id INT PRIMARY KEY,
			doc NVARCHAR(MAX),
			xdoc XML
		)
	`)
	mc.Exec(ctx, t, `
		CREATE TABLE books (
			id INT PRIMARY KEY,
			title VARCHAR(200)
		)
	`)

	mc.Exec(ctx, t, `INSERT INTO docs (id, doc, xdoc) VALUES (@p1, @p2, @p2), (@p3, @p4, @p4)`,
		1, catalogOne, 2, catalogTwo)
	mc.Exec(ctx, t, `INSERT INTO books (id, title) VALUES (1, 'Go'), (2, 'SQL'), (3, NULL)`)
}

// convertMSSQLParams converts named parameters to @name parameters.
func convertMSSQLParams(result *xmlsql.QueryResult, params map[string]any) (convertedSQL string, args []any) {
	convertedSQL = bindParams(result, func(_ int, name string) string {
		return "@" + name
	})
	args = make([]any, 0, len(result.RequiredParams))
	for _, name := range result.RequiredParams {
		args = append(args, sql.Named(name, params[name]))
	}
	return convertedSQL, args
}

func TestMSSQL_XmlTable(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	mc := getMSSQLContainer(t)
	setupMSSQLSchema(ctx, t, mc)

	engine := newTestEngine(t, "sqlserver")
	q := engine.NewQuery().From("docs", "t0")
	q.TableFunction("xmltable", "x1_0",
		xmlsql.Str("/books/book"),
		q.Col("t0", "xdoc"),
		xmlsql.Columns(
			xmlsql.ValueAt("title", xmlsql.String, 100, "title"),
			xmlsql.Value("year", xmlsql.Integer),
			xmlsql.ValueAt("lang", xmlsql.String, 2, "@lang"),
		),
	)
	q.Select(q.Col("t0", "id"), "").
		Select(q.Col("x1_0", "title"), "").
		Select(q.Col("x1_0", "year"), "").
		Select(q.Col("x1_0", "lang"), "").
		Where(xmlsql.C(q.Col("x1_0", "year"), xmlsql.GT, xmlsql.Param("year"))).
		OrderBy(xmlsql.Asc(q.Col("x1_0", "year")))

	query, args := convertMSSQLParams(render(t, q), map[string]any{"year": 1990})
	rows := mc.Query(ctx, t, query, args...)
	defer rows.Close()

	var got []string
	for rows.Next() {
		var id, year int
		var title, lang string
		if err := rows.Scan(&id, &title, &year, &lang); err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		got = append(got, fmt.Sprintf("%d:%s:%d:%s", id, title, year, lang))
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Rows failed: %v", err)
	}

	want := []string{"2:XML:1998:de", "1:Go:2012:en"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
}

func TestMSSQL_XmlAgg(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	mc := getMSSQLContainer(t)
	setupMSSQLSchema(ctx, t, mc)

	engine := newTestEngine(t, "sqlserver")
	q := engine.NewQuery().From("books", "t0")
	title := q.Col("t0", "title")
	call := xmlsql.Call{
		Filter:      xmlsql.NotNull(title),
		WithinGroup: []xmlsql.SortSpecification{xmlsql.Asc(q.Col("t0", "id"))},
	}
	q.Select(q.Aggregate("xmlagg", call, q.Call("xmlelement", xmlsql.Name("book"), xmlsql.Attr("title", title))), "books")

	got := mc.QueryString(ctx, t, render(t, q), nil)
	if want := `<book title="Go"/><book title="SQL"/>`; got != want {
		t.Errorf("xmlagg = %q, want %q", got, want)
	}
}

func TestMSSQL_Scalars(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	mc := getMSSQLContainer(t)
	setupMSSQLSchema(ctx, t, mc)

	engine := newTestEngine(t, "sqlserver")

	t.Run("xmlforest", func(t *testing.T) {
		q := engine.NewQuery().From("books", "t0")
		q.Select(q.Call("xmlforest", q.Col("t0", "title"), q.Col("t0", "id")), "").
			Where(xmlsql.C(q.Col("t0", "id"), xmlsql.EQ, xmlsql.Param("id")))

		got := mc.QueryString(ctx, t, render(t, q), map[string]any{"id": 1})
		if got != "<title>Go</title><id>1</id>" {
			t.Errorf("xmlforest = %q", got)
		}
	})

	t.Run("xmlquery", func(t *testing.T) {
		q := engine.NewQuery().From("docs", "t0")
		q.Select(q.Call("xmlquery", xmlsql.Str("/books/book[1]/title"), q.Col("t0", "xdoc")), "").
			Where(xmlsql.C(q.Col("t0", "id"), xmlsql.EQ, xmlsql.Lit(2)))

		got := mc.QueryString(ctx, t, render(t, q), nil)
		if got != "<title>XML</title>" {
			t.Errorf("xmlquery = %q", got)
		}
	})
}

func TestMSSQL_XmlExists(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	mc := getMSSQLContainer(t)
	setupMSSQLSchema(ctx, t, mc)

	engine := newTestEngine(t, "sqlserver")
	q := engine.NewQuery().From("docs", "t0")
	q.Select(q.Col("t0", "id"), "").
		Where(xmlsql.Holds(q.Call("xmlexists", xmlsql.Str("/books/book[@lang=\"de\"]"), q.Col("t0", "xdoc"))))

	rows := mc.Query(ctx, t, render(t, q).SQL)
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		ids = append(ids, id)
	}
	if len(ids) != 1 || ids[0] != 2 {
		t.Errorf("ids = %v, want [2]", ids)
	}
}
