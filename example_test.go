package xmlsql_test

import (
	"fmt"

	"github.com/zoobzio/xmlsql"
)

func Example() {
	engine, err := xmlsql.ForDialect("postgresql")
	if err != nil {
		panic(err)
	}

	q := engine.NewQuery().From("docs", "t0")
	q.TableFunction("xmltable", "x1_0",
		xmlsql.Str("/books/book"),
		&xmlsql.ColumnReference{Qualifier: "t0", Column: "doc", Mapping: &xmlsql.XML},
		xmlsql.Columns(
			xmlsql.Value("title", xmlsql.String),
			xmlsql.Ordinality("pos"),
		),
	)
	q.Select(q.Col("x1_0", "title"), "")

	result, err := q.Render()
	if err != nil {
		panic(err)
	}
	fmt.Println(result.SQL)
	// Output:
	// select x1_0.title from docs t0 cross join xmltable('/books/book' passing t0.doc columns title varchar path 'title',pos for ordinality) x1_0
}

func ExampleQuery_Aggregate() {
	engine, err := xmlsql.ForDialect("oracle")
	if err != nil {
		panic(err)
	}

	q := engine.NewQuery().From("books", "t0")
	title := &xmlsql.ColumnReference{Qualifier: "t0", Column: "title", Mapping: &xmlsql.String}
	book := q.Call("xmlelement", xmlsql.Name("book"), xmlsql.Attr("title", title))
	q.Select(q.Aggregate("xmlagg", xmlsql.Call{
		WithinGroup: []xmlsql.SortSpecification{xmlsql.Asc(title)},
	}, book), "books")

	result, err := q.Render()
	if err != nil {
		panic(err)
	}
	fmt.Println(result.SQL)
	// Output:
	// select xmlagg(xmlelement(name "book",xmlattributes(t0.title as "title")) order by t0.title) books from books t0
}
