// Package xmlsql renders the SQL/XML functions of an ORM query compiler for
// DB2, Oracle, SQL Server, SAP HANA, Sybase ASE, PostgreSQL and H2.
//
// Each database has a dialect package holding a registry of function
// descriptors. A descriptor validates a call, builds the function node and,
// where the database needs it, queues a rewrite of the enclosing query that
// runs once the query is finalized.
//
// # Basic Usage
//
//	engine, err := xmlsql.ForDialect("postgresql")
//	if err != nil {
//		return err
//	}
//
//	q := engine.NewQuery().From("docs", "t0")
//	q.TableFunction("xmltable", "x1_0",
//		xmlsql.Str("/books/book"),
//		q.Col("t0", "doc"),
//		xmlsql.Columns(
//			xmlsql.Value("title", xmlsql.String),
//			xmlsql.Ordinality("pos"),
//		),
//	)
//	q.Select(q.Col("x1_0", "title"), "")
//
//	result, err := q.Render()
//	// result.SQL: select x1_0.title from docs t0 cross join xmltable(...) x1_0
//
// # Dialects
//
// The dialect names are db2, oracle, sqlserver, hana, sybase, postgresql and
// h2. Dialect settings such as the maximum varchar length or aggregate FILTER
// support are options of ForDialect, or fields of a YAML Config passed to Open.
//
// # Model
//
// Table metadata comes from a DBML project. NewModel indexes its tables and
// columns; queries built against a modelled table get typed column
// references and entity identifiers, which the HANA rewrite correlates on.
//
// # Output Format
//
// Parameters render as named placeholders (`:param_name`) and are listed in
// QueryResult.RequiredParams.
package xmlsql

import (
	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/types"
	"github.com/zoobzio/xmlsql/internal/xmlfn"
)

// QueryResult contains the rendered SQL and required parameters.
type QueryResult = types.QueryResult

// Capabilities describes the SQL features supported by a dialect.
type Capabilities = render.Capabilities

// Call carries the modifiers of a function invocation.
type Call = xmlfn.Call

// Expression types.
type (
	Expression         = types.Expression
	Predicate          = types.Predicate
	ColumnReference    = types.ColumnReference
	Literal            = types.Literal
	Parameter          = types.Parameter
	FunctionExpression = types.FunctionExpression
	NamedExpression    = types.NamedExpression
	XmlElementName     = types.XmlElementName
	XmlAttributes      = types.XmlAttributes
	SortSpecification  = types.SortSpecification
)

// xmltable column types.
type (
	XmlTableColumns   = types.XmlTableColumns
	ColumnDefinition  = types.ColumnDefinition
	ValueColumn       = types.ValueColumn
	QueryColumn       = types.QueryColumn
	OrdinalityColumn  = types.OrdinalityColumn
	CastTarget        = types.CastTarget
	JdbcMapping       = types.JdbcMapping
	SelectableMapping = types.SelectableMapping
	TupleType         = types.TupleType
)

// Model part types.
type (
	ModelPart        = types.ModelPart
	EntityPart       = types.EntityPart
	CollectionPart   = types.CollectionPart
	EmbeddablePart   = types.EmbeddablePart
	IdentifierColumn = types.IdentifierColumn
)

// Mappings.
var (
	Boolean        = types.Boolean
	TFBoolean      = types.TFBoolean
	YNBoolean      = types.YNBoolean
	IntegerBoolean = types.IntegerBoolean
	Short          = types.Short
	Integer        = types.Integer
	Long           = types.Long
	Double         = types.Double
	Decimal        = types.Decimal
	String         = types.String
	Text           = types.Text
	Date           = types.Date
	Timestamp      = types.Timestamp
	XML            = types.XML
)

// Sort directions and null precedence.
const (
	ASC        = types.ASC
	DESC       = types.DESC
	NullsFirst = types.NullsFirst
	NullsLast  = types.NullsLast
)

// Comparison operators.
const (
	EQ = types.EQ
	NE = types.NE
	GT = types.GT
	GE = types.GE
	LT = types.LT
	LE = types.LE
)

// ResolveTupleType builds the row type of resolved xmltable mappings.
func ResolveTupleType(mappings []SelectableMapping) TupleType {
	return xmlfn.ResolveTupleType(mappings)
}
