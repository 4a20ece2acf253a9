package types

// RenderingMode controls how parameters are rendered.
type RenderingMode int

const (
	// RenderNormal renders parameters as placeholders.
	RenderNormal RenderingMode = iota
	// RenderNoPlainParameter wraps placeholders in a typed cast.
	RenderNoPlainParameter
	// RenderInlineParameters renders bound parameter values as literals.
	RenderInlineParameters
)

// Clause identifies the SQL clause currently being rendered.
type Clause int

const (
	ClauseNone Clause = iota
	ClauseWith
	ClauseSelect
	ClauseFrom
	ClauseWhere
	ClauseGroup
	ClauseOrder
	ClauseWithinGroup
	ClauseFilter
)

// ClauseStack tracks nested clauses while rendering.
type ClauseStack struct {
	clauses []Clause
}

// Push enters a clause.
func (s *ClauseStack) Push(c Clause) {
	s.clauses = append(s.clauses, c)
}

// Pop leaves the current clause.
func (s *ClauseStack) Pop() {
	if len(s.clauses) > 0 {
		s.clauses = s.clauses[:len(s.clauses)-1]
	}
}

// Current returns the innermost clause.
func (s *ClauseStack) Current() Clause {
	if len(s.clauses) == 0 {
		return ClauseNone
	}
	return s.clauses[len(s.clauses)-1]
}

// Depth returns the number of pushed clauses.
func (s *ClauseStack) Depth() int {
	return len(s.clauses)
}

// Dialect is the per-database information renderers consult.
type Dialect interface {
	Name() string
	SupportsFilterClause() bool
	MaxVarcharLength() int
	// ColumnType returns the DDL type for a cast target. Unresolved length,
	// precision and scale remain as $l, $p and $s.
	ColumnType(target CastTarget) string
	// FormatLiteral renders a value as a SQL literal of the given mapping.
	FormatLiteral(value any, mapping *JdbcMapping) (string, error)
}

// Walker renders SQL text for function renderers.
type Walker interface {
	AppendSQL(fragments ...string)
	AppendSingleQuoteEscapedString(s string)
	AppendDoubleQuoteEscapedString(s string)
	Render(e Expression, mode RenderingMode) error
	// LiteralValue extracts a statically known value.
	LiteralValue(e Expression) (any, error)
	Dialect() Dialect
	ClauseStack() *ClauseStack
}

// FunctionRenderer writes the SQL of one function call.
type FunctionRenderer interface {
	Render(w Walker, fn *FunctionExpression) error
}

// QueryTransformer rewrites the query once compilation is finalized.
type QueryTransformer func(q *QuerySpec) (*QuerySpec, error)

// CompilationContext is the query compiler state visible to descriptors.
type CompilationContext interface {
	Dialect() Dialect
	RegisterQueryTransformer(t QueryTransformer)
	FindTableGroup(alias string) *TableGroup
	GenerateAlias(stem string) string
}
