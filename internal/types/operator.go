package types

// Operator represents comparison operators.
type Operator string

const (
	EQ Operator = "="
	NE Operator = "<>"
	GT Operator = ">"
	GE Operator = ">="
	LT Operator = "<"
	LE Operator = "<="
)

// LogicOperator represents how predicates are combined.
type LogicOperator string

const (
	AND LogicOperator = "and"
	OR  LogicOperator = "or"
)

// SortOrder is the direction of a sort specification.
type SortOrder string

const (
	ASC  SortOrder = "asc"
	DESC SortOrder = "desc"
)

// NullPrecedence places nulls in a sort.
type NullPrecedence string

const (
	NullsDefault NullPrecedence = ""
	NullsFirst   NullPrecedence = "nulls first"
	NullsLast    NullPrecedence = "nulls last"
)

// SortSpecification is one "order by" item.
type SortSpecification struct {
	Expression Expression
	Order      SortOrder
	Nulls      NullPrecedence
}
