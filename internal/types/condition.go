package types

// ComparisonPredicate compares two expressions.
type ComparisonPredicate struct {
	Left     Expression
	Operator Operator
	Right    Expression
}

// NullnessPredicate tests an expression for null.
type NullnessPredicate struct {
	Expression Expression
	Negated    bool
}

// BooleanPredicate uses a boolean valued expression, such as xmlexists, as a
// predicate.
type BooleanPredicate struct {
	Expression Expression
}

// Junction combines predicates with AND/OR logic.
type Junction struct {
	Logic      LogicOperator
	Predicates []Predicate
}

func (*ComparisonPredicate) Type() *JdbcMapping { return &Boolean }
func (*NullnessPredicate) Type() *JdbcMapping   { return &Boolean }
func (*Junction) Type() *JdbcMapping            { return &Boolean }
func (*BooleanPredicate) Type() *JdbcMapping    { return &Boolean }

func (*ComparisonPredicate) IsPredicate() {}
func (*NullnessPredicate) IsPredicate()   {}
func (*Junction) IsPredicate()            {}
func (*BooleanPredicate) IsPredicate()    {}

// Conjunction ANDs predicates, dropping nils. It returns nil when nothing is left
// and the single predicate when only one is.
func Conjunction(predicates ...Predicate) Predicate {
	var kept []Predicate
	for _, p := range predicates {
		if p != nil {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return &Junction{Logic: AND, Predicates: kept}
}
