package types

// ColumnReference references a column of a table group.
// When ReadExpression is set it replaces the plain reference and the
// placeholder {@} is substituted with the qualifier.
type ColumnReference struct {
	Qualifier      string
	Column         string
	Mapping        *JdbcMapping
	ReadExpression string
}

// TemplatePlaceholder is replaced with a table qualifier in read expressions.
const TemplatePlaceholder = "{@}"

func (c *ColumnReference) Type() *JdbcMapping { return c.Mapping }

func (c *ColumnReference) String() string {
	if c.Qualifier == "" {
		return c.Column
	}
	return c.Qualifier + "." + c.Column
}

// CollectQualifiers returns the distinct column qualifiers referenced by an
// expression tree, in first-seen order.
func CollectQualifiers(e Expression) []string {
	var out []string
	seen := make(map[string]bool)
	Walk(e, func(n Expression) bool {
		if ref, ok := n.(*ColumnReference); ok && ref.Qualifier != "" && !seen[ref.Qualifier] {
			seen[ref.Qualifier] = true
			out = append(out, ref.Qualifier)
		}
		return true
	})
	return out
}

// ContainsFunction reports whether the tree calls any of the named functions.
func ContainsFunction(e Expression, names ...string) bool {
	found := false
	Walk(e, func(n Expression) bool {
		if fn, ok := n.(*FunctionExpression); ok {
			for _, name := range names {
				if fn.Name == name {
					found = true
					return false
				}
			}
		}
		return !found
	})
	return found
}

// Walk visits e and its children depth first until visit returns false.
func Walk(e Expression, visit func(Expression) bool) bool {
	if e == nil {
		return true
	}
	if !visit(e) {
		return false
	}
	switch n := e.(type) {
	case *FunctionExpression:
		for _, arg := range n.Arguments {
			if !Walk(arg, visit) {
				return false
			}
		}
		if n.Filter != nil && !Walk(n.Filter, visit) {
			return false
		}
		for _, s := range n.WithinGroup {
			if !Walk(s.Expression, visit) {
				return false
			}
		}
	case *CaseSearched:
		for _, w := range n.Whens {
			if !Walk(w.Predicate, visit) || !Walk(w.Result, visit) {
				return false
			}
		}
		return Walk(n.Otherwise, visit)
	case *Concatenation:
		for _, p := range n.Parts {
			if !Walk(p, visit) {
				return false
			}
		}
	case *XmlAttributes:
		for _, v := range n.Values {
			if !Walk(v, visit) {
				return false
			}
		}
	case *NamedExpression:
		return Walk(n.Expression, visit)
	case *ComparisonPredicate:
		return Walk(n.Left, visit) && Walk(n.Right, visit)
	case *NullnessPredicate:
		return Walk(n.Expression, visit)
	case *BooleanPredicate:
		return Walk(n.Expression, visit)
	case *Junction:
		for _, p := range n.Predicates {
			if !Walk(p, visit) {
				return false
			}
		}
	case *XmlTableColumns:
		for _, def := range n.Definitions {
			switch d := def.(type) {
			case *ValueColumn:
				if !Walk(d.Default, visit) {
					return false
				}
			case *QueryColumn:
				if !Walk(d.Default, visit) {
					return false
				}
			}
		}
	}
	return true
}
