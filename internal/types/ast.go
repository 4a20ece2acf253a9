package types

// SelectItem is one entry of a select clause.
type SelectItem struct {
	Expression Expression
	Alias      string
}

// QuerySpec is a single select statement.
type QuerySpec struct {
	CTEs    []*CteStatement
	Select  []SelectItem
	From    []*TableGroup
	Where   Predicate
	GroupBy []Expression
	OrderBy []SortSpecification
}

// CteStatement is a named common table expression.
type CteStatement struct {
	Name    string
	Columns []string
	Query   *QuerySpec
}

// AddCTE appends a common table expression.
func (q *QuerySpec) AddCTE(cte *CteStatement) {
	q.CTEs = append(q.CTEs, cte)
}

// FindTableGroup returns the table group with the given alias, searching joins.
func (q *QuerySpec) FindTableGroup(alias string) *TableGroup {
	for _, g := range q.From {
		if found := g.find(alias); found != nil {
			return found
		}
	}
	return nil
}

// FindJoin returns the join whose right-hand side has the given alias,
// together with the group owning it.
func (q *QuerySpec) FindJoin(alias string) (*TableGroup, *TableGroupJoin) {
	for _, g := range q.From {
		if owner, join := g.findJoin(alias); join != nil {
			return owner, join
		}
	}
	return nil, nil
}
