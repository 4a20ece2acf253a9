package types

// JoinType is the kind of a table group join.
type JoinType int

const (
	JoinCross JoinType = iota
	JoinInner
	JoinLeft
)

// TableGroup is a FROM clause item: a table, a table-valued function call or
// a derived table.
type TableGroup struct {
	Alias     string
	Table     string
	Function  *FunctionExpression
	Subquery  *QuerySpec
	ModelPart ModelPart
	Mappings  []SelectableMapping
	Joins     []*TableGroupJoin
}

// TableGroupJoin joins a table group to its owner.
type TableGroupJoin struct {
	Type      JoinType
	Group     *TableGroup
	Predicate Predicate
}

// Lateral reports whether the group may reference earlier FROM items.
func (g *TableGroup) Lateral() bool {
	return g.Function != nil || g.Subquery != nil
}

// AddJoin appends a join.
func (g *TableGroup) AddJoin(join *TableGroupJoin) {
	g.Joins = append(g.Joins, join)
}

// ApplyPredicate ANDs a predicate onto the join, turning a cross join inner.
func (j *TableGroupJoin) ApplyPredicate(p Predicate) {
	j.Predicate = Conjunction(j.Predicate, p)
	if j.Type == JoinCross && j.Predicate != nil {
		j.Type = JoinInner
	}
}

func (g *TableGroup) find(alias string) *TableGroup {
	if g.Alias == alias {
		return g
	}
	for _, j := range g.Joins {
		if found := j.Group.find(alias); found != nil {
			return found
		}
	}
	return nil
}

func (g *TableGroup) findJoin(alias string) (*TableGroup, *TableGroupJoin) {
	for _, j := range g.Joins {
		if j.Group.Alias == alias {
			return g, j
		}
		if owner, found := j.Group.findJoin(alias); found != nil {
			return owner, found
		}
	}
	return nil, nil
}
