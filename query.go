package xmlsql

import (
	"fmt"

	"github.com/zoobzio/xmlsql/internal/query"
	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/types"
	"github.com/zoobzio/xmlsql/internal/xmlfn"
)

// Query builds one select statement. The first error stops the build and
// is returned by Render. A Query is rendered once and is not safe for
// concurrent use.
type Query struct {
	engine *Engine
	spec   *types.QuerySpec
	comp   *query.Compilation
	err    error
}

// NewQuery starts a query.
func (e *Engine) NewQuery() *Query {
	spec := &types.QuerySpec{}
	return &Query{
		engine: e,
		spec:   spec,
		comp:   query.New(e.dialect.Dialect(), spec, e.logger),
	}
}

// Err returns the first build error.
func (q *Query) Err() error { return q.err }

// Spec returns the query being built.
func (q *Query) Spec() *types.QuerySpec { return q.spec }

func (q *Query) fail(err error) {
	if q.err == nil {
		q.err = err
	}
}

// From adds a table to the from clause. Tables known to the model carry
// their entity identifiers.
func (q *Query) From(table, alias string) *Query {
	if q.err != nil {
		return q
	}
	if q.spec.FindTableGroup(alias) != nil {
		q.fail(fmt.Errorf("alias '%s' is already used", alias))
		return q
	}
	group := &types.TableGroup{Alias: alias, Table: table}
	if m := q.engine.model; m != nil && m.HasTable(table) {
		part, err := m.Entity(table)
		if err != nil {
			q.fail(err)
			return q
		}
		group.ModelPart = part
	}
	q.spec.From = append(q.spec.From, group)
	return q
}

// FromPart adds the table of a model part, such as a collection table, to
// the from clause.
func (q *Query) FromPart(part ModelPart, alias string) *Query {
	if q.err != nil {
		return q
	}
	if q.spec.FindTableGroup(alias) != nil {
		q.fail(fmt.Errorf("alias '%s' is already used", alias))
		return q
	}
	q.spec.From = append(q.spec.From, &types.TableGroup{Alias: alias, Table: part.TableName(), ModelPart: part})
	return q
}

// Col references a column of a table group. Columns of a table function
// carry their resolved type and read expression; columns of a modelled
// table carry their model mapping.
func (q *Query) Col(alias, column string) *ColumnReference {
	ref := &types.ColumnReference{Qualifier: alias, Column: column}
	group := q.spec.FindTableGroup(alias)
	if group == nil {
		return ref
	}
	if group.Function != nil {
		if m, ok := xmlfn.ResolveTupleType(group.Mappings).Find(column); ok {
			mapping := m.Mapping
			ref.Mapping = &mapping
			ref.ReadExpression = m.ReadExpression
		}
		return ref
	}
	if model := q.engine.model; model != nil {
		if m, ok := model.Mapping(group.Table, column); ok {
			ref.Mapping = &m
		}
	}
	return ref
}

// Call builds a scalar XML function call.
func (q *Query) Call(function string, args ...Expression) Expression {
	return q.generate(function, Call{}, args)
}

// Aggregate builds an aggregate call with its filter and within group
// ordering.
func (q *Query) Aggregate(function string, call Call, args ...Expression) Expression {
	return q.generate(function, call, args)
}

func (q *Query) generate(function string, call Call, args []Expression) Expression {
	if q.err != nil {
		return nil
	}
	desc, err := q.engine.find(function)
	if err != nil {
		q.fail(err)
		return nil
	}
	if desc.Kind() == xmlfn.KindSetReturning {
		q.fail(render.NewFunctionArgumentError(function, 0, "set-returning functions belong in the from clause"))
		return nil
	}
	fn, err := desc.Generate(q.comp, args, call)
	if err != nil {
		q.fail(err)
		return nil
	}
	return fn
}

// TableFunction joins a set-returning function call under alias. It is
// joined laterally to the first from item, or becomes the first from item
// when there is none.
func (q *Query) TableFunction(function, alias string, args ...Expression) *Query {
	if q.err != nil {
		return q
	}
	desc, err := q.engine.find(function)
	if err != nil {
		q.fail(err)
		return q
	}
	srf, ok := desc.(xmlfn.SetReturning)
	if !ok {
		q.fail(render.NewFunctionArgumentError(function, 0, "not a set-returning function"))
		return q
	}
	if q.spec.FindTableGroup(alias) != nil {
		q.fail(fmt.Errorf("alias '%s' is already used", alias))
		return q
	}

	call := Call{Alias: alias, Lateral: len(q.spec.From) > 0}
	mappings, err := srf.ResolveFunctionReturnType(q.comp, args, call)
	if err != nil {
		q.fail(err)
		return q
	}
	fn, err := srf.Generate(q.comp, args, call)
	if err != nil {
		q.fail(err)
		return q
	}

	group := &types.TableGroup{Alias: alias, Function: fn, Mappings: mappings}
	if len(q.spec.From) == 0 {
		q.spec.From = append(q.spec.From, group)
		return q
	}
	q.spec.From[0].AddJoin(&types.TableGroupJoin{Type: types.JoinCross, Group: group})
	return q
}

// Mappings returns the resolved columns of a table function.
func (q *Query) Mappings(alias string) []SelectableMapping {
	group := q.spec.FindTableGroup(alias)
	if group == nil {
		return nil
	}
	return group.Mappings
}

// Select adds an expression to the select list. An empty alias selects it
// unnamed.
func (q *Query) Select(e Expression, alias string) *Query {
	if q.err != nil {
		return q
	}
	if e == nil {
		q.fail(fmt.Errorf("select item cannot be nil"))
		return q
	}
	q.spec.Select = append(q.spec.Select, types.SelectItem{Expression: e, Alias: alias})
	return q
}

// Where ANDs a predicate onto the where clause.
func (q *Query) Where(p Predicate) *Query {
	if q.err != nil {
		return q
	}
	q.spec.Where = types.Conjunction(q.spec.Where, p)
	return q
}

// GroupBy adds grouping expressions.
func (q *Query) GroupBy(exprs ...Expression) *Query {
	if q.err != nil {
		return q
	}
	q.spec.GroupBy = append(q.spec.GroupBy, exprs...)
	return q
}

// OrderBy adds sort specifications.
func (q *Query) OrderBy(specs ...SortSpecification) *Query {
	if q.err != nil {
		return q
	}
	q.spec.OrderBy = append(q.spec.OrderBy, specs...)
	return q
}

// Render applies the queued query rewrites and renders the SQL.
func (q *Query) Render() (*QueryResult, error) {
	if q.err != nil {
		return nil, q.err
	}
	if len(q.spec.Select) == 0 {
		return nil, fmt.Errorf("query has no select items")
	}
	spec, err := q.comp.Finalize()
	if err != nil {
		return nil, err
	}
	result, err := q.engine.dialect.Render(spec)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", q.engine.Name(), err)
	}
	return result, nil
}

// MustRender renders the query and panics on error.
func (q *Query) MustRender() *QueryResult {
	result, err := q.Render()
	if err != nil {
		panic(err)
	}
	return result
}
