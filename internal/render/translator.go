package render

import (
	"fmt"
	"strings"

	"github.com/zoobzio/xmlsql/internal/types"
)

// MaxSubqueryDepth limits nesting of derived tables and CTE bodies.
const MaxSubqueryDepth = 16

// Translator renders a query model to SQL text. It implements types.Walker
// so function renderers can append fragments and delegate nested expressions.
// A Translator renders one statement and is not safe for concurrent use.
type Translator struct {
	dialect *Dialect
	sql     strings.Builder
	params  []string
	used    map[string]bool
	clauses types.ClauseStack
	mode    types.RenderingMode
	depth   int
}

// NewTranslator creates a translator for a dialect.
func NewTranslator(d *Dialect) *Translator {
	return &Translator{
		dialect: d,
		used:    make(map[string]bool),
	}
}

// AppendSQL appends raw SQL fragments.
func (t *Translator) AppendSQL(fragments ...string) {
	for _, f := range fragments {
		t.sql.WriteString(f)
	}
}

// AppendSingleQuoteEscapedString appends s as a single-quoted string literal.
func (t *Translator) AppendSingleQuoteEscapedString(s string) {
	t.sql.WriteString(quote(s))
}

// AppendDoubleQuoteEscapedString appends s as a double-quoted identifier.
func (t *Translator) AppendDoubleQuoteEscapedString(s string) {
	t.sql.WriteByte('"')
	t.sql.WriteString(strings.ReplaceAll(s, `"`, `""`))
	t.sql.WriteByte('"')
}

// Dialect returns the dialect being rendered.
func (t *Translator) Dialect() types.Dialect { return t.dialect }

// ClauseStack returns the clause stack.
func (t *Translator) ClauseStack() *types.ClauseStack { return &t.clauses }

// SQL returns the text rendered so far.
func (t *Translator) SQL() string { return t.sql.String() }

// RequiredParams returns the parameter names in first-use order.
func (t *Translator) RequiredParams() []string { return t.params }

// LiteralValue returns the value of a literal or of a bound parameter.
func (t *Translator) LiteralValue(e types.Expression) (any, error) {
	switch n := e.(type) {
	case *types.Literal:
		return n.Value, nil
	case *types.Parameter:
		if n.Bound {
			return n.Value, nil
		}
	}
	return nil, LiteralExtractionError{Expression: types.Describe(e)}
}

// Render renders an expression in the given parameter rendering mode.
// Inline mode is sticky for nested expressions.
func (t *Translator) Render(e types.Expression, mode types.RenderingMode) error {
	original := t.mode
	if original != types.RenderInlineParameters {
		t.mode = mode
	}
	defer func() { t.mode = original }()
	return t.render(e)
}

// RenderQuery renders a complete statement.
func (t *Translator) RenderQuery(q *types.QuerySpec) (*types.QueryResult, error) {
	if err := t.renderQuerySpec(q); err != nil {
		return nil, err
	}
	return &types.QueryResult{
		SQL:            t.sql.String(),
		RequiredParams: t.params,
	}, nil
}

func (t *Translator) render(e types.Expression) error {
	switch n := e.(type) {
	case nil:
		t.sql.WriteString("null")
	case *types.ColumnReference:
		t.renderColumnReference(n)
	case *types.Literal:
		lit, err := t.dialect.FormatLiteral(n.Value, n.Mapping)
		if err != nil {
			return err
		}
		t.sql.WriteString(lit)
	case *types.Parameter:
		return t.renderParameter(n)
	case *types.FunctionExpression:
		if n.Renderer != nil {
			return n.Renderer.Render(t, n)
		}
		return t.renderGenericFunction(n)
	case *types.ComparisonPredicate:
		if err := t.render(n.Left); err != nil {
			return err
		}
		t.sql.WriteString(string(n.Operator))
		return t.render(n.Right)
	case *types.NullnessPredicate:
		if err := t.render(n.Expression); err != nil {
			return err
		}
		if n.Negated {
			t.sql.WriteString(" is not null")
		} else {
			t.sql.WriteString(" is null")
		}
	case *types.BooleanPredicate:
		return t.render(n.Expression)
	case *types.Junction:
		return t.renderJunction(n, false)
	case *types.CaseSearched:
		return t.renderCase(n)
	case *types.Concatenation:
		for i, part := range n.Parts {
			if i > 0 {
				t.sql.WriteString(t.dialect.cfg.Capabilities.ConcatOperator)
			}
			if err := t.render(part); err != nil {
				return err
			}
		}
	case *types.NamedExpression:
		return t.render(n.Expression)
	default:
		return NewUnsupportedFeatureError(t.dialect.Name(), fmt.Sprintf("rendering %s", types.Describe(e)))
	}
	return nil
}

func (t *Translator) renderColumnReference(c *types.ColumnReference) {
	if c.ReadExpression != "" {
		t.sql.WriteString(strings.ReplaceAll(c.ReadExpression, types.TemplatePlaceholder, c.Qualifier))
		return
	}
	if c.Qualifier != "" {
		t.sql.WriteString(c.Qualifier)
		t.sql.WriteByte('.')
	}
	t.sql.WriteString(c.Column)
}

// addParam registers a parameter and returns its placeholder.
func (t *Translator) addParam(name string) string {
	if !t.used[name] {
		t.params = append(t.params, name)
		t.used[name] = true
	}
	return ":" + name
}

func (t *Translator) renderParameter(p *types.Parameter) error {
	switch t.mode {
	case types.RenderInlineParameters:
		if !p.Bound {
			return LiteralExtractionError{Expression: p.String()}
		}
		lit, err := t.dialect.FormatLiteral(p.Value, p.Mapping)
		if err != nil {
			return err
		}
		t.sql.WriteString(lit)
	case types.RenderNoPlainParameter:
		t.renderCastParameter(p)
	default:
		if t.clauses.Current() == types.ClauseSelect && !t.dialect.cfg.Capabilities.ParametersInSelect {
			t.renderCastParameter(p)
		} else {
			t.sql.WriteString(t.addParam(p.Name))
		}
	}
	return nil
}

func (t *Translator) renderCastParameter(p *types.Parameter) {
	if p.Mapping == nil {
		t.sql.WriteString(t.addParam(p.Name))
		return
	}
	t.sql.WriteString("cast(")
	t.sql.WriteString(t.addParam(p.Name))
	t.sql.WriteString(" as ")
	t.sql.WriteString(StripUnresolved(t.dialect.ColumnType(types.CastTarget{Mapping: *p.Mapping})))
	t.sql.WriteByte(')')
}

func (t *Translator) renderGenericFunction(fn *types.FunctionExpression) error {
	t.sql.WriteString(fn.Name)
	t.sql.WriteByte('(')
	for i, arg := range fn.Arguments {
		if i > 0 {
			t.sql.WriteByte(',')
		}
		if err := t.render(arg); err != nil {
			return err
		}
	}
	t.sql.WriteByte(')')
	return nil
}

func (t *Translator) renderJunction(j *types.Junction, nested bool) error {
	if nested {
		t.sql.WriteByte('(')
	}
	for i, p := range j.Predicates {
		if i > 0 {
			t.sql.WriteString(" " + string(j.Logic) + " ")
		}
		if inner, ok := p.(*types.Junction); ok {
			if err := t.renderJunction(inner, true); err != nil {
				return err
			}
			continue
		}
		if err := t.render(p); err != nil {
			return err
		}
	}
	if nested {
		t.sql.WriteByte(')')
	}
	return nil
}

func (t *Translator) renderCase(c *types.CaseSearched) error {
	t.sql.WriteString("case")
	for _, w := range c.Whens {
		t.sql.WriteString(" when ")
		if err := t.render(w.Predicate); err != nil {
			return err
		}
		t.sql.WriteString(" then ")
		if err := t.render(w.Result); err != nil {
			return err
		}
	}
	t.sql.WriteString(" else ")
	if err := t.render(c.Otherwise); err != nil {
		return err
	}
	t.sql.WriteString(" end")
	return nil
}

// RenderSortSpecifications renders a comma separated order by list.
func (t *Translator) RenderSortSpecifications(specs []types.SortSpecification) error {
	return RenderSortSpecifications(t, specs)
}

// RenderSortSpecifications renders a comma separated order by list through any walker.
func RenderSortSpecifications(w types.Walker, specs []types.SortSpecification) error {
	for i, s := range specs {
		if i > 0 {
			w.AppendSQL(",")
		}
		if err := w.Render(s.Expression, types.RenderNormal); err != nil {
			return err
		}
		if s.Order == types.DESC {
			w.AppendSQL(" desc")
		}
		if s.Nulls != types.NullsDefault {
			w.AppendSQL(" ", string(s.Nulls))
		}
	}
	return nil
}

// =============================================================================
// Statements
// =============================================================================

func (t *Translator) renderQuerySpec(q *types.QuerySpec) error {
	if t.depth >= MaxSubqueryDepth {
		return fmt.Errorf("maximum subquery depth (%d) exceeded", MaxSubqueryDepth)
	}
	t.depth++
	defer func() { t.depth-- }()

	if len(q.CTEs) > 0 {
		if err := t.renderCTEs(q.CTEs); err != nil {
			return err
		}
	}

	if err := t.inClause(types.ClauseSelect, func() error {
		t.sql.WriteString("select ")
		for i, item := range q.Select {
			if i > 0 {
				t.sql.WriteByte(',')
			}
			if err := t.render(item.Expression); err != nil {
				return err
			}
			if item.Alias != "" {
				t.sql.WriteByte(' ')
				t.sql.WriteString(item.Alias)
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if len(q.From) > 0 {
		if err := t.inClause(types.ClauseFrom, func() error {
			t.sql.WriteString(" from ")
			for i, g := range q.From {
				if i > 0 {
					t.sql.WriteByte(',')
				}
				if err := t.renderTableGroup(g); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return err
		}
	}

	if q.Where != nil {
		if err := t.inClause(types.ClauseWhere, func() error {
			t.sql.WriteString(" where ")
			return t.render(q.Where)
		}); err != nil {
			return err
		}
	}

	if len(q.GroupBy) > 0 {
		if err := t.inClause(types.ClauseGroup, func() error {
			t.sql.WriteString(" group by ")
			for i, e := range q.GroupBy {
				if i > 0 {
					t.sql.WriteByte(',')
				}
				if err := t.render(e); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return err
		}
	}

	if len(q.OrderBy) > 0 {
		return t.inClause(types.ClauseOrder, func() error {
			t.sql.WriteString(" order by ")
			return t.RenderSortSpecifications(q.OrderBy)
		})
	}
	return nil
}

func (t *Translator) renderCTEs(ctes []*types.CteStatement) error {
	return t.inClause(types.ClauseWith, func() error {
		t.sql.WriteString("with ")
		for i, cte := range ctes {
			if i > 0 {
				t.sql.WriteByte(',')
			}
			t.sql.WriteString(cte.Name)
			if len(cte.Columns) > 0 {
				t.sql.WriteByte('(')
				t.sql.WriteString(strings.Join(cte.Columns, ","))
				t.sql.WriteByte(')')
			}
			t.sql.WriteString(" as (")
			if err := t.renderQuerySpec(cte.Query); err != nil {
				return err
			}
			t.sql.WriteByte(')')
		}
		t.sql.WriteByte(' ')
		return nil
	})
}

func (t *Translator) renderTableGroup(g *types.TableGroup) error {
	if err := t.renderTableGroupPrimary(g); err != nil {
		return err
	}
	for _, j := range g.Joins {
		if err := t.renderJoin(j); err != nil {
			return err
		}
	}
	return nil
}

func (t *Translator) renderTableGroupPrimary(g *types.TableGroup) error {
	switch {
	case g.Function != nil:
		if err := t.render(g.Function); err != nil {
			return err
		}
	case g.Subquery != nil:
		t.sql.WriteByte('(')
		if err := t.renderQuerySpec(g.Subquery); err != nil {
			return err
		}
		t.sql.WriteByte(')')
	default:
		t.sql.WriteString(g.Table)
	}
	if g.Alias != "" {
		t.sql.WriteByte(' ')
		t.sql.WriteString(g.Alias)
	}
	return nil
}

func (t *Translator) renderJoin(j *types.TableGroupJoin) error {
	switch {
	case j.Predicate == nil && j.Group.Lateral() && t.dialect.cfg.Capabilities.LateralApply:
		if j.Type == types.JoinLeft {
			t.sql.WriteString(" outer apply ")
		} else {
			t.sql.WriteString(" cross apply ")
		}
	case j.Predicate == nil && j.Type != types.JoinLeft:
		t.sql.WriteString(" cross join ")
	case j.Type == types.JoinLeft:
		t.sql.WriteString(" left join ")
	default:
		t.sql.WriteString(" join ")
	}

	if err := t.renderTableGroupPrimary(j.Group); err != nil {
		return err
	}

	if j.Predicate != nil {
		t.sql.WriteString(" on ")
		if err := t.render(j.Predicate); err != nil {
			return err
		}
	} else if j.Type == types.JoinLeft && !(j.Group.Lateral() && t.dialect.cfg.Capabilities.LateralApply) {
		t.sql.WriteString(" on 1=1")
	}

	for _, nested := range j.Group.Joins {
		if err := t.renderJoin(nested); err != nil {
			return err
		}
	}
	return nil
}

// inClause runs f with c pushed on the clause stack.
func (t *Translator) inClause(c types.Clause, f func() error) error {
	t.clauses.Push(c)
	defer t.clauses.Pop()
	return f()
}

// StripUnresolved drops a parenthesised argument list that still contains
// template variables, so "varchar($l)" becomes "varchar".
func StripUnresolved(typeName string) string {
	if i := strings.IndexByte(typeName, '('); i != -1 && i+1 < len(typeName) && typeName[i+1] == '$' {
		return typeName[:i]
	}
	return typeName
}
