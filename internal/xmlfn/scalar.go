package xmlfn

import (
	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/types"
)

// InClause runs f with c pushed on the walker's clause stack. The clause is
// popped on every exit path.
func InClause(w types.Walker, c types.Clause, f func() error) error {
	w.ClauseStack().Push(c)
	defer w.ClauseStack().Pop()
	return f()
}

// RenderDocument renders a document argument, wrapping it in prefix and suffix
// unless it is already typed as XML.
func RenderDocument(w types.Walker, doc types.Expression, prefix, suffix string) error {
	return RenderWrapped(w, doc, !IsXmlType(doc), prefix, suffix)
}

// RenderWrapped renders e, surrounded by prefix and suffix when wrap is set.
func RenderWrapped(w types.Walker, e types.Expression, wrap bool, prefix, suffix string) error {
	if wrap {
		w.AppendSQL(prefix)
	}
	if err := w.Render(e, types.RenderNormal); err != nil {
		return err
	}
	if wrap {
		w.AppendSQL(suffix)
	}
	return nil
}

// RenderFilteredArgument renders an aggregate argument. When the filter must
// be emulated it is rendered as "case when <filter> then <arg> else null end".
func RenderFilteredArgument(w types.Walker, arg types.Expression, filter types.Predicate, emulate bool) error {
	if filter == nil || !emulate {
		return w.Render(arg, types.RenderNormal)
	}
	w.AppendSQL("case when ")
	if err := InClause(w, types.ClauseWhere, func() error {
		return w.Render(filter, types.RenderNormal)
	}); err != nil {
		return err
	}
	w.AppendSQL(" then ")
	if err := w.Render(arg, types.RenderNormal); err != nil {
		return err
	}
	w.AppendSQL(" else null end")
	return nil
}

// RenderFilterClause renders " filter (where <filter>)".
func RenderFilterClause(w types.Walker, filter types.Predicate) error {
	if filter == nil {
		return nil
	}
	w.AppendSQL(" filter (where ")
	if err := InClause(w, types.ClauseWhere, func() error {
		return w.Render(filter, types.RenderNormal)
	}); err != nil {
		return err
	}
	w.AppendSQL(")")
	return nil
}

// RenderOrderBy renders prefix followed by the sort specifications.
func RenderOrderBy(w types.Walker, prefix string, specs []types.SortSpecification) error {
	if len(specs) == 0 {
		return nil
	}
	w.AppendSQL(prefix)
	return InClause(w, types.ClauseWithinGroup, func() error {
		return render.RenderSortSpecifications(w, specs)
	})
}

// =============================================================================
// Standard renderers
// =============================================================================

// StandardXmlElement renders xmlelement(name "n",xmlattributes(v as "a"),c).
type StandardXmlElement struct{}

func (StandardXmlElement) Render(w types.Walker, fn *types.FunctionExpression) error {
	args := ExtractXmlElementArguments(fn.Arguments)
	w.AppendSQL("xmlelement(name ")
	w.AppendDoubleQuoteEscapedString(args.Name)
	if args.Attributes != nil && len(args.Attributes.Names) > 0 {
		w.AppendSQL(",xmlattributes")
		sep := "("
		for i, name := range args.Attributes.Names {
			w.AppendSQL(sep)
			sep = ","
			if err := w.Render(args.Attributes.Values[i], types.RenderNormal); err != nil {
				return err
			}
			w.AppendSQL(" as ")
			w.AppendDoubleQuoteEscapedString(name)
		}
		w.AppendSQL(")")
	}
	for _, c := range args.Content {
		w.AppendSQL(",")
		if err := w.Render(c, types.RenderNormal); err != nil {
			return err
		}
	}
	w.AppendSQL(")")
	return nil
}

// StandardXmlForest renders xmlforest(e as "n",...).
type StandardXmlForest struct{}

func (StandardXmlForest) Render(w types.Walker, fn *types.FunctionExpression) error {
	w.AppendSQL("xmlforest")
	sep := "("
	for _, item := range ExtractForestItems(fn.Arguments) {
		w.AppendSQL(sep)
		sep = ","
		if err := w.Render(item.Expression, types.RenderNormal); err != nil {
			return err
		}
		w.AppendSQL(" as ")
		w.AppendDoubleQuoteEscapedString(item.Name)
	}
	w.AppendSQL(")")
	return nil
}

// StandardXmlConcat renders xmlconcat(a,b,...).
type StandardXmlConcat struct{}

func (StandardXmlConcat) Render(w types.Walker, fn *types.FunctionExpression) error {
	w.AppendSQL("xmlconcat(")
	for i, arg := range fn.Arguments {
		if i > 0 {
			w.AppendSQL(",")
		}
		if err := w.Render(arg, types.RenderNormal); err != nil {
			return err
		}
	}
	w.AppendSQL(")")
	return nil
}

// StandardXmlPi renders xmlpi(name "t"[,content]).
type StandardXmlPi struct{}

func (StandardXmlPi) Render(w types.Walker, fn *types.FunctionExpression) error {
	w.AppendSQL("xmlpi(name ")
	w.AppendDoubleQuoteEscapedString(PiTarget(fn))
	if len(fn.Arguments) > 1 {
		w.AppendSQL(",")
		if err := w.Render(fn.Arguments[1], types.RenderNormal); err != nil {
			return err
		}
	}
	w.AppendSQL(")")
	return nil
}

// PiTarget returns the processing instruction target of an xmlpi call.
func PiTarget(fn *types.FunctionExpression) string {
	if len(fn.Arguments) > 0 {
		if n, ok := fn.Arguments[0].(*types.XmlElementName); ok {
			return n.Name
		}
	}
	return ""
}

// StandardXmlComment renders xmlcomment(e).
type StandardXmlComment struct{}

func (StandardXmlComment) Render(w types.Walker, fn *types.FunctionExpression) error {
	w.AppendSQL("xmlcomment(")
	if err := w.Render(fn.Arguments[0], types.RenderNormal); err != nil {
		return err
	}
	w.AppendSQL(")")
	return nil
}

// StandardXmlQuery renders xmlquery(q passing [xmlparse(document ]doc[)]).
type StandardXmlQuery struct{}

func (StandardXmlQuery) Render(w types.Walker, fn *types.FunctionExpression) error {
	w.AppendSQL("xmlquery(")
	if err := w.Render(fn.Arguments[0], types.RenderNormal); err != nil {
		return err
	}
	w.AppendSQL(" passing ")
	if err := RenderDocument(w, fn.Arguments[1], "xmlparse(document ", ")"); err != nil {
		return err
	}
	w.AppendSQL(")")
	return nil
}

// StandardXmlExists renders xmlexists(q passing [xmlparse(document ]doc[)]).
type StandardXmlExists struct{}

func (StandardXmlExists) Render(w types.Walker, fn *types.FunctionExpression) error {
	w.AppendSQL("xmlexists(")
	if err := w.Render(fn.Arguments[0], types.RenderNormal); err != nil {
		return err
	}
	w.AppendSQL(" passing ")
	if err := RenderDocument(w, fn.Arguments[1], "xmlparse(document ", ")"); err != nil {
		return err
	}
	w.AppendSQL(")")
	return nil
}

// StandardXmlAgg renders xmlagg(e order by ...) with a filter clause, or a
// case expression around e when the dialect has no filter clause.
type StandardXmlAgg struct{}

func (StandardXmlAgg) Render(w types.Walker, fn *types.FunctionExpression) error {
	emulate := !w.Dialect().SupportsFilterClause()
	w.AppendSQL("xmlagg(")
	if err := RenderFilteredArgument(w, fn.Arguments[0], fn.Filter, emulate); err != nil {
		return err
	}
	if err := RenderOrderBy(w, " order by ", fn.WithinGroup); err != nil {
		return err
	}
	w.AppendSQL(")")
	if !emulate {
		return RenderFilterClause(w, fn.Filter)
	}
	return nil
}

// =============================================================================
// Descriptors
// =============================================================================

// NewXmlElement declares xmlelement(name, [attributes], content...).
func NewXmlElement(r types.FunctionRenderer) *Function {
	return NewFunction("xmlelement", KindNormal, r,
		WithValidator(ArgumentsValidator{Min: 1, Max: -1, Classes: []TypeClass{ClassElementName, ClassAttributesOrAny, ClassAny}}),
		WithReturnType(Invariant(types.XML)),
	)
}

// NewXmlForest declares xmlforest(named...).
func NewXmlForest(r types.FunctionRenderer) *Function {
	return NewFunction("xmlforest", KindNormal, r,
		WithValidator(ArgumentsValidator{Min: 1, Max: -1, Classes: []TypeClass{ClassNamed}}),
		WithReturnType(Invariant(types.XML)),
	)
}

// NewXmlConcat declares xmlconcat(xml...).
func NewXmlConcat(r types.FunctionRenderer) *Function {
	return NewFunction("xmlconcat", KindNormal, r,
		WithValidator(ArgumentsValidator{Min: 1, Max: -1, Classes: []TypeClass{ClassXML}}),
		WithReturnType(Invariant(types.XML)),
		WithArgumentTypes(PositionalTypes(types.XML)),
	)
}

// NewXmlPi declares xmlpi(target [, content]).
func NewXmlPi(r types.FunctionRenderer) *Function {
	return NewFunction("xmlpi", KindNormal, r,
		WithValidator(ArgumentsValidator{Min: 1, Max: 2, Classes: []TypeClass{ClassElementName, ClassString}}),
		WithReturnType(Invariant(types.XML)),
		WithArgumentTypes(PositionalTypes(types.String)),
	)
}

// NewXmlComment declares xmlcomment(text).
func NewXmlComment(r types.FunctionRenderer) *Function {
	return NewFunction("xmlcomment", KindNormal, r,
		WithValidator(ArgumentsValidator{Min: 1, Max: 1, Classes: []TypeClass{ClassString}}),
		WithReturnType(Invariant(types.XML)),
		WithArgumentTypes(PositionalTypes(types.String)),
	)
}

// NewXmlQuery declares xmlquery(query, document).
func NewXmlQuery(r types.FunctionRenderer) *Function {
	return NewFunction("xmlquery", KindNormal, r,
		WithValidator(ArgumentsValidator{Min: 2, Max: 2, Classes: []TypeClass{ClassString, ClassXML}}),
		WithReturnType(Invariant(types.XML)),
		WithArgumentTypes(PositionalTypes(types.String, types.XML)),
	)
}

// NewXmlExists declares xmlexists(query, document).
func NewXmlExists(r types.FunctionRenderer) *Function {
	return NewFunction("xmlexists", KindNormal, r,
		WithValidator(ArgumentsValidator{Min: 2, Max: 2, Classes: []TypeClass{ClassString, ClassXML}}),
		WithReturnType(Invariant(types.Boolean)),
		WithArgumentTypes(PositionalTypes(types.String, types.XML)),
	)
}

// NewXmlAgg declares the xmlagg aggregate.
func NewXmlAgg(r types.FunctionRenderer) *Function {
	return NewFunction("xmlagg", KindOrderedSetAggregate, r,
		WithValidator(ArgumentsValidator{Min: 1, Max: 1, Classes: []TypeClass{ClassXML}}),
		WithReturnType(Invariant(types.XML)),
		WithArgumentTypes(PositionalTypes(types.XML)),
	)
}
