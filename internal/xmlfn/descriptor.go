// Package xmlfn declares the XML SQL functions and their standard renderers.
// Dialect packages bind the descriptors to their own renderers.
package xmlfn

import (
	"go.uber.org/zap"

	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/types"
)

// FunctionKind classifies how a function is invoked.
type FunctionKind int

const (
	KindNormal FunctionKind = iota
	KindOrderedSetAggregate
	KindSetReturning
)

func (k FunctionKind) String() string {
	switch k {
	case KindNormal:
		return "NORMAL"
	case KindOrderedSetAggregate:
		return "ORDERED_SET_AGGREGATE"
	case KindSetReturning:
		return "SET_RETURNING"
	}
	return "UNKNOWN"
}

// Call carries the call-site modifiers of a function invocation.
type Call struct {
	// Alias is the table alias of a set-returning call.
	Alias          string
	Filter         types.Predicate
	WithinGroup    []types.SortSpecification
	Lateral        bool
	WithOrdinality bool
}

// Descriptor declares one SQL function for a dialect. Descriptors are
// immutable once built and safe for concurrent use.
type Descriptor interface {
	Name() string
	Kind() FunctionKind
	// Validate checks arity and argument types before any SQL is produced.
	Validate(args []types.Expression) error
	// Generate builds the function node for a call.
	Generate(ctx types.CompilationContext, args []types.Expression, call Call) (*types.FunctionExpression, error)
}

// SetReturning is implemented by table-valued functions.
type SetReturning interface {
	Descriptor
	// ResolveFunctionReturnType computes one selectable mapping per output column.
	ResolveFunctionReturnType(ctx types.CompilationContext, args []types.Expression, call Call) ([]types.SelectableMapping, error)
}

// Rewriter is implemented by renderers that must rewrite the enclosing
// query, typically by registering a query transformer.
type Rewriter interface {
	Rewrite(ctx types.CompilationContext, fn *types.FunctionExpression, call Call) error
}

// ReturnTypeResolver computes the return type of a call.
type ReturnTypeResolver func(args []types.Expression) *types.JdbcMapping

// ArgumentTypeResolver infers the type of an untyped argument at a position.
type ArgumentTypeResolver func(position int, args []types.Expression) *types.JdbcMapping

// Invariant returns a resolver that always yields m.
func Invariant(m types.JdbcMapping) ReturnTypeResolver {
	return func([]types.Expression) *types.JdbcMapping {
		out := m
		return &out
	}
}

// PositionalTypes infers untyped arguments from a fixed list, repeating the
// last entry for trailing positions.
func PositionalTypes(mappings ...types.JdbcMapping) ArgumentTypeResolver {
	return func(position int, _ []types.Expression) *types.JdbcMapping {
		if len(mappings) == 0 {
			return nil
		}
		if position >= len(mappings) {
			position = len(mappings) - 1
		}
		out := mappings[position]
		return &out
	}
}

// Function is the generic Descriptor.
type Function struct {
	name      string
	kind      FunctionKind
	validator ArgumentsValidator
	returns   ReturnTypeResolver
	argTypes  ArgumentTypeResolver
	renderer  types.FunctionRenderer
}

// FunctionOption configures a Function.
type FunctionOption func(*Function)

// WithValidator sets the arguments validator.
func WithValidator(v ArgumentsValidator) FunctionOption {
	return func(f *Function) { f.validator = v }
}

// WithReturnType sets the return type resolver.
func WithReturnType(r ReturnTypeResolver) FunctionOption {
	return func(f *Function) { f.returns = r }
}

// WithArgumentTypes sets the argument type resolver.
func WithArgumentTypes(r ArgumentTypeResolver) FunctionOption {
	return func(f *Function) { f.argTypes = r }
}

// NewFunction creates a descriptor.
func NewFunction(name string, kind FunctionKind, renderer types.FunctionRenderer, opts ...FunctionOption) *Function {
	f := &Function{
		name:      name,
		kind:      kind,
		renderer:  renderer,
		validator: ArgumentsValidator{Max: -1},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Function) Name() string       { return f.name }
func (f *Function) Kind() FunctionKind { return f.kind }

// Renderer returns the dialect renderer bound to the function.
func (f *Function) Renderer() types.FunctionRenderer { return f.renderer }

// Validate checks the arguments against the validator.
func (f *Function) Validate(args []types.Expression) error {
	return f.validator.Validate(f.name, args)
}

// Generate validates the call and builds its function node.
func (f *Function) Generate(ctx types.CompilationContext, args []types.Expression, call Call) (*types.FunctionExpression, error) {
	if err := f.Validate(args); err != nil {
		return nil, err
	}
	if f.kind == KindNormal && (call.Filter != nil || len(call.WithinGroup) > 0) {
		return nil, render.NewFunctionArgumentError(f.name, 0, "filter and within group are only allowed on aggregates")
	}

	coerced := f.coerce(args)
	fn := &types.FunctionExpression{
		Name:        f.name,
		Arguments:   coerced,
		Renderer:    f.renderer,
		Filter:      call.Filter,
		WithinGroup: call.WithinGroup,
	}
	if f.returns != nil {
		fn.ReturnType = f.returns(coerced)
	}
	if rw, ok := f.renderer.(Rewriter); ok {
		if err := rw.Rewrite(ctx, fn, call); err != nil {
			return nil, err
		}
	}
	return fn, nil
}

// coerce copies untyped parameters with their inferred type.
func (f *Function) coerce(args []types.Expression) []types.Expression {
	out := make([]types.Expression, len(args))
	copy(out, args)
	if f.argTypes == nil {
		return out
	}
	for i, arg := range out {
		p, ok := arg.(*types.Parameter)
		if !ok || p.Mapping != nil {
			continue
		}
		if m := f.argTypes(i, args); m != nil {
			typed := *p
			typed.Mapping = m
			out[i] = &typed
		}
	}
	return out
}

// Logger returns the logger of a compilation context, or a no-op logger when
// the context does not carry one.
func Logger(ctx types.CompilationContext) *zap.Logger {
	if l, ok := ctx.(interface{ Logger() *zap.Logger }); ok && l.Logger() != nil {
		return l.Logger()
	}
	return zap.NewNop()
}
