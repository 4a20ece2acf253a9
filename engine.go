package xmlsql

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/zoobzio/xmlsql/db2"
	"github.com/zoobzio/xmlsql/h2"
	"github.com/zoobzio/xmlsql/hana"
	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/types"
	"github.com/zoobzio/xmlsql/internal/xmlfn"
	"github.com/zoobzio/xmlsql/mssql"
	"github.com/zoobzio/xmlsql/oracle"
	"github.com/zoobzio/xmlsql/postgres"
	"github.com/zoobzio/xmlsql/sybase"
)

// Dialect is implemented by every dialect package renderer.
type Dialect interface {
	Name() string
	Dialect() *render.Dialect
	Registry() *xmlfn.Registry
	Render(q *types.QuerySpec) (*types.QueryResult, error)
	Capabilities() render.Capabilities
}

type dialectFactory func(opts ...render.Option) Dialect

var dialects = map[string]dialectFactory{
	db2.Name:      func(opts ...render.Option) Dialect { return db2.New(opts...) },
	oracle.Name:   func(opts ...render.Option) Dialect { return oracle.New(opts...) },
	mssql.Name:    func(opts ...render.Option) Dialect { return mssql.New(opts...) },
	hana.Name:     func(opts ...render.Option) Dialect { return hana.New(opts...) },
	sybase.Name:   func(opts ...render.Option) Dialect { return sybase.New(opts...) },
	postgres.Name: func(opts ...render.Option) Dialect { return postgres.New(opts...) },
	h2.Name:       func(opts ...render.Option) Dialect { return h2.New(opts...) },
}

// Dialects returns the supported dialect names, sorted.
func Dialects() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	model   *Model
	dialect []render.Option
}

// WithLogger sets the logger used while compiling queries.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithModel sets the table metadata queries are built against.
func WithModel(m *Model) Option {
	return func(o *options) {
		o.model = m
	}
}

// WithMaxVarcharLength overrides the longest varchar the dialect allows.
// Oracle uses it in place of clob for xmltable columns.
func WithMaxVarcharLength(n int) Option {
	return func(o *options) {
		o.dialect = append(o.dialect, render.WithMaxVarcharLength(n))
	}
}

// WithFilterClause overrides aggregate FILTER support. Without it the
// filter of xmlagg is folded into a case expression.
func WithFilterClause(supported bool) Option {
	return func(o *options) {
		o.dialect = append(o.dialect, render.WithFilterClause(supported))
	}
}

// WithParametersInSelect overrides whether plain parameters may appear in
// the select list. Without it they are rendered inside a typed cast.
func WithParametersInSelect(supported bool) Option {
	return func(o *options) {
		o.dialect = append(o.dialect, render.WithParametersInSelect(supported))
	}
}

// Engine compiles queries for one dialect. It holds no per-query state and
// is safe for concurrent use.
type Engine struct {
	dialect Dialect
	logger  *zap.Logger
	model   *Model
}

// ForDialect creates an engine for the named dialect.
func ForDialect(name string, opts ...Option) (*Engine, error) {
	factory, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %v)", ErrUnknownDialect, name, Dialects())
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	d := factory(o.dialect...)
	o.logger.Debug("engine created",
		zap.String("dialect", d.Name()),
		zap.Strings("functions", d.Registry().Names()))

	return &Engine{dialect: d, logger: o.logger, model: o.model}, nil
}

// Name returns the dialect name.
func (e *Engine) Name() string { return e.dialect.Name() }

// Dialect returns the dialect renderer.
func (e *Engine) Dialect() Dialect { return e.dialect }

// Capabilities returns the SQL features of the dialect.
func (e *Engine) Capabilities() Capabilities { return e.dialect.Capabilities() }

// Model returns the table metadata, or nil.
func (e *Engine) Model() *Model { return e.model }

// Logger returns the engine logger.
func (e *Engine) Logger() *zap.Logger { return e.logger }

// Functions returns the names of the XML functions the dialect supports.
func (e *Engine) Functions() []string { return e.dialect.Registry().Names() }

// Supports reports whether the dialect registers the named function.
func (e *Engine) Supports(function string) bool {
	_, ok := e.dialect.Registry().Find(function)
	return ok
}

// Validate checks the arguments of a call without building it.
func (e *Engine) Validate(function string, args ...Expression) error {
	desc, err := e.find(function)
	if err != nil {
		return err
	}
	return desc.Validate(args)
}

func (e *Engine) find(function string) (xmlfn.Descriptor, error) {
	desc, ok := e.dialect.Registry().Find(function)
	if !ok {
		return nil, render.NewUnsupportedFeatureError(e.dialect.Name(), function,
			fmt.Sprintf("supported functions: %v", e.Functions()))
	}
	return desc, nil
}
