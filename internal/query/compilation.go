// Package query holds the per-statement compilation context.
package query

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/zoobzio/xmlsql/internal/types"
)

// ErrFinalized is returned when a compilation is finalized twice.
var ErrFinalized = errors.New("compilation already finalized")

// Compilation is the state of one query being compiled. It owns the ordered
// list of pending query transformers and applies them once at Finalize.
type Compilation struct {
	dialect   types.Dialect
	query     *types.QuerySpec
	pending   []types.QueryTransformer
	aliases   map[string]int
	logger    *zap.Logger
	finalized bool
}

// New creates a compilation for a query.
func New(d types.Dialect, q *types.QuerySpec, logger *zap.Logger) *Compilation {
	if logger == nil {
		logger = zap.NewNop()
	}
	if q == nil {
		q = &types.QuerySpec{}
	}
	return &Compilation{
		dialect: d,
		query:   q,
		aliases: make(map[string]int),
		logger:  logger,
	}
}

// Dialect returns the target dialect.
func (c *Compilation) Dialect() types.Dialect { return c.dialect }

// Query returns the query being built.
func (c *Compilation) Query() *types.QuerySpec { return c.query }

// Logger returns the compilation logger.
func (c *Compilation) Logger() *zap.Logger { return c.logger }

// RegisterQueryTransformer queues a rewrite to run at Finalize.
func (c *Compilation) RegisterQueryTransformer(t types.QueryTransformer) {
	c.pending = append(c.pending, t)
	c.logger.Debug("query transformer registered",
		zap.String("dialect", c.dialect.Name()),
		zap.Int("pending", len(c.pending)))
}

// Pending returns the number of queued transformers.
func (c *Compilation) Pending() int { return len(c.pending) }

// FindTableGroup returns the table group with the given alias.
func (c *Compilation) FindTableGroup(alias string) *types.TableGroup {
	return c.query.FindTableGroup(alias)
}

// GenerateAlias returns a fresh alias such as "xa1_0" for stem "xa".
func (c *Compilation) GenerateAlias(stem string) string {
	c.aliases[stem]++
	return fmt.Sprintf("%s%d_0", stem, c.aliases[stem])
}

// Finalize applies the queued transformers in registration order and
// returns the resulting query. It may be called once.
func (c *Compilation) Finalize() (*types.QuerySpec, error) {
	if c.finalized {
		return nil, ErrFinalized
	}
	c.finalized = true

	q := c.query
	for i, t := range c.pending {
		next, err := t(q)
		if err != nil {
			return nil, fmt.Errorf("query transformer %d: %w", i, err)
		}
		if next != nil {
			q = next
		}
	}
	if len(c.pending) > 0 {
		c.logger.Debug("query transformers applied",
			zap.String("dialect", c.dialect.Name()),
			zap.Int("count", len(c.pending)))
	}
	c.pending = nil
	c.query = q
	return q, nil
}
