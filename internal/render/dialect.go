package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/zoobzio/xmlsql/internal/types"
)

// DefaultMaxVarcharLength applies when a dialect does not configure one.
const DefaultMaxVarcharLength = 4000

// DialectConfig is the static description of a database dialect.
type DialectConfig struct {
	Name             string
	Capabilities     Capabilities
	TypeNames        map[types.SQLType]string
	TrueLiteral      string
	FalseLiteral     string
	TimestampPattern string // %s receives "2006-01-02 15:04:05.999999"
	DatePattern      string // %s receives "2006-01-02"
	MaxVarcharLength int
}

// Option adjusts a dialect at construction.
type Option func(*DialectConfig)

// WithMaxVarcharLength overrides the maximum varchar length.
func WithMaxVarcharLength(n int) Option {
	return func(c *DialectConfig) {
		if n > 0 {
			c.MaxVarcharLength = n
		}
	}
}

// WithFilterClause overrides aggregate FILTER support.
func WithFilterClause(supported bool) Option {
	return func(c *DialectConfig) {
		c.Capabilities.FilterClause = supported
	}
}

// WithParametersInSelect overrides whether plain parameters may appear in
// the select list.
func WithParametersInSelect(supported bool) Option {
	return func(c *DialectConfig) {
		c.Capabilities.ParametersInSelect = supported
	}
}

// Dialect implements types.Dialect from a DialectConfig.
type Dialect struct {
	cfg DialectConfig
}

// NewDialect creates a dialect, applying options over the base config.
func NewDialect(base DialectConfig, opts ...Option) *Dialect {
	cfg := base
	cfg.TypeNames = make(map[types.SQLType]string, len(base.TypeNames))
	for k, v := range base.TypeNames {
		cfg.TypeNames[k] = v
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxVarcharLength <= 0 {
		cfg.MaxVarcharLength = DefaultMaxVarcharLength
	}
	if cfg.Capabilities.ConcatOperator == "" {
		cfg.Capabilities.ConcatOperator = "||"
	}
	return &Dialect{cfg: cfg}
}

// Name returns the dialect name.
func (d *Dialect) Name() string { return d.cfg.Name }

// Capabilities returns the dialect capabilities.
func (d *Dialect) Capabilities() Capabilities { return d.cfg.Capabilities }

// SupportsFilterClause reports aggregate FILTER support.
func (d *Dialect) SupportsFilterClause() bool { return d.cfg.Capabilities.FilterClause }

// MaxVarcharLength returns the longest varchar the dialect allows.
func (d *Dialect) MaxVarcharLength() int { return d.cfg.MaxVarcharLength }

// ColumnType returns the DDL type name of a cast target. Placeholders whose
// value is not set on the target are left in place.
func (d *Dialect) ColumnType(target types.CastTarget) string {
	if target.ColumnDefinition != "" {
		return target.ColumnDefinition
	}
	name, ok := d.cfg.TypeNames[target.Mapping.SQLType]
	if !ok {
		return strings.ToLower(target.Mapping.Name)
	}
	if target.Length > 0 {
		name = strings.ReplaceAll(name, "$l", strconv.Itoa(target.Length))
	}
	if target.Precision > 0 {
		name = strings.ReplaceAll(name, "$p", strconv.Itoa(target.Precision))
		name = strings.ReplaceAll(name, "$s", strconv.Itoa(target.Scale))
	}
	return name
}

// FormatLiteral renders a Go value as a SQL literal.
func (d *Dialect) FormatLiteral(value any, _ *types.JdbcMapping) (string, error) {
	switch v := value.(type) {
	case nil:
		return "null", nil
	case bool:
		if d.cfg.TrueLiteral == "" {
			return "", LiteralFormatError{Dialect: d.cfg.Name, Value: value}
		}
		if v {
			return d.cfg.TrueLiteral, nil
		}
		return d.cfg.FalseLiteral, nil
	case string:
		return quote(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 && d.cfg.DatePattern != "" {
			return strings.Replace(d.cfg.DatePattern, "%s", v.Format("2006-01-02"), 1), nil
		}
		if d.cfg.TimestampPattern == "" {
			return "", LiteralFormatError{Dialect: d.cfg.Name, Value: value}
		}
		return strings.Replace(d.cfg.TimestampPattern, "%s", v.Format("2006-01-02 15:04:05.999999"), 1), nil
	}
	return "", LiteralFormatError{Dialect: d.cfg.Name, Value: value}
}

// quote wraps s in single quotes, doubling embedded quotes.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
