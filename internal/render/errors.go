package render

import (
	"fmt"
)

// UnsupportedFeatureError indicates a feature not supported by the dialect.
type UnsupportedFeatureError struct {
	Feature string
	Dialect string
	Hint    string
}

func (e UnsupportedFeatureError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s is not supported: %s", e.Dialect, e.Feature, e.Hint)
	}
	return fmt.Sprintf("%s: %s is not supported", e.Dialect, e.Feature)
}

// NewUnsupportedFeatureError creates a new unsupported feature error.
func NewUnsupportedFeatureError(dialect, feature string, hint ...string) error {
	err := UnsupportedFeatureError{Feature: feature, Dialect: dialect}
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	return err
}

// FunctionArgumentError reports a call whose arguments do not satisfy the
// function's contract. Position is 1-based, or 0 for arity errors.
type FunctionArgumentError struct {
	Function string
	Position int
	Reason   string
}

func (e FunctionArgumentError) Error() string {
	if e.Position > 0 {
		return fmt.Sprintf("%s: argument %d: %s", e.Function, e.Position, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Function, e.Reason)
}

// NewFunctionArgumentError creates a new function argument error.
func NewFunctionArgumentError(function string, position int, format string, args ...any) error {
	return FunctionArgumentError{Function: function, Position: position, Reason: fmt.Sprintf(format, args...)}
}

// QueryConstructionError reports a call the dialect cannot express.
type QueryConstructionError struct {
	Dialect  string
	Function string
	Reason   string
}

func (e QueryConstructionError) Error() string {
	return fmt.Sprintf("%s: cannot render %s: %s", e.Dialect, e.Function, e.Reason)
}

// NewQueryConstructionError creates a new query construction error.
func NewQueryConstructionError(dialect, function, format string, args ...any) error {
	return QueryConstructionError{Dialect: dialect, Function: function, Reason: fmt.Sprintf(format, args...)}
}

// LiteralExtractionError reports an expression whose value is not known
// at compile time.
type LiteralExtractionError struct {
	Expression string
	Reason     string
}

func (e LiteralExtractionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("expression %s: %s", e.Expression, e.Reason)
	}
	return fmt.Sprintf("expression %s is not a literal", e.Expression)
}

// LiteralFormatError reports a value the dialect cannot write as a literal.
type LiteralFormatError struct {
	Dialect string
	Value   any
}

func (e LiteralFormatError) Error() string {
	return fmt.Sprintf("%s: cannot format %T value %v as a literal", e.Dialect, e.Value, e.Value)
}
