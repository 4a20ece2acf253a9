package xmlsql

import (
	"errors"

	"github.com/zoobzio/xmlsql/internal/query"
	"github.com/zoobzio/xmlsql/internal/render"
)

// Error types.
type (
	FunctionArgumentError   = render.FunctionArgumentError
	QueryConstructionError  = render.QueryConstructionError
	LiteralExtractionError  = render.LiteralExtractionError
	LiteralFormatError      = render.LiteralFormatError
	UnsupportedFeatureError = render.UnsupportedFeatureError
)

// ErrFinalized is returned when a query is rendered twice.
var ErrFinalized = query.ErrFinalized

// ErrUnknownDialect is returned for a dialect name with no renderer.
var ErrUnknownDialect = errors.New("unknown dialect")

// IsFunctionArgumentError reports whether err carries a FunctionArgumentError.
func IsFunctionArgumentError(err error) bool {
	var e FunctionArgumentError
	return errors.As(err, &e)
}

// IsQueryConstructionError reports whether err carries a QueryConstructionError.
func IsQueryConstructionError(err error) bool {
	var e QueryConstructionError
	return errors.As(err, &e)
}

// IsLiteralExtractionError reports whether err carries a LiteralExtractionError.
func IsLiteralExtractionError(err error) bool {
	var e LiteralExtractionError
	return errors.As(err, &e)
}

// IsUnsupportedFeatureError reports whether err carries an UnsupportedFeatureError.
func IsUnsupportedFeatureError(err error) bool {
	var e UnsupportedFeatureError
	return errors.As(err, &e)
}
