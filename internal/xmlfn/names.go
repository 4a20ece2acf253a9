package xmlfn

import (
	"strings"

	"github.com/zoobzio/xmlsql/internal/render"
)

// IsValidXmlName reports whether name matches the XML Name production
// restricted to ASCII, and does not start with the reserved "xml" prefix.
func IsValidXmlName(name string) bool {
	if name == "" {
		return false
	}
	if len(name) >= 3 && strings.EqualFold(name[:3], "xml") {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == ':':
		case i > 0 && (c >= '0' && c <= '9' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

// ValidateXmlName returns a FunctionArgumentError for an invalid name.
func ValidateXmlName(function string, position int, name string) error {
	if !IsValidXmlName(name) {
		return render.NewFunctionArgumentError(function, position, "invalid XML name %q", name)
	}
	return nil
}
