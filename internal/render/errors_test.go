package render

import (
	"errors"
	"fmt"
	"testing"
)

func TestUnsupportedFeatureError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      UnsupportedFeatureError
		expected string
	}{
		{
			name: "without hint",
			err: UnsupportedFeatureError{
				Feature: "xmltable",
				Dialect: "h2",
			},
			expected: "h2: xmltable is not supported",
		},
		{
			name: "with hint",
			err: UnsupportedFeatureError{
				Feature: "xmlquery",
				Dialect: "hana",
				Hint:    "use xmltable with a query column",
			},
			expected: "hana: xmlquery is not supported: use xmltable with a query column",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNewUnsupportedFeatureError(t *testing.T) {
	t.Run("without hint", func(t *testing.T) {
		err := NewUnsupportedFeatureError("h2", "xmltable")
		var ufErr UnsupportedFeatureError
		if !errors.As(err, &ufErr) {
			t.Fatal("expected UnsupportedFeatureError")
		}
		if ufErr.Dialect != "h2" {
			t.Errorf("Dialect = %q, want %q", ufErr.Dialect, "h2")
		}
		if ufErr.Hint != "" {
			t.Errorf("Hint = %q, want empty", ufErr.Hint)
		}
	})

	t.Run("with hint", func(t *testing.T) {
		err := NewUnsupportedFeatureError("hana", "xmlquery", "use xmltable")
		var ufErr UnsupportedFeatureError
		if !errors.As(err, &ufErr) {
			t.Fatal("expected UnsupportedFeatureError")
		}
		if ufErr.Hint != "use xmltable" {
			t.Errorf("Hint = %q, want %q", ufErr.Hint, "use xmltable")
		}
	})
}

func TestFunctionArgumentError(t *testing.T) {
	err := NewFunctionArgumentError("xmlelement", 1, "invalid XML name %q", "xmlFoo")
	want := `xmlelement: argument 1: invalid XML name "xmlFoo"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	arity := NewFunctionArgumentError("xmlpi", 0, "expected 1 to 2 arguments, got %d", 3)
	if arity.Error() != "xmlpi: expected 1 to 2 arguments, got 3" {
		t.Errorf("Error() = %q", arity.Error())
	}

	wrapped := fmt.Errorf("compile: %w", err)
	var faErr FunctionArgumentError
	if !errors.As(wrapped, &faErr) || faErr.Position != 1 {
		t.Errorf("errors.As() did not unwrap FunctionArgumentError: %v", wrapped)
	}
}

func TestQueryConstructionError(t *testing.T) {
	err := NewQueryConstructionError("sybase", "xmltable", "document %s is not static", "f(x)")
	want := "sybase: cannot render xmltable: document f(x) is not static"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestLiteralErrors(t *testing.T) {
	if got := (LiteralExtractionError{Expression: ":p"}).Error(); got != "expression :p is not a literal" {
		t.Errorf("Error() = %q", got)
	}
	if got := (LiteralExtractionError{Expression: ":p", Reason: "xmltable xpath must be a string, got int"}).Error(); got != "expression :p: xmltable xpath must be a string, got int" {
		t.Errorf("Error() = %q", got)
	}
	if got := (LiteralFormatError{Dialect: "db2", Value: struct{}{}}).Error(); got != "db2: cannot format struct {} value {} as a literal" {
		t.Errorf("Error() = %q", got)
	}
}
