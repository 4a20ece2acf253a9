package xmlfn

import (
	"github.com/zoobzio/xmlsql/internal/render"
	"github.com/zoobzio/xmlsql/internal/types"
)

// TypeClass constrains the argument accepted at one position.
type TypeClass int

const (
	// ClassAny accepts any value expression.
	ClassAny TypeClass = iota
	// ClassString accepts string-typed or untyped value expressions.
	ClassString
	// ClassXML accepts XML, string-typed or untyped value expressions.
	ClassXML
	// ClassElementName accepts an XmlElementName.
	ClassElementName
	// ClassAttributesOrAny accepts XmlAttributes or a value expression.
	ClassAttributesOrAny
	// ClassNamed accepts a NamedExpression or a column reference.
	ClassNamed
	// ClassColumns accepts an XmlTableColumns clause.
	ClassColumns
)

// ArgumentsValidator checks arity and per-position type classes.
// Positions past the end of Classes use the last class.
type ArgumentsValidator struct {
	Min     int
	Max     int // -1 for unbounded
	Classes []TypeClass
}

// Validate returns a FunctionArgumentError for the first violation.
func (v ArgumentsValidator) Validate(function string, args []types.Expression) error {
	if len(args) < v.Min || (v.Max >= 0 && len(args) > v.Max) {
		switch {
		case v.Max < 0:
			return render.NewFunctionArgumentError(function, 0, "expected at least %d arguments, got %d", v.Min, len(args))
		case v.Min == v.Max:
			return render.NewFunctionArgumentError(function, 0, "expected %d arguments, got %d", v.Min, len(args))
		default:
			return render.NewFunctionArgumentError(function, 0, "expected %d to %d arguments, got %d", v.Min, v.Max, len(args))
		}
	}
	if len(v.Classes) == 0 {
		return nil
	}
	for i, arg := range args {
		class := v.Classes[len(v.Classes)-1]
		if i < len(v.Classes) {
			class = v.Classes[i]
		}
		if err := checkClass(function, i+1, class, arg); err != nil {
			return err
		}
	}
	return nil
}

func checkClass(function string, position int, class TypeClass, arg types.Expression) error {
	if arg == nil {
		return render.NewFunctionArgumentError(function, position, "argument is missing")
	}
	switch class {
	case ClassElementName:
		n, ok := arg.(*types.XmlElementName)
		if !ok {
			return render.NewFunctionArgumentError(function, position, "expected an element name, got %s", types.Describe(arg))
		}
		return ValidateXmlName(function, position, n.Name)
	case ClassAttributesOrAny:
		if attrs, ok := arg.(*types.XmlAttributes); ok {
			for _, name := range attrs.Names {
				if err := ValidateXmlName(function, position, name); err != nil {
					return err
				}
			}
			return nil
		}
		return checkValue(function, position, arg)
	case ClassNamed:
		switch n := arg.(type) {
		case *types.NamedExpression:
			if err := ValidateXmlName(function, position, n.Name); err != nil {
				return err
			}
			return checkValue(function, position, n.Expression)
		case *types.ColumnReference:
			return ValidateXmlName(function, position, n.Column)
		}
		return render.NewFunctionArgumentError(function, position, "expected a named expression or column, got %s", types.Describe(arg))
	case ClassColumns:
		cols, ok := arg.(*types.XmlTableColumns)
		if !ok {
			return render.NewFunctionArgumentError(function, position, "expected a columns clause, got %s", types.Describe(arg))
		}
		return checkColumns(function, position, cols)
	}

	if err := checkValue(function, position, arg); err != nil {
		return err
	}
	t := arg.Type()
	if t == nil {
		return nil
	}
	switch class {
	case ClassString:
		if !isStringLike(*t) {
			return render.NewFunctionArgumentError(function, position, "expected a string, got %s", t.Name)
		}
	case ClassXML:
		if !t.IsXML() && !isStringLike(*t) {
			return render.NewFunctionArgumentError(function, position, "expected XML or a string, got %s", t.Name)
		}
	}
	return nil
}

// checkValue rejects structural nodes in value positions.
func checkValue(function string, position int, arg types.Expression) error {
	switch arg.(type) {
	case *types.XmlElementName, *types.XmlAttributes, *types.NamedExpression, *types.XmlTableColumns:
		return render.NewFunctionArgumentError(function, position, "unexpected %s", types.Describe(arg))
	}
	return nil
}

func checkColumns(function string, position int, cols *types.XmlTableColumns) error {
	if len(cols.Definitions) == 0 {
		return render.NewFunctionArgumentError(function, position, "columns clause is empty")
	}
	seen := make(map[string]bool, len(cols.Definitions))
	for _, def := range cols.Definitions {
		name := def.ColumnName()
		if name == "" {
			return render.NewFunctionArgumentError(function, position, "column without a name")
		}
		if seen[name] {
			return render.NewFunctionArgumentError(function, position, "duplicate column %q", name)
		}
		seen[name] = true
	}
	return nil
}

func isStringLike(m types.JdbcMapping) bool {
	if m.CastType == types.CastString {
		return true
	}
	switch m.SQLType {
	case types.SQLChar, types.SQLVarchar, types.SQLNVarchar, types.SQLClob, types.SQLNClob:
		return !m.IsBoolean()
	}
	return false
}
