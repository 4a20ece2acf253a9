package types

// SQLType identifies the storage type of a mapping.
type SQLType int

const (
	SQLUnknown SQLType = iota
	SQLBoolean
	SQLTinyInt
	SQLSmallInt
	SQLInteger
	SQLBigInt
	SQLNumeric
	SQLDouble
	SQLChar
	SQLVarchar
	SQLNVarchar
	SQLClob
	SQLNClob
	SQLDate
	SQLTimestamp
	SQLXML
)

// CastType classifies how values of a mapping are cast and encoded.
type CastType int

const (
	CastOther CastType = iota
	CastBoolean
	CastTFBoolean
	CastYNBoolean
	CastIntegerBoolean
	CastString
	CastInteger
	CastLong
	CastDouble
	CastDecimal
	CastDate
	CastTimestamp
	CastXML
)

// JdbcMapping binds a domain type to its SQL storage type.
type JdbcMapping struct {
	Name     string
	SQLType  SQLType
	CastType CastType
}

// IsBoolean reports whether the mapping carries a boolean, regardless of
// how that boolean is stored.
func (m JdbcMapping) IsBoolean() bool {
	switch m.CastType {
	case CastBoolean, CastTFBoolean, CastYNBoolean, CastIntegerBoolean:
		return true
	}
	return false
}

// IsXML reports whether values of the mapping are typed as XML.
func (m JdbcMapping) IsXML() bool {
	return m.SQLType == SQLXML || m.CastType == CastXML
}

// ToRelational converts a boolean into the value stored for this mapping.
// Non-boolean mappings return the boolean unchanged.
func (m JdbcMapping) ToRelational(b bool) any {
	switch m.CastType {
	case CastTFBoolean:
		if b {
			return "T"
		}
		return "F"
	case CastYNBoolean:
		if b {
			return "Y"
		}
		return "N"
	case CastIntegerBoolean:
		if b {
			return 1
		}
		return 0
	}
	return b
}

// FromRelational is the inverse of ToRelational.
func (m JdbcMapping) FromRelational(v any) (bool, bool) {
	switch m.CastType {
	case CastTFBoolean:
		s, ok := v.(string)
		return s == "T", ok && (s == "T" || s == "F")
	case CastYNBoolean:
		s, ok := v.(string)
		return s == "Y", ok && (s == "Y" || s == "N")
	case CastIntegerBoolean:
		i, ok := v.(int)
		return i == 1, ok && (i == 0 || i == 1)
	}
	b, ok := v.(bool)
	return b, ok
}

// Common mappings.
var (
	Boolean        = JdbcMapping{Name: "Boolean", SQLType: SQLBoolean, CastType: CastBoolean}
	TFBoolean      = JdbcMapping{Name: "TrueFalse", SQLType: SQLChar, CastType: CastTFBoolean}
	YNBoolean      = JdbcMapping{Name: "YesNo", SQLType: SQLChar, CastType: CastYNBoolean}
	IntegerBoolean = JdbcMapping{Name: "NumericBoolean", SQLType: SQLInteger, CastType: CastIntegerBoolean}
	Short          = JdbcMapping{Name: "Short", SQLType: SQLSmallInt, CastType: CastInteger}
	Integer        = JdbcMapping{Name: "Integer", SQLType: SQLInteger, CastType: CastInteger}
	Long           = JdbcMapping{Name: "Long", SQLType: SQLBigInt, CastType: CastLong}
	Double         = JdbcMapping{Name: "Double", SQLType: SQLDouble, CastType: CastDouble}
	Decimal        = JdbcMapping{Name: "BigDecimal", SQLType: SQLNumeric, CastType: CastDecimal}
	String         = JdbcMapping{Name: "String", SQLType: SQLVarchar, CastType: CastString}
	Text           = JdbcMapping{Name: "Text", SQLType: SQLClob, CastType: CastString}
	Date           = JdbcMapping{Name: "LocalDate", SQLType: SQLDate, CastType: CastDate}
	Timestamp      = JdbcMapping{Name: "LocalDateTime", SQLType: SQLTimestamp, CastType: CastTimestamp}
	XML            = JdbcMapping{Name: "SQLXML", SQLType: SQLXML, CastType: CastXML}

	// XMLString is the type of QUERY columns: an XML fragment read as a string.
	XMLString = JdbcMapping{Name: "String", SQLType: SQLXML, CastType: CastString}
)

// IsNumeric reports whether the mapping carries a number.
func (m JdbcMapping) IsNumeric() bool {
	switch m.CastType {
	case CastInteger, CastLong, CastDouble, CastDecimal:
		return true
	}
	return false
}

// CastTarget is a mapping plus optional length, precision and scale.
type CastTarget struct {
	Mapping          JdbcMapping
	Length           int
	Precision        int
	Scale            int
	ColumnDefinition string
}
