package render

// Capabilities describes the SQL features supported by a dialect.
type Capabilities struct {
	FilterClause       bool   // aggregate FILTER (WHERE ...)
	LateralApply       bool   // CROSS APPLY / OUTER APPLY instead of lateral joins
	ParametersInSelect bool   // plain parameters allowed in the select list
	ConcatOperator     string // || or +
}
