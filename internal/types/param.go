package types

// Parameter is a named bind parameter.
// Bound parameters carry a value that may be inlined when a dialect forbids
// parameters in a given position.
type Parameter struct {
	Name    string
	Value   any
	Bound   bool
	Mapping *JdbcMapping
}

func (p *Parameter) Type() *JdbcMapping { return p.Mapping }

func (p *Parameter) String() string { return ":" + p.Name }
