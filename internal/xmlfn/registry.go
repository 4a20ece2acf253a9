package xmlfn

import (
	"sort"
)

// Registry holds the descriptors of one dialect, keyed by function name.
type Registry struct {
	dialect     string
	descriptors map[string]Descriptor
}

// NewRegistry creates a registry with the given descriptors.
func NewRegistry(dialect string, descriptors ...Descriptor) *Registry {
	r := &Registry{
		dialect:     dialect,
		descriptors: make(map[string]Descriptor, len(descriptors)),
	}
	for _, d := range descriptors {
		r.Register(d)
	}
	return r
}

// Register adds or replaces a descriptor.
func (r *Registry) Register(d Descriptor) {
	r.descriptors[d.Name()] = d
}

// Find returns the descriptor for name.
func (r *Registry) Find(name string) (Descriptor, bool) {
	d, ok := r.descriptors[name]
	return d, ok
}

// Names returns the registered function names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dialect returns the dialect the registry belongs to.
func (r *Registry) Dialect() string { return r.dialect }
