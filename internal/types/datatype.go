package types

// CtorInfo describes one value constructor of a datatype declaration:
// its name and, for a unary constructor, the argument type expressed in
// terms of the datatype's own type parameters.
type CtorInfo struct {
	Name string
	Arg  Type // nil for a nullary constructor
}

// Datatype records a `datatype` declaration's type constructor name,
// parameters, and value constructors in declaration order — the order
// spec.md §4.8 sorts sum-type values by ("compare by constructor index
// in declaration order").
type Datatype struct {
	Name   string
	Params []*Var
	Ctors  []CtorInfo
}

// Index returns the declaration index of the constructor named name, or
// -1 if d has no such constructor.
func (d *Datatype) Index(name string) int {
	for i, c := range d.Ctors {
		if c.Name == name {
			return i
		}
	}

	return -1
}

// Registry tracks every `datatype` declared in a session so the
// elaborator can assign each constructed value its declaration index
// (§4.8) and the pattern compiler can recover a constructor's full
// sibling set for exhaustiveness checking (§4.6).
type Registry struct {
	types  map[string]*Datatype
	owners map[string]*Datatype // value constructor name -> owning Datatype
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: map[string]*Datatype{}, owners: map[string]*Datatype{}}
}

// Declare registers d, making its constructors resolvable by name.
func (r *Registry) Declare(d *Datatype) {
	r.types[d.Name] = d
	for _, c := range d.Ctors {
		r.owners[c.Name] = d
	}
}

// Lookup returns the datatype whose type constructor is named name.
func (r *Registry) Lookup(name string) (*Datatype, bool) {
	d, ok := r.types[name]
	return d, ok
}

// Owner returns the datatype that declares the value constructor named
// name.
func (r *Registry) Owner(name string) (*Datatype, bool) {
	d, ok := r.owners[name]
	return d, ok
}
