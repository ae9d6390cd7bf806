package value

// Env is a persistent (functional) value environment, layered by parent
// pointer so closures can capture a scope cheaply and `let`-local
// bindings shadow without mutating the enclosing frame (spec.md §3.4).
type Env struct {
	parent *Env
	name   string
	value  Value
}

// NewEnv returns the empty environment.
func NewEnv() *Env { return nil }

// Extend returns a new environment identical to e but with name bound to
// v, shadowing any earlier binding of name.
func (e *Env) Extend(name string, v Value) *Env {
	return &Env{parent: e, name: name, value: v}
}

// Lookup finds the nearest binding of name.
func (e *Env) Lookup(name string) (Value, bool) {
	for f := e; f != nil; f = f.parent {
		if f.name == name {
			return f.value, true
		}
	}

	return nil, false
}
