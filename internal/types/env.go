package types

// Env is a persistent (functional) map from identifier to type scheme,
// matching spec.md §3.4's "type environment... persistent (functional)
// maps layered by scope". Layering by parent pointer rather than copying
// lets a `let`-local scope shadow without touching the enclosing frame.
type Env struct {
	parent *Env
	name   string
	scheme *Scheme
}

// NewEnv returns the empty environment.
func NewEnv() *Env { return nil }

// Extend returns a new environment identical to e but with name bound to
// scheme, shadowing any earlier binding of name.
func (e *Env) Extend(name string, scheme *Scheme) *Env {
	return &Env{parent: e, name: name, scheme: scheme}
}

// Lookup finds the nearest binding of name, searching outward through
// enclosing scopes.
func (e *Env) Lookup(name string) (*Scheme, bool) {
	for f := e; f != nil; f = f.parent {
		if f.name == name {
			return f.scheme, true
		}
	}

	return nil, false
}

func (e *Env) freeVars(out map[*Var]bool) {
	for f := e; f != nil; f = f.parent {
		if f.scheme == nil {
			continue
		}

		bound := map[*Var]bool{}
		for _, v := range f.scheme.Vars {
			bound[v] = true
		}

		local := map[*Var]bool{}
		collectFree(f.scheme.Body, local)

		for v := range local {
			if !bound[v] {
				out[v] = true
			}
		}
	}
}
