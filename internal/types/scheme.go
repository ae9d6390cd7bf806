package types

// Scheme is `∀ 'a1 ... 'ak. T` (spec.md §3.1): a type closed under
// universal quantification of the listed variables. A Scheme with no
// Vars is a monotype.
type Scheme struct {
	Vars []*Var
	Body Type
}

// Monotype wraps t as a scheme with no quantified variables, used for
// monomorphic letrec placeholders during `val rec`/`fun` elaboration
// (spec.md §4.5.3) and for expansive right-hand sides under the value
// restriction.
func Monotype(t Type) *Scheme { return &Scheme{Body: t} }

// Generalize quantifies every variable free in t but not free in env,
// the value-restriction-aware generalization spec.md §4.4 describes:
// callers only invoke this for syntactically non-expansive right-hand
// sides; expansive ones should use Monotype instead.
func Generalize(env *Env, t Type) *Scheme {
	envFree := map[*Var]bool{}
	env.freeVars(envFree)

	tFree := map[*Var]bool{}
	collectFree(t, tFree)

	var vars []*Var

	for v := range tFree {
		if !envFree[v] {
			vars = append(vars, v)
		}
	}

	return &Scheme{Vars: vars, Body: t}
}

// Instantiate allocates fresh variables for every quantified variable of
// s and substitutes them into a copy of s.Body.
func Instantiate(fresh *Fresh, s *Scheme) Type {
	if len(s.Vars) == 0 {
		return s.Body
	}

	mapping := make(map[*Var]*Var, len(s.Vars))
	for _, v := range s.Vars {
		mapping[v] = fresh.Var()
	}

	return substBound(s.Body, mapping)
}

func substBound(t Type, mapping map[*Var]*Var) Type {
	switch t := Prune(t).(type) {
	case *Var:
		if nv, ok := mapping[t]; ok {
			return nv
		}

		return t
	case *Con:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = substBound(a, mapping)
		}

		return &Con{Name: t.Name, Args: args}
	case *Tuple:
		elems := make([]Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = substBound(e, mapping)
		}

		return &Tuple{Elems: elems}
	case *Fun:
		return &Fun{Arg: substBound(t.Arg, mapping), Result: substBound(t.Result, mapping)}
	case *Record:
		fields := make([]Field, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = Field{Label: f.Label, Type: substBound(f.Type, mapping)}
		}

		tail := t.Tail

		if ot, ok := t.Tail.(*OpenTail); ok {
			if nv, ok := mapping[ot.Var]; ok {
				tail = &OpenTail{Var: nv}
			}
		}

		return &Record{Fields: fields, SourceOrder: t.SourceOrder, Tail: tail}
	default:
		return t
	}
}

func collectFree(t Type, out map[*Var]bool) {
	switch t := Prune(t).(type) {
	case *Var:
		out[t] = true
	case *Con:
		for _, a := range t.Args {
			collectFree(a, out)
		}
	case *Tuple:
		for _, e := range t.Elems {
			collectFree(e, out)
		}
	case *Fun:
		collectFree(t.Arg, out)
		collectFree(t.Result, out)
	case *Record:
		for _, f := range t.Fields {
			collectFree(f.Type, out)
		}

		if ot, ok := t.Tail.(*OpenTail); ok {
			out[ot.Var] = true
		}
	}
}
