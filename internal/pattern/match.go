// Package pattern implements spec.md §4.6: matching a pattern against a
// runtime value, and the decision-tree exhaustiveness/redundancy
// analysis over a match's patterns. Grounded on no teacher equivalent
// (TADL has no pattern matching); the per-kind-switch discipline follows
// internal/ast's node-per-kind shape.
package pattern

import (
	"strconv"

	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/value"
)

// Match attempts to match v against p, extending env with p's bound
// variables on success. On failure the returned env may already hold
// some of p's bindings and must not be used. Raising Bind (for `val`) or Match
// (for `fn`/`case`/`fun`) on overall failure is the evaluator's
// responsibility (spec.md §4.10); Match itself only reports success.
func Match(p ast.Pat, v value.Value, env *value.Env) (*value.Env, bool) {
	switch p := p.(type) {
	case *ast.PWildcard:
		return env, true

	case *ast.PVar:
		return env.Extend(p.Name, v), true

	case *ast.PLitInt:
		n, ok := v.(value.Int)
		return env, ok && int64(n) == p.Value

	case *ast.PLitReal:
		n, ok := v.(value.Real)
		return env, ok && float64(n) == p.Value

	case *ast.PLitBool:
		b, ok := v.(value.Bool)
		return env, ok && bool(b) == p.Value

	case *ast.PLitChar:
		c, ok := v.(value.Char)
		return env, ok && rune(c) == p.Value

	case *ast.PLitString:
		s, ok := v.(value.String)
		return env, ok && string(s) == p.Value

	case *ast.PTuple:
		r, ok := v.(*value.Record)
		if !ok || len(r.Fields) != len(p.Elems) {
			return env, false
		}

		for i, elem := range p.Elems {
			fv, ok := r.Field(strconv.Itoa(i + 1))
			if !ok {
				return env, false
			}

			env, ok = Match(elem, fv, env)
			if !ok {
				return env, false
			}
		}

		return env, true

	case *ast.PRecord:
		r, ok := v.(*value.Record)
		if !ok {
			return env, false
		}

		if !p.Open && len(r.Fields) != len(p.Fields) {
			return env, false
		}

		for _, f := range p.Fields {
			fv, ok := r.Field(f.Label)
			if !ok {
				return env, false
			}

			env, ok = Match(f.Pat, fv, env)
			if !ok {
				return env, false
			}
		}

		return env, true

	case *ast.PCons:
		l, ok := v.(*value.List)
		if !ok || len(l.Elems) == 0 {
			return env, false
		}

		env, ok = Match(p.Head, l.Elems[0], env)
		if !ok {
			return env, false
		}

		return Match(p.Tail, value.NewList(l.Elems[1:]...), env)

	case *ast.PList:
		l, ok := v.(*value.List)
		if !ok || len(l.Elems) != len(p.Elems) {
			return env, false
		}

		for i, elem := range p.Elems {
			var ok bool
			env, ok = Match(elem, l.Elems[i], env)
			if !ok {
				return env, false
			}
		}

		return env, true

	case *ast.PCon:
		c, ok := v.(*value.Con)
		if !ok || c.Name != p.Name {
			return env, false
		}

		if p.Arg == nil {
			return env, c.Payload == nil
		}

		if c.Payload == nil {
			return env, false
		}

		return Match(p.Arg, c.Payload, env)

	case *ast.PAs:
		var ok bool
		env, ok = Match(p.Pat, v, env)
		if !ok {
			return env, false
		}

		return env.Extend(p.Name, v), true

	case *ast.PAnnot:
		return Match(p.Pat, v, env)

	default:
		return env, false
	}
}
