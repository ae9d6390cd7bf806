package eval

import (
	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/pattern"
	"github.com/morel-lang/morel/internal/token"
	"github.com/morel-lang/morel/internal/value"
)

// EvalDecl evaluates one declaration, extending env with whatever names
// it introduces, mirroring internal/elaborate/decl.go's elabDecl
// dispatch one-for-one.
func (it *Interp) EvalDecl(env *value.Env, d ast.Decl) (*value.Env, *value.Exn) {
	switch d := d.(type) {
	case *ast.ValDecl:
		if d.Rec {
			return it.evalValRec(env, d)
		}

		return it.evalValDecl(env, d)

	case *ast.FunDecl:
		return it.evalFunDecl(env, d)

	case *ast.DatatypeDecl:
		return it.evalDatatypeDecl(env, d)

	case *ast.TypeDecl:
		// Type aliases are erased after elaboration; nothing to bind.
		return env, nil

	case *ast.OverDecl:
		// `over f` only reserves the name at elaboration time; no value
		// is bound until the first `val inst`.
		return env, nil

	case *ast.InstDecl:
		return it.evalInstDecl(env, d)
	}

	return env, nil
}

func (it *Interp) evalValDecl(env *value.Env, d *ast.ValDecl) (*value.Env, *value.Exn) {
	v, exn := it.Eval(env, d.Expr)
	if exn != nil {
		return env, exn
	}

	newEnv, ok := pattern.Match(d.Pat, v, env)
	if !ok {
		return env, value.NewExn("Bind", nil, d.Span())
	}

	return newEnv, nil
}

// evalValRec handles `val rec p = e` via the mutable-reference/letrec
// trick spec.md §4.10 names: p is bound to a placeholder closure before
// e is evaluated, so a self-reference inside e resolves; once e's value
// is known, the placeholder is patched in place to become it.
func (it *Interp) evalValRec(env *value.Env, d *ast.ValDecl) (*value.Env, *value.Exn) {
	v, ok := d.Pat.(*ast.PVar)
	if !ok {
		return env, value.NewExn("Fail", value.String("val rec requires a variable pattern"), d.Span())
	}

	placeholder := &value.Closure{Name: v.Name}
	recEnv := env.Extend(v.Name, placeholder)

	val, exn := it.Eval(recEnv, d.Expr)
	if exn != nil {
		return env, exn
	}

	if cl, ok := val.(*value.Closure); ok {
		*placeholder = *cl
		placeholder.Name = v.Name

		return recEnv, nil
	}

	return env.Extend(v.Name, val), nil
}

// evalFunDecl handles `fun b1 and b2 and ...`, a mutually recursive
// letrec group (spec.md §4.5.3, §4.10). Every binding's runtime value is
// a curried Builtin (see value.Builtin's doc comment) closing over a
// pointer to the final, fully-extended environment rather than over the
// pre-extension one, so bindings can call each other and themselves.
func (it *Interp) evalFunDecl(env *value.Env, d *ast.FunDecl) (*value.Env, *value.Exn) {
	recEnv := env
	values := make([]value.Value, len(d.Bindings))

	for i, b := range d.Bindings {
		values[i] = it.makeFunValue(&recEnv, b)
	}

	for i, b := range d.Bindings {
		recEnv = recEnv.Extend(b.Name, values[i])
	}

	return recEnv, nil
}

// makeFunValue returns the (possibly curried) callable value for one
// `fun`-bound name. envPtr is dereferenced only when the function is
// actually applied, by which point the caller has finished extending the
// environment with every sibling in the same `and`-group.
func (it *Interp) makeFunValue(envPtr **value.Env, b ast.FunBinding) value.Value {
	arity := len(b.Clauses[0].Params)

	return it.curry(envPtr, b.Name, b.Clauses, arity, nil)
}

// curry accumulates arguments one application at a time; once len(args)
// reaches arity, every clause's parameter list is matched against the
// full argument tuple in declaration order; elaboration has already
// ensured every clause shares the same arity.
func (it *Interp) curry(envPtr **value.Env, name string, clauses []ast.FunClause, arity int, args []value.Value) value.Value {
	return &value.Builtin{
		Name: name,
		Fn: func(arg value.Value, at token.Span) (value.Value, *value.Exn) {
			newArgs := append(append([]value.Value(nil), args...), arg)
			if len(newArgs) < arity {
				return it.curry(envPtr, name, clauses, arity, newArgs), nil
			}

			base := *envPtr

			for _, c := range clauses {
				matchEnv := base
				ok := true

				for i, p := range c.Params {
					matchEnv, ok = pattern.Match(p, newArgs[i], matchEnv)
					if !ok {
						break
					}
				}

				if ok {
					return it.Eval(matchEnv, c.Body)
				}
			}

			return nil, value.NewExn("Match", nil, at)
		},
	}
}

// evalDatatypeDecl binds each value constructor to a callable (unary) or
// bare (nullary) *value.Con-producing value, using the Registry's
// already-assigned declaration index (spec.md §4.8) so runtime ordering
// matches elaboration's.
func (it *Interp) evalDatatypeDecl(env *value.Env, d *ast.DatatypeDecl) (*value.Env, *value.Exn) {
	newEnv := env

	for _, b := range d.Bindings {
		dt, ok := it.Registry.Lookup(b.Name)
		if !ok {
			continue
		}

		for _, c := range b.Cons {
			idx := dt.Index(c.Name)
			name := c.Name

			if c.Arg == nil {
				newEnv = newEnv.Extend(name, &value.Con{Name: name, Index: idx})
				continue
			}

			newEnv = newEnv.Extend(name, &value.Builtin{
				Name: name,
				Fn: func(arg value.Value, at token.Span) (value.Value, *value.Exn) {
					return &value.Con{Name: name, Index: idx, Payload: arg}, nil
				},
			})
		}
	}

	return newEnv, nil
}

// evalInstDecl handles `val inst f = e`: e's value becomes the next
// instance in f's overload table, in the same order
// elaborate.OverloadTable recorded it, so Info.OverloadChoice's indices
// line up with it.overloads[f]'s.
func (it *Interp) evalInstDecl(env *value.Env, d *ast.InstDecl) (*value.Env, *value.Exn) {
	v, exn := it.Eval(env, d.Expr)
	if exn != nil {
		return env, exn
	}

	it.overloads[d.Name] = append(it.overloads[d.Name], v)

	return env, nil
}
