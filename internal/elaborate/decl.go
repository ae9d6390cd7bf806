package elaborate

import (
	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/types"
)

// elabDecl dispatches on d's concrete kind, extending env and returning
// every name the declaration introduces.
func (el *Elaborator) elabDecl(env *types.Env, d ast.Decl) (*types.Env, []Binding) {
	switch d := d.(type) {
	case *ast.ValDecl:
		if d.Rec {
			return el.elabValRec(env, d)
		}

		return el.elabValDecl(env, d)

	case *ast.FunDecl:
		return el.elabFunDecl(env, d)

	case *ast.DatatypeDecl:
		return el.elabDatatypeDecl(env, d)

	case *ast.TypeDecl:
		return el.elabTypeDecl(env, d)

	case *ast.OverDecl:
		el.Overload.Declare(d.Name)
		return env, nil

	case *ast.InstDecl:
		return el.elabInstDecl(env, d)
	}

	return env, nil
}

// elabValDecl handles `val p = e`, applying spec.md §4.4's value
// restriction: a variable bound by a non-expansive right-hand side is
// generalized; an expansive one (an application, typically) is bound
// monomorphically instead, so a later use at two different types is
// rejected rather than silently unsound.
func (el *Elaborator) elabValDecl(env *types.Env, d *ast.ValDecl) (*types.Env, []Binding) {
	if dups := dupVars(d.Pat); len(dups) > 0 {
		for _, name := range dups {
			el.errorf(d.Pat, "duplicate variable in pattern(s): %s", name)
		}
	}

	patTy, patEnv := el.InferPattern(env, d.Pat)

	exprTy := el.InferExpr(env, d.Expr)
	if err := types.Unify(el.Fresh, patTy, exprTy); err != nil {
		el.errorf(d, "%s", err)
	}

	el.checkCoverage(d, matchArm, []ast.Pat{d.Pat})

	names := ast.Vars(d.Pat)
	newEnv := env
	bindings := make([]Binding, 0, len(names))

	expansive := isExpansive(d.Expr)

	for _, name := range names {
		scheme, _ := patEnv.Lookup(name)

		if !expansive {
			scheme = types.Generalize(env, scheme.Body)
		}

		newEnv = newEnv.Extend(name, scheme)
		bindings = append(bindings, Binding{Name: name, Scheme: scheme})
	}

	return newEnv, bindings
}

// elabValRec handles `val rec p = e`, a letrec binding a single
// self-referential closure through a variable pattern (spec.md §4.5.3).
func (el *Elaborator) elabValRec(env *types.Env, d *ast.ValDecl) (*types.Env, []Binding) {
	v, ok := d.Pat.(*ast.PVar)
	if !ok {
		el.errorf(d.Pat, "val rec requires a variable pattern")
		return env, nil
	}

	placeholder := el.Fresh.Var()
	recEnv := env.Extend(v.Name, types.Monotype(placeholder))

	exprTy := el.InferExpr(recEnv, d.Expr)
	if err := types.Unify(el.Fresh, placeholder, exprTy); err != nil {
		el.errorf(d, "%s", err)
	}

	scheme := types.Monotype(placeholder)
	if !isExpansive(d.Expr) {
		scheme = types.Generalize(env, placeholder)
	}

	newEnv := env.Extend(v.Name, scheme)

	return newEnv, []Binding{{Name: v.Name, Scheme: scheme}}
}

// elabFunDecl handles `fun b1 and b2 and ...`, a mutually recursive
// letrec group (spec.md §4.5.3): every binding's name is pre-extended
// into the environment with a fresh monomorphic placeholder before any
// clause is elaborated, so the bindings can call each other and
// themselves; afterward, every placeholder is generalized.
func (el *Elaborator) elabFunDecl(env *types.Env, d *ast.FunDecl) (*types.Env, []Binding) {
	placeholders := make([]*types.Var, len(d.Bindings))
	recEnv := env

	for i, b := range d.Bindings {
		placeholders[i] = el.Fresh.Var()
		recEnv = recEnv.Extend(b.Name, types.Monotype(placeholders[i]))
	}

	for i, b := range d.Bindings {
		el.elabFunBinding(recEnv, d, b, placeholders[i])
	}

	newEnv := env
	bindings := make([]Binding, 0, len(d.Bindings))

	for i, b := range d.Bindings {
		scheme := types.Generalize(env, placeholders[i])
		newEnv = newEnv.Extend(b.Name, scheme)
		bindings = append(bindings, Binding{Name: b.Name, Scheme: scheme})
	}

	return newEnv, bindings
}

func (el *Elaborator) elabFunBinding(recEnv *types.Env, d *ast.FunDecl, b ast.FunBinding, placeholder *types.Var) {
	arity := -1

	for _, clause := range b.Clauses {
		if arity == -1 {
			arity = len(clause.Params)
		} else if len(clause.Params) != arity {
			el.errorf(d, "clauses of function %s disagree on number of arguments", b.Name)
		}

		clauseEnv := recEnv
		argTys := make([]types.Type, len(clause.Params))

		for j, p := range clause.Params {
			if dups := dupVars(p); len(dups) > 0 {
				for _, name := range dups {
					el.errorf(p, "duplicate variable in pattern(s): %s", name)
				}
			}

			argTys[j], clauseEnv = el.InferPattern(clauseEnv, p)
		}

		bodyTy := el.InferExpr(clauseEnv, clause.Body)

		if clause.ResultType != nil {
			annot := el.resolveType(map[string]*types.Var{}, clause.ResultType)
			if err := types.Unify(el.Fresh, bodyTy, annot); err != nil {
				el.errorf(clause.Body, "%s", err)
			}
		}

		if err := types.Unify(el.Fresh, placeholder, curry(argTys, bodyTy)); err != nil {
			el.errorf(d, "%s", err)
		}
	}

	el.checkCoverage(d, matchArm, paramsPats(b.Clauses))
}

// curry builds args[0] -> args[1] -> ... -> result, the type of a
// `fun`-bound name taking len(args) arguments.
func curry(args []types.Type, result types.Type) types.Type {
	t := result
	for i := len(args) - 1; i >= 0; i-- {
		t = &types.Fun{Arg: args[i], Result: t}
	}

	return t
}

// paramsPats collapses each clause's parameter list into one pattern
// (a tuple, when there is more than one parameter) so the §4.6 coverage
// checker can treat a multi-argument `fun` the same as a single-argument
// `case`.
func paramsPats(clauses []ast.FunClause) []ast.Pat {
	pats := make([]ast.Pat, len(clauses))

	for i, c := range clauses {
		switch len(c.Params) {
		case 0:
			pats[i] = &ast.PWildcard{}
		case 1:
			pats[i] = c.Params[0]
		default:
			pats[i] = &ast.PTuple{Elems: c.Params}
		}
	}

	return pats
}

// elabDatatypeDecl handles `datatype b1 and b2 and ...`, registering
// each type into el.Registry (for §4.6 exhaustiveness and §4.8 ordering)
// and each value constructor into env as a function (or nullary value)
// scheme, per spec.md §4.5.3's datatype rules. Constructor argument types
// may mention any name in the same `and`-group, including the datatype
// itself, since resolveType resolves a bare TyCon name structurally
// rather than through the registry.
func (el *Elaborator) elabDatatypeDecl(env *types.Env, d *ast.DatatypeDecl) (*types.Env, []Binding) {
	newEnv := env
	var bindings []Binding

	for _, b := range d.Bindings {
		tv := map[string]*types.Var{}
		params := make([]*types.Var, len(b.TypeVars))

		for i, name := range b.TypeVars {
			v := el.Fresh.Var()
			tv[name] = v
			params[i] = v
		}

		dt := &types.Datatype{Name: b.Name, Params: params}

		for _, c := range b.Cons {
			var argTy types.Type
			if c.Arg != nil {
				argTy = el.resolveType(tv, c.Arg)
			}

			dt.Ctors = append(dt.Ctors, types.CtorInfo{Name: c.Name, Arg: argTy})
		}

		el.Registry.Declare(dt)

		resultTy := el.datatypeCon(dt)

		for _, ctor := range dt.Ctors {
			var scheme *types.Scheme

			if ctor.Arg == nil {
				scheme = &types.Scheme{Vars: params, Body: resultTy}
			} else {
				scheme = &types.Scheme{Vars: params, Body: &types.Fun{Arg: ctor.Arg, Result: resultTy}}
			}

			newEnv = newEnv.Extend(ctor.Name, scheme)
			bindings = append(bindings, Binding{Name: ctor.Name, Scheme: scheme})
		}
	}

	return newEnv, bindings
}

// elabTypeDecl handles `type b1 and b2 and ...`, registering each alias
// for expansion at every later reference (resolveType).
func (el *Elaborator) elabTypeDecl(env *types.Env, d *ast.TypeDecl) (*types.Env, []Binding) {
	for _, b := range d.Bindings {
		tv := map[string]*types.Var{}
		params := make([]*types.Var, len(b.TypeVars))

		for i, name := range b.TypeVars {
			v := el.Fresh.Var()
			tv[name] = v
			params[i] = v
		}

		body := el.resolveType(tv, b.Type)
		el.aliases[b.Name] = &aliasInfo{paramVars: params, body: body}
	}

	return env, nil
}

// elabInstDecl handles `val inst f = e`, adding a monomorphic instance to
// a name previously declared with `over` (spec.md §4.5.4). Instances live
// in el.Overload, not in env: binding f directly would let the last
// instance shadow every earlier one rather than adding a resolvable
// alternative.
func (el *Elaborator) elabInstDecl(env *types.Env, d *ast.InstDecl) (*types.Env, []Binding) {
	if !el.Overload.IsOverloaded(d.Name) {
		el.errorf(d, "%s has not been declared overloaded with 'over'", d.Name)
	}

	exprTy := el.InferExpr(env, d.Expr)

	scheme := types.Monotype(exprTy)
	if !isExpansive(d.Expr) {
		scheme = types.Generalize(env, exprTy)
	}

	el.Overload.AddInstance(d.Name, scheme)

	return env, nil
}

// isExpansive reports whether e is an "expansive" expression under
// spec.md §4.4's value restriction: function application and anything
// that might contain one. Variables, literals, and `fn` abstractions are
// never expansive; tuples, records, and lists are expansive only if one of
// their immediate sub-expressions is, matching Standard ML's rule that
// construction alone doesn't observe effects. An `if` is expansive only if
// one of its two branches is; its condition is not examined.
func isExpansive(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.LitInt, *ast.LitReal, *ast.LitBool, *ast.LitChar, *ast.LitString, *ast.LitUnit,
		*ast.Ident, *ast.FnExpr:
		return false

	case *ast.TupleExpr:
		for _, elem := range e.Elems {
			if isExpansive(elem) {
				return true
			}
		}

		return false

	case *ast.ListExpr:
		for _, elem := range e.Elems {
			if isExpansive(elem) {
				return true
			}
		}

		return false

	case *ast.RecordExpr:
		for _, f := range e.Fields {
			if isExpansive(f.Value) {
				return true
			}
		}

		return false

	case *ast.Annot:
		return isExpansive(e.Expr)

	case *ast.IfExpr:
		return isExpansive(e.Then) || isExpansive(e.Else)

	default:
		return true
	}
}
