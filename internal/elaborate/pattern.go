package elaborate

import (
	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/types"
)

// InferPattern infers p's type and returns env extended with every
// variable p binds (spec.md §4.5.2). A bare identifier naming a known
// nullary value constructor is resolved to that constructor rather than
// bound as a fresh variable, completing the parser's PVar/PCon
// disambiguation (internal/parser/pattern.go's design note).
func (el *Elaborator) InferPattern(env *types.Env, p ast.Pat) (types.Type, *types.Env) {
	switch p := p.(type) {
	case *ast.PWildcard:
		return el.info.record(p, el.Fresh.Var()), env

	case *ast.PVar:
		if ty, ok := el.resolveNullaryCtorPattern(p.Name); ok {
			return el.info.record(p, ty), env
		}

		v := el.Fresh.Var()

		return el.info.record(p, v), env.Extend(p.Name, types.Monotype(v))

	case *ast.PLitInt:
		return el.info.record(p, types.Int()), env

	case *ast.PLitReal:
		return el.info.record(p, types.Real()), env

	case *ast.PLitBool:
		return el.info.record(p, types.Bool()), env

	case *ast.PLitChar:
		return el.info.record(p, types.Char()), env

	case *ast.PLitString:
		return el.info.record(p, types.String()), env

	case *ast.PTuple:
		elems := make([]types.Type, len(p.Elems))

		for i, e := range p.Elems {
			elems[i], env = el.InferPattern(env, e)
		}

		return el.info.record(p, &types.Tuple{Elems: elems}), env

	case *ast.PRecord:
		fields := make([]types.Field, len(p.Fields))

		for i, f := range p.Fields {
			var fty types.Type

			fty, env = el.InferPattern(env, f.Pat)
			fields[i] = types.Field{Label: f.Label, Type: fty}
		}

		rec := types.NewRecord(fields)
		if p.Open {
			rec.Tail = &types.OpenTail{Var: el.Fresh.Var()}
		}

		return el.info.record(p, rec), env

	case *ast.PCons:
		elem := el.Fresh.Var()

		var headTy types.Type

		headTy, env = el.InferPattern(env, p.Head)
		if err := types.Unify(el.Fresh, elem, headTy); err != nil {
			el.errorf(p.Head, "%s", err)
		}

		var tailTy types.Type

		tailTy, env = el.InferPattern(env, p.Tail)
		if err := types.Unify(el.Fresh, types.List(elem), tailTy); err != nil {
			el.errorf(p.Tail, "%s", err)
		}

		return el.info.record(p, types.List(elem)), env

	case *ast.PList:
		elem := el.Fresh.Var()

		for _, e := range p.Elems {
			var ety types.Type

			ety, env = el.InferPattern(env, e)
			if err := types.Unify(el.Fresh, elem, ety); err != nil {
				el.errorf(e, "%s", err)
			}
		}

		return el.info.record(p, types.List(elem)), env

	case *ast.PCon:
		ty, penv := el.inferConPattern(env, p)

		return el.info.record(p, ty), penv

	case *ast.PAs:
		var ty types.Type

		ty, env = el.InferPattern(env, p.Pat)

		return el.info.record(p, ty), env.Extend(p.Name, types.Monotype(ty))

	case *ast.PAnnot:
		var ty types.Type

		ty, env = el.InferPattern(env, p.Pat)

		annot := el.resolveType(map[string]*types.Var{}, p.Type)
		if err := types.Unify(el.Fresh, ty, annot); err != nil {
			el.errorf(p, "%s", err)
		}

		return el.info.record(p, ty), env
	}

	return el.Fresh.Var(), env
}

func (el *Elaborator) resolveNullaryCtorPattern(name string) (types.Type, bool) {
	dt, ok := el.Registry.Owner(name)
	if !ok {
		return nil, false
	}

	idx := dt.Index(name)
	if dt.Ctors[idx].Arg != nil {
		return nil, false
	}

	return el.instantiateDatatype(dt), true
}

func (el *Elaborator) inferConPattern(env *types.Env, p *ast.PCon) (types.Type, *types.Env) {
	dt, ok := el.Registry.Owner(p.Name)
	if !ok {
		el.errorf(p, "unbound constructor %s", p.Name)

		_, env = el.InferPattern(env, p.Arg)

		return el.Fresh.Var(), env
	}

	ctor := dt.Ctors[dt.Index(p.Name)]
	if ctor.Arg == nil {
		el.errorf(p, "constructor %s takes no argument", p.Name)

		_, env = el.InferPattern(env, p.Arg)

		return el.instantiateDatatype(dt), env
	}

	mapping := freshMapping(el.Fresh, dt.Params)
	argTy := substType(ctor.Arg, mapping)

	var ety types.Type

	ety, env = el.InferPattern(env, p.Arg)
	if err := types.Unify(el.Fresh, argTy, ety); err != nil {
		el.errorf(p.Arg, "%s", err)
	}

	return substType(el.datatypeCon(dt), mapping), env
}

func (el *Elaborator) instantiateDatatype(dt *types.Datatype) types.Type {
	mapping := freshMapping(el.Fresh, dt.Params)
	return substType(el.datatypeCon(dt), mapping)
}

func (el *Elaborator) datatypeCon(dt *types.Datatype) types.Type {
	args := make([]types.Type, len(dt.Params))
	for i, pv := range dt.Params {
		args[i] = pv
	}

	return &types.Con{Name: dt.Name, Args: args}
}

func freshMapping(fresh *types.Fresh, params []*types.Var) map[*types.Var]types.Type {
	mapping := make(map[*types.Var]types.Type, len(params))
	for _, pv := range params {
		mapping[pv] = fresh.Var()
	}

	return mapping
}

// dupVars returns every name bound more than once in p, for spec.md
// §4.5.2's "duplicate variable in pattern(s)" error.
func dupVars(p ast.Pat) []string {
	seen := map[string]bool{}

	var dups []string

	for _, name := range ast.Vars(p) {
		if seen[name] {
			dups = append(dups, name)
		}

		seen[name] = true
	}

	return dups
}
