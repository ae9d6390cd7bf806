package elaborate

import (
	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/types"
)

// aliasInfo is a registered `type` alias: its declared parameters (as the
// placeholder variables used in body) and the body itself, expanded afresh
// (via substType) at every reference so distinct uses don't share identity.
type aliasInfo struct {
	paramVars []*types.Var
	body      types.Type
}

// resolveType turns surface syntax into a types.Type. tv maps a type
// variable's surface name to the *types.Var already allocated for it
// within the current declaration group (e.g. a datatype's own parameters,
// or the as-yet-unseen 'a's of a single `val`/`fun` annotation); a name
// not yet in tv gets one minted and recorded, so the same `'a` written
// twice in one annotation refers to one variable.
func (el *Elaborator) resolveType(tv map[string]*types.Var, t ast.TypeExpr) types.Type {
	switch t := t.(type) {
	case *ast.TyVar:
		v, ok := tv[t.Name]
		if !ok {
			v = el.Fresh.Var()
			tv[t.Name] = v
		}

		return v

	case *ast.TyTuple:
		elems := make([]types.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = el.resolveType(tv, e)
		}

		return &types.Tuple{Elems: elems}

	case *ast.TyRecord:
		fields := make([]types.Field, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = types.Field{Label: f.Label, Type: el.resolveType(tv, f.Type)}
		}

		rec := types.NewRecord(fields)
		if t.Open {
			rec.Tail = &types.OpenTail{Var: el.Fresh.Var()}
		}

		return rec

	case *ast.TyFun:
		return &types.Fun{Arg: el.resolveType(tv, t.Arg), Result: el.resolveType(tv, t.Result)}

	case *ast.TyCon:
		args := make([]types.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = el.resolveType(tv, a)
		}

		if alias, ok := el.aliases[t.Name]; ok {
			return instantiateAlias(alias, args)
		}

		return &types.Con{Name: t.Name, Args: args}

	default:
		return el.Fresh.Var()
	}
}

func instantiateAlias(a *aliasInfo, args []types.Type) types.Type {
	mapping := make(map[*types.Var]types.Type, len(a.paramVars))
	for i, v := range a.paramVars {
		if i < len(args) {
			mapping[v] = args[i]
		}
	}

	return substType(a.body, mapping)
}

// substType deep-copies t, replacing every variable found in mapping —
// unlike types.Instantiate's substBound (which only ever maps variable to
// variable, for scheme instantiation), this maps variable to an arbitrary
// resolved type, as required when expanding a parameterized alias at a
// concrete application site.
func substType(t types.Type, mapping map[*types.Var]types.Type) types.Type {
	switch t := types.Prune(t).(type) {
	case *types.Var:
		if nt, ok := mapping[t]; ok {
			return nt
		}

		return t

	case *types.Con:
		args := make([]types.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = substType(a, mapping)
		}

		return &types.Con{Name: t.Name, Args: args}

	case *types.Tuple:
		elems := make([]types.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = substType(e, mapping)
		}

		return &types.Tuple{Elems: elems}

	case *types.Fun:
		return &types.Fun{Arg: substType(t.Arg, mapping), Result: substType(t.Result, mapping)}

	case *types.Record:
		fields := make([]types.Field, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = types.Field{Label: f.Label, Type: substType(f.Type, mapping)}
		}

		return &types.Record{Fields: fields, SourceOrder: t.SourceOrder, Tail: t.Tail}

	default:
		return t
	}
}
