package builtin

import (
	"github.com/morel-lang/morel/internal/token"
	"github.com/morel-lang/morel/internal/types"
	"github.com/morel-lang/morel/internal/value"
)

// member is one function or constant exposed by a module record (spec.md
// §4.11 "Exposes modules as records of functions").
type member struct {
	label string
	typ   types.Type
	val   value.Value
}

// fun1 describes a unary intrinsic built by wrap; arg and result give its
// Morel type `arg -> result`.
func fun1(label string, arg, result types.Type, fn interface{}) member {
	return member{label: label, typ: &types.Fun{Arg: arg, Result: result}, val: wrap(label, fn)}
}

// funTuple describes a tuple-argument intrinsic built by wrapTuple.
func funTuple(label string, argTys []types.Type, result types.Type, fn interface{}) member {
	return member{label: label, typ: &types.Fun{Arg: types.TupleRecord(argTys), Result: result}, val: wrapTuple(label, fn)}
}

func constant(label string, typ types.Type, v value.Value) member {
	return member{label: label, typ: typ, val: v}
}

// rawFun describes an intrinsic whose Go implementation is hand-written
// against value.Value directly (collection-shaped functions gain nothing
// from wrap/wrapTuple's reflection, since their element type already is
// value.Value).
func rawFun(label string, typ types.Type, fn func(value.Value, token.Span) (value.Value, *value.Exn)) member {
	return member{label: label, typ: typ, val: &value.Builtin{Name: label, Fn: fn}}
}

// buildModule binds name into tenv/venv as a record of members, the
// runtime analogue of a datatype's constructor binding: the type side
// gets a closed record type, the value side gets a matching
// *value.Record of callables/constants.
//
// A module's record type is generalized as one scheme quantified over
// every type variable free in any of its fields (types.Generalize with
// an empty environment, so nothing is excluded), rather than each field
// carrying its own independent scheme — types.Record has no notion of a
// per-field scheme, only types.Env does. In practice this is harmless:
// every textual use of e.g. `List.map` elaborates a fresh `Ident("List")`
// node, which instantiates the whole module scheme fresh at that site,
// so two uses of `List.map` never share a binding even though `List`'s
// scheme technically quantifies `List.filter`'s variables too.
func buildModule(tenv *types.Env, venv *value.Env, name string, members []member) (*types.Env, *value.Env) {
	tfields := make([]types.Field, len(members))
	vfields := make([]value.Field, len(members))

	for i, m := range members {
		tfields[i] = types.Field{Label: m.label, Type: m.typ}
		vfields[i] = value.Field{Label: m.label, Value: m.val}
	}

	tenv = tenv.Extend(name, types.Generalize(nil, types.NewRecord(tfields)))
	venv = venv.Extend(name, value.NewRecord(vfields))

	return tenv, venv
}
