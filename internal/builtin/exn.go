package builtin

import (
	"github.com/morel-lang/morel/internal/elaborate"
	"github.com/morel-lang/morel/internal/token"
	"github.com/morel-lang/morel/internal/types"
	"github.com/morel-lang/morel/internal/value"
)

// exnNames lists the built-in exception taxonomy (spec.md §6.4) in the
// declaration order value.ExnIndex assigns them. Only Fail carries a
// payload (a string), matching the worked examples' `raise Fail "msg"`
// and the standard basis's `exception Fail of string`; the rest are
// raised bare.
var exnNames = []string{
	"Bind", "Match", "Subscript", "Size", "Overflow", "Div", "Chr", "Domain", "Option", "Fail",
}

// registerExceptions binds every name in exnNames into tenv/venv as an
// `exn`-valued or `exn`-producing binding, the same way elabDatatypeDecl
// binds a datatype's own constructors, so user code can name them in
// `raise`/`handle` like any constructor.
func registerExceptions(tenv *types.Env, venv *value.Env) (*types.Env, *value.Env) {
	exn := elaborate.Exn()

	for _, n := range exnNames {
		name, idx := n, value.ExnIndex(n)

		if name == "Fail" {
			tenv = tenv.Extend(name, &types.Scheme{Body: &types.Fun{Arg: types.String(), Result: exn}})
			venv = venv.Extend(name, &value.Builtin{
				Name: name,
				Fn: func(arg value.Value, at token.Span) (value.Value, *value.Exn) {
					return &value.Con{Name: name, Index: idx, Payload: arg}, nil
				},
			})

			continue
		}

		tenv = tenv.Extend(name, types.Monotype(exn))
		venv = venv.Extend(name, &value.Con{Name: name, Index: idx})
	}

	return tenv, venv
}
