package builtin

import (
	"github.com/morel-lang/morel/internal/elaborate"
	"github.com/morel-lang/morel/internal/token"
	"github.com/morel-lang/morel/internal/types"
	"github.com/morel-lang/morel/internal/value"
)

// OverloadSeed pairs an overloaded name with one of its runtime
// instances, in the declaration order registerAggregates fed the
// matching types.Scheme into the OverloadTable (spec.md §4.5.4). The
// caller seeds these into an eval.Interp once it exists, the same way a
// user `val inst` declaration does at evalInstDecl.
type OverloadSeed struct {
	Name  string
	Value value.Value
}

// registerAggregates binds count, sum, min, and max as ordinary
// top-level identifiers of type `'a bag -> 'b`, rather than as module
// fields: internal/query's computeAggs evaluates a compute clause's
// aggregate expression as a bare identifier lookup and applies it to the
// bag being aggregated over, so these four names must resolve the same
// way any other value-level function does. count is genuinely
// polymorphic (`'a bag -> int`, needs no overloading); sum/min/max must
// work over both int and real, so they are declared with `over` and
// each gets one instance per numeric type, registered in matching order
// on both the elaborator's OverloadTable (the type side) and the
// returned seeds (the runtime side, applied via eval.Interp.SeedOverload
// once the interpreter exists).
func registerAggregates(fresh *types.Fresh, overload *elaborate.OverloadTable, tenv *types.Env, venv *value.Env) (*types.Env, *value.Env, []OverloadSeed) {
	a := fresh.Var()

	tenv = tenv.Extend("count", &types.Scheme{
		Vars: []*types.Var{a},
		Body: &types.Fun{Arg: types.Bag(a), Result: types.Int()},
	})
	venv = venv.Extend("count", &value.Builtin{
		Name: "count",
		Fn: func(arg value.Value, _ token.Span) (value.Value, *value.Exn) {
			return value.Int(arg.(*value.Bag).Len()), nil
		},
	})

	var seeds []OverloadSeed

	for _, num := range []struct {
		name string
		ty   types.Type
	}{
		{"int", types.Int()},
		{"real", types.Real()},
	} {
		sumTy := types.Monotype(&types.Fun{Arg: types.Bag(num.ty), Result: num.ty})
		overload.Declare("sum")
		overload.AddInstance("sum", sumTy)
		seeds = append(seeds, OverloadSeed{Name: "sum", Value: sumBuiltin(num.name)})

		minTy := types.Monotype(&types.Fun{Arg: types.Bag(num.ty), Result: num.ty})
		overload.Declare("min")
		overload.AddInstance("min", minTy)
		seeds = append(seeds, OverloadSeed{Name: "min", Value: extremeBuiltin(num.name, true)})

		maxTy := types.Monotype(&types.Fun{Arg: types.Bag(num.ty), Result: num.ty})
		overload.Declare("max")
		overload.AddInstance("max", maxTy)
		seeds = append(seeds, OverloadSeed{Name: "max", Value: extremeBuiltin(num.name, false)})
	}

	return tenv, venv, seeds
}

func sumBuiltin(kind string) *value.Builtin {
	return &value.Builtin{
		Name: "sum",
		Fn: func(arg value.Value, at token.Span) (value.Value, *value.Exn) {
			elems := arg.(*value.Bag).Slice()

			if kind == "int" {
				var total int64

				for _, v := range elems {
					total += int64(v.(value.Int))
				}

				return value.Int(total), nil
			}

			var total float64

			for _, v := range elems {
				total += float64(v.(value.Real))
			}

			return value.Real(total), nil
		},
	}
}

// extremeBuiltin builds min (wantMin true) or max over a bag, raising
// Fail on an empty bag since the taxonomy has no dedicated
// empty-collection exception.
func extremeBuiltin(kind string, wantMin bool) *value.Builtin {
	name := "max"
	if wantMin {
		name = "min"
	}

	return &value.Builtin{
		Name: name,
		Fn: func(arg value.Value, at token.Span) (value.Value, *value.Exn) {
			elems := arg.(*value.Bag).Slice()
			if len(elems) == 0 {
				return nil, value.NewExn("Fail", value.String(name+" of empty bag"), at)
			}

			best := elems[0]

			for _, v := range elems[1:] {
				c := value.Compare(v, best)
				if (wantMin && c < 0) || (!wantMin && c > 0) {
					best = v
				}
			}

			return best, nil
		},
	}
}
