package builtin

import (
	"github.com/morel-lang/morel/internal/elaborate"
	"github.com/morel-lang/morel/internal/types"
	"github.com/morel-lang/morel/internal/value"
)

// Prelude is everything internal/session needs to bootstrap a session:
// the initial type and value environments, the datatype registry (so
// later user `datatype` declarations are registered alongside `option`),
// the overload table seeded with sum/min/max's instances, and the
// matching runtime seeds to feed into eval.Interp.SeedOverload once the
// interpreter exists (builtin cannot construct one itself: eval depends
// on builtin for this very prelude, so the dependency can't run the
// other way).
type Prelude struct {
	Fresh    *types.Fresh
	Registry *types.Registry
	TypeEnv  *types.Env
	ValueEnv *value.Env
	Overload *elaborate.OverloadTable
	Seeds    []OverloadSeed
}

// Init builds the prelude. apply is the evaluator's Apply method,
// threaded in so higher-order intrinsics (List.map, Option.map,
// Relational.iterate, ...) can invoke a closure argument without this
// package importing internal/eval.
func Init(apply Apply) *Prelude {
	fresh := types.NewFresh()
	reg := types.NewRegistry()
	overload := elaborate.NewOverloadTable()

	tenv := types.NewEnv()
	venv := value.NewEnv()

	tenv, venv = registerExceptions(tenv, venv)

	exnDt := &types.Datatype{Name: "exn"}
	for _, n := range exnNames {
		var arg types.Type
		if n == "Fail" {
			arg = types.String()
		}

		exnDt.Ctors = append(exnDt.Ctors, types.CtorInfo{Name: n, Arg: arg})
	}

	reg.Declare(exnDt)

	tenv, venv = registerOption(fresh, reg, tenv, venv)
	tenv, venv = registerOptionModule(fresh, tenv, venv, apply)
	tenv, venv = registerMath(tenv, venv)
	tenv, venv = registerInt(tenv, venv)
	tenv, venv = registerReal(tenv, venv)
	tenv, venv = registerChar(tenv, venv)
	tenv, venv = registerString(tenv, venv)
	tenv, venv = registerList(fresh, tenv, venv, apply)
	tenv, venv = registerBag(fresh, tenv, venv, apply)
	tenv, venv = registerRelational(fresh, tenv, venv, apply)
	tenv, venv = registerScott(tenv, venv)

	var seeds []OverloadSeed
	tenv, venv, seeds = registerAggregates(fresh, overload, tenv, venv)

	return &Prelude{
		Fresh:    fresh,
		Registry: reg,
		TypeEnv:  tenv,
		ValueEnv: venv,
		Overload: overload,
		Seeds:    seeds,
	}
}
