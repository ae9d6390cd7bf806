package builtin

import (
	"math"

	"github.com/morel-lang/morel/internal/types"
	"github.com/morel-lang/morel/internal/value"
)

func mathSqrt(x float64) (float64, error) {
	if x < 0 {
		return 0, domainErr("Domain")
	}

	return math.Sqrt(x), nil
}

func mathLn(x float64) (float64, error) {
	if x <= 0 {
		return 0, domainErr("Domain")
	}

	return math.Log(x), nil
}

// registerMath binds the Math module (spec.md §4.11's "Math.sqrt, ..."),
// a handful of transcendental functions over real plus the two
// constants pi and e. Math.pow is not domain-checked beyond what
// math.Pow itself does (e.g. a negative base with a fractional exponent
// yields NaN rather than raising Domain); real's equality/ordering over
// NaN is left unspecified by spec.md §9's open questions, so this is
// consistent rather than an omission.
func registerMath(tenv *types.Env, venv *value.Env) (*types.Env, *value.Env) {
	return buildModule(tenv, venv, "Math", []member{
		constant("pi", types.Real(), value.Real(math.Pi)),
		constant("e", types.Real(), value.Real(math.E)),
		fun1("sqrt", types.Real(), types.Real(), mathSqrt),
		fun1("ln", types.Real(), types.Real(), mathLn),
		fun1("exp", types.Real(), types.Real(), math.Exp),
		fun1("sin", types.Real(), types.Real(), math.Sin),
		fun1("cos", types.Real(), types.Real(), math.Cos),
		fun1("tan", types.Real(), types.Real(), math.Tan),
		funTuple("pow", []types.Type{types.Real(), types.Real()}, types.Real(), math.Pow),
	})
}
