package builtin

import (
	"math"
	"strconv"

	"github.com/morel-lang/morel/internal/types"
	"github.com/morel-lang/morel/internal/value"
)

func intCompare(a, b int64) int64 {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func intAbs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}

func intToString(n int64) string { return strconv.FormatInt(n, 10) }

// registerInt binds the Int module (spec.md §4.11, §6.4's Overflow
// taxonomy lives in internal/eval/arith.go; these three are the plain
// data operations the basis library separates out from the `+`/`-`/`*`
// operators).
func registerInt(tenv *types.Env, venv *value.Env) (*types.Env, *value.Env) {
	return buildModule(tenv, venv, "Int", []member{
		funTuple("compare", []types.Type{types.Int(), types.Int()}, types.Int(), intCompare),
		fun1("abs", types.Int(), types.Int(), intAbs),
		fun1("toString", types.Int(), types.String(), intToString),
	})
}

func realCompare(a, b float64) int64 {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func realFloor(x float64) int64   { return int64(math.Floor(x)) }
func realCeil(x float64) int64    { return int64(math.Ceil(x)) }
func realRound(x float64) int64   { return int64(math.Round(x)) }
func realTrunc(x float64) int64   { return int64(math.Trunc(x)) }
func realFromInt(n int64) float64 { return float64(n) }
func realToString(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// registerReal binds the Real module: comparison (spec.md §9's open
// question leaves NaN ordering unspecified, so realCompare doesn't
// special-case it beyond Go's own `<`/`>`), the four int-rounding
// conversions, and fromInt/toString.
func registerReal(tenv *types.Env, venv *value.Env) (*types.Env, *value.Env) {
	return buildModule(tenv, venv, "Real", []member{
		funTuple("compare", []types.Type{types.Real(), types.Real()}, types.Int(), realCompare),
		fun1("floor", types.Real(), types.Int(), realFloor),
		fun1("ceil", types.Real(), types.Int(), realCeil),
		fun1("round", types.Real(), types.Int(), realRound),
		fun1("trunc", types.Real(), types.Int(), realTrunc),
		fun1("fromInt", types.Int(), types.Real(), realFromInt),
		fun1("toString", types.Real(), types.String(), realToString),
	})
}
