package eval_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/morel-lang/morel/internal/builtin"
	"github.com/morel-lang/morel/internal/elaborate"
	"github.com/morel-lang/morel/internal/eval"
	"github.com/morel-lang/morel/internal/parser"
	"github.com/morel-lang/morel/internal/types"
	"github.com/morel-lang/morel/internal/value"
)

// run elaborates and evaluates every unit of src in order on top of the
// built-in prelude, returning the final value environment and the Interp,
// so a test can look up any bound name's runtime value.
func run(t *testing.T, src string) (*value.Env, *eval.Interp) {
	t.Helper()

	prog, errs := parser.New("<test>", strings.NewReader(src)).ParseProgram()
	require.Empty(t, errs)

	it := eval.New(nil, nil, nil)
	pre := builtin.Init(it.Apply)

	el := elaborate.New()
	el.Fresh, el.Registry, el.Overload = pre.Fresh, pre.Registry, pre.Overload
	tenv := pre.TypeEnv

	var last elaborate.Result

	for _, u := range prog.Units {
		last = el.ElaborateUnit(tenv, u.Decl)
		require.True(t, last.Bag.OK(), "elaboration failed: %v", last.Bag.Errors)

		tenv = last.Env
	}

	it.Info, it.Registry = last.Info, el.Registry

	for _, seed := range pre.Seeds {
		it.SeedOverload(seed.Name, seed.Value)
	}

	venv := pre.ValueEnv

	for _, u := range prog.Units {
		var exn *value.Exn

		venv, exn = it.EvalDecl(venv, u.Decl)
		require.Nil(t, exn, "unexpected exception")
	}

	return venv, it
}

func lookup(t *testing.T, env *value.Env, name string) value.Value {
	t.Helper()

	v, ok := env.Lookup(name)
	require.True(t, ok, "name %s not bound", name)

	return v
}

func TestEvalArithmetic(t *testing.T) {
	env, _ := run(t, `val x = 1 + 2 * 3;`)
	require.Equal(t, value.Int(7), lookup(t, env, "x"))
}

func TestEvalRealDivision(t *testing.T) {
	env, _ := run(t, `val x = 7.0 / 2.0;`)
	require.Equal(t, value.Real(3.5), lookup(t, env, "x"))
}

func TestEvalFloorDivMod(t *testing.T) {
	env, _ := run(t, `
		val q = ~7 div 2;
		val m = ~7 mod 2;
	`)
	require.Equal(t, value.Int(-4), lookup(t, env, "q"))
	require.Equal(t, value.Int(1), lookup(t, env, "m"))
}

func TestEvalDivByZeroRaisesDiv(t *testing.T) {
	prog, errs := parser.New("<test>", strings.NewReader(`val x = 1 div 0;`)).ParseProgram()
	require.Empty(t, errs)

	el := elaborate.New()
	r := el.ElaborateUnit(types.NewEnv(), prog.Units[0].Decl)
	require.True(t, r.Bag.OK())

	it := eval.New(r.Info, el.Registry, nil)

	_, exn := it.EvalDecl(value.NewEnv(), prog.Units[0].Decl)
	require.NotNil(t, exn)
	require.True(t, exn.Is("Div"))
}

func TestEvalLetAndFn(t *testing.T) {
	env, _ := run(t, `
		val f = fn x => x + 1;
		val y = let val g = f in g (g 3) end;
	`)
	require.Equal(t, value.Int(5), lookup(t, env, "y"))
}

func TestEvalFunRecursive(t *testing.T) {
	env, _ := run(t, `
		fun fact 0 = 1
		  | fact n = n * fact (n - 1);
		val y = fact 5;
	`)
	require.Equal(t, value.Int(120), lookup(t, env, "y"))
}

func TestEvalFunMutualRecursion(t *testing.T) {
	env, _ := run(t, `
		fun isEven 0 = true
		  | isEven n = isOdd (n - 1)
		and isOdd 0 = false
		  | isOdd n = isEven (n - 1);
		val a = isEven 10;
		val b = isOdd 10;
	`)
	require.Equal(t, value.Bool(true), lookup(t, env, "a"))
	require.Equal(t, value.Bool(false), lookup(t, env, "b"))
}

func TestEvalValRecFactorial(t *testing.T) {
	env, _ := run(t, `
		val rec fact = fn n => if n = 0 then 1 else n * fact (n - 1);
		val y = fact 6;
	`)
	require.Equal(t, value.Int(720), lookup(t, env, "y"))
}

func TestEvalCaseMatch(t *testing.T) {
	env, _ := run(t, `
		val x = case (1, 2) of
		    (0, _) => "zero"
		  | (a, b) => "other";
	`)
	require.Equal(t, value.String("other"), lookup(t, env, "x"))
}

func TestEvalCaseNonexhaustiveRaisesMatch(t *testing.T) {
	prog, errs := parser.New("<test>", strings.NewReader(`
		fun g 1 = 0;
		val y = g 2;
	`)).ParseProgram()
	require.Empty(t, errs)

	el := elaborate.New()
	venv := value.NewEnv()
	tenv := types.NewEnv()

	it := eval.New(el.Info(), el.Registry, nil)

	var last elaborate.Result

	for i, u := range prog.Units {
		last = el.ElaborateUnit(tenv, u.Decl)
		tenv = last.Env

		var exn *value.Exn

		venv, exn = it.EvalDecl(venv, u.Decl)

		if i == 0 {
			require.True(t, last.Bag.OK())
			require.Nil(t, exn)
		} else {
			require.NotNil(t, exn)
			require.True(t, exn.Is("Match"))
		}
	}
}

func TestEvalValBindRefutablePatternRaisesBind(t *testing.T) {
	prog, errs := parser.New("<test>", strings.NewReader(`
		datatype opt = None | Some of int;
		val Some x = None;
	`)).ParseProgram()
	require.Empty(t, errs)

	el := elaborate.New()
	tenv := types.NewEnv()
	venv := value.NewEnv()

	var it *eval.Interp

	for i, u := range prog.Units {
		r := el.ElaborateUnit(tenv, u.Decl)
		tenv = r.Env

		if it == nil {
			it = eval.New(r.Info, el.Registry, nil)
		}

		var exn *value.Exn

		venv, exn = it.EvalDecl(venv, u.Decl)

		if i == 0 {
			require.Nil(t, exn)
		} else {
			require.NotNil(t, exn)
			require.True(t, exn.Is("Bind"))
		}
	}
}

func TestEvalDatatypeConstructAndMatch(t *testing.T) {
	env, _ := run(t, `
		datatype shape = Circle of real | Square of real;

		fun area (Circle r) = 3.14 * r * r
		  | area (Square s) = s * s;

		val a = area (Square 4.0);
	`)
	require.Equal(t, value.Real(16.0), lookup(t, env, "a"))
}

func TestEvalRaiseAndHandle(t *testing.T) {
	env, _ := run(t, `
		val x = (raise Fail "boom") handle Fail msg => msg;
	`)
	require.Equal(t, value.String("boom"), lookup(t, env, "x"))
}

func TestEvalUncaughtExceptionPropagates(t *testing.T) {
	prog, errs := parser.New("<test>", strings.NewReader(`val x = raise Fail "boom";`)).ParseProgram()
	require.Empty(t, errs)

	pre := builtin.Init(nil)

	el := elaborate.New()
	el.Fresh, el.Registry, el.Overload = pre.Fresh, pre.Registry, pre.Overload
	r := el.ElaborateUnit(pre.TypeEnv, prog.Units[0].Decl)
	require.True(t, r.Bag.OK())

	it := eval.New(r.Info, el.Registry, nil)

	_, exn := it.EvalDecl(pre.ValueEnv, prog.Units[0].Decl)
	require.NotNil(t, exn)
	require.True(t, exn.Is("Fail"))
}

func TestEvalOverloadDispatch(t *testing.T) {
	env, _ := run(t, `
		over zero;
		val inst zero = 0;
		val inst zero = 0.0;
		val a = (zero : int);
		val b = (zero : real);
	`)
	require.Equal(t, value.Int(0), lookup(t, env, "a"))
	require.Equal(t, value.Real(0.0), lookup(t, env, "b"))
}

func TestEvalQueryWhereYield(t *testing.T) {
	env, _ := run(t, `
		val xs = from i in [1, 2, 3, 4, 5] where i mod 2 = 0 yield i;
	`)

	list, ok := lookup(t, env, "xs").(*value.List)
	require.True(t, ok)
	require.Equal(t, []value.Value{value.Int(2), value.Int(4)}, list.Elems)
}

func TestEvalQueryCompute(t *testing.T) {
	env, _ := run(t, `
		fun mysum xs = 0;
		val total = from i in [1, 2, 3] compute c = mysum over i;
	`)

	rec, ok := lookup(t, env, "total").(*value.Record)
	require.True(t, ok)

	c, ok := rec.Field("c")
	require.True(t, ok)
	require.Equal(t, value.Int(0), c)
}
