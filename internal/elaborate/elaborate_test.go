package elaborate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/parser"
	"github.com/morel-lang/morel/internal/types"
)

func parseUnits(t *testing.T, src string) []ast.Unit {
	t.Helper()

	prog, errs := parser.New("<test>", strings.NewReader(src)).ParseProgram()
	require.Empty(t, errs)

	return prog.Units
}

// elaborateAll threads an Elaborator across every unit of src in order,
// returning the final Result (so callers can assert on the last
// declaration's bindings) along with the Elaborator itself.
func elaborateAll(t *testing.T, src string) (*Elaborator, Result) {
	t.Helper()

	el := New()
	env := types.NewEnv()

	var last Result

	for _, u := range parseUnits(t, src) {
		last = el.ElaborateUnit(env, u.Decl)
		env = last.Env
	}

	return el, last
}

func TestElaborateLiteralInt(t *testing.T) {
	_, r := elaborateAll(t, "val x = 42;")

	require.True(t, r.Bag.OK())
	require.Len(t, r.Bindings, 1)
	require.Equal(t, "x", r.Bindings[0].Name)
	require.Empty(t, r.Bindings[0].Scheme.Vars)
	require.Equal(t, "int", types.Render(r.Bindings[0].Scheme.Body))
}

func TestElaboratePolymorphicIdentityGeneralizes(t *testing.T) {
	_, r := elaborateAll(t, "val id = fn x => x;")

	require.True(t, r.Bag.OK())
	require.Len(t, r.Bindings, 1)
	require.Len(t, r.Bindings[0].Scheme.Vars, 1, "fn x => x should generalize over one type variable")
}

func TestElaborateValueRestrictionKeepsApplicationMonomorphic(t *testing.T) {
	_, r := elaborateAll(t, "fun id x = x; val y = id 1;")

	require.True(t, r.Bag.OK())
	require.Equal(t, "int", types.Render(r.Bindings[0].Scheme.Body))
}

func TestElaborateUnboundVariableIsError(t *testing.T) {
	_, r := elaborateAll(t, "val x = y;")

	require.False(t, r.Bag.OK())
	require.NotEmpty(t, r.Bag.Errors)
}

func TestElaborateIfBranchMismatchIsError(t *testing.T) {
	_, r := elaborateAll(t, "val x = if true then 1 else \"a\";")

	require.False(t, r.Bag.OK())
}

func TestElaborateLetBindsLocalScope(t *testing.T) {
	_, r := elaborateAll(t, "val x = let val y = 1 in y + 1 end;")

	require.True(t, r.Bag.OK())
	require.Equal(t, "int", types.Render(r.Bindings[0].Scheme.Body))
}

func TestElaborateTupleAndFieldAccess(t *testing.T) {
	_, r := elaborateAll(t, "val p = (1, \"a\"); val x = #1 p;")

	require.True(t, r.Bag.OK())
}

func TestElaborateRecordOpenTailFieldAccess(t *testing.T) {
	_, r := elaborateAll(t, "fun getX r = #x r;")

	require.True(t, r.Bag.OK())
}

func TestElaborateEqualityOnFunctionTypeIsError(t *testing.T) {
	_, r := elaborateAll(t, "fun f x = x; val b = (f = f);")

	require.False(t, r.Bag.OK())
}
