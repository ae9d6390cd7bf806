package elaborate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/morel-lang/morel/internal/types"
)

func TestElaborateFunRecursiveLetrec(t *testing.T) {
	_, r := elaborateAll(t, `
		fun fact n = if n = 0 then 1 else n * fact (n - 1);
		val y = fact 5;
	`)

	require.True(t, r.Bag.OK())
	require.Equal(t, "int", types.Render(r.Bindings[0].Scheme.Body))
}

func TestElaborateMutuallyRecursiveFunGroup(t *testing.T) {
	_, r := elaborateAll(t, `
		fun isEven n = if n = 0 then true else isOdd (n - 1)
		and isOdd n = if n = 0 then false else isEven (n - 1);
		val y = isEven 10;
	`)

	require.True(t, r.Bag.OK())
	require.Equal(t, "bool", types.Render(r.Bindings[0].Scheme.Body))
}

func TestElaborateFunArityMismatchIsError(t *testing.T) {
	_, r := elaborateAll(t, `
		fun f x y = x
		  | f x = x;
	`)

	require.False(t, r.Bag.OK())
}

func TestElaborateDatatypeConstructorTyping(t *testing.T) {
	_, r := elaborateAll(t, `
		datatype 'a option2 = None2 | Some2 of 'a;
		val x = Some2 3;
	`)

	require.True(t, r.Bag.OK())
	require.Equal(t, "int option2", types.Render(r.Bindings[0].Scheme.Body))
}

func TestElaborateDatatypeNullaryConstructorAsPattern(t *testing.T) {
	_, r := elaborateAll(t, `
		datatype 'a option2 = None2 | Some2 of 'a;
		fun get None2 = 0
		  | get (Some2 x) = x;
	`)

	require.True(t, r.Bag.OK())
	require.Equal(t, "int option2 -> int", types.Render(r.Bindings[0].Scheme.Body))
}

func TestElaborateRecursiveDatatype(t *testing.T) {
	_, r := elaborateAll(t, `
		datatype tree = Leaf | Node of tree * int * tree;
		val t = Node (Leaf, 1, Leaf);
	`)

	require.True(t, r.Bag.OK())
	require.Equal(t, "tree", types.Render(r.Bindings[0].Scheme.Body))
}

func TestElaborateTypeAliasExpansion(t *testing.T) {
	_, r := elaborateAll(t, `
		type intPair = int * int;
		val p : intPair = (1, 2);
	`)

	require.True(t, r.Bag.OK())
}

func TestElaborateOverloadResolvesByUseSite(t *testing.T) {
	_, r := elaborateAll(t, `
		over zero;
		val inst zero = 0;
		val inst zero = 0.0;
		val x : int = zero;
	`)

	require.True(t, r.Bag.OK())
}

func TestElaborateInstWithoutOverIsError(t *testing.T) {
	_, r := elaborateAll(t, "val inst notOverloaded = 1;")

	require.False(t, r.Bag.OK())
}

func TestElaborateValDuplicateVariableInPatternIsError(t *testing.T) {
	_, r := elaborateAll(t, "val (x, x) = (1, 2);")

	require.False(t, r.Bag.OK())
}
