package elaborate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/morel-lang/morel/internal/types"
)

func TestElaborateCaseExhaustiveBool(t *testing.T) {
	_, r := elaborateAll(t, `
		val x = case true of
		    true => 1
		  | false => 0;
	`)

	require.True(t, r.Bag.OK())
	require.Empty(t, r.Bag.Warnings)
}

func TestElaborateCaseNonexhaustiveBoolWarns(t *testing.T) {
	_, r := elaborateAll(t, `
		val x = case true of
		    true => 1;
	`)

	require.True(t, r.Bag.OK())
	require.NotEmpty(t, r.Bag.Warnings)
}

func TestElaborateCaseRedundantClauseErrors(t *testing.T) {
	_, r := elaborateAll(t, `
		val x = case true of
		    _ => 0
		  | true => 1;
	`)

	require.False(t, r.Bag.OK())
}

func TestElaborateFnClausesUnifyArgAndResult(t *testing.T) {
	_, r := elaborateAll(t, `
		val f = fn 0 => "zero" | n => "other";
	`)

	require.True(t, r.Bag.OK())
	require.Equal(t, "int -> string", types.Render(r.Bindings[0].Scheme.Body))
}

func TestElaborateHandleUnifiesExnAndBody(t *testing.T) {
	_, r := elaborateAll(t, `
		fun f x = (x handle Div => 0);
	`)

	require.True(t, r.Bag.OK())
}
