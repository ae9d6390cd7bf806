package pattern

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/types"
)

func optionChecker() *Checker {
	reg := types.NewRegistry()
	reg.Declare(&types.Datatype{
		Name: "option",
		Ctors: []types.CtorInfo{
			{Name: "NONE"},
			{Name: "SOME", Arg: types.Int()},
		},
	})

	return &Checker{Registry: reg}
}

func TestExhaustiveBoolMatch(t *testing.T) {
	c := &Checker{Registry: types.NewRegistry()}

	results, exhaustive := c.Check([]ast.Pat{
		&ast.PLitBool{Value: true},
		&ast.PLitBool{Value: false},
	})

	require.True(t, exhaustive)
	require.False(t, results[0].Redundant)
	require.False(t, results[1].Redundant)
}

func TestNonexhaustiveBoolMatch(t *testing.T) {
	c := &Checker{Registry: types.NewRegistry()}

	_, exhaustive := c.Check([]ast.Pat{
		&ast.PLitBool{Value: true},
	})

	require.False(t, exhaustive)
}

func TestWildcardAfterSpecificIsRedundant(t *testing.T) {
	c := &Checker{Registry: types.NewRegistry()}

	results, exhaustive := c.Check([]ast.Pat{
		&ast.PWildcard{},
		&ast.PLitBool{Value: false},
	})

	require.True(t, exhaustive)
	require.False(t, results[0].Redundant)
	require.True(t, results[1].Redundant)
}

func TestDatatypeExhaustivenessRequiresEveryConstructor(t *testing.T) {
	c := optionChecker()

	_, exhaustive := c.Check([]ast.Pat{
		&ast.PCon{Name: "NONE"},
	})
	require.False(t, exhaustive)

	results, exhaustive := c.Check([]ast.Pat{
		&ast.PCon{Name: "NONE"},
		&ast.PCon{Name: "SOME", Arg: &ast.PVar{Name: "x"}},
	})
	require.True(t, exhaustive)
	require.False(t, results[0].Redundant)
	require.False(t, results[1].Redundant)
}

func TestDuplicateNullaryConstructorClauseIsRedundant(t *testing.T) {
	c := optionChecker()

	results, _ := c.Check([]ast.Pat{
		&ast.PCon{Name: "NONE"},
		&ast.PCon{Name: "NONE"},
		&ast.PCon{Name: "SOME", Arg: &ast.PVar{Name: "x"}},
	})

	require.False(t, results[0].Redundant)
	require.True(t, results[1].Redundant)
	require.False(t, results[2].Redundant)
}

func TestListNilConsExhaustiveness(t *testing.T) {
	c := &Checker{Registry: types.NewRegistry()}

	_, exhaustive := c.Check([]ast.Pat{
		&ast.PList{},
	})
	require.False(t, exhaustive)

	_, exhaustive = c.Check([]ast.Pat{
		&ast.PList{},
		&ast.PCons{Head: &ast.PVar{Name: "h"}, Tail: &ast.PVar{Name: "t"}},
	})
	require.True(t, exhaustive)
}

func TestTupleMatchIsAlwaysCompleteWithOneClause(t *testing.T) {
	c := &Checker{Registry: types.NewRegistry()}

	_, exhaustive := c.Check([]ast.Pat{
		&ast.PTuple{Elems: []ast.Pat{&ast.PVar{Name: "a"}, &ast.PVar{Name: "b"}}},
	})

	require.True(t, exhaustive)
}

func TestLiteralIntMatchIsNeverExhaustiveWithoutWildcard(t *testing.T) {
	c := &Checker{Registry: types.NewRegistry()}

	_, exhaustive := c.Check([]ast.Pat{
		&ast.PLitInt{Value: 0},
		&ast.PLitInt{Value: 1},
	})

	require.False(t, exhaustive)
}
