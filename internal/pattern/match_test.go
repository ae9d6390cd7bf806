package pattern

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/value"
)

func TestMatchVarBindsValue(t *testing.T) {
	env, ok := Match(&ast.PVar{Name: "x"}, value.Int(3), nil)
	require.True(t, ok)

	v, ok := env.Lookup("x")
	require.True(t, ok)
	require.Equal(t, value.Int(3), v)
}

func TestMatchLiteralFailsOnMismatch(t *testing.T) {
	_, ok := Match(&ast.PLitInt{Value: 1}, value.Int(2), nil)
	require.False(t, ok)
}

func TestMatchTupleBindsEachElement(t *testing.T) {
	p := &ast.PTuple{Elems: []ast.Pat{&ast.PVar{Name: "a"}, &ast.PVar{Name: "b"}}}
	env, ok := Match(p, value.NewTuple(value.Int(1), value.Bool(true)), nil)
	require.True(t, ok)

	a, _ := env.Lookup("a")
	b, _ := env.Lookup("b")
	require.Equal(t, value.Int(1), a)
	require.Equal(t, value.Bool(true), b)
}

func TestMatchOpenRecordIgnoresExtraFields(t *testing.T) {
	p := &ast.PRecord{Open: true, Fields: []ast.PRecordField{{Label: "a", Pat: &ast.PVar{Name: "a"}}}}
	v := value.NewRecord([]value.Field{{Label: "a", Value: value.Int(1)}, {Label: "b", Value: value.Int(2)}})

	env, ok := Match(p, v, nil)
	require.True(t, ok)

	a, _ := env.Lookup("a")
	require.Equal(t, value.Int(1), a)
}

func TestMatchClosedRecordRejectsExtraFields(t *testing.T) {
	p := &ast.PRecord{Fields: []ast.PRecordField{{Label: "a", Pat: &ast.PVar{Name: "a"}}}}
	v := value.NewRecord([]value.Field{{Label: "a", Value: value.Int(1)}, {Label: "b", Value: value.Int(2)}})

	_, ok := Match(p, v, nil)
	require.False(t, ok)
}

func TestMatchConsSplitsListHeadAndTail(t *testing.T) {
	p := &ast.PCons{Head: &ast.PVar{Name: "h"}, Tail: &ast.PVar{Name: "t"}}
	env, ok := Match(p, value.NewList(value.Int(1), value.Int(2), value.Int(3)), nil)
	require.True(t, ok)

	h, _ := env.Lookup("h")
	tailVal, _ := env.Lookup("t")
	require.Equal(t, value.Int(1), h)
	require.Equal(t, value.NewList(value.Int(2), value.Int(3)), tailVal)
}

func TestMatchConsFailsOnEmptyList(t *testing.T) {
	p := &ast.PCons{Head: &ast.PVar{Name: "h"}, Tail: &ast.PVar{Name: "t"}}
	_, ok := Match(p, value.NewList(), nil)
	require.False(t, ok)
}

func TestMatchConstructorWithPayload(t *testing.T) {
	p := &ast.PCon{Name: "SOME", Arg: &ast.PVar{Name: "x"}}
	env, ok := Match(p, &value.Con{Name: "SOME", Index: 1, Payload: value.Int(5)}, nil)
	require.True(t, ok)

	x, _ := env.Lookup("x")
	require.Equal(t, value.Int(5), x)
}

func TestMatchNullaryConstructorRejectsDifferentName(t *testing.T) {
	p := &ast.PCon{Name: "NONE"}
	_, ok := Match(p, &value.Con{Name: "SOME", Index: 1, Payload: value.Int(5)}, nil)
	require.False(t, ok)
}

func TestMatchAsBindsBothWholeAndInner(t *testing.T) {
	p := &ast.PAs{Name: "whole", Pat: &ast.PVar{Name: "inner"}}
	env, ok := Match(p, value.Int(7), nil)
	require.True(t, ok)

	w, _ := env.Lookup("whole")
	inner, _ := env.Lookup("inner")
	require.Equal(t, value.Int(7), w)
	require.Equal(t, value.Int(7), inner)
}
