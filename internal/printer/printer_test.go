package printer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/morel-lang/morel/internal/printer"
	"github.com/morel-lang/morel/internal/types"
	"github.com/morel-lang/morel/internal/value"
)

func TestBindingPrintsValEqualsValueColonType(t *testing.T) {
	got := printer.Binding(printer.DefaultOptions(), "x", types.Int(), value.Int(3))
	require.Equal(t, "val x = 3 : int", got)
}

func TestFunctionsPrintAsFn(t *testing.T) {
	got := printer.Value(printer.DefaultOptions(), &types.Fun{Arg: types.Int(), Result: types.Int()}, &value.Builtin{Name: "id"}, 0)
	require.Equal(t, "fn", got)
}

func TestRealPrintsWithTrailingPoint(t *testing.T) {
	got := printer.Value(printer.DefaultOptions(), types.Real(), value.Real(3), 0)
	require.Equal(t, "3.0", got)
}

func TestListElidesPastPrintLength(t *testing.T) {
	opts := printer.DefaultOptions()
	opts.PrintLength = 2

	list := value.NewList(value.Int(1), value.Int(2), value.Int(3), value.Int(4))
	got := printer.Value(opts, types.List(types.Int()), list, 0)

	require.Equal(t, "[1,2,...]", got)
}

func TestRecordElidesPastPrintDepth(t *testing.T) {
	opts := printer.DefaultOptions()
	opts.PrintDepth = 0

	rec := value.NewRecord([]value.Field{{Label: "a", Value: value.Int(1)}})
	recTy := types.NewRecord([]types.Field{{Label: "a", Type: types.Int()}})

	got := printer.Value(opts, recTy, rec, 1)
	require.Equal(t, "#", got)
}

func TestStringElidesPastStringDepth(t *testing.T) {
	opts := printer.DefaultOptions()
	opts.StringDepth = 3

	got := printer.Value(opts, types.String(), value.String("hello"), 0)
	require.Equal(t, `"hel"...`, got)
}

func TestRecordFieldsPrintInSourceOrder(t *testing.T) {
	recTy := types.NewRecord([]types.Field{{Label: "b", Type: types.Int()}, {Label: "a", Type: types.Int()}})
	rec := value.NewRecord([]value.Field{{Label: "a", Value: value.Int(1)}, {Label: "b", Value: value.Int(2)}})

	got := printer.Value(printer.DefaultOptions(), recTy, rec, 0)
	require.True(t, strings.Index(got, "b") < strings.Index(got, "a"))
}

func TestTupleRendersParenthesized(t *testing.T) {
	tup := value.NewTuple(value.Int(1), value.Bool(true))
	tupTy := types.TupleRecord([]types.Type{types.Int(), types.Bool()})

	got := printer.Value(printer.DefaultOptions(), tupTy, tup, 0)
	require.Equal(t, "(1,true)", got)
}

func TestTupleTypeRendersParenthesized(t *testing.T) {
	tup := value.NewTuple(value.Int(1), value.Bool(true))
	tupTy := &types.Tuple{Elems: []types.Type{types.Int(), types.Bool()}}

	got := printer.Value(printer.DefaultOptions(), tupTy, tup, 0)
	require.Equal(t, "(1,true)", got)
}

func TestTabularRendersOneRowPerElement(t *testing.T) {
	rowTy := types.NewRecord([]types.Field{{Label: "name", Type: types.String()}, {Label: "age", Type: types.Int()}})
	rows := value.NewList(
		value.NewRecord([]value.Field{{Label: "name", Value: value.String("ann")}, {Label: "age", Value: value.Int(30)}}),
		value.NewRecord([]value.Field{{Label: "name", Value: value.String("bo")}, {Label: "age", Value: value.Int(25)}}),
	)

	got := printer.Tabular(printer.DefaultOptions(), types.List(rowTy), rows)
	lines := strings.Split(got, "\n")

	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "name")
	require.Contains(t, lines[0], "age")
	require.Contains(t, lines[1], "ann")
	require.Contains(t, lines[2], "bo")
}

func TestTabularFallsBackToClassicForNonRecordElements(t *testing.T) {
	list := value.NewList(value.Int(1), value.Int(2))
	got := printer.Tabular(printer.DefaultOptions(), types.List(types.Int()), list)
	require.Equal(t, "[1,2]", got)
}
