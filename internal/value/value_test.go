package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTupleIsRecordWithIntegerLabels(t *testing.T) {
	tup := NewTuple(Int(1), Bool(true))
	a, ok := tup.Field("1")
	require.True(t, ok)
	require.Equal(t, Int(1), a)

	b, ok := tup.Field("2")
	require.True(t, ok)
	require.Equal(t, Bool(true), b)
}

func TestRecordEqualityIsLabelOrderIndependent(t *testing.T) {
	r1 := NewRecord([]Field{{Label: "a", Value: Int(1)}, {Label: "b", Value: Int(2)}})
	r2 := NewRecord([]Field{{Label: "b", Value: Int(2)}, {Label: "a", Value: Int(1)}})

	require.True(t, Equal(r1, r2))
}

func TestUnitEqualsEmptyRecord(t *testing.T) {
	require.True(t, Equal(Unit(), NewRecord(nil)))
}

func TestBagEqualityIgnoresOrder(t *testing.T) {
	b1 := NewBag(Int(1), Int(2), Int(1))
	b2 := NewBag(Int(2), Int(1), Int(1))

	require.True(t, Equal(b1, b2))
	require.Equal(t, 3, b1.Len())
	require.Equal(t, 2, b1.Count(Int(1)))
}

func TestBagInequalityOnDifferentMultiplicity(t *testing.T) {
	b1 := NewBag(Int(1), Int(1))
	b2 := NewBag(Int(1))

	require.False(t, Equal(b1, b2))
}

func TestCompareRealTreatsNaNAsLargest(t *testing.T) {
	nan := Real(0)
	nan = Real(nanValue())

	require.Equal(t, 1, Compare(nan, Real(1.0)))
	require.Equal(t, -1, Compare(Real(1.0), nan))
	require.Equal(t, 0, Compare(nan, nan))
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}

func TestCompareListsLexicographic(t *testing.T) {
	shorter := NewList(Int(1))
	longer := NewList(Int(1), Int(2))

	require.Equal(t, -1, Compare(shorter, longer))
	require.Equal(t, 1, Compare(longer, shorter))
}

func TestCompareSumTypeByDeclarationIndexThenPayload(t *testing.T) {
	none := &Con{Name: "NONE", Index: 0}
	some1 := &Con{Name: "SOME", Index: 1, Payload: Int(1)}
	some2 := &Con{Name: "SOME", Index: 1, Payload: Int(2)}

	require.Equal(t, -1, Compare(none, some1))
	require.Equal(t, -1, Compare(some1, some2))
}
