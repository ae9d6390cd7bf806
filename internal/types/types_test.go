package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnifyPrimitives(t *testing.T) {
	fresh := NewFresh()
	require.NoError(t, Unify(fresh, Int(), Int()))
	require.Error(t, Unify(fresh, Int(), Bool()))
}

func TestUnifyVariableBindsAndResolves(t *testing.T) {
	fresh := NewFresh()
	v := fresh.Var()

	require.NoError(t, Unify(fresh, v, Int()))
	require.Equal(t, "int", Render(v))
}

func TestUnifyOccursCheck(t *testing.T) {
	fresh := NewFresh()
	v := fresh.Var()
	self := &Fun{Arg: v, Result: Int()}

	err := Unify(fresh, v, self)
	require.Error(t, err)
}

func TestUnifyFunctionsPointwise(t *testing.T) {
	fresh := NewFresh()
	a1, a2 := fresh.Var(), fresh.Var()

	f1 := &Fun{Arg: a1, Result: Int()}
	f2 := &Fun{Arg: Bool(), Result: a2}

	require.NoError(t, Unify(fresh, f1, f2))
	require.Equal(t, "bool", Render(a1))
	require.Equal(t, "int", Render(a2))
}

func TestUnifyClosedRecordsRequireSameFields(t *testing.T) {
	fresh := NewFresh()
	r1 := NewRecord([]Field{{Label: "a", Type: Int()}})
	r2 := NewRecord([]Field{{Label: "a", Type: Int()}, {Label: "b", Type: Bool()}})

	require.Error(t, Unify(fresh, r1, r2))
}

func TestUnifyOpenRecordAcquiresFields(t *testing.T) {
	fresh := NewFresh()
	open := &Record{
		Fields: []Field{{Label: "a", Type: Int()}},
		Tail:   &OpenTail{Var: fresh.Var()},
	}
	closed := NewRecord([]Field{{Label: "a", Type: Int()}, {Label: "b", Type: Bool()}})

	require.NoError(t, Unify(fresh, open, closed))

	ty, ok := open.Lookup("b")
	require.True(t, ok)
	require.Equal(t, "bool", Render(ty))
}

func TestUnifyTupleIsRecordWithIntegerLabels(t *testing.T) {
	fresh := NewFresh()
	tup := &Tuple{Elems: []Type{Int(), Bool()}}
	rec := TupleRecord([]Type{Int(), Bool()})

	require.NoError(t, Unify(fresh, tup, rec))
}

func TestGeneralizeAndInstantiate(t *testing.T) {
	fresh := NewFresh()
	env := NewEnv()

	v := fresh.Var()
	idType := &Fun{Arg: v, Result: v}

	scheme := Generalize(env, idType)
	require.Len(t, scheme.Vars, 1)

	inst1 := Instantiate(fresh, scheme)
	inst2 := Instantiate(fresh, scheme)

	f1, ok := inst1.(*Fun)
	require.True(t, ok)
	require.NoError(t, Unify(fresh, f1.Arg, Int()))
	require.Equal(t, "int", Render(f1.Result))

	f2, ok := inst2.(*Fun)
	require.True(t, ok)
	// inst2's variable must be independent of inst1's binding.
	require.NotEqual(t, Render(f1.Arg), "")
	_, isVar := Prune(f2.Arg).(*Var)
	require.True(t, isVar)
}

func TestGeneralizeExcludesEnvironmentFreeVars(t *testing.T) {
	fresh := NewFresh()
	v := fresh.Var()
	env := NewEnv().Extend("x", Monotype(v))

	scheme := Generalize(env, v)
	require.Empty(t, scheme.Vars)
}

type staticWidener struct {
	fields map[string]Type
}

func (w *staticWidener) WidenField(label string) (Type, bool) {
	ty, ok := w.fields[label]
	return ty, ok
}

func TestProgressiveRecordWidensMonotonically(t *testing.T) {
	w := &staticWidener{fields: map[string]Type{"name": String(), "age": Int()}}
	r := &Record{Tail: &ProgressiveTail{Source: w}}

	ty1, ok := r.Lookup("name")
	require.True(t, ok)
	require.Equal(t, "string", Render(ty1))
	require.Len(t, r.Fields, 1)

	// Observed set only grows.
	ty2, ok := r.Lookup("age")
	require.True(t, ok)
	require.Equal(t, "int", Render(ty2))
	require.Len(t, r.Fields, 2)

	// Re-requesting an already-widened field is idempotent.
	ty1Again, ok := r.Lookup("name")
	require.True(t, ok)
	require.Same(t, ty1, ty1Again)
	require.Len(t, r.Fields, 2)

	_, ok = r.Lookup("missing")
	require.False(t, ok)
}

func TestNameVarsAssignsContiguousLetters(t *testing.T) {
	fresh := NewFresh()
	v1, v2 := fresh.Var(), fresh.Var()
	ty := &Fun{Arg: v1, Result: &Tuple{Elems: []Type{v2, v1}}}

	NameVars(ty)
	require.Equal(t, "'a -> 'b * 'a", Render(ty))
}
