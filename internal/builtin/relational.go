package builtin

import (
	"github.com/morel-lang/morel/internal/token"
	"github.com/morel-lang/morel/internal/types"
	"github.com/morel-lang/morel/internal/value"
)

// bagEqual reports whether two bags hold the same elements with the
// same multiplicities, order-independent per spec.md §5.
func bagEqual(a, b *value.Bag) bool {
	if a.Len() != b.Len() {
		return false
	}

	eq := true

	a.Each(func(v value.Value, count int) {
		if count != b.Count(v) {
			eq = false
		}
	})

	return eq
}

// registerRelational binds the Relational module: compare (the total
// order of spec.md §4.8, used by `order`/`sort` and exposed directly
// here) and iterate, the semi-naive Datalog fixed-point evaluator
// SPEC_FULL.md's 4.11+ section fixes as
// `'a bag -> (('a bag * 'a bag) -> 'a bag) -> 'a bag`: step is called
// with (everything accumulated so far, only what the previous round
// added) until a round contributes nothing new, per S6.
func registerRelational(fresh *types.Fresh, tenv *types.Env, venv *value.Env, apply Apply) (*types.Env, *value.Env) {
	a := fresh.Var()
	bagA := types.Bag(a)
	stepTy := &types.Fun{Arg: types.TupleRecord([]types.Type{bagA, bagA}), Result: bagA}

	return buildModule(tenv, venv, "Relational", []member{
		member{
			label: "compare",
			typ:   &types.Fun{Arg: types.TupleRecord([]types.Type{a, a}), Result: types.Int()},
			val: wrapTupleRaw("compare", func(args []value.Value, _ token.Span) (value.Value, *value.Exn) {
				return value.Int(value.Compare(args[0], args[1])), nil
			}),
		},
		member{
			label: "iterate",
			typ:   &types.Fun{Arg: bagA, Result: &types.Fun{Arg: stepTy, Result: bagA}},
			val: curry2("iterate", func(seed, step value.Value, at token.Span) (value.Value, *value.Exn) {
				all := seed.(*value.Bag)
				delta := seed.(*value.Bag)

				for delta.Len() > 0 {
					next, exn := apply(step, value.NewTuple(all, delta), at)
					if exn != nil {
						return nil, exn
					}

					nextBag, ok := next.(*value.Bag)
					if !ok {
						return nil, badArg(at)
					}

					added := value.NewBag()

					nextBag.Each(func(v value.Value, count int) {
						extra := count - all.Count(v)
						for i := 0; i < extra; i++ {
							added.Add(v)
						}
					})

					merged := value.NewBag(all.Slice()...)

					added.Each(func(v value.Value, count int) {
						for i := 0; i < count; i++ {
							merged.Add(v)
						}
					})

					if bagEqual(merged, all) {
						break
					}

					all = merged
					delta = added
				}

				return all, nil
			}),
		},
	})
}
