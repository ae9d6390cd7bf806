package builtin

import (
	"fmt"

	"github.com/morel-lang/morel/internal/token"
	"github.com/morel-lang/morel/internal/types"
	"github.com/morel-lang/morel/internal/value"
)

// registerOption declares the `option` datatype and its two
// constructors (spec.md's Glossary doesn't mention option directly, but
// §6.4's Option exception and types.Option's constructor presuppose it).
// NONE/SOME's declaration indices, 0 and 1, are the ones
// value_test.go/pattern's own tests already assume. It is registered
// exactly like a user `datatype 'a option = NONE | SOME of 'a` would be,
// so pattern exhaustiveness and §4.8 ordering treat it uniformly.
func registerOption(fresh *types.Fresh, reg *types.Registry, tenv *types.Env, venv *value.Env) (*types.Env, *value.Env) {
	a := fresh.Var()
	optionTy := types.Option(a)

	reg.Declare(&types.Datatype{
		Name:   "option",
		Params: []*types.Var{a},
		Ctors: []types.CtorInfo{
			{Name: "NONE"},
			{Name: "SOME", Arg: a},
		},
	})

	tenv = tenv.Extend("NONE", &types.Scheme{Vars: []*types.Var{a}, Body: optionTy})
	tenv = tenv.Extend("SOME", &types.Scheme{Vars: []*types.Var{a}, Body: &types.Fun{Arg: a, Result: optionTy}})

	venv = venv.Extend("NONE", &value.Con{Name: "NONE", Index: 0})
	venv = venv.Extend("SOME", &value.Builtin{
		Name: "SOME",
		Fn: func(arg value.Value, at token.Span) (value.Value, *value.Exn) {
			return &value.Con{Name: "SOME", Index: 1, Payload: arg}, nil
		},
	})

	return tenv, venv
}

// registerOptionModule binds the Option module: predicates, extraction
// (valOf raises the Option exception on NONE, per spec.md §6.4), getOpt,
// and map.
func registerOptionModule(fresh *types.Fresh, tenv *types.Env, venv *value.Env, apply Apply) (*types.Env, *value.Env) {
	a, b := fresh.Var(), fresh.Var()

	return buildModule(tenv, venv, "Option", []member{
		rawFun("isSome", &types.Fun{Arg: types.Option(a), Result: types.Bool()},
			func(arg value.Value, at token.Span) (value.Value, *value.Exn) {
				return value.Bool(arg.(*value.Con).Name == "SOME"), nil
			}),
		rawFun("isNone", &types.Fun{Arg: types.Option(a), Result: types.Bool()},
			func(arg value.Value, at token.Span) (value.Value, *value.Exn) {
				return value.Bool(arg.(*value.Con).Name == "NONE"), nil
			}),
		rawFun("valOf", &types.Fun{Arg: types.Option(a), Result: a},
			func(arg value.Value, at token.Span) (value.Value, *value.Exn) {
				c := arg.(*value.Con)
				if c.Name == "NONE" {
					return nil, value.NewExn("Option", nil, at)
				}

				return c.Payload, nil
			}),
		member{
			label: "getOpt",
			typ:   &types.Fun{Arg: types.TupleRecord([]types.Type{types.Option(a), a}), Result: a},
			val: wrapTupleRaw("getOpt", func(args []value.Value, at token.Span) (value.Value, *value.Exn) {
				c := args[0].(*value.Con)
				if c.Name == "SOME" {
					return c.Payload, nil
				}

				return args[1], nil
			}),
		},
		member{
			label: "map",
			typ:   &types.Fun{Arg: &types.Fun{Arg: a, Result: b}, Result: &types.Fun{Arg: types.Option(a), Result: types.Option(b)}},
			val: curry2("map", func(f, opt value.Value, at token.Span) (value.Value, *value.Exn) {
				c := opt.(*value.Con)
				if c.Name == "NONE" {
					return c, nil
				}

				r, exn := apply(f, c.Payload, at)
				if exn != nil {
					return nil, exn
				}

				return &value.Con{Name: "SOME", Index: 1, Payload: r}, nil
			}),
		},
	})
}

// registerList binds the List module: higher-order combinators
// (map/filter/foldl/foldr/app/exists/all/tabulate) call back into apply
// to invoke their function argument; the rest are direct structural
// operations on value.List.
func registerList(fresh *types.Fresh, tenv *types.Env, venv *value.Env, apply Apply) (*types.Env, *value.Env) {
	a, b := fresh.Var(), fresh.Var()
	listA, listB := types.List(a), types.List(b)

	return buildModule(tenv, venv, "List", []member{
		rawFun("length", &types.Fun{Arg: listA, Result: types.Int()},
			func(arg value.Value, at token.Span) (value.Value, *value.Exn) {
				return value.Int(len(arg.(*value.List).Elems)), nil
			}),
		rawFun("null", &types.Fun{Arg: listA, Result: types.Bool()},
			func(arg value.Value, at token.Span) (value.Value, *value.Exn) {
				return value.Bool(len(arg.(*value.List).Elems) == 0), nil
			}),
		rawFun("rev", &types.Fun{Arg: listA, Result: listA},
			func(arg value.Value, at token.Span) (value.Value, *value.Exn) {
				elems := arg.(*value.List).Elems
				out := make([]value.Value, len(elems))

				for i, v := range elems {
					out[len(elems)-1-i] = v
				}

				return value.NewList(out...), nil
			}),
		rawFun("hd", &types.Fun{Arg: listA, Result: a},
			func(arg value.Value, at token.Span) (value.Value, *value.Exn) {
				elems := arg.(*value.List).Elems
				if len(elems) == 0 {
					return nil, value.NewExn("Subscript", nil, at)
				}

				return elems[0], nil
			}),
		rawFun("tl", &types.Fun{Arg: listA, Result: listA},
			func(arg value.Value, at token.Span) (value.Value, *value.Exn) {
				elems := arg.(*value.List).Elems
				if len(elems) == 0 {
					return nil, value.NewExn("Subscript", nil, at)
				}

				return value.NewList(elems[1:]...), nil
			}),
		rawFun("concat", &types.Fun{Arg: types.List(listA), Result: listA},
			func(arg value.Value, at token.Span) (value.Value, *value.Exn) {
				var out []value.Value

				for _, l := range arg.(*value.List).Elems {
					out = append(out, l.(*value.List).Elems...)
				}

				return value.NewList(out...), nil
			}),
		member{
			label: "nth",
			typ:   &types.Fun{Arg: types.TupleRecord([]types.Type{listA, types.Int()}), Result: a},
			val: wrapTupleRaw("nth", func(args []value.Value, at token.Span) (value.Value, *value.Exn) {
				elems := args[0].(*value.List).Elems
				n := int64(args[1].(value.Int))

				if n < 0 || n >= int64(len(elems)) {
					return nil, value.NewExn("Subscript", nil, at)
				}

				return elems[n], nil
			}),
		},
		member{
			label: "tabulate",
			typ:   &types.Fun{Arg: types.TupleRecord([]types.Type{types.Int(), &types.Fun{Arg: types.Int(), Result: a}}), Result: listA},
			val: wrapTupleRaw("tabulate", func(args []value.Value, at token.Span) (value.Value, *value.Exn) {
				n := int64(args[0].(value.Int))
				if n < 0 {
					return nil, value.NewExn("Size", nil, at)
				}

				out := make([]value.Value, n)

				for i := int64(0); i < n; i++ {
					v, exn := apply(args[1], value.Int(i), at)
					if exn != nil {
						return nil, exn
					}

					out[i] = v
				}

				return value.NewList(out...), nil
			}),
		},
		member{
			label: "map",
			typ:   &types.Fun{Arg: &types.Fun{Arg: a, Result: b}, Result: &types.Fun{Arg: listA, Result: listB}},
			val: curry2("map", func(f, xs value.Value, at token.Span) (value.Value, *value.Exn) {
				elems := xs.(*value.List).Elems
				out := make([]value.Value, len(elems))

				for i, v := range elems {
					r, exn := apply(f, v, at)
					if exn != nil {
						return nil, exn
					}

					out[i] = r
				}

				return value.NewList(out...), nil
			}),
		},
		member{
			label: "app",
			typ:   &types.Fun{Arg: &types.Fun{Arg: a, Result: types.Unit()}, Result: &types.Fun{Arg: listA, Result: types.Unit()}},
			val: curry2("app", func(f, xs value.Value, at token.Span) (value.Value, *value.Exn) {
				for _, v := range xs.(*value.List).Elems {
					if _, exn := apply(f, v, at); exn != nil {
						return nil, exn
					}
				}

				return value.Unit(), nil
			}),
		},
		member{
			label: "filter",
			typ:   &types.Fun{Arg: &types.Fun{Arg: a, Result: types.Bool()}, Result: &types.Fun{Arg: listA, Result: listA}},
			val: curry2("filter", func(f, xs value.Value, at token.Span) (value.Value, *value.Exn) {
				var out []value.Value

				for _, v := range xs.(*value.List).Elems {
					r, exn := apply(f, v, at)
					if exn != nil {
						return nil, exn
					}

					if bool(r.(value.Bool)) {
						out = append(out, v)
					}
				}

				return value.NewList(out...), nil
			}),
		},
		member{
			label: "exists",
			typ:   &types.Fun{Arg: &types.Fun{Arg: a, Result: types.Bool()}, Result: &types.Fun{Arg: listA, Result: types.Bool()}},
			val: curry2("exists", func(f, xs value.Value, at token.Span) (value.Value, *value.Exn) {
				for _, v := range xs.(*value.List).Elems {
					r, exn := apply(f, v, at)
					if exn != nil {
						return nil, exn
					}

					if bool(r.(value.Bool)) {
						return value.Bool(true), nil
					}
				}

				return value.Bool(false), nil
			}),
		},
		member{
			label: "all",
			typ:   &types.Fun{Arg: &types.Fun{Arg: a, Result: types.Bool()}, Result: &types.Fun{Arg: listA, Result: types.Bool()}},
			val: curry2("all", func(f, xs value.Value, at token.Span) (value.Value, *value.Exn) {
				for _, v := range xs.(*value.List).Elems {
					r, exn := apply(f, v, at)
					if exn != nil {
						return nil, exn
					}

					if !bool(r.(value.Bool)) {
						return value.Bool(false), nil
					}
				}

				return value.Bool(true), nil
			}),
		},
		member{
			label: "foldl",
			typ: &types.Fun{
				Arg:    &types.Fun{Arg: types.TupleRecord([]types.Type{a, b}), Result: b},
				Result: &types.Fun{Arg: b, Result: &types.Fun{Arg: listA, Result: b}},
			},
			val: curry3("foldl", func(f, acc, xs value.Value, at token.Span) (value.Value, *value.Exn) {
				for _, v := range xs.(*value.List).Elems {
					r, exn := apply(f, value.NewTuple(v, acc), at)
					if exn != nil {
						return nil, exn
					}

					acc = r
				}

				return acc, nil
			}),
		},
		member{
			label: "foldr",
			typ: &types.Fun{
				Arg:    &types.Fun{Arg: types.TupleRecord([]types.Type{a, b}), Result: b},
				Result: &types.Fun{Arg: b, Result: &types.Fun{Arg: listA, Result: b}},
			},
			val: curry3("foldr", func(f, acc, xs value.Value, at token.Span) (value.Value, *value.Exn) {
				elems := xs.(*value.List).Elems

				for i := len(elems) - 1; i >= 0; i-- {
					r, exn := apply(f, value.NewTuple(elems[i], acc), at)
					if exn != nil {
						return nil, exn
					}

					acc = r
				}

				return acc, nil
			}),
		},
	})
}

// registerBag binds the Bag module, the multiset counterparts of List's
// combinators; bag iteration order is unobservable (spec.md §5), so
// fold has no left/right distinction and toList's ordering must not be
// relied on.
func registerBag(fresh *types.Fresh, tenv *types.Env, venv *value.Env, apply Apply) (*types.Env, *value.Env) {
	a, b := fresh.Var(), fresh.Var()
	bagA, bagB := types.Bag(a), types.Bag(b)

	return buildModule(tenv, venv, "Bag", []member{
		rawFun("length", &types.Fun{Arg: bagA, Result: types.Int()},
			func(arg value.Value, at token.Span) (value.Value, *value.Exn) {
				return value.Int(arg.(*value.Bag).Len()), nil
			}),
		rawFun("toList", &types.Fun{Arg: bagA, Result: types.List(a)},
			func(arg value.Value, at token.Span) (value.Value, *value.Exn) {
				return value.NewList(arg.(*value.Bag).Slice()...), nil
			}),
		member{
			label: "map",
			typ:   &types.Fun{Arg: &types.Fun{Arg: a, Result: b}, Result: &types.Fun{Arg: bagA, Result: bagB}},
			val: curry2("map", func(f, xs value.Value, at token.Span) (value.Value, *value.Exn) {
				out := value.NewBag()

				var exn *value.Exn

				xs.(*value.Bag).Each(func(v value.Value, count int) {
					if exn != nil {
						return
					}

					r, e := apply(f, v, at)
					if e != nil {
						exn = e
						return
					}

					for i := 0; i < count; i++ {
						out.Add(r)
					}
				})

				if exn != nil {
					return nil, exn
				}

				return out, nil
			}),
		},
		member{
			label: "filter",
			typ:   &types.Fun{Arg: &types.Fun{Arg: a, Result: types.Bool()}, Result: &types.Fun{Arg: bagA, Result: bagA}},
			val: curry2("filter", func(f, xs value.Value, at token.Span) (value.Value, *value.Exn) {
				out := value.NewBag()

				var exn *value.Exn

				xs.(*value.Bag).Each(func(v value.Value, count int) {
					if exn != nil {
						return
					}

					r, e := apply(f, v, at)
					if e != nil {
						exn = e
						return
					}

					if bool(r.(value.Bool)) {
						for i := 0; i < count; i++ {
							out.Add(v)
						}
					}
				})

				if exn != nil {
					return nil, exn
				}

				return out, nil
			}),
		},
		member{
			label: "fold",
			typ: &types.Fun{
				Arg:    &types.Fun{Arg: types.TupleRecord([]types.Type{a, b}), Result: b},
				Result: &types.Fun{Arg: b, Result: &types.Fun{Arg: bagA, Result: b}},
			},
			val: curry3("fold", func(f, acc, xs value.Value, at token.Span) (value.Value, *value.Exn) {
				var exn *value.Exn

				xs.(*value.Bag).Each(func(v value.Value, count int) {
					for i := 0; i < count; i++ {
						if exn != nil {
							return
						}

						r, e := apply(f, value.NewTuple(v, acc), at)
						if e != nil {
							exn = e
							return
						}

						acc = r
					}
				})

				if exn != nil {
					return nil, exn
				}

				return acc, nil
			}),
		},
	})
}

func curry2(name string, fn func(a, b value.Value, at token.Span) (value.Value, *value.Exn)) *value.Builtin {
	return &value.Builtin{
		Name: name,
		Fn: func(arg1 value.Value, _ token.Span) (value.Value, *value.Exn) {
			return &value.Builtin{
				Name: name,
				Fn: func(arg2 value.Value, at token.Span) (value.Value, *value.Exn) {
					return fn(arg1, arg2, at)
				},
			}, nil
		},
	}
}

func curry3(name string, fn func(a, b, c value.Value, at token.Span) (value.Value, *value.Exn)) *value.Builtin {
	return &value.Builtin{
		Name: name,
		Fn: func(arg1 value.Value, _ token.Span) (value.Value, *value.Exn) {
			return curry2(name, func(arg2, arg3 value.Value, at token.Span) (value.Value, *value.Exn) {
				return fn(arg1, arg2, arg3, at)
			}), nil
		},
	}
}

// wrapTupleRaw is wrapTuple's hand-written counterpart for tuple
// arguments whose fields are already value.Value (no scalar conversion
// needed).
func wrapTupleRaw(name string, fn func(args []value.Value, at token.Span) (value.Value, *value.Exn)) *value.Builtin {
	return &value.Builtin{
		Name: name,
		Fn: func(arg value.Value, at token.Span) (value.Value, *value.Exn) {
			rec, ok := arg.(*value.Record)
			if !ok {
				return nil, badArg(at)
			}

			args := make([]value.Value, len(rec.Fields))

			for i := range rec.Fields {
				v, ok := rec.Field(fmt.Sprintf("%d", i+1))
				if !ok {
					return nil, badArg(at)
				}

				args[i] = v
			}

			return fn(args, at)
		},
	}
}
