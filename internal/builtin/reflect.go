// Package builtin implements spec.md §4.11: the initial environment
// every session starts from, exposing modules as records of functions
// (Math, Int, Real, Char, String, List, Bag, Option, Relational; the Sys
// module is bound by internal/session instead) plus the built-in
// exception taxonomy (§6.4) and the Scott fixture
// (Glossary, §8 S2/S6). Grounded on the teacher's `marshal.go`, which
// walks a Go struct via reflect to synthesize an AST the other
// direction; here a Go `func(...) (result[, error])` is walked via
// reflect.Type to derive its Morel arity and build the value.Builtin
// currying/unwrap/wrap glue once, instead of once per intrinsic.
package builtin

import (
	"fmt"
	"reflect"

	"github.com/morel-lang/morel/internal/token"
	"github.com/morel-lang/morel/internal/value"
)

// domainError is returned by an intrinsic's Go implementation to signal
// one of the named runtime exceptions rather than the default Fail
// (e.g. Math.sqrt of a negative argument raises Domain, String.sub of
// an out-of-range index raises Subscript).
type domainError struct {
	name    string
	payload value.Value
}

func (e domainError) Error() string { return e.name }

func domainErr(name string) error             { return domainError{name: name} }
func payloadErr(name string, p value.Value) error { return domainError{name: name, payload: p} }

// wrap adapts fn, a Go function of arity N returning either a single
// result or (result, error), into a curried *value.Builtin that accepts
// N Morel values one application at a time and converts each to/from
// the matching Go scalar kind (int64, float64, bool, int32/rune,
// string). fn must take only scalar parameters; collection-shaped
// intrinsics (List/Bag/Option) are written by hand instead, since their
// element type is already a value.Value and gains nothing from
// reflection.
func wrap(name string, fn interface{}) *value.Builtin {
	rv := reflect.ValueOf(fn)
	rt := rv.Type()

	return curryReflect(name, rv, rt, rt.NumIn(), nil)
}

func curryReflect(name string, rv reflect.Value, rt reflect.Type, arity int, args []reflect.Value) *value.Builtin {
	return &value.Builtin{
		Name: name,
		Fn: func(arg value.Value, at token.Span) (value.Value, *value.Exn) {
			paramTy := rt.In(len(args))

			goArg, exn := toGo(paramTy, arg, at)
			if exn != nil {
				return nil, exn
			}

			newArgs := append(append([]reflect.Value(nil), args...), goArg)
			if len(newArgs) < arity {
				return curryReflect(name, rv, rt, arity, newArgs), nil
			}

			return fromGoResult(rv.Call(newArgs), at)
		},
	}
}

// toGo converts a single Morel scalar value into the reflect.Value a Go
// parameter of type paramTy expects.
func toGo(paramTy reflect.Type, v value.Value, at token.Span) (reflect.Value, *value.Exn) {
	switch paramTy.Kind() {
	case reflect.Int64:
		n, ok := v.(value.Int)
		if !ok {
			return reflect.Value{}, badArg(at)
		}

		return reflect.ValueOf(int64(n)), nil

	case reflect.Float64:
		r, ok := v.(value.Real)
		if !ok {
			return reflect.Value{}, badArg(at)
		}

		return reflect.ValueOf(float64(r)), nil

	case reflect.Bool:
		b, ok := v.(value.Bool)
		if !ok {
			return reflect.Value{}, badArg(at)
		}

		return reflect.ValueOf(bool(b)), nil

	case reflect.Int32:
		c, ok := v.(value.Char)
		if !ok {
			return reflect.Value{}, badArg(at)
		}

		return reflect.ValueOf(rune(c)), nil

	case reflect.String:
		s, ok := v.(value.String)
		if !ok {
			return reflect.Value{}, badArg(at)
		}

		return reflect.ValueOf(string(s)), nil
	}

	return reflect.Value{}, badArg(at)
}

// wrapTuple adapts fn, a Go function of arity N returning either a
// single result or (result, error), into a *value.Builtin taking one
// Morel argument: the N-tuple (record with labels "1".."N") SML's basis
// library passes to non-curried operations like `Int.compare`,
// `String.sub`, or `Math.pow`, as opposed to wrap's curried combinators.
func wrapTuple(name string, fn interface{}) *value.Builtin {
	rv := reflect.ValueOf(fn)
	rt := rv.Type()
	n := rt.NumIn()

	return &value.Builtin{
		Name: name,
		Fn: func(arg value.Value, at token.Span) (value.Value, *value.Exn) {
			rec, ok := arg.(*value.Record)
			if !ok || len(rec.Fields) != n {
				return nil, badArg(at)
			}

			args := make([]reflect.Value, n)

			for i := 0; i < n; i++ {
				fv, ok := rec.Field(fmt.Sprintf("%d", i+1))
				if !ok {
					return nil, badArg(at)
				}

				gv, exn := toGo(rt.In(i), fv, at)
				if exn != nil {
					return nil, exn
				}

				args[i] = gv
			}

			return fromGoResult(rv.Call(args), at)
		},
	}
}

func badArg(at token.Span) *value.Exn {
	return value.NewExn("Fail", value.String("built-in applied to a value of the wrong shape"), at)
}

// fromGoResult unpacks fn's reflect.Call output, which is either
// (result) or (result, error), converting the result to a value.Value
// or the error to the matching runtime exception.
func fromGoResult(out []reflect.Value, at token.Span) (value.Value, *value.Exn) {
	if len(out) == 2 {
		errV := out[1].Interface()
		if errV != nil {
			err := errV.(error)

			if de, ok := err.(domainError); ok {
				return nil, value.NewExn(de.name, de.payload, at)
			}

			return nil, value.NewExn("Fail", value.String(err.Error()), at)
		}
	}

	return fromGo(out[0]), nil
}

func fromGo(rv reflect.Value) value.Value {
	switch rv.Kind() {
	case reflect.Int64:
		return value.Int(rv.Int())
	case reflect.Float64:
		return value.Real(rv.Float())
	case reflect.Bool:
		return value.Bool(rv.Bool())
	case reflect.Int32:
		return value.Char(rune(rv.Int()))
	case reflect.String:
		return value.String(rv.String())
	default:
		panic(fmt.Sprintf("builtin: unsupported reflect result kind %s", rv.Kind()))
	}
}
