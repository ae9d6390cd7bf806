package eval

import (
	"math"

	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/token"
	"github.com/morel-lang/morel/internal/value"
)

// evalInfix evaluates a binary operator application. Which concrete Go
// type each operand holds was already pinned down by elaboration (`/`
// always sees two reals, `div`/`mod` always see two ints, ...), so this
// switches on ast.InfixOp rather than re-discovering operand types.
func (it *Interp) evalInfix(env *value.Env, e *ast.Infix) (value.Value, *value.Exn) {
	l, exn := it.Eval(env, e.Left)
	if exn != nil {
		return nil, exn
	}

	r, exn := it.Eval(env, e.Right)
	if exn != nil {
		return nil, exn
	}

	switch e.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul:
		return it.arith(e.Op, l, r, e.Span())

	case ast.OpDiv:
		lf, rf := float64(l.(value.Real)), float64(r.(value.Real))
		return value.Real(lf / rf), nil

	case ast.OpDivInt:
		li, ri := int64(l.(value.Int)), int64(r.(value.Int))
		if ri == 0 {
			return nil, value.NewExn("Div", nil, e.Span())
		}

		q, _ := floorDivMod(li, ri)

		return value.Int(q), nil

	case ast.OpMod:
		li, ri := int64(l.(value.Int)), int64(r.(value.Int))
		if ri == 0 {
			return nil, value.NewExn("Div", nil, e.Span())
		}

		_, m := floorDivMod(li, ri)

		return value.Int(m), nil

	case ast.OpConcat:
		return value.String(string(l.(value.String)) + string(r.(value.String))), nil

	case ast.OpCons:
		list, _ := r.(*value.List)
		elems := append([]value.Value{l}, list.Elems...)

		return value.NewList(elems...), nil

	case ast.OpEq:
		return value.Bool(value.Equal(l, r)), nil

	case ast.OpNe:
		return value.Bool(!value.Equal(l, r)), nil

	case ast.OpLt:
		return value.Bool(value.Compare(l, r) < 0), nil

	case ast.OpLe:
		return value.Bool(value.Compare(l, r) <= 0), nil

	case ast.OpGt:
		return value.Bool(value.Compare(l, r) > 0), nil

	case ast.OpGe:
		return value.Bool(value.Compare(l, r) >= 0), nil

	case ast.OpElem, ast.OpNotElem:
		list, _ := r.(*value.List)
		found := false

		for _, elem := range list.Elems {
			if value.Equal(l, elem) {
				found = true
				break
			}
		}

		if e.Op == ast.OpNotElem {
			found = !found
		}

		return value.Bool(found), nil
	}

	return value.Unit(), nil
}

// floorDivMod implements Standard ML's `div`/`mod`: flooring division, so
// the remainder always takes the sign of the divisor (Go's native `/`
// and `%` truncate toward zero instead).
func floorDivMod(a, b int64) (q, m int64) {
	q = a / b
	m = a % b

	if m != 0 && (m < 0) != (b < 0) {
		q--
		m += b
	}

	return q, m
}

// arith evaluates `+`/`-`/`*` over two ints or two reals, raising
// Overflow if an int result doesn't fit in 64 bits (spec.md §6.4; reals
// never overflow under IEEE 754, they saturate to +/-Inf instead).
func (it *Interp) arith(op ast.InfixOp, l, r value.Value, at token.Span) (value.Value, *value.Exn) {
	if lf, ok := l.(value.Real); ok {
		rf := r.(value.Real)

		switch op {
		case ast.OpAdd:
			return lf + rf, nil
		case ast.OpSub:
			return lf - rf, nil
		default:
			return lf * rf, nil
		}
	}

	li, ri := int64(l.(value.Int)), int64(r.(value.Int))

	var result int64

	switch op {
	case ast.OpAdd:
		result = li + ri
		if (result > li) != (ri > 0) && ri != 0 {
			return nil, value.NewExn("Overflow", nil, at)
		}
	case ast.OpSub:
		result = li - ri
		if (result < li) != (ri > 0) && ri != 0 {
			return nil, value.NewExn("Overflow", nil, at)
		}
	default:
		result = li * ri
		if (li != 0 && result/li != ri) || (li == -1 && ri == math.MinInt64) {
			return nil, value.NewExn("Overflow", nil, at)
		}
	}

	return value.Int(result), nil
}

// negate implements unary `~`, raising Overflow for math.MinInt64 (its
// negation doesn't fit in int64).
func (it *Interp) negate(v value.Value, at token.Span) (value.Value, *value.Exn) {
	if f, ok := v.(value.Real); ok {
		return -f, nil
	}

	n := int64(v.(value.Int))
	if n == math.MinInt64 {
		return nil, value.NewExn("Overflow", nil, at)
	}

	return value.Int(-n), nil
}
