package builtin

import (
	"strings"
	"unicode"

	"github.com/morel-lang/morel/internal/token"
	"github.com/morel-lang/morel/internal/types"
	"github.com/morel-lang/morel/internal/value"
)

func charCompare(a, b rune) int64 {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func charOrd(c rune) int64 { return int64(c) }

func charChr(n int64) (rune, error) {
	if n < 0 || n > 0x10FFFF {
		return 0, domainErr("Chr")
	}

	return rune(n), nil
}

func charToString(c rune) string { return string(c) }

// registerChar binds the Char module: ord/chr (spec.md §6.4's Chr
// exception is exactly for chr's out-of-range case), comparison, and the
// handful of classifier predicates the String module's own intrinsics
// don't need but user code commonly does.
func registerChar(tenv *types.Env, venv *value.Env) (*types.Env, *value.Env) {
	return buildModule(tenv, venv, "Char", []member{
		funTuple("compare", []types.Type{types.Char(), types.Char()}, types.Int(), charCompare),
		fun1("ord", types.Char(), types.Int(), charOrd),
		fun1("chr", types.Int(), types.Char(), charChr),
		fun1("toString", types.Char(), types.String(), charToString),
		fun1("isUpper", types.Char(), types.Bool(), unicode.IsUpper),
		fun1("isLower", types.Char(), types.Bool(), unicode.IsLower),
		fun1("isDigit", types.Char(), types.Bool(), unicode.IsDigit),
		fun1("isAlpha", types.Char(), types.Bool(), unicode.IsLetter),
		fun1("isSpace", types.Char(), types.Bool(), unicode.IsSpace),
	})
}

func stringSize(s string) int64 { return int64(len([]rune(s))) }

func stringSub(s string, i int64) (rune, error) {
	runes := []rune(s)
	if i < 0 || i >= int64(len(runes)) {
		return 0, domainErr("Subscript")
	}

	return runes[i], nil
}

func stringSubstring(s string, start, n int64) (string, error) {
	runes := []rune(s)
	if start < 0 || n < 0 || start+n > int64(len(runes)) {
		return "", domainErr("Subscript")
	}

	return string(runes[start : start+n]), nil
}

func stringCompare(a, b string) int64 {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func stringStr(c rune) string { return string(c) }

// explode is List-shaped rather than scalar, so it's written by hand
// instead of going through wrap/wrapTuple.
func explode(arg value.Value, _ token.Span) (value.Value, *value.Exn) {
	s := string(arg.(value.String))
	runes := []rune(s)
	elems := make([]value.Value, len(runes))

	for i, r := range runes {
		elems[i] = value.Char(r)
	}

	return value.NewList(elems...), nil
}

func implode(arg value.Value, at token.Span) (value.Value, *value.Exn) {
	list, ok := arg.(*value.List)
	if !ok {
		return nil, badArg(at)
	}

	var b strings.Builder

	for _, v := range list.Elems {
		c, ok := v.(value.Char)
		if !ok {
			return nil, badArg(at)
		}

		b.WriteRune(rune(c))
	}

	return value.String(b.String()), nil
}

// registerString binds the String module: size/sub/substring (Subscript
// on an out-of-range index or length, per spec.md §6.4), compare, str,
// and explode/implode to and from Char lists.
func registerString(tenv *types.Env, venv *value.Env) (*types.Env, *value.Env) {
	return buildModule(tenv, venv, "String", []member{
		fun1("size", types.String(), types.Int(), stringSize),
		funTuple("sub", []types.Type{types.String(), types.Int()}, types.Char(), stringSub),
		funTuple("substring", []types.Type{types.String(), types.Int(), types.Int()}, types.String(), stringSubstring),
		funTuple("compare", []types.Type{types.String(), types.String()}, types.Int(), stringCompare),
		fun1("str", types.Char(), types.String(), stringStr),
		rawFun("explode", &types.Fun{Arg: types.String(), Result: types.List(types.Char())}, explode),
		rawFun("implode", &types.Fun{Arg: types.List(types.Char()), Result: types.String()}, implode),
	})
}
