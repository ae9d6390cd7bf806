package value

import (
	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/token"
)

// Closure is a function value: a captured environment plus the clauses
// of a `fn` literal or a `val rec`-bound name (spec.md §3.3), each of
// which takes exactly one pattern per application already.
type Closure struct {
	Clauses []ast.MatchClause
	Env     *Env
	// Name is set for closures bound by `val rec`, used only for the
	// CLASSIC printer ("fn") and self-reference in letrec patching.
	Name string
}

// Builtin is an opaque callable value wrapping a Go function, used both
// for every intrinsic exposed by internal/builtin (spec.md §3.3
// "Built-in functions are opaque callable values") and, internally, for
// the curried partial applications a multi-parameter `fun` binding
// produces: a `fun` clause list can only be matched once every parameter
// has been supplied (clauses pattern-match the whole argument tuple, not
// one argument independently of the rest), so the evaluator represents
// "k more arguments needed" as a Builtin that accumulates arguments and
// only runs the clause match once arity is reached. Fn receives the call
// site's position so it can raise a positioned runtime exception
// (Subscript, Div, Domain, ...) the same way a user `raise` does.
type Builtin struct {
	Name string
	Fn   func(arg Value, at token.Span) (Value, *Exn)
}
