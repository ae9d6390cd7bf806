// Package query implements spec.md §4.9: the runtime row-pipeline
// interpreter for `from`/`exists`/`forall` queries. It is the dynamic
// counterpart to internal/elaborate/query.go's static row-field tracking
// — both fold the same per-step table over a running row-set, one at the
// type level and one over actual values. By the time a *ast.QueryExpr
// reaches this package, every unbounded scan has already been rewritten
// to a concrete `Scan.Source` by the elaborator's §4.9.5 grounding pass,
// so Interp never has to re-derive one.
//
// Grounded on stream-xml-encoder/encoder.go's incremental, depth-tracked
// token pipeline, generalized from a token stream to a row stream; step
// transitions are traced through an injectable github.com/hashicorp/
// go-hclog logger, following nomad's logger-as-a-field convention.
package query

import (
	"github.com/hashicorp/go-hclog"

	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/token"
	"github.com/morel-lang/morel/internal/value"
)

// Eval evaluates e in env, used by Interp to run the scalar subexpressions
// embedded in a query (conditions, yields, aggregate sources, ...)
// without this package importing the evaluator (which would import this
// package back, for QueryExpr).
type Eval func(env *value.Env, e ast.Expr) (value.Value, *value.Exn)

// Apply applies a callable value (closure or builtin) to one argument, at
// the position at, for use sites that must call a function value that
// was itself the result of evaluating an expression (`into f`,
// `through p in f`, aggregate functions).
type Apply func(fn value.Value, arg value.Value, at token.Span) (value.Value, *value.Exn)

// Interp runs query pipelines against a host evaluator/applier.
type Interp struct {
	Eval   Eval
	Apply  Apply
	Logger hclog.Logger
}

// NewInterp returns an Interp wired to eval/apply. A nil logger is
// replaced with a no-op one, the same default internal/diag-adjacent
// packages use when a caller doesn't care about tracing.
func NewInterp(eval Eval, apply Apply, logger hclog.Logger) *Interp {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Interp{Eval: eval, Apply: apply, Logger: logger}
}

// Run executes q against env and returns its result value: a list/bag for
// a `from` query, a bool for `exists`/`forall`, or whatever a terminal
// step (`compute`/`into`/`require`) produces.
func (qi *Interp) Run(env *value.Env, q *ast.QueryExpr) (value.Value, *value.Exn) {
	rows, ordered, exn := qi.scanProduct([]row{{env: env}}, q.Scans, true)
	if exn != nil {
		return nil, exn
	}

	for _, step := range q.Steps {
		qi.Logger.Trace("query step", "kind", stepName(step), "rows", len(rows))

		switch step := step.(type) {
		case *ast.StepWhere:
			rows, exn = qi.filterRows(rows, step.Cond)

		case *ast.StepYield:
			rows, exn = qi.yieldRows(rows, step.Expr)

		case *ast.StepYieldAll:
			rows, exn = qi.yieldAllRows(env, rows, step.Expr)

		case *ast.StepGroup:
			rows, exn = qi.groupRows(env, rows, step)
			ordered = false

		case *ast.StepDistinct:
			rows = distinctRows(rows)

		case *ast.StepOrder:
			rows, exn = qi.orderRows(rows, step.Keys)
			ordered = true

		case *ast.StepUnorder:
			ordered = false

		case *ast.StepSkip:
			rows, exn = qi.skipRows(env, rows, step.Count)

		case *ast.StepTake:
			rows, exn = qi.takeRows(env, rows, step.Count)

		case *ast.StepJoin:
			rows, ordered, exn = qi.scanProduct(rows, step.Scans, ordered)

		case *ast.StepSetOp:
			rows, ordered, exn = qi.setOpRows(env, rows, ordered, step)

		case *ast.StepThrough:
			rows, ordered, exn = qi.throughRows(env, rows, ordered, step)

		case *ast.StepCompute:
			return qi.computeRows(env, rows, step)

		case *ast.StepInto:
			return qi.intoRows(env, rows, ordered, step)

		case *ast.StepRequire:
			return qi.requireRows(rows, step.Cond)
		}

		if exn != nil {
			return nil, exn
		}
	}

	if q.Kind == ast.QueryExists {
		return value.Bool(len(rows) > 0), nil
	}

	return rowsToCollection(rows, ordered), nil
}

func stepName(s ast.Step) string {
	switch s.(type) {
	case *ast.StepWhere:
		return "where"
	case *ast.StepYield:
		return "yield"
	case *ast.StepYieldAll:
		return "yieldall"
	case *ast.StepGroup:
		return "group"
	case *ast.StepDistinct:
		return "distinct"
	case *ast.StepOrder:
		return "order"
	case *ast.StepUnorder:
		return "unorder"
	case *ast.StepSkip:
		return "skip"
	case *ast.StepTake:
		return "take"
	case *ast.StepJoin:
		return "join"
	case *ast.StepSetOp:
		return "setop"
	case *ast.StepThrough:
		return "through"
	case *ast.StepCompute:
		return "compute"
	case *ast.StepInto:
		return "into"
	case *ast.StepRequire:
		return "require"
	default:
		return "?"
	}
}

func truthy(v value.Value) bool {
	b, _ := v.(value.Bool)
	return bool(b)
}
