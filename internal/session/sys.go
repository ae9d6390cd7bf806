package session

import (
	"fmt"
	"strings"

	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/token"
	"github.com/morel-lang/morel/internal/types"
	"github.com/morel-lang/morel/internal/value"
)

// buildSys extends tenv/venv with the Sys module: Sys.clearEnv resets the
// session back to its prelude-only state, Sys.plan reports the query
// plan of the last attempted unit (spec.md §6.1). Both close over s
// rather than taking it as an argument, the same way internal/builtin's
// higher-order intrinsics close over the evaluator's Apply method instead
// of threading it through a value argument.
func buildSys(s *Session, tenv *types.Env, venv *value.Env) (*types.Env, *value.Env) {
	sysTy := types.NewRecord([]types.Field{
		{Label: "clearEnv", Type: &types.Fun{Arg: types.Unit(), Result: types.Unit()}},
		{Label: "plan", Type: &types.Fun{Arg: types.Unit(), Result: types.String()}},
	})

	sysVal := value.NewRecord([]value.Field{
		{Label: "clearEnv", Value: &value.Builtin{
			Name: "Sys.clearEnv",
			Fn: func(value.Value, token.Span) (value.Value, *value.Exn) {
				// Deferred: the caller (Session.executeUnit) is mid-way
				// through building the unit's extended environment from
				// the pre-call env, so overwriting s.tenv/s.venv here
				// would just be clobbered once that build finishes.
				// Setting the flag instead lets executeUnit apply the
				// reset after EvalDecl returns.
				s.cleared = true

				return value.Unit(), nil
			},
		}},
		{Label: "plan", Value: &value.Builtin{
			Name: "Sys.plan",
			Fn: func(value.Value, token.Span) (value.Value, *value.Exn) {
				return value.String(s.plan()), nil
			},
		}},
	})

	return tenv.Extend("Sys", types.Generalize(nil, sysTy)), venv.Extend("Sys", sysVal)
}

// plan renders the query plan of the last attempted unit: one line per
// reachable *ast.QueryExpr, naming its scans and steps with their source
// position. There is no materialized plan/step-list type in
// internal/query (it runs directly off the AST), so this walks the last
// unit's Decl looking for query expressions rather than rendering a
// compiled intermediate form; it only descends through the common
// expression shapes below, not every AST node kind, which is enough to
// find queries bound directly or one `let`/`if`/`case` away from the
// top-level declaration.
func (s *Session) plan() string {
	if s.lastDecl == nil {
		return "no plan: nothing has been evaluated yet"
	}

	var queries []*ast.QueryExpr
	findQueriesInDecl(s.lastDecl, &queries)

	if len(queries) == 0 {
		return "no plan: the last declaration contains no query"
	}

	var lines []string

	for _, q := range queries {
		lines = append(lines, planLines(q)...)
	}

	return strings.Join(lines, "\n")
}

func planLines(q *ast.QueryExpr) []string {
	lines := make([]string, 0, len(q.Scans)+len(q.Steps)+1)
	lines = append(lines, fmt.Sprintf("query %s", q.Span()))

	for _, sc := range q.Scans {
		name := "_"
		if v, ok := sc.Pat.(*ast.PVar); ok {
			name = v.Name
		}

		lines = append(lines, fmt.Sprintf("  scan %s %s", name, sc.Span()))
	}

	for _, st := range q.Steps {
		lines = append(lines, fmt.Sprintf("  %s %s", stepKind(st), st.Span()))
	}

	return lines
}

func stepKind(st ast.Step) string {
	switch st.(type) {
	case *ast.StepWhere:
		return "where"
	case *ast.StepYield:
		return "yield"
	case *ast.StepYieldAll:
		return "yieldAll"
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
		return "step"
	}
}

func findQueriesInDecl(d ast.Decl, out *[]*ast.QueryExpr) {
	switch d := d.(type) {
	case *ast.ValDecl:
		findQueriesInExpr(d.Expr, out)
	case *ast.FunDecl:
		for _, b := range d.Bindings {
			for _, c := range b.Clauses {
				findQueriesInExpr(c.Body, out)
			}
		}
	case *ast.InstDecl:
		findQueriesInExpr(d.Expr, out)
	}
}

// findQueriesInExpr descends through the expression forms a query is
// commonly nested in (application, field access, conditionals, let/case/
// handle bodies, tuples/lists/records) looking for *ast.QueryExpr nodes.
// It does not attempt to be an exhaustive generic AST walk (internal/ast
// has none); a query nested inside another query's scans or steps is not
// found, and Sys.plan documents that in its own behavior (best-effort,
// last unit only).
func findQueriesInExpr(e ast.Expr, out *[]*ast.QueryExpr) {
	switch e := e.(type) {
	case *ast.QueryExpr:
		*out = append(*out, e)
	case *ast.Apply:
		findQueriesInExpr(e.Fn, out)
		findQueriesInExpr(e.Arg, out)
	case *ast.FieldAccess:
		findQueriesInExpr(e.Record, out)
	case *ast.Infix:
		findQueriesInExpr(e.Left, out)
		findQueriesInExpr(e.Right, out)
	case *ast.Andalso:
		findQueriesInExpr(e.Left, out)
		findQueriesInExpr(e.Right, out)
	case *ast.Orelse:
		findQueriesInExpr(e.Left, out)
		findQueriesInExpr(e.Right, out)
	case *ast.Implies:
		findQueriesInExpr(e.Left, out)
		findQueriesInExpr(e.Right, out)
	case *ast.Not:
		findQueriesInExpr(e.Operand, out)
	case *ast.Negate:
		findQueriesInExpr(e.Operand, out)
	case *ast.IfExpr:
		findQueriesInExpr(e.Cond, out)
		findQueriesInExpr(e.Then, out)
		findQueriesInExpr(e.Else, out)
	case *ast.LetExpr:
		for _, d := range e.Decls {
			findQueriesInDecl(d, out)
		}

		findQueriesInExpr(e.Body, out)
	case *ast.FnExpr:
		for _, c := range e.Clauses {
			findQueriesInExpr(c.Body, out)
		}
	case *ast.CaseExpr:
		findQueriesInExpr(e.Scrutinee, out)

		for _, c := range e.Clauses {
			findQueriesInExpr(c.Body, out)
		}
	case *ast.RaiseExpr:
		findQueriesInExpr(e.Exn, out)
	case *ast.HandleExpr:
		findQueriesInExpr(e.Body, out)

		for _, c := range e.Clauses {
			findQueriesInExpr(c.Body, out)
		}
	case *ast.Annot:
		findQueriesInExpr(e.Expr, out)
	case *ast.TypeOfExpr:
		findQueriesInExpr(e.Expr, out)
	case *ast.TupleExpr:
		for _, el := range e.Elems {
			findQueriesInExpr(el, out)
		}
	case *ast.ListExpr:
		for _, el := range e.Elems {
			findQueriesInExpr(el, out)
		}
	case *ast.RecordExpr:
		for _, f := range e.Fields {
			findQueriesInExpr(f.Value, out)
		}
	case *ast.RecordUpdate:
		findQueriesInExpr(e.Record, out)

		for _, f := range e.Fields {
			findQueriesInExpr(f.Value, out)
		}
	}
}
