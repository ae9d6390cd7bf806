package elaborate

import (
	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/pattern"
	"github.com/morel-lang/morel/internal/types"
)

// Exn is the type of raised/caught exception values.
func Exn() types.Type { return &types.Con{Name: "exn"} }

// InferExpr infers e's type in env (spec.md §4.5.1), recording every
// visited node's type in the side table.
func (el *Elaborator) InferExpr(env *types.Env, e ast.Expr) types.Type {
	switch e := e.(type) {
	case *ast.LitInt:
		return el.info.record(e, types.Int())

	case *ast.LitReal:
		return el.info.record(e, types.Real())

	case *ast.LitBool:
		return el.info.record(e, types.Bool())

	case *ast.LitChar:
		return el.info.record(e, types.Char())

	case *ast.LitString:
		return el.info.record(e, types.String())

	case *ast.LitUnit:
		return el.info.record(e, types.Unit())

	case *ast.Ident:
		return el.info.record(e, el.inferIdent(env, e))

	case *ast.TupleExpr:
		elems := make([]types.Type, len(e.Elems))
		for i, elem := range e.Elems {
			elems[i] = el.InferExpr(env, elem)
		}

		return el.info.record(e, &types.Tuple{Elems: elems})

	case *ast.RecordExpr:
		fields := make([]types.Field, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = types.Field{Label: f.Label, Type: el.InferExpr(env, f.Value)}
		}

		return el.info.record(e, types.NewRecord(fields))

	case *ast.RecordUpdate:
		baseTy := el.InferExpr(env, e.Record)

		for _, f := range e.Fields {
			fty := el.InferExpr(env, f.Value)
			probe := &types.Record{
				Fields: []types.Field{{Label: f.Label, Type: fty}},
				Tail:   &types.OpenTail{Var: el.Fresh.Var()},
			}

			if err := types.Unify(el.Fresh, baseTy, probe); err != nil {
				el.errorf(e, "%s", err)
			}
		}

		return el.info.record(e, baseTy)

	case *ast.ListExpr:
		elem := el.Fresh.Var()
		for _, elemExpr := range e.Elems {
			ety := el.InferExpr(env, elemExpr)
			if err := types.Unify(el.Fresh, elem, ety); err != nil {
				el.errorf(elemExpr, "%s", err)
			}
		}

		return el.info.record(e, types.List(elem))

	case *ast.Apply:
		fnTy := el.InferExpr(env, e.Fn)
		argTy := el.InferExpr(env, e.Arg)
		resultTy := el.Fresh.Var()

		if err := types.Unify(el.Fresh, fnTy, &types.Fun{Arg: argTy, Result: resultTy}); err != nil {
			el.errorf(e, "%s", err)
		}

		return el.info.record(e, resultTy)

	case *ast.FieldAccess:
		recTy := el.InferExpr(env, e.Record)
		fieldTy := el.Fresh.Var()
		probe := &types.Record{
			Fields: []types.Field{{Label: e.Label, Type: fieldTy}},
			Tail:   &types.OpenTail{Var: el.Fresh.Var()},
		}

		if err := types.Unify(el.Fresh, recTy, probe); err != nil {
			el.errorf(e, "%s", err)
		}

		return el.info.record(e, fieldTy)

	case *ast.Infix:
		return el.info.record(e, el.inferInfix(env, e))

	case *ast.Andalso:
		el.unifyBool(env, e.Left)
		el.unifyBool(env, e.Right)

		return el.info.record(e, types.Bool())

	case *ast.Orelse:
		el.unifyBool(env, e.Left)
		el.unifyBool(env, e.Right)

		return el.info.record(e, types.Bool())

	case *ast.Implies:
		el.unifyBool(env, e.Left)
		el.unifyBool(env, e.Right)

		return el.info.record(e, types.Bool())

	case *ast.Not:
		el.unifyBool(env, e.Operand)

		return el.info.record(e, types.Bool())

	case *ast.Negate:
		ty := el.InferExpr(env, e.Operand)

		return el.info.record(e, ty)

	case *ast.IfExpr:
		el.unifyBool(env, e.Cond)

		thenTy := el.InferExpr(env, e.Then)
		elseTy := el.InferExpr(env, e.Else)

		if err := types.Unify(el.Fresh, thenTy, elseTy); err != nil {
			el.errorf(e, "%s", err)
		}

		return el.info.record(e, thenTy)

	case *ast.LetExpr:
		letEnv := env
		for _, d := range e.Decls {
			letEnv, _ = el.elabDecl(letEnv, d)
		}

		return el.info.record(e, el.InferExpr(letEnv, e.Body))

	case *ast.FnExpr:
		argTy, resultTy := el.inferClauses(env, e.Clauses, nil)
		el.checkCoverage(e, matchArm, patternsOf(e.Clauses))

		return el.info.record(e, &types.Fun{Arg: argTy, Result: resultTy})

	case *ast.CaseExpr:
		scrutTy := el.InferExpr(env, e.Scrutinee)
		_, resultTy := el.inferClauses(env, e.Clauses, scrutTy)
		el.checkCoverage(e, matchArm, patternsOf(e.Clauses))

		return el.info.record(e, resultTy)

	case *ast.RaiseExpr:
		exnTy := el.InferExpr(env, e.Exn)
		if err := types.Unify(el.Fresh, exnTy, Exn()); err != nil {
			el.errorf(e.Exn, "%s", err)
		}

		return el.info.record(e, el.Fresh.Var())

	case *ast.HandleExpr:
		bodyTy := el.InferExpr(env, e.Body)

		for _, clause := range e.Clauses {
			patTy, patEnv := el.InferPattern(env, clause.Pat)

			if err := types.Unify(el.Fresh, patTy, Exn()); err != nil {
				el.errorf(clause.Pat, "%s", err)
			}

			armTy := el.InferExpr(patEnv, clause.Body)
			if err := types.Unify(el.Fresh, armTy, bodyTy); err != nil {
				el.errorf(clause.Body, "%s", err)
			}
		}

		el.checkCoverage(e, handleArm, patternsOf(e.Clauses))

		return el.info.record(e, bodyTy)

	case *ast.Annot:
		ty := el.InferExpr(env, e.Expr)

		annot := el.resolveType(map[string]*types.Var{}, e.Type)
		if err := types.Unify(el.Fresh, ty, annot); err != nil {
			el.errorf(e, "%s", err)
		}

		return el.info.record(e, ty)

	case *ast.TypeOfExpr:
		el.InferExpr(env, e.Expr)

		return el.info.record(e, types.String())

	case *ast.QueryExpr:
		return el.info.record(e, el.inferQuery(env, e))
	}

	return el.Fresh.Var()
}

func (el *Elaborator) unifyBool(env *types.Env, e ast.Expr) {
	ty := el.InferExpr(env, e)
	if err := types.Unify(el.Fresh, ty, types.Bool()); err != nil {
		el.errorf(e, "%s", err)
	}
}

// inferIdent resolves a bare identifier. An overloaded name (declared
// with `over`) doesn't live in env at all: it returns a fresh, as-yet
// unconstrained variable and defers the actual instance choice until the
// rest of the enclosing declaration has pinned that variable down to a
// concrete type (see the pending-overload resolution in ElaborateUnit).
func (el *Elaborator) inferIdent(env *types.Env, e *ast.Ident) types.Type {
	if el.Overload.IsOverloaded(e.Name) {
		v := el.Fresh.Var()
		el.pending = append(el.pending, pendingOverload{node: e, name: e.Name, tv: v})

		return v
	}

	scheme, ok := env.Lookup(e.Name)
	if !ok {
		el.errorf(e, "unbound variable %s", e.Name)
		return el.Fresh.Var()
	}

	return types.Instantiate(el.Fresh, scheme)
}

func (el *Elaborator) inferInfix(env *types.Env, e *ast.Infix) types.Type {
	switch e.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul:
		t := el.Fresh.Var()
		el.unifyArg(env, e.Left, t)
		el.unifyArg(env, e.Right, t)

		return t

	case ast.OpDiv:
		el.unifyArg(env, e.Left, types.Real())
		el.unifyArg(env, e.Right, types.Real())

		return types.Real()

	case ast.OpDivInt, ast.OpMod:
		el.unifyArg(env, e.Left, types.Int())
		el.unifyArg(env, e.Right, types.Int())

		return types.Int()

	case ast.OpConcat:
		el.unifyArg(env, e.Left, types.String())
		el.unifyArg(env, e.Right, types.String())

		return types.String()

	case ast.OpCons:
		elem := el.Fresh.Var()
		el.unifyArg(env, e.Left, elem)
		el.unifyArg(env, e.Right, types.List(elem))

		return types.List(elem)

	case ast.OpEq, ast.OpNe:
		t := el.Fresh.Var()
		el.unifyArg(env, e.Left, t)
		el.unifyArg(env, e.Right, t)

		if !isEqualityType(t) {
			el.errorf(e, "type does not admit equality")
		}

		return types.Bool()

	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		t := el.Fresh.Var()
		el.unifyArg(env, e.Left, t)
		el.unifyArg(env, e.Right, t)

		return types.Bool()

	case ast.OpElem, ast.OpNotElem:
		elem := el.Fresh.Var()
		el.unifyArg(env, e.Left, elem)
		el.unifyArg(env, e.Right, types.List(elem))

		return types.Bool()

	default:
		return el.Fresh.Var()
	}
}

func (el *Elaborator) unifyArg(env *types.Env, e ast.Expr, want types.Type) {
	got := el.InferExpr(env, e)
	if err := types.Unify(el.Fresh, got, want); err != nil {
		el.errorf(e, "%s", err)
	}
}

// isEqualityType reports whether t contains no function arrow and no
// `real` constructor anywhere in its structure, per spec.md §4.7's
// "equality types" definition. Unresolved variables are optimistically
// treated as equality types; a variable that a later unification turns
// into a function or real is not checked again.
func isEqualityType(t types.Type) bool {
	switch t := types.Prune(t).(type) {
	case *types.Fun:
		return false
	case *types.Con:
		if t.Name == "real" {
			return false
		}

		for _, a := range t.Args {
			if !isEqualityType(a) {
				return false
			}
		}

		return true
	case *types.Tuple:
		for _, elem := range t.Elems {
			if !isEqualityType(elem) {
				return false
			}
		}

		return true
	case *types.Record:
		for _, f := range t.Fields {
			if !isEqualityType(f.Type) {
				return false
			}
		}

		return true
	default:
		return true
	}
}

func patternsOf(clauses []ast.MatchClause) []ast.Pat {
	pats := make([]ast.Pat, len(clauses))
	for i, c := range clauses {
		pats[i] = c.Pat
	}

	return pats
}

// inferClauses elaborates fn/case/handle clauses, unifying every clause's
// parameter type together (and with scrutinee, when non-nil) and every
// clause's body type together, returning the shared (argument, result)
// types.
func (el *Elaborator) inferClauses(env *types.Env, clauses []ast.MatchClause, scrutinee types.Type) (types.Type, types.Type) {
	argTy := scrutinee
	if argTy == nil {
		argTy = el.Fresh.Var()
	}

	resultTy := el.Fresh.Var()

	for _, clause := range clauses {
		if dups := dupVars(clause.Pat); len(dups) > 0 {
			for _, d := range dups {
				el.errorf(clause.Pat, "duplicate variable in pattern(s): %s", d)
			}
		}

		patTy, patEnv := el.InferPattern(env, clause.Pat)
		if err := types.Unify(el.Fresh, patTy, argTy); err != nil {
			el.errorf(clause.Pat, "%s", err)
		}

		bodyTy := el.InferExpr(patEnv, clause.Body)
		if err := types.Unify(el.Fresh, bodyTy, resultTy); err != nil {
			el.errorf(clause.Body, "%s", err)
		}
	}

	return argTy, resultTy
}

type coverageKind int

const (
	matchArm coverageKind = iota
	handleArm
)

func (el *Elaborator) checkCoverage(at ast.Node, kind coverageKind, pats []ast.Pat) {
	if !el.MatchCoverageEnabled {
		return
	}

	checker := pattern.Checker{Registry: el.Registry}

	results, exhaustive := checker.Check(pats)
	for i, r := range results {
		if r.Redundant {
			el.errorf(pats[i], "match redundant")
		}
	}

	if !exhaustive && kind == matchArm {
		el.warnf(at, "match nonexhaustive")
	}
}
