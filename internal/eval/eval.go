// Package eval implements spec.md §4.10: a big-step interpreter over
// internal/ast, evaluating a program against the type information
// internal/elaborate already recorded for it. Grounded on no teacher
// equivalent (TADL has no evaluator); the node-kind switch mirrors
// internal/elaborate/expr.go's InferExpr one-for-one, since both walk
// the same untyped AST and must agree on every node's meaning.
package eval

import (
	"github.com/hashicorp/go-hclog"

	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/elaborate"
	"github.com/morel-lang/morel/internal/pattern"
	"github.com/morel-lang/morel/internal/query"
	"github.com/morel-lang/morel/internal/token"
	"github.com/morel-lang/morel/internal/types"
	"github.com/morel-lang/morel/internal/value"
)

// Interp runs a program's declarations and expressions against a
// *value.Env, consulting Info (the elaborator's accumulated side table)
// for the two things evaluation needs but the untyped AST can't answer
// on its own: an overloaded identifier's chosen instance, and `typeof`'s
// reported type.
type Interp struct {
	Info     *elaborate.Info
	Registry *types.Registry
	Query    *query.Interp
	Logger   hclog.Logger

	// overloads holds every `val inst` instance's runtime value, indexed
	// in the same declaration order Info.OverloadChoice's indices were
	// assigned in by the elaborator's OverloadTable.
	overloads map[string][]value.Value
}

// SeedOverload appends v as the next runtime instance of the overloaded
// name, in the same order the caller registered it with the
// elaborator's OverloadTable (spec.md §4.5.4). Used once at session
// bootstrap to wire the built-in overloads (sum, min, max, ...)
// alongside user `val inst` declarations, which append the same way via
// evalInstDecl.
func (it *Interp) SeedOverload(name string, v value.Value) {
	it.overloads[name] = append(it.overloads[name], v)
}

// New returns an Interp wired against info (the elaborator's side
// table, shared and updated across the whole session) and registry (for
// resolving a constructor's declaration index when building *value.Con
// values). A nil logger defaults to a no-op one.
func New(info *elaborate.Info, registry *types.Registry, logger hclog.Logger) *Interp {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	it := &Interp{Info: info, Registry: registry, Logger: logger, overloads: map[string][]value.Value{}}
	it.Query = query.NewInterp(it.Eval, it.Apply, logger.Named("query"))

	return it
}

// Eval evaluates e in env, left to right, short-circuiting andalso/
// orelse, returning either e's value or the exception that escaped it.
func (it *Interp) Eval(env *value.Env, e ast.Expr) (value.Value, *value.Exn) {
	switch e := e.(type) {
	case *ast.LitInt:
		return value.Int(e.Value), nil

	case *ast.LitReal:
		return value.Real(e.Value), nil

	case *ast.LitBool:
		return value.Bool(e.Value), nil

	case *ast.LitChar:
		return value.Char(e.Value), nil

	case *ast.LitString:
		return value.String(e.Value), nil

	case *ast.LitUnit:
		return value.Unit(), nil

	case *ast.Ident:
		return it.evalIdent(env, e)

	case *ast.TupleExpr:
		elems := make([]value.Value, len(e.Elems))

		for i, el := range e.Elems {
			v, exn := it.Eval(env, el)
			if exn != nil {
				return nil, exn
			}

			elems[i] = v
		}

		return value.NewTuple(elems...), nil

	case *ast.RecordExpr:
		fields := make([]value.Field, len(e.Fields))

		for i, f := range e.Fields {
			v, exn := it.Eval(env, f.Value)
			if exn != nil {
				return nil, exn
			}

			fields[i] = value.Field{Label: f.Label, Value: v}
		}

		return value.NewRecord(fields), nil

	case *ast.RecordUpdate:
		base, exn := it.Eval(env, e.Record)
		if exn != nil {
			return nil, exn
		}

		rec, _ := base.(*value.Record)
		fields := append([]value.Field(nil), rec.Fields...)

		for _, f := range e.Fields {
			v, exn := it.Eval(env, f.Value)
			if exn != nil {
				return nil, exn
			}

			fields = setField(fields, f.Label, v)
		}

		return value.NewRecord(fields), nil

	case *ast.ListExpr:
		elems := make([]value.Value, len(e.Elems))

		for i, el := range e.Elems {
			v, exn := it.Eval(env, el)
			if exn != nil {
				return nil, exn
			}

			elems[i] = v
		}

		return value.NewList(elems...), nil

	case *ast.Apply:
		fn, exn := it.Eval(env, e.Fn)
		if exn != nil {
			return nil, exn
		}

		arg, exn := it.Eval(env, e.Arg)
		if exn != nil {
			return nil, exn
		}

		return it.Apply(fn, arg, e.Span())

	case *ast.FieldAccess:
		rv, exn := it.Eval(env, e.Record)
		if exn != nil {
			return nil, exn
		}

		rec, _ := rv.(*value.Record)

		v, ok := rec.Field(e.Label)
		if !ok {
			return nil, value.NewExn("Fail", value.String("no field "+e.Label), e.Span())
		}

		return v, nil

	case *ast.Infix:
		return it.evalInfix(env, e)

	case *ast.Andalso:
		l, exn := it.evalBool(env, e.Left)
		if exn != nil {
			return nil, exn
		}

		if !l {
			return value.Bool(false), nil
		}

		r, exn := it.evalBool(env, e.Right)

		return value.Bool(r), exn

	case *ast.Orelse:
		l, exn := it.evalBool(env, e.Left)
		if exn != nil {
			return nil, exn
		}

		if l {
			return value.Bool(true), nil
		}

		r, exn := it.evalBool(env, e.Right)

		return value.Bool(r), exn

	case *ast.Implies:
		l, exn := it.evalBool(env, e.Left)
		if exn != nil {
			return nil, exn
		}

		if !l {
			return value.Bool(true), nil
		}

		r, exn := it.evalBool(env, e.Right)

		return value.Bool(r), exn

	case *ast.Not:
		b, exn := it.evalBool(env, e.Operand)
		return value.Bool(!b), exn

	case *ast.Negate:
		v, exn := it.Eval(env, e.Operand)
		if exn != nil {
			return nil, exn
		}

		return it.negate(v, e.Span())

	case *ast.IfExpr:
		c, exn := it.evalBool(env, e.Cond)
		if exn != nil {
			return nil, exn
		}

		if c {
			return it.Eval(env, e.Then)
		}

		return it.Eval(env, e.Else)

	case *ast.LetExpr:
		letEnv := env

		for _, d := range e.Decls {
			var exn *value.Exn

			letEnv, exn = it.EvalDecl(letEnv, d)
			if exn != nil {
				return nil, exn
			}
		}

		return it.Eval(letEnv, e.Body)

	case *ast.FnExpr:
		return &value.Closure{Clauses: e.Clauses, Env: env}, nil

	case *ast.CaseExpr:
		scrut, exn := it.Eval(env, e.Scrutinee)
		if exn != nil {
			return nil, exn
		}

		return it.matchClauses(env, e.Clauses, scrut, e.Span())

	case *ast.RaiseExpr:
		v, exn := it.Eval(env, e.Exn)
		if exn != nil {
			return nil, exn
		}

		con, ok := v.(*value.Con)
		if !ok {
			con = &value.Con{Name: "Fail", Payload: v}
		}

		return nil, &value.Exn{Con: con, At: e.Span()}

	case *ast.HandleExpr:
		v, bodyExn := it.Eval(env, e.Body)
		if bodyExn == nil {
			return v, nil
		}

		for _, c := range e.Clauses {
			newEnv, ok := pattern.Match(c.Pat, bodyExn.Con, env)
			if ok {
				return it.Eval(newEnv, c.Body)
			}
		}

		return nil, bodyExn

	case *ast.Annot:
		return it.Eval(env, e.Expr)

	case *ast.TypeOfExpr:
		ty, _ := it.Info.TypeOf(e.Expr)
		return value.String(types.Render(ty)), nil

	case *ast.QueryExpr:
		return it.Query.Run(env, e)
	}

	return value.Unit(), nil
}

func (it *Interp) evalBool(env *value.Env, e ast.Expr) (bool, *value.Exn) {
	v, exn := it.Eval(env, e)
	if exn != nil {
		return false, exn
	}

	b, _ := v.(value.Bool)

	return bool(b), nil
}

func (it *Interp) evalIdent(env *value.Env, e *ast.Ident) (value.Value, *value.Exn) {
	if idx, ok := it.Info.OverloadChoice[e]; ok {
		instances := it.overloads[e.Name]
		if idx >= 0 && idx < len(instances) {
			return instances[idx], nil
		}

		return nil, value.NewExn("Fail", value.String("no overload instance for "+e.Name), e.Span())
	}

	v, ok := env.Lookup(e.Name)
	if !ok {
		return nil, value.NewExn("Fail", value.String("unbound variable "+e.Name), e.Span())
	}

	return v, nil
}

// matchClauses tries clauses against v in order, evaluating the first
// matching body, raising Match if none match (spec.md §4.6, §4.10).
func (it *Interp) matchClauses(env *value.Env, clauses []ast.MatchClause, v value.Value, at token.Span) (value.Value, *value.Exn) {
	for _, c := range clauses {
		newEnv, ok := pattern.Match(c.Pat, v, env)
		if ok {
			return it.Eval(newEnv, c.Body)
		}
	}

	return nil, value.NewExn("Match", nil, at)
}

// Apply applies fn to arg at the call site at, dispatching on whether fn
// is a user closure or a (possibly curry-accumulating) builtin.
func (it *Interp) Apply(fn value.Value, arg value.Value, at token.Span) (value.Value, *value.Exn) {
	switch fn := fn.(type) {
	case *value.Closure:
		return it.matchClauses(fn.Env, fn.Clauses, arg, at)
	case *value.Builtin:
		return fn.Fn(arg, at)
	default:
		return nil, value.NewExn("Fail", value.String("application of a non-function value"), at)
	}
}

// setField returns fields with label's value replaced (or appended, if
// absent), the semantics of `{r with l = e}` for a label r doesn't
// already have (spec.md's record-update is defined only for existing
// labels, but evaluation stays total rather than panicking on a
// well-typed program that can't actually reach this branch).
func setField(fields []value.Field, label string, v value.Value) []value.Field {
	for i, f := range fields {
		if f.Label == label {
			fields[i] = value.Field{Label: label, Value: v}
			return fields
		}
	}

	return append(fields, value.Field{Label: label, Value: v})
}
