package elaborate

import (
	"strconv"

	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/types"
)

// inferQuery implements spec.md §4.5.5/§4.9 at the type level: it tracks
// the current row as a set of labeled fields (the identifiers the scans
// and steps have bound so far) alongside an orderedness flag mirroring
// §4.9's step table, and folds each step's effect over both. `current`
// and `ordinal` are bound fresh before every per-row step, since the row
// shape can change underneath them (`yield`, `group`, `through`).
//
// Besides deriving static types, this function grounds unbounded scans
// (§4.9.5), rewriting their Source (inferScansInto); actual row
// iteration and orderedness-dependent execution are left to
// internal/query.
func (el *Elaborator) inferQuery(env *types.Env, q *ast.QueryExpr) types.Type {
	var initialWhere ast.Expr
	if len(q.Steps) > 0 {
		if w, ok := q.Steps[0].(*ast.StepWhere); ok {
			initialWhere = w.Cond
		}
	}

	fields, rowEnv, ordered := el.inferScansInto(env, nil, q.Scans, initialWhere)

	for _, step := range q.Steps {
		switch step := step.(type) {
		case *ast.StepWhere:
			el.unifyBool(el.rowScopeEnv(rowEnv, fields), step.Cond)

		case *ast.StepYield:
			fields, rowEnv = el.inferYield(env, el.rowScopeEnv(rowEnv, fields), step.Expr)

		case *ast.StepYieldAll:
			elemTy, _ := el.collectionElem(el.rowScopeEnv(rowEnv, fields), step.Expr)
			fields, rowEnv = el.fieldsOfType(env, elemTy)

		case *ast.StepGroup:
			fields, rowEnv = el.inferGroup(env, el.rowScopeEnv(rowEnv, fields), step)
			ordered = false

		case *ast.StepDistinct:
			// Row shape and orderedness both preserved.

		case *ast.StepOrder:
			current := el.rowScopeEnv(rowEnv, fields)
			for _, k := range step.Keys {
				el.InferExpr(current, k.Expr)
			}

			ordered = true

		case *ast.StepUnorder:
			ordered = false

		case *ast.StepSkip:
			el.unifyArg(rowEnv, step.Count, types.Int())

		case *ast.StepTake:
			el.unifyArg(rowEnv, step.Count, types.Int())

		case *ast.StepJoin:
			var joinOrdered bool

			fields, rowEnv, joinOrdered = el.inferScansInto(rowEnv, fields, step.Scans, nil)
			ordered = ordered && joinOrdered

		case *ast.StepSetOp:
			ordered = ordered && el.inferSetOp(rowEnv, fields, step)

		case *ast.StepThrough:
			var throughOrdered bool

			fields, rowEnv, throughOrdered = el.inferThrough(env, rowEnv, fields, ordered, step)
			ordered = throughOrdered

		case *ast.StepCompute:
			return el.inferCompute(env, el.rowScopeEnv(rowEnv, fields), step)

		case *ast.StepInto:
			return el.inferInto(env, fields, ordered, step)

		case *ast.StepRequire:
			el.unifyBool(el.rowScopeEnv(rowEnv, fields), step.Cond)
			return types.Bool()
		}
	}

	if q.Kind == ast.QueryExists {
		return types.Bool()
	}

	return collectionOf(rowType(fields), ordered)
}

// rowScopeEnv binds `current` and `ordinal` over rowEnv, as required by
// every per-row step (§4.5.5).
func (el *Elaborator) rowScopeEnv(rowEnv *types.Env, fields []types.Field) *types.Env {
	return rowEnv.
		Extend("current", types.Monotype(rowType(fields))).
		Extend("ordinal", types.Monotype(types.Int()))
}

// rowType collapses fields to the single field's bare type when there is
// exactly one (spec.md §4.5.5: "current... an atom if single-field"), and
// to a record otherwise.
func rowType(fields []types.Field) types.Type {
	if len(fields) == 1 {
		return fields[0].Type
	}

	return types.NewRecord(fields)
}

func collectionOf(elem types.Type, ordered bool) types.Type {
	if ordered {
		return types.List(elem)
	}

	return types.Bag(elem)
}

// collectionElem infers e's type and extracts its element type, reporting
// whether e was a `list` (ordered) as opposed to a `bag`. An expression
// whose type isn't yet known to be either is assumed to be a list, the
// common case for scan sources; the assumption is enforced by unifying
// against `list`, so a source whose type is later constrained to a bag
// is reported as a type conflict.
func (el *Elaborator) collectionElem(env *types.Env, e ast.Expr) (types.Type, bool) {
	return el.resultCollectionElem(el.InferExpr(env, e))
}

func (el *Elaborator) resultCollectionElem(ty types.Type) (types.Type, bool) {
	if c, ok := types.Prune(ty).(*types.Con); ok && len(c.Args) == 1 {
		switch c.Name {
		case "list":
			return c.Args[0], true
		case "bag":
			return c.Args[0], false
		}
	}

	elem := el.Fresh.Var()
	_ = types.Unify(el.Fresh, ty, types.List(elem))

	return elem, true
}

// inferScansInto elaborates scans left to right, threading rowEnv so
// later scans (and, via the StepJoin caller, later joins) see earlier
// bindings (spec.md §4.9: "lateral references are permitted"). fields
// accumulates the bound variable names seen so far, shadowed by name.
// contextWhere is the `where` condition immediately following this scan
// list, if any, consulted (alongside each scan's own `on` condition) to
// ground unbounded variables per §4.9.5.
func (el *Elaborator) inferScansInto(rowEnv *types.Env, fields []types.Field, scans []ast.Scan, contextWhere ast.Expr) ([]types.Field, *types.Env, bool) {
	ordered := true

	for i := range scans {
		s := &scans[i]
		var elemTy types.Type

		if s.Unbounded {
			src, ok := groundingSource(unboundedName(s.Pat), s.Condition)
			if !ok {
				src, ok = groundingSource(unboundedName(s.Pat), contextWhere)
			}

			if !ok {
				el.errorf(s.Pat, "%s not grounded", unboundedName(s.Pat))

				elemTy = el.Fresh.Var()
				ordered = false
			} else {
				// Rewrite the scan in place to a concrete enumeration, per
				// §4.9.5's "rewrites each unbounded scan to a concrete
				// enumeration" — internal/query then sees an ordinary
				// bounded scan and never has to re-derive this.
				s.Source = src
				s.Unbounded = false

				var isList bool

				elemTy, isList = el.collectionElem(rowEnv, s.Source)
				ordered = ordered && isList
			}
		} else {
			var isList bool

			elemTy, isList = el.collectionElem(rowEnv, s.Source)
			ordered = ordered && isList
		}

		patTy, newEnv := el.InferPattern(rowEnv, s.Pat)
		if err := types.Unify(el.Fresh, patTy, elemTy); err != nil {
			el.errorf(s.Pat, "%s", err)
		}

		rowEnv = newEnv
		fields = mergeFields(fields, fieldsFromPattern(s.Pat, newEnv))

		if s.Condition != nil {
			el.unifyBool(rowEnv, s.Condition)
		}
	}

	return fields, rowEnv, ordered
}

// unboundedName extracts the variable name an unbounded scan binds, for
// use in "<name> not grounded" diagnostics; only a bare variable pattern
// is supported (spec.md §4.9.5's record-pattern grounding case is not
// implemented — see DESIGN.md).
func unboundedName(p ast.Pat) string {
	if v, ok := p.(*ast.PVar); ok {
		return v.Name
	}

	return "?"
}

// groundingSource searches cond (descending through `andalso` conjuncts)
// for a predicate that grounds name to a finite collection, per §4.9.5's
// `elem`/`=` cases. Interval predicates, record-pattern grounding and
// disjunctions of bound predicates are not implemented — see DESIGN.md.
func groundingSource(name string, cond ast.Expr) (ast.Expr, bool) {
	if cond == nil || name == "?" {
		return nil, false
	}

	switch c := cond.(type) {
	case *ast.Andalso:
		if src, ok := groundingSource(name, c.Left); ok {
			return src, true
		}

		return groundingSource(name, c.Right)

	case *ast.Infix:
		switch c.Op {
		case ast.OpElem:
			if id, ok := c.Left.(*ast.Ident); ok && id.Name == name {
				return c.Right, true
			}

		case ast.OpEq:
			if id, ok := c.Left.(*ast.Ident); ok && id.Name == name {
				return &ast.ListExpr{Base: c.Base, Elems: []ast.Expr{c.Right}}, true
			}

			if id, ok := c.Right.(*ast.Ident); ok && id.Name == name {
				return &ast.ListExpr{Base: c.Base, Elems: []ast.Expr{c.Left}}, true
			}
		}
	}

	return nil, false
}

// fieldsFromPattern reads back the type bound to every variable p
// introduces, in the environment produced by InferPattern(_, p).
func fieldsFromPattern(p ast.Pat, env *types.Env) []types.Field {
	names := ast.Vars(p)
	fields := make([]types.Field, 0, len(names))

	for _, name := range names {
		if scheme, ok := env.Lookup(name); ok {
			fields = append(fields, types.Field{Label: name, Type: scheme.Body})
		}
	}

	return fields
}

// mergeFields appends added to existing, dropping any existing field
// whose label added shadows, matching how a later scan's binding of a
// name already in scope replaces the row's field of that name.
func mergeFields(existing, added []types.Field) []types.Field {
	shadowed := make(map[string]bool, len(added))
	for _, f := range added {
		shadowed[f.Label] = true
	}

	merged := make([]types.Field, 0, len(existing)+len(added))

	for _, f := range existing {
		if !shadowed[f.Label] {
			merged = append(merged, f)
		}
	}

	return append(merged, added...)
}

// fieldsOfType derives the row fields `yield`/`yieldall` leave behind:
// a record's fields become the new named fields (env extended with each);
// anything else becomes a single unnamed field, reachable only via
// `current` (spec.md §4.9's `yield` row).
func (el *Elaborator) fieldsOfType(env *types.Env, ty types.Type) ([]types.Field, *types.Env) {
	if rec, ok := types.Prune(ty).(*types.Record); ok {
		newEnv := env
		for _, f := range rec.Fields {
			newEnv = newEnv.Extend(f.Label, types.Monotype(f.Type))
		}

		return append([]types.Field(nil), rec.Fields...), newEnv
	}

	return []types.Field{{Label: "", Type: ty}}, env
}

func (el *Elaborator) inferYield(env, currentEnv *types.Env, e ast.Expr) ([]types.Field, *types.Env) {
	return el.fieldsOfType(env, el.InferExpr(currentEnv, e))
}

// inferGroup types a `group K [compute A]` step: each key expression is
// evaluated per row, each aggregate per inferAggs, and the output row's
// fields are K ∪ A (spec.md §4.9).
func (el *Elaborator) inferGroup(env, currentEnv *types.Env, step *ast.StepGroup) ([]types.Field, *types.Env) {
	keyFields := make([]types.Field, 0, len(step.Keys))

	for i, k := range step.Keys {
		ty := el.InferExpr(currentEnv, k.Expr)

		label := k.Label
		if label == "" {
			label = deriveLabel(k.Expr, i)
		}

		keyFields = append(keyFields, types.Field{Label: label, Type: ty})
	}

	fields := append(keyFields, el.inferAggs(env, currentEnv, step.Computes)...)

	newEnv := env
	for _, f := range fields {
		newEnv = newEnv.Extend(f.Label, types.Monotype(f.Type))
	}

	return fields, newEnv
}

func deriveLabel(e ast.Expr, i int) string {
	switch e := e.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.FieldAccess:
		return e.Label
	default:
		return "key" + strconv.Itoa(i+1)
	}
}

// inferAggs types one `compute`/`group ... compute` clause's aggregates.
// Each aggregate's `over` expression is evaluated per row in currentEnv
// and collected into a bag; the aggregate function itself (`sum`,
// `count`, a user function) is looked up in the ordinary value
// environment env and applied to that bag (spec.md §4.9 "Aggregates").
func (el *Elaborator) inferAggs(env, currentEnv *types.Env, aggs []ast.Agg) []types.Field {
	fields := make([]types.Field, 0, len(aggs))

	for _, a := range aggs {
		var overTy types.Type = types.Unit()
		if a.Over != nil {
			overTy = el.InferExpr(currentEnv, a.Over)
		}

		fnTy := el.InferExpr(env, a.Agg)
		resultTy := el.Fresh.Var()

		if err := types.Unify(el.Fresh, fnTy, &types.Fun{Arg: types.Bag(overTy), Result: resultTy}); err != nil {
			el.errorf(a.Agg, "%s", err)
		}

		fields = append(fields, types.Field{Label: aggLabel(a), Type: resultTy})
	}

	return fields
}

// aggLabel derives an aggregate's field name per spec.md §4.9's implicit
// naming rules when no explicit name was given: `count over ()` ->
// "count", `sum over r.f` -> "f", any other `agg over r.f` -> "agg".
func aggLabel(a ast.Agg) string {
	if a.Name != "" {
		return a.Name
	}

	ident, ok := a.Agg.(*ast.Ident)
	if !ok {
		return "agg"
	}

	if ident.Name == "count" {
		return "count"
	}

	if ident.Name == "sum" {
		if fa, ok := a.Over.(*ast.FieldAccess); ok {
			return fa.Label
		}
	}

	return ident.Name
}

// inferCompute types the terminal `compute A`: a single record, or a bare
// atom when A is exactly one unnamed aggregate (spec.md §4.9 "Terminal
// steps").
func (el *Elaborator) inferCompute(env, currentEnv *types.Env, step *ast.StepCompute) types.Type {
	fields := el.inferAggs(env, currentEnv, step.Aggs)

	if len(step.Aggs) == 1 && step.Aggs[0].Name == "" {
		return fields[0].Type
	}

	return types.NewRecord(fields)
}

// inferInto types the terminal `into f`: f is applied to the whole
// current collection.
func (el *Elaborator) inferInto(env *types.Env, fields []types.Field, ordered bool, step *ast.StepInto) types.Type {
	fnTy := el.InferExpr(env, step.Expr)
	resultTy := el.Fresh.Var()

	want := &types.Fun{Arg: collectionOf(rowType(fields), ordered), Result: resultTy}
	if err := types.Unify(el.Fresh, fnTy, want); err != nil {
		el.errorf(step, "%s", err)
	}

	return resultTy
}

// inferThrough types `through p in f`: f is applied to the current
// collection and the result is scanned via p, whose bound variables
// become the new row fields. Orderedness afterward follows f's result
// type, per spec.md §4.9's step table.
func (el *Elaborator) inferThrough(env, rowEnv *types.Env, fields []types.Field, ordered bool, step *ast.StepThrough) ([]types.Field, *types.Env, bool) {
	fnTy := el.InferExpr(env, step.Expr)
	resultTy := el.Fresh.Var()

	want := &types.Fun{Arg: collectionOf(rowType(fields), ordered), Result: resultTy}
	if err := types.Unify(el.Fresh, fnTy, want); err != nil {
		el.errorf(step, "%s", err)
	}

	elemTy, isList := el.resultCollectionElem(resultTy)

	patTy, newEnv := el.InferPattern(rowEnv, step.Pat)
	if err := types.Unify(el.Fresh, patTy, elemTy); err != nil {
		el.errorf(step.Pat, "%s", err)
	}

	return fieldsFromPattern(step.Pat, newEnv), newEnv, isList
}

// inferSetOp types `union`/`intersect`/`except`: every operand must be a
// collection of the current row type, and the result stays ordered only
// if every operand (and the running pipeline) was (§4.9's step table).
func (el *Elaborator) inferSetOp(rowEnv *types.Env, fields []types.Field, step *ast.StepSetOp) bool {
	allOrdered := true

	for _, e := range step.Exprs {
		elemTy, isList := el.collectionElem(rowEnv, e)
		if !isList {
			allOrdered = false
		}

		if err := types.Unify(el.Fresh, elemTy, rowType(fields)); err != nil {
			el.errorf(e, "%s", err)
		}
	}

	return allOrdered
}
