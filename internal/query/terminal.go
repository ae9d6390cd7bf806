package query

import (
	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/value"
)

// aggLabel derives an aggregate's field name per spec.md §4.9's implicit
// naming rules, mirroring elaborate/query.go's aggLabel.
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

// computeAggs evaluates each aggregate's `over` expression per member row,
// collects the results into a bag, and applies the aggregate function
// (looked up/evaluated in outerEnv) to that bag (spec.md §4.9
// "Aggregates").
func (qi *Interp) computeAggs(outerEnv *value.Env, members []row, aggs []ast.Agg) ([]value.Field, *value.Exn) {
	fields := make([]value.Field, 0, len(aggs))

	for _, a := range aggs {
		overVals := make([]value.Value, len(members))

		for i, m := range members {
			if a.Over == nil {
				overVals[i] = value.Unit()
				continue
			}

			v, exn := qi.Eval(rowEnv(m, i), a.Over)
			if exn != nil {
				return nil, exn
			}

			overVals[i] = v
		}

		fnVal, exn := qi.Eval(outerEnv, a.Agg)
		if exn != nil {
			return nil, exn
		}

		result, exn := qi.Apply(fnVal, value.NewBag(overVals...), a.Agg.Span())
		if exn != nil {
			return nil, exn
		}

		fields = append(fields, value.Field{Label: aggLabel(a), Value: result})
	}

	return fields, nil
}

// computeRows evaluates the terminal `compute A`: a single record, or a
// bare atom when A is exactly one unnamed aggregate (spec.md §4.9
// "Terminal steps").
func (qi *Interp) computeRows(outerEnv *value.Env, rows []row, step *ast.StepCompute) (value.Value, *value.Exn) {
	fields, exn := qi.computeAggs(outerEnv, rows, step.Aggs)
	if exn != nil {
		return nil, exn
	}

	if len(step.Aggs) == 1 && step.Aggs[0].Name == "" {
		return fields[0].Value, nil
	}

	return value.NewRecord(fields), nil
}

// intoRows evaluates the terminal `into f`: f applied to the whole
// current collection.
func (qi *Interp) intoRows(outerEnv *value.Env, rows []row, ordered bool, step *ast.StepInto) (value.Value, *value.Exn) {
	fnVal, exn := qi.Eval(outerEnv, step.Expr)
	if exn != nil {
		return nil, exn
	}

	return qi.Apply(fnVal, rowsToCollection(rows, ordered), step.Span())
}

// requireRows evaluates the terminal `require p` (forall only): true iff
// every row surviving to require satisfies p, vacuously true on empty
// (spec.md §4.9 "Semantics of exists/forall").
func (qi *Interp) requireRows(rows []row, cond ast.Expr) (value.Value, *value.Exn) {
	for i, r := range rows {
		v, exn := qi.Eval(rowEnv(r, i), cond)
		if exn != nil {
			return nil, exn
		}

		if !truthy(v) {
			return value.Bool(false), nil
		}
	}

	return value.Bool(true), nil
}
