package query

import (
	"sort"
	"strconv"

	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/pattern"
	"github.com/morel-lang/morel/internal/value"
)

func (qi *Interp) filterRows(rows []row, cond ast.Expr) ([]row, *value.Exn) {
	out := make([]row, 0, len(rows))

	for i, r := range rows {
		v, exn := qi.Eval(rowEnv(r, i), cond)
		if exn != nil {
			return nil, exn
		}

		if truthy(v) {
			out = append(out, r)
		}
	}

	return out, nil
}

func (qi *Interp) yieldRows(rows []row, e ast.Expr) ([]row, *value.Exn) {
	out := make([]row, len(rows))

	for i, r := range rows {
		v, exn := qi.Eval(rowEnv(r, i), e)
		if exn != nil {
			return nil, exn
		}

		fields := fieldsOfValue(v)
		newEnv := r.env

		for _, f := range fields {
			if f.Label != "" {
				newEnv = newEnv.Extend(f.Label, f.Value)
			}
		}

		out[i] = row{env: newEnv, fields: fields}
	}

	return out, nil
}

// yieldAllRows flattens, per spec.md §4.9's `yieldall` row: each existing
// row's e is expected to be a collection, every element of which becomes
// one output row. The new row's environment descends from outerEnv (the
// environment the whole query started in), not from the row being
// flattened, mirroring elaborate/query.go's fieldsOfType(env, ...) call
// for the same step — yieldall replaces the row wholesale.
func (qi *Interp) yieldAllRows(outerEnv *value.Env, rows []row, e ast.Expr) ([]row, *value.Exn) {
	var out []row

	for i, r := range rows {
		coll, exn := qi.Eval(rowEnv(r, i), e)
		if exn != nil {
			return nil, exn
		}

		elems, _ := asCollection(coll)

		for _, elem := range elems {
			fields := fieldsOfValue(elem)
			newEnv := outerEnv

			for _, f := range fields {
				if f.Label != "" {
					newEnv = newEnv.Extend(f.Label, f.Value)
				}
			}

			out = append(out, row{env: newEnv, fields: fields})
		}
	}

	return out, nil
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

type group struct {
	keyFields []value.Field
	members   []row
}

func equalFieldKeys(a, b []value.Field) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !value.Equal(a[i].Value, b[i].Value) {
			return false
		}
	}

	return true
}

// groupRows partitions rows by the tuple of K, producing one output row
// per group with fields K ∪ A (spec.md §4.9).
func (qi *Interp) groupRows(outerEnv *value.Env, rows []row, step *ast.StepGroup) ([]row, *value.Exn) {
	var groups []*group

	for i, r := range rows {
		keyFields := make([]value.Field, len(step.Keys))

		for j, k := range step.Keys {
			v, exn := qi.Eval(rowEnv(r, i), k.Expr)
			if exn != nil {
				return nil, exn
			}

			label := k.Label
			if label == "" {
				label = deriveLabel(k.Expr, j)
			}

			keyFields[j] = value.Field{Label: label, Value: v}
		}

		var g *group

		for _, cand := range groups {
			if equalFieldKeys(cand.keyFields, keyFields) {
				g = cand
				break
			}
		}

		if g == nil {
			g = &group{keyFields: keyFields}
			groups = append(groups, g)
		}

		g.members = append(g.members, r)
	}

	out := make([]row, len(groups))

	for i, g := range groups {
		aggFields, exn := qi.computeAggs(outerEnv, g.members, step.Computes)
		if exn != nil {
			return nil, exn
		}

		fields := append(append([]value.Field(nil), g.keyFields...), aggFields...)
		newEnv := outerEnv

		for _, f := range fields {
			newEnv = newEnv.Extend(f.Label, f.Value)
		}

		out[i] = row{env: newEnv, fields: fields}
	}

	return out, nil
}

func distinctRows(rows []row) []row {
	out := make([]row, 0, len(rows))

	for _, r := range rows {
		dup := false

		for _, o := range out {
			if value.Equal(rowValue(r.fields), rowValue(o.fields)) {
				dup = true
				break
			}
		}

		if !dup {
			out = append(out, r)
		}
	}

	return out
}

// orderRows sorts by the given keys using value.Compare, not stable
// (spec.md §4.8's "Sorting is not stable; callers wanting stability add
// `ordinal` as a secondary key"), via sort.Slice.
func (qi *Interp) orderRows(rows []row, keys []ast.OrderKey) ([]row, *value.Exn) {
	type keyed struct {
		r    row
		vals []value.Value
	}

	ks := make([]keyed, len(rows))

	for i, r := range rows {
		vals := make([]value.Value, len(keys))

		for j, k := range keys {
			v, exn := qi.Eval(rowEnv(r, i), k.Expr)
			if exn != nil {
				return nil, exn
			}

			vals[j] = v
		}

		ks[i] = keyed{r: r, vals: vals}
	}

	sort.Slice(ks, func(a, b int) bool {
		for j, k := range keys {
			c := value.Compare(ks[a].vals[j], ks[b].vals[j])
			if k.Descending {
				c = -c
			}

			if c != 0 {
				return c < 0
			}
		}

		return false
	})

	out := make([]row, len(ks))
	for i := range ks {
		out[i] = ks[i].r
	}

	return out, nil
}

// skipRows/takeRows evaluate their count in outerEnv rather than per row
// (spec.md §4.5.5 excludes skip/take from the per-row `current`/`ordinal`
// steps), a single count applying to the whole row-set at once.
func (qi *Interp) skipRows(outerEnv *value.Env, rows []row, countExpr ast.Expr) ([]row, *value.Exn) {
	v, exn := qi.Eval(outerEnv, countExpr)
	if exn != nil {
		return nil, exn
	}

	n := int(v.(value.Int))
	if n < 0 {
		return nil, value.NewExn("Subscript", nil, countExpr.Span())
	}

	if n > len(rows) {
		n = len(rows)
	}

	return rows[n:], nil
}

func (qi *Interp) takeRows(outerEnv *value.Env, rows []row, countExpr ast.Expr) ([]row, *value.Exn) {
	v, exn := qi.Eval(outerEnv, countExpr)
	if exn != nil {
		return nil, exn
	}

	n := int(v.(value.Int))
	if n < 0 {
		return nil, value.NewExn("Subscript", nil, countExpr.Span())
	}

	if n > len(rows) {
		n = len(rows)
	}

	return rows[:n], nil
}

func distinctValues(a []value.Value) []value.Value {
	out := make([]value.Value, 0, len(a))

	for _, x := range a {
		dup := false

		for _, y := range out {
			if value.Equal(x, y) {
				dup = true
				break
			}
		}

		if !dup {
			out = append(out, x)
		}
	}

	return out
}

func intersectValues(a, b []value.Value) []value.Value {
	used := make([]bool, len(b))

	var out []value.Value

	for _, x := range a {
		for i, y := range b {
			if !used[i] && value.Equal(x, y) {
				used[i] = true
				out = append(out, x)

				break
			}
		}
	}

	return out
}

func exceptValues(a, b []value.Value) []value.Value {
	used := make([]bool, len(b))

	var out []value.Value

	for _, x := range a {
		removed := false

		for i, y := range b {
			if !used[i] && value.Equal(x, y) {
				used[i] = true
				removed = true

				break
			}
		}

		if !removed {
			out = append(out, x)
		}
	}

	return out
}

// setOpRows unions/intersects/subtracts the running row-set against each
// ei (spec.md §4.9's set-op row), evaluated once in outerEnv like
// skip/take/into.
func (qi *Interp) setOpRows(outerEnv *value.Env, rows []row, ordered bool, step *ast.StepSetOp) ([]row, bool, *value.Exn) {
	acc := make([]value.Value, len(rows))
	for i, r := range rows {
		acc[i] = rowValue(r.fields)
	}

	allOrdered := ordered

	for _, e := range step.Exprs {
		v, exn := qi.Eval(outerEnv, e)
		if exn != nil {
			return nil, false, exn
		}

		elems, isList := asCollection(v)
		if !isList {
			allOrdered = false
		}

		switch step.Kind {
		case ast.SetUnion:
			acc = append(acc, elems...)
		case ast.SetIntersect:
			acc = intersectValues(acc, elems)
		case ast.SetExcept:
			acc = exceptValues(acc, elems)
		}

		if step.Distinct {
			acc = distinctValues(acc)
		}
	}

	out := make([]row, len(acc))
	for i, v := range acc {
		out[i] = row{env: outerEnv, fields: fieldsOfValue(v)}
	}

	return out, allOrdered, nil
}

// throughRows applies f to the whole current collection and iterates its
// result via p (spec.md §4.9's `through`).
func (qi *Interp) throughRows(outerEnv *value.Env, rows []row, ordered bool, step *ast.StepThrough) ([]row, bool, *value.Exn) {
	coll := rowsToCollection(rows, ordered)

	fnVal, exn := qi.Eval(outerEnv, step.Expr)
	if exn != nil {
		return nil, false, exn
	}

	result, exn := qi.Apply(fnVal, coll, step.Span())
	if exn != nil {
		return nil, false, exn
	}

	elems, isList := asCollection(result)

	out := make([]row, 0, len(elems))

	for _, elem := range elems {
		newEnv, ok := pattern.Match(step.Pat, elem, outerEnv)
		if !ok {
			continue
		}

		out = append(out, row{env: newEnv, fields: bindingFields(step.Pat, newEnv)})
	}

	return out, isList, nil
}
