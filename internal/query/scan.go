package query

import (
	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/pattern"
	"github.com/morel-lang/morel/internal/value"
)

// row is one element of the running row-set: env carries every scan/step
// binding visible to the next step (for lateral references), fields is
// the ordered, named view of the row's current shape (what `current`
// resolves to).
type row struct {
	env    *value.Env
	fields []value.Field
}

// rowValue renders fields the way spec.md §4.5.5 describes `current`: the
// bare value when there is exactly one field, a record otherwise.
func rowValue(fields []value.Field) value.Value {
	if len(fields) == 1 {
		return fields[0].Value
	}

	return value.NewRecord(fields)
}

// rowEnv augments r.env with `current`/`ordinal`, the two identifiers
// every per-row step sees (spec.md §4.5.5).
func rowEnv(r row, ordinal int) *value.Env {
	return r.env.Extend("current", rowValue(r.fields)).Extend("ordinal", value.Int(ordinal))
}

// asCollection extracts a value known (by elaboration) to be a list or
// bag into its elements plus whether it was ordered (a list).
func asCollection(v value.Value) ([]value.Value, bool) {
	switch v := v.(type) {
	case *value.List:
		return v.Elems, true
	case *value.Bag:
		return v.Slice(), false
	default:
		return nil, true
	}
}

// fieldsOfValue mirrors elaborate/query.go's fieldsOfType at the value
// level: a record's fields become named row fields, anything else
// becomes a single unnamed field.
func fieldsOfValue(v value.Value) []value.Field {
	if rec, ok := v.(*value.Record); ok {
		return append([]value.Field(nil), rec.Fields...)
	}

	return []value.Field{{Label: "", Value: v}}
}

// bindingFields reads back the value bound to every variable p
// introduces, in the environment Match produced.
func bindingFields(p ast.Pat, env *value.Env) []value.Field {
	names := ast.Vars(p)
	fields := make([]value.Field, 0, len(names))

	for _, name := range names {
		if v, ok := env.Lookup(name); ok {
			fields = append(fields, value.Field{Label: name, Value: v})
		}
	}

	return fields
}

// mergeFields appends added to existing, dropping any existing field
// added shadows — a later scan binding a name already in scope replaces
// the row's field of that name, matching elaborate/query.go's mergeFields.
func mergeFields(existing, added []value.Field) []value.Field {
	shadowed := make(map[string]bool, len(added))
	for _, f := range added {
		shadowed[f.Label] = true
	}

	merged := make([]value.Field, 0, len(existing)+len(added))

	for _, f := range existing {
		if !shadowed[f.Label] {
			merged = append(merged, f)
		}
	}

	return append(merged, added...)
}

// scanProduct extends base with the cartesian product of scans, evaluated
// left to right so later scans (and on-conditions) see earlier bindings
// (spec.md §4.9: "lateral references are permitted"). By this point every
// scan has a concrete Source — unbounded scans were already grounded and
// rewritten during elaboration (§4.9.5).
func (qi *Interp) scanProduct(base []row, scans []ast.Scan, ordered bool) ([]row, bool, *value.Exn) {
	rows := base

	for _, s := range scans {
		var next []row

		for _, r := range rows {
			coll, exn := qi.Eval(r.env, s.Source)
			if exn != nil {
				return nil, false, exn
			}

			elems, isList := asCollection(coll)
			ordered = ordered && isList

			for _, elem := range elems {
				newEnv, ok := pattern.Match(s.Pat, elem, r.env)
				if !ok {
					continue
				}

				if s.Condition != nil {
					cond, exn := qi.Eval(newEnv, s.Condition)
					if exn != nil {
						return nil, false, exn
					}

					if !truthy(cond) {
						continue
					}
				}

				fields := mergeFields(r.fields, bindingFields(s.Pat, newEnv))
				next = append(next, row{env: newEnv, fields: fields})
			}
		}

		rows = next
	}

	return rows, ordered, nil
}

func rowsToCollection(rows []row, ordered bool) value.Value {
	vals := make([]value.Value, len(rows))
	for i, r := range rows {
		vals[i] = rowValue(r.fields)
	}

	if ordered {
		return value.NewList(vals...)
	}

	return value.NewBag(vals...)
}
