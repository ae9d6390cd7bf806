package pattern

import (
	"sort"

	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/types"
)

// head classifies a pattern's outermost constructor for decision-tree
// specialization (Maranget's usefulness algorithm), unwrapping `as` and
// type-annotation wrappers — which don't affect refutability — and
// desugaring list literals into nil/:: so `[]`/`x::xs`/`[a,b]` patterns
// share one constructor signature.
type head struct {
	kind   string // "wild", "lit", "tuple", "record", "con"
	name   string // constructor name, for kind == "con"
	args   []ast.Pat
	fields []string // sorted labels, for kind == "record"
}

func classify(p ast.Pat) head {
	switch p := p.(type) {
	case *ast.PWildcard:
		return head{kind: "wild"}
	case *ast.PVar:
		return head{kind: "wild"}
	case *ast.PAs:
		return classify(p.Pat)
	case *ast.PAnnot:
		return classify(p.Pat)
	case *ast.PLitInt, *ast.PLitReal, *ast.PLitChar, *ast.PLitString:
		return head{kind: "lit"}
	case *ast.PLitBool:
		name := "false"
		if p.Value {
			name = "true"
		}

		return head{kind: "con", name: name}
	case *ast.PTuple:
		return head{kind: "tuple", args: p.Elems}
	case *ast.PRecord:
		fields := append([]ast.PRecordField(nil), p.Fields...)
		sort.Slice(fields, func(i, j int) bool { return fields[i].Label < fields[j].Label })

		labels := make([]string, len(fields))
		args := make([]ast.Pat, len(fields))

		for i, f := range fields {
			labels[i] = f.Label
			args[i] = f.Pat
		}

		return head{kind: "record", fields: labels, args: args}
	case *ast.PCons:
		return head{kind: "con", name: "::", args: []ast.Pat{p.Head, p.Tail}}
	case *ast.PList:
		if len(p.Elems) == 0 {
			return head{kind: "con", name: "nil"}
		}

		return head{kind: "con", name: "::", args: []ast.Pat{p.Elems[0], &ast.PList{Elems: p.Elems[1:]}}}
	case *ast.PCon:
		if p.Arg == nil {
			return head{kind: "con", name: p.Name}
		}

		return head{kind: "con", name: p.Name, args: []ast.Pat{p.Arg}}
	default:
		return head{kind: "wild"}
	}
}

// ctorSig names one member of a constructor signature: its kind/name and
// the number of sub-patterns a pattern of that shape carries.
type ctorSig struct {
	kind  string
	name  string
	arity int
}

// headKey identifies a constructor head by kind and name, used as a set
// key when collecting the constructors seen in a pattern matrix column.
type headKey struct{ kind, name string }

// Checker runs spec.md §4.6's exhaustiveness/redundancy analysis,
// resolving a datatype constructor's sibling set through reg.
type Checker struct {
	Registry *types.Registry
}

// ClauseResult reports one clause's redundancy verdict.
type ClauseResult struct {
	Redundant bool
}

// Check analyzes clauses (fn/case/fun arm patterns, in order, or a
// single-element slice for a `val` binding) and reports, per clause,
// whether it is unreachable given the earlier clauses (§4.6: "a clause
// is redundant iff its accepted set is a subset of the union of earlier
// clauses' accepted sets"), plus whether the whole match is exhaustive.
func (c *Checker) Check(clauses []ast.Pat) (results []ClauseResult, exhaustive bool) {
	var seen [][]ast.Pat

	for _, p := range clauses {
		row := []ast.Pat{p}
		redundant := !c.useful(seen, row)
		results = append(results, ClauseResult{Redundant: redundant})
		seen = append(seen, row)
	}

	wildcardRow := []ast.Pat{&ast.PWildcard{}}
	exhaustive = !c.useful(seen, wildcardRow)

	return results, exhaustive
}

// useful reports whether q's value set is not already fully covered by
// matrix — i.e. whether some value matches q but no row of matrix.
func (c *Checker) useful(matrix [][]ast.Pat, q []ast.Pat) bool {
	if len(q) == 0 {
		return len(matrix) == 0
	}

	h := classify(q[0])

	if h.kind != "wild" {
		sig := ctorSig{kind: h.kind, name: h.name, arity: len(h.args)}
		sq, _ := specializeRow(q, sig)

		return c.useful(specializeMatrix(matrix, sig), sq)
	}

	heads := map[headKey]head{}
	for _, row := range matrix {
		rh := classify(row[0])
		if rh.kind != "wild" {
			heads[headKey{rh.kind, rh.name}] = rh
		}
	}

	complete, sig := c.completeSignature(heads)
	if complete {
		for _, s := range sig {
			sq, _ := specializeRow(q, s)
			if c.useful(specializeMatrix(matrix, s), sq) {
				return true
			}
		}

		return false
	}

	return c.useful(defaultMatrix(matrix), q[1:])
}

// completeSignature reports whether heads — the set of non-wildcard
// constructors appearing in a matrix's first column — already names
// every constructor of the underlying type, and returns that full
// signature. Tuples and records have exactly one shape, so any
// occurrence is complete; bool and list are built-in two-constructor
// types; any other constructor name is resolved through the datatype
// registry; a bare literal type (int/real/char/string) has unboundedly
// many values and is never complete.
func (c *Checker) completeSignature(heads map[headKey]head) (bool, []ctorSig) {
	if len(heads) == 0 {
		return false, nil
	}

	var sample head
	for _, h := range heads {
		sample = h
		break
	}

	switch sample.kind {
	case "tuple":
		return true, []ctorSig{{kind: "tuple", arity: len(sample.args)}}

	case "record":
		return true, []ctorSig{{kind: "record", arity: len(sample.args)}}

	case "lit":
		return false, nil

	case "con":
		switch sample.name {
		case "true", "false":
			_, ht := heads[headKey{"con", "true"}]
			_, hf := heads[headKey{"con", "false"}]

			return ht && hf, []ctorSig{{kind: "con", name: "true"}, {kind: "con", name: "false"}}

		case "nil", "::":
			_, hn := heads[headKey{"con", "nil"}]
			_, hc := heads[headKey{"con", "::"}]

			return hn && hc, []ctorSig{
				{kind: "con", name: "nil", arity: 0},
				{kind: "con", name: "::", arity: 2},
			}

		default:
			dt, ok := c.Registry.Owner(sample.name)
			if !ok {
				return false, nil
			}

			sig := make([]ctorSig, len(dt.Ctors))
			complete := true

			for i, ct := range dt.Ctors {
				arity := 0
				if ct.Arg != nil {
					arity = 1
				}

				sig[i] = ctorSig{kind: "con", name: ct.Name, arity: arity}

				if _, ok := heads[headKey{"con", ct.Name}]; !ok {
					complete = false
				}
			}

			return complete, sig
		}
	}

	return false, nil
}

// specializeRow rewrites row's head into sig's sub-patterns (wildcards
// if row's head is itself a wildcard), reporting false if row's head is
// a different constructor than sig.
func specializeRow(row []ast.Pat, sig ctorSig) ([]ast.Pat, bool) {
	h := classify(row[0])

	if h.kind == "wild" {
		args := make([]ast.Pat, sig.arity)
		for i := range args {
			args[i] = &ast.PWildcard{}
		}

		return append(args, row[1:]...), true
	}

	if h.kind != sig.kind || h.name != sig.name {
		return nil, false
	}

	return append(append([]ast.Pat{}, h.args...), row[1:]...), true
}

func specializeMatrix(matrix [][]ast.Pat, sig ctorSig) [][]ast.Pat {
	var out [][]ast.Pat

	for _, row := range matrix {
		if nr, ok := specializeRow(row, sig); ok {
			out = append(out, nr)
		}
	}

	return out
}

// defaultMatrix drops the first column, keeping only rows whose head
// pattern is a wildcard — the residual matrix used when no single
// constructor can be specialized on (an incomplete signature).
func defaultMatrix(matrix [][]ast.Pat) [][]ast.Pat {
	var out [][]ast.Pat

	for _, row := range matrix {
		if classify(row[0]).kind == "wild" {
			out = append(out, row[1:])
		}
	}

	return out
}
