package types

import "fmt"

// UnifyError reports a type-conflict per spec.md §4.4's "Cannot deduce
// type: conflict: T1 vs T2" message.
type UnifyError struct {
	Left, Right Type
	Detail      string
}

func (e *UnifyError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("Cannot deduce type: conflict: %s vs %s (%s)", Render(e.Left), Render(e.Right), e.Detail)
	}

	return fmt.Sprintf("Cannot deduce type: conflict: %s vs %s", Render(e.Left), Render(e.Right))
}

// Unify unifies a and b in place, binding free variables as needed.
// fresh supplies new row variables for the open/open record case.
func Unify(fresh *Fresh, a, b Type) error {
	a, b = Prune(a), Prune(b)

	if a == b {
		return nil
	}

	if av, ok := a.(*Var); ok {
		return bindVar(av, b)
	}

	if bv, ok := b.(*Var); ok {
		return bindVar(bv, a)
	}

	switch a := a.(type) {
	case *Con:
		bc, ok := b.(*Con)
		if !ok || a.Name != bc.Name || len(a.Args) != len(bc.Args) {
			return &UnifyError{Left: a, Right: b}
		}

		for i := range a.Args {
			if err := Unify(fresh, a.Args[i], bc.Args[i]); err != nil {
				return err
			}
		}

		return nil

	case *Tuple:
		bt, ok := b.(*Tuple)
		if !ok || len(a.Elems) != len(bt.Elems) {
			return &UnifyError{Left: a, Right: b}
		}

		for i := range a.Elems {
			if err := Unify(fresh, a.Elems[i], bt.Elems[i]); err != nil {
				return err
			}
		}

		return nil

	case *Fun:
		bf, ok := b.(*Fun)
		if !ok {
			return &UnifyError{Left: a, Right: b}
		}

		if err := Unify(fresh, a.Arg, bf.Arg); err != nil {
			return err
		}

		return Unify(fresh, a.Result, bf.Result)

	case *Record:
		br, ok := b.(*Record)
		if !ok {
			// A record might be the tuple encoding unifying against a
			// literal *Tuple; normalize and retry once.
			if bt, ok := b.(*Tuple); ok {
				return Unify(fresh, a, TupleRecord(bt.Elems))
			}

			return &UnifyError{Left: a, Right: b}
		}

		return unifyRecords(fresh, a, br)
	}

	return &UnifyError{Left: a, Right: b}
}

func bindVar(v *Var, t Type) error {
	if tv, ok := Prune(t).(*Var); ok && tv == v {
		return nil
	}

	if occurs(v, t) {
		return &UnifyError{Left: v, Right: t, Detail: "occurs check failed"}
	}

	v.Ref = t

	return nil
}

func occurs(v *Var, t Type) bool {
	switch t := Prune(t).(type) {
	case *Var:
		return t == v
	case *Con:
		for _, a := range t.Args {
			if occurs(v, a) {
				return true
			}
		}

		return false
	case *Tuple:
		for _, e := range t.Elems {
			if occurs(v, e) {
				return true
			}
		}

		return false
	case *Fun:
		return occurs(v, t.Arg) || occurs(v, t.Result)
	case *Record:
		for _, f := range t.Fields {
			if occurs(v, f.Type) {
				return true
			}
		}

		if ot, ok := t.Tail.(*OpenTail); ok {
			return ot.Var == v
		}

		return false
	}

	return false
}

// unifyRecords implements spec.md §4.4's record-unification rules: fields
// present in both sides unify pairwise; a field present only on one side
// is acceptable only if that side's tail is open (or progressive, which
// widens to acquire it) — otherwise the rows disagree and unification
// fails; two open tails unify by minting a fresh row variable standing
// for whatever the union eventually needs.
func unifyRecords(fresh *Fresh, a, b *Record) error {
	onlyA, onlyB, err := unifyCommonFields(fresh, a, b)
	if err != nil {
		return err
	}

	return unifyTails(fresh, a, b, onlyA, onlyB)
}

func unifyCommonFields(fresh *Fresh, a, b *Record) (onlyA, onlyB []Field, err error) {
	bIdx := make(map[string]Type, len(b.Fields))
	for _, f := range b.Fields {
		bIdx[f.Label] = f.Type
	}

	seen := make(map[string]bool, len(a.Fields))

	for _, fa := range a.Fields {
		seen[fa.Label] = true

		if bt, ok := bIdx[fa.Label]; ok {
			if err := Unify(fresh, fa.Type, bt); err != nil {
				return nil, nil, err
			}
		} else {
			onlyA = append(onlyA, fa)
		}
	}

	for _, fb := range b.Fields {
		if !seen[fb.Label] {
			onlyB = append(onlyB, fb)
		}
	}

	return onlyA, onlyB, nil
}

func unifyTails(fresh *Fresh, a, b *Record, onlyA, onlyB []Field) error {
	_, aClosed := a.Tail.(ClosedTail)
	_, bClosed := b.Tail.(ClosedTail)

	switch {
	case aClosed && bClosed:
		if len(onlyA) > 0 || len(onlyB) > 0 {
			return &UnifyError{Left: a, Right: b, Detail: "field sets differ"}
		}

		return nil

	case aClosed && !bClosed:
		// a is closed: any field only b has must be acquired by b's own
		// widening is impossible the other way around, so it is a's
		// fields missing from b (onlyA) that b must absorb.
		if len(onlyB) > 0 {
			return &UnifyError{Left: a, Right: b, Detail: "field sets differ"}
		}

		return widenOnto(b, onlyA, ClosedTail{})

	case !aClosed && bClosed:
		if len(onlyA) > 0 {
			return &UnifyError{Left: a, Right: b, Detail: "field sets differ"}
		}

		return widenOnto(a, onlyB, ClosedTail{})

	default:
		// Both open (or progressive): each acquires the other's
		// exclusive fields; their tails unify via a fresh row variable
		// representing whatever remains unknown on both sides.
		tail := &OpenTail{Var: fresh.Var()}

		if err := widenOnto(a, onlyA, tail); err != nil {
			return err
		}

		return widenOnto(b, onlyB, tail)
	}
}

func widenOnto(r *Record, fields []Field, tail RowTail) error {
	if _, ok := r.Tail.(*ProgressiveTail); ok {
		// Progressive rows widen through Lookup, consulting the external
		// collaborator; unification only confirms the fields it is told
		// about are already present or acceptably absent.
		return nil
	}

	r.Fields = append(r.Fields, fields...)
	sortFields(r.Fields)
	r.Tail = tail

	return nil
}
