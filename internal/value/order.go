package value

// Compare implements the total order of spec.md §4.8: primitives by
// natural order (NaN sorts largest, per the spec's "documented but
// unspecified" allowance — Go's `<`/`>` already treat NaN as neither
// greater nor less, so Compare special-cases it to pin down a total
// order), tuples/records lexicographically by ascending label, lists
// lexicographically with a shorter prefix smaller, sum types by
// constructor declaration index then payload, and NONE < SOME x.
func Compare(a, b Value) int {
	switch a := a.(type) {
	case Int:
		bv := b.(Int)
		switch {
		case a < bv:
			return -1
		case a > bv:
			return 1
		default:
			return 0
		}
	case Real:
		bv := b.(Real)
		return compareReal(float64(a), float64(bv))
	case Bool:
		bv := b.(Bool)
		return compareBool(bool(a), bool(bv))
	case Char:
		bv := b.(Char)
		return compareOrdered(rune(a), rune(bv))
	case String:
		bv := b.(String)
		return compareOrdered(string(a), string(bv))
	case *Record:
		return compareRecords(a, b.(*Record))
	case *Con:
		return compareCons(a, b.(*Con))
	case *List:
		return compareLists(a, b.(*List))
	default:
		return 0
	}
}

func compareReal(a, b float64) int {
	aNaN, bNaN := a != a, b != b
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	if a == b {
		return 0
	}

	if !a {
		return -1
	}

	return 1
}

func compareOrdered[T int | int32 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareRecords(a, b *Record) int {
	// Both sides are assumed to share the same canonical (sorted) label
	// set, enforced by elaboration.
	n := len(a.Fields)
	if len(b.Fields) < n {
		n = len(b.Fields)
	}

	for i := 0; i < n; i++ {
		if c := Compare(a.Fields[i].Value, b.Fields[i].Value); c != 0 {
			return c
		}
	}

	return compareOrdered(len(a.Fields), len(b.Fields))
}

func compareCons(a, b *Con) int {
	if a.Index != b.Index {
		return compareOrdered(a.Index, b.Index)
	}

	if a.Payload == nil && b.Payload == nil {
		return 0
	}

	if a.Payload == nil {
		return -1
	}

	if b.Payload == nil {
		return 1
	}

	return Compare(a.Payload, b.Payload)
}

func compareLists(a, b *List) int {
	n := len(a.Elems)
	if len(b.Elems) < n {
		n = len(b.Elems)
	}

	for i := 0; i < n; i++ {
		if c := Compare(a.Elems[i], b.Elems[i]); c != 0 {
			return c
		}
	}

	return compareOrdered(len(a.Elems), len(b.Elems))
}
