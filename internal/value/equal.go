package value

// Equal implements spec.md §4.7's equality: pointwise for compound
// values, multiset-agreement for bags. Equality on function values is a
// type error caught by elaboration (functions are not an equality type),
// so Equal treats them as never equal rather than panicking — a
// defensive default for callers that reach here despite that guarantee
// having been checked earlier.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Int:
		b, ok := b.(Int)
		return ok && a == b
	case Real:
		b, ok := b.(Real)
		return ok && a == b
	case Bool:
		b, ok := b.(Bool)
		return ok && a == b
	case Char:
		b, ok := b.(Char)
		return ok && a == b
	case String:
		b, ok := b.(String)
		return ok && a == b
	case *Record:
		b, ok := b.(*Record)
		if !ok || len(a.Fields) != len(b.Fields) {
			return false
		}

		for i := range a.Fields {
			if a.Fields[i].Label != b.Fields[i].Label {
				return false
			}

			if !Equal(a.Fields[i].Value, b.Fields[i].Value) {
				return false
			}
		}

		return true
	case *Con:
		b, ok := b.(*Con)
		if !ok || a.Name != b.Name {
			return false
		}

		if a.Payload == nil || b.Payload == nil {
			return a.Payload == nil && b.Payload == nil
		}

		return Equal(a.Payload, b.Payload)
	case *List:
		b, ok := b.(*List)
		if !ok || len(a.Elems) != len(b.Elems) {
			return false
		}

		for i := range a.Elems {
			if !Equal(a.Elems[i], b.Elems[i]) {
				return false
			}
		}

		return true
	case *Bag:
		b, ok := b.(*Bag)
		if !ok || a.Len() != b.Len() {
			return false
		}

		for _, e := range a.entries {
			if b.Count(e.v) != e.count {
				return false
			}
		}

		return true
	default:
		return false
	}
}
