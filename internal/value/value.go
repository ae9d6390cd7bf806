// Package value implements Morel's runtime value representation (spec.md
// §3.3, §4.7): a single tagged value variant with one case per kind,
// canonical record field ordering for equality, and the total order of
// §4.8. Grounded on nothing in the retrieval pack (no teacher package
// models a dynamically-tagged interpreter value), written fresh in the
// teacher's idiom of one small concrete type per kind plus free
// functions rather than a generic "any" wrapper.
package value

import (
	"fmt"
	"sort"
)

// Value is implemented by every runtime value kind.
type Value interface {
	isValue()
}

func (Int) isValue()       {}
func (Real) isValue()      {}
func (Bool) isValue()      {}
func (Char) isValue()      {}
func (String) isValue()    {}
func (*Record) isValue()   {}
func (*Con) isValue()      {}
func (*List) isValue()     {}
func (*Bag) isValue()      {}
func (*Closure) isValue()  {}
func (*Builtin) isValue()  {}

// Int, Real, Bool, Char, and String are the scalar value kinds.
type (
	Int    int64
	Real   float64
	Bool   bool
	Char   rune
	String string
)

// Field is one labeled component of a record value.
type Field struct {
	Label string
	Value Value
}

// Record is a mapping from label to value, canonically sorted by label
// so that equality/ordering (§4.7, §4.8) never depends on construction
// order. Tuples are records with labels "1".."n" (§3.3).
type Record struct {
	Fields []Field
}

// NewRecord builds a Record, sorting fields by label.
func NewRecord(fields []Field) *Record {
	sorted := append([]Field(nil), fields...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Label < sorted[j].Label })

	return &Record{Fields: sorted}
}

// Unit is the canonical empty record, `()` / `{}` (spec.md §3.1: "A
// record with no fields equals unit").
func Unit() *Record { return &Record{} }

// NewTuple builds the record encoding of an n-tuple.
func NewTuple(elems ...Value) *Record {
	fields := make([]Field, len(elems))
	for i, v := range elems {
		fields[i] = Field{Label: fmt.Sprintf("%d", i+1), Value: v}
	}

	return &Record{Fields: fields}
}

// Field returns the value bound to label, if present.
func (r *Record) Field(label string) (Value, bool) {
	for _, f := range r.Fields {
		if f.Label == label {
			return f.Value, true
		}
	}

	return nil, false
}

// Con is a constructed (sum-type) value: a constructor tag, its
// declaration index (for §4.8's "compare by constructor index in
// declaration order"), and an optional payload.
type Con struct {
	Name    string
	Index   int
	Payload Value // nil for a nullary constructor
}

// List is a finite ordered sequence.
type List struct {
	Elems []Value
}

// NewList builds a List value.
func NewList(elems ...Value) *List { return &List{Elems: elems} }

// Bag is a finite unordered multiset, represented as counted distinct
// elements rather than a literal repeated slice so that equality and
// iteration don't depend on insertion order (spec.md §3.3 "mapping from
// element to positive count").
type Bag struct {
	entries []bagEntry
}

type bagEntry struct {
	v     Value
	count int
}

// NewBag builds a Bag from elems, collapsing duplicates by Equal.
func NewBag(elems ...Value) *Bag {
	b := &Bag{}
	for _, e := range elems {
		b.Add(e)
	}

	return b
}

// Add increments v's count by one.
func (b *Bag) Add(v Value) {
	for i := range b.entries {
		if Equal(b.entries[i].v, v) {
			b.entries[i].count++
			return
		}
	}

	b.entries = append(b.entries, bagEntry{v: v, count: 1})
}

// Each calls f once per distinct element with its multiplicity.
func (b *Bag) Each(f func(v Value, count int)) {
	for _, e := range b.entries {
		f(e.v, e.count)
	}
}

// Len returns the total element count, counting multiplicities.
func (b *Bag) Len() int {
	n := 0
	for _, e := range b.entries {
		n += e.count
	}

	return n
}

// Slice materializes the bag as a slice, each element repeated by its
// multiplicity, in an unspecified (entry-insertion) order — callers must
// not depend on this order, per spec.md §5's "bag iteration order is
// unobservable".
func (b *Bag) Slice() []Value {
	out := make([]Value, 0, b.Len())

	for _, e := range b.entries {
		for i := 0; i < e.count; i++ {
			out = append(out, e.v)
		}
	}

	return out
}

// Count returns v's multiplicity in b.
func (b *Bag) Count(v Value) int {
	for _, e := range b.entries {
		if Equal(e.v, v) {
			return e.count
		}
	}

	return 0
}
