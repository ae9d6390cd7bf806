// Package types implements Morel's type system core (spec.md §4.4): type
// terms, substitution via mutable type variables, unification, and
// generalization/instantiation of polymorphic schemes. It also carries
// row-polymorphic and progressive record types (§3.5, §4.9's "Progressive
// types" design note).
//
// There is no teacher equivalent of an HM type checker in the retrieval
// pack, so this package is written fresh in the teacher's idiom: small
// concrete types, constructor functions, and methods rather than a
// generic algebraic-term library.
package types

import "fmt"

// Type is implemented by every type-system term.
type Type interface {
	isType()
}

func (*Var) isType()    {}
func (*Con) isType()    {}
func (*Tuple) isType()  {}
func (*Fun) isType()    {}
func (*Record) isType() {}

// Var is a type variable. Unbound variables have Ref == nil; binding a
// variable during unification sets Ref, the classic union-find-by-pointer
// representation of a substitution (Prune walks Ref chains).
type Var struct {
	id   int
	Ref  Type
	name string // assigned lazily by the printer (§4.4's naming rule)
}

// Con is a named nullary or applied type constructor: primitives (`int`,
// `bool`, ...), `list`, `bag`, `option`, and user datatypes/aliases.
type Con struct {
	Name string
	Args []Type
}

// Tuple is `T1 * ... * Tn`, n >= 2. Per spec.md §3.1 a tuple type and the
// corresponding integer-labeled record type are the same type; Record
// provides AsTuple/TupleRecord to move between the two representations
// rather than modeling tuples as a special case of Record, which would
// make the common arithmetic/pair-heavy path pay for row-unification on
// every use.
type Tuple struct {
	Elems []Type
}

// Fun is `T1 -> T2`.
type Fun struct {
	Arg, Result Type
}

// Field is one labeled component of a record type.
type Field struct {
	Label string
	Type  Type
}

// RowTail is the tail of a record's label set: no more fields (Closed),
// more fields of unknown identity (Open, a row variable), or more fields
// discoverable on demand from an external collaborator (Progressive).
type RowTail interface {
	isRowTail()
}

func (ClosedTail) isRowTail()      {}
func (*OpenTail) isRowTail()       {}
func (*ProgressiveTail) isRowTail() {}

// ClosedTail marks a record type with no further fields.
type ClosedTail struct{}

// OpenTail is a row variable: unifying against it may acquire more
// fields (spec.md §4.4 "Record/record" unification rule).
type OpenTail struct {
	Var *Var
}

// Widener is the external collaborator consulted when a progressive
// record is asked for a field it does not yet have (spec.md §9
// "Progressive types"). It is supplied by whatever injects the
// progressive value (the `file` value is the motivating example); this
// package only carries the hook, and no implementation exists outside
// this package's tests. Widening must be monotonic and
// idempotent, which ProgressiveTail.Widen enforces by memoizing.
type Widener interface {
	WidenField(label string) (Type, bool)
}

// ProgressiveTail is a row tail that widens lazily and memoizes what it
// has already widened, per spec.md §9: "Widening is monotonic and
// idempotent; the implementation memoizes."
type ProgressiveTail struct {
	Source   Widener
	observed map[string]Type
}

// Widen returns the type of label, consulting Source at most once per
// label across the lifetime of this tail.
func (t *ProgressiveTail) Widen(label string) (Type, bool) {
	if t.observed == nil {
		t.observed = map[string]Type{}
	}

	if ty, ok := t.observed[label]; ok {
		return ty, true
	}

	ty, ok := t.Source.WidenField(label)
	if !ok {
		return nil, false
	}

	t.observed[label] = ty

	return ty, true
}

// Observed returns a copy of every field this tail has widened so far.
func (t *ProgressiveTail) Observed() map[string]Type {
	out := make(map[string]Type, len(t.observed))
	for k, v := range t.observed {
		out[k] = v
	}

	return out
}

// Record is `{ l1: T1, ..., ln: Tn, ρ }`. Fields is kept sorted by label,
// the canonical order spec.md §4.8 requires for equality/ordering; a
// record built from source text that listed fields in a different order
// retains that order separately via SourceOrder for diagnostics/printing
// (§4.8's "field order in the source differs from label order" warning,
// §6.3's "field labels print in the order they appear in the type").
type Record struct {
	Fields       []Field
	SourceOrder  []string
	Tail         RowTail
}

// NewVar allocates a fresh unbound type variable. The counter is owned by
// a Fresh generator (see fresh.go) so identities stay unique within one
// elaboration; tests construct one-off variables directly when identity
// doesn't matter.
func NewVar(id int) *Var { return &Var{id: id} }

// Prune follows a chain of bound variables to either an unbound variable
// or a non-variable type, collapsing the chain as it goes (path
// compression), matching the teacher's general habit of keeping hot
// lookups shallow after the first traversal.
func Prune(t Type) Type {
	v, ok := t.(*Var)
	if !ok || v.Ref == nil {
		return t
	}

	root := Prune(v.Ref)
	v.Ref = root

	return root
}

// Bool, Int, Real, Char, String, and Unit are the primitive constructors
// named by spec.md §3.1.
func Bool() Type   { return &Con{Name: "bool"} }
func Int() Type    { return &Con{Name: "int"} }
func Real() Type   { return &Con{Name: "real"} }
func Char() Type   { return &Con{Name: "char"} }
func String() Type { return &Con{Name: "string"} }
func Unit() Type   { return &Record{Tail: ClosedTail{}} }

// List and Bag wrap an element type in the corresponding collection
// constructor.
func List(elem Type) Type { return &Con{Name: "list", Args: []Type{elem}} }
func Bag(elem Type) Type  { return &Con{Name: "bag", Args: []Type{elem}} }

// Option wraps an element type in `option`.
func Option(elem Type) Type { return &Con{Name: "option", Args: []Type{elem}} }

// NewRecord builds a closed record type from fields, sorting them by
// label and recording the caller's original order as SourceOrder.
func NewRecord(fields []Field) *Record {
	order := make([]string, len(fields))
	for i, f := range fields {
		order[i] = f.Label
	}

	sorted := append([]Field(nil), fields...)
	sortFields(sorted)

	return &Record{Fields: sorted, SourceOrder: order, Tail: ClosedTail{}}
}

// AsTuple reports whether r is exactly the record form of an n-tuple
// (integer labels "1".."n", closed, in order), returning its element
// types in position order if so.
func (r *Record) AsTuple() ([]Type, bool) {
	if _, closed := r.Tail.(ClosedTail); !closed {
		return nil, false
	}

	elems := make([]Type, len(r.Fields))

	for i, f := range r.Fields {
		if f.Label != tupleLabel(i+1) {
			return nil, false
		}

		elems[i] = f.Type
	}

	return elems, true
}

// TupleRecord builds the record-type encoding of a tuple, labels "1"..".n".
func TupleRecord(elems []Type) *Record {
	fields := make([]Field, len(elems))
	for i, t := range elems {
		fields[i] = Field{Label: tupleLabel(i + 1), Type: t}
	}

	return &Record{Fields: fields, Tail: ClosedTail{}}
}

func tupleLabel(i int) string { return fmt.Sprintf("%d", i) }

func sortFields(fields []Field) {
	for i := 1; i < len(fields); i++ {
		for j := i; j > 0 && fields[j-1].Label > fields[j].Label; j-- {
			fields[j-1], fields[j] = fields[j], fields[j-1]
		}
	}
}

// Lookup returns the type of label in r, consulting and widening a
// progressive tail if necessary.
func (r *Record) Lookup(label string) (Type, bool) {
	for _, f := range r.Fields {
		if f.Label == label {
			return f.Type, true
		}
	}

	pt, ok := r.Tail.(*ProgressiveTail)
	if !ok {
		return nil, false
	}

	ty, ok := pt.Widen(label)
	if !ok {
		return nil, false
	}

	r.Fields = append(r.Fields, Field{Label: label, Type: ty})
	sortFields(r.Fields)
	r.SourceOrder = append(r.SourceOrder, label)

	return ty, true
}
