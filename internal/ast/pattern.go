package ast

import "github.com/morel-lang/morel/internal/token"

// Pat is implemented by every pattern node.
type Pat interface {
	Node
	patNode()
}

func (*PWildcard) patNode()  {}
func (*PVar) patNode()       {}
func (*PLitInt) patNode()    {}
func (*PLitReal) patNode()   {}
func (*PLitBool) patNode()   {}
func (*PLitChar) patNode()   {}
func (*PLitString) patNode() {}
func (*PTuple) patNode()     {}
func (*PRecord) patNode()    {}
func (*PCons) patNode()      {}
func (*PList) patNode()      {}
func (*PCon) patNode()       {}
func (*PAs) patNode()        {}
func (*PAnnot) patNode()     {}

// PWildcard is `_`.
type PWildcard struct{ Base }

// PVar binds an identifier.
type PVar struct {
	Base
	Name string
}

type PLitInt struct {
	Base
	Value int64
}

type PLitReal struct {
	Base
	Value float64
}

type PLitBool struct {
	Base
	Value bool
}

type PLitChar struct {
	Base
	Value rune
}

type PLitString struct {
	Base
	Value string
}

// PTuple is `(p1, ..., pn)`.
type PTuple struct {
	Base
	Elems []Pat
}

// PRecordField is one `label = pat` pair; Shorthand marks a punned field
// (`{x}` meaning `{x = x}`) so the elaborator can still report the
// original syntax in diagnostics.
type PRecordField struct {
	Label     string
	Pat       Pat
	Shorthand bool
}

// PRecord is `{l1 = p1, ..., ln = pn}`, closed unless Open is true, which
// corresponds to a trailing `...` permitting further unmatched fields.
type PRecord struct {
	Base
	Fields []PRecordField
	Open   bool
}

// PCons is `h :: t`.
type PCons struct {
	Base
	Head, Tail Pat
}

// PList is `[p1, ..., pn]`, sugar for nested PCons ending in an empty-list
// PCon, kept as its own node so diagnostics can point at the list form.
type PList struct {
	Base
	Elems []Pat
}

// PCon is a datatype constructor pattern `C` or `C p`.
type PCon struct {
	Base
	Name string
	Arg  Pat // nil for a nullary constructor
}

// PAs is `x as p`: Name is x, Pat is p.
type PAs struct {
	Base
	Name string
	Pat  Pat
}

// PAnnot is a type-annotated pattern `p : T`.
type PAnnot struct {
	Base
	Pat  Pat
	Type TypeExpr
}

// Vars returns every variable bound anywhere in p, in left-to-right
// textual order, used both by the elaborator (duplicate-variable check,
// spec.md §4.5.2) and the pattern compiler.
func Vars(p Pat) []string {
	var out []string

	var walk func(Pat)
	walk = func(p Pat) {
		switch p := p.(type) {
		case *PVar:
			out = append(out, p.Name)
		case *PTuple:
			for _, e := range p.Elems {
				walk(e)
			}
		case *PRecord:
			for _, f := range p.Fields {
				walk(f.Pat)
			}
		case *PCons:
			walk(p.Head)
			walk(p.Tail)
		case *PList:
			for _, e := range p.Elems {
				walk(e)
			}
		case *PCon:
			if p.Arg != nil {
				walk(p.Arg)
			}
		case *PAs:
			out = append(out, p.Name)
			walk(p.Pat)
		case *PAnnot:
			walk(p.Pat)
		}
	}
	walk(p)

	return out
}

// Span helper for constructing nodes; exported for the parser's brevity.
func Sp(begin, end token.Pos) token.Span { return token.Span{Begin: begin, End: end} }
