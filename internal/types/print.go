package types

import (
	"sort"
	"strings"
)

// Render renders t for diagnostics and the CLASSIC printer (spec.md §6.3),
// using whatever names have already been assigned to its variables; call
// NameVars first to assign the canonical 'a, 'b, ... sequence.
func Render(t Type) string {
	var b strings.Builder
	writeType(&b, Prune(t), false)

	return b.String()
}

func writeType(b *strings.Builder, t Type, paren bool) {
	switch t := t.(type) {
	case *Var:
		if t.name == "" {
			t.name = "'_"
		}

		b.WriteString(t.name)
	case *Con:
		writeCon(b, t)
	case *Tuple:
		if paren {
			b.WriteByte('(')
		}

		for i, e := range t.Elems {
			if i > 0 {
				b.WriteString(" * ")
			}

			writeType(b, Prune(e), true)
		}

		if paren {
			b.WriteByte(')')
		}
	case *Fun:
		if paren {
			b.WriteByte('(')
		}

		writeType(b, Prune(t.Arg), true)
		b.WriteString(" -> ")
		writeType(b, Prune(t.Result), false)

		if paren {
			b.WriteByte(')')
		}
	case *Record:
		if elems, ok := t.AsTuple(); ok && len(elems) >= 2 {
			writeType(b, &Tuple{Elems: elems}, paren)
			return
		}

		writeRecord(b, t)
	default:
		b.WriteString("?")
	}
}

func writeCon(b *strings.Builder, c *Con) {
	switch len(c.Args) {
	case 0:
		b.WriteString(c.Name)
	case 1:
		writeType(b, Prune(c.Args[0]), true)
		b.WriteByte(' ')
		b.WriteString(c.Name)
	default:
		b.WriteByte('(')

		for i, a := range c.Args {
			if i > 0 {
				b.WriteString(", ")
			}

			writeType(b, Prune(a), false)
		}

		b.WriteString(") ")
		b.WriteString(c.Name)
	}
}

func writeRecord(b *strings.Builder, r *Record) {
	b.WriteByte('{')

	for i, f := range r.Fields {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(f.Label)
		b.WriteString(": ")
		writeType(b, Prune(f.Type), false)
	}

	switch tail := r.Tail.(type) {
	case *OpenTail, *ProgressiveTail:
		if len(r.Fields) > 0 {
			b.WriteString(", ")
		}

		b.WriteString("...")
		_ = tail
	}

	b.WriteByte('}')
}

// NameVars assigns the canonical printed-name sequence 'a, 'b, ..., 'z,
// 'ba, 'bb, ... to every free variable reachable from t, in left-to-right
// order of first occurrence (spec.md §4.4's "Unique naming of printed
// variables" and §8 property 9).
func NameVars(t Type) {
	n := 0

	var walk func(Type)
	walk = func(t Type) {
		switch t := Prune(t).(type) {
		case *Var:
			if t.name == "" {
				t.name = "'" + varLetters(n)
				n++
			}
		case *Con:
			for _, a := range t.Args {
				walk(a)
			}
		case *Tuple:
			for _, e := range t.Elems {
				walk(e)
			}
		case *Fun:
			walk(t.Arg)
			walk(t.Result)
		case *Record:
			fields := append([]Field(nil), t.Fields...)
			sort.Slice(fields, func(i, j int) bool { return fields[i].Label < fields[j].Label })

			for _, f := range fields {
				walk(f.Type)
			}

			if ot, ok := t.Tail.(*OpenTail); ok {
				walk(ot.Var)
			}
		}
	}
	walk(t)
}

// varLetters renders n (0-based) as a base-26 letter sequence: 0->"a",
// 25->"z", 26->"ba", matching spec.md's `'a, 'b, ..., 'z, 'ba, 'bb, ...`.
func varLetters(n int) string {
	if n < 26 {
		return string(rune('a' + n))
	}

	return varLetters(n/26-1) + string(rune('a'+n%26))
}
