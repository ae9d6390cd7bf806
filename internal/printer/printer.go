// Package printer implements spec.md §6.3: the CLASSIC output formatter
// ("val <name> = <value> : <type>", printDepth/printLength/stringDepth
// elision, lineWidth wrapping) plus a TABULAR formatter for bag/list-of-
// record results. Grounded on no teacher equivalent (the teacher's
// encoder/xml.go and stream-xml-encoder/encoder.go serialize dyml markup
// to XML, an unrelated concern with no Morel value to print); written
// fresh in the teacher's idiom of small, single-purpose free functions
// over `internal/token`-style span-free plain data, using
// github.com/mitchellh/go-wordwrap for line wrapping rather than a
// hand-rolled column tracker.
package printer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mitchellh/go-wordwrap"

	"github.com/morel-lang/morel/internal/types"
	"github.com/morel-lang/morel/internal/value"
)

// Options mirrors the session properties of spec.md §6.1 that govern
// printing: lineWidth wraps record/list literals and type signatures,
// printLength/printDepth/stringDepth elide values that exceed them with
// "#" (depth) or "..." (length/string).
type Options struct {
	LineWidth   int
	PrintLength int
	PrintDepth  int
	StringDepth int
}

// DefaultOptions matches spec.md §6.1's stated defaults: lineWidth is 79;
// printLength/printDepth/stringDepth have no stated default, represented
// here as -1 ("unset", never elides) until a session property sets them
// to a non-negative limit.
func DefaultOptions() Options {
	return Options{LineWidth: 79, PrintLength: -1, PrintDepth: -1, StringDepth: -1}
}

// unbounded reports whether n is the "unset" sentinel (-1). A limit of
// literal 0 is meaningful (elide everything at or past that depth/
// length), so only a negative value means "no limit".
func unbounded(n int) bool { return n < 0 }

// Binding renders one top-level binding result line, `val <name> = <v> :
// <t>` (spec.md §6.3), wrapping at opts.LineWidth if the rendered value
// plus type exceeds it.
func Binding(opts Options, name string, t types.Type, v value.Value) string {
	types.NameVars(t)

	line := fmt.Sprintf("val %s = %s : %s", name, Value(opts, t, v, 0), types.Render(t))
	if opts.LineWidth > 0 && len(line) > opts.LineWidth {
		return wordwrap.WrapString(line, uint(opts.LineWidth))
	}

	return line
}

// Value renders v formatted according to t's shape (so a record's fields
// print labeled and a list/bag's elements print bracketed), eliding past
// depth/length limits. depth counts structural nesting from the
// top-level value, starting at 0.
func Value(opts Options, t types.Type, v value.Value, depth int) string {
	if !unbounded(opts.PrintDepth) && depth > opts.PrintDepth {
		return "#"
	}

	t = types.Prune(t)

	switch v := v.(type) {
	case value.Int:
		return strconv.FormatInt(int64(v), 10)
	case value.Real:
		return formatReal(float64(v))
	case value.Bool:
		return strconv.FormatBool(bool(v))
	case value.Char:
		return "#\"" + string(rune(v)) + "\""
	case value.String:
		return quoteString(opts, string(v))
	case *value.Closure:
		return "fn"
	case *value.Builtin:
		return "fn"
	case *value.Con:
		return printCon(opts, t, v, depth)
	case *value.Record:
		return printRecord(opts, t, v, depth)
	case *value.List:
		return printSeq(opts, elemType(t), v.Elems, "[", "]", depth)
	case *value.Bag:
		return printSeq(opts, elemType(t), v.Slice(), "[", "]", depth)
	}

	return "?"
}

func formatReal(x float64) string {
	s := strconv.FormatFloat(x, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "inf") && !strings.Contains(s, "nan") {
		s += ".0"
	}

	return s
}

func quoteString(opts Options, s string) string {
	runes := []rune(s)
	elided := false

	if !unbounded(opts.StringDepth) && len(runes) > opts.StringDepth {
		runes = runes[:opts.StringDepth]
		elided = true
	}

	var b strings.Builder

	b.WriteByte('"')

	for _, r := range runes {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}

	b.WriteByte('"')

	if elided {
		b.WriteString("...")
	}

	return b.String()
}

// elemType extracts a list/bag type's element type, or returns t
// unchanged if it isn't one (defensive only against a caller passing a
// value whose recorded type disagrees with its runtime shape, which
// elaboration never allows in practice).
func elemType(t types.Type) types.Type {
	if c, ok := t.(*types.Con); ok && len(c.Args) == 1 {
		return c.Args[0]
	}

	return t
}

// tupleElemTypes returns t's element types in position order if t is a
// tuple, either the dedicated *types.Tuple the elaborator assigns tuple
// expressions (internal/elaborate/expr.go) or the integer-labeled
// *types.Record encoding (types.TupleRecord).
func tupleElemTypes(t types.Type) ([]types.Type, bool) {
	switch t := t.(type) {
	case *types.Tuple:
		return t.Elems, true
	case *types.Record:
		return t.AsTuple()
	}

	return nil, false
}

func printSeq(opts Options, elemTy types.Type, elems []value.Value, open, close string, depth int) string {
	n := len(elems)
	elided := false

	if !unbounded(opts.PrintLength) && n > opts.PrintLength {
		elems = elems[:opts.PrintLength]
		elided = true
	}

	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = Value(opts, elemTy, e, depth+1)
	}

	if elided {
		parts = append(parts, "...")
	}

	return open + strings.Join(parts, ",") + close
}

// printRecord prints fields in the order they appear in t's source order
// (spec.md §6.3 "field labels print in the order they appear in the
// type"), falling back to the record value's own (sorted) order when t
// isn't a record type the elaborator annotated with SourceOrder.
func printRecord(opts Options, t types.Type, r *value.Record, depth int) string {
	if len(r.Fields) == 0 {
		return "()"
	}

	if tup, isTuple := tupleElemTypes(t); isTuple {
		parts := make([]string, len(tup))

		for i, et := range tup {
			v, _ := r.Field(strconv.Itoa(i + 1))
			parts[i] = Value(opts, et, v, depth+1)
		}

		return "(" + strings.Join(parts, ",") + ")"
	}

	if rec, ok := t.(*types.Record); ok {
		order := rec.SourceOrder
		if len(order) == 0 {
			for _, f := range rec.Fields {
				order = append(order, f.Label)
			}
		}

		parts := make([]string, 0, len(order))

		for _, label := range order {
			v, ok := r.Field(label)
			if !ok {
				continue
			}

			ft := fieldType(rec, label)
			parts = append(parts, label+" = "+Value(opts, ft, v, depth+1))
		}

		return "{" + strings.Join(parts, ",") + "}"
	}

	labels := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		labels[i] = f.Label
	}

	sort.Strings(labels)

	parts := make([]string, len(labels))

	for i, label := range labels {
		v, _ := r.Field(label)
		parts[i] = label + " = " + Value(opts, nil, v, depth+1)
	}

	return "{" + strings.Join(parts, ",") + "}"
}

func fieldType(rec *types.Record, label string) types.Type {
	for _, f := range rec.Fields {
		if f.Label == label {
			return f.Type
		}
	}

	return nil
}

// printCon renders a constructed value: bare name for a nullary
// constructor, `Name payload` otherwise, parenthesizing the payload when
// it isn't already a record/tuple/list/atom. t doesn't carry the
// constructor's own declared argument type (only the registry does, and
// the printer has no registry access), so the payload's own runtime
// shape drives its rendering instead of a type-directed one.
func printCon(opts Options, _ types.Type, c *value.Con, depth int) string {
	if c.Payload == nil {
		return c.Name
	}

	payload := Value(opts, nil, c.Payload, depth+1)

	switch c.Payload.(type) {
	case *value.Record, *value.List, *value.Bag,
		value.Int, value.Real, value.Bool, value.Char, value.String:
		return c.Name + " " + payload
	default:
		return c.Name + " (" + payload + ")"
	}
}

// Tabular renders v as the TABULAR output format (spec.md §6.1's `output`
// property), a column-aligned grid for a list or bag of records: one
// header line of field names (in the element record type's source
// order), then one line per element. Non-record elements and scalars
// fall back to the CLASSIC rendering, since there are no columns to
// align. Column alignment uses the standard library's text/tabwriter; no
// third-party table formatter appears anywhere in the retrieval pack
// (go-wordwrap wraps prose, not columns).
func Tabular(opts Options, t types.Type, v value.Value) string {
	var elems []value.Value

	switch v := v.(type) {
	case *value.List:
		elems = v.Elems
	case *value.Bag:
		elems = v.Slice()
	default:
		return Value(opts, t, v, 0)
	}

	elemTy := elemType(t)

	rec, ok := elemTy.(*types.Record)
	if !ok {
		return Value(opts, t, v, 0)
	}

	if _, isTuple := rec.AsTuple(); isTuple {
		return Value(opts, t, v, 0)
	}

	labels := rec.SourceOrder
	if len(labels) == 0 {
		for _, f := range rec.Fields {
			labels = append(labels, f.Label)
		}
	}

	var b strings.Builder

	tw := tabwriter.NewWriter(&b, 2, 2, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(labels, "\t"))

	for _, e := range elems {
		row, ok := e.(*value.Record)
		if !ok {
			continue
		}

		cells := make([]string, len(labels))

		for i, label := range labels {
			cv, _ := row.Field(label)
			cells[i] = Value(opts, fieldType(rec, label), cv, 1)
		}

		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	tw.Flush()

	return strings.TrimRight(b.String(), "\n")
}
