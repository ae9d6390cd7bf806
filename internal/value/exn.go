package value

import (
	"fmt"

	"github.com/morel-lang/morel/internal/token"
)

// Exn is a raised exception propagating out of evaluation (spec.md §4.10,
// §6.4): a constructed exn value plus the position it was raised at.
// Exn implements error so the evaluator can thread it through ordinary Go
// error returns instead of panic/recover.
type Exn struct {
	Con *Con
	At  token.Span
}

// exnIndex assigns each built-in exception constructor a stable
// declaration-order index, mirroring how a user datatype's constructors
// get one (spec.md §4.8). Order follows the taxonomy listed in §6.4.
var exnIndex = map[string]int{
	"Bind":      0,
	"Match":     1,
	"Subscript": 2,
	"Size":      3,
	"Overflow":  4,
	"Div":       5,
	"Chr":       6,
	"Domain":    7,
	"Option":    8,
	"Fail":      9,
}

// ExnIndex returns name's declaration-order index, or -1 if name isn't
// one of the built-in taxonomy (a user-defined exception constructor
// carries its own index instead, assigned the same way a datatype
// constructor is).
func ExnIndex(name string) int {
	if idx, ok := exnIndex[name]; ok {
		return idx
	}

	return -1
}

// NewExn constructs the exn value identified by name (one of §6.4's
// taxonomy, or a user constructor of the same shape) with an optional
// payload, raised at at.
func NewExn(name string, payload Value, at token.Span) *Exn {
	return &Exn{Con: &Con{Name: name, Index: exnIndex[name], Payload: payload}, At: at}
}

// Error implements the error interface. Session-level reporting (§7)
// renders the fuller "uncaught exception ... raised at: ..." form itself;
// this is a plain fallback for contexts that just want a string.
func (e *Exn) Error() string {
	if e.Con.Payload == nil {
		return fmt.Sprintf("uncaught exception %s", e.Con.Name)
	}

	return fmt.Sprintf("uncaught exception %s %v", e.Con.Name, e.Con.Payload)
}

// Is reports whether e is the named built-in exception, used by
// evaluator call sites that need to distinguish e.g. Div from Overflow
// without re-deriving the index.
func (e *Exn) Is(name string) bool {
	return e.Con.Name == name
}
