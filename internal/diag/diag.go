// Package diag implements Morel's positional diagnostics: the
// file:line.col-line.col Error/Warning rendering from spec.md §4.1, and
// the per-declaration warning/error accumulator used by the session
// protocol (§6.1, §7).
package diag

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/morel-lang/morel/internal/token"
)

// Detail is one line of explanation attached to a PosError, mirroring the
// teacher's token.ErrDetail (one message per relevant span).
type Detail struct {
	At      token.Span
	Message string
}

// PosError is a positional diagnostic: a parse, elaboration or runtime
// error with a primary span, optional extra Details, and an optional
// wrapped Cause (an internal Go error, e.g. a wrapped I/O failure).
type PosError struct {
	Severity Severity
	Details  []Detail
	Cause    error
	Hint     string
}

// Severity distinguishes a reported Error from a Warning; both render in
// the same shape per spec.md §4.1.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// NewError creates an error-severity PosError with a single detail.
func NewError(at token.Span, format string, args ...interface{}) *PosError {
	return &PosError{
		Severity: SeverityError,
		Details:  []Detail{{At: at, Message: fmt.Sprintf(format, args...)}},
	}
}

// NewWarning creates a warning-severity PosError.
func NewWarning(at token.Span, format string, args ...interface{}) *PosError {
	return &PosError{
		Severity: SeverityWarning,
		Details:  []Detail{{At: at, Message: fmt.Sprintf(format, args...)}},
	}
}

// WithDetail appends an explanatory detail and returns the receiver, for
// chaining at construction time.
func (e *PosError) WithDetail(at token.Span, format string, args ...interface{}) *PosError {
	e.Details = append(e.Details, Detail{At: at, Message: fmt.Sprintf(format, args...)})
	return e
}

// WithCause wraps an underlying Go error (via github.com/pkg/errors, so
// %+v still renders a stack) as the Cause of this diagnostic.
func (e *PosError) WithCause(cause error) *PosError {
	e.Cause = errors.WithStack(cause)
	return e
}

// WithHint attaches a one-line suggestion, printed after the cause.
func (e *PosError) WithHint(hint string) *PosError {
	e.Hint = hint
	return e
}

func (e *PosError) primary() Detail {
	if len(e.Details) == 0 {
		return Detail{}
	}

	return e.Details[0]
}

// Error implements the error interface, and also the display format from
// spec.md §4.1: "file:line.col-line.col Error: <message>" followed by
// "raised at: <pos>" and any extra details/hint on their own lines.
func (e *PosError) Error() string {
	return e.Render()
}

// Render produces the full multi-line diagnostic text.
func (e *PosError) Render() string {
	var sb strings.Builder

	label := "Error"
	if e.Severity == SeverityWarning {
		label = "Warning"
	}

	primary := e.primary()

	fmt.Fprintf(&sb, "%s %s: %s\n", primary.At, label, primary.Message)
	fmt.Fprintf(&sb, "  raised at: %s\n", primary.At.Begin)

	for _, d := range e.Details[1:] {
		fmt.Fprintf(&sb, "  %s: %s\n", d.At, d.Message)
	}

	if e.Cause != nil {
		fmt.Fprintf(&sb, "  caused by: %v\n", e.Cause)
	}

	if e.Hint != "" {
		fmt.Fprintf(&sb, "  hint: %s\n", e.Hint)
	}

	return strings.TrimRight(sb.String(), "\n")
}

// Unwrap exposes Cause to errors.Is/errors.As and github.com/pkg/errors.
func (e *PosError) Unwrap() error {
	return e.Cause
}

// Bag accumulates the errors and warnings produced while processing a
// single top-level declaration/expression, per spec.md §7's "all or
// nothing" policy: a declaration either elaborates cleanly (possibly with
// Warnings) or is rejected outright (at least one Error), and the caller
// never sees a partial mix of applied-and-failed bindings.
type Bag struct {
	Errors   []*PosError
	Warnings []*PosError
}

// Add records a diagnostic, sorting it into Errors or Warnings by its
// Severity.
func (b *Bag) Add(e *PosError) {
	if e.Severity == SeverityWarning {
		b.Warnings = append(b.Warnings, e)
	} else {
		b.Errors = append(b.Errors, e)
	}
}

// OK reports whether no errors (warnings are fine) were recorded.
func (b *Bag) OK() bool {
	return len(b.Errors) == 0
}
