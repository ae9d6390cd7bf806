// Package session implements spec.md §6.1-§6.4: the host-facing session
// protocol over internal/parser, internal/elaborate and internal/eval —
// one ";"-terminated unit in, a Binding/Expression/Error report out,
// threading the type and value environments forward between units and
// restoring them unchanged on a rejected declaration (§7's all-or-nothing
// policy). Grounded on no teacher equivalent (TADL has no evaluator to
// drive); construction order follows internal/builtin.Prelude's own
// doc comment on the eval/builtin bootstrap cycle, and trace logging
// follows internal/eval and internal/query's github.com/hashicorp/
// go-hclog convention of a Logger field defaulting to a no-op logger.
package session

import (
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/builtin"
	"github.com/morel-lang/morel/internal/elaborate"
	"github.com/morel-lang/morel/internal/eval"
	"github.com/morel-lang/morel/internal/parser"
	"github.com/morel-lang/morel/internal/printer"
	"github.com/morel-lang/morel/internal/types"
	"github.com/morel-lang/morel/internal/value"
)

// ResultKind distinguishes the three shapes of unit outcome spec.md
// §6.1 describes.
type ResultKind int

const (
	ResultBinding ResultKind = iota
	ResultWarning
	ResultError
)

// Result is one reported outcome of a single top-level unit: a binding
// (possibly `it`, for a bare expression), a non-fatal warning alongside a
// binding that still went through, or a rejected declaration/uncaught
// exception. Text is pre-rendered, ready to print.
type Result struct {
	Kind ResultKind
	Name string // bound name, set only for ResultBinding
	Text string
}

// userProp is one host-set property outside the fixed Properties set
// (spec.md §6.1 "arbitrary user properties"); Type is the type it was
// first set with, checked on every later set via types.Unify so a
// property can't silently change shape underneath the host.
type userProp struct {
	Type  types.Type
	Value value.Value
}

// Session carries everything one REPL/batch-script connection needs:
// the current type/value environments (replaced wholesale by
// Sys.clearEnv, threaded forward by every successful unit), the
// elaborator and interpreter (each created once and reused for the
// session's whole lifetime, so the elaborator's Info side table and the
// interpreter's overload table keep accumulating), and the session
// properties of §6.1.
type Session struct {
	tenv *types.Env
	venv *value.Env

	bootTenv *types.Env
	bootVenv *value.Env

	el *elaborate.Elaborator
	it *eval.Interp

	fresh *types.Fresh

	props     Properties
	userProps map[string]userProp

	lastDecl ast.Decl
	cleared  bool

	Logger hclog.Logger
}

// New bootstraps a session: builds the prelude (internal/builtin.Init),
// wires it into a fresh elaborator/interpreter pair, and extends the
// resulting environment with the Sys module. A nil logger defaults to
// one configured silent (hclog.Off), matching spec.md's expectation that
// a session produces no output beyond its protocol responses unless a
// host asks for trace logging.
func New(logger hclog.Logger) *Session {
	if logger == nil {
		logger = hclog.New(&hclog.LoggerOptions{Name: "morel-session", Level: hclog.Off})
	}

	it := eval.New(nil, nil, logger)
	prelude := builtin.Init(it.Apply)

	el := elaborate.New()
	el.Fresh = prelude.Fresh
	el.Registry = prelude.Registry
	el.Overload = prelude.Overload

	it.Info = el.Info()
	it.Registry = prelude.Registry

	for _, seed := range prelude.Seeds {
		it.SeedOverload(seed.Name, seed.Value)
	}

	s := &Session{
		el:        el,
		it:        it,
		fresh:     prelude.Fresh,
		props:     DefaultProperties(),
		userProps: map[string]userProp{},
		Logger:    logger,
	}

	bootTenv, bootVenv := buildSys(s, prelude.TypeEnv, prelude.ValueEnv)
	s.bootTenv, s.bootVenv = bootTenv, bootVenv
	s.tenv, s.venv = bootTenv, bootVenv

	return s
}

// Execute parses src (attributing diagnostics to file, e.g. a script
// path or "<stdin>") and runs every unit against the session in order,
// returning one or more Results per unit. A unit that fails to parse is
// reported and skipped, and parsing resumes after the next `;`; the parse
// errors are listed before the results of the units that did parse.
func (s *Session) Execute(file string, src io.Reader) []Result {
	prog, errs := parser.New(file, src).ParseProgram()

	var results []Result

	for _, e := range errs {
		results = append(results, Result{Kind: ResultError, Text: e.Render()})
	}

	if prog == nil {
		return results
	}

	for _, u := range prog.Units {
		results = append(results, s.executeUnit(u)...)
	}

	return results
}

// executeUnit elaborates and evaluates one unit. s.lastDecl, the decl
// Sys.plan() reports on, is updated only once the unit has fully run
// (success or failure) — so a call to Sys.plan() from within the unit
// itself (e.g. `val p = Sys.plan ();`) still sees the *previous* unit,
// which is what "the plan of the last attempt" means in practice.
func (s *Session) executeUnit(u ast.Unit) []Result {
	s.Logger.Trace("elaborate unit", "exprStmt", u.IsExprStmt)

	r := s.el.ElaborateUnit(s.tenv, u.Decl)
	s.el.MatchCoverageEnabled = s.props.MatchCoverageEnabled

	defer func() { s.lastDecl = u.Decl }()

	if !r.Bag.OK() {
		var lines []string
		for _, w := range r.Bag.Warnings {
			lines = append(lines, w.Render())
		}

		for _, e := range r.Bag.Errors {
			lines = append(lines, e.Render())
		}

		return []Result{{Kind: ResultError, Text: strings.Join(lines, "\n")}}
	}

	// Elaboration succeeded, but per spec.md §7 an uncaught runtime
	// exception still leaves the whole environment — type and value both
	// — unchanged, so r.Env isn't applied to s.tenv until eval succeeds
	// too.
	venv, exn := s.it.EvalDecl(s.venv, u.Decl)
	if exn != nil {
		return []Result{{Kind: ResultError, Text: s.renderUncaught(exn)}}
	}

	if s.cleared {
		s.tenv, s.venv = s.bootTenv, s.bootVenv
		s.cleared = false

		return nil
	}

	s.tenv = r.Env
	s.venv = venv

	var results []Result

	for _, w := range r.Bag.Warnings {
		results = append(results, Result{Kind: ResultWarning, Text: w.Render()})
	}

	opts := s.props.printerOptions()

	for _, b := range r.Bindings {
		v, ok := s.venv.Lookup(b.Name)
		if !ok {
			continue
		}

		results = append(results, Result{
			Kind: ResultBinding,
			Name: b.Name,
			Text: printer.Binding(opts, b.Name, b.Scheme.Body, v),
		})
	}

	return results
}

// renderUncaught formats an escaped exception per spec.md §7: "uncaught
// exception <Name> [description]" followed by "raised at: <pos>". The
// environment is left exactly as it was before the unit ran (the caller
// never assigns s.venv/s.tenv on this path).
func (s *Session) renderUncaught(exn *value.Exn) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "uncaught exception %s", exn.Con.Name)

	if exn.Con.Payload != nil {
		fmt.Fprintf(&sb, " %s", printer.Value(s.props.printerOptions(), nil, exn.Con.Payload, 0))
	}

	fmt.Fprintf(&sb, "\n  raised at: %s", exn.At)

	return sb.String()
}

// Output renders v per the output property (CLASSIC or TABULAR), for a
// host that wants to print a value outside the binding-report path (e.g.
// cmd/morel printing `it` after an expression statement using a
// TABULAR-formatted list of records).
func (s *Session) Output(t types.Type, v value.Value) string {
	if s.props.Output == "TABULAR" {
		return printer.Tabular(s.props.printerOptions(), t, v)
	}

	return printer.Value(s.props.printerOptions(), t, v, 0)
}
