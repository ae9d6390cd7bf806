// Package elaborate implements spec.md §4.5: name resolution and
// Hindley-Milner type inference over internal/ast, producing a *types.Info
// side table keyed by ast.Node rather than a second typed-AST tree (the
// go/types.Info shape — see DESIGN.md's Open Question decision). Grounded
// on no teacher equivalent (TADL has no type system); the method-per-node
// discipline follows internal/ast's own node-per-kind shape.
package elaborate

import (
	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/diag"
	"github.com/morel-lang/morel/internal/types"
)

// Info maps every expression/pattern node elaborated so far to its
// resolved type, analogous to go/types.Info. OverloadChoice additionally
// records, for each overloaded identifier's use site, which declaration
// index of that name's `val inst` instances was the unique match — the
// evaluator consults this to pick the matching runtime value, since at
// runtime an Ident node carries no type to re-resolve against.
type Info struct {
	Types          map[ast.Node]types.Type
	OverloadChoice map[ast.Node]int
}

func newInfo() *Info {
	return &Info{Types: map[ast.Node]types.Type{}, OverloadChoice: map[ast.Node]int{}}
}

func (i *Info) record(n ast.Node, t types.Type) types.Type {
	i.Types[n] = t
	return t
}

// TypeOf returns the type recorded for n, if elaboration reached it.
func (i *Info) TypeOf(n ast.Node) (types.Type, bool) {
	t, ok := i.Types[n]
	return t, ok
}

// Elaborator carries the mutable state threaded through one session's
// worth of elaboration: the fresh-variable generator, the datatype
// registry (shared with internal/pattern for exhaustiveness), the
// accumulated overload table (§4.5.4), and the coverage checker's
// enable/disable session property.
type Elaborator struct {
	Fresh    *types.Fresh
	Registry *types.Registry
	Overload *OverloadTable

	// MatchCoverageEnabled mirrors the session property of the same name
	// (§6.1); when false, §4.6 diagnostics are suppressed.
	MatchCoverageEnabled bool

	info    *Info
	bag     *diag.Bag
	aliases map[string]*aliasInfo
	pending []pendingOverload
}

// pendingOverload records an overloaded identifier's use site, to be
// resolved once the rest of the declaration has constrained its type
// variable (spec.md §4.5.4).
type pendingOverload struct {
	node ast.Node
	name string
	tv   *types.Var
}

// New returns an Elaborator with fresh, empty state.
func New() *Elaborator {
	return &Elaborator{
		Fresh:                types.NewFresh(),
		Registry:             types.NewRegistry(),
		Overload:             NewOverloadTable(),
		MatchCoverageEnabled: true,
		info:                 newInfo(),
		bag:                  &diag.Bag{},
		aliases:              map[string]*aliasInfo{},
	}
}

// Result is what ElaborateUnit returns for one top-level unit: the
// (possibly extended) environment, the bindings newly introduced (for
// the session protocol's binding-result report, §6.1), and diagnostics.
type Result struct {
	Env      *types.Env
	Bindings []Binding
	Info     *Info
	Bag      *diag.Bag
}

// Binding is one name introduced by a top-level declaration, with its
// generalized scheme, for reporting back to the host (§6.1).
type Binding struct {
	Name   string
	Scheme *types.Scheme
}

// ElaborateUnit elaborates one top-level declaration (or bare expression,
// already rewritten by the parser/session layer into `val it = e`)
// against env, returning the extended environment and new bindings. Per
// spec.md §7, a unit either elaborates cleanly (possibly with warnings)
// or is rejected outright — on error the returned Env equals the input
// env unchanged.
func (el *Elaborator) ElaborateUnit(env *types.Env, d ast.Decl) Result {
	el.bag = &diag.Bag{}
	el.pending = nil

	newEnv, bindings := el.elabDecl(env, d)

	for _, p := range el.pending {
		_, idx, err := el.Overload.resolve(el.Fresh, p.name, p.tv)
		if err != nil {
			el.errorf(p.node, "%s", err)
			continue
		}

		el.info.OverloadChoice[p.node] = idx
	}

	if !el.bag.OK() {
		newEnv = env
		bindings = nil
	}

	return Result{Env: newEnv, Bindings: bindings, Info: el.info, Bag: el.bag}
}

// Info returns the accumulated node->type side table across every unit
// elaborated so far.
func (el *Elaborator) Info() *Info { return el.info }

// Elaborate runs ElaborateUnit over every unit of prog in order, feeding
// each unit's extended environment into the next (so later units see
// earlier `val`/`fun`/`datatype` bindings), and returns one Result per
// unit. The parser has already rewritten a bare expression unit into
// `val it = e` (see ast.Program's doc comment), so no `it`-binding
// special case is needed here; the session protocol's per-unit result
// reporting (§6.1) is the caller's concern, not this function's.
func (el *Elaborator) Elaborate(env *types.Env, prog *ast.Program) []Result {
	results := make([]Result, len(prog.Units))

	for i, u := range prog.Units {
		r := el.ElaborateUnit(env, u.Decl)
		results[i] = r
		env = r.Env
	}

	return results
}

func (el *Elaborator) errorf(n ast.Node, format string, args ...interface{}) {
	el.bag.Add(diag.NewError(n.Span(), format, args...))
}

func (el *Elaborator) warnf(n ast.Node, format string, args ...interface{}) {
	el.bag.Add(diag.NewWarning(n.Span(), format, args...))
}
