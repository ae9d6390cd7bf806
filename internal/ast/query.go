package ast

// QueryKind distinguishes `from`, `exists` and `forall` queries, which
// share the scan/step grammar but differ in allowed terminal steps
// (spec.md §4.9 "Semantics of exists/forall").
type QueryKind int

const (
	QueryFrom QueryKind = iota
	QueryExists
	QueryForall
)

// Scan is one `p in e [on c]` (or unbounded `p` without `in`, or `p = e`
// sugar for `p in [e]`, both resolved to this same shape by the parser:
// an unbounded scan has Source == nil, and `p = e` sugar is expanded to
// ListExpr{e}).
type Scan struct {
	Pat       Pat
	Source    Expr // nil for an unbounded variable
	Condition Expr // non-nil for `on c`
	Unbounded bool
}

// NamedExpr is `e` or `label = e`, used for group keys and yield fields
// where an explicit label may or may not be given.
type NamedExpr struct {
	Label string // "" if unlabeled; the elaborator derives one (§4.9 "Aggregates")
	Expr  Expr
}

// Agg is one aggregate of a `compute` clause: `[name =] agg [over e]`.
// A bare `count` has Agg = "count", Over = nil. `sum over r.f` has
// Agg = "sum", Over = r.f, and an implicit Name of "f" (§4.9).
type Agg struct {
	Name string // "" if the name should be implicitly derived
	Agg  Expr   // the aggregate function expression, e.g. Ident{"sum"}
	Over Expr   // nil when no `over` clause is written (treated as unit); `count over ()` gives a unit literal
}

// OrderKey is one `e` or `Descending e` key of an `order` step.
type OrderKey struct {
	Expr       Expr
	Descending bool
}

// Step is implemented by every relational pipeline step (§4.9's table)
// plus the terminal steps (§4.9 "Terminal steps").
type Step interface {
	Node
	stepNode()
}

func (*StepWhere) stepNode()    {}
func (*StepYield) stepNode()    {}
func (*StepYieldAll) stepNode() {}
func (*StepGroup) stepNode()    {}
func (*StepDistinct) stepNode() {}
func (*StepOrder) stepNode()    {}
func (*StepUnorder) stepNode()  {}
func (*StepSkip) stepNode()     {}
func (*StepTake) stepNode()     {}
func (*StepJoin) stepNode()     {}
func (*StepSetOp) stepNode()    {}
func (*StepThrough) stepNode()  {}
func (*StepCompute) stepNode()  {}
func (*StepInto) stepNode()     {}
func (*StepRequire) stepNode()  {}

type StepWhere struct {
	Base
	Cond Expr
}

type StepYield struct {
	Base
	Expr Expr
}

type StepYieldAll struct {
	Base
	Expr Expr
}

type StepGroup struct {
	Base
	Keys     []NamedExpr
	Computes []Agg
}

type StepDistinct struct{ Base }

type StepOrder struct {
	Base
	Keys []OrderKey
}

type StepUnorder struct{ Base }

type StepSkip struct {
	Base
	Count Expr
}

type StepTake struct {
	Base
	Count Expr
}

type StepJoin struct {
	Base
	Scans []Scan
}

// SetOpKind enumerates union/intersect/except.
type SetOpKind int

const (
	SetUnion SetOpKind = iota
	SetIntersect
	SetExcept
)

type StepSetOp struct {
	Base
	Kind     SetOpKind
	Distinct bool
	Exprs    []Expr
}

type StepThrough struct {
	Base
	Pat  Pat
	Expr Expr
}

type StepCompute struct {
	Base
	Aggs []Agg
}

type StepInto struct {
	Base
	Expr Expr
}

type StepRequire struct {
	Base
	Cond Expr
}

// QueryExpr is a whole `from`/`exists`/`forall` pipeline.
type QueryExpr struct {
	Base
	Kind  QueryKind
	Scans []Scan
	Steps []Step
}
