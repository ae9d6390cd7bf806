// Package ast defines Morel's untyped AST: the node kinds spec.md §4.3
// names for expressions, patterns, declarations and queries. Every node
// embeds token.Span and exposes it via Begin()/End(), the same discipline
// the teacher's ast package uses for its own node-per-kind structs.
package ast

import "github.com/morel-lang/morel/internal/token"

// Node is satisfied by every AST node.
type Node interface {
	Begin() token.Pos
	End() token.Pos
	Span() token.Span
}

// Base is embedded by every concrete node and implements Node.
type Base struct {
	span token.Span
}

func (b Base) Begin() token.Pos { return b.span.Begin }
func (b Base) End() token.Pos   { return b.span.End }
func (b Base) Span() token.Span { return b.span }

func NewBase(span token.Span) Base { return Base{span: span} }

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

func (*LitInt) exprNode()        {}
func (*LitReal) exprNode()       {}
func (*LitBool) exprNode()       {}
func (*LitChar) exprNode()       {}
func (*LitString) exprNode()     {}
func (*LitUnit) exprNode()       {}
func (*Ident) exprNode()         {}
func (*TupleExpr) exprNode()     {}
func (*RecordExpr) exprNode()    {}
func (*RecordUpdate) exprNode()  {}
func (*ListExpr) exprNode()      {}
func (*Apply) exprNode()         {}
func (*FieldAccess) exprNode()   {}
func (*Infix) exprNode()         {}
func (*Andalso) exprNode()       {}
func (*Orelse) exprNode()        {}
func (*Implies) exprNode()       {}
func (*Not) exprNode()           {}
func (*Negate) exprNode()        {}
func (*IfExpr) exprNode()        {}
func (*LetExpr) exprNode()       {}
func (*FnExpr) exprNode()        {}
func (*CaseExpr) exprNode()      {}
func (*RaiseExpr) exprNode()     {}
func (*HandleExpr) exprNode()    {}
func (*Annot) exprNode()         {}
func (*TypeOfExpr) exprNode()    {}
func (*QueryExpr) exprNode()     {}

// LitInt is an integer literal.
type LitInt struct {
	Base
	Value int64
}

// LitReal is a real literal.
type LitReal struct {
	Base
	Value float64
}

// LitBool is `true`/`false`.
type LitBool struct {
	Base
	Value bool
}

// LitChar is a `#"x"` character literal.
type LitChar struct {
	Base
	Value rune
}

// LitString is a `"..."` string literal.
type LitString struct {
	Base
	Value string
}

// LitUnit is `()`.
type LitUnit struct{ Base }

// Ident is an identifier or quoted identifier reference, either a
// variable, a value constructor, or an overloaded operator name.
type Ident struct {
	Base
	Name string
}

// TupleExpr is `(e1, ..., en)`, n >= 2.
type TupleExpr struct {
	Base
	Elems []Expr
}

// RecordField is one `label = expr` pair inside a record literal. Punned
// fields (`{x}` meaning `{x = x}`) and label-elision (`{e.f, x}` meaning
// `{f = e.f, x = x}`) are expanded by the parser so the AST always carries
// an explicit label and expression.
type RecordField struct {
	Label string
	Value Expr
}

// RecordExpr is `{l1 = e1, ..., ln = en}`.
type RecordExpr struct {
	Base
	Fields []RecordField
}

// RecordUpdate is `{r with l1 = e1, ...}`.
type RecordUpdate struct {
	Base
	Record Expr
	Fields []RecordField
}

// ListExpr is `[e1, ..., en]`.
type ListExpr struct {
	Base
	Elems []Expr
}

// Apply is left-associative function application `f x`.
type Apply struct {
	Base
	Fn  Expr
	Arg Expr
}

// FieldAccess is `e.l` or `#l e`.
type FieldAccess struct {
	Base
	Record Expr
	Label  string
}

// InfixOp enumerates the symbolic/keyword infix operators of the §4.3
// precedence table (excluding andalso/orelse/implies, which get their
// own short-circuiting nodes).
type InfixOp int

const (
	OpMul InfixOp = iota
	OpDiv
	OpDivInt
	OpMod
	OpAdd
	OpSub
	OpConcat // ^
	OpCons   // :: (right-assoc)
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpElem
	OpNotElem
)

// Infix is a binary operator application.
type Infix struct {
	Base
	Op          InfixOp
	Left, Right Expr
}

// Andalso is short-circuiting conjunction.
type Andalso struct {
	Base
	Left, Right Expr
}

// Orelse is short-circuiting disjunction.
type Orelse struct {
	Base
	Left, Right Expr
}

// Implies is `a implies b` == `(not a) orelse b`, left-assoc.
type Implies struct {
	Base
	Left, Right Expr
}

// Not is the built-in `not` prefix (parsed as ordinary application in the
// grammar, but given its own node since it is frequently pattern-matched
// on, e.g. by the query engine's predicate-inversion analysis in §4.9.5).
type Not struct {
	Base
	Operand Expr
}

// Negate is unary negation written with the `~` literal prefix applied to
// a non-literal expression, e.g. `~x`.
type Negate struct {
	Base
	Operand Expr
}

// IfExpr is `if c then a else b`.
type IfExpr struct {
	Base
	Cond, Then, Else Expr
}

// LetExpr is `let d1 ... dn in e end`.
type LetExpr struct {
	Base
	Decls []Decl
	Body  Expr
}

// MatchClause is one `pat => expr` arm of a `fn`/`case`/`handle`.
type MatchClause struct {
	Pat  Pat
	Body Expr
}

// FnExpr is `fn p1 => e1 | p2 => e2 | ...`.
type FnExpr struct {
	Base
	Clauses []MatchClause
}

// CaseExpr is `case e of p1 => e1 | ...`.
type CaseExpr struct {
	Base
	Scrutinee Expr
	Clauses   []MatchClause
}

// RaiseExpr is `raise e`.
type RaiseExpr struct {
	Base
	Exn Expr
}

// HandleExpr is `e handle p1 => e1 | ...`.
type HandleExpr struct {
	Base
	Body    Expr
	Clauses []MatchClause
}

// Annot is a type-annotated expression `e : T`.
type Annot struct {
	Base
	Expr Expr
	Type TypeExpr
}

// TypeOfExpr is `typeof e`, which reports e's elaborated type without
// evaluating e.
type TypeOfExpr struct {
	Base
	Expr Expr
}
