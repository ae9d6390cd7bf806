package ast

// Decl is implemented by every top-level/`let`-local declaration node.
type Decl interface {
	Node
	declNode()
}

func (*ValDecl) declNode()      {}
func (*FunDecl) declNode()      {}
func (*DatatypeDecl) declNode() {}
func (*TypeDecl) declNode()     {}
func (*OverDecl) declNode()     {}
func (*InstDecl) declNode()     {}

// ValDecl is `val p = e` or, with Rec set, `val rec p = e` (used for
// single self-referential closures bound via a variable pattern, as
// opposed to the more common `fun` form for recursive functions).
type ValDecl struct {
	Base
	Rec  bool
	Pat  Pat
	Expr Expr
}

// FunClause is one clause of one `fun`-bound name: `name p1 ... pk = e`,
// or `name p1 ... pk : T = e` when ResultType is set.
type FunClause struct {
	Params     []Pat
	ResultType TypeExpr // nil if unannotated
	Body       Expr
}

// FunBinding is all the clauses for a single `fun`-bound name (joined by
// `|` in the source); every clause must share Name and arity.
type FunBinding struct {
	Name    string
	Clauses []FunClause
}

// FunDecl is `fun b1 and b2 and ...`, a mutually recursive letrec group.
type FunDecl struct {
	Base
	Bindings []FunBinding
}

// ConBinding is one `C` or `C of T` alternative of a datatype.
type ConBinding struct {
	Name string
	Arg  TypeExpr // nil for a nullary constructor
}

// DatatypeBinding is one `tyvars name = con | ...` of a (possibly mutually
// recursive, via `and`) datatype declaration group.
type DatatypeBinding struct {
	TypeVars []string
	Name     string
	Cons     []ConBinding
}

// DatatypeDecl is `datatype b1 and b2 and ...`.
type DatatypeDecl struct {
	Base
	Bindings []DatatypeBinding
}

// TypeBinding is one `tyvars name = T` alias.
type TypeBinding struct {
	TypeVars []string
	Name     string
	Type     TypeExpr
}

// TypeDecl is `type b1 and b2 and ...`.
type TypeDecl struct {
	Base
	Bindings []TypeBinding
}

// OverDecl is `over f`, declaring f as an overloaded identifier (§4.5.4).
type OverDecl struct {
	Base
	Name string
}

// InstDecl is `val inst f = e`, adding one monomorphic instance to an
// overloaded identifier.
type InstDecl struct {
	Base
	Name string
	Expr Expr
}

// Program is a whole parsed compilation unit: a sequence of top-level
// declarations and/or bare expressions, each one terminated by `;` per
// the §6.2 grammar. A bare expression is represented as a ValDecl binding
// the implicit `it` pattern, the same rewrite the session protocol (§6.1)
// performs conceptually; callers that need to distinguish "the user wrote
// an expression" from "the user wrote `val it = ...`" should consult
// IsExprStmt.
type Program struct {
	Base
	Units []Unit
}

// Unit is one `;`-terminated top-level item.
type Unit struct {
	Decl       Decl
	IsExprStmt bool // true if this unit was a bare expression, not `val`/`fun`/...
}
