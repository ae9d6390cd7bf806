package ast

// TypeExpr is the surface syntax for a type annotation (`e : T`, `p : T`,
// datatype constructor argument types, `fun` result-type annotations). It
// is distinct from internal/types.Type, which is the elaborator's
// internal representation after resolving names and unifying.
type TypeExpr interface {
	Node
	typeExprNode()
}

func (*TyVar) typeExprNode()    {}
func (*TyCon) typeExprNode()    {}
func (*TyTuple) typeExprNode()  {}
func (*TyRecord) typeExprNode() {}
func (*TyFun) typeExprNode()    {}

// TyVar is `'a`.
type TyVar struct {
	Base
	Name string
}

// TyCon is a named type application `(T1, ..., Tn) C`, including the
// zero-arg case (a bare primitive or nullary datatype name).
type TyCon struct {
	Base
	Name string
	Args []TypeExpr
}

// TyTuple is `T1 * ... * Tn`.
type TyTuple struct {
	Base
	Elems []TypeExpr
}

// TyRecordField is one `label : T` entry in a record type.
type TyRecordField struct {
	Label string
	Type  TypeExpr
}

// TyRecord is `{ l1: T1, ..., ln: Tn }`, or with a trailing `...` an open
// row (used rarely in surface syntax, mostly progressive-type injection
// points use this implicitly rather than written out).
type TyRecord struct {
	Base
	Fields []TyRecordField
	Open   bool
}

// TyFun is `T1 -> T2`.
type TyFun struct {
	Base
	Arg, Result TypeExpr
}
