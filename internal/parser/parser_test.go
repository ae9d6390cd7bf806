package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/morel-lang/morel/internal/ast"
)

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()

	prog, errs := New("<test>", strings.NewReader(src+";")).ParseProgram()
	require.Empty(t, errs)
	require.Len(t, prog.Units, 1)
	require.True(t, prog.Units[0].IsExprStmt)

	vd, ok := prog.Units[0].Decl.(*ast.ValDecl)
	require.True(t, ok)

	return vd.Expr
}

func parseDecl(t *testing.T, src string) ast.Decl {
	t.Helper()

	prog, errs := New("<test>", strings.NewReader(src+";")).ParseProgram()
	require.Empty(t, errs)
	require.Len(t, prog.Units, 1)
	require.False(t, prog.Units[0].IsExprStmt)

	return prog.Units[0].Decl
}

func TestParserArithmeticPrecedence(t *testing.T) {
	e := parseExpr(t, "1 + 2 * 3")

	infix, ok := e.(*ast.Infix)
	require.True(t, ok)
	require.Equal(t, ast.OpAdd, infix.Op)

	rhs, ok := infix.Right.(*ast.Infix)
	require.True(t, ok)
	require.Equal(t, ast.OpMul, rhs.Op)
}

func TestParserConsIsRightAssociative(t *testing.T) {
	e := parseExpr(t, "1 :: 2 :: nil")

	outer, ok := e.(*ast.Infix)
	require.True(t, ok)
	require.Equal(t, ast.OpCons, outer.Op)

	_, ok = outer.Left.(*ast.LitInt)
	require.True(t, ok)

	inner, ok := outer.Right.(*ast.Infix)
	require.True(t, ok)
	require.Equal(t, ast.OpCons, inner.Op)
}

func TestParserApplicationIsLeftAssociative(t *testing.T) {
	e := parseExpr(t, "f x y")

	outer, ok := e.(*ast.Apply)
	require.True(t, ok)

	inner, ok := outer.Fn.(*ast.Apply)
	require.True(t, ok)

	fnIdent, ok := inner.Fn.(*ast.Ident)
	require.True(t, ok)
	require.Equal(t, "f", fnIdent.Name)
}

func TestParserIfLetFn(t *testing.T) {
	e := parseExpr(t, "let val x = 1 in if x > 0 then fn y => x + y else fn y => y end")

	let, ok := e.(*ast.LetExpr)
	require.True(t, ok)
	require.Len(t, let.Decls, 1)

	ifE, ok := let.Body.(*ast.IfExpr)
	require.True(t, ok)

	_, ok = ifE.Then.(*ast.FnExpr)
	require.True(t, ok)
}

func TestParserRecordLiteralAndUpdate(t *testing.T) {
	e := parseExpr(t, "{a = 1, b = 2}")

	rec, ok := e.(*ast.RecordExpr)
	require.True(t, ok)
	require.Len(t, rec.Fields, 2)
	require.Equal(t, "a", rec.Fields[0].Label)

	upd := parseExpr(t, "{r with a = 1, b = 2}")

	ru, ok := upd.(*ast.RecordUpdate)
	require.True(t, ok)
	require.Len(t, ru.Fields, 2)

	base, ok := ru.Record.(*ast.Ident)
	require.True(t, ok)
	require.Equal(t, "r", base.Name)
}

func TestParserRecordPunningAndElision(t *testing.T) {
	e := parseExpr(t, "{x, e.f}")

	rec, ok := e.(*ast.RecordExpr)
	require.True(t, ok)
	require.Len(t, rec.Fields, 2)
	require.Equal(t, "x", rec.Fields[0].Label)
	require.Equal(t, "f", rec.Fields[1].Label)
}

func TestParserCaseAndPatterns(t *testing.T) {
	e := parseExpr(t, "case x of SOME (y as (a, b)) => a | NONE => 0")

	c, ok := e.(*ast.CaseExpr)
	require.True(t, ok)
	require.Len(t, c.Clauses, 2)

	p0, ok := c.Clauses[0].Pat.(*ast.PCon)
	require.True(t, ok)
	require.Equal(t, "SOME", p0.Name)

	asPat, ok := p0.Arg.(*ast.PAs)
	require.True(t, ok)
	require.Equal(t, "y", asPat.Name)

	_, ok = asPat.Pat.(*ast.PTuple)
	require.True(t, ok)
}

func TestParserValRecAndFunDecl(t *testing.T) {
	d := parseDecl(t, "val rec f = fn n => if n = 0 then 1 else n * f (n - 1)")

	vd, ok := d.(*ast.ValDecl)
	require.True(t, ok)
	require.True(t, vd.Rec)

	d2 := parseDecl(t, "fun fact 0 = 1 | fact n = n * fact (n - 1)")

	fd, ok := d2.(*ast.FunDecl)
	require.True(t, ok)
	require.Len(t, fd.Bindings, 1)
	require.Equal(t, "fact", fd.Bindings[0].Name)
	require.Len(t, fd.Bindings[0].Clauses, 2)
}

func TestParserDatatypeDecl(t *testing.T) {
	d := parseDecl(t, "datatype 'a option = NONE | SOME of 'a")

	dd, ok := d.(*ast.DatatypeDecl)
	require.True(t, ok)
	require.Len(t, dd.Bindings, 1)
	require.Equal(t, "option", dd.Bindings[0].Name)
	require.Equal(t, []string{"'a"}, dd.Bindings[0].TypeVars)
	require.Len(t, dd.Bindings[0].Cons, 2)
	require.Nil(t, dd.Bindings[0].Cons[0].Arg)
	require.NotNil(t, dd.Bindings[0].Cons[1].Arg)
}

func TestParserQueryPipeline(t *testing.T) {
	e := parseExpr(t, `from x in [1, 2, 3] where x > 1 yield x * x`)

	q, ok := e.(*ast.QueryExpr)
	require.True(t, ok)
	require.Equal(t, ast.QueryFrom, q.Kind)
	require.Len(t, q.Scans, 1)
	require.Len(t, q.Steps, 2)

	_, ok = q.Steps[0].(*ast.StepWhere)
	require.True(t, ok)

	_, ok = q.Steps[1].(*ast.StepYield)
	require.True(t, ok)
}

func TestParserQueryGroupComputeAndJoin(t *testing.T) {
	e := parseExpr(t, `from e in emps, d in depts on e.deptno = d.deptno
		group dept = d.name compute total = sum over e.salary`)

	q, ok := e.(*ast.QueryExpr)
	require.True(t, ok)
	require.Len(t, q.Scans, 2)
	require.NotNil(t, q.Scans[1].Condition)

	grp, ok := q.Steps[0].(*ast.StepGroup)
	require.True(t, ok)
	require.Len(t, grp.Keys, 1)
	require.Equal(t, "dept", grp.Keys[0].Label)
	require.Len(t, grp.Computes, 1)
	require.Equal(t, "total", grp.Computes[0].Name)
}

func TestParserExistsAndUnboundedScan(t *testing.T) {
	e := parseExpr(t, `exists x where x > 0`)

	q, ok := e.(*ast.QueryExpr)
	require.True(t, ok)
	require.Equal(t, ast.QueryExists, q.Kind)
	require.True(t, q.Scans[0].Unbounded)
}

func TestParserErrorRecoveryAcrossUnits(t *testing.T) {
	src := "val x = ;\nval y = 2;"

	prog, errs := New("<test>", strings.NewReader(src)).ParseProgram()
	require.NotEmpty(t, errs)
	require.Len(t, prog.Units, 1)

	vd, ok := prog.Units[0].Decl.(*ast.ValDecl)
	require.True(t, ok)

	pv, ok := vd.Pat.(*ast.PVar)
	require.True(t, ok)
	require.Equal(t, "y", pv.Name)
}

func TestParserTypeAnnotation(t *testing.T) {
	e := parseExpr(t, "(1, 2) : int * int")

	a, ok := e.(*ast.Annot)
	require.True(t, ok)

	tt, ok := a.Type.(*ast.TyTuple)
	require.True(t, ok)
	require.Len(t, tt.Elems, 2)
}
