package parser

import (
	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/token"
)

// parseDecl parses one top-level or `let`-local declaration. Unlike
// expressions, `and`-joined bindings inside one `val`/`val rec` are not
// supported (only `fun`/`datatype`/`type` groups are); a program needing
// several simultaneous value bindings writes them as separate `val`
// declarations, which is sufficient since Morel has no irrefutable-pattern
// destructuring that spans bindings.
func (p *Parser) parseDecl() ast.Decl {
	switch p.tok.K {
	case token.KwVal:
		return p.parseValDecl()
	case token.KwFun:
		return p.parseFunDecl()
	case token.KwDatatype:
		return p.parseDatatypeDecl()
	case token.KwType:
		return p.parseTypeDecl()
	case token.KwOver:
		return p.parseOverDecl()
	default:
		p.fail("expected a declaration")
		return nil
	}
}

func (p *Parser) parseValDecl() ast.Decl {
	begin := p.tok.Pos().Begin
	p.advance() // val

	// `val inst f = e`: "inst" is a contextual keyword, lexed as a plain
	// identifier since it is only meaningful right after `val`.
	if p.at(token.Ident) && p.tok.Text == "inst" {
		p.advance()

		name := p.expect(token.Ident, "an overloaded name").Text
		p.expect(token.Eq, "'='")

		e := p.parseExpr()

		return &ast.InstDecl{Base: ast.NewBase(p.span(begin)), Name: name, Expr: e}
	}

	rec := false
	if p.at(token.KwRec) {
		p.advance()

		rec = true
	}

	pat := p.parsePattern()
	p.expect(token.Eq, "'='")

	e := p.parseExpr()

	return &ast.ValDecl{Base: ast.NewBase(p.span(begin)), Rec: rec, Pat: pat, Expr: e}
}

func (p *Parser) parseFunDecl() ast.Decl {
	begin := p.tok.Pos().Begin
	p.advance() // fun

	bindings := []ast.FunBinding{p.parseFunBinding()}

	for p.at(token.KwAnd) {
		p.advance()

		bindings = append(bindings, p.parseFunBinding())
	}

	return &ast.FunDecl{Base: ast.NewBase(p.span(begin)), Bindings: bindings}
}

// parseFunBinding parses all `|`-joined clauses for one function name; a
// clause after the first must repeat the same name, matching Standard
// ML's `fun f p1 = e1 | f p2 = e2` surface syntax.
func (p *Parser) parseFunBinding() ast.FunBinding {
	name, clause := p.parseFunClause()
	clauses := []ast.FunClause{clause}

	for p.at(token.Bar) {
		p.advance()

		n, c := p.parseFunClause()
		if n != name {
			p.fail("all clauses of '%s' must repeat its name, found '%s'", name, n)
		}

		clauses = append(clauses, c)
	}

	return ast.FunBinding{Name: name, Clauses: clauses}
}

func (p *Parser) parseFunClause() (string, ast.FunClause) {
	name := p.expect(token.Ident, "a function name").Text

	var params []ast.Pat
	for p.startsAtomPattern() {
		params = append(params, p.parseAtomPattern())
	}

	if len(params) == 0 {
		p.fail("function '%s' needs at least one parameter", name)
	}

	var resultType ast.TypeExpr

	if p.at(token.Colon) {
		p.advance()

		resultType = p.parseType()
	}

	p.expect(token.Eq, "'='")

	body := p.parseExpr()

	return name, ast.FunClause{Params: params, ResultType: resultType, Body: body}
}

func (p *Parser) parseDatatypeDecl() ast.Decl {
	begin := p.tok.Pos().Begin
	p.advance() // datatype

	bindings := []ast.DatatypeBinding{p.parseDatatypeBinding()}

	for p.at(token.KwAnd) {
		p.advance()

		bindings = append(bindings, p.parseDatatypeBinding())
	}

	return &ast.DatatypeDecl{Base: ast.NewBase(p.span(begin)), Bindings: bindings}
}

// parseTypeVarsPrefix parses the optional `'a` or `('a, 'b)` prefix shared
// by datatype and type-alias bindings.
func (p *Parser) parseTypeVarsPrefix() []string {
	var vars []string

	switch {
	case p.at(token.TypeVar):
		vars = append(vars, p.tok.Text)
		p.advance()
	case p.at(token.LParen):
		p.advance()

		vars = append(vars, p.expect(token.TypeVar, "a type variable").Text)

		for p.at(token.Comma) {
			p.advance()

			vars = append(vars, p.expect(token.TypeVar, "a type variable").Text)
		}

		p.expect(token.RParen, "')'")
	}

	return vars
}

func (p *Parser) parseDatatypeBinding() ast.DatatypeBinding {
	tvs := p.parseTypeVarsPrefix()
	name := p.expect(token.Ident, "a datatype name").Text
	p.expect(token.Eq, "'='")

	cons := []ast.ConBinding{p.parseConBinding()}

	for p.at(token.Bar) {
		p.advance()

		cons = append(cons, p.parseConBinding())
	}

	return ast.DatatypeBinding{TypeVars: tvs, Name: name, Cons: cons}
}

func (p *Parser) parseConBinding() ast.ConBinding {
	name := p.expect(token.Ident, "a constructor name").Text

	if p.at(token.KwOf) {
		p.advance()

		ty := p.parseType()

		return ast.ConBinding{Name: name, Arg: ty}
	}

	return ast.ConBinding{Name: name}
}

func (p *Parser) parseTypeDecl() ast.Decl {
	begin := p.tok.Pos().Begin
	p.advance() // type

	bindings := []ast.TypeBinding{p.parseTypeBinding()}

	for p.at(token.KwAnd) {
		p.advance()

		bindings = append(bindings, p.parseTypeBinding())
	}

	return &ast.TypeDecl{Base: ast.NewBase(p.span(begin)), Bindings: bindings}
}

func (p *Parser) parseTypeBinding() ast.TypeBinding {
	tvs := p.parseTypeVarsPrefix()
	name := p.expect(token.Ident, "a type name").Text
	p.expect(token.Eq, "'='")

	ty := p.parseType()

	return ast.TypeBinding{TypeVars: tvs, Name: name, Type: ty}
}

func (p *Parser) parseOverDecl() ast.Decl {
	begin := p.tok.Pos().Begin
	p.advance() // over

	name := p.expect(token.Ident, "an identifier").Text

	return &ast.OverDecl{Base: ast.NewBase(p.span(begin)), Name: name}
}
