package parser

import (
	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/token"
)

// parseType parses a type expression at the lowest precedence: the
// function-arrow level, right-associative (spec.md §4.4's surface syntax
// for annotations, `fun` result types, and datatype constructor args).
func (p *Parser) parseType() ast.TypeExpr {
	begin := p.tok.Pos().Begin
	left := p.parseTupleType()

	if p.at(token.Arrow) {
		p.advance()

		right := p.parseType()

		return &ast.TyFun{Base: ast.NewBase(p.span(begin)), Arg: left, Result: right}
	}

	return left
}

// parseTupleType handles `T1 * ... * Tn`, left-associative by convention
// though tupling is flat rather than nested.
func (p *Parser) parseTupleType() ast.TypeExpr {
	begin := p.tok.Pos().Begin
	first := p.parseAppType()

	if !p.at(token.Star) {
		return first
	}

	elems := []ast.TypeExpr{first}

	for p.at(token.Star) {
		p.advance()

		elems = append(elems, p.parseAppType())
	}

	return &ast.TyTuple{Base: ast.NewBase(p.span(begin)), Elems: elems}
}

// parseAppType handles postfix type-constructor application: `int list`,
// `(int, string) map`, and bare atomic types/type variables.
func (p *Parser) parseAppType() ast.TypeExpr {
	begin := p.tok.Pos().Begin
	t := p.parseAtomType()

	for p.at(token.Ident) {
		name := p.tok.Text
		p.advance()

		t = &ast.TyCon{Base: ast.NewBase(p.span(begin)), Name: name, Args: []ast.TypeExpr{t}}
	}

	return t
}

func (p *Parser) parseAtomType() ast.TypeExpr {
	begin := p.tok.Pos().Begin

	switch p.tok.K {
	case token.TypeVar:
		name := p.tok.Text
		p.advance()

		return &ast.TyVar{Base: ast.NewBase(p.span(begin)), Name: name}
	case token.Ident:
		name := p.tok.Text
		p.advance()

		return &ast.TyCon{Base: ast.NewBase(p.span(begin)), Name: name}
	case token.LBrace:
		return p.parseRecordType()
	case token.LParen:
		return p.parseParenType()
	default:
		p.fail("expected a type")
		return nil
	}
}

// parseParenType parses `(T)` and the multi-argument constructor form
// `(T1, ..., Tn) C`.
func (p *Parser) parseParenType() ast.TypeExpr {
	p.advance() // '('

	first := p.parseType()

	if p.at(token.Comma) {
		args := []ast.TypeExpr{first}

		for p.at(token.Comma) {
			p.advance()

			args = append(args, p.parseType())
		}

		p.expect(token.RParen, "')'")

		begin := args[0].Begin()
		name := p.expect(token.Ident, "a type constructor name after ')'").Text

		return &ast.TyCon{Base: ast.NewBase(p.span(begin)), Name: name, Args: args}
	}

	p.expect(token.RParen, "')'")

	return first
}

// parseRecordType parses `{l1 : T1, ..., ln : Tn}`, with an optional
// trailing `...` marking an open row (§4.4's progressive-type notation).
func (p *Parser) parseRecordType() ast.TypeExpr {
	begin := p.tok.Pos().Begin
	p.advance() // '{'

	if p.at(token.RBrace) {
		p.advance()
		return &ast.TyRecord{Base: ast.NewBase(p.span(begin))}
	}

	var fields []ast.TyRecordField

	open := false

	for {
		if p.at(token.DotDotDot) {
			p.advance()

			open = true

			break
		}

		label := p.parseLabel()
		p.expect(token.Colon, "':'")

		ty := p.parseType()
		fields = append(fields, ast.TyRecordField{Label: label, Type: ty})

		if !p.at(token.Comma) {
			break
		}

		p.advance()
	}

	p.expect(token.RBrace, "'}'")

	return &ast.TyRecord{Base: ast.NewBase(p.span(begin)), Fields: fields, Open: open}
}
