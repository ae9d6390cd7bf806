package parser

import (
	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/token"
)

// parsePattern parses a full pattern: a cons-chain, optionally annotated
// with a type, or a layered pattern `name as pat` whose left side must be
// a variable (spec.md §4.5.1's PAs, written as in Standard ML).
func (p *Parser) parsePattern() ast.Pat {
	begin := p.tok.Pos().Begin
	left := p.parseConsPattern()

	if p.at(token.Colon) {
		p.advance()

		ty := p.parseType()
		left = &ast.PAnnot{Base: ast.NewBase(p.span(begin)), Pat: left, Type: ty}
	}

	if p.at(token.KwAs) {
		v, ok := left.(*ast.PVar)
		if !ok {
			p.fail("'as' pattern requires a variable name on the left")
		}

		p.advance()

		rest := p.parsePattern()
		left = &ast.PAs{Base: ast.NewBase(p.span(begin)), Name: v.Name, Pat: rest}
	}

	return left
}

// parseConsPattern handles `::`, right-associative, as in expressions.
func (p *Parser) parseConsPattern() ast.Pat {
	begin := p.tok.Pos().Begin
	left := p.parseAppPattern()

	if p.at(token.ColonCC) {
		p.advance()

		right := p.parseConsPattern()

		return &ast.PCons{Base: ast.NewBase(p.span(begin)), Head: left, Tail: right}
	}

	return left
}

// parseAppPattern handles constructor application `C p`. The grammar can't
// tell a nullary constructor reference from a plain variable without the
// environment, so a bare identifier always parses as PVar; the elaborator
// reclassifies it to a nullary PCon when the name is a known constructor.
func (p *Parser) parseAppPattern() ast.Pat {
	begin := p.tok.Pos().Begin

	if p.at(token.Ident) {
		name := p.tok.Text
		p.advance()

		if p.startsAtomPattern() {
			arg := p.parseAtomPattern()
			return &ast.PCon{Base: ast.NewBase(p.span(begin)), Name: name, Arg: arg}
		}

		return &ast.PVar{Base: ast.NewBase(p.span(begin)), Name: name}
	}

	return p.parseAtomPattern()
}

func (p *Parser) startsAtomPattern() bool {
	switch p.tok.K {
	case token.Underscr, token.IntLit, token.RealLit, token.StringLit, token.CharLit,
		token.KwTrue, token.KwFalse, token.Ident, token.QuotedIdent,
		token.LParen, token.LBrace, token.LBrack, token.Tilde:
		return true
	default:
		return false
	}
}

func (p *Parser) parseAtomPattern() ast.Pat {
	begin := p.tok.Pos().Begin

	switch p.tok.K {
	case token.Underscr:
		p.advance()
		return &ast.PWildcard{Base: ast.NewBase(p.span(begin))}
	case token.IntLit:
		v := p.tok.Int
		p.advance()

		return &ast.PLitInt{Base: ast.NewBase(p.span(begin)), Value: v}
	case token.RealLit:
		v := p.tok.Real
		p.advance()

		return &ast.PLitReal{Base: ast.NewBase(p.span(begin)), Value: v}
	case token.StringLit:
		v := p.tok.Text
		p.advance()

		return &ast.PLitString{Base: ast.NewBase(p.span(begin)), Value: v}
	case token.CharLit:
		v := rune(p.tok.Int)
		p.advance()

		return &ast.PLitChar{Base: ast.NewBase(p.span(begin)), Value: v}
	case token.KwTrue:
		p.advance()
		return &ast.PLitBool{Base: ast.NewBase(p.span(begin)), Value: true}
	case token.KwFalse:
		p.advance()
		return &ast.PLitBool{Base: ast.NewBase(p.span(begin)), Value: false}
	case token.Tilde:
		p.advance()

		switch p.tok.K {
		case token.IntLit:
			v := p.tok.Int
			p.advance()

			return &ast.PLitInt{Base: ast.NewBase(p.span(begin)), Value: -v}
		case token.RealLit:
			v := p.tok.Real
			p.advance()

			return &ast.PLitReal{Base: ast.NewBase(p.span(begin)), Value: -v}
		default:
			p.fail("expected a numeric literal after '~' in pattern")
			return nil
		}
	case token.Ident:
		name := p.tok.Text
		p.advance()

		return &ast.PVar{Base: ast.NewBase(p.span(begin)), Name: name}
	case token.QuotedIdent:
		name := p.tok.Text
		p.advance()

		return &ast.PVar{Base: ast.NewBase(p.span(begin)), Name: name}
	case token.LParen:
		return p.parseParenPattern()
	case token.LBrace:
		return p.parseRecordPattern()
	case token.LBrack:
		return p.parseListPattern()
	default:
		p.fail("expected a pattern")
		return nil
	}
}

// parseParenPattern parses `()`, `(p)`, and `(p1, ..., pn)`. A nested
// pattern may itself use `as`/`::`/`:`, since parentheses reopen the full
// pattern grammar (e.g. `(x as (y, z))`).
func (p *Parser) parseParenPattern() ast.Pat {
	begin := p.tok.Pos().Begin
	p.advance() // '('

	if p.at(token.RParen) {
		p.advance()
		return &ast.PTuple{Base: ast.NewBase(p.span(begin))}
	}

	first := p.parsePattern()

	if p.at(token.Comma) {
		elems := []ast.Pat{first}

		for p.at(token.Comma) {
			p.advance()

			elems = append(elems, p.parsePattern())
		}

		p.expect(token.RParen, "')'")

		return &ast.PTuple{Base: ast.NewBase(p.span(begin)), Elems: elems}
	}

	p.expect(token.RParen, "')'")

	return first
}

// parseRecordPattern parses `{l1 = p1, ..., ln = pn}`, punned fields, and
// the open-row suffix `...` (spec.md §4.5.1).
func (p *Parser) parseRecordPattern() ast.Pat {
	begin := p.tok.Pos().Begin
	p.advance() // '{'

	if p.at(token.RBrace) {
		p.advance()
		return &ast.PRecord{Base: ast.NewBase(p.span(begin))}
	}

	var fields []ast.PRecordField

	open := false

	for {
		if p.at(token.DotDotDot) {
			p.advance()

			open = true

			break
		}

		fields = append(fields, p.parseRecordPatternField())

		if !p.at(token.Comma) {
			break
		}

		p.advance()
	}

	p.expect(token.RBrace, "'}'")

	return &ast.PRecord{Base: ast.NewBase(p.span(begin)), Fields: fields, Open: open}
}

func (p *Parser) parseRecordPatternField() ast.PRecordField {
	begin := p.tok.Pos().Begin
	label := p.parseLabel()

	if p.at(token.Eq) {
		p.advance()

		pat := p.parsePattern()

		return ast.PRecordField{Label: label, Pat: pat}
	}

	sp := p.span(begin)

	return ast.PRecordField{
		Label:     label,
		Pat:       &ast.PVar{Base: ast.NewBase(sp), Name: label},
		Shorthand: true,
	}
}

func (p *Parser) parseListPattern() ast.Pat {
	begin := p.tok.Pos().Begin
	p.advance() // '['

	var elems []ast.Pat

	if !p.at(token.RBrack) {
		elems = append(elems, p.parsePattern())

		for p.at(token.Comma) {
			p.advance()

			elems = append(elems, p.parsePattern())
		}
	}

	p.expect(token.RBrack, "']'")

	return &ast.PList{Base: ast.NewBase(p.span(begin)), Elems: elems}
}
