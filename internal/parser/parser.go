// Package parser implements Morel's hand-written recursive-descent
// parser (spec.md §4.3), grounded on the teacher's parser2.Decoder: a
// struct carrying lexer state plus one token of lookahead, with methods
// corresponding to grammar productions rather than a generated table.
package parser

import (
	"io"

	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/diag"
	"github.com/morel-lang/morel/internal/token"
)

// Parser holds one token of lookahead over a token.Lexer and accumulates
// diagnostics, matching the Decoder's "hold current + prior token" shape.
type Parser struct {
	lex     *token.Lexer
	tok     token.Token
	peeked  *token.Token // one extra token of lookahead beyond tok, if fetched
	lastEnd token.Pos    // end position of the most recently consumed token
	errs    []*diag.PosError
	file    string
}

// abort is panicked to unwind out of a malformed unit back to the
// recovery point in parseUnitRecovering; spec.md §4.3 says "recovery is
// not required ... may stop", so recovery here is only at unit
// (top-level `;`) granularity, never finer.
type abort struct{ err *diag.PosError }

// New creates a Parser reading from r, attributing diagnostics to file.
func New(file string, r io.Reader) *Parser {
	p := &Parser{lex: token.NewLexer(file, r)}
	p.file = file
	p.advance()

	return p
}

func (p *Parser) advance() {
	p.lastEnd = p.tok.Pos().End

	if p.peeked != nil {
		p.tok = *p.peeked
		p.peeked = nil

		return
	}

	p.tok = p.nextFromLexer()
}

func (p *Parser) nextFromLexer() token.Token {
	tok, err := p.lex.Next()
	if err != nil {
		at := p.lastEnd
		if le, ok := err.(*token.LexError); ok {
			at = le.At
		}

		panic(abort{diag.NewError(token.Span{Begin: at, End: at}, "%s", err.Error())})
	}

	return tok
}

// peek returns the token after the current one, without consuming either.
func (p *Parser) peek() token.Token {
	if p.peeked == nil {
		t := p.nextFromLexer()
		p.peeked = &t
	}

	return *p.peeked
}

func (p *Parser) at(k token.Kind) bool { return p.tok.K == k }

func (p *Parser) fail(format string, args ...interface{}) {
	panic(abort{diag.NewError(p.tok.Pos(), format, args...)})
}

// expect consumes the current token if it has kind k, else aborts the unit.
func (p *Parser) expect(k token.Kind, what string) token.Token {
	if !p.at(k) {
		p.fail("expected %s", what)
	}

	t := p.tok
	p.advance()

	return t
}

// span builds the Span from begin to the end of the token just consumed.
func (p *Parser) span(begin token.Pos) token.Span {
	return token.Span{Begin: begin, End: p.lastEnd}
}

// ParseProgram parses the entire input as a sequence of `;`-terminated
// top-level declarations/expressions (spec.md §6.2's `program` rule),
// recovering to the next `;` after a malformed unit so a batch script
// with several errors still reports more than just the first.
func (p *Parser) ParseProgram() (*ast.Program, []*diag.PosError) {
	begin := p.tok.Pos().Begin

	var units []ast.Unit

	for !p.at(token.EOF) {
		unit, ok := p.parseUnitRecovering()
		if ok {
			units = append(units, unit)
		}
	}

	return &ast.Program{Units: units}, p.errs
}

// ParseOneUnit parses a single `;`-terminated unit and reports whether the
// input is now exhausted. internal/session does not call it; it parses
// with ParseProgram.
func (p *Parser) ParseOneUnit() (ast.Unit, bool, []*diag.PosError) {
	if p.at(token.EOF) {
		return ast.Unit{}, true, p.errs
	}

	unit, _ := p.parseUnitRecovering()

	return unit, p.at(token.EOF), p.errs
}

func (p *Parser) parseUnitRecovering() (unit ast.Unit, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ab, isAbort := r.(abort)
			if !isAbort {
				panic(r)
			}

			p.errs = append(p.errs, ab.err)
			p.recoverToSemi()
			ok = false
		}
	}()

	unit = p.parseUnit()
	ok = true

	return unit, ok
}

func (p *Parser) recoverToSemi() {
	for !p.at(token.Semi) && !p.at(token.EOF) {
		p.advanceSafely()
	}

	if p.at(token.Semi) {
		p.advanceSafely()
	}
}

// advanceSafely advances without panicking on a lex error, used only
// during error recovery where a second malformed token must not abort
// recovery itself.
func (p *Parser) advanceSafely() {
	tok, err := p.lex.Next()
	if err != nil {
		p.tok = token.Token{}
		return
	}

	p.tok = tok
}

func (p *Parser) parseUnit() ast.Unit {
	var unit ast.Unit

	switch p.tok.K {
	case token.KwVal, token.KwFun, token.KwDatatype, token.KwType, token.KwOver:
		unit.Decl = p.parseDecl()
	default:
		begin := p.tok.Pos().Begin
		e := p.parseExpr()
		unit.Decl = &ast.ValDecl{
			Base: ast.NewBase(p.span(begin)),
			Pat:  &ast.PVar{Base: ast.NewBase(p.span(begin)), Name: "it"},
			Expr: e,
		}
		unit.IsExprStmt = true
	}

	if p.at(token.Semi) {
		p.advance()
	} else if !p.at(token.EOF) {
		p.fail("expected ';'")
	}

	return unit
}
