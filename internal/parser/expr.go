package parser

import (
	"strconv"

	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/token"
)

// parseExpr parses a full expression at the lowest precedence level
// (type annotation / handle), spec.md §4.3's precedence table item 9.
func (p *Parser) parseExpr() ast.Expr {
	begin := p.tok.Pos().Begin
	e := p.parseImplies()

	for {
		switch {
		case p.at(token.KwHandle):
			p.advance()

			clauses := p.parseMatchClauses()
			e = &ast.HandleExpr{Base: ast.NewBase(p.span(begin)), Body: e, Clauses: clauses}
		case p.at(token.Colon):
			p.advance()

			ty := p.parseType()
			e = &ast.Annot{Base: ast.NewBase(p.span(begin)), Expr: e, Type: ty}
		default:
			return e
		}
	}
}

func (p *Parser) parseImplies() ast.Expr {
	begin := p.tok.Pos().Begin
	left := p.parseOrelse()

	for p.at(token.KwImplies) {
		p.advance()

		right := p.parseOrelse()
		left = &ast.Implies{Base: ast.NewBase(p.span(begin)), Left: left, Right: right}
	}

	return left
}

func (p *Parser) parseOrelse() ast.Expr {
	begin := p.tok.Pos().Begin
	left := p.parseAndalso()

	for p.at(token.KwOrelse) {
		p.advance()

		right := p.parseAndalso()
		left = &ast.Orelse{Base: ast.NewBase(p.span(begin)), Left: left, Right: right}
	}

	return left
}

func (p *Parser) parseAndalso() ast.Expr {
	begin := p.tok.Pos().Begin
	left := p.parseComparison()

	for p.at(token.KwAndalso) {
		p.advance()

		right := p.parseComparison()
		left = &ast.Andalso{Base: ast.NewBase(p.span(begin)), Left: left, Right: right}
	}

	return left
}

var comparisonOps = map[token.Kind]ast.InfixOp{
	token.Eq: ast.OpEq, token.NeOp: ast.OpNe, token.LtOp: ast.OpLt,
	token.LeOp: ast.OpLe, token.GtOp: ast.OpGt, token.GeOp: ast.OpGe,
	token.KwElem: ast.OpElem, token.KwNotelem: ast.OpNotElem,
}

func (p *Parser) parseComparison() ast.Expr {
	begin := p.tok.Pos().Begin
	left := p.parseCons()

	for {
		op, ok := comparisonOps[p.tok.K]
		if !ok {
			return left
		}

		p.advance()

		right := p.parseCons()
		left = &ast.Infix{Base: ast.NewBase(p.span(begin)), Op: op, Left: left, Right: right}
	}
}

// parseCons handles `::`, right-associative.
func (p *Parser) parseCons() ast.Expr {
	begin := p.tok.Pos().Begin
	left := p.parseAdditive()

	if p.at(token.ColonCC) {
		p.advance()

		right := p.parseCons()

		return &ast.Infix{Base: ast.NewBase(p.span(begin)), Op: ast.OpCons, Left: left, Right: right}
	}

	return left
}

var additiveOps = map[token.Kind]ast.InfixOp{
	token.Plus: ast.OpAdd, token.Minus: ast.OpSub, token.Caret: ast.OpConcat,
}

func (p *Parser) parseAdditive() ast.Expr {
	begin := p.tok.Pos().Begin
	left := p.parseMultiplicative()

	for {
		op, ok := additiveOps[p.tok.K]
		if !ok {
			return left
		}

		p.advance()

		right := p.parseMultiplicative()
		left = &ast.Infix{Base: ast.NewBase(p.span(begin)), Op: op, Left: left, Right: right}
	}
}

var multiplicativeOps = map[token.Kind]ast.InfixOp{
	token.Star: ast.OpMul, token.Slash: ast.OpDiv,
	token.KwDiv: ast.OpDivInt, token.KwMod: ast.OpMod,
}

func (p *Parser) parseMultiplicative() ast.Expr {
	begin := p.tok.Pos().Begin
	left := p.parseApply()

	for {
		op, ok := multiplicativeOps[p.tok.K]
		if !ok {
			return left
		}

		p.advance()

		right := p.parseApply()
		left = &ast.Infix{Base: ast.NewBase(p.span(begin)), Op: op, Left: left, Right: right}
	}
}

// startsAtom reports whether the current token can begin an atomic
// expression, the class of expressions allowed as a bare application
// argument (literals, identifiers, parens/tuples, records, lists,
// `#label`, query expressions) — `if`/`case`/`fn`/`raise`/`handle` are
// not atomic and need parens to appear as an argument, matching
// Standard ML's own atomic-expression grammar.
func (p *Parser) startsAtom() bool {
	switch p.tok.K {
	case token.IntLit, token.RealLit, token.StringLit, token.CharLit,
		token.KwTrue, token.KwFalse, token.Ident, token.QuotedIdent,
		token.LParen, token.LBrace, token.LBrack, token.Hash,
		token.KwFrom, token.KwExists, token.KwForall, token.Tilde,
		token.KwLet, token.KwNot:
		return true
	default:
		return false
	}
}

// parseApply parses left-associative juxtaposition application over
// atomic expressions.
func (p *Parser) parseApply() ast.Expr {
	begin := p.tok.Pos().Begin
	left := p.parseAtomPostfix()

	for p.startsAtom() {
		arg := p.parseAtomPostfix()
		left = &ast.Apply{Base: ast.NewBase(p.span(begin)), Fn: left, Arg: arg}
	}

	return left
}

// parseAtomPostfix parses an atom followed by any number of `.label`
// field-access suffixes, which bind tighter than application.
func (p *Parser) parseAtomPostfix() ast.Expr {
	begin := p.tok.Pos().Begin
	e := p.parseAtom()

	for p.at(token.Dot) {
		p.advance()

		label := p.parseLabel()
		e = &ast.FieldAccess{Base: ast.NewBase(p.span(begin)), Record: e, Label: label}
	}

	return e
}

// parseLabel accepts an identifier or an int literal (tuple/positional
// labels, e.g. `t.1`) as a record label.
func (p *Parser) parseLabel() string {
	switch p.tok.K {
	case token.Ident:
		name := p.tok.Text
		p.advance()

		return name
	case token.IntLit:
		n := p.tok.Int
		p.advance()

		return intLabel(n)
	default:
		p.fail("expected a field label")
		return ""
	}
}

func (p *Parser) parseAtom() ast.Expr {
	begin := p.tok.Pos().Begin

	switch p.tok.K {
	case token.IntLit:
		v := p.tok.Int
		p.advance()

		return &ast.LitInt{Base: ast.NewBase(p.span(begin)), Value: v}
	case token.RealLit:
		v := p.tok.Real
		p.advance()

		return &ast.LitReal{Base: ast.NewBase(p.span(begin)), Value: v}
	case token.StringLit:
		v := p.tok.Text
		p.advance()

		return &ast.LitString{Base: ast.NewBase(p.span(begin)), Value: v}
	case token.CharLit:
		v := rune(p.tok.Int)
		p.advance()

		return &ast.LitChar{Base: ast.NewBase(p.span(begin)), Value: v}
	case token.KwTrue:
		p.advance()
		return &ast.LitBool{Base: ast.NewBase(p.span(begin)), Value: true}
	case token.KwFalse:
		p.advance()
		return &ast.LitBool{Base: ast.NewBase(p.span(begin)), Value: false}
	case token.Tilde:
		p.advance()

		operand := p.parseAtomPostfix()

		return &ast.Negate{Base: ast.NewBase(p.span(begin)), Operand: operand}
	case token.KwNot:
		p.advance()

		operand := p.parseAtomPostfix()

		return &ast.Not{Base: ast.NewBase(p.span(begin)), Operand: operand}
	case token.Ident:
		name := p.tok.Text
		p.advance()

		return &ast.Ident{Base: ast.NewBase(p.span(begin)), Name: name}
	case token.QuotedIdent:
		name := p.tok.Text
		p.advance()

		return &ast.Ident{Base: ast.NewBase(p.span(begin)), Name: name}
	case token.Hash:
		p.advance()

		label := p.parseLabel()

		if p.startsAtom() {
			arg := p.parseAtomPostfix()
			return &ast.FieldAccess{Base: ast.NewBase(p.span(begin)), Record: arg, Label: label}
		}

		// Bare `#label`: a first-class projection function `fn x => x.label`.
		sp := p.span(begin)
		v := &ast.PVar{Base: ast.NewBase(sp), Name: "%proj"}

		return &ast.FnExpr{
			Base: ast.NewBase(sp),
			Clauses: []ast.MatchClause{{
				Pat:  v,
				Body: &ast.FieldAccess{Base: ast.NewBase(sp), Record: &ast.Ident{Base: ast.NewBase(sp), Name: "%proj"}, Label: label},
			}},
		}
	case token.LParen:
		return p.parseParenExpr()
	case token.LBrace:
		return p.parseRecordExpr()
	case token.LBrack:
		return p.parseListExpr()
	case token.KwIf:
		return p.parseIfExpr()
	case token.KwLet:
		return p.parseLetExpr()
	case token.KwFn:
		return p.parseFnExpr()
	case token.KwCase:
		return p.parseCaseExpr()
	case token.KwRaise:
		p.advance()

		e := p.parseExpr()

		return &ast.RaiseExpr{Base: ast.NewBase(p.span(begin)), Exn: e}
	case token.KwFrom, token.KwExists, token.KwForall:
		return p.parseQueryExpr()
	default:
		p.fail("unexpected token in expression")
		return nil
	}
}

func intLabel(n int64) string {
	return strconv.Itoa(int(n))
}

func (p *Parser) parseParenExpr() ast.Expr {
	begin := p.tok.Pos().Begin
	p.advance() // '('

	if p.at(token.RParen) {
		p.advance()
		return &ast.LitUnit{Base: ast.NewBase(p.span(begin))}
	}

	first := p.parseExpr()

	if p.at(token.Comma) {
		elems := []ast.Expr{first}

		for p.at(token.Comma) {
			p.advance()

			elems = append(elems, p.parseExpr())
		}

		p.expect(token.RParen, "')'")

		return &ast.TupleExpr{Base: ast.NewBase(p.span(begin)), Elems: elems}
	}

	p.expect(token.RParen, "')'")

	return first
}

// parseRecordExpr parses `{...}`, handling plain fields `l = e`, punned
// fields `x` (sugar for `x = x`), label-elision `e.f` (sugar for
// `f = e.f`), and `{r with l1 = e1, ...}` record update.
func (p *Parser) parseRecordExpr() ast.Expr {
	begin := p.tok.Pos().Begin
	p.advance() // '{'

	if p.at(token.RBrace) {
		p.advance()
		return &ast.LitUnit{Base: ast.NewBase(p.span(begin))}
	}

	// Disambiguate `{r with ...}` from a normal field list: a record
	// update always starts with an identifier immediately followed by the
	// contextual keyword `with` (lexed as a plain identifier, since it is
	// not reserved outside this position).
	if p.at(token.Ident) && p.peek().K == token.Ident && p.peek().Text == "with" {
		baseBegin := p.tok.Pos().Begin
		name := p.tok.Text
		p.advance() // ident
		p.advance() // "with"

		baseExpr := ast.Expr(&ast.Ident{Base: ast.NewBase(p.span(baseBegin)), Name: name})

		var fields []ast.RecordField

		for {
			fields = append(fields, p.parseRecordField())
			if !p.at(token.Comma) {
				break
			}

			p.advance()
		}

		p.expect(token.RBrace, "'}'")

		return &ast.RecordUpdate{Base: ast.NewBase(p.span(begin)), Record: baseExpr, Fields: fields}
	}

	var fields []ast.RecordField

	for {
		fields = append(fields, p.parseRecordField())
		if !p.at(token.Comma) {
			break
		}

		p.advance()
	}

	p.expect(token.RBrace, "'}'")

	return &ast.RecordExpr{Base: ast.NewBase(p.span(begin)), Fields: fields}
}

func (p *Parser) parseRecordField() ast.RecordField {
	begin := p.tok.Pos().Begin

	// Label-elision shorthand `{e.f, x}` -> `{f = e.f, x = x}`: parse a
	// full expression first, then decide.
	e := p.parseExpr()

	if p.at(token.Eq) {
		// Only a bare identifier can be a label on the left of '='.
		id, ok := e.(*ast.Ident)
		if !ok {
			p.fail("record field label must be an identifier")
		}

		p.advance()

		val := p.parseExpr()

		return ast.RecordField{Label: id.Name, Value: val}
	}

	switch e := e.(type) {
	case *ast.Ident:
		return ast.RecordField{Label: e.Name, Value: e}
	case *ast.FieldAccess:
		return ast.RecordField{Label: e.Label, Value: e}
	default:
		p.fail("expected 'label = expr', a punned identifier, or 'e.label'")
		_ = begin

		return ast.RecordField{}
	}
}

func (p *Parser) parseListExpr() ast.Expr {
	begin := p.tok.Pos().Begin
	p.advance() // '['

	var elems []ast.Expr

	if !p.at(token.RBrack) {
		elems = append(elems, p.parseExpr())

		for p.at(token.Comma) {
			p.advance()

			elems = append(elems, p.parseExpr())
		}
	}

	p.expect(token.RBrack, "']'")

	return &ast.ListExpr{Base: ast.NewBase(p.span(begin)), Elems: elems}
}

func (p *Parser) parseIfExpr() ast.Expr {
	begin := p.tok.Pos().Begin
	p.advance() // if

	cond := p.parseExpr()
	p.expect(token.KwThen, "'then'")

	then := p.parseExpr()
	p.expect(token.KwElse, "'else'")

	els := p.parseExpr()

	return &ast.IfExpr{Base: ast.NewBase(p.span(begin)), Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseLetExpr() ast.Expr {
	begin := p.tok.Pos().Begin
	p.advance() // let

	var decls []ast.Decl
	for !p.at(token.KwIn) {
		decls = append(decls, p.parseDecl())
	}

	p.expect(token.KwIn, "'in'")

	body := p.parseExpr()

	p.expect(token.KwEnd, "'end'")

	return &ast.LetExpr{Base: ast.NewBase(p.span(begin)), Decls: decls, Body: body}
}

func (p *Parser) parseFnExpr() ast.Expr {
	begin := p.tok.Pos().Begin
	p.advance() // fn

	clauses := p.parseMatchClauses()

	return &ast.FnExpr{Base: ast.NewBase(p.span(begin)), Clauses: clauses}
}

func (p *Parser) parseCaseExpr() ast.Expr {
	begin := p.tok.Pos().Begin
	p.advance() // case

	scrutinee := p.parseExpr()
	p.expect(token.KwOf, "'of'")

	clauses := p.parseMatchClauses()

	return &ast.CaseExpr{Base: ast.NewBase(p.span(begin)), Scrutinee: scrutinee, Clauses: clauses}
}

// parseMatchClauses parses `p1 => e1 | p2 => e2 | ...`, used by fn, case
// and handle (§4.3: "`|` ... has the lowest precedence within its form").
func (p *Parser) parseMatchClauses() []ast.MatchClause {
	var clauses []ast.MatchClause

	for {
		pat := p.parsePattern()
		p.expect(token.DArrow, "'=>'")

		body := p.parseExpr()
		clauses = append(clauses, ast.MatchClause{Pat: pat, Body: body})

		if !p.at(token.Bar) {
			break
		}

		p.advance()
	}

	return clauses
}
