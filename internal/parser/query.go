package parser

import (
	"github.com/morel-lang/morel/internal/ast"
	"github.com/morel-lang/morel/internal/token"
)

// parseQueryExpr parses a `from`/`exists`/`forall` pipeline: a
// comma-separated scan list followed by zero or more steps (spec.md
// §4.9's grammar). Which terminal steps are legal for which QueryKind is
// an elaborator-level restriction, not a parser-level one.
func (p *Parser) parseQueryExpr() ast.Expr {
	begin := p.tok.Pos().Begin

	var kind ast.QueryKind

	switch p.tok.K {
	case token.KwExists:
		kind = ast.QueryExists
	case token.KwForall:
		kind = ast.QueryForall
	default:
		kind = ast.QueryFrom
	}

	p.advance()

	scans := p.parseScanList()

	var steps []ast.Step

	for {
		step, ok := p.tryParseStep()
		if !ok {
			break
		}

		steps = append(steps, step)
	}

	return &ast.QueryExpr{Base: ast.NewBase(p.span(begin)), Kind: kind, Scans: scans, Steps: steps}
}

func (p *Parser) parseScanList() []ast.Scan {
	scans := []ast.Scan{p.parseScan()}

	for p.at(token.Comma) {
		p.advance()

		scans = append(scans, p.parseScan())
	}

	return scans
}

// parseScan parses one `p in e [on c]`, the unbounded-variable form `p [on
// c]` (spec.md §4.9.5), or the singleton sugar `p = e` (equivalent to
// `p in [e]`).
func (p *Parser) parseScan() ast.Scan {
	pat := p.parsePattern()

	switch {
	case p.at(token.KwIn):
		p.advance()

		src := p.parseExpr()

		var cond ast.Expr
		if p.at(token.KwOn) {
			p.advance()

			cond = p.parseExpr()
		}

		return ast.Scan{Pat: pat, Source: src, Condition: cond}
	case p.at(token.Eq):
		p.advance()

		e := p.parseExpr()
		list := &ast.ListExpr{Base: ast.NewBase(ast.Sp(e.Begin(), e.End())), Elems: []ast.Expr{e}}

		var cond ast.Expr
		if p.at(token.KwOn) {
			p.advance()

			cond = p.parseExpr()
		}

		return ast.Scan{Pat: pat, Source: list, Condition: cond}
	default:
		var cond ast.Expr
		if p.at(token.KwOn) {
			p.advance()

			cond = p.parseExpr()
		}

		return ast.Scan{Pat: pat, Unbounded: true, Condition: cond}
	}
}

// tryParseStep parses one pipeline step if the current token starts one,
// reporting false (without consuming anything) otherwise so the caller
// knows the step sequence has ended.
func (p *Parser) tryParseStep() (ast.Step, bool) {
	begin := p.tok.Pos().Begin

	switch p.tok.K {
	case token.KwWhere:
		p.advance()

		cond := p.parseExpr()

		return &ast.StepWhere{Base: ast.NewBase(p.span(begin)), Cond: cond}, true

	case token.KwYield:
		p.advance()

		e := p.parseExpr()

		return &ast.StepYield{Base: ast.NewBase(p.span(begin)), Expr: e}, true

	case token.Ident:
		// `yieldall e` flattens a collection-valued expression into the
		// pipeline (§4.9's step table); it is lexed as a plain identifier
		// rather than a reserved word, since it only matters in step
		// position.
		if p.tok.Text == "yieldall" {
			p.advance()

			e := p.parseExpr()

			return &ast.StepYieldAll{Base: ast.NewBase(p.span(begin)), Expr: e}, true
		}

		return nil, false

	case token.KwGroup:
		p.advance()

		keys := p.parseNamedExprList()

		var computes []ast.Agg
		if p.at(token.KwCompute) {
			p.advance()

			computes = p.parseAggList()
		}

		return &ast.StepGroup{Base: ast.NewBase(p.span(begin)), Keys: keys, Computes: computes}, true

	case token.KwDistinct:
		p.advance()
		return &ast.StepDistinct{Base: ast.NewBase(p.span(begin))}, true

	case token.KwOrder:
		p.advance()

		keys := p.parseOrderKeyList()

		return &ast.StepOrder{Base: ast.NewBase(p.span(begin)), Keys: keys}, true

	case token.KwUnorder:
		p.advance()
		return &ast.StepUnorder{Base: ast.NewBase(p.span(begin))}, true

	case token.KwSkip:
		p.advance()

		e := p.parseExpr()

		return &ast.StepSkip{Base: ast.NewBase(p.span(begin)), Count: e}, true

	case token.KwTake:
		p.advance()

		e := p.parseExpr()

		return &ast.StepTake{Base: ast.NewBase(p.span(begin)), Count: e}, true

	case token.KwJoin:
		p.advance()

		scans := p.parseScanList()

		return &ast.StepJoin{Base: ast.NewBase(p.span(begin)), Scans: scans}, true

	case token.KwUnion, token.KwIntersect, token.KwExcept:
		kindTok := p.tok.K
		p.advance()

		distinct := false
		if p.at(token.KwDistinct) {
			p.advance()

			distinct = true
		}

		exprs := []ast.Expr{p.parseExpr()}
		for p.at(token.Comma) {
			p.advance()

			exprs = append(exprs, p.parseExpr())
		}

		return &ast.StepSetOp{
			Base:     ast.NewBase(p.span(begin)),
			Kind:     setOpKind(kindTok),
			Distinct: distinct,
			Exprs:    exprs,
		}, true

	case token.KwThrough:
		p.advance()

		pat := p.parsePattern()
		p.expect(token.KwIn, "'in'")

		e := p.parseExpr()

		return &ast.StepThrough{Base: ast.NewBase(p.span(begin)), Pat: pat, Expr: e}, true

	case token.KwCompute:
		p.advance()

		aggs := p.parseAggList()

		return &ast.StepCompute{Base: ast.NewBase(p.span(begin)), Aggs: aggs}, true

	case token.KwInto:
		p.advance()

		e := p.parseExpr()

		return &ast.StepInto{Base: ast.NewBase(p.span(begin)), Expr: e}, true

	case token.KwRequire:
		p.advance()

		cond := p.parseExpr()

		return &ast.StepRequire{Base: ast.NewBase(p.span(begin)), Cond: cond}, true

	default:
		return nil, false
	}
}

func setOpKind(k token.Kind) ast.SetOpKind {
	switch k {
	case token.KwIntersect:
		return ast.SetIntersect
	case token.KwExcept:
		return ast.SetExcept
	default:
		return ast.SetUnion
	}
}

// parseNamedExpr parses `label = e` or a bare `e` (the elaborator derives
// a label from the tail of a field-access or bare identifier when none is
// given, per §4.9's "Aggregates" rule).
func (p *Parser) parseNamedExpr() ast.NamedExpr {
	if p.at(token.Ident) && p.peek().K == token.Eq {
		label := p.tok.Text
		p.advance() // ident
		p.advance() // '='

		e := p.parseExpr()

		return ast.NamedExpr{Label: label, Expr: e}
	}

	return ast.NamedExpr{Expr: p.parseExpr()}
}

func (p *Parser) parseNamedExprList() []ast.NamedExpr {
	list := []ast.NamedExpr{p.parseNamedExpr()}

	for p.at(token.Comma) {
		p.advance()

		list = append(list, p.parseNamedExpr())
	}

	return list
}

// parseAgg parses one `[name =] agg [over e]` aggregate specifier.
func (p *Parser) parseAgg() ast.Agg {
	var name string

	if p.at(token.Ident) && p.peek().K == token.Eq {
		name = p.tok.Text
		p.advance() // ident
		p.advance() // '='
	}

	aggExpr := p.parseApply()

	var over ast.Expr
	if p.at(token.KwOver) {
		p.advance()

		over = p.parseExpr()
	}

	return ast.Agg{Name: name, Agg: aggExpr, Over: over}
}

func (p *Parser) parseAggList() []ast.Agg {
	list := []ast.Agg{p.parseAgg()}

	for p.at(token.Comma) {
		p.advance()

		list = append(list, p.parseAgg())
	}

	return list
}

// parseOrderKey parses `e` or the `descending e` prefix form; "descending"
// is a contextual identifier, not a reserved word.
func (p *Parser) parseOrderKey() ast.OrderKey {
	desc := false

	if p.at(token.Ident) && p.tok.Text == "descending" {
		p.advance()

		desc = true
	}

	e := p.parseExpr()

	return ast.OrderKey{Expr: e, Descending: desc}
}

func (p *Parser) parseOrderKeyList() []ast.OrderKey {
	list := []ast.OrderKey{p.parseOrderKey()}

	for p.at(token.Comma) {
		p.advance()

		list = append(list, p.parseOrderKey())
	}

	return list
}
