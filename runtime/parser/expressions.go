package parser

import (
	"github.com/scenic-lang/scenic/core/ast"
	"github.com/scenic-lang/scenic/core/token"
	"github.com/scenic-lang/scenic/runtime/lexer"
)

// memberName reports whether a token can serve as a member name after a
// dot. Reserved words are identifier-shaped, so page members may reuse them
// (x.field, form.check, nav.link).
func memberName(t token.Type) bool {
	return t == token.IDENT || t.IsKeyword()
}

// startsExpression reports whether a token kind can begin a plain expression.
func startsExpression(t token.Type) bool {
	switch t {
	case token.STRING_LIT, token.NUMBER_LIT, token.IDENT, token.LPAREN:
		return true
	}
	return false
}

// parseExpression parses a plain value expression. The plain grammar has no
// infix operators; the only recursion is through parentheses, which
// contribute grouping but no node of their own.
func (p *Parser) parseExpression() (ast.Expression, error) {
	switch p.peek(0) {
	case token.STRING_LIT:
		t := p.next()
		return &ast.StringLit{Value: t.Text, Pos: t.Pos}, nil

	case token.NUMBER_LIT:
		t := p.next()
		return &ast.NumberLit{Value: lexer.ParseNumber(t.Text), Raw: t.Text, Pos: t.Pos}, nil

	case token.IDENT:
		t := p.next()
		if p.peek(0) == token.DOT && memberName(p.peek(1)) {
			p.next()
			member := p.next()
			return &ast.PageRef{Object: t.Text, Member: member.Text, Pos: t.Pos}, nil
		}
		return &ast.Ident{Name: t.Text, Pos: t.Pos}, nil

	case token.LPAREN:
		p.next()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "parenthesized expression"); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		return nil, p.errUnexpected("expression",
			token.STRING_LIT, token.NUMBER_LIT, token.IDENT, token.LPAREN)
	}
}

// parseSelector parses an element reference: page.field, a bare identifier,
// or an inline selector string.
func (p *Parser) parseSelector() (ast.Selector, error) {
	switch p.peek(0) {
	case token.IDENT:
		t := p.next()
		if p.peek(0) == token.DOT && memberName(p.peek(1)) {
			p.next()
			member := p.next()
			return &ast.PageRef{Object: t.Text, Member: member.Text, Pos: t.Pos}, nil
		}
		return &ast.Ident{Name: t.Text, Pos: t.Pos}, nil
	case token.STRING_LIT:
		t := p.next()
		return &ast.StringLit{Value: t.Text, Pos: t.Pos}, nil
	default:
		return nil, p.errUnexpected("selector", token.IDENT, token.STRING_LIT)
	}
}

// parseExprList parses a comma-separated expression list, at least one.
func (p *Parser) parseExprList() ([]ast.Expression, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	exprs := []ast.Expression{expr}
	for p.accept(token.COMMA) {
		expr, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func compareOpOf(t token.Type) ast.CompareOp {
	switch t {
	case token.GT:
		return ast.OpGT
	case token.LT:
		return ast.OpLT
	case token.GT_EQ:
		return ast.OpGE
	case token.LT_EQ:
		return ast.OpLE
	case token.EQ_EQ:
		return ast.OpEQ
	default:
		return ast.OpNE
	}
}

// parseBoolExpr parses the test of an if statement. Tried in order:
// selector is [not] condition, expr compare-op expr, bare truthy expr. One
// token past the leading expression decides which shape applies.
func (p *Parser) parseBoolExpr() (ast.BoolExpr, error) {
	pos := p.at().Pos
	left, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	switch {
	case p.peek(0) == token.IS:
		p.next()
		negated := p.accept(token.NOT)
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		return &ast.StateCheck{Target: left, Negated: negated, Cond: cond, Pos: pos}, nil

	case p.peek(0).IsCompareOp():
		op := compareOpOf(p.next().Type)
		if !startsExpression(p.peek(0)) {
			return nil, p.errOperand("comparison")
		}
		right, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.Comparison{Left: left, Op: op, Right: right, Pos: pos}, nil

	default:
		return &ast.Truthy{Value: left}, nil
	}
}

// parseCondition parses an element state: visible, hidden, enabled,
// disabled, checked, empty, or contains expr.
func (p *Parser) parseCondition() (*ast.Condition, error) {
	tok := p.at()
	cond := &ast.Condition{Pos: tok.Pos}
	switch tok.Type {
	case token.VISIBLE:
		cond.Kind = ast.CondVisible
	case token.HIDDEN:
		cond.Kind = ast.CondHidden
	case token.ENABLED:
		cond.Kind = ast.CondEnabled
	case token.DISABLED:
		cond.Kind = ast.CondDisabled
	case token.CHECKED:
		cond.Kind = ast.CondChecked
	case token.EMPTY:
		cond.Kind = ast.CondEmpty
	case token.CONTAINS:
		p.next()
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		cond.Kind = ast.CondContains
		cond.Arg = arg
		return cond, nil
	default:
		return nil, p.errUnexpected("element condition",
			token.VISIBLE, token.HIDDEN, token.ENABLED, token.DISABLED,
			token.CHECKED, token.EMPTY, token.CONTAINS)
	}
	p.next()
	return cond, nil
}
