package parser

import (
	"github.com/scenic-lang/scenic/core/ast"
	"github.com/scenic-lang/scenic/core/token"
)

// Operator precedence inside where clauses. NOT is a prefix operator above
// both and binds tightest.
const (
	precOr  = 4
	precAnd = 5
)

// parseDataCondition parses a where-clause filter with precedence climbing:
// and binds tighter than or, both left-associative, so
// a == 1 and b == 2 or c == 3 groups as ((a == 1 and b == 2) or c == 3).
func (p *Parser) parseDataCondition() (ast.DataCondition, error) {
	return p.dataCondition(precOr)
}

func (p *Parser) dataCondition(minPrec int) (ast.DataCondition, error) {
	left, err := p.dataPrimary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.LogicOp
		var prec int
		switch p.peek(0) {
		case token.AND:
			op, prec = ast.LogicAnd, precAnd
		case token.OR:
			op, prec = ast.LogicOr, precOr
		default:
			return left, nil
		}
		if prec < minPrec {
			return left, nil
		}
		opPos := p.next().Pos
		if !startsDataPrimary(p.peek(0)) {
			return nil, p.errOperand("where clause")
		}
		// prec+1 keeps equal-precedence operators left-associative.
		right, err := p.dataCondition(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryCondition{Op: op, Left: left, Right: right, Pos: opPos}
	}
}

func startsDataPrimary(t token.Type) bool {
	return t == token.NOT || t == token.LPAREN || t == token.IDENT
}

func (p *Parser) dataPrimary() (ast.DataCondition, error) {
	switch p.peek(0) {
	case token.NOT:
		pos := p.next().Pos
		inner, err := p.dataPrimary()
		if err != nil {
			return nil, err
		}
		return &ast.NotCondition{Inner: inner, Pos: pos}, nil

	case token.LPAREN:
		p.next()
		inner, err := p.dataCondition(precOr)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "parenthesized condition"); err != nil {
			return nil, err
		}
		return inner, nil

	case token.IDENT:
		return p.dataComparison()

	default:
		return nil, p.errUnexpected("data condition",
			token.NOT, token.LPAREN, token.IDENT)
	}
}

// dataComparison parses one comparison leaf: a column name followed by a
// comparison operator, textual match, membership test, emptiness/null test,
// or date comparison.
func (p *Parser) dataComparison() (ast.DataCondition, error) {
	fieldTok := p.next()
	field := fieldTok.Text
	pos := fieldTok.Pos

	switch {
	case p.peek(0).IsCompareOp():
		op := compareOpOf(p.next().Type)
		if !startsExpression(p.peek(0)) {
			return nil, p.errOperand("where clause")
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.FieldComparison{Field: field, Op: op, Value: value, Pos: pos}, nil

	case p.peek(0) == token.CONTAINS:
		p.next()
		return p.finishTextMatch(field, ast.TextContains, pos)

	case p.peek(0) == token.STARTS:
		p.next()
		if _, err := p.expect(token.WITH, "starts-with condition"); err != nil {
			return nil, err
		}
		return p.finishTextMatch(field, ast.TextStartsWith, pos)

	case p.peek(0) == token.ENDS:
		p.next()
		if _, err := p.expect(token.WITH, "ends-with condition"); err != nil {
			return nil, err
		}
		return p.finishTextMatch(field, ast.TextEndsWith, pos)

	case p.peek(0) == token.MATCHES:
		p.next()
		return p.finishTextMatch(field, ast.TextMatches, pos)

	case p.peek(0) == token.IN:
		return p.parseInList(field, false, pos)

	case p.peek(0) == token.NOT && p.peek(1) == token.IN:
		p.next()
		return p.parseInList(field, true, pos)

	case p.peek(0) == token.IS:
		p.next()
		switch p.peek(0) {
		case token.EMPTY:
			p.next()
			return &ast.EmptyCondition{Field: field, Pos: pos}, nil
		case token.NOT:
			p.next()
			if _, err := p.expect(token.EMPTY, "emptiness condition"); err != nil {
				return nil, err
			}
			return &ast.EmptyCondition{Field: field, Negated: true, Pos: pos}, nil
		case token.NULL:
			p.next()
			return &ast.NullCondition{Field: field, Pos: pos}, nil
		default:
			return nil, p.errUnexpected("is condition",
				token.EMPTY, token.NOT, token.NULL)
		}

	case p.peek(0) == token.BEFORE:
		p.next()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.DateCondition{Field: field, Op: ast.DateBefore, Value: value, Pos: pos}, nil

	case p.peek(0) == token.AFTER:
		p.next()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.DateCondition{Field: field, Op: ast.DateAfter, Value: value, Pos: pos}, nil

	case p.peek(0) == token.BETWEEN:
		p.next()
		lo, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.AND, "between condition"); err != nil {
			return nil, err
		}
		hi, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.DateCondition{
			Field: field, Op: ast.DateBetween, Value: lo, Upper: hi, Pos: pos,
		}, nil

	default:
		return nil, p.errUnexpected("data comparison",
			token.EQ_EQ, token.NOT_EQ, token.GT, token.LT, token.GT_EQ, token.LT_EQ,
			token.CONTAINS, token.STARTS, token.ENDS, token.MATCHES,
			token.IN, token.IS, token.BEFORE, token.AFTER, token.BETWEEN)
	}
}

func (p *Parser) finishTextMatch(field string, op ast.TextOp, pos token.Position) (ast.DataCondition, error) {
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.TextMatch{Field: field, Op: op, Value: value, Pos: pos}, nil
}

func (p *Parser) parseInList(field string, negated bool, pos token.Position) (ast.DataCondition, error) {
	p.next() // in
	if _, err := p.expect(token.LSQUARE, "membership condition"); err != nil {
		return nil, err
	}
	values, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RSQUARE, "membership condition"); err != nil {
		return nil, err
	}
	return &ast.InListCondition{Field: field, Negated: negated, Values: values, Pos: pos}, nil
}
