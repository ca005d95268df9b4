package parser

import (
	"github.com/scenic-lang/scenic/core/ast"
	"github.com/scenic-lang/scenic/core/token"
)

// parseUtilityExpr parses a then-pipeline. then is the only operator and is
// left-associative: a then b then c groups as ((a then b) then c). Plain
// expressions are valid stages, so calls and values interleave freely.
func (p *Parser) parseUtilityExpr() (ast.UtilityExpr, error) {
	left, err := p.utilityPrimary()
	if err != nil {
		return nil, err
	}
	return p.pipelineLoop(left)
}

// pipelineLoop chains then-stages onto an already-parsed first stage.
func (p *Parser) pipelineLoop(left ast.UtilityExpr) (ast.UtilityExpr, error) {
	for p.peek(0) == token.THEN {
		pos := p.next().Pos
		if !startsUtilityPrimary(p.peek(0)) {
			return nil, p.errOperand("utility pipeline")
		}
		right, err := p.utilityPrimary()
		if err != nil {
			return nil, err
		}
		left = &ast.ThenExpr{Left: left, Right: right, Pos: pos}
	}
	return left, nil
}

func startsUtilityPrimary(t token.Type) bool {
	return t.IsUtilityFn() || startsExpression(t)
}

// utilityPrimary parses one pipeline stage: a utility call with its optional
// positional argument and prepositional clauses, or a plain expression.
func (p *Parser) utilityPrimary() (ast.UtilityExpr, error) {
	if !p.peek(0).IsUtilityFn() {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.PipelineValue{X: expr}, nil
	}

	tok := p.next()
	call := &ast.UtilityCall{Fn: utilityFnOf(tok.Type), Pos: tok.Pos}

	if startsExpression(p.peek(0)) {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		call.Arg = arg
	}

	for {
		switch p.peek(0) {
		case token.TO, token.WITH, token.BY, token.FROM, token.IN, token.AS, token.OF:
			keyword := p.next().Text
			value, err := p.parseClauseValue()
			if err != nil {
				return nil, err
			}
			call.Clauses = append(call.Clauses, ast.UtilityClause{Keyword: keyword, Value: value})

		case token.BETWEEN:
			p.next()
			lo, err := p.parseClauseValue()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.AND, "utility between clause"); err != nil {
				return nil, err
			}
			hi, err := p.parseClauseValue()
			if err != nil {
				return nil, err
			}
			call.Clauses = append(call.Clauses,
				ast.UtilityClause{Keyword: "between", Value: lo},
				ast.UtilityClause{Keyword: "and", Value: hi})

		default:
			return call, nil
		}
	}
}

// parseClauseValue parses a clause operand. Value-kind keywords double as
// conversion target names here (convert x to number), so they are accepted
// as bare identifiers.
func (p *Parser) parseClauseValue() (ast.Expression, error) {
	if t := p.at(); t.Type.IsValueKind() {
		p.next()
		return &ast.Ident{Name: t.Text, Pos: t.Pos}, nil
	}
	return p.parseExpression()
}

func utilityFnOf(t token.Type) ast.UtilityFn {
	switch t {
	case token.TRIM:
		return ast.UtilTrim
	case token.CONVERT:
		return ast.UtilConvert
	case token.EXTRACT:
		return ast.UtilExtract
	case token.REPLACE:
		return ast.UtilReplace
	case token.SPLIT:
		return ast.UtilSplit
	case token.JOIN:
		return ast.UtilJoin
	case token.LENGTH:
		return ast.UtilLength
	case token.PAD:
		return ast.UtilPad
	case token.ADD:
		return ast.UtilAdd
	case token.SUBTRACT:
		return ast.UtilSubtract
	case token.FORMAT:
		return ast.UtilFormat
	case token.ROUND:
		return ast.UtilRound
	case token.ABSOLUTE:
		return ast.UtilAbsolute
	case token.GENERATE:
		return ast.UtilGenerate
	case token.RANDOM:
		return ast.UtilRandom
	case token.TODAY:
		return ast.UtilToday
	default:
		return ast.UtilNow
	}
}
