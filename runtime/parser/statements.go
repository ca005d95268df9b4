package parser

import (
	"github.com/scenic-lang/scenic/core/ast"
	"github.com/scenic-lang/scenic/core/token"
)

// parseBlock parses a braced statement list. The returned slice is non-nil
// even when empty, so an empty written block stays distinguishable from an
// absent one.
func (p *Parser) parseBlock(context string) ([]ast.Statement, error) {
	open, err := p.expect(token.LBRACE, context)
	if err != nil {
		return nil, err
	}
	body := []ast.Statement{}
	for p.peek(0) != token.RBRACE {
		if p.peek(0) == token.EOF {
			return nil, p.errUnterminated(context, open.Pos)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	p.next() // }
	return body, nil
}

// parseStatement dispatches on the statement's leading token. Identifier-led
// and type-keyword-led statements need the extra lookahead handled in
// parseTypedDecl and parseAssignOrColumn; everything else is decided here by
// the first token alone.
func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.peek(0) {
	case token.CLICK, token.CHECK, token.UNCHECK, token.HOVER, token.CLEAR:
		return p.parseElementAction()
	case token.FILL:
		return p.parseFill()
	case token.OPEN:
		return p.parseOpen()
	case token.SELECT:
		return p.parseSelect()
	case token.PRESS:
		return p.parsePress()
	case token.SCROLL:
		return p.parseScroll()
	case token.WAIT:
		return p.parseWait()
	case token.PERFORM:
		return p.parsePerform()
	case token.REFRESH:
		return &ast.RefreshStmt{Pos: p.next().Pos}, nil
	case token.SCREENSHOT:
		return p.parseScreenshot()
	case token.LOG:
		return p.parseLog()
	case token.UPLOAD:
		return p.parseUpload()
	case token.SWITCH:
		return p.parseSwitchTab()
	case token.CLOSE:
		return p.parseCloseTab()
	case token.VERIFY:
		return p.parseVerify()
	case token.IF:
		return p.parseIf()
	case token.REPEAT:
		return p.parseRepeat()
	case token.RETURN:
		return p.parseReturn()
	case token.TEXT, token.NUMBER, token.FLAG, token.LIST, token.DATA:
		return p.parseTypedDecl()
	case token.ROW:
		return p.parseRowQuery()
	case token.ROWS:
		return p.parseRowsQuery()
	case token.IDENT:
		if p.peek(1) == token.EQUALS {
			return p.parseAssignOrColumn()
		}
		return nil, p.errAmbiguous("statement")
	default:
		return nil, p.errAmbiguous("statement")
	}
}

func (p *Parser) parseElementAction() (ast.Statement, error) {
	tok := p.next()
	var verb ast.ActionVerb
	switch tok.Type {
	case token.CLICK:
		verb = ast.VerbClick
	case token.CHECK:
		verb = ast.VerbCheck
	case token.UNCHECK:
		verb = ast.VerbUncheck
	case token.HOVER:
		verb = ast.VerbHover
	case token.CLEAR:
		verb = ast.VerbClear
	}
	target, err := p.parseSelector()
	if err != nil {
		return nil, err
	}
	return &ast.ElementAction{Verb: verb, Target: target, Pos: tok.Pos}, nil
}

func (p *Parser) parseFill() (ast.Statement, error) {
	pos := p.next().Pos
	target, err := p.parseSelector()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.WITH, "fill statement"); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.FillStmt{Target: target, Value: value, Pos: pos}, nil
}

func (p *Parser) parseOpen() (ast.Statement, error) {
	pos := p.next().Pos
	url, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt := &ast.OpenStmt{URL: url, Pos: pos}
	if p.accept(token.IN) {
		if _, err := p.expect(token.NEW, "open statement"); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.TAB, "open statement"); err != nil {
			return nil, err
		}
		stmt.NewTab = true
	}
	return stmt, nil
}

func (p *Parser) parseSelect() (ast.Statement, error) {
	pos := p.next().Pos
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.FROM, "select statement"); err != nil {
		return nil, err
	}
	from, err := p.parseSelector()
	if err != nil {
		return nil, err
	}
	return &ast.SelectStmt{Value: value, From: from, Pos: pos}, nil
}

func (p *Parser) parsePress() (ast.Statement, error) {
	pos := p.next().Pos
	key, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.PressStmt{Key: key, Pos: pos}, nil
}

func (p *Parser) parseScroll() (ast.Statement, error) {
	pos := p.next().Pos
	stmt := &ast.ScrollStmt{Pos: pos}
	switch p.peek(0) {
	case token.TO:
		p.next()
		target, err := p.parseSelector()
		if err != nil {
			return nil, err
		}
		stmt.To = target
	case token.UP:
		p.next()
		stmt.Direction = ast.ScrollUp
	case token.DOWN:
		p.next()
		stmt.Direction = ast.ScrollDown
	case token.TOP:
		p.next()
		stmt.Direction = ast.ScrollTop
	case token.BOTTOM:
		p.next()
		stmt.Direction = ast.ScrollBottom
	default:
		return nil, p.errUnexpected("scroll statement",
			token.TO, token.UP, token.DOWN, token.TOP, token.BOTTOM)
	}
	return stmt, nil
}

func (p *Parser) parseWait() (ast.Statement, error) {
	pos := p.next().Pos
	if p.accept(token.FOR) {
		target, err := p.parseSelector()
		if err != nil {
			return nil, err
		}
		return &ast.WaitStmt{For: target, Pos: pos}, nil
	}
	amount, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt := &ast.WaitStmt{Amount: amount, Pos: pos}
	switch p.peek(0) {
	case token.SECONDS:
		p.next()
	case token.MINUTES:
		p.next()
		stmt.Unit = ast.UnitMinutes
	case token.MS:
		p.next()
		stmt.Unit = ast.UnitMillis
	default:
		return nil, p.errUnexpected("wait statement",
			token.SECONDS, token.MINUTES, token.MS)
	}
	return stmt, nil
}

func (p *Parser) parsePerform() (ast.Statement, error) {
	pos := p.next().Pos
	object, err := p.ident("perform statement")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DOT, "perform statement"); err != nil {
		return nil, err
	}
	member, err := p.ident("perform statement")
	if err != nil {
		return nil, err
	}
	stmt := &ast.PerformStmt{
		Target: &ast.PageRef{Object: object, Member: member, Pos: pos},
		Pos:    pos,
	}
	if p.accept(token.WITH) {
		args, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		stmt.Args = args
	}
	return stmt, nil
}

// trailingExpr reports whether an optional trailing expression is actually
// present. An identifier followed by = opens the next statement, not an
// operand of this one.
func (p *Parser) trailingExpr() bool {
	if !startsExpression(p.peek(0)) {
		return false
	}
	return p.peek(0) != token.IDENT || p.peek(1) != token.EQUALS
}

func (p *Parser) parseScreenshot() (ast.Statement, error) {
	pos := p.next().Pos
	stmt := &ast.ScreenshotStmt{Pos: pos}
	if p.trailingExpr() {
		path, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Path = path
	}
	return stmt, nil
}

func (p *Parser) parseLog() (ast.Statement, error) {
	pos := p.next().Pos
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.LogStmt{Value: value, Pos: pos}, nil
}

func (p *Parser) parseUpload() (ast.Statement, error) {
	pos := p.next().Pos
	files, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TO, "upload statement"); err != nil {
		return nil, err
	}
	target, err := p.parseSelector()
	if err != nil {
		return nil, err
	}
	return &ast.UploadStmt{Files: files, To: target, Pos: pos}, nil
}

func (p *Parser) parseSwitchTab() (ast.Statement, error) {
	pos := p.next().Pos
	if _, err := p.expect(token.TO, "switch statement"); err != nil {
		return nil, err
	}
	stmt := &ast.SwitchTabStmt{Pos: pos}
	if p.accept(token.NEW) {
		if _, err := p.expect(token.TAB, "switch statement"); err != nil {
			return nil, err
		}
		stmt.NewTab = true
		if p.trailingExpr() {
			target, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			stmt.Target = target
		}
		return stmt, nil
	}
	if _, err := p.expect(token.TAB, "switch statement"); err != nil {
		return nil, err
	}
	target, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt.Target = target
	return stmt, nil
}

func (p *Parser) parseCloseTab() (ast.Statement, error) {
	pos := p.next().Pos
	if _, err := p.expect(token.TAB, "close statement"); err != nil {
		return nil, err
	}
	return &ast.CloseTabStmt{Pos: pos}, nil
}

func (p *Parser) parseVerify() (ast.Statement, error) {
	pos := p.next().Pos

	switch p.peek(0) {
	case token.URL:
		p.next()
		op, value, err := p.parseMatchCond("verify url statement")
		if err != nil {
			return nil, err
		}
		return &ast.VerifyURLStmt{Op: op, Value: value, Pos: pos}, nil
	case token.TITLE:
		p.next()
		op, value, err := p.parseMatchCond("verify title statement")
		if err != nil {
			return nil, err
		}
		return &ast.VerifyTitleStmt{Op: op, Value: value, Pos: pos}, nil
	}

	target, err := p.parseSelector()
	if err != nil {
		return nil, err
	}
	switch p.peek(0) {
	case token.IS:
		p.next()
		negated := p.accept(token.NOT)
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		return &ast.VerifyStmt{Target: target, Negated: negated, Cond: cond, Pos: pos}, nil
	case token.HAS:
		p.next()
		return p.parseVerifyHas(target, pos)
	default:
		return nil, p.errUnexpected("verify statement", token.IS, token.HAS)
	}
}

func (p *Parser) parseMatchCond(context string) (ast.MatchOp, ast.Expression, error) {
	var op ast.MatchOp
	switch p.peek(0) {
	case token.IS:
		op = ast.MatchIs
	case token.CONTAINS:
		op = ast.MatchContains
	case token.MATCHES:
		op = ast.MatchPattern
	default:
		return 0, nil, p.errUnexpected(context, token.IS, token.CONTAINS, token.MATCHES)
	}
	p.next()
	value, err := p.parseExpression()
	if err != nil {
		return 0, nil, err
	}
	return op, value, nil
}

func (p *Parser) parseVerifyHas(target ast.Selector, pos token.Position) (ast.Statement, error) {
	var prop ast.HasProp
	switch p.peek(0) {
	case token.TEXT:
		prop = ast.HasText
	case token.VALUE:
		prop = ast.HasValue
	case token.COUNT:
		prop = ast.HasCount
	case token.CLASS:
		prop = ast.HasClass
	case token.ATTRIBUTE:
		prop = ast.HasAttribute
	default:
		return nil, p.errUnexpected("verify has statement",
			token.TEXT, token.VALUE, token.COUNT, token.CLASS, token.ATTRIBUTE)
	}
	p.next()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.VerifyHasStmt{Target: target, Prop: prop, Value: value, Pos: pos}, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	pos := p.next().Pos
	cond, err := p.parseBoolExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock("if body")
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Cond: cond, Then: then, Pos: pos}

	if p.accept(token.ELSE) {
		if p.peek(0) == token.IF {
			nested, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			stmt.Else = []ast.Statement{nested}
		} else {
			body, err := p.parseBlock("else body")
			if err != nil {
				return nil, err
			}
			stmt.Else = body
		}
	}
	return stmt, nil
}

func (p *Parser) parseRepeat() (ast.Statement, error) {
	pos := p.next().Pos
	count, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TIMES, "repeat statement"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock("repeat body")
	if err != nil {
		return nil, err
	}
	return &ast.RepeatStmt{Count: count, Body: body, Pos: pos}, nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	pos := p.next().Pos
	stmt := &ast.ReturnStmt{Pos: pos}
	if p.trailingExpr() {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}
	return stmt, nil
}

// parseAssignOrColumn handles ident = ... statements. A right-hand side
// rooted at testdata is a column-access query; anything else is a plain
// reassignment.
func (p *Parser) parseAssignOrColumn() (ast.Statement, error) {
	nameTok := p.next()
	p.next() // =

	if p.peek(0) == token.TESTDATA {
		column, err := p.parseColumnRef()
		if err != nil {
			return nil, err
		}
		query := &ast.ColumnQuery{Name: nameTok.Text, Column: column, Pos: nameTok.Pos}
		if p.accept(token.WHERE) {
			where, err := p.parseDataCondition()
			if err != nil {
				return nil, err
			}
			query.Where = where
		}
		return query, nil
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.AssignStmt{Name: nameTok.Text, Value: value, Pos: nameTok.Pos}, nil
}
