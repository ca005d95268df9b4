package parser

import (
	"github.com/scenic-lang/scenic/core/ast"
	"github.com/scenic-lang/scenic/core/token"
)

func (p *Parser) parseDeclaration() (ast.Declaration, error) {
	switch p.peek(0) {
	case token.PAGE:
		return p.parsePage()
	case token.ACTIONS:
		return p.parsePageActions()
	case token.FEATURE, token.AT:
		return p.parseFeature()
	case token.FIXTURE:
		return p.parseFixture()
	default:
		return nil, p.errUnexpected("top-level declaration",
			token.PAGE, token.ACTIONS, token.FEATURE, token.FIXTURE)
	}
}

// parseAnnotations consumes a run of @name markers.
func (p *Parser) parseAnnotations(context string) ([]string, error) {
	var annotations []string
	for p.peek(0) == token.AT {
		p.next()
		name, err := p.ident(context)
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, name)
	}
	return annotations, nil
}

func (p *Parser) parsePage() (*ast.Page, error) {
	pos := p.next().Pos // page
	name, err := p.ident("page declaration")
	if err != nil {
		return nil, err
	}
	page := &ast.Page{Name: name, Pos: pos}

	if p.accept(token.MATCHES) {
		pattern, err := p.str("page matches clause")
		if err != nil {
			return nil, err
		}
		page.Matches = append(page.Matches, pattern)
		for p.accept(token.COMMA) {
			pattern, err = p.str("page matches clause")
			if err != nil {
				return nil, err
			}
			page.Matches = append(page.Matches, pattern)
		}
	}

	open, err := p.expect(token.LBRACE, "page declaration")
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek(0) {
		case token.RBRACE:
			p.next()
			return page, nil
		case token.EOF:
			return nil, p.errUnterminated("page body", open.Pos)
		case token.FIELD:
			field, err := p.parseField()
			if err != nil {
				return nil, err
			}
			page.Fields = append(page.Fields, field)
		case token.IDENT:
			action, err := p.parseAction()
			if err != nil {
				return nil, err
			}
			page.Actions = append(page.Actions, action)
		default:
			return nil, p.errUnexpected("page body",
				token.FIELD, token.IDENT, token.RBRACE)
		}
	}
}

func (p *Parser) parseField() (*ast.Field, error) {
	pos := p.next().Pos // field
	name, err := p.ident("field declaration")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EQUALS, "field declaration"); err != nil {
		return nil, err
	}

	field := &ast.Field{Name: name, Pos: pos}
	if p.peek(0).IsSelectorKind() {
		field.Kind = selectorKindOf(p.next().Type)
	}
	field.Value, err = p.str("field selector")
	if err != nil {
		return nil, err
	}
	if p.accept(token.AS) {
		field.DisplayName, err = p.str("field display name")
		if err != nil {
			return nil, err
		}
	}
	return field, nil
}

func selectorKindOf(t token.Type) ast.SelectorKind {
	switch t {
	case token.TESTID:
		return ast.SelectorTestID
	case token.ROLE:
		return ast.SelectorRole
	case token.LABEL:
		return ast.SelectorLabel
	case token.PLACEHOLDER:
		return ast.SelectorPlaceholder
	case token.TEXT:
		return ast.SelectorText
	case token.ALT:
		return ast.SelectorAlt
	case token.TITLE:
		return ast.SelectorTitle
	case token.CSS:
		return ast.SelectorCSS
	case token.XPATH:
		return ast.SelectorXPath
	case token.BUTTON:
		return ast.SelectorButton
	case token.LINK:
		return ast.SelectorLink
	case token.CHECKBOX:
		return ast.SelectorCheckbox
	default:
		return ast.SelectorLegacy
	}
}

func (p *Parser) parseAction() (*ast.ActionDecl, error) {
	nameTok := p.next()
	action := &ast.ActionDecl{Name: nameTok.Text, Pos: nameTok.Pos}

	if p.accept(token.LPAREN) {
		if p.peek(0) != token.RPAREN {
			params, err := p.identList("action parameter list")
			if err != nil {
				return nil, err
			}
			action.Params = params
		}
		if _, err := p.expect(token.RPAREN, "action parameter list"); err != nil {
			return nil, err
		}
	}
	if p.accept(token.RETURNS) {
		kind, err := p.valueKind("action return kind")
		if err != nil {
			return nil, err
		}
		action.Returns = kind
	}

	body, err := p.parseBlock("action body")
	if err != nil {
		return nil, err
	}
	action.Body = body
	return action, nil
}

func (p *Parser) parsePageActions() (*ast.PageActions, error) {
	pos := p.next().Pos // actions
	name, err := p.ident("actions declaration")
	if err != nil {
		return nil, err
	}
	decl := &ast.PageActions{Page: name, Pos: pos}

	open, err := p.expect(token.LBRACE, "actions declaration")
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek(0) {
		case token.RBRACE:
			p.next()
			return decl, nil
		case token.EOF:
			return nil, p.errUnterminated("actions body", open.Pos)
		case token.IDENT:
			action, err := p.parseAction()
			if err != nil {
				return nil, err
			}
			decl.Actions = append(decl.Actions, action)
		default:
			return nil, p.errUnexpected("actions body", token.IDENT, token.RBRACE)
		}
	}
}

func (p *Parser) parseFeature() (*ast.Feature, error) {
	pos := p.at().Pos
	annotations, err := p.parseAnnotations("feature annotation")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.FEATURE, "feature declaration"); err != nil {
		return nil, err
	}
	name, err := p.ident("feature declaration")
	if err != nil {
		return nil, err
	}
	feature := &ast.Feature{Annotations: annotations, Name: name, Pos: pos}

	open, err := p.expect(token.LBRACE, "feature declaration")
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek(0) {
		case token.RBRACE:
			p.next()
			return feature, nil
		case token.EOF:
			return nil, p.errUnterminated("feature body", open.Pos)
		case token.USE:
			usePos := p.next().Pos
			page, err := p.ident("use statement")
			if err != nil {
				return nil, err
			}
			feature.Uses = append(feature.Uses, &ast.UseDecl{Page: page, Pos: usePos})
		case token.WITH:
			fix, err := p.parseWithFixture()
			if err != nil {
				return nil, err
			}
			feature.Fixtures = append(feature.Fixtures, fix)
		case token.BEFORE, token.AFTER:
			hook, err := p.parseHook()
			if err != nil {
				return nil, err
			}
			feature.Hooks = append(feature.Hooks, hook)
		case token.SCENARIO, token.AT:
			scenario, err := p.parseScenario()
			if err != nil {
				return nil, err
			}
			feature.Scenarios = append(feature.Scenarios, scenario)
		default:
			return nil, p.errUnexpected("feature body",
				token.USE, token.WITH, token.BEFORE, token.AFTER,
				token.SCENARIO, token.RBRACE)
		}
	}
}

func (p *Parser) parseWithFixture() (*ast.WithFixture, error) {
	pos := p.next().Pos // with
	if _, err := p.expect(token.FIXTURE, "with-fixture statement"); err != nil {
		return nil, err
	}
	name, err := p.ident("with-fixture statement")
	if err != nil {
		return nil, err
	}
	fix := &ast.WithFixture{Fixture: name, Pos: pos}

	if p.peek(0) != token.LBRACE {
		return fix, nil
	}
	open := p.next()
	for p.peek(0) != token.RBRACE {
		if p.peek(0) == token.EOF {
			return nil, p.errUnterminated("fixture override block", open.Pos)
		}
		optTok := p.at()
		optName, err := p.ident("fixture override")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.EQUALS, "fixture override"); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		fix.Overrides = append(fix.Overrides, &ast.OptionDecl{
			Name: optName, Default: value, Pos: optTok.Pos,
		})
	}
	p.next() // }
	return fix, nil
}

func (p *Parser) parseHook() (*ast.Hook, error) {
	tok := p.next()
	hook := &ast.Hook{Pos: tok.Pos}
	if tok.Type == token.AFTER {
		hook.Timing = ast.TimingAfter
	}
	switch p.peek(0) {
	case token.EACH:
		p.next()
	case token.ALL:
		p.next()
		hook.Scope = ast.HookAll
	default:
		return nil, p.errUnexpected("hook declaration", token.EACH, token.ALL)
	}
	body, err := p.parseBlock("hook body")
	if err != nil {
		return nil, err
	}
	hook.Body = body
	return hook, nil
}

func (p *Parser) parseScenario() (*ast.Scenario, error) {
	pos := p.at().Pos
	annotations, err := p.parseAnnotations("scenario annotation")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SCENARIO, "scenario declaration"); err != nil {
		return nil, err
	}
	name, err := p.str("scenario name")
	if err != nil {
		return nil, err
	}
	scenario := &ast.Scenario{Annotations: annotations, Name: name, Pos: pos}

	for p.peek(0) == token.AT {
		p.next()
		tag, err := p.ident("scenario tag")
		if err != nil {
			return nil, err
		}
		scenario.Tags = append(scenario.Tags, tag)
	}

	body, err := p.parseBlock("scenario body")
	if err != nil {
		return nil, err
	}
	scenario.Body = body
	return scenario, nil
}

func (p *Parser) parseFixture() (*ast.Fixture, error) {
	pos := p.next().Pos // fixture
	name, err := p.ident("fixture declaration")
	if err != nil {
		return nil, err
	}
	fixture := &ast.Fixture{Name: name, Pos: pos}

	if p.accept(token.WITH) {
		params, err := p.identList("fixture parameter list")
		if err != nil {
			return nil, err
		}
		fixture.Params = params
	}

	open, err := p.expect(token.LBRACE, "fixture declaration")
	if err != nil {
		return nil, err
	}
	seenDepends, seenAuto := false, false
	for {
		switch p.peek(0) {
		case token.RBRACE:
			p.next()
			return fixture, nil
		case token.EOF:
			return nil, p.errUnterminated("fixture body", open.Pos)
		case token.SCOPE:
			if fixture.ScopeSet {
				return nil, p.errUnexpected("fixture body (scope already declared)",
					token.DEPENDS, token.AUTO, token.OPTION, token.SETUP, token.TEARDOWN)
			}
			p.next()
			switch p.peek(0) {
			case token.TEST:
				p.next()
			case token.WORKER:
				p.next()
				fixture.Scope = ast.ScopeWorker
			default:
				return nil, p.errUnexpected("scope statement", token.TEST, token.WORKER)
			}
			fixture.ScopeSet = true
		case token.DEPENDS:
			if seenDepends {
				return nil, p.errUnexpected("fixture body (depends on already declared)",
					token.OPTION, token.SETUP, token.TEARDOWN)
			}
			p.next()
			if _, err := p.expect(token.ON, "depends statement"); err != nil {
				return nil, err
			}
			deps, err := p.identList("depends statement")
			if err != nil {
				return nil, err
			}
			fixture.DependsOn = deps
			seenDepends = true
		case token.AUTO:
			if seenAuto {
				return nil, p.errUnexpected("fixture body (auto already declared)",
					token.OPTION, token.SETUP, token.TEARDOWN)
			}
			p.next()
			fixture.Auto = true
			seenAuto = true
		case token.OPTION:
			optPos := p.next().Pos
			optName, err := p.ident("option statement")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.EQUALS, "option statement"); err != nil {
				return nil, err
			}
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			fixture.Options = append(fixture.Options, &ast.OptionDecl{
				Name: optName, Default: value, Pos: optPos,
			})
		case token.SETUP:
			if fixture.Setup != nil {
				return nil, p.errUnexpected("fixture body (setup already declared)",
					token.TEARDOWN, token.RBRACE)
			}
			p.next()
			body, err := p.parseBlock("setup body")
			if err != nil {
				return nil, err
			}
			fixture.Setup = body
		case token.TEARDOWN:
			if fixture.Teardown != nil {
				return nil, p.errUnexpected("fixture body (teardown already declared)",
					token.RBRACE)
			}
			p.next()
			body, err := p.parseBlock("teardown body")
			if err != nil {
				return nil, err
			}
			fixture.Teardown = body
		default:
			return nil, p.errUnexpected("fixture body",
				token.SCOPE, token.DEPENDS, token.AUTO, token.OPTION,
				token.SETUP, token.TEARDOWN, token.RBRACE)
		}
	}
}

// valueKind consumes one of the declared value type keywords.
func (p *Parser) valueKind(context string) (ast.ValueKind, error) {
	switch p.peek(0) {
	case token.TEXT:
		p.next()
		return ast.KindText, nil
	case token.NUMBER:
		p.next()
		return ast.KindNumber, nil
	case token.FLAG:
		p.next()
		return ast.KindFlag, nil
	case token.LIST:
		p.next()
		return ast.KindList, nil
	case token.DATA:
		p.next()
		return ast.KindData, nil
	default:
		return ast.KindNone, p.errUnexpected(context,
			token.TEXT, token.NUMBER, token.FLAG, token.LIST, token.DATA)
	}
}
