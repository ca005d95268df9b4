// Package parser builds scenic ASTs from token streams.
//
// The parser is hand-written recursive descent with bounded lookahead.
// Statement heads dispatch on one to three token kinds; the two operator
// grammars (where-clause conditions and utility pipelines) use precedence
// climbing. Parsing is strict: the first error aborts and is returned as a
// *ParseError, with no recovery or partial AST.
package parser

import (
	"github.com/scenic-lang/scenic/core/ast"
	"github.com/scenic-lang/scenic/core/token"
	"github.com/scenic-lang/scenic/runtime/lexer"
)

// Parser consumes a token stream. The zero value is not usable; construct
// one through Parse, ParseString or ParseTokens.
type Parser struct {
	toks *token.Stream
}

// Parse lexes and parses a source buffer.
func Parse(src []byte) (*ast.Program, error) {
	return ParseString(string(src))
}

// ParseString lexes and parses source text.
func ParseString(src string) (*ast.Program, error) {
	return ParseTokens(lexer.Tokenize(src))
}

// ParseTokens parses an already-lexed token slice. An empty stream yields an
// empty Program.
func ParseTokens(toks []token.Token) (*ast.Program, error) {
	p := &Parser{toks: token.NewStream(toks)}
	return p.parseProgram()
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.peek(0) != token.EOF {
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		prog.Declarations = append(prog.Declarations, decl)
	}
	return prog, nil
}

// at returns the current token without consuming it.
func (p *Parser) at() token.Token { return p.toks.At(0) }

// peek returns the token kind at the given lookahead offset.
func (p *Parser) peek(offset int) token.Type { return p.toks.Peek(offset) }

// next consumes and returns the current token.
func (p *Parser) next() token.Token { return p.toks.Next() }

// expect consumes a token of the given kind or fails.
func (p *Parser) expect(typ token.Type, context string) (token.Token, error) {
	if p.peek(0) != typ {
		return token.Token{}, p.errUnexpected(context, typ)
	}
	return p.next(), nil
}

// ident consumes an identifier and returns its text.
func (p *Parser) ident(context string) (string, error) {
	t, err := p.expect(token.IDENT, context)
	if err != nil {
		return "", err
	}
	return t.Text, nil
}

// str consumes a string literal and returns its decoded value.
func (p *Parser) str(context string) (string, error) {
	t, err := p.expect(token.STRING_LIT, context)
	if err != nil {
		return "", err
	}
	return t.Text, nil
}

// accept consumes the current token when it has the given kind.
func (p *Parser) accept(typ token.Type) bool {
	if p.peek(0) == typ {
		p.next()
		return true
	}
	return false
}

// identList parses a comma-separated list of identifiers, at least one.
func (p *Parser) identList(context string) ([]string, error) {
	name, err := p.ident(context)
	if err != nil {
		return nil, err
	}
	names := []string{name}
	for p.accept(token.COMMA) {
		name, err = p.ident(context)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}
