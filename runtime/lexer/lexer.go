// Package lexer turns scenic source text into a flat token slice.
//
// The scanner is a single-pass, single-mode byte walker. Newlines are plain
// whitespace: the grammar is brace-delimited and keyword-led, so statement
// boundaries never depend on line breaks. Comments run from '#' to end of
// line. Keyword recognition happens once, here, via token.Keywords; the
// parser only ever sees token kinds.
package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/scenic-lang/scenic/core/token"
)

// ASCII lookup tables for fast classification.
var (
	isWhitespace [128]bool
	isDigit      [128]bool
	isIdentStart [128]bool
	isIdentPart  [128]bool
	singleChar   [128]token.Type
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f'
		isDigit[i] = '0' <= ch && ch <= '9'
		letter := ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
		isIdentStart[i] = letter || ch == '_'
		isIdentPart[i] = isIdentStart[i] || isDigit[i]
		singleChar[i] = token.ILLEGAL
	}

	singleChar['{'] = token.LBRACE
	singleChar['}'] = token.RBRACE
	singleChar['('] = token.LPAREN
	singleChar[')'] = token.RPAREN
	singleChar['['] = token.LSQUARE
	singleChar[']'] = token.RSQUARE
	singleChar[','] = token.COMMA
	singleChar['@'] = token.AT
}

// Lexer scans one input buffer.
type Lexer struct {
	input   string
	pos     int  // byte offset of ch
	readPos int  // byte offset after ch
	ch      rune // current rune, 0 at EOF
	line    int
	column  int
}

// New creates a Lexer over the given source text.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// Tokenize scans the whole input and returns the tokens, ending with EOF.
func Tokenize(input string) []token.Token {
	l := New(input)
	var toks []token.Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Type == token.EOF {
			return toks
		}
	}
}

func (l *Lexer) readChar() {
	l.pos = l.readPos
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		var size int
		l.ch, size = utf8.DecodeRuneInString(l.input[l.readPos:])
		if l.ch == utf8.RuneError {
			l.ch = rune(l.input[l.readPos])
			size = 1
		}
		l.readPos += size
	}
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return ch
}

func (l *Lexer) position() token.Position {
	return token.Position{Line: l.line, Column: l.column, Offset: l.pos}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch < 128 && l.ch != 0 && isWhitespace[l.ch] {
			l.readChar()
		}
		if l.ch != '#' {
			return
		}
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
	}
}

// Next scans and returns the next token.
func (l *Lexer) Next() token.Token {
	l.skipWhitespaceAndComments()

	pos := l.position()

	switch {
	case l.ch == 0:
		return token.Token{Type: token.EOF, Pos: pos}

	case l.ch == '"' || l.ch == '\'':
		return l.scanString(pos)

	case l.ch < 128 && isDigit[l.ch]:
		return l.scanNumber(pos)

	case l.ch < 128 && isIdentStart[l.ch]:
		return l.scanIdent(pos)

	case l.ch == '.':
		l.readChar()
		if l.ch == '.' {
			l.readChar()
			return token.Token{Type: token.DOTDOT, Text: "..", Pos: pos}
		}
		return token.Token{Type: token.DOT, Text: ".", Pos: pos}

	case l.ch == '=':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return token.Token{Type: token.EQ_EQ, Text: "==", Pos: pos}
		}
		return token.Token{Type: token.EQUALS, Text: "=", Pos: pos}

	case l.ch == '>':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return token.Token{Type: token.GT_EQ, Text: ">=", Pos: pos}
		}
		return token.Token{Type: token.GT, Text: ">", Pos: pos}

	case l.ch == '<':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return token.Token{Type: token.LT_EQ, Text: "<=", Pos: pos}
		}
		return token.Token{Type: token.LT, Text: "<", Pos: pos}

	case l.ch == '!':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return token.Token{Type: token.NOT_EQ, Text: "!=", Pos: pos}
		}
		return token.Token{Type: token.ILLEGAL, Text: "!", Pos: pos}

	case l.ch < 128 && singleChar[l.ch] != token.ILLEGAL:
		typ := singleChar[l.ch]
		text := string(l.ch)
		l.readChar()
		return token.Token{Type: typ, Text: text, Pos: pos}

	default:
		text := string(l.ch)
		l.readChar()
		return token.Token{Type: token.ILLEGAL, Text: text, Pos: pos}
	}
}

// scanString scans a quoted literal. Both quote styles are accepted and the
// returned Text holds the decoded value, not the source spelling.
func (l *Lexer) scanString(pos token.Position) token.Token {
	quote := l.ch
	l.readChar()

	var sb strings.Builder
	for l.ch != quote {
		if l.ch == 0 || l.ch == '\n' {
			// Unterminated: report the opening quote.
			return token.Token{Type: token.ILLEGAL, Text: string(quote) + sb.String(), Pos: pos}
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\', '"', '\'':
				sb.WriteRune(l.ch)
			default:
				sb.WriteByte('\\')
				sb.WriteRune(l.ch)
			}
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	l.readChar() // closing quote
	return token.Token{Type: token.STRING_LIT, Text: sb.String(), Pos: pos}
}

// scanNumber scans an integer or decimal literal. A '.' followed by another
// '.' belongs to a range and is left for the next token.
func (l *Lexer) scanNumber(pos token.Position) token.Token {
	start := l.pos
	for l.ch < 128 && l.ch != 0 && isDigit[l.ch] {
		l.readChar()
	}
	if l.ch == '.' && l.peekChar() != '.' {
		next := l.peekChar()
		if next < 128 && next != 0 && isDigit[next] {
			l.readChar()
			for l.ch < 128 && l.ch != 0 && isDigit[l.ch] {
				l.readChar()
			}
		}
	}
	text := l.input[start:l.pos]
	return token.Token{Type: token.NUMBER_LIT, Text: text, Pos: pos}
}

func (l *Lexer) scanIdent(pos token.Position) token.Token {
	start := l.pos
	for l.ch < 128 && l.ch != 0 && isIdentPart[l.ch] {
		l.readChar()
	}
	text := l.input[start:l.pos]
	if typ, ok := token.Keywords[text]; ok {
		return token.Token{Type: typ, Text: text, Pos: pos}
	}
	return token.Token{Type: token.IDENT, Text: text, Pos: pos}
}

// ParseNumber converts a NUMBER_LIT lexeme to its float value. Lexing
// guarantees the lexeme is well formed, so conversion cannot fail.
func ParseNumber(text string) float64 {
	v, _ := strconv.ParseFloat(text, 64)
	return v
}
