package parser

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/scenic-lang/scenic/core/token"
)

// ErrorKind classifies parse failures.
type ErrorKind int

const (
	// UnexpectedToken: the token at the cursor cannot continue the current
	// production.
	UnexpectedToken ErrorKind = iota
	// AmbiguousStatement: a statement head matched no dispatch rule.
	AmbiguousStatement
	// UnterminatedBlock: input ended inside a braced block.
	UnterminatedBlock
	// InvalidOperand: an operator in a condition or pipeline is missing a
	// well-formed operand.
	InvalidOperand
)

var errorKindNames = [...]string{
	UnexpectedToken:    "unexpected token",
	AmbiguousStatement: "ambiguous or invalid statement",
	UnterminatedBlock:  "unterminated block",
	InvalidOperand:     "invalid operand",
}

func (k ErrorKind) String() string { return errorKindNames[k] }

// ParseError is the single error type the parser produces. Parsing stops at
// the first error; the fields carry enough context to render a diagnostic
// with the offending source line.
type ParseError struct {
	Kind       ErrorKind
	Pos        token.Position
	Context    string       // production being parsed, e.g. "page declaration"
	Got        token.Token  // the offending token
	Expected   []token.Type // what would have been accepted, when known
	Suggestion string       // optional did-you-mean hint
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s in %s: got %s", e.Pos, e.Kind, e.Context, e.Got)
	if len(e.Expected) > 0 {
		names := make([]string, len(e.Expected))
		for i, t := range e.Expected {
			names[i] = t.String()
		}
		sb.WriteString(", expected " + strings.Join(names, " or "))
	}
	if e.Suggestion != "" {
		sb.WriteString(" (did you mean " + e.Suggestion + "?)")
	}
	return sb.String()
}

func (p *Parser) errUnexpected(context string, expected ...token.Type) error {
	got := p.at()
	return &ParseError{
		Kind:       UnexpectedToken,
		Pos:        got.Pos,
		Context:    context,
		Got:        got,
		Expected:   expected,
		Suggestion: suggestKeyword(got),
	}
}

func (p *Parser) errAmbiguous(context string) error {
	got := p.at()
	return &ParseError{
		Kind:       AmbiguousStatement,
		Pos:        got.Pos,
		Context:    context,
		Got:        got,
		Suggestion: suggestKeyword(got),
	}
}

func (p *Parser) errUnterminated(context string, open token.Position) error {
	return &ParseError{
		Kind:    UnterminatedBlock,
		Pos:     open,
		Context: context,
		Got:     p.at(),
	}
}

func (p *Parser) errOperand(context string) error {
	got := p.at()
	return &ParseError{
		Kind:    InvalidOperand,
		Pos:     got.Pos,
		Context: context,
		Got:     got,
	}
}

// keywordList is the candidate pool for suggestions, built once.
var keywordList = func() []string {
	words := make([]string, 0, len(token.Keywords))
	for w := range token.Keywords {
		words = append(words, w)
	}
	return words
}()

// suggestKeyword proposes the closest keyword for a mistyped identifier.
func suggestKeyword(got token.Token) string {
	if got.Type != token.IDENT || len(got.Text) < 3 {
		return ""
	}
	word := strings.ToLower(got.Text)
	best, bestDist := "", len(word) // anything further than this is noise
	for _, kw := range keywordList {
		if d := fuzzy.LevenshteinDistance(word, kw); d < bestDist {
			best, bestDist = kw, d
		}
	}
	if bestDist > 2 {
		return ""
	}
	return best
}
