package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenic-lang/scenic/core/token"
)

func kinds(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestTokenizePageHeader(t *testing.T) {
	toks := Tokenize(`page LoginPage matches "/login" {`)

	require.Equal(t, []token.Type{
		token.PAGE, token.IDENT, token.MATCHES, token.STRING_LIT, token.LBRACE, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "LoginPage", toks[1].Text)
	assert.Equal(t, "/login", toks[3].Text)
}

func TestKeywordsAreCaseSensitive(t *testing.T) {
	toks := Tokenize("page Page PAGE")

	require.Equal(t, []token.Type{
		token.PAGE, token.IDENT, token.IDENT, token.EOF,
	}, kinds(toks))
}

func TestStringEscapesAndQuoteStyles(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"double quotes", `"hello world"`, "hello world"},
		{"single quotes", `'hello world'`, "hello world"},
		{"escaped quote", `"say \"hi\""`, `say "hi"`},
		{"newline escape", `"a\nb"`, "a\nb"},
		{"tab escape", `"a\tb"`, "a\tb"},
		{"backslash", `"c:\\tmp"`, `c:\tmp`},
		{"single inside double", `"it's fine"`, "it's fine"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			toks := Tokenize(tc.input)
			require.Equal(t, token.STRING_LIT, toks[0].Type)
			assert.Equal(t, tc.want, toks[0].Text)
		})
	}
}

func TestUnterminatedStringIsIllegal(t *testing.T) {
	toks := Tokenize(`fill field with "oops`)
	last := toks[len(toks)-2]
	assert.Equal(t, token.ILLEGAL, last.Type)
}

func TestNumbersAndRanges(t *testing.T) {
	toks := Tokenize("testdata.Users[2..5] 3.14 42")

	require.Equal(t, []token.Type{
		token.TESTDATA, token.DOT, token.IDENT, token.LSQUARE,
		token.NUMBER_LIT, token.DOTDOT, token.NUMBER_LIT, token.RSQUARE,
		token.NUMBER_LIT, token.NUMBER_LIT, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "2", toks[4].Text)
	assert.Equal(t, "5", toks[6].Text)
	assert.Equal(t, "3.14", toks[8].Text)
	assert.InDelta(t, 3.14, ParseNumber(toks[8].Text), 1e-9)
}

func TestComparisonOperators(t *testing.T) {
	toks := Tokenize("> < >= <= == !=")

	require.Equal(t, []token.Type{
		token.GT, token.LT, token.GT_EQ, token.LT_EQ, token.EQ_EQ, token.NOT_EQ, token.EOF,
	}, kinds(toks))
}

func TestCommentsAndNewlinesAreSkipped(t *testing.T) {
	src := "click loginButton # submit the form\n# a full-line comment\nverify banner is visible\n"
	toks := Tokenize(src)

	require.Equal(t, []token.Type{
		token.CLICK, token.IDENT,
		token.VERIFY, token.IDENT, token.IS, token.VISIBLE,
		token.EOF,
	}, kinds(toks))
}

func TestPositions(t *testing.T) {
	toks := Tokenize("click a\nfill b with \"x\"")

	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, toks[0].Pos)
	assert.Equal(t, token.Position{Line: 1, Column: 7, Offset: 6}, toks[1].Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 1, Offset: 8}, toks[2].Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 13, Offset: 20}, toks[5].Pos)
}

func TestAnnotationsAndTags(t *testing.T) {
	toks := Tokenize(`@skip scenario "checkout" @smoke {`)

	require.Equal(t, []token.Type{
		token.AT, token.IDENT, token.SCENARIO, token.STRING_LIT,
		token.AT, token.IDENT, token.LBRACE, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "skip", toks[1].Text)
	assert.Equal(t, "smoke", toks[5].Text)
}

func TestIllegalRunes(t *testing.T) {
	toks := Tokenize("click $ button")

	require.Equal(t, []token.Type{
		token.CLICK, token.ILLEGAL, token.BUTTON, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "$", toks[1].Text)
}

func TestEmptyInput(t *testing.T) {
	toks := Tokenize("")
	require.Equal(t, []token.Type{token.EOF}, kinds(toks))

	toks = Tokenize("   \n\t # just a comment\n")
	require.Equal(t, []token.Type{token.EOF}, kinds(toks))
}
