// Package token defines the lexical vocabulary shared by the scenic lexer
// and parser: token kinds, source positions, and the checkpointable stream
// the parser consumes.
package token

import "fmt"

// Type identifies the kind of a lexical token. The vocabulary is closed:
// every keyword of the language has its own kind so the parser can dispatch
// on kinds alone and never compare lexeme text.
type Type int

const (
	// Special tokens
	EOF Type = iota
	ILLEGAL

	// Literals
	IDENT
	STRING_LIT
	NUMBER_LIT

	// Punctuation
	LBRACE  // {
	RBRACE  // }
	LPAREN  // (
	RPAREN  // )
	LSQUARE // [
	RSQUARE // ]
	COMMA   // ,
	DOT     // .
	DOTDOT  // ..
	EQUALS  // =
	AT      // @

	// Comparison operators
	GT     // >
	LT     // <
	GT_EQ  // >=
	LT_EQ  // <=
	EQ_EQ  // ==
	NOT_EQ // !=

	// Declaration keywords
	PAGE
	ACTIONS
	FEATURE
	SCENARIO
	FIXTURE
	FIELD
	USE
	WITH
	BEFORE
	AFTER
	EACH
	ALL
	SETUP
	TEARDOWN
	SCOPE
	TEST
	WORKER
	DEPENDS
	ON
	AUTO
	OPTION
	MATCHES
	AS
	RETURNS

	// Selector kinds
	TESTID
	ROLE
	LABEL
	PLACEHOLDER
	ALT
	TITLE
	CSS
	XPATH
	BUTTON
	LINK
	CHECKBOX

	// UI action keywords
	CLICK
	CHECK
	UNCHECK
	HOVER
	CLEAR
	FILL
	OPEN
	IN
	NEW
	TAB
	SELECT
	FROM
	PRESS
	SCROLL
	TO
	UP
	DOWN
	TOP
	BOTTOM
	WAIT
	FOR
	SECONDS
	MINUTES
	MS
	PERFORM
	REFRESH
	SCREENSHOT
	LOG
	UPLOAD
	SWITCH
	CLOSE

	// Assertion keywords
	VERIFY
	URL
	IS
	NOT
	HAS
	VISIBLE
	HIDDEN
	ENABLED
	DISABLED
	CHECKED
	EMPTY
	CONTAINS
	VALUE
	CLASS
	ATTRIBUTE

	// Control flow keywords
	IF
	ELSE
	REPEAT
	TIMES
	RETURN

	// Declared value kinds
	TEXT
	NUMBER
	FLAG
	LIST
	DATA

	// Data query keywords
	ROW
	ROWS
	WHERE
	ORDER
	BY
	ASC
	DESC
	LIMIT
	OFFSET
	DEFAULT
	COUNT
	SUM
	AVERAGE
	MIN
	MAX
	DISTINCT
	COLUMNS
	HEADERS
	TESTDATA
	FIRST
	LAST
	RANDOM
	CELL
	AND
	OR
	NULL
	STARTS
	ENDS
	BETWEEN

	// Utility expression keywords
	THEN
	TRIM
	CONVERT
	EXTRACT
	REPLACE
	SPLIT
	JOIN
	LENGTH
	PAD
	ADD
	SUBTRACT
	FORMAT
	ROUND
	ABSOLUTE
	GENERATE
	TODAY
	NOW
	OF
)

// Position is a location in source text, for diagnostics.
type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based byte offset
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical unit.
type Token struct {
	Type Type
	Text string // lexeme as written; decoded value for string literals
	Pos  Position
}

func (t Token) String() string {
	switch t.Type {
	case IDENT, NUMBER_LIT, ILLEGAL:
		return t.Text
	case STRING_LIT:
		return fmt.Sprintf("%q", t.Text)
	default:
		return t.Type.String()
	}
}

var names = map[Type]string{
	EOF:        "end of input",
	ILLEGAL:    "illegal token",
	IDENT:      "identifier",
	STRING_LIT: "string",
	NUMBER_LIT: "number literal",

	LBRACE:  "{",
	RBRACE:  "}",
	LPAREN:  "(",
	RPAREN:  ")",
	LSQUARE: "[",
	RSQUARE: "]",
	COMMA:   ",",
	DOT:     ".",
	DOTDOT:  "..",
	EQUALS:  "=",
	AT:      "@",
	GT:      ">",
	LT:      "<",
	GT_EQ:   ">=",
	LT_EQ:   "<=",
	EQ_EQ:   "==",
	NOT_EQ:  "!=",
}

// String returns the source spelling of the token kind: keywords and
// punctuation print as written, literal classes print as a class name.
func (t Type) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	if s, ok := keywordNames[t]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Keywords maps reserved words to their token kinds. The lexer consults this
// after scanning an identifier-shaped lexeme.
var Keywords = map[string]Type{
	"page":     PAGE,
	"actions":  ACTIONS,
	"feature":  FEATURE,
	"scenario": SCENARIO,
	"fixture":  FIXTURE,
	"field":    FIELD,
	"use":      USE,
	"with":     WITH,
	"before":   BEFORE,
	"after":    AFTER,
	"each":     EACH,
	"all":      ALL,
	"setup":    SETUP,
	"teardown": TEARDOWN,
	"scope":    SCOPE,
	"test":     TEST,
	"worker":   WORKER,
	"depends":  DEPENDS,
	"on":       ON,
	"auto":     AUTO,
	"option":   OPTION,
	"matches":  MATCHES,
	"as":       AS,
	"returns":  RETURNS,

	"testid":      TESTID,
	"role":        ROLE,
	"label":       LABEL,
	"placeholder": PLACEHOLDER,
	"alt":         ALT,
	"title":       TITLE,
	"css":         CSS,
	"xpath":       XPATH,
	"button":      BUTTON,
	"link":        LINK,
	"checkbox":    CHECKBOX,

	"click":      CLICK,
	"check":      CHECK,
	"uncheck":    UNCHECK,
	"hover":      HOVER,
	"clear":      CLEAR,
	"fill":       FILL,
	"open":       OPEN,
	"in":         IN,
	"new":        NEW,
	"tab":        TAB,
	"select":     SELECT,
	"from":       FROM,
	"press":      PRESS,
	"scroll":     SCROLL,
	"to":         TO,
	"up":         UP,
	"down":       DOWN,
	"top":        TOP,
	"bottom":     BOTTOM,
	"wait":       WAIT,
	"for":        FOR,
	"seconds":    SECONDS,
	"minutes":    MINUTES,
	"ms":         MS,
	"perform":    PERFORM,
	"refresh":    REFRESH,
	"screenshot": SCREENSHOT,
	"log":        LOG,
	"upload":     UPLOAD,
	"switch":     SWITCH,
	"close":      CLOSE,

	"verify":    VERIFY,
	"url":       URL,
	"is":        IS,
	"not":       NOT,
	"has":       HAS,
	"visible":   VISIBLE,
	"hidden":    HIDDEN,
	"enabled":   ENABLED,
	"disabled":  DISABLED,
	"checked":   CHECKED,
	"empty":     EMPTY,
	"contains":  CONTAINS,
	"value":     VALUE,
	"class":     CLASS,
	"attribute": ATTRIBUTE,

	"if":     IF,
	"else":   ELSE,
	"repeat": REPEAT,
	"times":  TIMES,
	"return": RETURN,

	"text":   TEXT,
	"number": NUMBER,
	"flag":   FLAG,
	"list":   LIST,
	"data":   DATA,

	"row":      ROW,
	"rows":     ROWS,
	"where":    WHERE,
	"order":    ORDER,
	"by":       BY,
	"asc":      ASC,
	"desc":     DESC,
	"limit":    LIMIT,
	"offset":   OFFSET,
	"default":  DEFAULT,
	"count":    COUNT,
	"sum":      SUM,
	"average":  AVERAGE,
	"min":      MIN,
	"max":      MAX,
	"distinct": DISTINCT,
	"columns":  COLUMNS,
	"headers":  HEADERS,
	"testdata": TESTDATA,
	"first":    FIRST,
	"last":     LAST,
	"random":   RANDOM,
	"cell":     CELL,
	"and":      AND,
	"or":       OR,
	"null":     NULL,
	"starts":   STARTS,
	"ends":     ENDS,
	"between":  BETWEEN,

	"then":     THEN,
	"trim":     TRIM,
	"convert":  CONVERT,
	"extract":  EXTRACT,
	"replace":  REPLACE,
	"split":    SPLIT,
	"join":     JOIN,
	"length":   LENGTH,
	"pad":      PAD,
	"add":      ADD,
	"subtract": SUBTRACT,
	"format":   FORMAT,
	"round":    ROUND,
	"absolute": ABSOLUTE,
	"generate": GENERATE,
	"today":    TODAY,
	"now":      NOW,
	"of":       OF,
}

// keywordNames is the reverse of Keywords, built once for Type.String.
var keywordNames = func() map[Type]string {
	m := make(map[Type]string, len(Keywords))
	for word, typ := range Keywords {
		m[typ] = word
	}
	return m
}()

// IsKeyword reports whether the type is a reserved word.
func (t Type) IsKeyword() bool {
	_, ok := keywordNames[t]
	return ok
}

// IsSelectorKind reports whether the type names a field selector strategy.
func (t Type) IsSelectorKind() bool {
	switch t {
	case TESTID, ROLE, LABEL, PLACEHOLDER, TEXT, ALT, TITLE, CSS, XPATH, BUTTON, LINK, CHECKBOX:
		return true
	}
	return false
}

// IsValueKind reports whether the type names a declared variable kind.
func (t Type) IsValueKind() bool {
	switch t {
	case TEXT, NUMBER, FLAG, LIST, DATA:
		return true
	}
	return false
}

// IsUtilityFn reports whether the type starts a utility call.
func (t Type) IsUtilityFn() bool {
	switch t {
	case TRIM, CONVERT, EXTRACT, REPLACE, SPLIT, JOIN, LENGTH, PAD, ADD,
		SUBTRACT, FORMAT, ROUND, ABSOLUTE, GENERATE, RANDOM, TODAY, NOW:
		return true
	}
	return false
}

// IsQueryStart reports whether the type can begin a legacy aggregation or
// table query on the right-hand side of a typed declaration.
func (t Type) IsQueryStart() bool {
	switch t {
	case COUNT, SUM, AVERAGE, MIN, MAX, DISTINCT, ROWS, COLUMNS, HEADERS,
		TESTDATA, FIRST, LAST, RANDOM:
		return true
	}
	return false
}

// IsCompareOp reports whether the type is a binary comparison operator.
func (t Type) IsCompareOp() bool {
	switch t {
	case GT, LT, GT_EQ, LT_EQ, EQ_EQ, NOT_EQ:
		return true
	}
	return false
}

// Checkpoint is an opaque saved stream position.
type Checkpoint int

// Stream is an indexed, peekable token sequence with bounded-lookahead
// support. Advancing mutates only the cursor; the underlying tokens are
// immutable.
type Stream struct {
	tokens []Token
	pos    int
}

// NewStream wraps a token slice. The slice should end with an EOF token;
// Peek and Next synthesize one if it does not.
func NewStream(tokens []Token) *Stream {
	return &Stream{tokens: tokens}
}

// Peek returns the token kind at the given offset from the cursor without
// advancing. Offsets past the end report EOF.
func (s *Stream) Peek(offset int) Type {
	return s.At(offset).Type
}

// At returns the full token at the given offset from the cursor.
func (s *Stream) At(offset int) Token {
	i := s.pos + offset
	if i >= len(s.tokens) {
		return s.eofToken()
	}
	return s.tokens[i]
}

// Next returns the current token and advances the cursor.
func (s *Stream) Next() Token {
	t := s.At(0)
	if s.pos < len(s.tokens) {
		s.pos++
	}
	return t
}

// Mark saves the cursor for a later Reset.
func (s *Stream) Mark() Checkpoint { return Checkpoint(s.pos) }

// Reset restores a cursor saved by Mark.
func (s *Stream) Reset(c Checkpoint) { s.pos = int(c) }

// Pos returns the cursor index (the number of tokens consumed).
func (s *Stream) Pos() int { return s.pos }

func (s *Stream) eofToken() Token {
	if n := len(s.tokens); n > 0 && s.tokens[n-1].Type == EOF {
		return s.tokens[n-1]
	}
	return Token{Type: EOF}
}
