// Package ast defines the abstract syntax tree for scenic source files.
//
// Every node is pure data, created once by the parser and never mutated.
// Ownership is strictly tree-shaped: parents own children by value (or by
// pointer to a node owned nowhere else), and there are no back-references.
// Node kinds form closed sets per category, dispatched with ordinary type
// switches.
package ast

import (
	"fmt"
	"strings"

	"github.com/scenic-lang/scenic/core/token"
)

// Node is implemented by every AST node.
type Node interface {
	// String renders the node as canonical source text. Reparsing the
	// rendered form of a valid program yields a structurally identical AST.
	String() string
	// Position is the source location of the node's first token.
	Position() token.Position
}

// Declaration is a top-level declaration: Page, PageActions, Feature or
// Fixture.
type Declaration interface {
	Node
	declNode()
}

// Statement is any statement legal inside an action, scenario, hook, setup
// or teardown body.
type Statement interface {
	Node
	stmtNode()
}

// Expression is a plain value expression: literal, identifier reference, or
// page member reference. The plain expression grammar has no operators;
// comparisons and pipelines live in BoolExpr, DataCondition and UtilityExpr.
type Expression interface {
	Node
	exprNode()
}

// Program is the root node: an ordered list of declarations.
type Program struct {
	Declarations []Declaration
}

func (p *Program) String() string {
	parts := make([]string, len(p.Declarations))
	for i, d := range p.Declarations {
		parts[i] = d.String()
	}
	return strings.Join(parts, "\n\n")
}

func (p *Program) Position() token.Position {
	if len(p.Declarations) > 0 {
		return p.Declarations[0].Position()
	}
	return token.Position{}
}

// SelectorKind tags how a page field locates its element. SelectorLegacy
// marks the old untagged form where the field holds a bare selector string.
type SelectorKind int

const (
	SelectorLegacy SelectorKind = iota
	SelectorTestID
	SelectorRole
	SelectorLabel
	SelectorPlaceholder
	SelectorText
	SelectorAlt
	SelectorTitle
	SelectorCSS
	SelectorXPath
	SelectorButton
	SelectorLink
	SelectorCheckbox
)

var selectorKindNames = [...]string{
	SelectorLegacy:      "",
	SelectorTestID:      "testid",
	SelectorRole:        "role",
	SelectorLabel:       "label",
	SelectorPlaceholder: "placeholder",
	SelectorText:        "text",
	SelectorAlt:         "alt",
	SelectorTitle:       "title",
	SelectorCSS:         "css",
	SelectorXPath:       "xpath",
	SelectorButton:      "button",
	SelectorLink:        "link",
	SelectorCheckbox:    "checkbox",
}

func (k SelectorKind) String() string { return selectorKindNames[k] }

// ValueKind is a declared value type: the TYPE keyword of variable
// declarations, utility statements and action return kinds.
type ValueKind int

const (
	KindNone ValueKind = iota // absent return kind
	KindText
	KindNumber
	KindFlag
	KindList
	KindData
)

var valueKindNames = [...]string{
	KindNone:   "",
	KindText:   "text",
	KindNumber: "number",
	KindFlag:   "flag",
	KindList:   "list",
	KindData:   "data",
}

func (k ValueKind) String() string { return valueKindNames[k] }

// Page declares a selector catalog plus reusable actions for one page.
type Page struct {
	Name    string
	Matches []string // optional URL match patterns
	Fields  []*Field
	Actions []*ActionDecl
	Pos     token.Position
}

func (p *Page) declNode()                {}
func (p *Page) Position() token.Position { return p.Pos }

func (p *Page) String() string {
	var sb strings.Builder
	sb.WriteString("page " + p.Name)
	if len(p.Matches) > 0 {
		sb.WriteString(" matches ")
		for i, m := range p.Matches {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%q", m)
		}
	}
	sb.WriteString(" {\n")
	for _, f := range p.Fields {
		sb.WriteString(f.String() + "\n")
	}
	for _, a := range p.Actions {
		sb.WriteString(a.String() + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// Field is a named selector inside a page.
type Field struct {
	Name        string
	Kind        SelectorKind
	Value       string
	DisplayName string // optional human-readable name
	Pos         token.Position
}

func (f *Field) Position() token.Position { return f.Pos }

func (f *Field) String() string {
	var sb strings.Builder
	sb.WriteString("field " + f.Name + " = ")
	if f.Kind != SelectorLegacy {
		sb.WriteString(f.Kind.String() + " ")
	}
	fmt.Fprintf(&sb, "%q", f.Value)
	if f.DisplayName != "" {
		fmt.Fprintf(&sb, " as %q", f.DisplayName)
	}
	return sb.String()
}

// ActionDecl is a reusable UI action declared in a page or actions block.
type ActionDecl struct {
	Name    string
	Params  []string
	Returns ValueKind // KindNone when undeclared
	Body    []Statement
	Pos     token.Position
}

func (a *ActionDecl) Position() token.Position { return a.Pos }

func (a *ActionDecl) String() string {
	var sb strings.Builder
	sb.WriteString(a.Name)
	if len(a.Params) > 0 {
		sb.WriteString("(" + strings.Join(a.Params, ", ") + ")")
	}
	if a.Returns != KindNone {
		sb.WriteString(" returns " + a.Returns.String())
	}
	sb.WriteString(" ")
	writeBlock(&sb, a.Body)
	return sb.String()
}

// PageActions declares actions for a page separately from its fields.
type PageActions struct {
	Page    string
	Actions []*ActionDecl
	Pos     token.Position
}

func (p *PageActions) declNode()                {}
func (p *PageActions) Position() token.Position { return p.Pos }

func (p *PageActions) String() string {
	var sb strings.Builder
	sb.WriteString("actions " + p.Page + " {\n")
	for _, a := range p.Actions {
		sb.WriteString(a.String() + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// Feature groups scenarios with shared pages, fixtures and hooks.
type Feature struct {
	Annotations []string // skip/only/serial, kept in written order
	Name        string
	Uses        []*UseDecl
	Fixtures    []*WithFixture
	Hooks       []*Hook
	Scenarios   []*Scenario
	Pos         token.Position
}

func (f *Feature) declNode()                {}
func (f *Feature) Position() token.Position { return f.Pos }

func (f *Feature) String() string {
	var sb strings.Builder
	writeAnnotations(&sb, f.Annotations)
	sb.WriteString("feature " + f.Name + " {\n")
	for _, u := range f.Uses {
		sb.WriteString(u.String() + "\n")
	}
	for _, w := range f.Fixtures {
		sb.WriteString(w.String() + "\n")
	}
	for _, h := range f.Hooks {
		sb.WriteString(h.String() + "\n")
	}
	for _, s := range f.Scenarios {
		sb.WriteString(s.String() + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// UseDecl imports a page into a feature by name.
type UseDecl struct {
	Page string
	Pos  token.Position
}

func (u *UseDecl) Position() token.Position { return u.Pos }
func (u *UseDecl) String() string           { return "use " + u.Page }

// WithFixture attaches a fixture to a feature, optionally overriding its
// declared options.
type WithFixture struct {
	Fixture   string
	Overrides []*OptionDecl
	Pos       token.Position
}

func (w *WithFixture) Position() token.Position { return w.Pos }

func (w *WithFixture) String() string {
	var sb strings.Builder
	sb.WriteString("with fixture " + w.Fixture)
	if len(w.Overrides) > 0 {
		sb.WriteString(" {\n")
		for _, o := range w.Overrides {
			sb.WriteString(o.Name + " = " + o.Default.String() + "\n")
		}
		sb.WriteString("}")
	}
	return sb.String()
}

// HookTiming distinguishes before from after hooks.
type HookTiming int

const (
	TimingBefore HookTiming = iota
	TimingAfter
)

func (t HookTiming) String() string {
	if t == TimingAfter {
		return "after"
	}
	return "before"
}

// HookScope distinguishes per-test from per-feature hooks.
type HookScope int

const (
	HookEach HookScope = iota
	HookAll
)

func (s HookScope) String() string {
	if s == HookAll {
		return "all"
	}
	return "each"
}

// Hook is a before/after x each/all lifecycle block.
type Hook struct {
	Timing HookTiming
	Scope  HookScope
	Body   []Statement
	Pos    token.Position
}

func (h *Hook) Position() token.Position { return h.Pos }

func (h *Hook) String() string {
	var sb strings.Builder
	sb.WriteString(h.Timing.String() + " " + h.Scope.String() + " ")
	writeBlock(&sb, h.Body)
	return sb.String()
}

// Scenario is a single test case.
type Scenario struct {
	Annotations []string // skip/only/slow/fixme
	Name        string
	Tags        []string // @tag names, without the @
	Body        []Statement
	Pos         token.Position
}

func (s *Scenario) Position() token.Position { return s.Pos }

func (s *Scenario) String() string {
	var sb strings.Builder
	writeAnnotations(&sb, s.Annotations)
	fmt.Fprintf(&sb, "scenario %q", s.Name)
	for _, t := range s.Tags {
		sb.WriteString(" @" + t)
	}
	sb.WriteString(" ")
	writeBlock(&sb, s.Body)
	return sb.String()
}

// FixtureScope is the lifetime of a fixture instance.
type FixtureScope int

const (
	ScopeTest FixtureScope = iota // default
	ScopeWorker
)

func (s FixtureScope) String() string {
	if s == ScopeWorker {
		return "worker"
	}
	return "test"
}

// Fixture is a named, scoped, dependency-ordered setup/teardown unit.
type Fixture struct {
	Name      string
	Params    []string
	Scope     FixtureScope
	ScopeSet  bool // whether a scope statement was written
	DependsOn []string
	Auto      bool
	Options   []*OptionDecl
	Setup     []Statement
	Teardown  []Statement
	Pos       token.Position
}

func (f *Fixture) declNode()                {}
func (f *Fixture) Position() token.Position { return f.Pos }

func (f *Fixture) String() string {
	var sb strings.Builder
	sb.WriteString("fixture " + f.Name)
	if len(f.Params) > 0 {
		sb.WriteString(" with " + strings.Join(f.Params, ", "))
	}
	sb.WriteString(" {\n")
	if f.ScopeSet {
		sb.WriteString("scope " + f.Scope.String() + "\n")
	}
	if len(f.DependsOn) > 0 {
		sb.WriteString("depends on " + strings.Join(f.DependsOn, ", ") + "\n")
	}
	if f.Auto {
		sb.WriteString("auto\n")
	}
	for _, o := range f.Options {
		sb.WriteString(o.String() + "\n")
	}
	if f.Setup != nil {
		sb.WriteString("setup ")
		writeBlock(&sb, f.Setup)
		sb.WriteString("\n")
	}
	if f.Teardown != nil {
		sb.WriteString("teardown ")
		writeBlock(&sb, f.Teardown)
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// OptionDecl is a fixture option with a default value. The same shape is
// used for option overrides in with-fixture blocks.
type OptionDecl struct {
	Name    string
	Default Expression
	Pos     token.Position
}

func (o *OptionDecl) Position() token.Position { return o.Pos }
func (o *OptionDecl) String() string           { return "option " + o.Name + " = " + o.Default.String() }

func writeBlock(sb *strings.Builder, body []Statement) {
	sb.WriteString("{\n")
	for _, s := range body {
		sb.WriteString(s.String() + "\n")
	}
	sb.WriteString("}")
}

func writeAnnotations(sb *strings.Builder, annotations []string) {
	for _, a := range annotations {
		sb.WriteString("@" + a + " ")
	}
}
