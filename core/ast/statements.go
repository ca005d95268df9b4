package ast

import (
	"fmt"
	"strings"

	"github.com/scenic-lang/scenic/core/token"
)

// Selector references a UI element: a page field (obj.field), a bare
// identifier, or an inline selector string. Structurally a subset of
// Expression; the parser guarantees only those three shapes appear.
type Selector = Expression

// StringLit is a string literal. Value holds the decoded text.
type StringLit struct {
	Value string
	Pos   token.Position
}

func (s *StringLit) exprNode()                {}
func (s *StringLit) Position() token.Position { return s.Pos }
func (s *StringLit) String() string           { return fmt.Sprintf("%q", s.Value) }

// NumberLit is a numeric literal. Raw preserves the written form.
type NumberLit struct {
	Value float64
	Raw   string
	Pos   token.Position
}

func (n *NumberLit) exprNode()                {}
func (n *NumberLit) Position() token.Position { return n.Pos }
func (n *NumberLit) String() string           { return n.Raw }

// Ident is a bare identifier reference.
type Ident struct {
	Name string
	Pos  token.Position
}

func (i *Ident) exprNode()                {}
func (i *Ident) Position() token.Position { return i.Pos }
func (i *Ident) String() string           { return i.Name }

// PageRef is a dotted page member reference: page.field or page.action.
type PageRef struct {
	Object string
	Member string
	Pos    token.Position
}

func (r *PageRef) exprNode()                {}
func (r *PageRef) Position() token.Position { return r.Pos }
func (r *PageRef) String() string           { return r.Object + "." + r.Member }

// CompareOp is a binary comparison operator.
type CompareOp int

const (
	OpGT CompareOp = iota
	OpLT
	OpGE
	OpLE
	OpEQ
	OpNE
)

var compareOpNames = [...]string{
	OpGT: ">",
	OpLT: "<",
	OpGE: ">=",
	OpLE: "<=",
	OpEQ: "==",
	OpNE: "!=",
}

func (op CompareOp) String() string { return compareOpNames[op] }

// ConditionKind is an element state tested by verify and if statements.
type ConditionKind int

const (
	CondVisible ConditionKind = iota
	CondHidden
	CondEnabled
	CondDisabled
	CondChecked
	CondEmpty
	CondContains // carries an argument
)

var conditionKindNames = [...]string{
	CondVisible:  "visible",
	CondHidden:   "hidden",
	CondEnabled:  "enabled",
	CondDisabled: "disabled",
	CondChecked:  "checked",
	CondEmpty:    "empty",
	CondContains: "contains",
}

func (k ConditionKind) String() string { return conditionKindNames[k] }

// Condition is an element state, with an argument for contains.
type Condition struct {
	Kind ConditionKind
	Arg  Expression // non-nil only for CondContains
	Pos  token.Position
}

func (c *Condition) Position() token.Position { return c.Pos }

func (c *Condition) String() string {
	if c.Kind == CondContains {
		return "contains " + c.Arg.String()
	}
	return c.Kind.String()
}

// BoolExpr is a boolean test used by if statements.
type BoolExpr interface {
	Node
	boolNode()
}

// StateCheck tests an element state: selector is [not] condition.
type StateCheck struct {
	Target  Selector
	Negated bool
	Cond    *Condition
	Pos     token.Position
}

func (s *StateCheck) boolNode()                {}
func (s *StateCheck) Position() token.Position { return s.Pos }

func (s *StateCheck) String() string {
	if s.Negated {
		return s.Target.String() + " is not " + s.Cond.String()
	}
	return s.Target.String() + " is " + s.Cond.String()
}

// Comparison compares two plain expressions.
type Comparison struct {
	Left  Expression
	Op    CompareOp
	Right Expression
	Pos   token.Position
}

func (c *Comparison) boolNode()                {}
func (c *Comparison) Position() token.Position { return c.Pos }
func (c *Comparison) String() string {
	return c.Left.String() + " " + c.Op.String() + " " + c.Right.String()
}

// Truthy wraps a bare expression used as a boolean test.
type Truthy struct {
	Value Expression
}

func (t *Truthy) boolNode()                {}
func (t *Truthy) Position() token.Position { return t.Value.Position() }
func (t *Truthy) String() string           { return t.Value.String() }

// ActionVerb is a single-selector UI action.
type ActionVerb int

const (
	VerbClick ActionVerb = iota
	VerbCheck
	VerbUncheck
	VerbHover
	VerbClear
)

var actionVerbNames = [...]string{
	VerbClick:   "click",
	VerbCheck:   "check",
	VerbUncheck: "uncheck",
	VerbHover:   "hover",
	VerbClear:   "clear",
}

func (v ActionVerb) String() string { return actionVerbNames[v] }

// ElementAction is click/check/uncheck/hover/clear on one element.
type ElementAction struct {
	Verb   ActionVerb
	Target Selector
	Pos    token.Position
}

func (a *ElementAction) stmtNode()                {}
func (a *ElementAction) Position() token.Position { return a.Pos }
func (a *ElementAction) String() string           { return a.Verb.String() + " " + a.Target.String() }

// FillStmt types a value into an input element.
type FillStmt struct {
	Target Selector
	Value  Expression
	Pos    token.Position
}

func (f *FillStmt) stmtNode()                {}
func (f *FillStmt) Position() token.Position { return f.Pos }
func (f *FillStmt) String() string {
	return "fill " + f.Target.String() + " with " + f.Value.String()
}

// OpenStmt navigates to a URL, optionally in a new tab.
type OpenStmt struct {
	URL    Expression
	NewTab bool
	Pos    token.Position
}

func (o *OpenStmt) stmtNode()                {}
func (o *OpenStmt) Position() token.Position { return o.Pos }
func (o *OpenStmt) String() string {
	if o.NewTab {
		return "open " + o.URL.String() + " in new tab"
	}
	return "open " + o.URL.String()
}

// SelectStmt chooses an option from a select element.
type SelectStmt struct {
	Value Expression
	From  Selector
	Pos   token.Position
}

func (s *SelectStmt) stmtNode()                {}
func (s *SelectStmt) Position() token.Position { return s.Pos }
func (s *SelectStmt) String() string {
	return "select " + s.Value.String() + " from " + s.From.String()
}

// PressStmt sends a key press.
type PressStmt struct {
	Key Expression
	Pos token.Position
}

func (p *PressStmt) stmtNode()                {}
func (p *PressStmt) Position() token.Position { return p.Pos }
func (p *PressStmt) String() string           { return "press " + p.Key.String() }

// ScrollDirection is a fixed scroll target.
type ScrollDirection int

const (
	ScrollNone ScrollDirection = iota // scrolling to an element instead
	ScrollUp
	ScrollDown
	ScrollTop
	ScrollBottom
)

var scrollDirectionNames = [...]string{
	ScrollNone:   "",
	ScrollUp:     "up",
	ScrollDown:   "down",
	ScrollTop:    "top",
	ScrollBottom: "bottom",
}

func (d ScrollDirection) String() string { return scrollDirectionNames[d] }

// ScrollStmt scrolls to an element or in a fixed direction.
type ScrollStmt struct {
	To        Selector // nil when Direction is set
	Direction ScrollDirection
	Pos       token.Position
}

func (s *ScrollStmt) stmtNode()                {}
func (s *ScrollStmt) Position() token.Position { return s.Pos }
func (s *ScrollStmt) String() string {
	if s.To != nil {
		return "scroll to " + s.To.String()
	}
	return "scroll " + s.Direction.String()
}

// WaitUnit is a duration unit for wait statements.
type WaitUnit int

const (
	UnitSeconds WaitUnit = iota
	UnitMinutes
	UnitMillis
)

var waitUnitNames = [...]string{
	UnitSeconds: "seconds",
	UnitMinutes: "minutes",
	UnitMillis:  "ms",
}

func (u WaitUnit) String() string { return waitUnitNames[u] }

// WaitStmt pauses for a duration or until an element appears.
type WaitStmt struct {
	For    Selector   // wait for <selector>; nil for timed waits
	Amount Expression // wait <expr> <unit>
	Unit   WaitUnit
	Pos    token.Position
}

func (w *WaitStmt) stmtNode()                {}
func (w *WaitStmt) Position() token.Position { return w.Pos }
func (w *WaitStmt) String() string {
	if w.For != nil {
		return "wait for " + w.For.String()
	}
	return "wait " + w.Amount.String() + " " + w.Unit.String()
}

// PerformStmt invokes a declared page action, with optional arguments.
type PerformStmt struct {
	Target *PageRef
	Args   []Expression
	Pos    token.Position
}

func (p *PerformStmt) stmtNode()                {}
func (p *PerformStmt) Position() token.Position { return p.Pos }
func (p *PerformStmt) String() string {
	var sb strings.Builder
	sb.WriteString("perform " + p.Target.String())
	if len(p.Args) > 0 {
		sb.WriteString(" with ")
		for i, a := range p.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.String())
		}
	}
	return sb.String()
}

// RefreshStmt reloads the current page.
type RefreshStmt struct {
	Pos token.Position
}

func (r *RefreshStmt) stmtNode()                {}
func (r *RefreshStmt) Position() token.Position { return r.Pos }
func (r *RefreshStmt) String() string           { return "refresh" }

// ScreenshotStmt captures the page, optionally to a named path.
type ScreenshotStmt struct {
	Path Expression // optional
	Pos  token.Position
}

func (s *ScreenshotStmt) stmtNode()                {}
func (s *ScreenshotStmt) Position() token.Position { return s.Pos }
func (s *ScreenshotStmt) String() string {
	if s.Path != nil {
		return "screenshot " + s.Path.String()
	}
	return "screenshot"
}

// LogStmt writes a value to the test report.
type LogStmt struct {
	Value Expression
	Pos   token.Position
}

func (l *LogStmt) stmtNode()                {}
func (l *LogStmt) Position() token.Position { return l.Pos }
func (l *LogStmt) String() string           { return "log " + l.Value.String() }

// UploadStmt attaches one or more files to a file input.
type UploadStmt struct {
	Files []Expression
	To    Selector
	Pos   token.Position
}

func (u *UploadStmt) stmtNode()                {}
func (u *UploadStmt) Position() token.Position { return u.Pos }
func (u *UploadStmt) String() string {
	var sb strings.Builder
	sb.WriteString("upload ")
	for i, f := range u.Files {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.String())
	}
	sb.WriteString(" to " + u.To.String())
	return sb.String()
}

// SwitchTabStmt switches to a newly opened tab or to a tab by index/name.
type SwitchTabStmt struct {
	NewTab bool
	Target Expression // optional for new tab, required otherwise
	Pos    token.Position
}

func (s *SwitchTabStmt) stmtNode()                {}
func (s *SwitchTabStmt) Position() token.Position { return s.Pos }
func (s *SwitchTabStmt) String() string {
	if s.NewTab {
		if s.Target != nil {
			return "switch to new tab " + s.Target.String()
		}
		return "switch to new tab"
	}
	return "switch to tab " + s.Target.String()
}

// CloseTabStmt closes the current tab.
type CloseTabStmt struct {
	Pos token.Position
}

func (c *CloseTabStmt) stmtNode()                {}
func (c *CloseTabStmt) Position() token.Position { return c.Pos }
func (c *CloseTabStmt) String() string           { return "close tab" }

// VerifyStmt asserts an element state: verify sel is [not] condition.
type VerifyStmt struct {
	Target  Selector
	Negated bool
	Cond    *Condition
	Pos     token.Position
}

func (v *VerifyStmt) stmtNode()                {}
func (v *VerifyStmt) Position() token.Position { return v.Pos }
func (v *VerifyStmt) String() string {
	if v.Negated {
		return "verify " + v.Target.String() + " is not " + v.Cond.String()
	}
	return "verify " + v.Target.String() + " is " + v.Cond.String()
}

// MatchOp is how verify url / verify title compare their operand.
type MatchOp int

const (
	MatchIs MatchOp = iota
	MatchContains
	MatchPattern
)

var matchOpNames = [...]string{
	MatchIs:       "is",
	MatchContains: "contains",
	MatchPattern:  "matches",
}

func (op MatchOp) String() string { return matchOpNames[op] }

// VerifyURLStmt asserts on the current URL.
type VerifyURLStmt struct {
	Op    MatchOp
	Value Expression
	Pos   token.Position
}

func (v *VerifyURLStmt) stmtNode()                {}
func (v *VerifyURLStmt) Position() token.Position { return v.Pos }
func (v *VerifyURLStmt) String() string {
	return "verify url " + v.Op.String() + " " + v.Value.String()
}

// VerifyTitleStmt asserts on the document title.
type VerifyTitleStmt struct {
	Op    MatchOp
	Value Expression
	Pos   token.Position
}

func (v *VerifyTitleStmt) stmtNode()                {}
func (v *VerifyTitleStmt) Position() token.Position { return v.Pos }
func (v *VerifyTitleStmt) String() string {
	return "verify title " + v.Op.String() + " " + v.Value.String()
}

// HasProp is an element property tested by verify ... has.
type HasProp int

const (
	HasText HasProp = iota
	HasValue
	HasCount
	HasClass
	HasAttribute
)

var hasPropNames = [...]string{
	HasText:      "text",
	HasValue:     "value",
	HasCount:     "count",
	HasClass:     "class",
	HasAttribute: "attribute",
}

func (p HasProp) String() string { return hasPropNames[p] }

// VerifyHasStmt asserts an element property value.
type VerifyHasStmt struct {
	Target Selector
	Prop   HasProp
	Value  Expression
	Pos    token.Position
}

func (v *VerifyHasStmt) stmtNode()                {}
func (v *VerifyHasStmt) Position() token.Position { return v.Pos }
func (v *VerifyHasStmt) String() string {
	return "verify " + v.Target.String() + " has " + v.Prop.String() + " " + v.Value.String()
}

// IfStmt is a conditional with an optional else branch. An else-if chain is
// an Else slice holding a single nested IfStmt.
type IfStmt struct {
	Cond BoolExpr
	Then []Statement
	Else []Statement // nil when absent
	Pos  token.Position
}

func (i *IfStmt) stmtNode()                {}
func (i *IfStmt) Position() token.Position { return i.Pos }
func (i *IfStmt) String() string {
	var sb strings.Builder
	sb.WriteString("if " + i.Cond.String() + " ")
	writeBlock(&sb, i.Then)
	if i.Else != nil {
		if len(i.Else) == 1 {
			if nested, ok := i.Else[0].(*IfStmt); ok {
				sb.WriteString(" else " + nested.String())
				return sb.String()
			}
		}
		sb.WriteString(" else ")
		writeBlock(&sb, i.Else)
	}
	return sb.String()
}

// RepeatStmt runs a body a fixed number of times.
type RepeatStmt struct {
	Count Expression
	Body  []Statement
	Pos   token.Position
}

func (r *RepeatStmt) stmtNode()                {}
func (r *RepeatStmt) Position() token.Position { return r.Pos }
func (r *RepeatStmt) String() string {
	var sb strings.Builder
	sb.WriteString("repeat " + r.Count.String() + " times ")
	writeBlock(&sb, r.Body)
	return sb.String()
}

// ReturnStmt returns from an action, optionally with a value.
type ReturnStmt struct {
	Value Expression // nil for bare return
	Pos   token.Position
}

func (r *ReturnStmt) stmtNode()                {}
func (r *ReturnStmt) Position() token.Position { return r.Pos }
func (r *ReturnStmt) String() string {
	if r.Value != nil {
		return "return " + r.Value.String()
	}
	return "return"
}

// VarDecl declares a typed variable with a plain expression initializer.
type VarDecl struct {
	Kind  ValueKind
	Name  string
	Value Expression
	Pos   token.Position
}

func (v *VarDecl) stmtNode()                {}
func (v *VarDecl) Position() token.Position { return v.Pos }
func (v *VarDecl) String() string {
	return v.Kind.String() + " " + v.Name + " = " + v.Value.String()
}

// AssignStmt reassigns an existing variable.
type AssignStmt struct {
	Name  string
	Value Expression
	Pos   token.Position
}

func (a *AssignStmt) stmtNode()                {}
func (a *AssignStmt) Position() token.Position { return a.Pos }
func (a *AssignStmt) String() string           { return a.Name + " = " + a.Value.String() }
