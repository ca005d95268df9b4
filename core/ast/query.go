package ast

import (
	"strings"

	"github.com/scenic-lang/scenic/core/token"
)

// TableRef addresses test data: a whole table, a sheet, a row by index, a
// row range, or a single cell. Sheet/index order is preserved as written.
type TableRef struct {
	Table      string
	Sheet      string     // optional
	SheetFirst bool       // testdata.T.Sheet[i] vs testdata.T[i].Sheet
	Index      Expression // row index, or low bound of a range
	High       Expression // high bound; non-nil only for ranges
	CellRow    Expression // non-nil only for cell refs, together with CellCol
	CellCol    Expression
	Pos        token.Position
}

func (t *TableRef) Position() token.Position { return t.Pos }

func (t *TableRef) String() string {
	var sb strings.Builder
	sb.WriteString("testdata." + t.Table)
	if t.CellRow != nil {
		sb.WriteString(".cell[" + t.CellRow.String() + ", " + t.CellCol.String() + "]")
		return sb.String()
	}
	writeIndex := func() {
		if t.Index == nil {
			return
		}
		sb.WriteString("[" + t.Index.String())
		if t.High != nil {
			sb.WriteString(".." + t.High.String())
		}
		sb.WriteString("]")
	}
	if t.Sheet != "" && t.SheetFirst {
		sb.WriteString("." + t.Sheet)
		writeIndex()
	} else {
		writeIndex()
		if t.Sheet != "" {
			sb.WriteString("." + t.Sheet)
		}
	}
	return sb.String()
}

// ColumnRef addresses one column of a table.
type ColumnRef struct {
	Table  string
	Column string
	Pos    token.Position
}

func (c *ColumnRef) Position() token.Position { return c.Pos }
func (c *ColumnRef) String() string           { return "testdata." + c.Table + "." + c.Column }

// OrderKey is one column of an order-by clause.
type OrderKey struct {
	Column string
	Desc   bool
}

func (o OrderKey) String() string {
	if o.Desc {
		return o.Column + " desc"
	}
	return o.Column + " asc"
}

// QueryModifiers is the unordered, each-at-most-once modifier set of a rows
// or table query. Nil/empty fields mean the modifier was not written.
type QueryModifiers struct {
	Where   DataCondition
	OrderBy []OrderKey
	Limit   Expression
	Offset  Expression
	Default Expression
}

func (m *QueryModifiers) writeTo(sb *strings.Builder) {
	if m.Where != nil {
		sb.WriteString(" where " + m.Where.String())
	}
	if len(m.OrderBy) > 0 {
		sb.WriteString(" order by ")
		for i, k := range m.OrderBy {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k.String())
		}
	}
	if m.Limit != nil {
		sb.WriteString(" limit " + m.Limit.String())
	}
	if m.Offset != nil {
		sb.WriteString(" offset " + m.Offset.String())
	}
	if m.Default != nil {
		sb.WriteString(" default " + m.Default.String())
	}
}

// RowPick selects which row a single-row query returns.
type RowPick int

const (
	PickNone RowPick = iota // first matching row
	PickFirst
	PickLast
	PickRandom
)

var rowPickNames = [...]string{
	PickNone:   "",
	PickFirst:  "first",
	PickLast:   "last",
	PickRandom: "random",
}

func (p RowPick) String() string { return rowPickNames[p] }

// RowQuery binds a single row: row r = [first|last|random] tableRef ...
type RowQuery struct {
	Name    string
	Pick    RowPick
	Table   *TableRef
	Where   DataCondition
	OrderBy []OrderKey
	Pos     token.Position
}

func (r *RowQuery) stmtNode()                {}
func (r *RowQuery) Position() token.Position { return r.Pos }

func (r *RowQuery) String() string {
	var sb strings.Builder
	sb.WriteString("row " + r.Name + " = ")
	if r.Pick != PickNone {
		sb.WriteString(r.Pick.String() + " ")
	}
	sb.WriteString(r.Table.String())
	mods := QueryModifiers{Where: r.Where, OrderBy: r.OrderBy}
	mods.writeTo(&sb)
	return sb.String()
}

// RowsQuery binds a filtered, sorted, paginated row set.
type RowsQuery struct {
	Name  string
	Table *TableRef
	Mods  QueryModifiers
	Pos   token.Position
}

func (r *RowsQuery) stmtNode()                {}
func (r *RowsQuery) Position() token.Position { return r.Pos }

func (r *RowsQuery) String() string {
	var sb strings.Builder
	sb.WriteString("rows " + r.Name + " = " + r.Table.String())
	r.Mods.writeTo(&sb)
	return sb.String()
}

// ColumnQuery binds the values of one column: x = testdata.T.col [where].
type ColumnQuery struct {
	Name   string
	Column *ColumnRef
	Where  DataCondition
	Pos    token.Position
}

func (c *ColumnQuery) stmtNode()                {}
func (c *ColumnQuery) Position() token.Position { return c.Pos }

func (c *ColumnQuery) String() string {
	s := c.Name + " = " + c.Column.String()
	if c.Where != nil {
		s += " where " + c.Where.String()
	}
	return s
}

// CountQuery binds a row count: number n = count tableRef [where].
type CountQuery struct {
	Name  string
	Table *TableRef
	Where DataCondition
	Pos   token.Position
}

func (c *CountQuery) stmtNode()                {}
func (c *CountQuery) Position() token.Position { return c.Pos }

func (c *CountQuery) String() string {
	s := "number " + c.Name + " = count " + c.Table.String()
	if c.Where != nil {
		s += " where " + c.Where.String()
	}
	return s
}

// AggOp is a legacy aggregation operation.
type AggOp int

const (
	AggCount AggOp = iota // count over a table
	AggCountDistinct
	AggSum
	AggAverage
	AggMin
	AggMax
	AggDistinct
	AggRowsIn
	AggColumnsIn
	AggHeadersOf
)

// AggregationQuery is the legacy TYPE ident = aggregation form.
type AggregationQuery struct {
	Kind   ValueKind
	Name   string
	Op     AggOp
	Table  *TableRef  // table-addressed ops: count, rows in, columns in, headers of
	Column *ColumnRef // column-addressed ops: sum, average, min, max, distinct
	Where  DataCondition
	Pos    token.Position
}

func (a *AggregationQuery) stmtNode()                {}
func (a *AggregationQuery) Position() token.Position { return a.Pos }

func (a *AggregationQuery) String() string {
	var sb strings.Builder
	sb.WriteString(a.Kind.String() + " " + a.Name + " = ")
	switch a.Op {
	case AggCount:
		sb.WriteString("count " + a.Table.String())
	case AggCountDistinct:
		sb.WriteString("count distinct " + a.Column.String())
	case AggSum:
		sb.WriteString("sum " + a.Column.String())
	case AggAverage:
		sb.WriteString("average " + a.Column.String())
	case AggMin:
		sb.WriteString("min " + a.Column.String())
	case AggMax:
		sb.WriteString("max " + a.Column.String())
	case AggDistinct:
		sb.WriteString("distinct " + a.Column.String())
	case AggRowsIn:
		sb.WriteString("rows in " + a.Table.String())
	case AggColumnsIn:
		sb.WriteString("columns in " + a.Table.String())
	case AggHeadersOf:
		sb.WriteString("headers of " + a.Table.String())
	}
	if a.Where != nil {
		sb.WriteString(" where " + a.Where.String())
	}
	return sb.String()
}

// TableQuery is the legacy TYPE ident = [pick] tableRef modifiers form.
type TableQuery struct {
	Kind  ValueKind
	Name  string
	Pick  RowPick
	Table *TableRef
	Mods  QueryModifiers
	Pos   token.Position
}

func (t *TableQuery) stmtNode()                {}
func (t *TableQuery) Position() token.Position { return t.Pos }

func (t *TableQuery) String() string {
	var sb strings.Builder
	sb.WriteString(t.Kind.String() + " " + t.Name + " = ")
	if t.Pick != PickNone {
		sb.WriteString(t.Pick.String() + " ")
	}
	sb.WriteString(t.Table.String())
	t.Mods.writeTo(&sb)
	return sb.String()
}

// DataCondition is the recursive boolean filter tree of where clauses.
// NOT binds tightest, then AND, then OR; AND and OR are left-associative.
type DataCondition interface {
	Node
	condNode()
	// precedence orders operators for parenthesized printing.
	precedence() int
}

// LogicOp is a binary boolean connective.
type LogicOp int

const (
	LogicOr  LogicOp = iota // precedence 4
	LogicAnd                // precedence 5
)

func (op LogicOp) String() string {
	if op == LogicAnd {
		return "and"
	}
	return "or"
}

func (op LogicOp) precedence() int {
	if op == LogicAnd {
		return 5
	}
	return 4
}

// BinaryCondition joins two conditions with and/or.
type BinaryCondition struct {
	Op    LogicOp
	Left  DataCondition
	Right DataCondition
	Pos   token.Position
}

func (b *BinaryCondition) condNode()                {}
func (b *BinaryCondition) Position() token.Position { return b.Pos }
func (b *BinaryCondition) precedence() int          { return b.Op.precedence() }

func (b *BinaryCondition) String() string {
	// Parenthesize children that bind looser than this node, so printing
	// preserves the parsed grouping.
	left := b.Left.String()
	if b.Left.precedence() < b.precedence() {
		left = "(" + left + ")"
	}
	right := b.Right.String()
	// Right child at equal precedence was parenthesized in the source
	// (left-associativity would otherwise have absorbed it).
	if b.Right.precedence() <= b.precedence() {
		right = "(" + right + ")"
	}
	return left + " " + b.Op.String() + " " + right
}

// NotCondition negates a condition.
type NotCondition struct {
	Inner DataCondition
	Pos   token.Position
}

func (n *NotCondition) condNode()                {}
func (n *NotCondition) Position() token.Position { return n.Pos }
func (n *NotCondition) precedence() int          { return 6 }

func (n *NotCondition) String() string {
	if n.Inner.precedence() < n.precedence() {
		return "not (" + n.Inner.String() + ")"
	}
	return "not " + n.Inner.String()
}

const leafPrecedence = 7

// FieldComparison compares a column against an expression.
type FieldComparison struct {
	Field string
	Op    CompareOp
	Value Expression
	Pos   token.Position
}

func (f *FieldComparison) condNode()                {}
func (f *FieldComparison) Position() token.Position { return f.Pos }
func (f *FieldComparison) precedence() int          { return leafPrecedence }
func (f *FieldComparison) String() string {
	return f.Field + " " + f.Op.String() + " " + f.Value.String()
}

// TextOp is a textual comparison in a data filter.
type TextOp int

const (
	TextContains TextOp = iota
	TextStartsWith
	TextEndsWith
	TextMatches
)

var textOpNames = [...]string{
	TextContains:   "contains",
	TextStartsWith: "starts with",
	TextEndsWith:   "ends with",
	TextMatches:    "matches",
}

func (op TextOp) String() string { return textOpNames[op] }

// TextMatch applies a textual operator to a column.
type TextMatch struct {
	Field string
	Op    TextOp
	Value Expression
	Pos   token.Position
}

func (t *TextMatch) condNode()                {}
func (t *TextMatch) Position() token.Position { return t.Pos }
func (t *TextMatch) precedence() int          { return leafPrecedence }
func (t *TextMatch) String() string {
	return t.Field + " " + t.Op.String() + " " + t.Value.String()
}

// InListCondition tests column membership in a literal list.
type InListCondition struct {
	Field   string
	Negated bool
	Values  []Expression
	Pos     token.Position
}

func (i *InListCondition) condNode()                {}
func (i *InListCondition) Position() token.Position { return i.Pos }
func (i *InListCondition) precedence() int          { return leafPrecedence }

func (i *InListCondition) String() string {
	var sb strings.Builder
	sb.WriteString(i.Field)
	if i.Negated {
		sb.WriteString(" not")
	}
	sb.WriteString(" in [")
	for n, v := range i.Values {
		if n > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteString("]")
	return sb.String()
}

// EmptyCondition tests whether a column is empty.
type EmptyCondition struct {
	Field   string
	Negated bool
	Pos     token.Position
}

func (e *EmptyCondition) condNode()                {}
func (e *EmptyCondition) Position() token.Position { return e.Pos }
func (e *EmptyCondition) precedence() int          { return leafPrecedence }

func (e *EmptyCondition) String() string {
	if e.Negated {
		return e.Field + " is not empty"
	}
	return e.Field + " is empty"
}

// NullCondition tests whether a column is null.
type NullCondition struct {
	Field string
	Pos   token.Position
}

func (n *NullCondition) condNode()                {}
func (n *NullCondition) Position() token.Position { return n.Pos }
func (n *NullCondition) precedence() int          { return leafPrecedence }
func (n *NullCondition) String() string           { return n.Field + " is null" }

// DateOp is a date comparison in a data filter.
type DateOp int

const (
	DateBefore DateOp = iota
	DateAfter
	DateBetween
)

// DateCondition compares a date column. Upper is set only for between.
type DateCondition struct {
	Field string
	Op    DateOp
	Value Expression
	Upper Expression
	Pos   token.Position
}

func (d *DateCondition) condNode()                {}
func (d *DateCondition) Position() token.Position { return d.Pos }
func (d *DateCondition) precedence() int          { return leafPrecedence }

func (d *DateCondition) String() string {
	switch d.Op {
	case DateBefore:
		return d.Field + " before " + d.Value.String()
	case DateAfter:
		return d.Field + " after " + d.Value.String()
	default:
		return d.Field + " between " + d.Value.String() + " and " + d.Upper.String()
	}
}

// UtilityExpr is a pipeline operand: a utility call, a plain value, or a
// THEN chain of either.
type UtilityExpr interface {
	Node
	utilNode()
}

// ThenExpr chains two pipeline stages. Chains are left-associative:
// a then b then c parses as ((a then b) then c).
type ThenExpr struct {
	Left  UtilityExpr
	Right UtilityExpr
	Pos   token.Position
}

func (t *ThenExpr) utilNode()                {}
func (t *ThenExpr) Position() token.Position { return t.Pos }
func (t *ThenExpr) String() string           { return t.Left.String() + " then " + t.Right.String() }

// UtilityFn is one of the built-in string/date/number transformations.
type UtilityFn int

const (
	UtilTrim UtilityFn = iota
	UtilConvert
	UtilExtract
	UtilReplace
	UtilSplit
	UtilJoin
	UtilLength
	UtilPad
	UtilAdd
	UtilSubtract
	UtilFormat
	UtilRound
	UtilAbsolute
	UtilGenerate
	UtilRandom
	UtilToday
	UtilNow
)

var utilityFnNames = [...]string{
	UtilTrim:     "trim",
	UtilConvert:  "convert",
	UtilExtract:  "extract",
	UtilReplace:  "replace",
	UtilSplit:    "split",
	UtilJoin:     "join",
	UtilLength:   "length",
	UtilPad:      "pad",
	UtilAdd:      "add",
	UtilSubtract: "subtract",
	UtilFormat:   "format",
	UtilRound:    "round",
	UtilAbsolute: "absolute",
	UtilGenerate: "generate",
	UtilRandom:   "random",
	UtilToday:    "today",
	UtilNow:      "now",
}

func (f UtilityFn) String() string { return utilityFnNames[f] }

// UtilityClause is a prepositional operand of a utility call, such as
// "to uppercase" or "by ','".
type UtilityClause struct {
	Keyword string // to, with, by, from, in, as, of, between, and
	Value   Expression
}

func (c UtilityClause) String() string { return c.Keyword + " " + c.Value.String() }

// UtilityCall is one utility invocation with an optional positional
// argument and prepositional clauses.
type UtilityCall struct {
	Fn      UtilityFn
	Arg     Expression // optional
	Clauses []UtilityClause
	Pos     token.Position
}

func (u *UtilityCall) utilNode()                {}
func (u *UtilityCall) Position() token.Position { return u.Pos }

func (u *UtilityCall) String() string {
	var sb strings.Builder
	sb.WriteString(u.Fn.String())
	if u.Arg != nil {
		sb.WriteString(" " + u.Arg.String())
	}
	for _, c := range u.Clauses {
		sb.WriteString(" " + c.String())
	}
	return sb.String()
}

// PipelineValue wraps a plain expression used as a pipeline stage.
type PipelineValue struct {
	X Expression
}

func (p *PipelineValue) utilNode()                {}
func (p *PipelineValue) Position() token.Position { return p.X.Position() }
func (p *PipelineValue) String() string           { return p.X.String() }

// UtilityStmt declares a typed variable initialized by a pipeline.
type UtilityStmt struct {
	Kind     ValueKind
	Name     string
	Pipeline UtilityExpr
	Pos      token.Position
}

func (u *UtilityStmt) stmtNode()                {}
func (u *UtilityStmt) Position() token.Position { return u.Pos }
func (u *UtilityStmt) String() string {
	return u.Kind.String() + " " + u.Name + " = " + u.Pipeline.String()
}
