package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/scenic-lang/scenic/core/ast"
	"github.com/scenic-lang/scenic/core/token"
)

// Structural comparisons ignore source positions.
var ignorePos = cmpopts.IgnoreTypes(token.Position{})

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := ParseString(src)
	if err != nil {
		t.Fatalf("parse failed: %v\nsource:\n%s", err, src)
	}
	return prog
}

// stmts parses statements wrapped in a minimal scenario body.
func stmts(t *testing.T, body string) []ast.Statement {
	t.Helper()
	prog := mustParse(t, "feature F {\nscenario \"s\" {\n"+body+"\n}\n}")
	feature, ok := prog.Declarations[0].(*ast.Feature)
	if !ok {
		t.Fatalf("expected feature, got %T", prog.Declarations[0])
	}
	return feature.Scenarios[0].Body
}

func stmt1(t *testing.T, body string) ast.Statement {
	t.Helper()
	list := stmts(t, body)
	if len(list) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(list))
	}
	return list[0]
}

func parseErr(t *testing.T, src string) *ParseError {
	t.Helper()
	_, err := ParseString(src)
	if err == nil {
		t.Fatalf("expected parse error for:\n%s", src)
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	return perr
}

func TestEmptyInputYieldsEmptyProgram(t *testing.T) {
	for _, toks := range [][]token.Token{
		nil,
		{{Type: token.EOF}},
	} {
		prog, err := ParseTokens(toks)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(prog.Declarations) != 0 {
			t.Errorf("expected empty program, got %d declarations", len(prog.Declarations))
		}
	}
}

func TestPageDeclaration(t *testing.T) {
	prog := mustParse(t, `page Login {
		field user = testid "user"
		field pass = testid "pass"
		submit { click user }
	}`)

	want := &ast.Program{Declarations: []ast.Declaration{
		&ast.Page{
			Name: "Login",
			Fields: []*ast.Field{
				{Name: "user", Kind: ast.SelectorTestID, Value: "user"},
				{Name: "pass", Kind: ast.SelectorTestID, Value: "pass"},
			},
			Actions: []*ast.ActionDecl{
				{Name: "submit", Body: []ast.Statement{
					&ast.ElementAction{Verb: ast.VerbClick, Target: &ast.Ident{Name: "user"}},
				}},
			},
		},
	}}
	if diff := cmp.Diff(want, prog, ignorePos); diff != "" {
		t.Errorf("AST mismatch (-want +got):\n%s", diff)
	}
}

func TestPageMatchesAndFieldForms(t *testing.T) {
	prog := mustParse(t, `page Checkout matches "/checkout", "/cart" {
		field total = css ".total" as "Order total"
		field legacy = "#old-school"
	}`)

	page := prog.Declarations[0].(*ast.Page)
	want := &ast.Page{
		Name:    "Checkout",
		Matches: []string{"/checkout", "/cart"},
		Fields: []*ast.Field{
			{Name: "total", Kind: ast.SelectorCSS, Value: ".total", DisplayName: "Order total"},
			{Name: "legacy", Kind: ast.SelectorLegacy, Value: "#old-school"},
		},
	}
	if diff := cmp.Diff(want, page, ignorePos); diff != "" {
		t.Errorf("page mismatch (-want +got):\n%s", diff)
	}
}

func TestActionsDeclaration(t *testing.T) {
	prog := mustParse(t, `actions Login {
		signIn(name, secret) returns flag {
			fill user with name
			fill pass with secret
			click submit
			return true
		}
	}`)

	decl := prog.Declarations[0].(*ast.PageActions)
	if decl.Page != "Login" {
		t.Errorf("page = %q, want Login", decl.Page)
	}
	action := decl.Actions[0]
	if diff := cmp.Diff([]string{"name", "secret"}, action.Params); diff != "" {
		t.Errorf("params mismatch:\n%s", diff)
	}
	if action.Returns != ast.KindFlag {
		t.Errorf("returns = %v, want flag", action.Returns)
	}
	if len(action.Body) != 4 {
		t.Errorf("body length = %d, want 4", len(action.Body))
	}
}

func TestFixtureDeclaration(t *testing.T) {
	prog := mustParse(t, `fixture db with a,b {
		scope test
		depends on x
		auto
		setup { click y }
		teardown { }
	}`)

	want := &ast.Program{Declarations: []ast.Declaration{
		&ast.Fixture{
			Name:      "db",
			Params:    []string{"a", "b"},
			Scope:     ast.ScopeTest,
			ScopeSet:  true,
			DependsOn: []string{"x"},
			Auto:      true,
			Setup: []ast.Statement{
				&ast.ElementAction{Verb: ast.VerbClick, Target: &ast.Ident{Name: "y"}},
			},
			Teardown: []ast.Statement{},
		},
	}}
	if diff := cmp.Diff(want, prog, ignorePos); diff != "" {
		t.Errorf("AST mismatch (-want +got):\n%s", diff)
	}
}

func TestFixtureOptionsAndWorkerScope(t *testing.T) {
	prog := mustParse(t, `fixture session {
		scope worker
		option retries = 3
		option name = "default"
	}`)

	fixture := prog.Declarations[0].(*ast.Fixture)
	if fixture.Scope != ast.ScopeWorker || !fixture.ScopeSet {
		t.Errorf("scope = %v (set=%v), want worker", fixture.Scope, fixture.ScopeSet)
	}
	want := []*ast.OptionDecl{
		{Name: "retries", Default: &ast.NumberLit{Value: 3, Raw: "3"}},
		{Name: "name", Default: &ast.StringLit{Value: "default"}},
	}
	if diff := cmp.Diff(want, fixture.Options, ignorePos); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestFeatureMembers(t *testing.T) {
	prog := mustParse(t, `@skip @serial feature Checkout {
		use CartPage
		with fixture db { retries = 2 }
		before each { refresh }
		after all { close tab }
		@slow scenario "buys an item" @smoke @cart {
			click CartPage.buy
		}
	}`)

	feature := prog.Declarations[0].(*ast.Feature)
	if diff := cmp.Diff([]string{"skip", "serial"}, feature.Annotations); diff != "" {
		t.Errorf("annotations mismatch:\n%s", diff)
	}
	if len(feature.Uses) != 1 || feature.Uses[0].Page != "CartPage" {
		t.Errorf("uses = %+v", feature.Uses)
	}
	fix := feature.Fixtures[0]
	if fix.Fixture != "db" || len(fix.Overrides) != 1 || fix.Overrides[0].Name != "retries" {
		t.Errorf("fixture attach = %+v", fix)
	}
	if len(feature.Hooks) != 2 {
		t.Fatalf("hooks = %d, want 2", len(feature.Hooks))
	}
	if feature.Hooks[0].Timing != ast.TimingBefore || feature.Hooks[0].Scope != ast.HookEach {
		t.Errorf("hook 0 = %+v", feature.Hooks[0])
	}
	if feature.Hooks[1].Timing != ast.TimingAfter || feature.Hooks[1].Scope != ast.HookAll {
		t.Errorf("hook 1 = %+v", feature.Hooks[1])
	}
	scenario := feature.Scenarios[0]
	if scenario.Name != "buys an item" {
		t.Errorf("scenario name = %q", scenario.Name)
	}
	if diff := cmp.Diff([]string{"slow"}, scenario.Annotations); diff != "" {
		t.Errorf("scenario annotations mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"smoke", "cart"}, scenario.Tags); diff != "" {
		t.Errorf("scenario tags mismatch:\n%s", diff)
	}
}

func TestCountStatementWithCondition(t *testing.T) {
	got := stmt1(t, `number n = count testdata.Users where age > 18 and active == true`)

	want := &ast.CountQuery{
		Name:  "n",
		Table: &ast.TableRef{Table: "Users"},
		Where: &ast.BinaryCondition{
			Op: ast.LogicAnd,
			Left: &ast.FieldComparison{
				Field: "age", Op: ast.OpGT,
				Value: &ast.NumberLit{Value: 18, Raw: "18"},
			},
			Right: &ast.FieldComparison{
				Field: "active", Op: ast.OpEQ,
				Value: &ast.Ident{Name: "true"},
			},
		},
	}
	if diff := cmp.Diff(want, got, ignorePos); diff != "" {
		t.Errorf("AST mismatch (-want +got):\n%s", diff)
	}
}

func TestTableQueryWithAllModifiers(t *testing.T) {
	got := stmt1(t, `data r = rows testdata.Users where age > 18 order by name desc limit 10 offset 5`)

	want := &ast.TableQuery{
		Kind:  ast.KindData,
		Name:  "r",
		Table: &ast.TableRef{Table: "Users"},
		Mods: ast.QueryModifiers{
			Where: &ast.FieldComparison{
				Field: "age", Op: ast.OpGT,
				Value: &ast.NumberLit{Value: 18, Raw: "18"},
			},
			OrderBy: []ast.OrderKey{{Column: "name", Desc: true}},
			Limit:   &ast.NumberLit{Value: 10, Raw: "10"},
			Offset:  &ast.NumberLit{Value: 5, Raw: "5"},
		},
	}
	if diff := cmp.Diff(want, got, ignorePos); diff != "" {
		t.Errorf("AST mismatch (-want +got):\n%s", diff)
	}
}

func TestUtilityPipeline(t *testing.T) {
	got := stmt1(t, `text t = trim name then convert t to uppercase`)

	want := &ast.UtilityStmt{
		Kind: ast.KindText,
		Name: "t",
		Pipeline: &ast.ThenExpr{
			Left: &ast.UtilityCall{Fn: ast.UtilTrim, Arg: &ast.Ident{Name: "name"}},
			Right: &ast.UtilityCall{
				Fn:  ast.UtilConvert,
				Arg: &ast.Ident{Name: "t"},
				Clauses: []ast.UtilityClause{
					{Keyword: "to", Value: &ast.Ident{Name: "uppercase"}},
				},
			},
		},
	}
	if diff := cmp.Diff(want, got, ignorePos); diff != "" {
		t.Errorf("AST mismatch (-want +got):\n%s", diff)
	}
}

func TestIfElseWithStateCheck(t *testing.T) {
	got := stmt1(t, `if x.field is visible { click x.field } else { log "missing" }`)

	want := &ast.IfStmt{
		Cond: &ast.StateCheck{
			Target: &ast.PageRef{Object: "x", Member: "field"},
			Cond:   &ast.Condition{Kind: ast.CondVisible},
		},
		Then: []ast.Statement{
			&ast.ElementAction{Verb: ast.VerbClick, Target: &ast.PageRef{Object: "x", Member: "field"}},
		},
		Else: []ast.Statement{
			&ast.LogStmt{Value: &ast.StringLit{Value: "missing"}},
		},
	}
	if diff := cmp.Diff(want, got, ignorePos); diff != "" {
		t.Errorf("AST mismatch (-want +got):\n%s", diff)
	}
}

func TestKeywordMemberNames(t *testing.T) {
	// Reserved words are fine as page members after a dot.
	cases := []struct {
		src  string
		want ast.Statement
	}{
		{
			`click form.check`,
			&ast.ElementAction{Verb: ast.VerbClick, Target: &ast.PageRef{Object: "form", Member: "check"}},
		},
		{
			`fill card.number with "4111"`,
			&ast.FillStmt{
				Target: &ast.PageRef{Object: "card", Member: "number"},
				Value:  &ast.StringLit{Value: "4111"},
			},
		},
		{
			`verify nav.link is visible`,
			&ast.VerifyStmt{
				Target: &ast.PageRef{Object: "nav", Member: "link"},
				Cond:   &ast.Condition{Kind: ast.CondVisible},
			},
		},
		{
			`log header.title`,
			&ast.LogStmt{Value: &ast.PageRef{Object: "header", Member: "title"}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			got := stmt1(t, tc.src)
			if diff := cmp.Diff(tc.want, got, ignorePos); diff != "" {
				t.Errorf("AST mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOptionalOperandStopsBeforeAssignment(t *testing.T) {
	// screenshot, bare return, and switch to new tab take an optional
	// expression; a following ident = belongs to the next statement.
	cases := []struct {
		name string
		body string
		want []ast.Statement
	}{
		{
			"screenshot then assignment",
			"screenshot\ntotal = subtotal",
			[]ast.Statement{
				&ast.ScreenshotStmt{},
				&ast.AssignStmt{Name: "total", Value: &ast.Ident{Name: "subtotal"}},
			},
		},
		{
			"return then assignment",
			"return\ntotal = subtotal",
			[]ast.Statement{
				&ast.ReturnStmt{},
				&ast.AssignStmt{Name: "total", Value: &ast.Ident{Name: "subtotal"}},
			},
		},
		{
			"new tab then assignment",
			"switch to new tab\ntotal = subtotal",
			[]ast.Statement{
				&ast.SwitchTabStmt{NewTab: true},
				&ast.AssignStmt{Name: "total", Value: &ast.Ident{Name: "subtotal"}},
			},
		},
		{
			"identifier operand still consumed",
			"screenshot shotName",
			[]ast.Statement{
				&ast.ScreenshotStmt{Path: &ast.Ident{Name: "shotName"}},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := stmts(t, tc.body)
			if diff := cmp.Diff(tc.want, got, ignorePos); diff != "" {
				t.Errorf("AST mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWherePrecedence(t *testing.T) {
	// and binds tighter than or: ((a == 1 and b == 2) or c == 3).
	got := stmt1(t, `rows r = testdata.T where a == 1 and b == 2 or c == 3`)
	where := got.(*ast.RowsQuery).Mods.Where

	or, ok := where.(*ast.BinaryCondition)
	if !ok || or.Op != ast.LogicOr {
		t.Fatalf("root = %T %v, want or", where, where)
	}
	and, ok := or.Left.(*ast.BinaryCondition)
	if !ok || and.Op != ast.LogicAnd {
		t.Fatalf("left = %T, want and", or.Left)
	}
	if _, ok := or.Right.(*ast.FieldComparison); !ok {
		t.Fatalf("right = %T, want comparison", or.Right)
	}

	// Mirrored order: a == 1 or (b == 2 and c == 3).
	got = stmt1(t, `rows r = testdata.T where a == 1 or b == 2 and c == 3`)
	or = got.(*ast.RowsQuery).Mods.Where.(*ast.BinaryCondition)
	if or.Op != ast.LogicOr {
		t.Fatalf("root op = %v, want or", or.Op)
	}
	if and, ok := or.Right.(*ast.BinaryCondition); !ok || and.Op != ast.LogicAnd {
		t.Fatalf("right = %T, want and", or.Right)
	}
}

func TestWhereParenthesesAndNot(t *testing.T) {
	got := stmt1(t, `rows r = testdata.T where (a == 1 or b == 2) and not c == 3`)
	where := got.(*ast.RowsQuery).Mods.Where

	and, ok := where.(*ast.BinaryCondition)
	if !ok || and.Op != ast.LogicAnd {
		t.Fatalf("root = %T, want and", where)
	}
	if or, ok := and.Left.(*ast.BinaryCondition); !ok || or.Op != ast.LogicOr {
		t.Fatalf("left = %T, want parenthesized or", and.Left)
	}
	not, ok := and.Right.(*ast.NotCondition)
	if !ok {
		t.Fatalf("right = %T, want not", and.Right)
	}
	if _, ok := not.Inner.(*ast.FieldComparison); !ok {
		t.Fatalf("not operand = %T, want comparison", not.Inner)
	}
}

func TestWhereLeftAssociativity(t *testing.T) {
	got := stmt1(t, `rows r = testdata.T where a == 1 and b == 2 and c == 3`)
	where := got.(*ast.RowsQuery).Mods.Where

	outer := where.(*ast.BinaryCondition)
	inner, ok := outer.Left.(*ast.BinaryCondition)
	if !ok {
		t.Fatalf("left = %T, want nested and (left-associative)", outer.Left)
	}
	if _, ok := inner.Left.(*ast.FieldComparison); !ok {
		t.Fatalf("innermost left = %T", inner.Left)
	}
	if _, ok := outer.Right.(*ast.FieldComparison); !ok {
		t.Fatalf("outer right = %T", outer.Right)
	}
}

func TestDataComparisonLeaves(t *testing.T) {
	cases := []struct {
		name  string
		where string
		want  ast.DataCondition
	}{
		{
			"contains", `name contains "an"`,
			&ast.TextMatch{Field: "name", Op: ast.TextContains, Value: &ast.StringLit{Value: "an"}},
		},
		{
			"starts with", `name starts with "A"`,
			&ast.TextMatch{Field: "name", Op: ast.TextStartsWith, Value: &ast.StringLit{Value: "A"}},
		},
		{
			"ends with", `name ends with "z"`,
			&ast.TextMatch{Field: "name", Op: ast.TextEndsWith, Value: &ast.StringLit{Value: "z"}},
		},
		{
			"matches", `email matches ".*@example.com"`,
			&ast.TextMatch{Field: "email", Op: ast.TextMatches, Value: &ast.StringLit{Value: ".*@example.com"}},
		},
		{
			"in list", `status in ["a", "b"]`,
			&ast.InListCondition{Field: "status", Values: []ast.Expression{
				&ast.StringLit{Value: "a"}, &ast.StringLit{Value: "b"},
			}},
		},
		{
			"not in list", `status not in [1, 2]`,
			&ast.InListCondition{Field: "status", Negated: true, Values: []ast.Expression{
				&ast.NumberLit{Value: 1, Raw: "1"}, &ast.NumberLit{Value: 2, Raw: "2"},
			}},
		},
		{
			"is empty", `note is empty`,
			&ast.EmptyCondition{Field: "note"},
		},
		{
			"is not empty", `note is not empty`,
			&ast.EmptyCondition{Field: "note", Negated: true},
		},
		{
			"is null", `deleted is null`,
			&ast.NullCondition{Field: "deleted"},
		},
		{
			"before", `created before "2024-01-01"`,
			&ast.DateCondition{Field: "created", Op: ast.DateBefore, Value: &ast.StringLit{Value: "2024-01-01"}},
		},
		{
			"after", `created after "2024-01-01"`,
			&ast.DateCondition{Field: "created", Op: ast.DateAfter, Value: &ast.StringLit{Value: "2024-01-01"}},
		},
		{
			"between", `created between "2024-01-01" and "2024-12-31"`,
			&ast.DateCondition{
				Field: "created", Op: ast.DateBetween,
				Value: &ast.StringLit{Value: "2024-01-01"},
				Upper: &ast.StringLit{Value: "2024-12-31"},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := stmt1(t, `rows r = testdata.T where `+tc.where)
			where := got.(*ast.RowsQuery).Mods.Where
			if diff := cmp.Diff(tc.want, where, ignorePos); diff != "" {
				t.Errorf("condition mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestThenLeftAssociativity(t *testing.T) {
	got := stmt1(t, `text t = trim x then convert y to number then round z`)
	pipeline := got.(*ast.UtilityStmt).Pipeline

	outer, ok := pipeline.(*ast.ThenExpr)
	if !ok {
		t.Fatalf("pipeline = %T, want then", pipeline)
	}
	inner, ok := outer.Left.(*ast.ThenExpr)
	if !ok {
		t.Fatalf("left = %T, want nested then (left-associative)", outer.Left)
	}
	if call, ok := inner.Left.(*ast.UtilityCall); !ok || call.Fn != ast.UtilTrim {
		t.Fatalf("first stage = %#v, want trim", inner.Left)
	}
	if call, ok := inner.Right.(*ast.UtilityCall); !ok || call.Fn != ast.UtilConvert {
		t.Fatalf("second stage = %#v, want convert", inner.Right)
	}
	if call, ok := outer.Right.(*ast.UtilityCall); !ok || call.Fn != ast.UtilRound {
		t.Fatalf("third stage = %#v, want round", outer.Right)
	}
}

func TestPipelineInterleavesValues(t *testing.T) {
	got := stmt1(t, `text t = "  raw  " then trim then length`)
	pipeline := got.(*ast.UtilityStmt).Pipeline

	outer := pipeline.(*ast.ThenExpr)
	inner := outer.Left.(*ast.ThenExpr)
	if v, ok := inner.Left.(*ast.PipelineValue); !ok {
		t.Fatalf("first stage = %T, want plain value", inner.Left)
	} else if diff := cmp.Diff(&ast.StringLit{Value: "  raw  "}, v.X, ignorePos); diff != "" {
		t.Errorf("value mismatch:\n%s", diff)
	}
}

func TestUtilityClauses(t *testing.T) {
	got := stmt1(t, `number n = generate between 1 and 100`)
	call := got.(*ast.UtilityStmt).Pipeline.(*ast.UtilityCall)

	want := []ast.UtilityClause{
		{Keyword: "between", Value: &ast.NumberLit{Value: 1, Raw: "1"}},
		{Keyword: "and", Value: &ast.NumberLit{Value: 100, Raw: "100"}},
	}
	if diff := cmp.Diff(want, call.Clauses, ignorePos); diff != "" {
		t.Errorf("clauses mismatch (-want +got):\n%s", diff)
	}

	got = stmt1(t, `text s = replace name with "x" by "y"`)
	call = got.(*ast.UtilityStmt).Pipeline.(*ast.UtilityCall)
	if len(call.Clauses) != 2 || call.Clauses[0].Keyword != "with" || call.Clauses[1].Keyword != "by" {
		t.Errorf("clauses = %+v", call.Clauses)
	}
}

// The typed-declaration lookahead table: for every declared kind and every
// class of token after the =, exactly one statement shape is selected.
func TestTypedRHSDispatch(t *testing.T) {
	kinds := []string{"text", "number", "flag", "list", "data"}
	for _, kind := range kinds {
		t.Run(kind+" utility", func(t *testing.T) {
			got := stmt1(t, kind+` v = trim x`)
			if _, ok := got.(*ast.UtilityStmt); !ok {
				t.Errorf("got %T, want UtilityStmt", got)
			}
		})
		t.Run(kind+" aggregation", func(t *testing.T) {
			got := stmt1(t, kind+` v = sum testdata.T.amount`)
			if _, ok := got.(*ast.AggregationQuery); !ok {
				t.Errorf("got %T, want AggregationQuery", got)
			}
		})
		t.Run(kind+" table query", func(t *testing.T) {
			got := stmt1(t, kind+` v = first testdata.T`)
			if _, ok := got.(*ast.TableQuery); !ok {
				t.Errorf("got %T, want TableQuery", got)
			}
		})
		t.Run(kind+" plain declaration", func(t *testing.T) {
			got := stmt1(t, kind+` v = other`)
			if _, ok := got.(*ast.VarDecl); !ok {
				t.Errorf("got %T, want VarDecl", got)
			}
		})
	}

	// random reads as a utility unless a table reference follows.
	if got := stmt1(t, `text v = random in codes`); got != nil {
		if _, ok := got.(*ast.UtilityStmt); !ok {
			t.Errorf("random utility: got %T, want UtilityStmt", got)
		}
	}
	if got := stmt1(t, `data v = random testdata.T`); got != nil {
		q, ok := got.(*ast.TableQuery)
		if !ok || q.Pick != ast.PickRandom {
			t.Errorf("random table query: got %#v", got)
		}
	}
}

func TestCountDispatch(t *testing.T) {
	// count under number is the modern count statement.
	if _, ok := stmt1(t, `number n = count testdata.T`).(*ast.CountQuery); !ok {
		t.Errorf("number count: want CountQuery")
	}
	// count distinct is always the legacy aggregation.
	agg, ok := stmt1(t, `number n = count distinct testdata.T.city`).(*ast.AggregationQuery)
	if !ok || agg.Op != ast.AggCountDistinct {
		t.Errorf("count distinct: got %#v", agg)
	}
	// count under any other kind is the legacy aggregation too.
	agg, ok = stmt1(t, `data d = count testdata.T`).(*ast.AggregationQuery)
	if !ok || agg.Op != ast.AggCount {
		t.Errorf("data count: got %#v", agg)
	}
}

func TestLegacyAggregations(t *testing.T) {
	cases := []struct {
		src string
		op  ast.AggOp
	}{
		{`number v = sum testdata.T.amount`, ast.AggSum},
		{`number v = average testdata.T.amount`, ast.AggAverage},
		{`number v = min testdata.T.amount`, ast.AggMin},
		{`number v = max testdata.T.amount`, ast.AggMax},
		{`list v = distinct testdata.T.city`, ast.AggDistinct},
		{`number v = rows in testdata.T`, ast.AggRowsIn},
		{`number v = columns in testdata.T`, ast.AggColumnsIn},
		{`list v = headers of testdata.T`, ast.AggHeadersOf},
	}
	for _, tc := range cases {
		got, ok := stmt1(t, tc.src).(*ast.AggregationQuery)
		if !ok || got.Op != tc.op {
			t.Errorf("%s: got %#v, want op %v", tc.src, got, tc.op)
		}
	}

	// Aggregations accept a trailing filter.
	agg := stmt1(t, `number v = sum testdata.T.amount where region == "EU"`).(*ast.AggregationQuery)
	if agg.Where == nil {
		t.Error("sum with where: filter not captured")
	}
}

func TestRowAndColumnQueries(t *testing.T) {
	row := stmt1(t, `row r = first testdata.Users where age > 30 order by name`).(*ast.RowQuery)
	if row.Pick != ast.PickFirst || row.Where == nil || len(row.OrderBy) != 1 {
		t.Errorf("row query = %#v", row)
	}

	row = stmt1(t, `row r = testdata.Users`).(*ast.RowQuery)
	if row.Pick != ast.PickNone || row.Where != nil {
		t.Errorf("bare row query = %#v", row)
	}

	column := stmt1(t, `names = testdata.Users.name where active == true`).(*ast.ColumnQuery)
	want := &ast.ColumnRef{Table: "Users", Column: "name"}
	if diff := cmp.Diff(want, column.Column, ignorePos); diff != "" {
		t.Errorf("column mismatch:\n%s", diff)
	}
	if column.Where == nil {
		t.Error("column filter not captured")
	}

	// A non-testdata right-hand side is a plain assignment.
	if _, ok := stmt1(t, `names = other`).(*ast.AssignStmt); !ok {
		t.Error("ident = ident: want AssignStmt")
	}
}

func TestTableRefAddressingModes(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want *ast.TableRef
	}{
		{"whole table", `testdata.T`, &ast.TableRef{Table: "T"}},
		{"sheet", `testdata.T.Summer`, &ast.TableRef{Table: "T", Sheet: "Summer", SheetFirst: true}},
		{"row index", `testdata.T[2]`, &ast.TableRef{
			Table: "T", Index: &ast.NumberLit{Value: 2, Raw: "2"},
		}},
		{"sheet then index", `testdata.T.Summer[2]`, &ast.TableRef{
			Table: "T", Sheet: "Summer", SheetFirst: true,
			Index: &ast.NumberLit{Value: 2, Raw: "2"},
		}},
		{"index then sheet", `testdata.T[2].Summer`, &ast.TableRef{
			Table: "T", Sheet: "Summer",
			Index: &ast.NumberLit{Value: 2, Raw: "2"},
		}},
		{"range", `testdata.T[1..9]`, &ast.TableRef{
			Table: "T",
			Index: &ast.NumberLit{Value: 1, Raw: "1"},
			High:  &ast.NumberLit{Value: 9, Raw: "9"},
		}},
		{"cell", `testdata.T.cell[3, 4]`, &ast.TableRef{
			Table:   "T",
			CellRow: &ast.NumberLit{Value: 3, Raw: "3"},
			CellCol: &ast.NumberLit{Value: 4, Raw: "4"},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := stmt1(t, `data d = `+tc.src).(*ast.TableQuery)
			if diff := cmp.Diff(tc.want, got.Table, ignorePos); diff != "" {
				t.Errorf("table ref mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestActionStatements(t *testing.T) {
	cases := []struct {
		src  string
		want ast.Statement
	}{
		{`click submit`, &ast.ElementAction{Verb: ast.VerbClick, Target: &ast.Ident{Name: "submit"}}},
		{`uncheck opts.news`, &ast.ElementAction{Verb: ast.VerbUncheck, Target: &ast.PageRef{Object: "opts", Member: "news"}}},
		{`fill user with "amy"`, &ast.FillStmt{Target: &ast.Ident{Name: "user"}, Value: &ast.StringLit{Value: "amy"}}},
		{`open "/home"`, &ast.OpenStmt{URL: &ast.StringLit{Value: "/home"}}},
		{`open "/help" in new tab`, &ast.OpenStmt{URL: &ast.StringLit{Value: "/help"}, NewTab: true}},
		{`select "FR" from country`, &ast.SelectStmt{Value: &ast.StringLit{Value: "FR"}, From: &ast.Ident{Name: "country"}}},
		{`press "Enter"`, &ast.PressStmt{Key: &ast.StringLit{Value: "Enter"}}},
		{`scroll to footer`, &ast.ScrollStmt{To: &ast.Ident{Name: "footer"}}},
		{`scroll bottom`, &ast.ScrollStmt{Direction: ast.ScrollBottom}},
		{`wait for spinner`, &ast.WaitStmt{For: &ast.Ident{Name: "spinner"}}},
		{`wait 2 seconds`, &ast.WaitStmt{Amount: &ast.NumberLit{Value: 2, Raw: "2"}, Unit: ast.UnitSeconds}},
		{`wait 500 ms`, &ast.WaitStmt{Amount: &ast.NumberLit{Value: 500, Raw: "500"}, Unit: ast.UnitMillis}},
		{`perform Login.signIn with "amy", "secret"`, &ast.PerformStmt{
			Target: &ast.PageRef{Object: "Login", Member: "signIn"},
			Args:   []ast.Expression{&ast.StringLit{Value: "amy"}, &ast.StringLit{Value: "secret"}},
		}},
		{`refresh`, &ast.RefreshStmt{}},
		{`screenshot "cart.png"`, &ast.ScreenshotStmt{Path: &ast.StringLit{Value: "cart.png"}}},
		{`log "done"`, &ast.LogStmt{Value: &ast.StringLit{Value: "done"}}},
		{`upload "a.csv", "b.csv" to fileInput`, &ast.UploadStmt{
			Files: []ast.Expression{&ast.StringLit{Value: "a.csv"}, &ast.StringLit{Value: "b.csv"}},
			To:    &ast.Ident{Name: "fileInput"},
		}},
		{`switch to new tab`, &ast.SwitchTabStmt{NewTab: true}},
		{`switch to tab 2`, &ast.SwitchTabStmt{Target: &ast.NumberLit{Value: 2, Raw: "2"}}},
		{`close tab`, &ast.CloseTabStmt{}},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			got := stmt1(t, tc.src)
			if diff := cmp.Diff(tc.want, got, ignorePos); diff != "" {
				t.Errorf("statement mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVerifyStatements(t *testing.T) {
	cases := []struct {
		src  string
		want ast.Statement
	}{
		{`verify banner is visible`, &ast.VerifyStmt{
			Target: &ast.Ident{Name: "banner"},
			Cond:   &ast.Condition{Kind: ast.CondVisible},
		}},
		{`verify banner is not hidden`, &ast.VerifyStmt{
			Target: &ast.Ident{Name: "banner"}, Negated: true,
			Cond: &ast.Condition{Kind: ast.CondHidden},
		}},
		{`verify toast is contains "saved"`, &ast.VerifyStmt{
			Target: &ast.Ident{Name: "toast"},
			Cond:   &ast.Condition{Kind: ast.CondContains, Arg: &ast.StringLit{Value: "saved"}},
		}},
		{`verify url is "/done"`, &ast.VerifyURLStmt{Op: ast.MatchIs, Value: &ast.StringLit{Value: "/done"}}},
		{`verify url contains "step=2"`, &ast.VerifyURLStmt{Op: ast.MatchContains, Value: &ast.StringLit{Value: "step=2"}}},
		{`verify title matches "Cart.*"`, &ast.VerifyTitleStmt{Op: ast.MatchPattern, Value: &ast.StringLit{Value: "Cart.*"}}},
		{`verify total has text "42.00"`, &ast.VerifyHasStmt{
			Target: &ast.Ident{Name: "total"}, Prop: ast.HasText,
			Value: &ast.StringLit{Value: "42.00"},
		}},
		{`verify items has count 3`, &ast.VerifyHasStmt{
			Target: &ast.Ident{Name: "items"}, Prop: ast.HasCount,
			Value: &ast.NumberLit{Value: 3, Raw: "3"},
		}},
		{`verify box has attribute "aria-checked"`, &ast.VerifyHasStmt{
			Target: &ast.Ident{Name: "box"}, Prop: ast.HasAttribute,
			Value: &ast.StringLit{Value: "aria-checked"},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			got := stmt1(t, tc.src)
			if diff := cmp.Diff(tc.want, got, ignorePos); diff != "" {
				t.Errorf("statement mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestControlFlow(t *testing.T) {
	repeat := stmt1(t, `repeat 3 times { click next }`).(*ast.RepeatStmt)
	if len(repeat.Body) != 1 {
		t.Errorf("repeat body = %d statements", len(repeat.Body))
	}

	chain := stmt1(t, `if a is visible { click a } else if b > 2 { click b } else { refresh }`).(*ast.IfStmt)
	nested, ok := chain.Else[0].(*ast.IfStmt)
	if len(chain.Else) != 1 || !ok {
		t.Fatalf("else-if chain not nested: %#v", chain.Else)
	}
	if _, ok := nested.Cond.(*ast.Comparison); !ok {
		t.Errorf("nested cond = %T, want comparison", nested.Cond)
	}
	if nested.Else == nil {
		t.Error("final else missing")
	}

	truthy := stmt1(t, `if done { close tab }`).(*ast.IfStmt)
	if _, ok := truthy.Cond.(*ast.Truthy); !ok {
		t.Errorf("cond = %T, want truthy", truthy.Cond)
	}
}

func TestDeterminism(t *testing.T) {
	src := `page P { field f = role "button" go { click f } }
feature F { scenario "s" { number n = count testdata.T where a > 1 or b < 2 } }`

	first := mustParse(t, src)
	second := mustParse(t, src)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated parses differ:\n%s", diff)
	}
}

func TestUnterminatedBlocks(t *testing.T) {
	cases := []string{
		`page Foo {`,
		`feature F { scenario "s" {`,
		`fixture db { setup { click x`,
		`actions P { go {`,
	}
	for _, src := range cases {
		perr := parseErr(t, src)
		if perr.Kind != UnterminatedBlock {
			t.Errorf("%q: kind = %v, want UnterminatedBlock", src, perr.Kind)
		}
	}
}

func TestUnexpectedToken(t *testing.T) {
	perr := parseErr(t, `page Foo { scope test }`)
	if perr.Kind != UnexpectedToken {
		t.Errorf("kind = %v, want UnexpectedToken", perr.Kind)
	}
	if len(perr.Expected) == 0 {
		t.Error("expected-token set is empty")
	}

	perr = parseErr(t, `feature F { scenario "s" { verify banner was visible } }`)
	if perr.Kind != UnexpectedToken {
		t.Errorf("kind = %v, want UnexpectedToken", perr.Kind)
	}
}

func TestAmbiguousStatement(t *testing.T) {
	perr := parseErr(t, `feature F { scenario "s" { banner visible } }`)
	if perr.Kind != AmbiguousStatement {
		t.Errorf("kind = %v, want AmbiguousStatement", perr.Kind)
	}
}

func TestInvalidOperand(t *testing.T) {
	cases := []string{
		`feature F { scenario "s" { rows r = testdata.T where a == 1 and } }`,
		`feature F { scenario "s" { rows r = testdata.T where a == 1 or where } }`,
		`feature F { scenario "s" { text t = trim x then } }`,
		`feature F { scenario "s" { if x > } }`,
		`feature F { scenario "s" { rows r = testdata.T where age > } }`,
	}
	for _, src := range cases {
		perr := parseErr(t, src)
		if perr.Kind != InvalidOperand {
			t.Errorf("%q: kind = %v, want InvalidOperand", src, perr.Kind)
		}
	}
}

func TestSuggestionForTypo(t *testing.T) {
	perr := parseErr(t, `feature F { scenario "s" { clik x } }`)
	if perr.Suggestion != "click" {
		t.Errorf("suggestion = %q, want click", perr.Suggestion)
	}
}

func TestErrorPositions(t *testing.T) {
	perr := parseErr(t, "page Foo {\n  scope test\n}")
	if perr.Pos.Line != 2 || perr.Pos.Column != 3 {
		t.Errorf("position = %v, want 2:3", perr.Pos)
	}
}
