package ast

import "testing"

func TestConditionPrintingPreservesGrouping(t *testing.T) {
	leaf := func(field string, n string) DataCondition {
		return &FieldComparison{Field: field, Op: OpEQ, Value: &NumberLit{Value: 1, Raw: n}}
	}

	cases := []struct {
		name string
		cond DataCondition
		want string
	}{
		{
			"and tighter than or",
			&BinaryCondition{Op: LogicOr,
				Left:  &BinaryCondition{Op: LogicAnd, Left: leaf("a", "1"), Right: leaf("b", "2")},
				Right: leaf("c", "3"),
			},
			"a == 1 and b == 2 or c == 3",
		},
		{
			"parenthesized or under and",
			&BinaryCondition{Op: LogicAnd,
				Left:  &BinaryCondition{Op: LogicOr, Left: leaf("a", "1"), Right: leaf("b", "2")},
				Right: leaf("c", "3"),
			},
			"(a == 1 or b == 2) and c == 3",
		},
		{
			"right-nested and keeps parens",
			&BinaryCondition{Op: LogicAnd,
				Left:  leaf("a", "1"),
				Right: &BinaryCondition{Op: LogicAnd, Left: leaf("b", "2"), Right: leaf("c", "3")},
			},
			"a == 1 and (b == 2 and c == 3)",
		},
		{
			"not over group",
			&NotCondition{Inner: &BinaryCondition{Op: LogicOr, Left: leaf("a", "1"), Right: leaf("b", "2")}},
			"not (a == 1 or b == 2)",
		},
		{
			"not over leaf",
			&NotCondition{Inner: leaf("a", "1")},
			"not a == 1",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cond.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIfChainPrinting(t *testing.T) {
	stmt := &IfStmt{
		Cond: &Truthy{Value: &Ident{Name: "a"}},
		Then: []Statement{&RefreshStmt{}},
		Else: []Statement{&IfStmt{
			Cond: &Truthy{Value: &Ident{Name: "b"}},
			Then: []Statement{&CloseTabStmt{}},
			Else: []Statement{&LogStmt{Value: &StringLit{Value: "neither"}}},
		}},
	}
	want := "if a {\nrefresh\n} else if b {\nclose tab\n} else {\nlog \"neither\"\n}"
	if got := stmt.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestTableRefPrinting(t *testing.T) {
	idx := &NumberLit{Value: 2, Raw: "2"}
	cases := []struct {
		ref  *TableRef
		want string
	}{
		{&TableRef{Table: "T"}, "testdata.T"},
		{&TableRef{Table: "T", Sheet: "S", SheetFirst: true}, "testdata.T.S"},
		{&TableRef{Table: "T", Index: idx}, "testdata.T[2]"},
		{&TableRef{Table: "T", Index: idx, Sheet: "S"}, "testdata.T[2].S"},
		{&TableRef{Table: "T", Index: idx, Sheet: "S", SheetFirst: true}, "testdata.T.S[2]"},
		{&TableRef{Table: "T", Index: idx, High: &NumberLit{Value: 9, Raw: "9"}}, "testdata.T[2..9]"},
		{&TableRef{Table: "T", CellRow: idx, CellCol: &NumberLit{Value: 4, Raw: "4"}}, "testdata.T.cell[2, 4]"},
	}
	for _, tc := range cases {
		if got := tc.ref.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
