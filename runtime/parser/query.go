package parser

import (
	"github.com/scenic-lang/scenic/core/ast"
	"github.com/scenic-lang/scenic/core/token"
)

// parseTypedDecl handles TYPE ident = ... statements. One token of
// lookahead after the = picks the right-hand grammar: a utility keyword
// starts a pipeline, an aggregation or table keyword starts a legacy query,
// anything else is a plain variable declaration. random appears in both
// keyword sets; a following testdata resolves it to the query reading.
func (p *Parser) parseTypedDecl() (ast.Statement, error) {
	pos := p.at().Pos
	kind, err := p.valueKind("variable declaration")
	if err != nil {
		return nil, err
	}
	name, err := p.ident("variable declaration")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EQUALS, "variable declaration"); err != nil {
		return nil, err
	}

	head := p.peek(0)
	switch {
	case head.IsUtilityFn() && !(head == token.RANDOM && p.peek(1) == token.TESTDATA):
		pipeline, err := p.parseUtilityExpr()
		if err != nil {
			return nil, err
		}
		return &ast.UtilityStmt{Kind: kind, Name: name, Pipeline: pipeline, Pos: pos}, nil

	case head == token.COUNT:
		return p.parseCountRHS(kind, name, pos)

	case head.IsQueryStart():
		return p.parseLegacyQuery(kind, name, pos)

	default:
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		// A then after a plain value turns the declaration into a pipeline
		// whose first stage is that value.
		if p.peek(0) == token.THEN {
			pipeline, err := p.pipelineLoop(&ast.PipelineValue{X: value})
			if err != nil {
				return nil, err
			}
			return &ast.UtilityStmt{Kind: kind, Name: name, Pipeline: pipeline, Pos: pos}, nil
		}
		return &ast.VarDecl{Kind: kind, Name: name, Value: value, Pos: pos}, nil
	}
}

// parseCountRHS handles TYPE ident = count ... . The modern count statement
// is spelled number n = count table [where]; count distinct column is the
// legacy aggregation reading, as is count under any other declared kind.
func (p *Parser) parseCountRHS(kind ast.ValueKind, name string, pos token.Position) (ast.Statement, error) {
	p.next() // count

	if p.accept(token.DISTINCT) {
		column, err := p.parseColumnRef()
		if err != nil {
			return nil, err
		}
		agg := &ast.AggregationQuery{
			Kind: kind, Name: name, Op: ast.AggCountDistinct, Column: column, Pos: pos,
		}
		return p.finishAggWhere(agg)
	}

	table, err := p.parseTableRef()
	if err != nil {
		return nil, err
	}
	if kind == ast.KindNumber {
		query := &ast.CountQuery{Name: name, Table: table, Pos: pos}
		if p.accept(token.WHERE) {
			query.Where, err = p.parseDataCondition()
			if err != nil {
				return nil, err
			}
		}
		return query, nil
	}
	agg := &ast.AggregationQuery{Kind: kind, Name: name, Op: ast.AggCount, Table: table, Pos: pos}
	return p.finishAggWhere(agg)
}

func (p *Parser) finishAggWhere(agg *ast.AggregationQuery) (ast.Statement, error) {
	if p.accept(token.WHERE) {
		where, err := p.parseDataCondition()
		if err != nil {
			return nil, err
		}
		agg.Where = where
	}
	return agg, nil
}

// parseLegacyQuery handles the legacy TYPE ident = query forms: column
// aggregations, table-shape aggregations, and row-set table queries.
func (p *Parser) parseLegacyQuery(kind ast.ValueKind, name string, pos token.Position) (ast.Statement, error) {
	switch p.peek(0) {
	case token.SUM, token.AVERAGE, token.MIN, token.MAX, token.DISTINCT:
		var op ast.AggOp
		switch p.next().Type {
		case token.SUM:
			op = ast.AggSum
		case token.AVERAGE:
			op = ast.AggAverage
		case token.MIN:
			op = ast.AggMin
		case token.MAX:
			op = ast.AggMax
		case token.DISTINCT:
			op = ast.AggDistinct
		}
		column, err := p.parseColumnRef()
		if err != nil {
			return nil, err
		}
		return p.finishAggWhere(&ast.AggregationQuery{
			Kind: kind, Name: name, Op: op, Column: column, Pos: pos,
		})

	case token.ROWS:
		p.next()
		if p.accept(token.IN) {
			table, err := p.parseTableRef()
			if err != nil {
				return nil, err
			}
			return &ast.AggregationQuery{
				Kind: kind, Name: name, Op: ast.AggRowsIn, Table: table, Pos: pos,
			}, nil
		}
		return p.parseTableQuery(kind, name, ast.PickNone, pos)

	case token.COLUMNS:
		p.next()
		if _, err := p.expect(token.IN, "columns aggregation"); err != nil {
			return nil, err
		}
		table, err := p.parseTableRef()
		if err != nil {
			return nil, err
		}
		return &ast.AggregationQuery{
			Kind: kind, Name: name, Op: ast.AggColumnsIn, Table: table, Pos: pos,
		}, nil

	case token.HEADERS:
		p.next()
		if _, err := p.expect(token.OF, "headers aggregation"); err != nil {
			return nil, err
		}
		table, err := p.parseTableRef()
		if err != nil {
			return nil, err
		}
		return &ast.AggregationQuery{
			Kind: kind, Name: name, Op: ast.AggHeadersOf, Table: table, Pos: pos,
		}, nil

	case token.FIRST, token.LAST, token.RANDOM:
		pick := rowPickOf(p.next().Type)
		return p.parseTableQuery(kind, name, pick, pos)

	default: // testdata
		return p.parseTableQuery(kind, name, ast.PickNone, pos)
	}
}

func rowPickOf(t token.Type) ast.RowPick {
	switch t {
	case token.FIRST:
		return ast.PickFirst
	case token.LAST:
		return ast.PickLast
	case token.RANDOM:
		return ast.PickRandom
	default:
		return ast.PickNone
	}
}

func (p *Parser) parseTableQuery(kind ast.ValueKind, name string, pick ast.RowPick, pos token.Position) (ast.Statement, error) {
	table, err := p.parseTableRef()
	if err != nil {
		return nil, err
	}
	query := &ast.TableQuery{Kind: kind, Name: name, Pick: pick, Table: table, Pos: pos}
	if err := p.parseModifiers(&query.Mods); err != nil {
		return nil, err
	}
	return query, nil
}

// parseRowQuery handles row ident = [first|last|random] table [where] [order by].
func (p *Parser) parseRowQuery() (ast.Statement, error) {
	pos := p.next().Pos // row
	name, err := p.ident("row statement")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EQUALS, "row statement"); err != nil {
		return nil, err
	}
	query := &ast.RowQuery{Name: name, Pos: pos}
	switch p.peek(0) {
	case token.FIRST, token.LAST, token.RANDOM:
		query.Pick = rowPickOf(p.next().Type)
	}
	query.Table, err = p.parseTableRef()
	if err != nil {
		return nil, err
	}
	if p.accept(token.WHERE) {
		query.Where, err = p.parseDataCondition()
		if err != nil {
			return nil, err
		}
	}
	if p.peek(0) == token.ORDER {
		query.OrderBy, err = p.parseOrderBy()
		if err != nil {
			return nil, err
		}
	}
	return query, nil
}

// parseRowsQuery handles rows ident = table modifier*.
func (p *Parser) parseRowsQuery() (ast.Statement, error) {
	pos := p.next().Pos // rows
	name, err := p.ident("rows statement")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EQUALS, "rows statement"); err != nil {
		return nil, err
	}
	table, err := p.parseTableRef()
	if err != nil {
		return nil, err
	}
	query := &ast.RowsQuery{Name: name, Table: table, Pos: pos}
	if err := p.parseModifiers(&query.Mods); err != nil {
		return nil, err
	}
	return query, nil
}

// parseTableRef parses testdata.Table with an optional sheet, index, range,
// or cell suffix. Sheet-then-index and index-then-sheet both occur in the
// wild and the written order is preserved.
func (p *Parser) parseTableRef() (*ast.TableRef, error) {
	start, err := p.expect(token.TESTDATA, "table reference")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DOT, "table reference"); err != nil {
		return nil, err
	}
	name, err := p.ident("table reference")
	if err != nil {
		return nil, err
	}
	ref := &ast.TableRef{Table: name, Pos: start.Pos}

	switch p.peek(0) {
	case token.LSQUARE:
		if err := p.parseIndexSuffix(ref); err != nil {
			return nil, err
		}
		if p.peek(0) == token.DOT && p.peek(1) == token.IDENT {
			p.next()
			ref.Sheet = p.next().Text
		}

	case token.DOT:
		switch p.peek(1) {
		case token.CELL:
			p.next()
			p.next()
			if _, err := p.expect(token.LSQUARE, "cell reference"); err != nil {
				return nil, err
			}
			ref.CellRow, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.COMMA, "cell reference"); err != nil {
				return nil, err
			}
			ref.CellCol, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RSQUARE, "cell reference"); err != nil {
				return nil, err
			}
		case token.IDENT:
			p.next()
			ref.Sheet = p.next().Text
			ref.SheetFirst = true
			if p.peek(0) == token.LSQUARE {
				if err := p.parseIndexSuffix(ref); err != nil {
					return nil, err
				}
			}
		}
	}
	return ref, nil
}

// parseIndexSuffix parses [i] or [i..j].
func (p *Parser) parseIndexSuffix(ref *ast.TableRef) error {
	p.next() // [
	index, err := p.parseExpression()
	if err != nil {
		return err
	}
	ref.Index = index
	if p.accept(token.DOTDOT) {
		ref.High, err = p.parseExpression()
		if err != nil {
			return err
		}
	}
	_, err = p.expect(token.RSQUARE, "table index")
	return err
}

// parseColumnRef parses testdata.Table.column.
func (p *Parser) parseColumnRef() (*ast.ColumnRef, error) {
	start, err := p.expect(token.TESTDATA, "column reference")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DOT, "column reference"); err != nil {
		return nil, err
	}
	table, err := p.ident("column reference")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DOT, "column reference"); err != nil {
		return nil, err
	}
	column, err := p.ident("column reference")
	if err != nil {
		return nil, err
	}
	return &ast.ColumnRef{Table: table, Column: column, Pos: start.Pos}, nil
}

// parseModifiers parses the unordered modifier set of a row-set query.
// Each modifier may appear at most once.
func (p *Parser) parseModifiers(mods *ast.QueryModifiers) error {
	for {
		switch p.peek(0) {
		case token.WHERE:
			if mods.Where != nil {
				return p.errUnexpected("query modifiers (where already given)",
					token.ORDER, token.LIMIT, token.OFFSET, token.DEFAULT)
			}
			p.next()
			where, err := p.parseDataCondition()
			if err != nil {
				return err
			}
			mods.Where = where

		case token.ORDER:
			if mods.OrderBy != nil {
				return p.errUnexpected("query modifiers (order by already given)",
					token.WHERE, token.LIMIT, token.OFFSET, token.DEFAULT)
			}
			keys, err := p.parseOrderBy()
			if err != nil {
				return err
			}
			mods.OrderBy = keys

		case token.LIMIT:
			if mods.Limit != nil {
				return p.errUnexpected("query modifiers (limit already given)",
					token.WHERE, token.ORDER, token.OFFSET, token.DEFAULT)
			}
			p.next()
			limit, err := p.parseExpression()
			if err != nil {
				return err
			}
			mods.Limit = limit

		case token.OFFSET:
			if mods.Offset != nil {
				return p.errUnexpected("query modifiers (offset already given)",
					token.WHERE, token.ORDER, token.LIMIT, token.DEFAULT)
			}
			p.next()
			offset, err := p.parseExpression()
			if err != nil {
				return err
			}
			mods.Offset = offset

		case token.DEFAULT:
			if mods.Default != nil {
				return p.errUnexpected("query modifiers (default already given)",
					token.WHERE, token.ORDER, token.LIMIT, token.OFFSET)
			}
			p.next()
			dflt, err := p.parseExpression()
			if err != nil {
				return err
			}
			mods.Default = dflt

		default:
			return nil
		}
	}
}

// parseOrderBy parses order by column [asc|desc] (, column [asc|desc])*.
func (p *Parser) parseOrderBy() ([]ast.OrderKey, error) {
	p.next() // order
	if _, err := p.expect(token.BY, "order-by clause"); err != nil {
		return nil, err
	}
	var keys []ast.OrderKey
	for {
		column, err := p.ident("order-by clause")
		if err != nil {
			return nil, err
		}
		key := ast.OrderKey{Column: column}
		switch p.peek(0) {
		case token.ASC:
			p.next()
		case token.DESC:
			p.next()
			key.Desc = true
		}
		keys = append(keys, key)
		if !p.accept(token.COMMA) {
			return keys, nil
		}
	}
}
