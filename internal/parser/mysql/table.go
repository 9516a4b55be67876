package mysql

import (
	"strings"

	"github.com/pingcap/tidb/pkg/parser/ast"

	"dbchecker/internal/core"
)

func (p *Parser) convertCreateTable(stmt *ast.CreateTableStmt) core.TableView {
	table := core.TableView{
		Name: stmt.Table.Name.O,
	}
	parseTableOptions(stmt.Options, &table)

	for _, colDef := range stmt.Cols {
		table.Columns = append(table.Columns, p.parseColumn(colDef, &table))
	}
	for _, constraint := range stmt.Constraints {
		parseConstraint(constraint, &table)
	}

	markPrimaryNotNull(&table)
	return table
}

func parseTableOptions(opts []*ast.TableOption, table *core.TableView) {
	for _, opt := range opts {
		switch opt.Tp {
		case ast.TableOptionEngine:
			table.Engine = opt.StrValue
		case ast.TableOptionCollate:
			table.Collate = opt.StrValue
		}
	}
}

func parseConstraint(constraint *ast.Constraint, table *core.TableView) {
	columns := make([]string, 0, len(constraint.Keys))
	for _, key := range constraint.Keys {
		// expression key parts have no column and cannot be compared
		if key.Column == nil {
			return
		}
		columns = append(columns, key.Column.Name.O)
	}

	switch constraint.Tp {
	case ast.ConstraintPrimaryKey:
		table.Primary = columns
	case ast.ConstraintUniq, ast.ConstraintUniqKey, ast.ConstraintUniqIndex:
		table.Uniques = append(table.Uniques, core.IndexView{Name: constraint.Name, Columns: columns})
	case ast.ConstraintIndex, ast.ConstraintKey:
		table.Indexes = append(table.Indexes, core.IndexView{Name: constraint.Name, Columns: columns})
	case ast.ConstraintFulltext, ast.ConstraintForeignKey, ast.ConstraintCheck:
		// not part of the comparable model
	}
}

// markPrimaryNotNull forces primary key columns to NOT NULL, as MySQL does.
func markPrimaryNotNull(table *core.TableView) {
	for _, name := range table.Primary {
		for i := range table.Columns {
			if !strings.EqualFold(table.Columns[i].Name, name) {
				continue
			}
			table.Columns[i].Nullable = false
			if table.Columns[i].DefaultValue == core.DefaultNull {
				table.Columns[i].DefaultValue = ""
			}
		}
	}
}
