// Package analyze classifies DDL statements through the TiDB AST so that a
// migration plan can flag destructive and lock-taking changes.
package analyze

import (
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver" // registers the value expression driver
)

// Statement types reported by the analyzer.
const (
	TypeCreateTable    = "CREATE TABLE"
	TypeCreateDatabase = "CREATE DATABASE"
	TypeCreateIndex    = "CREATE INDEX"
	TypeAlterTable     = "ALTER TABLE"
	TypeAlterDatabase  = "ALTER DATABASE"
	TypeDropTable      = "DROP TABLE"
	TypeDropDatabase   = "DROP DATABASE"
	TypeDropIndex      = "DROP INDEX"
	TypeRenameTable    = "RENAME TABLE"
	TypeTruncateTable  = "TRUNCATE TABLE"
	TypeOther          = "OTHER"
	TypeUnparseable    = "UNPARSEABLE"
)

// Analysis is the classification of one statement.
type Analysis struct {
	StatementType string
	// Table is the first table the statement targets, if any.
	Table string

	IsBlocking      bool
	BlockingReasons []string

	IsDestructive     bool
	DestructiveReason string
	// DropsPrimaryKey is set for ALTER TABLE ... DROP PRIMARY KEY.
	DropsPrimaryKey bool

	IsTransactionSafe bool
	TxUnsafeReason    string
}

type specEffect struct {
	blocking        string
	destructive     string
	dropsPrimaryKey bool
}

var alterTableSpecEffects = map[ast.AlterTableType]specEffect{
	ast.AlterTableAddColumns: {
		blocking: "ADD COLUMN may require a table rebuild depending on MySQL version and column position",
	},
	ast.AlterTableDropColumn: {
		blocking:    "DROP COLUMN typically requires a full table rebuild and will lock the table",
		destructive: "DROP COLUMN will permanently delete the column and its data",
	},
	ast.AlterTableModifyColumn: {
		blocking: "MODIFY COLUMN may require a table rebuild if changing column type or size",
	},
	ast.AlterTableChangeColumn: {
		blocking: "CHANGE COLUMN may require a table rebuild",
	},
	ast.AlterTableDropIndex: {
		blocking: "DROP INDEX may briefly lock the table",
	},
	ast.AlterTableDropPrimaryKey: {
		blocking:        "DROP PRIMARY KEY requires a full table rebuild and will lock the table",
		destructive:     "DROP PRIMARY KEY removes the uniqueness guarantee on the key columns",
		dropsPrimaryKey: true,
	},
	ast.AlterTableRenameTable: {
		blocking: "RENAME TABLE acquires an exclusive lock but is typically fast",
	},
	ast.AlterTableForce: {
		blocking: "FORCE rebuilds the table and will lock it",
	},
}

// implicitCommitKeywords is the fallback for statements the parser rejects,
// e.g. because of an unknown collation name.
var implicitCommitKeywords = []string{
	"CREATE TABLE",
	"CREATE DATABASE",
	"CREATE INDEX",
	"ALTER TABLE",
	"ALTER DATABASE",
	"DROP TABLE",
	"DROP DATABASE",
	"DROP INDEX",
	"RENAME TABLE",
	"TRUNCATE TABLE",
}

// StatementAnalyzer wraps a TiDB parser. It is not safe for concurrent use.
type StatementAnalyzer struct {
	parser *parser.Parser
}

// NewStatementAnalyzer creates an analyzer with its own parser instance.
func NewStatementAnalyzer() *StatementAnalyzer {
	return &StatementAnalyzer{parser: parser.New()}
}

// Analyze classifies a single statement. Statements the parser cannot read
// are classified from their leading keywords instead.
func (a *StatementAnalyzer) Analyze(sql string) *Analysis {
	nodes, _, err := a.parser.Parse(sql, "", "")
	if err != nil {
		analysis := &Analysis{StatementType: TypeUnparseable, IsTransactionSafe: true}
		analyzeKeywords(analysis, sql)
		return analysis
	}
	if len(nodes) == 0 {
		return &Analysis{StatementType: TypeOther, IsTransactionSafe: true}
	}
	return analyzeNode(nodes[0], sql)
}

func analyzeNode(node ast.StmtNode, sql string) *Analysis {
	analysis := &Analysis{IsTransactionSafe: true}

	switch stmt := node.(type) {
	case *ast.CreateTableStmt:
		analysis.StatementType = TypeCreateTable
		analysis.Table = stmt.Table.Name.O
	case *ast.CreateDatabaseStmt:
		analysis.StatementType = TypeCreateDatabase
	case *ast.CreateIndexStmt:
		analysis.StatementType = TypeCreateIndex
		analysis.Table = stmt.Table.Name.O
		analysis.block("CREATE INDEX may lock the table for the duration of index creation")
	case *ast.AlterTableStmt:
		analysis.StatementType = TypeAlterTable
		analysis.Table = stmt.Table.Name.O
		for _, spec := range stmt.Specs {
			analyzeAlterTableSpec(spec, analysis)
		}
	case *ast.AlterDatabaseStmt:
		analysis.StatementType = TypeAlterDatabase
	case *ast.DropTableStmt:
		analysis.StatementType = TypeDropTable
		if len(stmt.Tables) > 0 {
			analysis.Table = stmt.Tables[0].Name.O
		}
		analysis.destroy("DROP TABLE will permanently delete the table and all its data")
	case *ast.DropDatabaseStmt:
		analysis.StatementType = TypeDropDatabase
		analysis.destroy("DROP DATABASE will permanently delete the entire database")
	case *ast.DropIndexStmt:
		analysis.StatementType = TypeDropIndex
		analysis.Table = stmt.Table.Name.O
		analysis.block("DROP INDEX may briefly lock the table")
	case *ast.RenameTableStmt:
		analysis.StatementType = TypeRenameTable
		analysis.block("RENAME TABLE acquires an exclusive lock but is typically fast")
	case *ast.TruncateTableStmt:
		analysis.StatementType = TypeTruncateTable
		analysis.Table = stmt.Table.Name.O
		analysis.destroy("TRUNCATE TABLE will delete all rows from the table")
		analysis.block("TRUNCATE TABLE acquires an exclusive lock and removes all data instantly")
	default:
		analysis.StatementType = TypeOther
		analyzeKeywords(analysis, sql)
		return analysis
	}

	analysis.IsTransactionSafe = false
	analysis.TxUnsafeReason = analysis.StatementType + " causes an implicit commit in MySQL"
	return analysis
}

func analyzeAlterTableSpec(spec *ast.AlterTableSpec, analysis *Analysis) {
	switch spec.Tp {
	case ast.AlterTableAddConstraint:
		analyzeAddConstraint(spec, analysis)
		return
	case ast.AlterTableOption:
		analyzeTableOptions(spec.Options, analysis)
		return
	}

	effect, ok := alterTableSpecEffects[spec.Tp]
	if !ok {
		return
	}
	if effect.blocking != "" {
		analysis.block(effect.blocking)
	}
	if effect.destructive != "" {
		analysis.destroy(effect.destructive)
	}
	if effect.dropsPrimaryKey {
		analysis.DropsPrimaryKey = true
	}
}

func analyzeAddConstraint(spec *ast.AlterTableSpec, analysis *Analysis) {
	if spec.Constraint == nil {
		analysis.block("ADD CONSTRAINT may lock the table while validating existing data")
		return
	}

	switch spec.Constraint.Tp {
	case ast.ConstraintPrimaryKey:
		analysis.block("ADD PRIMARY KEY requires a full table rebuild and will lock the table")
	case ast.ConstraintIndex, ast.ConstraintKey:
		analysis.block("ADD INDEX may lock the table for the duration of index creation on large tables")
	case ast.ConstraintUniq, ast.ConstraintUniqKey, ast.ConstraintUniqIndex:
		analysis.block("ADD UNIQUE INDEX may lock the table and fails on duplicate values")
	default:
		analysis.block("ADD CONSTRAINT may lock the table while validating existing data")
	}
}

func analyzeTableOptions(options []*ast.TableOption, analysis *Analysis) {
	for _, opt := range options {
		switch opt.Tp {
		case ast.TableOptionEngine:
			analysis.block(fmt.Sprintf("ENGINE=%s rebuilds the table and will lock it", opt.StrValue))
		case ast.TableOptionCharset:
			if opt.UintValue == ast.TableOptionCharsetWithConvertTo {
				analysis.block("CONVERT TO CHARACTER SET rewrites every text column and will lock the table")
			}
		}
	}
}

// analyzeKeywords classifies a statement without an AST. Every DDL keyword
// implies an implicit commit; DROP TABLE and DROP COLUMN stay destructive.
func analyzeKeywords(analysis *Analysis, sql string) {
	upper := strings.ToUpper(strings.Join(strings.Fields(sql), " "))

	for _, keyword := range implicitCommitKeywords {
		if !strings.HasPrefix(upper, keyword) {
			continue
		}
		if analysis.StatementType != TypeUnparseable {
			analysis.StatementType = keyword
		}
		analysis.IsTransactionSafe = false
		analysis.TxUnsafeReason = keyword + " causes an implicit commit in MySQL"
		break
	}
	if analysis.IsTransactionSafe && (strings.HasPrefix(upper, "CREATE ") ||
		strings.HasPrefix(upper, "DROP ") || strings.HasPrefix(upper, "ALTER ")) {
		analysis.IsTransactionSafe = false
		analysis.TxUnsafeReason = "DDL statement causes implicit commit"
	}

	switch {
	case strings.HasPrefix(upper, "DROP TABLE"):
		analysis.destroy("DROP TABLE will permanently delete the table and all its data")
	case strings.HasPrefix(upper, "ALTER TABLE") && strings.Contains(upper, " DROP COLUMN "):
		analysis.destroy("DROP COLUMN will permanently delete the column and its data")
		analysis.block("DROP COLUMN typically requires a full table rebuild and will lock the table")
	case strings.HasPrefix(upper, "ALTER TABLE") && strings.Contains(upper, " DROP PRIMARY KEY"):
		analysis.destroy("DROP PRIMARY KEY removes the uniqueness guarantee on the key columns")
		analysis.block("DROP PRIMARY KEY requires a full table rebuild and will lock the table")
		analysis.DropsPrimaryKey = true
	case strings.HasPrefix(upper, "ALTER TABLE"):
		analysis.block("ALTER TABLE may require a table rebuild")
	}
}

func (a *Analysis) block(reason string) {
	a.IsBlocking = true
	a.BlockingReasons = append(a.BlockingReasons, reason)
}

func (a *Analysis) destroy(reason string) {
	a.IsDestructive = true
	a.DestructiveReason = reason
}
