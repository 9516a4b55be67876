// Package mysql loads a schema from a MySQL dump. Only CREATE DATABASE,
// USE and CREATE TABLE statements contribute; everything else in the dump is
// ignored.
package mysql

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/format"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"dbchecker/internal/core"
	"dbchecker/internal/parser/document"
)

const dumpFormat = "sql"

type Parser struct {
	p *parser.Parser
}

func NewParser() *Parser {
	return &Parser{
		p: parser.New(),
	}
}

// ParseFile reads the dump at path. name is used when the dump has no
// CREATE DATABASE or USE statement.
func (p *Parser) ParseFile(path, name string) (*core.Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mysql: open file %q: %w", path, err)
	}
	return document.Decoder{Format: dumpFormat, Source: path, Name: name}.Decode(data, p.unmarshal)
}

// Parse reads a dump from r.
func (p *Parser) Parse(r io.Reader, name string) (*core.Database, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("mysql: read: %w", err)
	}
	return document.Decoder{Format: dumpFormat, Name: name}.Decode(data, p.unmarshal)
}

// unmarshal fills a *core.DatabaseView from SQL text so the dump goes
// through the same validation as the structured documents.
func (p *Parser) unmarshal(data []byte, v any) error {
	view, ok := v.(*core.DatabaseView)
	if !ok {
		return fmt.Errorf("mysql: cannot decode into %T", v)
	}

	stmtNodes, _, err := p.p.Parse(string(data), "", "")
	if err != nil {
		return err
	}

	for _, stmtNode := range stmtNodes {
		switch stmt := stmtNode.(type) {
		case *ast.CreateDatabaseStmt:
			view.Name = stmt.Name.O
			if collate := databaseCollation(stmt.Options); collate != "" {
				view.Collate = collate
			}
		case *ast.UseStmt:
			if view.Name == "" {
				view.Name = stmt.DBName
			}
		case *ast.CreateTableStmt:
			view.Tables = append(view.Tables, p.convertCreateTable(stmt))
		}
	}
	return nil
}

func databaseCollation(opts []*ast.DatabaseOption) string {
	var collate string
	for _, opt := range opts {
		if opt.Tp == ast.DatabaseOptionCollate {
			collate = opt.Value
		}
	}
	return collate
}

func (p *Parser) exprToString(expr ast.ExprNode) string {
	if expr == nil {
		return ""
	}
	var sb strings.Builder
	restoreCtx := format.NewRestoreCtx(format.DefaultRestoreFlags, &sb)
	if err := expr.Restore(restoreCtx); err != nil {
		return ""
	}
	s := strings.TrimSpace(sb.String())

	if unquoted, ok := unquoteStringLiteral(s); ok {
		return unquoted
	}
	return s
}

// unquoteStringLiteral reads a restored string literal, with or without a
// charset introducer ('a''b', N'a', _utf8mb4'a'), and undoes the quote doubling.
func unquoteStringLiteral(s string) (string, bool) {
	if len(s) < 2 || s[len(s)-1] != '\'' {
		return "", false
	}
	if s[0] == '\'' {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'"), true
	}

	q := strings.IndexByte(s, '\'')
	if q <= 0 || !isStringIntroducer(strings.TrimSpace(s[:q])) {
		return "", false
	}
	return strings.ReplaceAll(s[q+1:len(s)-1], "''", "'"), true
}

func isStringIntroducer(prefix string) bool {
	if strings.EqualFold(prefix, "N") {
		return true
	}
	if len(prefix) < 2 || prefix[0] != '_' {
		return false
	}
	for _, r := range prefix[1:] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}
