// Package output renders a migration plan as SQL, JSON or a short summary.
package output

import (
	"fmt"
	"io"
	"strings"

	"dbchecker/internal/migration"
)

// Format is an enum type representing the available output formats.
type Format string

const (
	FormatSQL     Format = "sql"
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

// Formatter renders a migration plan.
type Formatter interface {
	FormatMigration(*migration.Migration) (string, error)
}

// NewFormatter creates a Formatter by name. An empty name means SQL.
func NewFormatter(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatSQL:
		return sqlFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	case FormatSummary:
		return summaryFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s; use 'sql', 'json', or 'summary'", name)
	}
}

// WriteMigration formats m with the named format and writes it to w.
func WriteMigration(w io.Writer, m *migration.Migration, format string) error {
	f, err := NewFormatter(format)
	if err != nil {
		return err
	}
	content, err := f.FormatMigration(m)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, content)
	return err
}

func normalizeStatements(stmts []string) []string {
	var out []string
	for _, stmt := range stmts {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if !strings.HasSuffix(stmt, ";") {
			stmt += ";"
		}
		out = append(out, stmt)
	}
	return out
}
