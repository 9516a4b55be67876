package output

import (
	"fmt"
	"strings"

	"dbchecker/internal/diff"
	"dbchecker/internal/migration"
)

type summaryFormatter struct{}

// FormatMigration renders counts and the per-table breakdown.
// Example output:
//
//	Migration Summary
//	=================
//
//	Tables:          +1, ~2, -0
//	SQL Statements:  5
//	Risk:            critical 1, breaking 0, warning 3, info 1
func (summaryFormatter) FormatMigration(m *migration.Migration) (string, error) {
	if m == nil || len(m.Operations) == 0 {
		return "No migration operations.\n", nil
	}

	var sb strings.Builder
	sb.WriteString("Migration Summary\n")
	sb.WriteString("=================\n\n")

	created, altered, dropped := countTables(m.Tables)
	risks := m.CountByRisk()
	fmt.Fprintf(&sb, "Tables:          +%d, ~%d, -%d\n", created, altered, dropped)
	fmt.Fprintf(&sb, "SQL Statements:  %d\n", len(m.SQLStatements()))
	fmt.Fprintf(&sb, "Risk:            critical %d, breaking %d, warning %d, info %d\n",
		risks[migration.RiskCritical], risks[migration.RiskBreaking],
		risks[migration.RiskWarning], risks[migration.RiskInfo])

	writeTableDetails(&sb, m.Tables)
	writeSummaryList(&sb, "Breaking Changes", m.BreakingNotes())
	writeSummaryList(&sb, "Unresolved Issues", m.UnresolvedNotes())
	writeSummaryList(&sb, "Notes", m.InfoNotes())

	return sb.String(), nil
}

func countTables(tables []*diff.TableChange) (created, altered, dropped int) {
	for _, t := range tables {
		switch t.Kind {
		case diff.ChangeCreate:
			created++
		case diff.ChangeAlter:
			altered++
		case diff.ChangeDrop:
			dropped++
		}
	}
	return
}

func writeTableDetails(sb *strings.Builder, tables []*diff.TableChange) {
	if len(tables) == 0 {
		return
	}
	sb.WriteString("\nDetails:\n")
	for _, t := range tables {
		switch t.Kind {
		case diff.ChangeCreate:
			fmt.Fprintf(sb, "  + %s (new table)\n", t.Name)
		case diff.ChangeDrop:
			fmt.Fprintf(sb, "  - %s (dropped table)\n", t.Name)
		default:
			fmt.Fprintf(sb, "  ~ %s (%d statements)\n", t.Name, len(t.Statements))
		}
	}
}

func writeSummaryList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s: %d\n", title, len(items))
	for _, item := range items {
		fmt.Fprintf(sb, "   - %s\n", item)
	}
}
