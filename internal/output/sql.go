package output

import (
	"strings"

	"dbchecker/internal/migration"
)

type sqlFormatter struct{}

// FormatMigration renders the plan as an executable script. Notes and risk
// markers are SQL comments.
func (sqlFormatter) FormatMigration(m *migration.Migration) (string, error) {
	if m == nil {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("-- dbchecker migration\n")
	sb.WriteString("-- Review before running in production.\n")

	writeCommentSection(&sb, "BREAKING CHANGES (manual review required)", m.BreakingNotes())
	writeCommentSection(&sb, "UNRESOLVED (risk could not be determined)", m.UnresolvedNotes())
	writeCommentSection(&sb, "NOTES", m.InfoNotes())

	sqlOps := sqlOperations(m)
	if len(sqlOps) == 0 {
		sb.WriteString("\n-- No SQL statements generated.\n")
		return sb.String(), nil
	}

	sb.WriteString("\n-- SQL\n")
	for _, op := range sqlOps {
		writeRiskComment(&sb, op)
		sb.WriteString(op.SQL)
		if !strings.HasSuffix(op.SQL, ";") {
			sb.WriteString(";")
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func writeRiskComment(sb *strings.Builder, op migration.Operation) {
	if op.Risk == "" || op.Risk == migration.RiskInfo {
		return
	}
	sb.WriteString("-- [" + string(op.Risk) + "]")
	if op.RequiresLock {
		sb.WriteString(" (may acquire locks)")
	}
	sb.WriteString("\n")
}

func sqlOperations(m *migration.Migration) []migration.Operation {
	var ops []migration.Operation
	for _, op := range m.Plan() {
		if op.Kind == migration.OperationSQL && strings.TrimSpace(op.SQL) != "" {
			ops = append(ops, op)
		}
	}
	return ops
}

func writeCommentSection(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n-- " + title + "\n")
	for _, item := range items {
		for _, line := range splitCommentLines(item) {
			if line == "" {
				continue
			}
			sb.WriteString("-- - " + line + "\n")
		}
	}
}

func splitCommentLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}
