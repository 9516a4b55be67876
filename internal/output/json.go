package output

import (
	"encoding/json"

	"dbchecker/internal/diff"
	"dbchecker/internal/migration"
)

type jsonFormatter struct{}

type migrationSummary struct {
	SQLStatements   int `json:"sqlStatements"`
	BreakingChanges int `json:"breakingChanges"`
	Unresolved      int `json:"unresolved"`
	Notes           int `json:"notes"`
	Critical        int `json:"critical"`
	Breaking        int `json:"breaking"`
	Warning         int `json:"warning"`
	Info            int `json:"info"`
}

type operationPayload struct {
	SQL          string                  `json:"sql"`
	Table        string                  `json:"table,omitempty"`
	Risk         migration.OperationRisk `json:"risk"`
	RequiresLock bool                    `json:"requiresLock"`
}

type migrationPayload struct {
	Format          string              `json:"format"`
	Summary         migrationSummary    `json:"summary"`
	Tables          []*diff.TableChange `json:"tables,omitempty"`
	BreakingChanges []string            `json:"breakingChanges,omitempty"`
	Unresolved      []string            `json:"unresolved,omitempty"`
	Notes           []string            `json:"notes,omitempty"`
	Operations      []operationPayload  `json:"operations,omitempty"`
	SQL             []string            `json:"sql,omitempty"`
}

func (jsonFormatter) FormatMigration(m *migration.Migration) (string, error) {
	payload := migrationPayload{Format: string(FormatJSON)}
	if m != nil {
		breaking := m.BreakingNotes()
		unresolved := m.UnresolvedNotes()
		notes := m.InfoNotes()
		sql := normalizeStatements(m.SQLStatements())
		risks := m.CountByRisk()

		payload.Tables = m.Tables
		payload.BreakingChanges = breaking
		payload.Unresolved = unresolved
		payload.Notes = notes
		payload.SQL = sql
		for _, op := range sqlOperations(m) {
			risk := op.Risk
			if risk == "" {
				risk = migration.RiskInfo
			}
			payload.Operations = append(payload.Operations, operationPayload{
				SQL:          op.SQL,
				Table:        op.Table,
				Risk:         risk,
				RequiresLock: op.RequiresLock,
			})
		}
		payload.Summary = migrationSummary{
			SQLStatements:   len(sql),
			BreakingChanges: len(breaking),
			Unresolved:      len(unresolved),
			Notes:           len(notes),
			Critical:        risks[migration.RiskCritical],
			Breaking:        risks[migration.RiskBreaking],
			Warning:         risks[migration.RiskWarning],
			Info:            risks[migration.RiskInfo],
		}
	}
	return marshalJSON(payload)
}

func marshalJSON[T any](payload T) (string, error) {
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
