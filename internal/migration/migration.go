// Package migration turns the statements of a schema comparison into a
// reviewable plan: each statement with its risk, plus notes for the reviewer.
package migration

import (
	"strings"

	"dbchecker/internal/diff"
)

// Migration holds the operations of a plan in execution order.
type Migration struct {
	Operations []Operation
	// Tables is the per-table breakdown of the comparison the plan was built from.
	Tables []*diff.TableChange
}

// Plan returns the operations in order.
func (m *Migration) Plan() []Operation {
	return m.Operations
}

// SQLStatements returns the statements to execute, in order.
func (m *Migration) SQLStatements() []string {
	return m.filterByKind(OperationSQL, func(op Operation) string { return op.SQL })
}

// BreakingNotes returns the messages about data loss that need manual review.
func (m *Migration) BreakingNotes() []string {
	return m.filterByKind(OperationBreaking, func(op Operation) string { return op.SQL })
}

// UnresolvedNotes returns what could not be classified safely.
func (m *Migration) UnresolvedNotes() []string {
	return m.filterByKind(OperationUnresolved, func(op Operation) string { return op.UnresolvedReason })
}

// InfoNotes returns informational messages.
func (m *Migration) InfoNotes() []string {
	return m.filterByKind(OperationNote, func(op Operation) string { return op.SQL })
}

// CountByRisk counts the SQL operations per risk level.
func (m *Migration) CountByRisk() map[OperationRisk]int {
	counts := make(map[OperationRisk]int, 4)
	for _, op := range m.Operations {
		if op.Kind != OperationSQL || op.SQL == "" {
			continue
		}
		risk := op.Risk
		if risk == "" {
			risk = RiskInfo
		}
		counts[risk]++
	}
	return counts
}

// IsEmpty reports whether the plan has no statement to run.
func (m *Migration) IsEmpty() bool {
	return len(m.SQLStatements()) == 0
}

func (m *Migration) AddStatement(stmt string) {
	if stmt = strings.TrimSpace(stmt); stmt == "" {
		return
	}
	m.Operations = append(m.Operations, Operation{Kind: OperationSQL, SQL: stmt, Risk: RiskInfo})
}

func (m *Migration) AddBreaking(msg string) {
	if msg = strings.TrimSpace(msg); msg == "" {
		return
	}
	m.Operations = append(m.Operations, Operation{Kind: OperationBreaking, SQL: msg, Risk: RiskBreaking})
}

func (m *Migration) AddNote(msg string) {
	if msg = strings.TrimSpace(msg); msg == "" {
		return
	}
	m.Operations = append(m.Operations, Operation{Kind: OperationNote, SQL: msg, Risk: RiskInfo})
}

func (m *Migration) AddUnresolved(msg string) {
	if msg = strings.TrimSpace(msg); msg == "" {
		return
	}
	m.Operations = append(m.Operations, Operation{Kind: OperationUnresolved, UnresolvedReason: msg})
}

// Dedupe drops empty operations and repeats of the same kind and text,
// keeping the first occurrence.
func (m *Migration) Dedupe() {
	if len(m.Operations) == 0 {
		return
	}
	type key struct {
		kind OperationKind
		text string
	}
	seen := make(map[key]struct{}, len(m.Operations))
	out := make([]Operation, 0, len(m.Operations))
	for _, op := range m.Operations {
		op.SQL = strings.TrimSpace(op.SQL)
		op.UnresolvedReason = strings.TrimSpace(op.UnresolvedReason)

		k := key{kind: op.Kind, text: op.SQL}
		if op.Kind == OperationUnresolved {
			k.text = op.UnresolvedReason
		}
		if k.text == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, op)
	}
	m.Operations = out
}

func (m *Migration) filterByKind(kind OperationKind, fieldFn func(Operation) string) []string {
	out := make([]string, 0, len(m.Operations)/4+1)
	for i := range m.Operations {
		op := &m.Operations[i]
		if op.Kind != kind {
			continue
		}
		val := strings.TrimSpace(fieldFn(*op))
		if val == "" {
			continue
		}
		out = append(out, val)
	}
	return out
}
