package migration

import (
	"fmt"

	"dbchecker/internal/analyze"
	"dbchecker/internal/diff"
)

// Build classifies every statement of r and returns the resulting plan.
// opts must be the options the comparison ran with; they only feed the notes.
func Build(r *diff.Result, opts diff.Options) *Migration {
	m := &Migration{}
	if r == nil {
		return m
	}
	m.Tables = r.Tables

	analyzer := analyze.NewStatementAnalyzer()
	for _, stmt := range r.Statements {
		m.addAnalyzed(stmt, analyzer.Analyze(stmt))
	}

	m.addOptionNotes(r, opts)
	m.Dedupe()
	return m
}

func (m *Migration) addAnalyzed(stmt string, a *analyze.Analysis) {
	op := Operation{
		Kind:         OperationSQL,
		SQL:          stmt,
		Table:        a.Table,
		Risk:         RiskInfo,
		RequiresLock: a.IsBlocking,
	}

	switch {
	case a.DropsPrimaryKey:
		op.Risk = RiskBreaking
		m.AddBreaking(fmt.Sprintf("%s: %s", a.DestructiveReason, stmt))
	case a.IsDestructive:
		op.Risk = RiskCritical
		m.AddBreaking(fmt.Sprintf("%s: %s", a.DestructiveReason, stmt))
	case a.IsBlocking:
		op.Risk = RiskWarning
	}

	if a.StatementType == analyze.TypeUnparseable {
		m.AddUnresolved(fmt.Sprintf("statement could not be parsed, risk was inferred from keywords: %s", stmt))
	}
	m.Operations = append(m.Operations, op)
}

func (m *Migration) addOptionNotes(r *diff.Result, opts diff.Options) {
	if !opts.DropStatement {
		m.AddNote("Drop mode is off: columns and indexes missing from the desired schema are kept.")
	}

	missing := 0
	for _, t := range r.Tables {
		if t.Kind == diff.ChangeDrop {
			missing++
		}
	}
	policy := opts.MissingTable
	if policy == "" {
		policy = diff.MissingTableCreate
	}
	switch policy {
	case diff.MissingTableDrop:
		if missing > 0 {
			m.AddNote(fmt.Sprintf("Missing table policy is drop: %d table(s) absent from the desired schema are dropped.", missing))
		}
	case diff.MissingTableSkip:
		m.AddNote("Missing table policy is skip: tables absent from the desired schema are left untouched.")
	default:
		m.AddNote("Missing table policy is create: tables absent from the desired schema are recreated.")
	}
}
