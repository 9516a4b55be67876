package analyze

import "fmt"

// WarningLevel grades a warning.
type WarningLevel string

const (
	WarnCaution WarningLevel = "CAUTION"
	WarnDanger  WarningLevel = "DANGER"
)

// Warning ties a message to the statement that raised it.
type Warning struct {
	Level   WarningLevel `json:"level"`
	Message string       `json:"message"`
	SQL     string       `json:"sql"`
}

// Report is the analysis of a whole statement list.
type Report struct {
	Warnings        []Warning
	IsTransactional bool
	NonTxReasons    []string
}

// HasDanger reports whether any statement is destructive.
func (r *Report) HasDanger() bool {
	for _, w := range r.Warnings {
		if w.Level == WarnDanger {
			return true
		}
	}
	return false
}

// AnalyzeAll analyzes statements in order and collects their warnings.
func (a *StatementAnalyzer) AnalyzeAll(statements []string) *Report {
	report := &Report{IsTransactional: true}
	for _, stmt := range statements {
		analysis := a.Analyze(stmt)

		for _, reason := range analysis.BlockingReasons {
			report.Warnings = append(report.Warnings, Warning{
				Level:   WarnCaution,
				Message: fmt.Sprintf("Potentially blocking DDL: %s", reason),
				SQL:     stmt,
			})
		}
		if analysis.IsDestructive {
			report.Warnings = append(report.Warnings, Warning{
				Level:   WarnDanger,
				Message: analysis.DestructiveReason,
				SQL:     stmt,
			})
		}
		if !analysis.IsTransactionSafe {
			report.IsTransactional = false
			reason := analysis.TxUnsafeReason
			if reason == "" {
				reason = "DDL statement causes implicit commit"
			}
			report.NonTxReasons = append(report.NonTxReasons, fmt.Sprintf("%s: %s", reason, stmt))
		}
	}
	return report
}
