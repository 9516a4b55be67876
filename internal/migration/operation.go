package migration

// OperationKind identifies what an operation of a migration carries.
type OperationKind string

const (
	OperationSQL        OperationKind = "SQL"
	OperationNote       OperationKind = "NOTE"
	OperationBreaking   OperationKind = "BREAKING"
	OperationUnresolved OperationKind = "UNRESOLVED"
)

// OperationRisk grades the impact of running an operation.
type OperationRisk string

const (
	RiskInfo     OperationRisk = "INFO"
	RiskWarning  OperationRisk = "WARNING"
	RiskBreaking OperationRisk = "BREAKING"
	RiskCritical OperationRisk = "CRITICAL"
)

// Operation is a single step of a migration: a statement to run or a
// message for the reviewer.
type Operation struct {
	Kind OperationKind `json:"kind"`

	SQL   string `json:"sql,omitempty"`
	Table string `json:"table,omitempty"`

	Risk         OperationRisk `json:"risk,omitempty"`
	RequiresLock bool          `json:"requiresLock,omitempty"`

	UnresolvedReason string `json:"unresolvedReason,omitempty"`
}
