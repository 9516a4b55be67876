// Package core contains the schema object model compared by the diff engine:
// a Database holds Tables, a Table holds Columns and Indexes. Every entity
// renders its own MySQL DDL.
package core

// Entity is implemented by every schema object able to render DDL.
type Entity interface {
	CreateStatement() ([]string, error)
	AlterStatement() ([]string, error)
	DeleteStatement() ([]string, error)
}

var (
	_ Entity = (*Column)(nil)
	_ Entity = (*Index)(nil)
	_ Entity = (*Table)(nil)
	_ Entity = (*Database)(nil)
)
