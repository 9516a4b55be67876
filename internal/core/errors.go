package core

import (
	"errors"
	"fmt"
)

// Precondition errors. They are never used for lookups: a missing entity is
// reported by the boolean of the Find-style accessors instead.
var (
	ErrEmptyName      = errors.New("name must not be empty")
	ErrNoColumns      = errors.New("table has no columns")
	ErrNoIndexColumns = errors.New("index has no columns")
	ErrMissingTable   = errors.New("owning table name is not set")
)

// EntityKind names the kind of schema object an error refers to.
type EntityKind string

const (
	EntityColumn   EntityKind = "column"
	EntityIndex    EntityKind = "index"
	EntityTable    EntityKind = "table"
	EntityDatabase EntityKind = "database"
)

// SchemaError reports a precondition violation on a single schema object.
type SchemaError struct {
	Entity EntityKind
	Name   string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %v", e.Entity, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Entity, e.Name, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

func schemaError(kind EntityKind, name string, err error) error {
	return &SchemaError{Entity: kind, Name: name, Err: err}
}
