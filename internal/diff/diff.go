// Package diff reconciles two schema trees and produces the ordered DDL that
// migrates the current schema toward the desired one.
package diff

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"dbchecker/internal/core"
)

// MissingTablePolicy decides what happens to a table that exists in the
// current schema but not in the desired one.
type MissingTablePolicy string

const (
	MissingTableCreate MissingTablePolicy = "create"
	MissingTableDrop   MissingTablePolicy = "drop"
	MissingTableSkip   MissingTablePolicy = "skip"
)

// ErrInvalidMissingTablePolicy is returned for an unknown policy name.
var ErrInvalidMissingTablePolicy = errors.New("invalid missing table policy")

// ParseMissingTablePolicy parses create, drop or skip. An empty string means create.
func ParseMissingTablePolicy(s string) (MissingTablePolicy, error) {
	switch p := MissingTablePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", MissingTableCreate:
		return MissingTableCreate, nil
	case MissingTableDrop, MissingTableSkip:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q; use 'create', 'drop', or 'skip'", ErrInvalidMissingTablePolicy, s)
	}
}

// Options configure a comparison. The zero value never drops anything.
type Options struct {
	CheckCollation bool
	CheckEngine    bool
	// DropStatement allows DROP COLUMN / DROP INDEX for objects absent from the desired schema.
	DropStatement bool
	MissingTable  MissingTablePolicy
	Logger        *slog.Logger
}

// DefaultOptions returns the conservative defaults.
func DefaultOptions() Options {
	return Options{MissingTable: MissingTableCreate}
}

// ChangeKind classifies what happened to a table.
type ChangeKind string

const (
	ChangeCreate ChangeKind = "create"
	ChangeAlter  ChangeKind = "alter"
	ChangeDrop   ChangeKind = "drop"
)

// TableChange groups the statements produced for one table.
type TableChange struct {
	Name       string     `json:"name"`
	Kind       ChangeKind `json:"kind"`
	Statements []string   `json:"statements"`
}

// Result is the outcome of a comparison. Statements is the flattened,
// de-duplicated list; Database and Tables keep the per-object breakdown.
type Result struct {
	Database   []string       `json:"database,omitempty"`
	Tables     []*TableChange `json:"tables,omitempty"`
	Statements []string       `json:"statements"`
}

// IsEmpty reports whether the schemas are already in sync.
func (r *Result) IsEmpty() bool {
	return len(r.Statements) == 0
}

// Diff compares current and desired and returns the DDL statements to run,
// in order, against current.
func Diff(current, desired *core.Database, opts Options) ([]string, error) {
	r, err := Compare(current, desired, opts)
	if err != nil {
		return nil, err
	}
	return r.Statements, nil
}

// Compare is Diff with the per-table breakdown.
func Compare(current, desired *core.Database, opts Options) (*Result, error) {
	if current == nil || desired == nil {
		return nil, errors.New("diff: current and desired databases are required")
	}
	return newEngine(opts).compare(current, desired)
}

type engine struct {
	opts Options
	log  *slog.Logger
}

func newEngine(opts Options) *engine {
	if opts.MissingTable == "" {
		opts.MissingTable = MissingTableCreate
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &engine{opts: opts, log: log}
}

func (e *engine) compare(current, desired *core.Database) (*Result, error) {
	r := &Result{}

	dbStmts, err := e.compareDatabase(current, desired)
	if err != nil {
		return nil, err
	}
	r.Database = dbStmts
	groups := [][]string{dbStmts}

	for _, ct := range current.Tables() {
		change, err := e.currentTable(ct, desired)
		if err != nil {
			return nil, err
		}
		if change != nil {
			r.Tables = append(r.Tables, change)
			groups = append(groups, change.Statements)
		}
	}

	for _, dt := range desired.Tables() {
		if _, ok := current.FindTable(dt.Name()); ok {
			continue
		}
		e.log.Debug("table only in desired schema", "table", dt.Name())
		stmts, err := dt.CreateStatement()
		if err != nil {
			return nil, err
		}
		r.Tables = append(r.Tables, &TableChange{Name: dt.Name(), Kind: ChangeCreate, Statements: stmts})
		groups = append(groups, stmts)
	}

	r.Statements = flatten(groups...)
	e.log.Debug("comparison finished", "database", current.Name(), "statements", len(r.Statements))
	return r, nil
}

// compareDatabase applies the desired collation to a copy of the current
// database and returns its ALTER DATABASE statement.
func (e *engine) compareDatabase(current, desired *core.Database) ([]string, error) {
	if !e.opts.CheckCollation || strings.EqualFold(current.Collation(), desired.Collation()) {
		return nil, nil
	}
	target, err := core.NewDatabase(current.Name())
	if err != nil {
		return nil, err
	}
	target.SetCollation(desired.Collation())
	return target.AlterStatement()
}

func (e *engine) currentTable(ct *core.Table, desired *core.Database) (*TableChange, error) {
	dt, ok := desired.FindTable(ct.Name())
	if ok {
		stmts, err := e.compareTable(ct, dt)
		if err != nil {
			return nil, err
		}
		if len(stmts) == 0 {
			return nil, nil
		}
		return &TableChange{Name: dt.Name(), Kind: ChangeAlter, Statements: stmts}, nil
	}

	e.log.Debug("table only in current schema", "table", ct.Name(), "policy", string(e.opts.MissingTable))
	switch e.opts.MissingTable {
	case MissingTableSkip:
		return nil, nil
	case MissingTableDrop:
		stmts, err := ct.DeleteStatement()
		if err != nil {
			return nil, err
		}
		return &TableChange{Name: ct.Name(), Kind: ChangeDrop, Statements: stmts}, nil
	default:
		stmts, err := ct.CreateStatement()
		if err != nil {
			return nil, err
		}
		return &TableChange{Name: ct.Name(), Kind: ChangeCreate, Statements: stmts}, nil
	}
}
