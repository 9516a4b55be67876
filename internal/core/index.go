package core

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
)

// PrimaryKeyName is the reserved name of the primary key index.
const PrimaryKeyName = "PRIMARY"

const (
	indexPrefix  = "IDX_"
	uniquePrefix = "UNI_"
)

// Index is a primary key, unique or secondary index. Columns are referenced by name.
type Index struct {
	name    string
	columns []string
	unique  bool
	table   string
}

// NewIndex creates an index. An empty name is rejected; use IndexName to
// derive one from the column list.
func NewIndex(name string, columns []string, unique bool) (*Index, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, schemaError(EntityIndex, "", ErrEmptyName)
	}
	if len(columns) == 0 {
		return nil, schemaError(EntityIndex, name, ErrNoIndexColumns)
	}
	return &Index{
		name:    name,
		columns: slices.Clone(columns),
		unique:  unique,
	}, nil
}

// IndexName returns the deterministic fingerprint name for a column set:
// IDX_ or UNI_ followed by the md5 of the sorted, comma-joined, lower-cased names.
func IndexName(columns []string, unique bool) string {
	sorted := make([]string, len(columns))
	for i, c := range columns {
		sorted[i] = strings.ToLower(strings.TrimSpace(c))
	}
	slices.Sort(sorted)

	sum := md5.Sum([]byte(strings.Join(sorted, ",")))
	prefix := indexPrefix
	if unique {
		prefix = uniquePrefix
	}
	return prefix + hex.EncodeToString(sum[:])
}

func (i *Index) Name() string         { return i.name }
func (i *Index) Columns() []string    { return slices.Clone(i.columns) }
func (i *Index) Table() string        { return i.table }
func (i *Index) SetTable(name string) { i.table = name }

// IsPrimary reports whether the index is the primary key.
func (i *Index) IsPrimary() bool {
	return strings.EqualFold(i.name, PrimaryKeyName)
}

// Unique reports whether the index enforces uniqueness. The primary key always does.
func (i *Index) Unique() bool {
	return i.unique || i.IsPrimary()
}

// Definition renders the index clause used in CREATE TABLE and ALTER TABLE ... ADD.
func (i *Index) Definition() string {
	cols := "(" + quoteIdentifiers(i.columns) + ")"
	switch {
	case i.IsPrimary():
		return "PRIMARY KEY " + cols
	case i.unique:
		return "UNIQUE INDEX " + QuoteIdentifier(i.name) + " " + cols
	default:
		return "INDEX " + QuoteIdentifier(i.name) + " " + cols
	}
}

func (i *Index) requireTable() error {
	if i.table == "" {
		return schemaError(EntityIndex, i.name, ErrMissingTable)
	}
	return nil
}

// CreateStatement returns the ALTER TABLE ... ADD statement for the index.
func (i *Index) CreateStatement() ([]string, error) {
	if err := i.requireTable(); err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("ALTER TABLE %s ADD %s;", QuoteIdentifier(i.table), i.Definition())}, nil
}

// DeleteStatement returns DROP PRIMARY KEY or DROP INDEX.
func (i *Index) DeleteStatement() ([]string, error) {
	if err := i.requireTable(); err != nil {
		return nil, err
	}
	if i.IsPrimary() {
		return []string{fmt.Sprintf("ALTER TABLE %s DROP PRIMARY KEY;", QuoteIdentifier(i.table))}, nil
	}
	return []string{fmt.Sprintf("ALTER TABLE %s DROP INDEX %s;", QuoteIdentifier(i.table), QuoteIdentifier(i.name))}, nil
}

// AlterStatement drops and recreates the index; indexes are never altered in place.
func (i *Index) AlterStatement() ([]string, error) {
	drop, err := i.DeleteStatement()
	if err != nil {
		return nil, err
	}
	create, err := i.CreateStatement()
	if err != nil {
		return nil, err
	}
	return []string{drop[0], create[0]}, nil
}

// View returns the structured snapshot of the index.
func (i *Index) View() IndexView {
	return IndexView{Name: i.name, Columns: slices.Clone(i.columns)}
}

// Clone returns a copy of the index, including its table reference.
func (i *Index) Clone() *Index {
	cp := *i
	cp.columns = slices.Clone(i.columns)
	return &cp
}
