package core

import (
	"fmt"
	"strings"
)

// Database is the root of a schema tree.
type Database struct {
	name      string
	collation string
	tables    []*Table
}

// NewDatabase creates an empty database.
func NewDatabase(name string) (*Database, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, schemaError(EntityDatabase, "", ErrEmptyName)
	}
	return &Database{name: name}, nil
}

func (db *Database) Name() string      { return db.name }
func (db *Database) Collation() string { return db.collation }

func (db *Database) SetCollation(collation string) { db.collation = strings.TrimSpace(collation) }

// AddTable attaches t, stamping its database name. The database collation is
// propagated to tables that have none. A table with the same name is replaced.
func (db *Database) AddTable(t *Table) {
	t.SetDatabase(db.name)
	if db.collation != "" && t.Collation() == "" {
		t.SetCollation(db.collation)
	}
	for i, existing := range db.tables {
		if strings.EqualFold(existing.Name(), t.Name()) {
			db.tables[i] = t
			return
		}
	}
	db.tables = append(db.tables, t)
}

// RemoveTable detaches the named table, if present.
func (db *Database) RemoveTable(name string) {
	for i, t := range db.tables {
		if strings.EqualFold(t.Name(), name) {
			db.tables = append(db.tables[:i], db.tables[i+1:]...)
			return
		}
	}
}

// Tables returns the tables in insertion order.
func (db *Database) Tables() []*Table {
	return db.tables
}

// FindTable looks for a table by name (case-insensitive).
func (db *Database) FindTable(name string) (*Table, bool) {
	for _, t := range db.tables {
		if strings.EqualFold(t.Name(), name) {
			return t, true
		}
	}
	return nil, false
}

// CreateStatement returns CREATE DATABASE IF NOT EXISTS.
func (db *Database) CreateStatement() ([]string, error) {
	return []string{fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s;", QuoteIdentifier(db.name))}, nil
}

// AlterStatement converts the database default collation. It is empty when
// no collation is set.
func (db *Database) AlterStatement() ([]string, error) {
	if db.collation == "" {
		return nil, nil
	}
	return []string{fmt.Sprintf("ALTER DATABASE %s CHARACTER SET %s COLLATE %s;",
		QuoteIdentifier(db.name), CharsetOf(db.collation), db.collation)}, nil
}

// DeleteStatement is always empty: dropping a whole database is never generated.
func (db *Database) DeleteStatement() ([]string, error) {
	return nil, nil
}

// View returns the structured snapshot of the database.
func (db *Database) View() DatabaseView {
	v := DatabaseView{
		Name:    db.name,
		Collate: db.collation,
		Tables:  make([]TableView, 0, len(db.tables)),
	}
	for _, t := range db.tables {
		v.Tables = append(v.Tables, t.View())
	}
	return v
}

// Clone returns a deep copy of the database.
func (db *Database) Clone() *Database {
	cp := &Database{
		name:      db.name,
		collation: db.collation,
		tables:    make([]*Table, 0, len(db.tables)),
	}
	for _, t := range db.tables {
		cp.tables = append(cp.tables, t.Clone())
	}
	return cp
}
