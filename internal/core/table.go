package core

import (
	"fmt"
	"strings"
)

// Table aggregates columns and indexes. Column order is kept for CREATE TABLE.
type Table struct {
	name      string
	collation string
	engine    string
	database  string
	columns   []*Column
	indexes   []*Index
}

// NewTable creates an empty table.
func NewTable(name string) (*Table, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, schemaError(EntityTable, "", ErrEmptyName)
	}
	return &Table{name: name}, nil
}

func (t *Table) Name() string      { return t.name }
func (t *Table) Collation() string { return t.collation }
func (t *Table) Engine() string    { return t.engine }
func (t *Table) Database() string  { return t.database }

func (t *Table) SetCollation(collation string) { t.collation = strings.TrimSpace(collation) }
func (t *Table) SetEngine(engine string)       { t.engine = strings.TrimSpace(engine) }
func (t *Table) SetDatabase(name string)       { t.database = name }

// AddColumn attaches c to the table. A column with the same name
// (case-insensitive) is replaced in place.
func (t *Table) AddColumn(c *Column) {
	c.SetTable(t.name)
	for i, existing := range t.columns {
		if strings.EqualFold(existing.Name(), c.Name()) {
			t.columns[i] = c
			return
		}
	}
	t.columns = append(t.columns, c)
}

// RemoveColumn detaches the named column, if present.
func (t *Table) RemoveColumn(name string) {
	for i, c := range t.columns {
		if strings.EqualFold(c.Name(), name) {
			t.columns = append(t.columns[:i], t.columns[i+1:]...)
			return
		}
	}
}

// Columns returns the columns in insertion order. A table without columns
// is not a real table and yields ErrNoColumns.
func (t *Table) Columns() ([]*Column, error) {
	if len(t.columns) == 0 {
		return nil, schemaError(EntityTable, t.name, ErrNoColumns)
	}
	return t.columns, nil
}

// FindColumn looks for a column by name (case-insensitive).
func (t *Table) FindColumn(name string) (*Column, bool) {
	for _, c := range t.columns {
		if strings.EqualFold(c.Name(), name) {
			return c, true
		}
	}
	return nil, false
}

// AddIndex attaches a secondary index. An empty name is replaced by the
// column fingerprint.
func (t *Table) AddIndex(columns []string, name string) error {
	return t.addIndex(columns, name, false)
}

// AddUnique attaches a unique index. An empty name is replaced by the
// column fingerprint.
func (t *Table) AddUnique(columns []string, name string) error {
	return t.addIndex(columns, name, true)
}

// AddPrimary sets the primary key.
func (t *Table) AddPrimary(columns []string) error {
	return t.addIndex(columns, PrimaryKeyName, true)
}

func (t *Table) addIndex(columns []string, name string, unique bool) error {
	if strings.TrimSpace(name) == "" {
		name = IndexName(columns, unique)
	}
	idx, err := NewIndex(name, columns, unique)
	if err != nil {
		return fmt.Errorf("table %q: %w", t.name, err)
	}
	t.AttachIndex(idx)
	return nil
}

// AttachIndex attaches an existing index, replacing one with the same name.
func (t *Table) AttachIndex(idx *Index) {
	idx.SetTable(t.name)
	for i, existing := range t.indexes {
		if strings.EqualFold(existing.Name(), idx.Name()) {
			t.indexes[i] = idx
			return
		}
	}
	t.indexes = append(t.indexes, idx)
}

// RemoveIndex detaches the named index, if present.
func (t *Table) RemoveIndex(name string) {
	for i, idx := range t.indexes {
		if strings.EqualFold(idx.Name(), name) {
			t.indexes = append(t.indexes[:i], t.indexes[i+1:]...)
			return
		}
	}
}

// Indexes returns the indexes in insertion order.
func (t *Table) Indexes() []*Index {
	return t.indexes
}

// FindIndex looks for an index by name (case-insensitive).
func (t *Table) FindIndex(name string) (*Index, bool) {
	for _, idx := range t.indexes {
		if strings.EqualFold(idx.Name(), name) {
			return idx, true
		}
	}
	return nil, false
}

// CreateStatement returns a single CREATE TABLE IF NOT EXISTS statement.
// Column collations are only rendered when the table itself has a collation.
func (t *Table) CreateStatement() ([]string, error) {
	columns, err := t.Columns()
	if err != nil {
		return nil, err
	}

	fragments := make([]string, 0, len(columns)+len(t.indexes))
	for _, c := range columns {
		fragments = append(fragments, c.Definition(t.collation != ""))
	}
	for _, idx := range t.indexes {
		fragments = append(fragments, idx.Definition())
	}

	var sb strings.Builder
	sb.WriteString("CREATE TABLE IF NOT EXISTS ")
	sb.WriteString(QuoteIdentifier(t.name))
	sb.WriteString("(" + strings.Join(Dedupe(fragments), ",") + ")")
	var options []string
	if t.engine != "" {
		options = append(options, "ENGINE="+t.engine)
	}
	if t.collation != "" {
		options = append(options, "COLLATE="+QuoteString(t.collation))
	}
	sb.WriteString(strings.Join(options, " "))
	sb.WriteString(";")

	return []string{sb.String()}, nil
}

// CollationStatement converts the table to its collation. It is empty unless
// the table has a collation and belongs to a named database.
func (t *Table) CollationStatement() []string {
	if t.collation == "" || t.database == "" {
		return nil
	}
	return []string{fmt.Sprintf("ALTER TABLE %s CONVERT TO CHARACTER SET %s COLLATE %s;",
		QuoteIdentifier(t.name), CharsetOf(t.collation), t.collation)}
}

// EngineStatement switches the storage engine. It is empty when no engine is set.
func (t *Table) EngineStatement() []string {
	if t.engine == "" {
		return nil
	}
	return []string{fmt.Sprintf("ALTER TABLE %s ENGINE=%s;", QuoteIdentifier(t.name), t.engine)}
}

// AlterStatement returns the table-level collation and engine statements.
func (t *Table) AlterStatement() ([]string, error) {
	return append(t.CollationStatement(), t.EngineStatement()...), nil
}

// DeleteStatement returns DROP TABLE IF EXISTS.
func (t *Table) DeleteStatement() ([]string, error) {
	return []string{fmt.Sprintf("DROP TABLE IF EXISTS %s;", QuoteIdentifier(t.name))}, nil
}

// View returns the structured snapshot of the table.
func (t *Table) View() TableView {
	v := TableView{
		Name:    t.name,
		Collate: t.collation,
		Engine:  t.engine,
		Columns: make([]ColumnView, 0, len(t.columns)),
	}
	for _, c := range t.columns {
		v.Columns = append(v.Columns, c.View())
	}
	for _, idx := range t.indexes {
		switch {
		case idx.IsPrimary():
			v.Primary = idx.Columns()
		case idx.Unique():
			v.Uniques = append(v.Uniques, idx.View())
		default:
			v.Indexes = append(v.Indexes, idx.View())
		}
	}
	return v
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	cp := &Table{
		name:      t.name,
		collation: t.collation,
		engine:    t.engine,
		database:  t.database,
		columns:   make([]*Column, 0, len(t.columns)),
		indexes:   make([]*Index, 0, len(t.indexes)),
	}
	for _, c := range t.columns {
		cp.columns = append(cp.columns, c.Clone())
	}
	for _, idx := range t.indexes {
		cp.indexes = append(cp.indexes, idx.Clone())
	}
	return cp
}

// Dedupe drops empty and repeated strings, keeping first-seen order.
func Dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
