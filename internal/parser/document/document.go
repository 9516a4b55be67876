// Package document turns a decoded schema document into the core model.
// A document is the structured view of a database, so every loader only has
// to decode its own syntax into a core.DatabaseView.
package document

import (
	"bytes"
	"errors"
	"fmt"

	"dbchecker/internal/core"
)

// Kinds of input-format errors.
var (
	ErrNoData        = errors.New("no data")
	ErrInvalidSyntax = errors.New("invalid syntax")
	ErrMissingField  = errors.New("missing field")
)

// FormatError reports a document that cannot be turned into a database.
// Kind is one of ErrNoData, ErrInvalidSyntax or ErrMissingField.
type FormatError struct {
	Format string
	Source string
	Kind   error
	Err    error
}

func (e *FormatError) Error() string {
	msg := e.Format + " document"
	if e.Source != "" {
		msg += fmt.Sprintf(" %q", e.Source)
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Decoder carries what a loader knows about its input.
type Decoder struct {
	Format string
	// Source names the input in errors, usually a file path.
	Source string
	// Name is used when the document does not name its database.
	Name string
}

func (d Decoder) fail(kind, err error) error {
	return &FormatError{Format: d.Format, Source: d.Source, Kind: kind, Err: err}
}

func (d Decoder) missing(format string, args ...any) error {
	return d.fail(ErrMissingField, fmt.Errorf(format, args...))
}

// Decode unmarshals data into a view and builds the database from it.
func (d Decoder) Decode(data []byte, unmarshal func([]byte, any) error) (*core.Database, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, d.fail(ErrNoData, nil)
	}
	var view core.DatabaseView
	if err := unmarshal(data, &view); err != nil {
		return nil, d.fail(ErrInvalidSyntax, err)
	}
	return d.Build(&view)
}

// Build converts a view into a database. A document without tables and
// without a name carries no data.
func (d Decoder) Build(view *core.DatabaseView) (*core.Database, error) {
	if view == nil || (view.Name == "" && view.Collate == "" && len(view.Tables) == 0) {
		return nil, d.fail(ErrNoData, nil)
	}

	name := view.Name
	if name == "" {
		name = d.Name
	}
	if name == "" {
		return nil, d.missing("database name")
	}

	db, err := core.NewDatabase(name)
	if err != nil {
		return nil, d.missing("database name")
	}
	db.SetCollation(view.Collate)

	for i := range view.Tables {
		t, err := d.buildTable(i, &view.Tables[i])
		if err != nil {
			return nil, err
		}
		db.AddTable(t)
	}
	return db, nil
}

func (d Decoder) buildTable(pos int, tv *core.TableView) (*core.Table, error) {
	t, err := core.NewTable(tv.Name)
	if err != nil {
		return nil, d.missing("table #%d: name", pos+1)
	}
	if len(tv.Columns) == 0 {
		return nil, d.missing("table %q: columns", tv.Name)
	}
	t.SetCollation(tv.Collate)
	t.SetEngine(tv.Engine)

	for i, cv := range tv.Columns {
		if cv.Type == "" {
			return nil, d.missing("table %q: column #%d: type", tv.Name, i+1)
		}
		c, err := core.NewColumn(cv.Name, cv.Type, cv.Length, cv.Nullable, cv.DefaultValue, cv.Extra)
		if err != nil {
			return nil, d.missing("table %q: column #%d: name", tv.Name, i+1)
		}
		c.SetCollation(cv.Collate)
		t.AddColumn(c)
	}

	if len(tv.Primary) > 0 {
		if err := t.AddPrimary(tv.Primary); err != nil {
			return nil, d.fail(ErrMissingField, err)
		}
	}
	for i, iv := range tv.Indexes {
		if len(iv.Columns) == 0 {
			return nil, d.missing("table %q: index #%d: columns", tv.Name, i+1)
		}
		if err := t.AddIndex(iv.Columns, iv.Name); err != nil {
			return nil, d.fail(ErrMissingField, err)
		}
	}
	for i, uv := range tv.Uniques {
		if len(uv.Columns) == 0 {
			return nil, d.missing("table %q: unique #%d: columns", tv.Name, i+1)
		}
		if err := t.AddUnique(uv.Columns, uv.Name); err != nil {
			return nil, d.fail(ErrMissingField, err)
		}
	}
	return t, nil
}
