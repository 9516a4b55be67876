// Package introspect builds a core.Database from the information_schema rows of a
// live server. The rows come from a Repository, so the rules that turn them into
// the model do not depend on a connection.
package introspect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"dbchecker/internal/core"
	"dbchecker/internal/parser/document"
)

// DefaultConcurrency is the number of tables read at the same time.
const DefaultConcurrency = 4

// ErrNoSchema is returned when no schema name is given.
var ErrNoSchema = errors.New("no schema selected")

// Repository reads information_schema for one schema.
type Repository interface {
	SchemaCollation(ctx context.Context, schema string) (string, error)
	Tables(ctx context.Context, schema string) ([]TableRow, error)
	Columns(ctx context.Context, schema, table string) ([]ColumnRow, error)
	Indexes(ctx context.Context, schema, table string) ([]IndexRow, error)
}

// TableRow is one information_schema.TABLES row.
type TableRow struct {
	Name      string         `db:"table_name"`
	Engine    sql.NullString `db:"engine"`
	Collation sql.NullString `db:"table_collation"`
}

// ColumnRow is one information_schema.COLUMNS row.
type ColumnRow struct {
	Name       string         `db:"column_name"`
	DataType   string         `db:"data_type"`
	ColumnType string         `db:"column_type"`
	IsNullable string         `db:"is_nullable"`
	Default    sql.NullString `db:"column_default"`
	Extra      string         `db:"extra"`
	Collation  sql.NullString `db:"collation_name"`
}

// IndexRow is one information_schema.STATISTICS row: a single column of an index.
type IndexRow struct {
	Name      string         `db:"index_name"`
	Column    sql.NullString `db:"column_name"`
	Seq       int            `db:"seq_in_index"`
	NonUnique int            `db:"non_unique"`
	IndexType string         `db:"index_type"`
}

// Options tune how a schema is read.
type Options struct {
	// CheckCollation keeps column collations. Without it columns carry none.
	CheckCollation bool
	// Concurrency bounds the tables read in parallel. Zero means DefaultConcurrency.
	Concurrency int
	Logger      *slog.Logger
}

// Factory turns the rows of one schema into a database.
type Factory struct {
	repo   Repository
	schema string
	opts   Options
	logger *slog.Logger
}

// NewFactory creates a factory reading schema through repo. A nil logger
// discards output.
func NewFactory(repo Repository, schema string, opts Options) *Factory {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Factory{repo: repo, schema: schema, opts: opts, logger: logger}
}

// Generate reads every base table of the schema.
func (f *Factory) Generate(ctx context.Context) (*core.Database, error) {
	if f.schema == "" {
		return nil, ErrNoSchema
	}

	collation, err := f.repo.SchemaCollation(ctx, f.schema)
	if err != nil {
		return nil, fmt.Errorf("read collation of schema %q: %w", f.schema, err)
	}
	tables, err := f.repo.Tables(ctx, f.schema)
	if err != nil {
		return nil, fmt.Errorf("list tables of schema %q: %w", f.schema, err)
	}

	view := &core.DatabaseView{
		Name:    f.schema,
		Collate: collation,
		Tables:  make([]core.TableView, len(tables)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency())
	for i, row := range tables {
		g.Go(func() error {
			tv, err := f.table(gctx, row)
			if err != nil {
				return err
			}
			view.Tables[i] = tv
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	db, err := document.Decoder{Format: "information_schema", Source: f.schema}.Build(view)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("schema introspected", "schema", f.schema, "tables", len(view.Tables))
	return db, nil
}

func (f *Factory) concurrency() int {
	if f.opts.Concurrency > 0 {
		return f.opts.Concurrency
	}
	return DefaultConcurrency
}

func (f *Factory) table(ctx context.Context, row TableRow) (core.TableView, error) {
	tv := core.TableView{
		Name:    row.Name,
		Engine:  row.Engine.String,
		Collate: row.Collation.String,
	}

	columns, err := f.repo.Columns(ctx, f.schema, row.Name)
	if err != nil {
		return tv, fmt.Errorf("read columns of %q: %w", row.Name, err)
	}
	for _, c := range columns {
		tv.Columns = append(tv.Columns, f.column(c))
	}

	indexes, err := f.repo.Indexes(ctx, f.schema, row.Name)
	if err != nil {
		return tv, fmt.Errorf("read indexes of %q: %w", row.Name, err)
	}
	f.indexes(&tv, indexes)

	f.logger.Debug("table introspected",
		"table", row.Name,
		"columns", len(tv.Columns),
		"indexes", len(tv.Indexes)+len(tv.Uniques))
	return tv, nil
}

func (f *Factory) column(row ColumnRow) core.ColumnView {
	cv := core.ColumnView{
		Name:     row.Name,
		Type:     row.DataType,
		Length:   ColumnLength(row.DataType, row.ColumnType),
		Nullable: row.IsNullable != "NO",
		Extra:    CleanExtra(row.Extra),
	}
	switch strings.ToLower(row.DataType) {
	case "enum", "set":
		cv.Type = row.ColumnType
		cv.Length = ""
	}

	cv.DefaultValue = row.Default.String
	if cv.Nullable && !row.Default.Valid {
		cv.DefaultValue = core.DefaultNull
	}

	if f.opts.CheckCollation {
		cv.Collate = row.Collation.String
	}
	return cv
}

// indexes groups the per-column rows by index, in SEQ_IN_INDEX order.
func (f *Factory) indexes(tv *core.TableView, rows []IndexRow) {
	byName := make(map[string][]IndexRow)
	var order []string
	for _, r := range rows {
		if _, ok := byName[r.Name]; !ok {
			order = append(order, r.Name)
		}
		byName[r.Name] = append(byName[r.Name], r)
	}

	for _, name := range order {
		parts := byName[name]
		sort.SliceStable(parts, func(i, j int) bool { return parts[i].Seq < parts[j].Seq })

		if strings.EqualFold(parts[0].IndexType, "FULLTEXT") {
			f.logger.Debug("fulltext index skipped", "table", tv.Name, "index", name)
			continue
		}

		columns := make([]string, 0, len(parts))
		for _, p := range parts {
			if !p.Column.Valid {
				break
			}
			columns = append(columns, p.Column.String)
		}
		if len(columns) != len(parts) {
			f.logger.Debug("functional index skipped", "table", tv.Name, "index", name)
			continue
		}

		switch {
		case name == core.PrimaryKeyName:
			tv.Primary = columns
		case parts[0].NonUnique == 0:
			tv.Uniques = append(tv.Uniques, core.IndexView{Name: name, Columns: columns})
		default:
			tv.Indexes = append(tv.Indexes, core.IndexView{Name: name, Columns: columns})
		}
	}
}

// ColumnLength strips the base type and parentheses from a COLUMN_TYPE,
// e.g. "11 unsigned" for "int(11) unsigned".
func ColumnLength(dataType, columnType string) string {
	length := strings.Replace(strings.ToLower(columnType), strings.ToLower(dataType), "", 1)
	length = strings.NewReplacer("(", "", ")", "").Replace(length)
	return strings.TrimSpace(length)
}

// CleanExtra drops the DEFAULT_GENERATED marker MySQL 8 adds to EXTRA.
func CleanExtra(extra string) string {
	fields := strings.Fields(extra)
	kept := fields[:0]
	for _, f := range fields {
		if !strings.EqualFold(f, "DEFAULT_GENERATED") {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}
