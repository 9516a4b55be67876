// Package mysql reads information_schema from a live MySQL, MariaDB or TiDB
// server and hands the rows to introspect.Factory.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"dbchecker/internal/introspect"
)

const (
	schemaCollationQuery = `
		SELECT default_collation_name
		FROM information_schema.schemata
		WHERE schema_name = ?`

	tablesQuery = `
		SELECT
			table_name AS table_name,
			engine AS engine,
			table_collation AS table_collation
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name`

	columnsQuery = `
		SELECT
			column_name AS column_name,
			data_type AS data_type,
			column_type AS column_type,
			is_nullable AS is_nullable,
			column_default AS column_default,
			extra AS extra,
			collation_name AS collation_name
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position`

	indexesQuery = `
		SELECT
			index_name AS index_name,
			column_name AS column_name,
			seq_in_index AS seq_in_index,
			non_unique AS non_unique,
			index_type AS index_type
		FROM information_schema.statistics
		WHERE table_schema = ? AND table_name = ?
		ORDER BY index_name, seq_in_index`
)

// Repository runs the information_schema queries over a sqlx connection pool.
type Repository struct {
	db *sqlx.DB
}

var _ introspect.Repository = (*Repository)(nil)

// NewRepository wraps an open pool.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Connect opens the server behind dsn and pings it. It also returns the
// schema named by the DSN.
func Connect(ctx context.Context, dsn string) (*Repository, string, error) {
	cfg, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return nil, "", fmt.Errorf("invalid DSN: %w", err)
	}
	if cfg.DBName == "" {
		return nil, "", introspect.ErrNoSchema
	}

	db, err := sqlx.ConnectContext(ctx, "mysql", cfg.FormatDSN())
	if err != nil {
		return nil, "", fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewRepository(db), cfg.DBName, nil
}

// Close releases the pool. It is safe to call more than once.
func (r *Repository) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// SchemaCollation returns the default collation of schema.
func (r *Repository) SchemaCollation(ctx context.Context, schema string) (string, error) {
	var collation string
	err := r.db.GetContext(ctx, &collation, schemaCollationQuery, schema)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("schema %q does not exist", schema)
	}
	return collation, err
}

// Tables lists the base tables of schema by name.
func (r *Repository) Tables(ctx context.Context, schema string) ([]introspect.TableRow, error) {
	var rows []introspect.TableRow
	err := r.db.SelectContext(ctx, &rows, tablesQuery, schema)
	return rows, err
}

// Columns returns the columns of table in ordinal order.
func (r *Repository) Columns(ctx context.Context, schema, table string) ([]introspect.ColumnRow, error) {
	var rows []introspect.ColumnRow
	err := r.db.SelectContext(ctx, &rows, columnsQuery, schema, table)
	return rows, err
}

// Indexes returns one row per indexed column of table.
func (r *Repository) Indexes(ctx context.Context, schema, table string) ([]introspect.IndexRow, error) {
	var rows []introspect.IndexRow
	err := r.db.SelectContext(ctx, &rows, indexesQuery, schema, table)
	return rows, err
}

// Flavor of the server, detected from version_comment.
type Flavor string

const (
	FlavorMySQL   Flavor = "mysql"
	FlavorMariaDB Flavor = "mariadb"
	FlavorTiDB    Flavor = "tidb"
)

// Server reports the server flavor and its version without build suffix.
func (r *Repository) Server(ctx context.Context) (Flavor, string, error) {
	var comment, version string
	if err := r.db.GetContext(ctx, &comment, "SELECT @@version_comment"); err != nil {
		return "", "", err
	}
	if err := r.db.GetContext(ctx, &version, "SELECT VERSION()"); err != nil {
		return "", "", err
	}
	if idx := strings.Index(version, "-"); idx > 0 {
		version = version[:idx]
	}

	comment = strings.ToLower(comment)
	switch {
	case strings.Contains(comment, "mariadb"):
		return FlavorMariaDB, version, nil
	case strings.Contains(comment, "tidb"):
		return FlavorTiDB, version, nil
	default:
		return FlavorMySQL, version, nil
	}
}
