package mysql

import (
	"context"
	"log/slog"

	"dbchecker/internal/core"
	"dbchecker/internal/introspect"
)

// Introspect connects to dsn and reads the schema it names.
func Introspect(ctx context.Context, dsn string, opts introspect.Options) (*core.Database, error) {
	repo, schema, err := Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	defer func() { _ = repo.Close() }()

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if flavor, version, err := repo.Server(ctx); err == nil {
		logger.Debug("connected", "flavor", flavor, "version", version, "schema", schema)
	}

	return introspect.NewFactory(repo, schema, opts).Generate(ctx)
}
