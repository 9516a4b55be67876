package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"dbchecker/internal/config"
	"dbchecker/internal/core"
	"dbchecker/internal/diff"
	"dbchecker/internal/introspect"
	live "dbchecker/internal/introspect/mysql"
	"dbchecker/internal/migration"
	"dbchecker/internal/output"
	"dbchecker/internal/parser"
)

type diffFlags struct {
	configPath     string
	currentDSN     string
	checkCollation bool
	checkEngine    bool
	dropStatement  bool
	missingTable   string
	format         string
	outFile        string
	verbose        bool
}

func diffCmd() *cobra.Command {
	var flags diffFlags

	cmd := &cobra.Command{
		Use:   "diff <current> <desired>",
		Short: "Generate the DDL that turns the current schema into the desired one",
		Long: `Diff compares two schemas and prints the statements that bring the current
schema in line with the desired one. Schemas are read from .sql dumps or from
.json, .toml and .yaml documents. With --current-dsn the current schema is read
from a live server and only <desired> is given.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if flags.currentDSN != "" {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &flags)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd, cfg.LogLevel, flags.verbose)
			if err != nil {
				return err
			}
			opts, err := cfg.DiffOptions(logger)
			if err != nil {
				return err
			}
			return runDiff(cmd, &flags, cfg, opts, args)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Path to a dbchecker.toml settings file")
	cmd.Flags().StringVar(&flags.currentDSN, "current-dsn", "", "Read the current schema from a live server (user:pass@tcp(host:3306)/schema)")
	cmd.Flags().BoolVar(&flags.checkCollation, "check-collation", false, "Compare database, table and column collations")
	cmd.Flags().BoolVar(&flags.checkEngine, "check-engine", false, "Compare table storage engines")
	cmd.Flags().BoolVar(&flags.dropStatement, "drop", false, "Drop columns and indexes missing from the desired schema")
	cmd.Flags().StringVar(&flags.missingTable, "missing-table", "", "Tables missing from the desired schema: create, drop, or skip")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Output format: sql, json, or summary")
	cmd.Flags().StringVarP(&flags.outFile, "output", "o", "", "Output file for the migration")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log every comparison decision")

	return cmd
}

// loadConfig reads the settings file, then applies the flags that were set.
func loadConfig(cmd *cobra.Command, flags *diffFlags) (*config.Config, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.LoadFromFile(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	fs := cmd.Flags()
	if fs.Changed("check-collation") {
		cfg.CheckCollation = flags.checkCollation
	}
	if fs.Changed("check-engine") {
		cfg.CheckEngine = flags.checkEngine
	}
	if fs.Changed("drop") {
		cfg.DropStatement = flags.dropStatement
	}
	if fs.Changed("missing-table") {
		cfg.MissingTable = flags.missingTable
	}
	if fs.Changed("format") {
		cfg.Format = flags.format
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runDiff(cmd *cobra.Command, flags *diffFlags, cfg *config.Config, opts diff.Options, args []string) error {
	current, err := loadCurrent(cmd.Context(), flags, args[0], cfg, opts.Logger)
	if err != nil {
		return fmt.Errorf("failed to read current schema: %w", err)
	}
	desired, err := parser.ParseFile(args[len(args)-1])
	if err != nil {
		return fmt.Errorf("failed to read desired schema: %w", err)
	}

	result, err := diff.Compare(current, desired, opts)
	if err != nil {
		return fmt.Errorf("failed to compare schemas: %w", err)
	}
	m := migration.Build(result, opts)

	w, closeOut, err := openOutput(cmd, flags.outFile)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	err = output.WriteMigration(w, m, cfg.Format)
	if closeErr := closeOut(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if flags.outFile != "" {
		cmd.PrintErrf("Output saved to %s\n", flags.outFile)
	}
	return nil
}

func loadCurrent(ctx context.Context, flags *diffFlags, path string, cfg *config.Config, logger *slog.Logger) (*core.Database, error) {
	if flags.currentDSN == "" {
		return parser.ParseFile(path)
	}
	return live.Introspect(ctx, flags.currentDSN, introspect.Options{
		CheckCollation: cfg.CheckCollation,
		Logger:         logger,
	})
}
