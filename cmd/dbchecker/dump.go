package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dbchecker/internal/introspect"
	live "dbchecker/internal/introspect/mysql"
	"dbchecker/internal/parser"
)

func dumpCmd() *cobra.Command {
	var (
		dsn            string
		format         string
		outFile        string
		checkCollation bool
		verbose        bool
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the schema of a live server as a schema document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd, "info", verbose)
			if err != nil {
				return err
			}
			db, err := live.Introspect(cmd.Context(), dsn, introspect.Options{
				CheckCollation: checkCollation,
				Logger:         logger,
			})
			if err != nil {
				return fmt.Errorf("failed to read schema: %w", err)
			}

			w, closeOut, err := openOutput(cmd, outFile)
			if err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			err = parser.Write(w, db, format)
			if closeErr := closeOut(); err == nil {
				err = closeErr
			}
			if err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "Server to read (user:pass@tcp(host:3306)/schema)")
	cmd.Flags().StringVarP(&format, "format", "f", "toml", "Document format: toml, json, or yaml")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Output file for the document")
	cmd.Flags().BoolVar(&checkCollation, "check-collation", true, "Include column collations")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log introspection progress")
	_ = cmd.MarkFlagRequired("dsn")

	return cmd
}
