// Package parser reads schema files in the supported formats (TOML, JSON,
// YAML and MySQL dumps) and converts them to the canonical core.Database
// representation. It also writes a database back as a schema document.
package parser

import (
	"io"
	"path/filepath"
	"strings"

	"dbchecker/internal/core"
	"dbchecker/internal/parser/json"
	"dbchecker/internal/parser/mysql"
	"dbchecker/internal/parser/toml"
	"dbchecker/internal/parser/yaml"
)

// Parser loads a schema from a reader or a file. name is the database name
// used when the input does not carry one.
type Parser interface {
	Parse(r io.Reader, name string) (*core.Database, error)
	ParseFile(path, name string) (*core.Database, error)
}

// ForPath picks the parser matching the file extension.
func ForPath(path string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.NewParser(), nil
	case ".json":
		return json.NewParser(), nil
	case ".yaml", ".yml":
		return yaml.NewParser(), nil
	case ".sql":
		return mysql.NewParser(), nil
	default:
		return nil, &UnsupportedFormatError{Path: path}
	}
}

// ParseFile loads the schema at path. A document that does not name its
// database is named after the file, without extension.
func ParseFile(path string) (*core.Database, error) {
	p, err := ForPath(path)
	if err != nil {
		return nil, err
	}
	base := filepath.Base(path)
	return p.ParseFile(path, strings.TrimSuffix(base, filepath.Ext(base)))
}

// Write encodes db as a schema document in the given format: toml, json
// or yaml.
func Write(w io.Writer, db *core.Database, format string) error {
	switch strings.ToLower(format) {
	case "toml":
		return toml.Write(w, db)
	case "json":
		return json.Write(w, db)
	case "yaml", "yml":
		return yaml.Write(w, db)
	default:
		return &UnsupportedFormatError{Format: format}
	}
}

// UnsupportedFormatError reports a file extension or output format with no
// matching parser.
type UnsupportedFormatError struct {
	Path   string
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Path == "" {
		return "unsupported schema format: " + e.Format
	}
	return "unsupported file format: " + e.Path
}
