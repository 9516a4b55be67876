// Package toml reads and writes schema documents in TOML.
//
// A document has the database keys at the top level and one [[tables]]
// entry per table:
//
//	name = "shop"
//	collate = "utf8mb4_general_ci"
//
//	[[tables]]
//	name = "users"
//	primary = ["id"]
//
//	[[tables.columns]]
//	name = "id"
//	type = "int"
//	length = "11"
//	extra = "auto_increment"
package toml

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"dbchecker/internal/core"
	"dbchecker/internal/parser/document"
)

const format = "toml"

// Parser reads TOML schema documents.
type Parser struct{}

// NewParser creates a new TOML schema parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile opens the file at the given path and parses it as a TOML schema.
func (p *Parser) ParseFile(path, name string) (*core.Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("toml: open file %q: %w", path, err)
	}
	return document.Decoder{Format: format, Source: path, Name: name}.Decode(data, unmarshal)
}

// Parse reads TOML content from r.
func (p *Parser) Parse(r io.Reader, name string) (*core.Database, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("toml: read: %w", err)
	}
	return document.Decoder{Format: format, Name: name}.Decode(data, unmarshal)
}

func unmarshal(data []byte, v any) error {
	_, err := toml.NewDecoder(bytes.NewReader(data)).Decode(v)
	return err
}

// Write encodes the structured view of db as TOML.
func Write(w io.Writer, db *core.Database) error {
	if err := toml.NewEncoder(w).Encode(db.View()); err != nil {
		return fmt.Errorf("toml: encode: %w", err)
	}
	return nil
}
