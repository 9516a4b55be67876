// Package json reads and writes schema documents in JSON.
package json

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"dbchecker/internal/core"
	"dbchecker/internal/parser/document"
)

const format = "json"

// Parser reads JSON schema documents.
type Parser struct{}

// NewParser creates a new JSON schema parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads the document at path. name is used when the document does
// not name its database.
func (p *Parser) ParseFile(path, name string) (*core.Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("json: open file %q: %w", path, err)
	}
	return document.Decoder{Format: format, Source: path, Name: name}.Decode(data, json.Unmarshal)
}

// Parse reads a document from r.
func (p *Parser) Parse(r io.Reader, name string) (*core.Database, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("json: read: %w", err)
	}
	return document.Decoder{Format: format, Name: name}.Decode(data, json.Unmarshal)
}

// Write encodes the structured view of db as indented JSON.
func Write(w io.Writer, db *core.Database) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(db.View()); err != nil {
		return fmt.Errorf("json: encode: %w", err)
	}
	return nil
}
