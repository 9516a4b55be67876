// Package yaml reads and writes schema documents in YAML.
package yaml

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"dbchecker/internal/core"
	"dbchecker/internal/parser/document"
)

const format = "yaml"

// Parser reads YAML schema documents.
type Parser struct{}

// NewParser creates a new YAML schema parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads the document at path. name is used when the document does
// not name its database.
func (p *Parser) ParseFile(path, name string) (*core.Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("yaml: open file %q: %w", path, err)
	}
	return document.Decoder{Format: format, Source: path, Name: name}.Decode(data, yaml.Unmarshal)
}

// Parse reads a document from r.
func (p *Parser) Parse(r io.Reader, name string) (*core.Database, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("yaml: read: %w", err)
	}
	return document.Decoder{Format: format, Name: name}.Decode(data, yaml.Unmarshal)
}

// Write encodes the structured view of db as YAML with two-space indentation.
func Write(w io.Writer, db *core.Database) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(db.View()); err != nil {
		return fmt.Errorf("yaml: encode: %w", err)
	}
	return enc.Close()
}
