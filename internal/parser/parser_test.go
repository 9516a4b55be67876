package parser

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbchecker/internal/parser/document"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseFileDispatch(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{file: "shop.toml", content: "[[tables]]\nname = \"users\"\n[[tables.columns]]\nname = \"id\"\ntype = \"int\"\n"},
		{file: "shop.json", content: `{"tables": [{"name": "users", "columns": [{"name": "id", "type": "int"}]}]}`},
		{file: "shop.yaml", content: "tables:\n  - name: users\n    columns:\n      - {name: id, type: int}\n"},
		{file: "shop.YML", content: "tables:\n  - name: users\n    columns:\n      - {name: id, type: int}\n"},
		{file: "shop.sql", content: "CREATE TABLE users (id INT NOT NULL);"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			db, err := ParseFile(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, "shop", db.Name())

			users, ok := db.FindTable("users")
			require.True(t, ok)
			assert.Equal(t, "shop", users.Database())
		})
	}
}

func TestParseFileUnsupported(t *testing.T) {
	_, err := ParseFile("schema.xml")
	require.Error(t, err)

	var unsupported *UnsupportedFormatError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "schema.xml", unsupported.Path)
	assert.Equal(t, "unsupported file format: schema.xml", err.Error())
}

func TestParseFileFormatError(t *testing.T) {
	_, err := ParseFile(writeFile(t, "broken.json", "{"))
	assert.ErrorIs(t, err, document.ErrInvalidSyntax)
}

func TestWrite(t *testing.T) {
	db, err := ParseFile(writeFile(t, "shop.sql", "CREATE TABLE users (id INT(11) NOT NULL, PRIMARY KEY (id)) ENGINE=InnoDB;"))
	require.NoError(t, err)

	for _, format := range []string{"toml", "json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, db, format))

			again, err := ParseFile(writeFile(t, "copy."+format, buf.String()))
			require.NoError(t, err)
			assert.Equal(t, db.View(), again.View())
		})
	}

	err = Write(&bytes.Buffer{}, db, "xml")
	assert.EqualError(t, err, "unsupported schema format: xml")
}
