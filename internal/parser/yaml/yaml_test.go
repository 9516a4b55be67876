package yaml

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbchecker/internal/parser/document"
)

const blogSchema = `
name: blog
collate: utf8mb4_unicode_ci
tables:
  - name: posts
    engine: InnoDB
    primary: [id]
    columns:
      - name: id
        type: bigint
        length: 20 unsigned
        extra: auto_increment
      - name: title
        type: varchar
        length: "191"
      - name: body
        type: text
        nullable: true
      - name: published
        type: tinyint
        length: "1"
        defaultValue: "0"
    uniques:
      - columns: [title]
`

func TestParse(t *testing.T) {
	db, err := NewParser().Parse(strings.NewReader(blogSchema), "")
	require.NoError(t, err)
	assert.Equal(t, "blog", db.Name())

	posts, ok := db.FindTable("posts")
	require.True(t, ok)

	cols, err := posts.Columns()
	require.NoError(t, err)
	require.Len(t, cols, 4)
	assert.Equal(t, "`id` BIGINT(20) UNSIGNED NOT NULL AUTO_INCREMENT", cols[0].Definition(false))
	assert.Equal(t, "`title` VARCHAR(191) NOT NULL", cols[1].Definition(true))
	assert.Equal(t, "utf8mb4_unicode_ci", posts.Collation())
	assert.Equal(t, "`body` TEXT NULL", cols[2].Definition(false))
	assert.Equal(t, "`published` TINYINT(1) NOT NULL DEFAULT '0'", cols[3].Definition(false))

	require.Len(t, posts.Indexes(), 2)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  error
	}{
		{name: "empty", input: "   ", kind: document.ErrNoData},
		{name: "unclosed flow sequence", input: "name: blog\ntables: [unclosed\n", kind: document.ErrInvalidSyntax},
		{name: "index without columns", input: "name: blog\ntables:\n  - name: posts\n    columns:\n      - {name: id, type: int}\n    indexes:\n      - name: idx\n", kind: document.ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().Parse(strings.NewReader(tt.input), "")
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.yml")
	require.NoError(t, os.WriteFile(path, []byte(blogSchema), 0o600))

	db, err := NewParser().ParseFile(path, "")
	require.NoError(t, err)
	assert.Len(t, db.Tables(), 1)

	_, err = NewParser().ParseFile(filepath.Join(t.TempDir(), "none.yml"), "")
	assert.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	db, err := NewParser().Parse(strings.NewReader(blogSchema), "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, db))
	assert.Contains(t, buf.String(), "defaultValue: \"0\"")

	again, err := NewParser().Parse(&buf, "")
	require.NoError(t, err)
	assert.Equal(t, db.View(), again.View())
}
