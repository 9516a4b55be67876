package core

import (
	"crypto/md5"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestNewIndexPreconditions(t *testing.T) {
	_, err := NewIndex("", []string{"id"}, false)
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = NewIndex("IDX_x", nil, false)
	assert.ErrorIs(t, err, ErrNoIndexColumns)
}

func TestIndexName(t *testing.T) {
	assert.Equal(t, "IDX_"+md5Hex("id"), IndexName([]string{"id"}, false))
	assert.Equal(t, "UNI_"+md5Hex("id"), IndexName([]string{"id"}, true))

	t.Run("order insensitive", func(t *testing.T) {
		assert.Equal(t, IndexName([]string{"b", "a"}, false), IndexName([]string{"a", "b"}, false))
		assert.Equal(t, "IDX_"+md5Hex("a,b"), IndexName([]string{"b", "a"}, false))
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t, IndexName([]string{"Email"}, true), IndexName([]string{"email"}, true))
	})
}

func TestIndexStatements(t *testing.T) {
	tests := []struct {
		name    string
		index   string
		columns []string
		unique  bool
		create  string
		remove  string
	}{
		{
			name:    "primary key",
			index:   "PRIMARY",
			columns: []string{"id"},
			unique:  true,
			create:  "ALTER TABLE `activite` ADD PRIMARY KEY (`id`);",
			remove:  "ALTER TABLE `activite` DROP PRIMARY KEY;",
		},
		{
			name:    "primary key name is case insensitive",
			index:   "primary",
			columns: []string{"id", "idann"},
			create:  "ALTER TABLE `activite` ADD PRIMARY KEY (`id`, `idann`);",
			remove:  "ALTER TABLE `activite` DROP PRIMARY KEY;",
		},
		{
			name:    "secondary index",
			index:   "idx_valeur",
			columns: []string{"valeur", "valeur2"},
			create:  "ALTER TABLE `activite` ADD INDEX `idx_valeur` (`valeur`, `valeur2`);",
			remove:  "ALTER TABLE `activite` DROP INDEX `idx_valeur`;",
		},
		{
			name:    "unique index",
			index:   "uni_nom",
			columns: []string{"nom"},
			unique:  true,
			create:  "ALTER TABLE `activite` ADD UNIQUE INDEX `uni_nom` (`nom`);",
			remove:  "ALTER TABLE `activite` DROP INDEX `uni_nom`;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := NewIndex(tt.index, tt.columns, tt.unique)
			require.NoError(t, err)
			idx.SetTable("activite")

			create, err := idx.CreateStatement()
			require.NoError(t, err)
			assert.Equal(t, []string{tt.create}, create)

			remove, err := idx.DeleteStatement()
			require.NoError(t, err)
			assert.Equal(t, []string{tt.remove}, remove)

			alter, err := idx.AlterStatement()
			require.NoError(t, err)
			assert.Equal(t, []string{tt.remove, tt.create}, alter)
		})
	}
}

func TestIndexRequiresTable(t *testing.T) {
	idx, err := NewIndex("idx", []string{"id"}, false)
	require.NoError(t, err)

	_, err = idx.CreateStatement()
	assert.ErrorIs(t, err, ErrMissingTable)
	_, err = idx.DeleteStatement()
	assert.ErrorIs(t, err, ErrMissingTable)
	_, err = idx.AlterStatement()
	assert.ErrorIs(t, err, ErrMissingTable)
}

func TestIndexPrimaryIsUnique(t *testing.T) {
	idx, err := NewIndex("Primary", []string{"id"}, false)
	require.NoError(t, err)
	assert.True(t, idx.IsPrimary())
	assert.True(t, idx.Unique())
}

func TestIndexColumnsAreCopied(t *testing.T) {
	cols := []string{"a", "b"}
	idx, err := NewIndex("idx", cols, false)
	require.NoError(t, err)

	cols[0] = "z"
	assert.Equal(t, []string{"a", "b"}, idx.Columns())

	got := idx.Columns()
	got[1] = "z"
	assert.Equal(t, []string{"a", "b"}, idx.Columns())
}
