package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T, name string) *Table {
	t.Helper()
	table, err := NewTable(name)
	require.NoError(t, err)
	return table
}

func TestNewTableEmptyName(t *testing.T) {
	_, err := NewTable("")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestTableAddColumn(t *testing.T) {
	table := newTestTable(t, "activite")
	id := newTestColumn(t, "id", "int", "11", false, "", "")
	nom := newTestColumn(t, "nom", "varchar", "45", false, "", "")
	table.AddColumn(id)
	table.AddColumn(nom)

	assert.Equal(t, "activite", id.Table())

	t.Run("last write wins and keeps position", func(t *testing.T) {
		replacement := newTestColumn(t, "ID", "bigint", "20", false, "", "")
		table.AddColumn(replacement)

		cols, err := table.Columns()
		require.NoError(t, err)
		require.Len(t, cols, 2)
		assert.Same(t, replacement, cols[0])
		assert.Equal(t, "bigint", cols[0].Type())
	})

	t.Run("find is case insensitive", func(t *testing.T) {
		c, ok := table.FindColumn("NOM")
		require.True(t, ok)
		assert.Same(t, nom, c)

		_, ok = table.FindColumn("missing")
		assert.False(t, ok)
	})

	t.Run("remove", func(t *testing.T) {
		table.RemoveColumn("Nom")
		_, ok := table.FindColumn("nom")
		assert.False(t, ok)
	})
}

func TestTableWithoutColumns(t *testing.T) {
	table := newTestTable(t, "activite23")

	_, err := table.Columns()
	assert.ErrorIs(t, err, ErrNoColumns)

	_, err = table.CreateStatement()
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestTableIndexes(t *testing.T) {
	table := newTestTable(t, "activite")
	require.NoError(t, table.AddPrimary([]string{"id"}))
	require.NoError(t, table.AddIndex([]string{"valeur"}, ""))
	require.NoError(t, table.AddUnique([]string{"nom"}, "uni_nom"))

	idx, ok := table.FindIndex("primary")
	require.True(t, ok)
	assert.True(t, idx.IsPrimary())
	assert.Equal(t, "activite", idx.Table())

	_, ok = table.FindIndex(IndexName([]string{"valeur"}, false))
	assert.True(t, ok)

	t.Run("re-adding replaces", func(t *testing.T) {
		require.NoError(t, table.AddPrimary([]string{"id", "idann"}))
		pk, ok := table.FindIndex("PRIMARY")
		require.True(t, ok)
		assert.Equal(t, []string{"id", "idann"}, pk.Columns())
		assert.Len(t, table.Indexes(), 3)
	})

	t.Run("empty column list is rejected", func(t *testing.T) {
		err := table.AddIndex(nil, "idx_empty")
		assert.ErrorIs(t, err, ErrNoIndexColumns)
	})

	t.Run("remove", func(t *testing.T) {
		table.RemoveIndex("UNI_NOM")
		_, ok := table.FindIndex("uni_nom")
		assert.False(t, ok)
	})
}

func TestTableCreateStatement(t *testing.T) {
	t.Run("primary keyed auto increment column", func(t *testing.T) {
		table := newTestTable(t, "activites")
		table.AddColumn(newTestColumn(t, "id", "int", "255", false, "", "auto_increment"))
		require.NoError(t, table.AddPrimary([]string{"id"}))

		stmts, err := table.CreateStatement()
		require.NoError(t, err)
		assert.Equal(t, []string{
			"CREATE TABLE IF NOT EXISTS `activites`(`id` INT(255) NOT NULL AUTO_INCREMENT,PRIMARY KEY (`id`));",
		}, stmts)
	})

	t.Run("table collation keeps column collation", func(t *testing.T) {
		table := newTestTable(t, "activites")
		table.SetCollation("latin1_swedish_ci")
		id := newTestColumn(t, "id", "char", "255", false, "", "auto_increment")
		id.SetCollation("utf8_general_ci")
		table.AddColumn(id)
		require.NoError(t, table.AddPrimary([]string{"id"}))

		stmts, err := table.CreateStatement()
		require.NoError(t, err)
		assert.Equal(t, []string{
			"CREATE TABLE IF NOT EXISTS `activites`(`id` CHAR(255) NOT NULL AUTO_INCREMENT COLLATE 'utf8_general_ci',PRIMARY KEY (`id`))COLLATE='latin1_swedish_ci';",
		}, stmts)
	})

	t.Run("no table collation drops column collation", func(t *testing.T) {
		table := newTestTable(t, "activites")
		id := newTestColumn(t, "id", "char", "255", false, "", "")
		id.SetCollation("utf8_general_ci")
		table.AddColumn(id)

		stmts, err := table.CreateStatement()
		require.NoError(t, err)
		assert.Equal(t, []string{"CREATE TABLE IF NOT EXISTS `activites`(`id` CHAR(255) NOT NULL);"}, stmts)
		assert.Equal(t, "utf8_general_ci", id.Collation())
	})

	t.Run("engine and indexes", func(t *testing.T) {
		table := newTestTable(t, "activites")
		table.SetEngine("InnoDB")
		table.SetCollation("utf8mb4_general_ci")
		table.AddColumn(newTestColumn(t, "id", "int", "11", false, "", "auto_increment"))
		table.AddColumn(newTestColumn(t, "nom", "varchar", "45", true, "NULL", ""))
		require.NoError(t, table.AddPrimary([]string{"id"}))
		require.NoError(t, table.AddUnique([]string{"nom"}, "uni_nom"))
		require.NoError(t, table.AddIndex([]string{"nom", "id"}, "idx_nom_id"))

		stmts, err := table.CreateStatement()
		require.NoError(t, err)
		assert.Equal(t, []string{
			"CREATE TABLE IF NOT EXISTS `activites`(" +
				"`id` INT(11) NOT NULL AUTO_INCREMENT," +
				"`nom` VARCHAR(45) NULL DEFAULT NULL," +
				"PRIMARY KEY (`id`)," +
				"UNIQUE INDEX `uni_nom` (`nom`)," +
				"INDEX `idx_nom_id` (`nom`, `id`)" +
				")ENGINE=InnoDB COLLATE='utf8mb4_general_ci';",
		}, stmts)
	})
}

func TestTableAlterStatement(t *testing.T) {
	t.Run("collation requires a database", func(t *testing.T) {
		table := newTestTable(t, "activites")
		table.SetCollation("latin1_swedish_ci")

		stmts, err := table.AlterStatement()
		require.NoError(t, err)
		assert.Empty(t, stmts)

		table.SetDatabase("actual")
		stmts, err = table.AlterStatement()
		require.NoError(t, err)
		assert.Equal(t, []string{
			"ALTER TABLE `activites` CONVERT TO CHARACTER SET latin1 COLLATE latin1_swedish_ci;",
		}, stmts)
	})

	t.Run("engine", func(t *testing.T) {
		table := newTestTable(t, "activite")
		table.SetEngine("MEMORY")

		stmts, err := table.AlterStatement()
		require.NoError(t, err)
		assert.Equal(t, []string{"ALTER TABLE `activite` ENGINE=MEMORY;"}, stmts)
	})

	t.Run("both", func(t *testing.T) {
		table := newTestTable(t, "activite")
		table.SetDatabase("actual")
		table.SetCollation("utf8mb4_unicode_ci")
		table.SetEngine("InnoDB")

		stmts, err := table.AlterStatement()
		require.NoError(t, err)
		assert.Equal(t, []string{
			"ALTER TABLE `activite` CONVERT TO CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci;",
			"ALTER TABLE `activite` ENGINE=InnoDB;",
		}, stmts)
	})
}

func TestTableDeleteStatement(t *testing.T) {
	table := newTestTable(t, "activite")
	stmts, err := table.DeleteStatement()
	require.NoError(t, err)
	assert.Equal(t, []string{"DROP TABLE IF EXISTS `activite`;"}, stmts)
}

func TestTableView(t *testing.T) {
	table := newTestTable(t, "activite")
	table.SetEngine("InnoDB")
	table.AddColumn(newTestColumn(t, "id", "int", "11", false, "", "auto_increment"))
	table.AddColumn(newTestColumn(t, "nom", "varchar", "45", false, "", ""))
	require.NoError(t, table.AddPrimary([]string{"id"}))
	require.NoError(t, table.AddUnique([]string{"nom"}, "uni_nom"))
	require.NoError(t, table.AddIndex([]string{"nom", "id"}, "idx_nom_id"))

	assert.Equal(t, TableView{
		Name:   "activite",
		Engine: "InnoDB",
		Columns: []ColumnView{
			{Name: "id", Type: "int", Length: "11", Extra: "AUTO_INCREMENT"},
			{Name: "nom", Type: "varchar", Length: "45"},
		},
		Primary: []string{"id"},
		Uniques: []IndexView{{Name: "uni_nom", Columns: []string{"nom"}}},
		Indexes: []IndexView{{Name: "idx_nom_id", Columns: []string{"nom", "id"}}},
	}, table.View())
}

func TestTableCloneIsDeep(t *testing.T) {
	table := newTestTable(t, "activite")
	table.SetEngine("InnoDB")
	table.AddColumn(newTestColumn(t, "nom", "varchar", "45", false, "", ""))
	require.NoError(t, table.AddPrimary([]string{"nom"}))

	cp := table.Clone()
	cp.SetEngine("")
	cols, err := cp.Columns()
	require.NoError(t, err)
	cols[0].SetCollation("utf8_bin")
	cp.RemoveIndex("PRIMARY")

	assert.Equal(t, "InnoDB", table.Engine())
	orig, _ := table.FindColumn("nom")
	assert.Empty(t, orig.Collation())
	assert.Len(t, table.Indexes(), 1)
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Dedupe([]string{"a", "", "b", "a"}))
	assert.Empty(t, Dedupe(nil))
}
