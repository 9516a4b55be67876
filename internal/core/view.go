package core

// The view types are the structured snapshot of each entity. Back-references
// to the owning table or database are not part of a view. The same types are
// the schema document read and written by the parser packages.

// ColumnView is the structured snapshot of a Column.
type ColumnView struct {
	Name         string `json:"name" toml:"name" yaml:"name"`
	Type         string `json:"type" toml:"type" yaml:"type"`
	Length       string `json:"length,omitempty" toml:"length,omitempty" yaml:"length,omitempty"`
	Nullable     bool   `json:"nullable" toml:"nullable" yaml:"nullable"`
	DefaultValue string `json:"defaultValue,omitempty" toml:"default_value,omitempty" yaml:"defaultValue,omitempty"`
	Extra        string `json:"extra,omitempty" toml:"extra,omitempty" yaml:"extra,omitempty"`
	Collate      string `json:"collate,omitempty" toml:"collate,omitempty" yaml:"collate,omitempty"`
}

// IndexView is the structured snapshot of a secondary or unique Index.
type IndexView struct {
	Name    string   `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Columns []string `json:"columns" toml:"columns" yaml:"columns"`
}

// TableView is the structured snapshot of a Table.
type TableView struct {
	Name    string       `json:"name" toml:"name" yaml:"name"`
	Collate string       `json:"collate,omitempty" toml:"collate,omitempty" yaml:"collate,omitempty"`
	Engine  string       `json:"engine,omitempty" toml:"engine,omitempty" yaml:"engine,omitempty"`
	Columns []ColumnView `json:"columns" toml:"columns" yaml:"columns"`
	Primary []string     `json:"primary,omitempty" toml:"primary,omitempty" yaml:"primary,omitempty"`
	Indexes []IndexView  `json:"indexes,omitempty" toml:"indexes,omitempty" yaml:"indexes,omitempty"`
	Uniques []IndexView  `json:"uniques,omitempty" toml:"uniques,omitempty" yaml:"uniques,omitempty"`
}

// DatabaseView is the structured snapshot of a Database.
type DatabaseView struct {
	Name    string      `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Collate string      `json:"collate,omitempty" toml:"collate,omitempty" yaml:"collate,omitempty"`
	Tables  []TableView `json:"tables" toml:"tables" yaml:"tables"`
}
