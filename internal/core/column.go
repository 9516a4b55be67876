package core

import (
	"fmt"
	"strings"
)

// DefaultNull is the default value that renders as DEFAULT NULL. An empty
// default means the column has no DEFAULT clause at all.
const DefaultNull = "NULL"

// sizedTypes render their length as TYPE(length).
var sizedTypes = map[string]bool{
	"int":       true,
	"mediumint": true,
	"tinyint":   true,
	"smallint":  true,
	"bigint":    true,
	"binary":    true,
	"varbinary": true,
	"varchar":   true,
	"char":      true,
	"float":     true,
	"double":    true,
	"decimal":   true,
	"bit":       true,
	"datetime":  true,
	"timestamp": true,
	"time":      true,
}

// IsSizedType reports whether typ renders its length as TYPE(length).
func IsSizedType(typ string) bool {
	return sizedTypes[strings.ToLower(strings.TrimSpace(typ))]
}

// collatableTypes are the only types whose collation is rendered and compared.
var collatableTypes = map[string]bool{
	"char":       true,
	"varchar":    true,
	"enum":       true,
	"tinytext":   true,
	"text":       true,
	"mediumtext": true,
	"longtext":   true,
	"float":      true,
	"decimal":    true,
}

// Column is a single table column.
type Column struct {
	name         string
	typ          string
	length       string
	nullable     bool
	defaultValue string
	extra        string
	collation    string
	table        string
}

// NewColumn creates a column. The type is stored lower-cased and the extra
// modifier upper-cased. length may carry modifier tokens such as "11 unsigned".
func NewColumn(name, typ, length string, nullable bool, defaultValue, extra string) (*Column, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, schemaError(EntityColumn, "", ErrEmptyName)
	}
	return &Column{
		name:         name,
		typ:          normalizeType(typ),
		length:       strings.TrimSpace(length),
		nullable:     nullable,
		defaultValue: defaultValue,
		extra:        strings.ToUpper(strings.TrimSpace(extra)),
	}, nil
}

func (c *Column) Name() string         { return c.name }
func (c *Column) Type() string         { return c.typ }
func (c *Column) Length() string       { return c.length }
func (c *Column) Nullable() bool       { return c.nullable }
func (c *Column) Default() string      { return c.defaultValue }
func (c *Column) Extra() string        { return c.extra }
func (c *Column) Table() string        { return c.table }
func (c *Column) SetTable(name string) { c.table = name }

// SetCollation sets the column collation. It is kept even for types that do
// not support one, but Collation reports it only for eligible types.
func (c *Column) SetCollation(collation string) {
	c.collation = strings.TrimSpace(collation)
}

// Collation returns the effective collation: empty for types that cannot carry one.
func (c *Column) Collation() string {
	if !collatableTypes[c.BaseType()] {
		return ""
	}
	return c.collation
}

// normalizeType lower-cases the type name but keeps enum and set values as given.
func normalizeType(typ string) string {
	typ = strings.TrimSpace(typ)
	if idx := strings.Index(typ, "("); idx >= 0 {
		return strings.ToLower(typ[:idx]) + typ[idx:]
	}
	return strings.ToLower(typ)
}

// BaseType returns the lower-cased type name without any parenthesised part,
// e.g. "enum" for "enum('a','b')".
func (c *Column) BaseType() string {
	base := c.typ
	if idx := strings.Index(base, "("); idx >= 0 {
		base = base[:idx]
	}
	return strings.TrimSpace(base)
}

// Size returns the length without modifier tokens.
func (c *Column) Size() string {
	size, _ := c.splitLength()
	return size
}

// Unsigned reports whether the length carries the unsigned modifier.
func (c *Column) Unsigned() bool {
	_, mods := c.splitLength()
	for _, m := range mods {
		if m == "UNSIGNED" {
			return true
		}
	}
	return false
}

func (c *Column) splitLength() (string, []string) {
	var size, mods []string
	for _, f := range strings.Fields(c.length) {
		switch strings.ToUpper(f) {
		case "UNSIGNED", "ZEROFILL":
			mods = append(mods, strings.ToUpper(f))
		default:
			size = append(size, f)
		}
	}
	return strings.Join(size, " "), mods
}

// ColumnType renders the SQL type, e.g. INT(11) UNSIGNED or TEXT.
func (c *Column) ColumnType() string {
	size, mods := c.splitLength()

	var sb strings.Builder
	base := c.BaseType()
	switch {
	case sizedTypes[base] && size != "":
		sb.WriteString(strings.ToUpper(base))
		sb.WriteString("(" + size + ")")
	case strings.Contains(c.typ, "("):
		// enum/set values keep their case
		idx := strings.Index(c.typ, "(")
		sb.WriteString(strings.ToUpper(c.typ[:idx]))
		sb.WriteString(c.typ[idx:])
	default:
		sb.WriteString(strings.ToUpper(c.typ))
	}
	for _, m := range mods {
		sb.WriteString(" " + m)
	}
	return sb.String()
}

func (c *Column) defaultClause() string {
	switch {
	case c.defaultValue == "":
		return ""
	case strings.EqualFold(c.defaultValue, DefaultNull):
		return "DEFAULT NULL"
	default:
		return "DEFAULT " + QuoteString(c.defaultValue)
	}
}

func (c *Column) clauses() []string {
	parts := []string{QuoteIdentifier(c.name), c.ColumnType()}
	if c.nullable {
		parts = append(parts, "NULL")
	} else {
		parts = append(parts, "NOT NULL")
	}
	if d := c.defaultClause(); d != "" {
		parts = append(parts, d)
	}
	if c.extra != "" {
		parts = append(parts, c.extra)
	}
	return parts
}

// Definition renders the column clause used in CREATE TABLE and ALTER TABLE.
func (c *Column) Definition(withCollation bool) string {
	def := strings.Join(c.clauses(), " ")
	if collate := c.Collation(); withCollation && collate != "" {
		def += " COLLATE " + QuoteString(collate)
	}
	return def
}

// terminate closes a column statement. Statements not ending with a COLLATE
// clause keep a space before the semicolon.
func (c *Column) terminate(stmt string) string {
	if c.Collation() != "" {
		return stmt + ";"
	}
	return stmt + " ;"
}

func (c *Column) requireTable() error {
	if c.table == "" {
		return schemaError(EntityColumn, c.name, ErrMissingTable)
	}
	return nil
}

// CreateStatement returns the ALTER TABLE ... ADD COLUMN statement.
func (c *Column) CreateStatement() ([]string, error) {
	if err := c.requireTable(); err != nil {
		return nil, err
	}
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", QuoteIdentifier(c.table), c.Definition(true))
	return []string{c.terminate(stmt)}, nil
}

// AlterStatement returns a CHANGE COLUMN statement keeping the column name.
func (c *Column) AlterStatement() ([]string, error) {
	if err := c.requireTable(); err != nil {
		return nil, err
	}
	stmt := fmt.Sprintf("ALTER TABLE %s CHANGE COLUMN %s %s",
		QuoteIdentifier(c.table), QuoteIdentifier(c.name), c.Definition(true))
	return []string{c.terminate(stmt)}, nil
}

// DeleteStatement returns the DROP COLUMN statement.
func (c *Column) DeleteStatement() ([]string, error) {
	if err := c.requireTable(); err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s;", QuoteIdentifier(c.table), QuoteIdentifier(c.name))}, nil
}

// OptimizeType turns a two-valued enum into tinyint(1).
func (c *Column) OptimizeType() {
	if c.BaseType() != "enum" {
		return
	}
	if len(EnumValues(c.typ)) == 2 {
		c.typ = "tinyint"
		c.length = "1"
	}
}

// View returns the structured snapshot of the column.
func (c *Column) View() ColumnView {
	return ColumnView{
		Name:         c.name,
		Type:         c.typ,
		Length:       c.length,
		Nullable:     c.nullable,
		DefaultValue: c.defaultValue,
		Extra:        c.extra,
		Collate:      c.Collation(),
	}
}

// Clone returns a copy of the column, including its table reference.
func (c *Column) Clone() *Column {
	cp := *c
	return &cp
}

// EnumValues extracts the quoted values of an enum or set type,
// e.g. ["a", "b"] for "enum('a','b')".
func EnumValues(typ string) []string {
	start := strings.Index(typ, "(")
	end := strings.LastIndex(typ, ")")
	if start < 0 || end <= start {
		return nil
	}

	var (
		values  []string
		current strings.Builder
		quoted  bool
	)
	body := typ[start+1 : end]
	for i := 0; i < len(body); i++ {
		ch := body[i]
		switch {
		case ch == '\'' && quoted && i+1 < len(body) && body[i+1] == '\'':
			current.WriteByte('\'')
			i++
		case ch == '\'':
			quoted = !quoted
		case ch == ',' && !quoted:
			values = append(values, current.String())
			current.Reset()
		default:
			if quoted {
				current.WriteByte(ch)
			}
		}
	}
	if current.Len() > 0 || len(values) > 0 {
		values = append(values, current.String())
	}
	return values
}

// BuildEnumType constructs an enum type string from a list of values,
// e.g. ["free","pro"] -> "enum('free','pro')".
func BuildEnumType(values []string) string {
	var sb strings.Builder
	sb.Grow(len(values) * 8)
	sb.WriteString("enum(")
	for i, v := range values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\'')
		sb.WriteString(strings.ReplaceAll(v, "'", "''"))
		sb.WriteByte('\'')
	}
	sb.WriteByte(')')
	return sb.String()
}
