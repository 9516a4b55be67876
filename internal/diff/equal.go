package diff

import (
	"slices"
	"strings"

	"dbchecker/internal/core"
)

// integerFamily are the types whose declared display length is ignored.
var integerFamily = map[string]bool{
	"int":       true,
	"mediumint": true,
	"tinyint":   true,
	"smallint":  true,
}

type columnAttrMatch struct {
	Type      bool
	Length    bool
	Nullable  bool
	Default   bool
	Extra     bool
	Collation bool
}

func compareColumnAttrs(a, b *core.Column) columnAttrMatch {
	return columnAttrMatch{
		Type:      strings.EqualFold(a.Type(), b.Type()),
		Length:    equalLength(a, b),
		Nullable:  a.Nullable() == b.Nullable(),
		Default:   strings.EqualFold(a.Default(), b.Default()),
		Extra:     strings.EqualFold(a.Extra(), b.Extra()),
		Collation: strings.EqualFold(a.Collation(), b.Collation()),
	}
}

func (m columnAttrMatch) allMatch() bool {
	return m.Type && m.Length && m.Nullable && m.Default && m.Extra && m.Collation
}

func equalColumn(a, b *core.Column) bool {
	return compareColumnAttrs(a, b).allMatch()
}

// equalLength ignores the length when either side leaves it unset, and for the
// integer family compares only the unsigned modifier.
func equalLength(a, b *core.Column) bool {
	if a.Length() == "" || b.Length() == "" {
		return true
	}
	if integerFamily[a.BaseType()] && a.BaseType() == b.BaseType() {
		return a.Unsigned() == b.Unsigned()
	}
	return normalizeLength(a.Length()) == normalizeLength(b.Length())
}

func normalizeLength(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// equalIndex: deep equality, then case-insensitive snapshot equality, then
// same table with the same column set in any order.
func equalIndex(a, b *core.Index) bool {
	if a.Name() == b.Name() && a.Table() == b.Table() && a.Unique() == b.Unique() &&
		slices.Equal(a.Columns(), b.Columns()) {
		return true
	}
	if !strings.EqualFold(a.Table(), b.Table()) || a.Unique() != b.Unique() {
		return false
	}
	if strings.EqualFold(a.Name(), b.Name()) && equalStringSliceCI(a.Columns(), b.Columns()) {
		return true
	}
	return sameColumnSet(a.Columns(), b.Columns())
}

func equalTable(a, b *core.Table) bool {
	if !strings.EqualFold(a.Collation(), b.Collation()) || !strings.EqualFold(a.Engine(), b.Engine()) {
		return false
	}

	aCols, _ := a.Columns()
	bCols, _ := b.Columns()
	if len(aCols) != len(bCols) {
		return false
	}
	for _, c := range aCols {
		d, ok := b.FindColumn(c.Name())
		if !ok || !equalColumn(c, d) {
			return false
		}
	}

	if len(a.Indexes()) != len(b.Indexes()) {
		return false
	}
	for _, i := range a.Indexes() {
		j, ok := b.FindIndex(i.Name())
		if !ok || !equalIndex(i, j) {
			return false
		}
	}
	return true
}

func equalStringSliceCI(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

// sameColumnSet reports whether each list contains the other, ignoring order and case.
func sameColumnSet(a, b []string) bool {
	return containsAll(a, b) && containsAll(b, a)
}

func containsAll(set, items []string) bool {
	for _, item := range items {
		if !slices.ContainsFunc(set, func(s string) bool { return strings.EqualFold(s, item) }) {
			return false
		}
	}
	return true
}
