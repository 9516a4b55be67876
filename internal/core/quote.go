package core

import "strings"

// QuoteIdentifier wraps name in backticks, doubling embedded backticks.
func QuoteIdentifier(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "`", "``")
	return "`" + name + "`"
}

// QuoteString renders value as a single-quoted MySQL string literal.
func QuoteString(value string) string {
	var b strings.Builder
	b.Grow(len(value) + len(value)/10 + 2)

	b.WriteByte('\'')
	for _, char := range value {
		switch char {
		case '\'':
			b.WriteString("''")
		case '\\':
			b.WriteString(`\\`)
		case '\x00':
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\x1A':
			b.WriteString(`\Z`)
		default:
			b.WriteRune(char)
		}
	}
	b.WriteByte('\'')

	return b.String()
}

func quoteIdentifiers(names []string) string {
	quoted := make([]string, 0, len(names))
	for _, n := range names {
		quoted = append(quoted, QuoteIdentifier(n))
	}
	return strings.Join(quoted, ", ")
}

// CharsetOf returns the character set prefix of a collation name,
// e.g. "latin1" for "latin1_swedish_ci".
func CharsetOf(collation string) string {
	if idx := strings.Index(collation, "_"); idx > 0 {
		return collation[:idx]
	}
	return collation
}
