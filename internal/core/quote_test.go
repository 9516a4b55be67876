package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple", input: "users", expected: "`users`"},
		{name: "trimmed", input: "  users ", expected: "`users`"},
		{name: "embedded backtick", input: "we`ird", expected: "`we``ird`"},
		{name: "mixed case kept", input: "aGeNcEs", expected: "`aGeNcEs`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QuoteIdentifier(tt.input))
		})
	}
}

func TestQuoteString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple_string", input: "hello", expected: "'hello'"},
		{name: "single_quote", input: "it's", expected: "'it''s'"},
		{name: "backslash", input: "back\\slash", expected: "'back\\\\slash'"},
		{name: "null_byte", input: "null\x00byte", expected: "'null\\0byte'"},
		{name: "newline", input: "line1\nline2", expected: "'line1\\nline2'"},
		{name: "carriage_return", input: "return\rcarriage", expected: "'return\\rcarriage'"},
		{name: "ctrl_z", input: "ctrl\x1Az", expected: "'ctrl\\Zz'"},
		{name: "empty_string", input: "", expected: "''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QuoteString(tt.input))
		})
	}
}

func TestCharsetOf(t *testing.T) {
	assert.Equal(t, "latin1", CharsetOf("latin1_swedish_ci"))
	assert.Equal(t, "utf8mb4", CharsetOf("utf8mb4_0900_ai_ci"))
	assert.Equal(t, "binary", CharsetOf("binary"))
}
