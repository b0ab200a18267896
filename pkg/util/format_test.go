package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrencyInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Empty input", input: "", want: ""},
		{name: "Plain integer", input: "1000", want: "1,000"},
		{name: "Small integer", input: "999", want: "999"},
		{name: "Millions", input: "1234567", want: "1,234,567"},
		{name: "With fraction", input: "1234.5", want: "1,234.5"},
		{name: "Fraction truncated to 2 digits", input: "10.999", want: "10.99"},
		{name: "Strips currency symbols", input: "$1,500.25", want: "1,500.25"},
		{name: "Strips letters", input: "12a34", want: "1,234"},
		{name: "Trailing dot kept", input: "1000.", want: "1,000."},
		{name: "Only junk", input: "abc", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrencyInput(tt.input))
		})
	}
}

func TestFormatCurrencyInput_Idempotent(t *testing.T) {
	inputs := []string{"1000", "1234567.891", "0.5", "999999999", "12,345.67", ""}

	for _, input := range inputs {
		once := FormatCurrencyInput(input)
		twice := FormatCurrencyInput(once)
		assert.Equal(t, once, twice, "formatting twice must equal formatting once for %q", input)
	}
}

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "Empty is zero", input: "", want: 0},
		{name: "Invalid is zero", input: "abc", want: 0},
		{name: "Plain number", input: "1500", want: 1500},
		{name: "Thousands separators stripped", input: "1,234,567.89", want: 1234567.89},
		{name: "Fraction only", input: "0.25", want: 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCurrency(tt.input))
		})
	}
}

func TestParseCurrency_RoundTrip(t *testing.T) {
	inputs := []string{"1000", "1234567.89", "0.5", "42", "999999.99"}

	for _, input := range inputs {
		formatted := FormatCurrencyInput(input)
		assert.InDelta(t, ParseCurrency(input), ParseCurrency(formatted), 0.01,
			"round trip through formatting must preserve value for %q", input)
	}
}

func TestGenerateCode(t *testing.T) {
	code := GenerateCode("FM")

	assert.True(t, strings.HasPrefix(code, "FM-"))
	assert.Len(t, code, len("FM-")+6)

	suffix := strings.TrimPrefix(code, "FM-")
	for _, r := range suffix {
		assert.Contains(t, codeCharset, string(r))
	}

	// Codes are random; two draws colliding would be astronomically rare
	assert.NotEqual(t, GenerateCode("FM"), GenerateCode("FM"))
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "Empty input", input: "", want: nil},
		{name: "Single tag", input: "summer", want: []string{"summer"}},
		{name: "Trims whitespace", input: " a, b ,c ", want: []string{"a", "b", "c"}},
		{name: "Drops empties", input: "a,,b,", want: []string{"a", "b"}},
		{name: "Only separators", input: ", ,", want: nil},
		{name: "Duplicates preserved for caller", input: "a, b ,a", want: []string{"a", "b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTags(tt.input))
		})
	}
}
