package util

import (
	"math/rand"
	"strconv"
	"strings"
)

const codeCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// FormatCurrencyInput normalizes a user-typed amount for display: every
// character except digits and the first decimal point is stripped, the
// integer part gets thousands separators and the fraction is truncated
// to two digits. Formatting an already formatted value yields the same
// result.
func FormatCurrencyInput(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return ""
	}

	parts := strings.SplitN(cleaned, ".", 2)
	intPart := groupThousands(parts[0])
	if len(parts) == 1 {
		return intPart
	}

	// Anything after a second decimal point is discarded along with the
	// fraction overflow.
	frac := strings.ReplaceAll(parts[1], ".", "")
	if len(frac) > 2 {
		frac = frac[:2]
	}
	return intPart + "." + frac
}

// groupThousands inserts comma separators into a digit string.
func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	rem := n % 3
	if rem > 0 {
		b.WriteString(digits[:rem])
	}
	for i := rem; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// ParseCurrency converts a formatted amount back to its numeric value.
// Empty or invalid input parses to 0; the editor treats unset fields as
// zero until validation runs.
func ParseCurrency(display string) float64 {
	if display == "" {
		return 0
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(display, ",", ""), 64)
	if err != nil {
		return 0
	}
	return value
}

// GenerateCode produces a human-facing product code of the form
// <prefix>-<6 uppercase alphanumerics>. Uniqueness is probabilistic;
// collisions are not checked against existing codes.
func GenerateCode(prefix string) string {
	code := make([]byte, 6)
	for i := range code {
		code[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return prefix + "-" + string(code)
}

// SplitTags splits comma-separated tag input, trimming whitespace and
// dropping empty entries. Deduplication against an existing tag set is
// the caller's concern.
func SplitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}
