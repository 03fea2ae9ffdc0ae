// Package sheet turns decoded spreadsheet rows into typed product records.
//
// The input is the positional output of a spreadsheet decoder: one record
// per row, each a mapping from column letter (A..O) to the raw cell value.
// Everything in this package is pure; category resolution and product
// submission live in the importer package.
package sheet

import (
	"strconv"
	"strings"
	"unicode"
)

// strayQuoteChars are quote/punctuation characters commonly left on cell
// edges by spreadsheet exports and copy-paste.
const strayQuoteChars = "\"';`´"

// CleanText trims whitespace and stray quote characters from both edges
// of a cell value. Idempotent: CleanText(CleanText(x)) == CleanText(x).
func CleanText(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(strayQuoteChars, r)
	})
}

// CleanNumeric coerces a numeric-looking cell to a number. Non-numeric
// input yields 0; it never panics. See CleanNumericChecked for the
// low-confidence flag.
func CleanNumeric(s string) float64 {
	v, _ := CleanNumericChecked(s)
	return v
}

// CleanNumericChecked is CleanNumeric plus a confidence flag: the second
// return is false when a non-empty cell could not be parsed and silently
// fell back to 0. Empty cells are a normal absence, not a low-confidence
// parse, so they report true.
func CleanNumericChecked(s string) (float64, bool) {
	s = CleanText(s)
	if s == "" {
		return 0, true
	}

	// Keep digits, decimal point, and sign; drop currency symbols,
	// thousands separators, and stray text.
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
