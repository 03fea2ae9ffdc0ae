package sheet

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Kola 330ml", "Kola 330ml"},
		{"whitespace", "  Kola 330ml\t", "Kola 330ml"},
		{"double quotes", `"Kola"`, "Kola"},
		{"single quotes", "'Kola'", "Kola"},
		{"backtick and acute", "`Kola´", "Kola"},
		{"interleaved", ` "' Kola `, "Kola"},
		{"inner quotes kept", `Ali'nin Bakkalı`, "Ali'nin Bakkalı"},
		{"empty", "", ""},
		{"only junk", ` "' `, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanText(tt.input)
			if got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}

			// Cleaning must be stable under repetition.
			if again := CleanText(got); again != got {
				t.Errorf("CleanText not idempotent: %q -> %q -> %q", tt.input, got, again)
			}
		})
	}
}

func TestCleanNumericChecked(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{"empty is fine", "", 0, true},
		{"whitespace only", "   ", 0, true},
		{"integer", "100", 100, true},
		{"decimal", "12.5", 12.5, true},
		{"quoted", `"15"`, 15, true},
		{"negative", "-3", -3, true},
		{"currency suffix", "10 TL", 10, true},
		{"thousands separator", "1,234", 1234, true},
		{"text", "abc", 0, false},
		{"lone dash", "-", 0, false},
		{"lone dot", ".", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CleanNumericChecked(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CleanNumericChecked(%q) = (%v, %v), want (%v, %v)",
					tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCleanNumeric_NeverPanics(t *testing.T) {
	inputs := []string{"", "abc", "12.3.4", "--", "∞", "1e10zzz"}
	for _, in := range inputs {
		_ = CleanNumeric(in)
	}
}
