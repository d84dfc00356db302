package search

import "testing"

func TestKeywordCoverage(t *testing.T) {
	tests := []struct {
		name  string
		query string
		text  string
		want  float64
	}{
		{"full match", "go developer", "Senior Go developer", 100},
		{"half match", "python backend", "Backend engineer, Java stack", 50},
		{"no match", "rust compiler", "Graphic designer portfolio", 0},
		{"empty query", "", "anything at all", 0},
		{"empty text", "go", "", 0},
		{"case insensitive", "PYTHON", "python scripts", 100},
		{"thirds rounded", "one two three", "contains one only", 33.33},
		{"query duplicates collapse", "go go go", "go everywhere", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeywordCoverage(tt.query, tt.text); got != tt.want {
				t.Errorf("KeywordCoverage(%q, %q) = %v, want %v", tt.query, tt.text, got, tt.want)
			}
		})
	}
}
