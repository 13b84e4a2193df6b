package repository

import "testing"

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		keyword string
		want    string
	}{
		{"JB-001", "%JB-001%"},
		{"100%", `%100\%%`},
		{"lot_7", `%lot\_7%`},
		{`C:\dir`, `%C:\\dir%`},
		{`%_\`, `%\%\_\\%`},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			if got := containsPattern(tt.keyword); got != tt.want {
				t.Errorf("containsPattern(%q) = %q, want %q", tt.keyword, got, tt.want)
			}
		})
	}
}
