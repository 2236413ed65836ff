package skumatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsWholeToken(t *testing.T) {
	tests := []struct {
		haystack, needle string
		want             bool
	}{
		{"ABC6", "ABC6", true},
		{"abc6", "ABC6", true},
		{"ABC6-6MM", "ABC6", true},
		{"front ABC6 back", "ABC6", true},
		{"ABC6_v2", "ABC6", true},
		{"ABC60", "ABC6", false},
		{"XABC6", "ABC6", false},
		{"XABC6 ABC6", "ABC6", true},
		{"ABC6ABC6", "ABC6", false},
		{"", "ABC6", false},
		{"ABC6", "", false},
		{"AB-C6", "B-C", false},
		{"A.B-C6.X", "B-C6", true},
		{"Ästhetik-ÄRM", "ärm", true},
		{"ÄRMEL", "ärm", false},
	}

	for _, tt := range tests {
		t.Run(tt.haystack+"/"+tt.needle, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsWholeToken(tt.haystack, tt.needle))
		})
	}
}

func TestContainsWholeToken_ImpliesSubstring(t *testing.T) {
	names := []string{"XY9-6MM", "XY9-STYLE2", "ZXY9", "xy9", "XY90", "a xy9 b"}
	for _, name := range names {
		if ContainsWholeToken(name, "XY9") {
			assert.Contains(t, lower(name), "xy9", name)
		}
	}
}

func lower(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'A' && r <= 'Z' {
			out[i] = r + 'a' - 'A'
		}
	}
	return string(out)
}
