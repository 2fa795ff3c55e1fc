package dotenv

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLint(t *testing.T) {
	input := "# comment\nA=1\nSECRET_KEY\n\nexport FOO\nxy\nsome-text\n  DATABASE_URL  \n"
	issues := Lint([]byte(input))
	assert.Equal(t, []Issue{
		{Line: 3, Text: "SECRET_KEY"},
		{Line: 8, Text: "DATABASE_URL"},
	}, issues)
}

func TestIsLikelyMalformedEntry(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"valid identifier", "SECRET_KEY", true},
		{"valid identifier with underscore prefix", "_SECRET", true},
		{"valid single letter", "A", false}, // too short
		{"valid two letters", "AB", false},  // too short
		{"valid three letters", "ABC", true},
		{"export statement", "export FOO", false},
		{"contains hyphen", "some-var", false},
		{"contains space", "some var", false},
		{"contains equals", "some=var", false},
		{"starts with number", "1VAR", false},
		{"empty", "", false},
		{"uppercase with numbers", "VAR123", true},
		{"mixed case", "VarName", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isLikelyMalformedEntry(tt.line)
			assert.Equal(t, tt.want, got)
		})
	}
}
