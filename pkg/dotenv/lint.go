package dotenv

import (
	"regexp"
	"strings"
)

// validIdentifierPattern matches valid environment variable identifiers
var validIdentifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Issue describes a line the parser silently dropped but that looks like a
// mistake.
type Issue struct {
	Line int // 1-based
	Text string
}

// Lint reports lines that look like a key whose '=' was forgotten, such as
// "SECRET_KEY". Such lines are ignored by Parse, so the key is treated as absent.
func Lint(data []byte) []Issue {
	var issues []Issue
	lines, _ := splitLines(data)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isComment(trimmed) || strings.Contains(trimmed, "=") {
			continue
		}
		if isLikelyMalformedEntry(trimmed) {
			issues = append(issues, Issue{Line: i + 1, Text: trimmed})
		}
	}
	return issues
}

// isLikelyMalformedEntry checks if a line looks like an intended key-value pair
// but is missing the '=' sign.
func isLikelyMalformedEntry(line string) bool {
	if strings.HasPrefix(line, "export ") {
		return false
	}
	if len(line) < 3 {
		return false
	}
	return validIdentifierPattern.MatchString(line)
}
