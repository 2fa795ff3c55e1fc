package dotenv

import (
	"os"
	"strings"
)

// ReplaceKey returns data with every line assigning key replaced by newLine.
// All other lines, including comments and blank lines, are kept byte for byte
// and in order. A trailing newline in data is kept. If key is not assigned
// anywhere, data is returned unchanged.
func ReplaceKey(data []byte, key, newLine string) []byte {
	lines, trailing := splitLines(data)
	for i, line := range lines {
		k, _, ok := splitAssignment(line)
		if ok && k == key {
			lines[i] = newLine
		}
	}
	return joinLines(lines, trailing)
}

// RewriteKey reads the file at path and returns its content with the line for
// key replaced by newLine. The file itself is not modified.
func RewriteKey(path, key, newLine string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(ReplaceKey(data, key, newLine)), nil
}

// TransformValues calls fn for every KEY=VALUE line and rewrites the line with
// the returned value. Lines whose value fn leaves unchanged, comments, blank
// lines and lines without '=' are written back untouched.
func TransformValues(data []byte, fn func(key, value string) (string, error)) ([]byte, error) {
	lines, trailing := splitLines(data)
	for i, line := range lines {
		key, value, ok := splitAssignment(line)
		if !ok {
			continue
		}
		newValue, err := fn(key, value)
		if err != nil {
			return nil, err
		}
		if newValue == value {
			continue
		}
		lines[i] = Entry{Key: key, Value: newValue}.Line()
	}
	return joinLines(lines, trailing), nil
}

func splitLines(data []byte) ([]string, bool) {
	text := string(data)
	trailing := strings.HasSuffix(text, "\n")
	if trailing {
		text = text[:len(text)-1]
	}
	return strings.Split(text, "\n"), trailing
}

func joinLines(lines []string, trailing bool) []byte {
	out := strings.Join(lines, "\n")
	if trailing {
		out += "\n"
	}
	return []byte(out)
}
