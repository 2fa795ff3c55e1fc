// Package dotenv reads and rewrites .env style files: one KEY=VALUE per line,
// '#' comments, no quoting, no multi-line values and no interpolation.
package dotenv

import (
	"io"
	"os"
	"strings"
	"unicode"
)

// Entry is a single key/value pair.
type Entry struct {
	Key   string
	Value string
}

// Line renders the entry the way it is written to an env file.
func (e Entry) Line() string {
	return e.Key + "=" + e.Value
}

// Mapping is an ordered key/value view of an env file. Keys are kept in the
// order of their last assignment.
type Mapping struct {
	keys   []string
	values map[string]string
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]string)}
}

// Set assigns value to key. Reassigning an existing key moves it to the end.
func (m *Mapping) Set(key, value string) {
	if _, ok := m.values[key]; ok {
		for i, k := range m.keys {
			if k == key {
				m.keys = append(m.keys[:i], m.keys[i+1:]...)
				break
			}
		}
	}
	m.keys = append(m.keys, key)
	m.values[key] = value
}

// Get returns the value stored for key.
func (m *Mapping) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present, regardless of its value.
func (m *Mapping) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Len returns the number of distinct keys.
func (m *Mapping) Len() int {
	return len(m.keys)
}

// Keys returns the keys in order.
func (m *Mapping) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Entries returns the key/value pairs in order.
func (m *Mapping) Entries() []Entry {
	out := make([]Entry, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, Entry{Key: k, Value: m.values[k]})
	}
	return out
}

// Parse builds a mapping from env file content. Comment lines are skipped,
// lines without '=' are dropped, and each remaining line is split on its first
// '=' with key and value trimmed. A repeated key keeps its last value.
func Parse(data []byte) *Mapping {
	m := NewMapping()
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := splitAssignment(line)
		if !ok {
			continue
		}
		m.Set(key, value)
	}
	return m
}

// ParseFile reads and parses the file at path. Read errors are returned as-is.
func ParseFile(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data), nil
}

// Missing returns the template entries whose keys are absent from actual, in
// template order. Values in actual are not compared.
func Missing(template, actual *Mapping) []Entry {
	var missing []Entry
	for _, e := range template.Entries() {
		if !actual.Has(e.Key) {
			missing = append(missing, e)
		}
	}
	return missing
}

// WriteEntries writes one KEY=VALUE line per entry.
func WriteEntries(w io.Writer, entries []Entry) error {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Line())
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), "#")
}

// splitAssignment classifies a raw line. ok is false for comments and for
// lines that carry no '='.
func splitAssignment(line string) (key, value string, ok bool) {
	if isComment(line) {
		return "", "", false
	}
	k, v, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(k), strings.TrimSpace(v), true
}
