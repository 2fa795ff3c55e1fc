package crypto

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

const (
	boxPrefix = "AGE["
	boxSuffix = "]"
)

var boxPattern = regexp.MustCompile(`\AAGE\[[A-Za-z0-9+/]+={0,2}\]\z`)

// Box wraps raw ciphertext into a single-line value safe to store in an env file.
func Box(ciphertext []byte) string {
	return boxPrefix + base64.StdEncoding.EncodeToString(ciphertext) + boxSuffix
}

// IsBoxed reports whether value was produced by Box.
func IsBoxed(value string) bool {
	return boxPattern.MatchString(value)
}

// Unbox reverses Box.
func Unbox(value string) ([]byte, error) {
	if !IsBoxed(value) {
		return nil, fmt.Errorf("value is not in %s...%s form", boxPrefix, boxSuffix)
	}
	payload := strings.TrimSuffix(strings.TrimPrefix(value, boxPrefix), boxSuffix)
	ct, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding boxed value: %w", err)
	}
	return ct, nil
}
