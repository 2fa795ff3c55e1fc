package envysafe

import (
	"fmt"
	"io/fs"
	"strings"
)

// ValidationError is returned by Check when the env file lacks keys that the
// template defines.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required keys (%d): %s", len(e.Missing), strings.Join(e.Missing, ", "))
}

// KeyNotFoundError is returned when a key to encrypt or decrypt is not in the
// env file. It matches fs.ErrNotExist.
type KeyNotFoundError struct {
	Key  string
	Path string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %q not found in %s", e.Key, e.Path)
}

// Is reports fs.ErrNotExist as a match.
func (e *KeyNotFoundError) Is(target error) bool {
	return target == fs.ErrNotExist
}
