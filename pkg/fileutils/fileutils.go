// Package fileutils resolves env file names and writes files in place.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultEnvFile is the env file operated on when none is given.
	DefaultEnvFile = ".env"
	// DefaultTemplateFile is the template the env file is checked against.
	DefaultTemplateFile = ".env.example"
)

// GenerateFilename creates an env file name from an optional environment name.
// For example, GenerateFilename("dev") returns ".env.dev",
// and GenerateFilename("") returns ".env".
func GenerateFilename(environment string) string {
	if environment != "" {
		return fmt.Sprintf("%s.%s", DefaultEnvFile, environment)
	}
	return DefaultEnvFile
}

// ResolveEnvFile accepts either a path whose base name starts with ".env" or a
// bare environment name such as "prod", which maps to ".env.prod".
func ResolveEnvFile(input string) (string, error) {
	if input == "" {
		return DefaultEnvFile, nil
	}
	if strings.HasPrefix(filepath.Base(input), DefaultEnvFile) {
		return filepath.Clean(input), nil
	}

	if strings.ContainsAny(input, ".\\/") {
		return "", fmt.Errorf("invalid environment name: %s - should not contain dots or path separators", input)
	}
	for _, char := range input {
		if !strings.ContainsRune("abcdefghijklmnopqrstuvwxyz0123456789", char) {
			return "", fmt.Errorf("invalid environment name: %s - should be lowercase alphanumeric", input)
		}
	}
	return GenerateFilename(input), nil
}

// TemplateFor returns the template path that sits next to envPath.
func TemplateFor(envPath string) string {
	return filepath.Join(filepath.Dir(envPath), DefaultTemplateFile)
}

// WriteFileInPlace overwrites an existing file, keeping its permission bits.
func WriteFileInPlace(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, info.Mode().Perm())
}
