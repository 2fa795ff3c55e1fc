// Package config reads the per-user envy-safe configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	// AppName names the directory under the user config home.
	AppName = "envy-safe"
	// FileName is the name of the config file inside that directory.
	FileName = "config.toml"
	// PathEnvVar overrides the config file location.
	PathEnvVar = "ENVY_SAFE_CONFIG"
)

// Config is the content of config.toml.
type Config struct {
	// Recipient is the age recipient (public key) values are encrypted to.
	Recipient string `toml:"recipient"`
	// Identity is the identity file used for decryption.
	Identity string `toml:"identity"`
	// Program is the external encryption program, "age" when empty.
	Program string `toml:"program"`
}

// Path returns the config file location: $ENVY_SAFE_CONFIG if set, otherwise
// <user config dir>/envy-safe/config.toml.
func Path() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	return filepath.Join(xdg.ConfigHome, AppName, FileName)
}

// Load reads the config file at path. A missing file yields an empty Config
// and no error.
func Load(path string) (Config, error) {
	var conf Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return conf, nil
		}
		return conf, fmt.Errorf("reading config file %q: %w", path, err)
	}
	if err := toml.Unmarshal(data, &conf); err != nil {
		return Config{}, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return conf, nil
}
