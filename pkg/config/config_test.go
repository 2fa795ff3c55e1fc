package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("full file", func(t *testing.T) {
		path := filepath.Join(dir, "full.toml")
		content := "recipient = \"age1abc\"\nidentity = \"~/.config/age/key.txt\"\nprogram = \"rage\"\n"
		assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		conf, err := Load(path)
		assert.NoError(t, err)
		assert.Equal(t, Config{Recipient: "age1abc", Identity: "~/.config/age/key.txt", Program: "rage"}, conf)
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		path := filepath.Join(dir, "extra.toml")
		assert.NoError(t, os.WriteFile(path, []byte("recipient = \"age1abc\"\ntheme = \"dark\"\n"), 0o600))

		conf, err := Load(path)
		assert.NoError(t, err)
		assert.Equal(t, "age1abc", conf.Recipient)
	})

	t.Run("missing file", func(t *testing.T) {
		conf, err := Load(filepath.Join(dir, "missing.toml"))
		assert.NoError(t, err)
		assert.Equal(t, Config{}, conf)
	})

	t.Run("invalid toml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.toml")
		assert.NoError(t, os.WriteFile(path, []byte("recipient = \n"), 0o600))

		_, err := Load(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "parsing config file")
	})

	t.Run("wrong type", func(t *testing.T) {
		path := filepath.Join(dir, "type.toml")
		assert.NoError(t, os.WriteFile(path, []byte("recipient = 42\n"), 0o600))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestPath(t *testing.T) {
	t.Setenv(PathEnvVar, "/tmp/custom.toml")
	assert.Equal(t, "/tmp/custom.toml", Path())

	t.Setenv(PathEnvVar, "")
	assert.Equal(t, filepath.Join(AppName, FileName), filepath.Join(filepath.Base(filepath.Dir(Path())), filepath.Base(Path())))
}
