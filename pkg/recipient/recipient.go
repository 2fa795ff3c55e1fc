// Package recipient resolves the identity values are encrypted to. Providers
// are tried in a fixed order and the first non-empty value wins.
package recipient

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
	"github.com/joho/godotenv"
	"github.com/mscno/envysafe/pkg/config"
	"github.com/mscno/envysafe/pkg/oskeyring"
)

const (
	// EnvVar overrides every other source.
	EnvVar = "ENVY_AGE_RECIPIENT"
	// ProjectFileName is the optional per-project file holding EnvVar.
	ProjectFileName = ".envysafe"
)

// ErrUnavailable marks a source that cannot be consulted on this host, such as
// a missing keyring backend. The resolver skips it without a warning.
var ErrUnavailable = errors.New("recipient source unavailable")

// Recipient is a resolved recipient and the source it came from.
type Recipient struct {
	Value  string
	Source string
}

// LookupFn returns the recipient known to one source, or "" when the source
// has none.
type LookupFn func() (string, error)

// Provider is a named recipient source.
type Provider struct {
	Name   string
	Lookup LookupFn
}

// Env looks up EnvVar with lookupEnv, usually os.LookupEnv.
func Env(lookupEnv func(string) (string, bool)) Provider {
	return Provider{
		Name: "environment variable " + EnvVar,
		Lookup: func() (string, error) {
			v, _ := lookupEnv(EnvVar)
			return strings.TrimSpace(v), nil
		},
	}
}

// ConfigFile reads the recipient field of the config file at path.
func ConfigFile(path string) Provider {
	return Provider{
		Name: "config file " + path,
		Lookup: func() (string, error) {
			conf, err := config.Load(path)
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(conf.Recipient), nil
		},
	}
}

// Keyring reads the recipient remembered in the OS keyring.
func Keyring(svc oskeyring.Service) Provider {
	return Provider{
		Name: "OS keyring",
		Lookup: func() (string, error) {
			v, err := svc.Get(oskeyring.ServiceName, oskeyring.RecipientUser)
			if errors.Is(err, oskeyring.ErrNotFound) {
				return "", nil
			}
			if err != nil {
				return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
			}
			return strings.TrimSpace(v), nil
		},
	}
}

// ProjectFile reads EnvVar from the dotenv formatted ProjectFileName in dir.
func ProjectFile(dir string) Provider {
	path := filepath.Join(dir, ProjectFileName)
	return Provider{
		Name: "project file " + path,
		Lookup: func() (string, error) {
			envs, err := godotenv.Read(path)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return "", nil
				}
				return "", fmt.Errorf("failed to parse %q: %w", path, err)
			}
			return strings.TrimSpace(envs[EnvVar]), nil
		},
	}
}

// Resolver tries providers in order.
type Resolver struct {
	providers []Provider
	logger    *slog.Logger
}

// NewResolver returns a Resolver over providers. A nil logger discards output.
func NewResolver(logger *slog.Logger, providers ...Provider) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{providers: providers, logger: logger}
}

// Resolve returns the first non-empty recipient. A provider that fails is
// logged and skipped, at Debug level for ErrUnavailable and at Warn otherwise.
// ok is false when no provider yields a value.
func (r *Resolver) Resolve() (rec Recipient, ok bool) {
	for _, p := range r.providers {
		v, err := p.Lookup()
		if errors.Is(err, ErrUnavailable) {
			r.logger.Debug("recipient source unavailable", "source", p.Name, "error", err)
			continue
		}
		if err != nil {
			r.logger.Warn("recipient lookup failed", "source", p.Name, "error", err)
			continue
		}
		if v == "" {
			r.logger.Debug("no recipient in source", "source", p.Name)
			continue
		}
		r.logger.Debug("resolved recipient", "source", p.Name)
		return Recipient{Value: v, Source: p.Name}, true
	}
	return Recipient{}, false
}

// DefaultProviders returns the standard lookup order: environment variable,
// user config file, OS keyring, then the project file in projectDir.
func DefaultProviders(configPath string, svc oskeyring.Service, projectDir string) []Provider {
	return []Provider{
		Env(os.LookupEnv),
		ConfigFile(configPath),
		Keyring(svc),
		ProjectFile(projectDir),
	}
}

// Validate checks the syntax of native X25519 recipients ("age1" followed by
// bech32 data). SSH keys and plugin recipients are left to the external program.
func Validate(value string) error {
	if value == "" {
		return errors.New("recipient is empty")
	}
	if !isNativeRecipient(value) {
		return nil
	}
	if _, err := age.ParseX25519Recipient(value); err != nil {
		return fmt.Errorf("invalid age recipient %q: %w", value, err)
	}
	return nil
}

// isNativeRecipient reports whether value has the X25519 "age1..." shape.
// bech32 data never contains '1', so plugin recipients such as
// "age1yubikey1..." are excluded by the second separator.
func isNativeRecipient(value string) bool {
	rest, found := strings.CutPrefix(strings.ToLower(value), "age1")
	return found && !strings.Contains(rest, "1")
}
