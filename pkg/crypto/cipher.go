// Package crypto encrypts and decrypts single values by piping them through an
// external age-compatible program. No cryptography happens in-process.
package crypto

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// DefaultProgram is the external program used when none is configured.
const DefaultProgram = "age"

// ErrNoRecipient is returned by Encrypt when no recipient was resolved.
var ErrNoRecipient = errors.New("no encryption recipient configured (set ENVY_AGE_RECIPIENT or add recipient to the config file)")

// ErrAlreadyEncrypted is returned when asked to encrypt a boxed value.
var ErrAlreadyEncrypted = errors.New("value is already encrypted")

// ExitError is returned when the external program exits with a non-zero status.
type ExitError struct {
	Program string
	Code    int
	Stderr  string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with status %d", e.Program, e.Code)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Program, e.Code, e.Stderr)
}

// Config configures a Cipher.
type Config struct {
	// Program is the executable to invoke. Defaults to DefaultProgram.
	Program string
	// Identity is an optional identity file passed to the program when decrypting.
	Identity string
	// Runner runs the program. Defaults to ExecRunner.
	Runner Runner
	// Logger for debug output. Defaults to a discarding logger.
	Logger *slog.Logger
}

// Cipher encrypts and decrypts values with an external program.
type Cipher struct {
	program  string
	identity string
	runner   Runner
	logger   *slog.Logger
}

// New returns a Cipher for cfg, filling in defaults.
func New(cfg Config) *Cipher {
	if cfg.Program == "" {
		cfg.Program = DefaultProgram
	}
	if cfg.Runner == nil {
		cfg.Runner = ExecRunner{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cipher{
		program:  cfg.Program,
		identity: cfg.Identity,
		runner:   cfg.Runner,
		logger:   cfg.Logger,
	}
}

// Encrypt encrypts plaintext for recipient and returns the boxed ciphertext.
// An empty recipient fails with ErrNoRecipient without starting the program.
func (c *Cipher) Encrypt(ctx context.Context, plaintext, recipient string) (string, error) {
	if recipient == "" {
		return "", ErrNoRecipient
	}
	if IsBoxed(plaintext) {
		return "", ErrAlreadyEncrypted
	}

	out, err := c.run(ctx, []string{"--encrypt", "--recipient", recipient}, []byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("encrypting value: %w", err)
	}
	return Box(out), nil
}

// Decrypt decrypts ciphertext and returns the plaintext with surrounding
// whitespace trimmed. Boxed values are unboxed first; anything else is piped
// to the program verbatim.
func (c *Cipher) Decrypt(ctx context.Context, ciphertext string) (string, error) {
	payload := []byte(ciphertext)
	if IsBoxed(ciphertext) {
		var err error
		payload, err = Unbox(ciphertext)
		if err != nil {
			return "", err
		}
	}

	args := []string{"--decrypt"}
	if c.identity != "" {
		args = append(args, "--identity", c.identity)
	}
	out, err := c.run(ctx, args, payload)
	if err != nil {
		return "", fmt.Errorf("decrypting value: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (c *Cipher) run(ctx context.Context, args []string, stdin []byte) ([]byte, error) {
	c.logger.Debug("running external program", "program", c.program, "args", args, "stdin_bytes", len(stdin))
	res, err := c.runner.Run(ctx, c.program, args, stdin)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("external program finished", "program", c.program, "exit_code", res.ExitCode, "stdout_bytes", len(res.Stdout))
	if res.ExitCode != 0 {
		return nil, &ExitError{
			Program: c.program,
			Code:    res.ExitCode,
			Stderr:  strings.TrimSpace(string(res.Stderr)),
		}
	}
	return res.Stdout, nil
}
