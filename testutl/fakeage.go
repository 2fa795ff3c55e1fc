// Package testutl holds test doubles shared across packages.
package testutl

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"github.com/mscno/envysafe/pkg/crypto"
)

const fakeHeader = "fake-age:"

// Call records one invocation of FakeAge.
type Call struct {
	Program string
	Args    []string
	Stdin   []byte
}

// FakeAge is an invertible stand-in for the age program. Encrypting reverses
// the input and prefixes a header; decrypting undoes it and appends a newline
// the way age does for text input.
type FakeAge struct {
	// ExitCode and Stderr, when set, are returned for every call.
	ExitCode int
	Stderr   string
	// Err, when set, is returned for every call as a start failure.
	Err error

	mu    sync.Mutex
	calls []Call
}

// Run implements crypto.Runner.
func (f *FakeAge) Run(_ context.Context, program string, args []string, stdin []byte) (crypto.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Program: program, Args: slices.Clone(args), Stdin: bytes.Clone(stdin)})
	f.mu.Unlock()

	if f.Err != nil {
		return crypto.Result{}, f.Err
	}
	if f.ExitCode != 0 {
		return crypto.Result{ExitCode: f.ExitCode, Stderr: []byte(f.Stderr)}, nil
	}

	switch {
	case slices.Contains(args, "--encrypt"):
		out := append([]byte(fakeHeader), reversed(stdin)...)
		return crypto.Result{Stdout: out}, nil
	case slices.Contains(args, "--decrypt"):
		if !bytes.HasPrefix(stdin, []byte(fakeHeader)) {
			return crypto.Result{ExitCode: 1, Stderr: []byte("age: error: failed to decrypt: no identity matched any of the recipients\n")}, nil
		}
		out := append(reversed(stdin[len(fakeHeader):]), '\n')
		return crypto.Result{Stdout: out}, nil
	default:
		return crypto.Result{ExitCode: 1, Stderr: []byte("age: error: unknown mode\n")}, nil
	}
}

// Calls returns the recorded invocations.
func (f *FakeAge) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func reversed(b []byte) []byte {
	out := bytes.Clone(b)
	slices.Reverse(out)
	return out
}

var _ crypto.Runner = (*FakeAge)(nil)
