package crypto

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Result is what an external program produced.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Runner runs a program to completion, feeding stdin and capturing its output.
// A non-zero exit is reported through Result.ExitCode, not as an error; errors
// are reserved for failing to start, feed or wait for the program.
type Runner interface {
	Run(ctx context.Context, program string, args []string, stdin []byte) (Result, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

// Run implements Runner. A program that exits without reading all of stdin
// still yields its exit status and stderr.
func (ExecRunner) Run(ctx context.Context, program string, args []string, stdin []byte) (Result, error) {
	cmd := exec.CommandContext(ctx, program, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("starting %s: %w", program, err)
	}
	err := cmd.Wait()

	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return res, fmt.Errorf("running %s: %w", program, err)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	return res, nil
}

var _ Runner = ExecRunner{}
