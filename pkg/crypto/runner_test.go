package crypto

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunnerPipesStdin(t *testing.T) {
	requireShell(t)

	res, err := ExecRunner{}.Run(context.Background(), "sh", []string{"-c", "tr a-z A-Z"}, []byte("hello\n"))
	assert.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "HELLO\n", string(res.Stdout))
}

func TestExecRunnerReportsExitStatus(t *testing.T) {
	requireShell(t)

	res, err := ExecRunner{}.Run(context.Background(), "sh", []string{"-c", "cat >/dev/null; echo boom >&2; exit 3"}, []byte("x"))
	assert.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "boom\n", string(res.Stderr))
}

func TestExecRunnerExitWithoutReadingStdin(t *testing.T) {
	requireShell(t)

	for _, size := range []int{6, 1 << 20} {
		stdin := bytes.Repeat([]byte("x"), size)
		res, err := ExecRunner{}.Run(context.Background(), "sh", []string{"-c", "echo 'age: error: malformed recipient' >&2; exit 1"}, stdin)
		assert.NoError(t, err, "stdin of %d bytes", size)
		assert.Equal(t, 1, res.ExitCode)
		assert.Equal(t, "age: error: malformed recipient\n", string(res.Stderr))
	}
}

func TestExecRunnerMissingProgram(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), "envy-safe-definitely-not-installed", nil, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "starting envy-safe-definitely-not-installed")
}
