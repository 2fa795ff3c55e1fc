package crypto_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/mscno/envysafe/pkg/crypto"
	"github.com/mscno/envysafe/testutl"
)

func TestCipherRoundtrip(t *testing.T) {
	fake := &testutl.FakeAge{}
	c := crypto.New(crypto.Config{Runner: fake, Identity: "/keys/me.txt"})
	ctx := context.Background()

	for _, value := range []string{"plain", "with=equals", "", "unicode ✓"} {
		ct, err := c.Encrypt(ctx, value, "age1recipient")
		assert.NoError(t, err)
		assert.True(t, crypto.IsBoxed(ct))
		assert.False(t, strings.Contains(ct, value) && value != "")

		pt, err := c.Decrypt(ctx, ct)
		assert.NoError(t, err)
		assert.Equal(t, value, pt)
	}

	calls := fake.Calls()
	assert.Equal(t, "age", calls[0].Program)
	assert.Equal(t, []string{"--encrypt", "--recipient", "age1recipient"}, calls[0].Args)
	assert.Equal(t, []byte("plain"), calls[0].Stdin)
	assert.Equal(t, []string{"--decrypt", "--identity", "/keys/me.txt"}, calls[1].Args)
}

func TestCipherEncryptWithoutRecipient(t *testing.T) {
	fake := &testutl.FakeAge{}
	c := crypto.New(crypto.Config{Runner: fake})

	_, err := c.Encrypt(context.Background(), "plain", "")
	assert.IsError(t, err, crypto.ErrNoRecipient)
	assert.Equal(t, 0, len(fake.Calls()))
}

func TestCipherEncryptAlreadyBoxed(t *testing.T) {
	fake := &testutl.FakeAge{}
	c := crypto.New(crypto.Config{Runner: fake})

	_, err := c.Encrypt(context.Background(), crypto.Box([]byte("x")), "age1recipient")
	assert.IsError(t, err, crypto.ErrAlreadyEncrypted)
	assert.Equal(t, 0, len(fake.Calls()))
}

func TestCipherDecryptWithoutIdentity(t *testing.T) {
	fake := &testutl.FakeAge{}
	c := crypto.New(crypto.Config{Runner: fake, Program: "rage"})

	_, _ = c.Decrypt(context.Background(), crypto.Box([]byte("fake-age:x")))
	calls := fake.Calls()
	assert.Equal(t, 1, len(calls))
	assert.Equal(t, "rage", calls[0].Program)
	assert.Equal(t, []string{"--decrypt"}, calls[0].Args)
	assert.Equal(t, []byte("fake-age:x"), calls[0].Stdin)
}

func TestCipherDecryptUnboxedValueIsPipedVerbatim(t *testing.T) {
	fake := &testutl.FakeAge{}
	c := crypto.New(crypto.Config{Runner: fake})

	pt, err := c.Decrypt(context.Background(), "fake-age:olleh")
	assert.NoError(t, err)
	assert.Equal(t, "hello", pt)
	assert.Equal(t, []byte("fake-age:olleh"), fake.Calls()[0].Stdin)
}

func TestCipherNonZeroExit(t *testing.T) {
	fake := &testutl.FakeAge{ExitCode: 1, Stderr: "age: error: malformed recipient\n"}
	c := crypto.New(crypto.Config{Runner: fake})

	_, err := c.Encrypt(context.Background(), "plain", "bogus")
	var exitErr *crypto.ExitError
	assert.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
	assert.Equal(t, "age: error: malformed recipient", exitErr.Stderr)
	assert.Contains(t, err.Error(), "age exited with status 1")

	_, err = c.Decrypt(context.Background(), crypto.Box([]byte("x")))
	assert.True(t, errors.As(err, &exitErr))
}

func TestCipherRunnerFailure(t *testing.T) {
	startErr := errors.New("exec: \"age\": executable file not found in $PATH")
	c := crypto.New(crypto.Config{Runner: &testutl.FakeAge{Err: startErr}})

	_, err := c.Encrypt(context.Background(), "plain", "age1recipient")
	assert.IsError(t, err, startErr)
	_, err = c.Decrypt(context.Background(), "anything")
	assert.IsError(t, err, startErr)
}
