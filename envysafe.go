// Package envysafe checks .env files against a .env.example template, appends
// keys the template defines but the env file lacks, and encrypts or decrypts
// single values in place through an external program.
//
// Every operation re-reads the files it works on; nothing is cached between
// calls and writes are not locked against concurrent editors.
package envysafe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mscno/envysafe/pkg/crypto"
	"github.com/mscno/envysafe/pkg/dotenv"
	"github.com/mscno/envysafe/pkg/fileutils"
	"github.com/mscno/envysafe/pkg/recipient"
)

// Encrypter encrypts a single value for a recipient.
type Encrypter interface {
	Encrypt(ctx context.Context, plaintext, recipient string) (string, error)
}

// Decrypter decrypts a single value.
type Decrypter interface {
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

var (
	_ Encrypter = (*crypto.Cipher)(nil)
	_ Decrypter = (*crypto.Cipher)(nil)
)

// Check verifies that every key in the template is present in the env file.
// Values are not compared. For each missing key a "Missing key: KEY" line is
// written to diag (which may be nil) in template order, and a
// *ValidationError listing the keys is returned.
func Check(templatePath, envPath string, diag io.Writer) error {
	template, err := dotenv.ParseFile(templatePath)
	if err != nil {
		return err
	}
	actual, err := dotenv.ParseFile(envPath)
	if err != nil {
		return err
	}

	missing := dotenv.Missing(template, actual)
	if len(missing) == 0 {
		return nil
	}

	keys := make([]string, 0, len(missing))
	for _, e := range missing {
		keys = append(keys, e.Key)
		if diag != nil {
			fmt.Fprintf(diag, "Missing key: %s\n", e.Key)
		}
	}
	return &ValidationError{Missing: keys}
}

// Sync appends every template entry whose key is absent from the env file, with
// the template's value, and returns the appended entries. Existing content is
// never modified. When nothing is missing the env file is not opened for
// writing.
func Sync(templatePath, envPath string) ([]dotenv.Entry, error) {
	template, err := dotenv.ParseFile(templatePath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(envPath)
	if err != nil {
		return nil, err
	}

	missing := dotenv.Missing(template, dotenv.Parse(data))
	if len(missing) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	if len(data) > 0 && data[len(data)-1] != '\n' {
		buf.WriteByte('\n')
	}
	if err := dotenv.WriteEntries(&buf, missing); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(envPath, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return nil, err
	}
	_, err = f.Write(buf.Bytes())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	return missing, nil
}

// EncryptKey encrypts the value of key in the env file for to and writes the
// file back with only that key's line replaced by KEY=<ciphertext>. A missing
// key fails with *KeyNotFoundError and leaves the file untouched.
func EncryptKey(ctx context.Context, envPath, key, to string, enc Encrypter) error {
	vars, err := dotenv.ParseFile(envPath)
	if err != nil {
		return err
	}
	value, ok := vars.Get(key)
	if !ok {
		return &KeyNotFoundError{Key: key, Path: envPath}
	}
	if to != "" {
		if err := recipient.Validate(to); err != nil {
			return err
		}
	}

	ciphertext, err := enc.Encrypt(ctx, value, to)
	if err != nil {
		return fmt.Errorf("encrypting %s: %w", key, err)
	}

	content, err := dotenv.RewriteKey(envPath, key, dotenv.Entry{Key: key, Value: ciphertext}.Line())
	if err != nil {
		return err
	}
	return fileutils.WriteFileInPlace(envPath, []byte(content))
}

// EncryptAll encrypts every non-empty value that is not already encrypted and
// writes the file back once. It returns the number of values encrypted.
func EncryptAll(ctx context.Context, envPath, to string, enc Encrypter) (int, error) {
	if to == "" {
		return 0, crypto.ErrNoRecipient
	}
	if err := recipient.Validate(to); err != nil {
		return 0, err
	}

	data, err := os.ReadFile(envPath)
	if err != nil {
		return 0, err
	}

	var n int
	content, err := dotenv.TransformValues(data, func(key, value string) (string, error) {
		if value == "" || crypto.IsBoxed(value) {
			return value, nil
		}
		ciphertext, err := enc.Encrypt(ctx, value, to)
		if err != nil {
			return "", fmt.Errorf("encrypting %s: %w", key, err)
		}
		n++
		return ciphertext, nil
	})
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	if err := fileutils.WriteFileInPlace(envPath, content); err != nil {
		return 0, err
	}
	return n, nil
}

// DecryptKey returns the decrypted value of key. The env file is not modified.
func DecryptKey(ctx context.Context, envPath, key string, dec Decrypter) (string, error) {
	vars, err := dotenv.ParseFile(envPath)
	if err != nil {
		return "", err
	}
	value, ok := vars.Get(key)
	if !ok {
		return "", &KeyNotFoundError{Key: key, Path: envPath}
	}

	plaintext, err := dec.Decrypt(ctx, value)
	if err != nil {
		return "", fmt.Errorf("decrypting %s: %w", key, err)
	}
	return plaintext, nil
}
