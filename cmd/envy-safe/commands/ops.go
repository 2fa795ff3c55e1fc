package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mscno/envysafe"
	"github.com/mscno/envysafe/pkg/crypto"
	"github.com/mscno/envysafe/pkg/dotenv"
)

// OpsCmd runs when no subcommand is given. Each selected operation runs in
// order check, sync, encrypt, decrypt, and a failure does not stop the rest.
type OpsCmd struct {
	Check   bool     `help:"Check that the env file has every key in the template" short:"c"`
	Sync    bool     `help:"Append keys missing from the env file" short:"s"`
	Encrypt []string `help:"Encrypt the value of KEY in place (repeatable)" short:"e" placeholder:"KEY"`
	Decrypt []string `help:"Print the decrypted value of KEY (repeatable)" short:"d" placeholder:"KEY"`
}

func (c *OpsCmd) Run(ctx *cliCtx) error {
	if !c.Check && !c.Sync && len(c.Encrypt) == 0 && len(c.Decrypt) == 0 {
		fmt.Fprintln(ctx.Stderr, "nothing to do: pass --check, --sync, --encrypt KEY or --decrypt KEY (see --help)")
		return nil
	}
	if c.Check {
		runCheck(ctx)
	}
	if c.Sync {
		runSync(ctx)
	}
	if len(c.Encrypt) > 0 {
		runEncrypt(ctx, c.Encrypt)
	}
	if len(c.Decrypt) > 0 {
		runDecrypt(ctx, c.Decrypt, len(c.Decrypt) > 1)
	}
	return nil
}

type CheckCmd struct{}

func (c *CheckCmd) Run(ctx *cliCtx) error {
	runCheck(ctx)
	return nil
}

type SyncCmd struct{}

func (c *SyncCmd) Run(ctx *cliCtx) error {
	runSync(ctx)
	return nil
}

type EncryptCmd struct {
	Keys []string `arg:"" optional:"" name:"key" help:"Keys whose values to encrypt"`
	All  bool     `help:"Encrypt every non-empty value that is not encrypted yet" short:"a"`
}

func (c *EncryptCmd) Run(ctx *cliCtx) error {
	if c.All {
		runEncryptAll(ctx)
		return nil
	}
	if len(c.Keys) == 0 {
		return errors.New("no keys given: pass one or more keys or --all")
	}
	runEncrypt(ctx, c.Keys)
	return nil
}

type DecryptCmd struct {
	Keys []string `arg:"" name:"key" help:"Keys whose values to decrypt"`
}

func (c *DecryptCmd) Run(ctx *cliCtx) error {
	runDecrypt(ctx, c.Keys, len(c.Keys) > 1)
	return nil
}

func runCheck(ctx *cliCtx) {
	ctx.Logger.Debug("checking env file", "env", ctx.EnvFile, "template", ctx.Template)
	lintFile(ctx, ctx.Template)
	lintFile(ctx, ctx.EnvFile)

	if err := envysafe.Check(ctx.Template, ctx.EnvFile, ctx.Stderr); err != nil {
		ctx.fail("check", err)
		return
	}
	ctx.success("%s has every key in %s", ctx.EnvFile, ctx.Template)
}

func runSync(ctx *cliCtx) {
	ctx.Logger.Debug("syncing env file", "env", ctx.EnvFile, "template", ctx.Template)
	added, err := envysafe.Sync(ctx.Template, ctx.EnvFile)
	if err != nil {
		ctx.fail("sync", err)
		return
	}
	if len(added) == 0 {
		ctx.success("%s is already in sync with %s", ctx.EnvFile, ctx.Template)
		return
	}
	ctx.success("added %d key(s) to %s", len(added), ctx.EnvFile)
	for _, e := range added {
		fmt.Fprintf(ctx.Stdout, "  + %s\n", color.YellowString(e.Key))
	}
}

func runEncrypt(ctx *cliCtx, keys []string) {
	to := ctx.recipient()
	cipher := ctx.cipher()
	for _, key := range keys {
		ctx.Logger.Debug("encrypting key", "key", key, "env", ctx.EnvFile)
		if err := envysafe.EncryptKey(ctx, ctx.EnvFile, key, to, cipher); err != nil {
			ctx.fail("encrypt "+key, err)
			continue
		}
		ctx.success("encrypted %s in %s", key, ctx.EnvFile)
	}
}

func runEncryptAll(ctx *cliCtx) {
	ctx.Logger.Debug("encrypting all values", "env", ctx.EnvFile)
	n, err := envysafe.EncryptAll(ctx, ctx.EnvFile, ctx.recipient(), ctx.cipher())
	if err != nil {
		ctx.fail("encrypt", err)
		return
	}
	ctx.success("encrypted %d value(s) in %s", n, ctx.EnvFile)
}

// runDecrypt prints plaintexts to Stdout. With named set each value is printed
// as KEY=VALUE, otherwise the bare value is printed.
func runDecrypt(ctx *cliCtx, keys []string, named bool) {
	cipher := ctx.cipher()
	for _, key := range keys {
		ctx.Logger.Debug("decrypting key", "key", key, "env", ctx.EnvFile)
		value, err := envysafe.DecryptKey(ctx, ctx.EnvFile, key, cipher)
		var exitErr *crypto.ExitError
		if ctx.Identity == "" && errors.As(err, &exitErr) {
			err = fmt.Errorf("%w (no identity configured: pass --identity or set ENVY_AGE_IDENTITY)", err)
		}
		if err != nil {
			ctx.fail("decrypt "+key, err)
			continue
		}
		if named {
			fmt.Fprintln(ctx.Stdout, dotenv.Entry{Key: key, Value: value}.Line())
			continue
		}
		fmt.Fprintln(ctx.Stdout, value)
	}
}

// lintFile warns about lines that look like keys without a value. Read errors
// are left for the operation itself to report.
func lintFile(ctx *cliCtx, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	for _, issue := range dotenv.Lint(data) {
		ctx.Logger.Warn("line has no '=' and is ignored", "file", path, "line", issue.Line, "text", issue.Text)
	}
}
