package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/mscno/envysafe/pkg/config"
	"github.com/mscno/envysafe/pkg/crypto"
	"github.com/mscno/envysafe/pkg/fileutils"
	"github.com/mscno/envysafe/pkg/oskeyring"
	"github.com/mscno/envysafe/pkg/recipient"
)

// errFailed is returned once every requested operation has run and at least
// one of them failed. Each failure has already been printed.
var errFailed = errors.New("one or more operations failed")

type cliCtx struct {
	context.Context
	Logger *slog.Logger
	Stdout io.Writer
	Stderr io.Writer

	Runner  crypto.Runner
	Keyring oskeyring.Service

	EnvFile    string
	Template   string
	Program    string
	Identity   string
	ConfigPath string

	failed bool
}

var _ context.Context = (*cliCtx)(nil)

// Globals are accepted before or after any command.
type Globals struct {
	Debug    bool   `help:"Enable debug logging"`
	Env      string `help:"Env file or environment name (prod -> .env.prod)" default:".env" env:"ENVY_SAFE_ENV_FILE"`
	Template string `help:"Template file, defaults to .env.example next to the env file" env:"ENVY_SAFE_TEMPLATE"`
	Program  string `help:"External encryption program" name:"age-program" env:"ENVY_AGE_PROGRAM"`
	Identity string `help:"Identity file passed to the program when decrypting" short:"i" env:"ENVY_AGE_IDENTITY"`
}

type cli struct {
	Globals

	Ops       OpsCmd           `cmd:"" name:"run" default:"withargs" hidden:"" help:"Run the operations selected by flags"`
	Check     CheckCmd         `cmd:"" help:"Check that the env file has every key in the template"`
	Sync      SyncCmd          `cmd:"" help:"Append keys missing from the env file with their template values"`
	Encrypt   EncryptCmd       `cmd:"" help:"Encrypt values in the env file in place"`
	Decrypt   DecryptCmd       `cmd:"" help:"Print the decrypted value of a key"`
	Recipient RecipientCmd     `cmd:"" help:"Show or manage the encryption recipient"`
	Version   kong.VersionFlag `help:"Show version"`
}

type deps struct {
	Out     io.Writer
	Err     io.Writer
	Runner  crypto.Runner
	Keyring oskeyring.Service
	Exit    func(int)
}

func Execute(version string) {
	err := run(os.Args[1:], version, deps{
		Out:     os.Stdout,
		Err:     os.Stderr,
		Runner:  crypto.ExecRunner{},
		Keyring: oskeyring.NewDefaultService(),
		Exit:    os.Exit,
	})
	if err == nil {
		return
	}
	if !errors.Is(err, errFailed) {
		fmt.Fprintf(os.Stderr, "envy-safe: error: %v\n", err)
	}
	os.Exit(1)
}

func run(args []string, version string, d deps) error {
	var cli cli
	parser, err := kong.New(&cli,
		kong.Name("envy-safe"),
		kong.Description("envy-safe keeps .env files in line with .env.example and encrypts single values with age"),
		kong.Vars{"version": version},
		kong.Writers(d.Out, d.Err),
		kong.Exit(d.Exit),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx, err := newCliCtx(cli.Globals, d)
	if err != nil {
		return err
	}
	if err := kctx.Run(ctx); err != nil {
		return err
	}
	if ctx.failed {
		return errFailed
	}
	return nil
}

func newCliCtx(g Globals, d deps) (*cliCtx, error) {
	level := slog.LevelInfo
	if g.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(d.Err, &slog.HandlerOptions{Level: level}))

	envFile, err := fileutils.ResolveEnvFile(g.Env)
	if err != nil {
		return nil, fmt.Errorf("error processing env file %q: %w", g.Env, err)
	}
	template := g.Template
	if template == "" {
		template = fileutils.TemplateFor(envFile)
	}

	configPath := config.Path()
	conf, err := config.Load(configPath)
	if err != nil {
		logger.Warn("ignoring config file", "path", configPath, "error", err)
	}
	program := g.Program
	if program == "" {
		program = conf.Program
	}
	identity := g.Identity
	if identity == "" {
		identity = conf.Identity
	}

	logger.Debug("resolved file paths", "env", envFile, "template", template, "config", configPath)

	return &cliCtx{
		Context:    context.Background(),
		Logger:     logger,
		Stdout:     d.Out,
		Stderr:     d.Err,
		Runner:     d.Runner,
		Keyring:    d.Keyring,
		EnvFile:    envFile,
		Template:   template,
		Program:    program,
		Identity:   identity,
		ConfigPath: configPath,
	}, nil
}

func (c *cliCtx) cipher() *crypto.Cipher {
	return crypto.New(crypto.Config{
		Program:  c.Program,
		Identity: c.Identity,
		Runner:   c.Runner,
		Logger:   c.Logger,
	})
}

func (c *cliCtx) resolver() *recipient.Resolver {
	projectDir := filepath.Dir(c.EnvFile)
	return recipient.NewResolver(c.Logger, recipient.DefaultProviders(c.ConfigPath, c.Keyring, projectDir)...)
}

// recipient returns the resolved recipient or "" when none is configured.
func (c *cliCtx) recipient() string {
	rec, ok := c.resolver().Resolve()
	if !ok {
		return ""
	}
	c.Logger.Debug("using recipient", "source", rec.Source)
	return rec.Value
}

func (c *cliCtx) success(format string, args ...any) {
	fmt.Fprintf(c.Stdout, "%s %s\n", color.GreenString("✓"), fmt.Sprintf(format, args...))
}

// fail prints err against op and marks the invocation as failed.
func (c *cliCtx) fail(op string, err error) {
	c.failed = true
	fmt.Fprintf(c.Stderr, "%s %s: %v\n", color.RedString("✗"), op, err)
}
