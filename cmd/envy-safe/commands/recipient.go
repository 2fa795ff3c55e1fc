package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mscno/envysafe/pkg/oskeyring"
	"github.com/mscno/envysafe/pkg/recipient"
)

type RecipientCmd struct {
	Show     RecipientShowCmd     `cmd:"" default:"1" help:"Show the recipient values are encrypted to and where it comes from"`
	Remember RecipientRememberCmd `cmd:"" help:"Store a recipient in the OS keyring"`
	Forget   RecipientForgetCmd   `cmd:"" help:"Remove the recipient from the OS keyring"`
}

type RecipientShowCmd struct{}

func (c *RecipientShowCmd) Run(ctx *cliCtx) error {
	rec, ok := ctx.resolver().Resolve()
	if !ok {
		return errors.New("no recipient configured: set " + recipient.EnvVar + ", add recipient to " + ctx.ConfigPath + " or run 'envy-safe recipient remember'")
	}
	fmt.Fprintf(ctx.Stdout, "%s\n(from %s)\n", rec.Value, rec.Source)
	return nil
}

type RecipientRememberCmd struct {
	Recipient string `arg:"" help:"age recipient, e.g. age1... or an ssh public key"`
}

func (c *RecipientRememberCmd) Run(ctx *cliCtx) error {
	value := strings.TrimSpace(c.Recipient)
	if err := recipient.Validate(value); err != nil {
		return err
	}
	ctx.Logger.Debug("storing recipient in keyring", "service", oskeyring.ServiceName, "user", oskeyring.RecipientUser)
	if err := ctx.Keyring.Set(oskeyring.ServiceName, oskeyring.RecipientUser, value); err != nil {
		return err
	}
	ctx.success("stored recipient in the OS keyring")
	return nil
}

type RecipientForgetCmd struct{}

func (c *RecipientForgetCmd) Run(ctx *cliCtx) error {
	ctx.Logger.Debug("removing recipient from keyring", "service", oskeyring.ServiceName, "user", oskeyring.RecipientUser)
	if err := ctx.Keyring.Delete(oskeyring.ServiceName, oskeyring.RecipientUser); err != nil {
		return err
	}
	ctx.success("removed recipient from the OS keyring")
	return nil
}
