package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chris-ricketts/shade"
	"github.com/google/subcommands"
)

type registerCmd struct {
	token    string
	hash     string
	reserves string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "register a token with the treasury" }
func (*registerCmd) Usage() string {
	return `shd register -token <address> -hash <code-hash> [-reserves <portion>]

  Fetches the token's metadata through the gateway, records it in the
  registry, and prints the two messages to submit to the token: the transfer
  callback subscription and the viewing key grant.

  With -reserves the asset's allocation list starts with a single reserves
  entry; otherwise it starts empty. Registering a known token refetches its
  metadata and resets its allocation list.

Usage Examples:
# Register a token, keeping 20% of inbound funds idle.
$ shd register -token secret1qfq... -hash 5266... -reserves 20%

`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.token, "token", "", "The token contract's address.")
	f.StringVar(&c.hash, "hash", "", "The token contract's code hash.")
	f.StringVar(&c.reserves, "reserves", "", "Portion of inbound funds to keep idle, e.g. 20%. Optional.")
}

func (c *registerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	addr, err := shade.ParseAddress(c.token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -token: %v\n", err)
		return subcommands.ExitUsageError
	}
	token, err := shade.NewContract(addr, c.hash)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -hash: %v\n", err)
		return subcommands.ExitUsageError
	}
	var reserves *shade.Portion
	if c.reserves != "" {
		p, err := shade.ParsePortion(c.reserves)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: -reserves: %v\n", err)
			return subcommands.ExitUsageError
		}
		reserves = &p
	}

	t, err := OpenTreasury()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	caller, err := Caller(OpenStore())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	actions, err := t.RegisterAsset(caller, token, reserves)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printActions(actions)
	return subcommands.ExitSuccess
}
