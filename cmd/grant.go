package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chris-ricketts/shade"
	"github.com/google/subcommands"
)

type grantCmd struct {
	asset   string
	spender string
	amount  string
	expires uint64
}

func (*grantCmd) Name() string     { return "grant" }
func (*grantCmd) Synopsis() string { return "emit a one-time allowance outside the monthly cycle" }
func (*grantCmd) Usage() string {
	return `shd grant -asset <address> -spender <address> -amount <base-units> [-expires <unix-seconds>]

  Prints a single immediate allowance increase for the spender, outside the
  monthly cycle. The allocation list and the refresh timestamp are left
  untouched, so the next monthly refresh is unaffected.

Usage Examples:
# A one-off 123.45 SHD (8 decimals) allowance, expiring at a unix timestamp.
$ shd grant -asset secret1qfq... -spender secret159r... -amount 12345000000 -expires 1790000000

`
}

func (c *grantCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", "", "Address of the registered asset.")
	f.StringVar(&c.spender, "spender", "", "Address receiving the allowance.")
	f.StringVar(&c.amount, "amount", "", "Allowance amount in base units.")
	f.Uint64Var(&c.expires, "expires", 0, "Expiration as unix seconds. 0 means none.")
}

func (c *grantCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asset, err := shade.ParseAddress(c.asset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -asset: %v\n", err)
		return subcommands.ExitUsageError
	}
	spender, err := shade.ParseAddress(c.spender)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -spender: %v\n", err)
		return subcommands.ExitUsageError
	}
	amount, err := shade.ParseAmount(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	var expires *uint64
	if c.expires != 0 {
		expires = &c.expires
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

	actions, err := t.OneTimeAllowance(caller, asset, spender, amount, expires)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printActions(actions)
	return subcommands.ExitSuccess
}
