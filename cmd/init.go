package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/chris-ricketts/shade"
	"github.com/google/subcommands"
)

type initCmd struct {
	admin      string
	self       string
	codeHash   string
	viewingKey string
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create a new treasury folder" }
func (*initCmd) Usage() string {
	return `shd init -admin <address> -self <address> -code-hash <hash> -viewing-key <key>

  Creates the treasury folder and seeds it: the admin account, the treasury's
  own contract, the viewing key registered tokens will be told to honor, and
  an empty asset registry. The first allowance refresh becomes due next
  calendar month.

Usage Examples:
# Create a treasury in ./.shade
$ shd init -admin secret1e9c... -self secret1vfr... -code-hash af74... -viewing-key hunter2

`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.admin, "admin", "", "Address allowed to run mutating commands.")
	f.StringVar(&c.self, "self", "", "The treasury contract's own address.")
	f.StringVar(&c.codeHash, "code-hash", "", "The treasury contract's code hash.")
	f.StringVar(&c.viewingKey, "viewing-key", "", "Viewing key registered tokens will be told to honor.")
}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	admin, err := shade.ParseAddress(c.admin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -admin: %v\n", err)
		return subcommands.ExitUsageError
	}
	selfAddr, err := shade.ParseAddress(c.self)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -self: %v\n", err)
		return subcommands.ExitUsageError
	}
	self, err := shade.NewContract(selfAddr, c.codeHash)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -code-hash: %v\n", err)
		return subcommands.ExitUsageError
	}

	cfg := shade.Config{Admin: admin, Self: self}
	if err := shade.Init(OpenStore(), cfg, c.viewingKey, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("✅ Treasury created in %s\n", TreasuryDir())
	return subcommands.ExitSuccess
}
