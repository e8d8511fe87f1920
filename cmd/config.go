package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chris-ricketts/shade"
	"github.com/google/subcommands"
)

type configCmd struct {
	admin    string
	self     string
	codeHash string
}

func (*configCmd) Name() string     { return "config" }
func (*configCmd) Synopsis() string { return "show or update the treasury configuration" }
func (*configCmd) Usage() string {
	return `shd config [-admin <address>] [-self <address>] [-code-hash <hash>]

  Without flags, shows the configuration and the last allowance refresh.
  With flags, updates the given fields; only the current admin may, and the
  handover is effective immediately.
`
}

func (c *configCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.admin, "admin", "", "New admin address.")
	f.StringVar(&c.self, "self", "", "New treasury contract address.")
	f.StringVar(&c.codeHash, "code-hash", "", "New treasury contract code hash.")
}

func (c *configCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store := OpenStore()
	cfg, err := store.Config()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.admin == "" && c.self == "" && c.codeHash == "" {
		stamp, err := store.LastRefresh()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("admin: %s\n", cfg.Admin)
		fmt.Printf("treasury: %s (code hash %s)\n", cfg.Self.Address, cfg.Self.CodeHash)
		fmt.Printf("last refresh: %s\n", stamp)
		return subcommands.ExitSuccess
	}

	next := cfg
	if c.admin != "" {
		next.Admin, err = shade.ParseAddress(c.admin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: -admin: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if c.self != "" || c.codeHash != "" {
		addr, hash := cfg.Self.Address, cfg.Self.CodeHash
		if c.self != "" {
			addr, err = shade.ParseAddress(c.self)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: -self: %v\n", err)
				return subcommands.ExitUsageError
			}
		}
		if c.codeHash != "" {
			hash = c.codeHash
		}
		next.Self, err = shade.NewContract(addr, hash)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	caller, err := Caller(store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	t, err := OpenTreasury()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := t.UpdateConfig(caller, next); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Println("Config updated.")
	return subcommands.ExitSuccess
}
