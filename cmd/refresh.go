package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
)

type refreshCmd struct {
	now string
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "reconcile the monthly allowances" }
func (*refreshCmd) Usage() string {
	return `shd refresh [-now <RFC3339>]

  Reconciles every stored allowance against the live allowance on its token,
  at most once per calendar month, and prints the increases and decreases
  that land each spender back on target. Any failed query aborts the whole
  refresh: no messages, and the stored timestamp stays put.

Usage Examples:
# The monthly run.
$ shd refresh

# Replay against a stored timestamp.
$ shd refresh -now 2026-03-01T00:00:00Z

`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.now, "now", "", "Override the clock (RFC3339). Defaults to now.")
}

func (c *refreshCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	now := time.Now()
	if c.now != "" {
		parsed, err := time.Parse(time.RFC3339, c.now)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: -now: %v\n", err)
			return subcommands.ExitUsageError
		}
		now = parsed
	}

	t, err := OpenTreasury()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	actions, err := t.RefreshAllowances(now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printActions(actions)
	return subcommands.ExitSuccess
}
