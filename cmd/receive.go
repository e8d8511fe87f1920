package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/chris-ricketts/shade"
	"github.com/google/subcommands"
)

type receiveCmd struct {
	asset       string
	sender      string
	amount      string
	unallocated bool
}

func (*receiveCmd) Name() string     { return "receive" }
func (*receiveCmd) Synopsis() string { return "route an inbound transfer through the allocation list" }
func (*receiveCmd) Usage() string {
	return `shd receive -asset <address> -sender <address> -amount <base-units> [-unallocated]

  Routes an inbound transfer the token has already credited to custody, and
  prints the sends the allocation list produces: one per rewards or staking
  entry, each for its exact truncated share of the amount. With -unallocated
  the transfer rests in custody and nothing is sent.

Usage Examples:
# Route 1000 SHD (8 decimals) through the list.
$ shd receive -asset secret1qfq... -sender secret1e9c... -amount 100000000000

`
}

func (c *receiveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", "", "Address of the registered asset.")
	f.StringVar(&c.sender, "sender", "", "Address the transfer came from.")
	f.StringVar(&c.amount, "amount", "", "Transferred amount in base units.")
	f.BoolVar(&c.unallocated, "unallocated", false, "Leave the transfer resting in custody.")
}

func (c *receiveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asset, err := shade.ParseAddress(c.asset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -asset: %v\n", err)
		return subcommands.ExitUsageError
	}
	sender, err := shade.ParseAddress(c.sender)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -sender: %v\n", err)
		return subcommands.ExitUsageError
	}
	amount, err := shade.ParseAmount(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -amount: %v\n", err)
		return subcommands.ExitUsageError
	}

	var msg []byte
	if c.unallocated {
		msg, err = json.Marshal(shade.Flag{Flag: shade.FlagUnallocated})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	t, err := OpenTreasury()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	actions, err := t.Receive(asset, sender, amount, msg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printActions(actions)
	return subcommands.ExitSuccess
}
