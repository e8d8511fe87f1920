package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chris-ricketts/shade"
	"github.com/chris-ricketts/shade/renderer"
	"github.com/google/subcommands"
)

type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "report the treasury, or one asset's allocation list" }
func (*statusCmd) Usage() string {
	return `shd status [asset]

  Without argument, reports the whole treasury: one row per registered asset
  with its live balance and claimed portion. With an asset address or symbol,
  reports that asset's allocation list entry by entry.
`
}

func (c *statusCmd) SetFlags(f *flag.FlagSet) {}

func (c *statusCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, err := OpenTreasury()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if f.NArg() == 0 {
		status, err := renderer.NewStatus(t)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.RenderStatus(status))
		return subcommands.ExitSuccess
	}

	key := f.Arg(0)
	assets, err := t.Assets()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, a := range assets {
		if string(a.Address()) != key && !strings.EqualFold(a.Token.Symbol, key) {
			continue
		}
		view, err := renderer.NewAssetView(t, a)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.RenderAllocations(view))
		return subcommands.ExitSuccess
	}

	fmt.Fprintf(os.Stderr, "Error: %v: %s\n", shade.ErrUnregisteredAsset, key)
	return subcommands.ExitFailure
}
