package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and rewrites the treasury files into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `shd fmt

  Validates and rewrites the treasury files in place. Every record is
  decoded and written back in canonical form: stable key order, one record
  per line in the JSONL files. Hand-edited files come out normalized, or the
  command fails pointing at the broken line.

Usage Examples:
# Normalize the default treasury folder.
$ shd fmt

`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store := OpenStore()

	cfg, err := store.Config()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := store.SaveConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	key, err := store.ViewingKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := store.SaveViewingKey(key); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	stamp, err := store.LastRefresh()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := store.SaveLastRefresh(stamp); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	list, err := store.AssetList()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, addr := range list {
		rec, known, err := store.Asset(addr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if !known {
			fmt.Fprintf(os.Stderr, "Error: asset %s is listed but has no record\n", addr)
			return subcommands.ExitFailure
		}
		if err := store.SaveAsset(rec); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}

		allocs, err := store.Allocations(addr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := store.SaveAllocations(addr, allocs); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	fmt.Fprintf(os.Stderr, "✅ Successfully formatted %s.\n", TreasuryDir())
	return subcommands.ExitSuccess
}
