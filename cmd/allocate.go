package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chris-ricketts/shade"
	"github.com/google/subcommands"
)

type allocateCmd struct {
	asset         string
	strategy      string
	share         string
	target        string
	hash          string
	amount        string
	secondary     string
	secondaryHash string
}

func (*allocateCmd) Name() string     { return "allocate" }
func (*allocateCmd) Synopsis() string { return "upsert one entry in an asset's allocation list" }
func (*allocateCmd) Usage() string {
	return `shd allocate -asset <address> -strategy <name> [flags]

  Upserts one entry in the asset's allocation list. An entry is keyed on its
  target address: allocating to the same target replaces the previous entry
  and moves it to the end of the list. The portion-bearing entries of the
  resulting list must claim strictly less than the whole.

  Flags by strategy:
    reserves      -share
    rewards       -target -hash -share
    staking       -target -hash -share
    application   -target -hash -share
    pool          -target -hash -secondary -secondary-hash -share
    allowance     -target -amount

Usage Examples:
# Forward 40% of inbound funds to the staking adapter.
$ shd allocate -asset secret1qfq... -strategy staking -target secret1097... -hash af74... -share 40%

# Maintain a monthly allowance for the rewards multisig.
$ shd allocate -asset secret1qfq... -strategy allowance -target secret159r... -amount 50000000000

`
}

func (c *allocateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", "", "Address of the registered asset.")
	f.StringVar(&c.strategy, "strategy", "", "reserves, allowance, rewards, staking, application or pool.")
	f.StringVar(&c.share, "share", "", "Portion of inbound funds the entry claims, e.g. 40%.")
	f.StringVar(&c.target, "target", "", "The entry's target address.")
	f.StringVar(&c.hash, "hash", "", "The target contract's code hash.")
	f.StringVar(&c.amount, "amount", "", "Allowance amount in base units (allowance only).")
	f.StringVar(&c.secondary, "secondary", "", "The pool's secondary asset address (pool only).")
	f.StringVar(&c.secondaryHash, "secondary-hash", "", "The pool's secondary asset code hash (pool only).")
}

func (c *allocateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asset, err := shade.ParseAddress(c.asset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -asset: %v\n", err)
		return subcommands.ExitUsageError
	}

	entry, status := c.buildEntry(asset)
	if entry == nil {
		return status
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

	if err := t.RegisterAllocation(caller, asset, entry); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Allocated on %s: %s\n", asset, entry)
	return subcommands.ExitSuccess
}

// buildEntry assembles the allocation entry from the strategy flags. It
// reports usage errors itself and returns a nil entry with the exit status.
func (c *allocateCmd) buildEntry(asset shade.Address) (shade.Allocation, subcommands.ExitStatus) {
	share := func() (shade.Portion, error) { return shade.ParsePortion(c.share) }
	target := func() (shade.Address, error) { return shade.ParseAddress(c.target) }
	contract := func() (shade.Contract, error) {
		addr, err := target()
		if err != nil {
			return shade.Contract{}, err
		}
		return shade.NewContract(addr, c.hash)
	}
	// The asset's own contract record, for the strategies that carry it.
	token := func() (shade.Contract, error) {
		rec, known, err := OpenStore().Asset(asset)
		if err != nil {
			return shade.Contract{}, err
		}
		if !known {
			return shade.Contract{}, fmt.Errorf("%w: %s", shade.ErrUnregisteredAsset, asset)
		}
		return rec.Contract, nil
	}

	fail := func(err error) (shade.Allocation, subcommands.ExitStatus) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, subcommands.ExitUsageError
	}

	switch shade.Strategy(c.strategy) {
	case shade.StrategyReserves:
		p, err := share()
		if err != nil {
			return fail(err)
		}
		return shade.NewReserves(p), subcommands.ExitSuccess

	case shade.StrategyAllowance:
		spender, err := target()
		if err != nil {
			return fail(err)
		}
		amount, err := shade.ParseAmount(c.amount)
		if err != nil {
			return fail(err)
		}
		return shade.NewAllowance(spender, amount), subcommands.ExitSuccess

	case shade.StrategyRewards:
		p, err := share()
		if err != nil {
			return fail(err)
		}
		ct, err := contract()
		if err != nil {
			return fail(err)
		}
		return shade.NewRewards(p, ct), subcommands.ExitSuccess

	case shade.StrategyStaking:
		p, err := share()
		if err != nil {
			return fail(err)
		}
		ct, err := contract()
		if err != nil {
			return fail(err)
		}
		return shade.NewStaking(p, ct), subcommands.ExitSuccess

	case shade.StrategyApplication:
		p, err := share()
		if err != nil {
			return fail(err)
		}
		ct, err := contract()
		if err != nil {
			return fail(err)
		}
		tok, err := token()
		if err != nil {
			return fail(err)
		}
		return shade.NewApplication(p, ct, tok), subcommands.ExitSuccess

	case shade.StrategyPool:
		p, err := share()
		if err != nil {
			return fail(err)
		}
		ct, err := contract()
		if err != nil {
			return fail(err)
		}
		secondaryAddr, err := shade.ParseAddress(c.secondary)
		if err != nil {
			return fail(fmt.Errorf("-secondary: %w", err))
		}
		secondary, err := shade.NewContract(secondaryAddr, c.secondaryHash)
		if err != nil {
			return fail(fmt.Errorf("-secondary-hash: %w", err))
		}
		tok, err := token()
		if err != nil {
			return fail(err)
		}
		return shade.NewPool(p, ct, secondary, tok), subcommands.ExitSuccess

	default:
		return fail(fmt.Errorf("unknown strategy %q", c.strategy))
	}
}
