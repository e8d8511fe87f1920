package shade

import (
	"fmt"
	"time"

	"github.com/chris-ricketts/shade/logging"
)

// monthKey linearizes a timestamp's calendar month, so month succession
// compares correctly across year boundaries: December 2025 is 24312 and
// January 2026 is 24313.
func monthKey(t time.Time) int {
	return t.Year()*12 + int(t.Month())
}

// RefreshAllowances reconciles every stored allowance entry against the live
// allowance on the token, at most once per calendar month. Anyone may call
// it; the month gate is the only protection.
//
// For each asset in registry order and each allowance entry in list order,
// the live allowance is queried and a delta action is emitted: an increase
// when the target is above the live value, a decrease when below, nothing
// when equal. Any failure aborts the whole refresh with no actions and no
// timestamp update. On success the timestamp advances to now even when there
// was nothing to reconcile.
func (t *Treasury) RefreshAllowances(now time.Time) ([]Action, error) {
	stamp, err := t.store.LastRefresh()
	if err != nil {
		return nil, err
	}
	last, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrTimestampParse, stamp, err)
	}
	if monthKey(now) <= monthKey(last) {
		return nil, fmt.Errorf("%w: last refresh %s", ErrRefreshTooRecent, last.Format(time.RFC3339))
	}

	cfg, err := t.store.Config()
	if err != nil {
		return nil, err
	}
	key, err := t.store.ViewingKey()
	if err != nil {
		return nil, err
	}
	addrs, err := t.store.AssetList()
	if err != nil {
		return nil, err
	}

	var actions []Action
	for _, addr := range addrs {
		rec, known, err := t.store.Asset(addr)
		if err != nil {
			return nil, err
		}
		if !known {
			return nil, fmt.Errorf("%w: %s is listed but has no record", ErrUnregisteredAsset, addr)
		}

		list, err := t.store.Allocations(addr)
		if err != nil {
			return nil, err
		}
		for _, entry := range list {
			grant, ok := entry.(Allowance)
			if !ok {
				continue
			}

			live, err := t.querier.Allowance(rec.Contract, cfg.Self.Address, grant.Spender, key)
			if err != nil {
				return nil, fmt.Errorf("allowance of %s for %s: %w", addr, grant.Spender, err)
			}

			var act Action
			switch {
			case grant.Amount.GreaterThan(live):
				act, err = NewIncreaseAllowanceAction(rec.Contract, grant.Spender, grant.Amount.Sub(live), nil)
			case grant.Amount.LessThan(live):
				act, err = NewDecreaseAllowanceAction(rec.Contract, grant.Spender, live.Sub(grant.Amount))
			default:
				continue // already on target
			}
			if err != nil {
				return nil, err
			}
			actions = append(actions, act)
			logging.Debug().
				Str("asset", addr.String()).
				Str("spender", grant.Spender.String()).
				Str("live", live.String()).
				Str("target", grant.Amount.String()).
				Str("delta", act.Kind).
				Msg("reconciling allowance")
		}
	}

	if err := t.store.SaveLastRefresh(now.Format(time.RFC3339)); err != nil {
		return nil, err
	}

	logging.Info().
		Time("now", now).
		Int("actions", len(actions)).
		Msg("allowances refreshed")
	return actions, nil
}
