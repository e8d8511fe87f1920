package shade

import (
	"encoding/json"
	"fmt"

	"github.com/chris-ricketts/shade/logging"
)

// Flag is the optional memo a sender attaches to an inbound transfer.
type Flag struct {
	Flag string `json:"flag"`
}

// FlagUnallocated asks the router to leave the transfer resting in custody.
const FlagUnallocated = "unallocated"

// Receive routes an inbound transfer of amount base units of the asset,
// already credited to custody by the token contract. It walks the asset's
// allocation list in order and emits one transfer action per rewards or
// staking entry, each for the entry's exact truncated share of the amount.
// Reserves, allowance, application and pool entries emit nothing.
//
// msg, when not empty, must decode as a Flag; the "unallocated" flag
// short-circuits routing and any other flag is ignored.
//
// The call is all or nothing: on any error no actions are returned, and
// nothing was persisted either way.
func (t *Treasury) Receive(asset Address, from Address, amount Amount, msg []byte) ([]Action, error) {
	rec, known, err := t.store.Asset(asset)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, fmt.Errorf("%w: %s", ErrUnregisteredAsset, asset)
	}

	if len(msg) > 0 {
		var f Flag
		if err := json.Unmarshal(msg, &f); err != nil {
			return nil, fmt.Errorf("could not decode receive flag %q: %w", string(msg), err)
		}
		if f.Flag == FlagUnallocated {
			logging.Debug().Str("asset", asset.String()).Str("amount", amount.String()).Msg("inbound transfer left unallocated")
			return nil, nil
		}
	}

	list, err := t.store.Allocations(asset)
	if err != nil {
		return nil, err
	}

	var actions []Action
	for _, entry := range list {
		switch entry.Kind() {
		case StrategyRewards, StrategyStaking:
			dest, _ := entry.Target()
			forward := entry.Share().Of(amount)
			act, err := NewSendAction(rec.Contract, dest, forward)
			if err != nil {
				return nil, err
			}
			actions = append(actions, act)
			logging.Debug().
				Str("asset", asset.String()).
				Str("destination", dest.String()).
				Str("forward", forward.String()).
				Msg("forwarding inbound share")
		}
	}

	logging.Info().
		Str("asset", asset.String()).
		Str("from", from.String()).
		Str("amount", amount.String()).
		Int("actions", len(actions)).
		Msg("inbound transfer routed")
	return actions, nil
}
