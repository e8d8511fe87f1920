package shade

import (
	"fmt"
	"slices"
	"time"

	"github.com/chris-ricketts/shade/logging"
)

// Config identifies the two accounts a treasury cannot operate without.
// It is read-only outside of the admin-gated UpdateConfig.
type Config struct {
	// Admin is the only identity allowed to call mutating operations.
	Admin Address `json:"admin"`
	// Self is the treasury's own account: the owner of every queried balance
	// and allowance, and the callback target tokens are subscribed to.
	Self Contract `json:"self"`
}

// Validate checks that both accounts are present and well-formed.
func (c Config) Validate() error {
	if err := c.Admin.Validate(); err != nil {
		return fmt.Errorf("config admin: %w", err)
	}
	if err := c.Self.Validate(); err != nil {
		return fmt.Errorf("config self: %w", err)
	}
	return nil
}

// Querier answers the live token-contract queries operations depend on.
// Implementations return ErrUnexpectedResponse (wrapped) when a response does
// not have the expected shape.
type Querier interface {
	TokenInfo(token Contract) (TokenInfo, error)
	Allowance(token Contract, owner, spender Address, key string) (Amount, error)
	Balance(token Contract, owner Address, key string) (Amount, error)
}

// Treasury binds a Store to the operations of the allocation engine.
//
// Operations are transactional: they validate and query first, persist last,
// and return outbound transfers as Action intents instead of executing them.
// A Treasury serves one caller at a time; it performs no internal locking.
type Treasury struct {
	store   Store
	querier Querier
}

// New creates a Treasury over the given state and querier.
func New(store Store, querier Querier) *Treasury {
	return &Treasury{store: store, querier: querier}
}

// Init seeds a fresh store with the config, the view credential, an empty
// registry, and a refresh timestamp of now, which makes the first allowance
// refresh due next calendar month.
func Init(store Store, cfg Config, viewingKey string, now time.Time) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if viewingKey == "" {
		return fmt.Errorf("viewing key is missing")
	}
	if _, err := store.Config(); err == nil {
		return fmt.Errorf("treasury already initialized")
	}
	if err := store.SaveConfig(cfg); err != nil {
		return err
	}
	if err := store.SaveViewingKey(viewingKey); err != nil {
		return err
	}
	if err := store.SaveAssetList(nil); err != nil {
		return err
	}
	if err := store.SaveLastRefresh(now.Format(time.RFC3339)); err != nil {
		return err
	}
	logging.Info().Str("admin", cfg.Admin.String()).Str("self", cfg.Self.Address.String()).Msg("treasury initialized")
	return nil
}

// Config returns the current configuration.
func (t *Treasury) Config() (Config, error) {
	return t.store.Config()
}

// UpdateConfig replaces the configuration. Only the current admin may call it.
func (t *Treasury) UpdateConfig(caller Address, cfg Config) error {
	current, err := t.store.Config()
	if err != nil {
		return err
	}
	if caller != current.Admin {
		return fmt.Errorf("%w: %s may not update the config", ErrUnauthorized, caller)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := t.store.SaveConfig(cfg); err != nil {
		return err
	}
	logging.Info().Str("admin", cfg.Admin.String()).Msg("treasury config updated")
	return nil
}

// RegisterAsset adds a token to the registry: it fetches the token's
// metadata, stores the record, seeds the allocation list (with a single
// reserves entry when a portion is given, empty otherwise) and returns two
// actions, in order: the transfer-callback subscription and the view
// credential for the token.
//
// Registering an already-registered token is an explicit reset: the record is
// refetched and the existing allocation list is replaced by the fresh seed.
func (t *Treasury) RegisterAsset(caller Address, token Contract, reserves *Portion) ([]Action, error) {
	cfg, err := t.store.Config()
	if err != nil {
		return nil, err
	}
	if caller != cfg.Admin {
		return nil, fmt.Errorf("%w: %s may not register assets", ErrUnauthorized, caller)
	}
	if err := token.Validate(); err != nil {
		return nil, err
	}
	if reserves != nil {
		if err := reserves.Validate(); err != nil {
			return nil, err
		}
	}

	info, err := t.querier.TokenInfo(token)
	if err != nil {
		return nil, fmt.Errorf("token info of %s: %w", token.Address, err)
	}

	key, err := t.store.ViewingKey()
	if err != nil {
		return nil, err
	}

	// Build both actions before the first save.
	subscribe, err := NewSubscriptionAction(token, cfg.Self.CodeHash)
	if err != nil {
		return nil, err
	}
	credential, err := NewViewingKeyAction(token, key)
	if err != nil {
		return nil, err
	}

	_, known, err := t.store.Asset(token.Address)
	if err != nil {
		return nil, err
	}
	if known {
		logging.Warn().Str("asset", token.Address.String()).Msg("reregistering asset, allocation list resets")
	}

	var seed Allocations
	if reserves != nil {
		seed = Allocations{NewReserves(*reserves)}
	}

	if err := t.store.SaveAsset(Asset{Contract: token, Token: info}); err != nil {
		return nil, err
	}
	list, err := t.store.AssetList()
	if err != nil {
		return nil, err
	}
	if !slices.Contains(list, token.Address) {
		if err := t.store.SaveAssetList(append(list, token.Address)); err != nil {
			return nil, err
		}
	}
	if err := t.store.SaveAllocations(token.Address, seed); err != nil {
		return nil, err
	}

	logging.Info().Str("asset", token.Address.String()).Str("symbol", info.Symbol).Msg("asset registered")
	return []Action{subscribe, credential}, nil
}

// RegisterAllocation upserts one entry in an asset's allocation list:
// existing entries keyed on the same target address are replaced, the
// percent-bearing entries of the result must claim strictly less than the
// whole, and the new entry lands at the end of the list.
//
// The asset's liquid balance is queried as a sanity probe; committed amounts
// are not checked against it, but the query itself must succeed.
func (t *Treasury) RegisterAllocation(caller Address, asset Address, entry Allocation) error {
	cfg, err := t.store.Config()
	if err != nil {
		return err
	}
	if caller != cfg.Admin {
		return fmt.Errorf("%w: %s may not change allocations", ErrUnauthorized, caller)
	}

	rec, known, err := t.store.Asset(asset)
	if err != nil {
		return err
	}
	if !known {
		return fmt.Errorf("%w: %s", ErrUnregisteredAsset, asset)
	}

	key, err := t.store.ViewingKey()
	if err != nil {
		return err
	}
	liquid, err := t.querier.Balance(rec.Contract, cfg.Self.Address, key)
	if err != nil {
		return fmt.Errorf("balance of %s: %w", asset, err)
	}

	list, err := t.store.Allocations(asset)
	if err != nil {
		return err
	}
	next, err := list.Upsert(entry)
	if err != nil {
		return err
	}
	if err := t.store.SaveAllocations(asset, next); err != nil {
		return err
	}

	logging.Info().
		Str("asset", asset.String()).
		Str("entry", fmt.Sprint(entry)).
		Str("claimed", next.Share().String()).
		Str("liquid", liquid.String()).
		Msg("allocation registered")
	return nil
}

// OneTimeAllowance emits a single immediate allowance increase outside the
// monthly cycle, with an optional expiration (unix seconds). The allocation
// list and the refresh timestamp are left untouched.
func (t *Treasury) OneTimeAllowance(caller Address, asset Address, spender Address, amount Amount, expiration *uint64) ([]Action, error) {
	cfg, err := t.store.Config()
	if err != nil {
		return nil, err
	}
	if caller != cfg.Admin {
		return nil, fmt.Errorf("%w: %s may not grant allowances", ErrUnauthorized, caller)
	}
	if err := spender.Validate(); err != nil {
		return nil, fmt.Errorf("allowance spender: %w", err)
	}

	rec, known, err := t.store.Asset(asset)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, fmt.Errorf("%w: %s", ErrUnregisteredAsset, asset)
	}

	act, err := NewIncreaseAllowanceAction(rec.Contract, spender, amount, expiration)
	if err != nil {
		return nil, err
	}
	logging.Info().
		Str("asset", asset.String()).
		Str("spender", spender.String()).
		Str("amount", amount.String()).
		Msg("one-time allowance granted")
	return []Action{act}, nil
}

// Assets returns the registry records in registration order.
func (t *Treasury) Assets() ([]Asset, error) {
	addrs, err := t.store.AssetList()
	if err != nil {
		return nil, err
	}
	assets := make([]Asset, 0, len(addrs))
	for _, addr := range addrs {
		rec, known, err := t.store.Asset(addr)
		if err != nil {
			return nil, err
		}
		if !known {
			return nil, fmt.Errorf("%w: %s is listed but has no record", ErrUnregisteredAsset, addr)
		}
		assets = append(assets, rec)
	}
	return assets, nil
}

// Allocations returns an asset's allocation list.
func (t *Treasury) Allocations(asset Address) (Allocations, error) {
	_, known, err := t.store.Asset(asset)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, fmt.Errorf("%w: %s", ErrUnregisteredAsset, asset)
	}
	return t.store.Allocations(asset)
}

// Balance queries the treasury's live custody balance of an asset.
func (t *Treasury) Balance(asset Address) (Amount, error) {
	cfg, err := t.store.Config()
	if err != nil {
		return Amount{}, err
	}
	rec, known, err := t.store.Asset(asset)
	if err != nil {
		return Amount{}, err
	}
	if !known {
		return Amount{}, fmt.Errorf("%w: %s", ErrUnregisteredAsset, asset)
	}
	key, err := t.store.ViewingKey()
	if err != nil {
		return Amount{}, err
	}
	return t.querier.Balance(rec.Contract, cfg.Self.Address, key)
}
