package shade

import (
	"errors"
	"slices"
)

// Store is the persisted state of one treasury, one method pair per record:
// the config, the view credential, the ordered registry, the per-asset
// allocation lists and the allowance refresh timestamp.
//
// Each Save must be atomic on its own. Operations are written to validate and
// query before their first Save, so a failure leaves every record untouched.
type Store interface {
	Config() (Config, error)
	SaveConfig(Config) error

	ViewingKey() (string, error)
	SaveViewingKey(string) error

	// AssetList returns the registered token addresses in registry order.
	AssetList() ([]Address, error)
	SaveAssetList([]Address) error

	// Asset returns the registry record for the given token address, and
	// false when the asset was never registered.
	Asset(Address) (Asset, bool, error)
	SaveAsset(Asset) error

	// Allocations returns the asset's allocation list, empty when none was
	// ever saved.
	Allocations(Address) (Allocations, error)
	SaveAllocations(Address, Allocations) error

	// LastRefresh returns the RFC3339 timestamp of the last successful
	// allowance refresh.
	LastRefresh() (string, error)
	SaveLastRefresh(string) error
}

// errNotInitialized reports a store that was never seeded with Init.
var errNotInitialized = errors.New("treasury not initialized")

// MemStore is an in-memory Store, for tests and ephemeral runs.
type MemStore struct {
	config      Config
	viewingKey  string
	assetList   []Address
	assets      map[Address]Asset
	allocations map[Address]Allocations
	lastRefresh string
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		assets:      make(map[Address]Asset),
		allocations: make(map[Address]Allocations),
	}
}

func (s *MemStore) Config() (Config, error) {
	if s.config == (Config{}) {
		return Config{}, errNotInitialized
	}
	return s.config, nil
}

func (s *MemStore) SaveConfig(cfg Config) error {
	s.config = cfg
	return nil
}

func (s *MemStore) ViewingKey() (string, error)     { return s.viewingKey, nil }
func (s *MemStore) SaveViewingKey(key string) error { s.viewingKey = key; return nil }

func (s *MemStore) AssetList() ([]Address, error) {
	return slices.Clone(s.assetList), nil
}

func (s *MemStore) SaveAssetList(list []Address) error {
	s.assetList = slices.Clone(list)
	return nil
}

func (s *MemStore) Asset(addr Address) (Asset, bool, error) {
	a, ok := s.assets[addr]
	return a, ok, nil
}

func (s *MemStore) SaveAsset(a Asset) error {
	s.assets[a.Address()] = a
	return nil
}

func (s *MemStore) Allocations(addr Address) (Allocations, error) {
	return slices.Clone(s.allocations[addr]), nil
}

func (s *MemStore) SaveAllocations(addr Address, list Allocations) error {
	s.allocations[addr] = slices.Clone(list)
	return nil
}

func (s *MemStore) LastRefresh() (string, error)       { return s.lastRefresh, nil }
func (s *MemStore) SaveLastRefresh(stamp string) error { s.lastRefresh = stamp; return nil }
