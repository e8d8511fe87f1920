package shade

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	configFilename      = "config.json"
	viewingKeyFilename  = "viewing_key.json"
	assetsFilename      = "assets.jsonl"
	allocationsFilename = "allocations.jsonl"
	refreshFilename     = "refresh.json"
)

// DirStore persists a treasury as a folder of human-readable files, one per
// record, so the state stays auditable, diffable and git-friendly:
//
//	config.json        admin and the treasury's own account
//	viewing_key.json   the view credential
//	assets.jsonl       one registered asset per line, registry order
//	allocations.jsonl  one allocation entry per line, grouped by asset
//	refresh.json       the allowance refresh timestamp
type DirStore struct {
	dir string
}

// OpenDir designates a treasury state folder. The folder and its files are
// created lazily on first save.
func OpenDir(dir string) *DirStore {
	return &DirStore{dir: dir}
}

// Dir returns the folder the store reads from and writes to.
func (s *DirStore) Dir() string { return s.dir }

func (s *DirStore) Config() (Config, error) {
	var cfg Config
	if err := s.readJSON(configFilename, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: no %s in %q", errNotInitialized, configFilename, s.dir)
		}
		return Config{}, err
	}
	return cfg, nil
}

func (s *DirStore) SaveConfig(cfg Config) error {
	return s.writeJSON(configFilename, cfg)
}

func (s *DirStore) ViewingKey() (string, error) {
	// a dedicated local struct with tag annotation keeps the file format
	// independent from the Go surface.
	var jkey struct {
		Key string `json:"key"`
	}
	if err := s.readJSON(viewingKeyFilename, &jkey); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return jkey.Key, nil
}

func (s *DirStore) SaveViewingKey(key string) error {
	jkey := struct {
		Key string `json:"key"`
	}{Key: key}
	return s.writeJSON(viewingKeyFilename, jkey)
}

func (s *DirStore) LastRefresh() (string, error) {
	var jrefresh struct {
		LastRefresh string `json:"last_refresh"`
	}
	if err := s.readJSON(refreshFilename, &jrefresh); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return jrefresh.LastRefresh, nil
}

func (s *DirStore) SaveLastRefresh(stamp string) error {
	jrefresh := struct {
		LastRefresh string `json:"last_refresh"`
	}{LastRefresh: stamp}
	return s.writeJSON(refreshFilename, jrefresh)
}

func (s *DirStore) AssetList() ([]Address, error) {
	assets, err := s.readAssets()
	if err != nil {
		return nil, err
	}
	addrs := make([]Address, 0, len(assets))
	for _, a := range assets {
		addrs = append(addrs, a.Address())
	}
	return addrs, nil
}

// SaveAssetList reorders assets.jsonl to match the given list. Every address
// must already have a record saved with SaveAsset.
func (s *DirStore) SaveAssetList(list []Address) error {
	assets, err := s.readAssets()
	if err != nil {
		return err
	}
	byAddr := make(map[Address]Asset, len(assets))
	for _, a := range assets {
		byAddr[a.Address()] = a
	}
	ordered := make([]Asset, 0, len(list))
	for _, addr := range list {
		a, ok := byAddr[addr]
		if !ok {
			return fmt.Errorf("cannot list asset %s: no record in %s", addr, assetsFilename)
		}
		ordered = append(ordered, a)
	}
	return s.writeAssets(ordered)
}

func (s *DirStore) Asset(addr Address) (Asset, bool, error) {
	assets, err := s.readAssets()
	if err != nil {
		return Asset{}, false, err
	}
	for _, a := range assets {
		if a.Address() == addr {
			return a, true, nil
		}
	}
	return Asset{}, false, nil
}

// SaveAsset replaces the record for the asset's address in place, or appends
// it at the end of the registry.
func (s *DirStore) SaveAsset(asset Asset) error {
	assets, err := s.readAssets()
	if err != nil {
		return err
	}
	replaced := false
	for i, a := range assets {
		if a.Address() == asset.Address() {
			assets[i] = asset
			replaced = true
			break
		}
	}
	if !replaced {
		assets = append(assets, asset)
	}
	return s.writeAssets(assets)
}

func (s *DirStore) Allocations(addr Address) (Allocations, error) {
	_, byAsset, err := s.readAllocations()
	if err != nil {
		return nil, err
	}
	return byAsset[addr], nil
}

func (s *DirStore) SaveAllocations(addr Address, list Allocations) error {
	order, byAsset, err := s.readAllocations()
	if err != nil {
		return err
	}
	if _, seen := byAsset[addr]; !seen {
		order = append(order, addr)
	}
	byAsset[addr] = list

	filename, err := s.create(allocationsFilename)
	if err != nil {
		return err
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("persist error: cannot create file %q: %w", filename, err)
	}
	defer f.Close()

	for _, asset := range order {
		for _, entry := range byAsset[asset] {
			var w jsonObjectWriter
			w.Append("asset", asset)
			w.EmbedFrom(entry)
			data, err := w.MarshalJSON()
			if err != nil {
				return fmt.Errorf("persist error: cannot marshal allocation for %s: %w", asset, err)
			}
			if _, err := f.Write(append(data, '\n')); err != nil {
				return fmt.Errorf("persist error: cannot write to file %q: %w", filename, err)
			}
		}
	}
	return nil
}

// readAssets parses assets.jsonl, one asset per line, preserving line order.
func (s *DirStore) readAssets() ([]Asset, error) {
	filename := filepath.Join(s.dir, assetsFilename)
	f, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot open %q for reading: %w", filename, err)
	}
	defer f.Close()

	var assets []Asset
	scanner := bufio.NewScanner(f)
	i := 0
	for scanner.Scan() {
		i++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var a Asset
		if err := json.Unmarshal(line, &a); err != nil {
			return nil, fmt.Errorf("format error in %s:%d: %w", filename, i, err)
		}
		assets = append(assets, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %q: %w", filename, err)
	}
	return assets, nil
}

func (s *DirStore) writeAssets(assets []Asset) error {
	filename, err := s.create(assetsFilename)
	if err != nil {
		return err
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("persist error: cannot create file %q: %w", filename, err)
	}
	defer f.Close()

	for _, a := range assets {
		data, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("persist error: cannot marshal asset %s: %w", a.Address(), err)
		}
		if _, err := f.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("persist error: cannot write to file %q: %w", filename, err)
		}
	}
	return nil
}

// readAllocations parses allocations.jsonl into per-asset lists, preserving
// both the per-asset line order and the first-seen order of assets.
func (s *DirStore) readAllocations() (order []Address, byAsset map[Address]Allocations, err error) {
	byAsset = make(map[Address]Allocations)

	filename := filepath.Join(s.dir, allocationsFilename)
	f, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, byAsset, nil
		}
		return nil, nil, fmt.Errorf("cannot open %q for reading: %w", filename, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	i := 0
	for scanner.Scan() {
		i++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var key struct {
			Asset Address `json:"asset"`
		}
		if err := json.Unmarshal(line, &key); err != nil {
			return nil, nil, fmt.Errorf("format error in %s:%d: %w", filename, i, err)
		}
		if key.Asset == "" {
			return nil, nil, fmt.Errorf("format error in %s:%d: missing the property %q", filename, i, "asset")
		}

		entry, err := DecodeAllocation(line)
		if err != nil {
			return nil, nil, fmt.Errorf("format error in %s:%d: %w", filename, i, err)
		}

		if _, seen := byAsset[key.Asset]; !seen {
			order = append(order, key.Asset)
		}
		byAsset[key.Asset] = append(byAsset[key.Asset], entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("error reading %q: %w", filename, err)
	}
	return order, byAsset, nil
}

func (s *DirStore) readJSON(name string, v any) error {
	filename := filepath.Join(s.dir, name)
	content, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(content, v); err != nil {
		return fmt.Errorf("format error in %q: %w", filename, err)
	}
	return nil
}

func (s *DirStore) writeJSON(name string, v any) error {
	filename, err := s.create(name)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("persist error: cannot marshal %q: %w", name, err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("persist error: cannot write file %q: %w", filename, err)
	}
	return nil
}

// create makes sure the state folder exists and returns the full path for name.
func (s *DirStore) create(name string) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("could not create treasury folder %q: %w", s.dir, err)
	}
	return filepath.Join(s.dir, name), nil
}
