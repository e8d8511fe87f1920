package shade

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var (
	testShdAsset  = Asset{Contract: tokenContract, Token: TokenInfo{Name: "Shade", Symbol: "SHD", Decimals: 8}}
	testSilkAsset = Asset{Contract: silkContract, Token: TokenInfo{Name: "Silk", Symbol: "SILK", Decimals: 6}}
)

func TestDirStoreInit(t *testing.T) {
	store := OpenDir(filepath.Join(t.TempDir(), "treasury"))

	if _, err := store.Config(); !errors.Is(err, errNotInitialized) {
		t.Errorf("error = %v, want errNotInitialized", err)
	}
	// Missing optional files read as empty, not as errors.
	if key, err := store.ViewingKey(); err != nil || key != "" {
		t.Errorf("ViewingKey() = %q, %v", key, err)
	}
	if stamp, err := store.LastRefresh(); err != nil || stamp != "" {
		t.Errorf("LastRefresh() = %q, %v", stamp, err)
	}

	cfg := Config{Admin: testAdmin, Self: selfContract}
	if err := Init(store, cfg, "vk-dir", testInitTime); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Config()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != cfg {
		t.Errorf("config = %v, want %v", got, cfg)
	}
	if key, _ := store.ViewingKey(); key != "vk-dir" {
		t.Errorf("viewing key = %q", key)
	}
	if stamp, _ := store.LastRefresh(); stamp != "2026-01-15T12:00:00Z" {
		t.Errorf("last refresh = %q", stamp)
	}
}

func TestDirStoreAssets(t *testing.T) {
	store := OpenDir(t.TempDir())

	if err := store.SaveAsset(testShdAsset); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.SaveAsset(testSilkAsset); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := store.AssetList()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0] != testToken || list[1] != testSilk {
		t.Errorf("list = %v, want SHD then SILK", list)
	}

	// Saving an existing address replaces the record in place.
	renamed := testShdAsset
	renamed.Token.Name = "Shade v2"
	if err := store.SaveAsset(renamed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, known, err := store.Asset(testToken)
	if err != nil || !known {
		t.Fatalf("asset lost after resave: %v %v", known, err)
	}
	if rec.Token.Name != "Shade v2" {
		t.Errorf("record = %+v", rec)
	}
	if list, _ := store.AssetList(); len(list) != 2 || list[0] != testToken {
		t.Errorf("resave changed the order: %v", list)
	}

	// SaveAssetList reorders the file.
	if err := store.SaveAssetList([]Address{testSilk, testToken}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list, _ := store.AssetList(); list[0] != testSilk || list[1] != testToken {
		t.Errorf("reordered list = %v", list)
	}

	// Listing an address with no record is refused.
	if err := store.SaveAssetList([]Address{testStranger}); err == nil {
		t.Errorf("listing an unknown address should fail")
	}

	if _, known, err := store.Asset(testStranger); err != nil || known {
		t.Errorf("Asset(stranger) = %v, %v", known, err)
	}
}

func TestDirStoreAllocations(t *testing.T) {
	dir := t.TempDir()
	store := OpenDir(dir)

	shdList := Allocations{
		NewReserves(MustPortion("20%")),
		NewStaking(MustPortion("40%"), stakingContract),
	}
	silkList := Allocations{NewAllowance(testSpender, U(500))}

	if err := store.SaveAllocations(testToken, shdList); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.SaveAllocations(testSilk, silkList); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Replacing one asset's list leaves the other and the grouping intact.
	shdList = append(shdList, NewRewards(MustPortion("10%"), rewardsContract))
	if err := store.SaveAllocations(testToken, shdList); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Allocations(testToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(shdList) {
		t.Errorf("SHD list = %v, want %v", got, shdList)
	}
	got, err = store.Allocations(testSilk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(silkList) {
		t.Errorf("SILK list = %v, want %v", got, silkList)
	}

	// On disk the lines stay grouped by asset, in first-seen order.
	content, err := os.ReadFile(filepath.Join(dir, "allocations.jsonl"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	wantPrefixes := []string{
		`{"asset":"` + string(testToken) + `"`,
		`{"asset":"` + string(testToken) + `"`,
		`{"asset":"` + string(testToken) + `"`,
		`{"asset":"` + string(testSilk) + `"`,
	}
	if len(lines) != len(wantPrefixes) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(wantPrefixes), content)
	}
	for i, line := range lines {
		if !strings.HasPrefix(line, wantPrefixes[i]) {
			t.Errorf("line %d = %s, want prefix %s", i+1, line, wantPrefixes[i])
		}
	}
}

func TestDirStoreFormatErrors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		read     func(s *DirStore) error
		want     string
	}{
		{
			name:     "corrupt asset line",
			filename: "assets.jsonl",
			content:  `{"contract":{"address":"` + string(testToken) + `","code_hash":"` + testTokenHash + `"},"token_info":{"name":"Shade","symbol":"SHD","decimals":8}}` + "\nnot json\n",
			read: func(s *DirStore) error {
				_, err := s.AssetList()
				return err
			},
			want: ":2:",
		},
		{
			name:     "allocation line without asset",
			filename: "allocations.jsonl",
			content:  `{"strategy":"reserves","portion":"200000000000000000"}` + "\n",
			read: func(s *DirStore) error {
				_, err := s.Allocations(testToken)
				return err
			},
			want: `missing the property "asset"`,
		},
		{
			name:     "allocation line with unknown strategy",
			filename: "allocations.jsonl",
			content:  `{"asset":"` + string(testToken) + `","strategy":"lending"}` + "\n",
			read: func(s *DirStore) error {
				_, err := s.Allocations(testToken)
				return err
			},
			want: ":1:",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, tt.filename), []byte(tt.content), 0644); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			err := tt.read(OpenDir(dir))
			if err == nil {
				t.Fatalf("reading should fail")
			}
			if !strings.Contains(err.Error(), "format error in") || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want a format error mentioning %q", err, tt.want)
			}
		})
	}
}
