package renderer

import (
	"github.com/chris-ricketts/shade"
)

// Status is the render model for the whole treasury: who runs it, where it
// lives, and a summary of every registered asset.
// Values are pre-formatted strings so templates stay trivial and fixtures can
// state the expected output directly.
type Status struct {

	// Admin is the address allowed to mutate the treasury.
	Admin string `json:"admin"`
	// Self is the treasury's own contract address.
	Self string `json:"self"`
	// Assets lists every registered asset in registry order.
	Assets []AssetView `json:"assets"`
}

// AssetView is the render model for one registered asset and its allocation
// list.
type AssetView struct {
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
	Address string `json:"address"`
	// Balance is the formatted custody balance, empty when the balance query
	// failed.
	Balance string `json:"balance,omitempty"`
	// Claimed is the percentage of inflows claimed by the allocation list.
	Claimed string `json:"claimed"`
	// Unallocated is the percentage no entry claims.
	Unallocated string `json:"unallocated"`
	// Entries lists the allocation entries in list order.
	Entries []EntryView `json:"entries"`
}

// EntryView is the render model for a single allocation entry.
type EntryView struct {
	Strategy string `json:"strategy"`
	Target   string `json:"target,omitempty"`
	Share    string `json:"share,omitempty"`
	Amount   string `json:"amount,omitempty"`
}

// NewStatus collects the whole treasury state for rendering.
func NewStatus(t *shade.Treasury) (*Status, error) {
	cfg, err := t.Config()
	if err != nil {
		return nil, err
	}
	assets, err := t.Assets()
	if err != nil {
		return nil, err
	}

	s := &Status{
		Admin:  string(cfg.Admin),
		Self:   string(cfg.Self.Address),
		Assets: make([]AssetView, 0, len(assets)),
	}
	for _, a := range assets {
		av, err := NewAssetView(t, a)
		if err != nil {
			return nil, err
		}
		s.Assets = append(s.Assets, *av)
	}
	return s, nil
}

// NewAssetView collects one asset's allocation state for rendering. The
// balance is best effort: a failing balance query leaves the column empty
// rather than failing the report.
func NewAssetView(t *shade.Treasury, a shade.Asset) (*AssetView, error) {
	list, err := t.Allocations(a.Address())
	if err != nil {
		return nil, err
	}

	claimed := list.Share()
	av := &AssetView{
		Symbol:      a.Token.Symbol,
		Name:        a.Token.Name,
		Address:     string(a.Address()),
		Claimed:     claimed.String(),
		Unallocated: shade.Whole.Sub(claimed).String(),
		Entries:     make([]EntryView, 0, len(list)),
	}
	if balance, err := t.Balance(a.Address()); err == nil {
		av.Balance = a.Token.Display(balance)
	}

	for _, entry := range list {
		ev := EntryView{Strategy: string(entry.Kind())}
		if target, ok := entry.Target(); ok {
			ev.Target = string(target)
		}
		if grant, ok := entry.(shade.Allowance); ok {
			ev.Amount = a.Token.Display(grant.Amount)
		} else {
			ev.Share = entry.Share().String()
		}
		av.Entries = append(av.Entries, ev)
	}
	return av, nil
}
