package shade

import (
	"encoding/json"
	"fmt"
)

// Strategy is a typed string identifying what an allocation entry does with
// the funds it claims.
type Strategy string

// Strategies used for identifying allocation entries.
const (
	StrategyReserves    Strategy = "reserves"
	StrategyAllowance   Strategy = "allowance"
	StrategyRewards     Strategy = "rewards"
	StrategyStaking     Strategy = "staking"
	StrategyApplication Strategy = "application"
	StrategyPool        Strategy = "pool"
)

// Allocation is one entry of an asset's allocation list. The list is ordered,
// and holds at most one entry per target address.
type Allocation interface {
	Kind() Strategy // Kind returns the strategy of the entry (e.g. "reserves", "staking").
	// Target returns the counterparty or destination address the entry is
	// keyed on, and false for entries that have none (reserves).
	Target() (Address, bool)
	// Share returns the portion of inbound funds the entry claims.
	// Allowance entries claim none; their amount is reconciled monthly instead.
	Share() Portion
	Equal(Allocation) bool
	Validate() error
}

type baseAlloc struct {
	Strategy Strategy `json:"strategy"` // Strategy specifies the kind of entry (e.g. "reserves", "staking").
}

// Kind returns the strategy name identifying the kind of entry.
func (b baseAlloc) Kind() Strategy {
	return b.Strategy
}

// MarshalJSON implements the json.Marshaler interface for baseAlloc.
func (b baseAlloc) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("strategy", b.Strategy)
	return w.MarshalJSON()
}

// Reserves keeps a portion of inbound funds idle in custody.
type Reserves struct {
	baseAlloc
	Portion Portion `json:"portion"` // Portion is the share of inbound funds left untouched.
}

// NewReserves creates a new Reserves entry.
func NewReserves(portion Portion) Reserves {
	return Reserves{baseAlloc: baseAlloc{Strategy: StrategyReserves}, Portion: portion}
}

// MarshalJSON implements the json.Marshaler interface for Reserves.
func (t Reserves) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseAlloc)
	w.Append("portion", t.Portion)
	return w.MarshalJSON()
}

func (t Reserves) Target() (Address, bool) { return "", false }
func (t Reserves) Share() Portion          { return t.Portion }

func (t Reserves) Equal(other Allocation) bool {
	o, ok := other.(Reserves)
	return ok && t.baseAlloc == o.baseAlloc && t.Portion.Equal(o.Portion)
}

func (t Reserves) Validate() error { return t.Portion.Validate() }

func (t Reserves) String() string { return fmt.Sprintf("reserves %s", t.Portion) }

// Allowance grants a counterparty a spending allowance on the asset,
// reconciled to Amount by the monthly refresh. It claims no share of inbound
// funds.
type Allowance struct {
	baseAlloc
	Spender Address `json:"spender"` // Spender is the counterparty holding the allowance.
	Amount  Amount  `json:"amount"`  // Amount is the target allowance to maintain.
}

// NewAllowance creates a new Allowance entry.
func NewAllowance(spender Address, amount Amount) Allowance {
	return Allowance{baseAlloc: baseAlloc{Strategy: StrategyAllowance}, Spender: spender, Amount: amount}
}

// MarshalJSON implements the json.Marshaler interface for Allowance.
func (t Allowance) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseAlloc)
	w.Append("spender", t.Spender)
	w.Append("amount", t.Amount)
	return w.MarshalJSON()
}

func (t Allowance) Target() (Address, bool) { return t.Spender, true }
func (t Allowance) Share() Portion          { return Portion{} }

func (t Allowance) Equal(other Allocation) bool {
	o, ok := other.(Allowance)
	return ok && t.baseAlloc == o.baseAlloc && t.Spender == o.Spender && t.Amount.Equal(o.Amount)
}

func (t Allowance) Validate() error {
	if err := t.Spender.Validate(); err != nil {
		return fmt.Errorf("allowance spender: %w", err)
	}
	return nil
}

func (t Allowance) String() string {
	return fmt.Sprintf("allowance of %s for %s", t.Amount, t.Spender)
}

// Rewards forwards a portion of inbound funds to a rewards distributor.
type Rewards struct {
	baseAlloc
	Portion  Portion  `json:"portion"`  // Portion is the share of inbound funds forwarded.
	Contract Contract `json:"contract"` // Contract is the distributor receiving the funds.
}

// NewRewards creates a new Rewards entry.
func NewRewards(portion Portion, contract Contract) Rewards {
	return Rewards{baseAlloc: baseAlloc{Strategy: StrategyRewards}, Portion: portion, Contract: contract}
}

// MarshalJSON implements the json.Marshaler interface for Rewards.
func (t Rewards) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseAlloc)
	w.Append("portion", t.Portion)
	w.Append("contract", t.Contract)
	return w.MarshalJSON()
}

func (t Rewards) Target() (Address, bool) { return t.Contract.Address, true }
func (t Rewards) Share() Portion          { return t.Portion }

func (t Rewards) Equal(other Allocation) bool {
	o, ok := other.(Rewards)
	return ok && t.baseAlloc == o.baseAlloc && t.Portion.Equal(o.Portion) && t.Contract == o.Contract
}

func (t Rewards) Validate() error {
	if err := t.Portion.Validate(); err != nil {
		return err
	}
	if err := t.Contract.Validate(); err != nil {
		return fmt.Errorf("rewards contract: %w", err)
	}
	return nil
}

func (t Rewards) String() string {
	return fmt.Sprintf("rewards %s to %s", t.Portion, t.Contract.Address)
}

// Staking forwards a portion of inbound funds to a staking adapter.
type Staking struct {
	baseAlloc
	Portion  Portion  `json:"portion"`  // Portion is the share of inbound funds forwarded.
	Contract Contract `json:"contract"` // Contract is the staking adapter receiving the funds.
}

// NewStaking creates a new Staking entry.
func NewStaking(portion Portion, contract Contract) Staking {
	return Staking{baseAlloc: baseAlloc{Strategy: StrategyStaking}, Portion: portion, Contract: contract}
}

// MarshalJSON implements the json.Marshaler interface for Staking.
func (t Staking) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseAlloc)
	w.Append("portion", t.Portion)
	w.Append("contract", t.Contract)
	return w.MarshalJSON()
}

func (t Staking) Target() (Address, bool) { return t.Contract.Address, true }
func (t Staking) Share() Portion          { return t.Portion }

func (t Staking) Equal(other Allocation) bool {
	o, ok := other.(Staking)
	return ok && t.baseAlloc == o.baseAlloc && t.Portion.Equal(o.Portion) && t.Contract == o.Contract
}

func (t Staking) Validate() error {
	if err := t.Portion.Validate(); err != nil {
		return err
	}
	if err := t.Contract.Validate(); err != nil {
		return fmt.Errorf("staking contract: %w", err)
	}
	return nil
}

func (t Staking) String() string {
	return fmt.Sprintf("staking %s to %s", t.Portion, t.Contract.Address)
}

// Application reserves a portion of custody for a protocol application.
// The portion counts toward the total like any other, but inbound funds are
// not forwarded; the application pulls them through its own allowance flow.
type Application struct {
	baseAlloc
	Portion  Portion  `json:"portion"`
	Contract Contract `json:"contract"` // Contract is the application the portion is reserved for.
	Token    Contract `json:"token"`    // Token is the asset the application operates on.
}

// NewApplication creates a new Application entry.
func NewApplication(portion Portion, contract, token Contract) Application {
	return Application{baseAlloc: baseAlloc{Strategy: StrategyApplication}, Portion: portion, Contract: contract, Token: token}
}

// MarshalJSON implements the json.Marshaler interface for Application.
func (t Application) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseAlloc)
	w.Append("portion", t.Portion)
	w.Append("contract", t.Contract)
	w.Append("token", t.Token)
	return w.MarshalJSON()
}

func (t Application) Target() (Address, bool) { return t.Contract.Address, true }
func (t Application) Share() Portion          { return t.Portion }

func (t Application) Equal(other Allocation) bool {
	o, ok := other.(Application)
	return ok && t.baseAlloc == o.baseAlloc && t.Portion.Equal(o.Portion) &&
		t.Contract == o.Contract && t.Token == o.Token
}

func (t Application) Validate() error {
	if err := t.Portion.Validate(); err != nil {
		return err
	}
	if err := t.Contract.Validate(); err != nil {
		return fmt.Errorf("application contract: %w", err)
	}
	if err := t.Token.Validate(); err != nil {
		return fmt.Errorf("application token: %w", err)
	}
	return nil
}

func (t Application) String() string {
	return fmt.Sprintf("application %s to %s", t.Portion, t.Contract.Address)
}

// Pool reserves a portion of custody for a liquidity pool pairing the asset
// with a secondary one. Like Application, the portion counts toward the total
// but inbound funds are not forwarded.
type Pool struct {
	baseAlloc
	Portion        Portion  `json:"portion"`
	Contract       Contract `json:"contract"`        // Contract is the pool the portion is reserved for.
	SecondaryAsset Contract `json:"secondary_asset"` // SecondaryAsset is the other side of the pair.
	Token          Contract `json:"token"`           // Token is the pool's liquidity token.
}

// NewPool creates a new Pool entry.
func NewPool(portion Portion, contract, secondaryAsset, token Contract) Pool {
	return Pool{baseAlloc: baseAlloc{Strategy: StrategyPool}, Portion: portion, Contract: contract, SecondaryAsset: secondaryAsset, Token: token}
}

// MarshalJSON implements the json.Marshaler interface for Pool.
func (t Pool) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseAlloc)
	w.Append("portion", t.Portion)
	w.Append("contract", t.Contract)
	w.Append("secondary_asset", t.SecondaryAsset)
	w.Append("token", t.Token)
	return w.MarshalJSON()
}

func (t Pool) Target() (Address, bool) { return t.Contract.Address, true }
func (t Pool) Share() Portion          { return t.Portion }

func (t Pool) Equal(other Allocation) bool {
	o, ok := other.(Pool)
	return ok && t.baseAlloc == o.baseAlloc && t.Portion.Equal(o.Portion) &&
		t.Contract == o.Contract && t.SecondaryAsset == o.SecondaryAsset && t.Token == o.Token
}

func (t Pool) Validate() error {
	if err := t.Portion.Validate(); err != nil {
		return err
	}
	if err := t.Contract.Validate(); err != nil {
		return fmt.Errorf("pool contract: %w", err)
	}
	if err := t.SecondaryAsset.Validate(); err != nil {
		return fmt.Errorf("pool secondary asset: %w", err)
	}
	if err := t.Token.Validate(); err != nil {
		return fmt.Errorf("pool token: %w", err)
	}
	return nil
}

func (t Pool) String() string {
	return fmt.Sprintf("pool %s to %s", t.Portion, t.Contract.Address)
}

// DecodeAllocation decodes a single allocation entry from its JSON form,
// dispatching on the "strategy" discriminator.
func DecodeAllocation(data []byte) (Allocation, error) {
	var identifier struct {
		Strategy Strategy `json:"strategy"`
	}
	if err := json.Unmarshal(data, &identifier); err != nil {
		return nil, fmt.Errorf("could not identify strategy in %q: %w", string(data), err)
	}

	var decoded Allocation
	var err error

	switch identifier.Strategy {
	case StrategyReserves:
		var a Reserves
		err = json.Unmarshal(data, &a)
		decoded = a
	case StrategyAllowance:
		var a Allowance
		err = json.Unmarshal(data, &a)
		decoded = a
	case StrategyRewards:
		var a Rewards
		err = json.Unmarshal(data, &a)
		decoded = a
	case StrategyStaking:
		var a Staking
		err = json.Unmarshal(data, &a)
		decoded = a
	case StrategyApplication:
		var a Application
		err = json.Unmarshal(data, &a)
		decoded = a
	case StrategyPool:
		var a Pool
		err = json.Unmarshal(data, &a)
		decoded = a
	default:
		err = fmt.Errorf("unknown allocation strategy: %q", identifier.Strategy)
	}

	if err != nil {
		return nil, err
	}
	return decoded, nil
}
