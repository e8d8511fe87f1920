package shade

import (
	"fmt"

	"github.com/Rhymond/go-money"
)

// TokenInfo is the on-chain metadata of a token contract, fetched once at
// registration time.
type TokenInfo struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"` // Decimals converts base units to display units (6 for uSCRT).
}

// currency returns the go-money currency for this token, registering it on
// first use. Token symbols are not ISO codes, so go-money does not know them.
func (t TokenInfo) currency() *money.Currency {
	if c := money.GetCurrency(t.Symbol); c != nil && c.Fraction == int(t.Decimals) {
		return c
	}
	return money.AddCurrency(t.Symbol, t.Symbol, "1 $", ".", ",", int(t.Decimals))
}

// Display renders a base-unit amount as a human amount of this token,
// e.g. "12.50000000 SHD".
func (t TokenInfo) Display(a Amount) string {
	cur := t.currency()
	if big := a.value.BigInt(); big.IsInt64() {
		return cur.Formatter().Format(big.Int64())
	}
	// Beyond int64 base units the formatter overflows; shifting the exponent
	// is exact and keeps all digits.
	return a.value.Shift(-int32(t.Decimals)).String() + " " + t.Symbol
}

// Asset is the registry record of one token held in custody.
type Asset struct {
	Contract Contract  `json:"contract"`
	Token    TokenInfo `json:"token_info"`
}

// Address returns the token contract address the asset is keyed on.
func (a Asset) Address() Address { return a.Contract.Address }

func (a Asset) String() string {
	return fmt.Sprintf("%s (%s)", a.Token.Symbol, a.Contract.Address)
}
