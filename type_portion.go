package shade

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// portionScale is the fixed-point denominator: 10^18 represents the whole.
var portionScale = decimal.New(1, 18)

// Portion is a fixed-point fraction of a whole. It is stored as an integer
// numerator over 10^18, so 400000000000000000 is 40%.
//
// Splitting an Amount with Of is exact: multiply first, then divide by 10^18
// truncating toward zero. Nothing is ever created by rounding.
type Portion struct {
	value decimal.Decimal
}

// Whole is the Portion representing 100%.
var Whole = Portion{value: portionScale}

func P[T int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](numerator T) Portion {
	return Portion{value: newDecimal(numerator)}
}

// ParsePortion parses the human forms used on the command line:
//
//	"40%"                  a percentage
//	"0.4"                  a decimal fraction of the whole
//	"400000000000000000"   a raw 10^-18 numerator
//
// The result must land on an integer numerator between 0 and Whole.
func ParsePortion(s string) (Portion, error) {
	s = strings.TrimSpace(s)
	var numerator decimal.Decimal
	switch {
	case strings.HasSuffix(s, "%"):
		pct, err := decimal.NewFromString(strings.TrimSpace(strings.TrimSuffix(s, "%")))
		if err != nil {
			return Portion{}, fmt.Errorf("invalid portion %q: %w", s, err)
		}
		numerator = pct.Shift(16)
	case strings.Contains(s, "."):
		frac, err := decimal.NewFromString(s)
		if err != nil {
			return Portion{}, fmt.Errorf("invalid portion %q: %w", s, err)
		}
		numerator = frac.Shift(18)
	default:
		raw, err := decimal.NewFromString(s)
		if err != nil {
			return Portion{}, fmt.Errorf("invalid portion %q: %w", s, err)
		}
		numerator = raw
	}
	if !numerator.IsInteger() {
		return Portion{}, fmt.Errorf("invalid portion %q: finer than 18 decimal places", s)
	}
	p := Portion{value: numerator}
	if err := p.Validate(); err != nil {
		return Portion{}, err
	}
	return p, nil
}

// MustPortion is ParsePortion for constants; it panics on invalid input.
func MustPortion(s string) Portion {
	p, err := ParsePortion(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate checks that the numerator is an integer within [0, Whole].
func (p Portion) Validate() error {
	if !p.value.IsInteger() {
		return fmt.Errorf("invalid portion %s: numerator must be an integer", p.value)
	}
	if p.value.IsNegative() {
		return fmt.Errorf("invalid portion %s: must not be negative", p)
	}
	if p.value.GreaterThan(portionScale) {
		return fmt.Errorf("invalid portion %s: above 100%%", p)
	}
	return nil
}

func (p Portion) Equal(o Portion) bool              { return p.value.Equal(o.value) }
func (p Portion) LessThan(o Portion) bool           { return p.value.LessThan(o.value) }
func (p Portion) GreaterThan(o Portion) bool        { return p.value.GreaterThan(o.value) }
func (p Portion) GreaterThanOrEqual(o Portion) bool { return p.value.GreaterThanOrEqual(o.value) }
func (p Portion) IsZero() bool                      { return p.value.IsZero() }
func (p Portion) Add(o Portion) Portion             { return Portion{value: p.value.Add(o.value)} }

// Sub returns p-o. The caller must ensure o is not greater than p; portions
// never go negative.
func (p Portion) Sub(o Portion) Portion { return Portion{value: p.value.Sub(o.value)} }

// Of returns the portion of the given amount, truncating toward zero.
func (p Portion) Of(a Amount) Amount {
	q, _ := p.value.Mul(a.value).QuoRem(portionScale, 0)
	return Amount{value: q}
}

// Numerator returns the raw 10^-18 numerator as a decimal string.
func (p Portion) Numerator() string { return p.value.String() }

// String renders the portion as a percentage, e.g. "40%" or "12.5%".
// Shift only moves the exponent, so the conversion is exact.
func (p Portion) String() string {
	return p.value.Shift(-16).String() + "%"
}

// MarshalJSON encodes the raw numerator as a decimal string, like Amount.
func (p Portion) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.value.String())
}

// UnmarshalJSON accepts the numerator as a string or a bare number.
func (p *Portion) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	v, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid portion %q: %w", s, err)
	}
	parsed := Portion{value: v}
	if err := parsed.Validate(); err != nil {
		return err
	}
	*p = parsed
	return nil
}
