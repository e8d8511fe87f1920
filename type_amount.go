package shade

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal.
// Token base units are integers, so floats are deliberately not accepted.
func newDecimal[T int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Amount is a quantity of a token expressed in its base units (the
// u-denomination, e.g. uSHD). It is a non-negative integer of arbitrary size.
type Amount struct {
	value decimal.Decimal
}

func U[T int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Amount {
	return Amount{value: newDecimal(value)}
}

// ParseAmount parses a base-unit amount from its decimal string form.
func ParseAmount(s string) (Amount, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !v.IsInteger() {
		return Amount{}, fmt.Errorf("invalid amount %q: base units are integers", s)
	}
	if v.IsNegative() {
		return Amount{}, fmt.Errorf("invalid amount %q: must not be negative", s)
	}
	return Amount{value: v}, nil
}

func (a Amount) Equal(n Amount) bool              { return a.value.Equal(n.value) }
func (a Amount) LessThan(n Amount) bool           { return a.value.LessThan(n.value) }
func (a Amount) GreaterThan(n Amount) bool        { return a.value.GreaterThan(n.value) }
func (a Amount) GreaterThanOrEqual(n Amount) bool { return a.value.GreaterThanOrEqual(n.value) }
func (a Amount) IsZero() bool                     { return a.value.IsZero() }
func (a Amount) Add(n Amount) Amount              { return Amount{value: a.value.Add(n.value)} }

// Sub returns a-n. The caller must ensure n is not greater than a; amounts
// never go negative.
func (a Amount) Sub(n Amount) Amount { return Amount{value: a.value.Sub(n.value)} }

func (a Amount) String() string { return a.value.String() }

// MarshalJSON encodes the amount as a decimal string, the canonical wire form
// for 128-bit token amounts.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.value.String())
}

// UnmarshalJSON accepts both the canonical string form and a bare number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
