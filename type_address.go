package shade

import (
	"fmt"
	"regexp"
)

// addressRegex checks the basic bech32 shape: a lowercase prefix, the '1'
// separator, and a data part in the bech32 charset.
var addressRegex = regexp.MustCompile(`^[a-z]{2,10}1[ac-hj-np-z02-9]{6,80}$`)

// codeHashRegex checks for a hex-encoded sha256 digest.
var codeHashRegex = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// Address is an account identifier on the host chain, in bech32 form
// (e.g. "secret1k0jntykt7e4g3y88ltc60czgjuqdy4c9e8fzek").
//
// The zero value means "no address".
type Address string

// ParseAddress validates the bech32 shape of s. It does not verify the checksum.
func ParseAddress(s string) (Address, error) {
	if !addressRegex.MatchString(s) {
		return "", fmt.Errorf("invalid address %q", s)
	}
	return Address(s), nil
}

func (a Address) String() string { return string(a) }

// Validate checks that the address has the expected bech32 shape.
func (a Address) Validate() error {
	_, err := ParseAddress(string(a))
	return err
}

// Contract references a token or protocol contract: its account address plus
// the code hash callers must present when sending it messages.
type Contract struct {
	Address  Address `json:"address"`
	CodeHash string  `json:"code_hash"`
}

// NewContract creates a validated Contract reference.
func NewContract(address Address, codeHash string) (Contract, error) {
	c := Contract{Address: address, CodeHash: codeHash}
	if err := c.Validate(); err != nil {
		return Contract{}, err
	}
	return c, nil
}

// Validate checks the address shape and the code hash format.
func (c Contract) Validate() error {
	if err := c.Address.Validate(); err != nil {
		return err
	}
	if !codeHashRegex.MatchString(c.CodeHash) {
		return fmt.Errorf("invalid code hash %q for contract %s", c.CodeHash, c.Address)
	}
	return nil
}

func (c Contract) String() string { return string(c.Address) }
