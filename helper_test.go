package shade

import (
	"fmt"
	"testing"
	"time"
)

// A consistent cast of accounts and contracts for the package tests.
var (
	testAdmin    = Address("secret1e9cq8yyuzhjmsdfqvnd5rkkrp6zm8jl2wnt9jt")
	testStranger = Address("secret1stranger00000000000000000000000000000")
	testSelf     = Address("secret1vfr9vwry279nzc3hdcs3h9qxasgem4p4mdcqsm")
	testToken    = Address("secret1qfql357amn448duf5gvp9gr48sxx9tsnhupu3d")
	testSilk     = Address("secret1fl449muk5yy8dh02gkvpjqxwcm2vrf8aymsqvc")
	testStaking  = Address("secret1097qanm2mfk0jeyksl72qxwcm598dg3yqtq66s")
	testRewards  = Address("secret1s563vdxsmjwsey7nt2r695escyku8gd60keule")
	testSpender  = Address("secret159rmexcq0f8c7ge0aqz8vr76vcgr7y3funqkf2")

	testHash      = "af74387e276be8874f07bec3a87023ee49b0e7ebe08178c49d0a49c3c98ed60e"
	testTokenHash = "5266a1a6a2a5e8b00bd24b60d2b54f4dc71a1ac65e69b5b4e85b6a17b0bb8f27"

	selfContract    = Contract{Address: testSelf, CodeHash: testHash}
	tokenContract   = Contract{Address: testToken, CodeHash: testTokenHash}
	silkContract    = Contract{Address: testSilk, CodeHash: testTokenHash}
	stakingContract = Contract{Address: testStaking, CodeHash: testHash}
	rewardsContract = Contract{Address: testRewards, CodeHash: testHash}
)

// testInitTime seeds stores mid-January, so a February refresh is due and a
// January one is not.
var testInitTime = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

// fakeQuerier scripts the token queries operations depend on. A set err
// fails every query; calls counts them.
type fakeQuerier struct {
	infos      map[Address]TokenInfo
	balances   map[Address]Amount
	allowances map[string]Amount // keyed by token/spender
	err        error
	calls      int
}

func allowanceKey(token, spender Address) string {
	return string(token) + "/" + string(spender)
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		infos: map[Address]TokenInfo{
			testToken: {Name: "Shade", Symbol: "SHD", Decimals: 8},
			testSilk:  {Name: "Silk", Symbol: "SILK", Decimals: 6},
		},
		balances:   map[Address]Amount{},
		allowances: map[string]Amount{},
	}
}

func (q *fakeQuerier) TokenInfo(token Contract) (TokenInfo, error) {
	q.calls++
	if q.err != nil {
		return TokenInfo{}, q.err
	}
	info, ok := q.infos[token.Address]
	if !ok {
		return TokenInfo{}, fmt.Errorf("%w: unknown token %s", ErrUnexpectedResponse, token.Address)
	}
	return info, nil
}

func (q *fakeQuerier) Balance(token Contract, owner Address, key string) (Amount, error) {
	q.calls++
	if q.err != nil {
		return Amount{}, q.err
	}
	return q.balances[token.Address], nil
}

func (q *fakeQuerier) Allowance(token Contract, owner, spender Address, key string) (Amount, error) {
	q.calls++
	if q.err != nil {
		return Amount{}, q.err
	}
	return q.allowances[allowanceKey(token.Address, spender)], nil
}

// newTestTreasury seeds a fresh in-memory treasury, initialized but with no
// assets registered yet.
func newTestTreasury(t *testing.T) (*Treasury, *MemStore, *fakeQuerier) {
	t.Helper()
	store := NewMemStore()
	q := newFakeQuerier()
	cfg := Config{Admin: testAdmin, Self: selfContract}
	if err := Init(store, cfg, "vk-test", testInitTime); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return New(store, q), store, q
}

// registerTestAsset registers the SHD token with a 20% reserves seed.
func registerTestAsset(t *testing.T, tre *Treasury) {
	t.Helper()
	reserves := MustPortion("20%")
	if _, err := tre.RegisterAsset(testAdmin, tokenContract, &reserves); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
