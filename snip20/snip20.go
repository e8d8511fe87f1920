// Package snip20 queries fungible token contracts through a JSON HTTP
// gateway.
//
// The gateway exposes one endpoint per contract, POST /query/{address},
// accepting the token's canonical query message and answering with the
// token's canonical response. Token balances and allowances are private,
// so those queries authenticate with the owner's viewing key.
package snip20

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/chris-ricketts/shade"
)

// Client queries token contracts on behalf of a treasury. It implements
// shade.Querier.
type Client struct {
	base   string // gateway base URL, without trailing slash
	key    string // gateway API key, empty to send none
	client *http.Client
}

// New returns a Client speaking to the gateway at base,
// e.g. "https://lcd.secret.example". Responses are cached on disk and
// expire daily, so repeated invocations within a day do not re-hit the
// gateway. An empty apiKey sends no Authorization header.
func New(base, apiKey string) *Client {
	return &Client{
		base:   strings.TrimRight(base, "/"),
		key:    apiKey,
		client: newDailyCachingClient(),
	}
}

// TokenInfo fetches the token's public metadata.
func (c *Client) TokenInfo(token shade.Contract) (shade.TokenInfo, error) {
	// sample of response:
	// {
	//     "token_info": {
	//         "name": "Shade",
	//         "symbol": "SHD",
	//         "decimals": 8,
	//         "total_supply": "1815576038281013"
	//     }
	// }
	jobj, err := c.query(token, `{"token_info": {}}`)
	if err != nil {
		return shade.TokenInfo{}, err
	}
	name, err := pathString(jobj, "$.token_info.name")
	if err != nil {
		return shade.TokenInfo{}, err
	}
	symbol, err := pathString(jobj, "$.token_info.symbol")
	if err != nil {
		return shade.TokenInfo{}, err
	}
	decimals, err := pathNumber(jobj, "$.token_info.decimals")
	if err != nil {
		return shade.TokenInfo{}, err
	}
	return shade.TokenInfo{Name: name, Symbol: symbol, Decimals: uint8(decimals)}, nil
}

// Balance fetches owner's balance of the token, authenticated with owner's
// viewing key.
func (c *Client) Balance(token shade.Contract, owner shade.Address, key string) (shade.Amount, error) {
	// sample of response:
	// {
	//     "balance": {
	//         "amount": "123456789"
	//     }
	// }
	msg := fmt.Sprintf(`{"balance": {"address": %q, "key": %q}}`, owner, key)
	jobj, err := c.query(token, msg)
	if err != nil {
		return shade.Amount{}, err
	}
	return pathAmount(jobj, "$.balance.amount")
}

// Allowance fetches the allowance owner currently grants to spender on the
// token, authenticated with owner's viewing key.
func (c *Client) Allowance(token shade.Contract, owner, spender shade.Address, key string) (shade.Amount, error) {
	// sample of response:
	// {
	//     "allowance": {
	//         "owner": "secret1...",
	//         "spender": "secret1...",
	//         "allowance": "500",
	//         "expiration": null
	//     }
	// }
	msg := fmt.Sprintf(`{"allowance": {"owner": %q, "spender": %q, "key": %q}}`, owner, spender, key)
	jobj, err := c.query(token, msg)
	if err != nil {
		return shade.Amount{}, err
	}
	return pathAmount(jobj, "$.allowance.allowance")
}

// query posts msg to the gateway endpoint for the given contract and decodes
// the JSON answer.
func (c *Client) query(token shade.Contract, msg string) (any, error) {
	addr := c.base + "/query/" + string(token.Address)
	data, err := wpost(c.client, addr, c.key, []byte(msg))
	if err != nil {
		return nil, err
	}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", shade.ErrUnexpectedResponse, err)
	}
	return jobj, nil
}

// pathString extracts the string at path in jobj.
func pathString(jobj any, path string) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", shade.ErrUnexpectedResponse, path, err)
	}
	// jsonpath is never clear about whether it returns a list of one answer
	// or a single answer, so keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	s, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q holds %v, not a string", shade.ErrUnexpectedResponse, path, jval)
	}
	return s, nil
}

// pathNumber extracts the number at path in jobj.
func pathNumber(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", shade.ErrUnexpectedResponse, path, err)
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: %q holds %v, not a number", shade.ErrUnexpectedResponse, path, jval)
	}
	return val, nil
}

// pathAmount extracts the string-encoded token amount at path in jobj.
func pathAmount(jobj any, path string) (shade.Amount, error) {
	s, err := pathString(jobj, path)
	if err != nil {
		return shade.Amount{}, err
	}
	amount, err := shade.ParseAmount(s)
	if err != nil {
		return shade.Amount{}, fmt.Errorf("%w: %q: %v", shade.ErrUnexpectedResponse, path, err)
	}
	return amount, nil
}
