package shade

import (
	"encoding/json"
	"fmt"
)

// Action is an outbound intent addressed to a token contract. Operations
// return actions instead of performing transfers; the caller submits them to
// the chain in the order returned, or not at all.
type Action struct {
	Contract Contract        `json:"contract"` // Contract is the token the message is addressed to.
	Kind     string          `json:"kind"`     // Kind names the message, e.g. "send".
	Payload  json.RawMessage `json:"payload"`  // Payload is the canonical token-contract message.
}

func (a Action) String() string {
	return fmt.Sprintf("%s %s %s", a.Contract.Address, a.Kind, a.Payload)
}

// newAction wraps a message body under its canonical name.
func newAction(token Contract, name string, body *jsonObjectWriter) (Action, error) {
	var w jsonObjectWriter
	w.Append(name, body)
	payload, err := w.MarshalJSON()
	if err != nil {
		return Action{}, fmt.Errorf("could not build %s message for %s: %w", name, token.Address, err)
	}
	return Action{Contract: token, Kind: name, Payload: payload}, nil
}

// NewSendAction moves amount out of custody to the recipient.
func NewSendAction(token Contract, recipient Address, amount Amount) (Action, error) {
	var body jsonObjectWriter
	body.Append("recipient", recipient)
	body.Append("amount", amount)
	return newAction(token, "send", &body)
}

// NewSubscriptionAction subscribes the treasury to the token's inbound
// transfer callbacks. codeHash is the treasury's own code hash, which the
// token needs to call back.
func NewSubscriptionAction(token Contract, codeHash string) (Action, error) {
	var body jsonObjectWriter
	body.Append("code_hash", codeHash)
	return newAction(token, "register_receive", &body)
}

// NewViewingKeyAction sets the credential the treasury presents when querying
// its own balance and allowances on the token.
func NewViewingKeyAction(token Contract, key string) (Action, error) {
	var body jsonObjectWriter
	body.Append("key", key)
	return newAction(token, "set_viewing_key", &body)
}

// NewIncreaseAllowanceAction raises the spender's allowance by amount, with
// an optional expiration (unix seconds).
func NewIncreaseAllowanceAction(token Contract, spender Address, amount Amount, expiration *uint64) (Action, error) {
	var body jsonObjectWriter
	body.Append("spender", spender)
	body.Append("amount", amount)
	body.Optional("expiration", expiration)
	return newAction(token, "increase_allowance", &body)
}

// NewDecreaseAllowanceAction lowers the spender's allowance by amount.
func NewDecreaseAllowanceAction(token Contract, spender Address, amount Amount) (Action, error) {
	var body jsonObjectWriter
	body.Append("spender", spender)
	body.Append("amount", amount)
	return newAction(token, "decrease_allowance", &body)
}
