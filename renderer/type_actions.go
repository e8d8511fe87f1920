package renderer

import "github.com/chris-ricketts/shade"

// ActionReport is the render model for the outbound actions an operation
// emitted.
type ActionReport struct {
	Actions []ActionView `json:"actions"`
}

// ActionView is the render model for a single outbound action.
type ActionView struct {
	Contract string `json:"contract"`
	Kind     string `json:"kind"`
	Payload  string `json:"payload"`
}

// NewActionReport prepares emitted actions for rendering, in submission
// order.
func NewActionReport(actions []shade.Action) *ActionReport {
	r := &ActionReport{Actions: make([]ActionView, 0, len(actions))}
	for _, a := range actions {
		r.Actions = append(r.Actions, ActionView{
			Contract: string(a.Contract.Address),
			Kind:     a.Kind,
			Payload:  string(a.Payload),
		})
	}
	return r
}
