package shade

import "fmt"

// Allocations is the ordered allocation list of one asset. Order matters: the
// inbound router walks it front to back, and the monthly refresh reconciles
// allowances in the same order.
type Allocations []Allocation

// Share returns the total portion claimed by the percent-bearing entries.
// Allowance entries contribute nothing.
func (l Allocations) Share() Portion {
	var total Portion
	for _, a := range l {
		total = total.Add(a.Share())
	}
	return total
}

// Upsert returns a new list with entry appended, after removing every
// existing entry keyed on the same target address. The percent-bearing
// entries of the result must claim strictly less than the whole; at the
// bound, Whole-1 passes and Whole fails.
//
// The receiver is left untouched, so a failed upsert cannot corrupt it.
func (l Allocations) Upsert(entry Allocation) (Allocations, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	kept := make(Allocations, 0, len(l)+1)
	for _, a := range l {
		if sameTarget(a, entry) {
			continue
		}
		kept = append(kept, a)
	}

	if total := kept.Share().Add(entry.Share()); total.GreaterThanOrEqual(Whole) {
		return nil, fmt.Errorf("%w: entries would claim %s", ErrAllocationExceedsTotal, total)
	}

	return append(kept, entry), nil
}

// Equal reports whether both lists hold equal entries in the same order.
func (l Allocations) Equal(o Allocations) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if !l[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// sameTarget reports whether two entries are keyed on the same target
// address. Entries without one (reserves) key on each other.
func sameTarget(a, b Allocation) bool {
	at, aok := a.Target()
	bt, bok := b.Target()
	return aok == bok && at == bt
}
