package shade

import (
	"errors"
	"testing"
	"time"
)

func TestMonthKey(t *testing.T) {
	dec := time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC)
	jan := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	if monthKey(jan) != monthKey(dec)+1 {
		t.Errorf("January should succeed December across the year boundary: %d, %d", monthKey(dec), monthKey(jan))
	}
	if monthKey(jan) != monthKey(jan.Add(30*24*time.Hour-time.Minute)) {
		t.Errorf("the whole of January should share one key")
	}
}

func TestRefreshMonthGate(t *testing.T) {
	tre, store, _ := newTestTreasury(t)

	// Same calendar month as the init stamp, even on the last day.
	sameMonth := time.Date(2026, time.January, 31, 23, 0, 0, 0, time.UTC)
	if _, err := tre.RefreshAllowances(sameMonth); !errors.Is(err, ErrRefreshTooRecent) {
		t.Errorf("error = %v, want ErrRefreshTooRecent", err)
	}

	// Next month is due. An empty registry still advances the stamp.
	feb := time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC)
	actions, err := tre.RefreshAllowances(feb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 0 {
		t.Errorf("empty registry produced actions: %v", actions)
	}
	stamp, _ := store.LastRefresh()
	if want := "2026-02-01T09:00:00Z"; stamp != want {
		t.Errorf("stamp = %q, want %q", stamp, want)
	}

	// And the gate closes again for the rest of February.
	later := time.Date(2026, time.February, 28, 12, 0, 0, 0, time.UTC)
	if _, err := tre.RefreshAllowances(later); !errors.Is(err, ErrRefreshTooRecent) {
		t.Errorf("error = %v, want ErrRefreshTooRecent", err)
	}

	// A clock rolled back before the stamp is rejected too, not re-run.
	rollback := time.Date(2025, time.December, 10, 0, 0, 0, 0, time.UTC)
	if _, err := tre.RefreshAllowances(rollback); !errors.Is(err, ErrRefreshTooRecent) {
		t.Errorf("error = %v, want ErrRefreshTooRecent", err)
	}
}

func TestRefreshYearBoundary(t *testing.T) {
	tre, store, _ := newTestTreasury(t)

	if err := store.SaveLastRefresh("2026-12-20T10:00:00Z"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	jan := time.Date(2027, time.January, 2, 0, 0, 0, 0, time.UTC)
	if _, err := tre.RefreshAllowances(jan); err != nil {
		t.Errorf("January should be due after a December refresh, got %v", err)
	}
}

func TestRefreshReconciles(t *testing.T) {
	tre, store, q := newTestTreasury(t)
	registerTestAsset(t, tre)
	if _, err := tre.RegisterAsset(testAdmin, silkContract, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// SHD carries two allowance targets, SILK one.
	for _, step := range []struct {
		asset Address
		entry Allocation
	}{
		{testToken, NewAllowance(testSpender, U(1000))},
		{testToken, NewAllowance(testStaking, U(50))},
		{testSilk, NewAllowance(testRewards, U(700))},
	} {
		if err := tre.RegisterAllocation(testAdmin, step.asset, step.entry); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Live allowances: one below target, one above, one already on target.
	q.allowances[allowanceKey(testToken, testSpender)] = U(400)
	q.allowances[allowanceKey(testToken, testStaking)] = U(80)
	q.allowances[allowanceKey(testSilk, testRewards)] = U(700)

	feb := time.Date(2026, time.February, 3, 8, 0, 0, 0, time.UTC)
	actions, err := tre.RefreshAllowances(feb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Deltas come in registry order, then list order; on-target entries are
	// skipped.
	want := []struct {
		kind    string
		payload string
	}{
		{"increase_allowance", `{"increase_allowance":{"spender":"` + string(testSpender) + `","amount":"600"}}`},
		{"decrease_allowance", `{"decrease_allowance":{"spender":"` + string(testStaking) + `","amount":"30"}}`},
	}
	if len(actions) != len(want) {
		t.Fatalf("got %d actions, want %d: %v", len(actions), len(want), actions)
	}
	for i, act := range actions {
		if act.Contract != tokenContract {
			t.Errorf("action %d addressed to %v, want the SHD token", i, act.Contract)
		}
		if act.Kind != want[i].kind {
			t.Errorf("action %d kind = %q, want %q", i, act.Kind, want[i].kind)
		}
		if string(act.Payload) != want[i].payload {
			t.Errorf("action %d payload:\ngot  %s\nwant %s", i, act.Payload, want[i].payload)
		}
	}

	stamp, _ := store.LastRefresh()
	if want := feb.Format(time.RFC3339); stamp != want {
		t.Errorf("stamp = %q, want %q", stamp, want)
	}
}

func TestRefreshAborts(t *testing.T) {
	tre, store, q := newTestTreasury(t)
	registerTestAsset(t, tre)
	if err := tre.RegisterAllocation(testAdmin, testToken, NewAllowance(testSpender, U(1000))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A failing live query drops everything: no actions, stamp unchanged.
	q.err = errors.New("gateway down")
	feb := time.Date(2026, time.February, 3, 8, 0, 0, 0, time.UTC)
	actions, err := tre.RefreshAllowances(feb)
	if err == nil {
		t.Fatalf("refresh should fail when the query does")
	}
	if len(actions) != 0 {
		t.Errorf("failed refresh returned actions: %v", actions)
	}
	stamp, _ := store.LastRefresh()
	if want := testInitTime.Format(time.RFC3339); stamp != want {
		t.Errorf("failed refresh moved the stamp to %q", stamp)
	}

	// The next attempt in the same month is therefore still due.
	q.err = nil
	if _, err := tre.RefreshAllowances(feb.Add(24 * time.Hour)); err != nil {
		t.Errorf("retry should pass the gate, got %v", err)
	}
}

func TestRefreshBadTimestamp(t *testing.T) {
	tre, store, _ := newTestTreasury(t)
	if err := store.SaveLastRefresh("not a timestamp"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	feb := time.Date(2026, time.February, 3, 8, 0, 0, 0, time.UTC)
	if _, err := tre.RefreshAllowances(feb); !errors.Is(err, ErrTimestampParse) {
		t.Errorf("error = %v, want ErrTimestampParse", err)
	}
}
