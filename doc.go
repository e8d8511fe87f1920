// Package shade implements a single-administrator treasury that holds custody
// of multiple fungible tokens and splits whatever flows in according to
// per-asset allocation policies.
//
// The core pieces:
//   - Asset Registry: admin-gated registration of token contracts, fetching
//     their metadata and subscribing the treasury to their transfer callbacks.
//   - Allocation lists: per asset, an ordered list of strategy entries
//     (reserves, allowance, rewards, staking, application, pool) with
//     replace-by-target upserts and a strict less-than-whole percent budget.
//   - Inbound routing: Receive walks the list in order and forwards exact
//     truncated shares to rewards and staking destinations.
//   - Allowance reconciliation: RefreshAllowances compares each stored
//     allowance target against the live on-chain value once per calendar
//     month and emits the increase/decrease deltas.
//
// Every mutation validates and queries first, persists last, and returns
// outbound transfers as Action intents; the engine never moves funds itself.
// Percent arithmetic is fixed-point over a 10^18 denominator, computed
// exactly on decimals, truncating toward zero.
//
// State is behind the Store interface; DirStore keeps it as a folder of
// human-readable JSONL files, which serves as the single source of truth for
// the `shd` command-line tool.
package shade
