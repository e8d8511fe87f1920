package shade

import "errors"

// Error classes returned by treasury operations. Call sites wrap them with
// fmt.Errorf("…: %w", …) so callers can test the class with errors.Is while
// still seeing the offending asset or caller in the message.
var (
	// ErrUnauthorized reports a mutating call by anyone but the configured admin.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnregisteredAsset reports an operation on an asset with no registry record.
	ErrUnregisteredAsset = errors.New("unregistered asset")

	// ErrAllocationExceedsTotal reports an upsert whose percent-bearing entries
	// would claim the entire custody or more.
	ErrAllocationExceedsTotal = errors.New("allocation exceeds total")

	// ErrTimestampParse reports a stored refresh timestamp that is not RFC3339.
	ErrTimestampParse = errors.New("bad refresh timestamp")

	// ErrRefreshTooRecent reports a refresh attempt in the same calendar month
	// as the last successful one.
	ErrRefreshTooRecent = errors.New("refresh too recent")

	// ErrUnexpectedResponse reports a token query whose payload could not be
	// decoded into the expected shape.
	ErrUnexpectedResponse = errors.New("unexpected query response")
)
