package types

import "errors"

// Failure categories surfaced by the engine and gateway. Call sites wrap
// these with fmt.Errorf("...: %w", err) for detail; callers branch with
// errors.Is.
var (
	// ErrGatewayUnavailable covers any network or decode failure talking
	// to the venue. Treated as "no data this cycle", never fatal.
	ErrGatewayUnavailable = errors.New("gateway unavailable")

	// ErrPositionNotFound is returned when a sell targets a token with no
	// open position in the ledger.
	ErrPositionNotFound = errors.New("position not found")

	// ErrInvalidSize is returned when position sizing yields a
	// non-positive size (zero or negative entry price).
	ErrInvalidSize = errors.New("invalid order size")

	// ErrMarketRejected indicates a market failed the admissibility
	// filters or produced no tradeable candidate.
	ErrMarketRejected = errors.New("market rejected by filters")

	// ErrDuplicatePosition indicates an insert would violate the
	// one-open-position-per-token invariant.
	ErrDuplicatePosition = errors.New("position already open for token")
)
