package types

import "errors"

// Error taxonomy. Callers classify failures with errors.Is; all three are
// surfaced before any frame is processed, never silently defaulted.
var (
	// ErrConfiguration covers invalid enum selections, out-of-range alpha
	// values and malformed region definitions.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInvalidRegion marks a degenerate polygon: fewer than 3 distinct
	// vertices, or coordinates resolving outside the frame bounds.
	ErrInvalidRegion = errors.New("invalid region")

	// ErrResource marks an unreadable source or an unwritable sink.
	ErrResource = errors.New("resource unavailable")
)
