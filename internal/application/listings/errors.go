package listings

import "errors"

// Bounds errors indicate caller-side index arithmetic bugs and are not
// retryable; the remaining errors describe the ledger's current state and may
// be transient.
var (
	ErrInvalidInput     = errors.New("Invalid listing input")
	ErrNotFound         = errors.New("Listing not found")
	ErrIndexOutOfRange  = errors.New("Index out of range")
	ErrAlreadyPurchased = errors.New("Listing already purchased")
)
