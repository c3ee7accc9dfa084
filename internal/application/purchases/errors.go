package purchases

import "errors"

var (
	// ErrListingUnavailable covers both a listing that never existed and one
	// already purchased; callers may retry after re-reading state.
	ErrListingUnavailable  = errors.New("Listing is not available")
	ErrInsufficientPayment = errors.New("Insufficient payment")
)
