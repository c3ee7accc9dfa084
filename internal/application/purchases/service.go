package purchases

import (
	"context"
	"errors"
	"sync"

	"bazaar-backend/internal/application/escrow"
	"bazaar-backend/internal/application/listings"

	"github.com/rs/zerolog/log"
)

// Result is the outcome of a successful purchase.
type Result struct {
	ListingID       string `json:"listing_id"`
	Buyer           string `json:"buyer"`
	EscrowReference string `json:"escrow_reference"`
	Price           uint64 `json:"price"`
	PaidAmount      uint64 `json:"paid_amount"`
}

// Coordinator orchestrates the purchase transition: validate, delegate fund
// custody to escrow, commit the state change. mu serializes the whole
// sequence so two purchases of the same listing cannot interleave their
// read-validate-write steps.
type Coordinator struct {
	Store  *listings.Service
	Escrow escrow.Service

	mu sync.Mutex
}

// Purchase buys a listing. Preconditions are checked in order: the listing
// must exist and still be available, then paidAmount must cover the price.
// Overpayment is accepted and the full paid amount is forwarded to escrow;
// nothing is refunded. If escrow creation fails the store is left untouched
// and no purchase event is produced.
func (c *Coordinator) Purchase(ctx context.Context, id, buyer string, paidAmount uint64, deliveryInformation string) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	listing, err := c.Store.GetListing(ctx, id)
	if err != nil {
		if errors.Is(err, listings.ErrNotFound) {
			return nil, ErrListingUnavailable
		}
		return nil, err
	}
	if !listing.Available {
		return nil, ErrListingUnavailable
	}
	if paidAmount < listing.Price {
		return nil, ErrInsufficientPayment
	}

	escrowRef, err := c.Escrow.CreateEscrow(ctx, listing.Seller, buyer, paidAmount)
	if err != nil {
		log.Warn().Err(err).Str("listing_id", id).Str("buyer", buyer).Msg("escrow creation failed, purchase aborted")
		return nil, err
	}

	updated, err := c.Store.ApplyPurchase(ctx, id, buyer, escrowRef, deliveryInformation)
	if err != nil {
		return nil, err
	}

	return &Result{
		ListingID:       updated.ListingID,
		Buyer:           buyer,
		EscrowReference: escrowRef,
		Price:           updated.Price,
		PaidAmount:      paidAmount,
	}, nil
}
