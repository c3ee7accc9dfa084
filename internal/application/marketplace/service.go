package marketplace

import (
	"context"
	"errors"

	"bazaar-backend/internal/application/listings"
	"bazaar-backend/internal/application/purchases"
	"bazaar-backend/internal/domain"
)

// ErrCallerRequired is returned when a state-changing operation arrives
// without a caller identity to bind as seller or buyer.
var ErrCallerRequired = errors.New("Caller identity is required")

// Service is the public marketplace surface. It binds the caller identity to
// the role the operation implies (seller on create, buyer on purchase) and
// passes reads straight through to the listing store.
type Service struct {
	Store       *listings.Service
	Coordinator *purchases.Coordinator
}

// AddListing creates a listing sold by the caller.
func (s *Service) AddListing(ctx context.Context, caller, name string, price uint64) (*domain.Listing, error) {
	if caller == "" {
		return nil, ErrCallerRequired
	}
	return s.Store.CreateListing(ctx, caller, name, price)
}

// Purchase buys a listing on behalf of the caller.
func (s *Service) Purchase(ctx context.Context, caller, listingID string, paidAmount uint64, deliveryInformation string) (*purchases.Result, error) {
	if caller == "" {
		return nil, ErrCallerRequired
	}
	return s.Coordinator.Purchase(ctx, listingID, caller, paidAmount, deliveryInformation)
}

func (s *Service) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	return s.Store.GetListing(ctx, id)
}

func (s *Service) IsListing(ctx context.Context, id string) (bool, error) {
	return s.Store.IsListing(ctx, id)
}

func (s *Service) ListingAtGlobalIndex(ctx context.Context, index uint64) (string, error) {
	return s.Store.ListingAtGlobalIndex(ctx, index)
}

func (s *Service) Count(ctx context.Context) (uint64, error) {
	return s.Store.Count(ctx)
}

func (s *Service) SellerListingCount(ctx context.Context, seller string) (uint64, error) {
	return s.Store.SellerListingCount(ctx, seller)
}

func (s *Service) SellerListingAtLocalIndex(ctx context.Context, seller string, index uint64) (uint64, error) {
	return s.Store.SellerListingAtLocalIndex(ctx, seller, index)
}
