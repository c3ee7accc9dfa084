package listings

import (
	"context"
	"sync"

	"bazaar-backend/internal/application/events"
	"bazaar-backend/internal/domain"
	"bazaar-backend/internal/pkg/hashid"

	"gorm.io/gorm"
)

// Service owns the hash-indexed listing catalog and its two append-only
// sequences: the global creation order (global_index) and each seller's local
// order (seller_local_index). All writes go through mu and a DB transaction,
// so every read-validate-write is indivisible and listings only ever grow.
type Service struct {
	DB     *gorm.DB
	Events *events.Recorder

	mu sync.Mutex
}

// CreateListing allocates a new listing. The id is derived from the seller,
// the listing fields, and the ledger's creation counter, so two otherwise
// identical listings still get distinct ids.
func (s *Service) CreateListing(ctx context.Context, seller, name string, price uint64) (*domain.Listing, error) {
	if seller == "" || name == "" || price == 0 {
		return nil, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var listing *domain.Listing
	var created *domain.LedgerEvent
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total, sellerTotal int64
		if err := tx.Model(&domain.Listing{}).Count(&total).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Listing{}).Where("seller = ?", seller).Count(&sellerTotal).Error; err != nil {
			return err
		}

		listing = &domain.Listing{
			ListingID:        hashid.Listing(seller, name, price, uint64(total)),
			Available:        true,
			Seller:           seller,
			Name:             name,
			Price:            price,
			GlobalIndex:      uint64(total),
			SellerLocalIndex: uint64(sellerTotal),
		}
		if err := tx.Create(listing).Error; err != nil {
			return err
		}

		event, err := s.Events.Record(tx, listing.ListingID, domain.EventListingCreated, map[string]interface{}{
			"listing_id": listing.ListingID,
		})
		if err != nil {
			return err
		}
		created = event
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Events.Publish(ctx, created)
	return listing, nil
}

// GetListing returns the listing stored under id.
func (s *Service) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", id).First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &listing, nil
}

// IsListing is total: it reports existence and never fails on an unknown id.
func (s *Service) IsListing(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&domain.Listing{}).Where("listing_id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListingAtGlobalIndex resolves a position in the global sequence to its id.
func (s *Service) ListingAtGlobalIndex(ctx context.Context, index uint64) (string, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("global_index = ?", index).First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", ErrIndexOutOfRange
		}
		return "", err
	}
	return listing.ListingID, nil
}

// Count returns the total number of listings ever created.
func (s *Service) Count(ctx context.Context) (uint64, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&domain.Listing{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// SellerListingCount returns the length of the seller's sequence, 0 for a
// seller the ledger has never seen.
func (s *Service) SellerListingCount(ctx context.Context, seller string) (uint64, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&domain.Listing{}).Where("seller = ?", seller).Count(&n).Error; err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// SellerListingAtLocalIndex resolves the seller's j-th listing to its global
// index.
func (s *Service) SellerListingAtLocalIndex(ctx context.Context, seller string, index uint64) (uint64, error) {
	var listing domain.Listing
	err := s.DB.WithContext(ctx).Where("seller = ? AND seller_local_index = ?", seller, index).First(&listing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, ErrIndexOutOfRange
		}
		return 0, err
	}
	return listing.GlobalIndex, nil
}

// ApplyPurchase commits a purchase: flips available, stamps the escrow
// reference and delivery information, and appends the ListingPurchased event,
// all in one transaction. The availability re-check is defense-in-depth; the
// purchase coordinator validates before delegating to escrow.
func (s *Service) ApplyPurchase(ctx context.Context, id, buyer, escrowReference, deliveryInformation string) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var listing domain.Listing
	var purchased *domain.LedgerEvent
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", id).First(&listing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}
		if !listing.Available {
			return ErrAlreadyPurchased
		}

		listing.Available = false
		listing.EscrowReference = escrowReference
		listing.DeliveryInformation = deliveryInformation
		if err := tx.Save(&listing).Error; err != nil {
			return err
		}

		event, err := s.Events.Record(tx, listing.ListingID, domain.EventListingPurchased, map[string]interface{}{
			"listing_id":       listing.ListingID,
			"buyer":            buyer,
			"escrow_reference": escrowReference,
		})
		if err != nil {
			return err
		}
		purchased = event
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Events.Publish(ctx, purchased)
	return &listing, nil
}
