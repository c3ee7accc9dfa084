package listings

import (
	"context"
	"fmt"
	"testing"

	"bazaar-backend/internal/application/events"
	"bazaar-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Listing{}, &domain.LedgerEvent{}))
	recorder := &events.Recorder{DB: db}
	return &Service{DB: db, Events: recorder}, db
}

func TestCreateListing_NewListingState(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	listing, err := s.CreateListing(ctx, "seller-1", "item1", 10)
	require.NoError(t, err)

	assert.True(t, listing.Available)
	assert.Equal(t, "seller-1", listing.Seller)
	assert.Equal(t, "item1", listing.Name)
	assert.Equal(t, uint64(10), listing.Price)
	assert.Equal(t, uint64(0), listing.GlobalIndex)
	assert.Empty(t, listing.EscrowReference)
	assert.Empty(t, listing.DeliveryInformation)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
}

func TestCreateListing_InvalidInput(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	_, err := s.CreateListing(ctx, "seller-1", "", 10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.CreateListing(ctx, "seller-1", "item1", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.CreateListing(ctx, "", "item1", 10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateListing_IDsPairwiseDistinct(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		// Identical tuples on purpose; the creation counter must disambiguate.
		listing, err := s.CreateListing(ctx, "seller-1", "item", 5)
		require.NoError(t, err)
		assert.False(t, seen[listing.ListingID], "duplicate id %s", listing.ListingID)
		seen[listing.ListingID] = true
	}
}

func TestCreateListing_RecordsCreationEvent(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()

	listing, err := s.CreateListing(ctx, "seller-1", "item1", 10)
	require.NoError(t, err)

	var logged []domain.LedgerEvent
	require.NoError(t, db.Where("listing_id = ?", listing.ListingID).Find(&logged).Error)
	require.Len(t, logged, 1)
	assert.Equal(t, domain.EventListingCreated, logged[0].EventType)
	assert.Contains(t, string(logged[0].EventData), listing.ListingID)
}

func TestGlobalIndex_Consistency(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		listing, err := s.CreateListing(ctx, fmt.Sprintf("seller-%d", i%2), fmt.Sprintf("item%d", i), uint64(i+1))
		require.NoError(t, err)
		assert.Equal(t, uint64(i), listing.GlobalIndex)
		ids = append(ids, listing.ListingID)
	}

	for i, id := range ids {
		got, err := s.ListingAtGlobalIndex(ctx, uint64(i))
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestListingAtGlobalIndex_OutOfRange(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	_, err := s.CreateListing(ctx, "seller-1", "item1", 10)
	require.NoError(t, err)
	_, err = s.CreateListing(ctx, "seller-1", "item2", 20)
	require.NoError(t, err)

	_, err = s.ListingAtGlobalIndex(ctx, 5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestGetListing_NotFound(t *testing.T) {
	s, _ := setupStore(t)

	_, err := s.GetListing(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsListing_Total(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	exists, err := s.IsListing(ctx, "deadbeef")
	require.NoError(t, err)
	assert.False(t, exists)

	listing, err := s.CreateListing(ctx, "seller-1", "item1", 10)
	require.NoError(t, err)

	exists, err = s.IsListing(ctx, listing.ListingID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSellerIndex_Consistency(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	// Interleave two sellers so local and global indices diverge.
	_, err := s.CreateListing(ctx, "alice", "a0", 1)
	require.NoError(t, err)
	_, err = s.CreateListing(ctx, "bob", "b0", 2)
	require.NoError(t, err)
	_, err = s.CreateListing(ctx, "alice", "a1", 3)
	require.NoError(t, err)

	n, err := s.SellerListingCount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	n, err = s.SellerListingCount(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	n, err = s.SellerListingCount(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, n)

	// alice's second listing sits at global position 2.
	globalIndex, err := s.SellerListingAtLocalIndex(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), globalIndex)

	id, err := s.ListingAtGlobalIndex(ctx, globalIndex)
	require.NoError(t, err)
	resolved, err := s.GetListing(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", resolved.Seller)
}

func TestSellerListingAtLocalIndex_OutOfRange(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	_, err := s.CreateListing(ctx, "alice", "a0", 1)
	require.NoError(t, err)

	_, err = s.SellerListingAtLocalIndex(ctx, "alice", 1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = s.SellerListingAtLocalIndex(ctx, "nobody", 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestApplyPurchase_SetsPurchaseFieldsOnce(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	listing, err := s.CreateListing(ctx, "alice", "item1", 10)
	require.NoError(t, err)

	updated, err := s.ApplyPurchase(ctx, listing.ListingID, "bob", "escrow-ref-1", "ship to X")
	require.NoError(t, err)
	assert.False(t, updated.Available)
	assert.Equal(t, "escrow-ref-1", updated.EscrowReference)
	assert.Equal(t, "ship to X", updated.DeliveryInformation)

	// Second transition must be refused and leave state untouched.
	_, err = s.ApplyPurchase(ctx, listing.ListingID, "carol", "escrow-ref-2", "elsewhere")
	assert.ErrorIs(t, err, ErrAlreadyPurchased)

	stored, err := s.GetListing(ctx, listing.ListingID)
	require.NoError(t, err)
	assert.False(t, stored.Available)
	assert.Equal(t, "escrow-ref-1", stored.EscrowReference)
	assert.Equal(t, "ship to X", stored.DeliveryInformation)
}

func TestApplyPurchase_NotFound(t *testing.T) {
	s, _ := setupStore(t)

	_, err := s.ApplyPurchase(context.Background(), "deadbeef", "bob", "ref", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyPurchase_RecordsPurchaseEvent(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()

	listing, err := s.CreateListing(ctx, "alice", "item1", 10)
	require.NoError(t, err)
	_, err = s.ApplyPurchase(ctx, listing.ListingID, "bob", "escrow-ref-1", "")
	require.NoError(t, err)

	var logged []domain.LedgerEvent
	require.NoError(t, db.Where("listing_id = ? AND event_type = ?", listing.ListingID, domain.EventListingPurchased).Find(&logged).Error)
	require.Len(t, logged, 1)
	assert.Contains(t, string(logged[0].EventData), "bob")
	assert.Contains(t, string(logged[0].EventData), "escrow-ref-1")
}
