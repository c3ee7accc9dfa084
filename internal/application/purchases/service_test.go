package purchases

import (
	"context"
	"errors"
	"testing"

	"bazaar-backend/internal/application/events"
	"bazaar-backend/internal/application/listings"
	"bazaar-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubEscrow stands in for the escrow collaborator: a fixed reference on
// success, a fixed error on failure.
type stubEscrow struct {
	ref   string
	err   error
	calls int
}

func (s *stubEscrow) CreateEscrow(ctx context.Context, seller, buyer string, amount uint64) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.ref, nil
}

func setupCoordinator(t *testing.T, esc *stubEscrow) (*Coordinator, *listings.Service) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Listing{}, &domain.LedgerEvent{}))
	store := &listings.Service{DB: db, Events: &events.Recorder{DB: db}}
	return &Coordinator{Store: store, Escrow: esc}, store
}

func TestPurchase_Success(t *testing.T) {
	esc := &stubEscrow{ref: "escrow-1"}
	c, store := setupCoordinator(t, esc)
	ctx := context.Background()

	listing, err := store.CreateListing(ctx, "alice", "item1", 10)
	require.NoError(t, err)

	result, err := c.Purchase(ctx, listing.ListingID, "bob", 10, "ship to X")
	require.NoError(t, err)
	assert.Equal(t, listing.ListingID, result.ListingID)
	assert.Equal(t, "bob", result.Buyer)
	assert.Equal(t, "escrow-1", result.EscrowReference)
	assert.Equal(t, 1, esc.calls)

	stored, err := store.GetListing(ctx, listing.ListingID)
	require.NoError(t, err)
	assert.False(t, stored.Available)
	assert.Equal(t, "escrow-1", stored.EscrowReference)
	assert.Equal(t, "ship to X", stored.DeliveryInformation)
}

func TestPurchase_InsufficientPayment(t *testing.T) {
	esc := &stubEscrow{ref: "escrow-1"}
	c, store := setupCoordinator(t, esc)
	ctx := context.Background()

	listing, err := store.CreateListing(ctx, "alice", "item1", 10)
	require.NoError(t, err)

	_, err = c.Purchase(ctx, listing.ListingID, "bob", 9, "")
	assert.ErrorIs(t, err, ErrInsufficientPayment)
	assert.Zero(t, esc.calls, "escrow must not be invoked when payment is short")

	stored, err := store.GetListing(ctx, listing.ListingID)
	require.NoError(t, err)
	assert.True(t, stored.Available)
	assert.Empty(t, stored.EscrowReference)
}

func TestPurchase_OverpaymentForwardedToEscrow(t *testing.T) {
	esc := &stubEscrow{ref: "escrow-1"}
	c, store := setupCoordinator(t, esc)
	ctx := context.Background()

	listing, err := store.CreateListing(ctx, "alice", "item1", 10)
	require.NoError(t, err)

	result, err := c.Purchase(ctx, listing.ListingID, "bob", 15, "")
	require.NoError(t, err)
	assert.Equal(t, uint64(15), result.PaidAmount)
	assert.Equal(t, uint64(10), result.Price)
}

func TestPurchase_UnknownListing(t *testing.T) {
	esc := &stubEscrow{ref: "escrow-1"}
	c, _ := setupCoordinator(t, esc)

	_, err := c.Purchase(context.Background(), "deadbeef", "bob", 10, "")
	assert.ErrorIs(t, err, ErrListingUnavailable)
	assert.Zero(t, esc.calls)
}

func TestPurchase_ExactlyOnce(t *testing.T) {
	esc := &stubEscrow{ref: "escrow-1"}
	c, store := setupCoordinator(t, esc)
	ctx := context.Background()

	listing, err := store.CreateListing(ctx, "alice", "item1", 10)
	require.NoError(t, err)

	_, err = c.Purchase(ctx, listing.ListingID, "bob", 10, "")
	require.NoError(t, err)

	_, err = c.Purchase(ctx, listing.ListingID, "carol", 10, "")
	assert.ErrorIs(t, err, ErrListingUnavailable)
	assert.Equal(t, 1, esc.calls)
}

func TestPurchase_EscrowFailureLeavesStoreUntouched(t *testing.T) {
	esc := &stubEscrow{err: errors.New("escrow agent unreachable")}
	c, store := setupCoordinator(t, esc)
	ctx := context.Background()

	listing, err := store.CreateListing(ctx, "alice", "item1", 10)
	require.NoError(t, err)

	_, err = c.Purchase(ctx, listing.ListingID, "bob", 10, "ship to X")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrListingUnavailable)

	stored, err := store.GetListing(ctx, listing.ListingID)
	require.NoError(t, err)
	assert.True(t, stored.Available)
	assert.Empty(t, stored.EscrowReference)
	assert.Empty(t, stored.DeliveryInformation)

	// No purchase event may exist for the aborted attempt.
	var n int64
	require.NoError(t, store.DB.Model(&domain.LedgerEvent{}).Where("event_type = ?", domain.EventListingPurchased).Count(&n).Error)
	assert.Zero(t, n)

	// A retry of the whole call succeeds once escrow recovers.
	esc.err = nil
	esc.ref = "escrow-2"
	result, err := c.Purchase(ctx, listing.ListingID, "bob", 10, "ship to X")
	require.NoError(t, err)
	assert.Equal(t, "escrow-2", result.EscrowReference)
}
