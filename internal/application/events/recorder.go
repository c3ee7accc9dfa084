package events

import (
	"context"
	"encoding/json"

	"bazaar-backend/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultStream is the Redis stream external observers subscribe to.
const DefaultStream = "ledger:events"

// Recorder appends ledger events. The DB row is the source of truth and is
// written inside the caller's transaction; the Redis stream is a best-effort
// fanout for external observers and never fails the operation.
type Recorder struct {
	DB     *gorm.DB
	Rdb    *redis.Client
	Stream string
}

// Record appends one event row using tx, which must be the transaction of the
// state change the event describes, so the row commits or rolls back with it.
func (r *Recorder) Record(tx *gorm.DB, listingID, eventType string, payload map[string]interface{}) (*domain.LedgerEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	event := &domain.LedgerEvent{
		ListingID: listingID,
		EventType: eventType,
		EventData: datatypes.JSON(data),
	}
	if err := tx.Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

// Publish pushes a committed event to the Redis stream. Callers invoke it
// after commit so observers never see an event for a rolled-back change.
func (r *Recorder) Publish(ctx context.Context, event *domain.LedgerEvent) {
	if r.Rdb == nil || event == nil {
		return
	}
	stream := r.Stream
	if stream == "" {
		stream = DefaultStream
	}
	err := r.Rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"event_id":   event.EventID.String(),
			"event_type": event.EventType,
			"listing_id": event.ListingID,
			"event_data": string(event.EventData),
		},
	}).Err()
	if err != nil {
		log.Warn().Err(err).Str("event_type", event.EventType).Str("listing_id", event.ListingID).Msg("event stream publish failed")
	}
}

// ListForListing returns the event log for one listing in append order.
func (r *Recorder) ListForListing(ctx context.Context, listingID string) ([]domain.LedgerEvent, error) {
	var events []domain.LedgerEvent
	if err := r.DB.WithContext(ctx).Where("listing_id = ?", listingID).Order(`"createdAt" ASC`).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
