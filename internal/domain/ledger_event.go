package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event names carried by LedgerEvent rows and the Redis stream.
const (
	EventListingCreated   = "ListingCreated"
	EventListingPurchased = "ListingPurchased"
	EventCreatedEscrow    = "CreatedEscrow"
)

// LedgerEvent is an append-only record of a state change, correlatable by the
// identifiers in its payload. Rows are never updated or deleted.
type LedgerEvent struct {
	EventID   uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	ListingID string         `gorm:"column:listing_id;type:varchar(64);index" json:"listing_id"`
	EventType string         `gorm:"column:event_type;type:varchar(30);not null" json:"event_type"`
	EventData datatypes.JSON `gorm:"column:event_data;not null" json:"event_data"`
	CreatedAt time.Time      `gorm:"column:createdAt" json:"createdAt"`
}

func (LedgerEvent) TableName() string {
	return "LedgerEvents"
}

// BeforeCreate sets event_id if not already set (DBs without default uuid).
func (e *LedgerEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
