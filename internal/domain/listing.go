package domain

import (
	"time"
)

// Listing is the ledger's central entity. The ListingID is a hash derived at
// creation time from (seller, name, price, creation counter); callers can
// neither choose nor predict it. Rows are append-only: created once, flipped
// to unavailable at most once on purchase, never deleted.
type Listing struct {
	ListingID           string    `gorm:"column:listing_id;type:varchar(64);primaryKey" json:"listing_id"`
	Available           bool      `gorm:"column:available;not null" json:"available"`
	Seller              string    `gorm:"column:seller;not null;index" json:"seller"`
	Name                string    `gorm:"column:name;not null" json:"name"`
	Price               uint64    `gorm:"column:price;not null" json:"price"`
	GlobalIndex         uint64    `gorm:"column:global_index;not null;uniqueIndex" json:"global_index"`
	SellerLocalIndex    uint64    `gorm:"column:seller_local_index;not null" json:"seller_local_index"`
	EscrowReference     string    `gorm:"column:escrow_reference;type:varchar(64);not null;default:''" json:"escrow_reference"`
	DeliveryInformation string    `gorm:"column:delivery_information;not null;default:''" json:"delivery_information"`
	CreatedAt           time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt           time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Listing) TableName() string {
	return "Listings"
}
