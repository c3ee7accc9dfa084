package domain

import (
	"time"
)

const (
	EscrowStatusHeld     = "held"
	EscrowStatusReleased = "released"
	EscrowStatusRefunded = "refunded"
)

// EscrowRecord is the agent's custody row for one purchase. Only creation is
// handled here; release and refund transitions belong to the escrow agent's
// own settlement flow.
type EscrowRecord struct {
	EscrowHash string    `gorm:"column:escrow_hash;type:varchar(64);primaryKey" json:"escrow_hash"`
	Seller     string    `gorm:"column:seller;not null" json:"seller"`
	Buyer      string    `gorm:"column:buyer;not null" json:"buyer"`
	Amount     uint64    `gorm:"column:amount;not null" json:"amount"`
	Status     string    `gorm:"column:status;type:varchar(20);default:'held'" json:"status"`
	CreatedAt  time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (EscrowRecord) TableName() string {
	return "EscrowRecords"
}
