package escrow

import (
	"context"
	"sync"

	"bazaar-backend/internal/application/events"
	"bazaar-backend/internal/domain"
	"bazaar-backend/internal/pkg/hashid"

	"gorm.io/gorm"
)

// Service is the escrow collaborator consumed by the purchase coordinator.
// It crosses an ownership boundary, so the coordinator depends on this
// interface and tests substitute doubles for both success and failure.
type Service interface {
	// CreateEscrow takes custody of amount for one purchase and returns an
	// opaque, globally unique reference to the new escrow record.
	CreateEscrow(ctx context.Context, seller, buyer string, amount uint64) (string, error)
}

// Agent is the gorm-backed escrow service. It mints hash-addressed escrow
// records and emits a CreatedEscrow event per record so observers can
// correlate the returned reference.
type Agent struct {
	DB     *gorm.DB
	Events *events.Recorder

	mu sync.Mutex
}

func (a *Agent) CreateEscrow(ctx context.Context, seller, buyer string, amount uint64) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var record *domain.EscrowRecord
	var created *domain.LedgerEvent
	err := a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total int64
		if err := tx.Model(&domain.EscrowRecord{}).Count(&total).Error; err != nil {
			return err
		}

		record = &domain.EscrowRecord{
			EscrowHash: hashid.Escrow(seller, buyer, amount, uint64(total)),
			Seller:     seller,
			Buyer:      buyer,
			Amount:     amount,
			Status:     domain.EscrowStatusHeld,
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		event, err := a.Events.Record(tx, "", domain.EventCreatedEscrow, map[string]interface{}{
			"escrow_hash": record.EscrowHash,
			"seller":      seller,
			"buyer":       buyer,
			"amount":      amount,
		})
		if err != nil {
			return err
		}
		created = event
		return nil
	})
	if err != nil {
		return "", err
	}
	a.Events.Publish(ctx, created)
	return record.EscrowHash, nil
}
