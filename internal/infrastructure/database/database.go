package database

import (
	"strings"

	"bazaar-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB. Postgres DSNs go through the postgres driver with
// PreferSimpleProtocol to avoid 42P05 ("prepared statement already exists")
// behind connection poolers (PgBouncer and friends); anything else is
// treated as a SQLite path (":memory:" in tests, a file in dev).
func Open(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}

// AutoMigrate runs migrations for the ledger models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Listing{}, &domain.EscrowRecord{}, &domain.LedgerEvent{})
}
