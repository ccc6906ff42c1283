package database

import (
	"origenmx-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB. With a DSN it connects to Postgres; without one it
// falls back to an embedded in-memory SQLite database, which preserves the
// demo semantics the dashboard was built against: state lives for the process
// and resets on restart.
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when using connection poolers.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	}
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// AutoMigrate runs migrations for all domain models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Lot{},
		&domain.EvidenceFile{},
		&domain.Credit{},
		&domain.Installment{},
		&domain.ActivityEvent{},
	)
}
