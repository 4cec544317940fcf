// internal/domain/models/migrate.go
package models

import (
	"fmt"

	"gorm.io/gorm"
)

// partialIndexes are unique rules gorm tags cannot express. Postgres and
// SQLite both accept this syntax.
var partialIndexes = []struct{ name, sql string }{
	// one live booking per business, date and slot
	{"idx_appointments_live_slot",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_live_slot ON appointments (business_id, date, time_slot) WHERE status <> 'cancelled'"},
	// NULL parent_id values never collide in idx_categories_parent_slug
	{"idx_categories_root_slug",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_root_slug ON categories (slug) WHERE parent_id IS NULL"},
}

// AutoMigrate creates or updates the directory tables.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Location{},
		&Category{},
		&Business{},
		&Appointment{},
	)
	if err != nil {
		return err
	}
	for _, ix := range partialIndexes {
		if err := db.Exec(ix.sql).Error; err != nil {
			return fmt.Errorf("create index %s: %w", ix.name, err)
		}
	}
	return nil
}
