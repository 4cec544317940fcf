// internal/domain/models/location.go
package models

import "time"

// Location is a browsable place (a town, a neighbourhood). The collection is
// flat; businesses attach to it loosely through Pincode.
type Location struct {
	ID      uint   `gorm:"primaryKey;autoIncrement"`
	Slug    string `gorm:"type:varchar(160);not null;uniqueIndex"`
	Name    string `gorm:"type:varchar(255);not null"`
	NameCI  string `gorm:"type:varchar(255);not null;index"` // ← always stored
	Pincode string `gorm:"type:varchar(16);index"`
	City    string `gorm:"type:varchar(128)"`
	State   string `gorm:"type:varchar(128)"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
