// internal/domain/models/business.go
package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Business is a directory listing.
//
// Category holds the free-text category name from the import feed; it is not
// a foreign key and may not match any Category row. Pincode links the
// business to a Location on the same terms.
type Business struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	Slug   string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Name   string `gorm:"type:varchar(255);not null"`
	NameCI string `gorm:"type:varchar(255);not null;index"` // ← always stored

	Category   string `gorm:"type:varchar(255);index"`
	CategoryCI string `gorm:"type:varchar(255);index"` // ← always stored
	Pincode    string `gorm:"type:varchar(16);index"`

	Address     string `gorm:"type:text"`
	Phone       string `gorm:"type:varchar(32)"`
	Website     string `gorm:"type:varchar(512)"`
	Description string `gorm:"type:text"` // sanitized HTML

	Rating      float64 `gorm:"not null;default:0"`
	ReviewCount int     `gorm:"not null;default:0"`

	// Weekly opening hours, e.g. {"mon":{"open":"09:00","close":"18:00"}}.
	OpeningHours datatypes.JSON `gorm:"type:json"`

	AcceptsAppointments bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// DayHours is the open/close pair for one weekday ("HH:MM", 24h clock).
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Hours decodes OpeningHours. Keys are lowercase three-letter weekday names.
// A missing or malformed column decodes to an empty map.
func (b *Business) Hours() map[string]DayHours {
	out := map[string]DayHours{}
	if len(b.OpeningHours) == 0 {
		return out
	}
	_ = json.Unmarshal(b.OpeningHours, &out)
	return out
}
