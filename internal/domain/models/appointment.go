// internal/domain/models/appointment.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Appointment is a booking request made from a business page.
type Appointment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BusinessID uint      `gorm:"not null;index:idx_appointments_slot,priority:1"`

	CustomerName  string `gorm:"type:varchar(255);not null"`
	CustomerPhone string `gorm:"type:varchar(32);not null"`
	CustomerEmail string `gorm:"type:varchar(255)"`

	Date     datatypes.Date `gorm:"not null;index:idx_appointments_slot,priority:2"`
	TimeSlot string         `gorm:"type:varchar(5);not null;index:idx_appointments_slot,priority:3"` // "HH:MM"
	Notes    string         `gorm:"type:text"`

	Status AppointmentStatus `gorm:"type:varchar(32);not null;default:'pending';index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Business *Business `gorm:"foreignKey:BusinessID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
