// internal/app/store/appointments/appointmentstore.go
package appointmentstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/localhub/internal/app/system/paging"
	"github.com/dalemusser/localhub/internal/domain/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrSlotTaken is returned when another live booking holds the slot.
	ErrSlotTaken = errors.New("that time slot is already booked")
	ErrNotFound  = errors.New("appointment not found")
	// ErrInvalidStatus is returned for unknown statuses.
	ErrInvalidStatus = errors.New("invalid appointment status")
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func live(q *gorm.DB) *gorm.DB {
	return q.Where("status <> ?", models.AppointmentStatusCancelled)
}

// Create books a as pending. Cancelled bookings do not hold their slot.
// The count gives the common case a clean error; the partial unique index
// idx_appointments_live_slot settles concurrent inserts.
func (s *Store) Create(ctx context.Context, a models.Appointment) (models.Appointment, error) {
	a.ID = uuid.New()
	a.Date = Day(time.Time(a.Date))
	a.Status = models.AppointmentStatusPending
	a.Business = nil

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		err := live(tx.Model(&models.Appointment{})).
			Where("business_id = ? AND date = ? AND time_slot = ?", a.BusinessID, a.Date, a.TimeSlot).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrSlotTaken
		}
		return tx.Create(&a).Error
	})
	if err != nil {
		if errors.Is(err, ErrSlotTaken) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Appointment{}, ErrSlotTaken
		}
		return models.Appointment{}, fmt.Errorf("create appointment: %w", err)
	}
	return a, nil
}

// GetByID returns the appointment with its business, or nil.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var a models.Appointment
	err := s.db.WithContext(ctx).Preload("Business").Where("id = ?", id).Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByBusiness lists bookings for businessID between from and to
// (inclusive dates), soonest first.
func (s *Store) ListByBusiness(ctx context.Context, businessID uint, from, to time.Time, p paging.Page) ([]models.Appointment, bool, error) {
	var rows []models.Appointment
	err := s.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Where("date >= ? AND date <= ?", Day(from), Day(to)).
		Order("date ASC").
		Order("time_slot ASC").
		Offset(p.Offset()).
		Limit(p.LimitPlusOne()).
		Find(&rows).Error
	if err != nil {
		return nil, false, err
	}
	return rows, paging.TrimPage(&rows, p), nil
}

// ListRecent lists bookings newest first, optionally filtered by status.
func (s *Store) ListRecent(ctx context.Context, status models.AppointmentStatus, p paging.Page) ([]models.Appointment, bool, error) {
	q := s.db.WithContext(ctx).Preload("Business")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rows []models.Appointment
	err := q.Order("created_at DESC").
		Order("id ASC").
		Offset(p.Offset()).
		Limit(p.LimitPlusOne()).
		Find(&rows).Error
	if err != nil {
		return nil, false, err
	}
	return rows, paging.TrimPage(&rows, p), nil
}

// UpdateStatus moves the appointment to status and returns the previous one.
// Re-opening a cancelled booking fails with ErrSlotTaken if the slot has
// since been taken.
func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AppointmentStatus) (models.AppointmentStatus, error) {
	if !status.Valid() {
		return "", ErrInvalidStatus
	}

	var prev models.AppointmentStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.Appointment
		err := tx.Where("id = ?", id).Take(&a).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		prev = a.Status
		if prev == status {
			return nil
		}

		if prev == models.AppointmentStatusCancelled {
			var n int64
			err := live(tx.Model(&models.Appointment{})).
				Where("business_id = ? AND date = ? AND time_slot = ? AND id <> ?", a.BusinessID, a.Date, a.TimeSlot, a.ID).
				Count(&n).Error
			if err != nil {
				return err
			}
			if n > 0 {
				return ErrSlotTaken
			}
		}

		return tx.Model(&models.Appointment{}).
			Where("id = ?", id).
			Update("status", status).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", ErrSlotTaken
	}
	if err != nil {
		return "", err
	}
	return prev, nil
}

// TakenSlots returns the "HH:MM" slots held by live bookings on date.
func (s *Store) TakenSlots(ctx context.Context, businessID uint, date time.Time) (map[string]bool, error) {
	var slots []string
	err := live(s.db.WithContext(ctx).Model(&models.Appointment{})).
		Where("business_id = ? AND date = ?", businessID, Day(date)).
		Pluck("time_slot", &slots).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(slots))
	for _, sl := range slots {
		out[sl] = true
	}
	return out, nil
}
