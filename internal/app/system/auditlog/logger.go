// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/localhub/internal/app/store/audit"
	"github.com/dalemusser/localhub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Destination settings for a category.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// ValidMode reports whether s is a known destination setting.
func ValidMode(s string) bool {
	switch s {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Config holds audit logging configuration.
type Config struct {
	// Booking controls public booking events (created, slot taken, rejected input).
	Booking string
	// Admin controls login/logout and appointment status changes.
	Admin string
}

// EventStore persists events. *audit.Store satisfies it.
type EventStore interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger fans audit events out to the event store and to zap.
// A nil store (no Mongo configured) turns "db" writes into no-ops.
type Logger struct {
	store  EventStore
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store EventStore, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.BusinessID != 0 {
		fields = append(fields, zap.Uint("business_id", event.BusinessID))
	}
	if event.BusinessSlug != "" {
		fields = append(fields, zap.String("business_slug", event.BusinessSlug))
	}
	if event.AppointmentID != "" {
		fields = append(fields, zap.String("appointment_id", event.AppointmentID))
	}
	if event.Actor != "" {
		fields = append(fields, zap.String("actor", event.Actor))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryBooking:
		setting = l.config.Booking
	case audit.CategoryAdmin:
		setting = l.config.Admin
	}
	if setting == "" {
		setting = ModeAll
	}
	if setting == ModeOff {
		return
	}

	if setting == ModeAll || setting == ModeLog {
		l.logToZap(event)
	}

	if (setting == ModeAll || setting == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func requestEvent(r *http.Request, category, eventType string) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	}
}

// --- Booking Events ---

// BookingCreated logs a new appointment request.
func (l *Logger) BookingCreated(ctx context.Context, r *http.Request, businessID uint, businessSlug, appointmentID, date, slot string) {
	e := requestEvent(r, audit.CategoryBooking, audit.EventBookingCreated)
	e.BusinessID = businessID
	e.BusinessSlug = businessSlug
	e.AppointmentID = appointmentID
	e.Details = map[string]string{"date": date, "slot": slot}
	l.Log(ctx, e)
}

// BookingSlotTaken logs a booking rejected because the slot was already held.
func (l *Logger) BookingSlotTaken(ctx context.Context, r *http.Request, businessID uint, businessSlug, date, slot string) {
	e := requestEvent(r, audit.CategoryBooking, audit.EventBookingSlotTaken)
	e.BusinessID = businessID
	e.BusinessSlug = businessSlug
	e.Success = false
	e.FailureReason = "slot taken"
	e.Details = map[string]string{"date": date, "slot": slot}
	l.Log(ctx, e)
}

// BookingInvalidInput logs a booking form that failed validation.
func (l *Logger) BookingInvalidInput(ctx context.Context, r *http.Request, businessID uint, businessSlug, reason string) {
	e := requestEvent(r, audit.CategoryBooking, audit.EventBookingInvalidInput)
	e.BusinessID = businessID
	e.BusinessSlug = businessSlug
	e.Success = false
	e.FailureReason = reason
	l.Log(ctx, e)
}

// --- Admin Events ---

// LoginSuccess logs a successful admin login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, email string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventLoginSuccess)
	e.Actor = email
	l.Log(ctx, e)
}

// LoginFailed logs a rejected admin login.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, attemptedEmail, reason string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventLoginFailed)
	e.Actor = attemptedEmail
	e.Success = false
	e.FailureReason = reason
	l.Log(ctx, e)
}

// Logout logs an admin logout.
func (l *Logger) Logout(ctx context.Context, r *http.Request, email string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventLogout)
	e.Actor = email
	l.Log(ctx, e)
}

// AppointmentStatusChanged logs an admin confirming or cancelling a booking.
func (l *Logger) AppointmentStatusChanged(ctx context.Context, r *http.Request, actor string, businessID uint, appointmentID, from, to string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventAppointmentStatusChanged)
	e.Actor = actor
	e.BusinessID = businessID
	e.AppointmentID = appointmentID
	e.Details = map[string]string{
		"from":        from,
		"to":          to,
		"business_id": strconv.FormatUint(uint64(businessID), 10),
	}
	l.Log(ctx, e)
}
