// internal/app/features/admin/handler.go
package admin

import (
	uierrors "github.com/dalemusser/localhub/internal/app/features/errors"
	appointmentstore "github.com/dalemusser/localhub/internal/app/store/appointments"
	"github.com/dalemusser/localhub/internal/app/system/auditlog"
	"github.com/dalemusser/localhub/internal/app/system/auth"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler serves the appointment inbox and activity log under /admin.
type Handler struct {
	Appointments *appointmentstore.Store
	Events       EventQuerier // nil when audit events are not stored
	Sessions     *auth.SessionManager
	AuditLog     *auditlog.Logger
	ErrLog       *uierrors.ErrorLogger
	Log          *zap.Logger
	PageSize     int
}

func NewHandler(db *gorm.DB, sessions *auth.SessionManager, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, pageSize int, logger *zap.Logger) *Handler {
	return &Handler{
		Appointments: appointmentstore.New(db),
		Sessions:     sessions,
		AuditLog:     audit,
		ErrLog:       errLog,
		Log:          logger,
		PageSize:     pageSize,
	}
}
