package appointments

import (
	"time"

	uierrors "github.com/dalemusser/localhub/internal/app/features/errors"
	appointmentstore "github.com/dalemusser/localhub/internal/app/store/appointments"
	businessstore "github.com/dalemusser/localhub/internal/app/store/businesses"
	"github.com/dalemusser/localhub/internal/app/system/auditlog"
	"github.com/dalemusser/localhub/internal/app/system/auth"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaxAdvanceDays is how far ahead a booking may be made.
const MaxAdvanceDays = 60

// maxFormBytes caps the booking form body.
const maxFormBytes = 64 << 10

// Handler serves the public booking flow under /book.
type Handler struct {
	Businesses   *businessstore.Store
	Appointments *appointmentstore.Store
	Sessions     *auth.SessionManager
	Audit        *auditlog.Logger
	ErrLog       *uierrors.ErrorLogger
	Log          *zap.Logger

	// Loc is the timezone booking dates are read in.
	Loc *time.Location
	Now func() time.Time
}

func NewHandler(db *gorm.DB, sessions *auth.SessionManager, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, loc *time.Location, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		Businesses:   businessstore.New(db),
		Appointments: appointmentstore.New(db),
		Sessions:     sessions,
		Audit:        audit,
		ErrLog:       errLog,
		Log:          logger,
		Loc:          loc,
		Now:          time.Now,
	}
}

func (h *Handler) now() time.Time {
	return h.Now().In(h.Loc)
}

// today is midnight of the current date in h.Loc.
func (h *Handler) today() time.Time {
	y, m, d := h.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, h.Loc)
}

// parseDate reads a YYYY-MM-DD form value in h.Loc.
func (h *Handler) parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, h.Loc)
}

const dateLayout = "2006-01-02"
