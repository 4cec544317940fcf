package appointments

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/localhub/internal/app/system/timeouts"
	"github.com/dalemusser/localhub/internal/app/system/viewdata"
	"github.com/dalemusser/localhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type confirmedData struct {
	viewdata.BaseVM
	Appointment *models.Appointment
	Business    *models.Business
	DateLabel   string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /book/{slug}/confirmed/{id}                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeConfirmed(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogNotFound(w, r, "malformed appointment id", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	appt, err := h.Appointments.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load appointment failed", err, "A database error occurred.", "/")
		return
	}
	// the slug in the URL must match, so ids cannot be probed across businesses
	if appt == nil || appt.Business == nil || appt.Business.Slug != chi.URLParam(r, "slug") {
		h.ErrLog.LogNotFound(w, r, "appointment not found", "")
		return
	}

	vm := viewdata.NewBaseVM(r, "Appointment requested", "/near-me/"+appt.Business.Slug)
	vm.Meta.Robots = "noindex,nofollow"
	if h.Sessions != nil {
		vm.Flashes = h.Sessions.Flashes(w, r)
	}

	templates.Render(w, r, "booking_confirmed", confirmedData{
		BaseVM:      vm,
		Appointment: appt,
		Business:    appt.Business,
		DateLabel:   time.Time(appt.Date).Format("Monday, 2 January 2006"),
	})
}
