package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"

	appointmentstore "github.com/dalemusser/localhub/internal/app/store/appointments"
	"github.com/dalemusser/localhub/internal/app/system/auth"
	"github.com/dalemusser/localhub/internal/app/system/timeouts"
	"github.com/dalemusser/localhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/appointments/{id}/status                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/admin/appointments")
		return
	}
	ret := urlutil.SafeReturn(r.FormValue("return"), "", "/admin/appointments")

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad appointment id", err, "Invalid appointment.", ret)
		return
	}
	to := models.AppointmentStatus(strings.TrimSpace(r.FormValue("status")))
	if !to.Valid() {
		h.ErrLog.LogBadRequest(w, r, "bad appointment status", nil, "Unknown status.", ret)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	from, err := h.Appointments.UpdateStatus(ctx, id, to)
	switch {
	case errors.Is(err, appointmentstore.ErrNotFound):
		h.ErrLog.LogNotFound(w, r, "status change for unknown appointment", "Appointment not found.")
		return
	case errors.Is(err, appointmentstore.ErrSlotTaken):
		h.flash(w, r, "That slot has been booked by someone else since; the appointment stays cancelled.")
		http.Redirect(w, r, ret, http.StatusSeeOther)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "update appointment status failed", err, "A database error occurred.", ret)
		return
	}

	if from != to {
		actor := ""
		if u, ok := auth.CurrentUser(r); ok {
			actor = u.Email
		}
		var businessID uint
		if a, err := h.Appointments.GetByID(ctx, id); err == nil && a != nil {
			businessID = a.BusinessID
		}
		h.AuditLog.AppointmentStatusChanged(ctx, r, actor, businessID, id.String(), string(from), string(to))
		h.Log.Info("appointment status changed",
			zap.String("appointment_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)))
		h.flash(w, r, "Appointment marked "+string(to)+".")
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", ret)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, ret, http.StatusSeeOther)
}

func (h *Handler) flash(w http.ResponseWriter, r *http.Request, msg string) {
	if h.Sessions != nil {
		h.Sessions.AddFlash(w, r, msg)
	}
}
