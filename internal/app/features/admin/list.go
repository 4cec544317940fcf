package admin

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/dalemusser/localhub/internal/app/system/paging"
	"github.com/dalemusser/localhub/internal/app/system/timeouts"
	"github.com/dalemusser/localhub/internal/app/system/viewdata"
	"github.com/dalemusser/localhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
)

type appointmentRow struct {
	ID           string
	BusinessName string
	BusinessSlug string
	Customer     string
	Phone        string
	Email        string
	Date         string
	Slot         string
	Notes        string
	Status       models.AppointmentStatus
	CreatedAt    time.Time
	CanConfirm   bool
	CanCancel    bool
}

type listData struct {
	viewdata.BaseVM
	Status    string
	Statuses  []models.AppointmentStatus
	Rows      []appointmentRow
	Range     paging.Range
	PagerBase string
	ReturnURL string
}

var statuses = []models.AppointmentStatus{
	models.AppointmentStatusPending,
	models.AppointmentStatusConfirmed,
	models.AppointmentStatusCancelled,
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/appointments                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data, err := h.list(ctx, r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list appointments failed", err, "A database error occurred.", "/")
		return
	}
	if h.Sessions != nil {
		data.Flashes = h.Sessions.Flashes(w, r)
	}
	templates.Render(w, r, "admin_appointments", data)
}

func (h *Handler) list(ctx context.Context, r *http.Request) (listData, error) {
	status := models.AppointmentStatus(query.Get(r, "status"))
	if !status.Valid() {
		status = ""
	}
	page := paging.FromRequest(r, h.PageSize)

	rows, hasNext, err := h.Appointments.ListRecent(ctx, status, page)
	if err != nil {
		return listData{}, err
	}

	vm := viewdata.NewBaseVM(r, "Appointments", "/")
	vm.Meta.Robots = "noindex,nofollow"

	data := listData{
		BaseVM:    vm,
		Status:    string(status),
		Statuses:  statuses,
		Rows:      make([]appointmentRow, 0, len(rows)),
		Range:     paging.ComputeRange(page, len(rows), hasNext),
		ReturnURL: r.URL.RequestURI(),
	}
	for _, a := range rows {
		data.Rows = append(data.Rows, toRow(a))
	}

	params := url.Values{}
	if status != "" {
		params.Set("status", string(status))
	}
	data.PagerBase = "/admin/appointments?"
	if len(params) > 0 {
		data.PagerBase += params.Encode() + "&"
	}
	return data, nil
}

func toRow(a models.Appointment) appointmentRow {
	row := appointmentRow{
		ID:         a.ID.String(),
		Customer:   a.CustomerName,
		Phone:      a.CustomerPhone,
		Email:      a.CustomerEmail,
		Date:       time.Time(a.Date).Format("Mon 2 Jan 2006"),
		Slot:       a.TimeSlot,
		Notes:      a.Notes,
		Status:     a.Status,
		CreatedAt:  a.CreatedAt,
		CanConfirm: a.Status != models.AppointmentStatusConfirmed,
		CanCancel:  a.Status != models.AppointmentStatusCancelled,
	}
	if a.Business != nil {
		row.BusinessName = a.Business.Name
		row.BusinessSlug = a.Business.Slug
	}
	return row
}
