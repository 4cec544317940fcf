package appointments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	appointmentstore "github.com/dalemusser/localhub/internal/app/store/appointments"
	"github.com/dalemusser/localhub/internal/app/system/formutil"
	"github.com/dalemusser/localhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/localhub/internal/app/system/inputval"
	nearmepath "github.com/dalemusser/localhub/internal/app/system/nearme"
	"github.com/dalemusser/localhub/internal/app/system/timeouts"
	"github.com/dalemusser/localhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type bookingInput struct {
	Date  string `validate:"required,datetime=2006-01-02" label:"Date"`
	Slot  string `validate:"required,timeslot" label:"Time"`
	Name  string `validate:"required,max=120" label:"Name"`
	Phone string `validate:"required,phone" label:"Phone"`
	Email string `validate:"omitempty,email,max=254" label:"Email"`
	Notes string `validate:"max=1000" label:"Notes"`
}

type formData struct {
	formutil.Base
	Business *models.Business
	Input    bookingInput
	MinDate  string
	MaxDate  string
	Slots    []slotOption
	Closed   bool
}

type slotsData struct {
	Slots  []slotOption
	Closed bool
}

// loadBookable returns the business for the {slug} param, or nil when it is
// missing or does not take appointments.
func (h *Handler) loadBookable(ctx context.Context, r *http.Request) (*models.Business, error) {
	slug := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "slug")))
	if slug == "" {
		return nil, nil
	}
	b, err := h.Businesses.GetBySlug(ctx, slug)
	if err != nil || b == nil {
		return nil, err
	}
	if !b.AcceptsAppointments {
		return nil, nil
	}
	return b, nil
}

// buildForm assembles the form for in. Slots are listed for in.Date when it
// parses, otherwise for today.
func (h *Handler) buildForm(ctx context.Context, r *http.Request, b *models.Business, in bookingInput) (formData, error) {
	today := h.today()
	date := today
	if d, err := h.parseDate(in.Date); err == nil {
		date = d
	} else {
		in.Date = today.Format(dateLayout)
	}

	var data formData
	formutil.SetBase(&data.Base, r, "Book an appointment with "+b.Name, nearmepath.URL(b.Slug))
	data.Business = b
	data.Input = in
	data.MinDate = today.Format(dateLayout)
	data.MaxDate = today.AddDate(0, 0, MaxAdvanceDays).Format(dateLayout)

	opts, err := h.slotsFor(ctx, b, date, in.Slot)
	if err != nil {
		return formData{}, err
	}
	data.Slots = opts
	data.Closed = len(opts) == 0
	return data, nil
}

func (h *Handler) slotsFor(ctx context.Context, b *models.Business, date time.Time, selected string) ([]slotOption, error) {
	if date.Before(h.today()) {
		return nil, nil
	}
	taken, err := h.Appointments.TakenSlots(ctx, b.ID, date)
	if err != nil {
		return nil, err
	}
	return slotOptions(b, date, h.now(), taken, selected), nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /book/{slug}                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	b, err := h.loadBookable(ctx, r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load business for booking failed", err, "A database error occurred.", "/")
		return
	}
	if b == nil {
		h.ErrLog.LogNotFound(w, r, "booking for unknown business", "This business does not take appointments online.")
		return
	}

	data, err := h.buildForm(ctx, r, b, bookingInput{Date: query.Get(r, "date")})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load booking slots failed", err, "A database error occurred.", nearmepath.URL(b.Slug))
		return
	}
	templates.Render(w, r, "booking_form", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /book/{slug}/slots?date= – HTMX slot picker refresh                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSlots(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	b, err := h.loadBookable(ctx, r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load business for slots failed", err, "A database error occurred.", "/")
		return
	}
	if b == nil {
		http.NotFound(w, r)
		return
	}

	date, err := h.parseDate(query.Get(r, "date"))
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}
	opts, err := h.slotsFor(ctx, b, date, query.Get(r, "slot"))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load booking slots failed", err, "A database error occurred.", "/")
		return
	}
	templates.RenderSnippet(w, "booking_slots", slotsData{Slots: opts, Closed: len(opts) == 0})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /book/{slug}                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse booking form failed", err, "Invalid form data.", "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	b, err := h.loadBookable(ctx, r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load business for booking failed", err, "A database error occurred.", "/")
		return
	}
	if b == nil {
		h.ErrLog.LogNotFound(w, r, "booking for unknown business", "This business does not take appointments online.")
		return
	}

	in := bookingInput{
		Date:  strings.TrimSpace(r.FormValue("date")),
		Slot:  strings.TrimSpace(r.FormValue("slot")),
		Name:  strings.TrimSpace(r.FormValue("name")),
		Phone: strings.TrimSpace(r.FormValue("phone")),
		Email: strings.TrimSpace(r.FormValue("email")),
		Notes: strings.TrimSpace(htmlsanitize.StripTags(r.FormValue("notes"))),
	}

	if res := inputval.Validate(in); res.HasErrors() {
		h.Audit.BookingInvalidInput(ctx, r, b.ID, b.Slug, res.First())
		h.reRender(w, r, b, in, func(d *formData) { d.SetErrors(res) })
		return
	}

	date, _ := h.parseDate(in.Date)
	if msg := h.checkSlot(b, date, in.Slot); msg != "" {
		h.Audit.BookingInvalidInput(ctx, r, b.ID, b.Slug, msg)
		h.reRender(w, r, b, in, func(d *formData) { d.SetError(msg) })
		return
	}

	appt, err := h.Appointments.Create(ctx, models.Appointment{
		BusinessID:    b.ID,
		CustomerName:  in.Name,
		CustomerPhone: in.Phone,
		CustomerEmail: strings.ToLower(in.Email),
		Date:          datatypes.Date(date),
		TimeSlot:      in.Slot,
		Notes:         in.Notes,
	})
	if errors.Is(err, appointmentstore.ErrSlotTaken) {
		h.Audit.BookingSlotTaken(ctx, r, b.ID, b.Slug, in.Date, in.Slot)
		in.Slot = ""
		h.reRender(w, r, b, in, func(d *formData) {
			d.SetError("Sorry, that time was just booked. Please pick another slot.")
		})
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create appointment failed", err, "We could not save your booking. Please try again.", "/book/"+b.Slug)
		return
	}

	h.Audit.BookingCreated(ctx, r, b.ID, b.Slug, appt.ID.String(), in.Date, in.Slot)
	h.Log.Info("appointment booked",
		zap.String("business", b.Slug),
		zap.String("appointment_id", appt.ID.String()),
		zap.String("date", in.Date),
		zap.String("slot", in.Slot))

	if h.Sessions != nil {
		h.Sessions.AddFlash(w, r, "Your appointment request has been sent to "+b.Name+".")
	}
	http.Redirect(w, r, "/book/"+b.Slug+"/confirmed/"+appt.ID.String(), http.StatusSeeOther)
}

// checkSlot returns a user-facing message when date and slot cannot be
// booked, or "" when they can.
func (h *Handler) checkSlot(b *models.Business, date time.Time, slot string) string {
	today := h.today()
	if date.Before(today) {
		return "Please choose a date from today onwards."
	}
	if date.After(today.AddDate(0, 0, MaxAdvanceDays)) {
		return fmt.Sprintf("Bookings can be made up to %d days ahead.", MaxAdvanceDays)
	}
	for _, o := range slotOptions(b, date, h.now(), nil, "") {
		if o.Time == slot {
			if o.Past {
				return "That time has already passed. Please pick a later slot."
			}
			return ""
		}
	}
	return b.Name + " does not take bookings at that time."
}

func (h *Handler) reRender(w http.ResponseWriter, r *http.Request, b *models.Business, in bookingInput, decorate func(*formData)) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data, err := h.buildForm(ctx, r, b, in)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load booking slots failed", err, "A database error occurred.", nearmepath.URL(b.Slug))
		return
	}
	decorate(&data)
	templates.Render(w, r, "booking_form", data)
}
