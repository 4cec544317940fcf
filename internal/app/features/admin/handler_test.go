package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/localhub/internal/app/features/errors"
	"github.com/dalemusser/localhub/internal/app/store/audit"
	"github.com/dalemusser/localhub/internal/app/system/auditlog"
	"github.com/dalemusser/localhub/internal/app/system/auth"
	"github.com/dalemusser/localhub/internal/domain/models"
	"github.com/dalemusser/localhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type memStore struct{ events []audit.Event }

func (m *memStore) Log(_ context.Context, e audit.Event) error {
	m.events = append(m.events, e)
	return nil
}

var day = time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Handler, *gorm.DB, *testutil.Fixtures, *memStore) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", time.Hour, false, logger)
	require.NoError(t, err)
	store := &memStore{}
	al := auditlog.New(store, logger, auditlog.Config{Admin: auditlog.ModeDB})
	h := NewHandler(db, sm, al, uierrors.NewErrorLogger(logger), 2, logger)
	return h, db, testutil.NewFixtures(t, db), store
}

func do(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	func() {
		defer func() {
			// Template rendering may panic in tests - that's expected
			_ = recover()
		}()
		router.ServeHTTP(rec, req)
	}()
	return rec
}

func TestList(t *testing.T) {
	h, _, fx, _ := setup(t)
	ctx := context.Background()
	b := fx.CreateBusiness(ctx, "Sri Dental", "Dentists", "632007")
	fx.CreateAppointment(ctx, b.ID, day, "09:00")
	fx.CreateAppointment(ctx, b.ID, day, "09:30")
	third := fx.CreateAppointment(ctx, b.ID, day, "10:00")
	_, err := h.Appointments.UpdateStatus(ctx, third.ID, models.AppointmentStatusConfirmed)
	require.NoError(t, err)

	data, err := h.list(ctx, httptest.NewRequest("GET", "/admin/appointments", nil))
	require.NoError(t, err)
	assert.Len(t, data.Rows, 2)
	assert.True(t, data.Range.HasNext)
	assert.Equal(t, "/admin/appointments?", data.PagerBase)
	assert.Equal(t, "Sri Dental", data.Rows[0].BusinessName)
	assert.Equal(t, "noindex,nofollow", data.Meta.Robots)

	data, err = h.list(ctx, httptest.NewRequest("GET", "/admin/appointments?status=confirmed", nil))
	require.NoError(t, err)
	require.Len(t, data.Rows, 1)
	assert.Equal(t, third.ID.String(), data.Rows[0].ID)
	assert.False(t, data.Rows[0].CanConfirm)
	assert.True(t, data.Rows[0].CanCancel)
	assert.Equal(t, "/admin/appointments?status=confirmed&", data.PagerBase)

	// unknown status filter lists everything
	data, err = h.list(ctx, httptest.NewRequest("GET", "/admin/appointments?status=bogus", nil))
	require.NoError(t, err)
	assert.Empty(t, data.Status)
	assert.Len(t, data.Rows, 2)
}

func TestRoutes_RequireAdmin(t *testing.T) {
	h, _, _, _ := setup(t)
	router := Routes(h, h.Sessions)

	req := httptest.NewRequest("GET", "/appointments", nil)
	req.Header.Set("Accept", "text/html")
	rec := do(router, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/login?return="))

	req = auth.WithTestUser(httptest.NewRequest("GET", "/appointments", nil), &auth.SessionUser{Email: "x@example.com", Role: "viewer"})
	req.Header.Set("Accept", "text/html")
	rec = do(router, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/forbidden", rec.Header().Get("Location"))
}

func TestHandleStatus(t *testing.T) {
	h, db, fx, store := setup(t)
	ctx := context.Background()
	b := fx.CreateBusiness(ctx, "Sri Dental", "Dentists", "632007")
	a := fx.CreateAppointment(ctx, b.ID, day, "09:00")
	router := Routes(h, h.Sessions)

	rec := do(router, testutil.WithAdmin(postStatus("/appointments/"+a.ID.String()+"/status", "confirmed", "/admin/appointments?status=pending")))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/appointments?status=pending", rec.Header().Get("Location"))

	var got models.Appointment
	require.NoError(t, db.Where("id = ?", a.ID).Take(&got).Error)
	assert.Equal(t, models.AppointmentStatusConfirmed, got.Status)

	require.Len(t, store.events, 1)
	e := store.events[0]
	assert.Equal(t, audit.EventAppointmentStatusChanged, e.EventType)
	assert.Equal(t, testutil.AdminEmail, e.Actor)
	assert.Equal(t, b.ID, e.BusinessID)
	assert.Equal(t, "pending", e.Details["from"])
	assert.Equal(t, "confirmed", e.Details["to"])

	// same status again is a no-op without an audit event
	rec = do(router, testutil.WithAdmin(postStatus("/appointments/"+a.ID.String()+"/status", "confirmed", "")))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/appointments", rec.Header().Get("Location"))
	assert.Len(t, store.events, 1)
}

func TestHandleStatus_Errors(t *testing.T) {
	h, _, fx, store := setup(t)
	ctx := context.Background()
	b := fx.CreateBusiness(ctx, "Sri Dental", "Dentists", "632007")
	a := fx.CreateAppointment(ctx, b.ID, day, "09:00")
	router := Routes(h, h.Sessions)

	tests := []struct {
		name string
		path string
		to   string
		want int
	}{
		{"bad id", "/appointments/nope/status", "confirmed", http.StatusBadRequest},
		{"bad status", "/appointments/" + a.ID.String() + "/status", "archived", http.StatusBadRequest},
		{"unknown appointment", "/appointments/00000000-0000-0000-0000-000000000000/status", "confirmed", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(router, testutil.WithAdmin(postStatus(tt.path, tt.to, "")))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
	assert.Empty(t, store.events)
}

func TestHandleStatus_ReopenTakenSlot(t *testing.T) {
	h, db, fx, store := setup(t)
	ctx := context.Background()
	b := fx.CreateBusiness(ctx, "Sri Dental", "Dentists", "632007")
	old := fx.CreateAppointment(ctx, b.ID, day, "09:00")
	_, err := h.Appointments.UpdateStatus(ctx, old.ID, models.AppointmentStatusCancelled)
	require.NoError(t, err)
	fx.CreateAppointment(ctx, b.ID, day, "09:00")

	rec := do(Routes(h, h.Sessions), testutil.WithAdmin(postStatus("/appointments/"+old.ID.String()+"/status", "pending", "")))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	var got models.Appointment
	require.NoError(t, db.Where("id = ?", old.ID).Take(&got).Error)
	assert.Equal(t, models.AppointmentStatusCancelled, got.Status)
	assert.Empty(t, store.events)
}

func postStatus(path, status, ret string) *http.Request {
	form := url.Values{"status": {status}}
	if ret != "" {
		form.Set("return", ret)
	}
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
