package home

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/localhub/internal/app/features/errors"
	"github.com/dalemusser/localhub/internal/app/system/auth"
	"github.com/dalemusser/localhub/internal/app/system/sqldb"
	"github.com/dalemusser/localhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return NewHandler(db, uierrors.NewErrorLogger(logger), logger), testutil.NewFixtures(t, db)
}

func TestLoad(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()

	restaurants := fx.CreateCategory(ctx, "Restaurants", nil)
	fx.CreateCategory(ctx, "Fine Dining", &restaurants)
	fx.CreateCategory(ctx, "Dentists", nil)
	fx.CreateLocation(ctx, "Katpadi", "632007")

	data, err := h.load(ctx, httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(data.Categories) != 2 {
		t.Fatalf("expected 2 root categories, got %d", len(data.Categories))
	}
	for _, c := range data.Categories {
		if c.Name == "Fine Dining" {
			t.Error("subcategory listed on home page")
		}
	}
	if len(data.Locations) != 1 || data.Locations[0].URL != "/near-me/katpadi" {
		t.Errorf("unexpected locations %+v", data.Locations)
	}
	if len(data.JSONLD) != 1 {
		t.Errorf("expected WebSite JSON-LD, got %d blocks", len(data.JSONLD))
	}
}

func TestServeRoot_AuthenticatedUser(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{Name: "Owner", Email: "owner@example.com", Role: auth.RoleAdmin})

	data, err := h.load(context.Background(), req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !data.IsLoggedIn || data.UserName != "Owner" {
		t.Errorf("expected signed-in admin in view model, got %+v", data.BaseVM)
	}
}

func TestServeRoot_DatabaseError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	if err := sqldb.Close(db); err != nil {
		t.Fatalf("close: %v", err)
	}

	rec := httptest.NewRecorder()
	func() {
		defer func() {
			// Template rendering may panic in tests - that's expected
			_ = recover()
		}()
		h.ServeRoot(rec, httptest.NewRequest("GET", "/", nil))
	}()

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
