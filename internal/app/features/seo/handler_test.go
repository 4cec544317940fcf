package seo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/localhub/internal/app/features/errors"
	sitemeta "github.com/dalemusser/localhub/internal/app/system/seo"
	"github.com/dalemusser/localhub/internal/app/system/sqldb"
	"github.com/dalemusser/localhub/internal/app/system/viewdata"
	"github.com/dalemusser/localhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServeSitemap(t *testing.T) {
	useSite(t)

	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx := context.Background()
	fx.CreateLocation(ctx, "Katpadi", "632007")
	fx.CreateLocation(ctx, "Gandhi Nagar", "632006")
	restaurants := fx.CreateCategory(ctx, "Restaurants", nil)
	fx.CreateCategory(ctx, "Fine Dining", &restaurants)
	fx.CreateCategory(ctx, "Plumbers", nil)
	fx.CreateBusiness(ctx, "Taj Table", "Fine Dining", "632007")
	fx.CreateBusiness(ctx, "Apollo Pharmacy", "Pharmacies", "632006")

	logger := zap.NewNop()
	r := chi.NewRouter()
	Register(r, NewHandler(db, uierrors.NewErrorLogger(logger), logger))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/sitemap.xml", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()

	for _, want := range []string{
		"<loc>https://example.com/</loc>",
		"<loc>https://example.com/near-me/katpadi</loc>",
		"<loc>https://example.com/near-me/gandhi-nagar</loc>",
		"<loc>https://example.com/near-me/restaurants</loc>",
		"<loc>https://example.com/near-me/katpadi/restaurants</loc>",
		"<loc>https://example.com/near-me/taj-table</loc>",
		"<loc>https://example.com/near-me/apollo-pharmacy</loc>",
	} {
		assert.Contains(t, body, want)
	}
	// empty category pages and pairs are left out
	assert.NotContains(t, body, "/near-me/plumbers")
	assert.NotContains(t, body, "/near-me/gandhi-nagar/restaurants")
	assert.Equal(t, 7, strings.Count(body, "<url>"))
}

func TestServeSitemap_StoreFault(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	require.NoError(t, sqldb.Close(db))

	rec := httptest.NewRecorder()
	func() {
		defer func() {
			// Template rendering may panic in tests - that's expected
			_ = recover()
		}()
		h.ServeSitemap(rec, httptest.NewRequest("GET", "/sitemap.xml", nil))
	}()
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServeRobots(t *testing.T) {
	useSite(t)

	rec := httptest.NewRecorder()
	(&Handler{}).ServeRobots(rec, httptest.NewRequest("GET", "/robots.txt", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, rec.Body.String(), "Sitemap: https://example.com/sitemap.xml")
	assert.Contains(t, rec.Body.String(), "Disallow: /admin/")
}

func useSite(t *testing.T) {
	t.Helper()
	prev := viewdata.Site()
	viewdata.Init(sitemeta.Site{Name: "LocalHub", BaseURL: "https://example.com"})
	t.Cleanup(func() { viewdata.Init(prev) })
}
