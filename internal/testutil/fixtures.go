package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/localhub/internal/app/system/textutil"
	"github.com/dalemusser/localhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *gorm.DB
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *gorm.DB {
	return f.db
}

// CreateLocation inserts a location whose slug is derived from name.
func (f *Fixtures) CreateLocation(ctx context.Context, name, pincode string) models.Location {
	f.t.Helper()

	loc := models.Location{
		Slug:    textutil.Slugify(name),
		Name:    name,
		NameCI:  text.Fold(name),
		Pincode: pincode,
		City:    "Vellore",
		State:   "Tamil Nadu",
	}
	if err := f.db.WithContext(ctx).Create(&loc).Error; err != nil {
		f.t.Fatalf("failed to create test location: %v", err)
	}
	return loc
}

// CreateCategory inserts a category under parent (nil for a root).
func (f *Fixtures) CreateCategory(ctx context.Context, name string, parent *models.Category) models.Category {
	f.t.Helper()
	return f.CreateCategoryWithSlug(ctx, name, textutil.Slugify(name), parent)
}

// CreateCategoryWithSlug is CreateCategory with an explicit slug, for
// collision tests where two parents share a child slug.
func (f *Fixtures) CreateCategoryWithSlug(ctx context.Context, name, slug string, parent *models.Category) models.Category {
	f.t.Helper()

	cat := models.Category{
		Slug:   slug,
		Name:   name,
		NameCI: text.Fold(name),
		Level:  models.CategoryLevelRoot,
	}
	if parent != nil {
		pid := parent.ID
		cat.ParentID = &pid
		cat.Level = parent.Level + 1
	}
	if err := f.db.WithContext(ctx).Create(&cat).Error; err != nil {
		f.t.Fatalf("failed to create test category: %v", err)
	}
	return cat
}

// CreateBusiness inserts a business listed under the free-text category name.
func (f *Fixtures) CreateBusiness(ctx context.Context, name, category, pincode string) models.Business {
	f.t.Helper()
	return f.CreateBusinessWithSlug(ctx, name, textutil.Slugify(name), category, pincode)
}

// CreateBusinessWithSlug is CreateBusiness with an explicit slug.
func (f *Fixtures) CreateBusinessWithSlug(ctx context.Context, name, slug, category, pincode string) models.Business {
	f.t.Helper()

	b := models.Business{
		Slug:                slug,
		Name:                name,
		NameCI:              text.Fold(name),
		Category:            category,
		CategoryCI:          text.Fold(category),
		Pincode:             pincode,
		Address:             "1 Main Road",
		Phone:               "9000000000",
		Rating:              4.2,
		ReviewCount:         12,
		OpeningHours:        datatypes.JSON(`{"mon":{"open":"09:00","close":"12:00"},"tue":{"open":"09:00","close":"12:00"},"wed":{"open":"09:00","close":"12:00"},"thu":{"open":"09:00","close":"12:00"},"fri":{"open":"09:00","close":"12:00"},"sat":{"open":"10:00","close":"11:00"}}`),
		AcceptsAppointments: true,
	}
	if err := f.db.WithContext(ctx).Create(&b).Error; err != nil {
		f.t.Fatalf("failed to create test business: %v", err)
	}
	return b
}

// CreateAppointment inserts a pending appointment for business on date at slot.
func (f *Fixtures) CreateAppointment(ctx context.Context, businessID uint, date time.Time, slot string) models.Appointment {
	f.t.Helper()

	a := models.Appointment{
		ID:            uuid.New(),
		BusinessID:    businessID,
		CustomerName:  "Test Customer",
		CustomerPhone: "9111111111",
		Date:          datatypes.Date(date),
		TimeSlot:      slot,
		Status:        models.AppointmentStatusPending,
	}
	if err := f.db.WithContext(ctx).Create(&a).Error; err != nil {
		f.t.Fatalf("failed to create test appointment: %v", err)
	}
	return a
}
