package nearme

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/localhub/internal/app/features/errors"
	nearmepath "github.com/dalemusser/localhub/internal/app/system/nearme"
	"github.com/dalemusser/localhub/internal/app/system/paging"
	"github.com/dalemusser/localhub/internal/app/system/sqldb"
	"github.com/dalemusser/localhub/internal/domain/models"
	"github.com/dalemusser/localhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type world struct {
	db          *gorm.DB
	katpadi     models.Location
	gandhi      models.Location
	restaurants models.Category
	fineDining  models.Category
	cafe        models.Business
	taj         models.Business
	far         models.Business
	pharmacy    models.Business
}

func seed(t *testing.T) world {
	t.Helper()
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	w := world{db: db}
	w.katpadi = fx.CreateLocation(ctx, "Katpadi", "632007")
	w.gandhi = fx.CreateLocation(ctx, "Gandhi Nagar", "632006")
	w.restaurants = fx.CreateCategory(ctx, "Restaurants", nil)
	w.fineDining = fx.CreateCategory(ctx, "Fine Dining", &w.restaurants)
	w.cafe = fx.CreateBusiness(ctx, "Some Business", "Restaurants", "632007")
	w.taj = fx.CreateBusiness(ctx, "Taj Table", "Fine Dining", "632007")
	w.far = fx.CreateBusiness(ctx, "Far Away Diner", "Restaurants", "632006")
	w.pharmacy = fx.CreateBusiness(ctx, "Apollo Pharmacy", "Pharmacies", "632007")
	return w
}

func newTestHandler(db *gorm.DB) *Handler {
	logger := zap.NewNop()
	return NewHandler(db, paging.PageSize, uierrors.NewErrorLogger(logger), logger)
}

func resolve(t *testing.T, h *Handler, segs ...string) pageRequest {
	t.Helper()
	res, err := h.Resolver.Resolve(context.Background(), segs)
	require.NoError(t, err)
	return pageRequest{
		Segments: segs,
		Result:   res,
		Crumbs:   nearmepath.Breadcrumbs(segs, res),
		Page:     paging.New(1, paging.PageSize),
	}
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", target, nil)
	func() {
		defer func() {
			// Template rendering may panic in tests - that's expected
			_ = recover()
		}()
		h.Serve(rec, req)
	}()
	return rec
}

func TestBusinessPage(t *testing.T) {
	w := seed(t)
	h := newTestHandler(w.db)
	pr := resolve(t, h, "katpadi", "restaurants", "some-business")
	require.Equal(t, strategyBusiness, selectStrategy(pr.Result))

	req := httptest.NewRequest("GET", "/near-me/katpadi/restaurants/some-business", nil)
	data, err := h.businessPage(context.Background(), req, pr)
	require.NoError(t, err)

	assert.Equal(t, w.cafe.ID, data.Business.ID)
	require.NotNil(t, data.Location)
	assert.Equal(t, "katpadi", data.Location.Slug)
	assert.True(t, strings.HasSuffix(data.Meta.Canonical, "/near-me/some-business"), data.Meta.Canonical)
	assert.Equal(t, "/book/some-business", data.BookURL)
	assert.Equal(t, "/near-me/katpadi/restaurants", data.CategoryURL)
	assert.Len(t, data.JSONLD, 2)
	assert.Contains(t, string(data.JSONLD[0]), `"LocalBusiness"`)

	require.Len(t, data.Hours, 7)
	assert.Equal(t, "Monday", data.Hours[0].Day)
	assert.Equal(t, "09:00", data.Hours[0].Open)
	assert.Empty(t, data.Hours[6].Open, "Sunday has no hours")

	crumbs := data.Breadcrumbs
	require.Len(t, crumbs, 4)
	assert.Equal(t, "Katpadi", crumbs[1].Label)
	assert.Equal(t, "Restaurants", crumbs[2].Label)
	assert.Equal(t, "Some Business", crumbs[3].Label)

	// only the other restaurant in the same pincode, never the business itself
	assert.Empty(t, data.Related)
}

func TestBusinessPage_RelatedExcludesSelf(t *testing.T) {
	w := seed(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	other := testutil.NewFixtures(t, w.db).CreateBusiness(ctx, "Second Kitchen", "Restaurants", "632007")

	h := newTestHandler(w.db)
	pr := resolve(t, h, "some-business")
	data, err := h.businessPage(ctx, httptest.NewRequest("GET", "/near-me/some-business", nil), pr)
	require.NoError(t, err)

	require.Len(t, data.Related, 1)
	assert.Equal(t, other.ID, data.Related[0].ID)
}

func TestLocationCategoryPage(t *testing.T) {
	w := seed(t)
	h := newTestHandler(w.db)
	pr := resolve(t, h, "katpadi", "restaurants")
	require.Equal(t, strategyLocationCategory, selectStrategy(pr.Result))

	data, err := h.locationCategoryPage(context.Background(), httptest.NewRequest("GET", "/near-me/katpadi/restaurants", nil), pr)
	require.NoError(t, err)

	assert.Equal(t, "Restaurants near Katpadi", data.Heading)
	assert.EqualValues(t, 2, data.Total, "subtree within the pincode")
	ids := []uint{}
	for _, b := range data.Businesses {
		ids = append(ids, b.ID)
	}
	assert.ElementsMatch(t, []uint{w.cafe.ID, w.taj.ID}, ids)

	require.Len(t, data.Subcategories, 1)
	assert.Equal(t, "/near-me/katpadi/restaurants/fine-dining", data.Subcategories[0].URL)
	assert.Equal(t, "index,follow", data.Meta.Robots)
	assert.True(t, strings.HasSuffix(data.Meta.Canonical, "/near-me/katpadi/restaurants"))
}

func TestLocationCategoryPage_Subcategory(t *testing.T) {
	w := seed(t)
	h := newTestHandler(w.db)
	pr := resolve(t, h, "katpadi", "restaurants", "fine-dining")
	require.Equal(t, strategyLocationCategory, selectStrategy(pr.Result))

	data, err := h.locationCategoryPage(context.Background(), httptest.NewRequest("GET", "/near-me/katpadi/restaurants/fine-dining", nil), pr)
	require.NoError(t, err)

	assert.Equal(t, w.fineDining.ID, data.Category.ID)
	require.NotNil(t, data.Parent)
	assert.Equal(t, w.restaurants.ID, data.Parent.ID)
	assert.Empty(t, data.Subcategories)
	require.Len(t, data.Businesses, 1)
	assert.Equal(t, w.taj.ID, data.Businesses[0].ID)
	assert.True(t, strings.HasSuffix(data.Meta.Canonical, "/near-me/katpadi/restaurants/fine-dining"))
}

func TestSubcategoryLinks_MidLevelLinksLeavesDirectly(t *testing.T) {
	w := seed(t)
	fx := testutil.NewFixtures(t, w.db)
	ctx := context.Background()
	health := fx.CreateCategory(ctx, "Health", nil)
	dentists := fx.CreateCategory(ctx, "Dentists", &health)
	fx.CreateCategory(ctx, "Orthodontists", &dentists)
	h := newTestHandler(w.db)

	pr := resolve(t, h, "katpadi", "health", "dentists")
	data, err := h.locationCategoryPage(ctx, httptest.NewRequest("GET", "/near-me/katpadi/health/dentists", nil), pr)
	require.NoError(t, err)
	require.Len(t, data.Subcategories, 1)
	assert.Equal(t, "/near-me/katpadi/dentists/orthodontists", data.Subcategories[0].URL)

	// the link resolves to the leaf under its real parent
	leaf := resolve(t, h, "katpadi", "dentists", "orthodontists")
	require.NotNil(t, leaf.Result.Category)
	assert.Equal(t, "orthodontists", leaf.Result.Category.Slug)
	require.NotNil(t, leaf.Result.ParentCategory)
	assert.Equal(t, dentists.ID, leaf.Result.ParentCategory.ID)

	pr = resolve(t, h, "health", "dentists")
	cdata, err := h.categoryPage(ctx, httptest.NewRequest("GET", "/near-me/health/dentists", nil), pr)
	require.NoError(t, err)
	require.Len(t, cdata.Subcategories, 1)
	assert.Equal(t, "/near-me/dentists/orthodontists", cdata.Subcategories[0].URL)
}

func TestSubcategoryLinks_ShadowedSlugIsNotLinked(t *testing.T) {
	w := seed(t)
	fx := testutil.NewFixtures(t, w.db)
	ctx := context.Background()
	health := fx.CreateCategory(ctx, "Health", nil)
	nested := fx.CreateCategory(ctx, "Clinics", &health)
	fx.CreateCategory(ctx, "Eye Clinics", &nested)
	fx.CreateCategory(ctx, "Clinics", nil) // a root owns the bare slug
	h := newTestHandler(w.db)

	pr := resolve(t, h, "health", "clinics")
	data, err := h.categoryPage(ctx, httptest.NewRequest("GET", "/near-me/health/clinics", nil), pr)
	require.NoError(t, err)
	assert.Empty(t, data.Subcategories)
}

func TestLocationPage_FoldsCategoryCase(t *testing.T) {
	w := seed(t)
	fx := testutil.NewFixtures(t, w.db)
	ctx := context.Background()
	fx.CreateBusiness(ctx, "Late Night Eats", "restaurants", "632007")
	h := newTestHandler(w.db)

	data, err := h.locationPage(ctx, httptest.NewRequest("GET", "/near-me/katpadi", nil), resolve(t, h, "katpadi"))
	require.NoError(t, err)

	urls := map[string]int{}
	for _, c := range data.Categories {
		urls[c.URL]++
	}
	assert.Equal(t, 1, urls["/near-me/katpadi/restaurants"])
	for _, g := range data.Groups {
		if g.URL == "/near-me/katpadi/restaurants" {
			assert.EqualValues(t, 2, g.Count)
			assert.Len(t, g.Businesses, 2)
		}
	}
}

func TestLocationPage(t *testing.T) {
	w := seed(t)
	h := newTestHandler(w.db)
	pr := resolve(t, h, "katpadi")
	require.Equal(t, strategyLocation, selectStrategy(pr.Result))

	data, err := h.locationPage(context.Background(), httptest.NewRequest("GET", "/near-me/katpadi", nil), pr)
	require.NoError(t, err)

	assert.EqualValues(t, 3, data.Total)
	assert.Len(t, data.Categories, 3)
	assert.Len(t, data.Groups, 3)
	for _, g := range data.Groups {
		require.Len(t, g.Businesses, 1, g.Name)
		if g.Name == "Restaurants" {
			assert.Equal(t, "/near-me/katpadi/restaurants", g.URL)
		}
	}
}

func TestCategoryPage(t *testing.T) {
	w := seed(t)
	h := newTestHandler(w.db)
	pr := resolve(t, h, "restaurants")
	require.Equal(t, strategyCategory, selectStrategy(pr.Result))

	data, err := h.categoryPage(context.Background(), httptest.NewRequest("GET", "/near-me/restaurants", nil), pr)
	require.NoError(t, err)

	assert.EqualValues(t, 3, data.Total, "every location, whole subtree")
	assert.Len(t, data.Businesses, 3)
	require.Len(t, data.Subcategories, 1)
	assert.Equal(t, "/near-me/restaurants/fine-dining", data.Subcategories[0].URL)

	urls := []string{}
	for _, l := range data.Locations {
		urls = append(urls, l.URL)
	}
	assert.ElementsMatch(t, []string{"/near-me/katpadi/restaurants", "/near-me/gandhi-nagar/restaurants"}, urls)
}

func TestCategoryPage_EmptyIsNoIndex(t *testing.T) {
	w := seed(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	testutil.NewFixtures(t, w.db).CreateCategory(ctx, "Plumbers", nil)

	h := newTestHandler(w.db)
	pr := resolve(t, h, "plumbers")
	data, err := h.categoryPage(ctx, httptest.NewRequest("GET", "/near-me/plumbers", nil), pr)
	require.NoError(t, err)

	assert.Zero(t, data.Total)
	assert.Equal(t, "noindex,follow", data.Meta.Robots)
}

func TestServe_Statuses(t *testing.T) {
	w := seed(t)
	h := newTestHandler(w.db)

	tests := []struct {
		name     string
		target   string
		want     int
		location string
	}{
		{"no segments", "/near-me", http.StatusNotFound, ""},
		{"unknown slug", "/near-me/nowhere", http.StatusNotFound, ""},
		{"two locations", "/near-me/katpadi/gandhi-nagar", http.StatusNotFound, ""},
		{"uppercase redirects", "/near-me/Katpadi/Restaurants?start=2", http.StatusMovedPermanently, "/near-me/katpadi/restaurants?start=2"},
		{"double slash redirects", "/near-me/katpadi//restaurants", http.StatusMovedPermanently, "/near-me/katpadi/restaurants"},
		{"trailing slash redirects", "/near-me/katpadi/", http.StatusMovedPermanently, "/near-me/katpadi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.target)
			assert.Equal(t, tt.want, rec.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rec.Header().Get("Location"))
			}
		})
	}
}

func TestServe_StoreFaultIs500(t *testing.T) {
	w := seed(t)
	h := newTestHandler(w.db)
	require.NoError(t, sqldb.Close(w.db))

	rec := serve(h, "/near-me/katpadi")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGroupByCategory(t *testing.T) {
	rows := []models.Business{
		{ID: 1, Category: "Restaurants"},
		{ID: 2, Category: "pharmacies"},
		{ID: 3, Category: "restaurants"},
		{ID: 4, Category: ""},
	}
	cats := []link{
		{Name: "Pharmacies", URL: "/near-me/k/pharmacies", Count: 9},
		{Name: "Restaurants", URL: "/near-me/k/restaurants", Count: 2},
		{Name: "Bakeries", URL: "/near-me/k/bakeries", Count: 1},
	}

	groups := groupByCategory(rows, cats)
	require.Len(t, groups, 3)
	assert.Equal(t, "Pharmacies", groups[0].Name)
	assert.Equal(t, "Restaurants", groups[1].Name)
	assert.Len(t, groups[1].Businesses, 2)
	assert.Equal(t, "Other", groups[2].Name)
	assert.Empty(t, groups[2].URL)
}

func TestPagedPath(t *testing.T) {
	assert.Equal(t, "/near-me/k", pagedPath("/near-me/k", paging.New(1, 24)))
	assert.Equal(t, "/near-me/k?start=25", pagedPath("/near-me/k", paging.New(25, 24)))
}
