package businessstore_test

import (
	"errors"
	"testing"

	businessstore "github.com/dalemusser/localhub/internal/app/store/businesses"
	"github.com/dalemusser/localhub/internal/app/system/paging"
	"github.com/dalemusser/localhub/internal/domain/models"
	"github.com/dalemusser/localhub/internal/testutil"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetBySlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := businessstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b := fx.CreateBusiness(ctx, "Hotel Saravana Bhavan", "Restaurants", "632007")

	got, err := store.GetBySlug(ctx, "hotel-saravana-bhavan")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, b.ID, got.ID)

	got, err = store.GetBySlug(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Create_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := businessstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Business{Slug: "anu-dental", Name: "Anu Dental", Category: "Dentists"})
	require.NoError(t, err)
	assert.Equal(t, "dentists", created.CategoryCI)

	_, err = store.Create(ctx, models.Business{Slug: "anu-dental", Name: "Other"})
	assert.True(t, errors.Is(err, businessstore.ErrDuplicateBusiness), "got %v", err)
}

func TestStore_Upsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := businessstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	require.NoError(t, store.Upsert(ctx, models.Business{Slug: "x", Name: "X", Category: "Cafes", Pincode: "1", Rating: 4.5}))
	require.NoError(t, store.Upsert(ctx, models.Business{Slug: "x", Name: "X Cafe", Category: "Bakeries", Pincode: "2"}))

	got, err := store.GetBySlug(ctx, "x")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "X Cafe", got.Name)
	assert.Equal(t, "bakeries", got.CategoryCI)
	assert.Equal(t, "2", got.Pincode)
	assert.Equal(t, 4.5, got.Rating, "rating is not overwritten by upsert")
}

func TestStore_ListByCategoryAndPincode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := businessstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateBusiness(ctx, "A Biryani", "Restaurants", "632007")
	fx.CreateBusiness(ctx, "B Dosa", "restaurants", "632007")
	fx.CreateBusiness(ctx, "C Paris", "Fine Dining", "632007")
	fx.CreateBusiness(ctx, "D Elsewhere", "Restaurants", "600001")
	fx.CreateBusiness(ctx, "E Garage", "Automotive", "632007")

	rows, hasNext, err := store.ListByCategoryAndPincode(ctx, []string{"Restaurants", "Fine Dining"}, "632007", paging.New(1, 10))
	require.NoError(t, err)
	assert.False(t, hasNext)
	assert.Len(t, rows, 3)

	rows, hasNext, err = store.ListByCategoryAndPincode(ctx, []string{"Restaurants"}, "632007", paging.New(1, 1))
	require.NoError(t, err)
	assert.True(t, hasNext)
	assert.Len(t, rows, 1)

	rows, _, err = store.ListByCategoryAndPincode(ctx, nil, "632007", paging.New(1, 10))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStore_ListByPincodeAndCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := businessstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateBusiness(ctx, "A", "Restaurants", "632007")
	fx.CreateBusiness(ctx, "B", "Automotive", "632007")
	fx.CreateBusiness(ctx, "C", "Restaurants", "600001")

	rows, _, err := store.ListByPincode(ctx, "632007", paging.New(1, 10))
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, _, err = store.ListByCategory(ctx, []string{"RESTAURANTS"}, paging.New(1, 10))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestStore_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := businessstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateBusiness(ctx, "Sri Dental Care", "Dentists", "632007")
	fx.CreateBusiness(ctx, "Smile Clinic", "Dental Clinics", "600001")
	fx.CreateBusiness(ctx, "100% Pure Juice", "Juice Bars", "632007")

	rows, _, err := store.Search(ctx, "dental", "", paging.New(1, 10))
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, _, err = store.Search(ctx, "DENTAL", "632007", paging.New(1, 10))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sri Dental Care", rows[0].Name)

	rows, _, err = store.Search(ctx, "100%", "", paging.New(1, 10))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, _, err = store.Search(ctx, "%", "", paging.New(1, 10))
	require.NoError(t, err)
	assert.Len(t, rows, 1, "percent sign is matched literally")
}

func TestStore_CountByCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := businessstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateBusiness(ctx, "A", "Restaurants", "632007")
	fx.CreateBusiness(ctx, "B", "Restaurants", "632007")
	fx.CreateBusiness(ctx, "C", "Automotive", "632007")

	counts, err := store.CountByCategory(ctx, "632007")
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, businessstore.CategoryCount{Category: "Restaurants", Count: 2}, counts[0])
}

func TestStore_CountByCategory_FoldsCase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := businessstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateBusiness(ctx, "Anu Dental", "Dentists", "632007")
	fx.CreateBusiness(ctx, "Raj Dental", "dentists", "632007")
	fx.CreateBusiness(ctx, "Sri Dental", "DENTISTS", "632007")

	counts, err := store.CountByCategory(ctx, "632007")
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, int64(3), counts[0].Count)
	assert.Equal(t, text.Fold("Dentists"), text.Fold(counts[0].Category))
}

func TestStore_ListSlugs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := businessstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateBusiness(ctx, "A One", "X", "1")
	fx.CreateBusiness(ctx, "B Two", "X", "1")

	slugs, err := store.ListSlugs(ctx)
	require.NoError(t, err)
	require.Len(t, slugs, 2)
	assert.Equal(t, "a-one", slugs[0].Slug)
	assert.False(t, slugs[0].UpdatedAt.IsZero())
}

func TestStore_CountInCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := businessstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateBusiness(ctx, "Anjappar", "Restaurants", "632007")
	fx.CreateBusiness(ctx, "Taj Fine Dine", "fine dining", "632007")
	fx.CreateBusiness(ctx, "Annapoorna", "Restaurants", "632001")
	fx.CreateBusiness(ctx, "Apollo Pharmacy", "Pharmacies", "632007")

	n, err := store.CountInCategories(ctx, []string{"Restaurants", "Fine Dining"}, "632007")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = store.CountInCategories(ctx, []string{"Restaurants"}, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = store.CountInCategories(ctx, nil, "632007")
	require.NoError(t, err)
	assert.Zero(t, n)
}
