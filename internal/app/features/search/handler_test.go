package search

import (
	"context"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/localhub/internal/app/features/errors"
	"github.com/dalemusser/localhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T) *Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx := context.Background()

	fx.CreateLocation(ctx, "Katpadi", "632007")
	fx.CreateBusiness(ctx, "Sri Dental Care", "Dentists", "632007")
	fx.CreateBusiness(ctx, "Smile Dental", "Dentists", "632001")
	fx.CreateBusiness(ctx, "Apollo Pharmacy", "Pharmacies", "632007")

	logger := zap.NewNop()
	return NewHandler(db, 1, uierrors.NewErrorLogger(logger), logger)
}

func TestSearch(t *testing.T) {
	h := setup(t)

	tests := []struct {
		name      string
		target    string
		searched  bool
		tooShort  bool
		wantNames []string
		hasNext   bool
	}{
		{"empty query", "/search", false, false, nil, false},
		{"too short", "/search?q=a", false, true, nil, false},
		{"by name everywhere", "/search?q=dental", true, false, []string{"Smile Dental"}, true},
		{"second page", "/search?q=dental&start=2", true, false, []string{"Sri Dental Care"}, false},
		{"scoped to location", "/search?q=dent&location=katpadi", true, false, []string{"Sri Dental Care"}, false},
		{"by category", "/search?q=pharm", true, false, []string{"Apollo Pharmacy"}, false},
		{"unknown location searches everywhere", "/search?q=apollo&location=nowhere", true, false, []string{"Apollo Pharmacy"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := h.search(context.Background(), httptest.NewRequest("GET", tt.target, nil))
			require.NoError(t, err)

			assert.Equal(t, tt.searched, data.Searched)
			assert.Equal(t, tt.tooShort, data.TooShort)
			assert.Equal(t, "noindex,follow", data.Meta.Robots)

			var names []string
			for _, b := range data.Businesses {
				names = append(names, b.Name)
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.hasNext, data.Range.HasNext)
		})
	}
}

func TestSearch_PagerKeepsLocation(t *testing.T) {
	h := setup(t)
	data, err := h.search(context.Background(), httptest.NewRequest("GET", "/search?q=dent&location=katpadi", nil))
	require.NoError(t, err)
	assert.Equal(t, "/search?location=katpadi&q=dent&", data.PagerBase)
	require.NotNil(t, data.Location)
	assert.Equal(t, "632007", data.Location.Pincode)
}
