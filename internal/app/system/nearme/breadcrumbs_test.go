package nearme_test

import (
	"testing"

	"github.com/dalemusser/localhub/internal/app/system/nearme"
	"github.com/dalemusser/localhub/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func TestBreadcrumbs_Business(t *testing.T) {
	segs := []string{"katpadi", "fine-dining", "sri-ram-veg"}
	res := nearme.Result{Kind: nearme.BusinessKind, Business: &models.Business{Name: "Sri Ram Veg Restaurant"}}

	got := nearme.Breadcrumbs(segs, res)
	assert.Equal(t, []nearme.Crumb{
		{Label: "Home", URL: "/"},
		{Label: "Katpadi", URL: "/near-me/katpadi"},
		{Label: "Fine Dining", URL: "/near-me/katpadi/fine-dining"},
		{Label: "Sri Ram Veg Restaurant", URL: "/near-me/katpadi/fine-dining/sri-ram-veg"},
	}, got)
}

func TestBreadcrumbs_UsesRawSegmentsForEntities(t *testing.T) {
	segs := []string{"katpadi", "restaurants"}
	res := nearme.Result{
		Kind:     nearme.LocationAndCategoryKind,
		Location: &models.Location{Name: "Katpadi Junction"},
		Category: &models.Category{Name: "Restaurants & Cafes"},
	}

	got := nearme.Breadcrumbs(segs, res)
	assert.Equal(t, "Katpadi", got[1].Label)
	assert.Equal(t, "Restaurants", got[2].Label)
}

func TestURL(t *testing.T) {
	assert.Equal(t, "/near-me", nearme.URL())
	assert.Equal(t, "/near-me/a/b", nearme.URL("a", "", "b"))
	assert.Equal(t, "/near-me/a%20b", nearme.URL("a b"))
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Fine Dining", nearme.Humanize("fine-dining"))
}
