// Package directory adapts the SQL stores to the point lookups used when
// resolving near-me paths.
package directory

import (
	"context"

	businessstore "github.com/dalemusser/localhub/internal/app/store/businesses"
	categorystore "github.com/dalemusser/localhub/internal/app/store/categories"
	locationstore "github.com/dalemusser/localhub/internal/app/store/locations"
	"github.com/dalemusser/localhub/internal/domain/models"
	"gorm.io/gorm"
)

// Lookup satisfies nearme.Lookup.
type Lookup struct {
	locations  *locationstore.Store
	businesses *businessstore.Store
	categories *categorystore.Store
}

func New(db *gorm.DB) *Lookup {
	return &Lookup{
		locations:  locationstore.New(db),
		businesses: businessstore.New(db),
		categories: categorystore.New(db),
	}
}

func (l *Lookup) LocationBySlug(ctx context.Context, slug string) (*models.Location, error) {
	return l.locations.GetBySlug(ctx, slug)
}

func (l *Lookup) BusinessBySlug(ctx context.Context, slug string) (*models.Business, error) {
	return l.businesses.GetBySlug(ctx, slug)
}

func (l *Lookup) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return l.categories.GetBySlug(ctx, slug)
}

func (l *Lookup) CategoryBySlugAndParent(ctx context.Context, slug string, parentID uint) (*models.Category, error) {
	return l.categories.GetBySlugAndParent(ctx, slug, parentID)
}
