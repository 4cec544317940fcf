// internal/app/store/locations/locationstore.go
package locationstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/localhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDuplicateLocation = errors.New("a location with this slug already exists")

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetBySlug returns the location with slug, or nil when there is none.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Location, error) {
	var loc models.Location
	err := s.db.WithContext(ctx).Where("slug = ?", slug).Take(&loc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("location by slug: %w", err)
	}
	return &loc, nil
}

func (s *Store) Create(ctx context.Context, loc models.Location) (models.Location, error) {
	loc.ID = 0
	loc.NameCI = text.Fold(loc.Name)
	if err := s.db.WithContext(ctx).Create(&loc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Location{}, ErrDuplicateLocation
		}
		return models.Location{}, err
	}
	return loc, nil
}

// Upsert inserts loc or, when its slug exists, refreshes name, pincode,
// city and state.
func (s *Store) Upsert(ctx context.Context, loc models.Location) error {
	loc.ID = 0
	loc.NameCI = text.Fold(loc.Name)
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "name_ci", "pincode", "city", "state", "updated_at"}),
		}).
		Create(&loc).Error
}

// ListAll returns every location ordered by name.
func (s *Store) ListAll(ctx context.Context) ([]models.Location, error) {
	var locs []models.Location
	if err := s.db.WithContext(ctx).Order("name_ci ASC").Find(&locs).Error; err != nil {
		return nil, err
	}
	return locs, nil
}

// ListByPincode returns the locations sharing pincode.
func (s *Store) ListByPincode(ctx context.Context, pincode string) ([]models.Location, error) {
	var locs []models.Location
	err := s.db.WithContext(ctx).
		Where("pincode = ?", pincode).
		Order("name_ci ASC").
		Find(&locs).Error
	if err != nil {
		return nil, err
	}
	return locs, nil
}
