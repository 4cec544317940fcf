// internal/app/store/businesses/businessstore.go
package businessstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/localhub/internal/app/system/paging"
	"github.com/dalemusser/localhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDuplicateBusiness = errors.New("a business with this slug already exists")

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CategoryCount is one row of CountByCategory.
type CategoryCount struct {
	Category string
	Count    int64
}

// SlugStamp is a slug with its last modification time, for sitemaps.
type SlugStamp struct {
	Slug      string
	UpdatedAt time.Time
}

// GetBySlug returns the business with slug, or nil when there is none.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Business, error) {
	var b models.Business
	err := s.db.WithContext(ctx).Where("slug = ?", slug).Take(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("business by slug: %w", err)
	}
	return &b, nil
}

func (s *Store) GetByID(ctx context.Context, id uint) (*models.Business, error) {
	var b models.Business
	err := s.db.WithContext(ctx).Take(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func normalize(b *models.Business) {
	b.NameCI = text.Fold(b.Name)
	b.CategoryCI = text.Fold(b.Category)
}

func (s *Store) Create(ctx context.Context, b models.Business) (models.Business, error) {
	b.ID = 0
	normalize(&b)
	if err := s.db.WithContext(ctx).Create(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Business{}, ErrDuplicateBusiness
		}
		return models.Business{}, err
	}
	return b, nil
}

// Upsert inserts b or refreshes the listing fields of the row with its slug.
// Rating and review counts are left alone on update.
func (s *Store) Upsert(ctx context.Context, b models.Business) error {
	b.ID = 0
	normalize(&b)
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "name_ci", "category", "category_ci", "pincode",
				"address", "phone", "website", "description", "opening_hours",
				"accepts_appointments", "updated_at",
			}),
		}).
		Create(&b).Error
}

func (s *Store) listed(ctx context.Context, p paging.Page) *gorm.DB {
	return s.db.WithContext(ctx).
		Order("rating DESC").
		Order("review_count DESC").
		Order("name_ci ASC").
		Order("id ASC").
		Offset(p.Offset()).
		Limit(p.LimitPlusOne())
}

func (s *Store) page(q *gorm.DB, p paging.Page) ([]models.Business, bool, error) {
	var rows []models.Business
	if err := q.Find(&rows).Error; err != nil {
		return nil, false, err
	}
	hasNext := paging.TrimPage(&rows, p)
	return rows, hasNext, nil
}

func foldAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if f := text.Fold(n); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ListByCategoryAndPincode lists businesses whose free-text category matches
// one of categoryNames (case-insensitively) within pincode.
func (s *Store) ListByCategoryAndPincode(ctx context.Context, categoryNames []string, pincode string, p paging.Page) ([]models.Business, bool, error) {
	folded := foldAll(categoryNames)
	if len(folded) == 0 {
		return nil, false, nil
	}
	q := s.listed(ctx, p).
		Where("category_ci IN ?", folded).
		Where("pincode = ?", pincode)
	return s.page(q, p)
}

// ListByPincode lists every business in pincode.
func (s *Store) ListByPincode(ctx context.Context, pincode string, p paging.Page) ([]models.Business, bool, error) {
	q := s.listed(ctx, p).Where("pincode = ?", pincode)
	return s.page(q, p)
}

// ListByCategory lists businesses matching categoryNames in any location.
func (s *Store) ListByCategory(ctx context.Context, categoryNames []string, p paging.Page) ([]models.Business, bool, error) {
	folded := foldAll(categoryNames)
	if len(folded) == 0 {
		return nil, false, nil
	}
	q := s.listed(ctx, p).Where("category_ci IN ?", folded)
	return s.page(q, p)
}

// Search matches q against name and category. An empty pincode searches
// everywhere.
func (s *Store) Search(ctx context.Context, q, pincode string, p paging.Page) ([]models.Business, bool, error) {
	needle := "%" + escapeLike(text.Fold(q)) + "%"
	query := s.listed(ctx, p).
		Where(`name_ci LIKE ? ESCAPE '\' OR category_ci LIKE ? ESCAPE '\'`, needle, needle)
	if pincode != "" {
		query = query.Where("pincode = ?", pincode)
	}
	return s.page(query, p)
}

// CountByCategory counts businesses per category in pincode, largest first.
// Names are grouped case-insensitively, the same way listings match them;
// each group reports one of its spellings.
func (s *Store) CountByCategory(ctx context.Context, pincode string) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := s.db.WithContext(ctx).
		Model(&models.Business{}).
		Select("MIN(category) AS category, COUNT(*) AS count").
		Where("pincode = ?", pincode).
		Group("category_ci").
		Order("count DESC").
		Order("category_ci ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountInCategories counts businesses matching categoryNames. An empty
// pincode counts across every location.
func (s *Store) CountInCategories(ctx context.Context, categoryNames []string, pincode string) (int64, error) {
	folded := foldAll(categoryNames)
	if len(folded) == 0 {
		return 0, nil
	}
	q := s.db.WithContext(ctx).
		Model(&models.Business{}).
		Where("category_ci IN ?", folded)
	if pincode != "" {
		q = q.Where("pincode = ?", pincode)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// ListSlugs returns every business slug with its update time.
func (s *Store) ListSlugs(ctx context.Context) ([]SlugStamp, error) {
	var rows []SlugStamp
	err := s.db.WithContext(ctx).
		Model(&models.Business{}).
		Select("slug, updated_at").
		Order("id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
