// internal/app/store/categories/categorystore.go
package categorystore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/localhub/internal/app/system/textutil"
	"github.com/dalemusser/localhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"gorm.io/gorm"
)

// ErrDuplicateCategory is returned when the slug is already used by a
// sibling, or by another root when the category has no parent.
var ErrDuplicateCategory = errors.New("a category with this slug already exists under the same parent")

// ErrTooDeep is returned by EnsurePath for paths below the leaf level.
var ErrTooDeep = errors.New("category paths are at most three levels deep")

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetBySlug finds a category by slug alone. Slugs repeat across parents, so
// roots win, then shallower levels, then the oldest row.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var cat models.Category
	err := s.db.WithContext(ctx).
		Where("slug = ?", slug).
		Order("CASE WHEN parent_id IS NULL THEN 0 ELSE 1 END").
		Order("level ASC").
		Order("id ASC").
		Take(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("category by slug: %w", err)
	}
	return &cat, nil
}

// GetBySlugAndParent finds the child of parentID with slug.
func (s *Store) GetBySlugAndParent(ctx context.Context, slug string, parentID uint) (*models.Category, error) {
	var cat models.Category
	err := s.db.WithContext(ctx).
		Where("slug = ? AND parent_id = ?", slug, parentID).
		Take(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("category by slug and parent: %w", err)
	}
	return &cat, nil
}

func (s *Store) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var cat models.Category
	err := s.db.WithContext(ctx).Take(&cat, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// Roots returns the top-level categories in display order.
func (s *Store) Roots(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	err := s.db.WithContext(ctx).
		Where("parent_id IS NULL").
		Order("sort_order ASC").
		Order("name_ci ASC").
		Find(&cats).Error
	if err != nil {
		return nil, err
	}
	return cats, nil
}

// Children returns the direct children of parentID in display order.
func (s *Store) Children(ctx context.Context, parentID uint) ([]models.Category, error) {
	var cats []models.Category
	err := s.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("sort_order ASC").
		Order("name_ci ASC").
		Find(&cats).Error
	if err != nil {
		return nil, err
	}
	return cats, nil
}

// SubtreeNames returns the names of root and every descendant. Listings use
// it to match the free-text Business.Category column.
func (s *Store) SubtreeNames(ctx context.Context, root models.Category) ([]string, error) {
	names := []string{root.Name}
	frontier := []uint{root.ID}
	for depth := root.Level; depth < models.CategoryLevelLeaf && len(frontier) > 0; depth++ {
		var kids []models.Category
		err := s.db.WithContext(ctx).
			Where("parent_id IN ?", frontier).
			Find(&kids).Error
		if err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, k := range kids {
			names = append(names, k.Name)
			frontier = append(frontier, k.ID)
		}
	}
	return names, nil
}

func (s *Store) Create(ctx context.Context, cat models.Category) (models.Category, error) {
	cat.ID = 0
	cat.NameCI = text.Fold(cat.Name)
	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Category{}, ErrDuplicateCategory
		}
		return models.Category{}, err
	}
	return cat, nil
}

// EnsurePath creates any missing nodes of names (root first) and returns the
// deepest one. Existing nodes are matched by slug under their parent.
func (s *Store) EnsurePath(ctx context.Context, names ...string) (models.Category, error) {
	clean := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			clean = append(clean, n)
		}
	}
	if len(clean) == 0 {
		return models.Category{}, errors.New("empty category path")
	}
	if len(clean) > models.CategoryLevelLeaf+1 {
		return models.Category{}, ErrTooDeep
	}

	var out models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var parent *models.Category
		for level, name := range clean {
			slug := textutil.Slugify(name)
			if slug == "" {
				return fmt.Errorf("category %q has no usable slug", name)
			}

			q := tx.Where("slug = ?", slug)
			if parent == nil {
				q = q.Where("parent_id IS NULL")
			} else {
				q = q.Where("parent_id = ?", parent.ID)
			}

			var cat models.Category
			err := q.Take(&cat).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				cat = models.Category{
					Slug:   slug,
					Name:   name,
					NameCI: text.Fold(name),
					Level:  level,
				}
				if parent != nil {
					pid := parent.ID
					cat.ParentID = &pid
				}
				if err := tx.Create(&cat).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			}

			c := cat
			parent = &c
		}
		out = *parent
		return nil
	})
	if err != nil {
		return models.Category{}, err
	}
	return out, nil
}
