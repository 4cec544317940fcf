// Package nearme turns the segments of a /near-me/... path into the
// directory entities they name.
//
// Precedence, highest first:
//
//  1. The last segment. If it is a location slug and the path has more than
//     one segment, the path is NotFound. Otherwise, if it is a business slug,
//     the result is that Business regardless of the other segments.
//  2. A location in segment 0, optionally followed by a category and a
//     subcategory scoped to that category.
//  3. A category in segment 0, optionally followed by a subcategory scoped to
//     it.
//
// Lookups run sequentially in the caller's goroutine and nothing is cached.
// A lookup error aborts resolution and is returned unchanged.
package nearme

import (
	"context"
	"strings"

	"github.com/dalemusser/localhub/internal/domain/models"
)

// Lookup is the point-lookup surface the resolver needs. Each method returns
// (nil, nil) when nothing matches and an error only for store faults.
type Lookup interface {
	LocationBySlug(ctx context.Context, slug string) (*models.Location, error)
	BusinessBySlug(ctx context.Context, slug string) (*models.Business, error)
	// CategoryBySlug ignores the tree position.
	CategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	// CategoryBySlugAndParent matches only children of parentID.
	CategoryBySlugAndParent(ctx context.Context, slug string, parentID uint) (*models.Category, error)
}

// Kind tags a Result.
type Kind int

const (
	NotFound Kind = iota
	BusinessKind
	LocationAndCategoryKind
	LocationKind
	CategoryOnlyKind
)

func (k Kind) String() string {
	switch k {
	case BusinessKind:
		return "business"
	case LocationAndCategoryKind:
		return "location_category"
	case LocationKind:
		return "location"
	case CategoryOnlyKind:
		return "category"
	default:
		return "not_found"
	}
}

// Result is what a path resolved to. Only the fields of its Kind are set:
//
//	BusinessKind            Business
//	LocationAndCategoryKind Location, Category, ParentCategory (when Category is a subcategory)
//	LocationKind            Location
//	CategoryOnlyKind        Category, ParentCategory (when Category is a subcategory)
type Result struct {
	Kind           Kind
	Business       *models.Business
	Location       *models.Location
	Category       *models.Category
	ParentCategory *models.Category
}

// Found reports whether the path named anything.
func (r Result) Found() bool { return r.Kind != NotFound }

// Resolver resolves near-me paths against a Lookup.
type Resolver struct {
	lookup Lookup
}

func NewResolver(lookup Lookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve maps segments to a Result. An empty segment list is NotFound.
func (rs *Resolver) Resolve(ctx context.Context, segments []string) (Result, error) {
	if len(segments) == 0 {
		return Result{}, nil
	}

	last := segments[len(segments)-1]
	lastLoc, err := rs.lookup.LocationBySlug(ctx, last)
	if err != nil {
		return Result{}, err
	}
	if lastLoc != nil && len(segments) > 1 {
		// a location after anything else, e.g. /location-a/location-b
		return Result{}, nil
	}
	if lastLoc == nil {
		b, err := rs.lookup.BusinessBySlug(ctx, last)
		if err != nil {
			return Result{}, err
		}
		if b != nil {
			return Result{Kind: BusinessKind, Business: b}, nil
		}
	}

	loc := lastLoc
	if len(segments) > 1 {
		loc, err = rs.lookup.LocationBySlug(ctx, segments[0])
		if err != nil {
			return Result{}, err
		}
	}
	if loc != nil {
		cat, parent, err := rs.categoryPath(ctx, segments[1:])
		if err != nil {
			return Result{}, err
		}
		if cat == nil {
			return Result{Kind: LocationKind, Location: loc}, nil
		}
		return Result{Kind: LocationAndCategoryKind, Location: loc, Category: cat, ParentCategory: parent}, nil
	}

	cat, parent, err := rs.categoryPath(ctx, segments)
	if err != nil {
		return Result{}, err
	}
	if cat == nil {
		return Result{}, nil
	}
	return Result{Kind: CategoryOnlyKind, Category: cat, ParentCategory: parent}, nil
}

// categoryPath resolves up to two category segments. It returns the deepest
// match and, when that is a subcategory, its parent.
func (rs *Resolver) categoryPath(ctx context.Context, segs []string) (cat, parent *models.Category, err error) {
	if len(segs) == 0 {
		return nil, nil, nil
	}
	top, err := rs.lookup.CategoryBySlug(ctx, segs[0])
	if err != nil || top == nil {
		return nil, nil, err
	}
	if len(segs) < 2 {
		return top, nil, nil
	}
	sub, err := rs.lookup.CategoryBySlugAndParent(ctx, segs[1], top.ID)
	if err != nil {
		return nil, nil, err
	}
	if sub == nil {
		return top, nil, nil
	}
	return sub, top, nil
}

// SplitPath splits a URL path into its non-empty segments.
func SplitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
