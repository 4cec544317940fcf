package nearme_test

import (
	"context"
	"errors"

	"github.com/dalemusser/localhub/internal/domain/models"
)

// memLookup is an in-memory Lookup that records every call.
type memLookup struct {
	locations  map[string]*models.Location
	businesses map[string]*models.Business
	categories []*models.Category

	calls []string
	// failOn makes the named method return errStore.
	failOn string
}

var errStore = errors.New("store unavailable")

func newMemLookup() *memLookup {
	return &memLookup{
		locations:  map[string]*models.Location{},
		businesses: map[string]*models.Business{},
	}
}

func (m *memLookup) addLocation(id uint, slug string) *models.Location {
	l := &models.Location{ID: id, Slug: slug, Name: slug}
	m.locations[slug] = l
	return l
}

func (m *memLookup) addBusiness(id uint, slug, name string) *models.Business {
	b := &models.Business{ID: id, Slug: slug, Name: name}
	m.businesses[slug] = b
	return b
}

func (m *memLookup) addCategory(id uint, slug string, parent *models.Category) *models.Category {
	c := &models.Category{ID: id, Slug: slug, Name: slug}
	if parent != nil {
		pid := parent.ID
		c.ParentID = &pid
		c.Level = parent.Level + 1
	}
	m.categories = append(m.categories, c)
	return c
}

func (m *memLookup) LocationBySlug(_ context.Context, slug string) (*models.Location, error) {
	m.calls = append(m.calls, "location:"+slug)
	if m.failOn == "location" {
		return nil, errStore
	}
	return m.locations[slug], nil
}

func (m *memLookup) BusinessBySlug(_ context.Context, slug string) (*models.Business, error) {
	m.calls = append(m.calls, "business:"+slug)
	if m.failOn == "business" {
		return nil, errStore
	}
	return m.businesses[slug], nil
}

func (m *memLookup) CategoryBySlug(_ context.Context, slug string) (*models.Category, error) {
	m.calls = append(m.calls, "category:"+slug)
	if m.failOn == "category" {
		return nil, errStore
	}
	var best *models.Category
	for _, c := range m.categories {
		if c.Slug != slug {
			continue
		}
		if best == nil || (best.ParentID != nil && c.ParentID == nil) {
			best = c
		}
	}
	return best, nil
}

func (m *memLookup) CategoryBySlugAndParent(_ context.Context, slug string, parentID uint) (*models.Category, error) {
	m.calls = append(m.calls, "subcategory:"+slug)
	if m.failOn == "subcategory" {
		return nil, errStore
	}
	for _, c := range m.categories {
		if c.Slug == slug && c.ParentID != nil && *c.ParentID == parentID {
			return c, nil
		}
	}
	return nil, nil
}
