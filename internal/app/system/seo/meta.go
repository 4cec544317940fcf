// Package seo builds page metadata, schema.org JSON-LD and sitemaps for the
// directory pages.
package seo

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dalemusser/localhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/localhub/internal/domain/models"
)

// DescriptionMax is the length meta descriptions are cut to.
const DescriptionMax = 160

// Meta is what the layout renders into <head>.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
}

// Site carries the values every builder needs.
type Site struct {
	Name    string
	BaseURL string
}

// Absolute joins path onto the base URL.
func (s Site) Absolute(path string) string {
	base := strings.TrimRight(s.BaseURL, "/")
	if path == "" || path == "/" {
		return base + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

func (s Site) title(parts ...string) string {
	out := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	out = append(out, s.Name)
	return strings.Join(out, " | ")
}

// Truncate cuts s to at most max runes on a word boundary, adding an
// ellipsis when anything was dropped.
func Truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)[:max-1]
	cut := string(r)
	if i := strings.LastIndexByte(cut, ' '); i > max/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:-") + "…"
}

// BusinessMeta describes a business detail page.
func BusinessMeta(site Site, b *models.Business, path string) Meta {
	desc := htmlsanitize.StripTags(b.Description)
	if desc == "" {
		desc = fmt.Sprintf("%s, %s. Address, phone, opening hours and appointments.", b.Name, b.Category)
		if b.Address != "" {
			desc = fmt.Sprintf("%s, %s at %s. Phone, opening hours and appointments.", b.Name, b.Category, b.Address)
		}
	}
	return Meta{
		Title:       site.title(b.Name, b.Category),
		Description: Truncate(desc, DescriptionMax),
		Canonical:   site.Absolute(path),
		Robots:      "index,follow",
	}
}

// LocationCategoryMeta describes a category listing within one location.
func LocationCategoryMeta(site Site, loc *models.Location, cat *models.Category, total int, path string) Meta {
	desc := fmt.Sprintf("Find the best %s near %s. Ratings, addresses, phone numbers and opening hours.", cat.Name, loc.Name)
	if total > 0 {
		desc = fmt.Sprintf("Compare %d %s near %s. Ratings, addresses, phone numbers and opening hours.", total, cat.Name, loc.Name)
	}
	return Meta{
		Title:       site.title(fmt.Sprintf("%s near %s", cat.Name, loc.Name)),
		Description: Truncate(desc, DescriptionMax),
		Canonical:   site.Absolute(path),
		Robots:      robotsFor(total),
	}
}

// LocationMeta describes the all-categories page for a location.
func LocationMeta(site Site, loc *models.Location, total int, path string) Meta {
	return Meta{
		Title:       site.title(fmt.Sprintf("Businesses near %s", loc.Name)),
		Description: Truncate(fmt.Sprintf("Local businesses in %s (%s) by category: shops, services, restaurants and more.", loc.Name, loc.Pincode), DescriptionMax),
		Canonical:   site.Absolute(path),
		Robots:      robotsFor(total),
	}
}

// CategoryMeta describes a category page without a location.
func CategoryMeta(site Site, cat, parent *models.Category, total int, path string) Meta {
	name := cat.Name
	if parent != nil {
		name = fmt.Sprintf("%s (%s)", cat.Name, parent.Name)
	}
	return Meta{
		Title:       site.title(fmt.Sprintf("%s near me", cat.Name)),
		Description: Truncate(fmt.Sprintf("Browse %s listings near you with ratings, contact details and opening hours.", name), DescriptionMax),
		Canonical:   site.Absolute(path),
		Robots:      robotsFor(total),
	}
}

// PageMeta is for static pages (home, search).
func PageMeta(site Site, title, description, path string) Meta {
	return Meta{
		Title:       site.title(title),
		Description: Truncate(description, DescriptionMax),
		Canonical:   site.Absolute(path),
		Robots:      "index,follow",
	}
}

// NoIndex is for pages that should not be indexed (forms, search results).
func NoIndex(m Meta) Meta {
	m.Robots = "noindex,follow"
	return m
}

// empty listings are thin content
func robotsFor(total int) string {
	if total == 0 {
		return "noindex,follow"
	}
	return "index,follow"
}
