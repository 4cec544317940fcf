package seo

import (
	"encoding/json"
	"html/template"
	"sort"
	"strings"

	"github.com/dalemusser/localhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/localhub/internal/domain/models"
)

const schemaContext = "https://schema.org"

// Crumb mirrors nearme.Crumb so this package stays independent of routing.
type Crumb struct {
	Label string
	URL   string
}

// ListItem is one entry of an ItemList.
type ListItem struct {
	Name string
	URL  string
}

// JSONLD marshals v for a <script type="application/ld+json"> block.
// encoding/json escapes <, > and & so the result cannot close the tag.
func JSONLD(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}

var dayNames = map[string]string{
	"mon": "Monday",
	"tue": "Tuesday",
	"wed": "Wednesday",
	"thu": "Thursday",
	"fri": "Friday",
	"sat": "Saturday",
	"sun": "Sunday",
}

var dayOrder = map[string]int{"mon": 0, "tue": 1, "wed": 2, "thu": 3, "fri": 4, "sat": 5, "sun": 6}

// LocalBusiness builds a schema.org LocalBusiness node.
func LocalBusiness(site Site, b *models.Business, loc *models.Location, path string) map[string]any {
	node := map[string]any{
		"@context": schemaContext,
		"@type":    "LocalBusiness",
		"@id":      site.Absolute(path),
		"name":     b.Name,
		"url":      site.Absolute(path),
	}
	if d := htmlsanitize.StripTags(b.Description); d != "" {
		node["description"] = d
	}
	if b.Phone != "" {
		node["telephone"] = b.Phone
	}
	if b.Website != "" {
		node["sameAs"] = []string{b.Website}
	}

	addr := map[string]any{
		"@type":          "PostalAddress",
		"addressCountry": "IN",
	}
	if b.Address != "" {
		addr["streetAddress"] = b.Address
	}
	if b.Pincode != "" {
		addr["postalCode"] = b.Pincode
	}
	if loc != nil {
		if loc.City != "" {
			addr["addressLocality"] = loc.City
		}
		if loc.State != "" {
			addr["addressRegion"] = loc.State
		}
	}
	node["address"] = addr

	if b.ReviewCount > 0 && b.Rating > 0 {
		node["aggregateRating"] = map[string]any{
			"@type":       "AggregateRating",
			"ratingValue": b.Rating,
			"reviewCount": b.ReviewCount,
			"bestRating":  5,
		}
	}

	if hours := openingHours(b.Hours()); len(hours) > 0 {
		node["openingHoursSpecification"] = hours
	}
	return node
}

func openingHours(h map[string]models.DayHours) []map[string]any {
	keys := make([]string, 0, len(h))
	for k := range h {
		if _, ok := dayNames[strings.ToLower(k)]; ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return dayOrder[strings.ToLower(keys[i])] < dayOrder[strings.ToLower(keys[j])]
	})

	out := make([]map[string]any, 0, len(keys))
	for _, k := range keys {
		d := h[k]
		if d.Open == "" || d.Close == "" {
			continue
		}
		out = append(out, map[string]any{
			"@type":     "OpeningHoursSpecification",
			"dayOfWeek": "https://schema.org/" + dayNames[strings.ToLower(k)],
			"opens":     d.Open,
			"closes":    d.Close,
		})
	}
	return out
}

// BreadcrumbList builds a schema.org BreadcrumbList from a trail.
func BreadcrumbList(site Site, crumbs []Crumb) map[string]any {
	items := make([]map[string]any, 0, len(crumbs))
	for i, c := range crumbs {
		items = append(items, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     c.Label,
			"item":     site.Absolute(c.URL),
		})
	}
	return map[string]any{
		"@context":        schemaContext,
		"@type":           "BreadcrumbList",
		"itemListElement": items,
	}
}

// ItemList builds a schema.org ItemList for a listing page. start is the
// 1-based position of the first item.
func ItemList(site Site, name string, start int, items []ListItem) map[string]any {
	if start < 1 {
		start = 1
	}
	elems := make([]map[string]any, 0, len(items))
	for i, it := range items {
		elems = append(elems, map[string]any{
			"@type":    "ListItem",
			"position": start + i,
			"name":     it.Name,
			"url":      site.Absolute(it.URL),
		})
	}
	return map[string]any{
		"@context":        schemaContext,
		"@type":           "ItemList",
		"name":            name,
		"numberOfItems":   len(items),
		"itemListElement": elems,
	}
}

// WebSite builds the home page node with a sitelinks search box pointing at
// /search.
func WebSite(site Site) map[string]any {
	return map[string]any{
		"@context": schemaContext,
		"@type":    "WebSite",
		"name":     site.Name,
		"url":      site.Absolute("/"),
		"potentialAction": map[string]any{
			"@type":       "SearchAction",
			"target":      site.Absolute("/search") + "?q={search_term_string}",
			"query-input": "required name=search_term_string",
		},
	}
}
