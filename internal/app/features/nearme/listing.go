package nearme

import (
	"context"
	"fmt"
	"net/http"

	nearmepath "github.com/dalemusser/localhub/internal/app/system/nearme"
	"github.com/dalemusser/localhub/internal/app/system/paging"
	"github.com/dalemusser/localhub/internal/app/system/seo"
	"github.com/dalemusser/localhub/internal/app/system/textutil"
	"github.com/dalemusser/localhub/internal/app/system/viewdata"
	"github.com/dalemusser/localhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

// locationLinkLimit caps the "same category elsewhere" links on a category page.
const locationLinkLimit = 48

// categorySegments is the URL path for cat, including its parent when the
// category was reached as a subcategory.
func categorySegments(cat, parent *models.Category) []string {
	if parent != nil {
		return []string{parent.Slug, cat.Slug}
	}
	return []string{cat.Slug}
}

func itemList(site seo.Site, name string, p paging.Page, rows []models.Business) map[string]any {
	items := make([]seo.ListItem, len(rows))
	for i, b := range rows {
		items[i] = seo.ListItem{Name: b.Name, URL: nearmepath.URL(b.Slug)}
	}
	return seo.ItemList(site, name, p.Start, items)
}

// subcategoryLinks lists the children of cat under prefix. Paths hold at
// most two category segments, so when cat was reached below parent its
// children are linked as prefix/cat/child. That only resolves when cat's slug
// alone finds cat; otherwise they are left out.
func (h *Handler) subcategoryLinks(ctx context.Context, cat, parent *models.Category, prefix []string) ([]link, error) {
	kids, err := h.Categories.Children(ctx, cat.ID)
	if err != nil {
		return nil, err
	}
	if len(kids) == 0 {
		return nil, nil
	}
	if parent != nil {
		head, err := h.Categories.GetBySlug(ctx, cat.Slug)
		if err != nil {
			return nil, err
		}
		if head == nil || head.ID != cat.ID {
			return nil, nil
		}
	}
	out := make([]link, 0, len(kids))
	for _, k := range kids {
		segs := append(append([]string{}, prefix...), cat.Slug, k.Slug)
		out = append(out, link{Name: k.Name, URL: nearmepath.URL(segs...)})
	}
	return out, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Location + category                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) locationCategoryPage(ctx context.Context, r *http.Request, pr pageRequest) (listingData, error) {
	loc, cat, parent := pr.Result.Location, pr.Result.Category, pr.Result.ParentCategory
	site := viewdata.Site()

	names, err := h.Categories.SubtreeNames(ctx, *cat)
	if err != nil {
		return listingData{}, err
	}
	rows, hasNext, err := h.Businesses.ListByCategoryAndPincode(ctx, names, loc.Pincode, pr.Page)
	if err != nil {
		return listingData{}, err
	}
	total, err := h.Businesses.CountInCategories(ctx, names, loc.Pincode)
	if err != nil {
		return listingData{}, err
	}
	subs, err := h.subcategoryLinks(ctx, cat, parent, []string{loc.Slug})
	if err != nil {
		return listingData{}, err
	}

	path := nearmepath.URL(append([]string{loc.Slug}, categorySegments(cat, parent)...)...)
	heading := fmt.Sprintf("%s near %s", cat.Name, loc.Name)

	vm := viewdata.NewBaseVM(r, heading, "/")
	vm.Breadcrumbs = pr.Crumbs
	vm.Meta = seo.LocationCategoryMeta(site, loc, cat, int(total), pagedPath(path, pr.Page))
	vm.AddJSONLD(h.Log, itemList(site, heading, pr.Page, rows))
	vm.AddJSONLD(h.Log, seo.BreadcrumbList(site, seoCrumbs(pr.Crumbs)))

	return listingData{
		BaseVM:        vm,
		Heading:       heading,
		Location:      loc,
		Category:      cat,
		Parent:        parent,
		Total:         total,
		Subcategories: subs,
		Businesses:    rows,
		Range:         paging.ComputeRange(pr.Page, len(rows), hasNext),
		PagerBase:     path + "?",
	}, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Location only                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) locationPage(ctx context.Context, r *http.Request, pr pageRequest) (locationData, error) {
	loc := pr.Result.Location
	site := viewdata.Site()

	counts, err := h.Businesses.CountByCategory(ctx, loc.Pincode)
	if err != nil {
		return locationData{}, err
	}
	rows, hasNext, err := h.Businesses.ListByPincode(ctx, loc.Pincode, pr.Page)
	if err != nil {
		return locationData{}, err
	}

	var total int64
	cats := make([]link, 0, len(counts))
	for _, c := range counts {
		total += c.Count
		if c.Category == "" {
			continue
		}
		cats = append(cats, link{
			Name:  c.Category,
			URL:   nearmepath.URL(loc.Slug, textutil.Slugify(c.Category)),
			Count: c.Count,
		})
	}

	path := nearmepath.URL(loc.Slug)
	heading := fmt.Sprintf("Businesses near %s", loc.Name)

	vm := viewdata.NewBaseVM(r, heading, "/")
	vm.Breadcrumbs = pr.Crumbs
	vm.Meta = seo.LocationMeta(site, loc, int(total), pagedPath(path, pr.Page))
	vm.AddJSONLD(h.Log, itemList(site, heading, pr.Page, rows))
	vm.AddJSONLD(h.Log, seo.BreadcrumbList(site, seoCrumbs(pr.Crumbs)))

	return locationData{
		BaseVM:     vm,
		Heading:    heading,
		Location:   loc,
		Total:      total,
		Categories: cats,
		Groups:     groupByCategory(rows, cats),
		Businesses: rows,
		Range:      paging.ComputeRange(pr.Page, len(rows), hasNext),
		PagerBase:  path + "?",
	}, nil
}

// groupByCategory splits one page of rows into category sections. Sections
// follow the order of cats (largest first); categories missing from cats go
// last in first-seen order. Category names match case-insensitively.
func groupByCategory(rows []models.Business, cats []link) []businessGroup {
	idx := make(map[string]int)
	var groups []businessGroup
	for _, c := range cats {
		key := text.Fold(c.Name)
		if _, ok := idx[key]; ok {
			continue
		}
		idx[key] = len(groups)
		groups = append(groups, businessGroup{Name: c.Name, URL: c.URL, Count: c.Count})
	}

	for _, b := range rows {
		key := text.Fold(b.Category)
		i, ok := idx[key]
		if !ok {
			name := b.Category
			if name == "" {
				name = "Other"
			}
			i = len(groups)
			idx[key] = i
			groups = append(groups, businessGroup{Name: name})
		}
		groups[i].Businesses = append(groups[i].Businesses, b)
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g.Businesses) > 0 {
			out = append(out, g)
		}
	}
	return out
}

/*─────────────────────────────────────────────────────────────────────────────*
| Category only                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) categoryPage(ctx context.Context, r *http.Request, pr pageRequest) (listingData, error) {
	cat, parent := pr.Result.Category, pr.Result.ParentCategory
	site := viewdata.Site()

	subs, err := h.subcategoryLinks(ctx, cat, parent, nil)
	if err != nil {
		return listingData{}, err
	}
	names, err := h.Categories.SubtreeNames(ctx, *cat)
	if err != nil {
		return listingData{}, err
	}
	rows, hasNext, err := h.Businesses.ListByCategory(ctx, names, pr.Page)
	if err != nil {
		return listingData{}, err
	}
	total, err := h.Businesses.CountInCategories(ctx, names, "")
	if err != nil {
		return listingData{}, err
	}
	locs, err := h.Locations.ListAll(ctx)
	if err != nil {
		return listingData{}, err
	}

	catSegs := categorySegments(cat, parent)
	locLinks := make([]link, 0, min(len(locs), locationLinkLimit))
	for _, l := range locs {
		if len(locLinks) == locationLinkLimit {
			break
		}
		locLinks = append(locLinks, link{
			Name: l.Name,
			URL:  nearmepath.URL(append([]string{l.Slug}, catSegs...)...),
		})
	}

	path := nearmepath.URL(catSegs...)
	heading := fmt.Sprintf("%s near me", cat.Name)

	vm := viewdata.NewBaseVM(r, heading, "/")
	vm.Breadcrumbs = pr.Crumbs
	vm.Meta = seo.CategoryMeta(site, cat, parent, int(total), pagedPath(path, pr.Page))
	vm.AddJSONLD(h.Log, itemList(site, heading, pr.Page, rows))
	vm.AddJSONLD(h.Log, seo.BreadcrumbList(site, seoCrumbs(pr.Crumbs)))

	return listingData{
		BaseVM:        vm,
		Heading:       heading,
		Category:      cat,
		Parent:        parent,
		Total:         total,
		Subcategories: subs,
		Locations:     locLinks,
		Businesses:    rows,
		Range:         paging.ComputeRange(pr.Page, len(rows), hasNext),
		PagerBase:     path + "?",
	}, nil
}
