package nearme

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/localhub/internal/app/system/htmlsanitize"
	nearmepath "github.com/dalemusser/localhub/internal/app/system/nearme"
	"github.com/dalemusser/localhub/internal/app/system/paging"
	"github.com/dalemusser/localhub/internal/app/system/seo"
	"github.com/dalemusser/localhub/internal/app/system/textutil"
	"github.com/dalemusser/localhub/internal/app/system/viewdata"
	"github.com/dalemusser/localhub/internal/domain/models"
)

// relatedLimit caps the "more like this" strip on a business page.
const relatedLimit = 6

var weekdays = []struct{ key, label string }{
	{"mon", "Monday"},
	{"tue", "Tuesday"},
	{"wed", "Wednesday"},
	{"thu", "Thursday"},
	{"fri", "Friday"},
	{"sat", "Saturday"},
	{"sun", "Sunday"},
}

// businessPage builds the detail page. The canonical URL is /near-me/{slug}
// whatever prefix segments the visitor came through.
func (h *Handler) businessPage(ctx context.Context, r *http.Request, pr pageRequest) (businessData, error) {
	b := pr.Result.Business
	site := viewdata.Site()

	var loc *models.Location
	if b.Pincode != "" {
		locs, err := h.Locations.ListByPincode(ctx, b.Pincode)
		if err != nil {
			return businessData{}, err
		}
		if len(locs) > 0 {
			loc = &locs[0]
		}
	}

	var related []models.Business
	if b.Category != "" && b.Pincode != "" {
		rows, _, err := h.Businesses.ListByCategoryAndPincode(ctx, []string{b.Category}, b.Pincode, paging.New(1, relatedLimit+1))
		if err != nil {
			return businessData{}, err
		}
		for _, o := range rows {
			if o.ID != b.ID && len(related) < relatedLimit {
				related = append(related, o)
			}
		}
	}

	canonical := nearmepath.URL(b.Slug)
	vm := viewdata.NewBaseVM(r, b.Name, "/")
	vm.Breadcrumbs = pr.Crumbs
	vm.Meta = seo.BusinessMeta(site, b, canonical)
	vm.AddJSONLD(h.Log, seo.LocalBusiness(site, b, loc, canonical))
	vm.AddJSONLD(h.Log, seo.BreadcrumbList(site, seoCrumbs(pr.Crumbs)))

	data := businessData{
		BaseVM:      vm,
		Business:    b,
		Location:    loc,
		Description: htmlsanitize.SanitizeToHTML(b.Description),
		Hours:       hoursRows(b.Hours()),
		Related:     related,
	}
	if b.Category != "" {
		catSlug := textutil.Slugify(b.Category)
		if loc != nil {
			data.CategoryURL = nearmepath.URL(loc.Slug, catSlug)
		} else {
			data.CategoryURL = nearmepath.URL(catSlug)
		}
	}
	if b.AcceptsAppointments {
		data.BookURL = "/book/" + b.Slug
	}
	return data, nil
}

// hoursRows lists the week in calendar order. Days without hours are shown
// as closed.
func hoursRows(h map[string]models.DayHours) []hoursRow {
	if len(h) == 0 {
		return nil
	}
	byKey := make(map[string]models.DayHours, len(h))
	for k, v := range h {
		byKey[strings.ToLower(k)] = v
	}
	out := make([]hoursRow, 0, len(weekdays))
	for _, d := range weekdays {
		v, ok := byKey[d.key]
		if !ok || v.Open == "" || v.Close == "" {
			out = append(out, hoursRow{Day: d.label})
			continue
		}
		out = append(out, hoursRow{Day: d.label, Open: v.Open, Close: v.Close})
	}
	return out
}
