package nearme

import (
	"net/url"
	"strings"

	"github.com/dalemusser/localhub/internal/app/system/textutil"
)

// BasePath is where near-me pages are mounted.
const BasePath = "/near-me"

// Crumb is one breadcrumb link.
type Crumb struct {
	Label string
	URL   string
}

// Humanize is the label for a raw segment: dashes become spaces and each
// word is capitalised.
func Humanize(segment string) string {
	return textutil.Humanize(segment)
}

// URL builds the near-me URL for segments.
func URL(segments ...string) string {
	var b strings.Builder
	b.WriteString(BasePath)
	for _, s := range segments {
		if s == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// Breadcrumbs builds the trail for a resolved path. Labels come from the raw
// segments, except that a business result labels its last crumb with the
// business name.
func Breadcrumbs(segments []string, res Result) []Crumb {
	crumbs := make([]Crumb, 0, len(segments)+1)
	crumbs = append(crumbs, Crumb{Label: "Home", URL: "/"})
	for i, seg := range segments {
		crumbs = append(crumbs, Crumb{
			Label: Humanize(seg),
			URL:   URL(segments[:i+1]...),
		})
	}
	if res.Kind == BusinessKind && res.Business != nil && len(segments) > 0 {
		crumbs[len(crumbs)-1].Label = res.Business.Name
	}
	return crumbs
}
