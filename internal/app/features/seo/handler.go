// internal/app/features/seo/handler.go
package seo

import (
	"bytes"
	"context"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/localhub/internal/app/features/errors"
	businessstore "github.com/dalemusser/localhub/internal/app/store/businesses"
	categorystore "github.com/dalemusser/localhub/internal/app/store/categories"
	locationstore "github.com/dalemusser/localhub/internal/app/store/locations"
	nearmepath "github.com/dalemusser/localhub/internal/app/system/nearme"
	sitemeta "github.com/dalemusser/localhub/internal/app/system/seo"
	"github.com/dalemusser/localhub/internal/app/system/timeouts"
	"github.com/dalemusser/localhub/internal/app/system/viewdata"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler serves /sitemap.xml and /robots.txt.
type Handler struct {
	Locations  *locationstore.Store
	Categories *categorystore.Store
	Businesses *businessstore.Store
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *gorm.DB, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Locations:  locationstore.New(db),
		Categories: categorystore.New(db),
		Businesses: businessstore.New(db),
		ErrLog:     errLog,
		Log:        logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /sitemap.xml                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSitemap(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	sm, err := h.build(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build sitemap failed", err, "A database error occurred.", "/")
		return
	}

	var buf bytes.Buffer
	if _, err := sm.WriteTo(&buf); err != nil {
		h.ErrLog.LogServerError(w, r, "encode sitemap failed", err, "Could not build the sitemap.", "/")
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(buf.Bytes())
}

// build lists the home page, every location, each root category with
// listings, each location x root category pair with listings and every
// business page.
func (h *Handler) build(ctx context.Context) (*sitemeta.Sitemap, error) {
	sm := sitemeta.NewSitemap(viewdata.Site())
	sm.Add("/", time.Time{}, "daily", 1.0)

	locs, err := h.Locations.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range locs {
		sm.Add(nearmepath.URL(l.Slug), l.UpdatedAt, "weekly", 0.8)
	}

	roots, err := h.Categories.Roots(ctx)
	if err != nil {
		return nil, err
	}
	for _, root := range roots {
		names, err := h.Categories.SubtreeNames(ctx, root)
		if err != nil {
			return nil, err
		}
		n, err := h.Businesses.CountInCategories(ctx, names, "")
		if err != nil {
			return nil, err
		}
		if n == 0 {
			continue
		}
		sm.Add(nearmepath.URL(root.Slug), root.UpdatedAt, "weekly", 0.7)

		for _, l := range locs {
			n, err := h.Businesses.CountInCategories(ctx, names, l.Pincode)
			if err != nil {
				return nil, err
			}
			if n > 0 {
				sm.Add(nearmepath.URL(l.Slug, root.Slug), l.UpdatedAt, "weekly", 0.6)
			}
		}
	}

	slugs, err := h.Businesses.ListSlugs(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range slugs {
		if !sm.Add(nearmepath.URL(b.Slug), b.UpdatedAt, "monthly", 0.5) {
			h.Log.Warn("sitemap truncated", zap.Int("max_urls", sitemeta.MaxSitemapURLs))
			break
		}
	}
	return sm, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /robots.txt                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(sitemeta.Robots(viewdata.Site())))
}
