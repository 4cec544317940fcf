package nearme

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/localhub/internal/app/features/errors"
	businessstore "github.com/dalemusser/localhub/internal/app/store/businesses"
	categorystore "github.com/dalemusser/localhub/internal/app/store/categories"
	"github.com/dalemusser/localhub/internal/app/store/directory"
	locationstore "github.com/dalemusser/localhub/internal/app/store/locations"
	nearmepath "github.com/dalemusser/localhub/internal/app/system/nearme"
	"github.com/dalemusser/localhub/internal/app/system/paging"
	"github.com/dalemusser/localhub/internal/app/system/seo"
	"github.com/dalemusser/localhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler serves every page under /near-me.
type Handler struct {
	Resolver   *nearmepath.Resolver
	Locations  *locationstore.Store
	Categories *categorystore.Store
	Businesses *businessstore.Store
	PageSize   int
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *gorm.DB, pageSize int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Resolver:   nearmepath.NewResolver(directory.New(db)),
		Locations:  locationstore.New(db),
		Categories: categorystore.New(db),
		Businesses: businessstore.New(db),
		PageSize:   pageSize,
		ErrLog:     errLog,
		Log:        logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /near-me/*                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	segs := nearmepath.SplitPath(strings.TrimPrefix(r.URL.Path, nearmepath.BasePath))
	if len(segs) == 0 {
		h.ErrLog.LogNotFound(w, r, "near-me path has no segments", "")
		return
	}
	if target, ok := canonicalRedirect(r, segs); ok {
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "resolve near-me path")
	res, err := h.Resolver.Resolve(ctx, segs)
	cancel()
	if err != nil {
		h.ErrLog.LogServerError(w, r, "resolve near-me path failed", err, "A database error occurred.", "/")
		return
	}

	pr := pageRequest{
		Segments: segs,
		Result:   res,
		Crumbs:   nearmepath.Breadcrumbs(segs, res),
		Page:     paging.FromRequest(r, h.PageSize),
	}

	s := selectStrategy(res)
	h.Log.Debug("near-me resolved",
		zap.Strings("segments", segs),
		zap.Stringer("kind", res.Kind),
		zap.Stringer("strategy", s))

	switch s {
	case strategyBusiness:
		h.serveBusiness(w, r, pr)
	case strategyLocationCategory:
		h.serveLocationCategory(w, r, pr)
	case strategyLocation:
		h.serveLocation(w, r, pr)
	case strategyCategory:
		h.serveCategory(w, r, pr)
	default:
		h.ErrLog.LogNotFound(w, r, "near-me path not found", "")
	}
}

func (h *Handler) serveBusiness(w http.ResponseWriter, r *http.Request, pr pageRequest) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data, err := h.businessPage(ctx, r, pr)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load business page failed", err, "A database error occurred.", "/")
		return
	}
	templates.Render(w, r, "nearme_business", data)
}

func (h *Handler) serveLocationCategory(w http.ResponseWriter, r *http.Request, pr pageRequest) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data, err := h.locationCategoryPage(ctx, r, pr)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load location category listing failed", err, "A database error occurred.", "/")
		return
	}
	templates.Render(w, r, "nearme_listing", data)
}

func (h *Handler) serveLocation(w http.ResponseWriter, r *http.Request, pr pageRequest) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data, err := h.locationPage(ctx, r, pr)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load location listing failed", err, "A database error occurred.", "/")
		return
	}
	templates.Render(w, r, "nearme_location", data)
}

func (h *Handler) serveCategory(w http.ResponseWriter, r *http.Request, pr pageRequest) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data, err := h.categoryPage(ctx, r, pr)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load category listing failed", err, "A database error occurred.", "/")
		return
	}
	templates.Render(w, r, "nearme_listing", data)
}

// canonicalRedirect returns the lowercase, slash-normalized form of the
// request path when it differs from what was requested.
func canonicalRedirect(r *http.Request, segs []string) (string, bool) {
	lowered := make([]string, len(segs))
	for i, s := range segs {
		lowered[i] = strings.ToLower(s)
	}
	if r.URL.Path == nearmepath.BasePath+"/"+strings.Join(lowered, "/") {
		return "", false
	}
	target := nearmepath.URL(lowered...)
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	return target, true
}

// pagedPath is path with the start parameter of p, for canonical links.
func pagedPath(path string, p paging.Page) string {
	if p.Start <= 1 {
		return path
	}
	return path + "?start=" + strconv.Itoa(p.Start)
}

func seoCrumbs(crumbs []nearmepath.Crumb) []seo.Crumb {
	out := make([]seo.Crumb, len(crumbs))
	for i, c := range crumbs {
		out[i] = seo.Crumb{Label: c.Label, URL: c.URL}
	}
	return out
}
