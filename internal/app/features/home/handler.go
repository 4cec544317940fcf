package home

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/localhub/internal/app/features/errors"
	categorystore "github.com/dalemusser/localhub/internal/app/store/categories"
	locationstore "github.com/dalemusser/localhub/internal/app/store/locations"
	nearmepath "github.com/dalemusser/localhub/internal/app/system/nearme"
	"github.com/dalemusser/localhub/internal/app/system/seo"
	"github.com/dalemusser/localhub/internal/app/system/timeouts"
	"github.com/dalemusser/localhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	Categories *categorystore.Store
	Locations  *locationstore.Store
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *gorm.DB, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Categories: categorystore.New(db),
		Locations:  locationstore.New(db),
		ErrLog:     errLog,
		Log:        logger,
	}
}

type entry struct {
	Name string
	Slug string
	URL  string
}

type homeData struct {
	viewdata.BaseVM
	Categories []entry
	Locations  []entry
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data, err := h.load(ctx, r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load home page failed", err, "A database error occurred.", "/")
		return
	}
	templates.Render(w, r, "home", data)
}

func (h *Handler) load(ctx context.Context, r *http.Request) (homeData, error) {
	roots, err := h.Categories.Roots(ctx)
	if err != nil {
		return homeData{}, err
	}
	locs, err := h.Locations.ListAll(ctx)
	if err != nil {
		return homeData{}, err
	}

	site := viewdata.Site()
	vm := viewdata.NewBaseVM(r, "Find local businesses near you", "/")
	vm.Meta = seo.PageMeta(site, "Find local businesses near you",
		"Browse local shops, services and restaurants by category and location. Ratings, phone numbers, opening hours and online appointments.", "/")
	vm.AddJSONLD(h.Log, seo.WebSite(site))

	data := homeData{
		BaseVM:     vm,
		Categories: make([]entry, 0, len(roots)),
		Locations:  make([]entry, 0, len(locs)),
	}
	for _, c := range roots {
		data.Categories = append(data.Categories, entry{Name: c.Name, Slug: c.Slug, URL: nearmepath.URL(c.Slug)})
	}
	for _, l := range locs {
		data.Locations = append(data.Locations, entry{Name: l.Name, Slug: l.Slug, URL: nearmepath.URL(l.Slug)})
	}
	return data, nil
}
