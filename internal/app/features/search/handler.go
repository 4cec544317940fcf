package search

import (
	"context"
	"net/http"
	"net/url"

	uierrors "github.com/dalemusser/localhub/internal/app/features/errors"
	businessstore "github.com/dalemusser/localhub/internal/app/store/businesses"
	locationstore "github.com/dalemusser/localhub/internal/app/store/locations"
	"github.com/dalemusser/localhub/internal/app/system/paging"
	"github.com/dalemusser/localhub/internal/app/system/seo"
	"github.com/dalemusser/localhub/internal/app/system/timeouts"
	"github.com/dalemusser/localhub/internal/app/system/viewdata"
	"github.com/dalemusser/localhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// minQueryLen is the shortest query that is run against the store.
const minQueryLen = 2

type Handler struct {
	Businesses *businessstore.Store
	Locations  *locationstore.Store
	PageSize   int
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *gorm.DB, pageSize int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Businesses: businessstore.New(db),
		Locations:  locationstore.New(db),
		PageSize:   pageSize,
		ErrLog:     errLog,
		Log:        logger,
	}
}

type searchData struct {
	viewdata.BaseVM
	Query      string
	LocSlug    string
	Location   *models.Location
	Locations  []models.Location
	TooShort   bool
	Searched   bool
	Businesses []models.Business
	Range      paging.Range
	PagerBase  string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /search?q=&location=&start=                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data, err := h.search(ctx, r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "search failed", err, "A database error occurred.", "/")
		return
	}
	templates.Render(w, r, "search", data)
}

func (h *Handler) search(ctx context.Context, r *http.Request) (searchData, error) {
	q := query.Search(r, "q")
	locSlug := query.Get(r, "location")
	page := paging.FromRequest(r, h.PageSize)

	title := "Search"
	if q != "" {
		title = "Search results for “" + q + "”"
	}
	vm := viewdata.NewBaseVM(r, title, "/")
	vm.Meta = seo.NoIndex(seo.PageMeta(viewdata.Site(), title, "Search local businesses by name or category.", "/search"))

	data := searchData{BaseVM: vm, Query: q, LocSlug: locSlug}

	locs, err := h.Locations.ListAll(ctx)
	if err != nil {
		return searchData{}, err
	}
	data.Locations = locs

	pincode := ""
	if locSlug != "" {
		loc, err := h.Locations.GetBySlug(ctx, locSlug)
		if err != nil {
			return searchData{}, err
		}
		// an unknown location searches everywhere
		if loc != nil {
			data.Location = loc
			pincode = loc.Pincode
		}
	}

	if q == "" {
		return data, nil
	}
	if len([]rune(q)) < minQueryLen {
		data.TooShort = true
		return data, nil
	}

	rows, hasNext, err := h.Businesses.Search(ctx, q, pincode, page)
	if err != nil {
		return searchData{}, err
	}
	data.Searched = true
	data.Businesses = rows
	data.Range = paging.ComputeRange(page, len(rows), hasNext)

	params := url.Values{"q": {q}}
	if data.Location != nil {
		params.Set("location", data.Location.Slug)
	}
	data.PagerBase = "/search?" + params.Encode() + "&"

	h.Log.Debug("search",
		zap.String("q", q),
		zap.String("pincode", pincode),
		zap.Int("results", len(rows)))
	return data, nil
}
