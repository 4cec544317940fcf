package admin

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/dalemusser/localhub/internal/app/store/audit"
	"github.com/dalemusser/localhub/internal/app/system/paging"
	"github.com/dalemusser/localhub/internal/app/system/timeouts"
	"github.com/dalemusser/localhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
)

// EventQuerier reads audit events back for the activity page.
type EventQuerier interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	Count(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

type activityRow struct {
	When     time.Time
	Category string
	Event    string
	Business string
	Actor    string
	IP       string
	Success  bool
	Reason   string
	Details  []string
}

type activityData struct {
	viewdata.BaseVM
	Enabled    bool
	Category   string
	Categories []string
	Total      int64
	Rows       []activityRow
	Range      paging.Range
	PagerBase  string
}

var categories = []string{audit.CategoryBooking, audit.CategoryAdmin}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/activity                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeActivity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data, err := h.activity(ctx, r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err, "The activity log could not be loaded.", "/admin/appointments")
		return
	}
	templates.Render(w, r, "admin_activity", data)
}

func (h *Handler) activity(ctx context.Context, r *http.Request) (activityData, error) {
	vm := viewdata.NewBaseVM(r, "Activity", "/admin/appointments")
	vm.Meta.Robots = "noindex,nofollow"

	data := activityData{
		BaseVM:     vm,
		Enabled:    h.Events != nil,
		Categories: categories,
		PagerBase:  "/admin/activity?",
	}
	if !data.Enabled {
		return data, nil
	}

	switch c := query.Get(r, "category"); c {
	case audit.CategoryBooking, audit.CategoryAdmin:
		data.Category = c
		data.PagerBase = "/admin/activity?category=" + c + "&"
	}

	page := paging.FromRequest(r, h.PageSize)
	filter := audit.QueryFilter{
		Category: data.Category,
		Limit:    int64(page.LimitPlusOne()),
		Offset:   int64(page.Offset()),
	}
	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		return activityData{}, err
	}
	if data.Total, err = h.Events.Count(ctx, filter); err != nil {
		return activityData{}, err
	}
	hasNext := paging.TrimPage(&events, page)

	data.Rows = make([]activityRow, 0, len(events))
	for _, e := range events {
		data.Rows = append(data.Rows, toActivityRow(e))
	}
	data.Range = paging.ComputeRange(page, len(events), hasNext)
	return data, nil
}

func toActivityRow(e audit.Event) activityRow {
	row := activityRow{
		When:     e.Timestamp,
		Category: e.Category,
		Event:    e.EventType,
		Business: e.BusinessSlug,
		Actor:    e.Actor,
		IP:       e.IP,
		Success:  e.Success,
		Reason:   e.FailureReason,
	}
	for k, v := range e.Details {
		row.Details = append(row.Details, k+"="+v)
	}
	sort.Strings(row.Details)
	return row
}
