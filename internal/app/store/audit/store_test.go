package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/localhub/internal/app/store/audit"
	"github.com/dalemusser/localhub/internal/testutil"
)

func TestStore_LogAndQueryNewestFirst(t *testing.T) {
	db := testutil.SetupMongo(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}

	base := time.Now().UTC().Add(-time.Hour)
	for i, et := range []string{audit.EventBookingCreated, audit.EventLoginSuccess, audit.EventBookingSlotTaken} {
		cat := audit.CategoryBooking
		if et == audit.EventLoginSuccess {
			cat = audit.CategoryAdmin
		}
		err := store.Log(ctx, audit.Event{
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			Category:   cat,
			EventType:  et,
			BusinessID: 7,
			IP:         "127.0.0.1",
			Success:    et != audit.EventBookingSlotTaken,
		})
		if err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	events, err := store.Query(ctx, audit.QueryFilter{Limit: 10})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].EventType != audit.EventBookingSlotTaken {
		t.Errorf("expected newest first, got %q", events[0].EventType)
	}
	if events[0].ID.IsZero() {
		t.Error("expected ID to be generated")
	}

	page, err := store.Query(ctx, audit.QueryFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("Query page failed: %v", err)
	}
	if len(page) != 1 || page[0].EventType != audit.EventLoginSuccess {
		t.Errorf("second page = %+v", page)
	}
}

func TestStore_FilterAndCount(t *testing.T) {
	db := testutil.SetupMongo(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_ = store.Log(ctx, audit.Event{Category: audit.CategoryBooking, EventType: audit.EventBookingCreated, BusinessID: 1, Success: true})
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryBooking, EventType: audit.EventBookingCreated, BusinessID: 2, Success: true})
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAdmin, EventType: audit.EventLogout, Success: true})

	byBiz, err := store.Query(ctx, audit.QueryFilter{BusinessID: 2})
	if err != nil {
		t.Fatalf("Query by business failed: %v", err)
	}
	if len(byBiz) != 1 || byBiz[0].BusinessID != 2 {
		t.Errorf("business filter = %+v", byBiz)
	}

	n, err := store.Count(ctx, audit.QueryFilter{Category: audit.CategoryBooking})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 booking events, got %d", n)
	}

	future := time.Now().Add(time.Hour)
	n, err = store.Count(ctx, audit.QueryFilter{StartTime: &future})
	if err != nil {
		t.Fatalf("Count by time failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no future events, got %d", n)
	}
}
