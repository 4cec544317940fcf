package paging

import (
	"net/http/httptest"
	"testing"
)

func TestParseStart(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"/x", 1},
		{"/x?start=25", 25},
		{"/x?start=0", 1},
		{"/x?start=-3", 1},
		{"/x?start=abc", 1},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.url, nil)
		if got := ParseStart(r); got != tt.want {
			t.Errorf("ParseStart(%q) = %d, want %d", tt.url, got, tt.want)
		}
	}
}

func TestNew_Normalizes(t *testing.T) {
	p := New(0, 0)
	if p.Start != 1 || p.Size != PageSize {
		t.Errorf("New(0,0) = %+v", p)
	}
	if p.Offset() != 0 {
		t.Errorf("Offset() = %d, want 0", p.Offset())
	}
	if p.LimitPlusOne() != PageSize+1 {
		t.Errorf("LimitPlusOne() = %d", p.LimitPlusOne())
	}

	p = New(11, 10)
	if p.Offset() != 10 {
		t.Errorf("Offset() = %d, want 10", p.Offset())
	}
}

func TestTrimPage(t *testing.T) {
	rows := []int{1, 2, 3, 4}
	if !TrimPage(&rows, New(1, 3)) {
		t.Error("expected hasNext")
	}
	if len(rows) != 3 {
		t.Errorf("len = %d, want 3", len(rows))
	}

	rows = []int{1, 2}
	if TrimPage(&rows, New(1, 3)) {
		t.Error("expected no next page")
	}
	if len(rows) != 2 {
		t.Errorf("len = %d, want 2", len(rows))
	}
}

func TestComputeRange(t *testing.T) {
	tests := []struct {
		name    string
		page    Page
		shown   int
		hasNext bool
		want    Range
	}{
		{
			name: "empty",
			page: New(1, 10),
			want: Range{PrevStart: 1, NextStart: 1},
		},
		{
			name:    "first page",
			page:    New(1, 10),
			shown:   10,
			hasNext: true,
			want:    Range{Start: 1, End: 10, PrevStart: 1, NextStart: 11, HasNext: true},
		},
		{
			name:  "last partial page",
			page:  New(21, 10),
			shown: 4,
			want:  Range{Start: 21, End: 24, PrevStart: 11, NextStart: 25, HasPrev: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRange(tt.page, tt.shown, tt.hasNext)
			if got != tt.want {
				t.Errorf("ComputeRange = %+v, want %+v", got, tt.want)
			}
		})
	}
}
