// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows shown in paged lists.
const PageSize = 24

// Page is an offset window over a listing. Start is the 1-based index of the
// first row shown, which is what the "start" query parameter carries.
type Page struct {
	Start int
	Size  int
}

// FromRequest reads "start" from r and pairs it with size (PageSize when
// size is not positive).
func FromRequest(r *http.Request, size int) Page {
	return New(ParseStart(r), size)
}

// New returns a normalized Page.
func New(start, size int) Page {
	if start < 1 {
		start = 1
	}
	if size <= 0 {
		size = PageSize
	}
	return Page{Start: start, Size: size}
}

// Offset is the number of rows to skip.
func (p Page) Offset() int {
	if p.Start < 1 {
		return 0
	}
	return p.Start - 1
}

// LimitPlusOne returns Size+1 for look-ahead pagination
// (fetch one extra row to detect hasNext).
func (p Page) LimitPlusOne() int {
	if p.Size <= 0 {
		return PageSize + 1
	}
	return p.Size + 1
}

// ParseStart extracts the human-friendly "start" query parameter (1-based index).
// Returns 1 if not present or invalid.
func ParseStart(r *http.Request) int {
	s := query.Get(r, "start")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// TrimPage trims rows fetched with LimitPlusOne back to p.Size and reports
// whether another page follows.
func TrimPage[T any](rows *[]T, p Page) (hasNext bool) {
	size := p.Size
	if size <= 0 {
		size = PageSize
	}
	if len(*rows) > size {
		*rows = (*rows)[:size]
		return true
	}
	return false
}

// Range holds computed display range values for a paginated list.
type Range struct {
	Start     int // 1-based start index (0 if no results)
	End       int // 1-based end index (0 if no results)
	PrevStart int // start value for previous page link
	NextStart int // start value for next page link
	HasPrev   bool
	HasNext   bool
}

// ComputeRange calculates display range values for p given the number of
// rows shown and whether a further page exists.
func ComputeRange(p Page, shown int, hasNext bool) Range {
	if shown == 0 {
		return Range{PrevStart: 1, NextStart: 1, HasPrev: p.Start > 1}
	}

	prevStart := p.Start - p.Size
	if prevStart < 1 {
		prevStart = 1
	}

	return Range{
		Start:     p.Start,
		End:       p.Start + shown - 1,
		PrevStart: prevStart,
		NextStart: p.Start + shown,
		HasPrev:   p.Start > 1,
		HasNext:   hasNext,
	}
}
