package nearme

import (
	"html/template"

	nearmepath "github.com/dalemusser/localhub/internal/app/system/nearme"
	"github.com/dalemusser/localhub/internal/app/system/paging"
	"github.com/dalemusser/localhub/internal/app/system/viewdata"
	"github.com/dalemusser/localhub/internal/domain/models"
)

// pageRequest is what every strategy receives from Serve.
type pageRequest struct {
	Segments []string
	Result   nearmepath.Result
	Crumbs   []nearmepath.Crumb
	Page     paging.Page
}

type link struct {
	Name  string
	URL   string
	Count int64
}

type hoursRow struct {
	Day   string
	Open  string
	Close string
}

type businessData struct {
	viewdata.BaseVM
	Business    *models.Business
	Location    *models.Location
	Description template.HTML
	Hours       []hoursRow
	Related     []models.Business
	CategoryURL string
	BookURL     string
}

// listingData backs the location-category and category pages.
type listingData struct {
	viewdata.BaseVM
	Heading       string
	Location      *models.Location
	Category      *models.Category
	Parent        *models.Category
	Total         int64
	Subcategories []link
	Locations     []link
	Businesses    []models.Business
	Range         paging.Range
	PagerBase     string
}

// businessGroup is one category section on a location page.
type businessGroup struct {
	Name       string
	URL        string
	Count      int64
	Businesses []models.Business
}

type locationData struct {
	viewdata.BaseVM
	Heading    string
	Location   *models.Location
	Total      int64
	Categories []link
	Groups     []businessGroup
	// Businesses is the flat page the groups were built from; the pager
	// reads Range from here.
	Businesses []models.Business
	Range      paging.Range
	PagerBase  string
}
