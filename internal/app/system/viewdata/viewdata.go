package viewdata

import (
	"html/template"
	"net/http"
	"sync"

	"github.com/dalemusser/localhub/internal/app/system/auth"
	"github.com/dalemusser/localhub/internal/app/system/nearme"
	"github.com/dalemusser/localhub/internal/app/system/seo"
	"github.com/dalemusser/localhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string
	Breadcrumbs []nearme.Crumb
	Flashes     []string

	// <head> metadata
	Meta   seo.Meta
	JSONLD []template.JS

	CSRFToken string
}

var (
	mu   sync.RWMutex
	site = seo.Site{Name: models.DefaultSiteName, BaseURL: "http://localhost:3000"}
)

// Init sets the site name and canonical base URL.
// Call this once at startup from bootstrap.
func Init(s seo.Site) {
	mu.Lock()
	defer mu.Unlock()
	if s.Name == "" {
		s.Name = models.DefaultSiteName
	}
	site = s
}

// Site returns the values set by Init.
func Site() seo.Site {
	mu.RLock()
	defer mu.RUnlock()
	return site
}

// NewBaseVM creates a fully populated BaseVM for a page. Meta defaults to an
// indexable page titled title with its canonical URL at the current path.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	s := Site()
	vm := BaseVM{
		SiteName:    s.Name,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
		Meta:        seo.PageMeta(s, title, "", r.URL.Path),
	}
	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.Role = u.Role
		vm.UserName = u.Name
	}
	return vm
}

// AddJSONLD appends a structured-data block. A value that fails to marshal
// is logged and skipped; the page still renders without it.
func (vm *BaseVM) AddJSONLD(log *zap.Logger, v any) {
	js, err := seo.JSONLD(v)
	if err != nil {
		log.Warn("json-ld marshal failed", zap.Error(err))
		return
	}
	vm.JSONLD = append(vm.JSONLD, js)
}
