// internal/app/features/about/handler.go
package about

import (
	"net/http"

	"github.com/dalemusser/localhub/internal/app/system/seo"
	"github.com/dalemusser/localhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type pageData struct {
	viewdata.BaseVM
}

type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

func (h *Handler) page(r *http.Request) pageData {
	site := viewdata.Site()
	vm := viewdata.NewBaseVM(r, "About "+site.Name, "/")
	vm.Meta = seo.PageMeta(site, vm.Title,
		site.Name+" lists local shops, clinics and services by neighbourhood, with opening hours and online booking.",
		"/about")
	return pageData{BaseVM: vm}
}

func (h *Handler) ServeAbout(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "about", h.page(r))
}
