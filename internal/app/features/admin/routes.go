// internal/app/features/admin/routes.go
package admin

import (
	"net/http"

	"github.com/dalemusser/localhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /admin. Every route requires the admin role.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireAdmin)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/admin/appointments", http.StatusSeeOther)
	})
	r.Get("/appointments", h.ServeList)
	r.Post("/appointments/{id}/status", h.HandleStatus)
	r.Get("/activity", h.ServeActivity)
	return r
}
