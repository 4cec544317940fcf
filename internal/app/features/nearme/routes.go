package nearme

import "github.com/go-chi/chi/v5"

// Routes is mounted at /near-me.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve)
	r.Get("/*", h.Serve)
	return r
}
