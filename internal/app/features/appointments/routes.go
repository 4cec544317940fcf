package appointments

import "github.com/go-chi/chi/v5"

// Routes is mounted at /book.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{slug}", h.ServeForm)
	r.Post("/{slug}", h.HandleSubmit)
	r.Get("/{slug}/slots", h.ServeSlots)
	r.Get("/{slug}/confirmed/{id}", h.ServeConfirmed)
	return r
}
