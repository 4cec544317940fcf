// internal/app/features/seo/routes.go
package seo

import "github.com/go-chi/chi/v5"

// Register adds the crawler endpoints at the site root.
func Register(r chi.Router, h *Handler) {
	r.Get("/sitemap.xml", h.ServeSitemap)
	r.Get("/robots.txt", h.ServeRobots)
}
