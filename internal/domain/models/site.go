// internal/domain/models/site.go
package models

// DefaultSiteName is used when no site_name is configured.
const DefaultSiteName = "LocalHub"
