// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework side (ports, TLS, logging, CORS); everything the directory
// itself needs lives here.
type AppConfig struct {
	// Relational store (locations, categories, businesses, appointments)
	DBDriver          string // "postgres" or "sqlite"
	DBHost            string
	DBPort            int
	DBUser            string
	DBPassword        string
	DBName            string
	DBSSLMode         string
	DBTimeZone        string
	DBSQLitePath      string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// Audit event store. Empty MongoURI disables DB audit writes.
	MongoURI      string
	MongoDatabase string

	AuditLogBooking string // all, db, log, off
	AuditLogAdmin   string

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: localhub-session)
	SessionDomain string // Cookie domain (blank means current host)
	SessionMaxAge time.Duration

	// Single admin account
	AdminEmail        string
	AdminPasswordHash string // bcrypt

	// Public site
	BaseURL         string // canonical URL prefix for SEO tags and the sitemap
	SiteName        string
	ListingPageSize int
	BookingTimezone string // IANA zone booking dates are read in

	// Store call deadlines; zero keeps the default
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
	TimeoutBatch  time.Duration
}
