// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/localhub/internal/app/system/auditlog"
	"github.com/dalemusser/localhub/internal/app/system/auth"
	"github.com/dalemusser/localhub/internal/app/system/sqldb"
	"github.com/dalemusser/localhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for LocalHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: db_driver, session_name, etc.
//   - Environment variables: LOCALHUB_DB_DRIVER, LOCALHUB_SESSION_NAME, etc.
//   - Command-line flags: --db_driver, --session_name, etc.
var appConfigKeys = []config.AppKey{
	// Relational store
	{Name: "db_driver", Default: "postgres", Desc: "Database driver: 'postgres' or 'sqlite'"},
	{Name: "db_host", Default: "localhost", Desc: "Postgres host"},
	{Name: "db_port", Default: 5432, Desc: "Postgres port"},
	{Name: "db_user", Default: "localhub", Desc: "Postgres user"},
	{Name: "db_password", Default: "localhub", Desc: "Postgres password"},
	{Name: "db_name", Default: "localhub", Desc: "Postgres database name"},
	{Name: "db_sslmode", Default: "disable", Desc: "Postgres sslmode"},
	{Name: "db_timezone", Default: "UTC", Desc: "Postgres session time zone"},
	{Name: "db_sqlite_path", Default: "localhub.db", Desc: "SQLite file when db_driver=sqlite"},
	{Name: "db_max_open_conns", Default: 10, Desc: "Max open connections"},
	{Name: "db_max_idle_conns", Default: 5, Desc: "Max idle connections"},
	{Name: "db_conn_max_lifetime", Default: "30m", Desc: "Max connection lifetime (e.g., 30m, 1h)"},

	// Audit event store
	{Name: "mongo_uri", Default: "", Desc: "MongoDB URI for audit events (blank disables DB audit)"},
	{Name: "mongo_database", Default: "localhub", Desc: "MongoDB database name"},
	{Name: "audit_log_booking", Default: "all", Desc: "Booking event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Sessions
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "localhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "12h", Desc: "Admin session lifetime"},

	// Admin account
	{Name: "admin_email", Default: "", Desc: "Admin sign-in email (blank disables /login)"},
	{Name: "admin_password_hash", Default: "", Desc: "bcrypt hash of the admin password"},

	// Public site
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Canonical URL prefix for SEO tags and the sitemap"},
	{Name: "site_name", Default: models.DefaultSiteName, Desc: "Display name"},
	{Name: "listing_page_size", Default: 24, Desc: "Businesses per listing page"},
	{Name: "booking_timezone", Default: "Asia/Kolkata", Desc: "IANA time zone booking dates are read in"},

	// Store deadlines
	{Name: "timeout_ping", Default: "2s", Desc: "Health check deadline"},
	{Name: "timeout_short", Default: "5s", Desc: "Point lookup deadline"},
	{Name: "timeout_medium", Default: "10s", Desc: "Listing and search deadline"},
	{Name: "timeout_long", Default: "30s", Desc: "Multi-step write deadline"},
	{Name: "timeout_batch", Default: "5m", Desc: "CSV import deadline"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, LOCALHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "LOCALHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		DBDriver:          strings.ToLower(appValues.String("db_driver")),
		DBHost:            appValues.String("db_host"),
		DBPort:            appValues.Int("db_port"),
		DBUser:            appValues.String("db_user"),
		DBPassword:        appValues.String("db_password"),
		DBName:            appValues.String("db_name"),
		DBSSLMode:         appValues.String("db_sslmode"),
		DBTimeZone:        appValues.String("db_timezone"),
		DBSQLitePath:      appValues.String("db_sqlite_path"),
		DBMaxOpenConns:    appValues.Int("db_max_open_conns"),
		DBMaxIdleConns:    appValues.Int("db_max_idle_conns"),
		DBConnMaxLifetime: appValues.Duration("db_conn_max_lifetime", 30*time.Minute),

		MongoURI:        appValues.String("mongo_uri"),
		MongoDatabase:   appValues.String("mongo_database"),
		AuditLogBooking: appValues.String("audit_log_booking"),
		AuditLogAdmin:   appValues.String("audit_log_admin"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 12*time.Hour),

		AdminEmail:        appValues.String("admin_email"),
		AdminPasswordHash: appValues.String("admin_password_hash"),

		BaseURL:         strings.TrimRight(appValues.String("base_url"), "/"),
		SiteName:        appValues.String("site_name"),
		ListingPageSize: appValues.Int("listing_page_size"),
		BookingTimezone: appValues.String("booking_timezone"),

		TimeoutPing:   appValues.Duration("timeout_ping", 0),
		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),
		TimeoutBatch:  appValues.Duration("timeout_batch", 0),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Problems are caught here, before any connection is attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := validateAppConfig(appCfg); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return err
	}
	if coreCfg != nil && coreCfg.Env == "prod" && strings.HasPrefix(appCfg.SessionKey, "dev-only") {
		return fmt.Errorf("session_key must be set in production")
	}
	return nil
}

func validateAppConfig(appCfg AppConfig) error {
	if !sqldb.ValidDriver(appCfg.DBDriver) {
		return fmt.Errorf("unknown db_driver %q (want postgres or sqlite)", appCfg.DBDriver)
	}
	if appCfg.MongoURI != "" {
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	}
	for name, mode := range map[string]string{
		"audit_log_booking": appCfg.AuditLogBooking,
		"audit_log_admin":   appCfg.AuditLogAdmin,
	} {
		if !auditlog.ValidMode(mode) {
			return fmt.Errorf("%s must be all, db, log or off (got %q)", name, mode)
		}
	}

	u, err := url.Parse(appCfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute http(s) URL (got %q)", appCfg.BaseURL)
	}

	if appCfg.AdminPasswordHash != "" && !auth.IsBcryptHash(appCfg.AdminPasswordHash) {
		return fmt.Errorf("admin_password_hash is not a bcrypt hash")
	}
	if (appCfg.AdminEmail == "") != (appCfg.AdminPasswordHash == "") {
		return fmt.Errorf("admin_email and admin_password_hash must be set together")
	}

	if appCfg.ListingPageSize < 1 || appCfg.ListingPageSize > 200 {
		return fmt.Errorf("listing_page_size must be between 1 and 200 (got %d)", appCfg.ListingPageSize)
	}
	if _, err := time.LoadLocation(appCfg.BookingTimezone); err != nil {
		return fmt.Errorf("booking_timezone: %w", err)
	}
	return nil
}
