// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"net/http"
	"time"

	aboutfeature "github.com/dalemusser/localhub/internal/app/features/about"
	adminfeature "github.com/dalemusser/localhub/internal/app/features/admin"
	appointmentsfeature "github.com/dalemusser/localhub/internal/app/features/appointments"
	errorsfeature "github.com/dalemusser/localhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/localhub/internal/app/features/health"
	homefeature "github.com/dalemusser/localhub/internal/app/features/home"
	loginfeature "github.com/dalemusser/localhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/localhub/internal/app/features/logout"
	nearmefeature "github.com/dalemusser/localhub/internal/app/features/nearme"
	searchfeature "github.com/dalemusser/localhub/internal/app/features/search"
	seofeature "github.com/dalemusser/localhub/internal/app/features/seo"
	"github.com/dalemusser/localhub/internal/app/store/audit"
	"github.com/dalemusser/localhub/internal/app/system/auditlog"
	"github.com/dalemusser/localhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// LocalHub mounts the public directory (home, /near-me, /search, /book),
// the SEO endpoints, and the admin area behind a single signed-in role.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode enables template reloading.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	loc, err := time.LoadLocation(appCfg.BookingTimezone)
	if err != nil {
		logger.Error("booking timezone invalid", zap.String("booking_timezone", appCfg.BookingTimezone), zap.Error(err))
		return nil, err
	}

	errLog := errorsfeature.NewErrorLogger(logger)
	events := eventStore(deps)
	auditLog := auditlog.New(events, logger, auditlog.Config{
		Booking: appCfg.AuditLogBooking,
		Admin:   appCfg.AuditLogAdmin,
	})
	admin := auth.AdminCredentials{Email: appCfg.AdminEmail, PasswordHash: appCfg.AdminPasswordHash}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(csrfMiddleware(appCfg.SessionKey, secure))

	// Loads SessionUser into context when signed in.
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.DB, deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// sitemap.xml and robots.txt
	seoHandler := seofeature.NewHandler(deps.DB, errLog, logger)
	seofeature.Register(r, seoHandler)

	// Public directory
	homeHandler := homefeature.NewHandler(deps.DB, errLog, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	aboutHandler := aboutfeature.NewHandler(logger)
	r.Mount("/about", aboutfeature.Routes(aboutHandler))

	nearmeHandler := nearmefeature.NewHandler(deps.DB, appCfg.ListingPageSize, errLog, logger)
	r.Mount("/near-me", nearmefeature.Routes(nearmeHandler))

	searchHandler := searchfeature.NewHandler(deps.DB, appCfg.ListingPageSize, errLog, logger)
	r.Mount("/search", searchfeature.Routes(searchHandler))

	bookingHandler := appointmentsfeature.NewHandler(deps.DB, sessionMgr, auditLog, errLog, loc, logger)
	r.Mount("/book", appointmentsfeature.Routes(bookingHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(admin, sessionMgr, auditLog, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Admin area
	adminHandler := adminfeature.NewHandler(deps.DB, sessionMgr, auditLog, errLog, appCfg.ListingPageSize, logger)
	if s, ok := events.(*audit.Store); ok {
		adminHandler.Events = s
	}
	r.Mount("/admin", adminfeature.Routes(adminHandler, sessionMgr))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.NotFound(errorsHandler.NotFound)

	return r, nil
}

// eventStore is the Mongo audit store, or nil when no audit database is
// configured. A typed nil would defeat the Logger's nil check.
func eventStore(deps DBDeps) auditlog.EventStore {
	if deps.MongoDatabase == nil {
		return nil
	}
	return audit.New(deps.MongoDatabase)
}

// csrfMiddleware protects every state-changing form. The token key is
// derived from the session key so one secret covers both.
func csrfMiddleware(sessionKey string, secure bool) func(http.Handler) http.Handler {
	key := sha256.Sum256([]byte("csrf:" + sessionKey))
	protect := csrf.Protect(key[:],
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.FieldName("gorilla.csrf.Token"),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			errorsfeature.RenderForbidden(w, r, "Your form expired. Please go back, reload the page and try again.", "/")
		})),
	)
	if secure {
		return protect
	}
	// Plain HTTP in dev: skip the TLS-only Referer check.
	return func(next http.Handler) http.Handler {
		inner := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inner.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
