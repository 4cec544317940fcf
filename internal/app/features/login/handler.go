// internal/app/features/login/handler.go
package login

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/localhub/internal/app/features/errors"
	"github.com/dalemusser/localhub/internal/app/system/auditlog"
	"github.com/dalemusser/localhub/internal/app/system/auth"
	"github.com/dalemusser/localhub/internal/app/system/ratelimit"
	"github.com/dalemusser/localhub/internal/app/system/timeouts"
	"github.com/dalemusser/localhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// DefaultReturn is where a signed-in admin lands without a return URL.
const DefaultReturn = "/admin/appointments"

type Handler struct {
	Admin      auth.AdminCredentials
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	AuditLog   *auditlog.Logger
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(admin auth.AdminCredentials, sessionMgr *auth.SessionManager, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Admin:      admin,
		SessionMgr: sessionMgr,
		Limiter:    ratelimit.NewLoginLimiter(),
		AuditLog:   audit,
		ErrLog:     errLog,
		Log:        logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Email     string
	ReturnURL string
	Disabled  bool // no admin account configured
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")
	if u, ok := auth.CurrentUser(r); ok && u.IsAdmin() {
		http.Redirect(w, r, urlutil.SafeReturn(ret, "", DefaultReturn), http.StatusSeeOther)
		return
	}
	templates.Render(w, r, "login", h.formData(r, "", "", ret))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	ret := strings.TrimSpace(r.FormValue("return"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if ok, reason := h.Limiter.Check(r, email); !ok {
		h.AuditLog.LoginFailed(ctx, r, email, "rate_limited")
		h.renderFormWithError(w, r, http.StatusTooManyRequests, reason, email, ret)
		return
	}

	if email == "" || password == "" {
		h.renderFormWithError(w, r, http.StatusOK, "Please enter your email and password.", email, ret)
		return
	}

	if !h.Admin.Enabled() {
		h.AuditLog.LoginFailed(ctx, r, email, "admin_not_configured")
		h.renderFormWithError(w, r, http.StatusOK, "Sign-in is not configured on this site.", email, ret)
		return
	}

	if !h.Admin.Verify(email, password) {
		h.AuditLog.LoginFailed(ctx, r, email, "invalid_credentials")
		h.renderFormWithError(w, r, http.StatusOK, "Incorrect email or password.", email, ret)
		return
	}

	u := auth.SessionUser{
		Email: strings.ToLower(h.Admin.Email),
		Name:  "Administrator",
		Role:  auth.RoleAdmin,
	}
	if err := h.SessionMgr.SignIn(w, r, u); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("email", u.Email))
		h.renderFormWithError(w, r, http.StatusOK, "Unable to create session. Please try again.", email, ret)
		return
	}

	h.Limiter.ResetEmail(email)
	h.AuditLog.LoginSuccess(ctx, r, u.Email)
	h.Log.Info("admin signed in", zap.String("email", u.Email))

	http.Redirect(w, r, urlutil.SafeReturn(ret, "", DefaultReturn), http.StatusSeeOther)
}

func (h *Handler) formData(r *http.Request, msg, email, ret string) loginFormData {
	vm := viewdata.NewBaseVM(r, "Sign in", "/")
	vm.Meta.Robots = "noindex,nofollow"
	return loginFormData{
		BaseVM:    vm,
		Error:     msg,
		Email:     email,
		ReturnURL: ret,
		Disabled:  !h.Admin.Enabled(),
	}
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, status int, msg, email, ret string) {
	if status != http.StatusOK {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
	}
	templates.Render(w, r, "login", h.formData(r, msg, email, ret))
}
