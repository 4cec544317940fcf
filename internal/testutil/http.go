package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/localhub/internal/app/system/auth"
)

// AdminEmail is the address AdminUser signs in with.
const AdminEmail = "admin@example.com"

// AdminUser returns the session user for the site administrator.
func AdminUser() *auth.SessionUser {
	return &auth.SessionUser{
		Email: AdminEmail,
		Name:  "Test Admin",
		Role:  auth.RoleAdmin,
	}
}

// WithAdmin signs r in as AdminUser. It bypasses the session middleware and
// injects the user directly.
func WithAdmin(r *http.Request) *http.Request {
	return auth.WithTestUser(r, AdminUser())
}

// NewAdminRequest creates an HTTP request signed in as AdminUser.
func NewAdminRequest(method, target string) *http.Request {
	return WithAdmin(httptest.NewRequest(method, target, nil))
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status: got %d, want %d", r.Code, expected)
	}
}

// AssertRedirect checks for a 303 See Other to expectedLocation.
func (r *ResponseRecorder) AssertRedirect(t interface{ Errorf(string, ...any) }, expectedLocation string) {
	if r.Code != http.StatusSeeOther {
		t.Errorf("status: got %d, want %d", r.Code, http.StatusSeeOther)
	}
	if loc := r.Header().Get("Location"); loc != expectedLocation {
		t.Errorf("Location: got %q, want %q", loc, expectedLocation)
	}
}

// AssertContains checks that the body contains expected.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("body does not contain %q", expected)
	}
}
