package errors

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure and renders the matching error page in one
// call, so handlers never have to pair the two by hand.
type ErrorLogger struct {
	log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

func (el *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fs := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		fs = append(fs, zap.String("request_id", id))
	}
	if err != nil {
		fs = append(fs, zap.Error(err))
	}
	return fs
}

// LogServerError logs at error level and renders a 500 page with userMsg.
func (el *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	el.log.Error(msg, el.fields(r, err)...)
	RenderServerError(w, r, userMsg, backURL)
}

// LogBadRequest logs at warn level and renders a 400 page with userMsg.
func (el *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	el.log.Warn(msg, el.fields(r, err)...)
	RenderBadRequest(w, r, userMsg, backURL)
}

// LogNotFound logs at debug level and renders the 404 page.
func (el *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, msg, userMsg string) {
	el.log.Debug(msg, el.fields(r, nil)...)
	RenderNotFound(w, r, userMsg)
}
