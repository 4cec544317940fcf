// Package formutil provides helpers for form re-rendering with validation errors.
//
// When a form submission fails validation, the form is re-rendered with the
// values the user typed, the messages explaining what went wrong, and the
// page's own context (business, available slots).
//
// Example usage:
//
//	type bookingData struct {
//		formutil.Base
//		Name  string
//		Phone string
//	}
//
//	data := bookingData{Name: name, Phone: phone}
//	formutil.SetBase(&data.Base, r, "Book an appointment", "/")
//	data.SetErrors(result)
//	templates.Render(w, r, "booking_form", data)
package formutil

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/localhub/internal/app/system/inputval"
	"github.com/dalemusser/localhub/internal/app/system/viewdata"
)

// Base contains common fields for form pages that can be embedded in form data structs.
type Base struct {
	viewdata.BaseVM
	Error       template.HTML
	FieldErrors map[string]string
}

// SetBase populates the embedded BaseVM. Form pages are never indexed.
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	b.BaseVM = viewdata.NewBaseVM(r, title, backDefault)
	b.Meta.Robots = "noindex,nofollow"
}

// SetError sets the error message on a Base struct.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}

// SetErrors copies validation failures onto the form: the first message
// becomes the banner and each field gets its own message.
func (b *Base) SetErrors(res inputval.Result) {
	if !res.HasErrors() {
		return
	}
	b.SetError(res.First())
	b.FieldErrors = make(map[string]string, len(res.Errors))
	for _, fe := range res.Errors {
		if _, seen := b.FieldErrors[fe.Field]; !seen {
			b.FieldErrors[fe.Field] = fe.Message
		}
	}
}
