// Package htmlsanitize cleans business descriptions before they are stored
// or rendered.
package htmlsanitize

import (
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func descriptionPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		p.AllowAttrs("class").OnElements("p", "ul", "ol", "li", "span")
		policy = p
	})
	return policy
}

// Sanitize strips scripts, event handlers, unsafe URLs and unknown tags
// from s, keeping basic formatting, lists and links.
func Sanitize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return descriptionPolicy().Sanitize(s)
}

// SanitizeToHTML is Sanitize typed for direct use in templates.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// StripTags removes all markup, for meta descriptions and JSON-LD.
func StripTags(s string) string {
	return strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(s))
}
