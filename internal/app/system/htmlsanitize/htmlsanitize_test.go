package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/localhub/internal/app/system/htmlsanitize"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		absent  string
		present string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace", in: "   ", want: ""},
		{name: "plain text", in: "Open all week", want: "Open all week"},
		{name: "formatting kept", in: "<p><strong>Fresh</strong> idlis</p>", want: "<p><strong>Fresh</strong> idlis</p>"},
		{name: "list kept", in: "<ul><li>Dosa</li><li>Vada</li></ul>", want: "<ul><li>Dosa</li><li>Vada</li></ul>"},
		{name: "script removed", in: "<p>Hi</p><script>alert(1)</script>", want: "<p>Hi</p>"},
		{name: "onclick removed", in: `<p onclick="x()">Hi</p>`, want: "<p>Hi</p>"},
		{name: "javascript href removed", in: `<a href="javascript:alert(1)">x</a>`, absent: "javascript:"},
		{name: "iframe removed", in: `<iframe src="https://evil.example"></iframe><p>ok</p>`, absent: "iframe", present: "ok"},
		{name: "link nofollow", in: `<a href="https://example.com">site</a>`, present: `rel="nofollow`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := htmlsanitize.Sanitize(tt.in)
			if tt.absent == "" && tt.present == "" && got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if tt.absent != "" && strings.Contains(got, tt.absent) {
				t.Errorf("Sanitize(%q) = %q, should not contain %q", tt.in, got, tt.absent)
			}
			if tt.present != "" && !strings.Contains(got, tt.present) {
				t.Errorf("Sanitize(%q) = %q, should contain %q", tt.in, got, tt.present)
			}
		})
	}
}

func TestSanitizeToHTML(t *testing.T) {
	got := htmlsanitize.SanitizeToHTML("<p>Hello</p><script>x</script>")
	if string(got) != "<p>Hello</p>" {
		t.Errorf("SanitizeToHTML = %q", got)
	}
}

func TestStripTags(t *testing.T) {
	got := htmlsanitize.StripTags("<p>Best <em>biryani</em> in town</p>")
	if got != "Best biryani in town" {
		t.Errorf("StripTags = %q", got)
	}
}
