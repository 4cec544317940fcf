package textutil_test

import (
	"testing"

	"github.com/dalemusser/localhub/internal/app/system/textutil"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Fine Dining", "fine-dining"},
		{"  Katpadi  ", "katpadi"},
		{"Café & Bakery 24x7", "caf-bakery-24x7"},
		{"Doctors / Clinics", "doctors-clinics"},
		{"already-a-slug", "already-a-slug"},
		{"A--B", "a-b"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := textutil.Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"fine-dining", "Fine Dining"},
		{"katpadi", "Katpadi"},
		{"a-b-c", "A B C"},
		{"sri-ram-iPhone-repairs", "Sri Ram IPhone Repairs"},
		{"--double--dash", "Double Dash"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := textutil.Humanize(tt.in); got != tt.want {
			t.Errorf("Humanize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
