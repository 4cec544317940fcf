// internal/app/system/csvimport/businesses.go
package csvimport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/localhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/localhub/internal/app/system/inputval"
	"github.com/dalemusser/localhub/internal/app/system/textutil"
	"github.com/dalemusser/localhub/internal/domain/models"
	"gorm.io/datatypes"
)

type businessRow struct {
	Name     string `validate:"required,max=255" label:"Name"`
	Slug     string `validate:"required,slug,max=200" label:"Slug"`
	Category string `validate:"max=255" label:"Category"`
	Pincode  string `validate:"max=16" label:"Pincode"`
	Address  string `validate:"max=1000" label:"Address"`
	Phone    string `validate:"omitempty,phone" label:"Phone"`
	Website  string `validate:"omitempty,http_url,max=512" label:"Website"`
}

// weekdays are the opening-hours keys, one optional column each.
var weekdays = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// ImportBusinesses upserts listings by slug. Columns: name (required), slug,
// category, pincode, address, phone, website, description, rating,
// review_count, accepts_appointments, and either opening_hours (JSON) or one
// column per weekday ("09:00-18:00" or "closed").
//
// A category written as a path ("Health > Clinics > Dentists") creates the
// tree and stores the leaf name on the listing.
func (im *Importer) ImportBusinesses(ctx context.Context, r io.Reader) (Result, error) {
	recs, parseErrs, err := readRecords(r, "name")
	if err != nil {
		return Result{Kind: KindBusinesses}, err
	}
	res := Result{Kind: KindBusinesses, Errors: parseErrs, Skipped: len(parseErrs)}

	seen := make(map[string]int)
	for _, rec := range recs {
		b, key, reason := im.businessFromRecord(ctx, rec)
		if reason != "" {
			res.reject(rec, key, reason)
			continue
		}
		if first, dup := seen[b.Slug]; dup {
			res.reject(rec, b.Slug, duplicateReason(first))
			continue
		}
		seen[b.Slug] = rec.line

		if err := im.Businesses.Upsert(ctx, b); err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			res.reject(rec, b.Slug, err.Error())
			continue
		}
		res.Imported++
	}
	return im.finish(res), nil
}

// businessFromRecord validates rec. A non-empty reason means the row is
// rejected; key identifies the row in the report.
func (im *Importer) businessFromRecord(ctx context.Context, rec record) (models.Business, string, string) {
	row := businessRow{
		Name:     rec.get("name"),
		Slug:     rec.get("slug"),
		Category: rec.get("category"),
		Pincode:  rec.get("pincode"),
		Address:  rec.get("address"),
		Phone:    rec.get("phone"),
		Website:  rec.get("website"),
	}
	if row.Slug == "" {
		row.Slug = textutil.Slugify(row.Name)
	}
	key := row.Slug
	if v := inputval.Validate(row); v.HasErrors() {
		return models.Business{}, key, v.First()
	}

	b := models.Business{
		Slug:                row.Slug,
		Name:                row.Name,
		Category:            row.Category,
		Pincode:             row.Pincode,
		Address:             row.Address,
		Phone:               row.Phone,
		Website:             row.Website,
		Description:         htmlsanitize.Sanitize(rec.get("description")),
		AcceptsAppointments: true,
	}

	if parts := splitPath(row.Category); len(parts) > 1 {
		leaf, err := im.Categories.EnsurePath(ctx, parts...)
		if err != nil {
			return models.Business{}, key, "category: " + err.Error()
		}
		b.Category = leaf.Name
	}

	if s := rec.get("rating"); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f < 0 || f > 5 {
			return models.Business{}, key, "Rating must be a number from 0 to 5."
		}
		b.Rating = f
	}
	if s := rec.get("review_count"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return models.Business{}, key, "Review count must be a whole number."
		}
		b.ReviewCount = n
	}
	if s := rec.get("accepts_appointments"); s != "" {
		v, ok := parseYesNo(s)
		if !ok {
			return models.Business{}, key, "Accepts appointments must be yes or no."
		}
		b.AcceptsAppointments = v
	}

	hours, err := recordHours(rec)
	if err != nil {
		return models.Business{}, key, err.Error()
	}
	if len(hours) > 0 {
		raw, err := json.Marshal(hours)
		if err != nil {
			return models.Business{}, key, err.Error()
		}
		b.OpeningHours = datatypes.JSON(raw)
	}
	return b, key, ""
}

func parseYesNo(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1":
		return true, true
	case "n", "no", "false", "0":
		return false, true
	}
	return false, false
}

// recordHours reads the opening_hours JSON column, falling back to the
// per-weekday columns. Closed days are omitted.
func recordHours(rec record) (map[string]models.DayHours, error) {
	out := make(map[string]models.DayHours)

	if s := rec.get("opening_hours"); s != "" {
		var raw map[string]models.DayHours
		if err := json.Unmarshal([]byte(s), &raw); err != nil {
			return nil, fmt.Errorf("opening_hours is not valid JSON: %v", err)
		}
		for day, h := range raw {
			day = strings.ToLower(strings.TrimSpace(day))
			if !slices.Contains(weekdays, day) {
				return nil, fmt.Errorf("opening_hours: unknown day %q", day)
			}
			if err := checkHours(day, h); err != nil {
				return nil, err
			}
			out[day] = h
		}
		return out, nil
	}

	for _, day := range weekdays {
		s := rec.get(day)
		if s == "" || strings.EqualFold(s, "closed") {
			continue
		}
		open, closing, ok := strings.Cut(s, "-")
		if !ok {
			return nil, fmt.Errorf("%s: want HH:MM-HH:MM or closed (got %q)", day, s)
		}
		h := models.DayHours{Open: strings.TrimSpace(open), Close: strings.TrimSpace(closing)}
		if err := checkHours(day, h); err != nil {
			return nil, err
		}
		out[day] = h
	}
	return out, nil
}

func checkHours(day string, h models.DayHours) error {
	open, err := time.Parse("15:04", h.Open)
	if err != nil {
		return fmt.Errorf("%s: opening time %q is not HH:MM", day, h.Open)
	}
	closing, err := time.Parse("15:04", h.Close)
	if err != nil {
		return fmt.Errorf("%s: closing time %q is not HH:MM", day, h.Close)
	}
	if !closing.After(open) {
		return fmt.Errorf("%s: closing time must be after opening time", day)
	}
	return nil
}
