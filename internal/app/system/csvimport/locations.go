// internal/app/system/csvimport/locations.go
package csvimport

import (
	"context"
	"io"

	"github.com/dalemusser/localhub/internal/app/system/inputval"
	"github.com/dalemusser/localhub/internal/app/system/textutil"
	"github.com/dalemusser/localhub/internal/domain/models"
)

type locationRow struct {
	Name    string `validate:"required,max=255" label:"Name"`
	Slug    string `validate:"required,slug,max=160" label:"Slug"`
	Pincode string `validate:"max=16" label:"Pincode"`
	City    string `validate:"max=128" label:"City"`
	State   string `validate:"max=128" label:"State"`
}

// ImportLocations reads name, slug, pincode, city and state columns. Only
// name is required; a missing slug is generated from the name.
func (im *Importer) ImportLocations(ctx context.Context, r io.Reader) (Result, error) {
	recs, parseErrs, err := readRecords(r, "name")
	if err != nil {
		return Result{Kind: KindLocations}, err
	}
	res := Result{Kind: KindLocations, Errors: parseErrs, Skipped: len(parseErrs)}

	seen := make(map[string]int)
	for _, rec := range recs {
		row := locationRow{
			Name:    rec.get("name"),
			Slug:    rec.get("slug"),
			Pincode: rec.get("pincode"),
			City:    rec.get("city"),
			State:   rec.get("state"),
		}
		if row.Slug == "" {
			row.Slug = textutil.Slugify(row.Name)
		}
		if v := inputval.Validate(row); v.HasErrors() {
			res.reject(rec, row.Slug, v.First())
			continue
		}
		if first, dup := seen[row.Slug]; dup {
			res.reject(rec, row.Slug, duplicateReason(first))
			continue
		}
		seen[row.Slug] = rec.line

		err := im.Locations.Upsert(ctx, models.Location{
			Slug:    row.Slug,
			Name:    row.Name,
			Pincode: row.Pincode,
			City:    row.City,
			State:   row.State,
		})
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			res.reject(rec, row.Slug, err.Error())
			continue
		}
		res.Imported++
	}
	return im.finish(res), nil
}
