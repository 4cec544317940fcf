// internal/app/system/csvimport/categories.go
package csvimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	categorystore "github.com/dalemusser/localhub/internal/app/store/categories"
)

// ImportCategories builds the category tree. Each row is either a path
// column ("Health > Clinics > Dentists") or a name column with an optional
// parent path. Missing ancestors are created; existing nodes are reused.
func (im *Importer) ImportCategories(ctx context.Context, r io.Reader) (Result, error) {
	recs, parseErrs, err := readRecords(r)
	if err != nil {
		return Result{Kind: KindCategories}, err
	}
	res := Result{Kind: KindCategories, Errors: parseErrs, Skipped: len(parseErrs)}

	if len(recs) > 0 && !recs[0].has("path") && !recs[0].has("name") {
		return res, errors.New(`missing required column "path" or "name"`)
	}

	for _, rec := range recs {
		parts := categoryPath(rec)
		key := strings.Join(parts, " > ")
		if len(parts) == 0 {
			res.reject(rec, "", "category name is required")
			continue
		}

		_, err := im.Categories.EnsurePath(ctx, parts...)
		switch {
		case errors.Is(err, categorystore.ErrTooDeep):
			res.reject(rec, key, "categories nest at most three levels deep")
			continue
		case err != nil:
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			res.reject(rec, key, err.Error())
			continue
		}
		res.Imported++
	}
	return im.finish(res), nil
}

func categoryPath(rec record) []string {
	if p := rec.get("path"); p != "" {
		return splitPath(p)
	}
	name := rec.get("name")
	if name == "" {
		return nil
	}
	return append(splitPath(rec.get("parent")), name)
}

func duplicateReason(firstLine int) string {
	return fmt.Sprintf("duplicate slug (first appears on line %d)", firstLine)
}
