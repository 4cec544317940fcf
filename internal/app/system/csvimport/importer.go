// internal/app/system/csvimport/importer.go
package csvimport

import (
	"context"
	"fmt"
	"io"
	"strings"

	businessstore "github.com/dalemusser/localhub/internal/app/store/businesses"
	categorystore "github.com/dalemusser/localhub/internal/app/store/categories"
	locationstore "github.com/dalemusser/localhub/internal/app/store/locations"
	"github.com/dalemusser/localhub/internal/domain/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Kinds accepted by Import.
const (
	KindLocations  = "locations"
	KindCategories = "categories"
	KindBusinesses = "businesses"
)

// Kinds lists every importable kind in dependency order.
var Kinds = []string{KindLocations, KindCategories, KindBusinesses}

type LocationWriter interface {
	Upsert(ctx context.Context, loc models.Location) error
}

type CategoryWriter interface {
	EnsurePath(ctx context.Context, names ...string) (models.Category, error)
}

type BusinessWriter interface {
	Upsert(ctx context.Context, b models.Business) error
}

// Importer loads directory CSV feeds into the relational store. Rows are
// applied one at a time; a bad row is reported and the rest still load.
type Importer struct {
	Locations  LocationWriter
	Categories CategoryWriter
	Businesses BusinessWriter
	Log        *zap.Logger
}

func New(db *gorm.DB, logger *zap.Logger) *Importer {
	return &Importer{
		Locations:  locationstore.New(db),
		Categories: categorystore.New(db),
		Businesses: businessstore.New(db),
		Log:        logger,
	}
}

// Import dispatches on kind. The returned error is for file-level problems
// (unreadable file, missing header column, too many rows); row problems are
// in Result.Errors.
func (im *Importer) Import(ctx context.Context, kind string, r io.Reader) (Result, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindLocations:
		return im.ImportLocations(ctx, r)
	case KindCategories:
		return im.ImportCategories(ctx, r)
	case KindBusinesses:
		return im.ImportBusinesses(ctx, r)
	}
	return Result{}, fmt.Errorf("unknown import kind %q (want %s)", kind, strings.Join(Kinds, ", "))
}

func (im *Importer) finish(res Result) Result {
	im.Log.Info("csv import finished",
		zap.String("kind", res.Kind),
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped))
	return res
}

// splitPath splits "Health > Clinics > Dentists" into its trimmed parts.
func splitPath(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ">") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
