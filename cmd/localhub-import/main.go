// Command localhub-import loads directory CSV feeds into the LocalHub database.
//
//	localhub-import locations  locations.csv
//	localhub-import categories categories.csv
//	localhub-import businesses --driver sqlite --sqlite-path localhub.db businesses.csv
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dalemusser/localhub/internal/app/system/csvimport"
	"github.com/dalemusser/localhub/internal/app/system/sqldb"
	"github.com/dalemusser/localhub/internal/app/system/timeouts"
	"github.com/dalemusser/localhub/internal/domain/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	dbCfg     sqldb.Config
	migrate   bool
	verbose   bool
	maxErrors int
	timeout   time.Duration

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "localhub-import",
	Short: "Import locations, categories and businesses from CSV",
	Long: `Loads CSV feeds into the LocalHub directory tables.

Rows are upserted by slug, so re-running an import refreshes existing
listings. Bad rows are reported and skipped; the rest of the file still loads.

Import locations and categories before businesses.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func kindCmd(kind, example string) *cobra.Command {
	return &cobra.Command{
		Use:     kind + " FILE",
		Short:   "Import " + kind + " from a CSV file",
		Example: example,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), kind, args[0])
		},
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dbCfg.Driver, "driver", envOr("LOCALHUB_DB_DRIVER", sqldb.DriverPostgres), "Database driver: postgres or sqlite")
	pf.StringVar(&dbCfg.Host, "dsn-host", envOr("LOCALHUB_DB_HOST", "localhost"), "Postgres host")
	pf.IntVar(&dbCfg.Port, "dsn-port", 5432, "Postgres port")
	pf.StringVar(&dbCfg.User, "dsn-user", envOr("LOCALHUB_DB_USER", "localhub"), "Postgres user")
	pf.StringVar(&dbCfg.Password, "dsn-password", envOr("LOCALHUB_DB_PASSWORD", "localhub"), "Postgres password")
	pf.StringVar(&dbCfg.Name, "dsn-name", envOr("LOCALHUB_DB_NAME", "localhub"), "Postgres database name")
	pf.StringVar(&dbCfg.SSLMode, "dsn-sslmode", "disable", "Postgres sslmode")
	pf.StringVar(&dbCfg.TimeZone, "dsn-timezone", "UTC", "Postgres session time zone")
	pf.StringVar(&dbCfg.SQLitePath, "sqlite-path", envOr("LOCALHUB_DB_SQLITE_PATH", "localhub.db"), "SQLite file when --driver=sqlite")
	pf.BoolVar(&migrate, "migrate", false, "Create or update the directory tables before importing")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	pf.IntVar(&maxErrors, "max-errors", 20, "Row errors to print (0 prints all)")
	pf.DurationVar(&timeout, "timeout", timeouts.Batch(), "Deadline for the whole import")

	rootCmd.AddCommand(
		kindCmd(csvimport.KindLocations, "  localhub-import locations locations.csv"),
		kindCmd(csvimport.KindCategories, "  localhub-import categories categories.csv"),
		kindCmd(csvimport.KindBusinesses, "  localhub-import businesses businesses.csv"),
	)
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func runImport(parent context.Context, kind, path string) error {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() > csvimport.MaxFileSize {
		return fmt.Errorf("%s is %d bytes; the limit is %d", path, info.Size(), csvimport.MaxFileSize)
	}

	db, err := sqldb.Open(dbCfg)
	if err != nil {
		return fmt.Errorf("open %s: %w", dbCfg.Driver, err)
	}
	defer func() { _ = sqldb.Close(db) }()

	if err := sqldb.Ping(ctx, db); err != nil {
		return fmt.Errorf("ping %s: %w", dbCfg.Driver, err)
	}
	if migrate {
		if err := models.AutoMigrate(db.WithContext(ctx)); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("schema migrated")
	}

	logger.Debug("importing", zap.String("kind", kind), zap.String("file", path))
	res, err := csvimport.New(db, logger).Import(ctx, kind, f)
	if err != nil {
		return fmt.Errorf("import %s: %w", kind, err)
	}
	if err := res.WriteReport(os.Stdout, maxErrors); err != nil {
		return err
	}
	if res.HasErrors() {
		return fmt.Errorf("%d rows rejected", len(res.Errors))
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
