// internal/app/system/sqldb/sqldb.go
package sqldb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config describes how to reach the relational store.
type Config struct {
	Driver string

	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string

	SQLitePath string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ValidDriver reports whether d names a supported driver.
func ValidDriver(d string) bool {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case DriverPostgres, DriverSQLite:
		return true
	}
	return false
}

// DSN builds the connection string for cfg.Driver.
func (c Config) DSN() string {
	if strings.EqualFold(c.Driver, DriverSQLite) {
		return c.SQLitePath
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		c.Host,
		c.User,
		c.Password,
		c.Name,
		c.Port,
		c.SSLMode,
		c.TimeZone,
	)
}

func dialector(c Config) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(c.Driver)) {
	case DriverPostgres:
		if c.Host == "" || c.User == "" || c.Name == "" {
			return nil, fmt.Errorf("invalid postgres config: host/user/name must not be empty")
		}
		return postgres.Open(c.DSN()), nil
	case DriverSQLite:
		if c.SQLitePath == "" {
			return nil, fmt.Errorf("invalid sqlite config: path must not be empty")
		}
		return sqlite.Open(c.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", c.Driver)
	}
}

// Open connects with gorm and applies pool limits.
func Open(cfg Config) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
		NowFunc: func() time.Time {
			// stored in UTC; views convert for display
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(d, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB(): %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

// Ping checks connectivity of the underlying pool.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
