// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/localhub/internal/app/store/audit"
	"github.com/dalemusser/localhub/internal/app/system/sqldb"
	"github.com/dalemusser/localhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

func sqlConfig(appCfg AppConfig) sqldb.Config {
	return sqldb.Config{
		Driver:          appCfg.DBDriver,
		Host:            appCfg.DBHost,
		Port:            appCfg.DBPort,
		User:            appCfg.DBUser,
		Password:        appCfg.DBPassword,
		Name:            appCfg.DBName,
		SSLMode:         appCfg.DBSSLMode,
		TimeZone:        appCfg.DBTimeZone,
		SQLitePath:      appCfg.DBSQLitePath,
		MaxOpenConns:    appCfg.DBMaxOpenConns,
		MaxIdleConns:    appCfg.DBMaxIdleConns,
		ConnMaxLifetime: appCfg.DBConnMaxLifetime,
	}
}

// ConnectDB opens the relational store and, when mongo_uri is set, the
// audit event store.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	db, err := sqldb.Open(sqlConfig(appCfg))
	if err != nil {
		return DBDeps{}, fmt.Errorf("open %s: %w", appCfg.DBDriver, err)
	}
	if err := sqldb.Ping(ctx, db); err != nil {
		_ = sqldb.Close(db)
		return DBDeps{}, fmt.Errorf("ping %s: %w", appCfg.DBDriver, err)
	}
	logger.Info("connected to SQL database", zap.String("driver", appCfg.DBDriver))

	deps := DBDeps{DB: db}
	if appCfg.MongoURI == "" {
		logger.Info("mongo_uri not set; audit events go to the log only")
		return deps, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(appCfg.MongoURI))
	if err != nil {
		_ = sqldb.Close(db)
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		_ = sqldb.Close(db)
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps.MongoClient = client
	deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
	return deps, nil
}

// EnsureSchema migrates the SQL tables and creates the audit indexes.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := models.AutoMigrate(deps.DB.WithContext(ctx)); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if deps.MongoDatabase != nil {
		if err := audit.New(deps.MongoDatabase).EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("audit indexes: %w", err)
		}
	}
	logger.Info("schema ready")
	return nil
}
