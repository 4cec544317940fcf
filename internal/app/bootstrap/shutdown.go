// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/localhub/internal/app/system/sqldb"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown closes the SQL pool and disconnects Mongo.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	var errs []error
	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			errs = append(errs, err)
		}
	}
	if deps.DB != nil {
		logger.Info("closing SQL pool")
		if err := sqldb.Close(deps.DB); err != nil {
			logger.Error("SQL close failed", zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
