// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/localhub/internal/app/resources"
	"github.com/dalemusser/localhub/internal/app/system/seo"
	"github.com/dalemusser/localhub/internal/app/system/timeouts"
	"github.com/dalemusser/localhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.TimeoutPing,
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
		Batch:  appCfg.TimeoutBatch,
	})
	viewdata.Init(seo.Site{Name: appCfg.SiteName, BaseURL: appCfg.BaseURL})
	resources.LoadSharedTemplates()

	logger.Info("startup complete",
		zap.String("site", appCfg.SiteName),
		zap.String("base_url", appCfg.BaseURL),
		zap.Bool("admin_enabled", appCfg.AdminEmail != ""))
	return nil
}
