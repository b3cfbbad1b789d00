package migration

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/faktur/internal/config"
	invoicedomain "github.com/smallbiznis/faktur/internal/invoice/domain"
	"github.com/smallbiznis/faktur/internal/ratelimit"
	"github.com/smallbiznis/faktur/internal/seed"
)

type migrateParams struct {
	fx.In

	Conn    *gorm.DB
	Cfg     config.Config
	Log     *zap.Logger
	Limiter *ratelimit.WriteLimiter `optional:"true"`
}

var Module = fx.Module("migrations",
	fx.Invoke(func(p migrateParams) error {
		if p.Cfg.DBType == "postgres" {
			sqlDB, err := p.Conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else if err := p.Conn.AutoMigrate(&invoicedomain.Invoice{}); err != nil {
			return err
		}

		if p.Cfg.SeedDemoData {
			return seed.EnsureDemoInvoices(p.Conn, p.Log, p.Limiter)
		}
		return nil
	}),
)
