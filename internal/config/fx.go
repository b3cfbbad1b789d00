package config

import (
	"github.com/smallbiznis/faktur/pkg/db"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewLimitsConfigHolder),
	fx.Provide(provideDatabaseConfig),
)

func provideDatabaseConfig(cfg Config) db.Config {
	return cfg.Database()
}
