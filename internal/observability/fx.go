package observability

import (
	"github.com/smallbiznis/faktur/internal/observability/logger"
	"github.com/smallbiznis/faktur/internal/observability/metrics"
	"github.com/smallbiznis/faktur/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	gormlogger "gorm.io/gorm/logger"
)

// Module assembles the telemetry stack. Providers are grouped per concern;
// the tracer provider is invoked eagerly because nothing in the object graph
// consumes it directly.
var Module = fx.Module("observability",
	fx.Provide(LoadConfig),
	fx.Provide(loggerConfig, logger.New, newGormLogger),
	fx.Provide(tracingConfig, tracing.NewProvider),
	fx.Provide(metricsConfig, metrics.NewProvider, metrics.New, metrics.NewHTTPMetrics),
	fx.Invoke(func(_ *sdktrace.TracerProvider) {}),
)

func loggerConfig(cfg Config) logger.Config {
	return logger.Config{
		ServiceName:         cfg.Service,
		Environment:         cfg.Env,
		Version:             cfg.Release,
		Level:               cfg.Level,
		Format:              cfg.Format,
		Debug:               cfg.Debug(),
		IncludeCaller:       true,
		IncludeStackOnError: cfg.Debug(),
	}
}

func tracingConfig(cfg Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.ExportEnabled,
		ServiceName:      cfg.Service,
		ServiceVersion:   cfg.Release,
		Environment:      cfg.Env,
		ExporterEndpoint: cfg.OTLPEndpoint,
		ExporterProtocol: cfg.OTLPProtocol,
		SamplingRatio:    cfg.SamplingRatio,
	}
}

func metricsConfig(cfg Config) metrics.Config {
	return metrics.Config{
		Enabled:          cfg.ExportEnabled,
		ExporterEndpoint: cfg.OTLPEndpoint,
		ExporterProtocol: cfg.OTLPProtocol,
		ServiceName:      cfg.Service,
		Environment:      cfg.Env,
	}
}

func newGormLogger(cfg Config) gormlogger.Interface {
	gcfg := logger.DefaultGormLoggerConfig()
	if cfg.Debug() {
		gcfg.Level = gormlogger.Info
	}
	return logger.NewGormLogger(gcfg)
}
