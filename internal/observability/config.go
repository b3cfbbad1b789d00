package observability

import (
	"os"
	"strconv"
	"strings"

	"github.com/smallbiznis/faktur/internal/config"
)

// Config is the observability view of process configuration: service
// identity for resource attributes, log shape, and OTLP export settings.
// Environment variables win over the values carried in config.Config.
type Config struct {
	Service string
	Env     string
	Release string

	Level  string
	Format string

	ExportEnabled bool
	OTLPEndpoint  string
	OTLPProtocol  string
	SamplingRatio float64
}

func LoadConfig(cfg config.Config) Config {
	name := strings.TrimSpace(cfg.AppName)
	if name == "" {
		name = "faktur"
	}

	return Config{
		Service: name,
		Env:     envOr("DEPLOYMENT_ENV", cfg.Environment),
		Release: envOr("SERVICE_VERSION", cfg.AppVersion),

		Level:  strings.ToLower(envOr("LOG_LEVEL", "info")),
		Format: strings.ToLower(envOr("LOG_FORMAT", "json")),

		ExportEnabled: boolEnv("OTEL_ENABLED", true),
		OTLPEndpoint:  envOr("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint),
		OTLPProtocol:  exportProtocol(),
		SamplingRatio: floatEnv("OTEL_SAMPLING_RATIO", 0.1),
	}
}

// Debug reports whether verbose diagnostics should be on: either the log
// level asks for it or the process runs in a non-production environment.
func (c Config) Debug() bool {
	if strings.ToLower(strings.TrimSpace(c.Level)) == "debug" {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

// exportProtocol resolves the OTLP wire protocol. The traces-specific
// variable takes precedence over the generic one, matching the collector's
// own env contract.
func exportProtocol() string {
	if p := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL")); p != "" {
		return strings.ToLower(p)
	}
	return strings.ToLower(envOr("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return strings.TrimSpace(fallback)
}

func boolEnv(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	return fallback
}

func floatEnv(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return fallback
	}
	return v
}
