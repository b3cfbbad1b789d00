package metrics

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const exportInterval = 10 * time.Second

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	invoicesCreated    metric.Int64Counter
	invoicesUpdated    metric.Int64Counter
	invoicesDeleted    metric.Int64Counter
	statementsRendered metric.Int64Counter
	rateLimitAllowed   metric.Int64Counter
	rateLimitDenied    metric.Int64Counter
}

// NewProvider registers the global meter provider. Disabled metrics install a
// noop provider so instruments stay callable without exporting anything.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		noopProvider := noop.NewMeterProvider()
		otel.SetMeterProvider(noopProvider)
		return noopProvider, nil
	}

	exporter, err := newExporter(cfg)
	if err != nil {
		return nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(
		sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(exportInterval)),
	))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}
	if log != nil {
		log.Info("metrics configured",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}
	return provider, nil
}

// New builds the instrument set on the given provider.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(meterName(cfg.ServiceName))

	var firstErr error
	counter := func(name string) metric.Int64Counter {
		c, err := meter.Int64Counter(name)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return c
	}

	m := &Metrics{
		invoicesCreated:    counter("faktur_invoices_created_total"),
		invoicesUpdated:    counter("faktur_invoices_updated_total"),
		invoicesDeleted:    counter("faktur_invoices_deleted_total"),
		statementsRendered: counter("faktur_statements_rendered_total"),
		rateLimitAllowed:   counter("faktur_rate_limit_allowed_total"),
		rateLimitDenied:    counter("faktur_rate_limit_denied_total"),
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return m, nil
}

func meterName(service string) string {
	if name := strings.TrimSpace(service); name != "" {
		return name
	}
	return "faktur"
}

// RecordInvoiceCreated increments created invoice counts.
func (m *Metrics) RecordInvoiceCreated(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.invoicesCreated.Add(ctx, 1, labels(stringAttr("status", status)))
}

// RecordInvoiceUpdated increments updated invoice counts.
func (m *Metrics) RecordInvoiceUpdated(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.invoicesUpdated.Add(ctx, 1, labels(stringAttr("status", status)))
}

// RecordInvoiceDeleted increments deleted invoice counts.
func (m *Metrics) RecordInvoiceDeleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.invoicesDeleted.Add(ctx, 1)
}

// RecordStatementRendered increments rendered PDF statement counts.
func (m *Metrics) RecordStatementRendered(ctx context.Context) {
	if m == nil {
		return
	}
	m.statementsRendered.Add(ctx, 1)
}

// RecordRateLimitAllowed increments rate limit allow counts.
func (m *Metrics) RecordRateLimitAllowed(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	m.rateLimitAllowed.Add(ctx, 1, labels(stringAttr("endpoint", endpoint)))
}

// RecordRateLimitDenied increments rate limit deny counts.
func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint, reason string) {
	if m == nil {
		return
	}
	m.rateLimitDenied.Add(ctx, 1, labels(
		stringAttr("endpoint", endpoint),
		stringAttr("reason", reason),
	))
}

func stringAttr(key, value string) attribute.KeyValue {
	return attribute.String(key, strings.TrimSpace(value))
}

func labels(attrs ...attribute.KeyValue) metric.MeasurementOption {
	return metric.WithAttributes(FilterAttributes(attrs...)...)
}

func newExporter(cfg Config) (sdkmetric.Exporter, error) {
	switch cfg.ExporterProtocol {
	case "http", "http/protobuf":
		var opts []otlpmetrichttp.Option
		if cfg.ExporterEndpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(cfg.ExporterEndpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	default:
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if cfg.ExporterEndpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(cfg.ExporterEndpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"endpoint":    {},
	"status_code": {},
	"status":      {},
	"operation":   {},
	"reason":      {},
}

// FilterAttributes drops labels whose keys are not on the allowlist, keeping
// instrument cardinality bounded.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; ok {
			out = append(out, attr)
		}
	}
	return out
}
