package metrics

import (
	"context"
	"fmt"
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

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes marketplace-level instruments.
type Metrics struct {
	farmerRegistrations metric.Int64Counter
	farmerVerifications metric.Int64Counter
	productsCreated     metric.Int64Counter
	attestations        metric.Int64Counter
	certificateViews    metric.Int64Counter
	ordersPlaced        metric.Int64Counter
	rateLimitDenied     metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Info("shutting down meter provider")
				return provider.Shutdown(ctx)
			},
		})
	}

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)
	return provider, nil
}

// New configures the domain instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "agridirect"
	}
	meter := provider.Meter(name)

	var (
		m   Metrics
		err error
	)
	counters := []struct {
		dst  *metric.Int64Counter
		name string
	}{
		{&m.farmerRegistrations, "agridirect_farmer_registrations_total"},
		{&m.farmerVerifications, "agridirect_farmer_verifications_total"},
		{&m.productsCreated, "agridirect_products_created_total"},
		{&m.attestations, "agridirect_attestations_total"},
		{&m.certificateViews, "agridirect_certificate_views_total"},
		{&m.ordersPlaced, "agridirect_orders_placed_total"},
		{&m.rateLimitDenied, "agridirect_rate_limit_denied_total"},
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// NewNop returns instruments bound to a no-op provider.
func NewNop() *Metrics {
	m, _ := New(Config{}, noop.NewMeterProvider())
	return m
}

func (m *Metrics) RecordFarmerRegistered(ctx context.Context, farmingType string) {
	if m == nil {
		return
	}
	m.farmerRegistrations.Add(ctx, 1, metric.WithAttributes(FilterAttributes(
		attribute.String("farming_type", strings.TrimSpace(farmingType)),
	)...))
}

func (m *Metrics) RecordVerification(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.farmerVerifications.Add(ctx, 1, metric.WithAttributes(FilterAttributes(
		attribute.String("status", status),
	)...))
}

func (m *Metrics) RecordProductCreated(ctx context.Context, category string) {
	if m == nil {
		return
	}
	m.productsCreated.Add(ctx, 1, metric.WithAttributes(FilterAttributes(
		attribute.String("category", strings.ToLower(strings.TrimSpace(category))),
	)...))
}

// RecordAttestation counts issuance attempts by outcome (issued, failed).
func (m *Metrics) RecordAttestation(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.attestations.Add(ctx, 1, metric.WithAttributes(FilterAttributes(
		attribute.String("outcome", outcome),
	)...))
}

func (m *Metrics) RecordCertificateView(ctx context.Context, format, outcome string) {
	if m == nil {
		return
	}
	m.certificateViews.Add(ctx, 1, metric.WithAttributes(FilterAttributes(
		attribute.String("format", format),
		attribute.String("outcome", outcome),
	)...))
}

func (m *Metrics) RecordOrderPlaced(ctx context.Context, paymentMethod string) {
	if m == nil {
		return
	}
	m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(FilterAttributes(
		attribute.String("payment_method", strings.ToLower(strings.TrimSpace(paymentMethod))),
	)...))
}

func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(FilterAttributes(
		attribute.String("endpoint", endpoint),
	)...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"status":         {},
	"outcome":        {},
	"format":         {},
	"category":       {},
	"endpoint":       {},
	"farming_type":   {},
	"payment_method": {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
