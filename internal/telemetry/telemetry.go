// Package telemetry provides OpenTelemetry-based metrics for the PressKeep server.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config holds the configuration for initializing telemetry providers.
type Config struct {
	// ServiceName is reported as the service.name resource attribute.
	ServiceName string

	// Enabled controls whether real providers are created.
	// When false, Init returns a disabled Providers that records nothing.
	Enabled bool
}

// Providers bundles the OpenTelemetry providers used by the server.
type Providers struct {
	MeterProvider *sdkmetric.MeterProvider
	Meter         metric.Meter

	serviceName string
	enabled     bool
}

// Init initializes the OpenTelemetry providers.
// Metrics are exported via the Prometheus exporter and served by the
// server's /metrics endpoint.
func Init(_ context.Context, cfg *Config) (*Providers, error) {
	p := &Providers{
		serviceName: cfg.ServiceName,
		enabled:     cfg.Enabled,
	}
	if !cfg.Enabled {
		return p, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create otel resource: %w", err)
	}

	exporter, err := otelprom.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	p.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(p.MeterProvider)
	p.Meter = p.MeterProvider.Meter(cfg.ServiceName)

	return p, nil
}

// IsEnabled returns true if telemetry is enabled.
func (p *Providers) IsEnabled() bool {
	return p != nil && p.enabled
}

// ServiceName returns the configured service name.
func (p *Providers) ServiceName() string {
	return p.serviceName
}

// Shutdown flushes and shuts down the telemetry providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil || p.MeterProvider == nil {
		return nil
	}
	if err := p.MeterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}
