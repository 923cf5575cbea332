package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcomes recorded for ability invocations.
const (
	AbilityCallOutcomeSuccess      = "success"
	AbilityCallOutcomeInvalidInput = "invalid_input"
	AbilityCallOutcomeUnauthorized = "unauthorized"
	AbilityCallOutcomeFailure      = "failure"
	AbilityCallOutcomeTimeout      = "timeout"
	AbilityCallOutcomeNotFound     = "not_found"
	AbilityCallOutcomeError        = "error"
)

// CustomMetrics records PressKeep-specific metrics.
// A no-op implementation is used when telemetry is disabled so callers never
// have to check whether metrics are enabled before recording.
type CustomMetrics interface {
	// RecordAbilityCall records a single ability invocation with its outcome and duration.
	RecordAbilityCall(ctx context.Context, ability, category, outcome string, duration time.Duration)
}

type noopCustomMetrics struct{}

// NewNoopCustomMetrics returns a CustomMetrics implementation that records nothing.
func NewNoopCustomMetrics() CustomMetrics {
	return &noopCustomMetrics{}
}

func (n *noopCustomMetrics) RecordAbilityCall(context.Context, string, string, string, time.Duration) {
}

type otelCustomMetrics struct {
	abilityCalls    metric.Int64Counter
	abilityDuration metric.Float64Histogram
}

// NewOtelCustomMetrics creates a CustomMetrics implementation backed by the given otel meter.
func NewOtelCustomMetrics(meter metric.Meter) (CustomMetrics, error) {
	calls, err := meter.Int64Counter(
		"presskeep.ability.calls",
		metric.WithDescription("Total number of ability invocations"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ability calls counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"presskeep.ability.call.duration",
		metric.WithDescription("Duration of ability invocations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ability call duration histogram: %w", err)
	}

	return &otelCustomMetrics{
		abilityCalls:    calls,
		abilityDuration: duration,
	}, nil
}

func (m *otelCustomMetrics) RecordAbilityCall(
	ctx context.Context, ability, category, outcome string, duration time.Duration,
) {
	attrs := metric.WithAttributes(
		attribute.String("ability", ability),
		attribute.String("category", category),
		attribute.String("outcome", outcome),
	)
	m.abilityCalls.Add(ctx, 1, attrs)
	m.abilityDuration.Record(ctx, duration.Seconds(), attrs)
}
