package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// FlowMetrics counts OAuth connect flows by provider and outcome.
// A nil *FlowMetrics records nothing.
type FlowMetrics struct {
	starts    metric.Int64Counter
	callbacks metric.Int64Counter
}

// NewFlowMetrics registers the flow counters on the given meter
func NewFlowMetrics(meter metric.Meter) (*FlowMetrics, error) {
	starts, err := meter.Int64Counter("oauth.flow.starts",
		metric.WithDescription("Authorization redirects requested, by provider and outcome"))
	if err != nil {
		return nil, fmt.Errorf("failed to create starts counter: %w", err)
	}

	callbacks, err := meter.Int64Counter("oauth.flow.callbacks",
		metric.WithDescription("Provider callbacks handled, by provider and outcome"))
	if err != nil {
		return nil, fmt.Errorf("failed to create callbacks counter: %w", err)
	}

	return &FlowMetrics{starts: starts, callbacks: callbacks}, nil
}

// RecordStart counts one start request
func (m *FlowMetrics) RecordStart(ctx context.Context, provider, outcome string) {
	if m == nil {
		return
	}
	m.starts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome),
	))
}

// RecordCallback counts one callback
func (m *FlowMetrics) RecordCallback(ctx context.Context, provider, outcome string) {
	if m == nil {
		return
	}
	m.callbacks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome),
	))
}
