// Package metrics records renewer activity through the OpenTelemetry metric
// API and exposes it as Prometheus metrics, either served over HTTP or
// written to a node-exporter textfile after a one-shot run.
package metrics

import (
	"context"
	"fmt"
	"time"

	"renewer/pkg/domain"

	"github.com/prometheus/client_golang/prometheus"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// DomainBuckets fits a browser driven renewal, which takes seconds to minutes.
var DomainBuckets = []float64{1, 2.5, 5, 10, 20, 30, 60, 120, 300} //nolint: gochecknoglobals

const meterName = "renewer"

// Metrics holds the instruments of the renewer and the registry they export to.
type Metrics struct {
	Registry *prometheus.Registry

	provider       *sdkmetric.MeterProvider
	outcomes       metric.Int64Counter
	domainDuration metric.Float64Histogram
	authAttempts   metric.Int64Counter
	lastRun        metric.Float64Gauge
}

// New creates the instruments on a dedicated registry.
func New() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	exp, err := otelprom.New(otelprom.WithRegisterer(registry), otelprom.WithoutTargetInfo())
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	meter := mp.Meter(meterName)

	m := &Metrics{Registry: registry, provider: mp}

	if m.outcomes, err = meter.Int64Counter("renewer_domain_outcomes",
		metric.WithDescription("Domains processed, by renewal outcome.")); err != nil {
		return nil, fmt.Errorf("could not create outcomes counter: %w", err)
	}
	if m.domainDuration, err = meter.Float64Histogram("renewer_domain_duration",
		metric.WithDescription("Time spent driving one domain through the renewal transaction."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DomainBuckets...)); err != nil {
		return nil, fmt.Errorf("could not create duration histogram: %w", err)
	}
	if m.authAttempts, err = meter.Int64Counter("renewer_auth_attempts",
		metric.WithDescription("Authentication strategy attempts, by strategy and result.")); err != nil {
		return nil, fmt.Errorf("could not create auth counter: %w", err)
	}
	if m.lastRun, err = meter.Float64Gauge("renewer_run_last_timestamp",
		metric.WithDescription("Unix time of the last completed run."),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("could not create last run gauge: %w", err)
	}

	return m, nil
}

// RecordOutcome counts one domain outcome and how long it took.
func (m *Metrics) RecordOutcome(ctx context.Context, kind domain.OutcomeKind, took time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", string(kind)))
	m.outcomes.Add(ctx, 1, attrs)
	m.domainDuration.Record(ctx, took.Seconds(), attrs)
}

// RecordAuthAttempt counts one strategy attempt.
func (m *Metrics) RecordAuthAttempt(ctx context.Context, strategy string, ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}

	m.authAttempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("strategy", strategy),
		attribute.String("result", result),
	))
}

// RecordRun stamps the completion time of a run.
func (m *Metrics) RecordRun(ctx context.Context, at time.Time) {
	m.lastRun.Record(ctx, float64(at.Unix()))
}

// WriteTextfile writes every metric to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("could not write metrics textfile: %w", err)
	}

	return nil
}

// Shutdown stops the meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}

// MeterProvider exports into Registry; the v1 API instruments itself with it.
func (m *Metrics) MeterProvider() metric.MeterProvider {
	return m.provider
}
