package metrics

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	PlanGenerationsTotal          metric.Int64Counter
	PlanGenerationDurationSeconds metric.Float64Histogram
	PlanCacheHitsTotal            metric.Int64Counter
	PlanCacheMissesTotal          metric.Int64Counter
	ProviderErrorsTotal           metric.Int64Counter
	DbQueryDurationSeconds        metric.Float64Histogram
	DbQueryErrorsTotal            metric.Int64Counter
}

// NewAppMetrics creates every instrument on meter.
func NewAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	m.PlanGenerationsTotal, err = meter.Int64Counter(
		"plan_generations_total",
		metric.WithDescription("Total number of travel plan generations by outcome"),
		metric.WithUnit("{plan}"),
	)
	if err != nil {
		return nil, fmt.Errorf("plan_generations_total: %w", err)
	}

	m.PlanGenerationDurationSeconds, err = meter.Float64Histogram(
		"plan_generation_duration_seconds",
		metric.WithDescription("Duration of travel plan generation in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("plan_generation_duration_seconds: %w", err)
	}

	m.PlanCacheHitsTotal, err = meter.Int64Counter(
		"plan_cache_hits_total",
		metric.WithDescription("Analysis and budget cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("plan_cache_hits_total: %w", err)
	}

	m.PlanCacheMissesTotal, err = meter.Int64Counter(
		"plan_cache_misses_total",
		metric.WithDescription("Analysis and budget cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, fmt.Errorf("plan_cache_misses_total: %w", err)
	}

	m.ProviderErrorsTotal, err = meter.Int64Counter(
		"provider_errors_total",
		metric.WithDescription("External provider calls that degraded to fallback data"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("provider_errors_total: %w", err)
	}

	m.DbQueryDurationSeconds, err = meter.Float64Histogram(
		"db_query_duration_seconds",
		metric.WithDescription("Duration of database queries in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("db_query_duration_seconds: %w", err)
	}

	m.DbQueryErrorsTotal, err = meter.Int64Counter(
		"db_query_errors_total",
		metric.WithDescription("Total number of database query errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("db_query_errors_total: %w", err)
	}

	return m, nil
}
