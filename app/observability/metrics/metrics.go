package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	SuggestRequestsTotal   metric.Int64Counter
	SuggestDurationSeconds metric.Float64Histogram
	ScraperRunsTotal       metric.Int64Counter
	ScraperDurationSeconds metric.Float64Histogram
	ScraperFailuresTotal   metric.Int64Counter
	GeocodeLookupsTotal    metric.Int64Counter
	GeocodeCacheHitsTotal  metric.Int64Counter
	LLMGenerationsTotal    metric.Int64Counter
}

var (
	// Global instance of AppMetrics (initialized once)
	appMetrics *AppMetrics
	once       sync.Once
)

// Get returns the global metrics instruments, initializing them on first
// use from the globally configured MeterProvider.
func Get() *AppMetrics {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("go-place-suggestions")
		var err error
		m := &AppMetrics{}

		m.SuggestRequestsTotal, err = meter.Int64Counter(
			"suggest_requests_total",
			metric.WithDescription("Total number of suggestion requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create suggest_requests_total: %v", err)
		}

		m.SuggestDurationSeconds, err = meter.Float64Histogram(
			"suggest_duration_seconds",
			metric.WithDescription("Duration of suggestion requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create suggest_duration_seconds: %v", err)
		}

		m.ScraperRunsTotal, err = meter.Int64Counter(
			"scraper_runs_total",
			metric.WithDescription("Total number of places scraper invocations"),
			metric.WithUnit("{run}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create scraper_runs_total: %v", err)
		}

		m.ScraperDurationSeconds, err = meter.Float64Histogram(
			"scraper_duration_seconds",
			metric.WithDescription("Duration of places scraper invocations in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create scraper_duration_seconds: %v", err)
		}

		m.ScraperFailuresTotal, err = meter.Int64Counter(
			"scraper_failures_total",
			metric.WithDescription("Total number of failed places scraper invocations"),
			metric.WithUnit("{run}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create scraper_failures_total: %v", err)
		}

		m.GeocodeLookupsTotal, err = meter.Int64Counter(
			"geocode_lookups_total",
			metric.WithDescription("Total number of geocode lookups (including cache hits)"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create geocode_lookups_total: %v", err)
		}

		m.GeocodeCacheHitsTotal, err = meter.Int64Counter(
			"geocode_cache_hits_total",
			metric.WithDescription("Total number of geocode lookups served from cache"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create geocode_cache_hits_total: %v", err)
		}

		m.LLMGenerationsTotal, err = meter.Int64Counter(
			"llm_generations_total",
			metric.WithDescription("Total number of language model generations requested"),
			metric.WithUnit("{generation}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create llm_generations_total: %v", err)
		}

		appMetrics = m
	})
	return appMetrics
}
