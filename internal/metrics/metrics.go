// Package metrics defines the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "outfit_trends"

type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestsInFlight prometheus.Gauge
	HTTPRequestDuration  *prometheus.HistogramVec

	WeatherLookups      *prometheus.CounterVec
	TrendSourceResults  *prometheus.CounterVec
	TrendItemsKept      *prometheus.CounterVec
	AggregationDuration prometheus.Histogram
}

// New registers every collector on a fresh registry, so several instances can
// coexist in tests.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests total",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "In-flight HTTP requests",
			},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		WeatherLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "weather_lookups_total",
				Help:      "Weather lookups by result",
			},
			[]string{"result"},
		),
		TrendSourceResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trend_source_results_total",
				Help:      "Trend source fetches by source and result",
			},
			[]string{"source", "result"},
		),
		TrendItemsKept: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trend_items_total",
				Help:      "Trend items fetched and kept by the relevance filter",
			},
			[]string{"source", "stage"},
		),
		AggregationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "aggregation_duration_seconds",
				Help:      "End-to-end duration of trend aggregation",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}

	m.Registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestsInFlight,
		m.HTTPRequestDuration,
		m.WeatherLookups,
		m.TrendSourceResults,
		m.TrendItemsKept,
		m.AggregationDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) RecordWeatherLookup(ok bool) {
	m.WeatherLookups.WithLabelValues(resultLabel(ok)).Inc()
}

func (m *Metrics) RecordSourceOutcome(source string, ok bool, fetched, kept int) {
	m.TrendSourceResults.WithLabelValues(source, resultLabel(ok)).Inc()
	m.TrendItemsKept.WithLabelValues(source, "fetched").Add(float64(fetched))
	m.TrendItemsKept.WithLabelValues(source, "kept").Add(float64(kept))
}

func (m *Metrics) ObserveAggregation(d time.Duration) {
	m.AggregationDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func resultLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
