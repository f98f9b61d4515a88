package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Recorders(t *testing.T) {
	m := New()

	m.RecordWeatherLookup(true)
	m.RecordWeatherLookup(false)
	m.RecordWeatherLookup(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.WeatherLookups.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.WeatherLookups.WithLabelValues("failure")))

	m.RecordSourceOutcome("Pinterest", true, 10, 3)
	m.RecordSourceOutcome("TikTok", false, 0, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TrendSourceResults.WithLabelValues("Pinterest", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TrendSourceResults.WithLabelValues("TikTok", "failure")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.TrendItemsKept.WithLabelValues("Pinterest", "fetched")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.TrendItemsKept.WithLabelValues("Pinterest", "kept")))

	m.ObserveHTTPRequest("GET", "/api/fetchTrends", 200, 15*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/fetchTrends", "200")))
}

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.RecordWeatherLookup(true)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.WeatherLookups.WithLabelValues("success")))
}
