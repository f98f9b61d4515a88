package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/outfit-trends/internal/aggregator"
	"github.com/vzahanych/outfit-trends/internal/trends"
	"github.com/vzahanych/outfit-trends/internal/weather"
	"go.uber.org/zap/zaptest"
)

type mockAggregator struct {
	mock.Mock
}

func (m *mockAggregator) FetchTrends(ctx context.Context, location string) (*aggregator.Result, error) {
	args := m.Called(ctx, location)
	if r := args.Get(0); r != nil {
		return r.(*aggregator.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAggregator) LookupWeather(ctx context.Context, location string, units weather.Units) (weather.Reading, error) {
	args := m.Called(ctx, location, units)
	return args.Get(0).(weather.Reading), args.Error(1)
}

func (m *mockAggregator) Units() weather.Units {
	return weather.Imperial
}

func newTestRouter(t *testing.T, agg TrendAggregator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTrendsHandler(agg, zaptest.NewLogger(t))

	r := gin.New()
	r.GET("/api/fetchTrends", h.FetchTrends)
	r.GET("/trends", h.FetchTrends)
	r.GET("/weather", h.GetWeather)
	return r
}

func doGet(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestFetchTrends_Success(t *testing.T) {
	agg := &mockAggregator{}
	agg.On("FetchTrends", mock.Anything, "10001").Return(&aggregator.Result{
		Location: "10001",
		Weather:  weather.Reading{Temperature: 60, Condition: "clouds", Description: "overcast clouds"},
		Trends: []trends.Item{
			{ID: "p1", Name: "Light Jacket", ImageURL: "https://img/p1.jpg", Source: trends.Pinterest},
			{ID: "t1", Name: "Cardigan look", ImageURL: "https://img/t1.jpg", Source: trends.TikTok},
		},
		Degraded: []trends.SourceName{},
	}, nil)

	w := doGet(newTestRouter(t, agg), "/api/fetchTrends?zip=10001")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.ElementsMatch(t, []string{"weather", "trends"}, keys(body))

	var resp TrendsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, WeatherPayload{Temp: 60, Conditions: "clouds", Description: "overcast clouds"}, resp.Weather)
	require.Len(t, resp.Trends, 2)
	assert.Equal(t, TrendPayload{ID: "p1", Name: "Light Jacket", Image: "https://img/p1.jpg", Source: "Pinterest"}, resp.Trends[0])
	assert.Equal(t, "TikTok", resp.Trends[1].Source)
	agg.AssertExpectations(t)
}

func TestFetchTrends_EmptyTrendsIsArray(t *testing.T) {
	agg := &mockAggregator{}
	agg.On("FetchTrends", mock.Anything, "").Return(&aggregator.Result{
		Weather: weather.Reading{Temperature: 80, Condition: "clear"},
		Trends:  []trends.Item{},
	}, nil)

	w := doGet(newTestRouter(t, agg), "/api/fetchTrends")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"trends":[]`)
}

func TestFetchTrends_LocationAliases(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{"zip", "zip=94103", "94103"},
		{"location", "location=Paris", "Paris"},
		{"city", "city=New+York", "New York"},
		{"zip wins", "zip=94103&city=Paris", "94103"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := &mockAggregator{}
			agg.On("FetchTrends", mock.Anything, tt.expected).Return(&aggregator.Result{Trends: []trends.Item{}}, nil)

			w := doGet(newTestRouter(t, agg), "/trends?"+tt.query)
			assert.Equal(t, http.StatusOK, w.Code)
			agg.AssertExpectations(t)
		})
	}
}

func TestFetchTrends_WeatherFailure(t *testing.T) {
	agg := &mockAggregator{}
	cause := &weather.UnavailableError{Provider: "openweathermap", Location: "10001", Err: errors.New("status 503")}
	agg.On("FetchTrends", mock.Anything, "10001").Return(nil, cause)

	w := doGet(newTestRouter(t, agg), "/api/fetchTrends?zip=10001")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to fetch trends", resp.Message)
	assert.Equal(t, cause.Error(), resp.Error)
	assert.Equal(t, "WEATHER_UNAVAILABLE", resp.Code)
	assert.NotContains(t, w.Body.String(), `"trends"`)
}

func TestFetchTrends_UnknownLocationIsServerError(t *testing.T) {
	agg := &mockAggregator{}
	agg.On("FetchTrends", mock.Anything, "Atlantis").Return(nil, &weather.UnavailableError{
		Provider: "openweathermap",
		Location: "Atlantis",
		Err:      fmt.Errorf("%w: city not found", weather.ErrInvalidQuery),
	})

	w := doGet(newTestRouter(t, agg), "/api/fetchTrends?city=Atlantis")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to fetch trends", resp.Message)
	assert.Contains(t, resp.Error, "city not found")
	assert.Equal(t, "WEATHER_UNAVAILABLE", resp.Code)
}

func TestFetchTrends_BlankLocationUsesDefault(t *testing.T) {
	for _, query := range []string{"zip=%20", "city=%20%20", "location=%09"} {
		t.Run(query, func(t *testing.T) {
			agg := &mockAggregator{}
			agg.On("FetchTrends", mock.Anything, "").Return(&aggregator.Result{
				Location: "94103",
				Weather:  weather.Reading{Temperature: 60, Condition: "clouds"},
				Trends:   []trends.Item{},
			}, nil)

			w := doGet(newTestRouter(t, agg), "/api/fetchTrends?"+query)
			assert.Equal(t, http.StatusOK, w.Code)
			agg.AssertExpectations(t)
		})
	}
}

func TestFetchTrends_TrimsLocation(t *testing.T) {
	agg := &mockAggregator{}
	agg.On("FetchTrends", mock.Anything, "Paris").Return(&aggregator.Result{Trends: []trends.Item{}}, nil)

	w := doGet(newTestRouter(t, agg), "/api/fetchTrends?city=%20Paris%20")
	assert.Equal(t, http.StatusOK, w.Code)
	agg.AssertExpectations(t)
}

func TestFetchTrends_ValidationFailure(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"illegal characters", "zip=%3Cscript%3E"},
		{"blank inside markup", "city=%20%3C%3E%20"},
		{"too long", "location=" + strings.Repeat("a", 65)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := &mockAggregator{}

			w := doGet(newTestRouter(t, agg), "/api/fetchTrends?"+tt.query)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "INVALID_PARAMS", resp.Code)
			assert.NotEmpty(t, resp.Details)
			agg.AssertNotCalled(t, "FetchTrends", mock.Anything, mock.Anything)
		})
	}
}

func TestGetWeather(t *testing.T) {
	agg := &mockAggregator{}
	agg.On("LookupWeather", mock.Anything, "London", weather.Metric).
		Return(weather.Reading{Temperature: 14.5, Condition: "rain", Description: "light rain"}, nil)
	agg.On("LookupWeather", mock.Anything, "10001", weather.Imperial).
		Return(weather.Reading{Temperature: 70, Condition: "clear", Description: "clear sky"}, nil)

	r := newTestRouter(t, agg)

	w := doGet(r, "/weather?city=London&units=metric")
	require.Equal(t, http.StatusOK, w.Code)
	var resp WeatherResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "London", resp.Location)
	assert.Equal(t, "metric", resp.Units)
	assert.Equal(t, 14.5, resp.Temp)
	assert.Equal(t, "rain", resp.Conditions)

	w = doGet(r, "/weather?zip=10001")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "imperial", resp.Units)

	agg.AssertExpectations(t)
}

func TestGetWeather_Errors(t *testing.T) {
	agg := &mockAggregator{}
	agg.On("LookupWeather", mock.Anything, "10001", weather.Imperial).
		Return(weather.Reading{}, &weather.UnavailableError{Provider: "openweathermap", Err: errors.New("timeout")})

	r := newTestRouter(t, agg)

	w := doGet(r, "/weather?zip=10001&units=kelvin")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doGet(r, "/weather?zip=10001")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to fetch weather")
}

func TestCodeFor(t *testing.T) {
	assert.Equal(t, "AGGREGATION_ERROR", codeFor(errors.New("boom")))
	assert.Equal(t, "WEATHER_UNAVAILABLE", codeFor(&weather.UnavailableError{Err: errors.New("x")}))
	assert.Equal(t, "WEATHER_UNAVAILABLE", codeFor(&weather.UnavailableError{Err: weather.ErrInvalidQuery}))
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
