package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/outfit-trends/internal/aggregator"
	"github.com/vzahanych/outfit-trends/internal/server/utils"
	"github.com/vzahanych/outfit-trends/internal/weather"
	"github.com/vzahanych/outfit-trends/pkg/logger"
	"go.uber.org/zap"
)

// TrendAggregator is the part of aggregator.Aggregator the handlers use.
type TrendAggregator interface {
	FetchTrends(ctx context.Context, location string) (*aggregator.Result, error)
	LookupWeather(ctx context.Context, location string, units weather.Units) (weather.Reading, error)
	Units() weather.Units
}

type TrendsHandler struct {
	aggregator TrendAggregator
	logger     *zap.Logger
}

func NewTrendsHandler(agg TrendAggregator, logger *zap.Logger) *TrendsHandler {
	return &TrendsHandler{
		aggregator: agg,
		logger:     logger,
	}
}

func (h *TrendsHandler) FetchTrends(c *gin.Context) {
	ctx := utils.RequestContext(c)
	reqLogger := h.requestLogger(ctx, c)
	ctx = logger.WithContext(ctx, reqLogger)

	var req TrendsRequest
	if !bindAndValidate(c, &req, reqLogger) {
		return
	}

	reqLogger.Info("Processing trends request", zap.String("location", req.ResolvedLocation()))

	result, err := h.aggregator.FetchTrends(ctx, req.ResolvedLocation())
	if err != nil {
		reqLogger.Error("Failed to fetch trends", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to fetch trends",
			Error:   err.Error(),
			Code:    codeFor(err),
		})
		return
	}

	response := transformToTrendsResponse(result)
	reqLogger.Info("Trends request completed successfully",
		zap.String("location", result.Location),
		zap.Int("trends_count", len(response.Trends)))

	c.JSON(http.StatusOK, response)
}

func (h *TrendsHandler) GetWeather(c *gin.Context) {
	ctx := utils.RequestContext(c)
	reqLogger := h.requestLogger(ctx, c)
	ctx = logger.WithContext(ctx, reqLogger)

	var req WeatherRequest
	if !bindAndValidate(c, &req, reqLogger) {
		return
	}

	units := h.aggregator.Units()
	if req.Units != "" {
		units = weather.Units(req.Units)
	}

	reading, err := h.aggregator.LookupWeather(ctx, req.ResolvedLocation(), units)
	if err != nil {
		reqLogger.Error("Failed to fetch weather", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to fetch weather",
			Error:   err.Error(),
			Code:    codeFor(err),
		})
		return
	}

	c.JSON(http.StatusOK, WeatherResponse{
		Location:       req.ResolvedLocation(),
		Units:          string(units),
		WeatherPayload: toWeatherPayload(reading),
	})
}

// requestLogger returns the logger installed by the request id middleware, or
// builds one when the handler runs without it.
func (h *TrendsHandler) requestLogger(ctx context.Context, c *gin.Context) *zap.Logger {
	if l := logger.FromContext(ctx, nil); l != nil {
		return l
	}
	if id := utils.RequestID(c); id != "" {
		return h.logger.With(zap.String("request_id", id))
	}
	return h.logger
}

func bindAndValidate(c *gin.Context, req interface{}, reqLogger *zap.Logger) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		reqLogger.Warn("Invalid request parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request parameters",
			Error:   err.Error(),
			Code:    "INVALID_PARAMS",
		})
		return false
	}

	if t, ok := req.(interface{ trim() }); ok {
		t.trim()
	}

	if verrs := utils.ValidateStruct(req); len(verrs) > 0 {
		reqLogger.Warn("Request validation failed", zap.Any("errors", verrs))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request parameters",
			Error:   verrs[0].Message,
			Code:    "INVALID_PARAMS",
			Details: verrs,
		})
		return false
	}

	return true
}

// codeFor labels a failed lookup. Every such failure is a 500: only query
// strings rejected by the validator produce a 400.
func codeFor(err error) string {
	if errors.Is(err, weather.ErrWeatherUnavailable) {
		return "WEATHER_UNAVAILABLE"
	}
	return "AGGREGATION_ERROR"
}

func transformToTrendsResponse(result *aggregator.Result) TrendsResponse {
	response := TrendsResponse{
		Weather: toWeatherPayload(result.Weather),
		Trends:  make([]TrendPayload, 0, len(result.Trends)),
	}

	for _, item := range result.Trends {
		response.Trends = append(response.Trends, TrendPayload{
			ID:     item.ID,
			Name:   item.Name,
			Image:  item.ImageURL,
			Source: string(item.Source),
		})
	}

	return response
}

func toWeatherPayload(r weather.Reading) WeatherPayload {
	return WeatherPayload{
		Temp:        r.Temperature,
		Conditions:  r.Condition,
		Description: r.Description,
	}
}
