package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/outfit-trends/internal/recommend"
	"github.com/vzahanych/outfit-trends/internal/server/utils"
	"github.com/vzahanych/outfit-trends/internal/trends"
	"github.com/vzahanych/outfit-trends/internal/weather"
	"github.com/vzahanych/outfit-trends/pkg/logger"
	"go.uber.org/zap"
)

// Recommender is implemented by recommend.Service.
type Recommender interface {
	Recommend(ctx context.Context, location string, reading weather.Reading, units weather.Units, items []trends.Item) ([]recommend.Outfit, error)
}

type RecommendHandler struct {
	aggregator  TrendAggregator
	recommender Recommender
	logger      *zap.Logger
}

// NewRecommendHandler accepts a nil recommender; the route then answers 503.
func NewRecommendHandler(agg TrendAggregator, rec Recommender, logger *zap.Logger) *RecommendHandler {
	return &RecommendHandler{
		aggregator:  agg,
		recommender: rec,
		logger:      logger,
	}
}

func (h *RecommendHandler) Recommend(c *gin.Context) {
	ctx := utils.RequestContext(c)
	reqLogger := logger.FromContext(ctx, h.logger)

	if h.recommender == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Message: "Recommendations are disabled",
			Error:   "no outfit generator is configured",
			Code:    "RECOMMENDATIONS_DISABLED",
		})
		return
	}

	var req TrendsRequest
	if !bindAndValidate(c, &req, reqLogger) {
		return
	}

	result, err := h.aggregator.FetchTrends(ctx, req.ResolvedLocation())
	if err != nil {
		reqLogger.Error("Failed to fetch trends for recommendations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to generate recommendations",
			Error:   err.Error(),
			Code:    codeFor(err),
		})
		return
	}

	outfits, err := h.recommender.Recommend(ctx, result.Location, result.Weather, h.aggregator.Units(), result.Trends)
	if err != nil {
		reqLogger.Error("Failed to generate recommendations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to generate recommendations",
			Error:   err.Error(),
			Code:    "RECOMMENDATION_ERROR",
		})
		return
	}

	response := RecommendResponse{
		Location: result.Location,
		Weather:  toWeatherPayload(result.Weather),
		Outfits:  make([]OutfitPayload, 0, len(outfits)),
	}
	for _, o := range outfits {
		response.Outfits = append(response.Outfits, OutfitPayload{
			Name:          o.Name,
			Description:   o.Description,
			StyleKeywords: o.StyleKeywords,
		})
	}

	reqLogger.Info("Recommendations generated",
		zap.String("location", result.Location),
		zap.Int("trends_count", len(result.Trends)),
		zap.Int("outfits_count", len(response.Outfits)))

	c.JSON(http.StatusOK, response)
}
