package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/outfit-trends/internal/imagesearch"
	"github.com/vzahanych/outfit-trends/internal/server/utils"
	"github.com/vzahanych/outfit-trends/pkg/logger"
	"go.uber.org/zap"
)

type ImageSearcher interface {
	Search(ctx context.Context, query string) ([]imagesearch.Image, error)
}

type ImagesHandler struct {
	searcher ImageSearcher
	logger   *zap.Logger
}

// NewImagesHandler accepts a nil searcher; the route then answers 503.
func NewImagesHandler(searcher ImageSearcher, logger *zap.Logger) *ImagesHandler {
	return &ImagesHandler{
		searcher: searcher,
		logger:   logger,
	}
}

func (h *ImagesHandler) Search(c *gin.Context) {
	ctx := utils.RequestContext(c)
	reqLogger := logger.FromContext(ctx, h.logger)

	if h.searcher == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Message: "Image search is disabled",
			Error:   "no image search backend is configured",
			Code:    "IMAGE_SEARCH_DISABLED",
		})
		return
	}

	var req ImageSearchRequest
	if !bindAndValidate(c, &req, reqLogger) {
		return
	}

	images, err := h.searcher.Search(ctx, req.Query)
	if err != nil {
		reqLogger.Error("Failed to fetch image search", zap.String("query", req.Query), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to fetch image search",
			Error:   err.Error(),
			Code:    "IMAGE_SEARCH_ERROR",
		})
		return
	}

	response := ImageSearchResponse{
		Query:  req.Query,
		Images: make([]ImagePayload, 0, len(images)),
	}
	for _, img := range images {
		response.Images = append(response.Images, ImagePayload(img))
	}

	c.JSON(http.StatusOK, response)
}
