package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthHandler struct {
	logger    *zap.Logger
	startTime time.Time
	sources   []string
}

// NewHealthHandler reports sources, the trend sources wired at startup, on
// readiness.
func NewHealthHandler(logger *zap.Logger, sources []string) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		startTime: time.Now(),
		sources:   sources,
	}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).String(),
	})
}

// Readiness reports degraded when no trend source is enabled: the service
// still answers, but every trends list will be empty.
func (h *HealthHandler) Readiness(c *gin.Context) {
	status := "ready"
	if len(h.sources) == 0 {
		status = "degraded"
		h.logger.Warn("Readiness check with no trend sources enabled")
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:  status,
		Uptime:  time.Since(h.startTime).String(),
		Sources: h.sources,
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
