package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type MetricsHandler struct {
	logger  *zap.Logger
	handler gin.HandlerFunc
}

func NewMetricsHandler(registry *prometheus.Registry, logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{
		logger: logger,
		handler: gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{
			ErrorLog:      zap.NewStdLog(logger),
			ErrorHandling: promhttp.ContinueOnError,
		})),
	}
}

// ServeMetrics exposes the registry in the Prometheus text format.
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	h.handler(c)
}
