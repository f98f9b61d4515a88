package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/outfit-trends/internal/aggregator"
	"github.com/vzahanych/outfit-trends/internal/config"
	"github.com/vzahanych/outfit-trends/internal/metrics"
	"github.com/vzahanych/outfit-trends/internal/server/handlers"
	"github.com/vzahanych/outfit-trends/internal/server/middlewares"
	"github.com/vzahanych/outfit-trends/pkg/telemetry"
	"go.uber.org/zap"
)

type Server struct {
	cfg     config.ServerConfig
	engine  *gin.Engine
	server  *http.Server
	agg     *aggregator.Aggregator
	metrics *metrics.Metrics
	logger  *zap.Logger
	tele    *telemetry.Telemetry

	recommender handlers.Recommender
	images      handlers.ImageSearcher
}

type Option func(*Server)

// WithRecommender serves /recommend. Without it the route answers 503.
func WithRecommender(rec handlers.Recommender) Option {
	return func(s *Server) {
		s.recommender = rec
	}
}

// WithImageSearch serves /images and its /gemini alias.
func WithImageSearch(searcher handlers.ImageSearcher) Option {
	return func(s *Server) {
		s.images = searcher
	}
}

func NewServer(cfg *config.Config, agg *aggregator.Aggregator, m *metrics.Metrics, logger *zap.Logger, tele *telemetry.Telemetry, opts ...Option) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(middlewares.RequestIDMiddleware(logger))
	engine.Use(middlewares.LoggingMiddleware(logger, true))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.TelemetryMiddleware(tele))
	engine.Use(middlewares.MetricsMiddleware(m))

	s := &Server{
		cfg:     cfg.Server,
		engine:  engine,
		agg:     agg,
		metrics: m,
		logger:  logger,
		tele:    tele,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	trends := handlers.NewTrendsHandler(s.agg, s.logger)
	s.engine.GET("/api/fetchTrends", trends.FetchTrends)
	s.engine.GET("/trends", trends.FetchTrends)
	s.engine.GET("/weather", trends.GetWeather)

	s.engine.GET("/recommend", handlers.NewRecommendHandler(s.agg, s.recommender, s.logger).Recommend)

	images := handlers.NewImagesHandler(s.images, s.logger)
	s.engine.GET("/images", images.Search)
	s.engine.GET("/gemini", images.Search)

	health := handlers.NewHealthHandler(s.logger, s.agg.SourceNames())
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	s.engine.GET("/metrics", handlers.NewMetricsHandler(s.metrics.Registry, s.logger).ServeMetrics)
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks until the listener fails or Shutdown is called. A clean
// shutdown returns nil.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:      s.engine,
		ReadTimeout:  seconds(s.cfg.ReadTimeout),
		WriteTimeout: seconds(s.cfg.WriteTimeout),
		IdleTimeout:  seconds(s.cfg.IdleTimeout),
	}

	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("Shutting down server")
	return s.server.Shutdown(ctx)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
