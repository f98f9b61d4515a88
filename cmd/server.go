package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/vzahanych/outfit-trends/internal/aggregator"
	"github.com/vzahanych/outfit-trends/internal/config"
	"github.com/vzahanych/outfit-trends/internal/imagesearch"
	"github.com/vzahanych/outfit-trends/internal/metrics"
	"github.com/vzahanych/outfit-trends/internal/recommend"
	"github.com/vzahanych/outfit-trends/internal/server"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the outfit trends HTTP server",
	Long:  `Start the HTTP server exposing /api/fetchTrends, /weather, /recommend, /images, health checks and Prometheus metrics.`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	log.Info("Starting outfit trends server",
		zap.String("config_path", configPath),
		zap.String("environment", cfg.Environment),
		zap.Bool("telemetry_enabled", tele.IsEnabled()),
		zap.Int("server_port", cfg.Server.Port),
		zap.Strings("trend_sources", cfg.Trends.Order))

	agg, err := aggregator.NewAggregator(cfg, nil, log.Logger, tele)
	if err != nil {
		log.Error("Failed to build aggregator", zap.Error(err))
		return err
	}

	m := metrics.New()
	agg.SetMetricsRecorder(m)

	var opts []server.Option
	if cfg.Recommend.Enabled {
		claude := recommend.NewClaudeClient(cfg.Recommend, nil, log.Logger)
		opts = append(opts, server.WithRecommender(
			recommend.NewService(claude, cfg.Recommend.MaxTrends, log.Logger, tele)))
		log.Info("Outfit recommendations enabled", zap.String("model", cfg.Recommend.Model))
	}
	if cfg.ImageSearch.Enabled {
		opts = append(opts, server.WithImageSearch(
			imagesearch.NewGoogleClient(cfg.ImageSearch, nil, log.Logger, tele)))
		log.Info("Image search enabled")
	}

	srv := server.NewServer(cfg, agg, m, log.Logger, tele, opts...)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Error("Server error", zap.Error(err))
		}
		return err
	case <-cmd.Context().Done():
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
