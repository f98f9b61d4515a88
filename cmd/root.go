package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vzahanych/outfit-trends/internal/config"
	"github.com/vzahanych/outfit-trends/pkg/logger"
	"github.com/vzahanych/outfit-trends/pkg/telemetry"
	"go.uber.org/zap"
)

var (
	configPath string
	log        *logger.Logger
	tele       *telemetry.Telemetry
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outfit-trends",
		Short: "Weather-aware fashion trends service",
		Long:  `Combines current weather for a location with trending fashion items from Pinterest and TikTok, keeping only items that suit the temperature.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeServices(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return shutdownServices()
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default: ./config.yaml)")
	cmd.AddCommand(serverCmd)

	return cmd
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd().ExecuteContext(ctx)
}

func initializeServices(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Kept in an atomic so it can be swapped at runtime.
	config.SetConfig(cfg)

	log, err = logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	tele, err = telemetry.New(ctx, cfg.Telemetry, cfg.Version)
	if err != nil {
		// Tracing is optional; keep serving without it.
		log.Warn("Failed to initialize telemetry", zap.Error(err))
		tele = nil
	}

	return nil
}

func shutdownServices() error {
	if err := tele.Shutdown(context.Background()); err != nil && log != nil {
		log.Warn("Failed to shut down telemetry", zap.Error(err))
	}
	if log != nil {
		_ = log.Sync()
	}
	return nil
}
