// Command server runs the translation API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arlo-hs/lingopipe/infrastructure/metrics"
	"github.com/arlo-hs/lingopipe/internal/config"
	"github.com/arlo-hs/lingopipe/internal/easy"
	"github.com/arlo-hs/lingopipe/internal/engine"
	"github.com/arlo-hs/lingopipe/internal/server"
	"github.com/arlo-hs/lingopipe/internal/specmode"
	"github.com/arlo-hs/lingopipe/internal/vibe"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "lingopipe",
		Short: "Multi-engine LLM translation API",
		Long: `lingopipe serves three translation modes over HTTP: easy (single
engine), vibe (multi-engine fan-out with judge scoring and synthesis,
blocking or streamed), and spec (blueprint-guided translation).

Engine credentials arrive per request in headers; the server holds none.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
		SilenceUsage: true,
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := buildLogger(settings.Debug)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	registry, err := engine.NewRegistry()
	if err != nil {
		return fmt.Errorf("load engine registry: %w", err)
	}

	factory := engine.NewFactory(engine.Options{
		RequestTimeout: settings.RequestTimeout,
		MaxRetries:     settings.MaxRetries,
		RetryBaseDelay: settings.RetryBaseDelay,
		RetryMaxDelay:  settings.RetryMaxDelay,
		RateLimit:      settings.RateLimit,
		RateBurst:      settings.RateBurst,
		Metrics:        metrics.NewPrometheusMetrics(),
		Logger:         logger,
	})

	srv := server.New(settings, logger,
		easy.NewService(factory, logger),
		vibe.NewService(factory, logger),
		specmode.NewService(factory, logger),
		registry,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
