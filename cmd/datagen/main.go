package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/utafrali/catalog-datagen/internal/app"
	"github.com/utafrali/catalog-datagen/internal/config"
	apperrors "github.com/utafrali/catalog-datagen/pkg/errors"
	"github.com/utafrali/catalog-datagen/pkg/logger"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(apperrors.ExitInvalidInput)
	}

	log := logger.New(app.ServiceName, cfg.LogLevel)
	log.Info("starting catalog data generator",
		slog.String("environment", cfg.Environment),
		slog.String("plan", cfg.PlanFile),
		slog.String("catalog_source", cfg.CatalogSource),
	)

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(apperrors.ExitCode(err))
	}

	// Cancel the run on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := application.Run(ctx); err != nil {
		log.Error("generation failed",
			slog.String("error", err.Error()),
			slog.String("kind", apperrors.Kind(err)),
			slog.String("severity", apperrors.SeverityOf(err).String()),
		)
		cancel()
		os.Exit(apperrors.ExitCode(err))
	}

	log.Info("catalog data generator stopped")
}
