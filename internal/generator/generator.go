// Package generator builds fake catalog records: products, variant groups
// and attribute groups.
package generator

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/utafrali/catalog-datagen/internal/catalog"
	"github.com/utafrali/catalog-datagen/internal/metrics"
	"github.com/utafrali/catalog-datagen/internal/progress"
	apperrors "github.com/utafrali/catalog-datagen/pkg/errors"
	"github.com/utafrali/catalog-datagen/pkg/logger"
	"github.com/utafrali/catalog-datagen/pkg/tracing"
)

const tracerName = "github.com/utafrali/catalog-datagen/internal/generator"

// Deps are the collaborators shared by every generator. Only Catalog is
// required.
type Deps struct {
	Catalog  *catalog.Catalog
	Logger   *slog.Logger
	Metrics  *metrics.Recorder
	Progress progress.Reporter
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Progress == nil {
		d.Progress = progress.Nop{}
	}
	return d
}

// run wraps one generator pass in a span, progress bar, metrics and
// start/finish logs. fn returns the number of records it produced.
func (d Deps) run(ctx context.Context, entity string, total int, fn func(ctx context.Context, log *slog.Logger) (int, error)) (err error) {
	ctx = logger.WithGenerator(ctx, entity)
	ctx, end := tracing.Start(ctx, tracerName, entity+".generate",
		attribute.String("datagen.entity", entity),
		attribute.Int("datagen.count", total),
	)
	defer func() { end(err) }()

	log := logger.WithContext(ctx, d.Logger)
	log.InfoContext(ctx, "generation started", slog.Int("count", total))

	start := time.Now()
	d.Progress.Start(entity, total)
	n, err := fn(ctx, log)
	d.Progress.Finish()
	d.Metrics.ObserveDuration(entity, time.Since(start))
	d.Metrics.Generated(entity, n)

	if err != nil {
		d.Metrics.Failed(entity, err)
		log.ErrorContext(ctx, "generation failed",
			slog.Int("generated", n),
			slog.String("severity", apperrors.SeverityOf(err).String()),
			slog.String("error", err.Error()),
		)
		return err
	}

	log.InfoContext(ctx, "generation finished",
		slog.Int("generated", n),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}
