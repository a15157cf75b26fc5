package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/utafrali/catalog-datagen/internal/config"
	"github.com/utafrali/catalog-datagen/internal/domain"
	"github.com/utafrali/catalog-datagen/internal/event"
	"github.com/utafrali/catalog-datagen/internal/generator"
	"github.com/utafrali/catalog-datagen/internal/random"
	"github.com/utafrali/catalog-datagen/internal/writer"
	"github.com/utafrali/catalog-datagen/pkg/logger"
	"github.com/utafrali/catalog-datagen/pkg/tracing"
)

const tracerName = "github.com/utafrali/catalog-datagen/internal/app"

// Generate runs every generator the plan enables, in dependency order:
// attribute groups, variant groups, then products, which may reference the
// variant groups of the same run. Each generator starts from a fresh source
// on the run seed, so enabling one entity never shifts another's output.
func (a *App) Generate(ctx context.Context) (err error) {
	ctx = logger.WithRunID(ctx, a.runID)
	log := logger.WithContext(ctx, a.logger)
	ctx = logger.NewContext(ctx, log)

	ctx, end := tracing.Start(ctx, tracerName, "datagen.run", attribute.String("datagen.run_id", a.runID))
	defer func() { end(err) }()

	a.health.Start(a.runID)
	defer func() { a.health.Finish(err) }()

	seed, ok, err := a.plan.ResolveSeed(a.cfg)
	if err != nil {
		return err
	}
	var seedPtr *int64
	if ok {
		seedPtr = &seed
	}
	base := random.New(seedPtr)

	started := time.Now()
	reference := a.plan.ResolveReference(started)
	log.InfoContext(ctx, "generation run started",
		slog.Int64("seed", base.Seed()),
		slog.String("reference_date", reference.Format(config.ReferenceDateLayout)),
		slog.String("catalog_source", a.cfg.CatalogSource),
		slog.Int("workers", a.cfg.Workers),
	)

	if a.plan.Empty() {
		log.WarnContext(ctx, "generation plan enables no entity")
		return nil
	}

	if err := a.catalog.Warm(ctx); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	deps := generator.Deps{
		Catalog:  a.catalog,
		Logger:   a.logger,
		Metrics:  a.recorder,
		Progress: a.progress,
	}
	entities := a.plan.Entities

	if ag := entities.AttributeGroups; ag != nil {
		a.health.SetGenerator(domain.EntityAttributeGroup)
		_, table, err := generator.NewAttributeGroupGenerator(deps).Generate(ctx, base.Derive(0), ag.Count)
		if err != nil {
			return err
		}
		if err := a.emit(ctx, domain.EntityAttributeGroup, writer.AttributeGroupsFile, ag.Delimiter, table); err != nil {
			return err
		}
	}

	var groupCodes []string
	if vg := entities.VariantGroups; vg != nil {
		a.health.SetGenerator(domain.EntityVariantGroup)
		groups, table, err := generator.NewVariantGroupGenerator(deps).Generate(ctx, base.Derive(0), generator.VariantGroupOptions{
			Count:           vg.Count,
			AxesCount:       vg.AxesCount,
			AttributesCount: vg.AttributesCount,
			DistinctScope:   generator.DistinctScope(vg.DistinctScope),
		})
		if err != nil {
			return err
		}
		groupCodes = generator.Codes(groups)
		if err := a.emit(ctx, domain.EntityVariantGroup, writer.VariantGroupsFile, vg.Delimiter, table); err != nil {
			return err
		}
	}

	if p := entities.Products; p != nil {
		a.health.SetGenerator(domain.EntityProduct)
		start := p.StartIndex
		if p.Count > 0 {
			if start, err = a.allocator.Reserve(ctx, p.Count); err != nil {
				return fmt.Errorf("reserve product identifiers: %w", err)
			}
		}
		table, err := generator.NewProductGenerator(deps).Generate(ctx, base.Derive(0), generator.ProductOptions{
			Count:                 p.Count,
			StartIndex:            start,
			IdentifierPrefix:      p.IdentifierPrefix,
			ValuesNumber:          p.ValuesNumber,
			ValuesNumberDeviation: p.ValuesNumberDeviation,
			CategoriesCount:       p.CategoriesCount,
			MandatoryAttributes:   p.MandatoryAttributes,
			ForceValues:           p.ForceValue,
			Workers:               a.cfg.Workers,
			Reference:             reference,
		}, groupCodes)
		if err != nil {
			return err
		}
		filename := p.Filename
		if filename == "" {
			filename = writer.ProductsFile
		}
		if err := a.emit(ctx, domain.EntityProduct, filename, p.Delimiter, table); err != nil {
			return err
		}
	}

	report := a.health.Report()
	log.InfoContext(ctx, "generation run finished",
		slog.Any("generated", report.Generated),
		slog.Duration("duration", time.Since(started)),
	)
	return nil
}

// emit writes table to filename and, when publishing is enabled, publishes
// its records. A publishing failure is logged and does not fail the run.
func (a *App) emit(ctx context.Context, entity, filename, delimiter string, table *domain.Table) error {
	log := logger.FromContext(ctx)

	path, err := a.writer.WriteTable(filename, table, writer.ParseDelimiter(delimiter))
	if err != nil {
		return fmt.Errorf("write %s records: %w", entity, err)
	}
	a.health.Generated(entity, table.Len())
	log.InfoContext(ctx, "records written",
		slog.String("entity", entity),
		slog.String("path", path),
		slog.Int("count", table.Len()),
	)

	if a.publisher == nil {
		return nil
	}
	n, err := a.publisher.PublishTable(ctx, entity, table)
	if err != nil {
		log.WarnContext(ctx, "record publishing failed",
			slog.String("entity", entity),
			slog.Int("published", n),
			slog.Int("total", table.Len()),
			slog.String("error", err.Error()),
		)
		return nil
	}
	log.InfoContext(ctx, "records published",
		slog.String("entity", entity),
		slog.String("topic", event.Topic(entity)),
		slog.Int("count", n),
	)
	return nil
}
