package generator

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/utafrali/catalog-datagen/internal/attribute"
	"github.com/utafrali/catalog-datagen/internal/domain"
	"github.com/utafrali/catalog-datagen/internal/random"
)

// DefaultIdentifierPrefix prefixes generated product identifiers.
const DefaultIdentifierPrefix = "id-"

// ProductOptions tune product generation.
type ProductOptions struct {
	Count                 int
	StartIndex            int
	IdentifierPrefix      string
	ValuesNumber          int
	ValuesNumberDeviation int
	CategoriesCount       int
	MandatoryAttributes   []string
	ForceValues           []string
	// Workers > 1 shards the run; worker w draws from Seed()+w.
	Workers int
	// Reference anchors date values without bounds. Zero means now.
	Reference time.Time
}

// ProductGenerator generates product records.
type ProductGenerator struct {
	deps Deps
}

// NewProductGenerator creates a product generator.
func NewProductGenerator(deps Deps) *ProductGenerator {
	return &ProductGenerator{deps: deps.withDefaults()}
}

// Generate builds opts.Count products with identifiers
// {prefix}{StartIndex+i}. groups are the variant group codes of the run,
// possibly none.
func (g *ProductGenerator) Generate(ctx context.Context, src *random.Source, opts ProductOptions, groups []string) (*domain.Table, error) {
	if opts.IdentifierPrefix == "" {
		opts.IdentifierPrefix = DefaultIdentifierPrefix
	}
	records := make([]*domain.Record, opts.Count)

	err := g.deps.run(ctx, domain.EntityProduct, opts.Count, func(ctx context.Context, log *slog.Logger) (int, error) {
		synth := &attribute.Synthesizer{
			Forced:    attribute.ParseForced(opts.ForceValues),
			Reference: opts.Reference,
		}
		builder, err := NewProductBuilder(ctx, g.deps.Catalog, synth, groups)
		if err != nil {
			return 0, err
		}

		workers := opts.Workers
		if workers < 1 {
			workers = 1
		}
		if workers > opts.Count {
			workers = max(opts.Count, 1)
		}
		if workers == 1 {
			return g.shard(ctx, log, builder, src, opts, records, 0, opts.Count)
		}

		counts := make([]int, workers)
		eg, egCtx := errgroup.WithContext(ctx)
		per, rest := opts.Count/workers, opts.Count%workers
		lo := 0
		for w := 0; w < workers; w++ {
			n := per
			if w < rest {
				n++
			}
			from, to := lo, lo+n
			lo = to
			eg.Go(func() error {
				var err error
				counts[w], err = g.shard(egCtx, log.With(slog.Int("worker", w)), builder, src.Derive(int64(w)), opts, records, from, to)
				return err
			})
		}
		err = eg.Wait()
		total := 0
		for _, c := range counts {
			total += c
		}
		return total, err
	})
	if err != nil {
		return nil, err
	}

	table := &domain.Table{}
	table.Append(records...)
	return table, nil
}

// shard builds records[from:to] with src.
func (g *ProductGenerator) shard(ctx context.Context, log *slog.Logger, b *ProductBuilder, src *random.Source,
	opts ProductOptions, records []*domain.Record, from, to int) (int, error) {
	for i := from; i < to; i++ {
		if err := ctx.Err(); err != nil {
			return i - from, err
		}
		id := opts.IdentifierPrefix + strconv.Itoa(opts.StartIndex+i)
		rec, err := b.Build(ctx, src, id, opts)
		if err != nil {
			return i - from, err
		}
		records[i] = rec
		g.deps.Progress.Advance(1)
		log.DebugContext(ctx, "product built",
			slog.String("identifier", id),
			slog.Int("columns", rec.Len()),
		)
	}
	return to - from, nil
}
