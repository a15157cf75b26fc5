package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/utafrali/catalog-datagen/internal/catalog"
	"github.com/utafrali/catalog-datagen/internal/domain"
	"github.com/utafrali/catalog-datagen/internal/random"
	apperrors "github.com/utafrali/catalog-datagen/pkg/errors"
)

// DistinctScope says how far axis and template attribute picks must be
// distinct.
type DistinctScope string

const (
	// DistinctScopeGroup keeps picks distinct within one group; different
	// groups may share attributes.
	DistinctScopeGroup DistinctScope = "group"
	// DistinctScopeRun never hands the same attribute to two groups of a run.
	DistinctScopeRun DistinctScope = "run"
)

// Offsets of the axis and template sources from the global seed.
const (
	axisSeedOffset     = 1
	templateSeedOffset = 2
)

const (
	templateWords    = 3
	axisPoolName     = "attributes for variant group axes"
	templatePoolName = "attributes for variant group templates"
)

// VariantGroupOptions tune variant group generation.
type VariantGroupOptions struct {
	Count           int
	AxesCount       int
	AttributesCount int
	DistinctScope   DistinctScope
}

type candidates struct {
	name      string
	remaining []domain.Attribute
}

// VariantGroupBuilder assembles variant groups. Axis and template
// attributes come from their own sources, so the sequence of picks only
// depends on the seed; labels and template text come from the main source.
type VariantGroupBuilder struct {
	groupType   domain.GroupType
	locales     []domain.Locale
	scope       DistinctScope
	axes        candidates
	templates   candidates
	axisSrc     *random.Source
	templateSrc *random.Source
}

// NewVariantGroupBuilder checks that the catalog has a VARIANT group type
// and computes the axis and template candidates.
func NewVariantGroupBuilder(ctx context.Context, cat *catalog.Catalog, seed int64, scope DistinctScope) (*VariantGroupBuilder, error) {
	groupType, err := cat.VariantGroupType(ctx)
	if err != nil {
		return nil, err
	}
	locales, err := cat.Locales(ctx)
	if err != nil {
		return nil, err
	}
	attrs, err := cat.Attributes(ctx)
	if err != nil {
		return nil, err
	}
	if scope == "" {
		scope = DistinctScopeGroup
	}

	b := &VariantGroupBuilder{
		groupType:   groupType,
		locales:     locales,
		scope:       scope,
		axes:        candidates{name: axisPoolName},
		templates:   candidates{name: templatePoolName},
		axisSrc:     random.NewSeeded(seed + axisSeedOffset),
		templateSrc: random.NewSeeded(seed + templateSeedOffset),
	}
	for _, a := range attrs {
		switch {
		case a.IsAxisCandidate():
			b.axes.remaining = append(b.axes.remaining, a)
		case a.IsTemplateCandidate():
			b.templates.remaining = append(b.templates.remaining, a)
		}
	}
	return b, nil
}

// draw picks k distinct attributes from c. Under DistinctScopeRun the
// picked attributes leave the pool.
func (b *VariantGroupBuilder) draw(c *candidates, src *random.Source, k int) ([]domain.Attribute, error) {
	picked, err := random.PickDistinct(src, c.remaining, k)
	if err != nil {
		return nil, apperrors.WithPool(err, c.name)
	}
	if b.scope == DistinctScopeRun && len(picked) > 0 {
		used := make(map[string]struct{}, len(picked))
		for _, a := range picked {
			used[a.Code] = struct{}{}
		}
		kept := c.remaining[:0:0]
		for _, a := range c.remaining {
			if _, ok := used[a.Code]; !ok {
				kept = append(kept, a)
			}
		}
		c.remaining = kept
	}
	return picked, nil
}

// Build assembles group i and its flattened record.
func (b *VariantGroupBuilder) Build(i int, src *random.Source, opts VariantGroupOptions) (domain.VariantGroup, *domain.Record, error) {
	group := domain.VariantGroup{
		Code:   fmt.Sprintf("variant_group_%d", i),
		Type:   b.groupType.Code,
		Labels: make(domain.Labels, len(b.locales)),
	}

	axes, err := b.draw(&b.axes, b.axisSrc, opts.AxesCount)
	if err != nil {
		return group, nil, fmt.Errorf("variant group %s: %w", group.Code, err)
	}
	group.Axes = axes

	templateAttrs, err := b.draw(&b.templates, b.templateSrc, opts.AttributesCount)
	if err != nil {
		return group, nil, fmt.Errorf("variant group %s: %w", group.Code, err)
	}
	for _, a := range templateAttrs {
		group.Template.Set(a.Code, strings.Join(src.Words(templateWords), " "))
	}

	for _, l := range b.locales {
		group.Labels[l.Code] = src.Word()
	}

	return group, b.flatten(group), nil
}

func (b *VariantGroupBuilder) flatten(g domain.VariantGroup) *domain.Record {
	rec := domain.NewRecord(3 + len(b.locales) + len(g.Template.Codes))
	rec.Set(domain.ColumnCode, g.Code)
	rec.Set(domain.ColumnAxis, strings.Join(g.AxisCodes(), ","))
	rec.Set(domain.ColumnType, g.Type)
	for _, l := range b.locales {
		rec.Set(domain.LabelColumn(l.Code), g.Labels[l.Code])
	}
	for _, code := range g.Template.Codes {
		rec.Set(code, g.Template.Values[code])
	}
	return rec
}

// VariantGroupGenerator generates variant groups.
type VariantGroupGenerator struct {
	deps Deps
}

// NewVariantGroupGenerator creates a variant group generator.
func NewVariantGroupGenerator(deps Deps) *VariantGroupGenerator {
	return &VariantGroupGenerator{deps: deps.withDefaults()}
}

// Generate builds opts.Count variant groups. The VARIANT group type is
// checked before any group is built.
func (g *VariantGroupGenerator) Generate(ctx context.Context, src *random.Source, opts VariantGroupOptions) ([]domain.VariantGroup, *domain.Table, error) {
	groups := make([]domain.VariantGroup, 0, opts.Count)
	table := &domain.Table{}

	err := g.deps.run(ctx, domain.EntityVariantGroup, opts.Count, func(ctx context.Context, log *slog.Logger) (int, error) {
		builder, err := NewVariantGroupBuilder(ctx, g.deps.Catalog, src.Seed(), opts.DistinctScope)
		if err != nil {
			return 0, err
		}
		log.DebugContext(ctx, "variant group candidates",
			slog.Int("axes", len(builder.axes.remaining)),
			slog.Int("templates", len(builder.templates.remaining)),
			slog.String("distinct_scope", string(builder.scope)),
		)

		for i := 0; i < opts.Count; i++ {
			if err := ctx.Err(); err != nil {
				return i, err
			}
			group, rec, err := builder.Build(i, src, opts)
			if err != nil {
				return i, err
			}
			groups = append(groups, group)
			table.Append(rec)
			g.deps.Progress.Advance(1)
		}
		return opts.Count, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return groups, table, nil
}

// Codes returns the codes of groups, in order.
func Codes(groups []domain.VariantGroup) []string {
	codes := make([]string, len(groups))
	for i, g := range groups {
		codes[i] = g.Code
	}
	return codes
}
