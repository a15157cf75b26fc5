package generator

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/utafrali/catalog-datagen/internal/domain"
	"github.com/utafrali/catalog-datagen/internal/random"
)

const (
	attributeGroupCodePrefix = "attr_gr_"
	attributeGroupLabelWords = 2
	minSortOrder             = 1
	maxSortOrder             = 10
)

// AttributeGroupGenerator generates attribute groups.
type AttributeGroupGenerator struct {
	deps Deps
}

// NewAttributeGroupGenerator creates an attribute group generator.
func NewAttributeGroupGenerator(deps Deps) *AttributeGroupGenerator {
	return &AttributeGroupGenerator{deps: deps.withDefaults()}
}

// Generate builds count attribute groups attr_gr_0..attr_gr_{count-1},
// each with a sort order in [1,10] and a two-word label per active locale.
func (g *AttributeGroupGenerator) Generate(ctx context.Context, src *random.Source, count int) ([]domain.AttributeGroup, *domain.Table, error) {
	groups := make([]domain.AttributeGroup, 0, count)
	table := &domain.Table{}

	err := g.deps.run(ctx, domain.EntityAttributeGroup, count, func(ctx context.Context, _ *slog.Logger) (int, error) {
		locales, err := g.deps.Catalog.Locales(ctx)
		if err != nil {
			return 0, err
		}
		for i := 0; i < count; i++ {
			if err := ctx.Err(); err != nil {
				return i, err
			}
			group := domain.AttributeGroup{
				Code:      attributeGroupCodePrefix + strconv.Itoa(i),
				SortOrder: src.IntBetween(minSortOrder, maxSortOrder),
				Labels:    make(domain.Labels, len(locales)),
			}
			rec := domain.NewRecord(2 + len(locales))
			rec.Set(domain.ColumnCode, group.Code)
			rec.Set(domain.ColumnSortOrder, strconv.Itoa(group.SortOrder))
			for _, l := range locales {
				label := src.Sentence(attributeGroupLabelWords)
				group.Labels[l.Code] = label
				rec.Set(domain.LabelColumn(l.Code), label)
			}
			groups = append(groups, group)
			table.Append(rec)
			g.deps.Progress.Advance(1)
		}
		return count, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return groups, table, nil
}

// IndexAttributeGroups keys groups by code.
func IndexAttributeGroups(groups []domain.AttributeGroup) map[string]domain.AttributeGroup {
	out := make(map[string]domain.AttributeGroup, len(groups))
	for _, g := range groups {
		out[g.Code] = g
	}
	return out
}
