// Package catalog holds the reference data a generation run draws from:
// locales, channels, currencies, categories, group types, attributes and
// families. Loaders fetch it; Catalog caches it for the lifetime of a run.
package catalog

import (
	"context"

	"github.com/utafrali/catalog-datagen/internal/domain"
)

// Loader fetches raw reference collections. Implementations need not cache;
// Catalog calls each method once per run, again only after a cancelled call.
type Loader interface {
	Locales(ctx context.Context) ([]domain.Locale, error)
	Channels(ctx context.Context) ([]domain.Channel, error)
	Currencies(ctx context.Context) ([]domain.Currency, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	GroupTypes(ctx context.Context) ([]domain.GroupType, error)
	Attributes(ctx context.Context) ([]domain.Attribute, error)
	Families(ctx context.Context) ([]domain.Family, error)
}

// Data is a fully materialized catalog.
type Data struct {
	Locales    []domain.Locale
	Channels   []domain.Channel
	Currencies []domain.Currency
	Categories []domain.Category
	GroupTypes []domain.GroupType
	Attributes []domain.Attribute
	Families   []domain.Family
}

// StaticLoader serves an in-memory Data.
type StaticLoader struct {
	Data Data
}

func (l *StaticLoader) Locales(context.Context) ([]domain.Locale, error) { return l.Data.Locales, nil }

func (l *StaticLoader) Channels(context.Context) ([]domain.Channel, error) {
	return l.Data.Channels, nil
}

func (l *StaticLoader) Currencies(context.Context) ([]domain.Currency, error) {
	return l.Data.Currencies, nil
}

func (l *StaticLoader) Categories(context.Context) ([]domain.Category, error) {
	return l.Data.Categories, nil
}

func (l *StaticLoader) GroupTypes(context.Context) ([]domain.GroupType, error) {
	return l.Data.GroupTypes, nil
}

func (l *StaticLoader) Attributes(context.Context) ([]domain.Attribute, error) {
	return l.Data.Attributes, nil
}

func (l *StaticLoader) Families(context.Context) ([]domain.Family, error) {
	return l.Data.Families, nil
}
