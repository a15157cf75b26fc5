// Package attribute derives the output columns of an attribute and
// synthesizes a typed value for each of them.
package attribute

import (
	"strings"

	"github.com/utafrali/catalog-datagen/internal/domain"
)

// UnitSuffix marks the column that carries a metric's unit.
const UnitSuffix = "-unit"

// Keys returns the ordered output column keys of attr for the given active
// locales, channels and currencies.
//
// Scopable and localizable attributes expand to {code}-{locale}-{channel}
// (locale outer, channel inner); scopable-only to {code}-{channel};
// localizable-only to {code}-{locale}. Prices then cross every key with the
// currencies, and metrics emit {key} followed by {key}-unit.
func Keys(attr domain.Attribute, locales []domain.Locale, channels []domain.Channel, currencies []domain.Currency) []string {
	keys := []string{attr.Code}

	switch {
	case attr.Scopable && attr.Localizable:
		keys = make([]string, 0, len(locales)*len(channels))
		for _, l := range locales {
			for _, c := range channels {
				keys = append(keys, join(attr.Code, l.Code, c.Code))
			}
		}
	case attr.Scopable:
		keys = make([]string, 0, len(channels))
		for _, c := range channels {
			keys = append(keys, join(attr.Code, c.Code))
		}
	case attr.Localizable:
		keys = make([]string, 0, len(locales))
		for _, l := range locales {
			keys = append(keys, join(attr.Code, l.Code))
		}
	}

	switch attr.Backend {
	case domain.BackendPrices:
		priced := make([]string, 0, len(keys)*len(currencies))
		for _, k := range keys {
			for _, cur := range currencies {
				priced = append(priced, join(k, cur.Code))
			}
		}
		keys = priced
	case domain.BackendMetric:
		metric := make([]string, 0, len(keys)*2)
		for _, k := range keys {
			metric = append(metric, k, k+UnitSuffix)
		}
		keys = metric
	}

	return keys
}

// IsUnitKey reports whether key is the unit column of a metric.
func IsUnitKey(key string) bool {
	return strings.HasSuffix(key, UnitSuffix)
}

func join(parts ...string) string {
	return strings.Join(parts, "-")
}
