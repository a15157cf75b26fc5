package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/utafrali/catalog-datagen/internal/domain"
	apperrors "github.com/utafrali/catalog-datagen/pkg/errors"
)

// DefaultIdentifierCode is used when the catalog has no identifier attribute.
const DefaultIdentifierCode = "sku"

// lazy memoizes the first result of load, error included. A load cut short
// by its caller's context is not kept, so the next caller loads again.
type lazy[T any] struct {
	mu   sync.Mutex
	done bool
	val  T
	err  error
}

func (l *lazy[T]) get(ctx context.Context, load func(context.Context) (T, error)) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done {
		return l.val, l.err
	}
	val, err := load(ctx)
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return val, err
	}
	l.val, l.err, l.done = val, err, true
	return l.val, l.err
}

// Catalog is the run-scoped, lazily populated view of the reference data.
// Each collection is loaded on first use and shared read-only afterwards;
// it is safe for concurrent use.
type Catalog struct {
	loader Loader
	pool   *FamilyPool

	locales    lazy[[]domain.Locale]
	channels   lazy[[]domain.Channel]
	currencies lazy[[]domain.Currency]
	categories lazy[[]string]
	groupTypes lazy[[]domain.GroupType]
	attributes lazy[attributeIndex]
	families   lazy[familyIndex]
}

type familyIndex struct {
	codes  []string
	byCode map[string]domain.Family
}

type attributeIndex struct {
	ordered []domain.Attribute
	byCode  map[string]domain.Attribute
}

// New creates a catalog backed by loader.
func New(loader Loader) *Catalog {
	c := &Catalog{loader: loader}
	c.pool = newFamilyPool(c)
	return c
}

// Pool returns the per-family attribute pool.
func (c *Catalog) Pool() *FamilyPool {
	return c.pool
}

// Warm loads every collection up front, so that later concurrent readers
// never pay for population.
func (c *Catalog) Warm(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"locales", func(ctx context.Context) error { _, err := c.Locales(ctx); return err }},
		{"channels", func(ctx context.Context) error { _, err := c.Channels(ctx); return err }},
		{"currencies", func(ctx context.Context) error { _, err := c.Currencies(ctx); return err }},
		{"categories", func(ctx context.Context) error { _, err := c.ChildCategoryCodes(ctx); return err }},
		{"group types", func(ctx context.Context) error { _, err := c.GroupTypes(ctx); return err }},
		{"attributes", func(ctx context.Context) error { _, err := c.Attributes(ctx); return err }},
		{"families", func(ctx context.Context) error { _, err := c.FamilyCodes(ctx); return err }},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("warm %s: %w", s.name, err)
		}
	}
	return nil
}

// Locales returns the activated locales.
func (c *Catalog) Locales(ctx context.Context) ([]domain.Locale, error) {
	return c.locales.get(ctx, func(ctx context.Context) ([]domain.Locale, error) {
		all, err := c.loader.Locales(ctx)
		if err != nil {
			return nil, fmt.Errorf("load locales: %w", err)
		}
		active := make([]domain.Locale, 0, len(all))
		for _, l := range all {
			if l.Activated {
				active = append(active, l)
			}
		}
		return active, nil
	})
}

// Channels returns the activated channels.
func (c *Catalog) Channels(ctx context.Context) ([]domain.Channel, error) {
	return c.channels.get(ctx, func(ctx context.Context) ([]domain.Channel, error) {
		all, err := c.loader.Channels(ctx)
		if err != nil {
			return nil, fmt.Errorf("load channels: %w", err)
		}
		active := make([]domain.Channel, 0, len(all))
		for _, ch := range all {
			if ch.Activated {
				active = append(active, ch)
			}
		}
		return active, nil
	})
}

// Currencies returns the activated currencies.
func (c *Catalog) Currencies(ctx context.Context) ([]domain.Currency, error) {
	return c.currencies.get(ctx, func(ctx context.Context) ([]domain.Currency, error) {
		all, err := c.loader.Currencies(ctx)
		if err != nil {
			return nil, fmt.Errorf("load currencies: %w", err)
		}
		active := make([]domain.Currency, 0, len(all))
		for _, cur := range all {
			if cur.Activated {
				active = append(active, cur)
			}
		}
		return active, nil
	})
}

// ChildCategoryCodes returns the codes of non-root categories, the only
// ones products may be classified in.
func (c *Catalog) ChildCategoryCodes(ctx context.Context) ([]string, error) {
	return c.categories.get(ctx, func(ctx context.Context) ([]string, error) {
		all, err := c.loader.Categories(ctx)
		if err != nil {
			return nil, fmt.Errorf("load categories: %w", err)
		}
		codes := make([]string, 0, len(all))
		for _, cat := range all {
			if !cat.IsRoot() {
				codes = append(codes, cat.Code)
			}
		}
		return codes, nil
	})
}

// GroupTypes returns every group type.
func (c *Catalog) GroupTypes(ctx context.Context) ([]domain.GroupType, error) {
	return c.groupTypes.get(ctx, func(ctx context.Context) ([]domain.GroupType, error) {
		types, err := c.loader.GroupTypes(ctx)
		if err != nil {
			return nil, fmt.Errorf("load group types: %w", err)
		}
		return types, nil
	})
}

// VariantGroupType returns the VARIANT group type, or a
// *errors.MissingVariantGroupTypeError when the catalog has none.
func (c *Catalog) VariantGroupType(ctx context.Context) (domain.GroupType, error) {
	types, err := c.GroupTypes(ctx)
	if err != nil {
		return domain.GroupType{}, err
	}
	codes := make([]string, 0, len(types))
	for _, gt := range types {
		if gt.Code == domain.GroupTypeVariant {
			return gt, nil
		}
		codes = append(codes, gt.Code)
	}
	return domain.GroupType{}, &apperrors.MissingVariantGroupTypeError{Available: codes}
}

func (c *Catalog) attributeIndex(ctx context.Context) (attributeIndex, error) {
	return c.attributes.get(ctx, func(ctx context.Context) (attributeIndex, error) {
		all, err := c.loader.Attributes(ctx)
		if err != nil {
			return attributeIndex{}, fmt.Errorf("load attributes: %w", err)
		}
		idx := attributeIndex{ordered: all, byCode: make(map[string]domain.Attribute, len(all))}
		for _, a := range all {
			idx.byCode[a.Code] = a
		}
		return idx, nil
	})
}

// Attributes returns every attribute in catalog order.
func (c *Catalog) Attributes(ctx context.Context) ([]domain.Attribute, error) {
	idx, err := c.attributeIndex(ctx)
	if err != nil {
		return nil, err
	}
	return idx.ordered, nil
}

// Attribute returns the attribute with the given code.
func (c *Catalog) Attribute(ctx context.Context, code string) (domain.Attribute, error) {
	idx, err := c.attributeIndex(ctx)
	if err != nil {
		return domain.Attribute{}, err
	}
	a, ok := idx.byCode[code]
	if !ok {
		return domain.Attribute{}, apperrors.NotFound("attribute", code)
	}
	return a, nil
}

// IdentifierCode returns the code of the identifier attribute, or
// DefaultIdentifierCode when there is none.
func (c *Catalog) IdentifierCode(ctx context.Context) (string, error) {
	all, err := c.Attributes(ctx)
	if err != nil {
		return "", err
	}
	for _, a := range all {
		if a.IsIdentifier() {
			return a.Code, nil
		}
	}
	return DefaultIdentifierCode, nil
}

func (c *Catalog) familyIndex(ctx context.Context) (familyIndex, error) {
	return c.families.get(ctx, func(ctx context.Context) (familyIndex, error) {
		all, err := c.loader.Families(ctx)
		if err != nil {
			return familyIndex{}, fmt.Errorf("load families: %w", err)
		}
		idx := familyIndex{codes: make([]string, 0, len(all)), byCode: make(map[string]domain.Family, len(all))}
		for _, f := range all {
			if _, dup := idx.byCode[f.Code]; !dup {
				idx.codes = append(idx.codes, f.Code)
			}
			idx.byCode[f.Code] = f
		}
		return idx, nil
	})
}

// Family returns the family with the given code.
func (c *Catalog) Family(ctx context.Context, code string) (domain.Family, error) {
	idx, err := c.familyIndex(ctx)
	if err != nil {
		return domain.Family{}, err
	}
	f, ok := idx.byCode[code]
	if !ok {
		return domain.Family{}, apperrors.NotFound("family", code)
	}
	return f, nil
}

// FamilyCodes returns the family codes in load order.
func (c *Catalog) FamilyCodes(ctx context.Context) ([]string, error) {
	idx, err := c.familyIndex(ctx)
	if err != nil {
		return nil, err
	}
	return idx.codes, nil
}
