package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/utafrali/catalog-datagen/internal/domain"
	"github.com/utafrali/catalog-datagen/internal/random"
	apperrors "github.com/utafrali/catalog-datagen/pkg/errors"
)

// UseFullPool is returned by CountWithDeviation when no base count is
// configured: callers take every attribute of the family.
const UseFullPool = -1

type familyAttributes struct {
	ordered []domain.Attribute
	byCode  map[string]domain.Attribute
}

// FamilyPool caches, per family, the attributes eligible for random fill:
// every family attribute except the identifier, matched by type or by the
// catalog's identifier code.
type FamilyPool struct {
	catalog *Catalog

	mu    sync.Mutex
	pools map[string]*familyAttributes
}

func newFamilyPool(c *Catalog) *FamilyPool {
	return &FamilyPool{catalog: c, pools: make(map[string]*familyAttributes)}
}

func (p *FamilyPool) get(ctx context.Context, family string) (*familyAttributes, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if fa, ok := p.pools[family]; ok {
		return fa, nil
	}

	f, err := p.catalog.Family(ctx, family)
	if err != nil {
		return nil, err
	}
	identifier, err := p.catalog.IdentifierCode(ctx)
	if err != nil {
		return nil, err
	}
	fa := &familyAttributes{
		ordered: make([]domain.Attribute, 0, len(f.Attributes)),
		byCode:  make(map[string]domain.Attribute, len(f.Attributes)),
	}
	for _, code := range f.Attributes {
		attr, err := p.catalog.Attribute(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("family %s: %w", family, err)
		}
		if attr.IsIdentifier() || code == identifier {
			continue
		}
		if _, dup := fa.byCode[code]; dup {
			continue
		}
		fa.ordered = append(fa.ordered, attr)
		fa.byCode[code] = attr
	}
	p.pools[family] = fa
	return fa, nil
}

// AttributesOf returns the eligible attributes of family in family order.
func (p *FamilyPool) AttributesOf(ctx context.Context, family string) ([]domain.Attribute, error) {
	fa, err := p.get(ctx, family)
	if err != nil {
		return nil, err
	}
	return fa.ordered, nil
}

// Lookup returns the eligible attribute code of family, if present.
func (p *FamilyPool) Lookup(ctx context.Context, family, code string) (domain.Attribute, bool, error) {
	fa, err := p.get(ctx, family)
	if err != nil {
		return domain.Attribute{}, false, err
	}
	attr, ok := fa.byCode[code]
	return attr, ok, nil
}

// RandomSubset draws count distinct attributes of family. count is clamped
// to the pool size; UseFullPool returns the whole pool in family order.
func (p *FamilyPool) RandomSubset(ctx context.Context, src *random.Source, family string, count int) ([]domain.Attribute, error) {
	fa, err := p.get(ctx, family)
	if err != nil {
		return nil, err
	}
	if count == UseFullPool {
		out := make([]domain.Attribute, len(fa.ordered))
		copy(out, fa.ordered)
		return out, nil
	}
	if count > len(fa.ordered) {
		count = len(fa.ordered)
	}
	attrs, err := random.PickDistinct(src, fa.ordered, count)
	if err != nil {
		return nil, apperrors.WithPool(err, "attributes of family "+family)
	}
	return attrs, nil
}

// CountWithDeviation returns how many random attributes to draw. With a
// positive base and deviation it draws from base ± round(deviation/2),
// never below zero; with no deviation it returns base. A non-positive base
// returns UseFullPool.
func CountWithDeviation(src *random.Source, base, deviation int) int {
	if base <= 0 {
		return UseFullPool
	}
	if deviation <= 0 {
		return base
	}
	half := (deviation + 1) / 2
	lo := base - half
	if lo < 0 {
		lo = 0
	}
	return src.IntBetween(lo, base+half)
}
