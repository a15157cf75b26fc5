package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/utafrali/catalog-datagen/internal/attribute"
	"github.com/utafrali/catalog-datagen/internal/catalog"
	"github.com/utafrali/catalog-datagen/internal/domain"
	"github.com/utafrali/catalog-datagen/internal/random"
	apperrors "github.com/utafrali/catalog-datagen/pkg/errors"
)

// Stage is how far a product record has been built.
type Stage int

// Build stages, in the only order a ProductBuilder applies them.
const (
	StageEmpty Stage = iota
	StageIdentifierAssigned
	StageFamilyAssigned
	StageRandomAttributesFilled
	StageMandatoryAttributesFilled
	StageCategoriesAssigned
)

var stageNames = [...]string{
	StageEmpty:                     "empty",
	StageIdentifierAssigned:        "assign identifier",
	StageFamilyAssigned:            "assign family",
	StageRandomAttributesFilled:    "fill random attributes",
	StageMandatoryAttributesFilled: "fill mandatory attributes",
	StageCategoriesAssigned:        "assign categories",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Product is a product record under construction.
type Product struct {
	Identifier string
	Family     string
	Record     *domain.Record
	Stage      Stage
}

// NewProduct returns an empty product.
func NewProduct() *Product {
	return &Product{Record: domain.NewRecord(16)}
}

// enter moves p to stage to. Stages cannot be skipped or repeated.
func (p *Product) enter(to Stage) error {
	if p.Stage != to-1 {
		return fmt.Errorf("%w: product %s: cannot %s after %s", apperrors.ErrInternal, p.Identifier, to, p.Stage)
	}
	p.Stage = to
	return nil
}

func (p *Product) fail(stage Stage, err error) error {
	return fmt.Errorf("product %s: %s: %w", p.Identifier, stage, err)
}

// ProductBuilder fills product records from a warmed catalog. It holds
// only read-only state and may be shared by workers, each with its own
// random source.
type ProductBuilder struct {
	pool           *catalog.FamilyPool
	synth          *attribute.Synthesizer
	identifierCode string
	families       []string
	categories     []string
	groups         []string
	locales        []domain.Locale
	channels       []domain.Channel
	currencies     []domain.Currency
}

// NewProductBuilder loads what it needs from cat. groups are the variant
// group codes generated earlier in the run; when non-empty every product
// gets a groups column.
func NewProductBuilder(ctx context.Context, cat *catalog.Catalog, synth *attribute.Synthesizer, groups []string) (*ProductBuilder, error) {
	b := &ProductBuilder{pool: cat.Pool(), synth: synth, groups: groups}

	var err error
	if b.identifierCode, err = cat.IdentifierCode(ctx); err != nil {
		return nil, err
	}
	if b.families, err = cat.FamilyCodes(ctx); err != nil {
		return nil, err
	}
	if b.categories, err = cat.ChildCategoryCodes(ctx); err != nil {
		return nil, err
	}
	if b.locales, err = cat.Locales(ctx); err != nil {
		return nil, err
	}
	if b.channels, err = cat.Channels(ctx); err != nil {
		return nil, err
	}
	if b.currencies, err = cat.Currencies(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// IdentifierCode returns the column the identifier is written to.
func (b *ProductBuilder) IdentifierCode() string {
	return b.identifierCode
}

// AssignIdentifier writes the identifier column, always the first one.
func (b *ProductBuilder) AssignIdentifier(p *Product, id string) error {
	p.Identifier = id
	if err := p.enter(StageIdentifierAssigned); err != nil {
		return err
	}
	p.Record.Set(b.identifierCode, id)
	return nil
}

// AssignFamily writes the family column and, when variant groups exist,
// a groups column holding one of them.
func (b *ProductBuilder) AssignFamily(p *Product, family string, src *random.Source) error {
	if err := p.enter(StageFamilyAssigned); err != nil {
		return err
	}
	p.Family = family
	p.Record.Set(domain.ColumnFamily, family)

	if len(b.groups) > 0 {
		group, err := random.PickOne(src, b.groups)
		if err != nil {
			return p.fail(StageFamilyAssigned, apperrors.WithPool(err, "variant groups"))
		}
		p.Record.Set(domain.ColumnGroups, group)
	}
	return nil
}

// FillRandomAttributes draws CountWithDeviation(base, deviation) distinct
// family attributes, clamped to the family pool, and fills every column of
// each.
func (b *ProductBuilder) FillRandomAttributes(ctx context.Context, p *Product, src *random.Source, base, deviation int) error {
	if err := p.enter(StageRandomAttributesFilled); err != nil {
		return err
	}
	count := catalog.CountWithDeviation(src, base, deviation)
	attrs, err := b.pool.RandomSubset(ctx, src, p.Family, count)
	if err != nil {
		return p.fail(StageRandomAttributesFilled, err)
	}
	for _, attr := range attrs {
		if err := b.fill(p, attr, src); err != nil {
			return p.fail(StageRandomAttributesFilled, err)
		}
	}
	return nil
}

// FillMandatoryAttributes fills the listed attributes that belong to the
// product's family. Codes outside the family are skipped.
func (b *ProductBuilder) FillMandatoryAttributes(ctx context.Context, p *Product, src *random.Source, codes []string) error {
	if err := p.enter(StageMandatoryAttributesFilled); err != nil {
		return err
	}
	for _, code := range codes {
		attr, ok, err := b.pool.Lookup(ctx, p.Family, code)
		if err != nil {
			return p.fail(StageMandatoryAttributesFilled, err)
		}
		if !ok {
			continue
		}
		if err := b.fill(p, attr, src); err != nil {
			return p.fail(StageMandatoryAttributesFilled, err)
		}
	}
	return nil
}

// AssignCategories draws count distinct non-root categories into a single
// comma-separated column.
func (b *ProductBuilder) AssignCategories(p *Product, src *random.Source, count int) error {
	if err := p.enter(StageCategoriesAssigned); err != nil {
		return err
	}
	if count > 0 && len(b.categories) == 0 {
		return p.fail(StageCategoriesAssigned, apperrors.EmptyPool("categories"))
	}
	codes, err := random.PickDistinct(src, b.categories, count)
	if err != nil {
		return p.fail(StageCategoriesAssigned, apperrors.WithPool(err, "categories"))
	}
	p.Record.Set(domain.ColumnCategories, strings.Join(codes, ","))
	return nil
}

func (b *ProductBuilder) fill(p *Product, attr domain.Attribute, src *random.Source) error {
	keys := attribute.Keys(attr, b.locales, b.channels, b.currencies)
	return b.synth.Fill(p.Record, attr, keys, src)
}

// Build runs every stage for one product of a randomly chosen family.
func (b *ProductBuilder) Build(ctx context.Context, src *random.Source, id string, opts ProductOptions) (*domain.Record, error) {
	p := NewProduct()
	if err := b.AssignIdentifier(p, id); err != nil {
		return nil, err
	}

	family, err := random.PickOne(src, b.families)
	if err != nil {
		return nil, p.fail(StageFamilyAssigned, apperrors.WithPool(err, "families"))
	}
	if err := b.AssignFamily(p, family, src); err != nil {
		return nil, err
	}
	if err := b.FillRandomAttributes(ctx, p, src, opts.ValuesNumber, opts.ValuesNumberDeviation); err != nil {
		return nil, err
	}
	if err := b.FillMandatoryAttributes(ctx, p, src, opts.MandatoryAttributes); err != nil {
		return nil, err
	}
	if err := b.AssignCategories(p, src, opts.CategoriesCount); err != nil {
		return nil, err
	}
	return p.Record, nil
}
