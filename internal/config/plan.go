package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/catalog-datagen/pkg/config"
	apperrors "github.com/utafrali/catalog-datagen/pkg/errors"
	"github.com/utafrali/catalog-datagen/pkg/validator"
)

// DefaultOutputDir is used when neither the environment nor the plan name
// an output directory.
const DefaultOutputDir = "output"

// ReferenceDateLayout is the layout of the plan's reference_date.
const ReferenceDateLayout = "2006-01-02"

// Plan is the YAML generation plan: the global seed, output directory and
// reference date plus one optional section per entity. A nil section is not
// generated.
type Plan struct {
	Seed      *int64 `yaml:"seed"`
	OutputDir string `yaml:"output_dir"`
	// ReferenceDate anchors date values without bounds.
	ReferenceDate string   `yaml:"reference_date" validate:"omitempty,datetime=2006-01-02"`
	Entities      Entities `yaml:"entities"`
}

// Entities holds the per-entity sections of a plan.
type Entities struct {
	AttributeGroups *AttributeGroupsPlan `yaml:"attribute_groups"`
	VariantGroups   *VariantGroupsPlan   `yaml:"variant_groups"`
	Products        *ProductsPlan        `yaml:"products"`
}

// ProductsPlan tunes the product generator.
type ProductsPlan struct {
	Count                 int      `yaml:"count" validate:"gte=0"`
	Filename              string   `yaml:"filename" validate:"omitempty,excludes=/"`
	ValuesNumber          int      `yaml:"values_number" validate:"gte=0"`
	ValuesNumberDeviation int      `yaml:"values_number_deviation" validate:"gte=0"`
	StartIndex            int      `yaml:"start_index" validate:"gte=0"`
	CategoriesCount       int      `yaml:"categories_count" validate:"gte=0"`
	MandatoryAttributes   []string `yaml:"mandatory_attributes" validate:"dive,required"`
	ForceValue            []string `yaml:"force_value" validate:"dive,forcevalue"`
	Delimiter             string   `yaml:"delimiter" validate:"omitempty,delimiter"`
	IdentifierPrefix      string   `yaml:"identifier_prefix"`
}

// VariantGroupsPlan tunes the variant group generator.
type VariantGroupsPlan struct {
	Count           int    `yaml:"count" validate:"gte=0"`
	AxesCount       int    `yaml:"axes_count" validate:"gte=0"`
	AttributesCount int    `yaml:"attributes_count" validate:"gte=0"`
	DistinctScope   string `yaml:"distinct_scope" validate:"omitempty,oneof=group run"`
	Delimiter       string `yaml:"delimiter" validate:"omitempty,delimiter"`
}

// AttributeGroupsPlan tunes the attribute group generator.
type AttributeGroupsPlan struct {
	Count     int    `yaml:"count" validate:"gte=0"`
	Delimiter string `yaml:"delimiter" validate:"omitempty,delimiter"`
}

// LoadPlan reads and validates the plan at path. Every failure is reported
// as invalid input.
func LoadPlan(path string) (*Plan, error) {
	plan := &Plan{}
	if err := pkgconfig.LoadFile(path, plan); err != nil {
		return nil, fmt.Errorf("%w: load plan %s: %w", apperrors.ErrInvalidInput, path, err)
	}
	if err := validator.Validate(plan); err != nil {
		return nil, fmt.Errorf("%w: plan %s: %w", apperrors.ErrInvalidInput, path, err)
	}
	return plan, nil
}

// Empty reports whether the plan generates nothing.
func (p *Plan) Empty() bool {
	e := p.Entities
	return e.AttributeGroups == nil && e.VariantGroups == nil && e.Products == nil
}

// ResolveSeed applies DATAGEN_SEED over the plan's seed. ok is false when
// neither sets one.
func (p *Plan) ResolveSeed(cfg *Config) (seed int64, ok bool, err error) {
	seed, ok, err = cfg.SeedValue()
	if err != nil || ok {
		return seed, ok, err
	}
	if p.Seed != nil {
		return *p.Seed, true, nil
	}
	return 0, false, nil
}

// ResolveOutputDir applies DATAGEN_OUTPUT_DIR over the plan's output_dir.
func (p *Plan) ResolveOutputDir(cfg *Config) string {
	switch {
	case cfg.OutputDir != "":
		return cfg.OutputDir
	case p.OutputDir != "":
		return p.OutputDir
	default:
		return DefaultOutputDir
	}
}

// ResolveReference returns the plan's reference_date, or the UTC day of now
// when unset.
func (p *Plan) ResolveReference(now time.Time) time.Time {
	if p.ReferenceDate != "" {
		if ref, err := time.Parse(ReferenceDateLayout, p.ReferenceDate); err == nil {
			return ref
		}
	}
	return now.UTC().Truncate(24 * time.Hour)
}
