package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/catalog-datagen/pkg/errors"
	"github.com/utafrali/catalog-datagen/pkg/validator"
)

const fullPlan = `
seed: 42
output_dir: /tmp/datagen
entities:
  attribute_groups:
    count: 5
  variant_groups:
    count: 10
    axes_count: 2
    attributes_count: 3
    distinct_scope: run
  products:
    count: 1000
    filename: catalog_products.csv
    values_number: 20
    values_number_deviation: 5
    start_index: 100
    categories_count: 3
    mandatory_attributes: [name, price]
    force_value: ["main_color:red"]
    delimiter: ";"
    identifier_prefix: "sku-"
`

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadPlan_Full(t *testing.T) {
	plan, err := LoadPlan(writePlan(t, fullPlan))
	require.NoError(t, err)

	require.NotNil(t, plan.Seed)
	assert.Equal(t, int64(42), *plan.Seed)
	assert.Equal(t, "/tmp/datagen", plan.OutputDir)

	require.NotNil(t, plan.Entities.AttributeGroups)
	assert.Equal(t, 5, plan.Entities.AttributeGroups.Count)

	vg := plan.Entities.VariantGroups
	require.NotNil(t, vg)
	assert.Equal(t, 2, vg.AxesCount)
	assert.Equal(t, 3, vg.AttributesCount)
	assert.Equal(t, "run", vg.DistinctScope)

	p := plan.Entities.Products
	require.NotNil(t, p)
	assert.Equal(t, 1000, p.Count)
	assert.Equal(t, "catalog_products.csv", p.Filename)
	assert.Equal(t, 20, p.ValuesNumber)
	assert.Equal(t, 5, p.ValuesNumberDeviation)
	assert.Equal(t, 100, p.StartIndex)
	assert.Equal(t, []string{"name", "price"}, p.MandatoryAttributes)
	assert.Equal(t, []string{"main_color:red"}, p.ForceValue)
	assert.Equal(t, ";", p.Delimiter)
	assert.Equal(t, "sku-", p.IdentifierPrefix)
	assert.False(t, plan.Empty())
}

func TestLoadPlan_OmittedSectionsAreNil(t *testing.T) {
	plan, err := LoadPlan(writePlan(t, "entities:\n  products:\n    count: 3\n"))
	require.NoError(t, err)

	assert.Nil(t, plan.Seed)
	assert.Nil(t, plan.Entities.AttributeGroups)
	assert.Nil(t, plan.Entities.VariantGroups)
	require.NotNil(t, plan.Entities.Products)
	assert.Equal(t, 3, plan.Entities.Products.Count)
}

func TestLoadPlan_EmptyDocument(t *testing.T) {
	plan, err := LoadPlan(writePlan(t, ""))
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestLoadPlan_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"negative count", "entities:\n  products:\n    count: -1\n", "count"},
		{"bad delimiter", "entities:\n  products:\n    delimiter: \";;\"\n", "delimiter"},
		{"bad force value", "entities:\n  products:\n    force_value: [red]\n", "force_value[0]"},
		{"empty mandatory code", "entities:\n  products:\n    mandatory_attributes: [\"\"]\n", "mandatory_attributes[0]"},
		{"unknown scope", "entities:\n  variant_groups:\n    distinct_scope: global\n", "distinct_scope"},
		{"filename with directory", "entities:\n  products:\n    filename: out/p.csv\n", "filename"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPlan(writePlan(t, tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

			var valErr *validator.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Contains(t, valErr.Fields(), tt.field)
		})
	}
}

func TestLoadPlan_UnknownKey(t *testing.T) {
	_, err := LoadPlan(writePlan(t, "entities:\n  product:\n    count: 3\n"))

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, apperrors.ExitInvalidInput, apperrors.ExitCode(err))
}

func TestLoadPlan_MissingFile(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "absent.yml"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestPlan_ResolveSeed(t *testing.T) {
	seven := int64(7)

	_, ok, err := (&Plan{}).ResolveSeed(&Config{})
	require.NoError(t, err)
	assert.False(t, ok)

	seed, ok, err := (&Plan{Seed: &seven}).ResolveSeed(&Config{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(7), seed)

	seed, ok, err = (&Plan{Seed: &seven}).ResolveSeed(&Config{Seed: "99"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(99), seed)
}

func TestPlan_ResolveOutputDir(t *testing.T) {
	assert.Equal(t, DefaultOutputDir, (&Plan{}).ResolveOutputDir(&Config{}))
	assert.Equal(t, "plan", (&Plan{OutputDir: "plan"}).ResolveOutputDir(&Config{}))
	assert.Equal(t, "env", (&Plan{OutputDir: "plan"}).ResolveOutputDir(&Config{OutputDir: "env"}))
}

func TestPlan_ResolveReference(t *testing.T) {
	now := time.Date(2026, 10, 18, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), (&Plan{}).ResolveReference(now))
	assert.Equal(t, time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC),
		(&Plan{ReferenceDate: "2020-01-31"}).ResolveReference(now))
}

func TestLoadPlan_InvalidReferenceDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yml")
	require.NoError(t, os.WriteFile(path, []byte("reference_date: 31/01/2020\n"), 0o600))

	_, err := LoadPlan(path)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
