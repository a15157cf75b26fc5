package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalog-datagen/internal/domain"
	"github.com/utafrali/catalog-datagen/internal/random"
	apperrors "github.com/utafrali/catalog-datagen/pkg/errors"
)

func codes(attrs []domain.Attribute) []string {
	out := make([]string, len(attrs))
	for i, a := range attrs {
		out[i] = a.Code
	}
	return out
}

func TestFamilyPool_ExcludesIdentifier(t *testing.T) {
	attrs, err := fixtureCatalog(t).Pool().AttributesOf(context.Background(), "shoes")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "main_color", "size", "weight", "release_date"}, codes(attrs))
}

func TestFamilyPool_ExcludesDefaultIdentifierCode(t *testing.T) {
	c := New(&StaticLoader{Data: Data{
		Attributes: []domain.Attribute{
			{Code: DefaultIdentifierCode, Type: domain.AttributeTypeText, Backend: domain.BackendVarchar},
			{Code: "name", Type: domain.AttributeTypeText, Backend: domain.BackendVarchar},
		},
		Families: []domain.Family{{Code: "f", Attributes: []string{DefaultIdentifierCode, "name"}}},
	}})
	ctx := context.Background()

	attrs, err := c.Pool().AttributesOf(ctx, "f")
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, codes(attrs))

	_, ok, err := c.Pool().Lookup(ctx, "f", DefaultIdentifierCode)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFamilyPool_SkipsDuplicates(t *testing.T) {
	c := New(&StaticLoader{Data: Data{
		Attributes: []domain.Attribute{{Code: "name"}, {Code: "size"}},
		Families:   []domain.Family{{Code: "f", Attributes: []string{"name", "size", "name"}}},
	}})
	attrs, err := c.Pool().AttributesOf(context.Background(), "f")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "size"}, codes(attrs))
}

func TestFamilyPool_UnknownFamilyOrAttribute(t *testing.T) {
	ctx := context.Background()

	_, err := fixtureCatalog(t).Pool().AttributesOf(ctx, "hats")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	c := New(&StaticLoader{Data: Data{
		Families: []domain.Family{{Code: "f", Attributes: []string{"ghost"}}},
	}})
	_, err = c.Pool().AttributesOf(ctx, "f")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "family f")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFamilyPool_Lookup(t *testing.T) {
	ctx := context.Background()
	pool := fixtureCatalog(t).Pool()

	a, ok, err := pool.Lookup(ctx, "shoes", "size")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "size", a.Code)

	_, ok, err = pool.Lookup(ctx, "shoes", "sku")
	require.NoError(t, err)
	assert.False(t, ok, "identifier is never eligible")
}

func TestFamilyPool_RandomSubset(t *testing.T) {
	ctx := context.Background()
	pool := fixtureCatalog(t).Pool()
	src := random.NewSeeded(7)

	full, err := pool.RandomSubset(ctx, src, "shoes", UseFullPool)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "main_color", "size", "weight", "release_date"}, codes(full))

	// The returned slice is a copy.
	full[0] = domain.Attribute{Code: "mutated"}
	again, err := pool.AttributesOf(ctx, "shoes")
	require.NoError(t, err)
	assert.Equal(t, "name", again[0].Code)

	three, err := pool.RandomSubset(ctx, src, "shoes", 3)
	require.NoError(t, err)
	require.Len(t, three, 3)
	seen := make(map[string]bool)
	for _, a := range three {
		assert.False(t, seen[a.Code], "duplicate %s", a.Code)
		seen[a.Code] = true
	}

	clamped, err := pool.RandomSubset(ctx, src, "shoes", 99)
	require.NoError(t, err)
	assert.Len(t, clamped, 5)

	none, err := pool.RandomSubset(ctx, src, "empty", 2)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCountWithDeviation(t *testing.T) {
	src := random.NewSeeded(1)

	assert.Equal(t, UseFullPool, CountWithDeviation(src, 0, 3))
	assert.Equal(t, UseFullPool, CountWithDeviation(src, -2, 0))
	assert.Equal(t, 5, CountWithDeviation(src, 5, 0))

	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		n := CountWithDeviation(src, 5, 4)
		assert.GreaterOrEqual(t, n, 3)
		assert.LessOrEqual(t, n, 7)
		seen[n] = true
	}
	assert.Len(t, seen, 5)

	for i := 0; i < 200; i++ {
		n := CountWithDeviation(src, 1, 5)
		assert.GreaterOrEqual(t, n, 0, "never negative")
		assert.LessOrEqual(t, n, 4)
	}
}
