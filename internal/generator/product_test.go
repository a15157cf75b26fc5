package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalog-datagen/internal/attribute"
	"github.com/utafrali/catalog-datagen/internal/domain"
	"github.com/utafrali/catalog-datagen/internal/random"
	apperrors "github.com/utafrali/catalog-datagen/pkg/errors"
)

func generateProducts(t *testing.T, seed int64, opts ProductOptions, groups []string) *domain.Table {
	t.Helper()
	table, err := NewProductGenerator(testDeps()).Generate(context.Background(), random.NewSeeded(seed), opts, groups)
	require.NoError(t, err)
	return table
}

func TestProductGenerator_FiveProductsThreeValues(t *testing.T) {
	table := generateProducts(t, 42, ProductOptions{
		Count:           5,
		ValuesNumber:    3,
		CategoriesCount: 1,
	}, nil)

	require.Equal(t, 5, table.Len())
	for i, rec := range table.Records {
		keys := rec.Keys()
		require.Len(t, keys, 6, "identifier, family, categories and 3 attributes: %v", keys)
		assert.Equal(t, "sku", keys[0])
		assert.Equal(t, fmt.Sprintf("id-%d", i), keys0Value(t, rec))
		assert.True(t, rec.Has(domain.ColumnFamily))
		assert.True(t, rec.Has(domain.ColumnCategories))
		assert.False(t, rec.Has(domain.ColumnGroups))

		attrs := 0
		for _, k := range keys {
			switch k {
			case "sku", domain.ColumnFamily, domain.ColumnCategories:
			default:
				attrs++
			}
		}
		assert.Equal(t, 3, attrs)
	}
}

func keys0Value(t *testing.T, rec *domain.Record) string {
	t.Helper()
	v, ok := rec.Get(rec.Keys()[0])
	require.True(t, ok)
	return v
}

func tableJSON(t *testing.T, table *domain.Table) string {
	t.Helper()
	b, err := json.Marshal(table.Records)
	require.NoError(t, err)
	return string(b)
}

func TestProductGenerator_SameSeedSameOutput(t *testing.T) {
	opts := ProductOptions{Count: 20, ValuesNumber: 3, ValuesNumberDeviation: 2, CategoriesCount: 2}

	a := generateProducts(t, 7, opts, nil)
	b := generateProducts(t, 7, opts, nil)
	assert.Equal(t, tableJSON(t, a), tableJSON(t, b))

	c := generateProducts(t, 8, opts, nil)
	assert.NotEqual(t, tableJSON(t, a), tableJSON(t, c))
}

func TestProductGenerator_PrefixAndStartIndex(t *testing.T) {
	table := generateProducts(t, 1, ProductOptions{Count: 3, StartIndex: 100, IdentifierPrefix: "p-"}, nil)

	var ids []string
	for _, rec := range table.Records {
		v, _ := rec.Get("sku")
		ids = append(ids, v)
	}
	assert.Equal(t, []string{"p-100", "p-101", "p-102"}, ids)
}

func TestProductGenerator_FullPoolWhenNoValuesNumber(t *testing.T) {
	table := generateProducts(t, 3, ProductOptions{Count: 2}, nil)
	for _, rec := range table.Records {
		// identifier, family, categories and all five attributes
		assert.Equal(t, 8, rec.Len())
		v, _ := rec.Get(domain.ColumnCategories)
		assert.Empty(t, v)
	}
}

func TestProductGenerator_TextAttributeNamedLikeDefaultIdentifier(t *testing.T) {
	d := testData()
	d.Attributes[0] = global("sku", domain.AttributeTypeText, domain.BackendVarchar)

	table, err := NewProductGenerator(Deps{Catalog: catalogOf(d)}).
		Generate(context.Background(), random.NewSeeded(42), ProductOptions{Count: 3}, nil)
	require.NoError(t, err)

	for i, rec := range table.Records {
		assert.Equal(t, "sku", rec.Keys()[0])
		assert.Equal(t, fmt.Sprintf("id-%d", i), keys0Value(t, rec))
		// identifier, family, categories and the five other attributes
		assert.Equal(t, 8, rec.Len())
	}
}

func TestProductGenerator_DatesAnchoredOnReference(t *testing.T) {
	ref := time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC)
	opts := ProductOptions{Count: 10, Reference: ref}

	table := generateProducts(t, 5, opts, nil)
	for _, rec := range table.Records {
		v, ok := rec.Get("released")
		require.True(t, ok)
		d, err := time.Parse("2006-01-02", v)
		require.NoError(t, err)
		assert.False(t, d.After(ref), v)
		assert.False(t, d.Before(ref.AddDate(-30, 0, 0)), v)
	}
	assert.Equal(t, tableJSON(t, table), tableJSON(t, generateProducts(t, 5, opts, nil)))
}

func TestProductGenerator_GroupsColumn(t *testing.T) {
	groups := []string{"variant_group_0", "variant_group_1"}
	table := generateProducts(t, 5, ProductOptions{Count: 10, ValuesNumber: 1}, groups)

	for _, rec := range table.Records {
		keys := rec.Keys()
		require.GreaterOrEqual(t, len(keys), 3)
		assert.Equal(t, []string{"sku", domain.ColumnFamily, domain.ColumnGroups}, keys[:3])
		g, _ := rec.Get(domain.ColumnGroups)
		assert.Contains(t, groups, g)
	}
}

func TestProductGenerator_MandatoryAndForcedValues(t *testing.T) {
	table := generateProducts(t, 9, ProductOptions{
		Count:               4,
		ValuesNumber:        1,
		MandatoryAttributes: []string{"rating", "not_in_family", "color"},
		ForceValues:         []string{"rating:42.5"},
	}, nil)

	for _, rec := range table.Records {
		v, ok := rec.Get("rating")
		require.True(t, ok, "mandatory attribute always present")
		assert.Equal(t, "42.5", v)
		assert.False(t, rec.Has("not_in_family"))
		assert.False(t, rec.Has("color"), "attribute outside the family is skipped")
	}
}

func TestProductGenerator_CategoriesExhausted(t *testing.T) {
	_, err := NewProductGenerator(testDeps()).Generate(context.Background(), random.NewSeeded(1),
		ProductOptions{Count: 1, CategoriesCount: 4}, nil)
	require.Error(t, err)

	var exhausted *apperrors.PoolExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, "categories", exhausted.Pool)
	assert.Equal(t, 4, exhausted.Requested)
	assert.Equal(t, 3, exhausted.Available)
	assert.Contains(t, err.Error(), "product id-0: assign categories")
}

func TestProductGenerator_NoCategories(t *testing.T) {
	d := testData()
	d.Categories = []domain.Category{{Code: "master"}}
	deps := Deps{Catalog: catalogOf(d)}

	_, err := NewProductGenerator(deps).Generate(context.Background(), random.NewSeeded(1),
		ProductOptions{Count: 1, CategoriesCount: 1}, nil)
	assert.ErrorIs(t, err, apperrors.ErrEmptyPool)
	assert.Equal(t, apperrors.SeverityItem, apperrors.SeverityOf(err))
}

func TestProductGenerator_Workers(t *testing.T) {
	opts := ProductOptions{Count: 10, ValuesNumber: 2, CategoriesCount: 1, Workers: 3}
	a := generateProducts(t, 11, opts, nil)
	b := generateProducts(t, 11, opts, nil)

	require.Equal(t, 10, a.Len())
	for i, rec := range a.Records {
		require.NotNil(t, rec)
		v, _ := rec.Get("sku")
		assert.Equal(t, fmt.Sprintf("id-%d", i), v, "records merge in index order")
	}
	assert.Equal(t, tableJSON(t, a), tableJSON(t, b))
}

func TestProductGenerator_MoreWorkersThanProducts(t *testing.T) {
	table := generateProducts(t, 2, ProductOptions{Count: 2, Workers: 8}, nil)
	assert.Equal(t, 2, table.Len())
}

func TestProductGenerator_ReportsProgress(t *testing.T) {
	rep := &countingReporter{}
	deps := testDeps()
	deps.Progress = rep

	_, err := NewProductGenerator(deps).Generate(context.Background(), random.NewSeeded(1),
		ProductOptions{Count: 7, Workers: 2}, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rep.started.Load())
	assert.EqualValues(t, 7, rep.advanced.Load())
	assert.EqualValues(t, 1, rep.finished.Load())
}

func TestProductGenerator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProductGenerator(testDeps()).Generate(ctx, random.NewSeeded(1), ProductOptions{Count: 3}, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestProductBuilder_StagesInOrder(t *testing.T) {
	ctx := context.Background()
	b, err := NewProductBuilder(ctx, testCatalog(), &attribute.Synthesizer{}, nil)
	require.NoError(t, err)
	src := random.NewSeeded(1)

	p := NewProduct()
	err = b.FillRandomAttributes(ctx, p, src, 1, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.Contains(t, err.Error(), "cannot fill random attributes after empty")

	require.NoError(t, b.AssignIdentifier(p, "x-1"))
	require.NoError(t, b.AssignFamily(p, "simple", src))
	require.NoError(t, b.FillRandomAttributes(ctx, p, src, 2, 0))
	require.NoError(t, b.FillMandatoryAttributes(ctx, p, src, []string{"title"}))
	require.NoError(t, b.AssignCategories(p, src, 3))
	assert.Equal(t, StageCategoriesAssigned, p.Stage)

	cats, _ := p.Record.Get(domain.ColumnCategories)
	assert.Len(t, strings.Split(cats, ","), 3)
	assert.True(t, p.Record.Has("title"))

	assert.Error(t, b.AssignCategories(p, src, 1), "terminal stage")
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "assign identifier", StageIdentifierAssigned.String())
	assert.Equal(t, "assign categories", StageCategoriesAssigned.String())
	assert.Equal(t, "stage(42)", Stage(42).String())
}
