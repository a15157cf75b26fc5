package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Sentinel error identity ---

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrInvalidInput, ErrInternal,
		ErrEmptyPool, ErrPoolExhausted, ErrMissingVariantGroupType,
	}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j],
				"sentinels %d and %d should be distinct", i, j)
		}
	}
}

// --- AppError behavior ---

func TestAppError_ErrorString_WithWrappedError(t *testing.T) {
	inner := fmt.Errorf("db connection lost")
	appErr := &AppError{Code: "INTERNAL_ERROR", Message: "something broke", Err: inner}
	assert.Contains(t, appErr.Error(), "INTERNAL_ERROR")
	assert.Contains(t, appErr.Error(), "something broke")
	assert.Contains(t, appErr.Error(), "db connection lost")
}

func TestAppError_ErrorString_WithoutWrappedError(t *testing.T) {
	appErr := &AppError{Code: "NOT_FOUND", Message: "family not found"}
	assert.Equal(t, "NOT_FOUND: family not found", appErr.Error())
}

func TestNotFound(t *testing.T) {
	err := NotFound("family", "shoes")
	require.NotNil(t, err)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Contains(t, err.Message, "shoes")
	assert.Equal(t, SeverityRun, err.Severity)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("count must be positive")
	assert.Equal(t, "INVALID_INPUT", err.Code)
	assert.Equal(t, "count must be positive", err.Message)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestInternal(t *testing.T) {
	inner := fmt.Errorf("disk full")
	err := Internal(inner)
	assert.True(t, errors.Is(err, inner))
	assert.Equal(t, SeverityRun, err.Severity)
}

// --- Pool errors ---

func TestPoolExhausted_CarriesCounts(t *testing.T) {
	err := PoolExhausted("variant group axes", 2, 1)

	assert.True(t, errors.Is(err, ErrPoolExhausted))
	assert.Equal(t, 2, err.Requested)
	assert.Equal(t, 1, err.Available)
	assert.Contains(t, err.Error(), "variant group axes")
	assert.Contains(t, err.Error(), "requested=2")
	assert.Contains(t, err.Error(), "available=1")
}

func TestEmptyPool_Message(t *testing.T) {
	assert.Equal(t, "cannot pick from an empty pool", EmptyPool("").Error())
	assert.Contains(t, EmptyPool("categories").Error(), `"categories"`)
	assert.True(t, errors.Is(EmptyPool("x"), ErrEmptyPool))
}

func TestMissingVariantGroupType(t *testing.T) {
	err := &MissingVariantGroupTypeError{Available: []string{"RELATED", "X_SELL"}}
	assert.True(t, errors.Is(err, ErrMissingVariantGroupType))
	assert.Contains(t, err.Error(), "RELATED")
}

func TestWithPool_LabelsWrappedPoolErrors(t *testing.T) {
	wrapped := fmt.Errorf("pick: %w", PoolExhausted("", 5, 3))

	labeled := WithPool(wrapped, "categories")

	var exhausted *PoolExhaustedError
	require.True(t, errors.As(labeled, &exhausted))
	assert.Equal(t, "categories", exhausted.Pool)
	assert.Equal(t, 5, exhausted.Requested)
	assert.Equal(t, 3, exhausted.Available)

	var empty *EmptyPoolError
	require.True(t, errors.As(WithPool(EmptyPool(""), "families"), &empty))
	assert.Equal(t, "families", empty.Pool)
}

func TestWithPool_LeavesOtherErrorsAlone(t *testing.T) {
	other := fmt.Errorf("boom")
	assert.Same(t, other, WithPool(other, "anything"))
}

// --- Classification ---

func TestSeverityOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Severity
	}{
		{"empty pool is per item", EmptyPool("options"), SeverityItem},
		{"wrapped empty pool is per item", fmt.Errorf("ctx: %w", EmptyPool("options")), SeverityItem},
		{"exhaustion is fatal", PoolExhausted("axes", 2, 1), SeverityRun},
		{"missing variant type is fatal", &MissingVariantGroupTypeError{}, SeverityRun},
		{"invalid input is fatal", InvalidInput("bad"), SeverityRun},
		{"unknown error is fatal", fmt.Errorf("boom"), SeverityRun},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SeverityOf(tt.err))
		})
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, "none", Kind(nil))
	assert.Equal(t, "empty_pool", Kind(EmptyPool("x")))
	assert.Equal(t, "pool_exhausted", Kind(PoolExhausted("x", 1, 0)))
	assert.Equal(t, "missing_variant_group_type", Kind(&MissingVariantGroupTypeError{}))
	assert.Equal(t, "invalid_input", Kind(InvalidInput("x")))
	assert.Equal(t, "not_found", Kind(NotFound("family", "x")))
	assert.Equal(t, "internal", Kind(fmt.Errorf("boom")))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"exhausted", fmt.Errorf("wrap: %w", PoolExhausted("axes", 2, 1)), ExitPoolExhausted},
		{"empty", EmptyPool("x"), ExitEmptyPool},
		{"missing variant", &MissingVariantGroupTypeError{}, ExitMissingVariant},
		{"invalid input", InvalidInput("x"), ExitInvalidInput},
		{"not found", NotFound("family", "x"), ExitCatalogNotFound},
		{"other", fmt.Errorf("boom"), ExitInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	err := Wrap(ErrNotFound, "load family")
	assert.Equal(t, "load family: resource not found", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
}
