package random

import (
	apperrors "github.com/utafrali/catalog-datagen/pkg/errors"
)

// PickOne returns a uniformly chosen element of pool. An empty pool yields
// an *errors.EmptyPoolError.
func PickOne[T any](s *Source, pool []T) (T, error) {
	var zero T
	if len(pool) == 0 {
		return zero, apperrors.EmptyPool("")
	}
	return pool[s.rng.Intn(len(pool))], nil
}

// PickDistinct returns k distinct elements of pool, in draw order.
// Distinctness holds within this call only. k > len(pool) yields an
// *errors.PoolExhaustedError; k <= 0 yields an empty slice.
func PickDistinct[T any](s *Source, pool []T, k int) ([]T, error) {
	if k <= 0 {
		return []T{}, nil
	}
	if k > len(pool) {
		return nil, apperrors.PoolExhausted("", k, len(pool))
	}

	// Partial Fisher-Yates over an index permutation; pool is left untouched.
	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	out := make([]T, k)
	for i := 0; i < k; i++ {
		j := i + s.rng.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = pool[idx[i]]
	}
	return out, nil
}
