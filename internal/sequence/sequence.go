// Package sequence hands out product identifier ranges.
package sequence

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/utafrali/catalog-datagen/pkg/errors"
)

// DefaultKey is the Redis key shared by concurrent datagen processes.
const DefaultKey = "datagen:sequence:product"

// Allocator reserves count consecutive identifier indexes and returns the
// first one.
type Allocator interface {
	Reserve(ctx context.Context, count int) (int, error)
}

// StaticAllocator always returns Start. It suits single-process runs.
type StaticAllocator struct {
	Start int
}

func (a StaticAllocator) Reserve(context.Context, int) (int, error) {
	return a.Start, nil
}

// RedisAllocator reserves disjoint ranges with INCRBY, so that several
// processes generating into the same target never reuse an identifier.
// Ranges are offset by base.
type RedisAllocator struct {
	client redis.Cmdable
	key    string
	base   int
}

// NewRedisAllocator creates an allocator on key. An empty key uses
// DefaultKey.
func NewRedisAllocator(client redis.Cmdable, key string, base int) *RedisAllocator {
	if key == "" {
		key = DefaultKey
	}
	return &RedisAllocator{client: client, key: key, base: base}
}

// Reserve returns the start of a fresh [start, start+count) range.
func (a *RedisAllocator) Reserve(ctx context.Context, count int) (int, error) {
	if count <= 0 {
		return 0, apperrors.InvalidInput(fmt.Sprintf("identifier range size must be positive, got %d", count))
	}
	end, err := a.client.IncrBy(ctx, a.key, int64(count)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incrby %s: %w", a.key, err)
	}
	return a.base + int(end) - count, nil
}
