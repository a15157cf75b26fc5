// Package random provides the seedable random source every generator draws
// from. One seed fixes the whole sequence of draws, text included.
package random

import (
	"math/rand"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/jaswdr/faker"
	"github.com/shopspring/decimal"
)

// Source is a seeded pseudo-random generator. It is not safe for concurrent
// use; give each worker its own Source via Derive.
type Source struct {
	seed int64
	rng  *rand.Rand
	fake faker.Faker
}

// New returns a Source seeded with *seed, or with a time-derived seed when
// seed is nil.
func New(seed *int64) *Source {
	if seed == nil {
		return NewSeeded(time.Now().UnixNano())
	}
	return NewSeeded(*seed)
}

// NewSeeded returns a Source seeded with seed. The faker text generator
// shares the same underlying source, so text draws are reproducible too.
func NewSeeded(seed int64) *Source {
	src := rand.NewSource(seed) // #nosec G404 -- fake data, not security sensitive
	return &Source{
		seed: seed,
		rng:  rand.New(src), // #nosec G404
		fake: faker.NewWithSeed(src),
	}
}

// Seed returns the seed the source was built with.
func (s *Source) Seed() int64 {
	return s.seed
}

// Derive returns an independent Source seeded with Seed()+offset.
func (s *Source) Derive(offset int64) *Source {
	return NewSeeded(s.seed + offset)
}

// IntBetween returns a uniform integer in [min, max]. When min > max the
// range collapses to min.
func (s *Source) IntBetween(min, max int) int {
	if min >= max {
		return min
	}
	return min + s.rng.Intn(max-min+1)
}

// FloatBetween returns a uniform value in [min, max] rounded to decimals
// places. When min > max the range collapses to min.
func (s *Source) FloatBetween(min, max decimal.Decimal, decimals int32) decimal.Decimal {
	if !min.LessThan(max) {
		return min.Round(decimals)
	}
	span := max.Sub(min)
	v := min.Add(span.Mul(decimal.NewFromFloat(s.rng.Float64()))).Round(decimals)
	if v.GreaterThan(max) {
		v = max.RoundFloor(decimals)
	}
	if v.LessThan(min) {
		v = min.RoundCeil(decimals)
	}
	return v
}

// Boolean returns true or false with equal probability.
func (s *Source) Boolean() bool {
	return s.rng.Intn(2) == 1
}

// Word returns a single lorem word.
func (s *Source) Word() string {
	return s.fake.Lorem().Word()
}

// Words returns n lorem words.
func (s *Source) Words(n int) []string {
	if n <= 0 {
		return nil
	}
	return s.fake.Lorem().Words(n)
}

// Sentence returns a capitalized sentence of exactly n words ending with a
// period. n <= 0 picks a length between 3 and 10 words.
func (s *Source) Sentence(n int) string {
	if n <= 0 {
		n = s.IntBetween(3, 10)
	}
	words := s.Words(n)
	if r, size := utf8.DecodeRuneInString(words[0]); r != utf8.RuneError {
		words[0] = string(unicode.ToUpper(r)) + words[0][size:]
	}
	return strings.Join(words, " ") + "."
}

// URL returns a fake URL.
func (s *Source) URL() string {
	return s.fake.Internet().URL()
}

// DateBetween returns a calendar date (midnight UTC) in [min, max], both
// truncated to their day. When min > max the range collapses to min.
func (s *Source) DateBetween(min, max time.Time) time.Time {
	lo := day(min)
	hi := day(max)
	days := int(hi.Sub(lo).Hours() / 24)
	if days <= 0 {
		return lo
	}
	return lo.AddDate(0, 0, s.IntBetween(0, days))
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
