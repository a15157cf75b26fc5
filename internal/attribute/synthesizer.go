package attribute

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/utafrali/catalog-datagen/internal/domain"
	"github.com/utafrali/catalog-datagen/internal/random"
	apperrors "github.com/utafrali/catalog-datagen/pkg/errors"
)

// DateLayout is the output format of date values.
const DateLayout = "2006-01-02"

var (
	defaultNumberMin = decimal.Zero
	defaultNumberMax = decimal.NewFromInt(1000)
)

// Synthesizer produces string values for attribute columns.
type Synthesizer struct {
	// Forced maps an attribute code to a value emitted verbatim for every
	// column of that attribute.
	Forced map[string]string
	// Reference anchors the default date range [Reference-30y, Reference].
	// Zero means time.Now().
	Reference time.Time
}

// ParseForced turns "code:value" pairs into a forced-value map. The value
// may itself contain colons; only the first one separates.
func ParseForced(pairs []string) map[string]string {
	forced := make(map[string]string, len(pairs))
	for _, p := range pairs {
		code, value, ok := strings.Cut(p, ":")
		if !ok {
			continue
		}
		forced[strings.TrimSpace(code)] = value
	}
	return forced
}

// Value returns the value of column key of attr.
//
// An option attribute without options yields an *errors.EmptyPoolError;
// backends without a synthesis rule yield "".
func (s *Synthesizer) Value(attr domain.Attribute, key string, src *random.Source) (string, error) {
	if v, ok := s.Forced[attr.Code]; ok {
		return v, nil
	}

	switch attr.Backend {
	case domain.BackendVarchar:
		if attr.ValidationRule == domain.ValidationURL {
			return src.URL(), nil
		}
		return src.Sentence(0), nil
	case domain.BackendText:
		return src.Sentence(0), nil
	case domain.BackendDate:
		min, max := s.dateRange(attr)
		return src.DateBetween(min, max).Format(DateLayout), nil
	case domain.BackendMetric, domain.BackendDecimal, domain.BackendPrices:
		if IsUnitKey(key) {
			return attr.DefaultMetricUnit, nil
		}
		return number(attr, src), nil
	case domain.BackendBoolean:
		if src.Boolean() {
			return "1", nil
		}
		return "0", nil
	case domain.BackendOption, domain.BackendOptions:
		code, err := random.PickOne(src, attr.Options)
		if err != nil {
			return "", apperrors.WithPool(err, "options of "+attr.Code)
		}
		return code, nil
	case domain.BackendOther:
		return "", nil
	default:
		return "", nil
	}
}

// Fill derives every key of attr and stores its value into rec.
func (s *Synthesizer) Fill(rec *domain.Record, attr domain.Attribute, keys []string, src *random.Source) error {
	for _, key := range keys {
		v, err := s.Value(attr, key, src)
		if err != nil {
			return err
		}
		rec.Set(key, v)
	}
	return nil
}

func (s *Synthesizer) dateRange(attr domain.Attribute) (time.Time, time.Time) {
	ref := s.Reference
	if ref.IsZero() {
		ref = time.Now()
	}
	min := ref.AddDate(-30, 0, 0)
	max := ref
	if attr.DateMin != nil {
		min = *attr.DateMin
	}
	if attr.DateMax != nil {
		max = *attr.DateMax
	}
	return min, max
}

func number(attr domain.Attribute, src *random.Source) string {
	min, max := defaultNumberMin, defaultNumberMax
	if attr.NumberMin != nil {
		min = *attr.NumberMin
	}
	if attr.NumberMax != nil {
		max = *attr.NumberMax
	}
	var decimals int32
	if attr.DecimalsAllowed {
		decimals = 4
	}
	return src.FloatBetween(min, max, decimals).StringFixed(decimals)
}
