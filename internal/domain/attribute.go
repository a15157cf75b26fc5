package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BackendType is the storage kind of an attribute value. It drives both key
// expansion and value synthesis.
type BackendType string

// Backend types. BackendOther covers every storage kind the generator has no
// synthesis rule for.
const (
	BackendText    BackendType = "text"
	BackendVarchar BackendType = "varchar"
	BackendDate    BackendType = "date"
	BackendBoolean BackendType = "boolean"
	BackendDecimal BackendType = "decimal"
	BackendMetric  BackendType = "metric"
	BackendPrices  BackendType = "prices"
	BackendOption  BackendType = "option"
	BackendOptions BackendType = "options"
	BackendOther   BackendType = "other"
)

// ParseBackendType maps a stored backend name to the closed set above.
// Reference data selects fold into option/options; anything unknown
// becomes BackendOther.
func ParseBackendType(s string) BackendType {
	switch s {
	case "text":
		return BackendText
	case "varchar":
		return BackendVarchar
	case "date":
		return BackendDate
	case "boolean":
		return BackendBoolean
	case "decimal":
		return BackendDecimal
	case "metric":
		return BackendMetric
	case "prices":
		return BackendPrices
	case "option", "reference_data_option":
		return BackendOption
	case "options", "reference_data_options":
		return BackendOptions
	default:
		return BackendOther
	}
}

// Fine-grained attribute types referenced by the generator.
const (
	AttributeTypeIdentifier             = "pim_catalog_identifier"
	AttributeTypeText                   = "pim_catalog_text"
	AttributeTypeSimpleSelect           = "pim_catalog_simpleselect"
	AttributeTypeReferenceDataSimpleSel = "pim_reference_data_simpleselect"
)

// ValidationURL is the validation rule that turns varchar synthesis into URLs.
const ValidationURL = "url"

// Attribute is the immutable metadata of one catalog attribute.
type Attribute struct {
	Code              string           `json:"code"`
	Type              string           `json:"type"`
	Backend           BackendType      `json:"backend_type"`
	Scopable          bool             `json:"scopable"`
	Localizable       bool             `json:"localizable"`
	ValidationRule    string           `json:"validation_rule,omitempty"`
	NumberMin         *decimal.Decimal `json:"number_min,omitempty"`
	NumberMax         *decimal.Decimal `json:"number_max,omitempty"`
	DecimalsAllowed   bool             `json:"decimals_allowed"`
	DateMin           *time.Time       `json:"date_min,omitempty"`
	DateMax           *time.Time       `json:"date_max,omitempty"`
	DefaultMetricUnit string           `json:"default_metric_unit,omitempty"`
	Options           []string         `json:"options,omitempty"`
	Group             string           `json:"group,omitempty"`
}

// IsIdentifier reports whether the attribute is the product identifier.
func (a Attribute) IsIdentifier() bool {
	return a.Type == AttributeTypeIdentifier
}

// IsGlobal reports whether the attribute has a single value per product,
// neither per locale nor per channel.
func (a Attribute) IsGlobal() bool {
	return !a.Scopable && !a.Localizable
}

// IsAxisCandidate reports whether the attribute can be a variant group axis.
func (a Attribute) IsAxisCandidate() bool {
	return a.IsGlobal() &&
		(a.Type == AttributeTypeSimpleSelect || a.Type == AttributeTypeReferenceDataSimpleSel)
}

// IsTemplateCandidate reports whether the attribute can hold a product
// template value.
func (a Attribute) IsTemplateCandidate() bool {
	return a.IsGlobal() && a.Type == AttributeTypeText
}
