package domain

// Locale is a catalog locale such as en_US.
type Locale struct {
	Code      string `json:"code"`
	Activated bool   `json:"activated"`
}

// Channel is a distribution channel such as ecommerce or print.
type Channel struct {
	Code      string `json:"code"`
	Activated bool   `json:"activated"`
}

// Currency is an ISO currency code usable in prices.
type Currency struct {
	Code      string `json:"code"`
	Activated bool   `json:"activated"`
}

// Category is a node of a category tree. Roots have no parent.
type Category struct {
	Code   string `json:"code"`
	Parent string `json:"parent,omitempty"`
}

// IsRoot reports whether the category is a tree root.
func (c Category) IsRoot() bool {
	return c.Parent == ""
}

// Family groups the attributes a product of that family may carry.
type Family struct {
	Code       string   `json:"code"`
	Attributes []string `json:"attributes"`
}

// GroupTypeVariant is the code of the group type variant groups use.
const GroupTypeVariant = "VARIANT"

// GroupType classifies product groups.
type GroupType struct {
	Code string `json:"code"`
}

// Labels maps a locale code to a translated label.
type Labels map[string]string

// ProductTemplate holds the values shared by every product of a variant group.
// Codes keeps insertion order; Values holds the text per attribute code.
type ProductTemplate struct {
	Codes  []string          `json:"codes"`
	Values map[string]string `json:"values"`
}

// Set stores a template value, keeping first-insertion order.
func (t *ProductTemplate) Set(code, value string) {
	if t.Values == nil {
		t.Values = make(map[string]string)
	}
	if _, ok := t.Values[code]; !ok {
		t.Codes = append(t.Codes, code)
	}
	t.Values[code] = value
}

// VariantGroup is a generated variant group.
type VariantGroup struct {
	Code     string          `json:"code"`
	Type     string          `json:"type"`
	Axes     []Attribute     `json:"axes"`
	Template ProductTemplate `json:"template"`
	Labels   Labels          `json:"labels"`
}

// AxisCodes returns the codes of the group's axis attributes.
func (g VariantGroup) AxisCodes() []string {
	codes := make([]string, len(g.Axes))
	for i, a := range g.Axes {
		codes[i] = a.Code
	}
	return codes
}

// AttributeGroup is a generated attribute group.
type AttributeGroup struct {
	Code      string `json:"code"`
	SortOrder int    `json:"sort_order"`
	Labels    Labels `json:"labels"`
}
