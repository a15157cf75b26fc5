package domain

// Entity names used for output files, metrics labels and event types.
const (
	EntityProduct        = "product"
	EntityVariantGroup   = "variant_group"
	EntityAttributeGroup = "attribute_group"
)

// Well-known product columns.
const (
	ColumnFamily     = "family"
	ColumnCategories = "categories"
	ColumnGroups     = "groups"
	ColumnCode       = "code"
	ColumnAxis       = "axis"
	ColumnType       = "type"
	ColumnSortOrder  = "sort_order"
)

// LabelColumn returns the column holding the label for locale.
func LabelColumn(locale string) string {
	return "label-" + locale
}
