package generator

import (
	"sync/atomic"

	"github.com/utafrali/catalog-datagen/internal/catalog"
	"github.com/utafrali/catalog-datagen/internal/domain"
)

// countingReporter counts advanced records.
type countingReporter struct {
	started  atomic.Int32
	advanced atomic.Int64
	finished atomic.Int32
}

func (r *countingReporter) Start(string, int) { r.started.Add(1) }
func (r *countingReporter) Advance(n int)     { r.advanced.Add(int64(n)) }
func (r *countingReporter) Finish()           { r.finished.Add(1) }

func global(code, typ string, backend domain.BackendType) domain.Attribute {
	return domain.Attribute{Code: code, Type: typ, Backend: backend}
}

// testData is a small catalog: one family "simple" holding the identifier
// and five single-column attributes, one axis candidate, two template
// candidates.
func testData() catalog.Data {
	return catalog.Data{
		Locales: []domain.Locale{
			{Code: "en_US", Activated: true},
			{Code: "fr_FR", Activated: true},
			{Code: "de_DE", Activated: false},
		},
		Channels:   []domain.Channel{{Code: "ecommerce", Activated: true}},
		Currencies: []domain.Currency{{Code: "USD", Activated: true}},
		Categories: []domain.Category{
			{Code: "master"},
			{Code: "shoes", Parent: "master"},
			{Code: "hats", Parent: "master"},
			{Code: "bags", Parent: "master"},
		},
		GroupTypes: []domain.GroupType{{Code: "RELATED"}, {Code: domain.GroupTypeVariant}},
		Attributes: []domain.Attribute{
			global("sku", domain.AttributeTypeIdentifier, domain.BackendVarchar),
			global("description", domain.AttributeTypeText, domain.BackendText),
			global("title", domain.AttributeTypeText, domain.BackendVarchar),
			global("active", "pim_catalog_boolean", domain.BackendBoolean),
			global("released", "pim_catalog_date", domain.BackendDate),
			global("rating", "pim_catalog_number", domain.BackendDecimal),
			{Code: "color", Type: domain.AttributeTypeSimpleSelect, Backend: domain.BackendOption, Options: []string{"red", "blue"}},
			{Code: "size", Type: domain.AttributeTypeSimpleSelect, Backend: domain.BackendOption, Options: []string{"s", "m"}, Scopable: true},
		},
		Families: []domain.Family{
			{Code: "simple", Attributes: []string{"sku", "description", "title", "active", "released", "rating"}},
		},
	}
}

func catalogOf(d catalog.Data) *catalog.Catalog {
	return catalog.New(&catalog.StaticLoader{Data: d})
}

func testCatalog() *catalog.Catalog {
	return catalogOf(testData())
}

func testDeps() Deps {
	return Deps{Catalog: testCatalog()}
}
