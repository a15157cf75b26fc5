package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/utafrali/catalog-datagen/internal/domain"
	"github.com/utafrali/catalog-datagen/pkg/config"
	"github.com/utafrali/catalog-datagen/pkg/slug"
	"github.com/utafrali/catalog-datagen/pkg/validator"
)

// fixture is the YAML shape of a catalog file. Codes may be omitted when a
// label is given; they are then derived from the label.
type fixture struct {
	Locales    []fixtureToggle    `yaml:"locales" validate:"dive"`
	Channels   []fixtureToggle    `yaml:"channels" validate:"dive"`
	Currencies []fixtureToggle    `yaml:"currencies" validate:"dive"`
	Categories []fixtureCategory  `yaml:"categories" validate:"dive"`
	GroupTypes []string           `yaml:"group_types" validate:"dive,required"`
	Attributes []fixtureAttribute `yaml:"attributes" validate:"dive"`
	Families   []fixtureFamily    `yaml:"families" validate:"dive"`
}

type fixtureToggle struct {
	Code      string `yaml:"code" validate:"required"`
	Activated *bool  `yaml:"activated"`
}

func (t fixtureToggle) active() bool {
	return t.Activated == nil || *t.Activated
}

type fixtureCategory struct {
	Code   string `yaml:"code" validate:"required_without=Label"`
	Label  string `yaml:"label"`
	Parent string `yaml:"parent"`
}

type fixtureAttribute struct {
	Code              string   `yaml:"code" validate:"required_without=Label"`
	Label             string   `yaml:"label"`
	Type              string   `yaml:"type" validate:"required"`
	Backend           string   `yaml:"backend" validate:"required"`
	Scopable          bool     `yaml:"scopable"`
	Localizable       bool     `yaml:"localizable"`
	ValidationRule    string   `yaml:"validation_rule"`
	NumberMin         string   `yaml:"number_min" validate:"omitempty,numeric"`
	NumberMax         string   `yaml:"number_max" validate:"omitempty,numeric"`
	DecimalsAllowed   bool     `yaml:"decimals_allowed"`
	DateMin           string   `yaml:"date_min" validate:"omitempty,datetime=2006-01-02"`
	DateMax           string   `yaml:"date_max" validate:"omitempty,datetime=2006-01-02"`
	DefaultMetricUnit string   `yaml:"default_metric_unit"`
	Options           []string `yaml:"options" validate:"dive,required"`
	Group             string   `yaml:"group"`
}

type fixtureFamily struct {
	Code       string   `yaml:"code" validate:"required"`
	Attributes []string `yaml:"attributes" validate:"dive,required"`
}

// FileLoader reads the catalog from a YAML fixture file. The file is read
// once, on first access.
type FileLoader struct {
	path string

	once sync.Once
	data *Data
	err  error
}

// NewFileLoader creates a loader for the fixture at path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) load() (*Data, error) {
	l.once.Do(func() {
		var fx fixture
		if err := config.LoadFile(l.path, &fx); err != nil {
			l.err = fmt.Errorf("load catalog fixture: %w", err)
			return
		}
		l.data, l.err = fx.toData()
		if l.err != nil {
			l.err = fmt.Errorf("catalog fixture %s: %w", l.path, l.err)
		}
	})
	return l.data, l.err
}

// ParseFixture decodes and converts a YAML catalog document.
func ParseFixture(doc []byte) (*Data, error) {
	var fx fixture
	if err := config.Decode(doc, &fx); err != nil {
		return nil, err
	}
	return fx.toData()
}

func (fx *fixture) toData() (*Data, error) {
	if err := validator.Validate(fx); err != nil {
		return nil, err
	}

	d := &Data{}
	for _, l := range fx.Locales {
		d.Locales = append(d.Locales, domain.Locale{Code: l.Code, Activated: l.active()})
	}
	for _, c := range fx.Channels {
		d.Channels = append(d.Channels, domain.Channel{Code: c.Code, Activated: c.active()})
	}
	for _, c := range fx.Currencies {
		d.Currencies = append(d.Currencies, domain.Currency{Code: c.Code, Activated: c.active()})
	}
	for _, c := range fx.Categories {
		d.Categories = append(d.Categories, domain.Category{Code: codeOf(c.Code, c.Label), Parent: c.Parent})
	}
	for _, gt := range fx.GroupTypes {
		d.GroupTypes = append(d.GroupTypes, domain.GroupType{Code: gt})
	}
	for _, a := range fx.Attributes {
		attr, err := a.toDomain()
		if err != nil {
			return nil, err
		}
		d.Attributes = append(d.Attributes, attr)
	}
	for _, f := range fx.Families {
		d.Families = append(d.Families, domain.Family{Code: f.Code, Attributes: f.Attributes})
	}
	return d, nil
}

func (a fixtureAttribute) toDomain() (domain.Attribute, error) {
	attr := domain.Attribute{
		Code:              codeOf(a.Code, a.Label),
		Type:              a.Type,
		Backend:           domain.ParseBackendType(a.Backend),
		Scopable:          a.Scopable,
		Localizable:       a.Localizable,
		ValidationRule:    a.ValidationRule,
		DecimalsAllowed:   a.DecimalsAllowed,
		DefaultMetricUnit: a.DefaultMetricUnit,
		Group:             a.Group,
	}
	for _, o := range a.Options {
		attr.Options = append(attr.Options, slug.Code(o))
	}

	var err error
	if attr.NumberMin, err = parseDecimal(a.NumberMin); err != nil {
		return attr, fmt.Errorf("attribute %s number_min: %w", attr.Code, err)
	}
	if attr.NumberMax, err = parseDecimal(a.NumberMax); err != nil {
		return attr, fmt.Errorf("attribute %s number_max: %w", attr.Code, err)
	}
	if attr.DateMin, err = parseDate(a.DateMin); err != nil {
		return attr, fmt.Errorf("attribute %s date_min: %w", attr.Code, err)
	}
	if attr.DateMax, err = parseDate(a.DateMax); err != nil {
		return attr, fmt.Errorf("attribute %s date_max: %w", attr.Code, err)
	}
	return attr, nil
}

func codeOf(code, label string) string {
	if code != "" {
		return code
	}
	return slug.Code(label)
}

func parseDecimal(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (l *FileLoader) Locales(context.Context) ([]domain.Locale, error) {
	d, err := l.load()
	if err != nil {
		return nil, err
	}
	return d.Locales, nil
}

func (l *FileLoader) Channels(context.Context) ([]domain.Channel, error) {
	d, err := l.load()
	if err != nil {
		return nil, err
	}
	return d.Channels, nil
}

func (l *FileLoader) Currencies(context.Context) ([]domain.Currency, error) {
	d, err := l.load()
	if err != nil {
		return nil, err
	}
	return d.Currencies, nil
}

func (l *FileLoader) Categories(context.Context) ([]domain.Category, error) {
	d, err := l.load()
	if err != nil {
		return nil, err
	}
	return d.Categories, nil
}

func (l *FileLoader) GroupTypes(context.Context) ([]domain.GroupType, error) {
	d, err := l.load()
	if err != nil {
		return nil, err
	}
	return d.GroupTypes, nil
}

func (l *FileLoader) Attributes(context.Context) ([]domain.Attribute, error) {
	d, err := l.load()
	if err != nil {
		return nil, err
	}
	return d.Attributes, nil
}

func (l *FileLoader) Families(context.Context) ([]domain.Family, error) {
	d, err := l.load()
	if err != nil {
		return nil, err
	}
	return d.Families, nil
}
