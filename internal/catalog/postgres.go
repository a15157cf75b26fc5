package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/catalog-datagen/internal/domain"
	"github.com/utafrali/catalog-datagen/pkg/database"
)

const (
	queryLocales = `SELECT code, is_activated FROM pim_catalog_locale ORDER BY id`

	// Channels carry no activation flag in the PIM schema; all are active.
	queryChannels = `SELECT code FROM pim_catalog_channel ORDER BY id`

	queryCurrencies = `SELECT code, is_activated FROM pim_catalog_currency ORDER BY id`

	queryCategories = `SELECT c.code, COALESCE(p.code, '')
		FROM pim_catalog_category c
		LEFT JOIN pim_catalog_category p ON p.id = c.parent_id
		ORDER BY c.root, c.lft`

	queryGroupTypes = `SELECT code FROM pim_catalog_group_type ORDER BY id`

	queryAttributes = `SELECT a.code, a.attribute_type, a.backend_type,
			a.is_scopable, a.is_localizable, COALESCE(a.validation_rule, ''),
			a.number_min::text, a.number_max::text, COALESCE(a.decimals_allowed, false),
			to_char(a.date_min, 'YYYY-MM-DD'), to_char(a.date_max, 'YYYY-MM-DD'),
			COALESCE(a.default_metric_unit, ''), COALESCE(g.code, '')
		FROM pim_catalog_attribute a
		LEFT JOIN pim_catalog_attribute_group g ON g.id = a.group_id
		ORDER BY a.sort_order, a.id`

	queryAttributeOptions = `SELECT a.code, o.code
		FROM pim_catalog_attribute_option o
		JOIN pim_catalog_attribute a ON a.id = o.attribute_id
		ORDER BY a.id, o.sort_order, o.id`

	queryFamilies = `SELECT f.code, a.code
		FROM pim_catalog_family f
		LEFT JOIN pim_catalog_family_attribute fa ON fa.family_id = f.id
		LEFT JOIN pim_catalog_attribute a ON a.id = fa.attribute_id
		ORDER BY f.id, a.sort_order, a.id`
)

// PostgresLoader reads the catalog from a PIM database.
type PostgresLoader struct {
	db     database.DBTX
	tracer *database.QueryTracer
}

// NewPostgresLoader creates a loader over db. tracer may be nil.
func NewPostgresLoader(db database.DBTX, tracer *database.QueryTracer) *PostgresLoader {
	return &PostgresLoader{db: db, tracer: tracer}
}

// list runs query and scans every row with scan, inside a traced span.
func list[T any](ctx context.Context, l *PostgresLoader, op, query string, scan func(pgx.Rows) (T, error)) (out []T, err error) {
	ctx, end := l.tracer.Trace(ctx, op, query)
	defer func() { end(len(out), err) }()

	rows, err := l.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (l *PostgresLoader) Locales(ctx context.Context) ([]domain.Locale, error) {
	return list(ctx, l, "ListLocales", queryLocales, func(rows pgx.Rows) (domain.Locale, error) {
		var loc domain.Locale
		err := rows.Scan(&loc.Code, &loc.Activated)
		return loc, err
	})
}

func (l *PostgresLoader) Channels(ctx context.Context) ([]domain.Channel, error) {
	return list(ctx, l, "ListChannels", queryChannels, func(rows pgx.Rows) (domain.Channel, error) {
		ch := domain.Channel{Activated: true}
		err := rows.Scan(&ch.Code)
		return ch, err
	})
}

func (l *PostgresLoader) Currencies(ctx context.Context) ([]domain.Currency, error) {
	return list(ctx, l, "ListCurrencies", queryCurrencies, func(rows pgx.Rows) (domain.Currency, error) {
		var cur domain.Currency
		err := rows.Scan(&cur.Code, &cur.Activated)
		return cur, err
	})
}

func (l *PostgresLoader) Categories(ctx context.Context) ([]domain.Category, error) {
	return list(ctx, l, "ListCategories", queryCategories, func(rows pgx.Rows) (domain.Category, error) {
		var cat domain.Category
		err := rows.Scan(&cat.Code, &cat.Parent)
		return cat, err
	})
}

func (l *PostgresLoader) GroupTypes(ctx context.Context) ([]domain.GroupType, error) {
	return list(ctx, l, "ListGroupTypes", queryGroupTypes, func(rows pgx.Rows) (domain.GroupType, error) {
		var gt domain.GroupType
		err := rows.Scan(&gt.Code)
		return gt, err
	})
}

type attributeRow struct {
	attr                 domain.Attribute
	backend              string
	numberMin, numberMax *string
	dateMin, dateMax     *string
}

// Attributes loads attribute metadata, then attaches option codes from a
// second query.
func (l *PostgresLoader) Attributes(ctx context.Context) ([]domain.Attribute, error) {
	rows, err := list(ctx, l, "ListAttributes", queryAttributes, func(rows pgx.Rows) (attributeRow, error) {
		var r attributeRow
		err := rows.Scan(
			&r.attr.Code, &r.attr.Type, &r.backend,
			&r.attr.Scopable, &r.attr.Localizable, &r.attr.ValidationRule,
			&r.numberMin, &r.numberMax, &r.attr.DecimalsAllowed,
			&r.dateMin, &r.dateMax,
			&r.attr.DefaultMetricUnit, &r.attr.Group,
		)
		return r, err
	})
	if err != nil {
		return nil, err
	}

	type option struct{ attribute, code string }
	options, err := list(ctx, l, "ListAttributeOptions", queryAttributeOptions, func(rows pgx.Rows) (option, error) {
		var o option
		err := rows.Scan(&o.attribute, &o.code)
		return o, err
	})
	if err != nil {
		return nil, err
	}
	byAttribute := make(map[string][]string)
	for _, o := range options {
		byAttribute[o.attribute] = append(byAttribute[o.attribute], o.code)
	}

	attrs := make([]domain.Attribute, 0, len(rows))
	for _, r := range rows {
		a := r.attr
		a.Backend = domain.ParseBackendType(r.backend)
		a.Options = byAttribute[a.Code]
		if a.NumberMin, err = parseDecimal(deref(r.numberMin)); err != nil {
			return nil, fmt.Errorf("attribute %s number_min: %w", a.Code, err)
		}
		if a.NumberMax, err = parseDecimal(deref(r.numberMax)); err != nil {
			return nil, fmt.Errorf("attribute %s number_max: %w", a.Code, err)
		}
		if a.DateMin, err = parseDate(deref(r.dateMin)); err != nil {
			return nil, fmt.Errorf("attribute %s date_min: %w", a.Code, err)
		}
		if a.DateMax, err = parseDate(deref(r.dateMax)); err != nil {
			return nil, fmt.Errorf("attribute %s date_max: %w", a.Code, err)
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}

// Families folds the family/attribute join into one Family per code,
// keeping families that have no attributes.
func (l *PostgresLoader) Families(ctx context.Context) ([]domain.Family, error) {
	type pair struct {
		family    string
		attribute *string
	}
	pairs, err := list(ctx, l, "ListFamilies", queryFamilies, func(rows pgx.Rows) (pair, error) {
		var p pair
		err := rows.Scan(&p.family, &p.attribute)
		return p, err
	})
	if err != nil {
		return nil, err
	}

	var families []domain.Family
	index := make(map[string]int)
	for _, p := range pairs {
		i, ok := index[p.family]
		if !ok {
			i = len(families)
			index[p.family] = i
			families = append(families, domain.Family{Code: p.family})
		}
		if p.attribute != nil {
			families[i].Attributes = append(families[i].Attributes, *p.attribute)
		}
	}
	return families, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
