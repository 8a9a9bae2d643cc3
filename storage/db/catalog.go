package db

import "context"

const listMaterials = `
SELECT id, name, price_per_gram, density_g_cm3, category, position
FROM materials
ORDER BY position, name
`

func (q *Queries) ListMaterials(ctx context.Context) ([]Material, error) {
	rows, err := q.db.QueryContext(ctx, listMaterials)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Material
	for rows.Next() {
		var i Material
		if err := rows.Scan(&i.ID, &i.Name, &i.PricePerGram, &i.DensityGCm3, &i.Category, &i.Position); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listMaterialColors = `
SELECT id, material_id, name, available, position
FROM material_colors
ORDER BY material_id, position, name
`

func (q *Queries) ListMaterialColors(ctx context.Context) ([]MaterialColor, error) {
	rows, err := q.db.QueryContext(ctx, listMaterialColors)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MaterialColor
	for rows.Next() {
		var i MaterialColor
		if err := rows.Scan(&i.ID, &i.MaterialID, &i.Name, &i.Available, &i.Position); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listServiceOptions = `
SELECT id, key, label, fee, position
FROM service_options
ORDER BY position, key
`

func (q *Queries) ListServiceOptions(ctx context.Context) ([]ServiceOption, error) {
	rows, err := q.db.QueryContext(ctx, listServiceOptions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ServiceOption
	for rows.Next() {
		var i ServiceOption
		if err := rows.Scan(&i.ID, &i.Key, &i.Label, &i.Fee, &i.Position); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listPricingSettings = `
SELECT key, value
FROM pricing_settings
ORDER BY key
`

func (q *Queries) ListPricingSettings(ctx context.Context) ([]PricingSetting, error) {
	rows, err := q.db.QueryContext(ctx, listPricingSettings)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PricingSetting
	for rows.Next() {
		var i PricingSetting
		if err := rows.Scan(&i.Key, &i.Value); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listDiscountTiers = `
SELECT id, min_weight_grams, rate
FROM discount_tiers
ORDER BY min_weight_grams DESC
`

func (q *Queries) ListDiscountTiers(ctx context.Context) ([]DiscountTier, error) {
	rows, err := q.db.QueryContext(ctx, listDiscountTiers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DiscountTier
	for rows.Next() {
		var i DiscountTier
		if err := rows.Scan(&i.ID, &i.MinWeightGrams, &i.Rate); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
