package catalog

import (
	"context"
	"fmt"

	"github.com/voxcraft3d/voxcraft/storage/db"
)

// LoadFromDB assembles a catalog from the pricing tables. The database is
// the source of truth for a deployment; Default() is the fallback for a
// database that has not been seeded.
func LoadFromDB(ctx context.Context, queries *db.Queries) (*Catalog, error) {
	dbMaterials, err := queries.ListMaterials(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load materials: %w", err)
	}
	if len(dbMaterials) == 0 {
		return nil, fmt.Errorf("no materials in database")
	}

	dbColors, err := queries.ListMaterialColors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load material colors: %w", err)
	}
	colorsByMaterial := make(map[string][]Color)
	for _, c := range dbColors {
		colorsByMaterial[c.MaterialID] = append(colorsByMaterial[c.MaterialID], Color{
			Name:      c.Name,
			Available: c.Available != 0,
		})
	}

	materials := make([]Material, 0, len(dbMaterials))
	for _, m := range dbMaterials {
		materials = append(materials, Material{
			Name:         m.Name,
			PricePerGram: m.PricePerGram,
			DensityGCm3:  m.DensityGCm3,
			Category:     m.Category,
			Colors:       colorsByMaterial[m.ID],
		})
	}

	dbServices, err := queries.ListServiceOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load service options: %w", err)
	}
	services := make([]ServiceOption, 0, len(dbServices))
	for _, s := range dbServices {
		services = append(services, ServiceOption{Key: s.Key, Label: s.Label, Fee: s.Fee})
	}

	settings, err := queries.ListPricingSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing settings: %w", err)
	}
	byKey := make(map[string]float64, len(settings))
	for _, s := range settings {
		byKey[s.Key] = s.Value
	}
	required := []string{
		"labor_fee", "service_fee", "electricity_rate_per_kwh", "printer_wattage",
		"electricity_markup_factor", "student_discount_rate", "discount_ceiling",
		"max_weight_grams", "max_print_hours", "max_upload_bytes",
	}
	for _, key := range required {
		if _, ok := byKey[key]; !ok {
			return nil, fmt.Errorf("missing pricing setting %q", key)
		}
	}

	dbTiers, err := queries.ListDiscountTiers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load discount tiers: %w", err)
	}
	tiers := make([]DiscountTier, 0, len(dbTiers))
	for _, t := range dbTiers {
		tiers = append(tiers, DiscountTier{MinWeightGrams: t.MinWeightGrams, Rate: t.Rate})
	}

	return New(
		materials,
		services,
		Fees{
			Labor:                   byKey["labor_fee"],
			Service:                 byKey["service_fee"],
			ElectricityRatePerKWh:   byKey["electricity_rate_per_kwh"],
			PrinterWattage:          byKey["printer_wattage"],
			ElectricityMarkupFactor: byKey["electricity_markup_factor"],
		},
		Limits{
			MaxWeightGrams: byKey["max_weight_grams"],
			MaxPrintHours:  byKey["max_print_hours"],
			MaxUploadBytes: int64(byKey["max_upload_bytes"]),
		},
		Discounts{
			StudentRate: byKey["student_discount_rate"],
			Ceiling:     byKey["discount_ceiling"],
			VolumeTiers: tiers,
		},
	)
}
