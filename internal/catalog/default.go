package catalog

// Default returns the canonical built-in catalog. It is used when the
// database has no pricing rows yet (fresh install) and by tests.
//
// The earlier site shipped two conflicting constant sets; these values are
// the set confirmed with the shop owner.
func Default() *Catalog {
	materials := []Material{
		{
			Name:         "PLA Basic",
			PricePerGram: 5.00,
			DensityGCm3:  1.24,
			Category:     "standard",
			Colors: []Color{
				{Name: "Black", Available: true},
				{Name: "White", Available: true},
				{Name: "Red", Available: true},
				{Name: "Blue", Available: true},
				{Name: "Green", Available: false},
			},
		},
		{
			Name:         "PETG",
			PricePerGram: 6.50,
			DensityGCm3:  1.27,
			Category:     "standard",
			Colors: []Color{
				{Name: "Black", Available: true},
				{Name: "Clear", Available: true},
				{Name: "Orange", Available: false},
			},
		},
		{
			Name:         "ABS",
			PricePerGram: 6.00,
			DensityGCm3:  1.04,
			Category:     "standard",
			Colors: []Color{
				{Name: "Black", Available: true},
				{Name: "White", Available: true},
			},
		},
		{
			Name:         "PLA Silk",
			PricePerGram: 8.00,
			DensityGCm3:  1.24,
			Category:     "premium",
			Colors: []Color{
				{Name: "Gold", Available: true},
				{Name: "Silver", Available: true},
				{Name: "Copper", Available: false},
			},
		},
		{
			Name:         "TPU Flex",
			PricePerGram: 9.50,
			DensityGCm3:  1.21,
			Category:     "premium",
			Colors: []Color{
				{Name: "Black", Available: true},
				{Name: "Red", Available: true},
			},
		},
	}

	services := []ServiceOption{
		{Key: "cleaning", Label: "Support removal & cleaning", Fee: 100},
		{Key: "assembly", Label: "Assembly & gluing", Fee: 200},
		{Key: "rush", Label: "Rush delivery", Fee: 300},
		{Key: "packaging", Label: "Protective packaging", Fee: 50},
	}

	fees := Fees{
		Labor:                   150,
		Service:                 50,
		ElectricityRatePerKWh:   12.16,
		PrinterWattage:          160,
		ElectricityMarkupFactor: 2,
	}

	limits := Limits{
		MaxWeightGrams: 5000,
		MaxPrintHours:  48,
		MaxUploadBytes: 100 << 20, // 100 MB
	}

	discounts := Discounts{
		StudentRate: 0.05,
		Ceiling:     0.50,
		VolumeTiers: []DiscountTier{
			{MinWeightGrams: 100, Rate: 0.05},
			{MinWeightGrams: 300, Rate: 0.10},
			{MinWeightGrams: 500, Rate: 0.15},
		},
	}

	c, err := New(materials, services, fees, limits, discounts)
	if err != nil {
		// The built-in data is validated by tests; this is unreachable.
		panic(err)
	}
	return c
}
