package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/voxcraft3d/voxcraft/storage"
)

func TestGetMaterial(t *testing.T) {
	c := Default()

	m, err := c.GetMaterial("PLA Basic")
	if err != nil {
		t.Fatalf("GetMaterial(PLA Basic) returned error: %v", err)
	}
	if m.PricePerGram != 5.00 {
		t.Errorf("PLA Basic price per gram = %v, want 5.00", m.PricePerGram)
	}

	_, err = c.GetMaterial("Unobtainium")
	if !errors.Is(err, ErrUnknownMaterial) {
		t.Errorf("GetMaterial(Unobtainium) error = %v, want ErrUnknownMaterial", err)
	}
}

func TestMaterialsOrderIsStable(t *testing.T) {
	c := Default()
	want := []string{"PLA Basic", "PETG", "ABS", "PLA Silk", "TPU Flex"}

	materials := c.Materials()
	if len(materials) != len(want) {
		t.Fatalf("Materials() returned %d materials, want %d", len(materials), len(want))
	}
	for i, name := range want {
		if materials[i].Name != name {
			t.Errorf("Materials()[%d] = %q, want %q", i, materials[i].Name, name)
		}
	}
}

func TestMaterialColorLookup(t *testing.T) {
	c := Default()
	m, _ := c.GetMaterial("PLA Basic")

	green, err := m.Color("Green")
	if err != nil {
		t.Fatalf("Color(Green) returned error: %v", err)
	}
	if green.Available {
		t.Error("Green should be marked unavailable")
	}

	_, err = m.Color("Magenta")
	if !errors.Is(err, ErrUnknownColor) {
		t.Errorf("Color(Magenta) error = %v, want ErrUnknownColor", err)
	}
}

func TestVolumeDiscountRate(t *testing.T) {
	c := Default()

	tests := []struct {
		name   string
		weight float64
		want   float64
	}{
		{"below first tier", 99, 0},
		{"first tier lower bound inclusive", 100, 0.05},
		{"inside first tier", 299, 0.05},
		{"second tier lower bound", 300, 0.10},
		{"top tier", 600, 0.15},
		{"far above top tier", 5000, 0.15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.VolumeDiscountRate(tt.weight); got != tt.want {
				t.Errorf("VolumeDiscountRate(%v) = %v, want %v", tt.weight, got, tt.want)
			}
		})
	}
}

func TestNewRejectsBadData(t *testing.T) {
	fees := Default().Fees()
	limits := Default().Limits()
	discounts := Default().Discounts()

	tests := []struct {
		name      string
		materials []Material
		services  []ServiceOption
	}{
		{"no materials", nil, nil},
		{"zero price", []Material{{Name: "Bad", PricePerGram: 0}}, nil},
		{"duplicate material", []Material{
			{Name: "PLA", PricePerGram: 1},
			{Name: "PLA", PricePerGram: 2},
		}, nil},
		{"zero fee service", []Material{{Name: "PLA", PricePerGram: 1}},
			[]ServiceOption{{Key: "rush", Fee: 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.materials, tt.services, fees, limits, discounts); err == nil {
				t.Error("New() accepted invalid catalog data")
			}
		})
	}
}

func TestTiersSortedHighestFirst(t *testing.T) {
	c, err := New(
		[]Material{{Name: "PLA", PricePerGram: 1}},
		nil,
		Default().Fees(),
		Default().Limits(),
		Discounts{
			Ceiling: 0.5,
			VolumeTiers: []DiscountTier{
				{MinWeightGrams: 100, Rate: 0.05},
				{MinWeightGrams: 500, Rate: 0.15},
				{MinWeightGrams: 300, Rate: 0.10},
			},
		},
	)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	tiers := c.Discounts().VolumeTiers
	for i := 1; i < len(tiers); i++ {
		if tiers[i].MinWeightGrams > tiers[i-1].MinWeightGrams {
			t.Errorf("tiers not sorted descending: %v before %v", tiers[i-1], tiers[i])
		}
	}
	// Heaviest tier wins even though it was defined out of order.
	if got := c.VolumeDiscountRate(600); got != 0.15 {
		t.Errorf("VolumeDiscountRate(600) = %v, want 0.15", got)
	}
}

func TestLoadFromDBMatchesSeedData(t *testing.T) {
	_, queries, cleanup, err := storage.NewTestDB()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer cleanup()

	c, err := LoadFromDB(context.Background(), queries)
	if err != nil {
		t.Fatalf("LoadFromDB() returned error: %v", err)
	}

	def := Default()
	if len(c.Materials()) != len(def.Materials()) {
		t.Errorf("loaded %d materials, want %d", len(c.Materials()), len(def.Materials()))
	}
	if c.Fees() != def.Fees() {
		t.Errorf("loaded fees %+v, want %+v", c.Fees(), def.Fees())
	}
	if c.Limits() != def.Limits() {
		t.Errorf("loaded limits %+v, want %+v", c.Limits(), def.Limits())
	}
	if got := c.VolumeDiscountRate(600); got != 0.15 {
		t.Errorf("VolumeDiscountRate(600) = %v, want 0.15", got)
	}

	m, err := c.GetMaterial("PLA Basic")
	if err != nil {
		t.Fatalf("GetMaterial(PLA Basic): %v", err)
	}
	if len(m.Colors) != 5 {
		t.Errorf("PLA Basic has %d colors, want 5", len(m.Colors))
	}
}
