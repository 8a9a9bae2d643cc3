package catalog

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownMaterial = errors.New("unknown material")
	ErrUnknownColor    = errors.New("unknown color")
	ErrUnknownService  = errors.New("unknown service option")
)

// Color is a filament color offered for a material. Colors marked
// unavailable are still listed so the UI can show them as out of stock,
// but they are rejected at validation time.
type Color struct {
	Name      string
	Available bool
}

// Material is a filament type with its per-gram price and color lineup.
// Density is informational only and does not enter the price calculation.
type Material struct {
	Name         string
	PricePerGram float64
	DensityGCm3  float64
	Category     string
	Colors       []Color
}

// Color returns the material's color with the given name.
func (m Material) Color(name string) (Color, error) {
	for _, c := range m.Colors {
		if c.Name == name {
			return c, nil
		}
	}
	return Color{}, fmt.Errorf("%w: %q for material %q", ErrUnknownColor, name, m.Name)
}

// ServiceOption is an optional flat-fee add-on (cleaning, assembly, rush
// delivery, protective packaging). Fees are additive when multiple options
// are selected.
type ServiceOption struct {
	Key   string
	Label string
	Fee   float64
}

// Fees holds the per-order flat fees and electricity parameters.
type Fees struct {
	Labor                   float64
	Service                 float64
	ElectricityRatePerKWh   float64
	PrinterWattage          float64
	ElectricityMarkupFactor float64
}

// Limits bounds user-entered values.
type Limits struct {
	MaxWeightGrams float64
	MaxPrintHours  float64
	MaxUploadBytes int64
}

// DiscountTier applies a discount rate to orders at or above a weight
// threshold. Lower bounds are inclusive.
type DiscountTier struct {
	MinWeightGrams float64
	Rate           float64
}

// Discounts holds the student rate, the volume tiers and the ceiling the
// combined rate is capped at.
type Discounts struct {
	StudentRate float64
	Ceiling     float64
	VolumeTiers []DiscountTier
}

// Catalog is the read-only pricing reference data. It is assembled once at
// startup and never mutated during a session.
type Catalog struct {
	materials []Material
	byName    map[string]int
	services  []ServiceOption
	byKey     map[string]int
	fees      Fees
	limits    Limits
	discounts Discounts
}

// New validates the reference data and builds a catalog. Volume tiers are
// kept sorted by descending weight so the best-matching tier is found first.
func New(materials []Material, services []ServiceOption, fees Fees, limits Limits, discounts Discounts) (*Catalog, error) {
	if len(materials) == 0 {
		return nil, errors.New("catalog: no materials defined")
	}
	byName := make(map[string]int, len(materials))
	for i, m := range materials {
		if m.Name == "" {
			return nil, fmt.Errorf("catalog: material %d has no name", i)
		}
		if m.PricePerGram <= 0 {
			return nil, fmt.Errorf("catalog: material %q has non-positive price per gram", m.Name)
		}
		if _, dup := byName[m.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate material %q", m.Name)
		}
		byName[m.Name] = i
	}

	byKey := make(map[string]int, len(services))
	for i, s := range services {
		if s.Key == "" {
			return nil, fmt.Errorf("catalog: service option %d has no key", i)
		}
		if s.Fee <= 0 {
			return nil, fmt.Errorf("catalog: service option %q has non-positive fee", s.Key)
		}
		if _, dup := byKey[s.Key]; dup {
			return nil, fmt.Errorf("catalog: duplicate service option %q", s.Key)
		}
		byKey[s.Key] = i
	}

	if limits.MaxWeightGrams <= 0 || limits.MaxPrintHours <= 0 {
		return nil, errors.New("catalog: weight and print-time limits must be positive")
	}
	if discounts.Ceiling < 0 || discounts.Ceiling > 1 {
		return nil, fmt.Errorf("catalog: discount ceiling %v out of [0,1]", discounts.Ceiling)
	}

	tiers := make([]DiscountTier, len(discounts.VolumeTiers))
	copy(tiers, discounts.VolumeTiers)
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].MinWeightGrams > tiers[j].MinWeightGrams
	})
	discounts.VolumeTiers = tiers

	return &Catalog{
		materials: materials,
		byName:    byName,
		services:  services,
		byKey:     byKey,
		fees:      fees,
		limits:    limits,
		discounts: discounts,
	}, nil
}

// GetMaterial looks up a material by name.
func (c *Catalog) GetMaterial(name string) (Material, error) {
	i, ok := c.byName[name]
	if !ok {
		return Material{}, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	return c.materials[i], nil
}

// Materials returns all materials in catalog-definition order.
func (c *Catalog) Materials() []Material {
	return c.materials
}

// GetService looks up a service option by key.
func (c *Catalog) GetService(key string) (ServiceOption, error) {
	i, ok := c.byKey[key]
	if !ok {
		return ServiceOption{}, fmt.Errorf("%w: %q", ErrUnknownService, key)
	}
	return c.services[i], nil
}

// Services returns all service options in catalog-definition order.
func (c *Catalog) Services() []ServiceOption {
	return c.services
}

func (c *Catalog) Fees() Fees           { return c.fees }
func (c *Catalog) Limits() Limits       { return c.limits }
func (c *Catalog) Discounts() Discounts { return c.discounts }

// VolumeDiscountRate returns the rate of the highest tier whose threshold
// the given weight meets, or zero when no tier applies.
func (c *Catalog) VolumeDiscountRate(weightGrams float64) float64 {
	for _, t := range c.discounts.VolumeTiers {
		if weightGrams >= t.MinWeightGrams {
			return t.Rate
		}
	}
	return 0
}
