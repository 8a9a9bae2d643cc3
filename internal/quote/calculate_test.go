package quote

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/voxcraft3d/voxcraft/internal/catalog"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func validSpec() Spec {
	return Spec{
		Material:       "PLA Basic",
		Color:          "Black",
		WeightGrams:    50,
		PrintTimeHours: 2,
		Services:       map[string]bool{},
	}
}

func TestComputeBreakdown_BaseScenario(t *testing.T) {
	// PLA Basic at 5.00/g, 50 g, 2 h on a 160 W printer at 12.16/kWh with
	// 2x markup, labor 150 + service 50, no add-ons, no discounts.
	cat := catalog.Default()

	b, err := ComputeBreakdown(validSpec(), cat)
	if err != nil {
		t.Fatalf("ComputeBreakdown returned error: %v", err)
	}

	nearlyEqual(t, "MaterialCost", b.MaterialCost, 250)
	nearlyEqual(t, "ElectricitySurcharge", b.ElectricitySurcharge, 7.7824)
	nearlyEqual(t, "FlatFees", b.FlatFees, 200)
	nearlyEqual(t, "ServiceFeeTotal", b.ServiceFeeTotal, 0)
	nearlyEqual(t, "Subtotal", b.Subtotal, 457.7824)
	nearlyEqual(t, "Discount", b.Discount, 0)
	nearlyEqual(t, "Total", b.Total, 457.7824)
}

func TestComputeBreakdown_VolumePlusStudent(t *testing.T) {
	// 600 g hits the 500 g+ tier (15%); student adds 5%; combined 20%
	// applied to the subtotal, well under the 50% ceiling.
	cat := catalog.Default()
	spec := validSpec()
	spec.WeightGrams = 600
	spec.StudentDiscount = true

	b, err := ComputeBreakdown(spec, cat)
	if err != nil {
		t.Fatalf("ComputeBreakdown returned error: %v", err)
	}

	nearlyEqual(t, "MaterialCost", b.MaterialCost, 3000)
	nearlyEqual(t, "Subtotal", b.Subtotal, 3207.7824)
	nearlyEqual(t, "DiscountRate", b.DiscountRate, 0.20)
	nearlyEqual(t, "Discount", b.Discount, 3207.7824*0.20)
	nearlyEqual(t, "Total", b.Total, 3207.7824*0.80)
}

func TestComputeBreakdown_TierBoundaryInclusive(t *testing.T) {
	cat := catalog.Default()

	at99 := validSpec()
	at99.WeightGrams = 99
	b99, err := ComputeBreakdown(at99, cat)
	if err != nil {
		t.Fatalf("ComputeBreakdown(99g): %v", err)
	}
	nearlyEqual(t, "99g volume rate", b99.VolumeDiscountRate, 0)

	at100 := validSpec()
	at100.WeightGrams = 100
	b100, err := ComputeBreakdown(at100, cat)
	if err != nil {
		t.Fatalf("ComputeBreakdown(100g): %v", err)
	}
	nearlyEqual(t, "100g volume rate", b100.VolumeDiscountRate, 0.05)
}

func TestComputeBreakdown_DiscountCeiling(t *testing.T) {
	// A catalog whose top tier plus the student rate would exceed the
	// ceiling; the combined rate must be capped.
	cat, err := catalog.New(
		[]catalog.Material{{
			Name:         "PLA Basic",
			PricePerGram: 5,
			Colors:       []catalog.Color{{Name: "Black", Available: true}},
		}},
		nil,
		catalog.Default().Fees(),
		catalog.Default().Limits(),
		catalog.Discounts{
			StudentRate: 0.05,
			Ceiling:     0.50,
			VolumeTiers: []catalog.DiscountTier{{MinWeightGrams: 100, Rate: 0.48}},
		},
	)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}

	spec := validSpec()
	spec.WeightGrams = 200
	spec.StudentDiscount = true

	b, err := ComputeBreakdown(spec, cat)
	if err != nil {
		t.Fatalf("ComputeBreakdown: %v", err)
	}
	nearlyEqual(t, "capped rate", b.DiscountRate, 0.50)
	nearlyEqual(t, "Total", b.Total, b.Subtotal*0.50)
	if b.Total < 0 {
		t.Errorf("Total = %v, must never be negative", b.Total)
	}
}

func TestComputeBreakdown_ServiceFeesItemizedAndAdditive(t *testing.T) {
	cat := catalog.Default()
	spec := validSpec()
	spec.Services = map[string]bool{"cleaning": true, "rush": true, "assembly": false}

	b, err := ComputeBreakdown(spec, cat)
	if err != nil {
		t.Fatalf("ComputeBreakdown: %v", err)
	}

	nearlyEqual(t, "ServiceFeeTotal", b.ServiceFeeTotal, 400)
	if len(b.ServiceFees) != 2 {
		t.Fatalf("ServiceFees itemized %d entries, want 2", len(b.ServiceFees))
	}
	// Itemization follows catalog order.
	if b.ServiceFees[0].Key != "cleaning" || b.ServiceFees[1].Key != "rush" {
		t.Errorf("ServiceFees order = [%s %s], want [cleaning rush]",
			b.ServiceFees[0].Key, b.ServiceFees[1].Key)
	}
	nearlyEqual(t, "Subtotal", b.Subtotal, 457.7824+400)
}

func TestComputeBreakdown_TotalEqualsSubtotalMinusDiscount(t *testing.T) {
	cat := catalog.Default()

	weights := []float64{1, 50, 99, 100, 299, 300, 499, 500, 600, 5000}
	for _, w := range weights {
		spec := validSpec()
		spec.WeightGrams = w
		spec.StudentDiscount = true

		b, err := ComputeBreakdown(spec, cat)
		if err != nil {
			t.Fatalf("ComputeBreakdown(%vg): %v", w, err)
		}
		nearlyEqual(t, "identity", b.Total, b.Subtotal-b.Discount)
		if b.Total < 0 {
			t.Errorf("Total(%vg) = %v, must be >= 0", w, b.Total)
		}
	}
}

func TestComputeBreakdown_MonotonicInWeightWithinTier(t *testing.T) {
	cat := catalog.Default()

	// Within a discount-free sub-range the total is strictly increasing;
	// material cost is strictly increasing everywhere.
	var prevTotal, prevMaterial float64
	for i, w := range []float64{100, 150, 200, 250, 299} {
		spec := validSpec()
		spec.WeightGrams = w
		b, err := ComputeBreakdown(spec, cat)
		if err != nil {
			t.Fatalf("ComputeBreakdown(%vg): %v", w, err)
		}
		if i > 0 {
			if b.Total <= prevTotal {
				t.Errorf("Total not strictly increasing: %v g -> %v, previous %v", w, b.Total, prevTotal)
			}
			if b.MaterialCost <= prevMaterial {
				t.Errorf("MaterialCost not strictly increasing at %v g", w)
			}
		}
		prevTotal = b.Total
		prevMaterial = b.MaterialCost
	}
}

func TestComputeBreakdown_MonotonicInPrintTime(t *testing.T) {
	cat := catalog.Default()

	var prev float64
	for i, h := range []float64{0.5, 1, 2, 8, 48} {
		spec := validSpec()
		spec.PrintTimeHours = h
		b, err := ComputeBreakdown(spec, cat)
		if err != nil {
			t.Fatalf("ComputeBreakdown(%vh): %v", h, err)
		}
		if i > 0 && b.Total <= prev {
			t.Errorf("Total not strictly increasing in print time at %v h", h)
		}
		prev = b.Total
	}
}

func TestComputeBreakdown_Idempotent(t *testing.T) {
	cat := catalog.Default()
	spec := validSpec()
	spec.Services = map[string]bool{"cleaning": true}
	spec.StudentDiscount = true

	first, err := ComputeBreakdown(spec, cat)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := ComputeBreakdown(spec, cat)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("breakdowns differ between identical calls:\n%+v\n%+v", first, second)
	}
}

func TestComputeBreakdown_Validation(t *testing.T) {
	cat := catalog.Default()

	tests := []struct {
		name      string
		mutate    func(*Spec)
		wantField string
	}{
		{"zero weight", func(s *Spec) { s.WeightGrams = 0 }, "weight_grams"},
		{"negative weight", func(s *Spec) { s.WeightGrams = -5 }, "weight_grams"},
		{"weight above max", func(s *Spec) { s.WeightGrams = 5001 }, "weight_grams"},
		{"zero time", func(s *Spec) { s.PrintTimeHours = 0 }, "print_time_hours"},
		{"time above max", func(s *Spec) { s.PrintTimeHours = 48.5 }, "print_time_hours"},
		{"missing material", func(s *Spec) { s.Material = "" }, "material"},
		{"missing color", func(s *Spec) { s.Color = "" }, "color"},
		{"out of stock color", func(s *Spec) { s.Color = "Green" }, "color"},
		{"unknown service", func(s *Spec) { s.Services = map[string]bool{"gilding": true} }, "services"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(&spec)

			_, err := ComputeBreakdown(spec, cat)
			var fieldErrs FieldErrors
			if !errors.As(err, &fieldErrs) {
				t.Fatalf("error = %v, want FieldErrors", err)
			}
			if _, ok := fieldErrs[tt.wantField]; !ok {
				t.Errorf("FieldErrors = %v, want key %q", fieldErrs, tt.wantField)
			}
		})
	}
}

func TestComputeBreakdown_UnknownMaterialAndColor(t *testing.T) {
	cat := catalog.Default()

	spec := validSpec()
	spec.Material = "Unobtainium"
	_, err := ComputeBreakdown(spec, cat)
	if !errors.Is(err, catalog.ErrUnknownMaterial) {
		t.Errorf("unknown material error = %v, want ErrUnknownMaterial", err)
	}

	// A color that belongs to another material is a lookup failure, not a
	// correctable field error.
	spec = validSpec()
	spec.Color = "Gold"
	_, err = ComputeBreakdown(spec, cat)
	if !errors.Is(err, catalog.ErrUnknownColor) {
		t.Errorf("foreign color error = %v, want ErrUnknownColor", err)
	}
}
