package quote

import (
	"fmt"

	"github.com/voxcraft3d/voxcraft/internal/catalog"
)

// ServiceFee is one selected add-on, itemized in the breakdown for
// transparency.
type ServiceFee struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Fee   float64 `json:"fee"`
}

// Breakdown is the derived, read-only pricing result for a valid Spec.
// Values are unrounded; rounding to currency minor units happens only at
// presentation time so intermediate steps never compound rounding error.
type Breakdown struct {
	MaterialCost         float64      `json:"material_cost"`
	ElectricitySurcharge float64      `json:"electricity_surcharge"`
	FlatFees             float64      `json:"flat_fees"`
	ServiceFees          []ServiceFee `json:"service_fees"`
	ServiceFeeTotal      float64      `json:"service_fee_total"`
	Subtotal             float64      `json:"subtotal"`
	VolumeDiscountRate   float64      `json:"volume_discount_rate"`
	StudentDiscountRate  float64      `json:"student_discount_rate"`
	DiscountRate         float64      `json:"discount_rate"`
	Discount             float64      `json:"discount"`
	Total                float64      `json:"total"`
}

// ValidateSpec checks the full specification against the catalog.
//
// Range and missing-field violations come back as FieldErrors so the UI can
// show them inline. Unknown material/color names wrap the catalog sentinels
// instead: those mean the client holds stale or tampered state and the
// caller should reset the wizard rather than ask the user to correct a
// field.
func ValidateSpec(spec Spec, cat *catalog.Catalog) error {
	errs := FieldErrors{}

	var material catalog.Material
	if spec.Material == "" {
		errs["material"] = "material is required"
	} else {
		var err error
		material, err = cat.GetMaterial(spec.Material)
		if err != nil {
			return err
		}
	}

	if spec.Color == "" {
		errs["color"] = "color is required"
	} else if spec.Material != "" && errs["material"] == "" {
		color, err := material.Color(spec.Color)
		if err != nil {
			return err
		}
		if !color.Available {
			errs["color"] = fmt.Sprintf("%s is currently out of stock", spec.Color)
		}
	}

	limits := cat.Limits()
	if spec.WeightGrams <= 0 {
		errs["weight_grams"] = "weight must be greater than zero"
	} else if spec.WeightGrams > limits.MaxWeightGrams {
		errs["weight_grams"] = fmt.Sprintf("weight must not exceed %.0f g", limits.MaxWeightGrams)
	}

	if spec.PrintTimeHours <= 0 {
		errs["print_time_hours"] = "print time must be greater than zero"
	} else if spec.PrintTimeHours > limits.MaxPrintHours {
		errs["print_time_hours"] = fmt.Sprintf("print time must not exceed %.0f hours", limits.MaxPrintHours)
	}

	for key, selected := range spec.Services {
		if !selected {
			continue
		}
		if _, err := cat.GetService(key); err != nil {
			errs["services"] = fmt.Sprintf("unknown service option %q", key)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ComputeBreakdown prices a specification against the catalog. It is a pure
// function: no I/O, no hidden state, identical input yields an identical
// breakdown. Callers re-invoke it on every input change instead of patching
// a previous result.
func ComputeBreakdown(spec Spec, cat *catalog.Catalog) (Breakdown, error) {
	if err := ValidateSpec(spec, cat); err != nil {
		return Breakdown{}, err
	}

	material, err := cat.GetMaterial(spec.Material)
	if err != nil {
		return Breakdown{}, err
	}

	fees := cat.Fees()

	materialCost := spec.WeightGrams * material.PricePerGram

	// The markup on electricity recovers machine overhead, not just the
	// raw energy cost.
	electricityKWh := spec.PrintTimeHours * (fees.PrinterWattage / 1000)
	electricityCost := electricityKWh * fees.ElectricityRatePerKWh
	electricitySurcharge := electricityCost * fees.ElectricityMarkupFactor

	flatFees := fees.Labor + fees.Service

	var serviceFees []ServiceFee
	var serviceFeeTotal float64
	for _, svc := range cat.Services() {
		if !spec.Services[svc.Key] {
			continue
		}
		serviceFees = append(serviceFees, ServiceFee{Key: svc.Key, Label: svc.Label, Fee: svc.Fee})
		serviceFeeTotal += svc.Fee
	}

	subtotal := materialCost + electricitySurcharge + flatFees + serviceFeeTotal

	discounts := cat.Discounts()
	volumeRate := cat.VolumeDiscountRate(spec.WeightGrams)
	studentRate := 0.0
	if spec.StudentDiscount {
		studentRate = discounts.StudentRate
	}
	rate := volumeRate + studentRate
	if rate > discounts.Ceiling {
		rate = discounts.Ceiling
	}

	discount := subtotal * rate
	total := subtotal - discount

	return Breakdown{
		MaterialCost:         materialCost,
		ElectricitySurcharge: electricitySurcharge,
		FlatFees:             flatFees,
		ServiceFees:          serviceFees,
		ServiceFeeTotal:      serviceFeeTotal,
		Subtotal:             subtotal,
		VolumeDiscountRate:   volumeRate,
		StudentDiscountRate:  studentRate,
		DiscountRate:         rate,
		Discount:             discount,
		Total:                total,
	}, nil
}
