package quote

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/voxcraft3d/voxcraft/internal/catalog"
)

// Wizard stages. The flow is linear but resumable: backward navigation is
// always allowed, forward jumps only across stages already completed.
const (
	StageSetup   = 1 // file metadata, material, color
	StageDetails = 2 // weight, print time, add-on services
	StageReview  = 3 // computed breakdown, contact details
)

// Wizard tracks the visitor's progress through the quote flow. It owns the
// in-progress Spec; validation failures block forward progress but never
// discard entered values.
type Wizard struct {
	Stage     int
	Spec      Spec
	File      *FileMeta
	completed map[int]bool
}

func NewWizard() *Wizard {
	return &Wizard{
		Stage:     StageSetup,
		Spec:      Spec{Services: map[string]bool{}},
		completed: map[int]bool{},
	}
}

// RestoreWizard rebuilds a wizard from persisted draft state.
func RestoreWizard(stage int, completedStages string, spec Spec, file *FileMeta) *Wizard {
	if stage < StageSetup || stage > StageReview {
		stage = StageSetup
	}
	if spec.Services == nil {
		spec.Services = map[string]bool{}
	}
	w := &Wizard{
		Stage:     stage,
		Spec:      spec,
		File:      file,
		completed: map[int]bool{},
	}
	for _, part := range strings.Split(completedStages, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && n >= StageSetup && n <= StageReview {
			w.completed[n] = true
		}
	}
	return w
}

// CompletedStages encodes the completed-stage set for persistence.
func (w *Wizard) CompletedStages() string {
	stages := make([]int, 0, len(w.completed))
	for s, done := range w.completed {
		if done {
			stages = append(stages, s)
		}
	}
	sort.Ints(stages)
	parts := make([]string, len(stages))
	for i, s := range stages {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

// SetMaterial selects a material. A previously selected color never
// survives a material change: it may not exist for the new material.
// Weight, time and services are kept.
func (w *Wizard) SetMaterial(name string) {
	if name != w.Spec.Material {
		w.Spec.Color = ""
	}
	w.Spec.Material = name
}

// AttachFile records upload metadata. The file itself is never parsed.
func (w *Wizard) AttachFile(name string, sizeBytes int64) {
	w.File = &FileMeta{Name: name, SizeBytes: sizeBytes}
}

// Completed reports whether a stage has been validated at least once.
func (w *Wizard) Completed(stage int) bool {
	return w.completed[stage]
}

// ValidateStage checks the subset of the specification a stage gates on.
func (w *Wizard) ValidateStage(stage int, cat *catalog.Catalog) error {
	switch stage {
	case StageSetup:
		errs := FieldErrors{}
		if w.File == nil {
			errs["file"] = "a model file is required"
		} else if w.File.SizeBytes <= 0 {
			errs["file"] = "uploaded file is empty"
		} else if max := cat.Limits().MaxUploadBytes; w.File.SizeBytes > max {
			errs["file"] = fmt.Sprintf("file exceeds the %d MB limit", max>>20)
		}
		if w.Spec.Material == "" {
			errs["material"] = "material is required"
		} else {
			material, err := cat.GetMaterial(w.Spec.Material)
			if err != nil {
				return err
			}
			if w.Spec.Color == "" {
				errs["color"] = "color is required"
			} else {
				color, err := material.Color(w.Spec.Color)
				if err != nil {
					return err
				}
				if !color.Available {
					errs["color"] = fmt.Sprintf("%s is currently out of stock", w.Spec.Color)
				}
			}
		}
		if len(errs) > 0 {
			return errs
		}
		return nil

	case StageDetails:
		errs := FieldErrors{}
		limits := cat.Limits()
		if w.Spec.WeightGrams <= 0 {
			errs["weight_grams"] = "weight must be greater than zero"
		} else if w.Spec.WeightGrams > limits.MaxWeightGrams {
			errs["weight_grams"] = fmt.Sprintf("weight must not exceed %.0f g", limits.MaxWeightGrams)
		}
		if w.Spec.PrintTimeHours <= 0 {
			errs["print_time_hours"] = "print time must be greater than zero"
		} else if w.Spec.PrintTimeHours > limits.MaxPrintHours {
			errs["print_time_hours"] = fmt.Sprintf("print time must not exceed %.0f hours", limits.MaxPrintHours)
		}
		if len(errs) > 0 {
			return errs
		}
		return nil

	case StageReview:
		_, err := ComputeBreakdown(w.Spec, cat)
		return err

	default:
		return fmt.Errorf("unknown wizard stage %d", stage)
	}
}

// Advance validates the current stage, marks it completed and moves to the
// next one. On validation failure the wizard stays put and entered data is
// retained.
func (w *Wizard) Advance(cat *catalog.Catalog) error {
	if err := w.ValidateStage(w.Stage, cat); err != nil {
		return err
	}
	w.completed[w.Stage] = true
	if w.Stage < StageReview {
		w.Stage++
	}
	return nil
}

// GoTo navigates to a stage. Backward is always permitted; forward is only
// permitted when every intervening stage has previously been completed.
func (w *Wizard) GoTo(stage int, cat *catalog.Catalog) error {
	if stage < StageSetup || stage > StageReview {
		return fmt.Errorf("unknown wizard stage %d", stage)
	}
	if stage <= w.Stage {
		w.Stage = stage
		return nil
	}
	for s := w.Stage; s < stage; s++ {
		if !w.completed[s] {
			return FieldErrors{"stage": fmt.Sprintf("complete step %d before moving to step %d", s, stage)}
		}
	}
	w.Stage = stage
	return nil
}
