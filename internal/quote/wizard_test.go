package quote

import (
	"errors"
	"testing"
	"time"

	"github.com/voxcraft3d/voxcraft/internal/catalog"
)

func setupWizard() *Wizard {
	w := NewWizard()
	w.AttachFile("bracket.stl", 2<<20)
	w.SetMaterial("PLA Basic")
	w.Spec.Color = "Black"
	return w
}

func TestWizard_AdvanceThroughAllStages(t *testing.T) {
	cat := catalog.Default()
	w := setupWizard()

	if err := w.Advance(cat); err != nil {
		t.Fatalf("advance from setup: %v", err)
	}
	if w.Stage != StageDetails {
		t.Fatalf("stage = %d, want %d", w.Stage, StageDetails)
	}

	w.Spec.WeightGrams = 50
	w.Spec.PrintTimeHours = 2
	if err := w.Advance(cat); err != nil {
		t.Fatalf("advance from details: %v", err)
	}
	if w.Stage != StageReview {
		t.Fatalf("stage = %d, want %d", w.Stage, StageReview)
	}

	if err := w.Advance(cat); err != nil {
		t.Fatalf("advance at review: %v", err)
	}
	if !w.Completed(StageSetup) || !w.Completed(StageDetails) || !w.Completed(StageReview) {
		t.Error("all stages should be marked completed")
	}
}

func TestWizard_Stage1Requirements(t *testing.T) {
	cat := catalog.Default()

	tests := []struct {
		name      string
		mutate    func(*Wizard)
		wantField string
	}{
		{"no file", func(w *Wizard) { w.File = nil }, "file"},
		{"empty file", func(w *Wizard) { w.File.SizeBytes = 0 }, "file"},
		{"oversized file", func(w *Wizard) { w.File.SizeBytes = 101 << 20 }, "file"},
		{"no material", func(w *Wizard) { w.Spec.Material = ""; w.Spec.Color = "" }, "material"},
		{"no color", func(w *Wizard) { w.Spec.Color = "" }, "color"},
		{"out of stock color", func(w *Wizard) { w.Spec.Color = "Green" }, "color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := setupWizard()
			tt.mutate(w)

			err := w.Advance(cat)
			var fieldErrs FieldErrors
			if !errors.As(err, &fieldErrs) {
				t.Fatalf("error = %v, want FieldErrors", err)
			}
			if _, ok := fieldErrs[tt.wantField]; !ok {
				t.Errorf("FieldErrors = %v, want key %q", fieldErrs, tt.wantField)
			}
			if w.Stage != StageSetup {
				t.Errorf("stage moved to %d on validation failure", w.Stage)
			}
		})
	}
}

func TestWizard_ForwardJumpRequiresCompletedStages(t *testing.T) {
	cat := catalog.Default()
	w := setupWizard()

	// From stage 1 directly to 3 with nothing completed.
	if err := w.GoTo(StageReview, cat); err == nil {
		t.Fatal("jump from setup to review should be rejected")
	}

	// Complete stages 1 and 2, go back to 1, then the jump to 3 is allowed.
	if err := w.Advance(cat); err != nil {
		t.Fatalf("advance: %v", err)
	}
	w.Spec.WeightGrams = 50
	w.Spec.PrintTimeHours = 2
	if err := w.Advance(cat); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := w.GoTo(StageSetup, cat); err != nil {
		t.Fatalf("backward navigation must always be allowed: %v", err)
	}
	if err := w.GoTo(StageReview, cat); err != nil {
		t.Fatalf("jump across completed stages rejected: %v", err)
	}
}

func TestWizard_MaterialChangeClearsOnlyColor(t *testing.T) {
	cat := catalog.Default()
	w := setupWizard()

	if err := w.Advance(cat); err != nil {
		t.Fatalf("advance: %v", err)
	}
	w.Spec.WeightGrams = 120
	w.Spec.PrintTimeHours = 3
	if err := w.Advance(cat); err != nil {
		t.Fatalf("advance: %v", err)
	}

	// Back to stage 1, switch material.
	if err := w.GoTo(StageSetup, cat); err != nil {
		t.Fatalf("go back: %v", err)
	}
	w.SetMaterial("PETG")

	if w.Spec.Color != "" {
		t.Errorf("color = %q after material change, want cleared", w.Spec.Color)
	}
	if w.Spec.WeightGrams != 120 || w.Spec.PrintTimeHours != 3 {
		t.Error("weight/time must survive a material change")
	}
}

func TestWizard_SameMaterialKeepsColor(t *testing.T) {
	w := setupWizard()
	w.SetMaterial("PLA Basic")
	if w.Spec.Color != "Black" {
		t.Errorf("re-selecting the same material cleared the color")
	}
}

func TestWizard_RestoreRoundTrip(t *testing.T) {
	cat := catalog.Default()
	w := setupWizard()
	if err := w.Advance(cat); err != nil {
		t.Fatalf("advance: %v", err)
	}
	w.Spec.WeightGrams = 50
	w.Spec.PrintTimeHours = 2
	if err := w.Advance(cat); err != nil {
		t.Fatalf("advance: %v", err)
	}

	restored := RestoreWizard(w.Stage, w.CompletedStages(), w.Spec, w.File)
	if restored.Stage != StageReview {
		t.Errorf("restored stage = %d, want %d", restored.Stage, StageReview)
	}
	if !restored.Completed(StageSetup) || !restored.Completed(StageDetails) {
		t.Error("restored wizard lost completed-stage markers")
	}
	if restored.File == nil || restored.File.Name != "bracket.stl" {
		t.Error("restored wizard lost file metadata")
	}
}

func TestContactInfoValidate(t *testing.T) {
	valid := ContactInfo{
		Name:    "Jamie Doe",
		Email:   "jamie@example.com",
		Phone:   "+420 601 234 567",
		Address: "Printer Street 5, Brno",
	}
	if errs := valid.Validate(); errs != nil {
		t.Fatalf("valid contact rejected: %v", errs)
	}

	tests := []struct {
		name      string
		mutate    func(*ContactInfo)
		wantField string
	}{
		{"missing name", func(c *ContactInfo) { c.Name = " " }, "name"},
		{"missing email", func(c *ContactInfo) { c.Email = "" }, "email"},
		{"malformed email", func(c *ContactInfo) { c.Email = "not-an-email" }, "email"},
		{"missing phone", func(c *ContactInfo) { c.Phone = "" }, "phone"},
		{"short phone", func(c *ContactInfo) { c.Phone = "12345" }, "phone"},
		{"missing address", func(c *ContactInfo) { c.Address = "" }, "address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			errs := c.Validate()
			if errs == nil {
				t.Fatal("invalid contact accepted")
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Errorf("FieldErrors = %v, want key %q", errs, tt.wantField)
			}
		})
	}
}

func TestNewOrderDraft(t *testing.T) {
	cat := catalog.Default()
	contact := ContactInfo{
		Name:    "Jamie Doe",
		Email:   "jamie@example.com",
		Phone:   "601234567",
		Address: "Printer Street 5, Brno",
	}
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	draft, err := NewOrderDraft(validSpec(), contact, cat, now)
	if err != nil {
		t.Fatalf("NewOrderDraft: %v", err)
	}
	if draft.SubmittedAt != now {
		t.Errorf("SubmittedAt = %v, want %v", draft.SubmittedAt, now)
	}
	nearlyEqual(t, "Total", draft.Breakdown.Total, 457.7824)

	bad := validSpec()
	bad.WeightGrams = 0
	if _, err := NewOrderDraft(bad, contact, cat, now); err == nil {
		t.Error("NewOrderDraft accepted an invalid spec")
	}
}
