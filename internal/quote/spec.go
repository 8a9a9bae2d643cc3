// Package quote implements the price-estimation core: the print-job
// specification entered by a visitor, the pure breakdown calculator, the
// gated multi-step wizard, and the final order draft handed to the
// submission sink.
package quote

import (
	"sort"
	"strings"
)

// Spec is the user-entered print-job configuration. It is mutated
// field-by-field through the wizard and recomputed in full on every change.
type Spec struct {
	Material        string          `json:"material"`
	Color           string          `json:"color"`
	WeightGrams     float64         `json:"weight_grams"`
	PrintTimeHours  float64         `json:"print_time_hours"`
	Services        map[string]bool `json:"services"`
	StudentDiscount bool            `json:"student_discount"`
}

// FileMeta is the only thing kept of an uploaded model file. Content is
// never parsed or sliced.
type FileMeta struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
}

// FieldErrors is a field-keyed map of validation messages. It is returned
// as a value, never panicked, so callers can render errors inline next to
// the offending inputs.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "invalid specification"
	}
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("invalid specification: ")
	for i, k := range keys {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e[k])
	}
	return b.String()
}

// ContactInfo is collected at the final confirmation step.
type ContactInfo struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	StudentID string `json:"student_id,omitempty"`
}

// Validate performs the local, syntactic checks. Deliverability of the
// email address and validity of the phone number are verified by external
// collaborators at submission time.
func (c ContactInfo) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(c.Name) == "" {
		errs["name"] = "name is required"
	}
	email := strings.TrimSpace(c.Email)
	if email == "" {
		errs["email"] = "email is required"
	} else if at := strings.Index(email, "@"); at < 1 || !strings.Contains(email[at:], ".") {
		errs["email"] = "email address looks invalid"
	}
	if digits := countDigits(c.Phone); digits == 0 {
		errs["phone"] = "phone number is required"
	} else if digits < 7 {
		errs["phone"] = "phone number looks too short"
	}
	if strings.TrimSpace(c.Address) == "" {
		errs["address"] = "delivery address is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
