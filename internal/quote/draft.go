package quote

import (
	"time"

	"github.com/voxcraft3d/voxcraft/internal/catalog"
)

// OrderDraft bundles the frozen specification, its breakdown and the
// contact details at final confirmation. It is never mutated after
// creation; it is handed to the submission sink and then discarded.
type OrderDraft struct {
	Spec        Spec
	Breakdown   Breakdown
	Contact     ContactInfo
	SubmittedAt time.Time
}

// NewOrderDraft validates contact details, recomputes the breakdown from
// scratch (client-supplied totals are never trusted) and freezes the
// result.
func NewOrderDraft(spec Spec, contact ContactInfo, cat *catalog.Catalog, now time.Time) (OrderDraft, error) {
	if errs := contact.Validate(); errs != nil {
		return OrderDraft{}, errs
	}
	breakdown, err := ComputeBreakdown(spec, cat)
	if err != nil {
		return OrderDraft{}, err
	}
	return OrderDraft{
		Spec:        spec,
		Breakdown:   breakdown,
		Contact:     contact,
		SubmittedAt: now,
	}, nil
}
