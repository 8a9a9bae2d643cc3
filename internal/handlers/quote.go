package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
	"github.com/voxcraft3d/voxcraft/internal/catalog"
	"github.com/voxcraft3d/voxcraft/internal/email"
	"github.com/voxcraft3d/voxcraft/internal/quote"
	"github.com/voxcraft3d/voxcraft/internal/verify"
	"github.com/voxcraft3d/voxcraft/storage"
	"github.com/voxcraft3d/voxcraft/storage/db"
	"github.com/voxcraft3d/voxcraft/views/helpers"
)

const sessionCookieName = "vx_quote_session"

// QuoteHandler owns the self-service quote API: live estimates, the
// resumable draft behind the wizard, and final submission.
type QuoteHandler struct {
	storage  *storage.Storage
	catalog  *catalog.Catalog
	verifier *verify.Verifier
	mailer   *email.Service
	baseURL  string
}

func NewQuoteHandler(s *storage.Storage, cat *catalog.Catalog, v *verify.Verifier, mailer *email.Service, baseURL string) *QuoteHandler {
	return &QuoteHandler{storage: s, catalog: cat, verifier: v, mailer: mailer, baseURL: baseURL}
}

// breakdownView is the wire shape of a breakdown. Money fields are rounded
// here, at the presentation boundary; the calculator itself never rounds.
type breakdownView struct {
	MaterialCost         float64            `json:"material_cost"`
	ElectricitySurcharge float64            `json:"electricity_surcharge"`
	FlatFees             float64            `json:"flat_fees"`
	ServiceFees          []quote.ServiceFee `json:"service_fees"`
	ServiceFeeTotal      float64            `json:"service_fee_total"`
	Subtotal             float64            `json:"subtotal"`
	VolumeDiscountRate   float64            `json:"volume_discount_rate"`
	StudentDiscountRate  float64            `json:"student_discount_rate"`
	DiscountRate         float64            `json:"discount_rate"`
	Discount             float64            `json:"discount"`
	Total                float64            `json:"total"`
	TotalFormatted       string             `json:"total_formatted"`
}

func presentBreakdown(b quote.Breakdown) breakdownView {
	fees := make([]quote.ServiceFee, len(b.ServiceFees))
	for i, f := range b.ServiceFees {
		f.Fee = helpers.RoundPrice(f.Fee)
		fees[i] = f
	}
	return breakdownView{
		MaterialCost:         helpers.RoundPrice(b.MaterialCost),
		ElectricitySurcharge: helpers.RoundPrice(b.ElectricitySurcharge),
		FlatFees:             helpers.RoundPrice(b.FlatFees),
		ServiceFees:          fees,
		ServiceFeeTotal:      helpers.RoundPrice(b.ServiceFeeTotal),
		Subtotal:             helpers.RoundPrice(b.Subtotal),
		VolumeDiscountRate:   b.VolumeDiscountRate,
		StudentDiscountRate:  b.StudentDiscountRate,
		DiscountRate:         b.DiscountRate,
		Discount:             helpers.RoundPrice(b.Discount),
		Total:                helpers.RoundPrice(b.Total),
		TotalFormatted:       helpers.FormatPrice(b.Total),
	}
}

// writeQuoteError maps the calculator's error taxonomy onto HTTP statuses.
// Correctable input problems come back field-keyed so the UI can render
// them inline; unknown catalog names mean the client holds stale state and
// must restart the wizard.
func writeQuoteError(c echo.Context, err error) error {
	var fieldErrs quote.FieldErrors
	if errors.As(err, &fieldErrs) {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "validation_failed",
			"fields": fieldErrs,
		})
	}
	if errors.Is(err, catalog.ErrUnknownMaterial) || errors.Is(err, catalog.ErrUnknownColor) {
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"error":   "catalog_mismatch",
			"message": "our catalog changed since you started; please start your quote over",
			"reset":   true,
		})
	}
	slog.Error("quote request failed", "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
}

// HandleEstimate handles POST /api/quote/estimate - prices a specification
// without touching any draft. The wizard calls this on every input change.
func (h *QuoteHandler) HandleEstimate(c echo.Context) error {
	var spec quote.Spec
	if err := c.Bind(&spec); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	breakdown, err := quote.ComputeBreakdown(spec, h.catalog)
	if err != nil {
		return writeQuoteError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"breakdown": presentBreakdown(breakdown)})
}

// HandleCatalog handles GET /api/quote/catalog - the materials, colors,
// services, limits and discount tiers the wizard renders its controls from.
func (h *QuoteHandler) HandleCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"materials": h.catalog.Materials(),
		"services":  h.catalog.Services(),
		"limits":    h.catalog.Limits(),
		"discounts": h.catalog.Discounts(),
	})
}

// draftState is the wire shape of a resumable draft.
type draftState struct {
	DraftID         string          `json:"draft_id"`
	Stage           int             `json:"stage"`
	CompletedStages string          `json:"completed_stages"`
	Spec            quote.Spec      `json:"spec"`
	File            *quote.FileMeta `json:"file,omitempty"`
	Breakdown       *breakdownView  `json:"breakdown,omitempty"`
}

func (h *QuoteHandler) draftStateResponse(draftID string, w *quote.Wizard) draftState {
	state := draftState{
		DraftID:         draftID,
		Stage:           w.Stage,
		CompletedStages: w.CompletedStages(),
		Spec:            w.Spec,
		File:            w.File,
	}
	// A breakdown is included whenever the entered values price cleanly;
	// earlier stages simply go without one.
	if b, err := quote.ComputeBreakdown(w.Spec, h.catalog); err == nil {
		view := presentBreakdown(b)
		state.Breakdown = &view
	}
	return state
}

// ensureSession returns the visitor's quote session ID, minting a cookie on
// first contact.
func ensureSession(c echo.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := ulid.Make().String()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// loadOrCreateDraft finds the session's resumable draft, creating one when
// the visitor has none. Abandoned drafts are revived on touch.
func (h *QuoteHandler) loadOrCreateDraft(ctx context.Context, sessionID string) (db.QuoteDraft, error) {
	draft, err := h.storage.Queries.GetQuoteDraftBySession(ctx, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return h.storage.Queries.CreateQuoteDraft(ctx, ulid.Make().String(), sessionID)
	}
	return draft, err
}

// wizardFromDraft rehydrates the wizard from a persisted draft row.
func wizardFromDraft(draft db.QuoteDraft) *quote.Wizard {
	spec := quote.Spec{
		Material:        draft.Material.String,
		Color:           draft.Color.String,
		WeightGrams:     draft.WeightGrams.Float64,
		PrintTimeHours:  draft.PrintTimeHours.Float64,
		Services:        map[string]bool{},
		StudentDiscount: draft.StudentDiscount != 0,
	}
	if draft.Services != "" {
		if err := json.Unmarshal([]byte(draft.Services), &spec.Services); err != nil {
			slog.Warn("discarding unreadable draft services", "draft_id", draft.ID, "error", err)
			spec.Services = map[string]bool{}
		}
	}
	var file *quote.FileMeta
	if draft.FileName.Valid {
		file = &quote.FileMeta{Name: draft.FileName.String, SizeBytes: draft.FileSize.Int64}
	}
	return quote.RestoreWizard(int(draft.Stage), draft.CompletedStages, spec, file)
}

func (h *QuoteHandler) persistWizard(ctx context.Context, draft db.QuoteDraft, w *quote.Wizard) error {
	services, err := json.Marshal(w.Spec.Services)
	if err != nil {
		return err
	}
	params := db.UpdateQuoteDraftParams{
		Stage:           int64(w.Stage),
		CompletedStages: w.CompletedStages(),
		Services:        string(services),
		Email:           draft.Email,
		ID:              draft.ID,
	}
	if w.Spec.Material != "" {
		params.Material = sql.NullString{String: w.Spec.Material, Valid: true}
	}
	if w.Spec.Color != "" {
		params.Color = sql.NullString{String: w.Spec.Color, Valid: true}
	}
	if w.Spec.WeightGrams > 0 {
		params.WeightGrams = sql.NullFloat64{Float64: w.Spec.WeightGrams, Valid: true}
	}
	if w.Spec.PrintTimeHours > 0 {
		params.PrintTimeHours = sql.NullFloat64{Float64: w.Spec.PrintTimeHours, Valid: true}
	}
	if w.Spec.StudentDiscount {
		params.StudentDiscount = 1
	}
	if w.File != nil {
		params.FileName = sql.NullString{String: w.File.Name, Valid: true}
		params.FileSize = sql.NullInt64{Int64: w.File.SizeBytes, Valid: true}
	}
	return h.storage.Queries.UpdateQuoteDraft(ctx, params)
}

// draftRequest carries the client's current wizard inputs. Only the fields
// present are applied; pricing is always recomputed server-side.
type draftRequest struct {
	Spec        quote.Spec      `json:"spec"`
	File        *quote.FileMeta `json:"file,omitempty"`
	TargetStage int             `json:"target_stage,omitempty"`
}

func applyDraftRequest(w *quote.Wizard, req draftRequest) {
	w.SetMaterial(req.Spec.Material)
	if req.Spec.Color != "" {
		w.Spec.Color = req.Spec.Color
	}
	w.Spec.WeightGrams = req.Spec.WeightGrams
	w.Spec.PrintTimeHours = req.Spec.PrintTimeHours
	if req.Spec.Services != nil {
		w.Spec.Services = req.Spec.Services
	}
	w.Spec.StudentDiscount = req.Spec.StudentDiscount
	if req.File != nil {
		w.AttachFile(req.File.Name, req.File.SizeBytes)
	}
}

// HandleGetDraft handles GET /api/quote/draft - returns the session's
// resumable draft, creating a fresh one for new visitors.
func (h *QuoteHandler) HandleGetDraft(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := ensureSession(c)

	draft, err := h.loadOrCreateDraft(ctx, sessionID)
	if err != nil {
		slog.Error("failed to load quote draft", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
	}
	return c.JSON(http.StatusOK, h.draftStateResponse(draft.ID, wizardFromDraft(draft)))
}

// HandleSaveDraft handles POST /api/quote/draft - applies the client's
// inputs to the draft without advancing the wizard.
func (h *QuoteHandler) HandleSaveDraft(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := ensureSession(c)

	var req draftRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	draft, err := h.loadOrCreateDraft(ctx, sessionID)
	if err != nil {
		slog.Error("failed to load quote draft", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
	}

	w := wizardFromDraft(draft)
	applyDraftRequest(w, req)

	if err := h.persistWizard(ctx, draft, w); err != nil {
		slog.Error("failed to persist quote draft", "draft_id", draft.ID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
	}
	return c.JSON(http.StatusOK, h.draftStateResponse(draft.ID, w))
}

// HandleAdvanceDraft handles POST /api/quote/draft/advance - applies the
// client's inputs, then either advances past the current stage or jumps to
// target_stage. Validation failures leave the draft untouched apart from
// the entered values, which are always retained.
func (h *QuoteHandler) HandleAdvanceDraft(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := ensureSession(c)

	var req draftRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	draft, err := h.loadOrCreateDraft(ctx, sessionID)
	if err != nil {
		slog.Error("failed to load quote draft", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
	}

	w := wizardFromDraft(draft)
	applyDraftRequest(w, req)

	if req.TargetStage != 0 {
		err = w.GoTo(req.TargetStage, h.catalog)
	} else {
		err = w.Advance(h.catalog)
	}
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownMaterial) || errors.Is(err, catalog.ErrUnknownColor) {
			return h.resetDraft(c, draft)
		}
		// Persist the entered values even when validation blocks the move.
		if persistErr := h.persistWizard(ctx, draft, w); persistErr != nil {
			slog.Error("failed to persist quote draft", "draft_id", draft.ID, "error", persistErr)
		}
		return writeQuoteError(c, err)
	}

	if err := h.persistWizard(ctx, draft, w); err != nil {
		slog.Error("failed to persist quote draft", "draft_id", draft.ID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
	}
	return c.JSON(http.StatusOK, h.draftStateResponse(draft.ID, w))
}

// resetDraft discards stale wizard state after a catalog mismatch. The
// session keeps its draft row; the values start over from step one.
func (h *QuoteHandler) resetDraft(c echo.Context, draft db.QuoteDraft) error {
	ctx := c.Request().Context()
	w := quote.NewWizard()
	draft.FileName = sql.NullString{}
	draft.FileSize = sql.NullInt64{}
	if err := h.persistWizard(ctx, draft, w); err != nil {
		slog.Error("failed to reset quote draft", "draft_id", draft.ID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
	}
	slog.Info("reset quote draft after catalog mismatch", "draft_id", draft.ID)
	return c.JSON(http.StatusConflict, map[string]interface{}{
		"error":   "catalog_mismatch",
		"message": "our catalog changed since you started; please start your quote over",
		"reset":   true,
		"state":   h.draftStateResponse(draft.ID, w),
	})
}

// HandleUpload handles POST /api/quote/upload - records model file
// metadata on the draft. Only name and size are kept; content is never
// stored or parsed.
func (h *QuoteHandler) HandleUpload(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := ensureSession(c)

	var meta quote.FileMeta
	if err := c.Bind(&meta); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	errs := quote.FieldErrors{}
	if meta.Name == "" {
		errs["file"] = "file name is required"
	} else if meta.SizeBytes <= 0 {
		errs["file"] = "uploaded file is empty"
	} else if max := h.catalog.Limits().MaxUploadBytes; meta.SizeBytes > max {
		errs["file"] = "file exceeds the " + helpers.FormatFileSize(max) + " limit"
	}
	if len(errs) > 0 {
		return writeQuoteError(c, errs)
	}

	draft, err := h.loadOrCreateDraft(ctx, sessionID)
	if err != nil {
		slog.Error("failed to load quote draft", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
	}

	w := wizardFromDraft(draft)
	w.AttachFile(meta.Name, meta.SizeBytes)
	if err := h.persistWizard(ctx, draft, w); err != nil {
		slog.Error("failed to persist quote draft", "draft_id", draft.ID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
	}
	return c.JSON(http.StatusOK, h.draftStateResponse(draft.ID, w))
}

// submitRequest is the final confirmation payload.
type submitRequest struct {
	Contact    quote.ContactInfo `json:"contact"`
	HumanToken string            `json:"human_token"`
}

// HandleSubmit handles POST /api/quote/submit - freezes the draft into an
// order. The specification and breakdown are rebuilt from the server-side
// draft; nothing price-bearing is taken from the request. External
// verification gates the submission and fails closed.
func (h *QuoteHandler) HandleSubmit(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := ensureSession(c)

	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	draft, err := h.storage.Queries.GetQuoteDraftBySession(ctx, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no quote draft to submit"})
	}
	if err != nil {
		slog.Error("failed to load quote draft", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
	}

	// The stage gates hold on the API too, not just in the wizard UI: a
	// draft that never attached a file or passed the earlier stages cannot
	// be submitted directly.
	w := wizardFromDraft(draft)
	for _, stage := range []int{quote.StageSetup, quote.StageDetails} {
		if err := w.ValidateStage(stage, h.catalog); err != nil {
			return writeQuoteError(c, err)
		}
	}

	order, err := quote.NewOrderDraft(w.Spec, req.Contact, h.catalog, time.Now())
	if err != nil {
		return writeQuoteError(c, err)
	}

	if err := h.verifier.VerifySubmission(ctx, req.Contact.Email, req.Contact.Phone, req.HumanToken); err != nil {
		var failure *verify.Failure
		if errors.As(err, &failure) {
			slog.Info("quote submission blocked by verification", "draft_id", draft.ID, "checks", failure.Checks)
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
				"error":   "verification_failed",
				"checks":  failure.Checks,
				"message": "we could not verify your contact details; please check them and try again",
			})
		}
		slog.Error("verification unavailable", "draft_id", draft.ID, "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"error":   "verification_unavailable",
			"message": "verification is temporarily unavailable; your draft is saved, please try again shortly",
		})
	}

	services, err := json.Marshal(order.Spec.Services)
	if err != nil {
		slog.Error("failed to encode order services", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
	}

	params := db.CreateQuoteOrderParams{
		ID:                   ulid.Make().String(),
		DraftID:              sql.NullString{String: draft.ID, Valid: true},
		Name:                 order.Contact.Name,
		Email:                order.Contact.Email,
		Phone:                order.Contact.Phone,
		Address:              order.Contact.Address,
		Material:             order.Spec.Material,
		Color:                order.Spec.Color,
		WeightGrams:          order.Spec.WeightGrams,
		PrintTimeHours:       order.Spec.PrintTimeHours,
		Services:             string(services),
		MaterialCost:         order.Breakdown.MaterialCost,
		ElectricitySurcharge: order.Breakdown.ElectricitySurcharge,
		FlatFees:             order.Breakdown.FlatFees,
		ServiceFees:          order.Breakdown.ServiceFeeTotal,
		Subtotal:             order.Breakdown.Subtotal,
		Discount:             order.Breakdown.Discount,
		Total:                order.Breakdown.Total,
	}
	if order.Spec.StudentDiscount {
		params.StudentDiscount = 1
		params.StudentID = sql.NullString{String: order.Contact.StudentID, Valid: order.Contact.StudentID != ""}
	}

	created, err := h.storage.Queries.CreateQuoteOrder(ctx, params)
	if err != nil {
		slog.Error("failed to create quote order", "draft_id", draft.ID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
	}

	draft.Email = sql.NullString{String: order.Contact.Email, Valid: true}
	if err := h.persistWizard(ctx, draft, w); err != nil {
		slog.Error("failed to record draft email", "draft_id", draft.ID, "error", err)
	}
	if err := h.storage.Queries.MarkQuoteDraftCompleted(ctx, draft.ID); err != nil {
		slog.Error("failed to mark draft completed", "draft_id", draft.ID, "error", err)
	}

	// Notifications ride a background context so a slow SMTP server never
	// holds up the response.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := h.mailer.SendQuoteConfirmation(ctx, created); err != nil {
			slog.Error("failed to send quote confirmation", "order_id", created.ID, "error", err)
		}
		if err := h.mailer.SendOwnerNotification(ctx, created); err != nil {
			slog.Error("failed to send owner notification", "order_id", created.ID, "error", err)
		}
	}()

	slog.Info("quote order submitted",
		"order_id", created.ID, "draft_id", draft.ID,
		"material", created.Material, "total", helpers.RoundPrice(created.Total))

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"order_id":  created.ID,
		"breakdown": presentBreakdown(order.Breakdown),
		"pdf_url":   "/api/quote/order/" + created.ID + "/pdf",
	})
}
