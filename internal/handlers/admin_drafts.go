package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/voxcraft3d/voxcraft/storage"
	"github.com/voxcraft3d/voxcraft/storage/db"
	"github.com/voxcraft3d/voxcraft/views/helpers"
)

// AdminHandler serves the owner's read-side: quote drafts, submitted
// orders and the email log.
type AdminHandler struct {
	storage *storage.Storage
}

func NewAdminHandler(s *storage.Storage) *AdminHandler {
	return &AdminHandler{storage: s}
}

// draftSummary is the admin list row for a quote draft.
type draftSummary struct {
	ID           string  `json:"id"`
	Stage        int64   `json:"stage"`
	Material     string  `json:"material,omitempty"`
	Color        string  `json:"color,omitempty"`
	WeightGrams  float64 `json:"weight_grams,omitempty"`
	Email        string  `json:"email,omitempty"`
	FileName     string  `json:"file_name,omitempty"`
	Status       string  `json:"status"`
	LastActivity string  `json:"last_activity"`
}

func summarizeDraft(d db.QuoteDraft) draftSummary {
	return draftSummary{
		ID:           d.ID,
		Stage:        d.Stage,
		Material:     d.Material.String,
		Color:        d.Color.String,
		WeightGrams:  d.WeightGrams.Float64,
		Email:        d.Email.String,
		FileName:     d.FileName.String,
		Status:       d.Status,
		LastActivity: helpers.FormatTimeAgo(d.UpdatedAt),
	}
}

// HandleDraftsList handles GET /admin/api/drafts - drafts filtered by
// status, with counts for the stat cards.
func (h *AdminHandler) HandleDraftsList(c echo.Context) error {
	ctx := c.Request().Context()

	status := c.QueryParam("status")
	if status == "" {
		status = "in_progress"
	}

	counts, err := h.storage.Queries.CountQuoteDraftsByStatus(ctx)
	if err != nil {
		slog.Error("failed to count quote drafts", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
	}

	limit := int64(100)
	offset := int64(0)
	if v, err := strconv.ParseInt(c.QueryParam("offset"), 10, 64); err == nil && v > 0 {
		offset = v
	}

	var drafts []db.QuoteDraft
	if status == "all" {
		drafts, err = h.storage.Queries.ListAllQuoteDrafts(ctx, db.ListAllQuoteDraftsParams{Limit: limit, Offset: offset})
	} else {
		drafts, err = h.storage.Queries.ListQuoteDraftsByStatus(ctx, db.ListQuoteDraftsByStatusParams{
			Status: status, Limit: limit, Offset: offset,
		})
	}
	if err != nil {
		slog.Error("failed to list quote drafts", "status", status, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
	}

	summaries := make([]draftSummary, len(drafts))
	for i, d := range drafts {
		summaries[i] = summarizeDraft(d)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"counts": map[string]int64{
			"total":       counts.Total,
			"in_progress": counts.InProgress,
			"completed":   counts.Completed,
			"abandoned":   counts.Abandoned,
			"with_email":  counts.WithEmail,
		},
		"status": status,
		"drafts": summaries,
	})
}

// HandleDraftDetail handles GET /admin/api/drafts/:id
func (h *AdminHandler) HandleDraftDetail(c echo.Context) error {
	ctx := c.Request().Context()

	draft, err := h.storage.Queries.GetQuoteDraft(ctx, c.Param("id"))
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "draft not found"})
	}
	if err != nil {
		slog.Error("failed to load quote draft", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"summary":          summarizeDraft(draft),
		"completed_stages": draft.CompletedStages,
		"services":         draft.Services,
		"print_time_hours": draft.PrintTimeHours.Float64,
		"file_size":        draft.FileSize.Int64,
		"student_discount": draft.StudentDiscount != 0,
		"created_at":       draft.CreatedAt,
		"updated_at":       draft.UpdatedAt,
	})
}

// HandleOrdersList handles GET /admin/api/orders - submitted quotes,
// newest first.
func (h *AdminHandler) HandleOrdersList(c echo.Context) error {
	ctx := c.Request().Context()

	limit := int64(100)
	offset := int64(0)
	if v, err := strconv.ParseInt(c.QueryParam("offset"), 10, 64); err == nil && v > 0 {
		offset = v
	}

	orders, err := h.storage.Queries.ListQuoteOrders(ctx, db.ListQuoteOrdersParams{Limit: limit, Offset: offset})
	if err != nil {
		slog.Error("failed to list quote orders", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
	}

	type orderRow struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Email       string  `json:"email"`
		Material    string  `json:"material"`
		Color       string  `json:"color"`
		WeightGrams float64 `json:"weight_grams"`
		Total       float64 `json:"total"`
		SubmittedAt string  `json:"submitted_at"`
	}
	rows := make([]orderRow, len(orders))
	for i, o := range orders {
		rows[i] = orderRow{
			ID:          o.ID,
			Name:        o.Name,
			Email:       o.Email,
			Material:    o.Material,
			Color:       o.Color,
			WeightGrams: o.WeightGrams,
			Total:       helpers.RoundPrice(o.Total),
			SubmittedAt: helpers.FormatDate(o.SubmittedAt),
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"orders": rows})
}

// HandleEmailLog handles GET /admin/api/emails - recent notification
// sends and their outcomes.
func (h *AdminHandler) HandleEmailLog(c echo.Context) error {
	ctx := c.Request().Context()

	entries, err := h.storage.Queries.ListEmailLog(ctx, 200)
	if err != nil {
		slog.Error("failed to list email log", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"emails": entries})
}
