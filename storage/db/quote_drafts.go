package db

import (
	"context"
	"database/sql"
	"time"
)

const createQuoteDraft = `
INSERT INTO quote_drafts (id, session_id, stage, completed_stages, services, student_discount, status)
VALUES (?, ?, 1, '', '{}', 0, 'in_progress')
RETURNING id, session_id, stage, completed_stages, material, color, weight_grams, print_time_hours,
          services, student_discount, file_name, file_size, email, status, created_at, updated_at, completed_at
`

func (q *Queries) CreateQuoteDraft(ctx context.Context, id, sessionID string) (QuoteDraft, error) {
	row := q.db.QueryRowContext(ctx, createQuoteDraft, id, sessionID)
	return scanQuoteDraft(row)
}

const getQuoteDraft = `
SELECT id, session_id, stage, completed_stages, material, color, weight_grams, print_time_hours,
       services, student_discount, file_name, file_size, email, status, created_at, updated_at, completed_at
FROM quote_drafts
WHERE id = ?
`

func (q *Queries) GetQuoteDraft(ctx context.Context, id string) (QuoteDraft, error) {
	row := q.db.QueryRowContext(ctx, getQuoteDraft, id)
	return scanQuoteDraft(row)
}

const getQuoteDraftBySession = `
SELECT id, session_id, stage, completed_stages, material, color, weight_grams, print_time_hours,
       services, student_discount, file_name, file_size, email, status, created_at, updated_at, completed_at
FROM quote_drafts
WHERE session_id = ? AND status IN ('in_progress', 'abandoned')
ORDER BY updated_at DESC
LIMIT 1
`

func (q *Queries) GetQuoteDraftBySession(ctx context.Context, sessionID string) (QuoteDraft, error) {
	row := q.db.QueryRowContext(ctx, getQuoteDraftBySession, sessionID)
	return scanQuoteDraft(row)
}

const updateQuoteDraft = `
UPDATE quote_drafts
SET stage = ?, completed_stages = ?, material = ?, color = ?, weight_grams = ?, print_time_hours = ?,
    services = ?, student_discount = ?, file_name = ?, file_size = ?, email = ?,
    status = 'in_progress', updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

type UpdateQuoteDraftParams struct {
	Stage           int64
	CompletedStages string
	Material        sql.NullString
	Color           sql.NullString
	WeightGrams     sql.NullFloat64
	PrintTimeHours  sql.NullFloat64
	Services        string
	StudentDiscount int64
	FileName        sql.NullString
	FileSize        sql.NullInt64
	Email           sql.NullString
	ID              string
}

func (q *Queries) UpdateQuoteDraft(ctx context.Context, arg UpdateQuoteDraftParams) error {
	_, err := q.db.ExecContext(ctx, updateQuoteDraft,
		arg.Stage, arg.CompletedStages, arg.Material, arg.Color, arg.WeightGrams, arg.PrintTimeHours,
		arg.Services, arg.StudentDiscount, arg.FileName, arg.FileSize, arg.Email, arg.ID)
	return err
}

const markQuoteDraftCompleted = `
UPDATE quote_drafts
SET status = 'completed', completed_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

func (q *Queries) MarkQuoteDraftCompleted(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markQuoteDraftCompleted, id)
	return err
}

const listQuoteDraftsByStatus = `
SELECT id, session_id, stage, completed_stages, material, color, weight_grams, print_time_hours,
       services, student_discount, file_name, file_size, email, status, created_at, updated_at, completed_at
FROM quote_drafts
WHERE status = ?
ORDER BY updated_at DESC
LIMIT ? OFFSET ?
`

type ListQuoteDraftsByStatusParams struct {
	Status string
	Limit  int64
	Offset int64
}

func (q *Queries) ListQuoteDraftsByStatus(ctx context.Context, arg ListQuoteDraftsByStatusParams) ([]QuoteDraft, error) {
	rows, err := q.db.QueryContext(ctx, listQuoteDraftsByStatus, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuoteDrafts(rows)
}

const listAllQuoteDrafts = `
SELECT id, session_id, stage, completed_stages, material, color, weight_grams, print_time_hours,
       services, student_discount, file_name, file_size, email, status, created_at, updated_at, completed_at
FROM quote_drafts
ORDER BY updated_at DESC
LIMIT ? OFFSET ?
`

type ListAllQuoteDraftsParams struct {
	Limit  int64
	Offset int64
}

func (q *Queries) ListAllQuoteDrafts(ctx context.Context, arg ListAllQuoteDraftsParams) ([]QuoteDraft, error) {
	rows, err := q.db.QueryContext(ctx, listAllQuoteDrafts, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuoteDrafts(rows)
}

const countQuoteDraftsByStatus = `
SELECT
    COUNT(*) AS total,
    COUNT(CASE WHEN status = 'in_progress' THEN 1 END) AS in_progress,
    COUNT(CASE WHEN status = 'completed' THEN 1 END) AS completed,
    COUNT(CASE WHEN status = 'abandoned' THEN 1 END) AS abandoned,
    COUNT(CASE WHEN email IS NOT NULL AND email != '' THEN 1 END) AS with_email
FROM quote_drafts
`

type CountQuoteDraftsByStatusRow struct {
	Total      int64
	InProgress int64
	Completed  int64
	Abandoned  int64
	WithEmail  int64
}

func (q *Queries) CountQuoteDraftsByStatus(ctx context.Context) (CountQuoteDraftsByStatusRow, error) {
	row := q.db.QueryRowContext(ctx, countQuoteDraftsByStatus)
	var i CountQuoteDraftsByStatusRow
	err := row.Scan(&i.Total, &i.InProgress, &i.Completed, &i.Abandoned, &i.WithEmail)
	return i, err
}

const markAbandonedQuoteDrafts = `
UPDATE quote_drafts
SET status = 'abandoned'
WHERE status = 'in_progress' AND updated_at < ?
`

func (q *Queries) MarkAbandonedQuoteDrafts(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, markAbandonedQuoteDrafts, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQuoteDraft(row rowScanner) (QuoteDraft, error) {
	var i QuoteDraft
	err := row.Scan(
		&i.ID, &i.SessionID, &i.Stage, &i.CompletedStages, &i.Material, &i.Color,
		&i.WeightGrams, &i.PrintTimeHours, &i.Services, &i.StudentDiscount,
		&i.FileName, &i.FileSize, &i.Email, &i.Status,
		&i.CreatedAt, &i.UpdatedAt, &i.CompletedAt,
	)
	return i, err
}

func scanQuoteDrafts(rows *sql.Rows) ([]QuoteDraft, error) {
	var items []QuoteDraft
	for rows.Next() {
		i, err := scanQuoteDraft(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
