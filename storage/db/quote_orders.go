package db

import (
	"context"
	"database/sql"
)

const createQuoteOrder = `
INSERT INTO quote_orders (
    id, draft_id, name, email, phone, address, student_id,
    material, color, weight_grams, print_time_hours, services, student_discount,
    material_cost, electricity_surcharge, flat_fees, service_fees, subtotal, discount, total
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, draft_id, name, email, phone, address, student_id,
          material, color, weight_grams, print_time_hours, services, student_discount,
          material_cost, electricity_surcharge, flat_fees, service_fees, subtotal, discount, total, submitted_at
`

type CreateQuoteOrderParams struct {
	ID                   string
	DraftID              sql.NullString
	Name                 string
	Email                string
	Phone                string
	Address              string
	StudentID            sql.NullString
	Material             string
	Color                string
	WeightGrams          float64
	PrintTimeHours       float64
	Services             string
	StudentDiscount      int64
	MaterialCost         float64
	ElectricitySurcharge float64
	FlatFees             float64
	ServiceFees          float64
	Subtotal             float64
	Discount             float64
	Total                float64
}

func (q *Queries) CreateQuoteOrder(ctx context.Context, arg CreateQuoteOrderParams) (QuoteOrder, error) {
	row := q.db.QueryRowContext(ctx, createQuoteOrder,
		arg.ID, arg.DraftID, arg.Name, arg.Email, arg.Phone, arg.Address, arg.StudentID,
		arg.Material, arg.Color, arg.WeightGrams, arg.PrintTimeHours, arg.Services, arg.StudentDiscount,
		arg.MaterialCost, arg.ElectricitySurcharge, arg.FlatFees, arg.ServiceFees,
		arg.Subtotal, arg.Discount, arg.Total)
	return scanQuoteOrder(row)
}

const getQuoteOrder = `
SELECT id, draft_id, name, email, phone, address, student_id,
       material, color, weight_grams, print_time_hours, services, student_discount,
       material_cost, electricity_surcharge, flat_fees, service_fees, subtotal, discount, total, submitted_at
FROM quote_orders
WHERE id = ?
`

func (q *Queries) GetQuoteOrder(ctx context.Context, id string) (QuoteOrder, error) {
	row := q.db.QueryRowContext(ctx, getQuoteOrder, id)
	return scanQuoteOrder(row)
}

const listQuoteOrders = `
SELECT id, draft_id, name, email, phone, address, student_id,
       material, color, weight_grams, print_time_hours, services, student_discount,
       material_cost, electricity_surcharge, flat_fees, service_fees, subtotal, discount, total, submitted_at
FROM quote_orders
ORDER BY submitted_at DESC
LIMIT ? OFFSET ?
`

type ListQuoteOrdersParams struct {
	Limit  int64
	Offset int64
}

func (q *Queries) ListQuoteOrders(ctx context.Context, arg ListQuoteOrdersParams) ([]QuoteOrder, error) {
	rows, err := q.db.QueryContext(ctx, listQuoteOrders, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []QuoteOrder
	for rows.Next() {
		i, err := scanQuoteOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func scanQuoteOrder(row rowScanner) (QuoteOrder, error) {
	var i QuoteOrder
	err := row.Scan(
		&i.ID, &i.DraftID, &i.Name, &i.Email, &i.Phone, &i.Address, &i.StudentID,
		&i.Material, &i.Color, &i.WeightGrams, &i.PrintTimeHours, &i.Services, &i.StudentDiscount,
		&i.MaterialCost, &i.ElectricitySurcharge, &i.FlatFees, &i.ServiceFees,
		&i.Subtotal, &i.Discount, &i.Total, &i.SubmittedAt,
	)
	return i, err
}

const createEmailLog = `
INSERT INTO email_log (id, recipient, subject, email_type, status)
VALUES (?, ?, ?, ?, ?)
`

type CreateEmailLogParams struct {
	ID        string
	Recipient string
	Subject   string
	EmailType string
	Status    string
}

func (q *Queries) CreateEmailLog(ctx context.Context, arg CreateEmailLogParams) error {
	_, err := q.db.ExecContext(ctx, createEmailLog, arg.ID, arg.Recipient, arg.Subject, arg.EmailType, arg.Status)
	return err
}

const listEmailLog = `
SELECT id, recipient, subject, email_type, status, created_at
FROM email_log
ORDER BY created_at DESC
LIMIT ?
`

func (q *Queries) ListEmailLog(ctx context.Context, limit int64) ([]EmailLog, error) {
	rows, err := q.db.QueryContext(ctx, listEmailLog, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []EmailLog
	for rows.Next() {
		var i EmailLog
		if err := rows.Scan(&i.ID, &i.Recipient, &i.Subject, &i.EmailType, &i.Status, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
