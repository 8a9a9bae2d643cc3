package db

import (
	"database/sql"
	"time"
)

type Material struct {
	ID           string
	Name         string
	PricePerGram float64
	DensityGCm3  float64
	Category     string
	Position     int64
}

type MaterialColor struct {
	ID         string
	MaterialID string
	Name       string
	Available  int64
	Position   int64
}

type ServiceOption struct {
	ID       string
	Key      string
	Label    string
	Fee      float64
	Position int64
}

type PricingSetting struct {
	Key   string
	Value float64
}

type DiscountTier struct {
	ID             string
	MinWeightGrams float64
	Rate           float64
}

type QuoteDraft struct {
	ID              string
	SessionID       string
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
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     sql.NullTime
}

type QuoteOrder struct {
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
	SubmittedAt          time.Time
}

type EmailLog struct {
	ID        string
	Recipient string
	Subject   string
	EmailType string
	Status    string
	CreatedAt time.Time
}
