// Seeds the database with realistic demo quote drafts and orders so the
// admin dashboard has something to show during development.
//
// Usage: go run ./scripts/seed-demo-drafts [-db ./db/voxcraft.db] [-drafts 25]
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/oklog/ulid/v2"
	"github.com/voxcraft3d/voxcraft/internal/catalog"
	"github.com/voxcraft3d/voxcraft/internal/quote"
	"github.com/voxcraft3d/voxcraft/storage"
	"github.com/voxcraft3d/voxcraft/storage/db"
)

func main() {
	dbPath := flag.String("db", "./db/voxcraft.db", "path to the SQLite database")
	draftCount := flag.Int("drafts", 25, "number of demo drafts to create")
	flag.Parse()

	if err := run(*dbPath, *draftCount); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(dbPath string, draftCount int) error {
	s, err := storage.New(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	cat, err := catalog.LoadFromDB(ctx, s.Queries)
	if err != nil {
		cat = catalog.Default()
	}

	materials := cat.Materials()
	services := cat.Services()

	created := 0
	for i := 0; i < draftCount; i++ {
		material := materials[rand.Intn(len(materials))]
		color := material.Colors[rand.Intn(len(material.Colors))]

		spec := quote.Spec{
			Material:        material.Name,
			Color:           color.Name,
			WeightGrams:     float64(gofakeit.Number(10, 1200)),
			PrintTimeHours:  float64(gofakeit.Number(1, 40)),
			Services:        map[string]bool{},
			StudentDiscount: gofakeit.Bool(),
		}
		for _, svc := range services {
			if gofakeit.Bool() && gofakeit.Bool() {
				spec.Services[svc.Key] = true
			}
		}

		draft, err := s.Queries.CreateQuoteDraft(ctx, ulid.Make().String(), ulid.Make().String())
		if err != nil {
			return fmt.Errorf("create draft: %w", err)
		}

		stage := 1 + rand.Intn(3)
		completed := ""
		switch stage {
		case 2:
			completed = "1"
		case 3:
			completed = "1,2"
		}

		servicesJSON, _ := json.Marshal(spec.Services)
		params := db.UpdateQuoteDraftParams{
			Stage:           int64(stage),
			CompletedStages: completed,
			Material:        sql.NullString{String: spec.Material, Valid: true},
			Services:        string(servicesJSON),
			FileName:        sql.NullString{String: gofakeit.Word() + ".stl", Valid: true},
			FileSize:        sql.NullInt64{Int64: int64(gofakeit.Number(50_000, 90_000_000)), Valid: true},
			ID:              draft.ID,
		}
		if stage >= 2 {
			params.Color = sql.NullString{String: spec.Color, Valid: true}
			params.WeightGrams = sql.NullFloat64{Float64: spec.WeightGrams, Valid: true}
			params.PrintTimeHours = sql.NullFloat64{Float64: spec.PrintTimeHours, Valid: true}
		}
		if spec.StudentDiscount {
			params.StudentDiscount = 1
		}
		if gofakeit.Bool() {
			params.Email = sql.NullString{String: gofakeit.Email(), Valid: true}
		}
		if err := s.Queries.UpdateQuoteDraft(ctx, params); err != nil {
			return fmt.Errorf("update draft: %w", err)
		}

		// Roughly a third of fully entered drafts become submitted orders.
		if stage == 3 && i%3 == 0 {
			if err := seedOrder(ctx, s.Queries, cat, spec, draft.ID); err != nil {
				return err
			}
		}
		created++
	}

	slog.Info("seeded demo drafts", "count", created, "database", dbPath)
	return nil
}

func seedOrder(ctx context.Context, queries *db.Queries, cat *catalog.Catalog, spec quote.Spec, draftID string) error {
	contact := quote.ContactInfo{
		Name:    gofakeit.Name(),
		Email:   gofakeit.Email(),
		Phone:   gofakeit.Phone(),
		Address: gofakeit.Address().Address,
	}
	order, err := quote.NewOrderDraft(spec, contact, cat, time.Now())
	if err != nil {
		// Some random specs land outside the limits; just skip those.
		return nil
	}

	servicesJSON, _ := json.Marshal(spec.Services)
	params := db.CreateQuoteOrderParams{
		ID:                   ulid.Make().String(),
		DraftID:              sql.NullString{String: draftID, Valid: true},
		Name:                 contact.Name,
		Email:                contact.Email,
		Phone:                contact.Phone,
		Address:              contact.Address,
		Material:             spec.Material,
		Color:                spec.Color,
		WeightGrams:          spec.WeightGrams,
		PrintTimeHours:       spec.PrintTimeHours,
		Services:             string(servicesJSON),
		MaterialCost:         order.Breakdown.MaterialCost,
		ElectricitySurcharge: order.Breakdown.ElectricitySurcharge,
		FlatFees:             order.Breakdown.FlatFees,
		ServiceFees:          order.Breakdown.ServiceFeeTotal,
		Subtotal:             order.Breakdown.Subtotal,
		Discount:             order.Breakdown.Discount,
		Total:                order.Breakdown.Total,
	}
	if spec.StudentDiscount {
		params.StudentDiscount = 1
	}
	if _, err := queries.CreateQuoteOrder(ctx, params); err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	if err := queries.MarkQuoteDraftCompleted(ctx, draftID); err != nil {
		return fmt.Errorf("mark draft completed: %w", err)
	}
	return nil
}
