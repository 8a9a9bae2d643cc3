package email

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxcraft3d/voxcraft/storage"
	"github.com/voxcraft3d/voxcraft/storage/db"
)

func testOrder() db.QuoteOrder {
	return db.QuoteOrder{
		ID:                   "01JDEMOORDER0000000000000",
		Name:                 "Jamie Novak",
		Email:                "jamie@example.com",
		Material:             "PLA Basic",
		Color:                "Black",
		WeightGrams:          120,
		PrintTimeHours:       4,
		MaterialCost:         600,
		ElectricitySurcharge: 15.5648,
		FlatFees:             200,
		ServiceFees:          300,
		Subtotal:             1115.5648,
		Discount:             55.77824,
		Total:                1059.78656,
	}
}

// Without SMTP configured the send is skipped but still recorded, so the
// owner can see what would have gone out.
func TestSendQuoteConfirmation_RecordsSkippedSend(t *testing.T) {
	_, queries, cleanup, err := storage.NewTestDB()
	require.NoError(t, err)
	defer cleanup()

	svc := NewService(Config{From: "quotes@voxcraft3d.example"}, queries)

	require.NoError(t, svc.SendQuoteConfirmation(context.Background(), testOrder()))

	entries, err := queries.ListEmailLog(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "jamie@example.com", entries[0].Recipient)
	assert.Equal(t, "quote_confirmation", entries[0].EmailType)
	assert.Equal(t, "skipped", entries[0].Status)
	assert.Contains(t, entries[0].Subject, "01JDEMOO")
}

func TestSendOwnerNotification_NoRecipientConfigured(t *testing.T) {
	_, queries, cleanup, err := storage.NewTestDB()
	require.NoError(t, err)
	defer cleanup()

	svc := NewService(Config{From: "quotes@voxcraft3d.example"}, queries)

	require.NoError(t, svc.SendOwnerNotification(context.Background(), testOrder()))

	entries, err := queries.ListEmailLog(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestQuoteSummaryBody(t *testing.T) {
	body := quoteSummaryBody(testOrder())

	assert.Contains(t, body, "Hi Jamie Novak")
	assert.Contains(t, body, "PLA Basic (Black)")
	assert.Contains(t, body, "$1115.56")
	assert.Contains(t, body, "-$55.78")
	assert.Contains(t, body, "$1059.79")
	// Rounding happens at formatting; raw floats never leak into the body
	assert.False(t, strings.Contains(body, "1059.78656"))
}
