package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/jung-kurt/gofpdf"
	"github.com/labstack/echo/v4"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/voxcraft3d/voxcraft/storage/db"
	"github.com/voxcraft3d/voxcraft/views/helpers"
)

// HandleOrderPDF handles GET /api/quote/order/:id/pdf - a printable quote
// summary with a QR code linking back to the order.
func (h *QuoteHandler) HandleOrderPDF(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.storage.Queries.GetQuoteOrder(ctx, c.Param("id"))
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "quote not found"})
	}
	if err != nil {
		slog.Error("failed to load quote order", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
	}

	pdfBytes, err := h.buildOrderPDF(order)
	if err != nil {
		slog.Error("failed to build quote pdf", "order_id", order.ID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="quote-%s.pdf"`, shortOrderID(order.ID)))
	return c.Blob(http.StatusOK, "application/pdf", pdfBytes)
}

func (h *QuoteHandler) buildOrderPDF(order db.QuoteOrder) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "VoxCraft 3D")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Quote #%s for %s", shortOrderID(order.ID), order.Name))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Submitted "+helpers.FormatDate(order.SubmittedAt))
	pdf.Ln(12)

	line := func(label, value string) {
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(70, 7, label)
		pdf.Cell(0, 7, value)
		pdf.Ln(7)
	}

	line("Material", fmt.Sprintf("%s (%s)", order.Material, order.Color))
	line("Weight", helpers.FormatGrams(order.WeightGrams))
	line("Print time", helpers.FormatHours(order.PrintTimeHours))
	pdf.Ln(4)

	line("Material cost", helpers.FormatPrice(order.MaterialCost))
	line("Electricity surcharge", helpers.FormatPrice(order.ElectricitySurcharge))
	line("Labor & service fees", helpers.FormatPrice(order.FlatFees))
	if order.ServiceFees > 0 {
		line("Add-on services", helpers.FormatPrice(order.ServiceFees))
		for _, label := range orderServiceLabels(order.Services) {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.Cell(70, 6, "")
			pdf.Cell(0, 6, label)
			pdf.Ln(6)
		}
	}
	line("Subtotal", helpers.FormatPrice(order.Subtotal))
	if order.Discount > 0 {
		line("Discount", "-"+helpers.FormatPrice(order.Discount))
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(70, 8, "Total")
	pdf.Cell(0, 8, helpers.FormatPrice(order.Total))
	pdf.Ln(14)

	// QR code pointing back at the order so the printed quote can be
	// pulled up at the counter.
	png, err := qrcode.Encode(h.baseURL+"/api/quote/order/"+order.ID+"/pdf", qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("order-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("order-qr", 10, pdf.GetY(), 35, 35, false, opts, 0, "")

	pdf.SetY(pdf.GetY() + 38)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, "This quote is binding for the model as uploaded. We confirm every order by phone before printing.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// orderServiceLabels decodes the stored services map into the selected
// keys, for display on the PDF.
func orderServiceLabels(encoded string) []string {
	selected := map[string]bool{}
	if err := json.Unmarshal([]byte(encoded), &selected); err != nil {
		return nil
	}
	var labels []string
	for key, on := range selected {
		if on {
			labels = append(labels, key)
		}
	}
	sort.Strings(labels)
	return labels
}

func shortOrderID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
