// Package email is the notification sink behind quote submission: it sends
// confirmation and owner-notification messages over SMTP and records every
// send in the database.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/voxcraft3d/voxcraft/storage/db"
	"github.com/voxcraft3d/voxcraft/views/helpers"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	OwnerTo  string
}

type Service struct {
	cfg     Config
	queries *db.Queries
}

func NewService(cfg Config, queries *db.Queries) *Service {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &Service{cfg: cfg, queries: queries}
}

// SendQuoteConfirmation emails the visitor their quote summary.
func (s *Service) SendQuoteConfirmation(ctx context.Context, order db.QuoteOrder) error {
	subject := fmt.Sprintf("Your print quote #%s", shortID(order.ID))
	body := quoteSummaryBody(order)
	return s.send(ctx, order.Email, subject, "quote_confirmation", body)
}

// SendOwnerNotification emails the shop owner about a new submission.
func (s *Service) SendOwnerNotification(ctx context.Context, order db.QuoteOrder) error {
	if s.cfg.OwnerTo == "" {
		return nil
	}
	subject := fmt.Sprintf("New quote submission #%s (%s)", shortID(order.ID), order.Material)
	body := quoteSummaryBody(order)
	return s.send(ctx, s.cfg.OwnerTo, subject, "owner_notification", body)
}

func (s *Service) send(ctx context.Context, to, subject, emailType, body string) error {
	status := "sent"
	var sendErr error

	if s.cfg.Host == "" {
		// Development: no SMTP configured, record the send and move on.
		status = "skipped"
		slog.Info("smtp not configured, skipping email send", "to", to, "subject", subject)
	} else {
		msg := strings.Join([]string{
			"From: " + s.cfg.From,
			"To: " + to,
			"Subject: " + subject,
			"Message-ID: <" + uuid.NewString() + "@" + s.cfg.Host + ">",
			"MIME-Version: 1.0",
			"Content-Type: text/plain; charset=UTF-8",
			"",
			body,
		}, "\r\n")

		addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if sendErr = smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); sendErr != nil {
			status = "failed"
			slog.Error("failed to send email", "to", to, "subject", subject, "error", sendErr)
		}
	}

	if s.queries != nil {
		logErr := s.queries.CreateEmailLog(ctx, db.CreateEmailLogParams{
			ID:        ulid.Make().String(),
			Recipient: to,
			Subject:   subject,
			EmailType: emailType,
			Status:    status,
		})
		if logErr != nil {
			slog.Error("failed to record email send", "to", to, "error", logErr)
		}
	}

	return sendErr
}

func quoteSummaryBody(order db.QuoteOrder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", order.Name)
	fmt.Fprintf(&b, "Thanks for your quote request. Here is the summary:\n\n")
	fmt.Fprintf(&b, "Material:       %s (%s)\n", order.Material, order.Color)
	fmt.Fprintf(&b, "Weight:         %.0f g\n", order.WeightGrams)
	fmt.Fprintf(&b, "Print time:     %.1f h\n", order.PrintTimeHours)
	fmt.Fprintf(&b, "Material cost:  %s\n", helpers.FormatPrice(order.MaterialCost))
	fmt.Fprintf(&b, "Electricity:    %s\n", helpers.FormatPrice(order.ElectricitySurcharge))
	fmt.Fprintf(&b, "Labor & fees:   %s\n", helpers.FormatPrice(order.FlatFees))
	if order.ServiceFees > 0 {
		fmt.Fprintf(&b, "Add-on services: %s\n", helpers.FormatPrice(order.ServiceFees))
	}
	fmt.Fprintf(&b, "Subtotal:       %s\n", helpers.FormatPrice(order.Subtotal))
	if order.Discount > 0 {
		fmt.Fprintf(&b, "Discount:       -%s\n", helpers.FormatPrice(order.Discount))
	}
	fmt.Fprintf(&b, "Total:          %s\n\n", helpers.FormatPrice(order.Total))
	fmt.Fprintf(&b, "We'll confirm your order by phone before printing starts.\n")
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
