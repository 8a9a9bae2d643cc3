package service

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/voxcraft3d/voxcraft/internal/catalog"
	"github.com/voxcraft3d/voxcraft/internal/email"
	"github.com/voxcraft3d/voxcraft/internal/handlers"
	"github.com/voxcraft3d/voxcraft/internal/jobs"
	"github.com/voxcraft3d/voxcraft/internal/verify"
	"github.com/voxcraft3d/voxcraft/storage"
	"github.com/voxcraft3d/voxcraft/views/layout"
	"github.com/voxcraft3d/voxcraft/views/pages"
)

type Service struct {
	storage                *storage.Storage
	config                 *Config
	catalog                *catalog.Catalog
	quoteHandler           *handlers.QuoteHandler
	adminHandler           *handlers.AdminHandler
	emailService           *email.Service
	abandonedDraftDetector *jobs.AbandonedDraftDetector
}

func New(storage *storage.Storage, config *Config) *Service {
	ctx := context.Background()

	// The catalog is loaded from the database so price changes need no
	// redeploy; the built-in catalog covers a fresh or broken database.
	cat, err := catalog.LoadFromDB(ctx, storage.Queries)
	if err != nil {
		slog.Warn("failed to load catalog from database, using built-in defaults", "error", err)
		cat = catalog.Default()
	} else {
		slog.Info("loaded catalog from database", "materials", len(cat.Materials()), "services", len(cat.Services()))
	}

	emailService := email.NewService(email.Config{
		Host:     config.Email.SMTPHost,
		Port:     config.Email.SMTPPort,
		Username: config.Email.SMTPUsername,
		Password: config.Email.SMTPPassword,
		From:     config.Email.From,
		OwnerTo:  config.Email.OwnerTo,
	}, storage.Queries)

	verifier := verify.New(verify.Options{
		EmailAPIURL:    config.Verification.EmailAPIURL,
		EmailAPIKey:    config.Verification.EmailAPIKey,
		PhoneAPIURL:    config.Verification.PhoneAPIURL,
		PhoneAPIKey:    config.Verification.PhoneAPIKey,
		HumanSecretKey: config.Verification.HumanSecretKey,
		HumanMinScore:  config.Verification.HumanMinScore,
		Timeout:        config.Verification.Timeout,
	})

	abandonedDraftDetector := jobs.NewAbandonedDraftDetector(storage)
	abandonedDraftDetector.Start(ctx)

	return &Service{
		storage:                storage,
		config:                 config,
		catalog:                cat,
		quoteHandler:           handlers.NewQuoteHandler(storage, cat, verifier, emailService, config.BaseURL),
		adminHandler:           handlers.NewAdminHandler(storage),
		emailService:           emailService,
		abandonedDraftDetector: abandonedDraftDetector,
	}
}

// Shutdown stops the background jobs.
func (s *Service) Shutdown() {
	s.abandonedDraftDetector.Stop()
}

func (s *Service) RegisterRoutes(e *echo.Echo) {
	// Static files
	e.Static("/public", "public")

	// Marketing pages
	e.GET("/", s.handleHome)
	e.GET("/materials", s.handleMaterials)
	e.GET("/quote", s.handleQuoteWizard)
	e.GET("/faq", s.handleFAQ)
	e.GET("/contact", s.handleContact)
	e.GET("/privacy", s.handlePrivacy)
	e.GET("/terms", s.handleTerms)

	// Quote API
	api := e.Group("/api/quote")
	api.GET("/catalog", s.quoteHandler.HandleCatalog)
	api.POST("/estimate", s.quoteHandler.HandleEstimate)
	api.GET("/draft", s.quoteHandler.HandleGetDraft)
	api.POST("/draft", s.quoteHandler.HandleSaveDraft)
	api.POST("/draft/advance", s.quoteHandler.HandleAdvanceDraft)
	api.POST("/upload", s.quoteHandler.HandleUpload)
	api.POST("/submit", s.quoteHandler.HandleSubmit)
	api.GET("/order/:id/pdf", s.quoteHandler.HandleOrderPDF)

	// Owner dashboard API, token-gated
	admin := e.Group("/admin/api", s.adminAuth)
	admin.GET("/drafts", s.adminHandler.HandleDraftsList)
	admin.GET("/drafts/:id", s.adminHandler.HandleDraftDetail)
	admin.GET("/orders", s.adminHandler.HandleOrdersList)
	admin.GET("/emails", s.adminHandler.HandleEmailLog)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}

// adminAuth gates the owner endpoints on a shared token. An unset token
// disables the dashboard entirely rather than leaving it open.
func (s *Service) adminAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := s.config.Admin.Token
		if token == "" {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access not configured"})
		}
		provided := c.Request().Header.Get("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		return next(c)
	}
}

func (s *Service) handleHome(c echo.Context) error {
	meta := layout.PageMeta{
		Title:       "VoxCraft 3D | Custom 3D Printing",
		Description: "Upload your model and get a transparent 3D printing quote in minutes.",
	}
	return handlers.Render(c, layout.Page(meta, pages.Home()))
}

func (s *Service) handleMaterials(c echo.Context) error {
	meta := layout.PageMeta{
		Title:       "Materials & Pricing | VoxCraft 3D",
		Description: "Per-gram material prices, available colors, add-on services and discounts.",
	}
	return handlers.Render(c, layout.Page(meta, pages.Materials(s.catalog)))
}

func (s *Service) handleQuoteWizard(c echo.Context) error {
	meta := layout.PageMeta{
		Title:       "Get a Quote | VoxCraft 3D",
		Description: "Three quick steps from model upload to a binding price.",
	}
	return handlers.Render(c, layout.Page(meta, pages.QuoteWizard()))
}

func (s *Service) handleFAQ(c echo.Context) error {
	meta := layout.PageMeta{
		Title:       "FAQ | VoxCraft 3D",
		Description: "How pricing works, accepted file formats, turnaround times and discounts.",
	}
	return handlers.Render(c, layout.Page(meta, pages.FAQ()))
}

func (s *Service) handleContact(c echo.Context) error {
	meta := layout.PageMeta{
		Title:       "Contact | VoxCraft 3D",
		Description: "Get in touch about quotes and custom print jobs.",
	}
	return handlers.Render(c, layout.Page(meta, pages.Contact()))
}

func (s *Service) handlePrivacy(c echo.Context) error {
	meta := layout.PageMeta{
		Title:       "Privacy Policy | VoxCraft 3D",
		Description: "What we collect to produce your quote and how long we keep it.",
	}
	return handlers.Render(c, layout.Page(meta, pages.Privacy()))
}

func (s *Service) handleTerms(c echo.Context) error {
	meta := layout.PageMeta{
		Title:       "Terms of Service | VoxCraft 3D",
		Description: "The terms that apply to quotes and print orders.",
	}
	return handlers.Render(c, layout.Page(meta, pages.Terms()))
}
