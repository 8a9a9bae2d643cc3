package service

import (
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/voxcraft3d/voxcraft/internal/catalog"
	"github.com/voxcraft3d/voxcraft/internal/email"
	"github.com/voxcraft3d/voxcraft/internal/handlers"
	"github.com/voxcraft3d/voxcraft/internal/verify"
	"github.com/voxcraft3d/voxcraft/storage"
)

// setupTestService creates a service instance with an in-memory database
// for testing. Background jobs are not started.
func setupTestService(t *testing.T) *Service {
	t.Helper()

	store, cleanup, err := storage.NewTestStorage()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(cleanup)

	cat := catalog.Default()
	emailService := email.NewService(email.Config{}, store.Queries)
	verifier := verify.New(verify.Options{})

	config := &Config{
		Environment: "test",
		Port:        "8080",
		BaseURL:     "http://localhost:8080",
	}
	config.Admin.Token = "test-admin-token"

	return &Service{
		storage:      store,
		config:       config,
		catalog:      cat,
		quoteHandler: handlers.NewQuoteHandler(store, cat, verifier, emailService, config.BaseURL),
		adminHandler: handlers.NewAdminHandler(store),
		emailService: emailService,
	}
}

// setupTestEcho creates an Echo instance with routes registered
func setupTestEcho(t *testing.T) (*echo.Echo, *Service) {
	t.Helper()

	e := echo.New()
	svc := setupTestService(t)
	svc.RegisterRoutes(e)

	return e, svc
}
