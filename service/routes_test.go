package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPublicRoutes tests that the public pages and API endpoints exist and
// are accessible
func TestPublicRoutes(t *testing.T) {
	e, _ := setupTestEcho(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"Home page", "GET", "/", http.StatusOK},
		{"Health check", "GET", "/health", http.StatusOK},

		{"Materials page", "GET", "/materials", http.StatusOK},
		{"Quote wizard page", "GET", "/quote", http.StatusOK},
		{"FAQ page", "GET", "/faq", http.StatusOK},
		{"Contact page", "GET", "/contact", http.StatusOK},
		{"Privacy policy", "GET", "/privacy", http.StatusOK},
		{"Terms of service", "GET", "/terms", http.StatusOK},

		{"Quote catalog", "GET", "/api/quote/catalog", http.StatusOK},
		{"Quote draft", "GET", "/api/quote/draft", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code,
				"Route %s %s should return %d, got %d",
				tt.method, tt.path, tt.wantStatus, rec.Code)
		})
	}
}

func TestEstimateRoute(t *testing.T) {
	e, _ := setupTestEcho(t)

	body := `{"material":"PLA Basic","color":"Black","weight_grams":50,"print_time_hours":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/quote/estimate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_formatted":"$457.78"`)
}

// TestAdminRoutesRequireToken tests that owner endpoints reject requests
// without the shared token
func TestAdminRoutesRequireToken(t *testing.T) {
	e, _ := setupTestEcho(t)

	paths := []string{
		"/admin/api/drafts",
		"/admin/api/orders",
		"/admin/api/emails",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			req = httptest.NewRequest(http.MethodGet, path, nil)
			req.Header.Set("X-Admin-Token", "test-admin-token")
			rec = httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestMaterialsPageRendersCatalog(t *testing.T) {
	e, _ := setupTestEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/materials", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "PLA Basic")
	assert.Contains(t, body, "$5.00")
	assert.Contains(t, body, "Rush delivery")
}
