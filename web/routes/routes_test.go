package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ultrabuild/ultrabuild/catalog"
	"github.com/ultrabuild/ultrabuild/deploy"
	"github.com/ultrabuild/ultrabuild/games"
	"github.com/ultrabuild/ultrabuild/generator"
	"github.com/ultrabuild/ultrabuild/healer"
	"github.com/ultrabuild/ultrabuild/ledger"
	"github.com/ultrabuild/ultrabuild/metrics"
	"github.com/ultrabuild/ultrabuild/web/handlers"
)

func newHandlers() *handlers.Handlers {
	return handlers.New(handlers.Deps{
		Version:   "test",
		Generator: generator.New(catalog.New(), 10),
		Deployer:  deploy.NewDispatcher(10),
		Healer:    healer.New(healer.NewScanner(healer.DefaultRules), nil, 10),
		Ledger:    ledger.New(),
		Games:     games.New(),
	})
}

func TestNewRouter_RegistersAPIRoutes(t *testing.T) {
	router := NewRouter(newHandlers(), nil)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/api/status", http.StatusOK},
		{http.MethodGet, "/api/projects", http.StatusOK},
		{http.MethodGet, "/api/deployments", http.StatusOK},
		{http.MethodGet, "/api/heal/history", http.StatusOK},
		{http.MethodGet, "/api/templates", http.StatusOK},
		{http.MethodGet, "/api/games/types", http.StatusOK},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
		{http.MethodDelete, "/api/health", http.StatusMethodNotAllowed},
		{http.MethodGet, "/metrics", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestNewRouter_ExposesMetrics(t *testing.T) {
	router := NewRouter(newHandlers(), metrics.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ultrabuild_http_requests_total{method="GET",route="/api/health",status="200"} 1`)
}
