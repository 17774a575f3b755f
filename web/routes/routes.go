// Package routes provides HTTP route registration for the API server.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ultrabuild/ultrabuild/metrics"
	"github.com/ultrabuild/ultrabuild/web/handlers"
)

// NewRouter builds the complete router. m may be nil to disable metrics.
func NewRouter(h *handlers.Handlers, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(handlers.Recoverer)
	if m != nil {
		r.Use(m.Middleware)
		RegisterMetricsRoutes(r, m)
	}

	r.Route("/api", func(r chi.Router) {
		RegisterSystemRoutes(r, h)
		RegisterProjectRoutes(r, h)
		RegisterDeploymentRoutes(r, h)
		RegisterHealingRoutes(r, h)
		RegisterTemplateRoutes(r, h)
		RegisterGameRoutes(r, h)
	})

	return r
}

// RegisterSystemRoutes registers health and status routes
func RegisterSystemRoutes(r chi.Router, h *handlers.Handlers) {
	r.Get("/health", h.Health)
	r.Get("/status", h.Status)
}

// RegisterProjectRoutes registers project generation routes
func RegisterProjectRoutes(r chi.Router, h *handlers.Handlers) {
	r.Post("/generate", h.Generate)
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.ListProjects)
		r.Get("/{id}", h.GetProject)
		r.Get("/{id}/readme", h.ProjectReadme)
	})
}

// RegisterDeploymentRoutes registers deployment routes
func RegisterDeploymentRoutes(r chi.Router, h *handlers.Handlers) {
	r.Post("/deploy", h.Deploy)
	r.Route("/deployments", func(r chi.Router) {
		r.Get("/", h.ListDeployments)
		r.Get("/events", h.DeploymentEvents)
		r.Get("/{id}", h.GetDeployment)
	})
}

// RegisterHealingRoutes registers scan and heal routes
func RegisterHealingRoutes(r chi.Router, h *handlers.Handlers) {
	r.Post("/scan", h.Scan)
	r.Post("/heal", h.Heal)
	r.Get("/heal/history", h.HealHistory)
}

// RegisterTemplateRoutes registers marketplace routes
func RegisterTemplateRoutes(r chi.Router, h *handlers.Handlers) {
	r.Route("/templates", func(r chi.Router) {
		r.Get("/", h.ListTemplates)
		r.Post("/", h.PublishTemplate)
		r.Post("/{id}/purchase", h.PurchaseTemplate)
	})
}

// RegisterGameRoutes registers game generation routes
func RegisterGameRoutes(r chi.Router, h *handlers.Handlers) {
	r.Get("/games/types", h.GameTypes)
	r.Post("/games/generate/{kind}", h.GenerateGame)
}

// RegisterMetricsRoutes exposes Prometheus metrics
func RegisterMetricsRoutes(r chi.Router, m *metrics.Metrics) {
	r.Method(http.MethodGet, "/metrics", m.Handler())
}
