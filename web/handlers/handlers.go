// Package handlers provides the JSON HTTP handlers of the ULTRABUILD API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ultrabuild/ultrabuild/domain"
	"github.com/ultrabuild/ultrabuild/ws"
)

const maxBodyBytes = 10 << 20

// ProjectGenerator creates and stores generated projects
type ProjectGenerator interface {
	Generate(ctx context.Context, req domain.Requirement) (*domain.GeneratedProject, error)
	Get(id uuid.UUID) (*domain.GeneratedProject, error)
	List() []*domain.GeneratedProject
	Count() int
}

// Deployer ships generated files to a deployment target
type Deployer interface {
	Deploy(ctx context.Context, cfg domain.DeploymentConfig) *domain.DeploymentResult
	Get(id uuid.UUID) (*domain.DeploymentResult, error)
	List() []*domain.DeploymentResult
	Count() int
}

// CodeHealer scans and heals source code
type CodeHealer interface {
	Scan(code, language string) []domain.Finding
	Heal(ctx context.Context, code, language string) *domain.HealingResult
	History() []*domain.HealingResult
}

// Marketplace sells templates
type Marketplace interface {
	Publish(t domain.Template) *domain.Template
	Purchase(templateID uuid.UUID, buyerID string) bool
	Get(id uuid.UUID) (*domain.Template, error)
	List() []*domain.Template
	Revenue() float64
	Count() int
}

// GameGenerator produces game scaffolds
type GameGenerator interface {
	Types() []domain.GameType
	Generate(kind domain.GameKind, req domain.GameRequest) (*domain.Game, error)
}

// EventHub streams deployment events to websocket clients
type EventHub interface {
	Register(deploymentID string, client ws.Subscriber)
	Unregister(deploymentID string, client ws.Subscriber)
}

// Deps lists the collaborators used by the handlers
type Deps struct {
	Version      string
	Generator    ProjectGenerator
	Deployer     Deployer
	Healer       CodeHealer
	Ledger       Marketplace
	Games        GameGenerator
	Hub          EventHub
	Integrations map[string]bool
}

// Handlers serves the HTTP API
type Handlers struct {
	deps     Deps
	started  time.Time
	now      func() time.Time
	upgrader websocket.Upgrader
}

// New creates the handler set
func New(deps Deps) *Handlers {
	if deps.Integrations == nil {
		deps.Integrations = map[string]bool{}
	}
	return &Handlers{
		deps:    deps,
		started: time.Now(),
		now:     time.Now,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ParseID extracts and validates a UUID from the named URL parameter
func ParseID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%s is required", param)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s format", param)
	}
	return id, nil
}

// LogOperationError logs handler-level failures
func LogOperationError(operation string, err error, fields ...any) {
	args := append([]any{"layer", "handler", "operation", operation, "error", err}, fields...)
	slog.Error("Operation failed", args...)
}

// Recoverer turns panics into 500 JSON responses
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				slog.Error("Handler panicked",
					"layer", "handler",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()))
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		LogOperationError("encode_response", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads the request body into dst. An empty body is accepted
// only when optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		writeError(w, http.StatusBadRequest, "malformed JSON body: "+err.Error())
		return false
	}
	return true
}

func writeLookupError(w http.ResponseWriter, err error) {
	status := http.StatusNotFound
	if !errors.Is(err, domain.ErrNotFound) {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": err.Error(),
	})
}
