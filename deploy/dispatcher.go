// Package deploy dispatches generated projects to deployment targets and records every attempt.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/ultrabuild/ultrabuild/domain"
	"github.com/ultrabuild/ultrabuild/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultCapacity = 5000
	DefaultTimeout  = 10 * time.Minute
)

// Dispatcher routes deployments to their target and keeps a bounded record of results
type Dispatcher struct {
	targets   map[domain.DeploymentTarget]Target
	observers []Observer
	archive   Archive
	timeout   time.Duration
	records   *store.Bounded[uuid.UUID, *domain.DeploymentResult]
	now       func() time.Time
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithTarget registers a target, replacing any previous one with the same name
func WithTarget(t Target) Option {
	return func(d *Dispatcher) {
		d.targets[t.Name()] = t
	}
}

// WithObserver registers an event observer
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		d.observers = append(d.observers, o)
	}
}

// WithArchive persists every finished deployment
func WithArchive(a Archive) Option {
	return func(d *Dispatcher) {
		d.archive = a
	}
}

// WithTimeout bounds each deployment call
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// NewDispatcher creates a dispatcher storing at most capacity records
func NewDispatcher(capacity int, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		targets: make(map[domain.DeploymentTarget]Target),
		timeout: DefaultTimeout,
		now:     time.Now,
	}
	d.records = store.NewBounded(capacity, store.WithEvictHook(func(id uuid.UUID, r *domain.DeploymentResult) {
		slog.Debug("Evicted deployment record", "deployment_id", id, "target", r.Target)
	}))
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Deploy runs cfg against its target. It never returns an error: every failure,
// including a panic inside the target, is reported as an unsuccessful result.
func (d *Dispatcher) Deploy(ctx context.Context, cfg domain.DeploymentConfig) *domain.DeploymentResult {
	ctx, span := otel.Tracer("ultrabuild/deploy").Start(ctx, "Dispatcher.Deploy")
	defer span.End()

	started := d.now()
	req := Request{
		ID:               uuid.New(),
		Slug:             projectSlug(cfg.ProjectName),
		DeploymentConfig: cfg,
	}

	d.emit(ctx, domain.DeploymentEvent{
		Type:         domain.DeploymentEventStarted,
		DeploymentID: req.ID,
		Target:       cfg.Target,
		ProjectName:  cfg.ProjectName,
		Timestamp:    started,
	})

	slog.Info("Starting deployment",
		"deployment_id", req.ID,
		"project_name", cfg.ProjectName,
		"target", cfg.Target,
		"files", len(cfg.Files))

	outcome, err := d.run(ctx, req)

	result := &domain.DeploymentResult{
		ID:           req.ID,
		ProjectName:  cfg.ProjectName,
		Target:       cfg.Target,
		Success:      err == nil && outcome.Success,
		URL:          outcome.URL,
		DeploymentID: outcome.ExternalID,
		Logs:         outcome.Logs,
		Timestamp:    started,
	}

	event := domain.DeploymentEvent{
		DeploymentID: req.ID,
		Target:       cfg.Target,
		ProjectName:  cfg.ProjectName,
		Result:       result,
	}

	switch {
	case err != nil:
		result.Logs = err.Error()
		event.Error = err.Error()
		event.Type = domain.DeploymentEventError
		if errors.Is(err, domain.ErrNotConfigured) {
			event.Type = domain.DeploymentEventFailed
		}
		slog.Error("Service operation failed",
			"layer", "deploy",
			"operation", "deploy",
			"deployment_id", req.ID,
			"target", cfg.Target,
			"error", err)
	case !outcome.Success:
		event.Type = domain.DeploymentEventFailed
		slog.Warn("Deployment failed",
			"deployment_id", req.ID,
			"target", cfg.Target,
			"logs", outcome.Logs)
	default:
		event.Type = domain.DeploymentEventSuccess
	}

	result.Duration = d.now().Sub(started)
	event.Timestamp = d.now()

	span.SetAttributes(
		attribute.String("deployment.id", req.ID.String()),
		attribute.String("deployment.target", cfg.Target.String()),
		attribute.Bool("deployment.success", result.Success),
	)
	if !result.Success {
		span.SetStatus(codes.Error, result.Logs)
	}

	d.records.Put(result.ID, result)
	d.persist(result)
	d.emit(ctx, event)

	slog.Info("Deployment finished",
		"deployment_id", result.ID,
		"target", result.Target,
		"success", result.Success,
		"url", result.URL,
		"duration", result.Duration)

	return result
}

func (d *Dispatcher) run(ctx context.Context, req Request) (outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("deployment to %s panicked: %v", req.Target, r)
		}
	}()

	target, ok := d.targets[req.Target]
	if !ok {
		return Outcome{}, fmt.Errorf("unsupported deployment target: %s", req.Target)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	return target.Deploy(ctx, req)
}

func (d *Dispatcher) persist(result *domain.DeploymentResult) {
	if d.archive == nil {
		return
	}
	if err := d.archive.SaveDeployment(result); err != nil {
		slog.Warn("Failed to archive deployment",
			"layer", "deploy",
			"operation", "archive",
			"deployment_id", result.ID,
			"error", err)
	}
}

func (d *Dispatcher) emit(ctx context.Context, event domain.DeploymentEvent) {
	for _, o := range d.observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("Deployment observer panicked",
						"layer", "deploy",
						"operation", "emit",
						"event", event.Type,
						"error", r)
				}
			}()
			o.OnDeploymentEvent(ctx, event)
		}()
	}
}

// Get returns a stored deployment record by id
func (d *Dispatcher) Get(id uuid.UUID) (*domain.DeploymentResult, error) {
	r, ok := d.records.Get(id)
	if !ok {
		return nil, fmt.Errorf("deployment %s %w", id, domain.ErrNotFound)
	}
	return r, nil
}

// List returns stored deployment records, oldest first
func (d *Dispatcher) List() []*domain.DeploymentResult {
	return d.records.Values()
}

// Count returns the number of stored deployment records
func (d *Dispatcher) Count() int {
	return d.records.Len()
}

// Targets returns the registered target names
func (d *Dispatcher) Targets() []domain.DeploymentTarget {
	var names []domain.DeploymentTarget
	for _, t := range domain.DeploymentTargets() {
		if _, ok := d.targets[t]; ok {
			names = append(names, t)
		}
	}
	return names
}

func projectSlug(name string) string {
	if s := slug.Make(name); s != "" {
		return s
	}
	return "project"
}
