// Package generator turns project requirements into generated project scaffolds.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/ultrabuild/ultrabuild/catalog"
	"github.com/ultrabuild/ultrabuild/domain"
	"github.com/ultrabuild/ultrabuild/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultCapacity        = 10000
	DefaultResearchTimeout = 30 * time.Second
	defaultProjectName     = "untitled-project"
)

// Generator estimates, selects a stack for, and synthesizes projects
type Generator struct {
	catalog         *catalog.Catalog
	researcher      Researcher
	researchTimeout time.Duration
	observers       []Observer
	projects        *store.Bounded[uuid.UUID, *domain.GeneratedProject]
	now             func() time.Time
}

// Option configures a Generator
type Option func(*Generator)

// WithResearcher enables complexity refinement through an external service
func WithResearcher(r Researcher, timeout time.Duration) Option {
	return func(g *Generator) {
		g.researcher = r
		if timeout > 0 {
			g.researchTimeout = timeout
		}
	}
}

// WithObserver registers an observer for generated projects
func WithObserver(o Observer) Option {
	return func(g *Generator) {
		g.observers = append(g.observers, o)
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a generator storing at most capacity projects
func New(c *catalog.Catalog, capacity int, opts ...Option) *Generator {
	g := &Generator{
		catalog:         c,
		researchTimeout: DefaultResearchTimeout,
		now:             time.Now,
	}
	g.projects = store.NewBounded(capacity, store.WithEvictHook(func(id uuid.UUID, p *domain.GeneratedProject) {
		slog.Debug("Evicted generated project", "project_id", id, "project_name", p.Name)
	}))
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds and stores a project for req
func (g *Generator) Generate(ctx context.Context, req domain.Requirement) (*domain.GeneratedProject, error) {
	ctx, span := otel.Tracer("ultrabuild/generator").Start(ctx, "Generator.Generate")
	defer span.End()

	started := g.now()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = defaultProjectName
	}
	projectType := domain.ProjectType(strings.ToLower(strings.TrimSpace(string(req.Type))))
	if projectType == "" {
		projectType = domain.ProjectTypeOther
	}

	complexity := EstimateComplexity(len(req.Features))
	var recommendations []string
	if insight := g.research(ctx, req); insight != nil {
		if parsed, err := domain.ParseComplexity(insight.Complexity); err == nil {
			complexity = parsed
		}
		recommendations = insight.Recommendations
	}

	stack := SelectStack(g.catalog, projectType, complexity)

	project := &domain.GeneratedProject{
		ID:              uuid.New(),
		Name:            name,
		Slug:            projectSlug(name),
		Description:     req.Description,
		Type:            projectType,
		Features:        append([]string(nil), req.Features...),
		Constraints:     req.Constraints,
		Complexity:      complexity,
		TechStack:       stack,
		Recommendations: recommendations,
		CreatedAt:       started,
	}
	project.Deployment = deploymentSettings(project)

	files, err := synthesizeFiles(project)
	if err != nil {
		slog.Error("Service operation failed",
			"layer", "generator",
			"operation", "synthesize_files",
			"project_name", name,
			"error", err)
		return nil, fmt.Errorf("failed to generate project %q: %w", name, err)
	}
	project.Files = files
	project.Confidence = Confidence(files)

	span.SetAttributes(
		attribute.String("project.type", string(project.Type)),
		attribute.String("project.complexity", project.Complexity.String()),
		attribute.Int("project.files", len(project.Files)),
	)

	g.projects.Put(project.ID, project)
	for _, o := range g.observers {
		o.ProjectGenerated(project)
	}

	slog.Info("Project generated",
		"project_id", project.ID,
		"project_name", project.Name,
		"type", project.Type,
		"complexity", project.Complexity,
		"files", len(project.Files),
		"confidence", project.Confidence,
		"duration", g.now().Sub(started))

	return project, nil
}

// research asks the researcher for an insight. Any failure yields nil so the
// local estimate stands.
func (g *Generator) research(ctx context.Context, req domain.Requirement) *domain.ResearchInsight {
	if g.researcher == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.researchTimeout)
	defer cancel()

	insight, err := g.researcher.Research(ctx, req)
	if err != nil {
		slog.Warn("Research unavailable, using local complexity estimate",
			"layer", "generator",
			"operation", "research",
			"project_name", req.Name,
			"error", err)
		return nil
	}
	return insight
}

// Get returns a stored project by id
func (g *Generator) Get(id uuid.UUID) (*domain.GeneratedProject, error) {
	p, ok := g.projects.Get(id)
	if !ok {
		return nil, fmt.Errorf("project %s %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// List returns stored projects, oldest first
func (g *Generator) List() []*domain.GeneratedProject {
	return g.projects.Values()
}

// Count returns the number of stored projects
func (g *Generator) Count() int {
	return g.projects.Len()
}

func projectSlug(name string) string {
	s := slug.Make(name)
	if s == "" {
		return defaultProjectName
	}
	return s
}

func deploymentSettings(p *domain.GeneratedProject) domain.DeploymentSettings {
	platform := "vercel"
	if len(p.TechStack.Deployment) > 0 {
		platform = strings.ToLower(p.TechStack.Deployment[0])
	}
	return domain.DeploymentSettings{
		Platform:     platform,
		BuildCommand: "npm run build",
		OutputDir:    "dist",
		Environment:  map[string]string{"NODE_ENV": "production"},
	}
}
