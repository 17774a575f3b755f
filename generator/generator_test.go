package generator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ultrabuild/ultrabuild/catalog"
	"github.com/ultrabuild/ultrabuild/domain"
	"github.com/ultrabuild/ultrabuild/testing/mocks"
)

func features(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("feature-%d", i)
	}
	return out
}

func TestEstimateComplexity(t *testing.T) {
	tests := []struct {
		features int
		want     domain.Complexity
	}{
		{0, domain.ComplexitySimple},
		{3, domain.ComplexitySimple},
		{4, domain.ComplexityMedium},
		{8, domain.ComplexityMedium},
		{9, domain.ComplexityComplex},
		{15, domain.ComplexityComplex},
		{16, domain.ComplexityEnterprise},
		{100, domain.ComplexityEnterprise},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d features", tt.features), func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateComplexity(tt.features))
		})
	}
}

func TestEstimateComplexity_Monotonic(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("more features never lower the complexity", prop.ForAll(
		func(a, b int) bool {
			lo, hi := min(a, b), max(a, b)
			return EstimateComplexity(lo) <= EstimateComplexity(hi)
		},
		gen.IntRange(0, 50),
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSelectStack(t *testing.T) {
	c := catalog.New()
	full := c.Lookup(domain.ProjectTypeSaaS)

	simple := SelectStack(c, domain.ProjectTypeSaaS, domain.ComplexitySimple)
	assert.Len(t, simple.Frontend, 1)
	assert.Len(t, simple.Backend, 1)
	assert.Len(t, simple.Database, 1)
	assert.Len(t, simple.Deployment, 1)
	assert.Len(t, simple.Tools, 2)
	assert.Equal(t, full.Frontend[0], simple.Frontend[0])

	for _, cx := range []domain.Complexity{domain.ComplexityMedium, domain.ComplexityComplex, domain.ComplexityEnterprise} {
		assert.Equal(t, full, SelectStack(c, domain.ProjectTypeSaaS, cx), cx.String())
	}
}

func TestSelectStack_EmptyLayerStaysEmpty(t *testing.T) {
	stack := SelectStack(catalog.New(), domain.ProjectTypeAPI, domain.ComplexitySimple)
	assert.Empty(t, stack.Frontend)
}

func TestConfidence(t *testing.T) {
	many := map[string]string{}
	for i := 0; i < 11; i++ {
		many[fmt.Sprintf("f%d", i)] = ""
	}
	manyWithDocs := map[string]string{readmeFile: "", manifestFile: ""}
	for i := 0; i < 10; i++ {
		manyWithDocs[fmt.Sprintf("f%d", i)] = ""
	}

	tests := []struct {
		name  string
		files map[string]string
		want  float64
	}{
		{name: "empty", files: map[string]string{}, want: 0.7},
		{name: "readme only", files: map[string]string{readmeFile: ""}, want: 0.75},
		{name: "readme and manifest", files: map[string]string{readmeFile: "", manifestFile: ""}, want: 0.8},
		{name: "more than ten files", files: many, want: 0.85},
		{name: "all bonuses", files: manyWithDocs, want: 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Confidence(tt.files)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestGenerate_FilesByType(t *testing.T) {
	tests := []struct {
		projectType domain.ProjectType
		wantSources []string
	}{
		{domain.ProjectTypeGame, []string{"src/main.ts", "index.html"}},
		{domain.ProjectTypeWebsite, []string{"index.html", "src/main.ts"}},
		{domain.ProjectTypeApp, []string{"src/App.tsx", "src/main.tsx"}},
		{domain.ProjectTypeAPI, []string{"src/server.ts"}},
		{domain.ProjectTypeSaaS, []string{"src/index.ts"}},
	}

	g := New(catalog.New(), 10)
	for _, tt := range tests {
		t.Run(tt.projectType.String(), func(t *testing.T) {
			p, err := g.Generate(context.Background(), domain.Requirement{
				Name:     "My Project",
				Type:     tt.projectType,
				Features: []string{"login"},
			})
			require.NoError(t, err)

			for _, f := range []string{manifestFile, readmeFile, typeConfigFile, ignoreFile} {
				assert.Contains(t, p.Files, f)
			}
			for _, f := range tt.wantSources {
				assert.Contains(t, p.Files, f)
			}
			assert.Len(t, p.Files, 4+len(tt.wantSources))
			assert.InDelta(t, 0.8, p.Confidence, 1e-9)
		})
	}
}

func TestGenerate_Defaults(t *testing.T) {
	g := New(catalog.New(), 10)

	p, err := g.Generate(context.Background(), domain.Requirement{})
	require.NoError(t, err)

	assert.Equal(t, defaultProjectName, p.Name)
	assert.Equal(t, domain.ProjectTypeOther, p.Type)
	assert.Equal(t, domain.ComplexitySimple, p.Complexity)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Contains(t, p.Files[manifestFile], `"name": "untitled-project"`)
}

func TestGenerate_SlugAndReadme(t *testing.T) {
	g := New(catalog.New(), 10)

	p, err := g.Generate(context.Background(), domain.Requirement{
		Name:        "Space Invaders Deluxe!",
		Description: "Retro shooter",
		Type:        domain.ProjectTypeGame,
		Features:    []string{"levels", "highscores"},
	})
	require.NoError(t, err)

	assert.Equal(t, "space-invaders-deluxe", p.Slug)
	assert.Contains(t, p.Files[readmeFile], "# Space Invaders Deluxe!")
	assert.Contains(t, p.Files[readmeFile], "- highscores")
	assert.Contains(t, p.Files[manifestFile], `"phaser"`)
	assert.Equal(t, "vercel", p.Deployment.Platform)
}

func TestGenerate_ResearchOverridesComplexity(t *testing.T) {
	researcher := &mocks.MockResearcher{
		ResearchFunc: func(ctx context.Context, req domain.Requirement) (*domain.ResearchInsight, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return &domain.ResearchInsight{Complexity: "enterprise", Recommendations: []string{"shard early"}}, nil
		},
	}
	g := New(catalog.New(), 10, WithResearcher(researcher, time.Second))

	p, err := g.Generate(context.Background(), domain.Requirement{Name: "x", Features: features(1)})
	require.NoError(t, err)

	assert.Equal(t, 1, researcher.Calls)
	assert.Equal(t, domain.ComplexityEnterprise, p.Complexity)
	assert.Equal(t, []string{"shard early"}, p.Recommendations)
}

func TestGenerate_ResearchFailureFallsBack(t *testing.T) {
	tests := []struct {
		name string
		fn   func(context.Context, domain.Requirement) (*domain.ResearchInsight, error)
	}{
		{
			name: "error",
			fn: func(context.Context, domain.Requirement) (*domain.ResearchInsight, error) {
				return nil, errors.New("network down")
			},
		},
		{
			name: "invalid complexity",
			fn: func(context.Context, domain.Requirement) (*domain.ResearchInsight, error) {
				return &domain.ResearchInsight{Complexity: "cosmic"}, nil
			},
		},
		{
			name: "timeout",
			fn: func(ctx context.Context, _ domain.Requirement) (*domain.ResearchInsight, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(catalog.New(), 10, WithResearcher(&mocks.MockResearcher{ResearchFunc: tt.fn}, 10*time.Millisecond))

			p, err := g.Generate(context.Background(), domain.Requirement{Name: "x", Features: features(5)})
			require.NoError(t, err)
			assert.Equal(t, domain.ComplexityMedium, p.Complexity)
		})
	}
}

func TestGenerate_StoreIsBounded(t *testing.T) {
	g := New(catalog.New(), 2)
	ctx := context.Background()

	first, err := g.Generate(ctx, domain.Requirement{Name: "one"})
	require.NoError(t, err)
	_, err = g.Generate(ctx, domain.Requirement{Name: "two"})
	require.NoError(t, err)
	third, err := g.Generate(ctx, domain.Requirement{Name: "three"})
	require.NoError(t, err)

	assert.Equal(t, 2, g.Count())
	_, err = g.Get(first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := g.Get(third.ID)
	require.NoError(t, err)
	assert.Same(t, third, got)
	assert.Equal(t, "three", g.List()[1].Name)
}

type recordingObserver struct {
	projects []*domain.GeneratedProject
}

func (r *recordingObserver) ProjectGenerated(p *domain.GeneratedProject) {
	r.projects = append(r.projects, p)
}

func TestGenerate_NotifiesObservers(t *testing.T) {
	obs := &recordingObserver{}
	g := New(catalog.New(), 10, WithObserver(obs))

	p, err := g.Generate(context.Background(), domain.Requirement{Name: "x"})
	require.NoError(t, err)
	require.Len(t, obs.projects, 1)
	assert.Equal(t, p.ID, obs.projects[0].ID)
}
