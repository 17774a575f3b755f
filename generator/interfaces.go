package generator

import (
	"context"

	"github.com/ultrabuild/ultrabuild/domain"
)

// Researcher refines the complexity estimate of a requirement
type Researcher interface {
	Research(ctx context.Context, req domain.Requirement) (*domain.ResearchInsight, error)
}

// Observer is notified about every generated project
type Observer interface {
	ProjectGenerated(project *domain.GeneratedProject)
}
