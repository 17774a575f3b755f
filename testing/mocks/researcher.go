package mocks

import (
	"context"

	"github.com/ultrabuild/ultrabuild/domain"
)

// MockResearcher implements generator.Researcher for testing
type MockResearcher struct {
	ResearchFunc func(ctx context.Context, req domain.Requirement) (*domain.ResearchInsight, error)
	Calls        int
}

func (m *MockResearcher) Research(ctx context.Context, req domain.Requirement) (*domain.ResearchInsight, error) {
	m.Calls++
	if m.ResearchFunc != nil {
		return m.ResearchFunc(ctx, req)
	}
	return nil, domain.NotConfigured("research")
}
