package mocks

import (
	"context"
	"sync"

	"github.com/ultrabuild/ultrabuild/domain"
)

// MockRewriter implements healer.Rewriter for testing
type MockRewriter struct {
	RewriteFunc func(ctx context.Context, code, language string, finding domain.Finding) (string, error)

	mu       sync.Mutex
	Findings []domain.Finding
}

func (m *MockRewriter) Rewrite(ctx context.Context, code, language string, finding domain.Finding) (string, error) {
	m.mu.Lock()
	m.Findings = append(m.Findings, finding)
	m.mu.Unlock()

	if m.RewriteFunc != nil {
		return m.RewriteFunc(ctx, code, language, finding)
	}
	return code, nil
}

// MockCompleter implements ai.Completer for testing
type MockCompleter struct {
	CompleteFunc func(ctx context.Context, system, prompt string) (string, error)
	Prompts      []string
}

func (m *MockCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, prompt)
	}
	return "", nil
}
