package mocks

import (
	"context"
	"sync"

	"github.com/ultrabuild/ultrabuild/deploy"
	"github.com/ultrabuild/ultrabuild/domain"
)

// MockTarget implements deploy.Target for testing
type MockTarget struct {
	TargetName domain.DeploymentTarget
	DeployFunc func(ctx context.Context, req deploy.Request) (deploy.Outcome, error)

	mu       sync.Mutex
	Requests []deploy.Request
}

func (m *MockTarget) Name() domain.DeploymentTarget {
	return m.TargetName
}

func (m *MockTarget) Deploy(ctx context.Context, req deploy.Request) (deploy.Outcome, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	if m.DeployFunc != nil {
		return m.DeployFunc(ctx, req)
	}
	return deploy.Outcome{Success: true}, nil
}

// MockObserver implements deploy.Observer and records every event
type MockObserver struct {
	mu     sync.Mutex
	Events []domain.DeploymentEvent
}

func (m *MockObserver) OnDeploymentEvent(_ context.Context, event domain.DeploymentEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// Types returns the recorded event types in order
func (m *MockObserver) Types() []domain.DeploymentEventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]domain.DeploymentEventType, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Type
	}
	return types
}

// MockArchive implements deploy.Archive for testing
type MockArchive struct {
	SaveDeploymentFunc func(result *domain.DeploymentResult) error
	Saved              []*domain.DeploymentResult
}

func (m *MockArchive) SaveDeployment(result *domain.DeploymentResult) error {
	m.Saved = append(m.Saved, result)
	if m.SaveDeploymentFunc != nil {
		return m.SaveDeploymentFunc(result)
	}
	return nil
}

// MockGitPublisher implements deploy.GitPublisher for testing
type MockGitPublisher struct {
	PublishFunc func(ctx context.Context, dir, remoteURL, username, token, message string) (string, error)
	RemoteURLs  []string
}

func (m *MockGitPublisher) Publish(ctx context.Context, dir, remoteURL, username, token, message string) (string, error) {
	m.RemoteURLs = append(m.RemoteURLs, remoteURL)
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, dir, remoteURL, username, token, message)
	}
	return "0123456789abcdef", nil
}

// MockImageRunner implements deploy.ImageRunner for testing
type MockImageRunner struct {
	BuildImageFunc   func(ctx context.Context, dir, tag string, onOutput func(string)) error
	RunContainerFunc func(ctx context.Context, image, name, containerPort string) (string, string, error)
	Tags             []string
}

func (m *MockImageRunner) BuildImage(ctx context.Context, dir, tag string, onOutput func(string)) error {
	m.Tags = append(m.Tags, tag)
	if m.BuildImageFunc != nil {
		return m.BuildImageFunc(ctx, dir, tag, onOutput)
	}
	return nil
}

func (m *MockImageRunner) RunContainer(ctx context.Context, image, name, containerPort string) (string, string, error) {
	if m.RunContainerFunc != nil {
		return m.RunContainerFunc(ctx, image, name, containerPort)
	}
	return "container-id", "32768", nil
}

// MockCommandRunner implements deploy.CommandRunner for testing
type MockCommandRunner struct {
	RunFunc func(ctx context.Context, dir, name string, args ...string) (string, error)
	Calls   [][]string
}

func (m *MockCommandRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	m.Calls = append(m.Calls, append([]string{name}, args...))
	if m.RunFunc != nil {
		return m.RunFunc(ctx, dir, name, args...)
	}
	return "", nil
}
