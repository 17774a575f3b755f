package deploy

import (
	"context"

	"github.com/google/uuid"
	"github.com/ultrabuild/ultrabuild/domain"
)

// Request is what a target receives for a single deployment
type Request struct {
	ID   uuid.UUID
	Slug string
	domain.DeploymentConfig
}

// Outcome is the target-specific answer mapped into a DeploymentResult
type Outcome struct {
	Success    bool
	URL        string
	ExternalID string
	Logs       string
}

// Target ships project files to one platform
type Target interface {
	Name() domain.DeploymentTarget
	Deploy(ctx context.Context, req Request) (Outcome, error)
}

// Observer receives deployment lifecycle events
type Observer interface {
	OnDeploymentEvent(ctx context.Context, event domain.DeploymentEvent)
}

// Archive persists finished deployment records
type Archive interface {
	SaveDeployment(result *domain.DeploymentResult) error
}

// Workspace hands out scratch directories for targets that need files on disk
type Workspace interface {
	Prepare(identifier string) (string, error)
	Cleanup(path string) error
}

// GitPublisher commits a directory and pushes it to a remote
type GitPublisher interface {
	Publish(ctx context.Context, dir, remoteURL, username, token, message string) (string, error)
}

// ImageRunner builds and starts container images
type ImageRunner interface {
	BuildImage(ctx context.Context, dir, tag string, onOutput func(string)) error
	RunContainer(ctx context.Context, image, name, containerPort string) (string, string, error)
}

// CommandRunner runs an external program inside dir
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}
