package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ultrabuild/ultrabuild/domain"
	"github.com/ultrabuild/ultrabuild/workspace"
)

const (
	dockerfileName       = "Dockerfile"
	containerPort        = "3000/tcp"
	maxBuildLogLines     = 200
	defaultDockerfileSrc = `FROM node:20-alpine
WORKDIR /app
COPY package*.json ./
RUN npm install
COPY . .
RUN npm run build --if-present
ENV PORT=3000
EXPOSE 3000
CMD ["npm", "start"]
`
)

// DockerTarget builds the project into an image and runs it locally
type DockerTarget struct {
	runner    ImageRunner
	workspace Workspace
}

// NewDockerTarget creates a Docker target. A nil runner makes every deploy fail
// with a not configured error.
func NewDockerTarget(runner ImageRunner, ws Workspace) *DockerTarget {
	return &DockerTarget{runner: runner, workspace: ws}
}

func (d *DockerTarget) Name() domain.DeploymentTarget {
	return domain.DeploymentTargetDocker
}

func (d *DockerTarget) Deploy(ctx context.Context, req Request) (Outcome, error) {
	if d.runner == nil {
		return Outcome{}, domain.NotConfigured("docker daemon")
	}

	dir, err := d.workspace.Prepare(req.ID.String())
	if err != nil {
		return Outcome{}, fmt.Errorf("prepare workspace: %w", err)
	}
	defer func() {
		if err := d.workspace.Cleanup(dir); err != nil {
			slog.Warn("Failed to remove workspace", "layer", "deploy", "operation", "docker_cleanup", "dir", dir, "error", err)
		}
	}()

	files := withDockerfile(req.Files)
	if err := workspace.WriteFiles(dir, files); err != nil {
		return Outcome{}, fmt.Errorf("write project files: %w", err)
	}

	short := req.ID.String()[:8]
	tag := fmt.Sprintf("ultrabuild/%s:%s", req.Slug, short)

	logs := newLogBuffer(maxBuildLogLines)
	if err := d.runner.BuildImage(ctx, dir, tag, logs.add); err != nil {
		return Outcome{Logs: logs.String()}, &domain.ExternalCallError{Service: "docker", Operation: "build image", Err: err}
	}

	name := fmt.Sprintf("ultrabuild-%s-%s", req.Slug, short)
	containerID, hostPort, err := d.runner.RunContainer(ctx, tag, name, containerPort)
	if err != nil {
		return Outcome{Logs: logs.String()}, &domain.ExternalCallError{Service: "docker", Operation: "run container", Err: err}
	}

	logs.add(fmt.Sprintf("Started container %s from %s", name, tag))

	outcome := Outcome{
		Success:    true,
		ExternalID: shortContainerID(containerID),
		Logs:       logs.String(),
	}
	if hostPort != "" {
		outcome.URL = "http://localhost:" + hostPort
	}
	return outcome, nil
}

func withDockerfile(files map[string]string) map[string]string {
	out := make(map[string]string, len(files)+1)
	for k, v := range files {
		out[k] = v
	}
	if _, ok := out[dockerfileName]; !ok {
		out[dockerfileName] = defaultDockerfileSrc
	}
	return out
}

func shortContainerID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// logBuffer keeps the last n lines of build output
type logBuffer struct {
	lines []string
	limit int
}

func newLogBuffer(limit int) *logBuffer {
	return &logBuffer{limit: limit}
}

func (b *logBuffer) add(line string) {
	b.lines = append(b.lines, line)
	if len(b.lines) > b.limit {
		b.lines = b.lines[len(b.lines)-b.limit:]
	}
}

func (b *logBuffer) String() string {
	return strings.Join(b.lines, "\n")
}
