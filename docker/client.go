// Package docker wraps the Docker Engine API operations used by the docker deployment target.
package docker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/go-connections/nat"
)

// Client wraps Docker SDK operations
type Client struct {
	cli *client.Client
}

// New creates a Docker client from the environment, optionally pinned to host
func New(host string) (*Client, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}
	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}
	return &Client{cli: cli}, nil
}

// Close closes the Docker client
func (c *Client) Close() error {
	if c.cli != nil {
		return c.cli.Close()
	}
	return nil
}

// Ping validates connectivity to the Docker daemon
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.cli.Ping(ctx); err != nil {
		return fmt.Errorf("docker ping: %w", err)
	}
	return nil
}

// BuildImage builds dir into an image tagged tag, streaming build output lines to onOutput
func (c *Client) BuildImage(ctx context.Context, dir, tag string, onOutput func(string)) error {
	buildCtx, err := archive.TarWithOptions(dir, &archive.TarOptions{})
	if err != nil {
		return fmt.Errorf("create build context: %w", err)
	}
	defer buildCtx.Close()

	resp, err := c.cli.ImageBuild(ctx, buildCtx, build.ImageBuildOptions{
		Tags:        []string{tag},
		Remove:      true,
		ForceRemove: true,
	})
	if err != nil {
		return fmt.Errorf("docker image build: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Debug("Failed to close image build reader", "error", closeErr)
		}
	}()

	decoder := json.NewDecoder(resp.Body)
	for {
		var msg buildMessage
		if err := decoder.Decode(&msg); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("decode build output: %w", err)
		}
		if errMsg := msg.errorMessage(); errMsg != "" {
			return fmt.Errorf("docker image build: %s", errMsg)
		}
		if line := strings.TrimRight(msg.Stream, "\n"); line != "" && onOutput != nil {
			onOutput(line)
		}
	}
}

// RunContainer starts image as a detached container named name, publishing
// containerPort (e.g. "3000/tcp") on a random host port. It returns the
// container id and the chosen host port.
func (c *Client) RunContainer(ctx context.Context, image, name, containerPort string) (string, string, error) {
	port, err := nat.NewPort("tcp", strings.TrimSuffix(containerPort, "/tcp"))
	if err != nil {
		return "", "", fmt.Errorf("invalid container port %q: %w", containerPort, err)
	}

	if err := c.RemoveContainer(ctx, name); err != nil {
		return "", "", err
	}

	resp, err := c.cli.ContainerCreate(ctx, &container.Config{
		Image:        image,
		ExposedPorts: nat.PortSet{port: struct{}{}},
		Labels:       map[string]string{"managed-by": "ultrabuild"},
	}, &container.HostConfig{
		PortBindings:  nat.PortMap{port: []nat.PortBinding{{HostIP: "0.0.0.0", HostPort: ""}}},
		RestartPolicy: container.RestartPolicy{Name: container.RestartPolicyUnlessStopped},
	}, nil, nil, name)
	if err != nil {
		return "", "", fmt.Errorf("failed to create container: %w", err)
	}

	if err := c.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return "", "", fmt.Errorf("failed to start container: %w", err)
	}

	info, err := c.cli.ContainerInspect(ctx, resp.ID)
	if err != nil {
		return resp.ID, "", fmt.Errorf("failed to inspect container: %w", err)
	}

	hostPort := ""
	if info.NetworkSettings != nil {
		if bindings := info.NetworkSettings.Ports[port]; len(bindings) > 0 {
			hostPort = bindings[0].HostPort
		}
	}
	return resp.ID, hostPort, nil
}

// RemoveContainer force-removes a container if it exists
func (c *Client) RemoveContainer(ctx context.Context, name string) error {
	err := c.cli.ContainerRemove(ctx, name, container.RemoveOptions{Force: true, RemoveVolumes: true})
	if err != nil && !client.IsErrNotFound(err) {
		return fmt.Errorf("remove container: %w", err)
	}
	return nil
}

type buildMessage struct {
	Stream      string `json:"stream"`
	Error       string `json:"error"`
	ErrorDetail struct {
		Message string `json:"message"`
	} `json:"errorDetail"`
}

func (m buildMessage) errorMessage() string {
	if msg := strings.TrimSpace(m.Error); msg != "" {
		return msg
	}
	return strings.TrimSpace(m.ErrorDetail.Message)
}
