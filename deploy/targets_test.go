package deploy_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ultrabuild/ultrabuild/deploy"
	"github.com/ultrabuild/ultrabuild/domain"
	"github.com/ultrabuild/ultrabuild/testing/mocks"
	"github.com/ultrabuild/ultrabuild/workspace"
)

func newRequest(target domain.DeploymentTarget) deploy.Request {
	return deploy.Request{
		ID:   uuid.New(),
		Slug: "demo",
		DeploymentConfig: domain.DeploymentConfig{
			ProjectName: "Demo",
			Target:      target,
			Files: map[string]string{
				"package.json": `{"name":"demo"}`,
				"index.html":   "<h1>demo</h1>",
			},
		},
	}
}

func newWorkspace(t *testing.T) *workspace.Manager {
	t.Helper()
	ws, err := workspace.New(t.TempDir())
	require.NoError(t, err)
	return ws
}

func TestVercelTarget_Deploy(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v13/deployments", r.URL.Path)
		assert.Equal(t, "Bearer vercel-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"dpl_123","url":"demo-abc.vercel.app","readyState":"QUEUED"}`))
	}))
	defer server.Close()

	target := deploy.NewVercelTarget(server.URL, "vercel-token", server.Client())
	outcome, err := target.Deploy(context.Background(), newRequest(domain.DeploymentTargetVercel))
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.Equal(t, "https://demo-abc.vercel.app", outcome.URL)
	assert.Equal(t, "dpl_123", outcome.ExternalID)

	assert.Equal(t, "demo", received["name"])
	files, ok := received["files"].([]any)
	require.True(t, ok)
	require.Len(t, files, 2)
	assert.Equal(t, "index.html", files[0].(map[string]any)["file"], "files are sent in name order")
}

func TestVercelTarget_Deploy_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"forbidden","message":"Not authorized"}}`))
	}))
	defer server.Close()

	target := deploy.NewVercelTarget(server.URL, "bad-token", server.Client())
	outcome, err := target.Deploy(context.Background(), newRequest(domain.DeploymentTargetVercel))
	require.NoError(t, err)

	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Logs, "403")
	assert.Contains(t, outcome.Logs, "Not authorized")
}

func TestVercelTarget_Deploy_NotConfigured(t *testing.T) {
	_, err := deploy.NewVercelTarget("", "", nil).Deploy(context.Background(), newRequest(domain.DeploymentTargetVercel))
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

const repoJSON = `{"id":42,"name":"demo","full_name":"octo/demo","html_url":"https://github.com/octo/demo","clone_url":"https://github.com/octo/demo.git"}`

func TestGitHubTarget_Deploy(t *testing.T) {
	tests := []struct {
		name   string
		exists bool
	}{
		{name: "new repository"},
		{name: "existing repository", exists: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("POST /user/repos", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))
				if tt.exists {
					w.WriteHeader(http.StatusUnprocessableEntity)
					_, _ = w.Write([]byte(`{"message":"Repository creation failed."}`))
					return
				}
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(repoJSON))
			})
			mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"login":"octo"}`))
			})
			mux.HandleFunc("GET /repos/octo/demo", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(repoJSON))
			})
			server := httptest.NewServer(mux)
			defer server.Close()

			var pushedFiles []string
			publisher := &mocks.MockGitPublisher{
				PublishFunc: func(_ context.Context, dir, remoteURL, username, token, _ string) (string, error) {
					assert.Equal(t, "gh-token", token)
					entries, err := os.ReadDir(dir)
					require.NoError(t, err)
					for _, e := range entries {
						pushedFiles = append(pushedFiles, e.Name())
					}
					return "abcdef1234567890", nil
				},
			}

			target := deploy.NewGitHubTarget("gh-token", newWorkspace(t), publisher, server.Client(),
				deploy.WithGitHubBaseURL(server.URL))
			outcome, err := target.Deploy(context.Background(), newRequest(domain.DeploymentTargetGitHub))
			require.NoError(t, err)

			assert.True(t, outcome.Success)
			assert.Equal(t, "https://github.com/octo/demo", outcome.URL)
			assert.Equal(t, "42", outcome.ExternalID)
			assert.Contains(t, outcome.Logs, "abcdef1")
			assert.Equal(t, []string{"https://github.com/octo/demo.git"}, publisher.RemoteURLs)
			assert.ElementsMatch(t, []string{"index.html", "package.json"}, pushedFiles)
		})
	}
}

func TestGitHubTarget_Deploy_CreateFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	defer server.Close()

	publisher := &mocks.MockGitPublisher{}
	target := deploy.NewGitHubTarget("gh-token", newWorkspace(t), publisher, server.Client(),
		deploy.WithGitHubBaseURL(server.URL))
	_, err := target.Deploy(context.Background(), newRequest(domain.DeploymentTargetGitHub))

	var callErr *domain.ExternalCallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, "github", callErr.Service)
	assert.Empty(t, publisher.RemoteURLs)
}

func TestDockerTarget_Deploy(t *testing.T) {
	ws := newWorkspace(t)
	var dockerfile string
	runner := &mocks.MockImageRunner{
		BuildImageFunc: func(_ context.Context, dir, _ string, onOutput func(string)) error {
			data, err := os.ReadFile(filepath.Join(dir, "Dockerfile"))
			require.NoError(t, err)
			dockerfile = string(data)
			onOutput("Step 1/9 : FROM node:20-alpine")
			return nil
		},
		RunContainerFunc: func(_ context.Context, image, name, port string) (string, string, error) {
			assert.True(t, strings.HasPrefix(name, "ultrabuild-demo-"))
			assert.Equal(t, "3000/tcp", port)
			return "0123456789abcdef0123", "49153", nil
		},
	}

	req := newRequest(domain.DeploymentTargetDocker)
	outcome, err := deploy.NewDockerTarget(runner, ws).Deploy(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.Equal(t, "http://localhost:49153", outcome.URL)
	assert.Equal(t, "0123456789ab", outcome.ExternalID)
	assert.Contains(t, outcome.Logs, "Step 1/9")
	assert.Contains(t, dockerfile, "EXPOSE 3000")
	require.Len(t, runner.Tags, 1)
	assert.Equal(t, "ultrabuild/demo:"+req.ID.String()[:8], runner.Tags[0])

	_, err = os.Stat(filepath.Join(ws.Root(), req.ID.String()))
	assert.True(t, os.IsNotExist(err), "workspace is removed after the deploy")
}

func TestDockerTarget_Deploy_BuildFails(t *testing.T) {
	runner := &mocks.MockImageRunner{
		BuildImageFunc: func(context.Context, string, string, func(string)) error {
			return errors.New("npm install failed")
		},
	}
	_, err := deploy.NewDockerTarget(runner, newWorkspace(t)).Deploy(context.Background(), newRequest(domain.DeploymentTargetDocker))
	assert.ErrorContains(t, err, "npm install failed")
}

func TestAWSTarget_Deploy(t *testing.T) {
	runner := &mocks.MockCommandRunner{
		RunFunc: func(_ context.Context, dir, _ string, _ ...string) (string, error) {
			_, err := os.Stat(filepath.Join(dir, "index.html"))
			require.NoError(t, err)
			return "upload: ./index.html to s3://sites/demo/index.html\n", nil
		},
	}

	target := deploy.NewAWSTarget("sites", "eu-west-1", "", runner, newWorkspace(t))
	outcome, err := target.Deploy(context.Background(), newRequest(domain.DeploymentTargetAWS))
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.Equal(t, "https://sites.s3.eu-west-1.amazonaws.com/demo/index.html", outcome.URL)
	assert.Equal(t, "upload: ./index.html to s3://sites/demo/index.html", outcome.Logs)
	require.Len(t, runner.Calls, 1)
	assert.Equal(t,
		[]string{"aws", "s3", "sync", ".", "s3://sites/demo", "--region", "eu-west-1", "--delete"},
		runner.Calls[0])
}

func TestAWSTarget_Deploy_NotConfigured(t *testing.T) {
	runner := &mocks.MockCommandRunner{}
	_, err := deploy.NewAWSTarget("", "", "", runner, newWorkspace(t)).Deploy(context.Background(), newRequest(domain.DeploymentTargetAWS))
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
	assert.Empty(t, runner.Calls)
}
