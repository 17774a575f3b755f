package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/go-github/v75/github"
	"github.com/ultrabuild/ultrabuild/domain"
	"github.com/ultrabuild/ultrabuild/workspace"
)

const gitTokenUser = "x-access-token"

// GitHubTarget creates a repository for the project and pushes the files to it
type GitHubTarget struct {
	token     string
	client    *github.Client
	workspace Workspace
	publisher GitPublisher
}

// GitHubOption configures a GitHubTarget
type GitHubOption func(*GitHubTarget)

// WithGitHubBaseURL points the REST client at another API root
func WithGitHubBaseURL(baseURL string) GitHubOption {
	return func(g *GitHubTarget) {
		if g.client == nil {
			return
		}
		if u, err := url.Parse(baseURL); err == nil {
			if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
				u.Path += "/"
			}
			g.client.BaseURL = u
		}
	}
}

// NewGitHubTarget creates a GitHub target. An empty token is accepted; deploys then
// fail with a not configured error.
func NewGitHubTarget(token string, ws Workspace, publisher GitPublisher, httpClient *http.Client, opts ...GitHubOption) *GitHubTarget {
	g := &GitHubTarget{
		token:     token,
		workspace: ws,
		publisher: publisher,
	}
	if token != "" {
		g.client = github.NewClient(httpClient).WithAuthToken(token)
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *GitHubTarget) Name() domain.DeploymentTarget {
	return domain.DeploymentTargetGitHub
}

func (g *GitHubTarget) Deploy(ctx context.Context, req Request) (Outcome, error) {
	if g.token == "" || g.client == nil {
		return Outcome{}, domain.NotConfigured("GITHUB_TOKEN")
	}

	repo, err := g.ensureRepository(ctx, req)
	if err != nil {
		return Outcome{}, err
	}

	dir, err := g.workspace.Prepare(req.ID.String())
	if err != nil {
		return Outcome{}, fmt.Errorf("prepare workspace: %w", err)
	}
	defer func() {
		if err := g.workspace.Cleanup(dir); err != nil {
			slog.Warn("Failed to remove workspace", "layer", "deploy", "operation", "github_cleanup", "dir", dir, "error", err)
		}
	}()

	if err := workspace.WriteFiles(dir, req.Files); err != nil {
		return Outcome{}, fmt.Errorf("write project files: %w", err)
	}

	hash, err := g.publisher.Publish(ctx, dir, repo.GetCloneURL(), gitTokenUser, g.token,
		fmt.Sprintf("Initial commit for %s", req.ProjectName))
	if err != nil {
		return Outcome{}, &domain.ExternalCallError{Service: "github", Operation: "push", Err: err}
	}

	return Outcome{
		Success:    true,
		URL:        repo.GetHTMLURL(),
		ExternalID: strconv.FormatInt(repo.GetID(), 10),
		Logs:       fmt.Sprintf("Pushed %d files to %s (commit %s)", len(req.Files), repo.GetFullName(), shortHash(hash)),
	}, nil
}

// ensureRepository creates the repository, reusing an existing one of the same name
func (g *GitHubTarget) ensureRepository(ctx context.Context, req Request) (*github.Repository, error) {
	repo, resp, err := g.client.Repositories.Create(ctx, "", &github.Repository{
		Name:        github.Ptr(req.Slug),
		Description: github.Ptr(fmt.Sprintf("%s, generated by ULTRABUILD", req.ProjectName)),
		Private:     github.Ptr(false),
	})
	if err == nil {
		return repo, nil
	}
	if resp == nil || resp.StatusCode != http.StatusUnprocessableEntity {
		return nil, &domain.ExternalCallError{Service: "github", Operation: "create repository", Err: err}
	}

	user, _, err := g.client.Users.Get(ctx, "")
	if err != nil {
		return nil, &domain.ExternalCallError{Service: "github", Operation: "get user", Err: err}
	}
	repo, _, err = g.client.Repositories.Get(ctx, user.GetLogin(), req.Slug)
	if err != nil {
		return nil, &domain.ExternalCallError{Service: "github", Operation: "get repository", Err: err}
	}
	slog.Debug("Reusing existing repository", "repository", repo.GetFullName())
	return repo, nil
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
