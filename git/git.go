// Package git publishes generated project workspaces as Git repositories.
package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

const (
	DefaultBranch = "main"
	remoteName    = "origin"
)

// Author is the identity recorded on generated commits
type Author struct {
	Name  string
	Email string
}

// DefaultAuthor is used when the service is created without an explicit author
var DefaultAuthor = Author{Name: "ULTRABUILD", Email: "bot@ultrabuild.dev"}

type GitService struct {
	author  Author
	timeout time.Duration
}

func NewGitService(author Author, timeout time.Duration) *GitService {
	if author.Name == "" {
		author = DefaultAuthor
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &GitService{author: author, timeout: timeout}
}

// InitAndCommit initializes a repository on the main branch in dir and commits every file in it
func (s *GitService) InitAndCommit(dir, message string) (*git.Repository, plumbing.Hash, error) {
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(DefaultBranch)},
	})
	if err != nil {
		slog.Error("Service operation failed",
			"layer", "git",
			"operation", "git_init",
			"working_dir", dir,
			"error", err)
		return nil, plumbing.ZeroHash, fmt.Errorf("failed to init repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, plumbing.ZeroHash, fmt.Errorf("failed to get worktree: %w", err)
	}

	if err := worktree.AddGlob("."); err != nil {
		slog.Error("Service operation failed",
			"layer", "git",
			"operation", "git_add",
			"working_dir", dir,
			"error", err)
		return nil, plumbing.ZeroHash, fmt.Errorf("failed to stage files: %w", err)
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  s.author.Name,
			Email: s.author.Email,
			When:  time.Now(),
		},
		AllowEmptyCommits: true,
	})
	if err != nil {
		slog.Error("Service operation failed",
			"layer", "git",
			"operation", "git_commit",
			"working_dir", dir,
			"error", err)
		return nil, plumbing.ZeroHash, fmt.Errorf("failed to commit: %w", err)
	}

	slog.Debug("Repository initialized", "working_dir", dir, "commit", hash.String())
	return repo, hash, nil
}

// Publish commits dir and pushes the main branch to remoteURL, authenticating with token when set.
// It returns the hash of the pushed commit.
func (s *GitService) Publish(ctx context.Context, dir, remoteURL, username, token, message string) (string, error) {
	repo, hash, err := s.InitAndCommit(dir, message)
	if err != nil {
		return "", err
	}

	if _, err := repo.CreateRemote(&config.RemoteConfig{
		Name: remoteName,
		URLs: []string{remoteURL},
	}); err != nil {
		return "", fmt.Errorf("failed to create remote: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ref := plumbing.NewBranchReferenceName(DefaultBranch)
	opts := &git.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{config.RefSpec(fmt.Sprintf("+%s:%s", ref, ref))},
	}
	if token != "" {
		opts.Auth = &http.BasicAuth{
			Username: username,
			Password: token,
		}
	}
	err = repo.PushContext(ctx, opts)
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		slog.Error("Service operation failed",
			"layer", "git",
			"operation", "git_push",
			"remote", remoteURL,
			"working_dir", dir,
			"error", err)
		return "", fmt.Errorf("failed to push: %w", err)
	}

	slog.Info("Repository published", "remote", remoteURL, "commit", hash.String())
	return hash.String(), nil
}
