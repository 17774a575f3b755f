package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestNewGitService_Defaults(t *testing.T) {
	s := NewGitService(Author{}, 0)
	assert.Equal(t, DefaultAuthor, s.author)
	assert.Equal(t, 2*time.Minute, s.timeout)
}

func TestInitAndCommit(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"README.md":    "# demo\n",
		"src/index.ts": "console.log('hi')\n",
	})

	s := NewGitService(Author{Name: "Test", Email: "test@example.com"}, time.Minute)
	repo, hash, err := s.InitAndCommit(dir, "Initial commit")
	require.NoError(t, err)
	assert.NotEqual(t, plumbing.ZeroHash, hash)

	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, plumbing.NewBranchReferenceName(DefaultBranch), head.Name())

	commit, err := repo.CommitObject(hash)
	require.NoError(t, err)
	assert.Equal(t, "Initial commit", commit.Message)
	assert.Equal(t, "Test", commit.Author.Name)

	_, err = commit.File("src/index.ts")
	assert.NoError(t, err)
}

func TestPublish_ToLocalBareRemote(t *testing.T) {
	remoteDir := t.TempDir()
	_, err := git.PlainInit(remoteDir, true)
	require.NoError(t, err)

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"index.html": "<h1>hi</h1>"})

	s := NewGitService(DefaultAuthor, time.Minute)
	hash, err := s.Publish(context.Background(), dir, remoteDir, "", "", "Deploy")
	require.NoError(t, err)

	remote, err := git.PlainOpen(remoteDir)
	require.NoError(t, err)
	ref, err := remote.Reference(plumbing.NewBranchReferenceName(DefaultBranch), true)
	require.NoError(t, err)
	assert.Equal(t, hash, ref.Hash().String())
}
