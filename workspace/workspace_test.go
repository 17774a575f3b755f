package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_PrepareAndCleanup(t *testing.T) {
	m, err := New(filepath.Join(t.TempDir(), "ws"))
	require.NoError(t, err)

	dir, err := m.Prepare("deploy-1")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.txt"), []byte("x"), 0o644))

	dir, err = m.Prepare("deploy-1")
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "prepare clears leftovers")

	require.NoError(t, m.Cleanup(dir))
	assert.NoDirExists(t, dir)
}

func TestManager_RejectsOutsidePaths(t *testing.T) {
	m, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = m.Prepare("")
	assert.Error(t, err)
	_, err = m.Prepare("../escape")
	assert.Error(t, err)
	assert.Error(t, m.Cleanup(m.Root()))
	assert.Error(t, m.Cleanup("/etc"))
}

func TestNew_EmptyRoot(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()

	err := WriteFiles(dir, map[string]string{
		"package.json": "{}",
		"src/main.ts":  "main()",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "src", "main.ts"))
	require.NoError(t, err)
	assert.Equal(t, "main()", string(data))
}

func TestWriteFiles_RejectsTraversal(t *testing.T) {
	tests := []string{"../evil", "/etc/passwd", "a/../../evil", "."}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			err := WriteFiles(t.TempDir(), map[string]string{name: "x"})
			assert.ErrorContains(t, err, "invalid file path")
		})
	}
}
