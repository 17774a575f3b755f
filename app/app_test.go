package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ultrabuild/ultrabuild/config"
	"github.com/ultrabuild/ultrabuild/domain"
	"github.com/ultrabuild/ultrabuild/encryption"
)

type envMap map[string]string

func (e envMap) Getenv(key string) string { return e[key] }
func (e envMap) UserHomeDir() (string, error) { return "/home/test", nil }

func newConfig(t *testing.T, env envMap) *config.Config {
	t.Helper()
	cfg, err := config.NewWithEnv(env, config.Options{DataDir: t.TempDir()})
	require.NoError(t, err)
	return cfg
}

func TestNew_WithoutCredentials(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, newConfig(t, envMap{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(ctx) })

	assert.Equal(t, domain.DeploymentTargets(), a.Dispatcher.Targets())
	assert.False(t, a.integrations()["persistence"])

	for _, target := range []domain.DeploymentTarget{domain.DeploymentTargetVercel, domain.DeploymentTargetGitHub, domain.DeploymentTargetAWS} {
		result := a.Dispatcher.Deploy(ctx, domain.DeploymentConfig{
			ProjectName: "demo",
			Target:      target,
			Files:       map[string]string{"index.html": "<h1>demo</h1>"},
		})
		assert.False(t, result.Success)
		assert.Contains(t, result.Logs, "not configured")
	}
}

func TestNew_WithPersistence(t *testing.T) {
	key, err := encryption.GenerateKey()
	require.NoError(t, err)

	ctx := context.Background()
	cfg := newConfig(t, envMap{
		"ULTRABUILD_PERSISTENCE":    "true",
		"ULTRABUILD_ENCRYPTION_KEY": key,
	})

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	published := a.Ledger.Publish(domain.Template{Name: "Landing", Price: 10, Code: "<html></html>"})
	require.True(t, a.Ledger.Purchase(published.ID, "buyer"))
	require.NoError(t, a.Close(ctx))

	reopened, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close(ctx) })

	assert.True(t, reopened.integrations()["persistence"])
	restored, err := reopened.Ledger.Get(published.ID)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", restored.Code)
	assert.Equal(t, 1, restored.Downloads)
	assert.Equal(t, 10.0, reopened.Ledger.Revenue())
}

func TestNew_InvalidEncryptionKey(t *testing.T) {
	cfg := newConfig(t, envMap{
		"ULTRABUILD_PERSISTENCE":    "true",
		"ULTRABUILD_ENCRYPTION_KEY": "not-a-key",
	})

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, newConfig(t, envMap{"VERCEL_TOKEN": "token"}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(ctx) })

	h := a.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, Version, status["version"])
	integrations := status["integrations"].(map[string]any)
	assert.Equal(t, true, integrations["vercel"])
	assert.Equal(t, false, integrations["github"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"name":"Shop","type":"ecommerce"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ultrabuild_generator_projects_total{complexity=`)
}
