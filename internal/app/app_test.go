package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-calculator/internal/config"
	qerrors "quote-calculator/internal/errors"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Secrets.File = filepath.Join(t.TempDir(), "secrets")
	cfg.Secrets.EnvVar = "TEST_APP_ORS"
	cfg.Server.PublicDir = ""
	t.Setenv("TEST_APP_ORS", "")
	return cfg
}

func TestNewWithoutKey(t *testing.T) {
	a, err := New(testConfig(t), nil)
	require.NoError(t, err)
	assert.False(t, a.Resolver.Configured())
	assert.Equal(t, "2024.2", a.Catalog.Version)
}

func TestNewWithKeyFile(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Secrets.File, []byte("k\n"), 0o600))

	a, err := New(cfg, nil)
	require.NoError(t, err)
	assert.True(t, a.Resolver.Configured())

	srv := httptest.NewServer(a.Server())
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/api/config")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
version = "custom"
location "austin" {
  origin        = [-97.74, 30.27]
  rate_per_mile = 0.5
  category "sound" {
    tier "standard" {
      code = "200-4-30"
    }
  }
}
`), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", c.Version)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.True(t, qerrors.IsType(err, qerrors.TypeConfig))
}
