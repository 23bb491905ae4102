package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qerrors "quote-calculator/internal/errors"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secrets")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestFileSourceTrims(t *testing.T) {
	key, err := FileSource{Path: writeFile(t, "  abc123\n")}.Key()
	require.NoError(t, err)
	assert.Equal(t, "abc123", key)
}

func TestFileSourceMissingOrEmpty(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "missing")}.Key()
	assert.True(t, qerrors.IsType(err, qerrors.TypeNotConfigured))

	_, err = FileSource{Path: writeFile(t, " \n\t")}.Key()
	assert.True(t, qerrors.IsType(err, qerrors.TypeNotConfigured))
}

func TestEnvSource(t *testing.T) {
	t.Setenv("TEST_ORS_KEY", " from-env ")
	key, err := EnvSource{Var: "TEST_ORS_KEY"}.Key()
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)

	t.Setenv("TEST_ORS_KEY", "")
	_, err = EnvSource{Var: "TEST_ORS_KEY"}.Key()
	assert.True(t, qerrors.IsType(err, qerrors.TypeNotConfigured))
}

func TestChainPrefersFile(t *testing.T) {
	t.Setenv("TEST_ORS_KEY", "env-key")

	key, err := Default(writeFile(t, "file-key"), "TEST_ORS_KEY").Key()
	require.NoError(t, err)
	assert.Equal(t, "file-key", key)

	key, err = Default(filepath.Join(t.TempDir(), "missing"), "TEST_ORS_KEY").Key()
	require.NoError(t, err)
	assert.Equal(t, "env-key", key)
}

func TestChainNothingConfigured(t *testing.T) {
	t.Setenv("TEST_ORS_KEY", "")
	c := Default(filepath.Join(t.TempDir(), "missing"), "TEST_ORS_KEY")

	_, err := c.Key()
	require.Error(t, err)
	assert.True(t, qerrors.IsType(err, qerrors.TypeNotConfigured))
	assert.Contains(t, c.Name(), "env:TEST_ORS_KEY")
}
