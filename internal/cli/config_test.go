package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evdstack/create-evd/internal/branding"
	"github.com/evdstack/create-evd/internal/config"
)

func TestConfigSetGetPath(t *testing.T) {
	setup(t)

	out, err := runCLI(t, "", "config", "set", "prod_port", "9443")
	require.NoError(t, err)
	assert.Equal(t, "Set prod_port = 9443\n", out)

	out, err = runCLI(t, "", "config", "get", "prod_port")
	require.NoError(t, err)
	assert.Equal(t, "9443\n", out)

	out, err = runCLI(t, "", "config", "path")
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".create-evd", "config.yaml"), path)
	assert.FileExists(t, path)

	out, err = runCLI(t, "", "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "is valid.")
}

func TestConfigSetUnknownKey(t *testing.T) {
	setup(t)

	_, err := runCLI(t, "", "config", "set", "colour", "blue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestConfigValidateMissingFile(t *testing.T) {
	setup(t)

	out, err := runCLI(t, "", "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "defaults apply")
}

func TestConfigValidateInvalidFile(t *testing.T) {
	work := setup(t)
	file := filepath.Join(work, "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte("dev_port: 0\nvcs:\n  backend: svn\n"), 0o644))

	out, err := runCLI(t, "", "config", "validate", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "issue(s)")
	assert.Contains(t, out, "/dev_port")
	assert.Contains(t, out, "/vcs/backend")
}

func TestConfigEnvOverride(t *testing.T) {
	setup(t)

	out, err := runCLI(t, "", "config", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE_EVD_DEV_PORT")
	assert.Contains(t, out, "CREATE_EVD_VCS_BACKEND")

	t.Setenv(branding.EnvVar(config.KeyProdPort), "9555")
	out, err = runCLI(t, "", "config", "get", "prod_port")
	require.NoError(t, err)
	assert.Equal(t, "9555\n", out)
}
