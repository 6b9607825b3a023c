package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/rewind/pkg/config"
	"github.com/arthur-debert/rewind/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPather(t *testing.T) (dataDir, configDir string) {
	t.Helper()
	dataDir = t.TempDir()
	configDir = t.TempDir()
	t.Setenv(paths.EnvRewindDataDir, dataDir)
	t.Setenv(paths.EnvRewindConfigDir, configDir)
	t.Setenv(paths.EnvRewindStateDir, t.TempDir())
	return dataDir, configDir
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.False(t, cfg.Undo.Cascade)
	assert.True(t, cfg.Undo.ConfirmCascade)
	assert.Empty(t, cfg.Journal.Path)
	assert.Empty(t, cfg.Backups.Dir)
	assert.Equal(t, "auto", cfg.Display.Color)
}

func TestLoad_NoUserConfig(t *testing.T) {
	testPather(t)

	cfg, err := config.Load(paths.New())
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_UserConfigOverlays(t *testing.T) {
	_, configDir := testPather(t)

	user := `
[undo]
cascade = true

[display]
color = "never"
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, paths.ConfigFileName), []byte(user), 0644))

	cfg, err := config.Load(paths.New())
	require.NoError(t, err)

	assert.True(t, cfg.Undo.Cascade)
	assert.Equal(t, "never", cfg.Display.Color)
	// Untouched keys keep their defaults.
	assert.True(t, cfg.Undo.ConfirmCascade)
}

func TestLoad_BadTOML(t *testing.T) {
	_, configDir := testPather(t)
	require.NoError(t, os.WriteFile(filepath.Join(configDir, paths.ConfigFileName), []byte("not toml ["), 0644))

	_, err := config.Load(paths.New())
	assert.Error(t, err)
}

func TestConfig_TOMLRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.Undo.Cascade = true

	data, err := cfg.TOML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "cascade = true")
	assert.Contains(t, string(data), "[journal]")
}
