package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadApplicationConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
name = "Test App"
start_pos_x = 10
start_pos_y = 20
start_width = 640
start_height = 480
log_level = "warn"
debug = false
shader_dir = "out/shaders"
texture_path = "assets/logo.png"
target_fps = 144
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	config, err := LoadApplicationConfig(path)
	require.NoError(t, err)
	require.Equal(t, "Test App", config.Name)
	require.Equal(t, uint32(10), config.StartPosX)
	require.Equal(t, uint32(20), config.StartPosY)
	require.Equal(t, uint32(640), config.StartWidth)
	require.Equal(t, uint32(480), config.StartHeight)
	require.Equal(t, "warn", config.LogLevel)
	require.False(t, config.Debug)
	require.Equal(t, "out/shaders", config.ShaderDir)
	require.Equal(t, "assets/logo.png", config.TexturePath)
	require.Equal(t, uint32(144), config.TargetFPS)
}

func TestLoadApplicationConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := LoadApplicationConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, DefaultApplicationConfig(), config)
}

func TestLoadApplicationConfigPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`name = "Partial"`), 0o644))

	config, err := LoadApplicationConfig(path)
	require.NoError(t, err)
	require.Equal(t, "Partial", config.Name)
	require.Equal(t, DefaultApplicationConfig().StartWidth, config.StartWidth)
	require.Equal(t, DefaultApplicationConfig().LogLevel, config.LogLevel)
}

func TestLoadApplicationConfigRejectsZeroDimensions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("start_width = 0\nstart_height = 0\n"), 0o644))

	_, err := LoadApplicationConfig(path)
	require.Error(t, err)
}

func TestLoadApplicationConfigRejectsMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("start_width = ["), 0o644))

	_, err := LoadApplicationConfig(path)
	require.Error(t, err)
}
