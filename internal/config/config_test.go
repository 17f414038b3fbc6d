package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplate, cfg.Template)
	assert.Equal(t, DefaultTheme, cfg.Theme)
	assert.False(t, cfg.Verbose)
}

func TestLoadFromViper(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("template", "console")
	viper.Set("verbose", true)
	viper.Set("runtime_path", "some/relative/pohlang")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "console", cfg.Template)
	assert.True(t, cfg.Verbose)
	assert.True(t, filepath.IsAbs(cfg.RuntimePath))
}

func TestFindLocalConfig(t *testing.T) {
	tempDir := t.TempDir()
	subDir := filepath.Join(tempDir, "subdir")
	require.NoError(t, os.Mkdir(subDir, 0o755))

	configYML := filepath.Join(subDir, ".plhub.yml")
	require.NoError(t, os.WriteFile(configYML, []byte("template: console"), 0o644))

	// Found in the directory itself.
	assert.Equal(t, configYML, FindLocalConfig(subDir))

	// Found from a nested directory.
	assert.Equal(t, configYML, FindLocalConfig(filepath.Join(subDir, "deep")))

	// Not found above.
	assert.Equal(t, "", FindLocalConfig(tempDir))
}

func TestFindLocalConfigPrefersYml(t *testing.T) {
	dir := t.TempDir()

	ymlPath := filepath.Join(dir, ".plhub.yml")
	jsonPath := filepath.Join(dir, ".plhub.json")
	require.NoError(t, os.WriteFile(ymlPath, []byte(""), 0o644))
	require.NoError(t, os.WriteFile(jsonPath, []byte("{}"), 0o644))

	assert.Equal(t, ymlPath, FindLocalConfig(dir))
}
