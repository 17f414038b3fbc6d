package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Loader handles configuration loading from various sources.
type Loader struct{}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadForCommand layers defaults, the global config, a local config found
// from the working directory, and the command's flags.
func (l *Loader) LoadForCommand(cmd *cobra.Command) (*Config, error) {
	l.setupViperDefaults()
	l.loadGlobalConfig()
	l.loadLocalConfig()
	l.bindCommandFlags(cmd)

	return Load()
}

func (l *Loader) setupViperDefaults() {
	viper.SetDefault("template", DefaultTemplate)
	viper.SetDefault("theme", DefaultTheme)
	viper.SetDefault("verbose", DefaultVerbose)
}

// globalConfigDir resolves the per-user config directory: APPDATA on
// Windows, XDG config elsewhere.
func globalConfigDir() string {
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, "plhub")
	}

	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "plhub")
	}

	return ""
}

func (l *Loader) loadGlobalConfig() {
	globalDir := globalConfigDir()
	if globalDir == "" {
		return
	}

	for _, ext := range []string{"yml", "yaml", "json", "toml"} {
		globalPath := filepath.Join(globalDir, "config."+ext)

		if _, err := os.Stat(globalPath); err == nil {
			viper.SetConfigFile(globalPath)

			if err := viper.ReadInConfig(); err == nil {
				break
			}
		}
	}
}

func (l *Loader) loadLocalConfig() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	localPath := FindLocalConfig(cwd)
	if localPath != "" {
		viper.SetConfigFile(localPath)
		_ = viper.ReadInConfig()
	}
}

func (l *Loader) bindCommandFlags(cmd *cobra.Command) {
	_ = viper.BindPFlag("verbose", cmd.Flags().Lookup("verbose"))
	_ = viper.BindPFlag("debug", cmd.Flags().Lookup("debug"))
}
