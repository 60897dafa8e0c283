package project

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/piwi3910/SymbolStudio/internal/model"
)

// DefaultConfigDir returns ~/.symbolstudio, or .symbolstudio in the working
// directory when the home directory is unknown.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".symbolstudio")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to path as JSON.
func SaveAppConfig(path string, config model.AppConfig) error {
	return writeJSON(path, config)
}

// LoadAppConfig reads an AppConfig from path. A missing file yields
// DefaultAppConfig; fields missing from the file keep their defaults.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	if err := readJSON(path, &config); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	if config.RecentExports == nil {
		config.RecentExports = []string{}
	}
	return config, nil
}
