package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/julianstephens/focusboard/internal/constants"
)

// DefaultConfigPath is $XDG_CONFIG_HOME/focusboard/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, constants.AppName, constants.DefaultConfigName)
}

// DefaultDBPath is the SQLite history database under $XDG_DATA_HOME.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, constants.AppName, constants.DefaultDBName)
}

// DefaultStatePath is where a locally synced state.json is expected.
func DefaultStatePath() string {
	return filepath.Join(xdg.DataHome, constants.AppName, "state.json")
}

// DefaultOverridePath sits next to the default state file.
func DefaultOverridePath() string {
	return filepath.Join(xdg.DataHome, constants.AppName, "override.json")
}

// StateHome returns the directory for logs and runtime files, creating it.
// FOCUSBOARD_STATE_HOME overrides the XDG location.
func StateHome() (string, error) {
	dir := os.Getenv("FOCUSBOARD_STATE_HOME")
	if dir == "" {
		dir = filepath.Join(xdg.StateHome, constants.AppName)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}
	return dir, nil
}
