package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment
// variables first.
// Environment variables:
//   - LAZYMAINT_CONFIG_PATH: config file location (default: ~/.config/lazymaint.toml)
//   - LAZYMAINT_HOME: media-center home directory (default: ~/.kodi)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	home, err := getMediaHome()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"home":        home,
	}, nil
}

// getConfigPath returns the config file path, checking
// LAZYMAINT_CONFIG_PATH first, then ~/.config/lazymaint.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("LAZYMAINT_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "lazymaint.toml"), nil
}

// getMediaHome returns the media-center home directory, checking
// LAZYMAINT_HOME first, then the conventional ~/.kodi.
func getMediaHome() (string, error) {
	if path := os.Getenv("LAZYMAINT_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".kodi"), nil
}
