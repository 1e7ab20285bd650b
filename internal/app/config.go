package app

import (
	"os"
	"path/filepath"
)

// ConfigDir returns ~/.config/errtracker/ on all platforms.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "errtracker"), nil
}

// EnsureConfigDir creates the config directory and default config.yaml if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return os.WriteFile(configFile, []byte(defaultConfig), 0600)
	}
	return nil
}

const defaultConfig = `# errtracker configuration
# Run: errtracker --help

# Collector endpoint reports are sent to.
# endpoint: http://localhost:8377/v1/errors

# Address the collector listens on (errtracker collect).
# listen_addr: :8377

# Optional: override the collector database location.
# Can also be set via ERRTRACKER_DB_PATH or --db-path.
# db_path: ~/.config/errtracker/collector.db

# Client behaviour after a fault is saved.
# auto_send_errors: false
# auto_display_window: false
# window_title: An error occurred
`
