package app

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Settings represents configuration loaded from config.yaml.
// Field names match snake_case YAML keys.
type Settings struct {
	Endpoint          string `yaml:"endpoint"`
	ListenAddr        string `yaml:"listen_addr"`
	DBPath            string `yaml:"db_path"`
	AutoSendErrors    bool   `yaml:"auto_send_errors"`
	AutoDisplayWindow bool   `yaml:"auto_display_window"`
	WindowTitle       string `yaml:"window_title"`
}

// DefaultListenAddr is where the collector binds when neither config nor
// flags say otherwise.
const DefaultListenAddr = ":8377"

// EffectiveListenAddr returns the configured listen address with the default
// applied.
func EffectiveListenAddr() string {
	s, err := LoadSettings()
	if err != nil || s.ListenAddr == "" {
		return DefaultListenAddr
	}
	return s.ListenAddr
}

// settingsOnce, settings, settingsErr implement the sync.Once lazy-load singleton for config.
// dbPathOverrideMu and dbPathOverride implement a mutex-protected process-wide override for CLI --db-path.
//
//nolint:gochecknoglobals // sync.Once singleton + RWMutex override are intentional process-wide state
var (
	settingsOnce sync.Once
	settings     Settings
	settingsErr  error

	dbPathOverrideMu sync.RWMutex
	dbPathOverride   string
)

// SetDBPathOverride sets a process-wide database path override.
// Intended for CLI flag support (e.g. --db-path).
func SetDBPathOverride(path string) {
	dbPathOverrideMu.Lock()
	dbPathOverride = path
	dbPathOverrideMu.Unlock()
}

func getDBPathOverride() string {
	dbPathOverrideMu.RLock()
	v := dbPathOverride
	dbPathOverrideMu.RUnlock()
	return v
}

// LoadSettings loads configuration once using the documented lookup order.
// Lookup order (first found wins):
// 1) ~/.config/errtracker/config.yaml
// 2) /etc/errtracker/config.yaml
// 3) ./config.yaml (lowest priority; allows repo-local overrides if desired)
func LoadSettings() (Settings, error) {
	settingsOnce.Do(func() {
		settings = Settings{}

		// 1) User config (~/.config/errtracker/config.yaml)
		dir, err := ConfigDir()
		if err != nil {
			settingsErr = err
			return
		}
		if s, err := loadSettingsFile(filepath.Join(dir, "config.yaml")); err == nil {
			settings = s
			return
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			settingsErr = err
			return
		}

		// 2) /etc
		if s, err := loadSettingsFile(filepath.Join(string(os.PathSeparator), "etc", "errtracker", "config.yaml")); err == nil {
			settings = s
			return
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			settingsErr = err
			return
		}

		// 3) Local ./config.yaml (lowest priority)
		if s, err := loadSettingsFile("config.yaml"); err == nil {
			settings = s
			return
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			settingsErr = err
			return
		}
	})

	return settings, settingsErr
}

func loadSettingsFile(path string) (Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
