// Package config loads registrar settings from a yaml file. The file is
// optional: an absent file yields defaults, so a bare install works
// without any configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/registrar/pkg/adapter"
)

// Settings is the full on-disk configuration.
type Settings struct {
	Browser  BrowserSettings            `yaml:"browser"`
	Adapters map[string]AdapterSettings `yaml:"adapters"`
}

// BrowserSettings configures the shared session manager.
type BrowserSettings struct {
	Headless               *bool `yaml:"headless"`
	ViewportWidth          int   `yaml:"viewport_width"`
	ViewportHeight         int   `yaml:"viewport_height"`
	NavigateTimeoutSeconds int   `yaml:"navigate_timeout_seconds"`
}

// AdapterSettings overrides one adapter profile's tunables. The score
// thresholds vary per site family with no unified rationale yet, so
// they stay configurable here for product review rather than being
// collapsed into one number.
type AdapterSettings struct {
	MinFormScore  *int `yaml:"min_form_score"`
	SettleDelayMS *int `yaml:"settle_delay_ms"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	headless := true
	return Settings{
		Browser: BrowserSettings{
			Headless:               &headless,
			ViewportWidth:          1280,
			ViewportHeight:         720,
			NavigateTimeoutSeconds: 30,
		},
	}
}

// DefaultPath is the settings location used when none is given.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".registrar", "settings.yaml"), nil
}

// Load reads settings from path, layering the file over defaults. A
// missing file is not an error.
func Load(path string) (Settings, error) {
	settings := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read settings from %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Default(), fmt.Errorf("failed to parse settings from %s: %w", path, err)
	}
	return settings, nil
}

// Save writes settings to path, creating the directory if needed.
func Save(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	// Atomic write: temp file then rename.
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename settings file: %w", err)
	}
	return nil
}

// ApplyTo overlays any per-adapter overrides onto a profile, matched by
// adapter name.
func (s Settings) ApplyTo(profile *adapter.Profile) {
	override, ok := s.Adapters[profile.AdapterName]
	if !ok {
		return
	}
	if override.MinFormScore != nil {
		profile.MinFormScore = *override.MinFormScore
	}
	if override.SettleDelayMS != nil {
		profile.SettleDelay = time.Duration(*override.SettleDelayMS) * time.Millisecond
	}
}

// NavigateTimeout returns the configured navigation timeout.
func (b BrowserSettings) NavigateTimeout() time.Duration {
	if b.NavigateTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(b.NavigateTimeoutSeconds) * time.Second
}

// IsHeadless returns the headless setting, defaulting to true.
func (b BrowserSettings) IsHeadless() bool {
	if b.Headless == nil {
		return true
	}
	return *b.Headless
}
