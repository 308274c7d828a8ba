package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/YatoVoid/Macro-Tool/internal/model"
	"github.com/YatoVoid/Macro-Tool/pkg/utils"
)

// Settings are the user preferences that outlive a session.
type Settings struct {
	Hotkeys  model.HotkeyBinding `json:"hotkeys"`
	Speed    float64             `json:"speed"`
	Language string              `json:"language,omitempty"`
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		Hotkeys: model.DefaultBinding(),
		Speed:   1.0,
	}
}

// SettingsPath returns the settings file location.
func SettingsPath() string {
	return filepath.Join(utils.GetConfigDir(), "settings.json")
}

// LoadSettings reads settings from path, falling back to defaults when
// the file does not exist yet.
func LoadSettings(path string) (Settings, error) {
	if path == "" {
		path = SettingsPath()
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return DefaultSettings(), fmt.Errorf("read settings: %w", err)
	}
	s := DefaultSettings()
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("parse settings: %w", err)
	}
	if s.Speed <= 0 {
		s.Speed = 1.0
	}
	return s, nil
}

// SaveSettings writes settings to path, creating parent directories as
// needed.
func SaveSettings(path string, s Settings) error {
	if path == "" {
		path = SettingsPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
