package prompt

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/lo"
)

const settingsFilename = "prompt_settings.json"

// Settings holds the per-template preferences remembered between runs.
type Settings struct {
	// OutputField is the note field this template writes to by default.
	OutputField string `json:"output_field,omitempty"`
	// Append, when set, overrides the global append/replace preference.
	Append *bool `json:"append,omitempty"`
}

func (s *Store) settingsPath() string {
	return filepath.Join(s.dir, settingsFilename)
}

// AllSettings loads the settings for every template. A missing file is an
// empty map.
func (s *Store) AllSettings() (map[string]Settings, error) {
	data, err := os.ReadFile(s.settingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read prompt settings: %w", err)
	}

	settings := make(map[string]Settings)
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse prompt settings: %w", err)
	}
	return settings, nil
}

// SettingsFor returns the settings for one template, zero-valued when none
// are stored.
func (s *Store) SettingsFor(name string) (Settings, error) {
	all, err := s.AllSettings()
	if err != nil {
		return Settings{}, err
	}
	return all[name], nil
}

// PutSettings stores the settings for one template.
func (s *Store) PutSettings(name string, settings Settings) error {
	all, err := s.AllSettings()
	if err != nil {
		return err
	}
	all[name] = settings
	return s.writeSettings(all)
}

func (s *Store) deleteSettings(name string) error {
	all, err := s.AllSettings()
	if err != nil {
		return err
	}
	if _, ok := all[name]; !ok {
		return nil
	}
	delete(all, name)
	return s.writeSettings(all)
}

func (s *Store) renameSettings(oldName, newName string) error {
	all, err := s.AllSettings()
	if err != nil {
		return err
	}
	settings, ok := all[oldName]
	if !ok {
		return nil
	}
	delete(all, oldName)
	all[newName] = settings
	return s.writeSettings(all)
}

func (s *Store) writeSettings(all map[string]Settings) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.dir, err)
	}

	data := lo.Must(json.MarshalIndent(all, "", "  "))
	if err := os.WriteFile(s.settingsPath(), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write prompt settings: %w", err)
	}
	return nil
}
