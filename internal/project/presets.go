package project

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/piwi3910/SymbolStudio/internal/model"
)

// DefaultPresetPath returns the default file path for the preset store.
// This is located at ~/.symbolstudio/presets.json.
func DefaultPresetPath() string {
	return filepath.Join(DefaultConfigDir(), "presets.json")
}

// SavePresets writes the preset store to a JSON file.
func SavePresets(path string, store model.PresetStore) error {
	return writeJSON(path, store)
}

// LoadPresets reads a preset store from a JSON file.
// If the file does not exist, returns an empty store.
func LoadPresets(path string) (model.PresetStore, error) {
	var store model.PresetStore
	if err := readJSON(path, &store); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewPresetStore(), nil
		}
		return model.PresetStore{}, err
	}
	if store.Presets == nil {
		store.Presets = []model.Preset{}
	}
	return store, nil
}

// ExportPreset writes a single preset to a JSON file for sharing.
func ExportPreset(path string, preset model.Preset) error {
	return writeJSON(path, preset)
}

// ImportPreset reads a single preset from a JSON file.
func ImportPreset(path string) (model.Preset, error) {
	var preset model.Preset
	if err := readJSON(path, &preset); err != nil {
		return model.Preset{}, err
	}
	if preset.Name == "" {
		return model.Preset{}, errors.New("imported preset has no name")
	}
	if _, err := preset.Common(); err != nil {
		return model.Preset{}, err
	}
	return preset, nil
}
