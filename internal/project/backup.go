package project

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/piwi3910/SymbolStudio/internal/model"
)

// BackupVersion is written into every backup. Files with another major
// version are rejected on import.
const BackupVersion = "1.0.0"

var ErrInvalidBackup = errors.New("invalid backup file")

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string            `json:"version"`
	CreatedAt string            `json:"created_at"`
	Config    model.AppConfig   `json:"config"`
	Presets   model.PresetStore `json:"presets"`
}

// ExportAllData writes preferences and presets to a single JSON file.
func ExportAllData(exportPath string, config model.AppConfig, presets model.PresetStore) error {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Presets:   presets,
	}
	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup file. Applying it is left to the caller.
func ImportAllData(importPath string) (BackupData, error) {
	backup := BackupData{Config: model.DefaultAppConfig()}
	if err := readJSON(importPath, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("%w: missing version field", ErrInvalidBackup)
	}
	if major(backup.Version) != major(BackupVersion) {
		return BackupData{}, fmt.Errorf("%w: unsupported version %s", ErrInvalidBackup, backup.Version)
	}
	if backup.Config.RecentExports == nil {
		backup.Config.RecentExports = []string{}
	}
	if backup.Presets.Presets == nil {
		backup.Presets.Presets = []model.Preset{}
	}
	return backup, nil
}

func major(version string) string {
	m, _, _ := strings.Cut(version, ".")
	return m
}
