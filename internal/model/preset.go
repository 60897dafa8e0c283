package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/SymbolStudio/internal/configuration"
)

// Preset is a named, reusable style: a family and a set of common settings.
// Family parameters are not stored; they always start from the catalog
// defaults when a preset is applied.
type Preset struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
	Family      string    `json:"family"`
	Settings    AppConfig `json:"settings"`
}

// NewPreset captures family and c under name.
func NewPreset(name, description, family string, c configuration.Common) Preset {
	now := time.Now().UTC().Format(time.RFC3339)
	settings := AppConfigFromCommon(c, AppConfig{})
	settings.DefaultFamily = family
	return Preset{
		ID:          uuid.New().String()[:8],
		Name:        strings.TrimSpace(name),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Family:      family,
		Settings:    settings,
	}
}

// Common returns the stored common settings.
func (p Preset) Common() (configuration.Common, error) {
	c := configuration.DefaultCommon()
	err := p.Settings.ApplyToCommon(&c)
	return c, err
}

// PresetStore holds the saved presets.
type PresetStore struct {
	Presets []Preset `json:"presets"`
}

func NewPresetStore() PresetStore {
	return PresetStore{Presets: []Preset{}}
}

// Put adds p, replacing any preset with the same name.
func (ps *PresetStore) Put(p Preset) {
	if existing := ps.FindByName(p.Name); existing != nil {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		*existing = p
		return
	}
	ps.Presets = append(ps.Presets, p)
}

// Remove removes a preset by ID. Returns true if found and removed.
func (ps *PresetStore) Remove(id string) bool {
	for i, p := range ps.Presets {
		if p.ID == id {
			ps.Presets = append(ps.Presets[:i], ps.Presets[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the preset with the given ID, or nil.
func (ps *PresetStore) FindByID(id string) *Preset {
	for i := range ps.Presets {
		if ps.Presets[i].ID == id {
			return &ps.Presets[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the preset with the given name, or nil.
func (ps *PresetStore) FindByName(name string) *Preset {
	for i := range ps.Presets {
		if ps.Presets[i].Name == name {
			return &ps.Presets[i]
		}
	}
	return nil
}

// Names returns the preset names for UI dropdowns.
func (ps *PresetStore) Names() []string {
	names := make([]string, len(ps.Presets))
	for i, p := range ps.Presets {
		names[i] = p.Name
	}
	return names
}
