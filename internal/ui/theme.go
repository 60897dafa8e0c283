package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// systemVariant marks "follow the OS" in StudioTheme.
const systemVariant fyne.ThemeVariant = 99

// StudioTheme wraps the default Fyne theme with compact sizing and a
// user-selectable light/dark variant.
type StudioTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
}

// NewStudioTheme creates a theme for a persisted preference ("light",
// "dark" or anything else for the system default).
func NewStudioTheme(pref string) *StudioTheme {
	t := &StudioTheme{base: theme.DefaultTheme()}
	t.SetPreference(pref)
	return t
}

// SetPreference updates the variant from a persisted preference.
func (t *StudioTheme) SetPreference(pref string) {
	switch pref {
	case "light":
		t.variant = theme.VariantLight
	case "dark":
		t.variant = theme.VariantDark
	default:
		t.variant = systemVariant
	}
}

func (t *StudioTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.variant != systemVariant {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

func (t *StudioTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *StudioTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides for the dense settings panels.
func (t *StudioTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 18
	case theme.SizeNameSubHeadingText:
		return 14
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
