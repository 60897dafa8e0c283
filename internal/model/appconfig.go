package model

import (
	"fmt"
	"strings"

	"github.com/piwi3910/SymbolStudio/internal/configuration"
)

// maxRecentExports bounds AppConfig.RecentExports.
const maxRecentExports = 10

// AppConfig holds application-wide preferences and the default common
// settings applied to every new session.
type AppConfig struct {
	DefaultFamily string `json:"default_family"`

	// Default common settings. Colours are #rrggbb, bar height and text
	// margin are in modules, multiplier in pixels per module. Alignment is
	// one of left, center, right or stretch; position is below or above.
	Foreground    string  `json:"foreground"`
	Background    string  `json:"background"`
	TextColor     string  `json:"text_color"`
	FontName      string  `json:"font_name"`
	FontSize      float64 `json:"font_size"`
	FontBold      bool    `json:"font_bold"`
	Rotation      int     `json:"rotation"`
	BarHeight     float64 `json:"bar_height"`
	TextMargin    float64 `json:"text_margin"`
	Multiplier    int     `json:"multiplier"`
	TextAlignment string  `json:"text_alignment"`
	TextPosition  string  `json:"text_position"`
	ShowText      bool    `json:"show_text"`

	// Application preferences
	RecentExports []string `json:"recent_exports"`
	Theme         string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig matching configuration.DefaultCommon.
func DefaultAppConfig() AppConfig {
	cfg := AppConfigFromCommon(configuration.DefaultCommon(), AppConfig{})
	cfg.DefaultFamily = "qrcode"
	cfg.RecentExports = []string{}
	cfg.Theme = "system"
	return cfg
}

// AppConfigFromCommon stores common settings into a copy of base.
func AppConfigFromCommon(c configuration.Common, base AppConfig) AppConfig {
	base.Foreground = configuration.Hex(c.Foreground)
	base.Background = configuration.Hex(c.Background)
	base.TextColor = configuration.Hex(c.TextColor)
	base.FontName = c.Font.Name
	base.FontSize = c.Font.Size
	base.FontBold = c.Font.Bold
	base.Rotation = c.Rotation
	base.BarHeight = c.BarHeight
	base.TextMargin = c.TextMargin
	base.Multiplier = c.Multiplier
	base.TextAlignment = strings.ToLower(c.TextAlignment.String())
	base.TextPosition = strings.ToLower(c.TextPosition.String())
	base.ShowText = c.ShowText
	return base
}

// ApplyToCommon copies the stored defaults into c. On error c is left
// unchanged.
func (a AppConfig) ApplyToCommon(c *configuration.Common) error {
	out := *c
	var err error
	if out.Foreground, err = configuration.ParseHex(a.Foreground); err != nil {
		return fmt.Errorf("foreground: %w", err)
	}
	if out.Background, err = configuration.ParseHex(a.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if out.TextColor, err = configuration.ParseHex(a.TextColor); err != nil {
		return fmt.Errorf("text colour: %w", err)
	}
	if out.Rotation, err = configuration.ParseRotation(a.Rotation); err != nil {
		return err
	}
	out.Font = configuration.Font{Name: a.FontName, Size: a.FontSize, Bold: a.FontBold}
	out.BarHeight = a.BarHeight
	out.TextMargin = a.TextMargin
	out.Multiplier = a.Multiplier
	out.TextAlignment = parseAlignment(a.TextAlignment)
	out.TextPosition = configuration.TextBelow
	if strings.EqualFold(a.TextPosition, "above") {
		out.TextPosition = configuration.TextAbove
	}
	out.ShowText = a.ShowText
	if err := out.Validate(); err != nil {
		return err
	}
	*c = out
	return nil
}

func parseAlignment(s string) configuration.TextAlignment {
	for _, a := range configuration.TextAlignments() {
		if strings.EqualFold(a.String(), s) {
			return a
		}
	}
	return configuration.AlignCenter
}

// AddRecentExport records path as the most recent export, dropping
// duplicates and the oldest entries beyond the limit.
func (a *AppConfig) AddRecentExport(path string) {
	recent := []string{path}
	for _, p := range a.RecentExports {
		if p != path && len(recent) < maxRecentExports {
			recent = append(recent, p)
		}
	}
	a.RecentExports = recent
}
