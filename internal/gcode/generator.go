// Package gcode turns encoded symbols into laser engraving programs and
// reads such programs back for checking.
package gcode

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/SymbolStudio/internal/encoder"
	"github.com/piwi3910/SymbolStudio/internal/export"
)

var ErrInvalidSettings = errors.New("invalid engraving settings")

// Settings control how a symbol is engraved. Lengths are in millimetres.
type Settings struct {
	Profile string
	// ModuleSize is the edge of one module; zero uses the on-screen size.
	ModuleSize float64
	// LineInterval is the distance between hatch lines inside a dark area.
	LineInterval float64
	FeedRate     float64 // mm/min while burning
	Power        float64 // percent of the profile's maximum
	OriginX      float64
	OriginY      float64
}

// DefaultSettings engrave at 0.5 mm modules with 0.1 mm hatching.
func DefaultSettings() Settings {
	return Settings{
		Profile:      "Grbl",
		ModuleSize:   0.5,
		LineInterval: 0.1,
		FeedRate:     1500,
		Power:        80,
	}
}

func (s Settings) Validate() error {
	switch {
	case s.ModuleSize < 0:
		return fmt.Errorf("%w: module size %.3f", ErrInvalidSettings, s.ModuleSize)
	case s.LineInterval <= 0:
		return fmt.Errorf("%w: line interval %.3f", ErrInvalidSettings, s.LineInterval)
	case s.FeedRate <= 0:
		return fmt.Errorf("%w: feed rate %.0f", ErrInvalidSettings, s.FeedRate)
	case s.Power <= 0 || s.Power > 100:
		return fmt.Errorf("%w: power %.0f%%", ErrInvalidSettings, s.Power)
	}
	return nil
}

// Generator produces laser G-code for encoded symbols.
type Generator struct {
	Settings Settings
	profile  Profile
}

func New(settings Settings) *Generator {
	return &Generator{
		Settings: settings,
		profile:  GetProfile(settings.Profile),
	}
}

// Generate returns the program engraving every dark area of sym. The
// symbol is placed with its bottom-left corner, quiet zone included, at the
// origin.
func (g *Generator) Generate(sym encoder.EncodedSymbol) (string, error) {
	if sym.IsZero() {
		return "", export.ErrNothingToExport
	}
	if err := g.Settings.Validate(); err != nil {
		return "", err
	}
	geom := export.Vectorize(sym)
	module := g.moduleSize(sym)

	var b strings.Builder
	g.writeHeader(&b, sym, geom, module)
	for _, r := range geom.Dark {
		g.writeArea(&b, geom, r, module)
	}
	g.writeFooter(&b)
	return b.String(), nil
}

func (g *Generator) moduleSize(sym encoder.EncodedSymbol) float64 {
	if g.Settings.ModuleSize > 0 {
		return g.Settings.ModuleSize
	}
	return export.ModuleSize(sym)
}

func (g *Generator) power() int {
	return int(math.Round(g.Settings.Power / 100 * float64(g.profile.MaxPower)))
}

func (g *Generator) writeHeader(b *strings.Builder, sym encoder.EncodedSymbol, geom export.Geometry, module float64) {
	p := g.profile
	cols, rows := sym.Size()

	b.WriteString(g.comment(fmt.Sprintf("SymbolStudio laser engraving: %s", sym.FamilyID)))
	b.WriteString(g.comment(fmt.Sprintf("Symbol: %d x %d modules, %.2f mm per module", cols, rows, module)))
	b.WriteString(g.comment(fmt.Sprintf("Size: %.2f x %.2f mm", geom.Width*module, geom.Height*module)))
	b.WriteString(g.comment(fmt.Sprintf("Feed: %.0f mm/min, Power: %.0f%%, Hatch: %.3f mm",
		g.Settings.FeedRate, g.Settings.Power, g.Settings.LineInterval)))
	b.WriteString(g.comment("Profile: " + p.Name))
	b.WriteString("\n")

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}
	b.WriteString(p.LaserOff + "\n")
	b.WriteString(fmt.Sprintf("%s X%s Y%s\n", p.RapidMove, g.format(g.Settings.OriginX), g.format(g.Settings.OriginY)))
	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *strings.Builder) {
	b.WriteString("\n")
	b.WriteString(g.comment("=== Job complete ==="))
	for _, code := range g.profile.EndCode {
		b.WriteString(code + "\n")
	}
}

// writeArea fills one dark rectangle with horizontal hatch lines,
// alternating direction. Geometry y grows downwards; machine y grows up.
func (g *Generator) writeArea(b *strings.Builder, geom export.Geometry, r export.Rect, module float64) {
	p := g.profile
	x0 := g.Settings.OriginX + r.X*module
	x1 := x0 + r.W*module
	top := g.Settings.OriginY + (geom.Height-r.Y)*module
	height := r.H * module

	step := g.Settings.LineInterval
	lines := max(1, int(math.Round(height/step)))
	step = height / float64(lines)

	power := fmt.Sprintf(p.LaserOn, g.power())
	for i := 0; i < lines; i++ {
		y := top - (float64(i)+0.5)*step
		from, to := x0, x1
		if i%2 == 1 {
			from, to = x1, x0
		}
		b.WriteString(fmt.Sprintf("%s X%s Y%s\n", p.RapidMove, g.format(from), g.format(y)))
		b.WriteString(power + "\n")
		b.WriteString(fmt.Sprintf("%s X%s F%s\n", p.FeedMove, g.format(to), g.format(g.Settings.FeedRate)))
		b.WriteString(p.LaserOff + "\n")
	}
}

func (g *Generator) comment(text string) string {
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

// format formats a coordinate according to the profile's decimal places.
func (g *Generator) format(v float64) string {
	return fmt.Sprintf("%.*f", g.profile.DecimalPlaces, v)
}

// Save writes a program to path, creating the directory.
func Save(path, code string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(code), 0644)
}
