package gcode

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SymbolStudio/internal/configuration"
	"github.com/piwi3910/SymbolStudio/internal/encoder"
	"github.com/piwi3910/SymbolStudio/internal/export"
	"github.com/piwi3910/SymbolStudio/internal/symbology"
)

// newTestSymbol returns a 2x2 matrix with three dark modules:
//
//	##
//	.#
func newTestSymbol(t *testing.T) encoder.EncodedSymbol {
	t.Helper()
	family := symbology.SymbolFamily{ID: "test", Name: "Test"}
	cfg, err := configuration.Build(configuration.DefaultCommon(), family, nil)
	require.NoError(t, err)
	return encoder.EncodedSymbol{
		FamilyID: "test",
		Data:     "x",
		Modules:  [][]bool{{true, true}, {false, true}},
		Config:   cfg,
	}
}

func newTestSettings() Settings {
	s := DefaultSettings()
	s.Profile = "Grbl"
	s.ModuleSize = 0.5
	s.LineInterval = 0.1
	s.FeedRate = 1000
	s.Power = 80
	return s
}

func TestGenerateHatchesDarkModules(t *testing.T) {
	code, err := New(newTestSettings()).Generate(newTestSymbol(t))
	require.NoError(t, err)

	moves := ParseGCode(code)
	stats := Summarize(moves)

	// two merged runs, each 0.5mm high, hatched at 0.1mm
	assert.Equal(t, 10, stats.Burns)
	assert.InDelta(t, 7.5, stats.BurnLength, 1e-6)
	assert.InDelta(t, 2.0, stats.MinX, 1e-6)
	assert.InDelta(t, 3.0, stats.MaxX, 1e-6)
	assert.InDelta(t, 2.05, stats.MinY, 1e-6)
	assert.InDelta(t, 2.95, stats.MaxY, 1e-6)

	for _, m := range moves {
		if m.Type == MoveBurn {
			assert.Equal(t, 800, m.Power)
			assert.Equal(t, m.FromY, m.ToY, "hatch lines are horizontal")
		}
	}
}

func TestGenerateHeaderAndFooter(t *testing.T) {
	code, err := New(newTestSettings()).Generate(newTestSymbol(t))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, "; SymbolStudio laser engraving: test\n"))
	assert.Contains(t, code, "G90\nG21\nG17\n")
	assert.Contains(t, code, "; Size: 5.00 x 5.00 mm")
	assert.True(t, strings.HasSuffix(code, "M5\nG0 X0 Y0\nM2\n"))
}

func TestGenerateUsesProfile(t *testing.T) {
	s := newTestSettings()
	s.Profile = "Marlin"
	code, err := New(s).Generate(newTestSymbol(t))
	require.NoError(t, err)

	assert.Contains(t, code, "M3 S204")
	assert.NotContains(t, code, "M4")
	assert.NotContains(t, code, "M2\n")
}

func TestGenerateParenthesisComments(t *testing.T) {
	s := newTestSettings()
	s.Profile = "LinuxCNC"
	code, err := New(s).Generate(newTestSymbol(t))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, "( SymbolStudio laser engraving: test)\n"))
	assert.Equal(t, 10, Summarize(ParseGCode(code)).Burns)
}

func TestGenerateOrigin(t *testing.T) {
	s := newTestSettings()
	s.OriginX, s.OriginY = 100, 50
	code, err := New(s).Generate(newTestSymbol(t))
	require.NoError(t, err)

	stats := Summarize(ParseGCode(code))
	assert.InDelta(t, 102.0, stats.MinX, 1e-6)
	assert.InDelta(t, 52.95, stats.MaxY, 1e-6)
}

func TestGenerateDefaultModuleSize(t *testing.T) {
	s := newTestSettings()
	s.ModuleSize = 0
	sym := newTestSymbol(t)
	code, err := New(s).Generate(sym)
	require.NoError(t, err)

	stats := Summarize(ParseGCode(code))
	assert.InDelta(t, 4*export.ModuleSize(sym), stats.MinX, 1e-3)
}

func TestGenerateRejects(t *testing.T) {
	_, err := New(newTestSettings()).Generate(encoder.EncodedSymbol{})
	assert.True(t, errors.Is(err, export.ErrNothingToExport))

	tests := []struct {
		name string
		edit func(s *Settings)
	}{
		{"zero interval", func(s *Settings) { s.LineInterval = 0 }},
		{"zero feed", func(s *Settings) { s.FeedRate = 0 }},
		{"too much power", func(s *Settings) { s.Power = 120 }},
		{"negative module", func(s *Settings) { s.ModuleSize = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSettings()
			tt.edit(&s)
			_, err := New(s).Generate(newTestSymbol(t))
			assert.ErrorIs(t, err, ErrInvalidSettings)
		})
	}
}

func TestGetProfileFallsBackToGeneric(t *testing.T) {
	assert.Equal(t, "Generic", GetProfile("nope").Name)
	assert.Equal(t, "Marlin", GetProfile("Marlin").Name)
	assert.Equal(t, []string{"Grbl", "Marlin", "LinuxCNC", "Generic"}, GetProfileNames())
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs", "symbol.nc")
	require.NoError(t, Save(path, "G0 X0 Y0\n"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "G0 X0 Y0\n", string(data))
}
