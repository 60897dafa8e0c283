// Package configuration builds the immutable configuration handed to the
// encoder for one generation attempt.
package configuration

import (
	"errors"
	"fmt"
	"image/color"
	"maps"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/piwi3910/SymbolStudio/internal/symbology"
)

var (
	// ErrIncompleteConfiguration indicates a schema parameter without a
	// resolved value. Defaults make this unreachable in normal operation.
	ErrIncompleteConfiguration = errors.New("incomplete configuration")

	ErrInvalidRotation = errors.New("rotation must be 0, 90, 180 or 270")
	ErrInvalidCommon   = errors.New("invalid common settings")
)

// TextAlignment positions the human-readable text horizontally.
type TextAlignment int

const (
	AlignLeft TextAlignment = iota
	AlignCenter
	AlignRight
	AlignStretch
)

func (a TextAlignment) String() string {
	switch a {
	case AlignLeft:
		return "Left"
	case AlignRight:
		return "Right"
	case AlignStretch:
		return "Stretch"
	default:
		return "Center"
	}
}

// TextAlignments lists the alignments in selector order.
func TextAlignments() []TextAlignment {
	return []TextAlignment{AlignLeft, AlignCenter, AlignRight, AlignStretch}
}

// TextPosition places the human-readable text below or above the symbol.
type TextPosition int

const (
	TextBelow TextPosition = iota
	TextAbove
)

func (p TextPosition) String() string {
	if p == TextAbove {
		return "Above"
	}
	return "Below"
}

// Font describes the human-readable text font.
type Font struct {
	Name string
	Size float64 // points
	Bold bool
}

// Common holds the settings shared by every symbol family.
type Common struct {
	Foreground    color.NRGBA
	Background    color.NRGBA
	TextColor     color.NRGBA
	Font          Font
	Rotation      int     // degrees, one of 0, 90, 180, 270
	BarHeight     float64 // modules
	TextMargin    float64 // modules between symbol and text
	Multiplier    int     // pixels per module
	TextAlignment TextAlignment
	TextPosition  TextPosition
	ShowText      bool
}

// FontNames lists the fonts offered for human-readable text. The raster
// preview draws every font with one bitmap face; PDF exports use the
// matching core font.
func FontNames() []string {
	return []string{"Helvetica", "Times", "Courier"}
}

// DefaultCommon returns black on white with text below the symbol.
func DefaultCommon() Common {
	return Common{
		Foreground:    color.NRGBA{A: 0xff},
		Background:    color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		TextColor:     color.NRGBA{A: 0xff},
		Font:          Font{Name: "Helvetica", Size: 8},
		Rotation:      0,
		BarHeight:     50,
		TextMargin:    1,
		Multiplier:    2,
		TextAlignment: AlignCenter,
		TextPosition:  TextBelow,
		ShowText:      true,
	}
}

// ParseRotation validates a rotation in degrees, normalising negative and
// full-turn values.
func ParseRotation(deg int) (int, error) {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	switch deg {
	case 0, 90, 180, 270:
		return deg, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidRotation, deg)
}

// Upper bounds of the numeric settings. They keep a rendered symbol within
// a few tens of megapixels.
const (
	MaxMultiplier = 20
	MaxBarHeight  = 500 // modules
	MaxTextMargin = 100 // modules
	MaxFontSize   = 72  // points
)

// Validate checks the numeric settings.
func (c Common) Validate() error {
	if _, err := ParseRotation(c.Rotation); err != nil {
		return err
	}
	if c.Multiplier < 1 || c.Multiplier > MaxMultiplier {
		return fmt.Errorf("%w: multiplier %d outside 1 to %d", ErrInvalidCommon, c.Multiplier, MaxMultiplier)
	}
	if c.BarHeight <= 0 || c.BarHeight > MaxBarHeight {
		return fmt.Errorf("%w: bar height %.1f outside 0 to %d", ErrInvalidCommon, c.BarHeight, MaxBarHeight)
	}
	if c.TextMargin < 0 || c.TextMargin > MaxTextMargin {
		return fmt.Errorf("%w: text margin %.1f outside 0 to %d", ErrInvalidCommon, c.TextMargin, MaxTextMargin)
	}
	if c.Font.Size <= 0 || c.Font.Size > MaxFontSize {
		return fmt.Errorf("%w: font size %.1f outside 0 to %d", ErrInvalidCommon, c.Font.Size, MaxFontSize)
	}
	return nil
}

// Resolved is an immutable snapshot of common and family settings. The zero
// value is an empty configuration.
type Resolved struct {
	familyID   string
	familyName string
	linear     bool
	common     Common
	names      []string
	values     map[string]symbology.Value
}

// Build combines common settings with the derived family values. It is
// pure: equal inputs give Equal results. Values not named by the schema are
// dropped.
func Build(common Common, family symbology.SymbolFamily, values map[string]symbology.Value) (Resolved, error) {
	if err := common.Validate(); err != nil {
		return Resolved{}, err
	}
	common.Rotation, _ = ParseRotation(common.Rotation)

	r := Resolved{
		familyID:   family.ID,
		familyName: family.Name,
		linear:     family.Linear,
		common:     common,
		names:      make([]string, 0, len(family.Schema)),
		values:     make(map[string]symbology.Value, len(family.Schema)),
	}
	for _, p := range family.Schema {
		v, ok := values[p.Name]
		if !ok {
			return Resolved{}, fmt.Errorf("%w: %s.%s has no value", ErrIncompleteConfiguration, family.ID, p.Name)
		}
		r.names = append(r.names, p.Name)
		r.values[p.Name] = v
	}
	return r, nil
}

func (r Resolved) FamilyID() string   { return r.familyID }
func (r Resolved) FamilyName() string { return r.familyName }
func (r Resolved) Linear() bool       { return r.linear }
func (r Resolved) Common() Common     { return r.common }

// Names returns the parameter names in schema order.
func (r Resolved) Names() []string {
	return slices.Clone(r.names)
}

// Value returns the resolved value of a parameter.
func (r Resolved) Value(name string) (symbology.Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Int returns an integer value, or Unset when the parameter is absent.
func (r Resolved) Int(name string) int {
	if v, ok := r.values[name]; ok {
		return v.Int
	}
	return symbology.Unset
}

// Bool returns a boolean value, false when absent.
func (r Resolved) Bool(name string) bool {
	return r.values[name].Bool
}

// Text returns a free-text value, empty when absent.
func (r Resolved) Text(name string) string {
	return r.values[name].Text
}

// Values returns a copy of the family value map.
func (r Resolved) Values() map[string]symbology.Value {
	return maps.Clone(r.values)
}

// Equal reports value equality.
func (r Resolved) Equal(o Resolved) bool {
	return r.familyID == o.familyID &&
		r.familyName == o.familyName &&
		r.linear == o.linear &&
		r.common == o.common &&
		slices.Equal(r.names, o.names) &&
		maps.Equal(r.values, o.values)
}

// Summary renders the configuration on one line for the status bar and
// the clipboard.
func (r Resolved) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]", r.familyName, r.familyID)
	for _, name := range r.names {
		fmt.Fprintf(&b, " %s=%s", name, r.values[name])
	}
	c := r.common
	fmt.Fprintf(&b, " | fg=%s bg=%s rot=%d x%d", Hex(c.Foreground), Hex(c.Background), c.Rotation, c.Multiplier)
	if c.ShowText {
		fmt.Fprintf(&b, " text=%s/%s", c.TextPosition, c.TextAlignment)
	}
	return b.String()
}

// Hex formats an opaque colour as #rrggbb.
func Hex(c color.NRGBA) string {
	cf, _ := colorful.MakeColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
	return cf.Hex()
}

// ParseHex parses a #rrggbb colour.
func ParseHex(s string) (color.NRGBA, error) {
	cf, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	r, g, b := cf.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}
