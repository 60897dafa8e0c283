// Package export writes encoded symbols to PNG, PDF and DXF files and lays
// out batches on PDF label sheets.
package export

import (
	"errors"

	"github.com/piwi3910/SymbolStudio/internal/encoder"
	"github.com/piwi3910/SymbolStudio/internal/render"
)

// ErrNothingToExport is returned when there is no symbol to write.
var ErrNothingToExport = errors.New("nothing to export")

// Rect is an axis-aligned rectangle in modules, origin top-left.
type Rect struct {
	X, Y, W, H float64
}

// Geometry is the vector form of a symbol, quiet zone included.
type Geometry struct {
	Width, Height float64
	Dark          []Rect
}

// Vectorize turns the dark modules of sym into rectangles, merging
// horizontal runs. Bearer bars are included; human-readable text is not.
func Vectorize(sym encoder.EncodedSymbol) Geometry {
	if sym.IsZero() {
		return Geometry{}
	}
	cols, rows := sym.Size()
	c := sym.Config.Common()

	q := float64(render.Quiet2D)
	symH := float64(rows)
	if sym.Linear {
		q = float64(render.QuietLinear)
		symH = c.BarHeight
	}
	g := Geometry{Width: float64(cols) + 2*q, Height: symH + 2*q}

	for y, row := range sym.Modules {
		top, h := q+float64(y), 1.0
		if sym.Linear {
			top, h = q, symH
		}
		for x := 0; x < len(row); {
			if !row[x] {
				x++
				continue
			}
			start := x
			for x < len(row) && row[x] {
				x++
			}
			g.Dark = append(g.Dark, Rect{X: q + float64(start), Y: top, W: float64(x - start), H: h})
		}
		if sym.Linear {
			break
		}
	}

	if sym.BearerBars {
		const b = 2.0
		w := float64(cols)
		g.Dark = append(g.Dark,
			Rect{X: q - b, Y: q - b, W: w + 2*b, H: b},
			Rect{X: q - b, Y: q + symH, W: w + 2*b, H: b},
			Rect{X: q - b, Y: q, W: b, H: symH},
			Rect{X: q + w, Y: q, W: b, H: symH},
		)
	}
	return g.Rotate(c.Rotation)
}

// Rotate turns the geometry clockwise by degrees (0, 90, 180 or 270).
func (g Geometry) Rotate(degrees int) Geometry {
	if degrees == 0 {
		return g
	}
	out := Geometry{Width: g.Width, Height: g.Height, Dark: make([]Rect, len(g.Dark))}
	if degrees == 90 || degrees == 270 {
		out.Width, out.Height = g.Height, g.Width
	}
	for i, r := range g.Dark {
		switch degrees {
		case 90:
			out.Dark[i] = Rect{X: g.Height - r.Y - r.H, Y: r.X, W: r.H, H: r.W}
		case 180:
			out.Dark[i] = Rect{X: g.Width - r.X - r.W, Y: g.Height - r.Y - r.H, W: r.W, H: r.H}
		case 270:
			out.Dark[i] = Rect{X: r.Y, Y: g.Width - r.X - r.W, W: r.H, H: r.W}
		default:
			out.Dark[i] = r
		}
	}
	return out
}

// ModuleSize returns the physical module size in mm for sym, treating one
// multiplier pixel as 1/96 inch.
func ModuleSize(sym encoder.EncodedSymbol) float64 {
	return float64(max(sym.Config.Common().Multiplier, 1)) * 25.4 / 96
}

// fitBox scales w x h to fit inside boxW x boxH, keeping the aspect ratio.
func fitBox(w, h, boxW, boxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	s := min(boxW/w, boxH/h)
	return w * s, h * s
}
