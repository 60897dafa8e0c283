// Package render rasterises encoded symbols.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/piwi3910/SymbolStudio/internal/configuration"
	"github.com/piwi3910/SymbolStudio/internal/encoder"
)

// Quiet zones in modules.
const (
	QuietLinear = 10
	Quiet2D     = 4
)

// bearerWidth is the ITF-14 bearer bar thickness in modules.
const bearerWidth = 2

var face = basicfont.Face7x13

// Layout is the unrotated geometry of a rendered symbol in pixels.
type Layout struct {
	Width, Height int
	Symbol        image.Rectangle
	Text          image.Rectangle // empty when no text is drawn
	Module        int             // pixels per module
	TextScale     int
}

// Plan computes the unrotated layout of sym.
func Plan(sym encoder.EncodedSymbol) Layout {
	c := sym.Config.Common()
	m := max(c.Multiplier, 1)
	cols, rows := sym.Size()

	quiet := Quiet2D
	symH := rows * m
	if sym.Linear {
		quiet = QuietLinear
		symH = int(math.Round(c.BarHeight * float64(m)))
	}
	q := quiet * m
	l := Layout{Module: m, TextScale: textScale(c, m)}
	symW := cols * m

	textH := 0
	if showText(sym) {
		textH = face.Height*l.TextScale + int(math.Round(c.TextMargin*float64(m)))
	}

	l.Width = symW + 2*q
	l.Height = symH + 2*q + textH
	top := q
	if textH > 0 && c.TextPosition == configuration.TextAbove {
		top += textH
	}
	l.Symbol = image.Rect(q, top, q+symW, top+symH)

	if textH > 0 {
		h := face.Height * l.TextScale
		if c.TextPosition == configuration.TextAbove {
			l.Text = image.Rect(q, q, q+symW, q+h)
		} else {
			y := l.Symbol.Max.Y + textH - h
			l.Text = image.Rect(q, y, q+symW, y+h)
		}
	}
	return l
}

func showText(sym encoder.EncodedSymbol) bool {
	return sym.Config.Common().ShowText && sym.HumanReadable != ""
}

func textScale(c configuration.Common, m int) int {
	return max(1, int(math.Round(c.Font.Size*float64(m)/16)))
}

// Measure returns the rendered size of sym including rotation.
func Measure(sym encoder.EncodedSymbol) (width, height int) {
	if sym.IsZero() {
		return 0, 0
	}
	l := Plan(sym)
	switch sym.Config.Common().Rotation {
	case 90, 270:
		return l.Height, l.Width
	default:
		return l.Width, l.Height
	}
}

// Draw renders sym onto dst with its top-left corner at origin.
func Draw(sym encoder.EncodedSymbol, dst draw.Image, origin image.Point) {
	img := Image(sym)
	r := img.Bounds().Add(origin)
	draw.Draw(dst, r, img, image.Point{}, draw.Over)
}

// Image renders sym into a new image.
func Image(sym encoder.EncodedSymbol) *image.NRGBA {
	if sym.IsZero() {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	c := sym.Config.Common()
	l := Plan(sym)

	img := image.NewNRGBA(image.Rect(0, 0, l.Width, l.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c.Background), image.Point{}, draw.Src)

	fg := image.NewUniform(c.Foreground)
	if sym.Linear {
		for x, dark := range sym.Modules[0] {
			if dark {
				r := image.Rect(l.Symbol.Min.X+x*l.Module, l.Symbol.Min.Y, l.Symbol.Min.X+(x+1)*l.Module, l.Symbol.Max.Y)
				draw.Draw(img, r, fg, image.Point{}, draw.Src)
			}
		}
	} else {
		for y, row := range sym.Modules {
			for x, dark := range row {
				if dark {
					p := l.Symbol.Min.Add(image.Pt(x*l.Module, y*l.Module))
					draw.Draw(img, image.Rectangle{Min: p, Max: p.Add(image.Pt(l.Module, l.Module))}, fg, image.Point{}, draw.Src)
				}
			}
		}
	}

	if sym.BearerBars {
		drawBearers(img, l, fg)
	}
	if !l.Text.Empty() {
		drawText(img, l, sym.HumanReadable, c)
	}
	return rotate(img, c.Rotation)
}

func drawBearers(img draw.Image, l Layout, fg image.Image) {
	w := bearerWidth * l.Module
	s := l.Symbol
	for _, r := range []image.Rectangle{
		image.Rect(s.Min.X-w, s.Min.Y-w, s.Max.X+w, s.Min.Y),
		image.Rect(s.Min.X-w, s.Max.Y, s.Max.X+w, s.Max.Y+w),
		image.Rect(s.Min.X-w, s.Min.Y, s.Min.X, s.Max.Y),
		image.Rect(s.Max.X, s.Min.Y, s.Max.X+w, s.Max.Y),
	} {
		draw.Draw(img, r, fg, image.Point{}, draw.Src)
	}
}

// drawText rasterises text at 1x and scales it up with nearest neighbour.
// Bold text is overstruck one glyph pixel to the right.
func drawText(dst *image.NRGBA, l Layout, text string, c configuration.Common) {
	runes := []rune(text)
	advance := face.Advance
	glyphs := image.NewAlpha(image.Rect(0, 0, advance*len(runes), face.Height))
	d := font.Drawer{Dst: glyphs, Src: image.Opaque, Face: face}

	// x offsets in unscaled pixels, relative to the text box
	box := l.Text.Dx() / l.TextScale
	width := advance * len(runes)
	offsets := make([]int, len(runes))
	switch c.TextAlignment {
	case configuration.AlignLeft:
		for i := range runes {
			offsets[i] = i * advance
		}
	case configuration.AlignRight:
		for i := range runes {
			offsets[i] = box - width + i*advance
		}
	case configuration.AlignStretch:
		for i := range runes {
			if len(runes) > 1 {
				offsets[i] = i * (box - advance) / (len(runes) - 1)
			} else {
				offsets[i] = (box - advance) / 2
			}
		}
	default:
		for i := range runes {
			offsets[i] = (box-width)/2 + i*advance
		}
	}

	for i, r := range runes {
		d.Dot = fixed.P(i*advance, face.Ascent)
		d.DrawString(string(r))
	}

	col := image.NewUniform(c.TextColor)
	stroke := l.TextScale
	if c.Font.Bold {
		stroke *= 2
	}
	for i := range runes {
		for gy := 0; gy < face.Height; gy++ {
			for gx := 0; gx < advance; gx++ {
				a := glyphs.AlphaAt(i*advance+gx, gy).A
				if a < 0x80 {
					continue
				}
				x0 := l.Text.Min.X + (offsets[i]+gx)*l.TextScale
				y0 := l.Text.Min.Y + gy*l.TextScale
				r := image.Rect(x0, y0, x0+stroke, y0+l.TextScale).Intersect(dst.Bounds())
				draw.Draw(dst, r, col, image.Point{}, draw.Src)
			}
		}
	}
}

func rotate(src *image.NRGBA, degrees int) *image.NRGBA {
	if degrees == 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	var dst *image.NRGBA
	if degrees == 180 {
		dst = image.NewNRGBA(image.Rect(0, 0, w, h))
	} else {
		dst = image.NewNRGBA(image.Rect(0, 0, h, w))
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := src.NRGBAAt(x, y)
			switch degrees {
			case 90:
				dst.SetNRGBA(h-1-y, x, px)
			case 180:
				dst.SetNRGBA(w-1-x, h-1-y, px)
			case 270:
				dst.SetNRGBA(y, w-1-x, px)
			}
		}
	}
	return dst
}

// IsDark reports whether c is closer to black than to white.
func IsDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return (r+g+b)/3 < 0x8000
}
