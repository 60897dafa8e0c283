package export

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/SymbolStudio/internal/encoder"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth   = 210.0
	pageHeight  = 297.0
	marginLeft  = 15.0
	marginRight = 15.0
	marginTop   = 20.0
	footerSpace = 40.0
)

// ExportPDF writes sym as vector rectangles on an A4 page, centred at the
// top, followed by its human-readable text and an optional caption.
func ExportPDF(path string, sym encoder.EncodedSymbol, caption string) error {
	if sym.IsZero() {
		return ErrNothingToExport
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(sym.Config.FamilyName(), true)
	pdf.SetCreator("SymbolStudio", true)
	pdf.AddPage()

	g := Vectorize(sym)
	module := ModuleSize(sym)
	w, h := g.Width*module, g.Height*module
	maxW := pageWidth - marginLeft - marginRight
	maxH := pageHeight - marginTop - footerSpace
	if w > maxW || h > maxH {
		w, h = fitBox(w, h, maxW, maxH)
		module = w / g.Width
	}
	x := (pageWidth - w) / 2
	y := marginTop

	drawGeometry(pdf, sym, g, x, y, module)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	c := sym.Config.Common()
	textY := y + h + 2
	if c.ShowText && sym.HumanReadable != "" {
		style := ""
		if c.Font.Bold {
			style = "B"
		}
		pdf.SetFont(pdfFontFamily(c.Font.Name), style, c.Font.Size)
		pdf.SetTextColor(int(c.TextColor.R), int(c.TextColor.G), int(c.TextColor.B))
		pdf.SetXY(x, textY)
		pdf.CellFormat(w, c.Font.Size*0.5, tr(sym.HumanReadable), "", 1, "C", false, 0, "")
		textY += c.Font.Size*0.5 + 2
	}
	if caption != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(60, 60, 60)
		pdf.SetXY(marginLeft, textY)
		pdf.CellFormat(maxW, 5, tr(caption), "", 1, "C", false, 0, "")
	}

	// Configuration summary footer for traceability
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(140, 140, 140)
	pdf.SetXY(marginLeft, pageHeight-15)
	pdf.CellFormat(maxW, 4, tr(sym.Config.Summary()), "", 0, "L", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build PDF: %w", err)
	}
	return pdf.OutputFileAndClose(path)
}

// drawGeometry fills the quiet-zone background and the dark rectangles of g
// with the symbol's colours, scaled to module mm at (x, y).
func drawGeometry(pdf *fpdf.Fpdf, sym encoder.EncodedSymbol, g Geometry, x, y, module float64) {
	c := sym.Config.Common()
	pdf.SetFillColor(int(c.Background.R), int(c.Background.G), int(c.Background.B))
	pdf.Rect(x, y, g.Width*module, g.Height*module, "F")

	pdf.SetFillColor(int(c.Foreground.R), int(c.Foreground.G), int(c.Foreground.B))
	for _, r := range g.Dark {
		pdf.Rect(x+r.X*module, y+r.Y*module, r.W*module, r.H*module, "F")
	}
}

// pdfFontFamily maps a font name onto one of the core PDF font families,
// falling back to Helvetica.
func pdfFontFamily(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "times", "times new roman", "serif":
		return "Times"
	case "courier", "courier new", "monospace":
		return "Courier"
	default:
		return "Helvetica"
	}
}
