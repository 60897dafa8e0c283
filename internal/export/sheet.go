package export

import (
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/SymbolStudio/internal/engine"
)

// ErrDoesNotFit is returned when a symbol is larger than the usable page.
var ErrDoesNotFit = errors.New("symbol larger than the page")

// ExportSheet packs labels of any size onto as few pages as it can, each
// symbol at its physical module size with the caption underneath.
func ExportSheet(path string, labels []Label, s engine.PackSettings) error {
	if len(labels) == 0 {
		return fmt.Errorf("no symbols to lay out: %w", ErrNothingToExport)
	}

	geoms := make([]Geometry, len(labels))
	sizes := make([]engine.Size, len(labels))
	for i, l := range labels {
		if l.Symbol.IsZero() {
			return fmt.Errorf("label %d (%q): %w", i+1, l.Caption, ErrNothingToExport)
		}
		geoms[i] = Vectorize(l.Symbol)
		module := ModuleSize(l.Symbol)
		sizes[i] = engine.Size{W: geoms[i].Width * module, H: geoms[i].Height * module}
		if l.Caption != "" {
			sizes[i].H += captionHeight
		}
	}

	layout := engine.Pack(sizes, s)
	if n := len(layout.Unplaced); n > 0 {
		first := labels[layout.Unplaced[0]]
		return fmt.Errorf("%d of %d labels, first %q: %w", n, len(labels), first.Caption, ErrDoesNotFit)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: s.PageWidth, Ht: s.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("SymbolStudio", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range layout.Pages {
		pdf.AddPage()
		for _, pl := range page.Placements {
			l := labels[pl.Item]
			drawGeometry(pdf, l.Symbol, geoms[pl.Item], pl.X, pl.Y, ModuleSize(l.Symbol))
			if l.Caption == "" {
				continue
			}
			pdf.SetFont("Helvetica", "", 7)
			pdf.SetTextColor(0, 0, 0)
			pdf.SetXY(pl.X, pl.Y+pl.H-captionHeight)
			pdf.CellFormat(pl.W, captionHeight, fitCaption(pdf, tr(l.Caption), pl.W), "", 0, "C", false, 0, "")
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build PDF: %w", err)
	}
	return pdf.OutputFileAndClose(path)
}
