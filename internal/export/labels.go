package export

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/SymbolStudio/internal/encoder"
	"github.com/piwi3910/SymbolStudio/internal/engine"
	"github.com/piwi3910/SymbolStudio/internal/render"
)

// Label is one cell of a label sheet.
type Label struct {
	Symbol  encoder.EncodedSymbol
	Caption string
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	labelPadding    = 2.0 // mm internal padding
	captionHeight   = 4.0 // mm
)

// LabelsFromBatch collects the successful entries of a batch, captioned
// with their label or data.
func LabelsFromBatch(b engine.Batch) []Label {
	var labels []Label
	for _, e := range b.Symbols() {
		labels = append(labels, Label{Symbol: e.Result.Symbol, Caption: e.Item.Caption()})
	}
	return labels
}

// ExportLabels generates a PDF sheet with one symbol per label, laid out on
// a standard label sheet format (Avery 5160 / 3 columns x 10 rows on US
// Letter).
func ExportLabels(path string, labels []Label) error {
	if len(labels) == 0 {
		return fmt.Errorf("no symbols to generate labels for: %w", ErrNothingToExport)
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, i, label, tr); err != nil {
			return fmt.Errorf("failed to render label %d (%q): %w", i+1, label.Caption, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, index int, label Label, tr func(string) string) error {
	// Light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	if label.Symbol.IsZero() {
		return ErrNothingToExport
	}
	img := render.Image(label.Symbol)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode symbol image: %w", err)
	}

	imgName := fmt.Sprintf("label_%d", index)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, opts, &buf)

	boxW := labelWidth - 2*labelPadding
	boxH := labelHeight - 2*labelPadding - captionHeight
	b := img.Bounds()
	w, h := fitBox(float64(b.Dx()), float64(b.Dy()), boxW, boxH)
	pdf.ImageOptions(imgName, x+(labelWidth-w)/2, y+labelPadding+(boxH-h)/2, w, h, false, opts, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(0, 0, 0)
	caption := fitCaption(pdf, tr(label.Caption), boxW)
	pdf.SetXY(x+labelPadding, y+labelHeight-labelPadding-captionHeight)
	pdf.CellFormat(boxW, captionHeight, caption, "", 0, "C", false, 0, "")
	return pdf.Error()
}

// fitCaption truncates caption with an ellipsis to fit width in the current
// font.
func fitCaption(pdf *fpdf.Fpdf, caption string, width float64) string {
	if pdf.GetStringWidth(caption) <= width {
		return caption
	}
	for len(caption) > 0 && pdf.GetStringWidth(caption+"...") > width {
		caption = caption[:len(caption)-1]
	}
	return caption + "..."
}
