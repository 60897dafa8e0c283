package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"

	"github.com/piwi3910/SymbolStudio/internal/encoder"
)

// DXF layer names.
const (
	LayerSymbol = "SYMBOL"
	LayerFrame  = "FRAME"
	LayerText   = "TEXT"
)

// ExportDXF writes sym as closed polylines in millimetres, one per dark
// run, with the quiet-zone frame and human-readable text on their own
// layers. DXF has y pointing up, so rows are flipped.
func ExportDXF(path string, sym encoder.EncodedSymbol) error {
	if sym.IsZero() {
		return ErrNothingToExport
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerFrame, color.Cyan, table.LT_CONTINUOUS, false); err != nil {
		return fmt.Errorf("failed to add DXF layer: %w", err)
	}
	if _, err := d.AddLayer(LayerText, color.White, table.LT_CONTINUOUS, false); err != nil {
		return fmt.Errorf("failed to add DXF layer: %w", err)
	}
	if _, err := d.AddLayer(LayerSymbol, color.White, table.LT_CONTINUOUS, true); err != nil {
		return fmt.Errorf("failed to add DXF layer: %w", err)
	}

	g := Vectorize(sym)
	m := ModuleSize(sym)
	height := g.Height * m

	for _, r := range g.Dark {
		if err := closedRect(d, r.X*m, height-(r.Y+r.H)*m, r.W*m, r.H*m); err != nil {
			return err
		}
	}

	if err := d.ChangeLayer(LayerFrame); err != nil {
		return fmt.Errorf("failed to change DXF layer: %w", err)
	}
	if err := closedRect(d, 0, 0, g.Width*m, height); err != nil {
		return err
	}

	c := sym.Config.Common()
	if c.ShowText && sym.HumanReadable != "" {
		if err := d.ChangeLayer(LayerText); err != nil {
			return fmt.Errorf("failed to change DXF layer: %w", err)
		}
		// text height in mm from the font size in points
		th := c.Font.Size * 25.4 / 72
		if _, err := d.Text(sym.HumanReadable, 0, -th-c.TextMargin*m, 0, th); err != nil {
			return fmt.Errorf("failed to add DXF text: %w", err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write DXF file: %w", err)
	}
	return nil
}

// closedRect adds a closed four-vertex polyline with its lower-left corner
// at (x, y).
func closedRect(d *drawing.Drawing, x, y, w, h float64) error {
	_, err := d.LwPolyline(true,
		[]float64{x, y},
		[]float64{x + w, y},
		[]float64{x + w, y + h},
		[]float64{x, y + h},
	)
	if err != nil {
		return fmt.Errorf("failed to add DXF polyline: %w", err)
	}
	return nil
}
