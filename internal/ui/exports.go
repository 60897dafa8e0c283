package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/SymbolStudio/internal/encoder"
	"github.com/piwi3910/SymbolStudio/internal/engine"
	"github.com/piwi3910/SymbolStudio/internal/export"
	"github.com/piwi3910/SymbolStudio/internal/importer"
)

// ─── Single Symbol Export ───────────────────────────────────

func (a *App) exportPNG() {
	a.exportSymbol("png", export.SavePNG)
}

func (a *App) exportPDF() {
	a.exportSymbol("pdf", func(path string, sym encoder.EncodedSymbol) error {
		return export.ExportPDF(path, sym, a.session.Data())
	})
}

func (a *App) exportDXF() {
	a.exportSymbol("dxf", export.ExportDXF)
}

// exportSymbol asks for a destination and writes the last generated symbol.
func (a *App) exportSymbol(ext string, write func(path string, sym encoder.EncodedSymbol) error) {
	res := a.session.Last()
	if !res.OK() {
		dialog.ShowInformation("Nothing to export", "Enter data that encodes to a valid symbol first.", a.window)
		return
	}
	sym := res.Symbol

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		// the exporters create the file themselves
		writer.Close()
		if err := write(path, sym); err != nil {
			a.log.Error("export failed", "format", ext, "path", path, "error", err)
			dialog.ShowError(err, a.window)
			return
		}
		a.log.Info("symbol exported", "format", ext, "path", path, "family", sym.FamilyID)
		a.rememberExport(path)
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Symbol saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(sym.FamilyID + "." + ext)
	d.Show()
}

func (a *App) rememberExport(path string) {
	a.config.AddRecentExport(path)
	if err := a.saveConfig(); err != nil {
		a.log.Warn("saving recent exports failed", "error", err)
	}
}

// ─── Batch Labels ───────────────────────────────────────────

func (a *App) importBatch(excel bool) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		path := reader.URI().Path()
		var result importer.ImportResult
		if excel {
			result = importer.ImportExcel(path)
		} else {
			result = importer.ImportCSV(path)
		}
		a.handleImportResult(result)
	}, a.window)
}

func (a *App) handleImportResult(result importer.ImportResult) {
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
	}
	for _, w := range result.Warnings {
		a.log.Warn("import warning", "warning", w)
	}
	if len(result.Items) == 0 {
		return
	}

	batch := a.session.GenerateBatch(result.Items)
	labels := export.LabelsFromBatch(batch)
	if len(labels) == 0 {
		dialog.ShowError(fmt.Errorf("none of the %d rows could be encoded as %s", len(result.Items), a.session.FamilyID()), a.window)
		return
	}

	layouts := []string{layoutAvery, layoutPacked}
	layoutSelect := widget.NewSelect(layouts, nil)
	layoutSelect.SetSelected(layoutAvery)
	info := widget.NewLabel(fmt.Sprintf("%d symbols encoded, %d rows failed.", len(labels), batch.Failed))

	form := dialog.NewForm("Batch Labels", "Export", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("", info),
			widget.NewFormItem("Layout", layoutSelect),
		},
		func(ok bool) {
			if ok {
				a.saveLabels(batch, labels, layoutSelect.Selected)
			}
		}, a.window)
	form.Show()
}

const (
	layoutAvery  = "Avery 5160 labels (Letter)"
	layoutPacked = "Packed sheet (A4)"
)

func (a *App) saveLabels(batch engine.Batch, labels []export.Label, layout string) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if layout == layoutPacked {
			err = export.ExportSheet(path, labels, engine.DefaultPackSettings())
		} else {
			err = export.ExportLabels(path, labels)
		}
		if err != nil {
			a.log.Error("label export failed", "job", batch.JobID, "layout", layout, "error", err)
			dialog.ShowError(err, a.window)
			return
		}
		a.log.Info("labels exported", "job", batch.JobID, "layout", layout, "labels", len(labels))
		a.rememberExport(path)

		msg := fmt.Sprintf("Exported %d labels to %s.", len(labels), path)
		if batch.Failed > 0 {
			msg += fmt.Sprintf("\n\n%d rows could not be encoded and were skipped.", batch.Failed)
		}
		dialog.ShowInformation("Labels Exported", msg, a.window)
	}, a.window)
	d.SetFileName("labels.pdf")
	d.Show()
}
