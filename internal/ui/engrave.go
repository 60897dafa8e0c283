package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/SymbolStudio/internal/gcode"
)

// showEngraveDialog asks for laser settings, then for the destination of
// the G-code program.
func (a *App) showEngraveDialog() {
	res := a.session.Last()
	if !res.OK() {
		dialog.ShowInformation("Nothing to export", "Enter data that encodes to a valid symbol first.", a.window)
		return
	}
	sym := res.Symbol
	s := a.engrave

	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(formatFloat(*val))
		e.OnChanged = func(text string) {
			if v, err := parseFloat(text); err == nil {
				*val = v
			}
		}
		return e
	}

	profileSelect := widget.NewSelect(gcode.GetProfileNames(), func(selected string) {
		s.Profile = selected
	})
	profileSelect.SetSelected(gcode.GetProfile(s.Profile).Name)

	bedW, bedH := 0.0, 0.0
	items := []*widget.FormItem{
		widget.NewFormItem("Controller", profileSelect),
		widget.NewFormItem("Module Size (mm, 0=screen)", floatEntry(&s.ModuleSize)),
		widget.NewFormItem("Line Interval (mm)", floatEntry(&s.LineInterval)),
		widget.NewFormItem("Feed Rate (mm/min)", floatEntry(&s.FeedRate)),
		widget.NewFormItem("Power (%)", floatEntry(&s.Power)),
		widget.NewFormItem("Origin X (mm)", floatEntry(&s.OriginX)),
		widget.NewFormItem("Origin Y (mm)", floatEntry(&s.OriginY)),
		widget.NewFormItem("Bed Width (mm, 0=unchecked)", floatEntry(&bedW)),
		widget.NewFormItem("Bed Height (mm)", floatEntry(&bedH)),
	}

	d := dialog.NewForm("Laser Engraving", "Export", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		code, err := gcode.New(s).Generate(sym)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.engrave = s

		moves := gcode.ParseGCode(code)
		if v := gcode.CheckBounds(moves, bedW, bedH); len(v) > 0 {
			dialog.ShowError(fmt.Errorf("the symbol does not fit the bed: %s (%d moves outside)", v[0], len(v)), a.window)
			return
		}
		a.saveEngraving(sym.FamilyID, code, gcode.EstimatedMinutes(moves))
	}, a.window)
	d.Resize(fyne.NewSize(460, 480))
	d.Show()
}

func (a *App) saveEngraving(family, code string, minutes float64) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := gcode.Save(path, code); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.log.Info("engraving exported", "path", path, "family", family, "minutes", minutes)
		a.rememberExport(path)
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("G-code saved to %s\n\nEstimated burn time: %s min", path, strconv.FormatFloat(minutes, 'f', 1, 64)), a.window)
	}, a.window)
	d.SetFileName(family + ".nc")
	d.Show()
}
