package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/SymbolStudio/internal/model"
	"github.com/piwi3910/SymbolStudio/internal/project"
)

func (a *App) showSavePresetDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("e.g. Shipping Label")
	descEntry := widget.NewEntry()

	items := []*widget.FormItem{
		widget.NewFormItem("Name", nameEntry),
		widget.NewFormItem("Description", descEntry),
	}
	d := dialog.NewForm("Save as Preset", "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		name := strings.TrimSpace(nameEntry.Text)
		if name == "" {
			dialog.ShowError(fmt.Errorf("preset name is required"), a.window)
			return
		}
		a.presets.Put(model.NewPreset(name, descEntry.Text, a.session.FamilyID(), a.session.Common()))
		a.savePresets()
	}, a.window)
	d.Resize(fyne.NewSize(400, 200))
	d.Show()
}

// choosePreset shows a selector over the stored presets and calls fn with
// the chosen one.
func (a *App) choosePreset(title, confirm string, fn func(model.Preset)) {
	names := a.presets.Names()
	if len(names) == 0 {
		dialog.ShowInformation(title, "No presets saved yet.", a.window)
		return
	}
	sel := widget.NewSelect(names, nil)
	sel.SetSelectedIndex(0)

	d := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Preset", sel)},
		func(ok bool) {
			if !ok {
				return
			}
			if p := a.presets.FindByName(sel.Selected); p != nil {
				fn(*p)
			}
		}, a.window)
	d.Resize(fyne.NewSize(400, 160))
	d.Show()
}

func (a *App) showApplyPresetDialog() {
	a.choosePreset("Apply Preset", "Apply", a.applyPreset)
}

func (a *App) applyPreset(p model.Preset) {
	c, err := p.Common()
	if err != nil {
		dialog.ShowError(fmt.Errorf("preset %q: %w", p.Name, err), a.window)
		return
	}
	a.record("Apply Preset", false)
	s := MakeSnapshot(p.Family, a.session.Data(), c, "Apply Preset")
	if p.Family == "" {
		s.Family = a.session.FamilyID()
	}
	a.restore(s)
	a.log.Info("preset applied", "preset", p.Name, "family", s.Family)
}

func (a *App) showDeletePresetDialog() {
	a.choosePreset("Delete Preset", "Delete", func(p model.Preset) {
		dialog.ShowConfirm("Delete Preset",
			fmt.Sprintf("Delete preset %q?", p.Name),
			func(ok bool) {
				if ok && a.presets.Remove(p.ID) {
					a.savePresets()
				}
			}, a.window)
	})
}

func (a *App) showExportPresetDialog() {
	a.choosePreset("Export Preset", "Export", func(p model.Preset) {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			if err := project.ExportPreset(writer.URI().Path(), p); err != nil {
				dialog.ShowError(err, a.window)
			}
		}, a.window)
		d.SetFileName(p.Name + ".json")
		d.Show()
	})
}

func (a *App) importPreset() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		p, err := project.ImportPreset(reader.URI().Path())
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.presets.Put(p)
		a.savePresets()
		dialog.ShowInformation("Preset Imported", fmt.Sprintf("Preset %q is now available.", p.Name), a.window)
	}, a.window)
}

func (a *App) savePresets() {
	if a.presetPath == "" {
		return
	}
	if err := project.SavePresets(a.presetPath, a.presets); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save presets: %w", err), a.window)
	}
}
