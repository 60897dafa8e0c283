// Package ui provides the SymbolStudio desktop shell: the main window, its
// menus and the Fyne widgets behind the parameter panel.
package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"github.com/piwi3910/SymbolStudio/internal/configuration"
	"github.com/piwi3910/SymbolStudio/internal/encoder"
	"github.com/piwi3910/SymbolStudio/internal/engine"
	"github.com/piwi3910/SymbolStudio/internal/gcode"
	"github.com/piwi3910/SymbolStudio/internal/model"
	"github.com/piwi3910/SymbolStudio/internal/symbology"
	"github.com/piwi3910/SymbolStudio/internal/ui/widgets"
)

// Options carries the collaborators and persisted state of the window.
type Options struct {
	Registry *symbology.Registry
	Encoder  encoder.Encoder
	Logger   *slog.Logger

	Config     model.AppConfig
	ConfigPath string
	Presets    model.PresetStore
	PresetPath string

	// Family overrides Config.DefaultFamily when set.
	Family string
}

// App holds all application state and UI references.
type App struct {
	app     fyne.App
	window  fyne.Window
	log     *slog.Logger
	session *engine.Session
	history *History
	theme   *StudioTheme
	engrave gcode.Settings

	config     model.AppConfig
	configPath string
	presets    model.PresetStore
	presetPath string

	families     []symbology.FamilyRef
	initial      string
	familySelect *widget.Select
	dataEntry    *widget.Entry
	panelBox     *fyne.Container
	common       *commonForm
	preview      *widgets.SymbolPreview
	status       *widget.Label
	exportBtns   []*ttwidget.Button

	// restoring is set while a snapshot is pushed into the widgets.
	restoring bool
	lastEdit  string
}

func NewApp(application fyne.App, window fyne.Window, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		app:        application,
		window:     window,
		log:        logger,
		history:    NewHistory(),
		theme:      NewStudioTheme(opts.Config.Theme),
		engrave:    gcode.DefaultSettings(),
		config:     opts.Config,
		configPath: opts.ConfigPath,
		presets:    opts.Presets,
		presetPath: opts.PresetPath,
		families:   opts.Registry.ListSupportedFamilies(),
		initial:    opts.Family,
		panelBox:   container.NewVBox(),
	}
	if a.initial == "" {
		a.initial = opts.Config.DefaultFamily
	}
	a.session = engine.NewSession(opts.Registry, NewFieldFactory(a.panelBox), opts.Encoder, logger)
	a.session.OnResult(a.showResult)
	if application != nil {
		application.Settings().SetTheme(a.theme)
	}
	return a
}

// Session exposes the orchestrator behind the window.
func (a *App) Session() *engine.Session {
	return a.session
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Export PNG...", a.exportPNG),
		fyne.NewMenuItem("Export PDF...", a.exportPDF),
		fyne.NewMenuItem("Export DXF...", a.exportDXF),
		fyne.NewMenuItem("Export Laser G-code...", a.showEngraveDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Batch Labels from CSV...", func() { a.importBatch(false) }),
		fyne.NewMenuItem("Batch Labels from Excel...", func() { a.importBatch(true) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", a.undo),
		fyne.NewMenuItem("Redo", a.redo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Copy Configuration Summary", a.copySummary),
		fyne.NewMenuItem("Reset Appearance", func() {
			a.applyCommon(configuration.DefaultCommon(), "Reset Appearance")
		}),
	)

	presetMenu := fyne.NewMenu("Presets",
		fyne.NewMenuItem("Save as Preset...", a.showSavePresetDialog),
		fyne.NewMenuItem("Apply Preset...", a.showApplyPresetDialog),
		fyne.NewMenuItem("Delete Preset...", a.showDeletePresetDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Preset...", a.importPreset),
		fyne.NewMenuItem("Export Preset...", a.showExportPresetDialog),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Settings...", a.showSettingsDialog),
		fyne.NewMenuItem("Import / Export Data...", a.showImportExportDialog),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, presetMenu, toolsMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About SymbolStudio",
		"SymbolStudio: Barcode and 2D Symbol Designer\n\n"+
			"Configure a symbology, preview the encoded symbol and\n"+
			"export it as PNG, PDF, DXF, laser G-code or a label sheet.\n\n"+
			fmt.Sprintf("%d symbologies available.\n\nVersion 1.0.0", len(a.families)),
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	names := make([]string, len(a.families))
	for i, f := range a.families {
		names[i] = f.Name
	}
	a.familySelect = widget.NewSelect(names, func(string) {
		if a.restoring {
			return
		}
		a.changeFamily(a.familySelect.SelectedIndex())
	})

	a.dataEntry = widget.NewMultiLineEntry()
	a.dataEntry.SetPlaceHolder("Data to encode")
	a.dataEntry.SetMinRowsVisible(3)
	a.dataEntry.OnChanged = func(text string) {
		if a.restoring {
			return
		}
		a.record("Edit Data", true)
		a.session.SetData(text)
	}

	a.common = newCommonForm(a.window, func(c configuration.Common, err error) {
		if a.restoring {
			return
		}
		if err != nil {
			a.status.SetText("Appearance: " + err.Error())
			return
		}
		a.record("Edit Appearance", true)
		if err := a.session.SetCommon(c); err != nil {
			a.status.SetText("Appearance: " + err.Error())
		}
	})

	a.preview = widgets.NewSymbolPreview(320, 240)
	a.status = widget.NewLabel("")
	a.status.Wrapping = fyne.TextWrapWord

	left := container.NewVScroll(container.NewVBox(
		widget.NewCard("Symbol", "", container.NewVBox(a.familySelect, a.dataEntry)),
		widget.NewCard("Parameters", "", a.panelBox),
		widget.NewCard("Appearance", "", a.common.build()),
	))
	right := container.NewBorder(a.buildToolbar(), a.status, nil, nil, a.preview)

	split := container.NewHSplit(left, right)
	split.Offset = 0.4

	a.loadInitialState()
	a.window.SetOnClosed(a.session.Close)
	return fynetooltip.AddWindowToolTipLayer(split, a.window.Canvas())
}

func (a *App) buildToolbar() fyne.CanvasObject {
	a.exportBtns = []*ttwidget.Button{
		newIconButtonWithTooltip(theme.FileImageIcon(), "Export PNG", a.exportPNG),
		newIconButtonWithTooltip(theme.DocumentPrintIcon(), "Export PDF", a.exportPDF),
		newIconButtonWithTooltip(theme.DownloadIcon(), "Export DXF", a.exportDXF),
		newIconButtonWithTooltip(theme.ContentCopyIcon(), "Copy configuration summary", a.copySummary),
	}
	objs := []fyne.CanvasObject{
		newIconButtonWithTooltip(theme.ContentUndoIcon(), "Undo", a.undo),
		newIconButtonWithTooltip(theme.ContentRedoIcon(), "Redo", a.redo),
		widget.NewSeparator(),
	}
	for _, b := range a.exportBtns {
		objs = append(objs, b)
	}
	return container.NewHBox(objs...)
}

// loadInitialState applies the persisted defaults and selects the first
// family.
func (a *App) loadInitialState() {
	common := configuration.DefaultCommon()
	if err := a.config.ApplyToCommon(&common); err != nil {
		a.log.Warn("ignoring stored appearance", "error", err)
	}
	a.restore(MakeSnapshot(a.initial, "", common, "initial"))
}

func (a *App) familyIndex(id string) int {
	return slices.IndexFunc(a.families, func(f symbology.FamilyRef) bool { return f.ID == id })
}

func (a *App) changeFamily(idx int) {
	if idx < 0 || idx >= len(a.families) {
		return
	}
	id := a.families[idx].ID
	if id == a.session.FamilyID() {
		return
	}
	a.record("Change Family", false)
	if err := a.session.SelectFamily(id); err != nil {
		dialog.ShowError(err, a.window)
	}
}

func (a *App) applyCommon(c configuration.Common, label string) {
	a.record(label, false)
	a.restoring = true
	a.common.set(c)
	a.restoring = false
	if err := a.session.SetCommon(c); err != nil {
		dialog.ShowError(err, a.window)
	}
}

// record pushes the current state before an edit. Consecutive edits with
// the same coalescing label share one snapshot.
func (a *App) record(label string, coalesce bool) {
	if coalesce && a.lastEdit == label {
		return
	}
	a.history.Push(a.snapshot(label))
	a.lastEdit = ""
	if coalesce {
		a.lastEdit = label
	}
}

func (a *App) snapshot(label string) Snapshot {
	return MakeSnapshot(a.session.FamilyID(), a.session.Data(), a.session.Common(), label)
}

// restore pushes s into the widgets and the session.
func (a *App) restore(s Snapshot) {
	a.restoring = true
	defer func() { a.restoring = false }()
	a.lastEdit = ""

	idx := a.familyIndex(s.Family)
	if idx < 0 && len(a.families) > 0 {
		a.log.Warn("unknown family, using first", "family", s.Family)
		idx = 0
	}
	if idx >= 0 {
		a.familySelect.SetSelectedIndex(idx)
		if id := a.families[idx].ID; id != a.session.FamilyID() {
			if err := a.session.SelectFamily(id); err != nil {
				a.log.Error("restoring family failed", "family", id, "error", err)
			}
		}
	}
	a.common.set(s.Common)
	if err := a.session.SetCommon(s.Common); err != nil {
		a.log.Warn("restoring appearance failed", "error", err)
	}
	a.dataEntry.SetText(s.Data)
	a.session.SetData(s.Data)
}

func (a *App) undo() {
	// the redo entry keeps the label of the edit being reverted
	label := a.history.UndoLabel()
	prev, ok := a.history.Undo(a.snapshot(label))
	if !ok {
		return
	}
	a.log.Debug("undo", "edit", label)
	a.restore(prev)
}

func (a *App) redo() {
	next, ok := a.history.Redo(a.snapshot("Undo"))
	if !ok {
		return
	}
	a.log.Debug("redo", "edit", next.Label)
	a.restore(next)
}

func (a *App) copySummary() {
	res := a.session.Last()
	if !res.OK() {
		return
	}
	a.app.Clipboard().SetContent(res.Config.Summary())
}

// showResult updates the preview, the status line and the export actions.
func (a *App) showResult(res engine.Result) {
	if a.preview == nil {
		return
	}
	switch {
	case res.Skipped:
		a.preview.SetMessage("Enter data to generate a symbol")
		a.status.SetText("")
	case res.Err != nil:
		msg := errorText(res.Err)
		a.preview.SetMessage(msg)
		a.status.SetText(msg)
	default:
		a.preview.SetSymbol(res.Symbol)
		a.status.SetText(res.Config.Summary())
	}
	for _, b := range a.exportBtns {
		if res.OK() {
			b.Enable()
		} else {
			b.Disable()
		}
	}
}

// errorText formats an encoding failure as its message and nested cause.
func errorText(err error) string {
	var encErr *encoder.EncodingError
	if errors.As(err, &encErr) {
		if encErr.Cause != nil {
			return fmt.Sprintf("%s\nCause: %v", encErr.Message, encErr.Cause)
		}
		return encErr.Message
	}
	return err.Error()
}
