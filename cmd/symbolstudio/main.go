// SymbolStudio: barcode and 2D symbol designer.
//
// A cross-platform desktop application for configuring symbologies,
// previewing encoded symbols and exporting them as PNG, PDF, DXF or
// sheets of labels.
//
// Build:
//   go build -o symbolstudio ./cmd/symbolstudio
//
// Environment:
//   SYMBOLSTUDIO_CONFIG      preferences file (default ~/.symbolstudio/config.json)
//   SYMBOLSTUDIO_PRESETS     preset store (default ~/.symbolstudio/presets.json)
//   SYMBOLSTUDIO_LOG_LEVEL   debug, info, warn or error
//   SYMBOLSTUDIO_LOG_JSON    log as JSON lines
//   SYMBOLSTUDIO_FAMILY      symbology selected at startup

package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/piwi3910/SymbolStudio/internal/applog"
	"github.com/piwi3910/SymbolStudio/internal/encoder"
	"github.com/piwi3910/SymbolStudio/internal/model"
	"github.com/piwi3910/SymbolStudio/internal/project"
	"github.com/piwi3910/SymbolStudio/internal/symbology"
	"github.com/piwi3910/SymbolStudio/internal/ui"
)

func main() {
	env, err := project.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "symbolstudio: %v\n", err)
		os.Exit(1)
	}
	logger := applog.Init(applog.Options{
		Level: applog.ParseLevel(env.LogLevel),
		JSON:  env.LogJSON,
	})

	cfg, err := project.LoadAppConfig(env.ConfigPath)
	if err != nil {
		logger.Warn("using default settings", "path", env.ConfigPath, "error", err)
		cfg = model.DefaultAppConfig()
	}
	presets, err := project.LoadPresets(env.PresetPath)
	if err != nil {
		logger.Warn("ignoring preset store", "path", env.PresetPath, "error", err)
		presets = model.NewPresetStore()
	}

	application := app.NewWithID("com.piwi3910.symbolstudio")
	window := application.NewWindow("SymbolStudio")

	appUI := ui.NewApp(application, window, ui.Options{
		Registry:   symbology.Default(),
		Encoder:    encoder.NewLibrary(),
		Logger:     logger,
		Config:     cfg,
		ConfigPath: env.ConfigPath,
		Presets:    presets,
		PresetPath: env.PresetPath,
		Family:     env.Family,
	})
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1200, 760))
	window.CenterOnScreen()

	logger.Info("starting", "config", env.ConfigPath, "families", symbology.Default().Len())
	window.ShowAndRun()
}
