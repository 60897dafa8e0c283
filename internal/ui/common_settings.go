package ui

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/piwi3910/SymbolStudio/internal/configuration"
)

var rotationOptions = []string{"0°", "90°", "180°", "270°"}

// commonForm edits the settings shared by every family.
type commonForm struct {
	window   fyne.Window
	onChange func(configuration.Common, error)

	foreground, background, textColor *widget.Entry
	multiplier, barHeight, textMargin *widget.Entry
	fontSize                          *widget.Entry
	fontName, rotation                *widget.Select
	alignment, position               *widget.Select
	showText, bold                    *widget.Check

	font    string
	loading bool
}

func newCommonForm(window fyne.Window, onChange func(configuration.Common, error)) *commonForm {
	f := &commonForm{window: window, onChange: onChange}

	entry := func() *widget.Entry {
		e := widget.NewEntry()
		e.OnChanged = func(string) { f.changed() }
		return e
	}
	f.foreground = entry()
	f.background = entry()
	f.textColor = entry()
	f.multiplier = entry()
	f.barHeight = entry()
	f.textMargin = entry()
	f.fontSize = entry()

	alignments := make([]string, 0, 4)
	for _, a := range configuration.TextAlignments() {
		alignments = append(alignments, a.String())
	}
	f.fontName = widget.NewSelect(configuration.FontNames(), func(string) { f.changed() })
	f.rotation = widget.NewSelect(rotationOptions, func(string) { f.changed() })
	f.alignment = widget.NewSelect(alignments, func(string) { f.changed() })
	f.position = widget.NewSelect([]string{configuration.TextBelow.String(), configuration.TextAbove.String()}, func(string) { f.changed() })
	f.showText = widget.NewCheck("", func(bool) { f.changed() })
	f.bold = widget.NewCheck("Bold", func(bool) { f.changed() })
	return f
}

// colorRow pairs a hex entry with a colour picker button.
func (f *commonForm) colorRow(e *widget.Entry, title string) fyne.CanvasObject {
	pick := newIconButtonWithTooltip(theme.ColorPaletteIcon(), "Pick "+strings.ToLower(title), func() {
		d := dialog.NewColorPicker(title, "", func(c color.Color) {
			cf, ok := colorful.MakeColor(c)
			if !ok {
				return
			}
			e.SetText(cf.Hex())
		}, f.window)
		d.Advanced = true
		d.Show()
	})
	return container.NewBorder(nil, nil, nil, pick, e)
}

func (f *commonForm) build() fyne.CanvasObject {
	return container.NewGridWithColumns(2,
		widget.NewLabel("Foreground"), f.colorRow(f.foreground, "Foreground Colour"),
		widget.NewLabel("Background"), f.colorRow(f.background, "Background Colour"),
		widget.NewLabel("Text Colour"), f.colorRow(f.textColor, "Text Colour"),
		widget.NewLabel("Module Size (px)"), f.multiplier,
		widget.NewLabel("Bar Height (modules)"), f.barHeight,
		widget.NewLabel("Rotation"), f.rotation,
		widget.NewLabel("Show Text"), f.showText,
		widget.NewLabel("Text Position"), f.position,
		widget.NewLabel("Text Alignment"), f.alignment,
		widget.NewLabel("Text Margin (modules)"), f.textMargin,
		widget.NewLabel("Font"), container.NewGridWithColumns(2, f.fontName, f.bold),
		widget.NewLabel("Font Size (pt)"), f.fontSize,
	)
}

// set loads c into the widgets without reporting changes.
func (f *commonForm) set(c configuration.Common) {
	f.loading = true
	defer func() { f.loading = false }()

	f.foreground.SetText(configuration.Hex(c.Foreground))
	f.background.SetText(configuration.Hex(c.Background))
	f.textColor.SetText(configuration.Hex(c.TextColor))
	f.multiplier.SetText(strconv.Itoa(c.Multiplier))
	f.barHeight.SetText(formatFloat(c.BarHeight))
	f.textMargin.SetText(formatFloat(c.TextMargin))
	f.fontSize.SetText(formatFloat(c.Font.Size))
	f.rotation.SetSelectedIndex(c.Rotation / 90)
	f.alignment.SetSelectedIndex(int(c.TextAlignment))
	f.position.SetSelectedIndex(int(c.TextPosition))
	f.showText.SetChecked(c.ShowText)
	f.bold.SetChecked(c.Font.Bold)
	// names outside the list are kept as loaded until a font is picked
	f.font = c.Font.Name
	f.fontName.ClearSelected()
	f.fontName.SetSelected(c.Font.Name)
}

func (f *commonForm) changed() {
	if f.loading || f.onChange == nil {
		return
	}
	f.onChange(f.read())
}

// read parses the widgets into common settings.
func (f *commonForm) read() (configuration.Common, error) {
	if name := f.fontName.Selected; name != "" {
		f.font = name
	}
	c := configuration.Common{
		Font:          configuration.Font{Name: f.font, Bold: f.bold.Checked},
		Rotation:      max(f.rotation.SelectedIndex(), 0) * 90,
		TextAlignment: configuration.TextAlignment(max(f.alignment.SelectedIndex(), 0)),
		TextPosition:  configuration.TextPosition(max(f.position.SelectedIndex(), 0)),
		ShowText:      f.showText.Checked,
	}
	var err error
	if c.Foreground, err = configuration.ParseHex(f.foreground.Text); err != nil {
		return c, fmt.Errorf("foreground: %w", err)
	}
	if c.Background, err = configuration.ParseHex(f.background.Text); err != nil {
		return c, fmt.Errorf("background: %w", err)
	}
	if c.TextColor, err = configuration.ParseHex(f.textColor.Text); err != nil {
		return c, fmt.Errorf("text colour: %w", err)
	}
	if c.Multiplier, err = strconv.Atoi(strings.TrimSpace(f.multiplier.Text)); err != nil {
		return c, fmt.Errorf("module size: %w", err)
	}
	if c.BarHeight, err = parseFloat(f.barHeight.Text); err != nil {
		return c, fmt.Errorf("bar height: %w", err)
	}
	if c.TextMargin, err = parseFloat(f.textMargin.Text); err != nil {
		return c, fmt.Errorf("text margin: %w", err)
	}
	if c.Font.Size, err = parseFloat(f.fontSize.Text); err != nil {
		return c, fmt.Errorf("font size: %w", err)
	}
	return c, c.Validate()
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
