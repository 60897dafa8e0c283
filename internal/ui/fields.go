package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"github.com/piwi3910/SymbolStudio/internal/panel"
	"github.com/piwi3910/SymbolStudio/internal/symbology"
)

var errUnsupportedKind = errors.New("unsupported parameter kind")

// FieldFactory creates Fyne widgets for parameters and adds each one as a
// labelled row to its target container.
type FieldFactory struct {
	target *fyne.Container
}

func NewFieldFactory(target *fyne.Container) *FieldFactory {
	return &FieldFactory{target: target}
}

// Create implements panel.Factory.
func (f *FieldFactory) Create(spec symbology.ParameterSpec, onChange panel.ChangeFunc) (panel.Field, panel.Disposer, error) {
	var field *fyneField
	switch spec.Kind {
	case symbology.KindEnumeration:
		field = newSelectField(spec, onChange)
	case symbology.KindIntegerRange:
		field = newRangeField(spec, onChange)
	case symbology.KindBoolean:
		field = newCheckField(spec, onChange)
	case symbology.KindFreeText:
		field = newTextField(spec, onChange)
	default:
		return nil, nil, fmt.Errorf("%w: %s", errUnsupportedKind, spec.Kind)
	}

	label := ttwidget.NewLabel(spec.Label)
	if spec.Description != "" {
		label.SetToolTip(spec.Description)
	}
	row := container.NewGridWithColumns(2, label, field.widget)
	f.target.Add(row)

	dispose := func() {
		field.detach()
		f.target.Remove(row)
	}
	return field, dispose, nil
}

// fyneField adapts one Fyne widget to panel.Field.
type fyneField struct {
	name    string
	kind    symbology.Kind
	widget  fyne.CanvasObject
	control fyne.Disableable
	value   symbology.Value

	set    func(v symbology.Value)
	clear  func()
	detach func()
}

func (f *fyneField) Name() string { return f.name }

func (f *fyneField) SetValue(v symbology.Value) {
	f.value = v
	f.set(v)
}

func (f *fyneField) Value() symbology.Value { return f.value }

func (f *fyneField) SetEnabled(enabled bool) {
	if enabled {
		f.control.Enable()
	} else {
		f.control.Disable()
	}
}

func (f *fyneField) Clear() {
	f.value = symbology.Value{Kind: f.kind, Int: symbology.Unset}
	f.clear()
}

func newSelectField(spec symbology.ParameterSpec, onChange panel.ChangeFunc) *fyneField {
	sel := widget.NewSelect(spec.Options, nil)
	if i := spec.Default.Int; i >= 0 && i < len(spec.Options) {
		sel.SetSelectedIndex(i)
	}
	f := &fyneField{name: spec.Name, kind: spec.Kind, widget: sel, control: sel, value: spec.Default}
	sel.OnChanged = func(string) {
		idx := sel.SelectedIndex()
		if idx < 0 {
			return
		}
		f.value = symbology.EnumValue(idx)
		onChange(f.value)
	}
	f.set = func(v symbology.Value) {
		if v.Int >= 0 && v.Int < len(spec.Options) && sel.SelectedIndex() != v.Int {
			sel.SetSelectedIndex(v.Int)
		}
	}
	f.clear = sel.ClearSelected
	f.detach = func() { sel.OnChanged = nil }
	return f
}

// parseRange reads an integer from text and clamps it onto r.
func parseRange(r symbology.IntRange, text string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, false
	}
	return r.Clamp(n), true
}

// newRangeField forwards in-range values while typing and clamps on submit.
func newRangeField(spec symbology.ParameterSpec, onChange panel.ChangeFunc) *fyneField {
	e := widget.NewEntry()
	e.SetPlaceHolder(fmt.Sprintf("%d to %d", spec.Range.Min, spec.Range.Max))
	e.SetText(strconv.Itoa(spec.Default.Int))
	f := &fyneField{name: spec.Name, kind: spec.Kind, widget: e, control: e, value: spec.Default}
	forward := func(n int) {
		f.value = symbology.IntValue(n)
		onChange(f.value)
	}
	e.OnChanged = func(text string) {
		if n, err := strconv.Atoi(strings.TrimSpace(text)); err == nil && spec.Range.Contains(n) {
			forward(n)
		}
	}
	e.OnSubmitted = func(text string) {
		if n, ok := parseRange(spec.Range, text); ok {
			forward(n)
		}
	}
	f.set = func(v symbology.Value) {
		if n, err := strconv.Atoi(strings.TrimSpace(e.Text)); err != nil || n != v.Int {
			e.SetText(strconv.Itoa(v.Int))
		}
	}
	f.clear = func() { e.SetText("") }
	f.detach = func() {
		e.OnChanged = nil
		e.OnSubmitted = nil
	}
	return f
}

func newCheckField(spec symbology.ParameterSpec, onChange panel.ChangeFunc) *fyneField {
	chk := widget.NewCheck("", nil)
	chk.SetChecked(spec.Default.Bool)
	f := &fyneField{name: spec.Name, kind: spec.Kind, widget: chk, control: chk, value: spec.Default}
	chk.OnChanged = func(b bool) {
		f.value = symbology.BoolValue(b)
		onChange(f.value)
	}
	f.set = func(v symbology.Value) {
		if chk.Checked != v.Bool {
			chk.SetChecked(v.Bool)
		}
	}
	f.clear = func() { chk.SetChecked(false) }
	f.detach = func() { chk.OnChanged = nil }
	return f
}

func newTextField(spec symbology.ParameterSpec, onChange panel.ChangeFunc) *fyneField {
	e := widget.NewEntry()
	e.SetPlaceHolder(spec.Description)
	e.SetText(spec.Default.Text)
	f := &fyneField{name: spec.Name, kind: spec.Kind, widget: e, control: e, value: spec.Default}
	e.OnChanged = func(text string) {
		f.value = symbology.TextValue(text)
		onChange(f.value)
	}
	// keep the cursor where it is when the controller echoes the same text
	f.set = func(v symbology.Value) {
		if e.Text != v.Text {
			e.SetText(v.Text)
		}
	}
	f.clear = func() { e.SetText("") }
	f.detach = func() { e.OnChanged = nil }
	return f
}
