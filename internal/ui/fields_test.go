package ui

import (
	"io"
	"log/slog"
	"slices"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SymbolStudio/internal/panel"
	"github.com/piwi3910/SymbolStudio/internal/resolver"
	"github.com/piwi3910/SymbolStudio/internal/symbology"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// rowWidget returns the editor widget of the binding named name.
func rowWidget(t *testing.T, box *fyne.Container, c *panel.Controller, name string) fyne.CanvasObject {
	t.Helper()
	idx := slices.IndexFunc(c.Bindings(), func(b panel.Binding) bool { return b.FieldName == name })
	require.GreaterOrEqual(t, idx, 0, "no field %s", name)
	require.Less(t, idx, len(box.Objects))
	row, ok := box.Objects[idx].(*fyne.Container)
	require.True(t, ok)
	return row.Objects[1]
}

func TestFieldFactoryDrivesController(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	box := container.NewVBox()
	c := panel.NewController(symbology.Default(), NewFieldFactory(box), quietLogger())
	w := test.NewWindow(box)
	defer w.Close()

	require.NoError(t, c.Activate("qrcode"))
	assert.Len(t, box.Objects, len(c.Bindings()))

	mode := rowWidget(t, box, c, panel.ModeFieldName).(*widget.Select)
	size := rowWidget(t, box, c, "size").(*widget.Select)
	assert.Equal(t, int(resolver.ModeAutomatic), mode.SelectedIndex())
	assert.True(t, size.Disabled())
	assert.Equal(t, -1, size.SelectedIndex())

	mode.SetSelectedIndex(int(resolver.ModeExplicitSize))
	assert.Equal(t, resolver.ModeExplicitSize, c.Mode())
	assert.False(t, size.Disabled())
	assert.Equal(t, 0, size.SelectedIndex())

	size.SetSelectedIndex(4)
	assert.Equal(t, 5, c.Resolved()["size"].Int)
}

func TestFieldFactoryRebuildsOnFamilySwitch(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	box := container.NewVBox()
	c := panel.NewController(symbology.Default(), NewFieldFactory(box), quietLogger())

	require.NoError(t, c.Activate("qrcode"))
	old := rowWidget(t, box, c, "errorLevel").(*widget.Select)

	require.NoError(t, c.Activate("pdf417"))
	assert.Len(t, box.Objects, 2)
	assert.Nil(t, old.OnChanged, "disposed field keeps its callback")

	c.Teardown()
	assert.Empty(t, box.Objects)
}

func TestRangeFieldClampsOnSubmit(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	box := container.NewVBox()
	var got []symbology.Value
	spec := symbology.ParameterSpec{
		Name:    "rows",
		Label:   "Rows",
		Kind:    symbology.KindIntegerRange,
		Range:   symbology.IntRange{Min: 1, Max: 44, Step: 1},
		Default: symbology.IntValue(1),
	}
	f, dispose, err := NewFieldFactory(box).Create(spec, func(v symbology.Value) { got = append(got, v) })
	require.NoError(t, err)

	w := test.NewWindow(box)
	defer w.Close()

	e := box.Objects[0].(*fyne.Container).Objects[1].(*widget.Entry)
	e.SetText("12")
	e.SetText("99")
	require.Len(t, got, 1, "out of range text is not forwarded while typing")
	assert.Equal(t, symbology.IntValue(12), got[0])

	e.TypedKey(&fyne.KeyEvent{Name: fyne.KeyReturn})
	require.Len(t, got, 2)
	assert.Equal(t, symbology.IntValue(44), got[1])
	assert.Equal(t, symbology.IntValue(44), f.Value())

	dispose()
	assert.Empty(t, box.Objects)
	e.SetText("3")
	assert.Len(t, got, 2)
}

func TestCatalogRangeFieldClampsThroughController(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	box := container.NewVBox()
	c := panel.NewController(symbology.Default(), NewFieldFactory(box), quietLogger())
	w := test.NewWindow(box)
	defer w.Close()

	require.NoError(t, c.Activate("codablock-f"))
	columns := rowWidget(t, box, c, "columns").(*widget.Entry)
	assert.Equal(t, "10", columns.Text)
	assert.Equal(t, 10, c.Resolved()["columns"].Int)

	columns.SetText("99")
	assert.Equal(t, 10, c.Resolved()["columns"].Int)
	columns.TypedKey(&fyne.KeyEvent{Name: fyne.KeyReturn})
	assert.Equal(t, 62, c.Resolved()["columns"].Int)
	assert.Equal(t, "62", columns.Text)

	columns.SetText("2")
	columns.TypedKey(&fyne.KeyEvent{Name: fyne.KeyReturn})
	assert.Equal(t, 4, c.Resolved()["columns"].Int)
}

func TestCheckAndTextFields(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	box := container.NewVBox()
	factory := NewFieldFactory(box)
	var last symbology.Value
	record := func(v symbology.Value) { last = v }

	chkField, _, err := factory.Create(symbology.ParameterSpec{
		Name: "checkDigit", Label: "Check Digit", Kind: symbology.KindBoolean,
	}, record)
	require.NoError(t, err)
	chk := box.Objects[0].(*fyne.Container).Objects[1].(*widget.Check)
	test.Tap(chk)
	assert.Equal(t, symbology.BoolValue(true), last)
	chkField.SetEnabled(false)
	assert.True(t, chk.Disabled())

	txtField, _, err := factory.Create(symbology.ParameterSpec{
		Name: "compositeData", Label: "Composite Data", Kind: symbology.KindFreeText,
	}, record)
	require.NoError(t, err)
	txt := box.Objects[1].(*fyne.Container).Objects[1].(*widget.Entry)
	txt.SetText("[01]0950")
	assert.Equal(t, symbology.TextValue("[01]0950"), last)

	txtField.Clear()
	assert.Equal(t, "", txt.Text)
	assert.Equal(t, "", txtField.Value().Text)
}

func TestFieldFactoryRejectsUnknownKind(t *testing.T) {
	box := container.NewVBox()
	_, _, err := NewFieldFactory(box).Create(symbology.ParameterSpec{Name: "x", Kind: symbology.Kind(42)}, func(symbology.Value) {})
	require.ErrorIs(t, err, errUnsupportedKind)
	assert.Empty(t, box.Objects)
}
