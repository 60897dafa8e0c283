package export

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/SymbolStudio/internal/configuration"
	"github.com/piwi3910/SymbolStudio/internal/encoder"
	"github.com/piwi3910/SymbolStudio/internal/engine"
	"github.com/piwi3910/SymbolStudio/internal/model"
	"github.com/piwi3910/SymbolStudio/internal/render"
	"github.com/piwi3910/SymbolStudio/internal/symbology"
)

func resolvedWith(t *testing.T, linear bool, edit func(c *configuration.Common)) configuration.Resolved {
	t.Helper()
	c := configuration.DefaultCommon()
	if edit != nil {
		edit(&c)
	}
	family := symbology.SymbolFamily{ID: "test", Name: "Test", Capabilities: symbology.Capabilities{Linear: linear}}
	cfg, err := configuration.Build(c, family, nil)
	require.NoError(t, err)
	return cfg
}

func linearSymbol(t *testing.T, edit func(c *configuration.Common)) encoder.EncodedSymbol {
	return encoder.EncodedSymbol{
		FamilyID:      "test",
		Data:          "12",
		Modules:       [][]bool{{true, false, true, true, false, true}},
		Linear:        true,
		HumanReadable: "12",
		Config:        resolvedWith(t, true, edit),
	}
}

func squareSymbol(t *testing.T) encoder.EncodedSymbol {
	return encoder.EncodedSymbol{
		FamilyID: "test",
		Data:     "x",
		Modules:  [][]bool{{true, true}, {false, true}},
		Config:   resolvedWith(t, false, nil),
	}
}

// ─── Geometry Tests ────────────────────────────────────────

func TestVectorizeLinearMergesRuns(t *testing.T) {
	g := Vectorize(linearSymbol(t, nil))

	q := float64(render.QuietLinear)
	assert.Equal(t, 6+2*q, g.Width)
	assert.Equal(t, 50+2*q, g.Height)
	assert.Equal(t, []Rect{
		{X: q, Y: q, W: 1, H: 50},
		{X: q + 2, Y: q, W: 2, H: 50},
		{X: q + 5, Y: q, W: 1, H: 50},
	}, g.Dark)
}

func TestVectorize2D(t *testing.T) {
	g := Vectorize(squareSymbol(t))

	q := float64(render.Quiet2D)
	assert.Equal(t, 2+2*q, g.Width)
	assert.Equal(t, g.Width, g.Height)
	assert.Equal(t, []Rect{
		{X: q, Y: q, W: 2, H: 1},
		{X: q + 1, Y: q + 1, W: 1, H: 1},
	}, g.Dark)
}

func TestVectorizeBearerBars(t *testing.T) {
	sym := linearSymbol(t, nil)
	plain := Vectorize(sym)
	sym.BearerBars = true
	withBars := Vectorize(sym)
	assert.Len(t, withBars.Dark, len(plain.Dark)+4)
}

func TestVectorizeEmpty(t *testing.T) {
	assert.Equal(t, Geometry{}, Vectorize(encoder.EncodedSymbol{}))
}

func TestGeometryRotate(t *testing.T) {
	g := Geometry{Width: 10, Height: 6, Dark: []Rect{{X: 1, Y: 2, W: 3, H: 1}}}

	r90 := g.Rotate(90)
	assert.Equal(t, 6.0, r90.Width)
	assert.Equal(t, 10.0, r90.Height)
	assert.Equal(t, Rect{X: 3, Y: 1, W: 1, H: 3}, r90.Dark[0])

	assert.Equal(t, Rect{X: 6, Y: 3, W: 3, H: 1}, g.Rotate(180).Dark[0])
	assert.Equal(t, g, g.Rotate(90).Rotate(270))
	assert.Equal(t, g, g.Rotate(180).Rotate(180))
	assert.Equal(t, g, g.Rotate(0))
}

func TestVectorizeHonoursRotation(t *testing.T) {
	sym := linearSymbol(t, func(c *configuration.Common) { c.Rotation = 90 })
	g := Vectorize(sym)
	q := float64(render.QuietLinear)
	assert.Equal(t, 50+2*q, g.Width)
	assert.Equal(t, 6+2*q, g.Height)
}

func TestModuleSizeAndFit(t *testing.T) {
	sym := squareSymbol(t)
	assert.InDelta(t, 2*25.4/96, ModuleSize(sym), 1e-9)

	w, h := fitBox(100, 50, 20, 20)
	assert.InDelta(t, 20, w, 1e-9)
	assert.InDelta(t, 10, h, 1e-9)

	w, h = fitBox(0, 10, 20, 20)
	assert.Zero(t, w)
	assert.Zero(t, h)
}

// ─── PNG Tests ─────────────────────────────────────────────

func TestWritePNG(t *testing.T) {
	sym := squareSymbol(t)
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, sym))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	w, h := render.Measure(sym)
	assert.Equal(t, w, img.Bounds().Dx())
	assert.Equal(t, h, img.Bounds().Dy())
}

func TestSavePNGCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "sym.png")
	require.NoError(t, SavePNG(path, squareSymbol(t)))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestExportsRejectEmptySymbol(t *testing.T) {
	dir := t.TempDir()
	var empty encoder.EncodedSymbol
	assert.ErrorIs(t, SavePNG(filepath.Join(dir, "a.png"), empty), ErrNothingToExport)
	assert.ErrorIs(t, ExportPDF(filepath.Join(dir, "a.pdf"), empty, ""), ErrNothingToExport)
	assert.ErrorIs(t, ExportDXF(filepath.Join(dir, "a.dxf"), empty), ErrNothingToExport)
	assert.ErrorIs(t, ExportLabels(filepath.Join(dir, "l.pdf"), nil), ErrNothingToExport)
}

// ─── PDF Tests ─────────────────────────────────────────────

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbol.pdf")
	require.NoError(t, ExportPDF(path, linearSymbol(t, nil), "Shelf 4 · Bin 12"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_LargeSymbolFitsPage(t *testing.T) {
	sym := encoder.EncodedSymbol{
		Modules: make([][]bool, 177),
		Config: resolvedWith(t, false, func(c *configuration.Common) {
			c.Multiplier = 20
			c.Rotation = 270
		}),
	}
	for y := range sym.Modules {
		sym.Modules[y] = make([]bool, 177)
		sym.Modules[y][y] = true
	}
	path := filepath.Join(t.TempDir(), "big.pdf")
	require.NoError(t, ExportPDF(path, sym, ""))
}

// ─── DXF Tests ─────────────────────────────────────────────

func TestExportDXF_Entities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbol.dxf")
	sym := linearSymbol(t, nil)
	require.NoError(t, ExportDXF(path, sym))

	d, err := dxf.Open(path)
	require.NoError(t, err)

	var polylines, texts int
	for _, e := range d.Entities() {
		switch e.(type) {
		case *entity.LwPolyline:
			polylines++
		case *entity.Text:
			texts++
		}
	}
	// three bar runs plus the frame
	assert.Equal(t, 4, polylines)
	assert.Equal(t, 1, texts)
}

func TestExportDXF_NoText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbol.dxf")
	sym := linearSymbol(t, func(c *configuration.Common) { c.ShowText = false })
	require.NoError(t, ExportDXF(path, sym))

	d, err := dxf.Open(path)
	require.NoError(t, err)
	for _, e := range d.Entities() {
		if _, ok := e.(*entity.Text); ok {
			t.Fatal("unexpected text entity")
		}
	}
}

// ─── Label Tests ───────────────────────────────────────────

func TestExportLabels_ManyPages(t *testing.T) {
	labels := make([]Label, 0, 35)
	for i := 0; i < 35; i++ {
		labels = append(labels, Label{Symbol: squareSymbol(t), Caption: "a caption long enough to be truncated on a label"})
	}
	path := filepath.Join(t.TempDir(), "labels.pdf")
	require.NoError(t, ExportLabels(path, labels))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(500))
}

func TestExportLabels_EmptySymbol(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")
	err := ExportLabels(path, []Label{{Caption: "blank"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNothingToExport))
	assert.Contains(t, err.Error(), "blank")
}

func TestLabelsFromBatch(t *testing.T) {
	ok := engine.Result{Symbol: squareSymbol(t)}
	b := engine.Batch{Entries: []engine.BatchEntry{
		{Item: model.NewBatchItem("x", "First"), Result: ok},
		{Item: model.NewBatchItem("", ""), Result: engine.Result{Skipped: true}},
		{Item: model.NewBatchItem("bad", ""), Result: engine.Result{Err: errors.New("boom")}},
		{Item: model.NewBatchItem("y", ""), Result: ok},
	}}

	labels := LabelsFromBatch(b)
	require.Len(t, labels, 2)
	assert.Equal(t, "First", labels[0].Caption)
	assert.Equal(t, "y", labels[1].Caption)
}

// ─── Packed Sheet Tests ────────────────────────────────────

func TestExportSheet_CreatesFile(t *testing.T) {
	labels := []Label{
		{Symbol: squareSymbol(t), Caption: "one"},
		{Symbol: linearSymbol(t, nil)},
		{Symbol: squareSymbol(t), Caption: "a caption far too long for such a small symbol"},
	}
	path := filepath.Join(t.TempDir(), "sheet.pdf")
	require.NoError(t, ExportSheet(path, labels, engine.DefaultPackSettings()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(500))
}

func TestExportSheet_Rejects(t *testing.T) {
	dir := t.TempDir()
	s := engine.DefaultPackSettings()

	err := ExportSheet(filepath.Join(dir, "a.pdf"), nil, s)
	assert.ErrorIs(t, err, ErrNothingToExport)

	err = ExportSheet(filepath.Join(dir, "b.pdf"), []Label{{Caption: "blank"}}, s)
	assert.ErrorIs(t, err, ErrNothingToExport)

	huge := encoder.EncodedSymbol{
		FamilyID: "test",
		Data:     "x",
		Modules:  make([][]bool, 100),
		Config:   resolvedWith(t, false, func(c *configuration.Common) { c.Multiplier = configuration.MaxMultiplier }),
	}
	for y := range huge.Modules {
		huge.Modules[y] = make([]bool, 100)
		huge.Modules[y][y] = true
	}
	err = ExportSheet(filepath.Join(dir, "c.pdf"), []Label{{Symbol: squareSymbol(t)}, {Symbol: huge, Caption: "huge"}}, s)
	assert.ErrorIs(t, err, ErrDoesNotFit)
	assert.Contains(t, err.Error(), "huge")
	_, statErr := os.Stat(filepath.Join(dir, "c.pdf"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPDFFontFamily(t *testing.T) {
	tests := map[string]string{
		"Helvetica":       "Helvetica",
		"Times":           "Times",
		"times new roman": "Times",
		"Courier":         "Courier",
		"monospace":       "Courier",
		"Comic Sans":      "Helvetica",
		"":                "Helvetica",
	}
	for name, want := range tests {
		if got := pdfFontFamily(name); got != want {
			t.Errorf("pdfFontFamily(%q) = %q, want %q", name, got, want)
		}
	}
}
