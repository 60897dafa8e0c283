package encoder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SymbolStudio/internal/configuration"
	"github.com/piwi3910/SymbolStudio/internal/resolver"
	"github.com/piwi3910/SymbolStudio/internal/symbology"
)

func config(t *testing.T, familyID string, edit func(r *resolver.Resolver)) configuration.Resolved {
	t.Helper()
	f, err := symbology.Default().Lookup(familyID)
	require.NoError(t, err)
	r := resolver.New(f)
	if edit != nil {
		edit(r)
	}
	cfg, err := configuration.Build(configuration.DefaultCommon(), f, r.Resolved())
	require.NoError(t, err)
	return cfg
}

func TestQRAutomatic(t *testing.T) {
	lib := NewLibrary()
	sym, err := lib.CreateSymbol("qrcode", "hello", config(t, "qrcode", nil))
	require.NoError(t, err)

	cols, rows := sym.Size()
	assert.Equal(t, cols, rows)
	assert.Equal(t, 0, (cols-17)%4, "QR sides are 17+4v modules")
	assert.False(t, sym.Linear)
	assert.Equal(t, "qrcode", sym.FamilyID)
	assert.Equal(t, "hello", sym.Data)
	assert.True(t, sym.Modules[0][0], "finder pattern starts at the corner")
}

func TestQRForcedVersion(t *testing.T) {
	cfg := config(t, "qrcode", func(r *resolver.Resolver) {
		require.NoError(t, r.SelectMode(resolver.ModeExplicitSize))
		require.NoError(t, r.ChangeIndex("size", 4))
	})
	sym, err := NewLibrary().CreateSymbol("qrcode", "hello", cfg)
	require.NoError(t, err)
	cols, rows := sym.Size()
	assert.Equal(t, 37, cols)
	assert.Equal(t, 37, rows)
}

func TestQRDataTooLongForVersion(t *testing.T) {
	cfg := config(t, "qrcode", func(r *resolver.Resolver) {
		require.NoError(t, r.SelectMode(resolver.ModeExplicitSize))
		require.NoError(t, r.ChangeIndex("size", 0))
	})
	long := "this text is far too long for a version one symbol"
	_, err := NewLibrary().CreateSymbol("qrcode", long, cfg)

	var encErr *EncodingError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, "qrcode", encErr.Family)
	assert.NotNil(t, encErr.Cause)
}

func TestQRGS1ModeUnsupported(t *testing.T) {
	cfg := config(t, "qrcode", func(r *resolver.Resolver) {
		require.NoError(t, r.SetValue(symbology.ParamGS1Mode, symbology.BoolValue(true)))
	})
	_, err := NewLibrary().CreateSymbol("qrcode", "01", cfg)
	assert.ErrorIs(t, err, ErrUnsupportedOption)
}

func TestEmptyData(t *testing.T) {
	_, err := NewLibrary().CreateSymbol("qrcode", "", config(t, "qrcode", nil))
	assert.ErrorIs(t, err, ErrEmptyData)
}

func TestUnsupportedFamily(t *testing.T) {
	lib := NewLibrary()
	assert.False(t, lib.Supports("maxicode"))
	_, err := lib.CreateSymbol("maxicode", "data", config(t, "maxicode", nil))
	assert.ErrorIs(t, err, ErrUnsupportedFamily)
	assert.Contains(t, err.Error(), "MaxiCode")
}

func TestCode128(t *testing.T) {
	sym, err := NewLibrary().CreateSymbol("code128", "ABC-123", config(t, "code128", nil))
	require.NoError(t, err)
	assert.True(t, sym.Linear)
	_, rows := sym.Size()
	assert.Equal(t, 1, rows)
	assert.Equal(t, "ABC-123", sym.HumanReadable)
	assert.True(t, sym.Modules[0][0], "starts with a bar")
}

func TestGS1128CompositeRejected(t *testing.T) {
	cfg := config(t, "gs1-128", func(r *resolver.Resolver) {
		require.NoError(t, r.SetValue(symbology.ParamCompositeData, symbology.TextValue("(21)12345")))
	})
	_, err := NewLibrary().CreateSymbol("gs1-128", "0101234567890128", cfg)
	assert.ErrorIs(t, err, ErrUnsupportedOption)
}

func TestEAN13(t *testing.T) {
	sym, err := NewLibrary().CreateSymbol("ean13", "590123412345", config(t, "ean13", nil))
	require.NoError(t, err)
	cols, _ := sym.Size()
	assert.Equal(t, 95, cols)
	assert.Equal(t, "5901234123457", sym.HumanReadable)

	_, err = NewLibrary().CreateSymbol("ean13", "12345", config(t, "ean13", nil))
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestUPCA(t *testing.T) {
	sym, err := NewLibrary().CreateSymbol("upca", "03600029145", config(t, "upca", nil))
	require.NoError(t, err)
	assert.Equal(t, "036000291452", sym.HumanReadable)
}

func TestITF14(t *testing.T) {
	lib := NewLibrary()
	sym, err := lib.CreateSymbol("itf14", "1540014128876", config(t, "itf14", nil))
	require.NoError(t, err)
	assert.Equal(t, "15400141288763", sym.HumanReadable)
	assert.True(t, sym.BearerBars)

	_, err = lib.CreateSymbol("itf14", "15400141288760", config(t, "itf14", nil))
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestPDF417Truncated(t *testing.T) {
	lib := NewLibrary()
	full, err := lib.CreateSymbol("pdf417", "PDF417 sample", config(t, "pdf417", nil))
	require.NoError(t, err)
	trunc, err := lib.CreateSymbol("pdf417-truncated", "PDF417 sample", config(t, "pdf417-truncated", nil))
	require.NoError(t, err)

	fullCols, fullRows := full.Size()
	truncCols, truncRows := trunc.Size()
	assert.Equal(t, fullRows, truncRows)
	assert.Equal(t, fullCols-34, truncCols)
}

func TestPDF417ColumnsDoNotChangeLayout(t *testing.T) {
	lib := NewLibrary()
	auto, err := lib.CreateSymbol("pdf417", "PDF417 sample", config(t, "pdf417", nil))
	require.NoError(t, err)

	cfg := config(t, "pdf417", func(r *resolver.Resolver) {
		require.NoError(t, r.ChangeIndex("columns", 5))
	})
	require.Equal(t, 5, cfg.Int("columns"))
	fixed, err := lib.CreateSymbol("pdf417", "PDF417 sample", cfg)
	require.NoError(t, err)
	assert.Equal(t, auto.Modules, fixed.Modules)
}

func TestAztecCompactVersion(t *testing.T) {
	cfg := config(t, "aztec", func(r *resolver.Resolver) {
		require.NoError(t, r.SelectMode(resolver.ModeExplicitSize))
		require.NoError(t, r.ChangeIndex("size", 0))
	})
	sym, err := NewLibrary().CreateSymbol("aztec", "A", cfg)
	require.NoError(t, err)
	cols, rows := sym.Size()
	assert.Equal(t, 15, cols)
	assert.Equal(t, 15, rows)
}

func TestDataMatrixExplicitSize(t *testing.T) {
	lib := NewLibrary()
	sized := func(index int) configuration.Resolved {
		return config(t, "datamatrix", func(r *resolver.Resolver) {
			require.NoError(t, r.ChangeIndex("size", index))
		})
	}

	sym, err := lib.CreateSymbol("datamatrix", "hello", sized(2))
	require.NoError(t, err)
	cols, _ := sym.Size()
	assert.Equal(t, 12, cols)

	_, err = lib.CreateSymbol("datamatrix", "hello", sized(1))
	assert.ErrorIs(t, err, ErrInvalidData)

	_, err = lib.CreateSymbol("datamatrix", "hello", sized(25))
	assert.ErrorIs(t, err, ErrUnsupportedOption)
}

func TestAztecMappings(t *testing.T) {
	assert.Equal(t, 0, aztecLayers(0))
	assert.Equal(t, -1, aztecLayers(1))
	assert.Equal(t, -4, aztecLayers(4))
	assert.Equal(t, 1, aztecLayers(5))
	assert.Equal(t, 32, aztecLayers(36))

	assert.Equal(t, 10, aztecECCPercent(1))
	assert.Equal(t, 50, aztecECCPercent(4))
	assert.Equal(t, 33, aztecECCPercent(-1))
}

func TestMod10(t *testing.T) {
	assert.Equal(t, 7, mod10("590123412345"))
	assert.Equal(t, 3, mod10("1540014128876"))
	assert.Equal(t, 2, mod10("03600029145"))
}

func TestEncodingErrorMessage(t *testing.T) {
	cause := errors.New("boom")
	err := &EncodingError{Family: "qrcode", Message: "encode failed", Cause: cause}
	assert.Equal(t, "qrcode: encode failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "bad", (&EncodingError{Message: "bad"}).Error())
}

func TestFamiliesAreInCatalog(t *testing.T) {
	for _, id := range NewLibrary().Families() {
		_, err := symbology.Default().Lookup(id)
		assert.NoError(t, err, id)
	}
}
