package export

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/piwi3910/SymbolStudio/internal/encoder"
	"github.com/piwi3910/SymbolStudio/internal/render"
)

// WritePNG encodes the rendered symbol as PNG.
func WritePNG(w io.Writer, sym encoder.EncodedSymbol) error {
	if sym.IsZero() {
		return ErrNothingToExport
	}
	return png.Encode(w, render.Image(sym))
}

// SavePNG renders sym to a PNG file at path.
func SavePNG(path string, sym encoder.EncodedSymbol) error {
	if sym.IsZero() {
		return ErrNothingToExport
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create PNG file: %w", err)
	}
	if err := WritePNG(f, sym); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return f.Close()
}
