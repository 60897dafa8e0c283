package encoder

import (
	"fmt"
	"image"
	"slices"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/aztec"
	"github.com/boombuler/barcode/codabar"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/code93"
	"github.com/boombuler/barcode/datamatrix"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/pdf417"
	"github.com/boombuler/barcode/twooffive"

	"github.com/piwi3910/SymbolStudio/internal/configuration"
	"github.com/piwi3910/SymbolStudio/internal/symbology"
)

type encodeFunc func(data string, cfg configuration.Resolved) (EncodedSymbol, error)

// Library is the built-in Encoder.
type Library struct {
	funcs map[string]encodeFunc
}

// NewLibrary returns an encoder for every family it knows how to draw.
func NewLibrary() *Library {
	return &Library{funcs: map[string]encodeFunc{
		"qrcode":           encodeQR,
		"aztec":            encodeAztec,
		"datamatrix":       encodeDataMatrix,
		"pdf417":           func(d string, c configuration.Resolved) (EncodedSymbol, error) { return encodePDF417(d, c, false) },
		"pdf417-truncated": func(d string, c configuration.Resolved) (EncodedSymbol, error) { return encodePDF417(d, c, true) },
		"code128":          encodeCode128,
		"gs1-128":          encodeGS1128,
		"code39":           func(d string, c configuration.Resolved) (EncodedSymbol, error) { return encodeCode39(d, c, false) },
		"code39-extended":  func(d string, c configuration.Resolved) (EncodedSymbol, error) { return encodeCode39(d, c, true) },
		"code93":           encodeCode93,
		"codabar":          encodeCodabar,
		"ean13":            func(d string, c configuration.Resolved) (EncodedSymbol, error) { return encodeEAN(d, c, 12) },
		"ean8":             func(d string, c configuration.Resolved) (EncodedSymbol, error) { return encodeEAN(d, c, 7) },
		"upca":             encodeUPCA,
		"itf14":            encodeITF14,
		"c25-standard":     func(d string, c configuration.Resolved) (EncodedSymbol, error) { return encode2of5(d, c, false) },
		"c25-interleaved":  func(d string, c configuration.Resolved) (EncodedSymbol, error) { return encode2of5(d, c, true) },
	}}
}

// Supports reports whether familyID has a built-in encoder.
func (l *Library) Supports(familyID string) bool {
	_, ok := l.funcs[familyID]
	return ok
}

// Families lists the supported family ids in lexical order.
func (l *Library) Families() []string {
	ids := make([]string, 0, len(l.funcs))
	for id := range l.funcs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// CreateSymbol encodes data for familyID with cfg.
func (l *Library) CreateSymbol(familyID, data string, cfg configuration.Resolved) (EncodedSymbol, error) {
	if data == "" {
		return EncodedSymbol{}, encodingError(familyID, "nothing to encode", ErrEmptyData)
	}
	fn, ok := l.funcs[familyID]
	if !ok {
		name := cfg.FamilyName()
		if name == "" {
			name = familyID
		}
		return EncodedSymbol{}, encodingError(familyID, name+" cannot be generated", ErrUnsupportedFamily)
	}
	if err := checkAddOns(familyID, cfg); err != nil {
		return EncodedSymbol{}, err
	}

	sym, err := fn(data, cfg)
	if err != nil {
		return EncodedSymbol{}, err
	}
	sym.FamilyID = familyID
	sym.Data = data
	sym.Config = cfg
	return sym, nil
}

// checkAddOns rejects the composite and supplement components, which no
// built-in encoder produces.
func checkAddOns(familyID string, cfg configuration.Resolved) error {
	if cfg.Text(symbology.ParamCompositeData) != "" {
		return encodingError(familyID, "composite component", ErrUnsupportedOption)
	}
	if cfg.Text(symbology.ParamSupplement) != "" {
		return encodingError(familyID, "add-on supplement", ErrUnsupportedOption)
	}
	return nil
}

// fromBarcode converts a boombuler barcode image into modules.
func fromBarcode(bc barcode.Barcode) EncodedSymbol {
	b := bc.Bounds()
	if bc.Metadata().Dimensions == 1 {
		return EncodedSymbol{
			Modules:       [][]bool{rowAt(bc, b, b.Min.Y)},
			Linear:        true,
			HumanReadable: bc.Content(),
		}
	}
	modules := make([][]bool, 0, b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		modules = append(modules, rowAt(bc, b, y))
	}
	return EncodedSymbol{Modules: modules}
}

func rowAt(img image.Image, b image.Rectangle, y int) []bool {
	row := make([]bool, 0, b.Dx())
	for x := b.Min.X; x < b.Max.X; x++ {
		r, g, bl, _ := img.At(x, y).RGBA()
		row = append(row, (r+g+bl)/3 < 0x8000)
	}
	return row
}

func encodeAztec(data string, cfg configuration.Resolved) (EncodedSymbol, error) {
	if cfg.Bool(symbology.ParamGS1Mode) {
		return EncodedSymbol{}, encodingError("aztec", "GS1 mode", ErrUnsupportedOption)
	}
	bc, err := aztec.Encode([]byte(data), aztecECCPercent(cfg.Int("errorLevel")), aztecLayers(cfg.Int("size")))
	if err != nil {
		return EncodedSymbol{}, encodingError("aztec", "encode failed", err)
	}
	return fromBarcode(bc), nil
}

// aztecLayers maps a symbol version (1-4 compact, 5-36 full range) onto
// the layer count the encoder takes; negative means compact, 0 automatic.
func aztecLayers(version int) int {
	switch {
	case version <= 0:
		return aztec.DEFAULT_LAYERS
	case version <= 4:
		return -version
	default:
		return version - 4
	}
}

var aztecECC = []int{10, 23, 36, 50}

func aztecECCPercent(level int) int {
	if level < 1 || level > len(aztecECC) {
		return aztec.DEFAULT_EC_PERCENT
	}
	return aztecECC[level-1]
}

var dataMatrixSquares = []int{10, 12, 14, 16, 18, 20, 22, 24, 26, 32, 36, 40, 44, 48, 52, 64, 72, 80, 88, 96, 104, 120, 132, 144}

func encodeDataMatrix(data string, cfg configuration.Resolved) (EncodedSymbol, error) {
	if cfg.Bool(symbology.ParamGS1Mode) {
		return EncodedSymbol{}, encodingError("datamatrix", "GS1 mode", ErrUnsupportedOption)
	}
	size := cfg.Int("size")
	if size > len(dataMatrixSquares) {
		return EncodedSymbol{}, encodingError("datamatrix", "rectangular sizes", ErrUnsupportedOption)
	}
	bc, err := datamatrix.Encode(data)
	if err != nil {
		return EncodedSymbol{}, encodingError("datamatrix", "encode failed", err)
	}
	sym := fromBarcode(bc)
	if size > 0 {
		want := dataMatrixSquares[size-1]
		if got, _ := sym.Size(); got != want {
			return EncodedSymbol{}, encodingError("datamatrix",
				fmt.Sprintf("data needs a %d x %d symbol, %d x %d was requested", got, got, want, want), ErrInvalidData)
		}
	}
	return sym, nil
}

func encodePDF417(data string, cfg configuration.Resolved, truncated bool) (EncodedSymbol, error) {
	family := "pdf417"
	if truncated {
		family = "pdf417-truncated"
	}
	level := cfg.Int("errorLevel")
	if level < 0 {
		level = 2
	}
	// The resolved "columns" value is not forwarded: pdf417.Encode picks
	// its own column count and takes only the security level.
	bc, err := pdf417.Encode(data, byte(level))
	if err != nil {
		return EncodedSymbol{}, encodingError(family, "encode failed", err)
	}
	sym := fromBarcode(bc)
	if truncated {
		// drop the right row indicator and stop pattern, end with a
		// single stop bar
		const rightSide = 17 + 18
		for i, row := range sym.Modules {
			if len(row) > rightSide {
				sym.Modules[i] = append(row[:len(row)-rightSide:len(row)-rightSide], true)
			}
		}
	}
	return sym, nil
}

func encodeCode128(data string, _ configuration.Resolved) (EncodedSymbol, error) {
	bc, err := code128.Encode(data)
	if err != nil {
		return EncodedSymbol{}, encodingError("code128", "encode failed", err)
	}
	return fromBarcode(bc), nil
}

func encodeGS1128(data string, _ configuration.Resolved) (EncodedSymbol, error) {
	bc, err := code128.Encode(string(code128.FNC1) + data)
	if err != nil {
		return EncodedSymbol{}, encodingError("gs1-128", "encode failed", err)
	}
	sym := fromBarcode(bc)
	sym.HumanReadable = data
	return sym, nil
}

func encodeCode39(data string, cfg configuration.Resolved, fullASCII bool) (EncodedSymbol, error) {
	family := "code39"
	if fullASCII {
		family = "code39-extended"
	} else {
		data = strings.ToUpper(data)
	}
	bc, err := code39.Encode(data, cfg.Bool("checkDigit"), fullASCII)
	if err != nil {
		return EncodedSymbol{}, encodingError(family, "encode failed", err)
	}
	sym := fromBarcode(bc)
	sym.HumanReadable = "*" + data + "*"
	return sym, nil
}

func encodeCode93(data string, cfg configuration.Resolved) (EncodedSymbol, error) {
	bc, err := code93.Encode(strings.ToUpper(data), cfg.Bool("checkDigit"), false)
	if err != nil {
		return EncodedSymbol{}, encodingError("code93", "encode failed", err)
	}
	return fromBarcode(bc), nil
}

func encodeCodabar(data string, _ configuration.Resolved) (EncodedSymbol, error) {
	data = strings.ToUpper(data)
	if !strings.ContainsAny(data[:1], "ABCD") {
		data = "A" + data + "A"
	}
	bc, err := codabar.Encode(data)
	if err != nil {
		return EncodedSymbol{}, encodingError("codabar", "encode failed", err)
	}
	return fromBarcode(bc), nil
}

// encodeEAN accepts the payload digits with or without the check digit.
func encodeEAN(data string, _ configuration.Resolved, digits int) (EncodedSymbol, error) {
	family := "ean13"
	if digits == 7 {
		family = "ean8"
	}
	if !isDigits(data) || (len(data) != digits && len(data) != digits+1) {
		return EncodedSymbol{}, encodingError(family,
			fmt.Sprintf("expected %d or %d digits", digits, digits+1), ErrInvalidData)
	}
	bc, err := ean.Encode(data)
	if err != nil {
		return EncodedSymbol{}, encodingError(family, "encode failed", err)
	}
	return fromBarcode(bc), nil
}

// encodeUPCA encodes UPC-A as the EAN-13 with a leading zero.
func encodeUPCA(data string, _ configuration.Resolved) (EncodedSymbol, error) {
	if !isDigits(data) || (len(data) != 11 && len(data) != 12) {
		return EncodedSymbol{}, encodingError("upca", "expected 11 or 12 digits", ErrInvalidData)
	}
	bc, err := ean.Encode("0" + data)
	if err != nil {
		return EncodedSymbol{}, encodingError("upca", "encode failed", err)
	}
	sym := fromBarcode(bc)
	sym.HumanReadable = strings.TrimPrefix(bc.Content(), "0")
	return sym, nil
}

func encodeITF14(data string, cfg configuration.Resolved) (EncodedSymbol, error) {
	if !isDigits(data) || (len(data) != 13 && len(data) != 14) {
		return EncodedSymbol{}, encodingError("itf14", "expected 13 or 14 digits", ErrInvalidData)
	}
	body := data[:13]
	code := body + string(rune('0'+mod10(body)))
	if len(data) == 14 && data != code {
		return EncodedSymbol{}, encodingError("itf14", "check digit mismatch, expected "+code[13:], ErrInvalidData)
	}
	bc, err := twooffive.Encode(code, true)
	if err != nil {
		return EncodedSymbol{}, encodingError("itf14", "encode failed", err)
	}
	sym := fromBarcode(bc)
	sym.BearerBars = cfg.Bool("bearerBars")
	return sym, nil
}

func encode2of5(data string, cfg configuration.Resolved, interleaved bool) (EncodedSymbol, error) {
	family := "c25-standard"
	if interleaved {
		family = "c25-interleaved"
	}
	if !isDigits(data) {
		return EncodedSymbol{}, encodingError(family, "only digits can be encoded", ErrInvalidData)
	}
	if cfg.Bool("checkDigit") {
		data += string(rune('0' + mod10(data)))
	}
	if interleaved && len(data)%2 == 1 {
		data = "0" + data
	}
	bc, err := twooffive.Encode(data, interleaved)
	if err != nil {
		return EncodedSymbol{}, encodingError(family, "encode failed", err)
	}
	return fromBarcode(bc), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// mod10 computes the GS1 check digit: weights 3 and 1 alternating from
// the rightmost digit.
func mod10(digits string) int {
	sum := 0
	weight := 3
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		weight = 4 - weight
	}
	return (10 - sum%10) % 10
}
