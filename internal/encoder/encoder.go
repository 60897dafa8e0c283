// Package encoder turns a resolved configuration and data string into a
// module matrix.
//
// Library is the built-in implementation. It covers QR Code through
// go-qrcode and a set of linear and 2D symbologies through the boombuler
// barcode package; every other family reports an EncodingError.
package encoder

import (
	"errors"
	"fmt"

	"github.com/piwi3910/SymbolStudio/internal/configuration"
)

var (
	ErrUnsupportedFamily = errors.New("symbol family not supported by the built-in encoder")
	ErrEmptyData         = errors.New("no data to encode")
	ErrUnsupportedOption = errors.New("option not supported by the built-in encoder")
	ErrInvalidData       = errors.New("invalid data")
)

// EncodingError reports invalid data or a parameter combination the
// encoder cannot produce.
type EncodingError struct {
	Family  string
	Message string
	Cause   error
}

func (e *EncodingError) Error() string {
	msg := e.Message
	if e.Family != "" {
		msg = e.Family + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *EncodingError) Unwrap() error { return e.Cause }

func encodingError(family, message string, cause error) *EncodingError {
	return &EncodingError{Family: family, Message: message, Cause: cause}
}

// EncodedSymbol is the output of an encoder: a matrix of dark and light
// modules plus what the renderer needs to draw it.
type EncodedSymbol struct {
	FamilyID string
	Data     string

	// Modules is indexed [row][column]; true is a dark module. Linear
	// symbols have a single row stretched to the bar height when drawn.
	Modules [][]bool
	Linear  bool

	HumanReadable string
	BearerBars    bool

	Config configuration.Resolved
}

// Size returns the symbol dimensions in modules.
func (s EncodedSymbol) Size() (cols, rows int) {
	if len(s.Modules) == 0 {
		return 0, 0
	}
	return len(s.Modules[0]), len(s.Modules)
}

// IsZero reports whether the symbol holds no modules.
func (s EncodedSymbol) IsZero() bool {
	return len(s.Modules) == 0
}

// Encoder produces symbols.
type Encoder interface {
	CreateSymbol(familyID, data string, cfg configuration.Resolved) (EncodedSymbol, error)
}
