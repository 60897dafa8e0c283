package encoder

import (
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/SymbolStudio/internal/configuration"
	"github.com/piwi3910/SymbolStudio/internal/symbology"
)

// qrRecovery maps the QR level enum (L, M, Q, H) onto go-qrcode levels.
var qrRecovery = map[int]qrcode.RecoveryLevel{
	symbology.QRLevelL: qrcode.Low,
	symbology.QRLevelM: qrcode.Medium,
	symbology.QRLevelQ: qrcode.High,
	symbology.QRLevelH: qrcode.Highest,
}

func encodeQR(data string, cfg configuration.Resolved) (EncodedSymbol, error) {
	if cfg.Bool(symbology.ParamGS1Mode) {
		return EncodedSymbol{}, encodingError("qrcode", "GS1 mode", ErrUnsupportedOption)
	}
	level, ok := qrRecovery[cfg.Int("errorLevel")]
	if !ok {
		level = qrcode.Medium
	}

	var (
		q   *qrcode.QRCode
		err error
	)
	if version := cfg.Int("size"); version > 0 {
		q, err = qrcode.NewWithForcedVersion(data, version, level)
	} else {
		q, err = qrcode.New(data, level)
	}
	if err != nil {
		return EncodedSymbol{}, encodingError("qrcode", "encode failed", err)
	}
	q.DisableBorder = true
	return EncodedSymbol{Modules: q.Bitmap()}, nil
}
