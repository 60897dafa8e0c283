package symbology

import "fmt"

// QR error correction levels as the encoder enumerates them.
const (
	QRLevelL = iota
	QRLevelM
	QRLevelQ
	QRLevelH
)

// Derivation names the fixed rule turning a raw UI index into the value
// the encoder consumes. Rules are pure.
type Derivation string

const (
	DeriveIdentity Derivation = "identity"
	DerivePlusOne  Derivation = "plus-one"
	DerivePlusTwo  Derivation = "plus-two"
	DeriveMinusOne Derivation = "minus-one"
	DeriveTimesTwo Derivation = "times-two"

	// DeriveQRLevel casts the index onto the QR level enum (L, M, Q, H).
	DeriveQRLevel Derivation = "qr-level"

	// DeriveRMQRLevel maps index 0 to Medium and every other index to High.
	DeriveRMQRLevel Derivation = "rmqr-level"
)

var derivations = map[Derivation]func(int) int{
	DeriveIdentity:  func(raw int) int { return raw },
	DerivePlusOne:   func(raw int) int { return raw + 1 },
	DerivePlusTwo:   func(raw int) int { return raw + 2 },
	DeriveMinusOne:  func(raw int) int { return raw - 1 },
	DeriveTimesTwo:  func(raw int) int { return raw * 2 },
	DeriveQRLevel:   func(raw int) int { return QRLevelL + raw },
	DeriveRMQRLevel: rmqrLevel,
}

func rmqrLevel(raw int) int {
	if raw == 0 {
		return QRLevelM
	}
	return QRLevelH
}

// ParseDerivation validates a catalog derivation name. An empty name is
// the identity rule.
func ParseDerivation(s string) (Derivation, error) {
	if s == "" {
		return DeriveIdentity, nil
	}
	d := Derivation(s)
	if _, ok := derivations[d]; !ok {
		return "", fmt.Errorf("unknown derivation %q", s)
	}
	return d, nil
}

// Apply runs the rule. Unknown rules behave as identity.
func (d Derivation) Apply(raw int) int {
	if fn, ok := derivations[d]; ok {
		return fn(raw)
	}
	return raw
}
