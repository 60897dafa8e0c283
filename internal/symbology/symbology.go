// Package symbology holds the static catalog of barcode symbol families.
//
// Each family is a declarative descriptor: a set of capability flags and an
// ordered schema of configurable parameters. The catalog is loaded once at
// startup from YAML and is read-only afterwards; lookups hand out deep copies
// so no caller can mutate a published family.
package symbology

import (
	"fmt"
	"strconv"
)

// Unset is the sentinel raw index of a field that holds no selection.
// It means "let the encoder choose automatically".
const Unset = -1

// Kind is the input kind of a parameter.
type Kind int

const (
	KindEnumeration  Kind = iota // Ordered labelled options, value = index
	KindIntegerRange             // Bounded integer with a step
	KindBoolean
	KindFreeText
)

func (k Kind) String() string {
	switch k {
	case KindEnumeration:
		return "enumeration"
	case KindIntegerRange:
		return "integer-range"
	case KindBoolean:
		return "boolean"
	case KindFreeText:
		return "free-text"
	default:
		return "unknown"
	}
}

// ParseKind converts a catalog kind name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "enumeration":
		return KindEnumeration, nil
	case "integer-range":
		return KindIntegerRange, nil
	case "boolean":
		return KindBoolean, nil
	case "free-text":
		return KindFreeText, nil
	default:
		return 0, fmt.Errorf("unknown parameter kind %q", s)
	}
}

// Value is a raw or resolved parameter value. Only the field matching Kind
// is meaningful: Int for enumerations and integer ranges, Bool for booleans,
// Text for free text. Values are comparable with ==.
type Value struct {
	Kind Kind
	Int  int
	Bool bool
	Text string
}

// EnumValue returns an enumeration value holding an option index.
func EnumValue(index int) Value { return Value{Kind: KindEnumeration, Int: index} }

// IntValue returns an integer-range value.
func IntValue(v int) Value { return Value{Kind: KindIntegerRange, Int: v} }

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

// TextValue returns a free-text value.
func TextValue(s string) Value { return Value{Kind: KindFreeText, Text: s} }

// IsUnset reports whether an index-carrying value holds the Unset sentinel.
func (v Value) IsUnset() bool {
	return (v.Kind == KindEnumeration || v.Kind == KindIntegerRange) && v.Int == Unset
}

func (v Value) String() string {
	switch v.Kind {
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	case KindFreeText:
		return v.Text
	default:
		return strconv.Itoa(v.Int)
	}
}

// Role marks the parameters driven by the sizing mode of a 2D family.
type Role int

const (
	RoleNone Role = iota
	RoleSize
	RoleErrorLevel
)

func (r Role) String() string {
	switch r {
	case RoleSize:
		return "size"
	case RoleErrorLevel:
		return "error-level"
	default:
		return "none"
	}
}

// IntRange is the domain of an integer-range parameter.
type IntRange struct {
	Min  int
	Max  int
	Step int
}

// Clamp bounds v to [Min, Max] and snaps it down onto the Step grid
// anchored at Min.
func (r IntRange) Clamp(v int) int {
	if v < r.Min {
		v = r.Min
	}
	if v > r.Max {
		v = r.Max
	}
	if r.Step > 1 {
		v = r.Min + ((v-r.Min)/r.Step)*r.Step
	}
	return v
}

// Contains reports whether v lies on the range grid.
func (r IntRange) Contains(v int) bool {
	return r.Clamp(v) == v
}

// ParameterSpec describes one configurable parameter of a family.
type ParameterSpec struct {
	Name        string
	Label       string
	Description string
	Kind        Kind
	Options     []string // Enumeration domain, index = position
	Range       IntRange // IntegerRange domain
	Default     Value
	Derivation  Derivation
	Role        Role

	// UnsetValue is the derived value reported while the field holds Unset.
	UnsetValue int
}

// InDomain reports whether v is an acceptable raw value for the parameter.
// Unset is accepted for sizing-role parameters only.
func (p ParameterSpec) InDomain(v Value) bool {
	if v.Kind != p.Kind {
		return false
	}
	switch p.Kind {
	case KindEnumeration:
		if v.Int == Unset {
			return p.Role != RoleNone
		}
		return v.Int >= 0 && v.Int < len(p.Options)
	case KindIntegerRange:
		return p.Range.Contains(v.Int)
	default:
		return true
	}
}

// Derive converts a raw UI value into the value the encoder consumes.
func (p ParameterSpec) Derive(raw Value) Value {
	switch raw.Kind {
	case KindEnumeration, KindIntegerRange:
		if raw.Int == Unset {
			return Value{Kind: raw.Kind, Int: p.UnsetValue}
		}
		return Value{Kind: raw.Kind, Int: p.Derivation.Apply(raw.Int)}
	default:
		return raw
	}
}

func (p ParameterSpec) clone() ParameterSpec {
	if p.Options != nil {
		opts := make([]string, len(p.Options))
		copy(opts, p.Options)
		p.Options = opts
	}
	return p
}

// Capabilities are the feature flags of a symbol family.
type Capabilities struct {
	SupportsHeight     bool
	SupportsTextMargin bool
	SupportsGS1Mode    bool
	SupportsComposite  bool
	SupportsSupplement bool
	Has2DSizing        bool
	Linear             bool
}

// SymbolFamily is a barcode symbology with its parameter schema.
type SymbolFamily struct {
	ID   string
	Name string
	Capabilities
	Schema []ParameterSpec
}

// Parameter returns the schema entry with the given name.
func (f SymbolFamily) Parameter(name string) (ParameterSpec, bool) {
	for _, p := range f.Schema {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterSpec{}, false
}

// SizingParameters returns the size and error-level parameters of a
// 2D-sizing family.
func (f SymbolFamily) SizingParameters() (size, errorLevel ParameterSpec, ok bool) {
	if !f.Has2DSizing {
		return ParameterSpec{}, ParameterSpec{}, false
	}
	var foundSize, foundErr bool
	for _, p := range f.Schema {
		switch p.Role {
		case RoleSize:
			size, foundSize = p, true
		case RoleErrorLevel:
			errorLevel, foundErr = p, true
		}
	}
	return size, errorLevel, foundSize && foundErr
}

// IsEmpty reports whether the family is the empty fallback descriptor.
func (f SymbolFamily) IsEmpty() bool {
	return f.Name == "" && len(f.Schema) == 0
}

func (f SymbolFamily) clone() SymbolFamily {
	if f.Schema != nil {
		schema := make([]ParameterSpec, len(f.Schema))
		for i, p := range f.Schema {
			schema[i] = p.clone()
		}
		f.Schema = schema
	}
	return f
}
