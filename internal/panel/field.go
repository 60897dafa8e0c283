// Package panel owns the live field set of the active symbol family.
//
// The Controller is the only component that creates or destroys fields.
// Switching family tears the previous set down completely, releasing every
// change subscription, before the first field of the new set is built.
package panel

import (
	"github.com/google/uuid"

	"github.com/piwi3910/SymbolStudio/internal/symbology"
)

// ModeFieldName is the name of the synthetic sizing-mode selector.
const ModeFieldName = "sizingMode"

// Field is one live editor for a parameter. Implementations must accept
// programmatic updates while their change callback is attached; the
// controller filters the resulting echoes.
type Field interface {
	Name() string
	SetValue(v symbology.Value)
	Value() symbology.Value
	SetEnabled(enabled bool)
	// Clear shows the field without a selection.
	Clear()
}

// ChangeFunc receives user edits of a field.
type ChangeFunc func(v symbology.Value)

// Disposer detaches a field's change callback and releases the field.
type Disposer func()

// Factory creates fields. A toolkit-backed factory lives in the UI layer.
type Factory interface {
	Create(spec symbology.ParameterSpec, onChange ChangeFunc) (Field, Disposer, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(spec symbology.ParameterSpec, onChange ChangeFunc) (Field, Disposer, error)

func (f FactoryFunc) Create(spec symbology.ParameterSpec, onChange ChangeFunc) (Field, Disposer, error) {
	return f(spec, onChange)
}

// Binding pairs a live field with the disposer that releases it.
type Binding struct {
	ID        string
	FieldName string
	release   Disposer
}

func newBinding(name string, release Disposer) Binding {
	return Binding{
		ID:        uuid.New().String()[:8],
		FieldName: name,
		release:   release,
	}
}

// modeSpec describes the sizing-mode selector as an ordinary enumeration.
func modeSpec(labels []string) symbology.ParameterSpec {
	return symbology.ParameterSpec{
		Name:        ModeFieldName,
		Label:       "Sizing",
		Description: "Choose the symbol size or the error correction level, or let the encoder decide",
		Kind:        symbology.KindEnumeration,
		Options:     labels,
		Default:     symbology.EnumValue(0),
		Derivation:  symbology.DeriveIdentity,
		UnsetValue:  symbology.Unset,
	}
}
