// Package resolver tracks the raw field values of the active symbol family
// and derives the values the encoder consumes.
//
// Families with 2D sizing carry a three-way SizingMode. Exactly one mode is
// active; entering a mode clears the sibling sizing field to the Unset
// sentinel so a stale selection can never reach the encoder.
package resolver

import (
	"errors"
	"fmt"

	"github.com/piwi3910/SymbolStudio/internal/symbology"
)

var (
	ErrNoSizing         = errors.New("family has no 2D sizing")
	ErrUnknownMode      = errors.New("unknown sizing mode")
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrFieldDisabled    = errors.New("field is disabled")
	ErrOutOfDomain      = errors.New("value outside parameter domain")
	ErrKindMismatch     = errors.New("value kind does not match parameter")
)

// SizingMode selects which of the size and error-level fields drives a 2D
// symbol.
type SizingMode int

const (
	ModeAutomatic SizingMode = iota
	ModeExplicitSize
	ModeExplicitErrorLevel
)

// Modes lists the sizing modes in selector order.
func Modes() []SizingMode {
	return []SizingMode{ModeAutomatic, ModeExplicitSize, ModeExplicitErrorLevel}
}

func (m SizingMode) String() string {
	switch m {
	case ModeAutomatic:
		return "Automatic"
	case ModeExplicitSize:
		return "Explicit Size"
	case ModeExplicitErrorLevel:
		return "Explicit Error Level"
	default:
		return fmt.Sprintf("SizingMode(%d)", int(m))
	}
}

// Resolver holds the raw values of one family. It is not safe for
// concurrent use; the UI goroutine owns it.
type Resolver struct {
	family symbology.SymbolFamily
	raw    map[string]symbology.Value

	// Sizing state, only meaningful when hasSizing is set.
	hasSizing bool
	mode      SizingMode
	sizeName  string
	errName   string
	lastKnown map[string]int
}

// New returns a resolver for family, reset to its defaults.
func New(family symbology.SymbolFamily) *Resolver {
	r := &Resolver{}
	r.Reset(family)
	return r
}

// Reset discards all state and starts over with family: Automatic mode,
// every field at its default and both sizing fields cleared.
func (r *Resolver) Reset(family symbology.SymbolFamily) {
	r.family = family
	r.raw = make(map[string]symbology.Value, len(family.Schema))
	r.lastKnown = make(map[string]int, 2)
	r.mode = ModeAutomatic
	r.sizeName, r.errName = "", ""

	for _, p := range family.Schema {
		r.raw[p.Name] = p.Default
	}

	size, errLevel, ok := family.SizingParameters()
	r.hasSizing = ok
	if ok {
		r.sizeName, r.errName = size.Name, errLevel.Name
		r.raw[r.sizeName] = symbology.EnumValue(symbology.Unset)
		r.raw[r.errName] = symbology.EnumValue(symbology.Unset)
	}
}

// Family returns the family the resolver was reset to.
func (r *Resolver) Family() symbology.SymbolFamily {
	return r.family
}

// HasSizing reports whether the family carries a sizing mode.
func (r *Resolver) HasSizing() bool {
	return r.hasSizing
}

// SizingFields returns the names of the size and error-level parameters.
func (r *Resolver) SizingFields() (size, errorLevel string, ok bool) {
	return r.sizeName, r.errName, r.hasSizing
}

// Mode returns the active sizing mode. Families without 2D sizing always
// report ModeAutomatic.
func (r *Resolver) Mode() SizingMode {
	return r.mode
}

// SelectMode activates m. Automatic clears both sizing fields; an explicit
// mode restores its field to the last index chosen for it (0 if none) and
// clears the sibling.
func (r *Resolver) SelectMode(m SizingMode) error {
	if !r.hasSizing {
		return fmt.Errorf("%w: %s", ErrNoSizing, r.family.ID)
	}
	unset := symbology.EnumValue(symbology.Unset)
	switch m {
	case ModeAutomatic:
		r.raw[r.sizeName] = unset
		r.raw[r.errName] = unset
	case ModeExplicitSize:
		r.raw[r.sizeName] = symbology.EnumValue(r.lastIndex(r.sizeName))
		r.raw[r.errName] = unset
	case ModeExplicitErrorLevel:
		r.raw[r.errName] = symbology.EnumValue(r.lastIndex(r.errName))
		r.raw[r.sizeName] = unset
	default:
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	r.mode = m
	return nil
}

func (r *Resolver) lastIndex(name string) int {
	if i, ok := r.lastKnown[name]; ok {
		return i
	}
	p, _ := r.family.Parameter(name)
	return p.Default.Int
}

// Enabled reports whether the named field currently accepts edits.
func (r *Resolver) Enabled(name string) bool {
	if _, ok := r.family.Parameter(name); !ok {
		return false
	}
	if !r.hasSizing {
		return true
	}
	switch name {
	case r.sizeName:
		return r.mode == ModeExplicitSize
	case r.errName:
		return r.mode == ModeExplicitErrorLevel
	default:
		return true
	}
}

// ChangeIndex sets the raw index of an enumeration or integer-range field.
// It never changes the sizing mode.
func (r *Resolver) ChangeIndex(name string, raw int) error {
	p, ok := r.family.Parameter(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	if p.Kind != symbology.KindEnumeration && p.Kind != symbology.KindIntegerRange {
		return fmt.Errorf("%w: %s is %s", ErrKindMismatch, name, p.Kind)
	}
	if !r.Enabled(name) {
		return fmt.Errorf("%w: %s in mode %s", ErrFieldDisabled, name, r.mode)
	}
	v := symbology.Value{Kind: p.Kind, Int: raw}
	if raw == symbology.Unset || !p.InDomain(v) {
		return fmt.Errorf("%w: %s=%d", ErrOutOfDomain, name, raw)
	}
	r.raw[name] = v
	if p.Role != symbology.RoleNone {
		r.lastKnown[name] = raw
	}
	return nil
}

// SetValue sets any field from a tagged value. Index-carrying kinds go
// through ChangeIndex.
func (r *Resolver) SetValue(name string, v symbology.Value) error {
	p, ok := r.family.Parameter(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	if v.Kind != p.Kind {
		return fmt.Errorf("%w: %s wants %s, got %s", ErrKindMismatch, name, p.Kind, v.Kind)
	}
	switch v.Kind {
	case symbology.KindEnumeration, symbology.KindIntegerRange:
		return r.ChangeIndex(name, v.Int)
	}
	if !r.Enabled(name) {
		return fmt.Errorf("%w: %s", ErrFieldDisabled, name)
	}
	r.raw[name] = v
	return nil
}

// Raw returns the raw value of a field.
func (r *Resolver) Raw(name string) (symbology.Value, bool) {
	v, ok := r.raw[name]
	return v, ok
}

// Resolved derives every field of the family into a fresh map.
func (r *Resolver) Resolved() map[string]symbology.Value {
	out := make(map[string]symbology.Value, len(r.family.Schema))
	for _, p := range r.family.Schema {
		out[p.Name] = p.Derive(r.raw[p.Name])
	}
	return out
}
