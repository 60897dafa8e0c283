package symbology

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Errors returned by the registry.
var (
	// ErrUnknownFamily indicates a lookup for an id that is not registered.
	ErrUnknownFamily = errors.New("unknown symbol family")

	// ErrDuplicateFamily indicates two families share an id or display name.
	ErrDuplicateFamily = errors.New("duplicate symbol family")

	// ErrInvalidSchema indicates a family declares an unusable parameter schema.
	ErrInvalidSchema = errors.New("invalid parameter schema")
)

// FamilyRef is the (id, display name) pair exposed by the catalog source.
type FamilyRef struct {
	ID   string
	Name string
}

// Registry is the read-only catalog of symbol families.
type Registry struct {
	byID   map[string]SymbolFamily
	byName map[string]string
	refs   []FamilyRef // sorted by name
}

// NewRegistry validates and publishes the given families.
func NewRegistry(families []SymbolFamily) (*Registry, error) {
	r := &Registry{
		byID:   make(map[string]SymbolFamily, len(families)),
		byName: make(map[string]string, len(families)),
	}
	for _, f := range families {
		if f.ID == "" || f.Name == "" {
			return nil, fmt.Errorf("%w: family needs an id and a name (id=%q name=%q)", ErrInvalidSchema, f.ID, f.Name)
		}
		if _, dup := r.byID[f.ID]; dup {
			return nil, fmt.Errorf("%w: id %q", ErrDuplicateFamily, f.ID)
		}
		if _, dup := r.byName[f.Name]; dup {
			return nil, fmt.Errorf("%w: name %q", ErrDuplicateFamily, f.Name)
		}
		if err := validateFamily(f); err != nil {
			return nil, err
		}
		r.byID[f.ID] = f.clone()
		r.byName[f.Name] = f.ID
		r.refs = append(r.refs, FamilyRef{ID: f.ID, Name: f.Name})
	}
	sort.SliceStable(r.refs, func(i, j int) bool { return r.refs[i].Name < r.refs[j].Name })
	return r, nil
}

// Lookup returns a copy of the family registered under id.
func (r *Registry) Lookup(id string) (SymbolFamily, error) {
	f, ok := r.byID[id]
	if !ok {
		return SymbolFamily{}, fmt.Errorf("%w: %q", ErrUnknownFamily, id)
	}
	return f.clone(), nil
}

// LookupOrEmpty returns the registered family, or an empty-schema family
// carrying the requested id when the registry and the caller fell out of
// sync.
func (r *Registry) LookupOrEmpty(id string) SymbolFamily {
	f, err := r.Lookup(id)
	if err != nil {
		return SymbolFamily{ID: id}
	}
	return f
}

// ByName returns the family with the given display name.
func (r *Registry) ByName(name string) (SymbolFamily, error) {
	id, ok := r.byName[name]
	if !ok {
		return SymbolFamily{}, fmt.Errorf("%w: name %q", ErrUnknownFamily, name)
	}
	return r.Lookup(id)
}

// AllFamilyNames returns the display names in lexical order.
func (r *Registry) AllFamilyNames() []string {
	names := make([]string, len(r.refs))
	for i, ref := range r.refs {
		names[i] = ref.Name
	}
	return names
}

// ListSupportedFamilies returns every (id, name) pair sorted by name.
func (r *Registry) ListSupportedFamilies() []FamilyRef {
	refs := make([]FamilyRef, len(r.refs))
	copy(refs, r.refs)
	return refs
}

// Len returns the number of registered families.
func (r *Registry) Len() int {
	return len(r.byID)
}

func validateFamily(f SymbolFamily) error {
	seen := make(map[string]bool, len(f.Schema))
	var sizeCount, errCount int
	for _, p := range f.Schema {
		if p.Name == "" {
			return fmt.Errorf("%w: %s has a parameter without a name", ErrInvalidSchema, f.ID)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: %s declares %q twice", ErrInvalidSchema, f.ID, p.Name)
		}
		seen[p.Name] = true

		switch p.Kind {
		case KindEnumeration:
			if len(p.Options) == 0 {
				return fmt.Errorf("%w: %s.%s has no options", ErrInvalidSchema, f.ID, p.Name)
			}
		case KindIntegerRange:
			if p.Range.Min > p.Range.Max || p.Range.Step < 1 {
				return fmt.Errorf("%w: %s.%s has range %+v", ErrInvalidSchema, f.ID, p.Name, p.Range)
			}
		}
		if p.Default.Kind != p.Kind || p.Default.IsUnset() || !p.InDomain(p.Default) {
			return fmt.Errorf("%w: %s.%s default %v outside domain", ErrInvalidSchema, f.ID, p.Name, p.Default)
		}

		if p.Role != RoleNone {
			if !f.Has2DSizing {
				return fmt.Errorf("%w: %s.%s has role %s without 2D sizing", ErrInvalidSchema, f.ID, p.Name, p.Role)
			}
			if p.Kind != KindEnumeration {
				return fmt.Errorf("%w: %s.%s sizing parameter must be an enumeration", ErrInvalidSchema, f.ID, p.Name)
			}
		}
		switch p.Role {
		case RoleSize:
			sizeCount++
		case RoleErrorLevel:
			errCount++
		}
	}
	if f.Has2DSizing && (sizeCount != 1 || errCount != 1) {
		return fmt.Errorf("%w: %s needs exactly one size and one error-level parameter", ErrInvalidSchema, f.ID)
	}
	return nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry built from the embedded catalog.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := LoadBytes(catalogYAML)
		if err != nil {
			panic(fmt.Sprintf("symbology: embedded catalog is invalid: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}
