package panel

import (
	"fmt"
	"log/slog"

	"github.com/piwi3910/SymbolStudio/internal/resolver"
	"github.com/piwi3910/SymbolStudio/internal/symbology"
)

// Controller builds, syncs and tears down the field set of the active
// family. It runs on the UI goroutine and takes no locks.
type Controller struct {
	registry *symbology.Registry
	factory  Factory
	log      *slog.Logger

	family   symbology.SymbolFamily
	resolver *resolver.Resolver

	// generation increases on every teardown; callbacks remember the
	// generation they were created in and go quiet once it moves on.
	generation uint64
	bindings   []Binding
	fields     []Field
	modeField  Field

	// syncing is set while the controller pushes values into fields.
	syncing bool

	observers    map[uint64]Observer
	nextObserver uint64
}

// NewController returns a controller with an empty panel.
func NewController(registry *symbology.Registry, factory Factory, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	empty := symbology.SymbolFamily{}
	return &Controller{
		registry:  registry,
		factory:   factory,
		log:       logger,
		family:    empty,
		resolver:  resolver.New(empty),
		observers: make(map[uint64]Observer),
	}
}

// Activate replaces the panel with the fields of familyID. An id unknown to
// the registry yields an empty panel and no error. If the factory fails,
// every field created so far is released, the panel is left empty and the
// error is returned.
func (c *Controller) Activate(familyID string) error {
	c.Teardown()
	c.generation++

	family, err := c.registry.Lookup(familyID)
	if err != nil {
		c.log.Warn("building empty panel", "family", familyID, "error", err)
		family = c.registry.LookupOrEmpty(familyID)
	}
	c.family = family
	c.resolver = resolver.New(family)

	if err := c.build(family); err != nil {
		c.Teardown()
		c.family = symbology.SymbolFamily{ID: familyID}
		c.resolver = resolver.New(c.family)
		c.log.Error("panel build failed", "family", familyID, "error", err)
		c.notify()
		return err
	}

	c.sync()
	c.log.Debug("panel activated", "family", family.ID, "fields", len(c.bindings), "generation", c.generation)
	c.notify()
	return nil
}

// Teardown releases every binding in reverse creation order and empties
// the panel. It is idempotent.
func (c *Controller) Teardown() {
	if len(c.bindings) == 0 {
		return
	}
	c.generation++
	for i := len(c.bindings) - 1; i >= 0; i-- {
		if release := c.bindings[i].release; release != nil {
			release()
		}
	}
	c.log.Debug("panel torn down", "family", c.family.ID, "released", len(c.bindings))
	c.bindings = nil
	c.fields = nil
	c.modeField = nil
}

func (c *Controller) build(family symbology.SymbolFamily) error {
	if c.resolver.HasSizing() {
		labels := make([]string, 0, 3)
		for _, m := range resolver.Modes() {
			labels = append(labels, m.String())
		}
		f, err := c.create(modeSpec(labels), func(v symbology.Value) {
			if err := c.SelectMode(resolver.SizingMode(v.Int)); err != nil {
				c.log.Warn("mode change rejected", "family", c.family.ID, "error", err)
				c.sync()
			}
		})
		if err != nil {
			return err
		}
		c.modeField = f
	}

	for _, spec := range family.Schema {
		name := spec.Name
		f, err := c.create(spec, func(v symbology.Value) {
			if err := c.SetValue(name, v); err != nil {
				c.log.Warn("field change rejected", "family", c.family.ID, "field", name, "error", err)
				c.sync()
			}
		})
		if err != nil {
			return err
		}
		c.fields = append(c.fields, f)
	}
	return nil
}

// create asks the factory for a field and records its binding. The change
// callback only reaches handle while the current generation is live and
// the controller is not syncing.
func (c *Controller) create(spec symbology.ParameterSpec, handle ChangeFunc) (Field, error) {
	gen := c.generation
	onChange := func(v symbology.Value) {
		if gen != c.generation || c.syncing {
			return
		}
		handle(v)
	}
	f, dispose, err := c.factory.Create(spec, onChange)
	if err != nil {
		return nil, fmt.Errorf("create field %s: %w", spec.Name, err)
	}
	c.bindings = append(c.bindings, newBinding(spec.Name, dispose))
	return f, nil
}

// SelectMode changes the sizing mode and refreshes the fields.
func (c *Controller) SelectMode(m resolver.SizingMode) error {
	if err := c.resolver.SelectMode(m); err != nil {
		return err
	}
	c.log.Debug("sizing mode changed", "family", c.family.ID, "mode", m.String())
	c.sync()
	c.notify()
	return nil
}

// ChangeIndex sets the raw index of an enumeration or range field.
func (c *Controller) ChangeIndex(name string, raw int) error {
	if err := c.resolver.ChangeIndex(name, raw); err != nil {
		return err
	}
	c.sync()
	c.notify()
	return nil
}

// SetValue sets a field from a tagged value.
func (c *Controller) SetValue(name string, v symbology.Value) error {
	if err := c.resolver.SetValue(name, v); err != nil {
		return err
	}
	c.sync()
	c.notify()
	return nil
}

// sync pushes the resolver state into the fields without feeding the
// resulting change callbacks back.
func (c *Controller) sync() {
	c.syncing = true
	defer func() { c.syncing = false }()

	if c.modeField != nil {
		c.modeField.SetValue(symbology.EnumValue(int(c.resolver.Mode())))
	}
	for _, f := range c.fields {
		name := f.Name()
		f.SetEnabled(c.resolver.Enabled(name))
		raw, ok := c.resolver.Raw(name)
		if !ok {
			continue
		}
		if raw.IsUnset() {
			f.Clear()
		} else {
			f.SetValue(raw)
		}
	}
}

// Family returns the active family.
func (c *Controller) Family() symbology.SymbolFamily {
	return c.family
}

// Mode returns the active sizing mode.
func (c *Controller) Mode() resolver.SizingMode {
	return c.resolver.Mode()
}

// Resolved returns the derived values of the active family.
func (c *Controller) Resolved() map[string]symbology.Value {
	return c.resolver.Resolved()
}

// Snapshot returns the current panel state.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Family:    c.family,
		Mode:      c.resolver.Mode(),
		HasSizing: c.resolver.HasSizing(),
		Values:    c.resolver.Resolved(),
	}
}

// Bindings returns a copy of the live bindings in creation order.
func (c *Controller) Bindings() []Binding {
	out := make([]Binding, len(c.bindings))
	copy(out, c.bindings)
	return out
}

// Generation identifies the current field set.
func (c *Controller) Generation() uint64 {
	return c.generation
}
