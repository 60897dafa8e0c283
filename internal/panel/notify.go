package panel

import (
	"maps"
	"slices"

	"github.com/piwi3910/SymbolStudio/internal/resolver"
	"github.com/piwi3910/SymbolStudio/internal/symbology"
)

// Snapshot is the panel state pushed to subscribers after every change.
type Snapshot struct {
	Family    symbology.SymbolFamily
	Mode      resolver.SizingMode
	HasSizing bool
	// Values holds the derived value of every schema parameter.
	Values map[string]symbology.Value
}

// Observer is called with each new snapshot.
type Observer func(Snapshot)

// Subscription is an active observer registration.
type Subscription struct {
	id         uint64
	controller *Controller
}

// Unsubscribe removes the observer. Calling it more than once is harmless.
func (s *Subscription) Unsubscribe() {
	if s.controller != nil {
		delete(s.controller.observers, s.id)
		s.controller = nil
	}
}

// Subscribe registers an observer for panel changes.
func (c *Controller) Subscribe(o Observer) *Subscription {
	id := c.nextObserver
	c.nextObserver++
	c.observers[id] = o
	return &Subscription{id: id, controller: c}
}

func (c *Controller) notify() {
	snap := c.Snapshot()
	// observers may unsubscribe while being called
	for _, id := range slices.Sorted(maps.Keys(c.observers)) {
		if o, ok := c.observers[id]; ok {
			o(Snapshot{
				Family:    snap.Family,
				Mode:      snap.Mode,
				HasSizing: snap.HasSizing,
				Values:    maps.Clone(snap.Values),
			})
		}
	}
}
