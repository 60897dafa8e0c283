// Package engine wires the symbology core to the encoder: family selection
// activates a panel, every edit rebuilds the configuration and every
// generation request hands it to the encoder.
package engine

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/piwi3910/SymbolStudio/internal/configuration"
	"github.com/piwi3910/SymbolStudio/internal/encoder"
	"github.com/piwi3910/SymbolStudio/internal/model"
	"github.com/piwi3910/SymbolStudio/internal/panel"
	"github.com/piwi3910/SymbolStudio/internal/symbology"
)

// Result is the outcome of one generation attempt.
type Result struct {
	Symbol encoder.EncodedSymbol
	Config configuration.Resolved
	Err    error

	// Skipped is set when there was no data; it is not an error.
	Skipped bool
}

// OK reports whether the attempt produced a symbol.
func (r Result) OK() bool {
	return !r.Skipped && r.Err == nil && !r.Symbol.IsZero()
}

// Session is the single-threaded orchestrator behind the main window.
type Session struct {
	registry *symbology.Registry
	panel    *panel.Controller
	encoder  encoder.Encoder
	log      *slog.Logger

	common configuration.Common
	data   string
	last   Result

	onResult func(Result)
	panelSub *panel.Subscription
}

// NewSession creates a session with default common settings and no family
// selected.
func NewSession(registry *symbology.Registry, factory panel.Factory, enc encoder.Encoder, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		registry: registry,
		encoder:  enc,
		log:      logger,
		common:   configuration.DefaultCommon(),
		last:     Result{Skipped: true},
	}
	s.panel = panel.NewController(registry, factory, logger.With("component", "panel"))
	s.panelSub = s.panel.Subscribe(func(panel.Snapshot) { s.regenerate() })
	return s
}

// OnResult registers the callback receiving every generation result.
func (s *Session) OnResult(fn func(Result)) {
	s.onResult = fn
}

// Panel returns the panel controller of the session.
func (s *Session) Panel() *panel.Controller {
	return s.panel
}

// Registry returns the family catalog.
func (s *Session) Registry() *symbology.Registry {
	return s.registry
}

// SelectFamily activates the panel for familyID and regenerates.
func (s *Session) SelectFamily(familyID string) error {
	s.log.Info("family selected", "family", familyID)
	return s.panel.Activate(familyID)
}

// FamilyID returns the active family id.
func (s *Session) FamilyID() string {
	return s.panel.Family().ID
}

// SetData replaces the data to encode and regenerates.
func (s *Session) SetData(data string) {
	if data == s.data {
		return
	}
	s.data = data
	s.regenerate()
}

func (s *Session) Data() string { return s.data }

// SetCommon replaces the common settings and regenerates.
func (s *Session) SetCommon(c configuration.Common) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.common = c
	s.regenerate()
	return nil
}

func (s *Session) Common() configuration.Common { return s.common }

// Configuration builds the configuration for the current state.
func (s *Session) Configuration() (configuration.Resolved, error) {
	return configuration.Build(s.common, s.panel.Family(), s.panel.Resolved())
}

// Last returns the most recent result.
func (s *Session) Last() Result {
	return s.last
}

// Generate encodes the current data with the current configuration.
func (s *Session) Generate() Result {
	return s.generate(s.data)
}

func (s *Session) generate(data string) Result {
	if data == "" {
		return Result{Skipped: true}
	}
	cfg, err := s.Configuration()
	if err != nil {
		if errors.Is(err, configuration.ErrIncompleteConfiguration) {
			s.log.Error("configuration incomplete", "family", s.FamilyID(), "error", err)
		}
		return Result{Err: err}
	}
	sym, err := s.encoder.CreateSymbol(cfg.FamilyID(), data, cfg)
	if err != nil {
		s.log.Warn("encoding failed", "family", cfg.FamilyID(), "error", err)
		return Result{Config: cfg, Err: err}
	}
	cols, rows := sym.Size()
	s.log.Debug("symbol generated", "family", cfg.FamilyID(), "cols", cols, "rows", rows)
	return Result{Symbol: sym, Config: cfg}
}

func (s *Session) regenerate() {
	s.last = s.Generate()
	if s.onResult != nil {
		s.onResult(s.last)
	}
}

// Close releases the panel.
func (s *Session) Close() {
	s.panelSub.Unsubscribe()
	s.panel.Teardown()
}

// BatchEntry is one encoded batch row.
type BatchEntry struct {
	Item   model.BatchItem
	Result Result
}

// Batch is the outcome of encoding many rows with one configuration.
type Batch struct {
	JobID   string
	Entries []BatchEntry
	Failed  int
}

// Symbols returns the successful entries.
func (b Batch) Symbols() []BatchEntry {
	var out []BatchEntry
	for _, e := range b.Entries {
		if e.Result.OK() {
			out = append(out, e)
		}
	}
	return out
}

// GenerateBatch encodes every item with the current configuration. Items
// without data are skipped; failures are collected, not fatal.
func (s *Session) GenerateBatch(items []model.BatchItem) Batch {
	b := Batch{JobID: uuid.NewString()}
	log := s.log.With("job", b.JobID)
	for _, it := range items {
		res := s.generate(it.Data)
		if res.Err != nil {
			b.Failed++
		}
		b.Entries = append(b.Entries, BatchEntry{Item: it, Result: res})
	}
	log.Info("batch generated", "items", len(items), "failed", b.Failed)
	return b
}
