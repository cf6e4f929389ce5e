// Package knobs provides the bounded tunable parameters that shape event
// scheduling, activity emission, and electoral dynamics. Every knob has
// declared bounds; writes are clamped, never stored raw.
package knobs

import (
	"log/slog"
	"math"
	"sync"
)

// Def declares a knob: its name, bounds, and starting value.
type Def struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
}

// Store holds current knob values. A store is owned by one engine; the mutex
// covers concurrent reads from the observation API while a tick is writing.
type Store struct {
	mu   sync.Mutex
	defs map[string]Def
	vals map[string]float64
}

// MergeReport records the per-key result of a batch merge.
type MergeReport struct {
	Source   string             `json:"source"`
	Applied  map[string]float64 `json:"applied"`  // key → stored (post-clamp) value
	Rejected map[string]string  `json:"rejected"` // key → reason
}

// NewStore creates a store from knob definitions. Definitions with inverted
// bounds are repaired (max raised to min) rather than dropped.
func NewStore(defs []Def) *Store {
	s := &Store{
		defs: make(map[string]Def, len(defs)),
		vals: make(map[string]float64, len(defs)),
	}
	for _, d := range defs {
		if d.Max < d.Min {
			slog.Warn("knob definition has inverted bounds", "knob", d.Name, "min", d.Min, "max", d.Max)
			d.Max = d.Min
		}
		s.defs[d.Name] = d
		s.vals[d.Name] = clamp(d.Default, d.Min, d.Max)
	}
	return s
}

// Get returns the current value of a knob and whether it exists.
func (s *Store) Get(name string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vals[name]
	return v, ok
}

// Value returns the current value of a knob, or 0.5 for an unknown name.
// The midpoint fallback keeps probability math sane if a caller asks for a
// knob that was never registered.
func (s *Store) Value(name string) float64 {
	v, ok := s.Get(name)
	if !ok {
		return 0.5
	}
	return v
}

// Set stores a value for a known knob, clamped to its declared bounds.
func (s *Store) Set(name string, raw float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.defs[name]
	if !ok {
		return ErrUnknownKnob
	}
	if math.IsNaN(raw) {
		return ErrNaNValue
	}
	s.vals[name] = clamp(raw, d.Min, d.Max)
	return nil
}

// Merge applies a batch of external overrides and reports per-key results.
// Unknown keys and NaN values are rejected; everything else is clamped and
// stored. The source tag identifies where the overrides came from.
func (s *Store) Merge(partial map[string]float64, source string) MergeReport {
	rep := MergeReport{
		Source:   source,
		Applied:  make(map[string]float64),
		Rejected: make(map[string]string),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for name, raw := range partial {
		d, ok := s.defs[name]
		if !ok {
			rep.Rejected[name] = "unknown knob"
			continue
		}
		if math.IsNaN(raw) {
			rep.Rejected[name] = "value is NaN"
			continue
		}
		v := clamp(raw, d.Min, d.Max)
		s.vals[name] = v
		rep.Applied[name] = v
	}

	if len(rep.Rejected) > 0 {
		slog.Warn("knob merge rejected keys", "source", source, "rejected", len(rep.Rejected))
	}
	return rep
}

// Snapshot returns a copy of all current knob values.
func (s *Store) Snapshot() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]float64, len(s.vals))
	for k, v := range s.vals {
		out[k] = v
	}
	return out
}

// Defs returns the knob definitions in no particular order.
func (s *Store) Defs() []Def {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Def, 0, len(s.defs))
	for _, d := range s.defs {
		out = append(out, d)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
