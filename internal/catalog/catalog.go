// Package catalog holds the static registry of galactic event templates.
// Templates are immutable after construction; the engine only reads them.
package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Day and Year are the time units templates are written in. One sim-year is a
// flat 365 days; leap handling buys nothing at galactic scale.
const (
	Day  = 24 * time.Hour
	Year = 365 * Day
)

// ErrNotFound is returned when a template type is not in the catalog.
var ErrNotFound = errors.New("template not found")

// ActivitySpec describes one kind of activity an active event can emit: its
// per-tick base emission chance, how many of the event's participants take
// part (0 = all), and the impact deltas it carries.
type ActivitySpec struct {
	Type         string
	Category     string
	Outcome      string
	Chance       float64 // base per-tick Bernoulli probability, knob-scaled by the engine
	Participants int     // random subset size; 0 means every participant
	Impact       map[string]float64
}

// Template is the static definition of a recurring or ad-hoc event type.
type Template struct {
	Type            string
	Name            string
	Recurrence      time.Duration // 0 = ad hoc only, never auto-scheduled
	Duration        time.Duration
	MinParticipants int
	MaxParticipants int
	Categories      []string
	Impacts         map[string]float64 // system name → impact weight
	Requirements    map[string]float64 // snapshot score name → minimum threshold
	Activities      []ActivitySpec
}

// Catalog is an immutable set of templates keyed by type.
type Catalog struct {
	templates map[string]Template
	order     []string
}

// New builds a catalog, repairing templates with inverted participant bounds
// (max is raised to min) so a bad configuration degrades instead of crashing.
func New(templates ...Template) *Catalog {
	c := &Catalog{templates: make(map[string]Template, len(templates))}
	for _, t := range templates {
		if t.MaxParticipants < t.MinParticipants {
			slog.Warn("template has inverted participant bounds",
				"type", t.Type, "min", t.MinParticipants, "max", t.MaxParticipants)
			t.MaxParticipants = t.MinParticipants
		}
		if _, dup := c.templates[t.Type]; dup {
			slog.Warn("duplicate template type, keeping first", "type", t.Type)
			continue
		}
		c.templates[t.Type] = t
		c.order = append(c.order, t.Type)
	}
	return c
}

// Get returns the template for a type.
func (c *Catalog) Get(eventType string) (Template, error) {
	t, ok := c.templates[eventType]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrNotFound, eventType)
	}
	return t, nil
}

// All returns every template in registration order.
func (c *Catalog) All() []Template {
	out := make([]Template, 0, len(c.order))
	for _, typ := range c.order {
		out = append(out, c.templates[typ])
	}
	return out
}

// Len returns the number of registered templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}
