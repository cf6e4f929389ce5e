// Package engine implements the recurring-events scheduler and electoral
// cycle: a tick-driven lifecycle over scheduled, active, and completed
// galactic events, plus the election state machine that shares its shape.
package engine

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus is the lifecycle state of an event instance. Transitions only
// move forward: scheduled → active → completed.
type EventStatus string

const (
	StatusScheduled EventStatus = "scheduled"
	StatusActive    EventStatus = "active"
	StatusCompleted EventStatus = "completed"
)

// ScheduledEvent is a pending occurrence not yet started. It is consumed
// (deleted) when the instance transitions to active.
type ScheduledEvent struct {
	ID            string      `json:"id"`
	Type          string      `json:"type"`
	ScheduledTime time.Time   `json:"scheduled_time"`
	Status        EventStatus `json:"status"`
	Created       time.Time   `json:"created"`
}

// ActiveEvent is a running occurrence. Mutated every tick while active.
type ActiveEvent struct {
	ID           string      `json:"id"`
	Type         string      `json:"type"`
	Participants []string    `json:"participants"`
	StartTime    time.Time   `json:"start_time"`
	EndTime      time.Time   `json:"end_time"`
	Status       EventStatus `json:"status"`
	Progress     float64     `json:"progress"` // always within [0, 1]
	Activities   []Activity  `json:"activities"`
}

// Activity is one discrete happening inside an active event. Immutable once
// appended to the event's activity log.
type Activity struct {
	ID           string             `json:"id"`
	Type         string             `json:"type"`
	Category     string             `json:"category"`
	Participants []string           `json:"participants"`
	Outcome      string             `json:"outcome"`
	Impact       map[string]float64 `json:"impact"` // system name → delta
}

// Outcomes is the final result of a completed event.
type Outcomes struct {
	Success             bool    `json:"success"`
	ParticipationLevel  float64 `json:"participation_level"`
	ActivitiesCompleted int     `json:"activities_completed"`
	CulturalImpact      float64 `json:"cultural_impact"`
	EconomicImpact      float64 `json:"economic_impact"`
	DiplomaticImpact    float64 `json:"diplomatic_impact"`
	Cancelled           bool    `json:"cancelled,omitempty"`
}

// HistoricalEvent is a completed event in the append-only history index.
type HistoricalEvent struct {
	ID           string     `json:"id"`
	Type         string     `json:"type"`
	Participants []string   `json:"participants"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      time.Time  `json:"end_time"`
	CompletedAt  time.Time  `json:"completed_at"`
	Activities   []Activity `json:"activities"`
	Outcomes     Outcomes   `json:"outcomes"`
}

// ParticipantRecord is one entry in a civilization's participation log.
type ParticipantRecord struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Success   bool      `json:"success"`
}

// ParticipantHistory tracks a civilization's event participation, capped to
// the most recent entries (oldest evicted first).
type ParticipantHistory struct {
	ParticipantID    string              `json:"participant_id"`
	Events           []ParticipantRecord `json:"events"`
	TotalEvents      int                 `json:"total_events"`
	SuccessfulEvents int                 `json:"successful_events"`
}

// Effects maps target system → keyed deltas. The engine produces these; it
// never applies them to the systems itself.
type Effects map[string]map[string]float64

// Add accumulates a delta under system/key.
func (e Effects) Add(system, key string, delta float64) {
	m, ok := e[system]
	if !ok {
		m = make(map[string]float64)
		e[system] = m
	}
	m[key] += delta
}

// Fold merges other into e, summing overlapping keys.
func (e Effects) Fold(other Effects) {
	for system, keys := range other {
		for key, delta := range keys {
			e.Add(system, key, delta)
		}
	}
}

// newID returns a unique instance id with a readable type prefix.
func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
