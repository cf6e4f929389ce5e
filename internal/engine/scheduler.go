// Recurring event scheduling: keeps every recurring template's next occurrence
// queued within the rolling horizon.
package engine

import (
	"log/slog"
	"time"
)

// scheduleRecurring walks the catalog and queues occurrences. The first
// occurrence of a template (no history yet) is placed immediately at a
// jittered offset within 30% of the recurrence interval so templates don't
// all fire at once; follow-on occurrences derive from the last completed
// event's end time and are only queued once inside the horizon.
func (e *Engine) scheduleRecurring(now time.Time, rpt *Report) {
	for _, tpl := range e.Catalog.All() {
		if tpl.Recurrence == 0 {
			continue // ad-hoc templates go through the proposal path
		}

		last := e.lastByType[tpl.Type]
		if last == nil {
			if e.hasScheduledOfType(tpl.Type) {
				continue
			}
			jitter := e.Rand.Float() * 0.3
			first := now.Add(time.Duration(float64(tpl.Recurrence) * jitter))
			e.queueOccurrence(tpl.Type, first, now, rpt)
			continue
		}

		next := last.EndTime.Add(tpl.Recurrence)
		if next.After(now.Add(e.Tuning.Horizon)) {
			continue
		}
		if e.isScheduledNear(tpl.Type, next) {
			continue
		}
		e.queueOccurrence(tpl.Type, next, now, rpt)
	}
}

// queueOccurrence creates a ScheduledEvent and records it in the report.
func (e *Engine) queueOccurrence(eventType string, at, now time.Time, rpt *Report) {
	se := &ScheduledEvent{
		ID:            newID(eventType),
		Type:          eventType,
		ScheduledTime: at,
		Status:        StatusScheduled,
		Created:       now,
	}
	e.scheduled[se.ID] = se
	rpt.Queued = append(rpt.Queued, *se)

	slog.Info("event occurrence queued",
		"event_id", se.ID,
		"type", eventType,
		"scheduled_time", at,
	)
}

// hasScheduledOfType reports whether any occurrence of the type is pending.
func (e *Engine) hasScheduledOfType(eventType string) bool {
	for _, se := range e.scheduled {
		if se.Type == eventType {
			return true
		}
	}
	return false
}

// isScheduledNear reports whether an occurrence of the type already sits
// within the slack window of the computed time.
func (e *Engine) isScheduledNear(eventType string, at time.Time) bool {
	for _, se := range e.scheduled {
		if se.Type != eventType {
			continue
		}
		diff := se.ScheduledTime.Sub(at)
		if diff < 0 {
			diff = -diff
		}
		if diff <= e.Tuning.ScheduleSlack {
			return true
		}
	}
	return false
}

// hasTypeScheduledOrActive reports whether an instance of the type is pending
// or running. The ad-hoc proposal path uses this for per-tick idempotence.
func (e *Engine) hasTypeScheduledOrActive(eventType string) bool {
	if e.hasScheduledOfType(eventType) {
		return true
	}
	for _, av := range e.active {
		if av.Type == eventType {
			return true
		}
	}
	return false
}
