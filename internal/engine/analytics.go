// Read-side accessors and analytics for the observation API. All methods take
// the engine mutex so they are safe to call while a tick is running.
package engine

import (
	"sort"
	"time"
)

// Status is a lightweight operational snapshot.
type Status struct {
	Ticking         bool `json:"ticking"`
	Templates       int  `json:"templates"`
	ScheduledEvents int  `json:"scheduled_events"`
	ActiveEvents    int  `json:"active_events"`
	CompletedEvents int  `json:"completed_events"`
	Elections       int  `json:"elections"`
}

// UpcomingEvent is a pending occurrence inside the analytics lookahead.
type UpcomingEvent struct {
	EventType     string    `json:"event_type"`
	ScheduledTime time.Time `json:"scheduled_time"`
	DaysUntil     int       `json:"days_until"`
}

// Analytics summarizes event throughput over the engine's lifetime.
type Analytics struct {
	ActiveEvents         int             `json:"active_events"`
	ScheduledEvents      int             `json:"scheduled_events"`
	CompletedEvents      int             `json:"completed_events"`
	EventTypes           map[string]int  `json:"event_types"`
	AverageParticipation float64         `json:"average_participation"`
	SuccessRate          float64         `json:"success_rate"`
	Upcoming             []UpcomingEvent `json:"upcoming"`
}

// CurrentStatus reports instance counts.
func (e *Engine) CurrentStatus() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		Ticking:         e.ticking.Load(),
		Templates:       e.Catalog.Len(),
		ScheduledEvents: len(e.scheduled),
		ActiveEvents:    len(e.active),
		CompletedEvents: len(e.history),
		Elections:       len(e.elections),
	}
}

// ScheduledEvents returns pending occurrences ordered by scheduled time.
func (e *Engine) ScheduledEvents() []ScheduledEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]ScheduledEvent, 0, len(e.scheduled))
	for _, se := range e.scheduled {
		out = append(out, *se)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledTime.Before(out[j].ScheduledTime) })
	return out
}

// ActiveEvents returns running events ordered by start time.
func (e *Engine) ActiveEvents() []ActiveEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]ActiveEvent, 0, len(e.active))
	for _, av := range e.active {
		out = append(out, *av)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// History returns the most recent completed events, newest first.
func (e *Engine) History(limit int) []HistoricalEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.history)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]HistoricalEvent, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, *e.history[i])
	}
	return out
}

// Elections returns all registered elections, newest cycle last.
func (e *Engine) Elections() []Election {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Election, 0, len(e.elections))
	for _, id := range sortedKeys(e.elections) {
		out = append(out, *e.elections[id])
	}
	return out
}

// PollsFor returns the polling history of one election in order taken.
func (e *Engine) PollsFor(electionID string) []PollingSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	polls := e.polls[electionID]
	out := make([]PollingSnapshot, 0, len(polls))
	for _, p := range polls {
		out = append(out, *p)
	}
	return out
}

// ParticipantLog returns a civilization's participation history, or nil.
func (e *Engine) ParticipantLog(participantID string) *ParticipantHistory {
	e.mu.Lock()
	defer e.mu.Unlock()

	ph, ok := e.participants[participantID]
	if !ok {
		return nil
	}
	cp := *ph
	cp.Events = append([]ParticipantRecord(nil), ph.Events...)
	return &cp
}

// ComputeAnalytics aggregates lifetime event statistics.
func (e *Engine) ComputeAnalytics() Analytics {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.Now()
	a := Analytics{
		ActiveEvents:    len(e.active),
		ScheduledEvents: len(e.scheduled),
		CompletedEvents: len(e.history),
		EventTypes:      make(map[string]int),
	}

	for _, av := range e.active {
		a.EventTypes[av.Type]++
	}

	totalParticipants := 0
	succeeded := 0
	for _, h := range e.history {
		a.EventTypes[h.Type]++
		totalParticipants += len(h.Participants)
		if h.Outcomes.Success {
			succeeded++
		}
	}
	if len(e.history) > 0 {
		a.AverageParticipation = float64(totalParticipants) / float64(len(e.history))
		a.SuccessRate = float64(succeeded) / float64(len(e.history))
	}

	cutoff := now.Add(e.Tuning.UpcomingWindow)
	for _, se := range e.scheduled {
		if se.ScheduledTime.After(now) && !se.ScheduledTime.After(cutoff) {
			a.Upcoming = append(a.Upcoming, UpcomingEvent{
				EventType:     se.Type,
				ScheduledTime: se.ScheduledTime,
				DaysUntil:     int(se.ScheduledTime.Sub(now).Hours()/24) + 1,
			})
		}
	}
	sort.Slice(a.Upcoming, func(i, j int) bool {
		return a.Upcoming[i].ScheduledTime.Before(a.Upcoming[j].ScheduledTime)
	})

	return a
}
