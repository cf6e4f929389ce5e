package engine

import "time"

// Report is the aggregated output of one tick. Everything the tick decided is
// returned here; nothing is pushed through callbacks.
type Report struct {
	Timestamp time.Time `json:"timestamp"`

	Queued    []ScheduledEvent  `json:"queued,omitempty"`    // occurrences newly placed on the schedule
	Started   []EventStart      `json:"started,omitempty"`   // scheduled → active transitions
	Updates   []EventUpdate     `json:"updates,omitempty"`   // ongoing active events
	Completed []EventCompletion `json:"completed,omitempty"` // active → completed transitions
	Deferred  []Deferral        `json:"deferred,omitempty"`  // due events held back for lack of participants
	Proposals []Proposal        `json:"proposals,omitempty"` // ad-hoc event proposals

	Elections []ElectionUpdate  `json:"elections,omitempty"`
	Polls     []PollingSnapshot `json:"polls,omitempty"`

	// Effects is the tick's full aggregated delta set across all sources:
	// event starts, ongoing activities, completions, and electoral outcomes.
	Effects Effects `json:"effects"`
}

// EventStart reports a scheduled event going active.
type EventStart struct {
	EventID      string   `json:"event_id"`
	EventType    string   `json:"event_type"`
	Participants []string `json:"participants"`
	Reason       string   `json:"reason"`
	Consequences Effects  `json:"consequences"`
}

// EventUpdate reports an active event's per-tick state and the effects of its
// recent activities.
type EventUpdate struct {
	EventID       string     `json:"event_id"`
	EventType     string     `json:"event_type"`
	Progress      float64    `json:"progress"`
	NewActivities []Activity `json:"new_activities,omitempty"`
	Consequences  Effects    `json:"consequences,omitempty"`
}

// EventCompletion reports a finished event with its final outcomes.
type EventCompletion struct {
	EventID      string   `json:"event_id"`
	EventType    string   `json:"event_type"`
	Outcomes     Outcomes `json:"outcomes"`
	Reason       string   `json:"reason"`
	Consequences Effects  `json:"consequences"`
}

// Deferral reports a due event that stayed scheduled because not enough
// eligible participants were available. Not an error; it retries next tick.
type Deferral struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Eligible  int    `json:"eligible"`
	Required  int    `json:"required"`
}

// Proposal is an ad-hoc event suggestion synthesized from trigger conditions
// in the state snapshot.
type Proposal struct {
	ID           string  `json:"id"`
	EventType    string  `json:"event_type"`
	Reason       string  `json:"reason"`
	Urgency      string  `json:"urgency"`
	Consequences Effects `json:"consequences"`
}

// ElectionUpdate reports an election state transition.
type ElectionUpdate struct {
	ElectionID string            `json:"election_id"`
	Type       string            `json:"type"`
	Status     ElectionStatus    `json:"status"`
	Results    *ElectionResults  `json:"results,omitempty"`
	Activity   *CampaignActivity `json:"activity,omitempty"`
}
