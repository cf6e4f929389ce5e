package engine

import (
	"testing"
	"time"

	"github.com/talgya/galactic-events/internal/catalog"
)

func TestZeroActivityEventCompletes(t *testing.T) {
	clock := epoch
	src := &stubSource{vals: []float64{0.0}}
	e := newTestEngine(catalog.New(summitTemplate()), src, &clock)
	snap := testSnapshot("a", "b", "c", "d")

	rpt := e.Tick(snap, nil)
	if len(rpt.Started) != 1 {
		t.Fatalf("started %d events, want 1", len(rpt.Started))
	}
	eventID := rpt.Started[0].EventID
	if got := len(rpt.Started[0].Participants); got < 2 || got > 4 {
		t.Fatalf("participants = %d, outside template bounds 2-4", got)
	}

	// At the end time with zero activities: time weight alone caps progress
	// at 0.7, below the 0.8 success threshold.
	clock = epoch.Add(10 * catalog.Day)
	rpt = e.Tick(snap, nil)

	if len(rpt.Completed) != 1 {
		t.Fatalf("completed %d events, want 1", len(rpt.Completed))
	}
	c := rpt.Completed[0]
	if c.EventID != eventID {
		t.Errorf("completed %s, want %s", c.EventID, eventID)
	}
	if c.Outcomes.Success {
		t.Error("zero-activity event reported success, want failure")
	}
	if c.Outcomes.ActivitiesCompleted != 0 {
		t.Errorf("activities = %d, want 0", c.Outcomes.ActivitiesCompleted)
	}
	if len(e.ActiveEvents()) != 0 {
		t.Error("event still active after completion")
	}
	if len(e.History(0)) != 1 {
		t.Errorf("history has %d records, want 1", len(e.History(0)))
	}
}

func TestInsufficientParticipantsDefers(t *testing.T) {
	tpl := summitTemplate()
	tpl.MinParticipants = 3

	clock := epoch
	src := &stubSource{vals: []float64{0.0}}
	e := newTestEngine(catalog.New(tpl), src, &clock)
	snap := testSnapshot("a", "b") // only two eligible

	rpt := e.Tick(snap, nil)
	if len(rpt.Deferred) != 1 {
		t.Fatalf("deferred %d events, want 1", len(rpt.Deferred))
	}
	d := rpt.Deferred[0]
	if d.Eligible != 2 || d.Required != 3 {
		t.Errorf("deferral eligible=%d required=%d, want 2 and 3", d.Eligible, d.Required)
	}
	if len(rpt.Started) != 0 {
		t.Error("event started despite insufficient participants")
	}

	// The instance stays scheduled and retries; it does not duplicate.
	clock = clock.Add(catalog.Day)
	rpt = e.Tick(snap, nil)
	if len(rpt.Deferred) != 1 {
		t.Errorf("second tick deferred %d, want 1", len(rpt.Deferred))
	}
	if got := len(e.ScheduledEvents()); got != 1 {
		t.Errorf("scheduled count = %d, want 1", got)
	}

	// Once a third civilization qualifies, the event starts.
	clock = clock.Add(catalog.Day)
	rpt = e.Tick(testSnapshot("a", "b", "c"), nil)
	if len(rpt.Started) != 1 {
		t.Errorf("started %d after pool grew, want 1", len(rpt.Started))
	}
}

func TestCancellation(t *testing.T) {
	clock := epoch
	src := &stubSource{vals: []float64{0.0}}
	e := newTestEngine(catalog.New(summitTemplate()), src, &clock)
	snap := testSnapshot("a", "b", "c", "d")

	rpt := e.Tick(snap, nil)
	eventID := rpt.Started[0].EventID

	e.RequestCancel(eventID)
	e.RequestCancel("no_such_event") // ignored

	clock = clock.Add(catalog.Day)
	rpt = e.Tick(snap, nil)

	if len(rpt.Completed) != 1 {
		t.Fatalf("completed %d, want 1 cancelled", len(rpt.Completed))
	}
	out := rpt.Completed[0].Outcomes
	if !out.Cancelled {
		t.Error("outcome not marked cancelled")
	}
	if out.Success {
		t.Error("cancelled event reported success")
	}
	if out.ActivitiesCompleted != 0 || out.ParticipationLevel != 0 {
		t.Errorf("cancelled outcomes not zeroed: %+v", out)
	}
	if len(e.ActiveEvents()) != 0 {
		t.Error("cancelled event still active")
	}
}

func TestComputeProgress(t *testing.T) {
	clock := epoch
	e := newTestEngine(catalog.New(), &stubSource{}, &clock)

	av := &ActiveEvent{
		ID:        "ev",
		StartTime: epoch,
		EndTime:   epoch.Add(10 * catalog.Day),
	}

	tests := []struct {
		name       string
		at         time.Time
		activities int
		want       float64
	}{
		{"start", epoch, 0, 0},
		{"halfway no activity", epoch.Add(5 * catalog.Day), 0, 0.35},
		{"end no activity", epoch.Add(10 * catalog.Day), 0, 0.7},
		{"end full activity", epoch.Add(10 * catalog.Day), 10, 1.0},
		{"past end overflow clamped", epoch.Add(20 * catalog.Day), 20, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			av.Activities = make([]Activity, tt.activities)
			got := e.computeProgress(av, tt.at)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("progress = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecordParticipationCap(t *testing.T) {
	clock := epoch
	e := newTestEngine(catalog.New(), &stubSource{}, &clock)
	e.Tuning.HistoryCap = 2

	for i := 0; i < 3; i++ {
		e.recordParticipation("civ_a", &HistoricalEvent{
			ID:       newID("ev"),
			Type:     "summit",
			Outcomes: Outcomes{Success: i%2 == 0},
		})
	}

	ph := e.ParticipantLog("civ_a")
	if ph == nil {
		t.Fatal("no participant history recorded")
	}
	if len(ph.Events) != 2 {
		t.Errorf("retained %d records, want capped 2", len(ph.Events))
	}
	if ph.TotalEvents != 3 {
		t.Errorf("TotalEvents = %d, want 3 (counters survive eviction)", ph.TotalEvents)
	}
	if ph.SuccessfulEvents != 2 {
		t.Errorf("SuccessfulEvents = %d, want 2", ph.SuccessfulEvents)
	}
}

func TestCategoryImpact(t *testing.T) {
	activities := []Activity{
		{Category: "cultural_exchange"},
		{Category: "art_exhibition"},
		{Category: "trade_agreements"},
		{Category: "athletics"},
	}

	if got := categoryImpact(activities, 0.2, "cultural", "art"); got != 0.4 {
		t.Errorf("cultural impact = %v, want 0.4", got)
	}
	if got := categoryImpact(activities, 0.3, "trade", "economic"); got != 0.3 {
		t.Errorf("economic impact = %v, want 0.3", got)
	}
	if got := categoryImpact(activities, 0.25, "diplomatic", "peace"); got != 0 {
		t.Errorf("diplomatic impact = %v, want 0", got)
	}
}
