package engine

import (
	"testing"
	"time"

	"github.com/talgya/galactic-events/internal/catalog"
)

func TestInitialSeedingJitter(t *testing.T) {
	clock := epoch
	e := newTestEngine(catalog.New(summitTemplate()), &stubSource{}, &clock)

	rpt := e.Tick(testSnapshot("a", "b", "c"), nil)
	if len(rpt.Queued) != 1 {
		t.Fatalf("queued %d occurrences, want 1", len(rpt.Queued))
	}

	se := rpt.Queued[0]
	if se.Type != "summit" {
		t.Errorf("queued type %q, want summit", se.Type)
	}
	// First occurrence lands within 30% of the recurrence interval.
	latest := epoch.Add(time.Duration(0.3 * float64(catalog.Year)))
	if se.ScheduledTime.Before(epoch) || se.ScheduledTime.After(latest) {
		t.Errorf("scheduled at %v, want within [%v, %v]", se.ScheduledTime, epoch, latest)
	}
	// The stub draws 0.5, so the jitter is exactly 15% of the interval.
	want := epoch.Add(time.Duration(0.15 * float64(catalog.Year)))
	if !se.ScheduledTime.Equal(want) {
		t.Errorf("scheduled at %v, want %v", se.ScheduledTime, want)
	}
}

func TestSeedingIdempotent(t *testing.T) {
	clock := epoch
	e := newTestEngine(catalog.New(summitTemplate()), &stubSource{}, &clock)
	snap := testSnapshot("a", "b", "c")

	e.Tick(snap, nil)
	clock = clock.Add(catalog.Day)
	rpt := e.Tick(snap, nil)

	if len(rpt.Queued) != 0 {
		t.Errorf("second tick queued %d occurrences, want 0", len(rpt.Queued))
	}
	if got := len(e.ScheduledEvents()); got != 1 {
		t.Errorf("scheduled count = %d, want 1", got)
	}
}

func TestAdHocTemplatesNotAutoScheduled(t *testing.T) {
	tpl := summitTemplate()
	tpl.Recurrence = 0

	clock := epoch
	e := newTestEngine(catalog.New(tpl), &stubSource{}, &clock)

	rpt := e.Tick(testSnapshot("a", "b", "c"), nil)
	if len(rpt.Queued) != 0 {
		t.Errorf("ad-hoc template queued %d occurrences, want 0", len(rpt.Queued))
	}
}

func TestFollowOnRespectsHorizon(t *testing.T) {
	clock := epoch
	e := newTestEngine(catalog.New(summitTemplate()), &stubSource{}, &clock)

	endTime := epoch.Add(10 * catalog.Day)
	e.lastByType["summit"] = &HistoricalEvent{Type: "summit", EndTime: endTime}
	next := endTime.Add(catalog.Year)

	// Far outside the horizon: nothing queued.
	rpt := &Report{Effects: make(Effects)}
	e.scheduleRecurring(next.Add(-30*catalog.Day), rpt)
	if len(rpt.Queued) != 0 {
		t.Fatalf("queued %d outside horizon, want 0", len(rpt.Queued))
	}

	// Inside the horizon: the follow-on lands exactly one interval after the
	// last occurrence's end time.
	rpt = &Report{Effects: make(Effects)}
	e.scheduleRecurring(next.Add(-3*catalog.Day), rpt)
	if len(rpt.Queued) != 1 {
		t.Fatalf("queued %d inside horizon, want 1", len(rpt.Queued))
	}
	if !rpt.Queued[0].ScheduledTime.Equal(next) {
		t.Errorf("follow-on at %v, want %v", rpt.Queued[0].ScheduledTime, next)
	}

	// A repeat pass must dedupe against the pending occurrence.
	rpt = &Report{Effects: make(Effects)}
	e.scheduleRecurring(next.Add(-2*catalog.Day), rpt)
	if len(rpt.Queued) != 0 {
		t.Errorf("queued %d duplicates, want 0", len(rpt.Queued))
	}
}

func TestHasTypeScheduledOrActive(t *testing.T) {
	clock := epoch
	e := newTestEngine(catalog.New(), &stubSource{}, &clock)

	if e.hasTypeScheduledOrActive("summit") {
		t.Error("empty engine reports type pending")
	}

	e.scheduled["s1"] = &ScheduledEvent{ID: "s1", Type: "summit"}
	if !e.hasTypeScheduledOrActive("summit") {
		t.Error("scheduled instance not detected")
	}

	delete(e.scheduled, "s1")
	e.active["a1"] = &ActiveEvent{ID: "a1", Type: "summit"}
	if !e.hasTypeScheduledOrActive("summit") {
		t.Error("active instance not detected")
	}
}
