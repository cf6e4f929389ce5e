package engine

import (
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/talgya/galactic-events/internal/catalog"
	"github.com/talgya/galactic-events/internal/entropy"
	"github.com/talgya/galactic-events/internal/galaxy"
	"github.com/talgya/galactic-events/internal/knobs"
)

// Tuning collects the design constants of the lifecycle model. These were
// fixed numbers in earlier iterations; they are kept overridable rather than
// promoted to runtime knobs because they define the model, not its mood.
type Tuning struct {
	TimeWeight       float64       // share of progress driven by elapsed time
	ActivityWeight   float64       // share of progress driven by activity count
	ActivityTarget   int           // activities needed for full activity progress
	SuccessThreshold float64       // progress needed for a successful outcome
	Horizon          time.Duration // how far ahead the scheduler queues occurrences
	ScheduleSlack    time.Duration // dedupe window around a computed occurrence time
	CrisisThreshold  float64       // snapshot crisis level that triggers a summit
	RecentActivities int           // activity window for ongoing effects
	HistoryCap       int           // max retained records per participant
	UpcomingWindow   time.Duration // lookahead for the analytics upcoming list
}

// DefaultTuning returns the standard model constants.
func DefaultTuning() Tuning {
	return Tuning{
		TimeWeight:       0.7,
		ActivityWeight:   0.3,
		ActivityTarget:   10,
		SuccessThreshold: 0.8,
		Horizon:          7 * catalog.Day,
		ScheduleSlack:    catalog.Day,
		CrisisThreshold:  0.7,
		RecentActivities: 3,
		HistoryCap:       20,
		UpcomingWindow:   30 * catalog.Day,
	}
}

// Engine owns all scheduler and lifecycle state for one simulation. It is an
// explicit context object: multiple engines can run independent galaxies side
// by side. All mutation happens inside Tick; the mutex only exists so the
// observation API can read concurrently with a running tick.
type Engine struct {
	Catalog *catalog.Catalog
	Knobs   *knobs.Store
	Rand    entropy.Source
	Now     func() time.Time
	Tuning  Tuning

	ticking atomic.Bool

	mu           sync.Mutex
	scheduled    map[string]*ScheduledEvent
	active       map[string]*ActiveEvent
	history      []*HistoricalEvent
	historyByID  map[string]*HistoricalEvent
	lastByType   map[string]*HistoricalEvent
	participants map[string]*ParticipantHistory
	elections    map[string]*Election
	polls        map[string][]*PollingSnapshot
	campaigns    map[string][]CampaignActivity
	cancels      map[string]bool
}

// New creates an engine around a catalog, knob store, and randomness source.
// The clock defaults to time.Now; tests inject a fixed one.
func New(cat *catalog.Catalog, ks *knobs.Store, src entropy.Source) *Engine {
	return &Engine{
		Catalog:      cat,
		Knobs:        ks,
		Rand:         src,
		Now:          time.Now,
		Tuning:       DefaultTuning(),
		scheduled:    make(map[string]*ScheduledEvent),
		active:       make(map[string]*ActiveEvent),
		historyByID:  make(map[string]*HistoricalEvent),
		lastByType:   make(map[string]*HistoricalEvent),
		participants: make(map[string]*ParticipantHistory),
		elections:    make(map[string]*Election),
		polls:        make(map[string][]*PollingSnapshot),
		campaigns:    make(map[string][]CampaignActivity),
		cancels:      make(map[string]bool),
	}
}

// Tick advances the engine by one step: merges knob overrides, queues due
// occurrences, starts and progresses events, evaluates ad-hoc triggers, and
// runs the electoral cycle. Returns nil if another tick is already in flight
// (concurrent invocations are a no-op, not a queued retry).
func (e *Engine) Tick(snap galaxy.Snapshot, overrides map[string]float64) *Report {
	if !e.ticking.CompareAndSwap(false, true) {
		slog.Debug("tick already in flight, skipping")
		return nil
	}
	defer e.ticking.Store(false)

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(overrides) > 0 {
		rep := e.Knobs.Merge(overrides, "tick_overrides")
		for key, reason := range rep.Rejected {
			slog.Warn("knob override rejected", "knob", key, "reason", reason)
		}
	}

	now := e.Now()
	rpt := &Report{
		Timestamp: now,
		Effects:   make(Effects),
	}

	e.scheduleRecurring(now, rpt)
	e.startDueEvents(now, snap, rpt)
	e.processActiveEvents(now, snap, rpt)
	e.proposeAdHocEvents(now, snap, rpt)
	e.processElections(now, rpt)

	e.aggregateEffects(rpt)

	slog.Info("tick complete",
		"queued", len(rpt.Queued),
		"started", len(rpt.Started),
		"active", len(e.active),
		"completed", len(rpt.Completed),
		"deferred", len(rpt.Deferred),
		"proposals", len(rpt.Proposals),
		"elections", len(rpt.Elections),
	)
	return rpt
}

// RequestCancel marks an active event for cancellation. The instance finishes
// its in-flight tick untouched and is retired as cancelled (success=false,
// zero outcomes) on the next one; unknown ids are ignored.
func (e *Engine) RequestCancel(eventID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.active[eventID]; ok {
		e.cancels[eventID] = true
		slog.Info("cancellation requested", "event_id", eventID)
	}
}

// aggregateEffects folds every consequence map produced during the tick into
// the report's single effects map, scaled by the impact knob.
func (e *Engine) aggregateEffects(rpt *Report) {
	scale := e.Knobs.Value(knobs.EventImpactScale)

	for _, s := range rpt.Started {
		rpt.Effects.Fold(s.Consequences)
	}
	for _, u := range rpt.Updates {
		rpt.Effects.Fold(u.Consequences)
	}
	for _, c := range rpt.Completed {
		rpt.Effects.Fold(c.Consequences)
	}
	for _, p := range rpt.Proposals {
		rpt.Effects.Fold(p.Consequences)
	}

	if scale != 1 {
		for _, keys := range rpt.Effects {
			for k, v := range keys {
				keys[k] = v * scale
			}
		}
	}
}

// sortedKeys gives deterministic iteration order over instance maps, which
// keeps seeded runs reproducible.
func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
