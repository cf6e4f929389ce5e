// Event lifecycle state machine: scheduled → active → completed.
package engine

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/talgya/galactic-events/internal/galaxy"
)

// startDueEvents transitions scheduled events whose time has come. An event
// that cannot muster its minimum participants is deferred in place. A panic
// while handling one instance is contained to that instance.
func (e *Engine) startDueEvents(now time.Time, snap galaxy.Snapshot, rpt *Report) {
	for _, id := range sortedKeys(e.scheduled) {
		se := e.scheduled[id]
		if se.ScheduledTime.After(now) {
			continue
		}
		e.guarded(se.ID, func() {
			e.startEvent(se, now, snap, rpt)
		})
	}
}

func (e *Engine) startEvent(se *ScheduledEvent, now time.Time, snap galaxy.Snapshot, rpt *Report) {
	tpl, err := e.Catalog.Get(se.Type)
	if err != nil {
		// Catalog lookup failure is non-fatal; drop the orphan and move on.
		slog.Warn("scheduled event has no template, dropping", "event_id", se.ID, "type", se.Type)
		delete(e.scheduled, se.ID)
		return
	}

	participants, err := e.selectParticipants(tpl, snap)
	if err != nil {
		eligible := len(eligibleCandidates(tpl, snap))
		rpt.Deferred = append(rpt.Deferred, Deferral{
			EventID:   se.ID,
			EventType: se.Type,
			Eligible:  eligible,
			Required:  tpl.MinParticipants,
		})
		slog.Info("event deferred, not enough participants",
			"event_id", se.ID, "type", se.Type,
			"eligible", eligible, "required", tpl.MinParticipants)
		return
	}

	av := &ActiveEvent{
		ID:           se.ID,
		Type:         se.Type,
		Participants: participants,
		StartTime:    now,
		EndTime:      now.Add(tpl.Duration),
		Status:       StatusActive,
	}
	delete(e.scheduled, se.ID)
	e.active[av.ID] = av

	rpt.Started = append(rpt.Started, EventStart{
		EventID:      av.ID,
		EventType:    av.Type,
		Participants: participants,
		Reason:       fmt.Sprintf("starting %s with %d participants", tpl.Name, len(participants)),
		Consequences: startConsequences(tpl, av),
	})

	slog.Info("event started",
		"event_id", av.ID,
		"type", av.Type,
		"participants", len(participants),
		"ends", av.EndTime,
	)
}

// processActiveEvents advances every running event: cancellation service,
// activity generation, progress update, and completion check. Instances are
// isolated from each other's failures.
func (e *Engine) processActiveEvents(now time.Time, snap galaxy.Snapshot, rpt *Report) {
	for _, id := range sortedKeys(e.active) {
		av := e.active[id]
		e.guarded(av.ID, func() {
			e.advanceEvent(av, now, snap, rpt)
		})
	}
}

func (e *Engine) advanceEvent(av *ActiveEvent, now time.Time, snap galaxy.Snapshot, rpt *Report) {
	if e.cancels[av.ID] {
		e.finishCancelled(av, now, rpt)
		return
	}

	tpl, err := e.Catalog.Get(av.Type)
	if err != nil {
		slog.Warn("active event has no template, cancelling", "event_id", av.ID, "type", av.Type)
		e.finishCancelled(av, now, rpt)
		return
	}

	newActivities := e.generateActivities(av, tpl, snap)
	av.Activities = append(av.Activities, newActivities...)

	av.Progress = e.computeProgress(av, now)

	if !now.Before(av.EndTime) || av.Progress >= 1.0 {
		e.completeEvent(av, now, rpt)
		return
	}

	update := EventUpdate{
		EventID:       av.ID,
		EventType:     av.Type,
		Progress:      av.Progress,
		NewActivities: newActivities,
	}
	if fx := e.ongoingEffects(av); len(fx) > 0 {
		update.Consequences = fx
	}
	rpt.Updates = append(rpt.Updates, update)
}

// computeProgress blends elapsed time with activity throughput. Time
// dominates, but an event with zero activities cannot pass the time weight
// from duration alone; full completion needs activity.
func (e *Engine) computeProgress(av *ActiveEvent, now time.Time) float64 {
	duration := av.EndTime.Sub(av.StartTime)
	timeShare := 1.0
	if duration > 0 {
		timeShare = clamp01(float64(now.Sub(av.StartTime)) / float64(duration))
	}
	activityShare := clamp01(float64(len(av.Activities)) / float64(e.Tuning.ActivityTarget))

	progress := e.Tuning.TimeWeight*timeShare + e.Tuning.ActivityWeight*activityShare
	if progress < 0 || progress > 1 {
		slog.Warn("progress out of bounds, clamping",
			"event_id", av.ID, "progress", progress)
		progress = clamp01(progress)
	}
	return progress
}

// completeEvent computes final outcomes, moves the record to history, and
// updates every participant's log. Recurrence is not rescheduled here; the
// scheduler derives the next occurrence from this record's end time.
func (e *Engine) completeEvent(av *ActiveEvent, now time.Time, rpt *Report) {
	tpl, _ := e.Catalog.Get(av.Type)

	if len(av.Participants) < tpl.MinParticipants || len(av.Participants) > tpl.MaxParticipants {
		slog.Warn("participant count outside template bounds",
			"event_id", av.ID, "count", len(av.Participants),
			"min", tpl.MinParticipants, "max", tpl.MaxParticipants)
	}

	participation := 0.0
	if tpl.MaxParticipants > 0 {
		participation = float64(len(av.Participants)) / float64(tpl.MaxParticipants)
	}

	outcomes := Outcomes{
		Success:             av.Progress >= e.Tuning.SuccessThreshold,
		ParticipationLevel:  participation,
		ActivitiesCompleted: len(av.Activities),
		CulturalImpact:      categoryImpact(av.Activities, 0.2, "cultural", "art"),
		EconomicImpact:      categoryImpact(av.Activities, 0.3, "trade", "economic"),
		DiplomaticImpact:    categoryImpact(av.Activities, 0.25, "diplomatic", "peace", "conflict"),
	}

	e.retire(av, now, outcomes, rpt, endConsequences(tpl, av, outcomes),
		fmt.Sprintf("completed %s with %d activities", tpl.Name, len(av.Activities)))
}

// finishCancelled retires an event as a completion with success=false and
// zero outcomes. The record still reaches history so the cancellation is
// visible downstream.
func (e *Engine) finishCancelled(av *ActiveEvent, now time.Time, rpt *Report) {
	outcomes := Outcomes{Cancelled: true}
	e.retire(av, now, outcomes, rpt, make(Effects), "cancelled by external request")
	slog.Info("event cancelled", "event_id", av.ID, "type", av.Type)
}

func (e *Engine) retire(av *ActiveEvent, now time.Time, outcomes Outcomes, rpt *Report, consequences Effects, reason string) {
	av.Status = StatusCompleted

	hist := &HistoricalEvent{
		ID:           av.ID,
		Type:         av.Type,
		Participants: av.Participants,
		StartTime:    av.StartTime,
		EndTime:      av.EndTime,
		CompletedAt:  now,
		Activities:   av.Activities,
		Outcomes:     outcomes,
	}
	e.history = append(e.history, hist)
	e.historyByID[hist.ID] = hist
	e.lastByType[hist.Type] = hist
	delete(e.active, av.ID)
	delete(e.cancels, av.ID)

	for _, pid := range av.Participants {
		e.recordParticipation(pid, hist)
	}

	rpt.Completed = append(rpt.Completed, EventCompletion{
		EventID:      hist.ID,
		EventType:    hist.Type,
		Outcomes:     outcomes,
		Reason:       reason,
		Consequences: consequences,
	})

	slog.Info("event completed",
		"event_id", hist.ID,
		"type", hist.Type,
		"success", outcomes.Success,
		"activities", outcomes.ActivitiesCompleted,
	)
}

// recordParticipation appends to a civilization's capped participation log.
func (e *Engine) recordParticipation(participantID string, hist *HistoricalEvent) {
	ph, ok := e.participants[participantID]
	if !ok {
		ph = &ParticipantHistory{ParticipantID: participantID}
		e.participants[participantID] = ph
	}

	ph.Events = append(ph.Events, ParticipantRecord{
		EventID:   hist.ID,
		EventType: hist.Type,
		StartTime: hist.StartTime,
		EndTime:   hist.EndTime,
		Success:   hist.Outcomes.Success,
	})
	ph.TotalEvents++
	if hist.Outcomes.Success {
		ph.SuccessfulEvents++
	}

	if len(ph.Events) > e.Tuning.HistoryCap {
		ph.Events = ph.Events[len(ph.Events)-e.Tuning.HistoryCap:]
	}
}

// guarded runs fn and contains any panic to the single instance, so one bad
// event cannot poison the rest of the tick.
func (e *Engine) guarded(eventID string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event processing panic, instance skipped",
				"event_id", eventID, "panic", r)
		}
	}()
	fn()
}

// categoryImpact sums a flat per-activity weight over activities whose
// category mentions any of the given fragments.
func categoryImpact(activities []Activity, weight float64, fragments ...string) float64 {
	count := 0
	for _, a := range activities {
		for _, frag := range fragments {
			if strings.Contains(a.Category, frag) {
				count++
				break
			}
		}
	}
	return float64(count) * weight
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
