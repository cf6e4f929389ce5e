// Effect translation: turns activities and outcomes into keyed deltas against
// named external systems. Pure aggregation; nothing here calls those systems.
package engine

import (
	"math"

	"github.com/talgya/galactic-events/internal/catalog"
)

// Success scales end-of-event impact up, failure scales it down.
const (
	successMultiplier = 1.5
	failureMultiplier = 0.7
)

// startConsequences derives the kickoff deltas from the template's impact
// vector: each impacted system gets a participation bump.
func startConsequences(tpl catalog.Template, av *ActiveEvent) Effects {
	fx := make(Effects)
	for system, impact := range tpl.Impacts {
		fx.Add(system, av.Type+"_participation", math.Floor(impact*2))
	}
	return fx
}

// ongoingEffects folds the impacts of the event's most recent activities into
// per-system deltas, keyed by activity type.
func (e *Engine) ongoingEffects(av *ActiveEvent) Effects {
	window := e.Tuning.RecentActivities
	if len(av.Activities) == 0 {
		return nil
	}
	recent := av.Activities
	if len(recent) > window {
		recent = recent[len(recent)-window:]
	}

	fx := make(Effects)
	for _, a := range recent {
		for system, delta := range a.Impact {
			fx.Add(system, a.Type+"_effect", delta)
		}
	}
	return fx
}

// endConsequences derives the completion deltas: the impact vector scaled by
// the success multiplier.
func endConsequences(tpl catalog.Template, av *ActiveEvent, out Outcomes) Effects {
	mult := failureMultiplier
	if out.Success {
		mult = successMultiplier
	}

	fx := make(Effects)
	for system, impact := range tpl.Impacts {
		fx.Add(system, av.Type+"_completion", math.Floor(impact*mult*3))
	}
	return fx
}
