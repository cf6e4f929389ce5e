// Activity generation for active events: independent per-category Bernoulli
// trials, scaled by the event intensity knob.
package engine

import (
	"github.com/talgya/galactic-events/internal/catalog"
	"github.com/talgya/galactic-events/internal/entropy"
	"github.com/talgya/galactic-events/internal/galaxy"
	"github.com/talgya/galactic-events/internal/knobs"
)

// generateActivities rolls each of the template's activity specs once per
// tick. Each spec emits zero or one activity, independently of the others.
// The knob scaling is centered so intensity 0.5 leaves base chances intact.
func (e *Engine) generateActivities(av *ActiveEvent, tpl catalog.Template, _ galaxy.Snapshot) []Activity {
	intensity := e.Knobs.Value(knobs.EventIntensity)
	scale := 0.5 + intensity

	var out []Activity
	for _, spec := range tpl.Activities {
		chance := spec.Chance * scale
		if chance > 1 {
			chance = 1
		}
		if e.Rand.Float() >= chance {
			continue
		}

		impact := make(map[string]float64, len(spec.Impact))
		for system, delta := range spec.Impact {
			impact[system] = delta
		}

		out = append(out, Activity{
			ID:           newID("activity"),
			Type:         spec.Type,
			Category:     spec.Category,
			Participants: e.activityParticipants(av, spec.Participants),
			Outcome:      spec.Outcome,
			Impact:       impact,
		})
	}
	return out
}

// activityParticipants selects a random subset of the event's participants.
// A count of 0 means the whole roster takes part (crisis planning sessions).
func (e *Engine) activityParticipants(av *ActiveEvent, count int) []string {
	if count <= 0 || count >= len(av.Participants) {
		out := make([]string, len(av.Participants))
		copy(out, av.Participants)
		return out
	}

	pool := make([]string, len(av.Participants))
	copy(pool, av.Participants)
	entropy.ShuffleStrings(e.Rand, pool)
	return pool[:count]
}
