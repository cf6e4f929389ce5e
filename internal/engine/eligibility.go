// Participant eligibility and selection.
package engine

import (
	"errors"
	"sort"

	"github.com/talgya/galactic-events/internal/catalog"
	"github.com/talgya/galactic-events/internal/entropy"
	"github.com/talgya/galactic-events/internal/galaxy"
)

// ErrInsufficient signals that a due event cannot start because too few
// civilizations qualify. A deferral, not a failure: the instance stays
// scheduled and retries next tick.
var ErrInsufficient = errors.New("not enough eligible participants")

// eligibleCandidates filters all known civilizations against a template's
// requirements. Every requirement is a minimum threshold on a snapshot score.
func eligibleCandidates(tpl catalog.Template, snap galaxy.Snapshot) []string {
	var pool []string
	for civID := range snap.Civilizations {
		if meetsRequirements(civID, tpl, snap) {
			pool = append(pool, civID)
		}
	}
	// Map iteration order is random; sort so seeded runs stay reproducible.
	sort.Strings(pool)
	return pool
}

func meetsRequirements(civID string, tpl catalog.Template, snap galaxy.Snapshot) bool {
	for metric, threshold := range tpl.Requirements {
		if snap.Score(civID, metric) < threshold {
			return false
		}
	}
	return true
}

// selectParticipants picks a uniform random subset of eligible civilizations
// within the template's participant bounds. Selection is unweighted; whether
// historical success should bias it is tracked as a possible future policy,
// and ParticipantHistory retains the data either way.
func (e *Engine) selectParticipants(tpl catalog.Template, snap galaxy.Snapshot) ([]string, error) {
	pool := eligibleCandidates(tpl, snap)
	if len(pool) < tpl.MinParticipants {
		return nil, ErrInsufficient
	}

	upper := tpl.MaxParticipants
	if len(pool) < upper {
		upper = len(pool)
	}
	k := tpl.MinParticipants + entropy.Intn(e.Rand, upper-tpl.MinParticipants+1)

	entropy.ShuffleStrings(e.Rand, pool)
	return pool[:k], nil
}
