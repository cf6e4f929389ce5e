// Ad-hoc event proposals: trigger predicates evaluated against the state
// snapshot, outside the recurrence scheduler.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/talgya/galactic-events/internal/catalog"
	"github.com/talgya/galactic-events/internal/galaxy"
)

// proposeAdHocEvents checks trigger conditions and synthesizes occurrences or
// proposals. Idempotent within and across ticks: no duplicate crisis summit
// while one is scheduled or active.
func (e *Engine) proposeAdHocEvents(now time.Time, snap galaxy.Snapshot, rpt *Report) {
	if snap.CrisisLevel > e.Tuning.CrisisThreshold &&
		!e.hasTypeScheduledOrActive(catalog.TypeCrisisSummit) {
		e.proposeCrisisSummit(now, snap, rpt)
	}

	if snap.TechnologicalBreakthrough {
		rpt.Proposals = append(rpt.Proposals, Proposal{
			ID:        newID("tech_showcase"),
			EventType: "special_tech_showcase",
			Reason:    "recent technological breakthrough warrants a special showcase",
			Urgency:   "normal",
			Consequences: Effects{
				catalog.SysEducation: {"technology_showcase": 2},
				catalog.SysCommerce:  {"innovation_promotion": 1},
			},
		})
	}
}

// proposeCrisisSummit queues a crisis summit immediately, bypassing the
// recurrence horizon, and reports the proposal.
func (e *Engine) proposeCrisisSummit(now time.Time, snap galaxy.Snapshot, rpt *Report) {
	if _, err := e.Catalog.Get(catalog.TypeCrisisSummit); err != nil {
		slog.Warn("crisis trigger fired but no summit template registered")
		return
	}

	e.queueOccurrence(catalog.TypeCrisisSummit, now, now, rpt)

	rpt.Proposals = append(rpt.Proposals, Proposal{
		ID:        newID("crisis_proposal"),
		EventType: catalog.TypeCrisisSummit,
		Reason:    fmt.Sprintf("crisis level %.2f requires an emergency summit", snap.CrisisLevel),
		Urgency:   "high",
		Consequences: Effects{
			catalog.SysGovernance: {"crisis_response_readiness": 2},
			catalog.SysDiplomacy:  {"emergency_diplomacy": 1},
		},
	})
}
