package galaxy

import (
	"fmt"
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Synth generates plausible, smoothly drifting galactic snapshots from a seed.
// Each metric is a normalized simplex noise field sampled along sim-time, so
// scores wander instead of jumping and two Synths with the same seed produce
// identical histories.
type Synth struct {
	civs   []string
	epoch  time.Time
	metric opensimplex.Noise
	crisis opensimplex.Noise
}

// Greek-letter designations, same naming scheme the survey fleet uses.
var civNames = []string{
	"civ_alpha", "civ_beta", "civ_gamma", "civ_delta", "civ_epsilon",
	"civ_zeta", "civ_eta", "civ_theta", "civ_iota", "civ_kappa",
}

// NewSynth creates a generator for civCount civilizations (capped at the
// designation list). Snapshots are a function of time since epoch.
func NewSynth(seed int64, civCount int, epoch time.Time) *Synth {
	if civCount < 1 {
		civCount = 1
	}
	if civCount > len(civNames) {
		civCount = len(civNames)
	}
	return &Synth{
		civs:   civNames[:civCount],
		epoch:  epoch,
		metric: opensimplex.NewNormalized(seed),
		crisis: opensimplex.NewNormalized(seed + 1),
	}
}

// Civilizations returns the generated civilization ids.
func (g *Synth) Civilizations() []string {
	return g.civs
}

// At produces the snapshot for a moment in sim-time.
func (g *Synth) At(t time.Time) Snapshot {
	// One noise unit per ~90 sim-days keeps drift slow relative to event
	// durations.
	tx := t.Sub(g.epoch).Hours() / (24 * 90)

	snap := Snapshot{
		Civilizations: make(map[string]Scores, len(g.civs)),
	}

	for i, id := range g.civs {
		cy := float64(i) * 7.3 // offset civilizations into separate noise rows
		snap.Civilizations[id] = Scores{
			MetricCivLevel:      1 + 5*g.metric.Eval2(tx, cy),
			MetricDiploStanding: g.metric.Eval2(tx, cy+1),
			MetricEconomic:      g.metric.Eval2(tx, cy+2),
			MetricTradeVolume:   5_000_000 * g.metric.Eval2(tx, cy+3),
			MetricResearch:      g.metric.Eval2(tx, cy+4),
			MetricEducation:     g.metric.Eval2(tx, cy+5),
			MetricConflict:      g.metric.Eval2(tx, cy+6),
			MetricDiploCapable:  g.metric.Eval2(tx, cy+7),
			MetricCulturalDiv:   g.metric.Eval2(tx, cy+8),
			MetricArtistic:      g.metric.Eval2(tx, cy+9),
			MetricResponseCap:   g.metric.Eval2(tx, cy+10),
		}
	}

	snap.CrisisLevel = g.crisis.Eval2(tx, 0)
	// Breakthroughs are rare spikes in a fast-moving noise band.
	snap.TechnologicalBreakthrough = g.crisis.Eval2(tx*12, 50) > 0.93

	return snap
}

// Describe returns a short human-readable summary, useful for driver logs.
func (g *Synth) Describe(t time.Time) string {
	snap := g.At(t)
	return fmt.Sprintf("%d civilizations, crisis level %.2f", len(snap.Civilizations), snap.CrisisLevel)
}
