// Package galaxy defines the read-only game-state snapshot the event engine
// consumes, plus a deterministic synthetic generator for drivers and demos.
package galaxy

// Scores is a named set of per-civilization metrics (economic strength,
// diplomatic standing, research level, ...). Score scales are metric-specific:
// most are unit-interval, civilization_level runs 1–6, trade_volume is an
// absolute credit figure.
type Scores map[string]float64

// Snapshot is the immutable view of galactic state for one tick. The engine
// never mutates it.
type Snapshot struct {
	CrisisLevel               float64           `json:"crisis_level"`
	TechnologicalBreakthrough bool              `json:"technological_breakthrough"`
	Civilizations             map[string]Scores `json:"civilizations"`
}

// Score returns a civilization's score for a metric, or 0 if unknown.
func (s Snapshot) Score(civID, metric string) float64 {
	scores, ok := s.Civilizations[civID]
	if !ok {
		return 0
	}
	return scores[metric]
}

// Metric names the engine's built-in templates check against.
const (
	MetricCivLevel       = "civilization_level"
	MetricDiploStanding  = "diplomatic_standing"
	MetricEconomic       = "economic_strength"
	MetricTradeVolume    = "trade_volume"
	MetricResearch       = "research_level"
	MetricEducation      = "education_index"
	MetricConflict       = "conflict_level"
	MetricDiploCapable   = "diplomatic_capability"
	MetricCulturalDiv    = "cultural_diversity"
	MetricArtistic       = "artistic_development"
	MetricResponseCap    = "response_capability"
)
