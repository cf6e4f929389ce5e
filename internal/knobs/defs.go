package knobs

import "errors"

// Errors returned by Set; Merge folds the same conditions into its report.
var (
	ErrUnknownKnob = errors.New("unknown knob")
	ErrNaNValue    = errors.New("knob value is NaN")
)

// Knob names used by the engine. Kept as constants so callers and tests don't
// drift from the registered set.
const (
	EventIntensity     = "event_intensity"
	EventImpactScale   = "event_impact_scale"
	ElectoralFrequency = "electoral_frequency"
	CampaignIntensity  = "campaign_intensity"
	VoterEngagement    = "voter_engagement"
	MediaCoverage      = "media_coverage"
	PoliticalStability = "political_stability"
	CoalitionChance    = "coalition_likelihood"
	ScandalFrequency   = "scandal_frequency"
	PolicyImpact       = "policy_impact"
)

// Defaults returns the full knob set with its bounds and starting values.
// All knobs are unit-interval dials.
func Defaults() []Def {
	return []Def{
		{Name: EventIntensity, Min: 0, Max: 1, Default: 0.5},
		{Name: EventImpactScale, Min: 0, Max: 1, Default: 0.8},
		{Name: ElectoralFrequency, Min: 0, Max: 1, Default: 0.7},
		{Name: CampaignIntensity, Min: 0, Max: 1, Default: 0.6},
		{Name: VoterEngagement, Min: 0, Max: 1, Default: 0.5},
		{Name: MediaCoverage, Min: 0, Max: 1, Default: 0.8},
		{Name: PoliticalStability, Min: 0, Max: 1, Default: 0.6},
		{Name: CoalitionChance, Min: 0, Max: 1, Default: 0.4},
		{Name: ScandalFrequency, Min: 0, Max: 1, Default: 0.2},
		{Name: PolicyImpact, Min: 0, Max: 1, Default: 0.7},
	}
}
