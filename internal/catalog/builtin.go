package catalog

// Target system names for impact vectors and activity deltas. The engine
// reports effects keyed by these; forwarding them to the actual subsystems is
// the caller's job.
const (
	SysCulture    = "culture"
	SysDiplomacy  = "diplomacy"
	SysEconomy    = "economy"
	SysSociety    = "society"
	SysTechnology = "technology"
	SysEducation  = "education"
	SysMilitary   = "military"
	SysTourism    = "tourism"
	SysGovernance = "governance"
	SysHealth     = "health"
	SysCommerce   = "commerce"
)

// TypeCrisisSummit is the only built-in ad-hoc template; the proposal path
// references it by name.
const TypeCrisisSummit = "crisis_summit"

// Builtin returns the standard galactic event catalog.
func Builtin() *Catalog {
	return New(
		Template{
			Type:            "galactic_olympics",
			Name:            "Galactic Olympics",
			Recurrence:      4 * Year,
			Duration:        30 * Day,
			MinParticipants: 3,
			MaxParticipants: 20,
			Categories:      []string{"athletics", "technology", "arts", "diplomacy", "innovation"},
			Impacts: map[string]float64{
				SysCulture:   0.8,
				SysDiplomacy: 0.7,
				SysEconomy:   0.6,
				SysSociety:   0.9,
			},
			Requirements: map[string]float64{
				"civilization_level":  3,
				"diplomatic_standing": 0.4,
			},
			Activities: []ActivitySpec{
				{
					Type: "athletic_competition", Category: "athletics",
					Outcome: "medal_ceremony", Chance: 0.4, Participants: 3,
					Impact: map[string]float64{SysCulture: 1, SysSociety: 1},
				},
				{
					Type: "technology_showcase", Category: "technology",
					Outcome: "innovation_recognition", Chance: 0.3, Participants: 2,
					Impact: map[string]float64{SysEducation: 1, SysCommerce: 1},
				},
			},
		},
		Template{
			Type:            "trade_summit",
			Name:            "Galactic Trade Summit",
			Recurrence:      2 * Year,
			Duration:        14 * Day,
			MinParticipants: 2,
			MaxParticipants: 15,
			Categories:      []string{"trade_agreements", "resource_sharing", "technology_transfer", "currency_cooperation"},
			Impacts: map[string]float64{
				SysEconomy:    0.9,
				SysDiplomacy:  0.6,
				SysTechnology: 0.5,
			},
			Requirements: map[string]float64{
				"economic_strength": 0.3,
				"trade_volume":      1000000,
			},
			Activities: []ActivitySpec{
				{
					Type: "trade_negotiation", Category: "trade_agreements",
					Outcome: "trade_deal_signed", Chance: 0.5, Participants: 2,
					Impact: map[string]float64{SysCommerce: 2, SysDiplomacy: 1},
				},
			},
		},
		Template{
			Type:            "science_conference",
			Name:            "Interstellar Science Conference",
			Recurrence:      3 * Year,
			Duration:        21 * Day,
			MinParticipants: 2,
			MaxParticipants: 12,
			Categories:      []string{"research_collaboration", "knowledge_sharing", "joint_projects", "innovation_showcase"},
			Impacts: map[string]float64{
				SysTechnology: 0.9,
				SysEducation:  0.8,
				SysCulture:    0.4,
				SysEconomy:    0.3,
			},
			Requirements: map[string]float64{
				"research_level":  0.5,
				"education_index": 0.4,
			},
			Activities: []ActivitySpec{
				{
					Type: "research_presentation", Category: "knowledge_sharing",
					Outcome: "breakthrough_shared", Chance: 0.4, Participants: 1,
					Impact: map[string]float64{SysEducation: 2, SysHealth: 1},
				},
			},
		},
		Template{
			Type:            "peace_summit",
			Name:            "Galactic Peace Summit",
			Recurrence:      5 * Year,
			Duration:        7 * Day,
			MinParticipants: 2,
			MaxParticipants: 10,
			Categories:      []string{"conflict_resolution", "peace_treaties", "disarmament", "humanitarian_cooperation"},
			Impacts: map[string]float64{
				SysDiplomacy: 0.9,
				SysMilitary:  -0.3, // eases military tension
				SysSociety:   0.6,
				SysCulture:   0.5,
			},
			Requirements: map[string]float64{
				"conflict_level":        0.3, // only worth convening when there is friction
				"diplomatic_capability": 0.4,
			},
			Activities: []ActivitySpec{
				{
					Type: "peace_negotiation", Category: "conflict_resolution",
					Outcome: "ceasefire_agreement", Chance: 0.6, Participants: 2,
					Impact: map[string]float64{SysDiplomacy: 2, SysMilitary: -1},
				},
			},
		},
		Template{
			Type:            "cultural_festival",
			Name:            "Galactic Cultural Exchange Festival",
			Recurrence:      Year + Year/2,
			Duration:        10 * Day,
			MinParticipants: 3,
			MaxParticipants: 25,
			Categories:      []string{"art_exhibition", "music_performance", "culinary_exchange", "literature_sharing"},
			Impacts: map[string]float64{
				SysCulture:   0.9,
				SysSociety:   0.8,
				SysDiplomacy: 0.5,
				SysTourism:   0.7,
			},
			Requirements: map[string]float64{
				"cultural_diversity":   0.3,
				"artistic_development": 0.2,
			},
			Activities: []ActivitySpec{
				{
					Type: "cultural_performance", Category: "art_exhibition",
					Outcome: "cultural_appreciation", Chance: 0.5, Participants: 1,
					Impact: map[string]float64{SysCulture: 1, SysDiplomacy: 1},
				},
			},
		},
		Template{
			Type:            TypeCrisisSummit,
			Name:            "Emergency Crisis Response Summit",
			Recurrence:      0, // event-driven via the proposal path
			Duration:        3 * Day,
			MinParticipants: 2,
			MaxParticipants: 8,
			Categories:      []string{"crisis_response", "resource_allocation", "joint_action", "humanitarian_aid"},
			Impacts: map[string]float64{
				SysDiplomacy: 0.7,
				SysMilitary:  0.4,
				SysSociety:   0.6,
				SysEconomy:   -0.2, // summits cost resources
			},
			Requirements: map[string]float64{
				"response_capability": 0.3,
			},
			Activities: []ActivitySpec{
				{
					Type: "crisis_response_planning", Category: "joint_action",
					Outcome: "coordinated_response", Chance: 0.7, Participants: 0,
					Impact: map[string]float64{SysGovernance: 2, SysMilitary: 1},
				},
			},
		},
	)
}
