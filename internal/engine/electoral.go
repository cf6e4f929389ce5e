// Electoral cycle: the sibling state machine. Elections move through
// scheduled → campaign_active → completed, and a completed election
// deterministically schedules its own successor.
package engine

import (
	"log/slog"
	"sort"
	"time"

	"github.com/talgya/galactic-events/internal/entropy"
	"github.com/talgya/galactic-events/internal/knobs"
)

// ElectionStatus moves forward only; completed is terminal for the instance.
type ElectionStatus string

const (
	ElectionScheduled ElectionStatus = "scheduled"
	CampaignActive    ElectionStatus = "campaign_active"
	ElectionCompleted ElectionStatus = "completed"
)

// Election is one electoral cycle for a civilization.
type Election struct {
	ID             string           `json:"id"`
	CivilizationID string           `json:"civilization_id"`
	Type           string           `json:"type"`
	CampaignStart  time.Time        `json:"campaign_start"`
	ElectionDate   time.Time        `json:"election_date"`
	CampaignLength time.Duration    `json:"campaign_length"`
	TermLength     time.Duration    `json:"term_length"`
	Parties        []string         `json:"parties"`
	Status         ElectionStatus   `json:"status"`
	Results        *ElectionResults `json:"results,omitempty"`
}

// ElectionResults holds final vote shares, normalized to sum to 100.
type ElectionResults struct {
	Winner      string             `json:"winner"`
	WinnerShare float64            `json:"winner_share"`
	Shares      map[string]float64 `json:"shares"`
	Votes       map[string]int64   `json:"votes"`
	Turnout     float64            `json:"turnout"`
}

// PollingSnapshot is one poll taken during an active campaign. Shares are
// normalized to 100; SignificantChange flags a leader swing of more than 3
// points since the previous snapshot.
type PollingSnapshot struct {
	ID                string             `json:"id"`
	ElectionID        string             `json:"election_id"`
	Taken             time.Time          `json:"taken"`
	Shares            map[string]float64 `json:"shares"`
	Leader            string             `json:"leader"`
	LeaderShare       float64            `json:"leader_share"`
	MarginOfError     float64            `json:"margin_of_error"`
	SampleSize        int                `json:"sample_size"`
	SignificantChange bool               `json:"significant_change"`
	Trends            map[string]string  `json:"trends,omitempty"`
}

// CampaignActivity is one knob-scaled campaign happening during an active
// campaign period. Structured fields only; narrative content belongs to the
// media layer downstream.
type CampaignActivity struct {
	ID              string    `json:"id"`
	ElectionID      string    `json:"election_id"`
	Type            string    `json:"type"`
	Party           string    `json:"party"`
	At              time.Time `json:"at"`
	ExpectedImpact  float64   `json:"expected_impact"`
	MediaWorthiness float64   `json:"media_worthiness"`
}

const electionVoterBase = 1_000_000

// campaignActivityTypes with base impact and media-worthiness weights.
var campaignActivityTypes = []struct {
	name       string
	impact     float64
	worthiness float64
}{
	{"rally_event", 0.7, 0.8},
	{"policy_announcement", 0.8, 0.9},
	{"endorsement", 0.6, 0.7},
	{"candidate_debate", 0.9, 0.95},
	{"town_hall", 0.5, 0.4},
	{"fundraiser", 0.4, 0.3},
	{"volunteer_drive", 0.3, 0.2},
	{"advertisement_campaign", 0.6, 0.5},
}

// AddElection registers an election with the engine. Safe to call between
// ticks; the id must be unique.
func (e *Engine) AddElection(el Election) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if el.Status == "" {
		el.Status = ElectionScheduled
	}
	e.elections[el.ID] = &el
	slog.Info("election registered",
		"election_id", el.ID, "type", el.Type, "election_date", el.ElectionDate)
}

// processElections advances every election one step.
func (e *Engine) processElections(now time.Time, rpt *Report) {
	for _, id := range sortedKeys(e.elections) {
		el := e.elections[id]

		if el.Status == ElectionScheduled && !now.Before(el.CampaignStart) {
			el.Status = CampaignActive
			rpt.Elections = append(rpt.Elections, ElectionUpdate{
				ElectionID: el.ID, Type: el.Type, Status: el.Status,
			})
			slog.Info("campaign period started", "election_id", el.ID, "type", el.Type)
		}

		if el.Status != CampaignActive {
			continue
		}

		if e.Rand.Float() < e.Knobs.Value(knobs.CampaignIntensity)*0.3 {
			act := e.generateCampaignActivity(el, now)
			e.campaigns[el.ID] = append(e.campaigns[el.ID], act)
			rpt.Elections = append(rpt.Elections, ElectionUpdate{
				ElectionID: el.ID, Type: el.Type, Status: el.Status, Activity: &act,
			})
		}

		if e.Rand.Float() < e.Knobs.Value(knobs.MediaCoverage)*0.2 {
			poll := e.generatePoll(el, now)
			e.polls[el.ID] = append(e.polls[el.ID], poll)
			rpt.Polls = append(rpt.Polls, *poll)
		}

		if !now.Before(el.ElectionDate) {
			e.conductElection(el, now, rpt)
		}
	}
}

func (e *Engine) generateCampaignActivity(el *Election, now time.Time) CampaignActivity {
	kind := campaignActivityTypes[entropy.Intn(e.Rand, len(campaignActivityTypes))]
	party := el.Parties[entropy.Intn(e.Rand, len(el.Parties))]

	return CampaignActivity{
		ID:              newID("campaign"),
		ElectionID:      el.ID,
		Type:            kind.name,
		Party:           party,
		At:              now,
		ExpectedImpact:  kind.impact * e.Knobs.Value(knobs.CampaignIntensity),
		MediaWorthiness: kind.worthiness * e.Knobs.Value(knobs.MediaCoverage),
	}
}

// generatePoll perturbs the previous snapshot (or seeds a fresh one) by an
// amount bounded by the voter engagement knob, then renormalizes to 100.
func (e *Engine) generatePoll(el *Election, now time.Time) *PollingSnapshot {
	prev := e.latestPoll(el.ID)
	engagement := e.Knobs.Value(knobs.VoterEngagement)

	shares := make(map[string]float64, len(el.Parties))
	for _, party := range sortedParties(el.Parties) {
		base := e.Rand.Float() * 30
		if prev != nil {
			base = prev.Shares[party]
		}
		// ±5 points at full engagement.
		delta := (e.Rand.Float() - 0.5) * 10 * engagement
		share := base + delta
		if share < 0 {
			share = 0
		}
		shares[party] = share
	}
	normalizeShares(shares)

	leader, leaderShare := leadingParty(shares)

	poll := &PollingSnapshot{
		ID:            newID("poll"),
		ElectionID:    el.ID,
		Taken:         now,
		Shares:        shares,
		Leader:        leader,
		LeaderShare:   leaderShare,
		MarginOfError: 2.5 + e.Rand.Float()*2,
		SampleSize:    800 + entropy.Intn(e.Rand, 1200),
	}

	if prev != nil {
		swing := leaderShare - prev.Shares[leader]
		if swing < 0 {
			swing = -swing
		}
		poll.SignificantChange = swing > 3

		poll.Trends = make(map[string]string, len(shares))
		for party, share := range shares {
			change := share - prev.Shares[party]
			switch {
			case change > 1:
				poll.Trends[party] = "rising"
			case change < -1:
				poll.Trends[party] = "falling"
			default:
				poll.Trends[party] = "stable"
			}
		}
	}

	return poll
}

// conductElection computes results from the latest poll plus a bounded ±5
// point perturbation, renormalized to 100, then schedules the successor.
func (e *Engine) conductElection(el *Election, now time.Time, rpt *Report) {
	latest := e.latestPoll(el.ID)

	shares := make(map[string]float64, len(el.Parties))
	for _, party := range sortedParties(el.Parties) {
		base := e.Rand.Float() * 30
		if latest != nil {
			base = latest.Shares[party]
		}
		share := base + (e.Rand.Float()-0.5)*10
		if share < 0 {
			share = 0
		}
		shares[party] = share
	}
	normalizeShares(shares)

	votes := make(map[string]int64, len(shares))
	for party, share := range shares {
		votes[party] = int64(share / 100 * electionVoterBase)
	}

	winner, winnerShare := leadingParty(shares)

	el.Status = ElectionCompleted
	el.Results = &ElectionResults{
		Winner:      winner,
		WinnerShare: winnerShare,
		Shares:      shares,
		Votes:       votes,
		Turnout:     65 + e.Rand.Float()*25,
	}

	rpt.Elections = append(rpt.Elections, ElectionUpdate{
		ElectionID: el.ID, Type: el.Type, Status: el.Status, Results: el.Results,
	})

	slog.Info("election completed",
		"election_id", el.ID,
		"winner", winner,
		"share", winnerShare,
		"turnout", el.Results.Turnout,
	)

	e.scheduleSuccessor(el, rpt)
}

// scheduleSuccessor queues the next election of the same cycle one term out.
func (e *Engine) scheduleSuccessor(completed *Election, rpt *Report) {
	nextDate := completed.ElectionDate.Add(completed.TermLength)
	next := &Election{
		ID:             newID("election"),
		CivilizationID: completed.CivilizationID,
		Type:           completed.Type,
		CampaignStart:  nextDate.Add(-completed.CampaignLength),
		ElectionDate:   nextDate,
		CampaignLength: completed.CampaignLength,
		TermLength:     completed.TermLength,
		Parties:        completed.Parties,
		Status:         ElectionScheduled,
	}
	e.elections[next.ID] = next

	rpt.Elections = append(rpt.Elections, ElectionUpdate{
		ElectionID: next.ID, Type: next.Type, Status: next.Status,
	})
	slog.Info("successor election scheduled",
		"election_id", next.ID, "type", next.Type, "election_date", next.ElectionDate)
}

func (e *Engine) latestPoll(electionID string) *PollingSnapshot {
	polls := e.polls[electionID]
	if len(polls) == 0 {
		return nil
	}
	return polls[len(polls)-1]
}

// normalizeShares rescales shares to sum to 100. An all-zero map degrades to
// an even split.
func normalizeShares(shares map[string]float64) {
	total := 0.0
	for _, v := range shares {
		total += v
	}
	if total == 0 {
		even := 100.0 / float64(len(shares))
		for k := range shares {
			shares[k] = even
		}
		return
	}
	for k, v := range shares {
		shares[k] = v / total * 100
	}
}

// leadingParty returns the party with the highest share; ties break
// lexicographically so results are stable.
func leadingParty(shares map[string]float64) (string, float64) {
	var leader string
	best := -1.0
	for _, party := range sortedKeys(shares) {
		if shares[party] > best {
			leader, best = party, shares[party]
		}
	}
	return leader, best
}

func sortedParties(parties []string) []string {
	out := make([]string, len(parties))
	copy(out, parties)
	sort.Strings(out)
	return out
}
