package engine

import (
	"math"
	"testing"
	"time"

	"github.com/talgya/galactic-events/internal/catalog"
	"github.com/talgya/galactic-events/internal/knobs"
)

func testElection(electionDate time.Time) Election {
	return Election{
		ID:             "election_1",
		CivilizationID: "galactic_senate",
		Type:           "senate_election",
		CampaignStart:  electionDate.Add(-30 * catalog.Day),
		ElectionDate:   electionDate,
		CampaignLength: 30 * catalog.Day,
		TermLength:     2 * catalog.Year,
		Parties:        []string{"unity", "reform"},
	}
}

func TestElectoralCycle(t *testing.T) {
	clock := epoch
	e := newTestEngine(catalog.New(), &stubSource{}, &clock)
	snap := testSnapshot("a")

	voteDay := epoch.Add(30 * catalog.Day)
	e.AddElection(testElection(voteDay))

	// Campaign start day: scheduled → campaign_active.
	rpt := e.Tick(snap, nil)
	foundActive := false
	for _, eu := range rpt.Elections {
		if eu.ElectionID == "election_1" && eu.Status == CampaignActive {
			foundActive = true
		}
	}
	if !foundActive {
		t.Fatal("election did not enter campaign_active at campaign start")
	}

	// Election day: campaign_active → completed, with results.
	clock = voteDay
	rpt = e.Tick(snap, nil)

	var results *ElectionResults
	for _, eu := range rpt.Elections {
		if eu.ElectionID == "election_1" && eu.Status == ElectionCompleted {
			results = eu.Results
		}
	}
	if results == nil {
		t.Fatal("election did not complete on election day")
	}

	total := 0.0
	for _, share := range results.Shares {
		total += share
	}
	if math.Abs(total-100) > 0.01 {
		t.Errorf("shares sum to %v, want 100", total)
	}
	if results.Winner == "" || results.Shares[results.Winner] != results.WinnerShare {
		t.Errorf("inconsistent winner: %+v", results)
	}
	if results.Turnout < 65 || results.Turnout > 90 {
		t.Errorf("turnout %v outside expected 65-90 band", results.Turnout)
	}
	for party, votes := range results.Votes {
		want := int64(results.Shares[party] / 100 * electionVoterBase)
		if votes != want {
			t.Errorf("%s votes = %d, want %d", party, votes, want)
		}
	}

	// Exactly one successor, one term out, still scheduled.
	elections := e.Elections()
	if len(elections) != 2 {
		t.Fatalf("elections = %d, want completed + successor", len(elections))
	}
	var successor *Election
	for i := range elections {
		if elections[i].Status == ElectionScheduled {
			successor = &elections[i]
		}
	}
	if successor == nil {
		t.Fatal("no scheduled successor")
	}
	wantDate := voteDay.Add(2 * catalog.Year)
	if !successor.ElectionDate.Equal(wantDate) {
		t.Errorf("successor election date %v, want %v", successor.ElectionDate, wantDate)
	}
	if !successor.CampaignStart.Equal(wantDate.Add(-30 * catalog.Day)) {
		t.Errorf("successor campaign start %v, want %v",
			successor.CampaignStart, wantDate.Add(-30*catalog.Day))
	}

	// A completed election must not run again.
	clock = clock.Add(catalog.Day)
	rpt = e.Tick(snap, nil)
	for _, eu := range rpt.Elections {
		if eu.ElectionID == "election_1" {
			t.Errorf("completed election produced update: %+v", eu)
		}
	}
}

func TestGeneratePollSignificantChange(t *testing.T) {
	clock := epoch
	// Draw order per party is base then delta; bases are discarded when a
	// previous poll exists, so only the delta draws matter here.
	src := &stubSource{vals: []float64{0.5, 0.99, 0.5, 0.0}}
	e := newTestEngine(catalog.New(), src, &clock)
	e.Knobs.Set(knobs.VoterEngagement, 1.0)

	el := testElection(epoch.Add(30 * catalog.Day))
	e.elections[el.ID] = &el
	e.polls[el.ID] = []*PollingSnapshot{{
		ID: "poll_0", ElectionID: el.ID,
		Shares: map[string]float64{"reform": 40, "unity": 60},
		Leader: "unity", LeaderShare: 60,
	}}

	poll := e.generatePoll(&el, epoch)

	total := 0.0
	for _, s := range poll.Shares {
		total += s
	}
	if math.Abs(total-100) > 0.01 {
		t.Errorf("poll shares sum to %v, want 100", total)
	}
	// reform swings up ~+5, unity down ~-5: the leader moves by more than the
	// 3-point significance threshold.
	if !poll.SignificantChange {
		t.Errorf("swing not flagged significant: %+v", poll.Shares)
	}
	if poll.Trends["reform"] != "rising" || poll.Trends["unity"] != "falling" {
		t.Errorf("trends = %v, want reform rising, unity falling", poll.Trends)
	}
	if poll.MarginOfError < 2.5 || poll.MarginOfError > 4.5 {
		t.Errorf("margin of error %v outside [2.5, 4.5]", poll.MarginOfError)
	}
	if poll.SampleSize < 800 || poll.SampleSize >= 2000 {
		t.Errorf("sample size %d outside [800, 2000)", poll.SampleSize)
	}
}

func TestNormalizeShares(t *testing.T) {
	shares := map[string]float64{"a": 20, "b": 30}
	normalizeShares(shares)
	if shares["a"] != 40 || shares["b"] != 60 {
		t.Errorf("normalized = %v, want a=40 b=60", shares)
	}

	zero := map[string]float64{"a": 0, "b": 0, "c": 0, "d": 0}
	normalizeShares(zero)
	for party, share := range zero {
		if share != 25 {
			t.Errorf("%s = %v after zero-total normalize, want even 25", party, share)
		}
	}
}

func TestLeadingPartyTieBreak(t *testing.T) {
	leader, share := leadingParty(map[string]float64{"zeta": 50, "alpha": 50})
	if leader != "alpha" || share != 50 {
		t.Errorf("tie broke to %q (%v), want alpha", leader, share)
	}
}

func TestCampaignActivityGeneration(t *testing.T) {
	clock := epoch
	// Low rolls force both the activity and poll chances to fire.
	src := &stubSource{vals: []float64{0.01, 0.0, 0.0, 0.01}}
	e := newTestEngine(catalog.New(), src, &clock)
	snap := testSnapshot("a")

	voteDay := epoch.Add(30 * catalog.Day)
	e.AddElection(testElection(voteDay))

	rpt := e.Tick(snap, nil)

	var activity *CampaignActivity
	for _, eu := range rpt.Elections {
		if eu.Activity != nil {
			activity = eu.Activity
		}
	}
	if activity == nil {
		t.Fatal("no campaign activity generated")
	}
	if activity.Party != "unity" && activity.Party != "reform" {
		t.Errorf("activity party %q not in election", activity.Party)
	}
	if activity.ExpectedImpact < 0 || activity.ExpectedImpact > 1 {
		t.Errorf("expected impact %v outside [0, 1]", activity.ExpectedImpact)
	}

	if len(rpt.Polls) != 1 {
		t.Fatalf("polls = %d, want 1", len(rpt.Polls))
	}
	if rpt.Polls[0].ElectionID != "election_1" {
		t.Errorf("poll election id %q", rpt.Polls[0].ElectionID)
	}
}
