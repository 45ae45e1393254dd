/* api_test.go
 * Contains unit tests for the API facade methods using a mock aggregator.
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchbot/api/shared"
	"matchbot/api/store"
)

// mockAggregator serves canned collections keyed by game and team
type mockAggregator struct {
	upcoming  map[shared.Game][]shared.Match
	live      map[shared.Game][]shared.Match
	histories map[string][]shared.Match
}

func (m *mockAggregator) UpcomingMatches(ctx context.Context, game shared.Game) []shared.Match {
	return m.upcoming[game]
}

func (m *mockAggregator) LiveMatches(ctx context.Context, game shared.Game) []shared.Match {
	return m.live[game]
}

func (m *mockAggregator) TeamHistory(ctx context.Context, teamID string, limit int) []shared.Match {
	return m.histories[teamID]
}

var (
	alpha = shared.Team{ID: "11", Name: "Team Alpha"}
	beta  = shared.Team{ID: "22", Name: "Team Beta"}
	gamma = shared.Team{ID: "33", Name: "Team Gamma"}
	delta = shared.Team{ID: "44", Name: "Team Delta"}
)

func won(id string, team1, team2 shared.Team, winner shared.Team) shared.Match {
	return shared.Match{
		ID:       id,
		Team1:    team1,
		Team2:    team2,
		Status:   shared.StatusFinished,
		WinnerID: winner.ID,
	}
}

func newTestAPI(t *testing.T, agg *mockAggregator) *API {
	t.Helper()
	a, err := NewAPI(agg, store.NewStore(), zerolog.Nop())
	require.NoError(t, err)
	return a
}

func fixtureMatch(id string, team1, team2 shared.Team) shared.Match {
	return shared.Match{
		ID:          id,
		Game:        shared.GameCS2,
		Team1:       team1,
		Team2:       team2,
		ScheduledAt: time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
		Tournament:  "BLAST Premier",
		Status:      shared.StatusNotStarted,
	}
}

func TestNewAPI_RequiresCollaborators(t *testing.T) {
	_, err := NewAPI(nil, store.NewStore(), zerolog.Nop())
	assert.Error(t, err)

	_, err = NewAPI(&mockAggregator{}, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestUpcomingList_NumbersMatchesAndArmsPicker(t *testing.T) {
	agg := &mockAggregator{upcoming: map[shared.Game][]shared.Match{
		shared.GameCS2: {
			fixtureMatch("m1", alpha, beta),
			fixtureMatch("m2", gamma, delta),
		},
	}}
	a := newTestAPI(t, agg)

	response := a.UpcomingList(context.Background(), "u1", shared.GameCS2)

	assert.Contains(t, response, "1. Team Alpha VS Team Beta")
	assert.Contains(t, response, "2. Team Gamma VS Team Delta")
	assert.Contains(t, response, "[BLAST Premier]")

	// The picker resolves against exactly what was shown
	game, ok := a.Store.Game("u1")
	require.True(t, ok)
	assert.Equal(t, shared.GameCS2, game)
	m, err := a.Store.ResolvePendingChoice("u1", 2)
	require.NoError(t, err)
	assert.Equal(t, "m2", m.ID)
}

func TestUpcomingList_EmptyMessage(t *testing.T) {
	a := newTestAPI(t, &mockAggregator{})

	response := a.UpcomingList(context.Background(), "u1", shared.GameDota2)

	assert.Equal(t, "No upcoming dota2 matches today.", response)
}

func TestUpcomingList_TBDMatchesStillListed(t *testing.T) {
	m := fixtureMatch("m1", alpha, shared.TBD)
	agg := &mockAggregator{upcoming: map[shared.Game][]shared.Match{shared.GameCS2: {m}}}
	a := newTestAPI(t, agg)

	response := a.UpcomingList(context.Background(), "u1", shared.GameCS2)

	assert.Contains(t, response, "Team Alpha VS TBD")
}

func TestLiveList_RendersRunningMatches(t *testing.T) {
	m := fixtureMatch("m1", alpha, beta)
	m.Status = shared.StatusRunning
	agg := &mockAggregator{live: map[shared.Game][]shared.Match{shared.GameCS2: {m}}}
	a := newTestAPI(t, agg)

	response := a.LiveList(context.Background(), shared.GameCS2)

	assert.Contains(t, response, "Live cs2 matches:")
	assert.Contains(t, response, "Team Alpha VS Team Beta")
}

func TestLiveList_EmptyMessage(t *testing.T) {
	a := newTestAPI(t, &mockAggregator{})

	assert.Equal(t, "No live cs2 matches right now.", a.LiveList(context.Background(), shared.GameCS2))
}

func TestAnalytics_FullReport(t *testing.T) {
	agg := &mockAggregator{histories: map[string][]shared.Match{
		alpha.ID: {
			won("h1", alpha, beta, alpha),
			won("h2", alpha, gamma, alpha),
			won("h3", alpha, beta, beta),
		},
		beta.ID: {
			won("h1", beta, alpha, alpha),
			won("h4", beta, delta, delta),
		},
	}}
	a := newTestAPI(t, agg)

	report, err := a.Analytics(context.Background(), fixtureMatch("m1", alpha, beta))

	require.NoError(t, err)
	assert.Contains(t, report, "Team Alpha: 67% win rate, form WWL")
	assert.Contains(t, report, "Team Beta: 0% win rate, form LL")
	assert.Contains(t, report, "Head to head: Team Alpha 1 - 1 Team Beta")
	assert.Contains(t, report, "Prediction: Team Alpha")
}

func TestAnalytics_UnconfirmedTeamsRejected(t *testing.T) {
	a := newTestAPI(t, &mockAggregator{})

	_, err := a.Analytics(context.Background(), fixtureMatch("m1", alpha, shared.TBD))

	assert.ErrorIs(t, err, ErrTeamsUnconfirmed)
}

func TestAnalytics_NoHistoryIsNeutral(t *testing.T) {
	a := newTestAPI(t, &mockAggregator{})

	report, err := a.Analytics(context.Background(), fixtureMatch("m1", alpha, beta))

	require.NoError(t, err)
	assert.Contains(t, report, "Team Alpha: 50% win rate, no recent results")
	assert.Contains(t, report, "Head to head: no previous meetings")
	assert.Contains(t, report, "Prediction: Team Alpha 50% - 50% Team Beta")
}

func TestAnalyticsByNumber_ResolvesPendingChoice(t *testing.T) {
	agg := &mockAggregator{upcoming: map[shared.Game][]shared.Match{
		shared.GameCS2: {fixtureMatch("m1", alpha, beta)},
	}}
	a := newTestAPI(t, agg)
	a.UpcomingList(context.Background(), "u1", shared.GameCS2)

	report, err := a.AnalyticsByNumber(context.Background(), "u1", 1)

	require.NoError(t, err)
	assert.Contains(t, report, "Prediction:")
}

func TestAnalyticsByNumber_SelectionErrorsSurface(t *testing.T) {
	a := newTestAPI(t, &mockAggregator{})

	_, err := a.AnalyticsByNumber(context.Background(), "u1", 1)
	assert.ErrorIs(t, err, store.ErrNoPendingSelection)

	a.Store.SetPendingChoices("u1", []shared.Match{fixtureMatch("m1", alpha, beta)})
	_, err = a.AnalyticsByNumber(context.Background(), "u1", 5)
	assert.ErrorIs(t, err, store.ErrChoiceOutOfRange)
}

func TestAnalyticsByTeam_FuzzyResolvesAgainstTodaysTeams(t *testing.T) {
	agg := &mockAggregator{upcoming: map[shared.Game][]shared.Match{
		shared.GameCS2: {fixtureMatch("m1", alpha, beta)},
	}}
	a := newTestAPI(t, agg)
	a.Store.SetGame("u1", shared.GameCS2)

	report, err := a.AnalyticsByTeam(context.Background(), "u1", "alpha")

	require.NoError(t, err)
	assert.Contains(t, report, "Team Alpha VS Team Beta")
}

func TestAnalyticsByTeam_UnknownTeam(t *testing.T) {
	agg := &mockAggregator{upcoming: map[shared.Game][]shared.Match{
		shared.GameCS2: {fixtureMatch("m1", alpha, beta)},
	}}
	a := newTestAPI(t, agg)

	_, err := a.AnalyticsByTeam(context.Background(), "u1", "zzzzz")

	assert.ErrorIs(t, err, ErrTeamNotPlaying)
}

func TestExpress_PicksFavoritesAndSkipsUnusableMatches(t *testing.T) {
	started := fixtureMatch("m3", gamma, delta)
	started.Status = shared.StatusRunning
	agg := &mockAggregator{
		upcoming: map[shared.Game][]shared.Match{
			shared.GameCS2: {
				fixtureMatch("m1", alpha, beta),
				fixtureMatch("m2", gamma, shared.TBD), // unusable: TBD
				started,                               // unusable: already running
			},
		},
		histories: map[string][]shared.Match{
			alpha.ID: {won("h1", alpha, gamma, alpha), won("h2", alpha, delta, alpha)},
			beta.ID:  {won("h3", beta, gamma, gamma), won("h4", beta, delta, delta)},
		},
	}
	a := newTestAPI(t, agg)

	response := a.Express(context.Background(), shared.GameCS2)

	assert.Contains(t, response, "Express for cs2 today (1 picks):")
	assert.Contains(t, response, "1. Team Alpha to beat Team Beta")
	assert.Contains(t, response, "Combined confidence:")
	assert.NotContains(t, response, "Team Gamma")
}

func TestExpress_NoOpenMatches(t *testing.T) {
	a := newTestAPI(t, &mockAggregator{})

	response := a.Express(context.Background(), shared.GameCS2)

	assert.Equal(t, "No open cs2 matches to build an express from today.", response)
}
