/* stats_test.go
 * Contains unit tests for the statistics engine. Histories are supplied
 * directly; no network mocking is needed because the functions are pure.
 * Authors: Zachary Bower
 */

package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"matchbot/api/shared"
)

const (
	teamA = "a1"
	teamB = "b1"
	teamC = "c1"
)

// decided builds a finished match between two teams with a recorded winner
func decided(id, team1ID, team2ID, winnerID string) shared.Match {
	return shared.Match{
		ID:       id,
		Team1:    shared.Team{ID: team1ID, Name: "Team " + team1ID},
		Team2:    shared.Team{ID: team2ID, Name: "Team " + team2ID},
		Status:   shared.StatusFinished,
		WinnerID: winnerID,
	}
}

// undecided builds a finished match the provider never resolved a winner for
func undecided(id, team1ID, team2ID string) shared.Match {
	return shared.Match{
		ID:     id,
		Team1:  shared.Team{ID: team1ID, Name: "Team " + team1ID},
		Team2:  shared.Team{ID: team2ID, Name: "Team " + team2ID},
		Status: shared.StatusFinished,
	}
}

// region WinRate tests

func TestWinRate_EmptyHistoryIsNeutral(t *testing.T) {
	assert.Equal(t, 50, WinRate(teamA, nil))
	assert.Equal(t, 50, WinRate(teamA, []shared.Match{}))
}

func TestWinRate_UndecidedMatchesExcludedFromBothSides(t *testing.T) {
	// 3 wins of 4 decided; the no-winner match does not count at all
	history := []shared.Match{
		decided("1", teamA, teamB, teamA),
		decided("2", teamA, teamC, teamB),
		decided("3", teamA, teamB, teamA),
		undecided("4", teamA, teamC),
		decided("5", teamA, teamC, teamA),
	}

	assert.Equal(t, 75, WinRate(teamA, history))
}

func TestWinRate_AllDecidedNoWins(t *testing.T) {
	history := []shared.Match{
		decided("1", teamA, teamB, teamB),
		decided("2", teamA, teamC, teamC),
	}

	assert.Equal(t, 0, WinRate(teamA, history))
}

func TestWinRate_OnlyUndecidedIsNeutral(t *testing.T) {
	history := []shared.Match{undecided("1", teamA, teamB)}

	assert.Equal(t, 50, WinRate(teamA, history))
}

func TestWinRate_AlwaysWithinBounds(t *testing.T) {
	history := []shared.Match{
		decided("1", teamA, teamB, teamA),
		decided("2", teamA, teamB, teamA),
		decided("3", teamA, teamB, teamA),
	}

	rate := WinRate(teamA, history)
	assert.GreaterOrEqual(t, rate, 0)
	assert.LessOrEqual(t, rate, 100)
	assert.Equal(t, 100, rate)
}

// endregion

// region Form tests

func TestForm_SkipsUndecidedWithoutConsumingSlots(t *testing.T) {
	history := []shared.Match{
		decided("1", teamA, teamB, teamA),
		decided("2", teamA, teamC, teamB),
		decided("3", teamA, teamB, teamA),
		undecided("4", teamA, teamC),
		decided("5", teamA, teamC, teamA),
	}

	form := Form(teamA, history, 5)

	assert.Equal(t, []string{"W", "L", "W", "W"}, form)
}

func TestForm_CappedAtK(t *testing.T) {
	var history []shared.Match
	for i := 0; i < 10; i++ {
		history = append(history, decided(string(rune('a'+i)), teamA, teamB, teamA))
	}

	form := Form(teamA, history, 3)

	assert.Equal(t, []string{"W", "W", "W"}, form)
}

func TestForm_DefaultLength(t *testing.T) {
	var history []shared.Match
	for i := 0; i < 10; i++ {
		history = append(history, decided(string(rune('a'+i)), teamA, teamB, teamA))
	}

	form := Form(teamA, history, 0)

	assert.Len(t, form, DefaultFormLength)
}

func TestForm_EmptyHistory(t *testing.T) {
	assert.Empty(t, Form(teamA, nil, 5))
}

// endregion

// region HeadToHead tests

func TestHeadToHead_CountsOnlyMeetingsWithOpponent(t *testing.T) {
	history := []shared.Match{
		decided("1", teamA, teamB, teamA),
		decided("2", teamA, teamC, teamC), // different opponent, ignored
		decided("3", teamB, teamA, teamB), // order flipped, still a meeting
		decided("4", teamA, teamB, teamA),
	}

	wins, total := HeadToHead(teamA, teamB, history)

	assert.Equal(t, 2, wins)
	assert.Equal(t, 3, total)
}

func TestHeadToHead_UndecidedMeetingCountsTowardTotalOnly(t *testing.T) {
	history := []shared.Match{
		decided("1", teamA, teamB, teamA),
		undecided("2", teamA, teamB),
	}

	wins, total := HeadToHead(teamA, teamB, history)

	assert.Equal(t, 1, wins)
	assert.Equal(t, 2, total)
	assert.LessOrEqual(t, wins, total)
}

func TestHeadToHead_NoMeetings(t *testing.T) {
	history := []shared.Match{decided("1", teamA, teamC, teamA)}

	wins, total := HeadToHead(teamA, teamB, history)

	assert.Equal(t, 0, wins)
	assert.Equal(t, 0, total)
}

// endregion

// region CombinedProbability tests

func TestCombinedProbability_AlwaysSumsToHundred(t *testing.T) {
	histories := [][]shared.Match{
		nil,
		{decided("1", teamA, teamB, teamA)},
		{decided("1", teamA, teamB, teamA), decided("2", teamA, teamB, teamB), undecided("3", teamA, teamB)},
	}

	for _, historyA := range histories {
		for _, historyB := range histories {
			pA, pB := CombinedProbability(teamA, teamB, historyA, historyB)
			assert.Equal(t, 100, pA+pB)
			assert.GreaterOrEqual(t, pA, 0)
			assert.LessOrEqual(t, pA, 100)
		}
	}
}

func TestCombinedProbability_NoDataIsEvenSplit(t *testing.T) {
	pA, pB := CombinedProbability(teamA, teamB, nil, nil)

	assert.Equal(t, 50, pA)
	assert.Equal(t, 50, pB)
}

func TestCombinedProbability_StrongerTeamFavored(t *testing.T) {
	historyA := []shared.Match{
		decided("1", teamA, teamC, teamA),
		decided("2", teamA, teamC, teamA),
		decided("3", teamA, teamB, teamA),
	}
	historyB := []shared.Match{
		decided("4", teamB, teamC, teamC),
		decided("5", teamB, teamC, teamC),
		decided("3", teamB, teamA, teamA),
	}

	pA, pB := CombinedProbability(teamA, teamB, historyA, historyB)

	assert.Greater(t, pA, pB)
	assert.Equal(t, 100, pA+pB)
}

func TestCombinedProbability_DeterministicForSameInput(t *testing.T) {
	historyA := []shared.Match{decided("1", teamA, teamB, teamA)}
	historyB := []shared.Match{decided("1", teamB, teamA, teamA)}

	firstA, firstB := CombinedProbability(teamA, teamB, historyA, historyB)
	secondA, secondB := CombinedProbability(teamA, teamB, historyA, historyB)

	assert.Equal(t, firstA, secondA)
	assert.Equal(t, firstB, secondB)
}

func TestWeightedProbability_CustomWeights(t *testing.T) {
	// All weight on win rate: team A won everything, team B lost everything
	historyA := []shared.Match{decided("1", teamA, teamC, teamA)}
	historyB := []shared.Match{decided("2", teamB, teamC, teamC)}

	pA, pB := WeightedProbability(teamA, teamB, historyA, historyB, Weights{WinRate: 1})

	assert.Equal(t, 100, pA)
	assert.Equal(t, 0, pB)
}

// endregion
