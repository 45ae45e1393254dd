/* api.go
 * This file contains the public methods the chat layer calls. Each method
 * orchestrates the aggregator, statistics functions and conversation state,
 * and returns ready-to-send text. For consistent results, functions should
 * only be called from this file, not the sub packages directly.
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"matchbot/api/logic"
	"matchbot/api/shared"
	"matchbot/api/store"
)

// ErrTeamsUnconfirmed marks a match that cannot be analysed because at least
// one opponent slot is still TBD. Shown to the user, not logged as a fault.
var ErrTeamsUnconfirmed = errors.New("both teams must be confirmed before analysis")

// ErrTeamNotPlaying marks a team-name query that resolved to no team in
// today's matches.
var ErrTeamNotPlaying = errors.New("no team by that name plays today")

// defaultHistoryLimit is how many past matches feed the statistics functions.
const defaultHistoryLimit = 20

// Aggregator is the slice of the match aggregator the facade needs.
type Aggregator interface {
	UpcomingMatches(ctx context.Context, game shared.Game) []shared.Match
	LiveMatches(ctx context.Context, game shared.Game) []shared.Match
	TeamHistory(ctx context.Context, teamID string, limit int) []shared.Match
}

// API provides the operations behind every bot command.
type API struct {
	Agg   Aggregator
	Store *store.Store

	historyLimit int
	weights      logic.Weights
	log          zerolog.Logger
}

// NewAPI creates the facade over an aggregator and a store.
func NewAPI(agg Aggregator, st *store.Store, log zerolog.Logger) (*API, error) {
	if agg == nil || st == nil {
		return nil, fmt.Errorf("aggregator and store are required")
	}
	return &API{
		Agg:          agg,
		Store:        st,
		historyLimit: defaultHistoryLimit,
		weights:      logic.DefaultWeights,
		log:          log.With().Str("component", "api").Logger(),
	}, nil
}

// UpcomingList renders today's matches for game as a numbered list, records
// game as the user's selection and arms the numbered analytics picker with
// exactly the matches shown.
func (a *API) UpcomingList(ctx context.Context, userID string, game shared.Game) string {
	matches := a.Agg.UpcomingMatches(ctx, game)
	a.Store.SetGame(userID, game)
	a.Store.SetPendingChoices(userID, matches)

	if len(matches) == 0 {
		return fmt.Sprintf("No upcoming %s matches today.", game)
	}

	var response strings.Builder
	response.WriteString(fmt.Sprintf("Upcoming %s matches today:\n", game))
	for i, m := range matches {
		response.WriteString(fmt.Sprintf("%d. %s\n", i+1, matchLine(m)))
	}
	response.WriteString("Use `$analytics <number>` for a match breakdown.")
	return response.String()
}

// LiveList renders the currently running matches for game.
func (a *API) LiveList(ctx context.Context, game shared.Game) string {
	matches := a.Agg.LiveMatches(ctx, game)
	if len(matches) == 0 {
		return fmt.Sprintf("No live %s matches right now.", game)
	}

	var response strings.Builder
	response.WriteString(fmt.Sprintf("Live %s matches:\n", game))
	for _, m := range matches {
		response.WriteString(fmt.Sprintf("- %s\n", matchLine(m)))
	}
	return strings.TrimRight(response.String(), "\n")
}

// AnalyticsByNumber resolves a picker number against the user's pending list
// and returns the analytics report for that match. Selection errors are
// user-visible, not system faults.
func (a *API) AnalyticsByNumber(ctx context.Context, userID string, number int) (string, error) {
	m, err := a.Store.ResolvePendingChoice(userID, number)
	if err != nil {
		return "", err
	}
	return a.Analytics(ctx, m)
}

// AnalyticsByTeam fuzzy-matches a team name against the teams playing today
// for the user's selected game and returns the report for that team's match.
func (a *API) AnalyticsByTeam(ctx context.Context, userID string, query string) (string, error) {
	game, ok := a.Store.Game(userID)
	if !ok {
		game = shared.GameCS2
	}
	matches := a.Agg.UpcomingMatches(ctx, game)

	team, ok := logic.FindTeam(query, logic.TeamsIn(matches))
	if !ok {
		return "", ErrTeamNotPlaying
	}
	for _, m := range matches {
		if m.Team1.ID == team.ID || m.Team2.ID == team.ID {
			return a.Analytics(ctx, m)
		}
	}
	return "", ErrTeamNotPlaying
}

// Analytics builds the full statistics report for one match: win rates,
// recent form, head-to-head and the combined win probabilities.
func (a *API) Analytics(ctx context.Context, m shared.Match) (string, error) {
	if !m.HasBothTeams() {
		return "", ErrTeamsUnconfirmed
	}

	historyA, historyB := a.histories(ctx, m.Team1.ID, m.Team2.ID)

	pA, pB := logic.WeightedProbability(m.Team1.ID, m.Team2.ID, historyA, historyB, a.weights)
	h2hWins, h2hTotal := logic.HeadToHead(m.Team1.ID, m.Team2.ID, historyA)

	var response strings.Builder
	response.WriteString(matchLine(m) + "\n")
	response.WriteString(teamLine(m.Team1, historyA))
	response.WriteString(teamLine(m.Team2, historyB))
	if h2hTotal == 0 {
		response.WriteString("Head to head: no previous meetings\n")
	} else {
		response.WriteString(fmt.Sprintf("Head to head: %s %d - %d %s\n",
			m.Team1.Name, h2hWins, h2hTotal-h2hWins, m.Team2.Name))
	}
	response.WriteString(fmt.Sprintf("Prediction: %s %d%% - %d%% %s", m.Team1.Name, pA, pB, m.Team2.Name))
	return response.String(), nil
}

// Express builds an accumulator across today's open matches for game: one
// favorite per match, plus the product of their probabilities as the overall
// confidence.
func (a *API) Express(ctx context.Context, game shared.Game) string {
	matches := a.Agg.UpcomingMatches(ctx, game)

	type pick struct {
		team shared.Team
		pct  int
	}
	var picks []pick
	var lines []string

	for _, m := range matches {
		if !m.HasBothTeams() || m.Status != shared.StatusNotStarted {
			continue
		}
		historyA, historyB := a.histories(ctx, m.Team1.ID, m.Team2.ID)
		pA, pB := logic.WeightedProbability(m.Team1.ID, m.Team2.ID, historyA, historyB, a.weights)

		favorite, pct := m.Team1, pA
		if pB > pA {
			favorite, pct = m.Team2, pB
		}
		picks = append(picks, pick{team: favorite, pct: pct})
		lines = append(lines, fmt.Sprintf("%d. %s to beat %s (%d%%)",
			len(picks), favorite.Name, otherTeam(m, favorite).Name, pct))
	}

	if len(picks) == 0 {
		return fmt.Sprintf("No open %s matches to build an express from today.", game)
	}

	confidence := 100.0
	for _, p := range picks {
		confidence *= float64(p.pct) / 100
	}

	var response strings.Builder
	response.WriteString(fmt.Sprintf("Express for %s today (%d picks):\n", game, len(picks)))
	for _, line := range lines {
		response.WriteString(line + "\n")
	}
	response.WriteString(fmt.Sprintf("Combined confidence: %.0f%%", confidence))
	return response.String()
}

// histories fetches both teams' histories concurrently; a failed fetch just
// yields an empty history, which the statistics functions treat as neutral.
func (a *API) histories(ctx context.Context, teamAID, teamBID string) ([]shared.Match, []shared.Match) {
	var historyA, historyB []shared.Match
	var g errgroup.Group
	g.Go(func() error {
		historyA = a.Agg.TeamHistory(ctx, teamAID, a.historyLimit)
		return nil
	})
	g.Go(func() error {
		historyB = a.Agg.TeamHistory(ctx, teamBID, a.historyLimit)
		return nil
	})
	_ = g.Wait()
	return historyA, historyB
}

// matchLine renders one match in the shared listing format.
func matchLine(m shared.Match) string {
	line := fmt.Sprintf("%s VS %s", m.Team1.Name, m.Team2.Name)
	if m.HasSchedule() {
		line += fmt.Sprintf(": <t:%d>", m.ScheduledAt.Unix())
	}
	if m.Tournament != "" {
		line += fmt.Sprintf(" [%s]", m.Tournament)
	}
	return line
}

func teamLine(team shared.Team, history []shared.Match) string {
	form := logic.Form(team.ID, history, logic.DefaultFormLength)
	formText := "no recent results"
	if len(form) > 0 {
		formText = "form " + strings.Join(form, "")
	}
	return fmt.Sprintf("%s: %d%% win rate, %s\n", team.Name, logic.WinRate(team.ID, history), formText)
}

func otherTeam(m shared.Match, team shared.Team) shared.Team {
	if m.Team1.ID == team.ID {
		return m.Team2
	}
	return m.Team1
}
