/* models.go
 * This file contains the types that are shared between sub packages: games, teams,
 * matches and users. Match values are immutable once built; a refetch replaces the
 * whole value rather than mutating it.
 * Authors: Zachary Bower
 */

package shared

import "time"

// Game is a supported esports title. The string values double as the slugs the
// match data provider uses in its URLs.
type Game string

const (
	GameCS2   Game = "cs2"
	GameDota2 Game = "dota2"
)

// Games lists every title the bot tracks.
var Games = []Game{GameCS2, GameDota2}

// ParseGame maps a user-facing game name to a Game. Returns false for anything
// we do not track.
func ParseGame(s string) (Game, bool) {
	switch s {
	case "cs2", "csgo", "cs":
		return GameCS2, true
	case "dota2", "dota":
		return GameDota2, true
	default:
		return "", false
	}
}

// Status of a match as reported by the provider.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusRunning    Status = "running"
	StatusFinished   Status = "finished"
)

// Team is a competing entity. Immutable. A team that has not been announced yet
// has an empty ID and the display name "TBD".
type Team struct {
	ID   string
	Name string
}

// TBD is the placeholder opponent used before a slot in a match is decided.
var TBD = Team{Name: "TBD"}

// Known reports whether this is a real announced team rather than a TBD slot.
func (t Team) Known() bool {
	return t.ID != ""
}

// Match is a single fixture between two teams. ScheduledAt is zero when the
// provider has not published a start time. WinnerID is only set once the match
// is finished.
type Match struct {
	ID          string
	Game        Game
	Team1       Team
	Team2       Team
	ScheduledAt time.Time
	Tournament  string
	Status      Status
	WinnerID    string
}

// HasBothTeams reports whether both opponents are announced. Matches that fail
// this check can still be listed but carry no value for statistics.
func (m Match) HasBothTeams() bool {
	return m.Team1.Known() && m.Team2.Known()
}

// Decided reports whether the match finished with a recorded winner. Finished
// matches without a winner (forfeits the provider never resolved) count as
// undecided and are skipped by the statistics functions.
func (m Match) Decided() bool {
	return m.Status == StatusFinished && m.WinnerID != ""
}

// HasSchedule reports whether the provider published a start time.
func (m Match) HasSchedule() bool {
	return !m.ScheduledAt.IsZero()
}

// Opponent returns the other team in the match relative to teamID, and false
// if teamID is not playing in this match.
func (m Match) Opponent(teamID string) (Team, bool) {
	switch teamID {
	case m.Team1.ID:
		return m.Team2, true
	case m.Team2.ID:
		return m.Team1, true
	default:
		return Team{}, false
	}
}

// User identifies a chat user interacting with the bot.
type User struct {
	UserID   string
	Username string
}
