/* models.go
 * Raw record types returned by the match data provider, and the conversion
 * into the shared match type. Conversion is where malformed records get
 * rejected so a single bad record never fails a whole batch.
 * Authors: Zachary Bower
 */

package external

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"matchbot/api/shared"
)

// ErrMalformedRecord marks a provider record that is missing fields we cannot
// work without. Callers skip the record and carry on with the batch.
var ErrMalformedRecord = errors.New("malformed provider record")

// TeamRecord is a provider-side team reference.
type TeamRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OpponentRecord wraps a team slot in a match. The provider omits slots that
// are not announced yet, so a record can carry fewer than two opponents.
type OpponentRecord struct {
	Opponent TeamRecord `json:"opponent"`
}

// LeagueRecord carries the competition name a match belongs to.
type LeagueRecord struct {
	Name string `json:"name"`
}

// MatchRecord is the raw match payload from the provider.
type MatchRecord struct {
	ID        int64            `json:"id"`
	Status    string           `json:"status"`
	BeginAt   *time.Time       `json:"begin_at"`
	Opponents []OpponentRecord `json:"opponents"`
	League    *LeagueRecord    `json:"league"`
	WinnerID  *int64           `json:"winner_id"`
}

// ToMatch converts a raw record into a shared.Match for the given game.
// Records without an id or with a status we do not recognise return
// ErrMalformedRecord. A missing opponent slot becomes a TBD placeholder;
// such matches are still listable, they just carry no statistical value.
func (r MatchRecord) ToMatch(game shared.Game) (shared.Match, error) {
	if r.ID == 0 {
		return shared.Match{}, fmt.Errorf("%w: missing id", ErrMalformedRecord)
	}

	status, ok := parseStatus(r.Status)
	if !ok {
		return shared.Match{}, fmt.Errorf("%w: unknown status %q", ErrMalformedRecord, r.Status)
	}

	m := shared.Match{
		ID:     strconv.FormatInt(r.ID, 10),
		Game:   game,
		Team1:  shared.TBD,
		Team2:  shared.TBD,
		Status: status,
	}
	if len(r.Opponents) > 0 {
		m.Team1 = r.Opponents[0].toTeam()
	}
	if len(r.Opponents) > 1 {
		m.Team2 = r.Opponents[1].toTeam()
	}
	if r.BeginAt != nil {
		m.ScheduledAt = r.BeginAt.UTC()
	}
	if r.League != nil {
		m.Tournament = r.League.Name
	}
	if status == shared.StatusFinished && r.WinnerID != nil {
		m.WinnerID = strconv.FormatInt(*r.WinnerID, 10)
	}
	return m, nil
}

func (o OpponentRecord) toTeam() shared.Team {
	if o.Opponent.ID == 0 {
		return shared.TBD
	}
	return shared.Team{
		ID:   strconv.FormatInt(o.Opponent.ID, 10),
		Name: o.Opponent.Name,
	}
}

func parseStatus(s string) (shared.Status, bool) {
	switch s {
	case "not_started":
		return shared.StatusNotStarted, true
	case "running":
		return shared.StatusRunning, true
	case "finished":
		return shared.StatusFinished, true
	default:
		return "", false
	}
}
