/* teamnames.go
 * Fuzzy matching of user-typed team names against the teams playing today,
 * used by the analytics picker so "navi" finds "Natus Vincere".
 * Authors: Zachary Bower
 */

package logic

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"matchbot/api/shared"
)

// FindTeam resolves a user-typed name against a list of candidate teams.
// Matching is case-insensitive and fuzzy; an exact match beats fuzzy ranks.
// Returns false when nothing matches.
func FindTeam(query string, teams []shared.Team) (shared.Team, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return shared.Team{}, false
	}

	// Lowercase lookup so the caller gets the original casing back
	lookup := make(map[string]shared.Team, len(teams))
	var names []string
	for _, team := range teams {
		if !team.Known() {
			continue
		}
		lower := strings.ToLower(team.Name)
		if _, dup := lookup[lower]; dup {
			continue
		}
		lookup[lower] = team
		names = append(names, lower)
	}

	results := fuzzy.RankFind(query, names)
	if len(results) == 0 {
		return shared.Team{}, false
	}

	// Prefer an exact hit when several names fuzzily match
	best := results[0].Target
	for _, r := range results {
		if r.Target == query {
			best = r.Target
			break
		}
	}
	return lookup[best], true
}

// TeamsIn collects the distinct announced teams across a list of matches, in
// encounter order. TBD slots are skipped.
func TeamsIn(matches []shared.Match) []shared.Team {
	seen := make(map[string]bool)
	var teams []shared.Team
	for _, m := range matches {
		for _, team := range []shared.Team{m.Team1, m.Team2} {
			if !team.Known() || seen[team.ID] {
				continue
			}
			seen[team.ID] = true
			teams = append(teams, team)
		}
	}
	return teams
}
