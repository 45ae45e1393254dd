/* stats.go
 * Pure statistics functions over team history collections: win rate, recent
 * form, head-to-head and the combined win probability used for analytics and
 * express picks. No I/O, no clocks; identical inputs give identical outputs,
 * so these are tested directly against history fixtures.
 * Authors: Zachary Bower
 */

package logic

import (
	"math"

	"matchbot/api/shared"
)

// DefaultFormLength is how many recent decided matches feed the form string.
const DefaultFormLength = 5

// Weights blends the three probability components. These are tuning values
// carried over as-is; they have no derivation worth defending.
type Weights struct {
	WinRate    float64
	Form       float64
	HeadToHead float64
}

// DefaultWeights is the reference 0.5/0.3/0.2 blend.
var DefaultWeights = Weights{WinRate: 0.5, Form: 0.3, HeadToHead: 0.2}

// WinRate returns the percentage of decided matches in history won by teamID,
// as an integer 0-100. Matches without a recorded winner are excluded from
// both numerator and denominator. With no decided matches at all the result
// is a neutral 50, by definition rather than by error.
func WinRate(teamID string, history []shared.Match) int {
	wins, decided := 0, 0
	for _, m := range history {
		if !m.Decided() {
			continue
		}
		decided++
		if m.WinnerID == teamID {
			wins++
		}
	}
	if decided == 0 {
		return 50
	}
	return int(math.Round(100 * float64(wins) / float64(decided)))
}

// Form returns up to k "W"/"L" tokens for teamID over its most recent decided
// matches, most recent first (history is already ordered that way). Undecided
// matches are skipped and do not consume a slot. k <= 0 selects the default.
func Form(teamID string, history []shared.Match, k int) []string {
	if k <= 0 {
		k = DefaultFormLength
	}
	tokens := make([]string, 0, k)
	for _, m := range history {
		if len(tokens) == k {
			break
		}
		if !m.Decided() {
			continue
		}
		if m.WinnerID == teamID {
			tokens = append(tokens, "W")
		} else {
			tokens = append(tokens, "L")
		}
	}
	return tokens
}

// HeadToHead filters historyOfA down to matches where teamA met teamB and
// returns how many of those teamA won, along with the size of the filtered
// set. Undecided meetings count toward total but not wins.
func HeadToHead(teamAID, teamBID string, historyOfA []shared.Match) (wins, total int) {
	for _, m := range historyOfA {
		opponent, ok := m.Opponent(teamAID)
		if !ok || opponent.ID != teamBID {
			continue
		}
		total++
		if m.Decided() && m.WinnerID == teamAID {
			wins++
		}
	}
	return wins, total
}

// CombinedProbability blends win rate, recent form and head-to-head with the
// default weights. See WeightedProbability.
func CombinedProbability(teamAID, teamBID string, historyA, historyB []shared.Match) (pA, pB int) {
	return WeightedProbability(teamAID, teamBID, historyA, historyB, DefaultWeights)
}

// WeightedProbability computes win probabilities for two teams from their
// histories. Each side's raw score is a weighted blend of its win-rate
// fraction, its recent-form win fraction and its head-to-head win fraction
// against the other side; any component with an empty denominator contributes
// a neutral 0.5 instead. The two scores are normalised into percentages and
// rounded once, at the end, on pA; pB is its complement, so pA+pB is always
// exactly 100.
func WeightedProbability(teamAID, teamBID string, historyA, historyB []shared.Match, w Weights) (pA, pB int) {
	scoreA := blend(teamAID, teamBID, historyA, w)
	scoreB := blend(teamBID, teamAID, historyB, w)
	if scoreA+scoreB == 0 {
		return 50, 50
	}

	pA = int(math.Round(100 * scoreA / (scoreA + scoreB)))
	return pA, 100 - pA
}

func blend(teamID, opponentID string, history []shared.Match, w Weights) float64 {
	return w.WinRate*winFraction(teamID, history) +
		w.Form*formFraction(teamID, history) +
		w.HeadToHead*headToHeadFraction(teamID, opponentID, history)
}

func winFraction(teamID string, history []shared.Match) float64 {
	wins, decided := 0, 0
	for _, m := range history {
		if !m.Decided() {
			continue
		}
		decided++
		if m.WinnerID == teamID {
			wins++
		}
	}
	if decided == 0 {
		return 0.5
	}
	return float64(wins) / float64(decided)
}

func formFraction(teamID string, history []shared.Match) float64 {
	tokens := Form(teamID, history, DefaultFormLength)
	if len(tokens) == 0 {
		return 0.5
	}
	wins := 0
	for _, token := range tokens {
		if token == "W" {
			wins++
		}
	}
	return float64(wins) / float64(len(tokens))
}

func headToHeadFraction(teamID, opponentID string, history []shared.Match) float64 {
	wins, total := HeadToHead(teamID, opponentID, history)
	if total == 0 {
		return 0.5
	}
	return float64(wins) / float64(total)
}
