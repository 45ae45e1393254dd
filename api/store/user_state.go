/* user_state.go
 * Per-user conversation state: the selected game and an optional pending list
 * of matches awaiting a numbered selection from the analytics picker. Only the
 * chat layer calls these; the cache and statistics components never touch
 * per-user state.
 * Authors: Zachary Bower
 */

package store

import (
	"errors"

	"matchbot/api/shared"
)

var (
	// ErrNoPendingSelection is returned when a user picks a number without a
	// picker having been presented. Shown to the user, not logged as a fault.
	ErrNoPendingSelection = errors.New("no pending selection")

	// ErrChoiceOutOfRange is returned when the picked number falls outside
	// the presented list.
	ErrChoiceOutOfRange = errors.New("choice out of range")
)

// SetGame records the user's selected game, creating the context on first use.
func (s *Store) SetGame(userID string, game shared.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := s.user(userID)
	ctx.game = game
	ctx.hasGame = true
}

// Game returns the user's selected game, if any.
func (s *Store) Game(userID string) (shared.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ctx, ok := s.users[userID]
	if !ok || !ctx.hasGame {
		return "", false
	}
	return ctx.game, true
}

// SetPendingChoices stores a snapshot of the match list just presented to the
// user, so a later numbered reply resolves against exactly what they saw.
func (s *Store) SetPendingChoices(userID string, matches []shared.Match) {
	snapshot := make([]shared.Match, len(matches))
	copy(snapshot, matches)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user(userID).pending = snapshot
}

// ResolvePendingChoice maps the 1-based number the user typed back to the
// match it was presented against. The pending list stays armed so the user
// can ask about several matches from one listing.
func (s *Store) ResolvePendingChoice(userID string, number int) (shared.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ctx, ok := s.users[userID]
	if !ok || ctx.pending == nil {
		return shared.Match{}, ErrNoPendingSelection
	}
	if number < 1 || number > len(ctx.pending) {
		return shared.Match{}, ErrChoiceOutOfRange
	}
	return ctx.pending[number-1], nil
}

// Clear resets the user's conversation state, the "back" action.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
}
