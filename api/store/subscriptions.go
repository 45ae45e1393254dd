/* subscriptions.go
 * Tracks which users want match-start alerts for which game. The scheduler
 * reads the subscriber list each poll cycle, so unsubscribing takes effect on
 * the next cycle without any coordination.
 * Authors: Zachary Bower
 */

package store

import (
	"sort"

	"matchbot/api/shared"
)

// Subscribe registers userID for match-start alerts for game.
func (s *Store) Subscribe(userID string, game shared.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.subscriptions[game]
	if !ok {
		set = make(map[string]bool)
		s.subscriptions[game] = set
	}
	set[userID] = true
}

// Unsubscribe removes userID's alert subscription for game. Removing a user
// who never subscribed is a no-op.
func (s *Store) Unsubscribe(userID string, game shared.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscriptions[game], userID)
}

// Subscribers returns the ids subscribed to game, sorted for deterministic
// delivery order.
func (s *Store) Subscribers(game shared.Game) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.subscriptions[game]))
	for id := range s.subscriptions[game] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SubscriberCounts reports per-game subscriber totals for the status endpoint.
func (s *Store) SubscriberCounts() map[shared.Game]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[shared.Game]int, len(s.subscriptions))
	for game, set := range s.subscriptions {
		counts[game] = len(set)
	}
	return counts
}
