/* records.go
 * The fired-notification record. A match id lands here at most once for the
 * process lifetime, which is what makes scheduler notifications at-most-once:
 * the mark is taken before any send and is never rolled back, even if every
 * send afterwards fails. Matches do not recur, so retention is unbounded.
 * Authors: Zachary Bower
 */

package store

// MarkFired records that a notification fired for matchID. The first caller
// gets true; every later caller gets false. Check and set happen under one
// lock so overlapping poll cycles cannot both claim a match.
func (s *Store) MarkFired(matchID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fired[matchID] {
		return false
	}
	s.fired[matchID] = true
	return true
}

// Fired reports whether a notification already fired for matchID.
func (s *Store) Fired(matchID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fired[matchID]
}

// FiredCount returns how many matches have fired so far, for the status
// endpoint.
func (s *Store) FiredCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fired)
}
