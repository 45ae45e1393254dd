/* store.go
 * Contains the Store struct and NewStore function. The store holds all state
 * shared between the chat handlers and the background scheduler: per-user
 * conversation context, alert subscriptions and the fired-notification record.
 * Everything lives in memory for the process lifetime; the methods for each
 * concern are split across user_state.go, subscriptions.go and records.go.
 * Authors: Zachary Bower
 */

package store

import (
	"sync"

	"matchbot/api/shared"
)

type userContext struct {
	game    shared.Game
	hasGame bool
	pending []shared.Match
}

// Store is safe for concurrent use; a single mutex guards all three maps,
// which keeps the fired check-and-set a single atomic step.
type Store struct {
	mu            sync.RWMutex
	users         map[string]*userContext
	subscriptions map[shared.Game]map[string]bool
	fired         map[string]bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:         make(map[string]*userContext),
		subscriptions: make(map[shared.Game]map[string]bool),
		fired:         make(map[string]bool),
	}
}

func (s *Store) user(userID string) *userContext {
	ctx, ok := s.users[userID]
	if !ok {
		ctx = &userContext{}
		s.users[userID] = ctx
	}
	return ctx
}
