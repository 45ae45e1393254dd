/* status.go
 * Contains the HTTP endpoints that report bot liveness and internal state.
 * Authors: Zachary Bower
 */

package web

import (
	"encoding/json"
	"net/http"
	"time"

	"matchbot/api/shared"
)

// StatusReport is the JSON body served by /status
type StatusReport struct {
	UptimeSeconds int64          `json:"uptime_seconds"`
	CacheEntries  int            `json:"cache_entries"`
	CacheLive     int            `json:"cache_live"`
	AlertsFired   int            `json:"alerts_fired"`
	Subscribers   map[string]int `json:"subscribers"`
}

// HealthzHandler HTTP endpoint used by process supervisors to check the bot
// is up
// Preconditions: HTTP server has been started, receives HTTP ResponseWriter and Http Request
// Postconditions: Responds 200 with "ok"
func (s *Server) HealthzHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// StatusHandler HTTP endpoint that reports uptime, cache occupancy, alert and
// subscription counts
// Preconditions: HTTP server has been started, receives HTTP ResponseWriter and Http Request
// Postconditions: Responds 200 with a StatusReport JSON body
func (s *Server) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	total, live := s.cache.CacheStats()
	counts := s.store.SubscriberCounts()
	subscribers := make(map[string]int, len(shared.Games))
	for _, game := range shared.Games {
		subscribers[string(game)] = counts[game]
	}

	report := StatusReport{
		UptimeSeconds: int64(time.Since(s.started) / time.Second),
		CacheEntries:  total,
		CacheLive:     live,
		AlertsFired:   s.store.FiredCount(),
		Subscribers:   subscribers,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(report)
}
