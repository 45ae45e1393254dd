/* scheduler.go
 * Background loop that polls upcoming matches and fires a one-time alert per
 * match to the subscribers of that game shortly before the scheduled start.
 * The fired record is claimed before any send, so a match alerts at most once
 * per process no matter how many poll cycles observe it. A match first seen
 * after its start simply never alerts; that is accepted best-effort behaviour.
 * Authors: Zachary Bower
 */

package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"matchbot/api/shared"
)

const (
	// DefaultInterval is the reference poll cadence.
	DefaultInterval = 300 * time.Second

	// DefaultLeadTime is the reference window before a match start during
	// which its one-time alert is eligible to fire.
	DefaultLeadTime = 900 * time.Second
)

// Aggregator is the slice of the match aggregator the scheduler needs.
type Aggregator interface {
	UpcomingMatches(ctx context.Context, game shared.Game) []shared.Match
}

// AlertStore supplies subscribers and the fired-notification check-and-set.
// *store.Store satisfies it.
type AlertStore interface {
	Subscribers(game shared.Game) []string
	MarkFired(matchID string) bool
}

// Sender delivers one alert text to one user. The bot's DM sender implements
// it; a failure for one user never blocks delivery to the rest.
type Sender interface {
	Notify(ctx context.Context, userID string, text string) error
}

// Scheduler drives the poll loop. One instance runs per process; the store's
// atomic check-and-set keeps delivery at-most-once even if that assumption is
// ever violated.
type Scheduler struct {
	agg      Aggregator
	store    AlertStore
	sender   Sender
	games    []shared.Game
	interval time.Duration
	leadTime time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// NewScheduler creates a scheduler for the given games. Non-positive interval
// or lead time select the defaults.
func NewScheduler(agg Aggregator, store AlertStore, sender Sender, games []shared.Game, interval, leadTime time.Duration, log zerolog.Logger) *Scheduler {
	return NewSchedulerWithClock(agg, store, sender, games, interval, leadTime, log, time.Now)
}

// NewSchedulerWithClock is NewScheduler with a caller-supplied clock for tests.
func NewSchedulerWithClock(agg Aggregator, store AlertStore, sender Sender, games []shared.Game, interval, leadTime time.Duration, log zerolog.Logger, now func() time.Time) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if leadTime <= 0 {
		leadTime = DefaultLeadTime
	}
	return &Scheduler{
		agg:      agg,
		store:    store,
		sender:   sender,
		games:    games,
		interval: interval,
		leadTime: leadTime,
		now:      now,
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

// Run polls immediately and then on every tick until ctx is cancelled. It
// never returns an error: upstream failures are absorbed per cycle and the
// next tick retries.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info().
		Dur("interval", s.interval).
		Dur("lead_time", s.leadTime).
		Msg("notification scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("notification scheduler stopped")
			return
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

// poll runs one cycle across every tracked game. Games are polled
// concurrently and independently: a provider failure for one game yields an
// empty list for that game only and marks nothing fired.
func (s *Scheduler) poll(ctx context.Context) {
	var g errgroup.Group
	for _, game := range s.games {
		game := game
		g.Go(func() error {
			s.pollGame(ctx, game)
			return nil
		})
	}
	_ = g.Wait() // pollGame absorbs its own failures
}

func (s *Scheduler) pollGame(ctx context.Context, game shared.Game) {
	matches := s.agg.UpcomingMatches(ctx, game)
	now := s.now()

	for _, m := range matches {
		if !m.HasSchedule() || m.Status != shared.StatusNotStarted {
			continue
		}
		delta := m.ScheduledAt.Sub(now)
		if delta <= 0 || delta > s.leadTime {
			continue
		}
		// Claim the match before sending anything; the claim is never rolled
		// back, even if every send below fails.
		if !s.store.MarkFired(m.ID) {
			continue
		}
		s.alertSubscribers(ctx, game, m)
	}
}

func (s *Scheduler) alertSubscribers(ctx context.Context, game shared.Game, m shared.Match) {
	subscribers := s.store.Subscribers(game)
	text := formatAlert(m)

	delivered := 0
	for _, userID := range subscribers {
		if err := s.sender.Notify(ctx, userID, text); err != nil {
			s.log.Warn().Err(err).Str("user", userID).Str("match", m.ID).Msg("failed to deliver match alert")
			continue
		}
		delivered++
	}
	s.log.Info().
		Str("game", string(game)).
		Str("match", m.ID).
		Int("subscribers", len(subscribers)).
		Int("delivered", delivered).
		Msg("match alert fired")
}

// formatAlert renders the one-time alert text for a match.
func formatAlert(m shared.Match) string {
	line := fmt.Sprintf("Starting soon: %s VS %s <t:%d>", m.Team1.Name, m.Team2.Name, m.ScheduledAt.Unix())
	if m.Tournament != "" {
		line += fmt.Sprintf(" [%s]", m.Tournament)
	}
	return line
}
