/* aggregator.go
 * The match aggregator turns raw provider records into deduplicated, typed
 * match collections, consulting the TTL cache before every upstream call.
 * All operations fail soft: an upstream error is logged and yields an empty
 * slice, never an error surfaced to callers, so a provider outage degrades
 * the bot instead of breaking it.
 * Authors: Zachary Bower
 */

package match

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"matchbot/api/cache"
	"matchbot/api/external"
	"matchbot/api/shared"
)

// DefaultTTL is the reference freshness window for both match lists and team
// histories. It is a tuning value, not a derived one; override via NewAggregator.
const DefaultTTL = 300 * time.Second

// Provider is the capability the aggregator consumes to reach the match data
// API. *external.Client satisfies it; tests supply fakes.
type Provider interface {
	ListMatches(ctx context.Context, game shared.Game, f external.Filters) ([]external.MatchRecord, error)
	ListTeamMatches(ctx context.Context, teamID string, f external.Filters) ([]external.MatchRecord, error)
}

// Aggregator serves match and team-history collections out of a TTL cache,
// fetching from the provider only on expiry.
type Aggregator struct {
	provider Provider
	cache    *cache.Cache[[]shared.Match]
	ttl      time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// NewAggregator creates an aggregator with the wall clock. A ttl of zero
// selects DefaultTTL.
func NewAggregator(provider Provider, ttl time.Duration, log zerolog.Logger) *Aggregator {
	return NewAggregatorWithClock(provider, ttl, log, time.Now)
}

// NewAggregatorWithClock is NewAggregator with a caller-supplied clock, used
// by tests to control the current day and cache expiry.
func NewAggregatorWithClock(provider Provider, ttl time.Duration, log zerolog.Logger, now func() time.Time) *Aggregator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Aggregator{
		provider: provider,
		cache:    cache.NewWithClock[[]shared.Match](now),
		ttl:      ttl,
		now:      now,
		log:      log.With().Str("component", "aggregator").Logger(),
	}
}

// UpcomingMatches returns the matches for game scheduled on the current UTC
// date, ordered by ascending start time. Empty on upstream failure.
func (a *Aggregator) UpcomingMatches(ctx context.Context, game shared.Game) []shared.Match {
	return a.MatchesOn(ctx, game, a.now().UTC().Format("2006-01-02"))
}

// MatchesOn returns the matches for game on the given UTC date ("2006-01-02"),
// ordered by ascending start time. Empty on upstream failure.
func (a *Aggregator) MatchesOn(ctx context.Context, game shared.Game, day string) []shared.Match {
	key := cache.Key{Kind: "matches", Ref: fmt.Sprintf("%s|%s", game, day)}
	return a.listMatches(ctx, key, game, external.Filters{Day: day})
}

// LiveMatches returns the currently running matches for game. Empty on
// upstream failure.
func (a *Aggregator) LiveMatches(ctx context.Context, game shared.Game) []shared.Match {
	key := cache.Key{Kind: "live", Ref: string(game)}
	return a.listMatches(ctx, key, game, external.Filters{Live: true})
}

// TeamHistory returns up to limit past matches involving teamID, most recent
// first. Matches of any status are included; statistics functions decide what
// counts. Empty on upstream failure.
func (a *Aggregator) TeamHistory(ctx context.Context, teamID string, limit int) []shared.Match {
	if limit <= 0 {
		limit = 20
	}
	key := cache.Key{Kind: "history", Ref: fmt.Sprintf("%s|%d", teamID, limit)}

	matches, err := a.cache.GetOrFetch(key, a.ttl, func() ([]shared.Match, error) {
		records, err := a.provider.ListTeamMatches(ctx, teamID, external.Filters{Limit: limit})
		if err != nil {
			return nil, err
		}
		history := a.convert(records, "")
		sort.SliceStable(history, func(i, j int) bool {
			return history[i].ScheduledAt.After(history[j].ScheduledAt)
		})
		if len(history) > limit {
			history = history[:limit]
		}
		return history, nil
	})
	if err != nil {
		a.log.Warn().Err(err).Str("team", teamID).Msg("team history fetch failed, returning empty history")
		return nil
	}
	return matches
}

// CacheStats reports total and live cache entries for the status endpoint.
func (a *Aggregator) CacheStats() (total, live int) {
	return a.cache.Stats()
}

// StartEviction begins the background cache sweep. Optional; expiry is lazy
// either way.
func (a *Aggregator) StartEviction(ctx context.Context, interval time.Duration) {
	a.cache.StartEviction(ctx, interval)
}

func (a *Aggregator) listMatches(ctx context.Context, key cache.Key, game shared.Game, f external.Filters) []shared.Match {
	matches, err := a.cache.GetOrFetch(key, a.ttl, func() ([]shared.Match, error) {
		records, err := a.provider.ListMatches(ctx, game, f)
		if err != nil {
			return nil, err
		}
		list := a.convert(records, game)
		sort.SliceStable(list, func(i, j int) bool {
			// Matches without a published start time sink to the end
			switch {
			case !list[i].HasSchedule():
				return false
			case !list[j].HasSchedule():
				return true
			default:
				return list[i].ScheduledAt.Before(list[j].ScheduledAt)
			}
		})
		return list, nil
	})
	if err != nil {
		a.log.Warn().Err(err).Str("game", string(game)).Msg("match list fetch failed, returning empty list")
		return nil
	}
	return matches
}

// convert maps raw records to matches, skipping malformed records one at a
// time and deduplicating by match id.
func (a *Aggregator) convert(records []external.MatchRecord, game shared.Game) []shared.Match {
	seen := make(map[string]bool, len(records))
	matches := make([]shared.Match, 0, len(records))
	for _, record := range records {
		m, err := record.ToMatch(game)
		if err != nil {
			a.log.Warn().Err(err).Int64("record_id", record.ID).Msg("skipping malformed provider record")
			continue
		}
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		matches = append(matches, m)
	}
	return matches
}
