/* main.go
 * The "main" method for running the bot. For details about the bot see `readme.md`
 * Usage: go run main.go -listen=":8080" -ttl=300
 * Authors: Zachary Bower
 */

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"matchbot/api"
	"matchbot/api/external"
	"matchbot/api/match"
	"matchbot/api/notify"
	"matchbot/api/shared"
	"matchbot/api/store"
	"matchbot/bot"
	"matchbot/web"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, relying on process environment")
	}

	// Flags
	listenPtr := flag.String("listen", ":8080", "Listen address for the status HTTP server")
	ttlPtr := flag.String("ttl", "", "Match cache TTL as seconds or a duration, e.g. 300 or 5m (default 5m)")
	intervalPtr := flag.String("interval", "", "Notification poll cadence, e.g. 300 or 5m (default 5m)")
	leadPtr := flag.String("lead", "", "How long before start a match alert fires, e.g. 900 or 15m (default 15m)")
	baseURLPtr := flag.String("apiurl", external.DefaultBaseURL, "Base URL of the match data API")
	flag.Parse()

	discordToken := os.Getenv("DISCORD_TOKEN")
	if discordToken == "" {
		log.Fatal().Msg("DISCORD_TOKEN is not set")
	}
	apiToken := os.Getenv("MATCHDATA_API_TOKEN")
	if apiToken == "" {
		log.Fatal().Msg("MATCHDATA_API_TOKEN is not set")
	}

	ttl, err := parseDurationFlag(*ttlPtr, match.DefaultTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -ttl flag")
	}
	interval, err := parseDurationFlag(*intervalPtr, notify.DefaultInterval)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -interval flag")
	}
	leadTime, err := parseDurationFlag(*leadPtr, notify.DefaultLeadTime)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -lead flag")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Wire the provider, aggregator, state store and facade
	client := external.NewClient(*baseURLPtr, apiToken, log)
	aggregator := match.NewAggregator(client, ttl, log)
	aggregator.StartEviction(ctx, ttl)
	st := store.NewStore()

	apiPtr, err := api.NewAPI(aggregator, st, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize API")
	}

	matchBot, err := bot.NewBot(discordToken, apiPtr, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize bot")
	}

	scheduler := notify.NewScheduler(aggregator, st, matchBot, shared.Games, interval, leadTime, log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return matchBot.Run(ctx)
	})
	g.Go(func() error {
		scheduler.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return web.Start(ctx, web.Config{Addr: *listenPtr, Cache: aggregator, Store: st}, log)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("bot stopped")
	}
}
