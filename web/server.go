//go:build !test

/* server.go
 * Contains the HTTP server Start function that listens for incoming connections.
 * Excluded from test coverage as it blocks and requires real network binding.
 * Author: Zachary Bower
 */

package web

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Start initializes and starts the HTTP server with the given configuration,
// serving until ctx is cancelled
func Start(ctx context.Context, cfg Config, log zerolog.Logger) error {
	s := NewServer(cfg.Cache, cfg.Store)

	mux := http.NewServeMux()
	// bind handler methods that have access to s
	mux.HandleFunc("/healthz", s.HealthzHandler)
	mux.HandleFunc("/status", s.StatusHandler)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	log.Info().Str("addr", cfg.Addr).Msg("HTTP server listening")
	return serve(ctx, srv)
}
