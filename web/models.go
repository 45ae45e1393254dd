package web

import (
	"time"

	"matchbot/api/store"
)

// CacheStats is the slice of the match aggregator the status page reads.
type CacheStats interface {
	CacheStats() (total, live int)
}

// Config holds the configuration for the web server
type Config struct {
	Addr  string
	Cache CacheStats
	Store *store.Store
}

// Server is the HTTP server that reports bot health and cache state
type Server struct {
	cache   CacheStats
	store   *store.Store
	started time.Time
}

// NewServer wires the status handlers to their data sources
func NewServer(cache CacheStats, st *store.Store) *Server {
	return &Server{
		cache:   cache,
		store:   st,
		started: time.Now(),
	}
}
