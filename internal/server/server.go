// Package server exposes the analytics pipeline as the JSON API the
// dashboard frontend consumes. Handlers compose the pure pipeline stages per
// request; the only stateful pieces are the event snapshot, the share map,
// and the injected insight cache.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/busyhub/busyhub/internal/ai"
	"github.com/busyhub/busyhub/internal/cache"
	"github.com/busyhub/busyhub/internal/grid"
	"github.com/busyhub/busyhub/internal/history"
	"github.com/busyhub/busyhub/internal/insight"
	"github.com/busyhub/busyhub/internal/models"
	"github.com/busyhub/busyhub/internal/sanitize"
)

// EventSource supplies a year's raw events from whatever provider is
// configured.
type EventSource interface {
	EventsForYear(ctx context.Context, year int) ([]models.RawEvent, error)
}

// snapshotTTL is how long a fetched year of events is reused before the
// provider is asked again.
const snapshotTTL = 5 * time.Minute

type snapshot struct {
	result    sanitize.Result
	fetchedAt time.Time
}

type Server struct {
	logger    *slog.Logger
	source    EventSource
	aiClient  *ai.Client
	cache     cache.Store
	keywords  insight.Keywords
	userEmail string

	mu        sync.Mutex
	snapshots map[int]snapshot
	grids     map[int]*grid.Builder
	grouper   history.Grouper

	shareMu sync.Mutex
	shares  map[string]shareSnapshot
}

func New(logger *slog.Logger, source EventSource, aiClient *ai.Client, store cache.Store, kw insight.Keywords, userEmail string) *Server {
	return &Server{
		logger:    logger,
		source:    source,
		aiClient:  aiClient,
		cache:     store,
		keywords:  kw,
		userEmail: userEmail,
		snapshots: make(map[int]snapshot),
		grids:     make(map[int]*grid.Builder),
		shares:    make(map[string]shareSnapshot),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/events", s.handleEvents)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/grid", s.handleGrid)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/achievements", s.handleAchievements)
	mux.HandleFunc("POST /api/insight", s.handleInsight)
	mux.HandleFunc("POST /api/share", s.handleShare)
	mux.HandleFunc("GET /api/shared/{token}", s.handleShared)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// events returns the sanitized snapshot for year, fetching from the provider
// when the cached one is stale.
func (s *Server) events(ctx context.Context, year int) (sanitize.Result, error) {
	s.mu.Lock()
	snap, ok := s.snapshots[year]
	s.mu.Unlock()
	if ok && time.Since(snap.fetchedAt) < snapshotTTL {
		return snap.result, nil
	}

	raw, err := s.source.EventsForYear(ctx, year)
	if err != nil {
		return sanitize.Result{}, err
	}
	result := sanitize.Run(raw)

	s.mu.Lock()
	s.snapshots[year] = snapshot{result: result, fetchedAt: time.Now()}
	s.mu.Unlock()
	return result, nil
}

func (s *Server) gridBuilder(year int) *grid.Builder {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.grids[year]
	if !ok {
		b = &grid.Builder{}
		s.grids[year] = b
	}
	return b
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
