package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/busyhub/busyhub/internal/achievements"
	"github.com/busyhub/busyhub/internal/aggregate"
	"github.com/busyhub/busyhub/internal/cache"
	"github.com/busyhub/busyhub/internal/history"
	"github.com/busyhub/busyhub/internal/insight"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// yearParam reads ?year=, defaulting to the current year.
func yearParam(r *http.Request) (int, bool) {
	value := r.URL.Query().Get("year")
	if value == "" {
		return time.Now().Year(), true
	}
	year, err := strconv.Atoi(value)
	if err != nil || year < 1 {
		return 0, false
	}
	return year, true
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	result, err := s.events(r.Context(), year)
	if err != nil {
		s.logger.Error("failed to fetch events", "error", err)
		s.writeError(w, http.StatusBadGateway, "failed to fetch events")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	result, err := s.events(r.Context(), year)
	if err != nil {
		s.logger.Error("failed to fetch events", "error", err)
		s.writeError(w, http.StatusBadGateway, "failed to fetch events")
		return
	}
	s.writeJSON(w, http.StatusOK, aggregate.Run(result.Confirmed))
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	result, err := s.events(r.Context(), year)
	if err != nil {
		s.logger.Error("failed to fetch events", "error", err)
		s.writeError(w, http.StatusBadGateway, "failed to fetch events")
		return
	}
	weeks := s.gridBuilder(year).Get(result.Daily, year)
	s.writeJSON(w, http.StatusOK, map[string]any{"year": year, "weeks": weeks})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	filter := history.Filter(r.URL.Query().Get("filter"))
	if filter == "" {
		filter = history.FilterAll
	}
	if !filter.Valid() {
		s.writeError(w, http.StatusBadRequest, "invalid filter")
		return
	}
	result, err := s.events(r.Context(), year)
	if err != nil {
		s.logger.Error("failed to fetch events", "error", err)
		s.writeError(w, http.StatusBadGateway, "failed to fetch events")
		return
	}
	// History only ever shows confirmed events; a cancelled meeting is not
	// part of what happened.
	s.writeJSON(w, http.StatusOK, s.grouper.Get(result.Confirmed, filter, time.Now()))
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	result, err := s.events(r.Context(), year)
	if err != nil {
		s.logger.Error("failed to fetch events", "error", err)
		s.writeError(w, http.StatusBadGateway, "failed to fetch events")
		return
	}
	s.writeJSON(w, http.StatusOK, achievements.Evaluate(result.Daily))
}

// insightResponse is the insight endpoint's payload: the derived statistics
// plus the generated analysis and its token cost.
type insightResponse struct {
	Data     any    `json:"data"`
	Analysis string `json:"analysis"`
	Usage    any    `json:"usage"`
	Cached   bool   `json:"cached"`
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	result, err := s.events(r.Context(), year)
	if err != nil {
		s.logger.Error("failed to fetch events", "error", err)
		s.writeError(w, http.StatusBadGateway, "failed to fetch events")
		return
	}

	data := insight.Synthesize(result.Confirmed, result.Daily, s.keywords)
	if data == nil {
		s.writeJSON(w, http.StatusOK, map[string]any{"data": nil})
		return
	}

	key := cache.Key(s.userEmail, data.Prompt)
	if entry, err := s.cache.Get(r.Context(), key); err != nil {
		s.logger.Error("cache read failed", "error", err)
	} else if entry != nil {
		s.writeJSON(w, http.StatusOK, insightResponse{
			Data:     data,
			Analysis: entry.Analysis,
			Usage: map[string]int{
				"promptTokens":     entry.PromptTokens,
				"completionTokens": entry.CompletionTokens,
				"totalTokens":      entry.TotalTokens,
			},
			Cached: true,
		})
		return
	}

	if s.aiClient == nil {
		s.writeError(w, http.StatusServiceUnavailable, "AI analysis is not configured")
		return
	}
	analysis, usage, err := s.aiClient.Analyze(r.Context(), data.Prompt)
	if err != nil {
		s.logger.Error("AI call failed", "error", err)
		s.writeError(w, http.StatusBadGateway, "failed to generate analysis")
		return
	}

	if err := s.cache.Set(r.Context(), key, cache.Entry{
		Analysis:         analysis,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
		UserEmail:        s.userEmail,
	}); err != nil {
		s.logger.Error("cache write failed", "error", err)
	}

	s.writeJSON(w, http.StatusOK, insightResponse{
		Data:     data,
		Analysis: analysis,
		Usage:    usage,
		Cached:   false,
	})
}
