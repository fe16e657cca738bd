package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/busyhub/busyhub/internal/achievements"
	"github.com/busyhub/busyhub/internal/aggregate"
	"github.com/busyhub/busyhub/internal/models"
)

// shareTTL bounds how long a minted share link stays servable.
const shareTTL = 7 * 24 * time.Hour

// shareSnapshot freezes the derived structures at mint time so shared
// dashboards do not change after the fact.
type shareSnapshot struct {
	Year         int                 `json:"year"`
	Stats        aggregate.Stats     `json:"stats"`
	Weeks        []models.GridWeek   `json:"weeks"`
	Achievements models.Achievements `json:"achievements"`
	CreatedAt    time.Time           `json:"createdAt"`
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
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

	snap := shareSnapshot{
		Year:         year,
		Stats:        aggregate.Run(result.Confirmed),
		Weeks:        s.gridBuilder(year).Get(result.Daily, year),
		Achievements: achievements.Evaluate(result.Daily),
		CreatedAt:    time.Now(),
	}

	token := uuid.NewString()
	s.shareMu.Lock()
	for t, existing := range s.shares {
		if time.Since(existing.CreatedAt) > shareTTL {
			delete(s.shares, t)
		}
	}
	s.shares[token] = snap
	s.shareMu.Unlock()

	s.logger.Info("minted share link", "year", year, "token", token)
	s.writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleShared(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	s.shareMu.Lock()
	snap, ok := s.shares[token]
	s.shareMu.Unlock()

	if !ok || time.Since(snap.CreatedAt) > shareTTL {
		s.writeError(w, http.StatusNotFound, "share link not found or expired")
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}
