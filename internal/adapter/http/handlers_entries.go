package adapthttp

import (
	"net/http"
	"strings"

	"github.com/Alexeya-png/fitness-tracker-git/internal/domain"
)

func (s *Server) handleEntriesToday(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := userFromContext(r.Context())
	today := s.clock.Today(user.ID)

	has, entry, err := s.entries.TodayStatus(r.Context(), user.ID, today)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	profile, err := s.entries.Profile(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"today":    today,
		"hasEntry": has,
		"entry":    entry,
		"profile":  profile,
	})
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listEntries(w, r)
	case http.MethodPost:
		s.saveEntry(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	limit := intQuery(r, "limit", 30)
	items, err := s.entries.History(r.Context(), user.ID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) saveEntry(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date          string `json:"date"`
		Calories      int    `json:"calories"`
		Proteins      int    `json:"proteins"`
		Fats          int    `json:"fats"`
		Carbs         int    `json:"carbs"`
		Water         int    `json:"water"`
		LimitExceeded bool   `json:"limitExceeded"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	user := userFromContext(r.Context())
	if body.Date == "" {
		body.Date = s.clock.Today(user.ID)
	}

	entry, profile, err := s.entries.SaveEntry(r.Context(), user.ID, domain.DailyEntry{
		Date:          body.Date,
		Calories:      body.Calories,
		Proteins:      body.Proteins,
		Fats:          body.Fats,
		Carbs:         body.Carbs,
		Water:         body.Water,
		LimitExceeded: body.LimitExceeded,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"entry": entry, "profile": profile})
}

func (s *Server) handleEntryByDate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	day := strings.TrimPrefix(r.URL.Path, "/entries/")

	user := userFromContext(r.Context())
	profile, err := s.entries.DeleteEntry(r.Context(), user.ID, day)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": day, "profile": profile})
}

func (s *Server) handleStreakRecompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := userFromContext(r.Context())
	profile, err := s.entries.RecomputeStreak(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := userFromContext(r.Context())
	sum, err := s.stats.Summary(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
