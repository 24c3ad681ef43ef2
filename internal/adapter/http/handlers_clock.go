package adapthttp

import (
	"net/http"
)

func (s *Server) clockState(userID int64) map[string]any {
	return map[string]any{
		"today":     s.clock.Today(userID),
		"offset":    s.clock.Offset(userID),
		"simulated": s.simulatedClock,
	}
}

func (s *Server) handleClock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.clockState(userFromContext(r.Context()).ID))
}

func (s *Server) handleClockAdvance(w http.ResponseWriter, r *http.Request) {
	if !s.simulatedClock {
		http.Error(w, "simulated clock disabled", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := userFromContext(r.Context())
	s.clock.Advance(user.ID)
	writeJSON(w, http.StatusOK, s.clockState(user.ID))
}

func (s *Server) handleClockReset(w http.ResponseWriter, r *http.Request) {
	if !s.simulatedClock {
		http.Error(w, "simulated clock disabled", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := userFromContext(r.Context())
	s.clock.Reset(user.ID)
	writeJSON(w, http.StatusOK, s.clockState(user.ID))
}
