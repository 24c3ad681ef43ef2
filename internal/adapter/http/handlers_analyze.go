package adapthttp

import (
	"net/http"
)

func (s *Server) handleAnalyzeFood(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Description string `json:"description"`
	}
	if err := parseJSONLenient(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var userID int64
	if u := userFromContext(r.Context()); u != nil {
		userID = u.ID
	}

	a, err := s.analysis.Analyze(r.Context(), userID, body.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":        a.ID,
		"result":    a.Result,
		"synthetic": a.Synthetic,
	})
}

func (s *Server) handleAnalyses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user := userFromContext(r.Context())
	limit := intQuery(r, "limit", 20)
	items, err := s.analysis.Recent(r.Context(), user.ID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
