package adapthttp

import (
	"fmt"
	"net/http"

	"github.com/Alexeya-png/fitness-tracker-git/internal/domain"
)

const defaultActivity = 1.2

type targetRequest struct {
	Weight   *float64 `json:"weight"`
	Height   *float64 `json:"height"`
	Age      *float64 `json:"age"`
	Gender   string   `json:"gender"`
	Activity *float64 `json:"activity"`
}

func (req targetRequest) metrics() (domain.BodyMetrics, error) {
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"weight", req.Weight},
		{"height", req.Height},
		{"age", req.Age},
	} {
		if f.v == nil || *f.v <= 0 {
			return domain.BodyMetrics{}, fmt.Errorf("%w: %s must be a positive number", domain.ErrValidation, f.name)
		}
	}

	gender := req.Gender
	if gender == "" {
		gender = "male"
	}
	if gender != "male" && gender != "female" {
		return domain.BodyMetrics{}, fmt.Errorf("%w: gender must be \"male\" or \"female\"", domain.ErrValidation)
	}

	activity := defaultActivity
	if req.Activity != nil {
		activity = *req.Activity
	}
	if activity <= 0 {
		return domain.BodyMetrics{}, fmt.Errorf("%w: activity must be > 0", domain.ErrValidation)
	}

	return domain.BodyMetrics{
		WeightKg: *req.Weight,
		HeightCm: *req.Height,
		AgeYears: *req.Age,
		Gender:   gender,
		Activity: activity,
	}, nil
}

func (s *Server) handleNutritionTarget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req targetRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	m, err := req.metrics()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	target := domain.ComputeTarget(m)
	p, f, c := domain.MacroCalories(target.Proteins, target.Fats, target.Carbs)
	writeJSON(w, http.StatusOK, map[string]any{
		"target":        target,
		"macroCalories": map[string]int{"proteins": p, "fats": f, "carbs": c},
	})
}
