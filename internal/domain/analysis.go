package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FoodAnalysis is a stored estimate for a free-text meal description.
// Synthetic is set when the placeholder estimate was returned.
type FoodAnalysis struct {
	ID          uuid.UUID `json:"id"`
	UserID      int64     `json:"userId"`
	Description string    `json:"description"`
	Result      string    `json:"result"`
	Synthetic   bool      `json:"synthetic"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AnalysisRepository is the port for stored food analyses.
type AnalysisRepository interface {
	AddAnalysis(ctx context.Context, a FoodAnalysis) error
	ListRecentAnalyses(ctx context.Context, userID int64, limit int) ([]FoodAnalysis, error)
}
