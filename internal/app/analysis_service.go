package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Alexeya-png/fitness-tracker-git/internal/domain"
	"github.com/google/uuid"
)

// DefaultAnalyzeTimeout bounds a single completion request.
const DefaultAnalyzeTimeout = 20 * time.Second

const fallbackTemplate = "Analysis for %s:\nCalories: 350 kcal\nProteins: 25 g\nFats: 12 g\nCarbs: 35 g\n(test data)"

// Completer produces a text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AnalysisService estimates the nutritional content of a meal description.
type AnalysisService struct {
	completer    Completer
	repo         domain.AnalysisRepository
	timeout      time.Duration
	storeTimeout time.Duration
	now          func() time.Time
}

// NewAnalysisService creates an AnalysisService. repo may be nil, in which
// case results are not kept.
func NewAnalysisService(completer Completer, repo domain.AnalysisRepository, timeout time.Duration) *AnalysisService {
	if timeout <= 0 {
		timeout = DefaultAnalyzeTimeout
	}
	return &AnalysisService{
		completer:    completer,
		repo:         repo,
		timeout:      timeout,
		storeTimeout: DefaultStoreTimeout,
		now:          time.Now,
	}
}

// WithStoreTimeout sets the deadline for repo calls. A non-positive d keeps
// DefaultStoreTimeout.
func (s *AnalysisService) WithStoreTimeout(d time.Duration) *AnalysisService {
	if d > 0 {
		s.storeTimeout = d
	}
	return s
}

func (s *AnalysisService) store(ctx context.Context, a domain.FoodAnalysis) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.repo.AddAnalysis(ctx, a)
}

// Prompt returns the completion prompt for a description.
func Prompt(description string) string {
	return "Estimate calories, protein, fat and carbohydrates for: " + description
}

// FallbackResult is returned when no estimate could be obtained.
func FallbackResult(description string) string {
	return fmt.Sprintf(fallbackTemplate, description)
}

// Analyze returns an estimate for description. Completion failures are
// logged and answered with FallbackResult; only a blank description is an
// error. Results for signed-in users (userID != 0) are stored.
func (s *AnalysisService) Analyze(ctx context.Context, userID int64, description string) (domain.FoodAnalysis, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return domain.FoodAnalysis{}, fmt.Errorf("%w: description is required", domain.ErrValidation)
	}

	a := domain.FoodAnalysis{
		ID:          uuid.New(),
		UserID:      userID,
		Description: description,
		CreatedAt:   s.now().UTC(),
	}

	result, err := s.complete(ctx, description)
	if err != nil {
		log.Printf("analyze food: using fallback: %v", err)
		a.Result = FallbackResult(description)
		a.Synthetic = true
	} else {
		a.Result = result
	}

	if userID != 0 && s.repo != nil {
		if err := s.store(ctx, a); err != nil {
			log.Printf("analyze food: store analysis %s: %v", a.ID, err)
		}
	}
	return a, nil
}

// Recent lists the user's stored analyses, newest first.
func (s *AnalysisService) Recent(ctx context.Context, userID int64, limit int) ([]domain.FoodAnalysis, error) {
	if s.repo == nil {
		return []domain.FoodAnalysis{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	items, err := s.repo.ListRecentAnalyses(ctx, userID, limit)
	if err != nil {
		return nil, storeError("list analyses", err)
	}
	if items == nil {
		items = []domain.FoodAnalysis{}
	}
	return items, nil
}

func (s *AnalysisService) complete(ctx context.Context, description string) (string, error) {
	if s.completer == nil {
		return "", domain.ErrAnalysisUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.completer.Complete(ctx, Prompt(description))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrAnalysisUnavailable, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrAnalysisUnavailable)
	}
	return out, nil
}
