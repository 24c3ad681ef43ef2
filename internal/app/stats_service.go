package app

import (
	"context"
	"sort"

	"github.com/Alexeya-png/fitness-tracker-git/internal/domain"
)

// StatsService aggregates a user's entry history.
type StatsService struct {
	entries *EntryService
}

// NewStatsService creates a StatsService reading through entries.
func NewStatsService(entries *EntryService) *StatsService {
	return &StatsService{entries: entries}
}

// Averages holds per-day averages, rounded half up.
type Averages struct {
	Calories int `json:"calories"`
	Proteins int `json:"proteins"`
	Fats     int `json:"fats"`
	Carbs    int `json:"carbs"`
	Water    int `json:"water"`
}

// MacroCalories is the calorie contribution of the average macros.
type MacroCalories struct {
	Proteins int `json:"proteins"`
	Fats     int `json:"fats"`
	Carbs    int `json:"carbs"`
}

// DayPoint is a single day in Summary.Series.
type DayPoint struct {
	Date          string `json:"date"`
	Calories      int    `json:"calories"`
	Proteins      int    `json:"proteins"`
	Fats          int    `json:"fats"`
	Carbs         int    `json:"carbs"`
	Water         int    `json:"water"`
	LimitExceeded bool   `json:"limitExceeded"`
}

// Summary is the statistics view of a user's history.
type Summary struct {
	Days          int           `json:"days"`
	ExceededDays  int           `json:"exceededDays"`
	Averages      Averages      `json:"averages"`
	MacroCalories MacroCalories `json:"macroCalories"`
	Streak        int           `json:"streak"`
	LastDate      string        `json:"lastDate"`
	Series        []DayPoint    `json:"series"`
}

// Summary computes the statistics for all of the user's entries.
func (s *StatsService) Summary(ctx context.Context, userID int64) (Summary, error) {
	entries, err := s.entries.History(ctx, userID, 0)
	if err != nil {
		return Summary{}, err
	}
	profile, err := s.entries.Profile(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	sum := Summarize(entries)
	sum.Streak, sum.LastDate = profile.Streak, profile.LastDate
	return sum, nil
}

// Summarize aggregates entries in any order. Streak fields are left empty.
func Summarize(entries []domain.DailyEntry) Summary {
	byDate := make(map[string]domain.DailyEntry, len(entries))
	for _, e := range entries {
		byDate[e.Date] = e
	}

	sum := Summary{Series: make([]DayPoint, 0, len(byDate))}
	var cal, prot, fat, carb, water int
	for _, e := range byDate {
		cal += e.Calories
		prot += e.Proteins
		fat += e.Fats
		carb += e.Carbs
		water += e.Water
		if e.LimitExceeded {
			sum.ExceededDays++
		}
		sum.Series = append(sum.Series, DayPoint{
			Date:          e.Date,
			Calories:      e.Calories,
			Proteins:      e.Proteins,
			Fats:          e.Fats,
			Carbs:         e.Carbs,
			Water:         e.Water,
			LimitExceeded: e.LimitExceeded,
		})
	}
	sort.Slice(sum.Series, func(i, j int) bool {
		return sum.Series[i].Date < sum.Series[j].Date
	})

	sum.Days = len(byDate)
	if sum.Days == 0 {
		return sum
	}

	n := float64(sum.Days)
	sum.Averages = Averages{
		Calories: domain.RoundHalfUp(float64(cal) / n),
		Proteins: domain.RoundHalfUp(float64(prot) / n),
		Fats:     domain.RoundHalfUp(float64(fat) / n),
		Carbs:    domain.RoundHalfUp(float64(carb) / n),
		Water:    domain.RoundHalfUp(float64(water) / n),
	}
	p, f, c := domain.MacroCalories(sum.Averages.Proteins, sum.Averages.Fats, sum.Averages.Carbs)
	sum.MacroCalories = MacroCalories{Proteins: p, Fats: f, Carbs: c}
	return sum
}
