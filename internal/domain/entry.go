package domain

import (
	"context"
	"fmt"
	"time"
)

// DailyEntry is the single log entry a user may keep for a calendar date.
type DailyEntry struct {
	UserID        int64     `json:"userId"`
	Date          string    `json:"date"`
	Calories      int       `json:"calories"`
	Proteins      int       `json:"proteins"`
	Fats          int       `json:"fats"`
	Carbs         int       `json:"carbs"`
	Water         int       `json:"water"`
	LimitExceeded bool      `json:"limitExceeded"`
	Timestamp     time.Time `json:"timestamp"`
}

// Validate checks the date key and that all quantities are non-negative.
func (e DailyEntry) Validate() error {
	if _, err := ParseDay(e.Date); err != nil {
		return err
	}
	fields := []struct {
		name string
		v    int
	}{
		{"calories", e.Calories},
		{"proteins", e.Proteins},
		{"fats", e.Fats},
		{"carbs", e.Carbs},
		{"water", e.Water},
	}
	for _, f := range fields {
		if f.v < 0 {
			return fmt.Errorf("%w: %s must be >= 0", ErrValidation, f.name)
		}
	}
	return nil
}

// EntryRepository is the port for the date-keyed entry collection of a user.
type EntryRepository interface {
	// GetEntry returns (nil, nil) when there is no entry for day.
	GetEntry(ctx context.Context, userID int64, day string) (*DailyEntry, error)
	// PutEntry creates the entry. It returns ErrDuplicateEntry if one exists.
	PutEntry(ctx context.Context, e DailyEntry) error
	// ListEntries returns entries ordered by date descending. A limit <= 0
	// returns all of them.
	ListEntries(ctx context.Context, userID int64, limit int) ([]DailyEntry, error)
	// DeleteEntry removes the entry for day. Missing entries are not an error.
	DeleteEntry(ctx context.Context, userID int64, day string) error
}
