package sqlite

import (
	"time"

	"github.com/Alexeya-png/fitness-tracker-git/internal/domain"
	"github.com/google/uuid"
)

type userRow struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null;default:''"`
	CreatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

func (r userRow) toDomain() *domain.User {
	return &domain.User{ID: r.ID, Username: r.Username, PasswordHash: r.PasswordHash, CreatedAt: r.CreatedAt}
}

type sessionRow struct {
	Token     string `gorm:"primaryKey"`
	UserID    int64  `gorm:"not null;index"`
	UserAgent string
	IP        string
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
}

func (sessionRow) TableName() string { return "sessions" }

type profileRow struct {
	UserID    int64 `gorm:"primaryKey;autoIncrement:false"`
	Name      string
	Email     string
	Streak    int
	LastDate  string
	CreatedAt time.Time
}

func (profileRow) TableName() string { return "profiles" }

func (r profileRow) toDomain() domain.Profile {
	return domain.Profile{
		UserID:    r.UserID,
		Name:      r.Name,
		Email:     r.Email,
		Streak:    r.Streak,
		LastDate:  r.LastDate,
		CreatedAt: r.CreatedAt,
	}
}

type entryRow struct {
	UserID        int64  `gorm:"primaryKey;autoIncrement:false"`
	Day           string `gorm:"primaryKey;size:10"`
	Calories      int
	Proteins      int
	Fats          int
	Carbs         int
	Water         int
	LimitExceeded bool
	CreatedAt     time.Time
}

func (entryRow) TableName() string { return "daily_entries" }

func newEntryRow(e domain.DailyEntry) entryRow {
	return entryRow{
		UserID:        e.UserID,
		Day:           e.Date,
		Calories:      e.Calories,
		Proteins:      e.Proteins,
		Fats:          e.Fats,
		Carbs:         e.Carbs,
		Water:         e.Water,
		LimitExceeded: e.LimitExceeded,
		CreatedAt:     e.Timestamp.UTC(),
	}
}

func (r entryRow) toDomain() domain.DailyEntry {
	return domain.DailyEntry{
		UserID:        r.UserID,
		Date:          r.Day,
		Calories:      r.Calories,
		Proteins:      r.Proteins,
		Fats:          r.Fats,
		Carbs:         r.Carbs,
		Water:         r.Water,
		LimitExceeded: r.LimitExceeded,
		Timestamp:     r.CreatedAt,
	}
}

type analysisRow struct {
	ID          string `gorm:"primaryKey;size:36"`
	UserID      int64  `gorm:"index:idx_analyses_user_created"`
	Description string
	Result      string
	Synthetic   bool
	CreatedAt   time.Time `gorm:"index:idx_analyses_user_created"`
}

func (analysisRow) TableName() string { return "food_analyses" }

func (r analysisRow) toDomain() domain.FoodAnalysis {
	id, _ := uuid.Parse(r.ID)
	return domain.FoodAnalysis{
		ID:          id,
		UserID:      r.UserID,
		Description: r.Description,
		Result:      r.Result,
		Synthetic:   r.Synthetic,
		CreatedAt:   r.CreatedAt,
	}
}
