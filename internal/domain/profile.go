package domain

import (
	"context"
	"time"
)

// Profile is the per-user document carrying identity and streak state.
// Streak is zero whenever LastDate is empty.
type Profile struct {
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Streak    int       `json:"streak"`
	LastDate  string    `json:"lastDate"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProfileUpdate is a partial profile. Nil fields are left untouched.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Streak   *int
	LastDate *string
}

// StreakUpdate builds a ProfileUpdate touching only the streak fields.
func StreakUpdate(s StreakState) ProfileUpdate {
	streak, last := s.Streak, s.LastDate
	return ProfileUpdate{Streak: &streak, LastDate: &last}
}

// Apply merges u into p.
func (u ProfileUpdate) Apply(p *Profile) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Streak != nil {
		p.Streak = *u.Streak
	}
	if u.LastDate != nil {
		p.LastDate = *u.LastDate
	}
}

// ProfileRepository is the port for profile documents.
type ProfileRepository interface {
	// GetProfile returns (nil, nil) when the user has no profile yet.
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	// PutProfile merges u into the stored profile, creating it if needed.
	PutProfile(ctx context.Context, userID int64, u ProfileUpdate) error
}
