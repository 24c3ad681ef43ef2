package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Alexeya-png/fitness-tracker-git/internal/domain"
)

// GetProfile returns the user's profile, or nil if none was written yet.
func (d *DB) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	var p domain.Profile
	err := d.sql.QueryRowContext(ctx,
		"SELECT user_id, name, email, streak, last_date, created_at FROM profiles WHERE user_id=$1;",
		userID,
	).Scan(&p.UserID, &p.Name, &p.Email, &p.Streak, &p.LastDate, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PutProfile upserts the profile, leaving columns for nil fields unchanged.
func (d *DB) PutProfile(ctx context.Context, userID int64, u domain.ProfileUpdate) error {
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO profiles (user_id, name, email, streak, last_date, created_at)
VALUES ($1, COALESCE($2::text, ''), COALESCE($3::text, ''), COALESCE($4::integer, 0), COALESCE($5::text, ''), $6)
ON CONFLICT (user_id) DO UPDATE SET
  name = COALESCE($2::text, profiles.name),
  email = COALESCE($3::text, profiles.email),
  streak = COALESCE($4::integer, profiles.streak),
  last_date = COALESCE($5::text, profiles.last_date);`,
		userID, nullString(u.Name), nullString(u.Email), nullInt(u.Streak), nullString(u.LastDate), time.Now().UTC(),
	)
	return err
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}
