package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Alexeya-png/fitness-tracker-git/internal/domain"
)

const entryColumns = "user_id, day, calories, proteins, fats, carbs, water, limit_exceeded, created_at"

// GetEntry returns the entry for day, or nil if none exists.
func (d *DB) GetEntry(ctx context.Context, userID int64, day string) (*domain.DailyEntry, error) {
	var e domain.DailyEntry
	err := d.sql.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM daily_entries WHERE user_id=$1 AND day=$2;",
		userID, day,
	).Scan(&e.UserID, &e.Date, &e.Calories, &e.Proteins, &e.Fats, &e.Carbs, &e.Water, &e.LimitExceeded, &e.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// PutEntry inserts a new entry. The (user_id, day) key rejects duplicates.
func (d *DB) PutEntry(ctx context.Context, e domain.DailyEntry) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO daily_entries ("+entryColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);",
		e.UserID, e.Date, e.Calories, e.Proteins, e.Fats, e.Carbs, e.Water, e.LimitExceeded, e.Timestamp.UTC(),
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEntry
	}
	return err
}

// ListEntries returns entries newest date first. A limit <= 0 returns all.
func (d *DB) ListEntries(ctx context.Context, userID int64, limit int) ([]domain.DailyEntry, error) {
	q := "SELECT " + entryColumns + " FROM daily_entries WHERE user_id=$1 ORDER BY day DESC"
	args := []any{userID}
	if limit > 0 {
		q += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := d.sql.QueryContext(ctx, q+";", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.DailyEntry, 0)
	for rows.Next() {
		var e domain.DailyEntry
		if err := rows.Scan(&e.UserID, &e.Date, &e.Calories, &e.Proteins, &e.Fats, &e.Carbs, &e.Water, &e.LimitExceeded, &e.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteEntry removes the entry for day if present.
func (d *DB) DeleteEntry(ctx context.Context, userID int64, day string) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM daily_entries WHERE user_id=$1 AND day=$2;", userID, day)
	return err
}
