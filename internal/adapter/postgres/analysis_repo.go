package postgres

import (
	"context"

	"github.com/Alexeya-png/fitness-tracker-git/internal/domain"
)

// AddAnalysis stores a food analysis.
func (d *DB) AddAnalysis(ctx context.Context, a domain.FoodAnalysis) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO food_analyses(id, user_id, description, result, synthetic, created_at) VALUES($1, $2, $3, $4, $5, $6);",
		a.ID, a.UserID, a.Description, a.Result, a.Synthetic, a.CreatedAt.UTC(),
	)
	return err
}

// ListRecentAnalyses returns the user's analyses newest first. A limit <= 0
// returns all.
func (d *DB) ListRecentAnalyses(ctx context.Context, userID int64, limit int) ([]domain.FoodAnalysis, error) {
	q := "SELECT id, description, result, synthetic, created_at FROM food_analyses WHERE user_id=$1 ORDER BY created_at DESC"
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

	out := make([]domain.FoodAnalysis, 0)
	for rows.Next() {
		var a domain.FoodAnalysis
		if err := rows.Scan(&a.ID, &a.Description, &a.Result, &a.Synthetic, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.UserID = userID
		out = append(out, a)
	}
	return out, rows.Err()
}
