package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/Alexeya-png/fitness-tracker-git/internal/domain"
	"gorm.io/gorm"
)

// --- ProfileRepository ---

// GetProfile returns the user's profile, or nil if none was written yet.
func (d *DB) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	var row profileRow
	err := d.gorm.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := row.toDomain()
	return &p, nil
}

// PutProfile merges u into the stored profile inside a transaction.
func (d *DB) PutProfile(ctx context.Context, userID int64, u domain.ProfileUpdate) error {
	return d.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := profileRow{UserID: userID, CreatedAt: time.Now().UTC()}
		err := tx.Where("user_id = ?", userID).First(&row).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		p := row.toDomain()
		u.Apply(&p)
		row.Name, row.Email, row.Streak, row.LastDate = p.Name, p.Email, p.Streak, p.LastDate
		return tx.Save(&row).Error
	})
}

// --- EntryRepository ---

// GetEntry returns the entry for day, or nil if none exists.
func (d *DB) GetEntry(ctx context.Context, userID int64, day string) (*domain.DailyEntry, error) {
	var row entryRow
	result := d.gorm.WithContext(ctx).Where("user_id = ? AND day = ?", userID, day).Limit(1).Find(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	e := row.toDomain()
	return &e, nil
}

// PutEntry inserts a new entry, rejecting a second one for the same day.
func (d *DB) PutEntry(ctx context.Context, e domain.DailyEntry) error {
	err := d.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entryRow{}).Where("user_id = ? AND day = ?", e.UserID, e.Date).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrDuplicateEntry
		}
		row := newEntryRow(e)
		return tx.Create(&row).Error
	})
	if isDuplicate(err) {
		return domain.ErrDuplicateEntry
	}
	return err
}

// ListEntries returns entries newest date first. A limit <= 0 returns all.
func (d *DB) ListEntries(ctx context.Context, userID int64, limit int) ([]domain.DailyEntry, error) {
	query := d.gorm.WithContext(ctx).Where("user_id = ?", userID).Order("day DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	rows := make([]entryRow, 0)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.DailyEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// DeleteEntry removes the entry for day if present.
func (d *DB) DeleteEntry(ctx context.Context, userID int64, day string) error {
	return d.gorm.WithContext(ctx).Where("user_id = ? AND day = ?", userID, day).Delete(&entryRow{}).Error
}

// --- AnalysisRepository ---

// AddAnalysis stores a food analysis.
func (d *DB) AddAnalysis(ctx context.Context, a domain.FoodAnalysis) error {
	row := analysisRow{
		ID:          a.ID.String(),
		UserID:      a.UserID,
		Description: a.Description,
		Result:      a.Result,
		Synthetic:   a.Synthetic,
		CreatedAt:   a.CreatedAt.UTC(),
	}
	return d.gorm.WithContext(ctx).Create(&row).Error
}

// ListRecentAnalyses returns the user's analyses newest first. A limit <= 0
// returns all.
func (d *DB) ListRecentAnalyses(ctx context.Context, userID int64, limit int) ([]domain.FoodAnalysis, error) {
	query := d.gorm.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	rows := make([]analysisRow, 0)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.FoodAnalysis, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (d *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var row userRow
	err := d.gorm.WithContext(ctx).Where("username = ?", username).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// GetByID retrieves a user by ID.
func (d *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var row userRow
	err := d.gorm.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// Create creates a new user.
func (d *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	row := userRow{Username: username, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	if err := d.gorm.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence on DB.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	row := sessionRow{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: time.Now().UTC(),
	}
	return r.db.gorm.WithContext(ctx).Create(&row).Error
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	var row sessionRow
	err := r.db.gorm.WithContext(ctx).Where("token = ?", token).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		Token:     row.Token,
		UserID:    row.UserID,
		UserAgent: row.UserAgent,
		IP:        row.IP,
		ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CreatedAt,
	}, nil
}

// Delete deletes a session by token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	return r.db.gorm.WithContext(ctx).Where("token = ?", token).Delete(&sessionRow{}).Error
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	return r.db.gorm.WithContext(ctx).Where("expires_at < ?", time.Now().UTC()).Delete(&sessionRow{}).Error
}
