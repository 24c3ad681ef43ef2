// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Alexeya-png/fitness-tracker-git/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	users    []*domain.User
	sessions map[string]*domain.Session
	profiles map[int64]domain.Profile
	entries  map[int64]map[string]domain.DailyEntry
	analyses []domain.FoodAnalysis

	userIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
		profiles: make(map[int64]domain.Profile),
		entries:  make(map[int64]map[string]domain.DailyEntry),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.ProfileRepository = (*DB)(nil)
var _ domain.EntryRepository = (*DB)(nil)
var _ domain.AnalysisRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- ProfileRepository ---

// GetProfile returns a copy of the user's profile.
func (db *DB) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// PutProfile merges u into the user's profile.
func (db *DB) PutProfile(ctx context.Context, userID int64, u domain.ProfileUpdate) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.profiles[userID]
	if !ok {
		p = domain.Profile{UserID: userID, CreatedAt: time.Now().UTC()}
	}
	u.Apply(&p)
	db.profiles[userID] = p
	return nil
}

// --- EntryRepository ---

// GetEntry returns the entry for day.
func (db *DB) GetEntry(ctx context.Context, userID int64, day string) (*domain.DailyEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	e, ok := db.entries[userID][day]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// PutEntry stores a new entry keyed by its date.
func (db *DB) PutEntry(ctx context.Context, e domain.DailyEntry) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	days, ok := db.entries[e.UserID]
	if !ok {
		days = make(map[string]domain.DailyEntry)
		db.entries[e.UserID] = days
	}
	if _, exists := days[e.Date]; exists {
		return domain.ErrDuplicateEntry
	}
	e.Timestamp = e.Timestamp.UTC()
	days[e.Date] = e
	return nil
}

// ListEntries lists the user's entries, newest date first.
func (db *DB) ListEntries(ctx context.Context, userID int64, limit int) ([]domain.DailyEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.DailyEntry, 0, len(db.entries[userID]))
	for _, e := range db.entries[userID] {
		result = append(result, e)
	}

	// ISO dates sort lexically.
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date > result[j].Date
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// DeleteEntry deletes the entry for day if present.
func (db *DB) DeleteEntry(ctx context.Context, userID int64, day string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	delete(db.entries[userID], day)
	return nil
}

// --- AnalysisRepository ---

// AddAnalysis stores a food analysis.
func (db *DB) AddAnalysis(ctx context.Context, a domain.FoodAnalysis) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	a.CreatedAt = a.CreatedAt.UTC()
	db.analyses = append(db.analyses, a)
	return nil
}

// ListRecentAnalyses lists the user's most recent analyses.
func (db *DB) ListRecentAnalyses(ctx context.Context, userID int64, limit int) ([]domain.FoodAnalysis, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.FoodAnalysis, 0)
	for _, a := range db.analyses {
		if a.UserID == userID {
			result = append(result, a)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	// Return nil if not found
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, errors.New("user already exists")
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		if time.Now().After(s.ExpiresAt) {
			delete(r.db.sessions, token)
			return nil, nil
		}
		return s, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
