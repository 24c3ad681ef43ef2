package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Alexeya-png/fitness-tracker-git/internal/domain"
)

// DefaultStoreTimeout bounds each store call when no timeout is configured.
const DefaultStoreTimeout = 5 * time.Second

// EntryService owns the one-entry-per-day log and the streak kept on the
// profile.
type EntryService struct {
	entries  domain.EntryRepository
	profiles domain.ProfileRepository
	timeout  time.Duration
}

// NewEntryService creates an EntryService. A non-positive timeout uses
// DefaultStoreTimeout.
func NewEntryService(entries domain.EntryRepository, profiles domain.ProfileRepository, timeout time.Duration) *EntryService {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &EntryService{entries: entries, profiles: profiles, timeout: timeout}
}

// SaveEntry creates the entry for e.Date and advances the streak. It returns
// the stored entry and the updated profile.
func (s *EntryService) SaveEntry(ctx context.Context, userID int64, e domain.DailyEntry) (domain.DailyEntry, domain.Profile, error) {
	e.UserID = userID
	if err := e.Validate(); err != nil {
		return domain.DailyEntry{}, domain.Profile{}, err
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	existing, err := s.getEntry(ctx, userID, e.Date)
	if err != nil {
		return domain.DailyEntry{}, domain.Profile{}, err
	}
	if existing != nil {
		return domain.DailyEntry{}, domain.Profile{}, domain.ErrDuplicateEntry
	}

	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return domain.DailyEntry{}, domain.Profile{}, err
	}
	next := domain.AdvanceStreak(domain.StreakOf(&profile), e.Date, e.LimitExceeded)

	if err := s.putEntry(ctx, e); err != nil {
		return domain.DailyEntry{}, domain.Profile{}, err
	}

	if err := s.putProfile(ctx, userID, domain.StreakUpdate(next)); err != nil {
		// Undo the insert so the day can be logged again. The rollback must
		// outlive a cancelled request.
		if derr := s.deleteEntry(context.WithoutCancel(ctx), userID, e.Date); derr != nil {
			log.Printf("save entry: rollback of %s for user %d failed: %v", e.Date, userID, derr)
		}
		return domain.DailyEntry{}, domain.Profile{}, err
	}

	profile.Streak, profile.LastDate = next.Streak, next.LastDate
	return e, profile, nil
}

// DeleteEntry removes the entry for day, if any, and rebuilds the streak.
func (s *EntryService) DeleteEntry(ctx context.Context, userID int64, day string) (domain.Profile, error) {
	if _, err := domain.ParseDay(day); err != nil {
		return domain.Profile{}, err
	}
	if err := s.deleteEntry(ctx, userID, day); err != nil {
		return domain.Profile{}, err
	}
	return s.RecomputeStreak(ctx, userID)
}

// RecomputeStreak derives the streak from the full entry history and
// stores it on the profile.
func (s *EntryService) RecomputeStreak(ctx context.Context, userID int64) (domain.Profile, error) {
	entries, err := s.listEntries(ctx, userID, 0)
	if err != nil {
		return domain.Profile{}, err
	}
	state := domain.RebuildStreak(entries)

	if err := s.putProfile(ctx, userID, domain.StreakUpdate(state)); err != nil {
		return domain.Profile{}, err
	}

	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	profile.Streak, profile.LastDate = state.Streak, state.LastDate
	return profile, nil
}

// TodayStatus reports whether today already has an entry.
func (s *EntryService) TodayStatus(ctx context.Context, userID int64, today string) (bool, *domain.DailyEntry, error) {
	if _, err := domain.ParseDay(today); err != nil {
		return false, nil, err
	}
	e, err := s.getEntry(ctx, userID, today)
	if err != nil {
		return false, nil, err
	}
	return e != nil, e, nil
}

// History returns up to limit entries, newest date first.
func (s *EntryService) History(ctx context.Context, userID int64, limit int) ([]domain.DailyEntry, error) {
	return s.listEntries(ctx, userID, limit)
}

// Profile returns the user's profile. Users without one get an empty
// profile with no streak.
func (s *EntryService) Profile(ctx context.Context, userID int64) (domain.Profile, error) {
	return s.getProfile(ctx, userID)
}

func (s *EntryService) getEntry(ctx context.Context, userID int64, day string) (*domain.DailyEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	e, err := s.entries.GetEntry(ctx, userID, day)
	if err != nil {
		return nil, storeError("get entry", err)
	}
	return e, nil
}

func (s *EntryService) putEntry(ctx context.Context, e domain.DailyEntry) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.entries.PutEntry(ctx, e); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return domain.ErrDuplicateEntry
		}
		return storeError("put entry", err)
	}
	return nil
}

func (s *EntryService) listEntries(ctx context.Context, userID int64, limit int) ([]domain.DailyEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	entries, err := s.entries.ListEntries(ctx, userID, limit)
	if err != nil {
		return nil, storeError("list entries", err)
	}
	if entries == nil {
		entries = []domain.DailyEntry{}
	}
	return entries, nil
}

func (s *EntryService) deleteEntry(ctx context.Context, userID int64, day string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.entries.DeleteEntry(ctx, userID, day); err != nil {
		return storeError("delete entry", err)
	}
	return nil
}

func (s *EntryService) getProfile(ctx context.Context, userID int64) (domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return domain.Profile{}, storeError("get profile", err)
	}
	if p == nil {
		return domain.Profile{UserID: userID}, nil
	}
	return *p, nil
}

func (s *EntryService) putProfile(ctx context.Context, userID int64, u domain.ProfileUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.profiles.PutProfile(ctx, userID, u); err != nil {
		return storeError("put profile", err)
	}
	return nil
}

// storeError marks err as a store failure, keeping the cause in the chain.
func storeError(op string, err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
