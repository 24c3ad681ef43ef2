package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Alexeya-png/fitness-tracker-git/internal/adapter/memory"
	"github.com/Alexeya-png/fitness-tracker-git/internal/app"
	"github.com/Alexeya-png/fitness-tracker-git/internal/domain"
)

type mockEntryRepo struct {
	getFn    func(ctx context.Context, userID int64, day string) (*domain.DailyEntry, error)
	putFn    func(ctx context.Context, e domain.DailyEntry) error
	listFn   func(ctx context.Context, userID int64, limit int) ([]domain.DailyEntry, error)
	deleteFn func(ctx context.Context, userID int64, day string) error
}

func (m *mockEntryRepo) GetEntry(ctx context.Context, userID int64, day string) (*domain.DailyEntry, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID, day)
	}
	return nil, nil
}

func (m *mockEntryRepo) PutEntry(ctx context.Context, e domain.DailyEntry) error {
	if m.putFn != nil {
		return m.putFn(ctx, e)
	}
	return nil
}

func (m *mockEntryRepo) ListEntries(ctx context.Context, userID int64, limit int) ([]domain.DailyEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockEntryRepo) DeleteEntry(ctx context.Context, userID int64, day string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, day)
	}
	return nil
}

type mockProfileRepo struct {
	getFn func(ctx context.Context, userID int64) (*domain.Profile, error)
	putFn func(ctx context.Context, userID int64, u domain.ProfileUpdate) error
}

func (m *mockProfileRepo) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockProfileRepo) PutProfile(ctx context.Context, userID int64, u domain.ProfileUpdate) error {
	if m.putFn != nil {
		return m.putFn(ctx, userID, u)
	}
	return nil
}

func newMemoryEntryService() (*app.EntryService, *memory.DB) {
	db := memory.New()
	return app.NewEntryService(db, db, time.Second), db
}

func save(t *testing.T, svc *app.EntryService, day string, exceeded bool) domain.Profile {
	t.Helper()
	_, p, err := svc.SaveEntry(context.Background(), 1, domain.DailyEntry{Date: day, Calories: 1800, LimitExceeded: exceeded})
	if err != nil {
		t.Fatalf("SaveEntry(%s): %v", day, err)
	}
	return p
}

func TestSaveEntry_Duplicate(t *testing.T) {
	svc, db := newMemoryEntryService()
	save(t, svc, "2026-02-08", false)

	_, _, err := svc.SaveEntry(context.Background(), 1, domain.DailyEntry{Date: "2026-02-08", Calories: 900})
	if !errors.Is(err, domain.ErrDuplicateEntry) {
		t.Fatalf("expected ErrDuplicateEntry, got %v", err)
	}

	entries, _ := db.ListEntries(context.Background(), 1, 0)
	if len(entries) != 1 || entries[0].Calories != 1800 {
		t.Fatalf("expected the original entry only, got %+v", entries)
	}
	p, _ := db.GetProfile(context.Background(), 1)
	if p.Streak != 1 {
		t.Errorf("expected streak untouched at 1, got %d", p.Streak)
	}
}

func TestSaveEntry_Validation(t *testing.T) {
	svc, db := newMemoryEntryService()

	tests := []struct {
		name  string
		entry domain.DailyEntry
	}{
		{"bad date", domain.DailyEntry{Date: "08/02/2026"}},
		{"empty date", domain.DailyEntry{}},
		{"negative calories", domain.DailyEntry{Date: "2026-02-08", Calories: -1}},
		{"negative water", domain.DailyEntry{Date: "2026-02-08", Water: -5}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.SaveEntry(context.Background(), 1, tc.entry)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	entries, _ := db.ListEntries(context.Background(), 1, 0)
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
	if p, _ := db.GetProfile(context.Background(), 1); p != nil {
		t.Fatal("expected no profile to be written")
	}
}

func TestSaveEntry_StreakProgression(t *testing.T) {
	svc, _ := newMemoryEntryService()

	if p := save(t, svc, "2026-02-08", false); p.Streak != 1 {
		t.Fatalf("day 1: expected streak 1, got %d", p.Streak)
	}
	save(t, svc, "2026-02-09", false)
	p := save(t, svc, "2026-02-10", false)
	if p.Streak != 3 || p.LastDate != "2026-02-10" {
		t.Fatalf("expected streak 3 at 2026-02-10, got %d at %s", p.Streak, p.LastDate)
	}

	p = save(t, svc, "2026-02-12", false)
	if p.Streak != 1 || p.LastDate != "2026-02-12" {
		t.Fatalf("after gap: expected streak 1 at 2026-02-12, got %d at %s", p.Streak, p.LastDate)
	}
}

func TestSaveEntry_ExceededResets(t *testing.T) {
	svc, _ := newMemoryEntryService()
	save(t, svc, "2026-02-07", false)
	save(t, svc, "2026-02-08", false)

	p := save(t, svc, "2026-02-09", true)
	if p.Streak != 0 || p.LastDate != "2026-02-09" {
		t.Fatalf("expected streak 0 at 2026-02-09, got %d at %s", p.Streak, p.LastDate)
	}

	p = save(t, svc, "2026-02-10", false)
	if p.Streak != 1 {
		t.Fatalf("expected streak to restart at 1, got %d", p.Streak)
	}
}

func TestSaveEntry_KeepsProfileIdentity(t *testing.T) {
	svc, db := newMemoryEntryService()
	name := "Ann"
	_ = db.PutProfile(context.Background(), 1, domain.ProfileUpdate{Name: &name})

	p := save(t, svc, "2026-02-08", false)
	if p.Name != "Ann" {
		t.Errorf("expected name to survive, got %q", p.Name)
	}
	stored, _ := db.GetProfile(context.Background(), 1)
	if stored.Name != "Ann" || stored.Streak != 1 {
		t.Errorf("unexpected stored profile: %+v", stored)
	}
}

func TestDeleteEntry_Recomputes(t *testing.T) {
	svc, _ := newMemoryEntryService()
	save(t, svc, "2026-02-08", false)
	save(t, svc, "2026-02-09", false)
	save(t, svc, "2026-02-10", false)

	p, err := svc.DeleteEntry(context.Background(), 1, "2026-02-10")
	if err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if p.Streak != 2 || p.LastDate != "2026-02-09" {
		t.Fatalf("expected streak 2 at 2026-02-09, got %d at %s", p.Streak, p.LastDate)
	}

	// Removing the middle day breaks the run.
	save(t, svc, "2026-02-10", false)
	p, _ = svc.DeleteEntry(context.Background(), 1, "2026-02-09")
	if p.Streak != 1 || p.LastDate != "2026-02-10" {
		t.Fatalf("expected streak 1 at 2026-02-10, got %d at %s", p.Streak, p.LastDate)
	}
}

func TestDeleteEntry_All(t *testing.T) {
	svc, _ := newMemoryEntryService()
	save(t, svc, "2026-02-08", false)
	save(t, svc, "2026-02-09", false)

	_, _ = svc.DeleteEntry(context.Background(), 1, "2026-02-09")
	p, err := svc.DeleteEntry(context.Background(), 1, "2026-02-08")
	if err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if p.Streak != 0 || p.LastDate != "" {
		t.Fatalf("expected empty streak, got %d at %q", p.Streak, p.LastDate)
	}
}

func TestDeleteEntry_MissingStillRecomputes(t *testing.T) {
	putCalled := false
	entries := &mockEntryRepo{
		listFn: func(_ context.Context, _ int64, limit int) ([]domain.DailyEntry, error) {
			if limit != 0 {
				t.Fatalf("expected full history, got limit %d", limit)
			}
			return []domain.DailyEntry{{Date: "2026-02-09"}, {Date: "2026-02-08"}}, nil
		},
	}
	profiles := &mockProfileRepo{
		putFn: func(_ context.Context, _ int64, u domain.ProfileUpdate) error {
			putCalled = true
			if *u.Streak != 2 || *u.LastDate != "2026-02-09" {
				t.Fatalf("unexpected update: %d %s", *u.Streak, *u.LastDate)
			}
			if u.Name != nil || u.Email != nil {
				t.Fatal("expected only streak fields in update")
			}
			return nil
		},
	}
	svc := app.NewEntryService(entries, profiles, time.Second)

	if _, err := svc.DeleteEntry(context.Background(), 1, "2026-01-01"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !putCalled {
		t.Fatal("expected streak to be persisted")
	}
}

func TestDeleteEntry_InvalidDate(t *testing.T) {
	svc := app.NewEntryService(&mockEntryRepo{}, &mockProfileRepo{}, time.Second)
	if _, err := svc.DeleteEntry(context.Background(), 1, "yesterday"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRecomputeStreak_StopsAtExceeded(t *testing.T) {
	svc, db := newMemoryEntryService()
	ctx := context.Background()
	for _, e := range []domain.DailyEntry{
		{UserID: 1, Date: "2026-02-07"},
		{UserID: 1, Date: "2026-02-08", LimitExceeded: true},
		{UserID: 1, Date: "2026-02-09"},
		{UserID: 1, Date: "2026-02-10"},
	} {
		_ = db.PutEntry(ctx, e)
	}

	p, err := svc.RecomputeStreak(ctx, 1)
	if err != nil {
		t.Fatalf("RecomputeStreak: %v", err)
	}
	if p.Streak != 2 || p.LastDate != "2026-02-10" {
		t.Fatalf("expected streak 2 at 2026-02-10, got %d at %s", p.Streak, p.LastDate)
	}
}

func TestSaveEntry_ProfileWriteFailureRollsBack(t *testing.T) {
	db := memory.New()
	profiles := &mockProfileRepo{
		getFn: db.GetProfile,
		putFn: func(_ context.Context, _ int64, _ domain.ProfileUpdate) error {
			return errors.New("connection reset")
		},
	}
	svc := app.NewEntryService(db, profiles, time.Second)

	_, _, err := svc.SaveEntry(context.Background(), 1, domain.DailyEntry{Date: "2026-02-08"})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}

	e, _ := db.GetEntry(context.Background(), 1, "2026-02-08")
	if e != nil {
		t.Fatal("expected inserted entry to be removed")
	}
}

func TestSaveEntry_RollbackAfterCancel(t *testing.T) {
	db := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	entries := &mockEntryRepo{
		getFn: db.GetEntry,
		putFn: db.PutEntry,
		deleteFn: func(ctx context.Context, userID int64, day string) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return db.DeleteEntry(ctx, userID, day)
		},
	}
	profiles := &mockProfileRepo{
		getFn: db.GetProfile,
		putFn: func(ctx context.Context, _ int64, _ domain.ProfileUpdate) error {
			// Client goes away mid-request.
			cancel()
			return ctx.Err()
		},
	}
	svc := app.NewEntryService(entries, profiles, time.Second)

	_, _, err := svc.SaveEntry(ctx, 1, domain.DailyEntry{Date: "2026-02-08"})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}

	e, _ := db.GetEntry(context.Background(), 1, "2026-02-08")
	if e != nil {
		t.Fatal("expected inserted entry to be removed after cancellation")
	}

	// The day can be logged again.
	retry := app.NewEntryService(db, db, time.Second)
	if _, _, err := retry.SaveEntry(context.Background(), 1, domain.DailyEntry{Date: "2026-02-08"}); err != nil {
		t.Fatalf("expected day to be loggable again, got %v", err)
	}
}

func TestSaveEntry_StoreErrors(t *testing.T) {
	cause := errors.New("dial tcp: refused")

	tests := []struct {
		name     string
		entries  *mockEntryRepo
		profiles *mockProfileRepo
		want     error
	}{
		{
			name: "get entry fails",
			entries: &mockEntryRepo{getFn: func(_ context.Context, _ int64, _ string) (*domain.DailyEntry, error) {
				return nil, cause
			}},
			profiles: &mockProfileRepo{},
			want:     domain.ErrStoreUnavailable,
		},
		{
			name:    "get profile fails",
			entries: &mockEntryRepo{},
			profiles: &mockProfileRepo{getFn: func(_ context.Context, _ int64) (*domain.Profile, error) {
				return nil, cause
			}},
			want: domain.ErrStoreUnavailable,
		},
		{
			name: "insert races a duplicate",
			entries: &mockEntryRepo{putFn: func(_ context.Context, _ domain.DailyEntry) error {
				return domain.ErrDuplicateEntry
			}},
			profiles: &mockProfileRepo{},
			want:     domain.ErrDuplicateEntry,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := app.NewEntryService(tc.entries, tc.profiles, time.Second)
			_, _, err := svc.SaveEntry(context.Background(), 1, domain.DailyEntry{Date: "2026-02-08"})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if tc.want == domain.ErrStoreUnavailable && !errors.Is(err, cause) {
				t.Errorf("expected cause to be kept: %v", err)
			}
		})
	}
}

func TestSaveEntry_StoreTimeout(t *testing.T) {
	entries := &mockEntryRepo{
		getFn: func(ctx context.Context, _ int64, _ string) (*domain.DailyEntry, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	svc := app.NewEntryService(entries, &mockProfileRepo{}, 10*time.Millisecond)

	_, _, err := svc.SaveEntry(context.Background(), 1, domain.DailyEntry{Date: "2026-02-08"})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline in chain, got %v", err)
	}
}

func TestTodayStatus(t *testing.T) {
	svc, _ := newMemoryEntryService()

	has, _, err := svc.TodayStatus(context.Background(), 1, "2026-02-08")
	if err != nil {
		t.Fatalf("TodayStatus: %v", err)
	}
	if has {
		t.Fatal("expected no entry yet")
	}

	save(t, svc, "2026-02-08", false)
	has, e, _ := svc.TodayStatus(context.Background(), 1, "2026-02-08")
	if !has || e == nil || e.Date != "2026-02-08" {
		t.Fatalf("expected today's entry, got %v %+v", has, e)
	}
}

func TestHistory(t *testing.T) {
	svc, _ := newMemoryEntryService()
	save(t, svc, "2026-02-08", false)
	save(t, svc, "2026-02-09", false)
	save(t, svc, "2026-02-10", false)

	items, err := svc.History(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(items) != 2 || items[0].Date != "2026-02-10" {
		t.Fatalf("unexpected history: %+v", items)
	}

	empty, _ := svc.History(context.Background(), 42, 0)
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", empty)
	}
}
