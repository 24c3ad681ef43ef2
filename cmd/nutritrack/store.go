package main

import (
	"fmt"

	"github.com/Alexeya-png/fitness-tracker-git/internal/adapter/memory"
	"github.com/Alexeya-png/fitness-tracker-git/internal/adapter/postgres"
	"github.com/Alexeya-png/fitness-tracker-git/internal/adapter/sqlite"
	"github.com/Alexeya-png/fitness-tracker-git/internal/config"
	"github.com/Alexeya-png/fitness-tracker-git/internal/domain"
)

// store bundles the repositories of one backend.
type store struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	profiles domain.ProfileRepository
	entries  domain.EntryRepository
	analyses domain.AnalysisRepository
	close    func() error
}

func (s *store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func openStore(cfg config.Config) (*store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		db := memory.New()
		return &store{users: db, sessions: db.NewSessionRepo(), profiles: db, entries: db, analyses: db}, nil
	case config.StorePostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &store{users: db, sessions: postgres.NewSessionRepo(db), profiles: db, entries: db, analyses: db, close: db.Close}, nil
	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &store{users: db, sessions: sqlite.NewSessionRepo(db), profiles: db, entries: db, analyses: db, close: db.Close}, nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
