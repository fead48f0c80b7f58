package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/finanhome/internal/advisor"
	"github.com/Veraticus/finanhome/internal/auth"
	"github.com/Veraticus/finanhome/internal/common"
	"github.com/Veraticus/finanhome/internal/config"
	"github.com/Veraticus/finanhome/internal/engine"
	"github.com/Veraticus/finanhome/internal/llm"
	"github.com/Veraticus/finanhome/internal/storage"
	"github.com/Veraticus/finanhome/internal/store"
	"github.com/spf13/viper"
)

// errLocked is returned by data commands while the PIN gate is closed.
var errLocked = errors.New("dashboard is locked")

// initStorage opens the database at the configured path and migrates it.
func initStorage(ctx context.Context, app config.App) (*storage.SQLiteStorage, error) {
	db, err := storage.NewSQLiteStorage(app.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// session bundles everything a command needs: the resolved configuration,
// the database, the record store on top of it and the PIN gate.
type session struct {
	db    *storage.SQLiteStorage
	store *store.Store
	gate  *auth.Gate
	app   config.App
}

func openSession(ctx context.Context) (*session, error) {
	app, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	db, err := initStorage(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	gate, err := newGate(ctx, db, app)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &session{
		app:   app,
		db:    db,
		store: openStore(ctx, db, app),
		gate:  gate,
	}, nil
}

// openUnlockedSession is openSession for commands that read or change records.
func openUnlockedSession(ctx context.Context) (*session, error) {
	s, err := openSession(ctx)
	if err != nil {
		return nil, err
	}
	if !s.gate.Unlocked() {
		s.Close()
		return nil, common.NewUserError("🔒 Locked. Run 'hana unlock' first.", errLocked)
	}
	return s, nil
}

func (s *session) Close() {
	if err := s.db.Close(); err != nil {
		slog.Error("failed to close storage", "error", err)
	}
}

func openStore(ctx context.Context, db *storage.SQLiteStorage, app config.App) *store.Store {
	cfg := engine.DefaultConfig()
	cfg.AnnualGoal = app.AnnualGoal

	return store.Open(ctx, db, store.Options{
		Logger: slog.Default(),
		Engine: cfg,
	})
}

func newGate(ctx context.Context, db *storage.SQLiteStorage, app config.App) (*auth.Gate, error) {
	gate, err := auth.NewGate(ctx, db, auth.Options{
		Logger:   slog.Default(),
		PIN:      app.Auth.PIN,
		Disabled: !app.Auth.Required,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PIN gate: %w", err)
	}
	return gate, nil
}

// newAdvisor builds the advisory service. A provider that cannot be
// configured still yields a working service that always falls back.
func newAdvisor(app config.App) (*advisor.Service, error) {
	client, err := llm.NewClient(app.Advisor.LLM())
	if err != nil {
		slog.Debug("Advisory provider unavailable", "provider", app.Advisor.Provider, "error", err)
		client = llm.Unavailable(err)
	}

	return advisor.NewService(client, advisor.Options{
		Logger:     slog.Default(),
		Timeout:    app.Advisor.Timeout,
		MaxRetries: app.Advisor.MaxRetries,
		CacheTTL:   app.Advisor.CacheTTL,
		RateLimit:  app.Advisor.RateLimit,
	})
}
