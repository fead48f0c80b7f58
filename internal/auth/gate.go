// Package auth implements the PIN gate in front of the dashboard. It is a
// convenience lock for a single-user app, not an access-control boundary: the
// unlocked flag is stored in plain form next to the data it guards.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Veraticus/finanhome/internal/common"
	"github.com/Veraticus/finanhome/internal/service"
	"github.com/Veraticus/finanhome/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPIN is used when none is configured.
const DefaultPIN = "2025"

// ErrWrongPIN is returned when an unlock attempt does not match.
var ErrWrongPIN = errors.New("incorrect PIN")

const unlockedValue = "true"

// Options configure a Gate.
type Options struct {
	Logger *slog.Logger
	PIN    string
	// Cost is the bcrypt cost; zero uses bcrypt.DefaultCost.
	Cost int
	// Disabled leaves the gate permanently open.
	Disabled bool
}

// Gate tracks whether the app is unlocked and persists that flag.
type Gate struct {
	kv       service.KV
	logger   *slog.Logger
	hash     []byte
	mu       sync.RWMutex
	unlocked bool
	disabled bool
}

// NewGate hashes the configured PIN and restores the persisted flag.
func NewGate(ctx context.Context, kv service.KV, opts Options) (*Gate, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	pin := strings.TrimSpace(opts.PIN)
	if pin == "" {
		pin = DefaultPIN
	}
	cost := opts.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return nil, fmt.Errorf("%w: pin: %v", common.ErrInvalidConfig, err)
	}

	g := &Gate{
		kv:       kv,
		logger:   opts.Logger,
		hash:     hash,
		disabled: opts.Disabled,
	}

	raw, ok, err := kv.Load(ctx, store.KeyAuth)
	switch {
	case err != nil:
		g.logger.Warn("Failed to load unlock flag, starting locked", "error", err)
	case ok:
		g.unlocked = strings.Trim(strings.TrimSpace(string(raw)), `"`) == unlockedValue
	}

	return g, nil
}

// Unlocked reports whether the dashboard may be shown.
func (g *Gate) Unlocked() bool {
	if g.disabled {
		return true
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.unlocked
}

// Unlock checks pin and, on a match, persists the unlocked flag.
func (g *Gate) Unlock(ctx context.Context, pin string) error {
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(strings.TrimSpace(pin))); err != nil {
		return ErrWrongPIN
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.unlocked = true

	if err := g.kv.Save(ctx, store.KeyAuth, []byte(unlockedValue)); err != nil {
		g.logger.Warn("Unlocked, but the flag was not saved", "error", err)
	}
	return nil
}

// Lock clears the unlocked flag.
func (g *Gate) Lock(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.unlocked = false

	if err := g.kv.Delete(ctx, store.KeyAuth); err != nil {
		return fmt.Errorf("failed to clear unlock flag: %w", err)
	}
	return nil
}
