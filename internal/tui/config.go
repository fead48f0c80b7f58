package tui

import (
	"context"

	"github.com/Veraticus/finanhome/internal/advisor"
	"github.com/Veraticus/finanhome/internal/store"
	"github.com/Veraticus/finanhome/internal/tui/themes"
)

// Gate is the PIN lock the dashboard sits behind.
type Gate interface {
	Unlocked() bool
	Unlock(ctx context.Context, pin string) error
	Lock(ctx context.Context) error
}

// Config holds TUI configuration.
type Config struct {
	Theme   themes.Theme
	Store   *store.Store
	Gate    Gate
	Advisor advisor.Advisor
	Width   int
	Height  int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		Width:  100,
		Height: 32,
	}
}

// WithStore sets the record store the dashboard reads from.
func WithStore(st *store.Store) Option {
	return func(c *Config) {
		c.Store = st
	}
}

// WithGate puts the dashboard behind a PIN prompt.
func WithGate(g Gate) Option {
	return func(c *Config) {
		c.Gate = g
	}
}

// WithAdvisor enables the advice key.
func WithAdvisor(a advisor.Advisor) Option {
	return func(c *Config) {
		c.Advisor = a
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}
