// Package service defines the interfaces shared between application layers.
package service

import (
	"context"
	"time"
)

// KV is the persistence contract for the record store: named slots holding
// one serialized payload each.
type KV interface {
	// Load returns the payload stored under key. ok is false when the slot
	// has never been written.
	Load(ctx context.Context, key string) (value []byte, ok bool, err error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
