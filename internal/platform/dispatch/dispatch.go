// Package dispatch serializes commands so that at most one mutating command
// runs at a time against the shared stores and allocator.
package dispatch

import (
	"context"
	"sync"
)

// Serializer runs commands under single-writer semantics. Exclusive blocks
// every other command for the duration of fn; Shared may overlap with other
// Shared calls but never with an Exclusive one.
type Serializer interface {
	Exclusive(ctx context.Context, fn func(context.Context) error) error
	Shared(ctx context.Context, fn func(context.Context) error) error
}

var _ Serializer = (*Local)(nil)

// Local serializes commands within one process.
type Local struct {
	mu sync.RWMutex
}

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Exclusive(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(ctx)
}

func (l *Local) Shared(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return fn(ctx)
}
