// Package mutation runs console writes and keeps the cached reads they
// affect up to date.
package mutation

import (
	"context"
	"errors"
	"sync"

	"github.com/hankerbiao/Registration-System/internal/console/dialog"
	"github.com/hankerbiao/Registration-System/internal/console/query"
)

// ErrInFlight is returned by Mutate while an earlier call is still running
var ErrInFlight = errors.New("mutation already in flight")

// Invalidator marks cached reads stale
type Invalidator interface {
	Invalidate(prefix query.Key) int
}

// Gateway wraps one remote write. Exactly one of OnSuccess and OnError
// runs per call, followed by OnSettled and the invalidation of every key
// in Invalidates.
type Gateway[In, Out any] struct {
	Fn        func(ctx context.Context, in In) (Out, error)
	OnSuccess func(out Out)
	OnError   func(err error)
	OnSettled func()

	Cache       Invalidator
	Invalidates []query.Key

	// Dialog, if set, is held in the submitting state during the call and
	// closed when the call succeeds
	Dialog *dialog.Dialog

	mu       sync.Mutex
	inFlight bool
}

// New creates a gateway for fn that invalidates keys in cache once settled
func New[In, Out any](fn func(context.Context, In) (Out, error), cache Invalidator, keys ...query.Key) *Gateway[In, Out] {
	return &Gateway[In, Out]{Fn: fn, Cache: cache, Invalidates: keys}
}

// Mutate sends the write and runs the callbacks
func (g *Gateway[In, Out]) Mutate(ctx context.Context, in In) (Out, error) {
	var zero Out
	if !g.begin() {
		return zero, ErrInFlight
	}
	defer g.end()

	if g.Dialog != nil {
		if err := g.Dialog.BeginSubmit(); err != nil {
			if errors.Is(err, dialog.ErrSubmitting) {
				return zero, ErrInFlight
			}
			return zero, err
		}
	}

	out, err := g.Fn(ctx, in)

	if g.Dialog != nil {
		g.Dialog.EndSubmit(err == nil)
	}
	if err != nil {
		if g.OnError != nil {
			g.OnError(err)
		}
	} else if g.OnSuccess != nil {
		g.OnSuccess(out)
	}

	g.settle()
	return out, err
}

// Pending reports whether a call is in flight
func (g *Gateway[In, Out]) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight
}

func (g *Gateway[In, Out]) begin() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight {
		return false
	}
	g.inFlight = true
	return true
}

func (g *Gateway[In, Out]) end() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inFlight = false
}

func (g *Gateway[In, Out]) settle() {
	if g.OnSettled != nil {
		g.OnSettled()
	}
	if g.Cache == nil {
		return
	}
	for _, key := range g.Invalidates {
		g.Cache.Invalidate(key)
	}
}
