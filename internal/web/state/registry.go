// Package state keeps the per-session console state of the web front end:
// the query cache and the open dialogs of each signed-in browser.
package state

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hankerbiao/Registration-System/internal/console/dialog"
	"github.com/hankerbiao/Registration-System/internal/console/query"
	"github.com/hankerbiao/Registration-System/internal/dependencies/clock"
)

// DefaultIdleTimeout is how long an unused entry is kept
const DefaultIdleTimeout = 30 * time.Minute

// Entry is the state of one session token
type Entry struct {
	Cache *query.Cache

	mu       sync.Mutex
	dialogs  map[string]*dialog.Dialog
	lastSeen time.Time
}

// Dialog returns the named dialog, creating it closed on first use
func (e *Entry) Dialog(name string) *dialog.Dialog {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, ok := e.dialogs[name]
	if !ok {
		d = dialog.New(nil)
		e.dialogs[name] = d
	}
	return d
}

// OpenDialogs returns the names of the dialogs currently open
func (e *Entry) OpenDialogs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var names []string
	for name, d := range e.dialogs {
		if d.IsOpen() {
			names = append(names, name)
		}
	}
	return names
}

// Registry maps session tokens to their entries
type Registry struct {
	mu      sync.Mutex
	entries map[string]*Entry
	idle    time.Duration
	clock   clock.Clock
	logger  *slog.Logger
}

// NewRegistry creates a registry that forgets entries unused for idle
func NewRegistry(logger *slog.Logger, idle time.Duration, clk clock.Clock) *Registry {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Registry{
		entries: make(map[string]*Entry),
		idle:    idle,
		clock:   clk,
		logger:  logger,
	}
}

// Get returns the entry for token, creating it if needed
func (r *Registry) Get(token string) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	e, ok := r.entries[token]
	if !ok {
		e = &Entry{Cache: query.NewCache(), dialogs: make(map[string]*dialog.Dialog)}
		r.entries[token] = e
	}
	e.mu.Lock()
	e.lastSeen = now
	e.mu.Unlock()
	return e
}

// Remove drops the entry for token
func (r *Registry) Remove(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, token)
}

// Len returns the number of entries
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep removes entries idle for longer than the idle timeout and returns
// how many were removed
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.clock.Now().Add(-r.idle)
	removed := 0
	for token, e := range r.entries {
		e.mu.Lock()
		expired := e.lastSeen.Before(cutoff)
		e.mu.Unlock()
		if expired {
			delete(r.entries, token)
			removed++
		}
	}

	if removed > 0 && r.logger != nil {
		r.logger.Info("console sessions cleaned up", slog.Int("count", removed))
	}
	return removed
}

// Run sweeps every interval until ctx is done
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
