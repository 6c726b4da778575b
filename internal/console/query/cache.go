// Package query caches the results of console read operations and tracks
// which of them need to be fetched again.
package query

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Key identifies a cached read, e.g. Key{"athletes", 2}
type Key []any

func (k Key) String() string {
	parts := make([]string, len(k))
	for i, p := range k {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, "/")
}

// HasPrefix reports whether k starts with every element of prefix
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, p := range prefix {
		if fmt.Sprint(k[i]) != fmt.Sprint(p) {
			return false
		}
	}
	return true
}

// List names, the first element of their page keys
const (
	AthletesList = "athletes"
	UsersList    = "users"
)

// Well-known keys
var (
	AthletesKey    = Key{AthletesList}
	UsersKey       = Key{UsersList}
	CurrentUserKey = Key{"currentUser"}
)

type entry struct {
	key       Key
	value     any
	stale     bool
	fetchedAt time.Time
}

// Cache holds read results by key. It is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Get returns the value stored under key and whether it is stale
func (c *Cache) Get(key Key) (value any, stale bool, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key.String()]
	if !ok {
		return nil, false, false
	}
	return e.value, e.stale, true
}

// Set stores a fresh value under key
func (c *Cache) Set(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key.String()] = &entry{key: key, value: value, fetchedAt: c.now()}
}

// Invalidate marks every entry under prefix stale and returns how many
// entries it marked
func (c *Cache) Invalidate(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			e.stale = true
			n++
		}
	}
	return n
}

// Remove drops every entry under prefix
func (c *Cache) Remove(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			delete(c.entries, k)
		}
	}
}

// Clear drops every entry
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry)
}

// Fetch returns the fresh value cached under key, calling fn and caching
// its result when the entry is missing or stale
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) (T, error) {
	if v, stale, ok := c.Get(key); ok && !stale {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	v, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}
