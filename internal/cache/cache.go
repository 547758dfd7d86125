// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
)

// DefaultTTL is how long an entry is served before it must be refetched.
const DefaultTTL = 5 * time.Minute

// Entry represents a single cached payload.
type Entry struct {
	// Key is the resource key, for example "seasons" or
	// "projects/details/rec123".
	Key string
	// Data is the raw payload exactly as it was stored.
	Data []byte
	// Expiry is the instant from which the entry is stale.
	Expiry time.Time
}

// valid reports whether the entry may still be served at now.
func (e *Entry) valid(now time.Time) bool {
	return now.Before(e.Expiry)
}

// EntryState describes an entry for debugging output.
type EntryState struct {
	Key       string        `json:"key"`
	Size      int           `json:"size"`
	Expiry    time.Time     `json:"expiry"`
	ExpiresIn time.Duration `json:"expiresIn"`
	Valid     bool          `json:"valid"`
}

// State is a point-in-time snapshot of the cache.
type State struct {
	TTL     time.Duration `json:"ttl"`
	Hits    int64         `json:"hits"`
	Misses  int64         `json:"misses"`
	Entries []EntryState  `json:"entries"`
}

// Option customizes a Cache.
type Option func(*Cache)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// Cache maps resource keys to payloads that expire a fixed duration after
// they were stored. Entries are overwritten wholesale, never merged. There is
// no capacity bound; a stale entry lingers until the next Set for its key or
// an explicit Delete.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*Entry
	hits    int64
	misses  int64
	// gen counts invalidations. A reader that captured an older value must
	// not store what it fetched.
	gen uint64
}

// New creates a cache whose entries live for ttl. A non-positive ttl selects
// DefaultTTL.
func New(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*Entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the lifetime given to new entries.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the payload stored for key if it has not expired yet.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		log.Debugf("cache miss: %s", key)
		return nil, false
	}

	if !entry.valid(c.now()) {
		c.misses++
		log.Debugf("cache stale: %s (expired %s)", key, humanize.Time(entry.Expiry))
		return nil, false
	}

	c.hits++
	log.Debugf("cache hit: %s", key)
	return clone(entry.Data), true
}

// Set stores payload under key with an expiry of now + TTL, replacing any
// existing entry.
func (c *Cache) Set(key string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, payload)
}

// Generation returns the invalidation counter. It changes on every Delete,
// DeletePrefix and Clear.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// SetIfGeneration stores payload like Set unless the cache was invalidated
// after gen was read. It reports whether the payload was stored.
func (c *Cache) SetIfGeneration(key string, payload []byte, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		log.Debugf("cache store skipped: %s (invalidated in flight)", key)
		return false
	}
	c.set(key, payload)
	return true
}

func (c *Cache) set(key string, payload []byte) {
	c.entries[key] = &Entry{
		Key:    key,
		Data:   clone(payload),
		Expiry: c.now().Add(c.ttl),
	}
	log.Debugf("cache store: %s (%s)", key, humanize.Bytes(uint64(len(payload))))
}

// Delete drops the entry for key, if any.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	delete(c.entries, key)
}

// DeletePrefix drops every entry whose key begins with prefix and returns how
// many were removed.
func (c *Cache) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	removed := 0
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Clear drops every entry. Hit and miss counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.entries = make(map[string]*Entry)
}

// Len returns the number of stored entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// State returns a snapshot of the cache with entries sorted by key.
func (c *Cache) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	state := State{
		TTL:     c.ttl,
		Hits:    c.hits,
		Misses:  c.misses,
		Entries: make([]EntryState, 0, len(c.entries)),
	}
	for _, e := range c.entries {
		state.Entries = append(state.Entries, EntryState{
			Key:       e.Key,
			Size:      len(e.Data),
			Expiry:    e.Expiry,
			ExpiresIn: e.Expiry.Sub(now),
			Valid:     e.valid(now),
		})
	}
	sort.Slice(state.Entries, func(i, j int) bool {
		return state.Entries[i].Key < state.Entries[j].Key
	})
	return state
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
