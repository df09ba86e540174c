// Package prompt resolves per-agent prompt templates with a cache-aside
// lookup: a fast cache in front of the durable agent store, with negative
// caching so agents without a configured prompt do not hammer the store.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// ErrNotCached is returned by a Cache when the key has no live entry.
var ErrNotCached = errors.New("prompt not cached")

// Cache is a key/value store with per-key expiry (Redis in production).
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Store is the durable home of agent documents (Mongo in production).
type Store interface {
	Template(ctx context.Context, agentID int) (string, error)
}

// Resolver performs the cache-aside lookup. Either collaborator may be nil:
// without a cache every call goes to the store, without a store resolution
// degrades to the empty template.
type Resolver struct {
	cache Cache
	store Store
	ttl   time.Duration
}

// DefaultTTL is the freshness window for cached templates.
const DefaultTTL = time.Hour

// NewResolver creates a Resolver. A ttl of zero means DefaultTTL.
func NewResolver(cache Cache, store Store, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Resolver{cache: cache, store: store, ttl: ttl}
}

func cacheKey(agentID int) string {
	return fmt.Sprintf("agent:%d:prompt", agentID)
}

// Resolve returns the template text for an agent. An empty string is a valid
// resolution: it is cached like any other value and means the agent runs with
// no system instruction.
func (r *Resolver) Resolve(ctx context.Context, agentID int) string {
	key := cacheKey(agentID)

	if r.cache != nil {
		cached, err := r.cache.Get(ctx, key)
		if err == nil {
			return cached
		}
		if !errors.Is(err, ErrNotCached) {
			// Cache outage: fall through to the store.
			log.Printf("prompt: cache get failed for agent %d: %v", agentID, err)
		}
	}

	var tmpl string
	if r.store != nil {
		t, err := r.store.Template(ctx, agentID)
		if err != nil {
			// Store outage degrades to an empty template. Do not cache it:
			// the outage would otherwise shadow the real template for a
			// whole freshness window after recovery.
			log.Printf("prompt: store lookup failed for agent %d: %v", agentID, err)
			return ""
		}
		tmpl = t
	}

	if r.cache != nil {
		// Empty templates are cached too, so agents with no configured
		// prompt do not trigger a store lookup on every call.
		if err := r.cache.Set(ctx, key, tmpl, r.ttl); err != nil {
			log.Printf("prompt: cache set failed for agent %d: %v", agentID, err)
		}
	}

	return tmpl
}
