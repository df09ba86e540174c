package prompt

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeCache struct {
	entries  map[string]string
	getErr   error
	setErr   error
	setCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.entries[key]
	if !ok {
		return "", ErrNotCached
	}
	return v, nil
}

func (c *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.setCalls++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = value
	return nil
}

type fakeStore struct {
	templates map[int]string
	err       error
	calls     int
}

func (s *fakeStore) Template(ctx context.Context, agentID int) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.templates[agentID], nil
}

func TestResolveCacheAside(t *testing.T) {
	cache := newFakeCache()
	store := &fakeStore{templates: map[int]string{1: "你是天气预报员"}}
	r := NewResolver(cache, store, time.Hour)

	ctx := context.Background()

	if got := r.Resolve(ctx, 1); got != "你是天气预报员" {
		t.Fatalf("unexpected template: %q", got)
	}
	if store.calls != 1 {
		t.Fatalf("expected exactly one store lookup, got %d", store.calls)
	}
	if cache.entries["agent:1:prompt"] != "你是天气预报员" {
		t.Fatalf("cache not populated: %+v", cache.entries)
	}

	// Second resolution must be served from the cache.
	if got := r.Resolve(ctx, 1); got != "你是天气预报员" {
		t.Fatalf("unexpected template on second call: %q", got)
	}
	if store.calls != 1 {
		t.Errorf("expected cached hit, store was queried %d times", store.calls)
	}
}

func TestResolveCachesEmptyTemplate(t *testing.T) {
	cache := newFakeCache()
	store := &fakeStore{templates: map[int]string{}}
	r := NewResolver(cache, store, time.Hour)

	ctx := context.Background()

	if got := r.Resolve(ctx, 7); got != "" {
		t.Fatalf("expected empty template, got %q", got)
	}
	if _, ok := cache.entries["agent:7:prompt"]; !ok {
		t.Fatal("empty template should be cached to suppress repeat lookups")
	}

	r.Resolve(ctx, 7)
	if store.calls != 1 {
		t.Errorf("negative cache miss: store queried %d times", store.calls)
	}
}

func TestResolveCacheOutageFallsThrough(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = cache.getErr
	store := &fakeStore{templates: map[int]string{1: "prompt"}}
	r := NewResolver(cache, store, time.Hour)

	if got := r.Resolve(context.Background(), 1); got != "prompt" {
		t.Fatalf("expected store fallback, got %q", got)
	}
}

func TestResolveStoreOutageDegrades(t *testing.T) {
	cache := newFakeCache()
	store := &fakeStore{err: errors.New("server selection timeout")}
	r := NewResolver(cache, store, time.Hour)

	if got := r.Resolve(context.Background(), 1); got != "" {
		t.Fatalf("expected empty degradation, got %q", got)
	}
	if cache.setCalls != 0 {
		t.Error("an outage result must not be cached")
	}
}

func TestResolveWithoutCollaborators(t *testing.T) {
	r := NewResolver(nil, nil, 0)
	if got := r.Resolve(context.Background(), 1); got != "" {
		t.Fatalf("expected empty template, got %q", got)
	}
}
