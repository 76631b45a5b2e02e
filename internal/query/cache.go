// Package query is a small process-wide cache for remote reads. Entries are
// addressed by hierarchical keys; invalidating a key prefix marks every
// matching entry stale and wakes the views subscribed to it, which refetch.
package query

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wethinkt/go-tripchat/internal/tuilog"
)

// Key addresses a cache entry, e.g. {"threads", resourceID}.
type Key []string

// String joins the path-escaped elements with "/", so an element that
// contains a slash cannot collide with a longer key.
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, el := range k {
		parts[i] = url.PathEscape(el)
	}
	return strings.Join(parts, "/")
}

// HasPrefix reports whether k starts with every element of prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Query describes how to load one cache entry.
type Query[T any] struct {
	Key Key
	Fn  func(ctx context.Context) (T, error)
}

type entry struct {
	key       Key
	value     any
	fetchedAt time.Time
	stale     bool
}

type subscriber struct {
	prefix Key
	ch     chan Key
}

// Client holds cached values. The zero value is not usable; call NewClient.
type Client struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]*entry
	// keys and gens track every key ever fetched. Invalidate bumps the
	// generation so a fetch that started before it does not store its result.
	keys    map[string]Key
	gens    map[string]uint64
	subs    map[int]*subscriber
	nextSub int
	group   singleflight.Group
}

// NewClient creates a cache. ttl bounds how long an entry is served without
// refetching; zero keeps entries until they are invalidated.
func NewClient(ttl time.Duration) *Client {
	return &Client{
		ttl:     ttl,
		entries: make(map[string]*entry),
		keys:    make(map[string]Key),
		gens:    make(map[string]uint64),
		subs:    make(map[int]*subscriber),
	}
}

// Fetch returns the cached value for q.Key when fresh, otherwise runs q.Fn.
// Concurrent fetches of the same key share one call. Errors are not cached.
func Fetch[T any](ctx context.Context, c *Client, q Query[T]) (T, error) {
	id := q.Key.String()

	if v, ok := c.lookup(id); ok {
		cacheHits.Inc()
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	cacheMisses.Inc()

	v, err, _ := c.group.Do(id, func() (any, error) {
		tuilog.Log.Debug("query: fetching", "key", id)
		gen := c.begin(q.Key)
		val, err := q.Fn(ctx)
		if err != nil {
			return nil, err
		}
		if !c.storeIfCurrent(q.Key, gen, val) {
			tuilog.Log.Debug("query: result invalidated during fetch", "key", id)
		}
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Peek returns the cached value for key without fetching, fresh or not.
func Peek[T any](c *Client, key Key) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var zero T
	e, ok := c.entries[key.String()]
	if !ok {
		return zero, false
	}
	v, ok := e.value.(T)
	return v, ok
}

// Set seeds the cache with a value, e.g. after a mutation returned it.
func Set[T any](c *Client, key Key, v T) {
	c.store(key, v)
}

func (c *Client) lookup(id string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	if !ok || e.stale {
		return nil, false
	}
	if c.ttl > 0 && time.Since(e.fetchedAt) > c.ttl {
		return nil, false
	}
	return e.value, true
}

// begin registers key and returns its current generation.
func (c *Client) begin(key Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := key.String()
	if _, ok := c.keys[id]; !ok {
		c.keys[id] = append(Key(nil), key...)
	}
	return c.gens[id]
}

// storeIfCurrent stores v unless key was invalidated after gen was taken.
func (c *Client) storeIfCurrent(key Key, gen uint64, v any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key.String()] != gen {
		return false
	}
	c.put(key, v)
	return true
}

func (c *Client) store(key Key, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(key, v)
}

func (c *Client) put(key Key, v any) {
	c.entries[key.String()] = &entry{
		key:       append(Key(nil), key...),
		value:     v,
		fetchedAt: time.Now(),
	}
}

// Invalidate marks every entry under prefix stale and notifies subscribers
// whose prefix overlaps it. Calling it repeatedly is harmless.
func (c *Client) Invalidate(prefix Key) {
	c.mu.Lock()
	n := 0
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			e.stale = true
			n++
		}
	}
	for id, k := range c.keys {
		if k.HasPrefix(prefix) {
			c.gens[id]++
			// Later fetches must not join a call that started before now.
			c.group.Forget(id)
		}
	}
	var notify []chan Key
	for _, s := range c.subs {
		if s.prefix.HasPrefix(prefix) || prefix.HasPrefix(s.prefix) {
			notify = append(notify, s.ch)
		}
	}
	c.mu.Unlock()

	cacheInvalidations.Inc()
	tuilog.Log.Debug("query: invalidated", "prefix", prefix.String(), "entries", n, "subscribers", len(notify))

	for _, ch := range notify {
		// A pending notification already means "refetch"; drop duplicates.
		select {
		case ch <- prefix:
		default:
		}
	}
}

// Subscribe returns a channel that receives a key whenever an invalidation
// touches prefix, and a func that ends the subscription.
func (c *Client) Subscribe(prefix Key) (<-chan Key, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	s := &subscriber{prefix: append(Key(nil), prefix...), ch: make(chan Key, 1)}
	c.subs[id] = s

	var once sync.Once
	return s.ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// Reset drops every entry.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	for id := range c.keys {
		c.gens[id]++
		c.group.Forget(id)
	}
}
